package server

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cstsite/internal/mailer"
	"cstsite/internal/models"
	"cstsite/internal/store"
	"cstsite/internal/upload"
)

// ApplicationService owns the job-application lifecycle.
type ApplicationService struct {
	store        *store.Store
	mail         *mailer.Mailer
	resumeStrict bool
}

func NewApplicationService(st *store.Store, mail *mailer.Mailer, resumeStrict bool) *ApplicationService {
	return &ApplicationService{store: st, mail: mail, resumeStrict: resumeStrict}
}

// Submit persists a new application. A resume that fails the upload policy
// is dropped with a warning by default; in strict mode it fails the whole
// submission instead.
func (a *ApplicationService) Submit(ctx context.Context, sub applicationSubmission, resume *models.Attachment) (*models.JobApplication, string, error) {
	if err := sub.validate(); err != nil {
		return nil, "", err
	}

	var warning string
	if resume != nil {
		candidate := upload.Candidate{
			OriginalName: resume.OriginalName,
			ContentType:  resume.ContentType,
			SizeBytes:    resume.SizeBytes,
		}
		if rej := upload.StoredFilePolicy().CheckOne(candidate); rej != nil {
			if a.resumeStrict {
				return nil, "", uploadError([]upload.Rejection{*rej})
			}
			warning = "resume was not saved: " + rej.Message
			resume = nil
		}
	}

	app := &models.JobApplication{
		ID:          uuid.NewString(),
		FullName:    sub.FullName,
		Email:       sub.Email,
		Phone:       sub.Phone,
		Position:    sub.Position,
		Experience:  sub.Experience,
		CoverLetter: sub.CoverLetter,
		Resume:      resume,
		Status:      models.ApplicationStatusPending,
	}
	if err := a.store.CreateApplication(ctx, app); err != nil {
		return nil, "", storeFailure(err)
	}

	a.mail.ApplicationReceived(app)
	return app, warning, nil
}

// List returns one page of applications, optionally filtered by status and
// position, with resume bytes and reply payloads stripped.
func (a *ApplicationService) List(ctx context.Context, statusRaw, position string, page, pageSize int) ([]models.JobApplication, int64, error) {
	var status models.ApplicationStatus
	if statusRaw != "" {
		parsed, err := models.ParseApplicationStatus(statusRaw)
		if err != nil {
			return nil, 0, badRequestCode(err, ErrCodeInvalidStatus)
		}
		status = parsed
	}

	apps, total, err := a.store.ListApplications(ctx, status, position, page, pageSize)
	if err != nil {
		return nil, 0, storeFailure(err)
	}
	for i := range apps {
		stripApplication(&apps[i])
	}
	return apps, total, nil
}

// Get returns one application without resume bytes.
func (a *ApplicationService) Get(ctx context.Context, id string) (*models.JobApplication, error) {
	app, err := a.store.GetApplicationMeta(ctx, id)
	if err != nil {
		return nil, storeFailure(err)
	}
	if app == nil {
		return nil, notFoundCode(fmt.Errorf("application not found"), ErrCodeApplicationNotFound)
	}
	stripApplication(app)
	return app, nil
}

// UpdateStatus transitions an application and tells the applicant.
func (a *ApplicationService) UpdateStatus(ctx context.Context, id, statusRaw string, notes *string, now time.Time) (*models.JobApplication, error) {
	status, err := models.ParseApplicationStatus(statusRaw)
	if err != nil {
		return nil, badRequestCode(err, ErrCodeInvalidStatus)
	}

	app, err := a.store.UpdateApplicationStatus(ctx, id, status, notes, now)
	if err != nil {
		return nil, storeFailure(err)
	}
	if app == nil {
		return nil, notFoundCode(fmt.Errorf("application not found"), ErrCodeApplicationNotFound)
	}

	a.mail.ApplicationStatusChanged(app)
	stripApplication(app)
	return app, nil
}

// Reply appends an immutable admin reply. The application status changes
// only when the caller supplies one; a plain reply leaves it untouched.
func (a *ApplicationService) Reply(ctx context.Context, id, message string, attachments []models.Attachment, statusRaw, sentBy string, now time.Time) (*models.JobApplication, error) {
	message, err := validateReplyMessage(message)
	if err != nil {
		return nil, err
	}

	var newStatus *models.ApplicationStatus
	if statusRaw != "" {
		parsed, err := models.ParseApplicationStatus(statusRaw)
		if err != nil {
			return nil, badRequestCode(err, ErrCodeInvalidStatus)
		}
		newStatus = &parsed
	}

	reply := models.Reply{
		Message:     message,
		Attachments: attachments,
		SentBy:      sentBy,
		SentAt:      now,
	}
	app, err := a.store.AppendApplicationReply(ctx, id, reply, newStatus)
	if err != nil {
		return nil, storeFailure(err)
	}
	if app == nil {
		return nil, notFoundCode(fmt.Errorf("application not found"), ErrCodeApplicationNotFound)
	}

	a.mail.ApplicationReply(app, reply)
	if newStatus != nil {
		a.mail.ApplicationStatusChanged(app)
	}
	stripApplication(app)
	return app, nil
}

// Delete removes one application; the embedded resume goes with it.
func (a *ApplicationService) Delete(ctx context.Context, id string) error {
	ok, err := a.store.DeleteApplication(ctx, id)
	if err != nil {
		return storeFailure(err)
	}
	if !ok {
		return notFoundCode(fmt.Errorf("application not found"), ErrCodeApplicationNotFound)
	}
	return nil
}

// DeleteMany removes a batch of applications, tolerating missing ids.
func (a *ApplicationService) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	deleted, err := a.store.DeleteApplications(ctx, ids)
	if err != nil {
		return 0, storeFailure(err)
	}
	return deleted, nil
}

// Resume returns the embedded resume with its bytes, for download.
func (a *ApplicationService) Resume(ctx context.Context, id string) (*models.Attachment, error) {
	app, err := a.store.GetApplication(ctx, id)
	if err != nil {
		return nil, storeFailure(err)
	}
	if app == nil {
		return nil, notFoundCode(fmt.Errorf("application not found"), ErrCodeApplicationNotFound)
	}
	if !app.HasResume() {
		return nil, notFoundCode(fmt.Errorf("application has no resume"), ErrCodeResumeNotFound)
	}
	return app.Resume, nil
}

func stripApplication(app *models.JobApplication) {
	if app.Resume != nil {
		stripped := app.Resume.WithoutData()
		app.Resume = &stripped
	}
	app.Replies = models.StripReplyData(app.Replies)
}
