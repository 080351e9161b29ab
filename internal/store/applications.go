package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cstsite/internal/models"
)

const applicationColumns = `id, full_name, email, phone, position, experience, cover_letter,
	resume_filename, resume_original_name, resume_content_type, resume_size_bytes, resume_data,
	status, notes, replies_json, last_replied_at, created_at, updated_at`

// applicationMetaColumns excludes the resume blob for listings; the size and
// names stay so the UI can show that a resume exists.
const applicationMetaColumns = `id, full_name, email, phone, position, experience, cover_letter,
	resume_filename, resume_original_name, resume_content_type, resume_size_bytes, NULL,
	status, notes, replies_json, last_replied_at, created_at, updated_at`

// CreateApplication inserts one job application row, embedding the resume
// when present.
func (s *Store) CreateApplication(ctx context.Context, app *models.JobApplication) error {
	if app == nil {
		return fmt.Errorf("application is required")
	}
	now := time.Now().UTC()
	if app.CreatedAt.IsZero() {
		app.CreatedAt = now
	}
	if app.UpdatedAt.IsZero() {
		app.UpdatedAt = app.CreatedAt
	}
	if app.Status == "" {
		app.Status = models.ApplicationStatusPending
	}

	repliesJSON, err := repliesToJSON(app.Replies)
	if err != nil {
		return err
	}

	var resumeFilename, resumeOriginal, resumeType any
	var resumeSize any
	var resumeData any
	if app.Resume != nil {
		resumeFilename = app.Resume.Filename
		resumeOriginal = app.Resume.OriginalName
		resumeType = app.Resume.ContentType
		resumeSize = app.Resume.SizeBytes
		resumeData = app.Resume.Data
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO applications (id, full_name, email, phone, position, experience, cover_letter,
			resume_filename, resume_original_name, resume_content_type, resume_size_bytes, resume_data,
			status, notes, replies_json, last_replied_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, app.ID, app.FullName, app.Email, app.Phone, app.Position, app.Experience, nullString(app.CoverLetter),
		resumeFilename, resumeOriginal, resumeType, resumeSize, resumeData,
		string(app.Status), nullString(app.Notes), repliesJSON, nullTime(app.LastRepliedAt),
		formatTime(app.CreatedAt), formatTime(app.UpdatedAt))
	return err
}

// GetApplication returns one application including the resume blob, or nil
// when absent.
func (s *Store) GetApplication(ctx context.Context, id string) (*models.JobApplication, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = ?`, id)
	return scanApplication(row)
}

// GetApplicationMeta is GetApplication without the resume payload.
func (s *Store) GetApplicationMeta(ctx context.Context, id string) (*models.JobApplication, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+applicationMetaColumns+` FROM applications WHERE id = ?`, id)
	return scanApplication(row)
}

// ListApplications returns one page newest first with the total count.
// Status and position filters are optional.
func (s *Store) ListApplications(ctx context.Context, status models.ApplicationStatus, position string, page, pageSize int) ([]models.JobApplication, int64, error) {
	where := ""
	args := []any{}
	if status != "" {
		where = " WHERE status = ?"
		args = append(args, string(status))
	}
	if position != "" {
		if where == "" {
			where = " WHERE position = ?"
		} else {
			where += " AND position = ?"
		}
		args = append(args, position)
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM applications"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	args = append(args, pageSize, offset)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+applicationMetaColumns+` FROM applications`+where+` ORDER BY created_at DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	apps := []models.JobApplication{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, 0, err
		}
		if app == nil {
			continue
		}
		apps = append(apps, *app)
	}
	return apps, total, rows.Err()
}

// UpdateApplicationStatus sets status (and notes when non-nil), refreshes
// updated_at and returns the updated application (sans resume blob), or nil
// when the id does not exist. The update and the re-read run inside one
// transaction so the returned row always reflects this write.
func (s *Store) UpdateApplicationStatus(ctx context.Context, id string, status models.ApplicationStatus, notes *string, now time.Time) (*models.JobApplication, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var res sql.Result
	if notes != nil {
		res, err = tx.ExecContext(ctx,
			"UPDATE applications SET status = ?, notes = ?, updated_at = ? WHERE id = ?",
			string(status), nullString(*notes), formatTime(now), id)
	} else {
		res, err = tx.ExecContext(ctx,
			"UPDATE applications SET status = ?, updated_at = ? WHERE id = ?",
			string(status), formatTime(now), id)
	}
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, nil
	}

	app, err := scanApplication(tx.QueryRowContext(ctx,
		`SELECT `+applicationMetaColumns+` FROM applications WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return app, nil
}

// AppendApplicationReply appends one reply and stamps last_replied_at.
// The status changes only when newStatus is non-nil; updated_at always
// refreshes. The read and rewrite of the reply list run inside one
// transaction so concurrent replies never overwrite each other. Returns
// the updated application (sans resume blob), or nil when the id does
// not exist.
func (s *Store) AppendApplicationReply(ctx context.Context, id string, reply models.Reply, newStatus *models.ApplicationStatus) (*models.JobApplication, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	app, err := scanApplication(tx.QueryRowContext(ctx,
		`SELECT `+applicationMetaColumns+` FROM applications WHERE id = ?`, id))
	if err != nil || app == nil {
		return app, err
	}

	replies := append(app.Replies, reply)
	repliesJSON, err := repliesToJSON(replies)
	if err != nil {
		return nil, err
	}

	sentAt := reply.SentAt.UTC()
	if newStatus != nil {
		_, err = tx.ExecContext(ctx, `
			UPDATE applications SET replies_json = ?, last_replied_at = ?, status = ?, updated_at = ? WHERE id = ?
		`, repliesJSON, formatTime(sentAt), string(*newStatus), formatTime(sentAt), id)
	} else {
		_, err = tx.ExecContext(ctx, `
			UPDATE applications SET replies_json = ?, last_replied_at = ?, updated_at = ? WHERE id = ?
		`, repliesJSON, formatTime(sentAt), formatTime(sentAt), id)
	}
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	app.Replies = replies
	app.LastRepliedAt = &sentAt
	app.UpdatedAt = sentAt
	if newStatus != nil {
		app.Status = *newStatus
	}
	return app, nil
}

// DeleteApplication removes one application; the embedded resume goes with
// the row. Returns false when absent.
func (s *Store) DeleteApplication(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM applications WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// DeleteApplications removes every listed application, skipping missing ids,
// and reports how many rows went away.
func (s *Store) DeleteApplications(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM applications WHERE id IN ("+placeholders(len(ids))+")", args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CountApplications counts applications, optionally by status.
func (s *Store) CountApplications(ctx context.Context, status models.ApplicationStatus) (int64, error) {
	var count int64
	var err error
	if status == "" {
		err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM applications").Scan(&count)
	} else {
		err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM applications WHERE status = ?", string(status)).Scan(&count)
	}
	return count, err
}

// RecentApplications returns the n newest applications without resume blobs.
func (s *Store) RecentApplications(ctx context.Context, n int) ([]models.JobApplication, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+applicationMetaColumns+` FROM applications ORDER BY created_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := []models.JobApplication{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		if app == nil {
			continue
		}
		apps = append(apps, *app)
	}
	return apps, rows.Err()
}

// ApplicationDailyCounts aggregates per-day submission counts since the cutoff.
func (s *Store) ApplicationDailyCounts(ctx context.Context, since time.Time) ([]DailyCount, error) {
	return s.dailyCounts(ctx, "applications", "created_at", since)
}

// ResumeRow surfaces one embedded resume through the file-management view.
type ResumeRow struct {
	ApplicationID string    `json:"application_id"`
	ApplicantName string    `json:"applicant_name"`
	Email         string    `json:"email"`
	Position      string    `json:"position"`
	Filename      string    `json:"filename"`
	OriginalName  string    `json:"original_name"`
	ContentType   string    `json:"content_type"`
	SizeBytes     int64     `json:"size_bytes"`
	UploadedAt    time.Time `json:"uploaded_at"`
}

// ListResumes returns one page of applications that carry resumes, newest
// first, with the total count.
func (s *Store) ListResumes(ctx context.Context, page, pageSize int) ([]ResumeRow, int64, error) {
	const where = " WHERE resume_data IS NOT NULL"

	var total int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM applications"+where).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, full_name, email, position,
			resume_filename, resume_original_name, resume_content_type, resume_size_bytes, created_at
		FROM applications`+where+`
		ORDER BY created_at DESC LIMIT ? OFFSET ?
	`, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	resumes := []ResumeRow{}
	for rows.Next() {
		var (
			row       ResumeRow
			filename  sql.NullString
			original  sql.NullString
			ctype     sql.NullString
			size      sql.NullInt64
			createdAt string
		)
		if err := rows.Scan(&row.ApplicationID, &row.ApplicantName, &row.Email, &row.Position,
			&filename, &original, &ctype, &size, &createdAt); err != nil {
			return nil, 0, err
		}
		row.Filename = filename.String
		row.OriginalName = original.String
		row.ContentType = ctype.String
		row.SizeBytes = size.Int64
		if row.UploadedAt, err = parseTime(createdAt); err != nil {
			return nil, 0, err
		}
		resumes = append(resumes, row)
	}
	return resumes, total, rows.Err()
}

func scanApplication(row rowScanner) (*models.JobApplication, error) {
	var (
		app            models.JobApplication
		coverLetter    sql.NullString
		resumeFilename sql.NullString
		resumeOriginal sql.NullString
		resumeType     sql.NullString
		resumeSize     sql.NullInt64
		resumeData     []byte
		status         string
		notes          sql.NullString
		repliesJSON    sql.NullString
		lastRepliedAt  sql.NullString
		createdAt      string
		updatedAt      string
	)
	err := row.Scan(&app.ID, &app.FullName, &app.Email, &app.Phone, &app.Position, &app.Experience,
		&coverLetter, &resumeFilename, &resumeOriginal, &resumeType, &resumeSize, &resumeData,
		&status, &notes, &repliesJSON, &lastRepliedAt, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	app.CoverLetter = coverLetter.String
	app.Notes = notes.String
	app.Status = models.ApplicationStatus(status)

	if resumeFilename.Valid {
		app.Resume = &models.Attachment{
			Filename:     resumeFilename.String,
			OriginalName: resumeOriginal.String,
			ContentType:  resumeType.String,
			SizeBytes:    resumeSize.Int64,
			Data:         resumeData,
		}
	}

	if app.Replies, err = repliesFromJSON(repliesJSON); err != nil {
		return nil, err
	}
	if app.LastRepliedAt, err = scanNullTime(lastRepliedAt); err != nil {
		return nil, err
	}
	if app.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if app.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &app, nil
}
