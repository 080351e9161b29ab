package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cstsite/internal/models"
)

func submitApplication(t *testing.T, env *testEnv, resume []byte, resumeType string) (string, *httptest.ResponseRecorder) {
	t.Helper()
	body := newMultipartBody()
	body.field("full_name", "Ada Candidate")
	body.field("email", "ada@x.com")
	body.field("phone", "+1 555 0100")
	body.field("position", "backend engineer")
	body.field("experience", "5 years building Go services")
	if resume != nil {
		body.file("resume", "cv.pdf", resumeType, resume)
	}

	rec := env.doMultipart(http.MethodPost, "/api/job-applications/submit", "", body)
	if rec.Code != http.StatusCreated {
		return "", rec
	}
	var resp struct {
		Application models.JobApplication `json:"application"`
	}
	decodeBody(t, rec, &resp)
	return resp.Application.ID, rec
}

func TestApplicationSubmitWithResume(t *testing.T) {
	env := newTestEnv(t, nil)

	id, rec := submitApplication(t, env, []byte("%PDF-1.4 resume"), "application/pdf")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "warning") {
		t.Fatalf("expected no warning for a small resume: %s", rec.Body.String())
	}

	token := env.adminToken()
	get := env.do(http.MethodGet, "/api/job-applications/"+id, token, nil)
	if get.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", get.Code)
	}
	var app models.JobApplication
	decodeBody(t, get, &app)
	if app.Status != models.ApplicationStatusPending {
		t.Fatalf("expected pending, got %q", app.Status)
	}
	if app.Resume == nil || app.Resume.OriginalName != "cv.pdf" {
		t.Fatalf("expected resume metadata, got %+v", app.Resume)
	}
	if len(app.Resume.Data) != 0 {
		t.Fatal("expected resume bytes to be stripped from the JSON view")
	}
}

func TestApplicationSubmitOversizedResumeDroppedWithWarning(t *testing.T) {
	env := newTestEnv(t, nil)

	id, rec := submitApplication(t, env, make([]byte, 250*1024), "application/pdf")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 with dropped resume, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Application models.JobApplication `json:"application"`
		Warning     string                `json:"warning"`
	}
	decodeBody(t, rec, &resp)
	if resp.Warning == "" || !strings.Contains(resp.Warning, "cv.pdf") {
		t.Fatalf("expected a warning naming the resume, got %q", resp.Warning)
	}
	if resp.Application.Resume != nil {
		t.Fatal("expected the oversized resume to be dropped")
	}

	// Download must 404: nothing was stored.
	token := env.adminToken()
	dl := env.do(http.MethodGet, "/api/files/resume/"+id, token, nil)
	if dl.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing resume, got %d", dl.Code)
	}
}

func TestApplicationSubmitOversizedResumeStrictMode(t *testing.T) {
	env := newTestEnv(t, nil, withResumeStrict())

	_, rec := submitApplication(t, env, make([]byte, 250*1024), "application/pdf")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 in strict mode, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp errorResponse
	decodeBody(t, rec, &resp)
	if len(resp.RejectedFiles) != 1 || resp.RejectedFiles[0].OriginalName != "cv.pdf" {
		t.Fatalf("expected cv.pdf rejection, got %+v", resp.RejectedFiles)
	}
}

func TestApplicationReplyStatusAsymmetry(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.adminToken()
	id, _ := submitApplication(t, env, nil, "")

	// A reply without a status leaves the application pending.
	body := newMultipartBody()
	body.field("message", "Thanks for applying, we will be in touch.")
	rec := env.doMultipart(http.MethodPost, "/api/job-applications/"+id+"/reply", token, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var app models.JobApplication
	decodeBody(t, rec, &app)
	if app.Status != models.ApplicationStatusPending {
		t.Fatalf("expected status to stay pending, got %q", app.Status)
	}
	if app.LastRepliedAt == nil {
		t.Fatal("expected last_replied_at to be set")
	}

	// Supplying a status transitions in the same operation.
	body = newMultipartBody()
	body.field("message", "We would like to move you forward.")
	body.field("status", "shortlisted")
	rec = env.doMultipart(http.MethodPost, "/api/job-applications/"+id+"/reply", token, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	decodeBody(t, rec, &app)
	if app.Status != models.ApplicationStatusShortlisted {
		t.Fatalf("expected shortlisted, got %q", app.Status)
	}
	if len(app.Replies) != 2 {
		t.Fatalf("expected 2 replies, got %d", len(app.Replies))
	}
}

func TestApplicationUpdateStatusValidation(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.adminToken()
	id, _ := submitApplication(t, env, nil, "")

	rec := env.do(http.MethodPatch, "/api/job-applications/"+id+"/status", token, map[string]string{"status": "accepted"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid status, got %d", rec.Code)
	}

	rec = env.do(http.MethodPatch, "/api/job-applications/"+id+"/status", token, map[string]any{
		"status": "reviewing",
		"notes":  "strong take-home",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var app models.JobApplication
	decodeBody(t, rec, &app)
	if app.Status != models.ApplicationStatusReviewing || app.Notes != "strong take-home" {
		t.Fatalf("unexpected application: status=%q notes=%q", app.Status, app.Notes)
	}
}

func TestApplicationUpdateStatusAfterDelete(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.adminToken()
	id, _ := submitApplication(t, env, nil, "")

	rec := env.do(http.MethodDelete, "/api/job-applications/"+id, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on delete, got %d", rec.Code)
	}

	rec = env.do(http.MethodPatch, "/api/job-applications/"+id+"/status", token, map[string]string{"status": "reviewing"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for deleted application, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestApplicationDeleteRemovesResumeAccess(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.adminToken()
	id, _ := submitApplication(t, env, []byte("%PDF-1.4 resume"), "application/pdf")

	dl := env.do(http.MethodGet, "/api/files/resume/"+id, token, nil)
	if dl.Code != http.StatusOK {
		t.Fatalf("expected 200 before delete, got %d", dl.Code)
	}
	if got := dl.Header().Get("Content-Disposition"); !strings.Contains(got, "cv.pdf") {
		t.Fatalf("expected attachment disposition naming cv.pdf, got %q", got)
	}

	del := env.do(http.MethodDelete, "/api/job-applications/"+id, token, nil)
	if del.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", del.Code)
	}

	dl = env.do(http.MethodGet, "/api/files/resume/"+id, token, nil)
	if dl.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", dl.Code)
	}
}

func TestApplicationListPositionFilter(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.adminToken()
	submitApplication(t, env, nil, "")

	body := newMultipartBody()
	body.field("full_name", "Sam Designer")
	body.field("email", "sam@x.com")
	body.field("phone", "+1 555 0101")
	body.field("position", "designer")
	body.field("experience", "3 years")
	rec := env.doMultipart(http.MethodPost, "/api/job-applications/submit", "", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit designer: %d", rec.Code)
	}

	list := env.do(http.MethodGet, "/api/job-applications/all?position=designer", token, nil)
	if list.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", list.Code)
	}
	var page struct {
		Items []models.JobApplication `json:"items"`
		Total int64                   `json:"total"`
	}
	decodeBody(t, list, &page)
	if page.Total != 1 || len(page.Items) != 1 || page.Items[0].Position != "designer" {
		t.Fatalf("expected only the designer application, got %+v", page)
	}
}
