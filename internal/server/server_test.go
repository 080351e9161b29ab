package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cstsite/internal/auth"
	"cstsite/internal/config"
	"cstsite/internal/mailer"
	"cstsite/internal/models"
	"cstsite/internal/store"
)

const testJWTSecret = "test-secret-key"

// failSender simulates a broken SMTP transport.
type failSender struct{}

func (failSender) Send(*mailer.Message) error { return errors.New("smtp unavailable") }

type testEnv struct {
	t       *testing.T
	srv     *Server
	store   *store.Store
	handler http.Handler
}

type envOption func(*config.Config)

func withFailClosed() envOption {
	return func(cfg *config.Config) { cfg.AuthFailOpen = false }
}

func withResumeStrict() envOption {
	return func(cfg *config.Config) { cfg.ResumeUploadStrict = true }
}

func newTestEnv(t *testing.T, sender mailer.Sender, opts ...envOption) *testEnv {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	cfg := config.Default()
	cfg.JWTSecret = testJWTSecret
	for _, opt := range opts {
		opt(&cfg)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mail := mailer.New(sender, "ops@cst.example", "CST", logger)

	srv, err := New(cfg, st, mail, logger)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	return &testEnv{t: t, srv: srv, store: st, handler: srv.routes()}
}

func (e *testEnv) createAdmin(username, password string, role models.AdminRole) *models.AdminIdentity {
	e.t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		e.t.Fatalf("hash password: %v", err)
	}
	admin, err := e.store.CreateAdmin(context.Background(), username, username+"@cst.example", hash, role, time.Now().UTC())
	if err != nil {
		e.t.Fatalf("create admin: %v", err)
	}
	return admin
}

// adminToken bootstraps a super admin (the first account is always promoted)
// and returns a bearer token for it.
func (e *testEnv) adminToken() string {
	e.t.Helper()
	admin := e.createAdmin("root", "password123", models.RoleAdmin)
	return e.tokenFor(admin)
}

func (e *testEnv) tokenFor(admin *models.AdminIdentity) string {
	e.t.Helper()
	token, err := auth.IssueToken([]byte(testJWTSecret), admin.ID, admin.Username, string(admin.Role), time.Now().UTC())
	if err != nil {
		e.t.Fatalf("issue token: %v", err)
	}
	return token
}

func (e *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	e.t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			e.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

type multipartBody struct {
	buf    bytes.Buffer
	writer *multipart.Writer
}

func newMultipartBody() *multipartBody {
	m := &multipartBody{}
	m.writer = multipart.NewWriter(&m.buf)
	return m
}

func (m *multipartBody) field(name, value string) {
	m.writer.WriteField(name, value)
}

func (m *multipartBody) file(field, filename, contentType string, data []byte) {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	header.Set("Content-Type", contentType)
	part, err := m.writer.CreatePart(header)
	if err != nil {
		panic(err)
	}
	part.Write(data)
}

func (e *testEnv) doMultipart(method, path, token string, body *multipartBody) *httptest.ResponseRecorder {
	e.t.Helper()
	body.writer.Close()

	req := httptest.NewRequest(method, path, &body.buf)
	req.Header.Set("Content-Type", body.writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(http.MethodGet, "/api/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(http.MethodGet, "/api/contact/all", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	rec = env.do(http.MethodGet, "/api/contact/all", "not-a-token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with garbage token, got %d", rec.Code)
	}
}

func TestSuperAdminRoutesRequireRole(t *testing.T) {
	env := newTestEnv(t, nil)
	// Bootstrap a throwaway first account so the next one keeps its plain role.
	env.createAdmin("root", "password123", models.RoleAdmin)
	plain := env.createAdmin("helper", "password123", models.RoleAdmin)
	token := env.tokenFor(plain)

	rec := env.do(http.MethodGet, "/api/admin/dashboard/stats", token, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for plain admin, got %d", rec.Code)
	}

	// The same account can still use the regular admin surface.
	rec = env.do(http.MethodGet, "/api/contact/all", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on admin surface, got %d", rec.Code)
	}
}

func TestAuthFailOpenVersusClosed(t *testing.T) {
	// With the store broken, fail-open trusts the verified claims while
	// fail-closed rejects. Logout touches no storage, so it isolates the
	// guard's behavior.
	env := newTestEnv(t, nil)
	token := env.adminToken()
	env.store.Close()

	rec := env.do(http.MethodPost, "/api/auth/logout", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("fail-open: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	closed := newTestEnv(t, nil, withFailClosed())
	token = closed.adminToken()
	closed.store.Close()

	rec = closed.do(http.MethodPost, "/api/auth/logout", token, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("fail-closed: expected 401, got %d", rec.Code)
	}
}
