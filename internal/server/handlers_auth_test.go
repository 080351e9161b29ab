package server

import (
	"context"
	"net/http"
	"testing"

	"cstsite/internal/models"
)

func TestLoginShortPasswordIsValidationError(t *testing.T) {
	env := newTestEnv(t, nil)
	env.createAdmin("root", "password123", models.RoleAdmin)

	// A correct username with a too-short password is rejected as invalid
	// input before any credential check: 400, never 401.
	rec := env.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "root",
		"password": "pass",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestLoginWrongPasswordIsGeneric401(t *testing.T) {
	env := newTestEnv(t, nil)
	env.createAdmin("root", "password123", models.RoleAdmin)

	rec := env.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "root",
		"password": "wrongpassword",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	// An unknown username answers identically.
	rec2 := env.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "ghost",
		"password": "wrongpassword",
	})
	if rec2.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec2.Code)
	}
	var a, b errorResponse
	decodeBody(t, rec, &a)
	decodeBody(t, rec2, &b)
	if a.Error != b.Error {
		t.Fatalf("expected identical messages, got %q vs %q", a.Error, b.Error)
	}
}

func TestLoginSuccessIssuesWorkingToken(t *testing.T) {
	env := newTestEnv(t, nil)
	env.createAdmin("root", "password123", models.RoleAdmin)

	rec := env.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "root",
		"password": "password123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string               `json:"token"`
		Admin models.AdminIdentity `json:"admin"`
	}
	decodeBody(t, rec, &resp)
	if resp.Token == "" {
		t.Fatal("expected a token")
	}
	if resp.Admin.LastLogin == nil {
		t.Fatal("expected last_login to be stamped")
	}
	// First account is promoted to super_admin at creation.
	if resp.Admin.Role != models.RoleSuperAdmin {
		t.Fatalf("expected super_admin, got %q", resp.Admin.Role)
	}

	me := env.do(http.MethodGet, "/api/auth/me", resp.Token, nil)
	if me.Code != http.StatusOK {
		t.Fatalf("expected 200 from /auth/me, got %d", me.Code)
	}
	var admin models.AdminIdentity
	decodeBody(t, me, &admin)
	if admin.Username != "root" {
		t.Fatalf("expected root, got %q", admin.Username)
	}
}

func TestLoginInactiveAdminRejected(t *testing.T) {
	env := newTestEnv(t, nil)
	env.createAdmin("root", "password123", models.RoleAdmin)
	env.createAdmin("helper", "password123", models.RoleAdmin)
	if _, err := env.store.SetAdminActive(context.Background(), "helper", false); err != nil {
		t.Fatalf("disable: %v", err)
	}

	rec := env.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "helper",
		"password": "password123",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for disabled admin, got %d", rec.Code)
	}
}

func TestLoginRateLimiterBlocksAfterRepeatedFailures(t *testing.T) {
	env := newTestEnv(t, nil)
	env.createAdmin("root", "password123", models.RoleAdmin)

	for i := 0; i < loginMaxFailures; i++ {
		rec := env.do(http.MethodPost, "/api/auth/login", "", map[string]string{
			"username": "root",
			"password": "wrongpassword",
		})
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i, rec.Code)
		}
	}

	// Even the correct password is refused while blocked.
	rec := env.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "root",
		"password": "password123",
	})
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 while blocked, got %d", rec.Code)
	}
}
