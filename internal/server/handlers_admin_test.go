package server

import (
	"net/http"
	"testing"

	"cstsite/internal/models"
	"cstsite/internal/store"
)

func TestDashboardStats(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.adminToken()

	submitContact(t, env)
	submitContact(t, env)
	submitApplication(t, env, nil, "")

	rec := env.do(http.MethodGet, "/api/admin/dashboard/stats", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var stats struct {
		Contacts struct {
			Total  int64                   `json:"total"`
			New    int64                   `json:"new"`
			Recent []models.ContactMessage `json:"recent"`
			Daily  []store.DailyCount      `json:"daily"`
		} `json:"contacts"`
		Applications struct {
			Total   int64                   `json:"total"`
			Pending int64                   `json:"pending"`
			Recent  []models.JobApplication `json:"recent"`
		} `json:"applications"`
	}
	decodeBody(t, rec, &stats)

	if stats.Contacts.Total != 2 || stats.Contacts.New != 2 {
		t.Fatalf("unexpected contact counts: %+v", stats.Contacts)
	}
	if len(stats.Contacts.Recent) != 2 {
		t.Fatalf("expected 2 recent contacts, got %d", len(stats.Contacts.Recent))
	}
	if len(stats.Contacts.Daily) != 1 || stats.Contacts.Daily[0].Count != 2 {
		t.Fatalf("unexpected daily buckets: %+v", stats.Contacts.Daily)
	}
	if stats.Applications.Total != 1 || stats.Applications.Pending != 1 {
		t.Fatalf("unexpected application counts: %+v", stats.Applications)
	}
}

func TestAdminWideFileViewAndForceDelete(t *testing.T) {
	env := newTestEnv(t, nil)
	superToken := env.adminToken()

	plain := env.createAdmin("helper", "password123", models.RoleAdmin)
	plainToken := env.tokenFor(plain)

	// helper uploads a file; the super admin sees it in the admin-wide view
	// even though it belongs to someone else.
	file := uploadFile(t, env, plainToken, "theirs.txt", "text/plain", []byte("data"))

	rec := env.do(http.MethodGet, "/api/admin/files", superToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var page struct {
		Items []models.StoredFile `json:"items"`
		Total int64               `json:"total"`
	}
	decodeBody(t, rec, &page)
	if page.Total != 1 || page.Items[0].ID != file.ID {
		t.Fatalf("expected the helper's file in the admin view, got %+v", page)
	}

	// But not in the super admin's own my-files view.
	rec = env.do(http.MethodGet, "/api/files/my-files", superToken, nil)
	decodeBody(t, rec, &page)
	if page.Total != 0 {
		t.Fatalf("expected no owned files, got %d", page.Total)
	}

	// Force delete ignores ownership and reports the original name.
	rec = env.do(http.MethodDelete, "/api/admin/files/"+file.ID, superToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		OriginalName string `json:"original_name"`
	}
	decodeBody(t, rec, &resp)
	if resp.OriginalName != "theirs.txt" {
		t.Fatalf("expected theirs.txt, got %q", resp.OriginalName)
	}
}

func TestAdminBulkDeleteToleratesMissingIDs(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.adminToken()

	a := uploadFile(t, env, token, "a.txt", "text/plain", []byte("a"))
	b := uploadFile(t, env, token, "b.txt", "text/plain", []byte("b"))

	rec := env.do(http.MethodPost, "/api/admin/files/bulk-delete", token, map[string]any{
		"ids": []string{a.ID, b.ID, "4b4f8f1e-0000-4000-8000-000000000000"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		DeletedCount int64 `json:"deleted_count"`
	}
	decodeBody(t, rec, &resp)
	if resp.DeletedCount != 2 {
		t.Fatalf("expected deleted_count 2, got %d", resp.DeletedCount)
	}
}
