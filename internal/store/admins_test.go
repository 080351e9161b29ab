package store

import (
	"context"
	"testing"
	"time"

	"cstsite/internal/models"
)

func TestCreateAdminFirstAccountIsSuperAdmin(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	first, err := st.CreateAdmin(ctx, "root", "root@cst.example", "hash", models.RoleAdmin, now)
	if err != nil {
		t.Fatalf("create first admin: %v", err)
	}
	if first.Role != models.RoleSuperAdmin {
		t.Fatalf("expected first account to be super_admin, got %q", first.Role)
	}
	if !first.IsActive {
		t.Fatal("expected new admin to be active")
	}

	second, err := st.CreateAdmin(ctx, "helper", "helper@cst.example", "hash", models.RoleAdmin, now)
	if err != nil {
		t.Fatalf("create second admin: %v", err)
	}
	if second.Role != models.RoleAdmin {
		t.Fatalf("expected second account to keep requested role, got %q", second.Role)
	}
}

func TestCreateAdminDuplicateUsername(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if _, err := st.CreateAdmin(ctx, "root", "root@cst.example", "hash", models.RoleAdmin, now); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := st.CreateAdmin(ctx, "root", "other@cst.example", "hash", models.RoleAdmin, now); err == nil {
		t.Fatal("expected duplicate username to fail")
	}
}

func TestGetAdminByUsername(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	created, err := st.CreateAdmin(ctx, "root", "root@cst.example", "hash", models.RoleAdmin, time.Now().UTC())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := st.GetAdminByUsername(ctx, "root")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.ID != created.ID {
		t.Fatalf("expected admin %s, got %+v", created.ID, got)
	}
	if got.LastLogin != nil {
		t.Fatal("expected no last_login before first login")
	}

	missing, err := st.GetAdminByUsername(ctx, "ghost")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Fatal("expected nil for missing admin")
	}
}

func TestSetAdminActive(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	if _, err := st.CreateAdmin(ctx, "root", "root@cst.example", "hash", models.RoleAdmin, time.Now().UTC()); err != nil {
		t.Fatalf("create: %v", err)
	}

	ok, err := st.SetAdminActive(ctx, "root", false)
	if err != nil {
		t.Fatalf("disable: %v", err)
	}
	if !ok {
		t.Fatal("expected disable to match a row")
	}

	got, _ := st.GetAdminByUsername(ctx, "root")
	if got.IsActive {
		t.Fatal("expected admin to be disabled")
	}

	ok, err = st.SetAdminActive(ctx, "ghost", true)
	if err != nil {
		t.Fatalf("enable missing: %v", err)
	}
	if ok {
		t.Fatal("expected false for missing admin")
	}
}

func TestTouchAdminLogin(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	created, err := st.CreateAdmin(ctx, "root", "root@cst.example", "hash", models.RoleAdmin, time.Now().UTC())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	when := time.Now().UTC().Add(time.Minute)
	if err := st.TouchAdminLogin(ctx, created.ID, when); err != nil {
		t.Fatalf("touch: %v", err)
	}

	got, _ := st.GetAdminByID(ctx, created.ID)
	if got.LastLogin == nil {
		t.Fatal("expected last_login to be set")
	}
	if !got.LastLogin.Equal(when.Truncate(0)) && got.LastLogin.Unix() != when.Unix() {
		t.Fatalf("expected last_login near %v, got %v", when, got.LastLogin)
	}
}

func TestDeleteAdmin(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	if _, err := st.CreateAdmin(ctx, "root", "root@cst.example", "hash", models.RoleAdmin, time.Now().UTC()); err != nil {
		t.Fatalf("create: %v", err)
	}

	ok, err := st.DeleteAdmin(ctx, "root")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !ok {
		t.Fatal("expected delete to match a row")
	}

	n, err := st.CountAdmins(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 admins, got %d", n)
	}
}
