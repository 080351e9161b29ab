package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"cstsite/internal/models"
)

const adminColumns = "id, username, email, password_hash, role, is_active, last_login, created_at"

// CreateAdmin creates one admin account. The first account on an empty
// table is promoted to super_admin so a fresh install always has one.
func (s *Store) CreateAdmin(ctx context.Context, username, email, passwordHash string, role models.AdminRole, now time.Time) (*models.AdminIdentity, error) {
	username = strings.TrimSpace(strings.ToLower(username))
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if strings.TrimSpace(passwordHash) == "" {
		return nil, fmt.Errorf("password hash is required")
	}

	count, err := s.CountAdmins(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		role = models.RoleSuperAdmin
	}
	if role == "" {
		role = models.RoleAdmin
	}

	admin := &models.AdminIdentity{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        strings.TrimSpace(email),
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now.UTC(),
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO admins (id, username, email, password_hash, role, is_active, last_login, created_at)
		VALUES (?, ?, ?, ?, ?, 1, NULL, ?)
	`, admin.ID, admin.Username, nullString(admin.Email), admin.PasswordHash,
		string(admin.Role), formatTime(admin.CreatedAt))
	if err != nil {
		return nil, err
	}
	return admin, nil
}

// GetAdminByUsername returns one admin by normalized username, or nil.
func (s *Store) GetAdminByUsername(ctx context.Context, username string) (*models.AdminIdentity, error) {
	username = strings.TrimSpace(strings.ToLower(username))
	if username == "" {
		return nil, nil
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+adminColumns+` FROM admins WHERE username = ? LIMIT 1`, username)
	return scanAdmin(row)
}

// GetAdminByID returns one admin by id, or nil.
func (s *Store) GetAdminByID(ctx context.Context, id string) (*models.AdminIdentity, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+adminColumns+` FROM admins WHERE id = ? LIMIT 1`, id)
	return scanAdmin(row)
}

// ListAdmins returns all admin accounts sorted by username.
func (s *Store) ListAdmins(ctx context.Context) ([]models.AdminIdentity, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+adminColumns+` FROM admins ORDER BY username ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	admins := []models.AdminIdentity{}
	for rows.Next() {
		admin, err := scanAdmin(rows)
		if err != nil {
			return nil, err
		}
		if admin == nil {
			continue
		}
		admins = append(admins, *admin)
	}
	return admins, rows.Err()
}

// CountAdmins returns the number of admin accounts.
func (s *Store) CountAdmins(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM admins").Scan(&count)
	return count, err
}

// SetAdminActive toggles one account by username. Returns false when absent.
func (s *Store) SetAdminActive(ctx context.Context, username string, active bool) (bool, error) {
	username = strings.TrimSpace(strings.ToLower(username))
	activeInt := 0
	if active {
		activeInt = 1
	}
	res, err := s.db.ExecContext(ctx, "UPDATE admins SET is_active = ? WHERE username = ?", activeInt, username)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// DeleteAdmin removes one account by username. Returns false when absent.
func (s *Store) DeleteAdmin(ctx context.Context, username string) (bool, error) {
	username = strings.TrimSpace(strings.ToLower(username))
	res, err := s.db.ExecContext(ctx, "DELETE FROM admins WHERE username = ?", username)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// TouchAdminLogin stamps last_login after a successful authentication.
func (s *Store) TouchAdminLogin(ctx context.Context, id string, now time.Time) error {
	_, err := s.db.ExecContext(ctx, "UPDATE admins SET last_login = ? WHERE id = ?", formatTime(now), id)
	return err
}

func scanAdmin(row rowScanner) (*models.AdminIdentity, error) {
	var (
		admin     models.AdminIdentity
		email     sql.NullString
		role      string
		isActive  int
		lastLogin sql.NullString
		createdAt string
	)
	err := row.Scan(&admin.ID, &admin.Username, &email, &admin.PasswordHash,
		&role, &isActive, &lastLogin, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	admin.Email = email.String
	admin.Role = models.AdminRole(role)
	admin.IsActive = isActive != 0

	if admin.LastLogin, err = scanNullTime(lastLogin); err != nil {
		return nil, err
	}
	if admin.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &admin, nil
}
