package models

import "time"

// AdminIdentity is a back-office account. Password hashes never leave the
// store layer in API responses.
type AdminIdentity struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email,omitempty"`
	PasswordHash string     `json:"-"`
	Role         AdminRole  `json:"role"`
	IsActive     bool       `json:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// IsSuperAdmin reports whether the account may act across all owners.
func (a *AdminIdentity) IsSuperAdmin() bool {
	return a != nil && a.Role == RoleSuperAdmin
}
