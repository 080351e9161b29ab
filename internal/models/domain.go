package models

import (
	"fmt"
	"strings"
)

// ContactStatus defines allowed lifecycle states for contact messages.
type ContactStatus string

const (
	ContactStatusNew      ContactStatus = "new"
	ContactStatusRead     ContactStatus = "read"
	ContactStatusReplied  ContactStatus = "replied"
	ContactStatusArchived ContactStatus = "archived"
)

// ApplicationStatus defines allowed lifecycle states for job applications.
type ApplicationStatus string

const (
	ApplicationStatusPending     ApplicationStatus = "pending"
	ApplicationStatusReviewing   ApplicationStatus = "reviewing"
	ApplicationStatusShortlisted ApplicationStatus = "shortlisted"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
	ApplicationStatusHired       ApplicationStatus = "hired"
)

// AdminRole defines allowed admin account roles.
type AdminRole string

const (
	RoleAdmin      AdminRole = "admin"
	RoleSuperAdmin AdminRole = "super_admin"
)

var validContactStatuses = map[ContactStatus]struct{}{
	ContactStatusNew:      {},
	ContactStatusRead:     {},
	ContactStatusReplied:  {},
	ContactStatusArchived: {},
}

var validApplicationStatuses = map[ApplicationStatus]struct{}{
	ApplicationStatusPending:     {},
	ApplicationStatusReviewing:   {},
	ApplicationStatusShortlisted: {},
	ApplicationStatusRejected:    {},
	ApplicationStatusHired:       {},
}

var validAdminRoles = map[AdminRole]struct{}{
	RoleAdmin:      {},
	RoleSuperAdmin: {},
}

func IsValidContactStatus(status ContactStatus) bool {
	_, ok := validContactStatuses[status]
	return ok
}

func IsValidApplicationStatus(status ApplicationStatus) bool {
	_, ok := validApplicationStatuses[status]
	return ok
}

func IsValidAdminRole(role AdminRole) bool {
	_, ok := validAdminRoles[role]
	return ok
}

func ParseContactStatus(raw string) (ContactStatus, error) {
	value := ContactStatus(strings.ToLower(strings.TrimSpace(raw)))
	if value == "" {
		return "", fmt.Errorf("status is required")
	}
	if !IsValidContactStatus(value) {
		return "", fmt.Errorf("invalid contact status: %s", value)
	}
	return value, nil
}

func ParseApplicationStatus(raw string) (ApplicationStatus, error) {
	value := ApplicationStatus(strings.ToLower(strings.TrimSpace(raw)))
	if value == "" {
		return "", fmt.Errorf("status is required")
	}
	if !IsValidApplicationStatus(value) {
		return "", fmt.Errorf("invalid application status: %s", value)
	}
	return value, nil
}

func ParseAdminRole(raw string) (AdminRole, error) {
	value := AdminRole(strings.ToLower(strings.TrimSpace(raw)))
	if value == "" {
		return "", fmt.Errorf("role is required")
	}
	if !IsValidAdminRole(value) {
		return "", fmt.Errorf("invalid admin role: %s", value)
	}
	return value, nil
}
