package entity

import "time"

// UserFilter narrows the admin user listing. Zero values mean "no constraint".
type UserFilter struct {
	RoleID int
	Search string
	Page   int
	Limit  int
}

type DoctorFilter struct {
	Specialty  string
	ActiveOnly bool
}

// AuditLogFilter pages the audit trail, newest first.
type AuditLogFilter struct {
	Action string
	UserID *uint
	From   *time.Time
	To     *time.Time
	Page   int
	Limit  int
}

// Offset converts a one-based page into a row offset.
func Offset(page, limit int) int {
	if page < 1 || limit < 1 {
		return 0
	}
	return (page - 1) * limit
}
