package usecase

import (
	"errors"
	"strings"

	"medical-appointments/internal/converter"
	"medical-appointments/internal/domain/rules"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUnauthenticated = errors.New("user not found in context")
	ErrForbidden       = errors.New("not allowed to access this resource")

	ErrInvalidDate = converter.ErrInvalidDate
	ErrInvalidTime = converter.ErrInvalidTime

	ErrDoctorNotFound  = rules.ErrDoctorNotFound
	ErrDoctorInactive  = rules.ErrDoctorInactive
	ErrPatientNotFound = rules.ErrPatientNotFound
	ErrPatientInactive = rules.ErrPatientInactive
)

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// isForeignKeyError checks if the error is a PostgreSQL foreign key violation
// containing the specified constraint name
func isForeignKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23503 = foreign_key_violation
		if pgErr.Code == "23503" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
