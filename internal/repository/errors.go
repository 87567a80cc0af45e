package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrDuplicateEmail   = errors.New("email already registered")
	ErrDuplicateProfile = errors.New("tutor profile already exists")
	ErrDuplicateBooking = errors.New("booking already exists for this schedule")
)

// isUniqueViolation recognizes a unique-constraint failure on both backends:
// SQLSTATE 23505 from postgres, the textual error from the cgo-free sqlite
// driver used in development and tests.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "constraint failed: UNIQUE")
}
