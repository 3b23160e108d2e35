package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error code for unique_violation.
const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a Postgres unique
// constraint violation. The message fallback covers drivers that do
// not surface a *pgconn.PgError (the sqlite test driver included).
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
