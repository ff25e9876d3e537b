package store

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation classifies a driver error as a primary-key/unique
// constraint violation across both backends this package supports.
// modernc.org/sqlite doesn't export a typed error for this, so sqlite
// detection falls back to a message substring match; Postgres via pgx
// exposes a structured SQLSTATE we can check directly.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
