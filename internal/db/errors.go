package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const pgCheckViolation = "23514"

// IsCheckViolation reports whether err came from a CHECK constraint, for
// either postgres driver or sqlite.
func IsCheckViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code == pgCheckViolation
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgCheckViolation
	}

	return strings.Contains(err.Error(), "CHECK constraint failed")
}
