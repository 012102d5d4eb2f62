package postgres

import (
	"errors"
	"log/slog"

	"github.com/lib/pq"
)

// Postgres SQLSTATE codes the repositories react to
const (
	uniqueViolation = "23505"
	checkViolation  = "23514"
)

// constraintViolation reports whether err is a pq error with the given code on the named constraint.
// An empty constraint matches any.
func constraintViolation(err error, code pq.ErrorCode, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == code && (constraint == "" || pqErr.Constraint == constraint)
}

type rowCloser interface {
	Close() error
}

func closeRows(rows rowCloser) {
	if closeErr := rows.Close(); closeErr != nil {
		slog.Warn("failed to close rows", slog.String("error", closeErr.Error()))
	}
}
