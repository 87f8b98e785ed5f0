package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	pkgerrors "github.com/dcastillo/mercato-backend/pkg/errors"
)

// Postgres SQLSTATE codes the transaction core reacts to.
const (
	pgDeadlockDetected = "40P01"
	pgLockNotAvailable = "55P03"
)

// IsUniqueViolation reports whether the provided error references a Postgres
// unique violation constraint. When constraintName is provided, the helper looks
// for the constraint text in the error message.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return strings.Contains(msg, "duplicate key value")
}

// IsLockContention reports whether the error is the store's deadlock or
// lock-timeout detection firing.
func IsLockContention(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgDeadlockDetected || pgErr.Code == pgLockNotAvailable
	}
	return false
}

// TranslateLockError maps lock contention failures onto the concurrency
// timeout code so callers see a terminal, non-retried-by-us error. Other
// errors pass through unchanged.
func TranslateLockError(err error, message string) error {
	if err == nil {
		return nil
	}
	if IsLockContention(err) {
		return pkgerrors.Wrap(pkgerrors.CodeConcurrencyTimeout, err, message)
	}
	return err
}
