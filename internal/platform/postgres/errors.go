package postgres

import (
	"context"
	"errors"

	"biblioteca/internal/platform/apperr"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Classify maps driver errors onto the application taxonomy. Errors that are
// already *apperr.Error pass through unchanged so that business outcomes raised
// inside a transaction keep their kind.
func Classify(err error, op string) error {
	if err == nil {
		return nil
	}
	if _, ok := apperr.As(err); ok {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Transient("the database did not answer in time, retry the request", err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			e := apperr.Conflict("DUPLICATE_VALUE", "a record with the same unique value already exists")
			e.Err = err
			return e.With("constraint", pgErr.ConstraintName)
		case pgerrcode.ForeignKeyViolation:
			e := apperr.Conflict("REFERENCE_VIOLATION", "the record is referenced by or references a missing record")
			e.Err = err
			return e.With("constraint", pgErr.ConstraintName)
		case pgerrcode.CheckViolation, pgerrcode.NotNullViolation, pgerrcode.StringDataRightTruncationDataException:
			e := apperr.Validation("VALIDATION_ERROR", "the record violates a database constraint")
			e.Err = err
			return e.With("constraint", pgErr.ConstraintName)
		case pgerrcode.LockNotAvailable, pgerrcode.DeadlockDetected,
			pgerrcode.SerializationFailure, pgerrcode.QueryCanceled:
			return apperr.Transient("the record is busy, retry the request", err)
		}
	}

	return apperr.Wrap(err, op)
}

// IsUniqueViolation reports whether err is a unique violation on the named
// constraint. An empty constraint matches any unique violation.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
