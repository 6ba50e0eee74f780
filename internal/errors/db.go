package errors

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// MapDBError classifies low-level database errors into AppErrors so callers
// and HTTP handlers never inspect driver details. The resource name is used
// in the not-found message.
func MapDBError(err error, resource string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
		return NotFoundf("%s not found", resource)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return Wrap(err, ErrCodeInternal, "database operation interrupted")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return Wrap(err, ErrCodeConflict, resource+" already exists")
		case pgerrcode.ForeignKeyViolation:
			return Wrap(err, ErrCodeValidation, "referenced "+resource+" does not exist")
		case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
			return Wrap(err, ErrCodeValidation, "invalid "+resource+" data")
		}
	}

	return Wrap(err, ErrCodeInternal, "database error")
}
