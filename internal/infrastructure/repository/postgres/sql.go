package postgres

import (
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/lib/pq"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolationCode
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode
}
