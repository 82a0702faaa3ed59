package pgdb

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolationCode = "23505"
	fkViolationCode     = "23503"
)

// postgresDuplicate сообщает, является ли ошибка нарушением уникального ограничения.
func postgresDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode
	}

	return false
}

// postgresFKViolation сообщает, является ли ошибка нарушением внешнего ключа.
func postgresFKViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == fkViolationCode
	}

	return false
}
