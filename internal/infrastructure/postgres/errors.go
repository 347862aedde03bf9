package postgres

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// validID filters ids that could never match a uuid column, so lookups report
// not found instead of a cast error.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
