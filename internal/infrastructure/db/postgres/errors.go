package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation = "23505"
	codeCheckViolation  = "23514"
)

func pgCode(err error) (string, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}

func IsPgUniqueViolation(err error) bool {
	code, _ := pgCode(err)
	return code == codeUniqueViolation
}

func IsPgCheckViolation(err error) bool {
	code, _ := pgCode(err)
	return code == codeCheckViolation
}

// ConstraintName is empty for anything that is not a *pgconn.PgError.
func ConstraintName(err error) string {
	_, name := pgCode(err)
	return name
}
