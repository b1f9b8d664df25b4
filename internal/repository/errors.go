package repository

import (
	"errors"
	"math"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the repositories translate into domain errors
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

var (
	ErrCategoryNotFound      = errors.New("categoria not found")
	ErrCategoryAlreadyExists = errors.New("categoria already exists")
	ErrCategoryInUse         = errors.New("categoria has products")

	ErrProductNotFound      = errors.New("produto not found")
	ErrProductAlreadyExists = errors.New("produto already exists")
)

// fitsInt4 reports whether id can be stored in an INTEGER column. Ids
// outside that range cannot exist, so lookups treat them as missing.
func fitsInt4(id int) bool {
	return id >= math.MinInt32 && id <= math.MaxInt32
}

// pgErrorCode returns the SQLSTATE of a Postgres error, or "" for anything else
func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
