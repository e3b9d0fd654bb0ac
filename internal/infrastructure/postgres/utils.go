package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Códigos SQLSTATE que los adaptadores traducen a errores de dominio.
const (
	codeUniqueViolation = "23505"
)

// isUniqueViolation reporta si err es una violación de constraint único,
// por ejemplo el índice (product_id, branch_id) de stock_records o el
// ticket_number de sales.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}
