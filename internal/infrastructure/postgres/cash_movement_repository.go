package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/davidtimana/supply-AI/internal/domain/entity"
	"github.com/davidtimana/supply-AI/internal/domain/repository"
)

var _ repository.CashMovementRepository = (*CashMovementRepo)(nil)

// CashMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
// La tabla cash_movements es append-only.
type CashMovementRepo struct {
	q Querier
}

// NewCashMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCashMovementRepository(q Querier) *CashMovementRepo {
	return &CashMovementRepo{q: q}
}

const cashMovementColumns = `id, organization_id, branch_id, register_id, kind, amount,
		balance_before, balance_after, reference, occurred_at, created_at, created_by`

// Create persiste un movimiento de caja.
func (r *CashMovementRepo) Create(movement *entity.CashMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO cash_movements (` + cashMovementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	createdBy := (*string)(nil)
	if movement.CreatedBy != "" {
		createdBy = &movement.CreatedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.OrganizationID, movement.BranchID, movement.RegisterID,
		movement.Kind, movement.Amount, movement.BalanceBefore, movement.BalanceAfter,
		movement.Reference, movement.OccurredAt, movement.CreatedAt, createdBy,
	)
	if err != nil {
		return fmt.Errorf("create cash movement: %w", err)
	}
	return nil
}

// ListByRegister lista los movimientos de una caja en un rango de fechas
// opcional, del más reciente al más antiguo.
func (r *CashMovementRepo) ListByRegister(registerID string, from, to *time.Time, limit, offset int) ([]*entity.CashMovement, error) {
	query := `
		SELECT ` + cashMovementColumns + `
		FROM cash_movements WHERE register_id = $1`
	args := []any{registerID}
	query, args = appendDateRange(query, args, from, to)
	query += fmt.Sprintf(" ORDER BY occurred_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list by register: %w", err)
	}
	defer rows.Close()
	var list []*entity.CashMovement
	for rows.Next() {
		m, err := scanCashMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cash movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanCashMovement(row pgx.Row) (*entity.CashMovement, error) {
	var m entity.CashMovement
	var createdBy *string
	err := row.Scan(
		&m.ID, &m.OrganizationID, &m.BranchID, &m.RegisterID, &m.Kind,
		&m.Amount, &m.BalanceBefore, &m.BalanceAfter,
		&m.Reference, &m.OccurredAt, &m.CreatedAt, &createdBy,
	)
	if err != nil {
		return nil, err
	}
	if createdBy != nil {
		m.CreatedBy = *createdBy
	}
	return &m, nil
}
