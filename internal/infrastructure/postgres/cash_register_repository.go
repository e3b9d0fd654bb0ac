package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/davidtimana/supply-AI/internal/domain"
	"github.com/davidtimana/supply-AI/internal/domain/entity"
	"github.com/davidtimana/supply-AI/internal/domain/repository"
)

var _ repository.CashRegisterRepository = (*CashRegisterRepo)(nil)

// CashRegisterRepo implementación de CashRegisterRepository sobre PostgreSQL
// (usable con pool o tx).
type CashRegisterRepo struct {
	q Querier
}

// NewCashRegisterRepository construye el adaptador de cajas. Pasar pool o tx (Querier).
func NewCashRegisterRepository(q Querier) *CashRegisterRepo {
	return &CashRegisterRepo{q: q}
}

const registerColumns = `id, organization_id, branch_id, name, description, state,
		opening_balance, current_balance, cash_balance, card_balance, transfer_balance,
		total_sales, total_tips, transaction_count, version, active, created_at, updated_at, deleted_at`

// GetByID obtiene una caja por ID, o nil si no existe.
func (r *CashRegisterRepo) GetByID(id string) (*entity.CashRegister, error) {
	query := `
		SELECT ` + registerColumns + `
		FROM cash_registers WHERE id = $1 AND deleted_at IS NULL`
	reg, err := scanRegister(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cash register: %w", err)
	}
	return reg, nil
}

// Create inserta una caja nueva (versión 0).
func (r *CashRegisterRepo) Create(register *entity.CashRegister) error {
	query := `
		INSERT INTO cash_registers (id, organization_id, branch_id, name, description, state,
			opening_balance, current_balance, cash_balance, card_balance, transfer_balance,
			total_sales, total_tips, transaction_count, version, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(context.Background(), query,
		register.ID, register.OrganizationID, register.BranchID, register.Name, register.Description,
		register.State, register.OpeningBalance, register.CurrentBalance,
		register.CashBalance, register.CardBalance, register.TransferBalance,
		register.TotalSales, register.TotalTips, register.TransactionCount,
		register.Version, register.Active, register.CreatedAt, register.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create cash register: %w", err)
	}
	return nil
}

// UpdateWithVersion escribe la caja solo si la versión en BD coincide con
// expectedVersion (compare-and-set); cero filas = domain.ErrConflict.
func (r *CashRegisterRepo) UpdateWithVersion(register *entity.CashRegister, expectedVersion int64) error {
	query := `
		UPDATE cash_registers
		SET name = $1, description = $2, state = $3, opening_balance = $4, current_balance = $5,
			cash_balance = $6, card_balance = $7, transfer_balance = $8,
			total_sales = $9, total_tips = $10, transaction_count = $11,
			active = $12, updated_at = $13, deleted_at = $14,
			version = version + 1
		WHERE id = $15 AND version = $16`
	tag, err := r.q.Exec(context.Background(), query,
		register.Name, register.Description, register.State,
		register.OpeningBalance, register.CurrentBalance,
		register.CashBalance, register.CardBalance, register.TransferBalance,
		register.TotalSales, register.TotalTips, register.TransactionCount,
		register.Active, register.UpdatedAt, register.DeletedAt,
		register.ID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("update cash register: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	register.Version = expectedVersion + 1
	return nil
}

// ListByBranch lista las cajas de una sucursal.
func (r *CashRegisterRepo) ListByBranch(branchID string, limit, offset int) ([]*entity.CashRegister, error) {
	query := `
		SELECT ` + registerColumns + `
		FROM cash_registers
		WHERE branch_id = $1 AND deleted_at IS NULL
		ORDER BY name
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, branchID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list registers by branch: %w", err)
	}
	defer rows.Close()
	var list []*entity.CashRegister
	for rows.Next() {
		reg, err := scanRegister(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cash register: %w", err)
		}
		list = append(list, reg)
	}
	return list, rows.Err()
}

func scanRegister(row pgx.Row) (*entity.CashRegister, error) {
	var reg entity.CashRegister
	err := row.Scan(
		&reg.ID, &reg.OrganizationID, &reg.BranchID, &reg.Name, &reg.Description, &reg.State,
		&reg.OpeningBalance, &reg.CurrentBalance, &reg.CashBalance, &reg.CardBalance, &reg.TransferBalance,
		&reg.TotalSales, &reg.TotalTips, &reg.TransactionCount,
		&reg.Version, &reg.Active, &reg.CreatedAt, &reg.UpdatedAt, &reg.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &reg, nil
}
