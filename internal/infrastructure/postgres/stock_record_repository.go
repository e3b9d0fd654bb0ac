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

var _ repository.StockRecordRepository = (*StockRecordRepo)(nil)

// StockRecordRepo implementación de StockRecordRepository sobre PostgreSQL
// (usable con pool o tx).
type StockRecordRepo struct {
	q Querier
}

// NewStockRecordRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRecordRepository(q Querier) *StockRecordRepo {
	return &StockRecordRepo{q: q}
}

const stockRecordColumns = `id, organization_id, product_id, branch_id, quantity_on_hand,
		reorder_point, min_level, max_level, safety_stock, version, active, created_at, updated_at, deleted_at`

// Get obtiene el registro de stock de (producto, sucursal), o nil si no existe.
func (r *StockRecordRepo) Get(productID, branchID string) (*entity.StockRecord, error) {
	query := `
		SELECT ` + stockRecordColumns + `
		FROM stock_records
		WHERE product_id = $1 AND branch_id = $2 AND deleted_at IS NULL`
	s, err := scanStockRecord(r.q.QueryRow(context.Background(), query, productID, branchID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock record: %w", err)
	}
	return s, nil
}

// Create inserta un registro de stock nuevo (versión 0).
func (r *StockRecordRepo) Create(record *entity.StockRecord) error {
	query := `
		INSERT INTO stock_records (id, organization_id, product_id, branch_id, quantity_on_hand,
			reorder_point, min_level, max_level, safety_stock, version, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		record.ID, record.OrganizationID, record.ProductID, record.BranchID, record.QuantityOnHand,
		record.ReorderPoint, record.MinLevel, record.MaxLevel, record.SafetyStock,
		record.Version, record.Active, record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create stock record: %w", err)
	}
	return nil
}

// UpdateWithVersion escribe el registro solo si la versión en BD coincide con
// expectedVersion (compare-and-set). Cero filas afectadas = otra escritura
// ganó la carrera: domain.ErrConflict. En éxito, Version queda incrementada
// también en memoria.
func (r *StockRecordRepo) UpdateWithVersion(record *entity.StockRecord, expectedVersion int64) error {
	query := `
		UPDATE stock_records
		SET quantity_on_hand = $1, reorder_point = $2, min_level = $3, max_level = $4,
			safety_stock = $5, active = $6, updated_at = $7, deleted_at = $8,
			version = version + 1
		WHERE id = $9 AND version = $10`
	tag, err := r.q.Exec(context.Background(), query,
		record.QuantityOnHand, record.ReorderPoint, record.MinLevel, record.MaxLevel,
		record.SafetyStock, record.Active, record.UpdatedAt, record.DeletedAt,
		record.ID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("update stock record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	record.Version = expectedVersion + 1
	return nil
}

// ListByBranch lista los registros de stock de una sucursal.
func (r *StockRecordRepo) ListByBranch(branchID string, limit, offset int) ([]*entity.StockRecord, error) {
	query := `
		SELECT ` + stockRecordColumns + `
		FROM stock_records
		WHERE branch_id = $1 AND deleted_at IS NULL
		ORDER BY product_id
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, branchID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock by branch: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockRecord
	for rows.Next() {
		s, err := scanStockRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock record: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func scanStockRecord(row pgx.Row) (*entity.StockRecord, error) {
	var s entity.StockRecord
	err := row.Scan(
		&s.ID, &s.OrganizationID, &s.ProductID, &s.BranchID, &s.QuantityOnHand,
		&s.ReorderPoint, &s.MinLevel, &s.MaxLevel, &s.SafetyStock,
		&s.Version, &s.Active, &s.CreatedAt, &s.UpdatedAt, &s.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
