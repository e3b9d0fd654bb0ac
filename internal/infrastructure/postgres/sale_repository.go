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

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, organization_id, branch_id, register_id, ticket_number,
		subtotal, tax, discount, tip, total, state, payment_method,
		customer_name, customer_document, notes, sale_date, created_at, updated_at, deleted_at`

// Create persiste la cabecera de una venta.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	registerID := (*string)(nil)
	if sale.RegisterID != "" {
		registerID = &sale.RegisterID
	}
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.OrganizationID, sale.BranchID, registerID, sale.TicketNumber,
		sale.Subtotal, sale.Tax, sale.Discount, sale.Tip, sale.Total,
		sale.State, sale.PaymentMethod,
		sale.CustomerName, sale.CustomerDocument, sale.Notes,
		sale.SaleDate, sale.CreatedAt, sale.UpdatedAt, sale.DeletedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create sale: %w", err)
	}
	return nil
}

// CreateLine persiste un renglón de venta.
func (r *SaleRepo) CreateLine(line *entity.SaleLine) error {
	query := `
		INSERT INTO sale_lines (id, organization_id, sale_id, product_id, quantity, unit_price,
			unit_cost, subtotal, discount, tax, total, margin, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.OrganizationID, line.SaleID, line.ProductID,
		line.Quantity, line.UnitPrice, line.UnitCost,
		line.Subtotal, line.Discount, line.Tax, line.Total, line.Margin,
		line.Notes, line.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create sale line: %w", err)
	}
	return nil
}

// GetByID obtiene una venta con sus líneas, o nil si no existe.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `
		SELECT ` + saleColumns + `
		FROM sales WHERE id = $1 AND deleted_at IS NULL`
	sale, err := scanSale(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	lines, err := r.linesBySale(id)
	if err != nil {
		return nil, err
	}
	sale.Lines = lines
	return sale, nil
}

// ListByBranch lista las ventas de una sucursal (sin líneas), de la más
// reciente a la más antigua.
func (r *SaleRepo) ListByBranch(branchID string, limit, offset int) ([]*entity.Sale, error) {
	query := `
		SELECT ` + saleColumns + `
		FROM sales
		WHERE branch_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, branchID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales by branch: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, sale)
	}
	return list, rows.Err()
}

// UpdateState persiste el cambio de estado condicionado al estado previo:
// cero filas afectadas significa que otra transición ganó la carrera (o la
// venta ya no existe) y la operación no aplica.
func (r *SaleRepo) UpdateState(sale *entity.Sale, expectedState string) error {
	query := `UPDATE sales SET state = $1, updated_at = $2
		WHERE id = $3 AND state = $4 AND deleted_at IS NULL`
	tag, err := r.q.Exec(context.Background(), query, sale.State, sale.UpdatedAt, sale.ID, expectedState)
	if err != nil {
		return fmt.Errorf("update sale state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidState
	}
	return nil
}

func (r *SaleRepo) linesBySale(saleID string) ([]*entity.SaleLine, error) {
	query := `
		SELECT id, organization_id, sale_id, product_id, quantity, unit_price,
			unit_cost, subtotal, discount, tax, total, margin, notes, created_at
		FROM sale_lines WHERE sale_id = $1
		ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale lines: %w", err)
	}
	defer rows.Close()
	var lines []*entity.SaleLine
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(
			&l.ID, &l.OrganizationID, &l.SaleID, &l.ProductID,
			&l.Quantity, &l.UnitPrice, &l.UnitCost,
			&l.Subtotal, &l.Discount, &l.Tax, &l.Total, &l.Margin,
			&l.Notes, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sale line: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var registerID *string
	err := row.Scan(
		&s.ID, &s.OrganizationID, &s.BranchID, &registerID, &s.TicketNumber,
		&s.Subtotal, &s.Tax, &s.Discount, &s.Tip, &s.Total,
		&s.State, &s.PaymentMethod,
		&s.CustomerName, &s.CustomerDocument, &s.Notes,
		&s.SaleDate, &s.CreatedAt, &s.UpdatedAt, &s.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	if registerID != nil {
		s.RegisterID = *registerID
	}
	return &s, nil
}
