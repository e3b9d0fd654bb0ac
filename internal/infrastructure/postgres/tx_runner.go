package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/davidtimana/supply-AI/internal/application/cashbox"
	"github.com/davidtimana/supply-AI/internal/application/inventory"
	"github.com/davidtimana/supply-AI/internal/application/sales"
	"github.com/davidtimana/supply-AI/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)
var _ sales.TxRunner = (*TxRunner)(nil)
var _ cashbox.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción con los repos del ledger de inventario y hace
// Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockRecordRepository,
	movRepo repository.InventoryMovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	stockRepo := NewStockRecordRepository(tx)
	movRepo := NewInventoryMovementRepository(tx)

	if err := fn(stockRepo, movRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunSale inicia una transacción con los repos de ventas, inventario y caja
// (para CreateSale y ReturnSale).
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	stockRepo repository.StockRecordRepository,
	movRepo repository.InventoryMovementRepository,
	saleRepo repository.SaleRepository,
	registerRepo repository.CashRegisterRepository,
	cashMovRepo repository.CashMovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	stockRepo := NewStockRecordRepository(tx)
	movRepo := NewInventoryMovementRepository(tx)
	saleRepo := NewSaleRepository(tx)
	registerRepo := NewCashRegisterRepository(tx)
	cashMovRepo := NewCashMovementRepository(tx)

	if err := fn(stockRepo, movRepo, saleRepo, registerRepo, cashMovRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunRegister inicia una transacción con los repos de caja (estado/saldo y
// movimientos).
func (r *TxRunner) RunRegister(ctx context.Context, fn func(
	registerRepo repository.CashRegisterRepository,
	cashMovRepo repository.CashMovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	registerRepo := NewCashRegisterRepository(tx)
	cashMovRepo := NewCashMovementRepository(tx)

	if err := fn(registerRepo, cashMovRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
