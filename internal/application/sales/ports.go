package sales

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/davidtimana/supply-AI/internal/domain/entity"
	"github.com/davidtimana/supply-AI/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción que incluye los
// repos de ventas, inventario y caja: la venta, sus líneas, los descuentos
// de stock y el movimiento de caja se confirman o revierten juntos.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		stockRepo repository.StockRecordRepository,
		movRepo repository.InventoryMovementRepository,
		saleRepo repository.SaleRepository,
		registerRepo repository.CashRegisterRepository,
		cashMovRepo repository.CashMovementRepository,
	) error) error
}

// InventoryLedger integra ventas con el ledger de inventario.
// Los métodos *InTx usan los repositorios del caller (misma transacción);
// si retornan error (ej: ErrInsufficientStock) el caller hace rollback.
type InventoryLedger interface {
	CheckStock(ctx context.Context, productID, branchID string, quantity decimal.Decimal) (bool, error)
	DeductForSaleInTx(
		stockRepo repository.StockRecordRepository,
		movRepo repository.InventoryMovementRepository,
		organizationID, userID, productID, branchID string,
		quantity, unitPrice decimal.Decimal,
		now time.Time,
		reference string,
	) error
	RestockForReturnInTx(
		stockRepo repository.StockRecordRepository,
		movRepo repository.InventoryMovementRepository,
		organizationID, userID, productID, branchID string,
		quantity, unitPrice decimal.Decimal,
		now time.Time,
		reference string,
	) error
}

// RegisterLedger integra ventas con la caja registradora dentro de la misma
// transacción de la venta.
type RegisterLedger interface {
	RecordSaleInTx(
		registerRepo repository.CashRegisterRepository,
		cashMovRepo repository.CashMovementRepository,
		organizationID, userID, registerID string,
		amount, tip decimal.Decimal,
		paymentMethod, reference string,
		now time.Time,
	) error
	RecordRefundInTx(
		registerRepo repository.CashRegisterRepository,
		cashMovRepo repository.CashMovementRepository,
		organizationID, userID, registerID string,
		amount decimal.Decimal,
		paymentMethod, reference string,
		now time.Time,
	) error
}

// ReceiptGenerator genera el ticket PDF de una venta.
type ReceiptGenerator interface {
	Generate(sale *entity.Sale, products map[string]*entity.Product, branchName string) ([]byte, error)
}
