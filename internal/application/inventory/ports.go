package inventory

import (
	"context"

	"github.com/davidtimana/supply-AI/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el ledger:
// actualización de stock y movimiento se confirman o revierten juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockRecordRepository,
		movRepo repository.InventoryMovementRepository,
	) error) error
}
