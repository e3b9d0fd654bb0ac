package cashbox

import (
	"context"

	"github.com/davidtimana/supply-AI/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Cambio de estado/saldo de la caja y su
// movimiento se confirman o revierten juntos.
type TxRunner interface {
	RunRegister(ctx context.Context, fn func(
		registerRepo repository.CashRegisterRepository,
		cashMovRepo repository.CashMovementRepository,
	) error) error
}
