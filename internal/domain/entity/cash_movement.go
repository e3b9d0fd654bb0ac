package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de caja (enumeración cerrada).
const (
	CashMovementOpen       = "OPEN"       // apertura de caja
	CashMovementClose      = "CLOSE"      // cierre de caja
	CashMovementSale       = "SALE"       // venta registrada
	CashMovementWithdrawal = "WITHDRAWAL" // retiro de efectivo
	CashMovementDeposit    = "DEPOSIT"    // depósito de efectivo
	CashMovementTip        = "TIP"        // propina recibida
	CashMovementAdjust     = "ADJUST"     // ajuste de caja
	CashMovementTransfer   = "TRANSFER"   // transferencia entre cajas
	CashMovementRefund     = "REFUND"     // devolución de venta
)

// CashMovement es el registro inmutable de un cambio de saldo en una caja
// (append-only, misma disciplina que InventoryMovement).
// Invariante: BalanceAfter == BalanceBefore ± Amount según el tipo.
type CashMovement struct {
	ID             string
	OrganizationID string
	BranchID       string
	RegisterID     string
	Kind           string
	Amount         decimal.Decimal // siempre > 0
	BalanceBefore  decimal.Decimal
	BalanceAfter   decimal.Decimal
	Reference      string // id de la venta asociada, si aplica
	OccurredAt     time.Time
	CreatedAt      time.Time
	CreatedBy      string
}
