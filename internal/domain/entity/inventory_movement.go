package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario (enumeración cerrada, validada en el borde).
const (
	MovementIn        = "IN"        // entrada de productos
	MovementOut       = "OUT"       // salida de productos
	MovementAdjust    = "ADJUST"    // ajuste: fija el stock en un valor absoluto
	MovementTransfer  = "TRANSFER"  // traslado entre sucursales
	MovementReturn    = "RETURN"    // devolución de productos
	MovementShrinkage = "SHRINKAGE" // pérdida o merma
)

// ParseMovementKind normaliza y valida un tipo de movimiento.
// Valores desconocidos se rechazan antes de llegar al ledger.
func ParseMovementKind(s string) (string, bool) {
	kind := strings.ToUpper(strings.TrimSpace(s))
	switch kind {
	case MovementIn, MovementOut, MovementAdjust, MovementTransfer, MovementReturn, MovementShrinkage:
		return kind, true
	}
	return "", false
}

// MovementAdds indica si el tipo suma stock (IN, RETURN).
func MovementAdds(kind string) bool {
	return kind == MovementIn || kind == MovementReturn
}

// MovementSubtracts indica si el tipo resta stock (OUT, SHRINKAGE).
func MovementSubtracts(kind string) bool {
	return kind == MovementOut || kind == MovementShrinkage
}

// InventoryMovement es el registro inmutable de un cambio de cantidad:
// una vez escrito nunca se modifica ni se elimina (append-only).
// Invariante: QuantityAfter == QuantityBefore ± Quantity según el tipo,
// salvo ADJUST, donde Quantity es el valor absoluto fijado.
type InventoryMovement struct {
	ID             string
	OrganizationID string
	ProductID      string
	BranchID       string
	Kind           string
	Quantity       decimal.Decimal // siempre > 0 (en ADJUST, el valor objetivo)
	QuantityBefore decimal.Decimal
	QuantityAfter  decimal.Decimal
	UnitPrice      decimal.Decimal
	TotalCost      decimal.Decimal
	Reference      string // venta, traslado, nota de ajuste, etc.
	OccurredAt     time.Time
	CreatedAt      time.Time
	CreatedBy      string
}
