package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLine representa un renglón de una venta.
// Subtotal, Total y Margin son derivados: se recalculan con Recalculate
// cada vez que cambian cantidad, precio, descuento o impuesto; nunca quedan
// desactualizados.
type SaleLine struct {
	ID             string
	OrganizationID string
	SaleID         string
	ProductID      string
	Quantity       decimal.Decimal // > 0
	UnitPrice      decimal.Decimal // > 0
	UnitCost       decimal.Decimal
	Subtotal       decimal.Decimal // Quantity * UnitPrice
	Discount       decimal.Decimal
	Tax            decimal.Decimal
	Total          decimal.Decimal // Subtotal + Tax - Discount
	Margin         decimal.Decimal // max(0, UnitPrice-UnitCost) * Quantity
	Notes          string
	CreatedAt      time.Time
}

// Recalculate recalcula subtotal, total y margen a partir de los campos base.
func (l *SaleLine) Recalculate() {
	l.Subtotal = l.Quantity.Mul(l.UnitPrice)
	l.Total = l.Subtotal.Add(l.Tax).Sub(l.Discount)

	profit := l.UnitPrice.Sub(l.UnitCost)
	if profit.GreaterThan(decimal.Zero) {
		l.Margin = profit.Mul(l.Quantity)
	} else {
		l.Margin = decimal.Zero
	}
}

// ApplyDiscountPercent fija el descuento como porcentaje del subtotal y recalcula.
func (l *SaleLine) ApplyDiscountPercent(percent decimal.Decimal) {
	if percent.GreaterThan(decimal.Zero) {
		l.Subtotal = l.Quantity.Mul(l.UnitPrice)
		l.Discount = l.Subtotal.Mul(percent).Div(decimal.NewFromInt(100)).Round(2)
		l.Recalculate()
	}
}

// ApplyTaxPercent fija el impuesto como porcentaje del subtotal y recalcula.
func (l *SaleLine) ApplyTaxPercent(percent decimal.Decimal) {
	if percent.GreaterThan(decimal.Zero) {
		l.Subtotal = l.Quantity.Mul(l.UnitPrice)
		l.Tax = l.Subtotal.Mul(percent).Div(decimal.NewFromInt(100)).Round(2)
		l.Recalculate()
	}
}
