package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta.
const (
	SalePending   = "PENDING"
	SaleCompleted = "COMPLETED"
	SaleCancelled = "CANCELLED"
	SaleReturned  = "RETURNED"
	SaleVoided    = "VOIDED"
)

// Sale representa una venta multi-ítem de una sucursal.
// Los totales son inmutables una vez COMPLETED; los cambios de estado
// (cancelar, devolver, anular) nunca los alteran.
// Invariantes: Total == Subtotal + Tax + Tip - Discount y
// Subtotal == Σ línea.Subtotal (ver ComputeTotals).
type Sale struct {
	ID               string
	OrganizationID   string
	BranchID         string
	RegisterID       string // vacío = venta sin caja asociada
	TicketNumber     string // único por sucursal
	Lines            []*SaleLine
	Subtotal         decimal.Decimal
	Tax              decimal.Decimal
	Discount         decimal.Decimal
	Tip              decimal.Decimal
	Total            decimal.Decimal
	State            string
	PaymentMethod    string
	CustomerName     string
	CustomerDocument string
	Notes            string
	SaleDate         time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        *time.Time
}

// ComputeTotals recalcula cada línea y después los agregados de la venta.
func (s *Sale) ComputeTotals() {
	subtotal := decimal.Zero
	tax := decimal.Zero
	for _, line := range s.Lines {
		line.Recalculate()
		subtotal = subtotal.Add(line.Subtotal)
		tax = tax.Add(line.Tax)
	}
	s.Subtotal = subtotal
	s.Tax = tax
	s.Total = s.Subtotal.Add(s.Tax).Add(s.Tip).Sub(s.Discount)
}

// Complete marca la venta como completada y fija la fecha de venta.
func (s *Sale) Complete(now time.Time) {
	s.State = SaleCompleted
	s.SaleDate = now
}

// Cancel marca la venta como cancelada. No altera totales.
func (s *Sale) Cancel() { s.State = SaleCancelled }

// Return marca la venta como devuelta. No altera totales.
func (s *Sale) Return() { s.State = SaleReturned }

// Void anula la venta. No altera totales.
func (s *Sale) Void() { s.State = SaleVoided }

// IsCompleted indica si la venta está completada.
func (s *Sale) IsCompleted() bool { return s.State == SaleCompleted }

// IsPending indica si la venta está pendiente.
func (s *Sale) IsPending() bool { return s.State == SalePending }

// SoftDelete marca la venta como eliminada sin borrarla.
func (s *Sale) SoftDelete(now time.Time) {
	s.DeletedAt = &now
}
