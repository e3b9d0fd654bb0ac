package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados derivados del stock respecto a sus umbrales.
const (
	StockStatusCritical = "CRITICO"
	StockStatusLow      = "BAJO"
	StockStatusNormal   = "NORMAL"
)

// StockRecord representa el stock actual de un producto en una sucursal.
// Es una proyección materializada: la verdad auditable son los movimientos
// (InventoryMovement) y el registro puede reconstruirse reproduciéndolos.
// Version se compara al escribir (optimistic locking); cada mutación la incrementa.
type StockRecord struct {
	ID             string
	OrganizationID string
	ProductID      string
	BranchID       string
	QuantityOnHand decimal.Decimal // nunca negativo
	ReorderPoint   decimal.Decimal
	MinLevel       decimal.Decimal
	MaxLevel       decimal.Decimal
	SafetyStock    decimal.Decimal
	Version        int64
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time // soft delete; nunca se borra físicamente
}

// NewStockRecord construye un registro en cero para (producto, sucursal).
// El defaulting ocurre aquí, una sola vez, no en hooks de persistencia.
func NewStockRecord(organizationID, productID, branchID string, now time.Time) *StockRecord {
	return &StockRecord{
		OrganizationID: organizationID,
		ProductID:      productID,
		BranchID:       branchID,
		QuantityOnHand: decimal.Zero,
		ReorderPoint:   decimal.Zero,
		MinLevel:       decimal.Zero,
		MaxLevel:       decimal.Zero,
		SafetyStock:    decimal.Zero,
		Version:        0,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// NeedsReorder indica si el stock está en o por debajo del punto de reorden.
func (s *StockRecord) NeedsReorder() bool {
	return s.QuantityOnHand.LessThanOrEqual(s.ReorderPoint)
}

// IsCritical indica si el stock está en o por debajo del mínimo.
func (s *StockRecord) IsCritical() bool {
	return s.QuantityOnHand.LessThanOrEqual(s.MinLevel)
}

// IsOverstocked indica si el stock alcanzó o superó el máximo configurado.
func (s *StockRecord) IsOverstocked() bool {
	if s.MaxLevel.IsZero() {
		return false
	}
	return s.QuantityOnHand.GreaterThanOrEqual(s.MaxLevel)
}

// Available devuelve el stock disponible descontando el stock de seguridad.
func (s *StockRecord) Available() decimal.Decimal {
	return s.QuantityOnHand.Sub(s.SafetyStock)
}

// Status clasifica el stock en CRITICO, BAJO o NORMAL según los umbrales.
func (s *StockRecord) Status() string {
	if s.IsCritical() {
		return StockStatusCritical
	}
	if s.NeedsReorder() {
		return StockStatusLow
	}
	return StockStatusNormal
}

// SoftDelete marca el registro como eliminado sin borrarlo.
func (s *StockRecord) SoftDelete(now time.Time) {
	s.Active = false
	s.DeletedAt = &now
}

// IsDeleted indica si el registro fue eliminado lógicamente.
func (s *StockRecord) IsDeleted() bool {
	return s.DeletedAt != nil
}
