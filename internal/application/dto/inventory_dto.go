package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustStockRequest body para POST /api/inventory/adjustments.
// Kind: IN, OUT, ADJUST, RETURN, SHRINKAGE (TRANSFER usa /transfers).
type AdjustStockRequest struct {
	ProductID string           `json:"product_id"`
	BranchID  string           `json:"branch_id"`
	Kind      string           `json:"kind"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	Reference string           `json:"reference,omitempty"`
}

// TransferStockRequest body para POST /api/inventory/transfers.
type TransferStockRequest struct {
	ProductID    string          `json:"product_id"`
	FromBranchID string          `json:"from_branch_id"`
	ToBranchID   string          `json:"to_branch_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Reference    string          `json:"reference,omitempty"`
}

// CheckStockRequest query para GET /api/inventory/check.
type CheckStockRequest struct {
	ProductID string          `query:"product_id"`
	BranchID  string          `query:"branch_id"`
	Quantity  decimal.Decimal `query:"quantity"`
}

// StockRecordResponse representación HTTP de un registro de stock.
type StockRecordResponse struct {
	ProductID      string          `json:"product_id"`
	BranchID       string          `json:"branch_id"`
	QuantityOnHand decimal.Decimal `json:"quantity_on_hand"`
	ReorderPoint   decimal.Decimal `json:"reorder_point"`
	MinLevel       decimal.Decimal `json:"min_level"`
	MaxLevel       decimal.Decimal `json:"max_level"`
	SafetyStock    decimal.Decimal `json:"safety_stock"`
	Status         string          `json:"status"`
	Version        int64           `json:"version"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// MovementResponse representación HTTP de un movimiento de inventario.
type MovementResponse struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	BranchID       string          `json:"branch_id"`
	Kind           string          `json:"kind"`
	Quantity       decimal.Decimal `json:"quantity"`
	QuantityBefore decimal.Decimal `json:"quantity_before"`
	QuantityAfter  decimal.Decimal `json:"quantity_after"`
	Reference      string          `json:"reference,omitempty"`
	OccurredAt     time.Time       `json:"occurred_at"`
}
