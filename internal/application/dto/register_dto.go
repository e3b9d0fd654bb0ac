package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpenRegisterRequest body para POST /api/registers/:id/open.
type OpenRegisterRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// CashAmountRequest body para retiros, depósitos y propinas.
type CashAmountRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference,omitempty"`
}

// CreateRegisterRequest body para POST /api/registers.
type CreateRegisterRequest struct {
	BranchID string `json:"branch_id"`
	Name     string `json:"name"`
}

// RegisterResponse representación HTTP de una caja registradora.
type RegisterResponse struct {
	ID               string          `json:"id"`
	BranchID         string          `json:"branch_id"`
	Name             string          `json:"name"`
	State            string          `json:"state"`
	OpeningBalance   decimal.Decimal `json:"opening_balance"`
	CurrentBalance   decimal.Decimal `json:"current_balance"`
	CashBalance      decimal.Decimal `json:"cash_balance"`
	CardBalance      decimal.Decimal `json:"card_balance"`
	TransferBalance  decimal.Decimal `json:"transfer_balance"`
	TotalSales       decimal.Decimal `json:"total_sales"`
	TotalTips        decimal.Decimal `json:"total_tips"`
	TransactionCount int             `json:"transaction_count"`
	Version          int64           `json:"version"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// CashMovementResponse representación HTTP de un movimiento de caja.
type CashMovementResponse struct {
	ID            string          `json:"id"`
	RegisterID    string          `json:"register_id"`
	Kind          string          `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	Reference     string          `json:"reference,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
}
