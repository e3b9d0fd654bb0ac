package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest renglón dentro de CreateSaleRequest.
// UnitPrice vacío = usar el precio del catálogo; TaxRate vacío = IVA del producto.
type SaleLineRequest struct {
	ProductID string           `json:"product_id"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	TaxRate   *decimal.Decimal `json:"tax_rate,omitempty"`
	Discount  decimal.Decimal  `json:"discount,omitempty"`
}

// CreateSaleRequest body para POST /api/sales.
// RegisterID vacío = venta sin caja asociada (no registra movimiento de caja).
type CreateSaleRequest struct {
	BranchID         string            `json:"branch_id"`
	RegisterID       string            `json:"register_id,omitempty"`
	PaymentMethod    string            `json:"payment_method"`
	Tip              decimal.Decimal   `json:"tip,omitempty"`
	Discount         decimal.Decimal   `json:"discount,omitempty"`
	CustomerName     string            `json:"customer_name,omitempty"`
	CustomerDocument string            `json:"customer_document,omitempty"`
	Notes            string            `json:"notes,omitempty"`
	Lines            []SaleLineRequest `json:"lines"`
}

// SaleLineResponse representación HTTP de un renglón de venta.
type SaleLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Discount  decimal.Decimal `json:"discount"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
}

// SaleResponse representación HTTP de una venta.
type SaleResponse struct {
	ID            string             `json:"id"`
	BranchID      string             `json:"branch_id"`
	RegisterID    string             `json:"register_id,omitempty"`
	TicketNumber  string             `json:"ticket_number"`
	State         string             `json:"state"`
	PaymentMethod string             `json:"payment_method"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Tax           decimal.Decimal    `json:"tax"`
	Discount      decimal.Decimal    `json:"discount"`
	Tip           decimal.Decimal    `json:"tip"`
	Total         decimal.Decimal    `json:"total"`
	SaleDate      time.Time          `json:"sale_date"`
	Lines         []SaleLineResponse `json:"lines"`
}

// SaleListResponse página de ventas de una sucursal.
type SaleListResponse struct {
	Sales []SaleResponse `json:"sales"`
	Page  PageResponse   `json:"page"`
}
