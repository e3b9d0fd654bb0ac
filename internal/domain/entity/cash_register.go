package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una caja registradora.
const (
	RegisterClosed      = "CLOSED"
	RegisterOpen        = "OPEN"
	RegisterMaintenance = "MAINTENANCE"
	RegisterLocked      = "LOCKED"
)

// Métodos de pago aceptados en ventas y movimientos de caja.
const (
	PaymentCash     = "CASH"
	PaymentCard     = "CARD"
	PaymentTransfer = "TRANSFER"
	PaymentQR       = "QR"
	PaymentOther    = "OTHER"
)

// ValidPaymentMethod valida un método de pago en el borde.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer, PaymentQR, PaymentOther:
		return true
	}
	return false
}

// CashRegister representa una caja registradora de una sucursal.
// CurrentBalance solo se muta a través de movimientos registrados (CashMovement);
// Version se compara al escribir, igual que en StockRecord.
type CashRegister struct {
	ID               string
	OrganizationID   string
	BranchID         string
	Name             string
	Description      string
	State            string
	OpeningBalance   decimal.Decimal
	CurrentBalance   decimal.Decimal
	CashBalance      decimal.Decimal
	CardBalance      decimal.Decimal
	TransferBalance  decimal.Decimal
	TotalSales       decimal.Decimal
	TotalTips        decimal.Decimal
	TransactionCount int
	Version          int64
	Active           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        *time.Time
}

// NewCashRegister construye una caja cerrada y en cero.
func NewCashRegister(organizationID, branchID, name string, now time.Time) *CashRegister {
	return &CashRegister{
		OrganizationID:   organizationID,
		BranchID:         branchID,
		Name:             name,
		State:            RegisterClosed,
		OpeningBalance:   decimal.Zero,
		CurrentBalance:   decimal.Zero,
		CashBalance:      decimal.Zero,
		CardBalance:      decimal.Zero,
		TransferBalance:  decimal.Zero,
		TotalSales:       decimal.Zero,
		TotalTips:        decimal.Zero,
		TransactionCount: 0,
		Active:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// Open abre la caja con el monto inicial: resetea saldos y acumuladores.
// La validación de estado la hace el caso de uso; aquí solo la mutación.
func (r *CashRegister) Open(amount decimal.Decimal) {
	r.State = RegisterOpen
	r.OpeningBalance = amount
	r.CurrentBalance = amount
	r.CashBalance = amount
	r.CardBalance = decimal.Zero
	r.TransferBalance = decimal.Zero
	r.TotalSales = decimal.Zero
	r.TotalTips = decimal.Zero
	r.TransactionCount = 0
}

// Close cierra la caja y deja el saldo actual en cero.
// El movimiento CIERRE debe registrarse antes, con el saldo previo al reset.
func (r *CashRegister) Close() {
	r.State = RegisterClosed
	r.CurrentBalance = decimal.Zero
}

// Lock bloquea la caja por seguridad (terminal hasta desbloqueo manual).
func (r *CashRegister) Lock() {
	r.State = RegisterLocked
}

// AddSale acumula una venta: saldo actual, total de ventas, contador y el
// sub-saldo correspondiente al método de pago.
func (r *CashRegister) AddSale(amount decimal.Decimal, paymentMethod string) {
	r.TotalSales = r.TotalSales.Add(amount)
	r.TransactionCount++
	r.CurrentBalance = r.CurrentBalance.Add(amount)
	switch paymentMethod {
	case PaymentCard:
		r.CardBalance = r.CardBalance.Add(amount)
	case PaymentTransfer, PaymentQR:
		r.TransferBalance = r.TransferBalance.Add(amount)
	default:
		r.CashBalance = r.CashBalance.Add(amount)
	}
}

// CanRefund indica si la caja puede absorber un reembolso sin dejar el
// saldo actual ni el sub-saldo del método de pago en negativo. El caso de
// uso valida con esto antes de llamar a Refund.
func (r *CashRegister) CanRefund(amount decimal.Decimal, paymentMethod string) bool {
	if r.CurrentBalance.LessThan(amount) {
		return false
	}
	switch paymentMethod {
	case PaymentCard:
		return r.CardBalance.GreaterThanOrEqual(amount)
	case PaymentTransfer, PaymentQR:
		return r.TransferBalance.GreaterThanOrEqual(amount)
	default:
		return r.CashBalance.GreaterThanOrEqual(amount)
	}
}

// Refund revierte una venta devuelta: descuenta el monto del saldo actual,
// del total de ventas y del sub-saldo del método de pago original.
// TotalSales queda en cero si la venta se acumuló en un turno anterior
// (la caja se cerró y reabrió entre la venta y la devolución).
func (r *CashRegister) Refund(amount decimal.Decimal, paymentMethod string) {
	r.TotalSales = r.TotalSales.Sub(amount)
	if r.TotalSales.LessThan(decimal.Zero) {
		r.TotalSales = decimal.Zero
	}
	r.CurrentBalance = r.CurrentBalance.Sub(amount)
	switch paymentMethod {
	case PaymentCard:
		r.CardBalance = r.CardBalance.Sub(amount)
	case PaymentTransfer, PaymentQR:
		r.TransferBalance = r.TransferBalance.Sub(amount)
	default:
		r.CashBalance = r.CashBalance.Sub(amount)
	}
}

// AddTip acumula una propina en el saldo actual.
func (r *CashRegister) AddTip(amount decimal.Decimal) {
	r.TotalTips = r.TotalTips.Add(amount)
	r.CurrentBalance = r.CurrentBalance.Add(amount)
}

// Withdraw descuenta un retiro de efectivo del saldo actual.
func (r *CashRegister) Withdraw(amount decimal.Decimal) {
	r.CurrentBalance = r.CurrentBalance.Sub(amount)
	r.CashBalance = r.CashBalance.Sub(amount)
}

// Deposit suma un depósito de efectivo al saldo actual.
func (r *CashRegister) Deposit(amount decimal.Decimal) {
	r.CurrentBalance = r.CurrentBalance.Add(amount)
	r.CashBalance = r.CashBalance.Add(amount)
}

// Difference devuelve saldo actual menos saldo de apertura.
func (r *CashRegister) Difference() decimal.Decimal {
	return r.CurrentBalance.Sub(r.OpeningBalance)
}

// IsOpen indica si la caja está abierta y operativa.
func (r *CashRegister) IsOpen() bool { return r.State == RegisterOpen }

// IsClosed indica si la caja está cerrada.
func (r *CashRegister) IsClosed() bool { return r.State == RegisterClosed }

// IsLocked indica si la caja está bloqueada.
func (r *CashRegister) IsLocked() bool { return r.State == RegisterLocked }
