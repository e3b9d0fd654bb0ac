package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/davidtimana/supply-AI/internal/domain/entity"
)

func newTestRegister() *entity.CashRegister {
	return entity.NewCashRegister("org-1", "branch-1", "Caja Principal", time.Now())
}

func TestNewCashRegister_NaceCerradaYEnCero(t *testing.T) {
	register := newTestRegister()

	assert.Equal(t, entity.RegisterClosed, register.State)
	assert.True(t, register.IsClosed())
	assert.True(t, register.CurrentBalance.IsZero())
	assert.True(t, register.TotalSales.IsZero())
	assert.Equal(t, 0, register.TransactionCount)
	assert.True(t, register.Active)
}

func TestCashRegister_Open_ReseteaSaldosYAcumuladores(t *testing.T) {
	register := newTestRegister()
	// Residuos de una sesión anterior que la apertura debe limpiar
	register.TotalSales = decimal.NewFromInt(99999)
	register.TotalTips = decimal.NewFromInt(500)
	register.CardBalance = decimal.NewFromInt(1234)
	register.TransactionCount = 42

	register.Open(decimal.NewFromInt(50000))

	assert.True(t, register.IsOpen())
	assert.True(t, decimal.NewFromInt(50000).Equal(register.OpeningBalance))
	assert.True(t, decimal.NewFromInt(50000).Equal(register.CurrentBalance))
	assert.True(t, decimal.NewFromInt(50000).Equal(register.CashBalance),
		"el monto inicial entra como efectivo")
	assert.True(t, register.CardBalance.IsZero())
	assert.True(t, register.TransferBalance.IsZero())
	assert.True(t, register.TotalSales.IsZero())
	assert.True(t, register.TotalTips.IsZero())
	assert.Equal(t, 0, register.TransactionCount)
}

func TestCashRegister_Close_DejaSaldoEnCero(t *testing.T) {
	register := newTestRegister()
	register.Open(decimal.NewFromInt(10000))
	register.AddSale(decimal.NewFromInt(5000), entity.PaymentCash)

	register.Close()

	assert.True(t, register.IsClosed())
	assert.True(t, register.CurrentBalance.IsZero(),
		"el cierre deja el saldo actual en cero")
}

func TestCashRegister_AddSale_RuteaSubSaldoPorMetodoDePago(t *testing.T) {
	tests := []struct {
		name   string
		method string
		check  func(t *testing.T, r *entity.CashRegister)
	}{
		{"efectivo", entity.PaymentCash, func(t *testing.T, r *entity.CashRegister) {
			assert.True(t, decimal.NewFromInt(1000).Equal(r.CashBalance))
		}},
		{"tarjeta", entity.PaymentCard, func(t *testing.T, r *entity.CashRegister) {
			assert.True(t, decimal.NewFromInt(1000).Equal(r.CardBalance))
		}},
		{"transferencia", entity.PaymentTransfer, func(t *testing.T, r *entity.CashRegister) {
			assert.True(t, decimal.NewFromInt(1000).Equal(r.TransferBalance))
		}},
		{"qr va a transferencias", entity.PaymentQR, func(t *testing.T, r *entity.CashRegister) {
			assert.True(t, decimal.NewFromInt(1000).Equal(r.TransferBalance))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			register := newTestRegister()
			register.Open(decimal.Zero)

			register.AddSale(decimal.NewFromInt(1000), tt.method)

			assert.True(t, decimal.NewFromInt(1000).Equal(register.CurrentBalance))
			assert.True(t, decimal.NewFromInt(1000).Equal(register.TotalSales))
			assert.Equal(t, 1, register.TransactionCount)
			tt.check(t, register)
		})
	}
}

func TestCashRegister_Refund_RevierteLaVenta(t *testing.T) {
	register := newTestRegister()
	register.Open(decimal.NewFromInt(20000))
	register.AddSale(decimal.NewFromInt(8000), entity.PaymentCard)

	register.Refund(decimal.NewFromInt(8000), entity.PaymentCard)

	assert.True(t, decimal.NewFromInt(20000).Equal(register.CurrentBalance),
		"el reembolso regresa el saldo al valor previo a la venta")
	assert.True(t, register.TotalSales.IsZero())
	assert.True(t, register.CardBalance.IsZero())
}

func TestCashRegister_CanRefund_ExigeFondosDelMetodoDePago(t *testing.T) {
	register := newTestRegister()
	register.Open(decimal.NewFromInt(10000))
	register.AddSale(decimal.NewFromInt(8000), entity.PaymentCard)

	assert.True(t, register.CanRefund(decimal.NewFromInt(8000), entity.PaymentCard))
	assert.False(t, register.CanRefund(decimal.NewFromInt(8001), entity.PaymentCard),
		"el sub-saldo CARD solo tiene 8000")
	assert.True(t, register.CanRefund(decimal.NewFromInt(10000), entity.PaymentCash))
	assert.False(t, register.CanRefund(decimal.NewFromInt(10001), entity.PaymentCash))
}

func TestCashRegister_CanRefund_CajaReabiertaConMenosBase(t *testing.T) {
	register := newTestRegister()
	register.Open(decimal.NewFromInt(10000))
	register.AddSale(decimal.NewFromInt(2980), entity.PaymentCash)
	register.Close()
	register.Open(decimal.NewFromInt(5))

	assert.False(t, register.CanRefund(decimal.NewFromInt(2980), entity.PaymentCash),
		"la base del turno nuevo no cubre el reembolso del turno anterior")
}

func TestCashRegister_Refund_TotalVentasNoQuedaNegativo(t *testing.T) {
	register := newTestRegister()
	register.Open(decimal.NewFromInt(10000))
	// La venta se acumuló en un turno anterior: TotalSales ya está en cero

	register.Refund(decimal.NewFromInt(3000), entity.PaymentCash)

	assert.True(t, register.TotalSales.IsZero(),
		"TotalSales se fija en cero, no en negativo")
	assert.True(t, decimal.NewFromInt(7000).Equal(register.CurrentBalance))
}

func TestCashRegister_WithdrawDeposit(t *testing.T) {
	register := newTestRegister()
	register.Open(decimal.NewFromInt(30000))

	register.Withdraw(decimal.NewFromInt(12000))
	assert.True(t, decimal.NewFromInt(18000).Equal(register.CurrentBalance))
	assert.True(t, decimal.NewFromInt(18000).Equal(register.CashBalance))

	register.Deposit(decimal.NewFromInt(2000))
	assert.True(t, decimal.NewFromInt(20000).Equal(register.CurrentBalance))
	assert.True(t, decimal.NewFromInt(20000).Equal(register.CashBalance))
}

func TestCashRegister_AddTip_NoTocaTotalVentas(t *testing.T) {
	register := newTestRegister()
	register.Open(decimal.NewFromInt(1000))

	register.AddTip(decimal.NewFromInt(300))

	assert.True(t, decimal.NewFromInt(300).Equal(register.TotalTips))
	assert.True(t, decimal.NewFromInt(1300).Equal(register.CurrentBalance))
	assert.True(t, register.TotalSales.IsZero(),
		"la propina no cuenta como venta")
}

func TestCashRegister_Difference(t *testing.T) {
	register := newTestRegister()
	register.Open(decimal.NewFromInt(10000))
	register.AddSale(decimal.NewFromInt(4500), entity.PaymentCash)

	assert.True(t, decimal.NewFromInt(4500).Equal(register.Difference()),
		"la diferencia es saldo actual menos apertura")
}

func TestCashRegister_Lock(t *testing.T) {
	register := newTestRegister()
	register.Open(decimal.NewFromInt(1000))

	register.Lock()

	assert.True(t, register.IsLocked())
	assert.True(t, decimal.NewFromInt(1000).Equal(register.CurrentBalance),
		"bloquear no toca el saldo")
}

func TestValidPaymentMethod(t *testing.T) {
	assert.True(t, entity.ValidPaymentMethod(entity.PaymentCash))
	assert.True(t, entity.ValidPaymentMethod(entity.PaymentQR))
	assert.False(t, entity.ValidPaymentMethod("BITCOIN"))
	assert.False(t, entity.ValidPaymentMethod(""))
}
