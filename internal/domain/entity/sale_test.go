package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidtimana/supply-AI/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests de totales de venta
//
// Invariantes verificados:
//   - Subtotal de la venta == Σ subtotales de línea
//   - Total == Subtotal + Tax + Tip - Discount
//   - Los cambios de estado (cancelar, devolver, anular) nunca alteran totales
// ──────────────────────────────────────────────────────────────────────────────

func TestSale_ComputeTotals_SumaLineasConPropinaYDescuento(t *testing.T) {
	sale := &entity.Sale{
		Tip:      decimal.NewFromInt(200),
		Discount: decimal.NewFromInt(100),
		Lines: []*entity.SaleLine{
			{
				Quantity:  decimal.NewFromInt(2),
				UnitPrice: decimal.NewFromInt(1000),
				Tax:       decimal.NewFromInt(380), // 19% de 2000
			},
			{
				Quantity:  decimal.NewFromInt(1),
				UnitPrice: decimal.NewFromInt(500),
			},
		},
	}

	sale.ComputeTotals()

	assert.True(t, decimal.NewFromInt(2500).Equal(sale.Subtotal),
		"el subtotal debe ser la suma de los subtotales de línea: %s", sale.Subtotal)
	assert.True(t, decimal.NewFromInt(380).Equal(sale.Tax),
		"el impuesto debe ser la suma de los impuestos de línea: %s", sale.Tax)
	// 2500 + 380 + 200 - 100 = 2980
	assert.True(t, decimal.NewFromInt(2980).Equal(sale.Total),
		"Total = Subtotal + Tax + Tip - Discount: %s", sale.Total)
}

func TestSale_ComputeTotals_SinLineas(t *testing.T) {
	sale := &entity.Sale{}
	sale.ComputeTotals()

	assert.True(t, sale.Subtotal.IsZero())
	assert.True(t, sale.Total.IsZero())
}

func TestSale_Complete_FijaEstadoYFecha(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	sale := &entity.Sale{State: entity.SalePending}

	sale.Complete(now)

	assert.Equal(t, entity.SaleCompleted, sale.State)
	assert.Equal(t, now, sale.SaleDate)
	assert.True(t, sale.IsCompleted())
	assert.False(t, sale.IsPending())
}

func TestSale_TransicionesNoAlteranTotales(t *testing.T) {
	sale := &entity.Sale{
		State: entity.SaleCompleted,
		Lines: []*entity.SaleLine{
			{Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(700)},
		},
	}
	sale.ComputeTotals()
	totalAntes := sale.Total

	sale.Return()
	assert.Equal(t, entity.SaleReturned, sale.State)
	assert.True(t, totalAntes.Equal(sale.Total),
		"devolver la venta no debe cambiar el total")

	sale.Void()
	assert.Equal(t, entity.SaleVoided, sale.State)
	assert.True(t, totalAntes.Equal(sale.Total),
		"anular la venta no debe cambiar el total")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de líneas de venta
// ──────────────────────────────────────────────────────────────────────────────

func TestSaleLine_Recalculate_DerivadosConsistentes(t *testing.T) {
	line := &entity.SaleLine{
		Quantity:  decimal.NewFromInt(3),
		UnitPrice: decimal.NewFromInt(100),
		UnitCost:  decimal.NewFromInt(60),
		Tax:       decimal.NewFromInt(57),
		Discount:  decimal.NewFromInt(30),
	}

	line.Recalculate()

	assert.True(t, decimal.NewFromInt(300).Equal(line.Subtotal), "Subtotal = Quantity * UnitPrice")
	assert.True(t, decimal.NewFromInt(327).Equal(line.Total), "Total = Subtotal + Tax - Discount")
	assert.True(t, decimal.NewFromInt(120).Equal(line.Margin), "Margin = (100-60) * 3")
}

func TestSaleLine_Recalculate_MargenNuncaNegativo(t *testing.T) {
	line := &entity.SaleLine{
		Quantity:  decimal.NewFromInt(2),
		UnitPrice: decimal.NewFromInt(50),
		UnitCost:  decimal.NewFromInt(80), // se vende por debajo del costo
	}

	line.Recalculate()

	assert.True(t, line.Margin.IsZero(),
		"vender por debajo del costo deja el margen en cero, no negativo")
}

func TestSaleLine_ApplyTaxPercent_Redondea2Decimales(t *testing.T) {
	line := &entity.SaleLine{
		Quantity:  decimal.NewFromInt(1),
		UnitPrice: decimal.NewFromFloat(999.99),
	}

	line.ApplyTaxPercent(decimal.NewFromInt(19))

	// 999.99 * 0.19 = 189.9981 → 190.00
	require.True(t, decimal.NewFromFloat(190.00).Equal(line.Tax),
		"el IVA se redondea a 2 decimales: %s", line.Tax)
	assert.True(t, decimal.NewFromFloat(1189.99).Equal(line.Total))
}

func TestSaleLine_ApplyDiscountPercent(t *testing.T) {
	line := &entity.SaleLine{
		Quantity:  decimal.NewFromInt(4),
		UnitPrice: decimal.NewFromInt(250),
	}

	line.ApplyDiscountPercent(decimal.NewFromInt(10))

	assert.True(t, decimal.NewFromInt(100).Equal(line.Discount), "10%% de 1000")
	assert.True(t, decimal.NewFromInt(900).Equal(line.Total))
}

func TestSaleLine_ApplyTaxPercent_CeroNoHaceNada(t *testing.T) {
	line := &entity.SaleLine{
		Quantity:  decimal.NewFromInt(1),
		UnitPrice: decimal.NewFromInt(100),
	}

	line.ApplyTaxPercent(decimal.Zero)

	assert.True(t, line.Tax.IsZero(), "tasa cero no debe fijar impuesto")
}
