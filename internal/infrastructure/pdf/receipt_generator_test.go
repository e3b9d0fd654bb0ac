package pdf_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidtimana/supply-AI/internal/domain/entity"
	"github.com/davidtimana/supply-AI/internal/infrastructure/pdf"
)

func buildTestSale() *entity.Sale {
	sale := &entity.Sale{
		ID:               "sale-1",
		OrganizationID:   "org-1",
		BranchID:         "branch-1",
		TicketNumber:     "TK-20260901-123456",
		State:            entity.SaleCompleted,
		PaymentMethod:    entity.PaymentCash,
		Tip:              decimal.NewFromInt(200),
		CustomerName:     "María Pérez",
		CustomerDocument: "1020304050",
		SaleDate:         time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC),
		Lines: []*entity.SaleLine{
			{
				ID: "line-1", SaleID: "sale-1", ProductID: "prod-cafe",
				Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(18000),
			},
			{
				ID: "line-2", SaleID: "sale-1", ProductID: "prod-pan",
				Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(4500),
			},
		},
	}
	sale.ComputeTotals()
	return sale
}

func TestGenerate_ProduceUnPDFValido(t *testing.T) {
	g := pdf.NewReceiptGenerator()
	sale := buildTestSale()
	products := map[string]*entity.Product{
		"prod-cafe": {ID: "prod-cafe", Name: "Café 500g"},
		"prod-pan":  {ID: "prod-pan", Name: "Pan artesanal"},
	}

	got, err := g.Generate(sale, products, "Sucursal Centro")

	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "%PDF", string(got[:4]), "los bytes deben empezar con la firma PDF")
}

func TestGenerate_SinClienteNiCatalogo(t *testing.T) {
	g := pdf.NewReceiptGenerator()
	sale := buildTestSale()
	sale.CustomerName = "" // la fila de cliente se omite

	got, err := g.Generate(sale, map[string]*entity.Product{}, "")

	require.NoError(t, err)
	assert.NotEmpty(t, got, "sin catálogo se imprime el ID del producto")
}
