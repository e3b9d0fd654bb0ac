package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo (colaborador externo de solo
// lectura para el core: el ledger nunca muta el catálogo).
type Product struct {
	ID             string
	OrganizationID string
	SKU            string // código único por organización
	Name           string
	Description    string
	Price          decimal.Decimal // precio de venta sugerido
	Cost           decimal.Decimal // costo unitario
	TaxRate        decimal.Decimal // IVA: 0, 0.05 (5%), 0.19 (19%)
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
