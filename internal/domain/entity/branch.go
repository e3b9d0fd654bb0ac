package entity

import "time"

// Branch representa una sucursal de una organización (directorio de tenants,
// usado solo para validación referencial antes de crear filas del ledger).
type Branch struct {
	ID             string
	OrganizationID string
	Name           string
	Address        string
	Phone          string
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
