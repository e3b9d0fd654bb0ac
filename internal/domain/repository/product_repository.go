package repository

import "github.com/davidtimana/supply-AI/internal/domain/entity"

// ProductRepository es el puerto de lectura del catálogo (Catalog Store).
// El core solo consulta; nunca muta el catálogo.
type ProductRepository interface {
	GetByID(id string) (*entity.Product, error)
	ListByOrganization(organizationID string, limit, offset int) ([]*entity.Product, error)
}
