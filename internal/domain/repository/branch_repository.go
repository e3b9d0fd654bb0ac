package repository

import "github.com/davidtimana/supply-AI/internal/domain/entity"

// BranchRepository es el puerto de lectura del directorio de sucursales
// (Tenant Directory); usado para validación referencial.
type BranchRepository interface {
	GetByID(id string) (*entity.Branch, error)
	ListByOrganization(organizationID string, limit, offset int) ([]*entity.Branch, error)
}

// OrganizationRepository es el puerto de lectura de organizaciones.
type OrganizationRepository interface {
	GetByID(id string) (*entity.Organization, error)
}
