package repository

import "github.com/davidtimana/supply-AI/internal/domain/entity"

// SaleRepository define el puerto de persistencia para ventas y sus líneas.
// GetByID devuelve la venta con sus líneas cargadas, o nil si no existe.
// UpdateState persiste solo el cambio de estado (los totales son inmutables
// una vez completada la venta); escribe condicionado al estado previo
// esperado y devuelve ErrInvalidState si otra transición ganó la carrera.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	CreateLine(line *entity.SaleLine) error
	GetByID(id string) (*entity.Sale, error)
	ListByBranch(branchID string, limit, offset int) ([]*entity.Sale, error)
	UpdateState(sale *entity.Sale, expectedState string) error
}
