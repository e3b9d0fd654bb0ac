package repository

import (
	"time"

	"github.com/davidtimana/supply-AI/internal/domain/entity"
)

// InventoryMovementRepository define el puerto de persistencia para movimientos
// de inventario. La tabla es append-only: no hay Update ni Delete.
type InventoryMovementRepository interface {
	Create(movement *entity.InventoryMovement) error
	GetByID(id string) (*entity.InventoryMovement, error)
	ListByProduct(productID, branchID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error)
	ListByBranch(branchID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error)
}
