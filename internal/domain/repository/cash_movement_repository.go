package repository

import (
	"time"

	"github.com/davidtimana/supply-AI/internal/domain/entity"
)

// CashMovementRepository define el puerto de persistencia para movimientos de
// caja (append-only).
type CashMovementRepository interface {
	Create(movement *entity.CashMovement) error
	ListByRegister(registerID string, from, to *time.Time, limit, offset int) ([]*entity.CashMovement, error)
}
