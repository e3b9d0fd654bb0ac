package repository

import "github.com/davidtimana/supply-AI/internal/domain/entity"

// CashRegisterRepository define el puerto de persistencia para cajas.
// UpdateWithVersion aplica la misma disciplina compare-and-set que el stock.
type CashRegisterRepository interface {
	GetByID(id string) (*entity.CashRegister, error)
	Create(register *entity.CashRegister) error
	UpdateWithVersion(register *entity.CashRegister, expectedVersion int64) error
	ListByBranch(branchID string, limit, offset int) ([]*entity.CashRegister, error)
}
