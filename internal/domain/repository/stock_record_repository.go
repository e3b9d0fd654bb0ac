package repository

import "github.com/davidtimana/supply-AI/internal/domain/entity"

// StockRecordRepository define el puerto de persistencia del stock por
// producto y sucursal. Get devuelve nil si no existe el registro.
// UpdateWithVersion es un compare-and-set: escribe solo si la versión en BD
// coincide con expectedVersion y retorna domain.ErrConflict si no coincide;
// el caso de uso recarga y reintenta.
type StockRecordRepository interface {
	Get(productID, branchID string) (*entity.StockRecord, error)
	Create(record *entity.StockRecord) error
	UpdateWithVersion(record *entity.StockRecord, expectedVersion int64) error
	ListByBranch(branchID string, limit, offset int) ([]*entity.StockRecord, error)
}
