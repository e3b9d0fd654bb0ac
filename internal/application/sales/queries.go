package sales

import (
	"context"
	"errors"
	"time"

	"github.com/davidtimana/supply-AI/internal/domain"
	"github.com/davidtimana/supply-AI/internal/domain/entity"
	"github.com/davidtimana/supply-AI/internal/domain/repository"
)

// FindSale devuelve una venta con sus líneas.
func (uc *UseCase) FindSale(_ context.Context, organizationID, saleID string) (*entity.Sale, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil || sale.OrganizationID != organizationID {
		return nil, domain.ErrNotFound
	}
	return sale, nil
}

// ListSalesByBranch devuelve las ventas de una sucursal, de la más reciente
// a la más antigua.
func (uc *UseCase) ListSalesByBranch(_ context.Context, organizationID, branchID string, limit, offset int) ([]*entity.Sale, error) {
	branch, err := uc.branchRepo.GetByID(branchID)
	if err != nil {
		return nil, err
	}
	if branch == nil || branch.OrganizationID != organizationID {
		return nil, domain.ErrNotFound
	}
	return uc.saleRepo.ListByBranch(branchID, limit, offset)
}

// CancelSale cancela una venta pendiente. Una venta completada no se
// cancela: se devuelve (ReturnSale) o se anula (VoidSale).
func (uc *UseCase) CancelSale(ctx context.Context, organizationID, saleID string) (*entity.Sale, error) {
	sale, err := uc.FindSale(ctx, organizationID, saleID)
	if err != nil {
		return nil, err
	}
	if !sale.IsPending() {
		return nil, domain.ErrInvalidState
	}
	sale.Cancel()
	sale.UpdatedAt = time.Now()
	if err = uc.saleRepo.UpdateState(sale, entity.SalePending); err != nil {
		return nil, err
	}
	return sale, nil
}

// ReturnSale devuelve una venta completada: en una transacción reingresa el
// stock de cada línea (RETURN, referencia a la venta), registra el reembolso
// en la caja si la venta tenía una asociada, y marca la venta RETURNED.
// La propina no se reembolsa. Los totales de la venta no cambian.
func (uc *UseCase) ReturnSale(ctx context.Context, organizationID, userID, saleID string) (*entity.Sale, error) {
	sale, err := uc.FindSale(ctx, organizationID, saleID)
	if err != nil {
		return nil, err
	}
	if !sale.IsCompleted() {
		return nil, domain.ErrInvalidState
	}

	now := time.Now()
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = uc.txRunner.RunSale(ctx, func(
			stockRepo repository.StockRecordRepository,
			movRepo repository.InventoryMovementRepository,
			saleRepo repository.SaleRepository,
			registerRepo repository.CashRegisterRepository,
			cashMovRepo repository.CashMovementRepository,
		) error {
			for _, line := range sale.Lines {
				if txErr := uc.inventory.RestockForReturnInTx(
					stockRepo, movRepo,
					organizationID, userID,
					line.ProductID, sale.BranchID,
					line.Quantity, line.UnitCost,
					now, sale.ID,
				); txErr != nil {
					return txErr
				}
			}
			if sale.RegisterID != "" {
				if txErr := uc.registers.RecordRefundInTx(
					registerRepo, cashMovRepo,
					organizationID, userID, sale.RegisterID,
					sale.Total.Sub(sale.Tip),
					sale.PaymentMethod, sale.ID,
					now,
				); txErr != nil {
					return txErr
				}
			}
			sale.Return()
			sale.UpdatedAt = now
			// Condicionado a COMPLETED: si otra devolución concurrente ya
			// confirmó, toda esta transacción (reingreso y reembolso) se revierte
			return saleRepo.UpdateState(sale, entity.SaleCompleted)
		})
		if !errors.Is(err, domain.ErrConflict) {
			break
		}
	}
	if err != nil {
		// El estado en memoria pudo quedar RETURNED en un intento fallido
		sale.State = entity.SaleCompleted
		return nil, err
	}
	return sale, nil
}

// VoidSale anula una venta completada sin reingresar stock ni tocar caja
// (anulación administrativa; la corrección de inventario va por ajustes).
func (uc *UseCase) VoidSale(ctx context.Context, organizationID, saleID string) (*entity.Sale, error) {
	sale, err := uc.FindSale(ctx, organizationID, saleID)
	if err != nil {
		return nil, err
	}
	if !sale.IsCompleted() {
		return nil, domain.ErrInvalidState
	}
	sale.Void()
	sale.UpdatedAt = time.Now()
	if err = uc.saleRepo.UpdateState(sale, entity.SaleCompleted); err != nil {
		return nil, err
	}
	return sale, nil
}

// Receipt genera el ticket PDF de una venta.
func (uc *UseCase) Receipt(ctx context.Context, organizationID, saleID string) ([]byte, error) {
	sale, err := uc.FindSale(ctx, organizationID, saleID)
	if err != nil {
		return nil, err
	}
	products := make(map[string]*entity.Product, len(sale.Lines))
	for _, line := range sale.Lines {
		if _, ok := products[line.ProductID]; ok {
			continue
		}
		product, err := uc.productRepo.GetByID(line.ProductID)
		if err != nil {
			return nil, err
		}
		if product != nil {
			products[line.ProductID] = product
		}
	}
	branchName := ""
	if branch, _ := uc.branchRepo.GetByID(sale.BranchID); branch != nil {
		branchName = branch.Name
	}
	return uc.receipts.Generate(sale, products, branchName)
}
