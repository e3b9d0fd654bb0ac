package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/davidtimana/supply-AI/internal/domain"
	"github.com/davidtimana/supply-AI/internal/domain/entity"
	"github.com/davidtimana/supply-AI/internal/domain/repository"
)

// maxConflictRetries acota los reintentos internos ante conflicto de versión.
// Si el conflicto persiste, ErrConflict sube al caller y decide él.
const maxConflictRetries = 3

// LedgerUseCase es el motor del ledger de inventario: aplica movimientos
// (IN, OUT, ADJUST, RETURN, SHRINKAGE, TRANSFER) de forma transaccional con
// optimistic locking sobre la versión del registro de stock.
type LedgerUseCase struct {
	txRunner    TxRunner
	stockRepo   repository.StockRecordRepository
	movRepo     repository.InventoryMovementRepository
	productRepo repository.ProductRepository
	branchRepo  repository.BranchRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	txRunner TxRunner,
	stockRepo repository.StockRecordRepository,
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
	branchRepo repository.BranchRepository,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:    txRunner,
		stockRepo:   stockRepo,
		movRepo:     movRepo,
		productRepo: productRepo,
		branchRepo:  branchRepo,
	}
}

// AdjustInput entrada para aplicar un movimiento simple de inventario.
// Kind: IN, OUT, ADJUST, RETURN, SHRINKAGE (TRANSFER tiene su propia entrada).
// En ADJUST, Quantity es el valor absoluto al que se fija el stock.
type AdjustInput struct {
	OrganizationID string
	UserID         string
	ProductID      string
	BranchID       string
	Kind           string
	Quantity       decimal.Decimal
	UnitPrice      *decimal.Decimal
	Reference      string
}

// TransferInput entrada para trasladar stock entre sucursales.
type TransferInput struct {
	OrganizationID string
	UserID         string
	ProductID      string
	FromBranchID   string
	ToBranchID     string
	Quantity       decimal.Decimal
	Reference      string
}

// AdjustStock aplica un movimiento de inventario dentro de una transacción.
// Ante ErrConflict (otra escritura ganó la carrera de versión) recarga y
// reintenta hasta maxConflictRetries veces.
func (uc *LedgerUseCase) AdjustStock(ctx context.Context, input AdjustInput) (*entity.InventoryMovement, error) {
	kind, ok := entity.ParseMovementKind(input.Kind)
	if !ok || kind == entity.MovementTransfer {
		return nil, domain.ErrInvalidInput
	}
	if input.ProductID == "" || input.BranchID == "" {
		return nil, domain.ErrInvalidInput
	}
	if kind == entity.MovementAdjust {
		if input.Quantity.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	} else if !input.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	// Validar que producto y sucursal existan y sean de la organización
	product, err := uc.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.OrganizationID != input.OrganizationID {
		return nil, domain.ErrForbidden
	}
	branch, err := uc.branchRepo.GetByID(input.BranchID)
	if err != nil {
		return nil, err
	}
	if branch == nil || branch.OrganizationID != input.OrganizationID {
		return nil, domain.ErrNotFound
	}

	unitPrice := product.Cost
	if input.UnitPrice != nil {
		if input.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		unitPrice = *input.UnitPrice
	}

	var movement *entity.InventoryMovement
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = uc.txRunner.Run(ctx, func(
			stockRepo repository.StockRecordRepository,
			movRepo repository.InventoryMovementRepository,
		) error {
			mov, txErr := applyMovement(stockRepo, movRepo, input.OrganizationID, input.UserID,
				input.ProductID, input.BranchID, kind, input.Quantity, unitPrice, input.Reference, time.Now())
			if txErr != nil {
				return txErr
			}
			movement = mov
			return nil
		})
		if !errors.Is(err, domain.ErrConflict) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	return movement, nil
}

// TransferStock traslada stock entre dos sucursales en una sola transacción:
// dos registros TRANSFER con la misma referencia, o ninguno.
func (uc *LedgerUseCase) TransferStock(ctx context.Context, input TransferInput) error {
	if input.ProductID == "" || input.FromBranchID == "" || input.ToBranchID == "" {
		return domain.ErrInvalidInput
	}
	if input.FromBranchID == input.ToBranchID || !input.Quantity.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(input.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if product.OrganizationID != input.OrganizationID {
		return domain.ErrForbidden
	}
	from, err := uc.branchRepo.GetByID(input.FromBranchID)
	if err != nil {
		return err
	}
	to, err := uc.branchRepo.GetByID(input.ToBranchID)
	if err != nil {
		return err
	}
	if from == nil || to == nil || from.OrganizationID != input.OrganizationID || to.OrganizationID != input.OrganizationID {
		return domain.ErrNotFound
	}

	reference := input.Reference
	if reference == "" {
		reference = uuid.New().String()
	}

	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = uc.txRunner.Run(ctx, func(
			stockRepo repository.StockRecordRepository,
			movRepo repository.InventoryMovementRepository,
		) error {
			now := time.Now()

			// Lado origen: debe existir y alcanzar
			origin, txErr := stockRepo.Get(input.ProductID, input.FromBranchID)
			if txErr != nil {
				return txErr
			}
			if origin == nil {
				return domain.ErrNotFound
			}
			if origin.QuantityOnHand.LessThan(input.Quantity) {
				return domain.ErrInsufficientStock
			}

			// Lado destino: se crea en cero si no existe
			dest, txErr := stockRepo.Get(input.ProductID, input.ToBranchID)
			if txErr != nil {
				return txErr
			}
			if dest == nil {
				dest = entity.NewStockRecord(input.OrganizationID, input.ProductID, input.ToBranchID, now)
				dest.ID = uuid.New().String()
				if txErr = stockRepo.Create(dest); txErr != nil {
					return txErr
				}
			}

			originBefore := origin.QuantityOnHand
			destBefore := dest.QuantityOnHand

			origin.QuantityOnHand = originBefore.Sub(input.Quantity)
			origin.UpdatedAt = now
			if txErr = stockRepo.UpdateWithVersion(origin, origin.Version); txErr != nil {
				return txErr
			}
			dest.QuantityOnHand = destBefore.Add(input.Quantity)
			dest.UpdatedAt = now
			if txErr = stockRepo.UpdateWithVersion(dest, dest.Version); txErr != nil {
				return txErr
			}

			unitPrice := product.Cost
			outMov := &entity.InventoryMovement{
				ID:             uuid.New().String(),
				OrganizationID: input.OrganizationID,
				ProductID:      input.ProductID,
				BranchID:       input.FromBranchID,
				Kind:           entity.MovementTransfer,
				Quantity:       input.Quantity,
				QuantityBefore: originBefore,
				QuantityAfter:  origin.QuantityOnHand,
				UnitPrice:      unitPrice,
				TotalCost:      input.Quantity.Mul(unitPrice),
				Reference:      reference,
				OccurredAt:     now,
				CreatedAt:      now,
				CreatedBy:      input.UserID,
			}
			if txErr = movRepo.Create(outMov); txErr != nil {
				return txErr
			}
			inMov := &entity.InventoryMovement{
				ID:             uuid.New().String(),
				OrganizationID: input.OrganizationID,
				ProductID:      input.ProductID,
				BranchID:       input.ToBranchID,
				Kind:           entity.MovementTransfer,
				Quantity:       input.Quantity,
				QuantityBefore: destBefore,
				QuantityAfter:  dest.QuantityOnHand,
				UnitPrice:      unitPrice,
				TotalCost:      input.Quantity.Mul(unitPrice),
				Reference:      reference,
				OccurredAt:     now,
				CreatedAt:      now,
				CreatedBy:      input.UserID,
			}
			return movRepo.Create(inMov)
		})
		if !errors.Is(err, domain.ErrConflict) {
			break
		}
	}
	return err
}

// CheckStock indica si hay stock suficiente para la cantidad solicitada.
// Sin registro para (producto, sucursal) es ErrNotFound, igual que Find.
func (uc *LedgerUseCase) CheckStock(_ context.Context, productID, branchID string, quantity decimal.Decimal) (bool, error) {
	if productID == "" || branchID == "" || !quantity.GreaterThan(decimal.Zero) {
		return false, domain.ErrInvalidInput
	}
	stock, err := uc.stockRepo.Get(productID, branchID)
	if err != nil {
		return false, err
	}
	if stock == nil {
		return false, domain.ErrNotFound
	}
	return stock.QuantityOnHand.GreaterThanOrEqual(quantity), nil
}

// Find devuelve el registro de stock de (producto, sucursal).
func (uc *LedgerUseCase) Find(_ context.Context, productID, branchID string) (*entity.StockRecord, error) {
	stock, err := uc.stockRepo.Get(productID, branchID)
	if err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, domain.ErrNotFound
	}
	return stock, nil
}

// ListStock devuelve los registros de stock de una sucursal.
func (uc *LedgerUseCase) ListStock(_ context.Context, branchID string, limit, offset int) ([]*entity.StockRecord, error) {
	return uc.stockRepo.ListByBranch(branchID, limit, offset)
}

// ListMovements devuelve el historial de movimientos de un producto en una
// sucursal, ordenado del más reciente al más antiguo.
func (uc *LedgerUseCase) ListMovements(_ context.Context, productID, branchID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	if productID == "" || branchID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.movRepo.ListByProduct(productID, branchID, from, to, limit, offset)
}

// ListBranchMovements devuelve el historial de movimientos de una sucursal.
func (uc *LedgerUseCase) ListBranchMovements(_ context.Context, branchID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	if branchID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.movRepo.ListByBranch(branchID, from, to, limit, offset)
}

// DeductForSaleInTx descuenta stock por una línea de venta usando los
// repositorios del caller (misma transacción de la venta). Un ErrConflict
// aquí revierte la venta completa; el orquestador reintenta desde cero.
func (uc *LedgerUseCase) DeductForSaleInTx(
	stockRepo repository.StockRecordRepository,
	movRepo repository.InventoryMovementRepository,
	organizationID, userID, productID, branchID string,
	quantity, unitPrice decimal.Decimal,
	now time.Time,
	reference string,
) error {
	_, err := applyMovement(stockRepo, movRepo, organizationID, userID,
		productID, branchID, entity.MovementOut, quantity, unitPrice, reference, now)
	return err
}

// RestockForReturnInTx devuelve stock por una línea devuelta usando los
// repositorios del caller (misma transacción de la devolución).
func (uc *LedgerUseCase) RestockForReturnInTx(
	stockRepo repository.StockRecordRepository,
	movRepo repository.InventoryMovementRepository,
	organizationID, userID, productID, branchID string,
	quantity, unitPrice decimal.Decimal,
	now time.Time,
	reference string,
) error {
	_, err := applyMovement(stockRepo, movRepo, organizationID, userID,
		productID, branchID, entity.MovementReturn, quantity, unitPrice, reference, now)
	return err
}

// applyMovement aplica un movimiento simple sobre los repositorios dados:
// lee el registro, calcula la cantidad resultante según el tipo, escribe con
// compare-and-set y deja el movimiento en el historial.
// IN/RETURN crean el registro en cero si no existe; OUT/SHRINKAGE/ADJUST no.
func applyMovement(
	stockRepo repository.StockRecordRepository,
	movRepo repository.InventoryMovementRepository,
	organizationID, userID, productID, branchID, kind string,
	quantity, unitPrice decimal.Decimal,
	reference string,
	now time.Time,
) (*entity.InventoryMovement, error) {
	stock, err := stockRepo.Get(productID, branchID)
	if err != nil {
		return nil, err
	}
	if stock == nil {
		if !entity.MovementAdds(kind) {
			return nil, domain.ErrNotFound
		}
		stock = entity.NewStockRecord(organizationID, productID, branchID, now)
		stock.ID = uuid.New().String()
		if err = stockRepo.Create(stock); err != nil {
			return nil, err
		}
	}

	before := stock.QuantityOnHand
	var after decimal.Decimal
	switch {
	case entity.MovementAdds(kind):
		after = before.Add(quantity)
	case entity.MovementSubtracts(kind):
		if before.LessThan(quantity) {
			return nil, domain.ErrInsufficientStock
		}
		after = before.Sub(quantity)
	case kind == entity.MovementAdjust:
		after = quantity
	default:
		return nil, domain.ErrInvalidInput
	}

	stock.QuantityOnHand = after
	stock.UpdatedAt = now
	if err = stockRepo.UpdateWithVersion(stock, stock.Version); err != nil {
		return nil, err
	}

	mov := &entity.InventoryMovement{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		ProductID:      productID,
		BranchID:       branchID,
		Kind:           kind,
		Quantity:       quantity,
		QuantityBefore: before,
		QuantityAfter:  after,
		UnitPrice:      unitPrice,
		TotalCost:      quantity.Mul(unitPrice),
		Reference:      reference,
		OccurredAt:     now,
		CreatedAt:      now,
		CreatedBy:      userID,
	}
	if err = movRepo.Create(mov); err != nil {
		return nil, err
	}
	return mov, nil
}
