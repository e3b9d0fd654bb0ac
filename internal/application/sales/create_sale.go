package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/davidtimana/supply-AI/internal/application/dto"
	"github.com/davidtimana/supply-AI/internal/domain"
	"github.com/davidtimana/supply-AI/internal/domain/entity"
	"github.com/davidtimana/supply-AI/internal/domain/repository"
)

// maxConflictRetries acota los reintentos de la transacción completa de la
// venta ante conflicto de versión en stock o caja.
const maxConflictRetries = 3

// UseCase orquesta ventas multi-ítem: valida, calcula totales, persiste la
// venta, descuenta el inventario línea por línea y acumula en caja, todo en
// una sola transacción (todo-o-nada).
type UseCase struct {
	txRunner     TxRunner
	inventory    InventoryLedger
	registers    RegisterLedger
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	branchRepo   repository.BranchRepository
	registerRepo repository.CashRegisterRepository
	receipts     ReceiptGenerator
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	inventory InventoryLedger,
	registers RegisterLedger,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	branchRepo repository.BranchRepository,
	registerRepo repository.CashRegisterRepository,
	receipts ReceiptGenerator,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		inventory:    inventory,
		registers:    registers,
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		branchRepo:   branchRepo,
		registerRepo: registerRepo,
		receipts:     receipts,
	}
}

// CreateSale crea una venta completada: valida entrada y referencias,
// pre-verifica stock de todas las líneas, y en una transacción guarda la
// venta con sus líneas, descuenta inventario por cada una y, si hay caja
// asociada, registra el movimiento de venta (y propina). Si cualquier paso
// falla, nada queda escrito.
func (uc *UseCase) CreateSale(ctx context.Context, organizationID, userID string, in dto.CreateSaleRequest) (*entity.Sale, error) {
	if in.BranchID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if !entity.ValidPaymentMethod(in.PaymentMethod) {
		return nil, domain.ErrInvalidInput
	}
	if in.Tip.LessThan(decimal.Zero) || in.Discount.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	branch, err := uc.branchRepo.GetByID(in.BranchID)
	if err != nil {
		return nil, err
	}
	if branch == nil || branch.OrganizationID != organizationID {
		return nil, domain.ErrNotFound
	}

	// Caja opcional: debe existir y pertenecer a la misma sucursal.
	// El estado OPEN se verifica dentro de la transacción.
	if in.RegisterID != "" {
		register, err := uc.registerRepo.GetByID(in.RegisterID)
		if err != nil {
			return nil, err
		}
		if register == nil || register.OrganizationID != organizationID {
			return nil, domain.ErrNotFound
		}
		if register.BranchID != in.BranchID {
			return nil, domain.ErrInvalidInput
		}
	}

	// Validar productos y armar líneas (fuera de la tx, solo lectura)
	productsByID := make(map[string]*entity.Product)
	for i := range in.Lines {
		item := &in.Lines[i]
		if item.ProductID == "" || !item.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if item.Discount.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		if product.OrganizationID != organizationID {
			return nil, domain.ErrForbidden
		}
		productsByID[item.ProductID] = product
		if item.UnitPrice != nil && item.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}

	// Pre-verificación de stock de todas las líneas: falla rápido antes de
	// abrir la transacción. La verificación definitiva ocurre dentro de ella.
	for i := range in.Lines {
		item := &in.Lines[i]
		ok, err := uc.inventory.CheckStock(ctx, item.ProductID, in.BranchID, item.Quantity)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrInsufficientStock
		}
	}

	now := time.Now()
	saleID := uuid.New().String() // referencia de los movimientos de inventario y caja

	sale := &entity.Sale{
		ID:               saleID,
		OrganizationID:   organizationID,
		BranchID:         in.BranchID,
		RegisterID:       in.RegisterID,
		TicketNumber:     fmt.Sprintf("TK-%s-%d", now.Format("20060102"), now.UnixNano()%1_000_000),
		State:            entity.SalePending,
		PaymentMethod:    in.PaymentMethod,
		Tip:              in.Tip,
		Discount:         in.Discount,
		CustomerName:     in.CustomerName,
		CustomerDocument: in.CustomerDocument,
		Notes:            in.Notes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	for i := range in.Lines {
		item := &in.Lines[i]
		product := productsByID[item.ProductID]

		unitPrice := product.Price
		if item.UnitPrice != nil && !item.UnitPrice.IsZero() {
			unitPrice = *item.UnitPrice
		}
		line := &entity.SaleLine{
			ID:             uuid.New().String(),
			OrganizationID: organizationID,
			SaleID:         saleID,
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			UnitPrice:      unitPrice,
			UnitCost:       product.Cost,
			Discount:       item.Discount,
			CreatedAt:      now,
		}
		rate := product.TaxRate
		if item.TaxRate != nil {
			rate = *item.TaxRate
		}
		line.ApplyTaxPercent(taxPercent(rate))
		sale.Lines = append(sale.Lines, line)
	}
	sale.ComputeTotals()
	sale.Complete(now)

	// Transacción todo-o-nada, con reintento ante conflicto de versión
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = uc.txRunner.RunSale(ctx, func(
			stockRepo repository.StockRecordRepository,
			movRepo repository.InventoryMovementRepository,
			saleRepo repository.SaleRepository,
			registerRepo repository.CashRegisterRepository,
			cashMovRepo repository.CashMovementRepository,
		) error {
			// 1) Cabecera y líneas
			if txErr := saleRepo.Create(sale); txErr != nil {
				return txErr
			}
			for _, line := range sale.Lines {
				if txErr := saleRepo.CreateLine(line); txErr != nil {
					return txErr
				}
			}
			// 2) Descuento de inventario por cada línea (OUT, referencia a la venta)
			for _, line := range sale.Lines {
				product := productsByID[line.ProductID]
				if txErr := uc.inventory.DeductForSaleInTx(
					stockRepo, movRepo,
					organizationID, userID,
					line.ProductID, in.BranchID,
					line.Quantity, product.Cost,
					now, saleID,
				); txErr != nil {
					return txErr
				}
			}
			// 3) Caja: la venta suma al saldo solo si hay caja asociada y OPEN
			if in.RegisterID != "" {
				return uc.registers.RecordSaleInTx(
					registerRepo, cashMovRepo,
					organizationID, userID, in.RegisterID,
					sale.Total.Sub(sale.Tip), sale.Tip,
					sale.PaymentMethod, saleID,
					now,
				)
			}
			return nil
		})
		if !errors.Is(err, domain.ErrConflict) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// taxPercent normaliza la tasa de IVA a porcentaje: 0.19 → 19, 19 → 19.
func taxPercent(rate decimal.Decimal) decimal.Decimal {
	if rate.LessThanOrEqual(decimal.NewFromInt(1)) {
		return rate.Mul(decimal.NewFromInt(100))
	}
	return rate
}
