package cashbox

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
const maxConflictRetries = 3

// UseCase gobierna el ciclo de vida de las cajas registradoras
// (CLOSED → OPEN → CLOSED, MAINTENANCE, LOCKED) y su ledger de movimientos.
// Toda mutación de saldo deja un CashMovement en la misma transacción.
type UseCase struct {
	txRunner     TxRunner
	registerRepo repository.CashRegisterRepository
	cashMovRepo  repository.CashMovementRepository
	branchRepo   repository.BranchRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	registerRepo repository.CashRegisterRepository,
	cashMovRepo repository.CashMovementRepository,
	branchRepo repository.BranchRepository,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		registerRepo: registerRepo,
		cashMovRepo:  cashMovRepo,
		branchRepo:   branchRepo,
	}
}

// Create registra una caja nueva, cerrada y en cero, en una sucursal.
func (uc *UseCase) Create(_ context.Context, organizationID, branchID, name string) (*entity.CashRegister, error) {
	if branchID == "" || name == "" {
		return nil, domain.ErrInvalidInput
	}
	branch, err := uc.branchRepo.GetByID(branchID)
	if err != nil {
		return nil, err
	}
	if branch == nil || branch.OrganizationID != organizationID {
		return nil, domain.ErrNotFound
	}
	register := entity.NewCashRegister(organizationID, branchID, name, time.Now())
	register.ID = uuid.New().String()
	if err = uc.registerRepo.Create(register); err != nil {
		return nil, err
	}
	return register, nil
}

// Open abre una caja con un monto inicial. Solo se abre una caja cerrada:
// abrir una caja OPEN, MAINTENANCE o LOCKED es ErrInvalidState.
func (uc *UseCase) Open(ctx context.Context, organizationID, userID, registerID string, amount decimal.Decimal) (*entity.CashRegister, error) {
	if amount.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	return uc.mutate(ctx, organizationID, registerID, func(register *entity.CashRegister, now time.Time) (*entity.CashMovement, error) {
		if !register.IsClosed() {
			return nil, domain.ErrInvalidState
		}
		before := register.CurrentBalance
		register.Open(amount)
		return newMovement(register, entity.CashMovementOpen, amount, before, register.CurrentBalance, "", userID, now), nil
	})
}

// Close cierra una caja abierta: registra el movimiento CLOSE con el saldo
// final y después deja el saldo actual en cero.
func (uc *UseCase) Close(ctx context.Context, organizationID, userID, registerID string) (*entity.CashRegister, error) {
	return uc.mutate(ctx, organizationID, registerID, func(register *entity.CashRegister, now time.Time) (*entity.CashMovement, error) {
		if !register.IsOpen() {
			return nil, domain.ErrInvalidState
		}
		before := register.CurrentBalance
		register.Close()
		return newMovement(register, entity.CashMovementClose, before, before, register.CurrentBalance, "", userID, now), nil
	})
}

// Withdraw retira efectivo de una caja abierta. El retiro nunca deja el
// saldo negativo.
func (uc *UseCase) Withdraw(ctx context.Context, organizationID, userID, registerID string, amount decimal.Decimal, reference string) (*entity.CashRegister, error) {
	if !amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	return uc.mutate(ctx, organizationID, registerID, func(register *entity.CashRegister, now time.Time) (*entity.CashMovement, error) {
		if !register.IsOpen() {
			return nil, domain.ErrInvalidState
		}
		if register.CurrentBalance.LessThan(amount) || register.CashBalance.LessThan(amount) {
			return nil, domain.ErrInvalidState
		}
		before := register.CurrentBalance
		register.Withdraw(amount)
		return newMovement(register, entity.CashMovementWithdrawal, amount, before, register.CurrentBalance, reference, userID, now), nil
	})
}

// Deposit deposita efectivo en una caja abierta.
func (uc *UseCase) Deposit(ctx context.Context, organizationID, userID, registerID string, amount decimal.Decimal, reference string) (*entity.CashRegister, error) {
	if !amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	return uc.mutate(ctx, organizationID, registerID, func(register *entity.CashRegister, now time.Time) (*entity.CashMovement, error) {
		if !register.IsOpen() {
			return nil, domain.ErrInvalidState
		}
		before := register.CurrentBalance
		register.Deposit(amount)
		return newMovement(register, entity.CashMovementDeposit, amount, before, register.CurrentBalance, reference, userID, now), nil
	})
}

// RecordTip registra una propina suelta en una caja abierta.
func (uc *UseCase) RecordTip(ctx context.Context, organizationID, userID, registerID string, amount decimal.Decimal, reference string) (*entity.CashRegister, error) {
	if !amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	return uc.mutate(ctx, organizationID, registerID, func(register *entity.CashRegister, now time.Time) (*entity.CashMovement, error) {
		if !register.IsOpen() {
			return nil, domain.ErrInvalidState
		}
		before := register.CurrentBalance
		register.AddTip(amount)
		return newMovement(register, entity.CashMovementTip, amount, before, register.CurrentBalance, reference, userID, now), nil
	})
}

// Lock bloquea una caja por seguridad. El bloqueo no registra movimiento
// (el saldo no cambia) y solo se revierte por intervención manual.
func (uc *UseCase) Lock(ctx context.Context, organizationID, registerID string) (*entity.CashRegister, error) {
	return uc.mutate(ctx, organizationID, registerID, func(register *entity.CashRegister, _ time.Time) (*entity.CashMovement, error) {
		if register.IsLocked() {
			return nil, domain.ErrInvalidState
		}
		register.Lock()
		return nil, nil
	})
}

// FindByID devuelve una caja de la organización.
func (uc *UseCase) FindByID(_ context.Context, organizationID, registerID string) (*entity.CashRegister, error) {
	register, err := uc.registerRepo.GetByID(registerID)
	if err != nil {
		return nil, err
	}
	if register == nil || register.OrganizationID != organizationID {
		return nil, domain.ErrNotFound
	}
	return register, nil
}

// ListByBranch devuelve las cajas de una sucursal.
func (uc *UseCase) ListByBranch(_ context.Context, branchID string, limit, offset int) ([]*entity.CashRegister, error) {
	return uc.registerRepo.ListByBranch(branchID, limit, offset)
}

// ListMovements devuelve el historial de movimientos de una caja.
func (uc *UseCase) ListMovements(ctx context.Context, organizationID, registerID string, from, to *time.Time, limit, offset int) ([]*entity.CashMovement, error) {
	if _, err := uc.FindByID(ctx, organizationID, registerID); err != nil {
		return nil, err
	}
	return uc.cashMovRepo.ListByRegister(registerID, from, to, limit, offset)
}

// RecordSaleInTx acumula una venta (y su propina) en la caja usando los
// repositorios del caller: corre dentro de la transacción de la venta.
// La caja debe estar OPEN; si no, la venta completa se revierte.
func (uc *UseCase) RecordSaleInTx(
	registerRepo repository.CashRegisterRepository,
	cashMovRepo repository.CashMovementRepository,
	organizationID, userID, registerID string,
	amount, tip decimal.Decimal,
	paymentMethod, reference string,
	now time.Time,
) error {
	register, err := registerRepo.GetByID(registerID)
	if err != nil {
		return err
	}
	if register == nil || register.OrganizationID != organizationID {
		return domain.ErrNotFound
	}
	if !register.IsOpen() {
		return domain.ErrInvalidState
	}

	version := register.Version
	before := register.CurrentBalance
	register.AddSale(amount, paymentMethod)
	saleMov := newMovement(register, entity.CashMovementSale, amount, before, register.CurrentBalance, reference, userID, now)

	var tipMov *entity.CashMovement
	if tip.GreaterThan(decimal.Zero) {
		tipBefore := register.CurrentBalance
		register.AddTip(tip)
		tipMov = newMovement(register, entity.CashMovementTip, tip, tipBefore, register.CurrentBalance, reference, userID, now)
	}

	register.UpdatedAt = now
	if err = registerRepo.UpdateWithVersion(register, version); err != nil {
		return err
	}
	if err = cashMovRepo.Create(saleMov); err != nil {
		return err
	}
	if tipMov != nil {
		return cashMovRepo.Create(tipMov)
	}
	return nil
}

// RecordRefundInTx revierte una venta devuelta en la caja usando los
// repositorios del caller (misma transacción de la devolución). El
// reembolso requiere fondos suficientes en la caja: ningún saldo queda
// negativo, igual que en Withdraw.
func (uc *UseCase) RecordRefundInTx(
	registerRepo repository.CashRegisterRepository,
	cashMovRepo repository.CashMovementRepository,
	organizationID, userID, registerID string,
	amount decimal.Decimal,
	paymentMethod, reference string,
	now time.Time,
) error {
	register, err := registerRepo.GetByID(registerID)
	if err != nil {
		return err
	}
	if register == nil || register.OrganizationID != organizationID {
		return domain.ErrNotFound
	}
	if !register.IsOpen() {
		return domain.ErrInvalidState
	}
	if !register.CanRefund(amount, paymentMethod) {
		return domain.ErrInvalidState
	}

	version := register.Version
	before := register.CurrentBalance
	register.Refund(amount, paymentMethod)
	mov := newMovement(register, entity.CashMovementRefund, amount, before, register.CurrentBalance, reference, userID, now)

	register.UpdatedAt = now
	if err = registerRepo.UpdateWithVersion(register, version); err != nil {
		return err
	}
	return cashMovRepo.Create(mov)
}

// mutate carga la caja, aplica fn y persiste con compare-and-set, todo en
// una transacción; reintenta ante conflicto de versión.
func (uc *UseCase) mutate(
	ctx context.Context,
	organizationID, registerID string,
	fn func(register *entity.CashRegister, now time.Time) (*entity.CashMovement, error),
) (*entity.CashRegister, error) {
	if registerID == "" {
		return nil, domain.ErrInvalidInput
	}
	var result *entity.CashRegister
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = uc.txRunner.RunRegister(ctx, func(
			registerRepo repository.CashRegisterRepository,
			cashMovRepo repository.CashMovementRepository,
		) error {
			register, txErr := registerRepo.GetByID(registerID)
			if txErr != nil {
				return txErr
			}
			if register == nil || register.OrganizationID != organizationID {
				return domain.ErrNotFound
			}
			now := time.Now()
			version := register.Version
			mov, txErr := fn(register, now)
			if txErr != nil {
				return txErr
			}
			register.UpdatedAt = now
			if txErr = registerRepo.UpdateWithVersion(register, version); txErr != nil {
				return txErr
			}
			if mov != nil {
				if txErr = cashMovRepo.Create(mov); txErr != nil {
					return txErr
				}
			}
			result = register
			return nil
		})
		if !errors.Is(err, domain.ErrConflict) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// newMovement arma un movimiento de caja con los saldos antes y después.
func newMovement(register *entity.CashRegister, kind string, amount, before, after decimal.Decimal, reference, userID string, now time.Time) *entity.CashMovement {
	return &entity.CashMovement{
		ID:             uuid.New().String(),
		OrganizationID: register.OrganizationID,
		BranchID:       register.BranchID,
		RegisterID:     register.ID,
		Kind:           kind,
		Amount:         amount,
		BalanceBefore:  before,
		BalanceAfter:   after,
		Reference:      reference,
		OccurredAt:     now,
		CreatedAt:      now,
		CreatedBy:      userID,
	}
}
