package subscription

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/davidtimana/supply-AI/internal/domain"
	"github.com/davidtimana/supply-AI/internal/domain/entity"
	"github.com/davidtimana/supply-AI/internal/domain/repository"
)

// UseCase gobierna el ciclo de vida de las suscripciones de una organización:
// alta, cambio de plan, renovación, suspensión, cancelación y vencimiento.
type UseCase struct {
	subscriptionRepo repository.SubscriptionRepository
	organizationRepo repository.OrganizationRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	subscriptionRepo repository.SubscriptionRepository,
	organizationRepo repository.OrganizationRepository,
) *UseCase {
	return &UseCase{
		subscriptionRepo: subscriptionRepo,
		organizationRepo: organizationRepo,
	}
}

// planLimits límites y precio mensual por plan. CUSTOM se configura a mano.
type planLimits struct {
	branches     int
	users        int
	products     int
	monthlySales int
	monthlyPrice decimal.Decimal
}

func limitsFor(plan string) planLimits {
	switch plan {
	case entity.PlanFree:
		return planLimits{branches: 1, users: 2, products: 50, monthlySales: 100, monthlyPrice: decimal.Zero}
	case entity.PlanBasic:
		return planLimits{branches: 2, users: 5, products: 500, monthlySales: 1000, monthlyPrice: decimal.NewFromInt(50000)}
	case entity.PlanPro:
		return planLimits{branches: 5, users: 15, products: 5000, monthlySales: 10000, monthlyPrice: decimal.NewFromInt(120000)}
	case entity.PlanEnterprise:
		// 0 = sin límite
		return planLimits{branches: 20, users: 50, products: 0, monthlySales: 0, monthlyPrice: decimal.NewFromInt(300000)}
	}
	return planLimits{}
}

// Create da de alta una suscripción activa para la organización.
// Una organización solo puede tener una suscripción activa a la vez.
func (uc *UseCase) Create(_ context.Context, organizationID, plan string, months int) (*entity.Subscription, error) {
	if !entity.ValidPlan(plan) || months <= 0 {
		return nil, domain.ErrInvalidInput
	}
	org, err := uc.organizationRepo.GetByID(organizationID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}
	existing, err := uc.subscriptionRepo.GetActiveByOrganization(organizationID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	limits := limitsFor(plan)
	sub := &entity.Subscription{
		ID:               uuid.New().String(),
		OrganizationID:   organizationID,
		Plan:             plan,
		PlanName:         plan,
		State:            entity.SubscriptionActive,
		StartDate:        now,
		ExpiryDate:       now.AddDate(0, months, 0),
		MonthlyPrice:     limits.monthlyPrice,
		BranchLimit:      limits.branches,
		UserLimit:        limits.users,
		ProductLimit:     limits.products,
		MonthlySaleLimit: limits.monthlySales,
		Active:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	sub.ComputeTotalPrice()
	if err = uc.subscriptionRepo.Create(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// GetByOrganization devuelve la suscripción activa de la organización.
// Si ya venció, la marca EXPIRED antes de devolverla.
func (uc *UseCase) GetByOrganization(_ context.Context, organizationID string) (*entity.Subscription, error) {
	sub, err := uc.subscriptionRepo.GetActiveByOrganization(organizationID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	if sub.State == entity.SubscriptionActive && sub.IsExpired(now) {
		sub.State = entity.SubscriptionExpired
		sub.UpdatedAt = now
		if err = uc.subscriptionRepo.Update(sub); err != nil {
			return nil, err
		}
	}
	return sub, nil
}

// ChangePlan cambia el plan y sus límites. No recalcula precios: la vigencia
// y el total pagado no cambian por el cambio de plan.
func (uc *UseCase) ChangePlan(ctx context.Context, organizationID, subscriptionID, plan string) (*entity.Subscription, error) {
	if !entity.ValidPlan(plan) {
		return nil, domain.ErrInvalidInput
	}
	sub, err := uc.find(ctx, organizationID, subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub.State == entity.SubscriptionCancelled || sub.State == entity.SubscriptionExpired {
		return nil, domain.ErrInvalidState
	}
	limits := limitsFor(plan)
	sub.Plan = plan
	sub.PlanName = plan
	if plan != entity.PlanCustom {
		sub.BranchLimit = limits.branches
		sub.UserLimit = limits.users
		sub.ProductLimit = limits.products
		sub.MonthlySaleLimit = limits.monthlySales
	}
	sub.UpdatedAt = time.Now()
	if err = uc.subscriptionRepo.Update(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Renew extiende la vigencia de la suscripción `months` meses y la reactiva
// si estaba vencida. Una suscripción cancelada no se renueva.
func (uc *UseCase) Renew(ctx context.Context, organizationID, subscriptionID string, months int) (*entity.Subscription, error) {
	if months <= 0 {
		return nil, domain.ErrInvalidInput
	}
	sub, err := uc.find(ctx, organizationID, subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub.State == entity.SubscriptionCancelled {
		return nil, domain.ErrInvalidState
	}
	now := time.Now()
	sub.Renew(months, now)
	sub.Activate()
	sub.UpdatedAt = now
	if err = uc.subscriptionRepo.Update(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Suspend suspende temporalmente una suscripción activa.
func (uc *UseCase) Suspend(ctx context.Context, organizationID, subscriptionID string) (*entity.Subscription, error) {
	sub, err := uc.find(ctx, organizationID, subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub.State != entity.SubscriptionActive {
		return nil, domain.ErrInvalidState
	}
	sub.Suspend()
	sub.UpdatedAt = time.Now()
	if err = uc.subscriptionRepo.Update(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Activate reactiva una suscripción suspendida o pendiente no vencida.
func (uc *UseCase) Activate(ctx context.Context, organizationID, subscriptionID string) (*entity.Subscription, error) {
	sub, err := uc.find(ctx, organizationID, subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub.State != entity.SubscriptionSuspended && sub.State != entity.SubscriptionPending {
		return nil, domain.ErrInvalidState
	}
	if sub.IsExpired(time.Now()) {
		return nil, domain.ErrInvalidState
	}
	sub.Activate()
	sub.UpdatedAt = time.Now()
	if err = uc.subscriptionRepo.Update(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Cancel cancela definitivamente la suscripción (estado terminal).
func (uc *UseCase) Cancel(ctx context.Context, organizationID, subscriptionID string) (*entity.Subscription, error) {
	sub, err := uc.find(ctx, organizationID, subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub.State == entity.SubscriptionCancelled {
		return nil, domain.ErrInvalidState
	}
	sub.Cancel()
	sub.UpdatedAt = time.Now()
	if err = uc.subscriptionRepo.Update(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (uc *UseCase) find(_ context.Context, organizationID, subscriptionID string) (*entity.Subscription, error) {
	sub, err := uc.subscriptionRepo.GetByID(subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub == nil || sub.OrganizationID != organizationID {
		return nil, domain.ErrNotFound
	}
	return sub, nil
}
