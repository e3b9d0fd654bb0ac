package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/davidtimana/supply-AI/internal/domain"
	"github.com/davidtimana/supply-AI/internal/domain/entity"
	"github.com/davidtimana/supply-AI/internal/domain/repository"
)

var _ repository.SubscriptionRepository = (*SubscriptionRepo)(nil)

// SubscriptionRepo implementación de SubscriptionRepository sobre PostgreSQL.
type SubscriptionRepo struct {
	q Querier
}

// NewSubscriptionRepository construye el adaptador de suscripciones.
func NewSubscriptionRepository(q Querier) *SubscriptionRepo {
	return &SubscriptionRepo{q: q}
}

const subscriptionColumns = `id, organization_id, plan, plan_name, state, start_date, expiry_date,
		renewal_date, monthly_price, total_price, branch_limit, user_limit, product_limit,
		monthly_sale_limit, active, created_at, updated_at, deleted_at`

// Create persiste una suscripción nueva.
func (r *SubscriptionRepo) Create(sub *entity.Subscription) error {
	query := `
		INSERT INTO subscriptions (` + subscriptionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(context.Background(), query,
		sub.ID, sub.OrganizationID, sub.Plan, sub.PlanName, sub.State,
		sub.StartDate, sub.ExpiryDate, sub.RenewalDate,
		sub.MonthlyPrice, sub.TotalPrice,
		sub.BranchLimit, sub.UserLimit, sub.ProductLimit, sub.MonthlySaleLimit,
		sub.Active, sub.CreatedAt, sub.UpdatedAt, sub.DeletedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create subscription: %w", err)
	}
	return nil
}

// GetByID obtiene una suscripción por ID, o nil si no existe.
func (r *SubscriptionRepo) GetByID(id string) (*entity.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions WHERE id = $1 AND deleted_at IS NULL`
	sub, err := scanSubscription(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return sub, nil
}

// GetActiveByOrganization obtiene la suscripción vigente (no cancelada ni
// eliminada) de la organización, o nil si no tiene.
func (r *SubscriptionRepo) GetActiveByOrganization(organizationID string) (*entity.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE organization_id = $1 AND active = true AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT 1`
	sub, err := scanSubscription(r.q.QueryRow(context.Background(), query, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active subscription: %w", err)
	}
	return sub, nil
}

// Update persiste los cambios de una suscripción.
func (r *SubscriptionRepo) Update(sub *entity.Subscription) error {
	query := `
		UPDATE subscriptions
		SET plan = $1, plan_name = $2, state = $3, start_date = $4, expiry_date = $5,
			renewal_date = $6, monthly_price = $7, total_price = $8,
			branch_limit = $9, user_limit = $10, product_limit = $11, monthly_sale_limit = $12,
			active = $13, updated_at = $14, deleted_at = $15
		WHERE id = $16`
	tag, err := r.q.Exec(context.Background(), query,
		sub.Plan, sub.PlanName, sub.State, sub.StartDate, sub.ExpiryDate,
		sub.RenewalDate, sub.MonthlyPrice, sub.TotalPrice,
		sub.BranchLimit, sub.UserLimit, sub.ProductLimit, sub.MonthlySaleLimit,
		sub.Active, sub.UpdatedAt, sub.DeletedAt, sub.ID,
	)
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanSubscription(row pgx.Row) (*entity.Subscription, error) {
	var s entity.Subscription
	err := row.Scan(
		&s.ID, &s.OrganizationID, &s.Plan, &s.PlanName, &s.State,
		&s.StartDate, &s.ExpiryDate, &s.RenewalDate,
		&s.MonthlyPrice, &s.TotalPrice,
		&s.BranchLimit, &s.UserLimit, &s.ProductLimit, &s.MonthlySaleLimit,
		&s.Active, &s.CreatedAt, &s.UpdatedAt, &s.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
