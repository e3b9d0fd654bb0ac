package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/davidtimana/supply-AI/internal/domain/entity"
)

func TestSubscription_ComputeTotalPrice_MesesCompletos(t *testing.T) {
	sub := &entity.Subscription{
		StartDate:    time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		ExpiryDate:   time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC),
		MonthlyPrice: decimal.NewFromInt(50000),
	}

	sub.ComputeTotalPrice()

	assert.True(t, decimal.NewFromInt(300000).Equal(sub.TotalPrice),
		"6 meses x 50000: %s", sub.TotalPrice)
}

func TestSubscription_ComputeTotalPrice_MesIncompletoNoCuenta(t *testing.T) {
	sub := &entity.Subscription{
		StartDate:    time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		ExpiryDate:   time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC), // 5 días antes de cumplir el 6to mes
		MonthlyPrice: decimal.NewFromInt(50000),
	}

	sub.ComputeTotalPrice()

	assert.True(t, decimal.NewFromInt(250000).Equal(sub.TotalPrice),
		"solo cuentan los meses calendario completos: %s", sub.TotalPrice)
}

func TestSubscription_ComputeTotalPrice_PlanGratuitoQuedaEnCero(t *testing.T) {
	sub := &entity.Subscription{
		StartDate:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		ExpiryDate:   time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		MonthlyPrice: decimal.Zero,
	}

	sub.ComputeTotalPrice()

	assert.True(t, sub.TotalPrice.IsZero())
}

func TestSubscription_Renew_CorreLaVigencia(t *testing.T) {
	expiry := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)
	sub := &entity.Subscription{
		StartDate:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		ExpiryDate:   expiry,
		MonthlyPrice: decimal.NewFromInt(120000),
	}

	sub.Renew(3, now)

	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), sub.ExpiryDate,
		"el vencimiento se corre 3 meses")
	if assert.NotNil(t, sub.RenewalDate) {
		assert.Equal(t, expiry, *sub.RenewalDate,
			"la fecha de renovación queda en el vencimiento anterior")
	}
	assert.Equal(t, now, sub.StartDate)
}

func TestSubscription_IsExpired(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	sub := &entity.Subscription{ExpiryDate: now.AddDate(0, 0, -1)}
	assert.True(t, sub.IsExpired(now))

	sub.ExpiryDate = now.AddDate(0, 0, 1)
	assert.False(t, sub.IsExpired(now))

	sub.ExpiryDate = time.Time{}
	assert.False(t, sub.IsExpired(now), "sin vencimiento nunca expira")
}

func TestSubscription_IsExpiringSoonYNeedsRenewal(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	sub := &entity.Subscription{ExpiryDate: now.AddDate(0, 0, 10)}
	assert.True(t, sub.IsExpiringSoon(now), "vence dentro del próximo mes")
	assert.False(t, sub.NeedsRenewal(now), "todavía falta más de una semana")

	sub.ExpiryDate = now.AddDate(0, 0, 3)
	assert.True(t, sub.NeedsRenewal(now), "vence dentro de la próxima semana")

	sub.ExpiryDate = now.AddDate(0, 2, 0)
	assert.False(t, sub.IsExpiringSoon(now))
}

func TestSubscription_DaysRemaining(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	sub := &entity.Subscription{ExpiryDate: now.AddDate(0, 0, 15)}
	assert.Equal(t, 15, sub.DaysRemaining(now))

	sub.ExpiryDate = now.AddDate(0, 0, -5)
	assert.Equal(t, -5, sub.DaysRemaining(now), "negativo si ya venció")
}

func TestSubscription_CancelEsTerminalYDesactiva(t *testing.T) {
	sub := &entity.Subscription{State: entity.SubscriptionActive, Active: true}

	sub.Cancel()

	assert.Equal(t, entity.SubscriptionCancelled, sub.State)
	assert.False(t, sub.Active)
}

func TestValidPlan(t *testing.T) {
	assert.True(t, entity.ValidPlan(entity.PlanFree))
	assert.True(t, entity.ValidPlan(entity.PlanCustom))
	assert.False(t, entity.ValidPlan("PREMIUM"))
	assert.False(t, entity.ValidPlan(""))
}
