package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Planes de suscripción disponibles.
const (
	PlanFree       = "FREE"
	PlanBasic      = "BASIC"
	PlanPro        = "PRO"
	PlanEnterprise = "ENTERPRISE"
	PlanCustom     = "CUSTOM"
)

// Estados de una suscripción.
const (
	SubscriptionActive    = "ACTIVE"
	SubscriptionSuspended = "SUSPENDED"
	SubscriptionCancelled = "CANCELLED"
	SubscriptionExpired   = "EXPIRED"
	SubscriptionPending   = "PENDING"
)

// ValidPlan valida un plan en el borde.
func ValidPlan(p string) bool {
	switch p {
	case PlanFree, PlanBasic, PlanPro, PlanEnterprise, PlanCustom:
		return true
	}
	return false
}

// Subscription representa la suscripción de una organización a un plan.
// TotalPrice = MonthlyPrice * meses entre StartDate y ExpiryDate.
type Subscription struct {
	ID               string
	OrganizationID   string
	Plan             string
	PlanName         string
	State            string
	StartDate        time.Time
	ExpiryDate       time.Time
	RenewalDate      *time.Time
	MonthlyPrice     decimal.Decimal
	TotalPrice       decimal.Decimal
	BranchLimit      int
	UserLimit        int
	ProductLimit     int
	MonthlySaleLimit int
	Active           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        *time.Time
}

// ComputeTotalPrice recalcula el precio total según los meses de vigencia.
func (s *Subscription) ComputeTotalPrice() {
	months := monthsBetween(s.StartDate, s.ExpiryDate)
	if months <= 0 || !s.MonthlyPrice.GreaterThan(decimal.Zero) {
		return
	}
	s.TotalPrice = s.MonthlyPrice.Mul(decimal.NewFromInt(int64(months)))
}

// Renew extiende la vigencia: la fecha de renovación queda en el vencimiento
// anterior, el vencimiento se corre `months` meses y se recalcula el total.
func (s *Subscription) Renew(months int, now time.Time) {
	renewal := s.ExpiryDate
	s.RenewalDate = &renewal
	s.ExpiryDate = s.ExpiryDate.AddDate(0, months, 0)
	s.StartDate = now
	s.ComputeTotalPrice()
}

// Activate activa la suscripción.
func (s *Subscription) Activate() {
	s.State = SubscriptionActive
	s.Active = true
}

// Suspend suspende temporalmente la suscripción.
func (s *Subscription) Suspend() {
	s.State = SubscriptionSuspended
}

// Cancel cancela la suscripción (terminal) y la desactiva.
func (s *Subscription) Cancel() {
	s.State = SubscriptionCancelled
	s.Active = false
}

// IsExpired indica si la suscripción ya venció.
func (s *Subscription) IsExpired(now time.Time) bool {
	if s.ExpiryDate.IsZero() {
		return false
	}
	return now.After(s.ExpiryDate)
}

// IsExpiringSoon indica si vence dentro del próximo mes.
func (s *Subscription) IsExpiringSoon(now time.Time) bool {
	if s.ExpiryDate.IsZero() {
		return false
	}
	nextMonth := now.AddDate(0, 1, 0)
	return s.ExpiryDate.After(now) && s.ExpiryDate.Before(nextMonth)
}

// NeedsRenewal indica si vence dentro de la próxima semana.
func (s *Subscription) NeedsRenewal(now time.Time) bool {
	if s.ExpiryDate.IsZero() {
		return false
	}
	nextWeek := now.AddDate(0, 0, 7)
	return s.ExpiryDate.After(now) && s.ExpiryDate.Before(nextWeek)
}

// DaysRemaining devuelve los días hasta el vencimiento (negativo si ya venció).
func (s *Subscription) DaysRemaining(now time.Time) int {
	if s.ExpiryDate.IsZero() {
		return 0
	}
	return int(s.ExpiryDate.Sub(now).Hours() / 24)
}

// monthsBetween cuenta meses calendario completos entre dos fechas.
func monthsBetween(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	months := int(to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		months--
	}
	return months
}
