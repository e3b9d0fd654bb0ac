package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChangePlanRequest body para PUT /api/subscriptions/:id/plan.
type ChangePlanRequest struct {
	Plan string `json:"plan"`
}

// RenewRequest body para POST /api/subscriptions/:id/renew.
type RenewRequest struct {
	Months int `json:"months"`
}

// SubscriptionResponse representación HTTP de una suscripción.
type SubscriptionResponse struct {
	ID               string          `json:"id"`
	OrganizationID   string          `json:"organization_id"`
	Plan             string          `json:"plan"`
	State            string          `json:"state"`
	StartDate        time.Time       `json:"start_date"`
	ExpiryDate       time.Time       `json:"expiry_date"`
	RenewalDate      *time.Time      `json:"renewal_date,omitempty"`
	MonthlyPrice     decimal.Decimal `json:"monthly_price"`
	TotalPrice       decimal.Decimal `json:"total_price"`
	BranchLimit      int             `json:"branch_limit"`
	UserLimit        int             `json:"user_limit"`
	ProductLimit     int             `json:"product_limit"`
	MonthlySaleLimit int             `json:"monthly_sale_limit"`
	DaysRemaining    int             `json:"days_remaining"`
	ExpiringSoon     bool            `json:"expiring_soon"`
}
