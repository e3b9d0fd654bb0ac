package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/davidtimana/supply-AI/internal/application/dto"
	"github.com/davidtimana/supply-AI/internal/application/subscription"
	"github.com/davidtimana/supply-AI/internal/domain/entity"
)

// SubscriptionHandler maneja las peticiones HTTP de suscripciones (protegido).
type SubscriptionHandler struct {
	uc *subscription.UseCase
}

// NewSubscriptionHandler construye el handler.
func NewSubscriptionHandler(uc *subscription.UseCase) *SubscriptionHandler {
	return &SubscriptionHandler{uc: uc}
}

// createSubscriptionRequest body para el alta de suscripción.
type createSubscriptionRequest struct {
	Plan   string `json:"plan"`
	Months int    `json:"months"`
}

// Create godoc
// @Summary      Dar de alta la suscripción de la organización
// @Tags         subscriptions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  createSubscriptionRequest  true  "plan, months"
// @Success      201   {object}  dto.SubscriptionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/subscriptions [post]
func (h *SubscriptionHandler) Create(c *fiber.Ctx) error {
	var in createSubscriptionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	sub, err := h.uc.Create(c.Context(), GetOrganizationID(c), in.Plan, in.Months)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSubscriptionResponse(sub))
}

// Get godoc
// @Summary      Consultar la suscripción vigente de la organización
// @Tags         subscriptions
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SubscriptionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/subscriptions [get]
func (h *SubscriptionHandler) Get(c *fiber.Ctx) error {
	sub, err := h.uc.GetByOrganization(c.Context(), GetOrganizationID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toSubscriptionResponse(sub))
}

// ChangePlan godoc
// @Summary      Cambiar el plan de la suscripción (no recalcula precios)
// @Tags         subscriptions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "UUID de la suscripción"
// @Param        body  body  dto.ChangePlanRequest  true  "plan"
// @Success      200   {object}  dto.SubscriptionResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/subscriptions/{id}/plan [put]
func (h *SubscriptionHandler) ChangePlan(c *fiber.Ctx) error {
	var in dto.ChangePlanRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	sub, err := h.uc.ChangePlan(c.Context(), GetOrganizationID(c), c.Params("id"), in.Plan)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toSubscriptionResponse(sub))
}

// Renew godoc
// @Summary      Renovar la suscripción N meses
// @Tags         subscriptions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "UUID de la suscripción"
// @Param        body  body  dto.RenewRequest  true  "months"
// @Success      200   {object}  dto.SubscriptionResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/subscriptions/{id}/renew [post]
func (h *SubscriptionHandler) Renew(c *fiber.Ctx) error {
	var in dto.RenewRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	sub, err := h.uc.Renew(c.Context(), GetOrganizationID(c), c.Params("id"), in.Months)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toSubscriptionResponse(sub))
}

// Suspend godoc
// @Summary      Suspender la suscripción
// @Tags         subscriptions
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "UUID de la suscripción"
// @Success      200  {object}  dto.SubscriptionResponse
// @Router       /api/subscriptions/{id}/suspend [post]
func (h *SubscriptionHandler) Suspend(c *fiber.Ctx) error {
	sub, err := h.uc.Suspend(c.Context(), GetOrganizationID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toSubscriptionResponse(sub))
}

// Activate godoc
// @Summary      Reactivar una suscripción suspendida o pendiente
// @Tags         subscriptions
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "UUID de la suscripción"
// @Success      200  {object}  dto.SubscriptionResponse
// @Router       /api/subscriptions/{id}/activate [post]
func (h *SubscriptionHandler) Activate(c *fiber.Ctx) error {
	sub, err := h.uc.Activate(c.Context(), GetOrganizationID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toSubscriptionResponse(sub))
}

// Cancel godoc
// @Summary      Cancelar definitivamente la suscripción
// @Tags         subscriptions
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "UUID de la suscripción"
// @Success      200  {object}  dto.SubscriptionResponse
// @Router       /api/subscriptions/{id}/cancel [post]
func (h *SubscriptionHandler) Cancel(c *fiber.Ctx) error {
	sub, err := h.uc.Cancel(c.Context(), GetOrganizationID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toSubscriptionResponse(sub))
}

func toSubscriptionResponse(s *entity.Subscription) dto.SubscriptionResponse {
	now := time.Now()
	return dto.SubscriptionResponse{
		ID:               s.ID,
		OrganizationID:   s.OrganizationID,
		Plan:             s.Plan,
		State:            s.State,
		StartDate:        s.StartDate,
		ExpiryDate:       s.ExpiryDate,
		RenewalDate:      s.RenewalDate,
		MonthlyPrice:     s.MonthlyPrice,
		TotalPrice:       s.TotalPrice,
		BranchLimit:      s.BranchLimit,
		UserLimit:        s.UserLimit,
		ProductLimit:     s.ProductLimit,
		MonthlySaleLimit: s.MonthlySaleLimit,
		DaysRemaining:    s.DaysRemaining(now),
		ExpiringSoon:     s.IsExpiringSoon(now),
	}
}
