package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/davidtimana/supply-AI/internal/application/cashbox"
	"github.com/davidtimana/supply-AI/internal/application/dto"
	"github.com/davidtimana/supply-AI/internal/domain/entity"
)

// RegisterHandler maneja las peticiones HTTP de cajas registradoras (protegido).
type RegisterHandler struct {
	uc *cashbox.UseCase
}

// NewRegisterHandler construye el handler.
func NewRegisterHandler(uc *cashbox.UseCase) *RegisterHandler {
	return &RegisterHandler{uc: uc}
}

// Create godoc
// @Summary      Crear una caja registradora
// @Tags         registers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRegisterRequest  true  "branch_id, name"
// @Success      201   {object}  dto.RegisterResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/registers [post]
func (h *RegisterHandler) Create(c *fiber.Ctx) error {
	organizationID := GetOrganizationID(c)
	var in dto.CreateRegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	register, err := h.uc.Create(c.Context(), organizationID, in.BranchID, in.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toRegisterResponse(register))
}

// Open godoc
// @Summary      Abrir una caja con monto inicial
// @Tags         registers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "UUID de la caja"
// @Param        body  body  dto.OpenRegisterRequest  true  "amount"
// @Success      200   {object}  dto.RegisterResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/registers/{id}/open [post]
func (h *RegisterHandler) Open(c *fiber.Ctx) error {
	var in dto.OpenRegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	register, err := h.uc.Open(c.Context(), GetOrganizationID(c), GetUserID(c), c.Params("id"), in.Amount)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toRegisterResponse(register))
}

// Close godoc
// @Summary      Cerrar una caja abierta
// @Tags         registers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "UUID de la caja"
// @Success      200  {object}  dto.RegisterResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/registers/{id}/close [post]
func (h *RegisterHandler) Close(c *fiber.Ctx) error {
	register, err := h.uc.Close(c.Context(), GetOrganizationID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toRegisterResponse(register))
}

// Withdraw godoc
// @Summary      Retirar efectivo de una caja abierta
// @Tags         registers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "UUID de la caja"
// @Param        body  body  dto.CashAmountRequest  true  "amount, reference"
// @Success      200   {object}  dto.RegisterResponse
// @Router       /api/registers/{id}/withdrawals [post]
func (h *RegisterHandler) Withdraw(c *fiber.Ctx) error {
	var in dto.CashAmountRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	register, err := h.uc.Withdraw(c.Context(), GetOrganizationID(c), GetUserID(c), c.Params("id"), in.Amount, in.Reference)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toRegisterResponse(register))
}

// Deposit godoc
// @Summary      Depositar efectivo en una caja abierta
// @Tags         registers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "UUID de la caja"
// @Param        body  body  dto.CashAmountRequest  true  "amount, reference"
// @Success      200   {object}  dto.RegisterResponse
// @Router       /api/registers/{id}/deposits [post]
func (h *RegisterHandler) Deposit(c *fiber.Ctx) error {
	var in dto.CashAmountRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	register, err := h.uc.Deposit(c.Context(), GetOrganizationID(c), GetUserID(c), c.Params("id"), in.Amount, in.Reference)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toRegisterResponse(register))
}

// RecordTip godoc
// @Summary      Registrar una propina en una caja abierta
// @Tags         registers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "UUID de la caja"
// @Param        body  body  dto.CashAmountRequest  true  "amount, reference"
// @Success      200   {object}  dto.RegisterResponse
// @Router       /api/registers/{id}/tips [post]
func (h *RegisterHandler) RecordTip(c *fiber.Ctx) error {
	var in dto.CashAmountRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	register, err := h.uc.RecordTip(c.Context(), GetOrganizationID(c), GetUserID(c), c.Params("id"), in.Amount, in.Reference)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toRegisterResponse(register))
}

// Lock godoc
// @Summary      Bloquear una caja por seguridad
// @Tags         registers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "UUID de la caja"
// @Success      200  {object}  dto.RegisterResponse
// @Router       /api/registers/{id}/lock [post]
func (h *RegisterHandler) Lock(c *fiber.Ctx) error {
	register, err := h.uc.Lock(c.Context(), GetOrganizationID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toRegisterResponse(register))
}

// GetByID godoc
// @Summary      Consultar una caja
// @Tags         registers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "UUID de la caja"
// @Success      200  {object}  dto.RegisterResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/registers/{id} [get]
func (h *RegisterHandler) GetByID(c *fiber.Ctx) error {
	register, err := h.uc.FindByID(c.Context(), GetOrganizationID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toRegisterResponse(register))
}

// List godoc
// @Summary      Listar las cajas de una sucursal
// @Tags         registers
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  true  "UUID de la sucursal"
// @Success      200  {array}  dto.RegisterResponse
// @Router       /api/registers [get]
func (h *RegisterHandler) List(c *fiber.Ctx) error {
	branchID := c.Query("branch_id")
	if branchID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "branch_id requerido"})
	}
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	page.DefaultPage()

	registers, err := h.uc.ListByBranch(c.Context(), branchID, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.RegisterResponse, 0, len(registers))
	for _, r := range registers {
		out = append(out, toRegisterResponse(r))
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Historial de movimientos de una caja
// @Tags         registers
// @Security     Bearer
// @Produce      json
// @Param        id    path   string  true   "UUID de la caja"
// @Param        from  query  string  false  "Fecha inicial (RFC3339)"
// @Param        to    query  string  false  "Fecha final (RFC3339)"
// @Success      200  {array}  dto.CashMovementResponse
// @Router       /api/registers/{id}/movements [get]
func (h *RegisterHandler) ListMovements(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fechas inválidas (RFC3339)"})
	}
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	page.DefaultPage()

	movements, err := h.uc.ListMovements(c.Context(), GetOrganizationID(c), c.Params("id"), from, to, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.CashMovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.CashMovementResponse{
			ID:            m.ID,
			RegisterID:    m.RegisterID,
			Kind:          m.Kind,
			Amount:        m.Amount,
			BalanceBefore: m.BalanceBefore,
			BalanceAfter:  m.BalanceAfter,
			Reference:     m.Reference,
			OccurredAt:    m.OccurredAt,
		})
	}
	return c.JSON(out)
}

func toRegisterResponse(r *entity.CashRegister) dto.RegisterResponse {
	return dto.RegisterResponse{
		ID:               r.ID,
		BranchID:         r.BranchID,
		Name:             r.Name,
		State:            r.State,
		OpeningBalance:   r.OpeningBalance,
		CurrentBalance:   r.CurrentBalance,
		CashBalance:      r.CashBalance,
		CardBalance:      r.CardBalance,
		TransferBalance:  r.TransferBalance,
		TotalSales:       r.TotalSales,
		TotalTips:        r.TotalTips,
		TransactionCount: r.TransactionCount,
		Version:          r.Version,
		UpdatedAt:        r.UpdatedAt,
	}
}
