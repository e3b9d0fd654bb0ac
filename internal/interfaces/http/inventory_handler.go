package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/davidtimana/supply-AI/internal/application/dto"
	"github.com/davidtimana/supply-AI/internal/application/inventory"
	"github.com/davidtimana/supply-AI/internal/domain/entity"
)

// InventoryHandler maneja las peticiones HTTP del ledger de inventario (protegido).
type InventoryHandler struct {
	uc *inventory.LedgerUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.LedgerUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// AdjustStock godoc
// @Summary      Aplicar un movimiento de inventario (IN/OUT/ADJUST/RETURN/SHRINKAGE)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "product_id, branch_id, kind, quantity"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	organizationID := GetOrganizationID(c)
	userID := GetUserID(c)
	if organizationID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.uc.AdjustStock(c.Context(), inventory.AdjustInput{
		OrganizationID: organizationID,
		UserID:         userID,
		ProductID:      in.ProductID,
		BranchID:       in.BranchID,
		Kind:           in.Kind,
		Quantity:       in.Quantity,
		UnitPrice:      in.UnitPrice,
		Reference:      in.Reference,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
}

// TransferStock godoc
// @Summary      Trasladar stock entre sucursales (atómico)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferStockRequest  true  "product_id, from_branch_id, to_branch_id, quantity"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers [post]
func (h *InventoryHandler) TransferStock(c *fiber.Ctx) error {
	organizationID := GetOrganizationID(c)
	userID := GetUserID(c)
	if organizationID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.TransferStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.uc.TransferStock(c.Context(), inventory.TransferInput{
		OrganizationID: organizationID,
		UserID:         userID,
		ProductID:      in.ProductID,
		FromBranchID:   in.FromBranchID,
		ToBranchID:     in.ToBranchID,
		Quantity:       in.Quantity,
		Reference:      in.Reference,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "traslado registrado"})
}

// CheckStock godoc
// @Summary      Verificar disponibilidad de stock
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  true   "UUID del producto"
// @Param        branch_id   query  string  true   "UUID de la sucursal"
// @Param        quantity    query  number  true   "Cantidad requerida"
// @Success      200  {object}  map[string]bool
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/check [get]
func (h *InventoryHandler) CheckStock(c *fiber.Ctx) error {
	var in dto.CheckStockRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	ok, err := h.uc.CheckStock(c.Context(), in.ProductID, in.BranchID, in.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"available": ok})
}

// GetStock godoc
// @Summary      Consultar el registro de stock de un producto en una sucursal
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  true  "UUID del producto"
// @Param        branch_id   query  string  true  "UUID de la sucursal"
// @Success      200  {object}  dto.StockRecordResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock [get]
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	branchID := c.Query("branch_id")
	stock, err := h.uc.Find(c.Context(), productID, branchID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toStockResponse(stock))
}

// ListStock godoc
// @Summary      Listar el stock de una sucursal
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  true  "UUID de la sucursal"
// @Success      200  {array}  dto.StockRecordResponse
// @Router       /api/inventory/stock/list [get]
func (h *InventoryHandler) ListStock(c *fiber.Ctx) error {
	branchID := c.Query("branch_id")
	if branchID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "branch_id requerido"})
	}
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	page.DefaultPage()

	records, err := h.uc.ListStock(c.Context(), branchID, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.StockRecordResponse, 0, len(records))
	for _, s := range records {
		out = append(out, toStockResponse(s))
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Historial de movimientos de un producto en una sucursal
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  true   "UUID del producto"
// @Param        branch_id   query  string  true   "UUID de la sucursal"
// @Param        from        query  string  false  "Fecha inicial (RFC3339)"
// @Param        to          query  string  false  "Fecha final (RFC3339)"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	branchID := c.Query("branch_id")
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fechas inválidas (RFC3339)"})
	}
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	page.DefaultPage()

	var movements []*entity.InventoryMovement
	if productID != "" {
		movements, err = h.uc.ListMovements(c.Context(), productID, branchID, from, to, page.Limit, page.Offset)
	} else {
		movements, err = h.uc.ListBranchMovements(c.Context(), branchID, from, to, page.Limit, page.Offset)
	}
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, toMovementResponse(m))
	}
	return c.JSON(out)
}

// parseDateRange lee from/to (RFC3339) de la query; vacíos = sin filtro.
func parseDateRange(c *fiber.Ctx) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, nil, err
		}
		to = &t
	}
	return from, to, nil
}

func toStockResponse(s *entity.StockRecord) dto.StockRecordResponse {
	return dto.StockRecordResponse{
		ProductID:      s.ProductID,
		BranchID:       s.BranchID,
		QuantityOnHand: s.QuantityOnHand,
		ReorderPoint:   s.ReorderPoint,
		MinLevel:       s.MinLevel,
		MaxLevel:       s.MaxLevel,
		SafetyStock:    s.SafetyStock,
		Status:         s.Status(),
		Version:        s.Version,
		UpdatedAt:      s.UpdatedAt,
	}
}

func toMovementResponse(m *entity.InventoryMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:             m.ID,
		ProductID:      m.ProductID,
		BranchID:       m.BranchID,
		Kind:           m.Kind,
		Quantity:       m.Quantity,
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter,
		Reference:      m.Reference,
		OccurredAt:     m.OccurredAt,
	}
}
