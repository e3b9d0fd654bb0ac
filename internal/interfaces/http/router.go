package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/davidtimana/supply-AI/internal/application/cashbox"
	"github.com/davidtimana/supply-AI/internal/application/inventory"
	"github.com/davidtimana/supply-AI/internal/application/sales"
	"github.com/davidtimana/supply-AI/internal/application/subscription"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	LedgerUC       *inventory.LedgerUseCase
	SalesUC        *sales.UseCase
	CashboxUC      *cashbox.UseCase
	SubscriptionUC *subscription.UseCase
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Inventario (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.LedgerUC)
	invGroup.Post("/adjustments", inventoryHandler.AdjustStock)
	invGroup.Post("/transfers", inventoryHandler.TransferStock)
	invGroup.Get("/check", inventoryHandler.CheckStock)
	invGroup.Get("/stock", inventoryHandler.GetStock)
	invGroup.Get("/stock/list", inventoryHandler.ListStock)
	invGroup.Get("/movements", inventoryHandler.ListMovements)

	// Ventas (protegido)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SalesUC)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Post("/:id/cancel", saleHandler.Cancel)
	salesGroup.Post("/:id/return", saleHandler.Return)
	salesGroup.Post("/:id/void", RequireRole("admin"), saleHandler.Void)
	salesGroup.Get("/:id/receipt", saleHandler.Receipt)

	// Cajas registradoras (protegido)
	registers := protected.Group("/registers")
	registerHandler := NewRegisterHandler(deps.CashboxUC)
	registers.Post("/", registerHandler.Create)
	registers.Get("/", registerHandler.List)
	registers.Get("/:id", registerHandler.GetByID)
	registers.Post("/:id/open", registerHandler.Open)
	registers.Post("/:id/close", registerHandler.Close)
	registers.Post("/:id/withdrawals", RequireRole("admin", "cajero"), registerHandler.Withdraw)
	registers.Post("/:id/deposits", registerHandler.Deposit)
	registers.Post("/:id/tips", registerHandler.RecordTip)
	registers.Post("/:id/lock", RequireRole("admin"), registerHandler.Lock)
	registers.Get("/:id/movements", registerHandler.ListMovements)

	// Suscripciones (protegido)
	subs := protected.Group("/subscriptions")
	subscriptionHandler := NewSubscriptionHandler(deps.SubscriptionUC)
	subs.Get("/", subscriptionHandler.Get)
	subs.Post("/", RequireRole("admin"), subscriptionHandler.Create)
	subs.Put("/:id/plan", RequireRole("admin"), subscriptionHandler.ChangePlan)
	subs.Post("/:id/renew", RequireRole("admin"), subscriptionHandler.Renew)
	subs.Post("/:id/suspend", RequireRole("admin"), subscriptionHandler.Suspend)
	subs.Post("/:id/activate", RequireRole("admin"), subscriptionHandler.Activate)
	subs.Post("/:id/cancel", RequireRole("admin"), subscriptionHandler.Cancel)
}
