package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/davidtimana/supply-AI/internal/application/cashbox"
	"github.com/davidtimana/supply-AI/internal/application/inventory"
	"github.com/davidtimana/supply-AI/internal/application/sales"
	"github.com/davidtimana/supply-AI/internal/application/subscription"
	infrapdf "github.com/davidtimana/supply-AI/internal/infrastructure/pdf"
	"github.com/davidtimana/supply-AI/internal/infrastructure/postgres"
	httpRouter "github.com/davidtimana/supply-AI/internal/interfaces/http"
	"github.com/davidtimana/supply-AI/pkg/config"
	"github.com/davidtimana/supply-AI/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repositorios sobre el pool (lecturas fuera de tx)
	stockRepo := postgres.NewStockRecordRepository(pool)
	movRepo := postgres.NewInventoryMovementRepository(pool)
	registerRepo := postgres.NewCashRegisterRepository(pool)
	cashMovRepo := postgres.NewCashMovementRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	subscriptionRepo := postgres.NewSubscriptionRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	branchRepo := postgres.NewBranchRepository(pool)
	organizationRepo := postgres.NewOrganizationRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Casos de uso
	ledgerUC := inventory.NewLedgerUseCase(txRunner, stockRepo, movRepo, productRepo, branchRepo)
	cashboxUC := cashbox.NewUseCase(txRunner, registerRepo, cashMovRepo, branchRepo)
	receiptGenerator := infrapdf.NewReceiptGenerator()
	salesUC := sales.NewUseCase(
		txRunner, ledgerUC, cashboxUC,
		saleRepo, productRepo, branchRepo, registerRepo,
		receiptGenerator,
	)
	subscriptionUC := subscription.NewUseCase(subscriptionRepo, organizationRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Supply AI API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		LedgerUC:       ledgerUC,
		SalesUC:        salesUC,
		CashboxUC:      cashboxUC,
		SubscriptionUC: subscriptionUC,
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
