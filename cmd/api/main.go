package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/trastienda-api/internal/application/adjustment"
	"github.com/jhoicas/trastienda-api/internal/application/inventory"
	"github.com/jhoicas/trastienda-api/internal/application/ledger"
	"github.com/jhoicas/trastienda-api/internal/application/procurement"
	"github.com/jhoicas/trastienda-api/internal/application/replenishment"
	"github.com/jhoicas/trastienda-api/internal/application/stockcount"
	"github.com/jhoicas/trastienda-api/internal/application/transfer"
	infraevents "github.com/jhoicas/trastienda-api/internal/infrastructure/events"
	"github.com/jhoicas/trastienda-api/internal/infrastructure/metrics"
	"github.com/jhoicas/trastienda-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/trastienda-api/internal/interfaces/http"
	"github.com/jhoicas/trastienda-api/pkg/config"
	"github.com/jhoicas/trastienda-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Msg("iniciando aplicación")

	if cfg.DB.AutoMigrate {
		if err := postgres.RunMigrations(cfg.DB.ConnectionString(), "migrations"); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repos atados al pool: solo para lecturas fuera de transacción. Las
	// escrituras corren dentro del TxRunner con repos atados a la tx.
	stockRepo := postgres.NewStockRepository(pool)
	movementRepo := postgres.NewInventoryMovementRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	priceRepo := postgres.NewSupplierPriceRepository(pool)
	adjustmentRepo := postgres.NewAdjustmentRepository(pool)
	transferRepo := postgres.NewTransferRepository(pool)
	orderRepo := postgres.NewPurchaseOrderRepository(pool)
	receiptRepo := postgres.NewPurchaseReceiptRepository(pool)
	returnRepo := postgres.NewPurchaseReturnRepository(pool)
	countRepo := postgres.NewStockCountRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	var eventMetrics infraevents.Metrics
	var ledgerMetrics ledger.MetricsRecorder
	if cfg.Metrics.Enabled {
		recorder := metrics.NewRecorder(prometheus.DefaultRegisterer)
		eventMetrics = recorder
		ledgerMetrics = recorder
	}
	publisher := infraevents.NewLogPublisher(log, eventMetrics)
	ldg := ledger.NewLedger(stockRepo, ledgerMetrics)

	inventoryQuery := inventory.NewQueryUseCase(ldg, stockRepo, movementRepo, warehouseRepo)
	adjustmentUC := adjustment.NewUseCase(txRunner, ldg, adjustmentRepo, productRepo, warehouseRepo, publisher, log)
	transferUC := transfer.NewUseCase(txRunner, ldg, transferRepo, productRepo, warehouseRepo, publisher, log)
	procurementUC := procurement.NewUseCase(txRunner, ldg, orderRepo, receiptRepo, returnRepo, productRepo, warehouseRepo, publisher, log)
	stockCountUC := stockcount.NewUseCase(txRunner, ldg, adjustmentUC, countRepo, warehouseRepo, productRepo, log)
	replenishmentUC := replenishment.NewUseCase(stockRepo, priceRepo, procurementUC, publisher, log)

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
		Title:    "Trastienda API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	if cfg.Metrics.Enabled {
		app.Get(cfg.Metrics.Path, adaptor.HTTPHandler(promhttp.Handler()))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		InventoryQuery:  inventoryQuery,
		AdjustmentUC:    adjustmentUC,
		TransferUC:      transferUC,
		ProcurementUC:   procurementUC,
		StockCountUC:    stockCountUC,
		ReplenishmentUC: replenishmentUC,
		JWTSecret:       cfg.JWT.Secret,
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
