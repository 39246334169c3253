package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/controlpos-api/internal/application/auth"
	"github.com/jhoicas/controlpos-api/internal/application/inventory"
	"github.com/jhoicas/controlpos-api/internal/application/order"
	"github.com/jhoicas/controlpos-api/internal/application/ports"
	"github.com/jhoicas/controlpos-api/internal/application/usecase"
	"github.com/jhoicas/controlpos-api/internal/infrastructure/identity"
	"github.com/jhoicas/controlpos-api/internal/infrastructure/messaging"
	infrapdf "github.com/jhoicas/controlpos-api/internal/infrastructure/pdf"
	"github.com/jhoicas/controlpos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/controlpos-api/internal/infrastructure/ratelimit"
	httpRouter "github.com/jhoicas/controlpos-api/internal/interfaces/http"
	"github.com/jhoicas/controlpos-api/pkg/config"
	"github.com/jhoicas/controlpos-api/pkg/logger"
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
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Credencial elevada: administración de tenants.
	adminPool, err := postgres.NewPool(ctx, cfg.AdminDB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL (admin)")
	}
	defer adminPool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, adminPool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	}

	profileRepo := postgres.NewProfileRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	routeRepo := postgres.NewRouteRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	recordRepo := postgres.NewInventoryRecordRepository(pool)
	businessRepo := postgres.NewBusinessConfigRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	identityClient := identity.NewClient(cfg.Identity)
	verifier := identity.NewVerifier(cfg.Identity.JWTSecret, identityClient)

	// Eventos de órdenes: sin RABBITMQ_URL se descartan.
	var events ports.EventPublisher = messaging.NopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		publisher, err := messaging.Dial(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, log)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a RabbitMQ")
		}
		defer publisher.Close()
		events = publisher
	}

	authUC := auth.NewAuthUseCase(identityClient, profileRepo, cfg.Tenancy.VirtualEmailDomain)
	orderUC := order.NewUseCase(txRunner, orderRepo, customerRepo, profileRepo, events, log)
	orderStats := order.NewStatsUseCase(orderRepo)
	receiptUC := order.NewReceiptUseCase(orderRepo, businessRepo, infrapdf.NewReceiptGenerator())
	recordUC := inventory.NewRecordUseCase(txRunner, recordRepo, productRepo)
	productUC := usecase.NewProductUseCase(txRunner, productRepo, categoryRepo)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	customerUC := usecase.NewCustomerUseCase(customerRepo, routeRepo)
	routeUC := usecase.NewRouteUseCase(txRunner, routeRepo)
	businessUC := usecase.NewBusinessUseCase(businessRepo)
	userUC := usecase.NewUserUseCase(profileRepo, identityClient, cfg.Tenancy.TenantEmailDomain, log)

	adminUsers := usecase.NewUserUseCase(postgres.NewProfileRepository(adminPool), identityClient, cfg.Tenancy.TenantEmailDomain, log)
	tenantUC := usecase.NewTenantUseCase(postgres.NewTenantRepository(adminPool), adminUsers, cfg.Tenancy.DefaultTenantID)

	app := httpRouter.NewApp(cfg.App.Name, log)

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.App.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.App.SwaggerFile,
			Path:     "docs",
			Title:    "ControlPOS API",
		}))
	} else {
		log.Warn().Str("file", cfg.App.SwaggerFile).Msg("swagger deshabilitado: archivo no encontrado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	deps := httpRouter.RouterDeps{
		AuthUC:     authUC,
		OrderUC:    orderUC,
		OrderStats: orderStats,
		Receipts:   receiptUC,
		RecordUC:   recordUC,
		ProductUC:  productUC,
		CategoryUC: categoryUC,
		CustomerUC: customerUC,
		RouteUC:    routeUC,
		BusinessUC: businessUC,
		UserUC:     userUC,
		TenantUC:   tenantUC,
		Verifier:   verifier,
		Profiles:   profileRepo,
		Log:        log,
	}

	// Límite de intentos de inicio de sesión: sin REDIS_URL no hay límite.
	if cfg.Redis.URL != "" {
		rdb, err := ratelimit.NewRedis(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		deps.SignInLimit = ratelimit.NewLimiter(rdb, "signin", cfg.Redis.SignInLimit, cfg.Redis.SignInWindow)
	}

	httpRouter.Router(app, deps)

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
