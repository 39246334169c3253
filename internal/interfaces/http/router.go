package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/controlpos-api/internal/application/auth"
	"github.com/jhoicas/controlpos-api/internal/application/inventory"
	"github.com/jhoicas/controlpos-api/internal/application/order"
	"github.com/jhoicas/controlpos-api/internal/application/ports"
	"github.com/jhoicas/controlpos-api/internal/application/usecase"
	"github.com/jhoicas/controlpos-api/internal/domain/entity"
	"github.com/jhoicas/controlpos-api/pkg/logger"
)

// NewApp crea la aplicación Fiber con el manejador de errores y los middlewares comunes.
func NewApp(appName string, log *logger.Logger) *fiber.App {
	if log == nil {
		log = logger.Nop()
	}
	app := fiber.New(fiber.Config{
		AppName:      appName,
		ErrorHandler: ErrorHandler(log),
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(RequestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-Request-ID",
	}))
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	return app
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	OrderUC     *order.UseCase
	OrderStats  *order.StatsUseCase
	Receipts    *order.ReceiptUseCase
	RecordUC    *inventory.RecordUseCase
	ProductUC   *usecase.ProductUseCase
	CategoryUC  *usecase.CategoryUseCase
	CustomerUC  *usecase.CustomerUseCase
	RouteUC     *usecase.RouteUseCase
	BusinessUC  *usecase.BusinessUseCase
	UserUC      *usecase.UserUseCase
	TenantUC    *usecase.TenantUseCase
	Verifier    ports.TokenVerifier
	Profiles    profileReader
	SignInLimit SignInLimiter // nil: sin límite de intentos
	Log         *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/signup", authHandler.SignUp)
	authGroup.Post("/signin", SignInRateLimit(deps.SignInLimit, deps.Log), authHandler.SignIn)
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Post("/signout", authHandler.SignOut)

	// Tenants (solo super_admin)
	tenants := api.Group("/tenants", AdminAuth(deps.Verifier, deps.Profiles))
	tenantHandler := NewTenantHandler(deps.TenantUC)
	tenants.Get("/", tenantHandler.List)
	tenants.Post("/", tenantHandler.Create)
	tenants.Get("/:id", tenantHandler.GetByID)
	tenants.Put("/:id", tenantHandler.Update)
	tenants.Delete("/:id", tenantHandler.Delete)
	tenants.Get("/:id/users", tenantHandler.Users)
	tenants.Post("/:id/users", tenantHandler.CreateUser)
	tenants.Get("/:id/stats", tenantHandler.Stats)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.Verifier, deps.Profiles))
	adminOnly := RequireRole(entity.RoleAdmin, entity.RoleSuperAdmin)

	// Orders (todos los roles del tenant)
	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC, deps.OrderStats, deps.Receipts)
	orders.Post("/checkout", orderHandler.Checkout)
	orders.Get("/", orderHandler.List)
	orders.Get("/stats/summary", orderHandler.Stats)
	orders.Post("/", orderHandler.Create)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Get("/:id/receipt", orderHandler.Receipt)
	orders.Put("/:id", orderHandler.Update)
	orders.Delete("/:id", orderHandler.Delete)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/order-list", productHandler.OrderList)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", adminOnly, productHandler.Create)
	products.Put("/:id", adminOnly, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	// Categories
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/", categoryHandler.List)
	categories.Post("/", adminOnly, categoryHandler.Create)
	categories.Put("/:id", adminOnly, categoryHandler.Update)
	categories.Delete("/:id", adminOnly, categoryHandler.Delete)

	// Customers (todos los roles del tenant)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Get("/", customerHandler.List)
	customers.Post("/", customerHandler.Create)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)

	// Routes
	routes := protected.Group("/routes")
	routeHandler := NewRouteHandler(deps.RouteUC)
	routes.Get("/", routeHandler.List)
	routes.Get("/:id", routeHandler.GetByID)
	routes.Post("/", adminOnly, routeHandler.Create)
	routes.Put("/:id", adminOnly, routeHandler.Update)
	routes.Delete("/:id", adminOnly, routeHandler.Delete)
	routes.Put("/:id/customers", adminOnly, routeHandler.AssignCustomers)

	// Business config
	business := protected.Group("/business")
	businessHandler := NewBusinessHandler(deps.BusinessUC)
	business.Get("/", businessHandler.Get)
	business.Put("/", adminOnly, businessHandler.Save)

	// Users (administración del tenant)
	users := protected.Group("/users", adminOnly)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Post("/invite", userHandler.Invite)
	users.Delete("/:id", userHandler.Delete)

	// Inventory
	inv := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.RecordUC)
	inv.Get("/records", inventoryHandler.ListRecords)
	inv.Get("/records/:id", inventoryHandler.GetRecord)
	inv.Post("/records", adminOnly, inventoryHandler.CreateRecord)
	inv.Put("/records/:id", adminOnly, inventoryHandler.UpdateRecord)
	inv.Delete("/records/:id", adminOnly, inventoryHandler.DeleteRecord)
	inv.Get("/movements/:productId", inventoryHandler.ProductMovements)
}
