package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/billtrack/invoice-system/internal/api/handler"
	"github.com/billtrack/invoice-system/internal/api/middleware"
	"github.com/billtrack/invoice-system/internal/core/domain"
	"github.com/billtrack/invoice-system/internal/core/ports"
)

// Deps carries everything the HTTP surface needs. Services are built in
// main because the reminder service is shared with the background
// scheduler.
type Deps struct {
	Logger     zerolog.Logger
	JWTSecret  string
	CronSecret string
	Mongo      *mongo.Database
	Redis      *redis.Client
	Auth       ports.AuthService
	Invoices   ports.InvoiceService
	Accounts   ports.AccountService
	Reminders  ports.ReminderService
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("invoicing"))

	authHandler := handler.NewAuthHandler(deps.Auth)
	invoiceHandler := handler.NewInvoiceHandler(deps.Invoices)
	accountHandler := handler.NewAccountHandler(deps.Accounts)
	reminderHandler := handler.NewReminderHandler(deps.Reminders, deps.CronSecret)

	// --- Public surface ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/metrics", echoprometheus.NewHandler())

	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Internal surface (cron secret, not JWT) ---
	e.POST("/internal/reminders/run", reminderHandler.Run)

	// --- Authenticated API ---
	authed := e.Group("/api", middleware.Auth(deps.JWTSecret))

	invoices := authed.Group("/invoices")
	invoices.GET("", invoiceHandler.List)
	invoices.POST("", invoiceHandler.Create, middleware.RBAC(domain.RoleClient, domain.RoleAdmin))
	invoices.GET("/:id", invoiceHandler.Get)
	invoices.PUT("/:id/status", invoiceHandler.SetStatus, middleware.RBAC(domain.RoleSales, domain.RoleAdmin))
	invoices.GET("/:id/communications", invoiceHandler.ListCommunications)
	invoices.POST("/:id/communications", invoiceHandler.AddCommunication)

	authed.GET("/sales-reps", accountHandler.SalesDirectory, middleware.RBAC(domain.RoleClient, domain.RoleAdmin))

	sales := authed.Group("/sales", middleware.RBAC(domain.RoleSales))
	sales.GET("/clients", invoiceHandler.MyClients)

	admin := authed.Group("/admin", middleware.RBAC(domain.RoleAdmin))
	admin.GET("/stats", invoiceHandler.Stats)
	admin.GET("/revenue/monthly", invoiceHandler.MonthlyRevenue)
	admin.GET("/sales", accountHandler.ListSales)
	admin.POST("/sales", accountHandler.CreateSales)
	admin.PUT("/sales/:id", accountHandler.UpdateSales)
	admin.DELETE("/sales/:id", accountHandler.DeleteSales)
	admin.GET("/clients", accountHandler.ListClients)

	return e
}
