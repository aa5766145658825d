package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/finanzapp/finance-api/internal/api/handler"
	"github.com/finanzapp/finance-api/internal/api/middleware"
	"github.com/finanzapp/finance-api/internal/core/ports"
	"github.com/finanzapp/finance-api/internal/core/service"
)

// Dependencies are the application-state owners and adapters the router
// wires into handlers. They are built once in main.
type Dependencies struct {
	Directory    ports.AccountDirectory
	Ledger       ports.Ledger
	Tokens       *service.TokenService
	Idempotency  ports.IdempotencyStore
	HealthChecks map[string]handler.HealthCheck
	Log          zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.Metrics())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echomiddleware.BodyLimit("64K"))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.Directory, deps.Tokens, deps.Log)
	ledgerHandler := handler.NewLedgerHandler(deps.Ledger, deps.Idempotency, deps.Log)
	authMiddleware := middleware.Auth(deps.Tokens, deps.Directory)
	identify := middleware.OptionalAuth(deps.Tokens, deps.Directory)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout, authMiddleware)
	auth.GET("/session", authHandler.Session, identify)

	// --- Ledger routes (active session required) ---
	v1 := e.Group("/v1", authMiddleware)
	v1.POST("/transactions", ledgerHandler.Create)
	v1.GET("/transactions", ledgerHandler.List)
	v1.GET("/summary", ledgerHandler.Summary)
	v1.GET("/badges", ledgerHandler.Badges)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.HealthChecks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/swagger/index.html")
	})

	return e
}
