package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/awesome-restaurant/restaurant-api/docs"
	"github.com/awesome-restaurant/restaurant-api/internal/api/handler"
	"github.com/awesome-restaurant/restaurant-api/internal/api/middleware"
	"github.com/awesome-restaurant/restaurant-api/internal/core/ports"
)

// Dependencies are the services the HTTP layer routes to. One instance per
// process, built in cmd and passed in explicitly.
type Dependencies struct {
	Log      zerolog.Logger
	Tokens   ports.TokenService
	Users    ports.UserService
	Menu     ports.MenuService
	Reviews  ports.ReviewService
	Carts    ports.CartService
	Checkout ports.CheckoutService
	Reports  ports.ReportingService
	Health   map[string]handler.Check

	// Registerer receives the HTTP request metrics; nil disables them.
	Registerer prometheus.Registerer
	// Gatherer backs GET /metrics; nil means the default registry.
	Gatherer prometheus.Gatherer
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
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestLogger(deps.Log))
	if deps.Registerer != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Subsystem:  "http",
			Registerer: deps.Registerer,
		}))
	}

	// --- Guards ---
	authenticate := middleware.Authenticate(deps.Tokens)
	admin := middleware.RequireAdmin(deps.Users)
	withAuth := middleware.Chain(authenticate)
	withAdmin := middleware.Chain(authenticate, admin)

	// --- Handlers ---
	tokenHandler := handler.NewTokenHandler(deps.Tokens)
	userHandler := handler.NewUserHandler(deps.Users)
	menuHandler := handler.NewMenuHandler(deps.Menu)
	reviewHandler := handler.NewReviewHandler(deps.Reviews)
	cartHandler := handler.NewCartHandler(deps.Carts)
	paymentHandler := handler.NewPaymentHandler(deps.Checkout)
	statsHandler := handler.NewStatsHandler(deps.Reports)
	healthHandler := handler.NewHealthHandler(deps.Health)

	e.GET("/", handler.Root)
	e.POST("/jwt", tokenHandler.Issue)

	// --- Catalog ---
	e.GET("/menu", menuHandler.List)
	e.POST("/menu", menuHandler.Create, withAdmin)
	e.DELETE("/menu/:id", menuHandler.Delete, withAdmin)
	e.GET("/reviews", reviewHandler.List)

	// --- Carts ---
	e.POST("/carts", cartHandler.Add)
	e.GET("/carts", cartHandler.List, middleware.Chain(authenticate, middleware.RequireSelf(middleware.QueryOwner("email"))))
	e.DELETE("/carts/:id", cartHandler.Remove)

	// --- Users ---
	e.POST("/users", userHandler.Register)
	e.GET("/users", userHandler.List, withAdmin)
	e.DELETE("/users/:id", userHandler.Delete)
	e.PATCH("/users/admin/:id", userHandler.Promote)
	e.GET("/users/admin/:email", userHandler.CheckAdmin, withAuth)

	// --- Checkout ---
	e.POST("/create-payment-intent", paymentHandler.CreateIntent, withAuth)
	e.POST("/payments", paymentHandler.Settle, withAuth)
	e.GET("/payments/:email", paymentHandler.History, middleware.Chain(authenticate, middleware.RequireSelf(middleware.PathOwner("email"))))

	// --- Reporting ---
	e.GET("/admin-stats", statsHandler.Summary, withAdmin)
	e.GET("/order-stats", statsHandler.Orders)

	// --- Operations ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))

	return e
}
