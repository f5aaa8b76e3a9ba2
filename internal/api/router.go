package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/contalink/backoffice/docs"
	"github.com/contalink/backoffice/internal/api/handler"
	"github.com/contalink/backoffice/internal/api/middleware"
	"github.com/contalink/backoffice/internal/core/domain"
	"github.com/contalink/backoffice/internal/core/navigation"
	"github.com/contalink/backoffice/internal/core/ports"
)

// Services are the server actions exposed over HTTP.
type Services struct {
	Auth     ports.AuthService
	Users    ports.UserService
	Clients  ports.ClientService
	Products ports.ProductService
	Payments ports.PaymentService
	Orders   ports.OrderService
	Catalog  ports.CatalogService
	Contact  ports.ContactService
}

// Options configure the transport concerns of the router.
type Options struct {
	JWTSecret string
	// Users resolves the account behind every session.
	Users       middleware.UserFinder
	LoginLimit  int
	LoginWindow time.Duration
	Menu        navigation.Menu
	// Views caches list responses; nil disables caching.
	Views  handler.ViewCache
	Health map[string]handler.HealthCheck
	Logger zerolog.Logger
	// Registry receives the request metrics; nil uses the default registry
	// where the action metrics live.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	// RealIP is the socket peer; forwarding headers are client controlled.
	e.IPExtractor = echo.ExtractIPDirect()
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(opts.Logger))
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if opts.Registry != nil {
		registerer, gatherer = opts.Registry, opts.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "backoffice",
		Registerer: registerer,
	}))

	if opts.LoginLimit <= 0 {
		opts.LoginLimit = 10
	}
	if opts.LoginWindow <= 0 {
		opts.LoginWindow = time.Minute
	}

	// --- Dependencies ---
	var views *handler.Views
	if opts.Views != nil {
		views = handler.NewViews(opts.Views, opts.Logger)
	}
	authHandler := handler.NewAuthHandler(svc.Auth)
	contactHandler := handler.NewContactHandler(svc.Contact)
	userHandler := handler.NewUserHandler(svc.Users, opts.Menu, views)
	clientHandler := handler.NewClientHandler(svc.Clients, views)
	productHandler := handler.NewProductHandler(svc.Products, views)
	paymentHandler := handler.NewPaymentHandler(svc.Payments, views)
	orderHandler := handler.NewOrderHandler(svc.Orders, views)
	catalogHandler := handler.NewCatalogHandler(svc.Catalog, views)
	healthHandler := handler.NewHealthHandler(opts.Health)

	// --- Operational endpoints (no auth required) ---
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Public routes ---
	e.POST("/auth/login", authHandler.Login, middleware.RateLimitByIP(opts.LoginLimit, opts.LoginWindow))
	e.POST("/contact", contactHandler.Send)

	// --- Authenticated routes ---
	staff := middleware.RBAC(domain.RoleAdmin, domain.RoleAccountant, domain.RoleSeller)
	admin := middleware.RBAC(domain.RoleAdmin)

	g := e.Group("/api", middleware.Auth(opts.JWTSecret, opts.Users))

	g.GET("/me", userHandler.Me)
	g.GET("/me/permissions", userHandler.Permissions)
	g.GET("/sidebar", userHandler.Sidebar)

	users := g.Group("/users")
	users.GET("", userHandler.Index, staff)
	users.POST("", userHandler.Create, admin)
	users.PATCH("/:id/role", userHandler.AssignRole, admin)
	users.DELETE("/:id", userHandler.Delete, admin)

	clients := g.Group("/clients", staff)
	clients.GET("", clientHandler.List)
	clients.POST("", clientHandler.Create)
	clients.GET("/:id", clientHandler.Get)
	clients.PUT("/:id", clientHandler.Update)
	clients.DELETE("/:id", clientHandler.Delete)

	products := g.Group("/products", staff)
	products.GET("", productHandler.List)
	products.POST("", productHandler.Create)
	products.GET("/:id", productHandler.Get)
	products.PUT("/:id", productHandler.Update)
	products.PATCH("/:id/quantity", productHandler.UpdateQuantity)
	products.DELETE("/:id", productHandler.Delete)

	// Clients read their own payments and orders; the services scope them.
	payments := g.Group("/payments")
	payments.GET("", paymentHandler.List)
	payments.GET("/stats", paymentHandler.Stats)
	payments.GET("/export", paymentHandler.Export)
	payments.GET("/:id", paymentHandler.Get)
	payments.POST("", paymentHandler.Create, staff)
	payments.PATCH("/:id/status", paymentHandler.UpdateStatus, staff)
	payments.DELETE("/:id", paymentHandler.Delete, staff)

	orders := g.Group("/orders")
	orders.GET("", orderHandler.List)
	orders.GET("/:id", orderHandler.Get)
	orders.POST("", orderHandler.Create, staff)
	orders.PATCH("/:id/status", orderHandler.UpdateStatus, staff)
	orders.DELETE("/:id", orderHandler.Delete, staff)

	services := g.Group("/services")
	services.GET("", catalogHandler.List)
	services.GET("/:id", catalogHandler.Get)
	services.POST("", catalogHandler.Create, admin)
	services.PUT("/:id", catalogHandler.Update, admin)
	services.DELETE("/:id", catalogHandler.Delete, admin)

	return e
}
