package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kpmroadlines/lr-console/internal/api/handler"
	"github.com/kpmroadlines/lr-console/internal/api/middleware"
	"github.com/kpmroadlines/lr-console/internal/core/domain"
	"github.com/kpmroadlines/lr-console/internal/core/ports"
	"github.com/kpmroadlines/lr-console/internal/core/service"
	"github.com/kpmroadlines/lr-console/internal/core/session"
)

// Deps carries everything the router wires together. Construction and
// lifecycle of the session controller and idle monitor stay with main.
type Deps struct {
	DB         *mongo.Database
	Redis      *redis.Client
	JWTSecret  string
	Sessions   ports.SessionLifecycle
	Snapshot   session.Snapshot
	Monitor    *service.IdleMonitor
	Settlement ports.SettlementService
	Bookings   ports.BookingService
	Masters    ports.MasterDataService
	Logger     zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("lrconsole"))

	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.DB, d.Redis)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Sessions, d.Snapshot, d.Monitor)
	bookingHandler := handler.NewBookingHandler(d.Bookings)
	settlementHandler := handler.NewSettlementHandler(d.Settlement)
	masterHandler := handler.NewMasterHandler(d.Masters)

	e.POST("/auth/login", authHandler.Login)

	// Every authenticated request counts as activity for the idle clock.
	authed := e.Group("", middleware.Auth(d.JWTSecret), middleware.Activity(d.Monitor))
	authed.POST("/auth/logout", authHandler.Logout)
	authed.POST("/auth/refresh", authHandler.Refresh)
	authed.GET("/auth/session", authHandler.Session)

	authed.POST("/bookings", bookingHandler.Create)
	authed.GET("/bookings", bookingHandler.List)

	authed.GET("/transporters", masterHandler.ListTransporters)
	authed.GET("/branches", masterHandler.ListBranches)
	authed.GET("/settlement/report", settlementHandler.Report)

	admin := authed.Group("", middleware.RBAC(domain.RoleAdmin, domain.RoleDeveloper))
	admin.POST("/transporters", masterHandler.CreateTransporter)
	admin.PUT("/transporters/:id", masterHandler.UpdateTransporter)
	admin.POST("/branches", masterHandler.CreateBranch)
	admin.POST("/settlement/assign", settlementHandler.Assign)

	return e
}
