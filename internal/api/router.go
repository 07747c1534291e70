package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/clinichq/clinic-backend/internal/api/handler"
	"github.com/clinichq/clinic-backend/internal/api/middleware"
	"github.com/clinichq/clinic-backend/internal/core/domain"
	"github.com/clinichq/clinic-backend/internal/core/ports"
	"github.com/clinichq/clinic-backend/internal/core/service"
	"github.com/clinichq/clinic-backend/internal/infrastructure/config"
	mongorepo "github.com/clinichq/clinic-backend/internal/infrastructure/db/mongo"
	redisinfra "github.com/clinichq/clinic-backend/internal/infrastructure/db/redis"
	"github.com/clinichq/clinic-backend/pkg/logger"
)

// NewRouter builds the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, gateway ports.PaymentGateway) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(logger.Component("http"), cfg.IsDev())

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{echo.GET, echo.POST, echo.PUT, echo.PATCH, echo.DELETE, echo.OPTIONS},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("clinic"))

	// --- Dependencies ---
	apptRepo := mongorepo.NewAppointmentRepository(db)
	adminRepo := mongorepo.NewAdminRepository(db)
	contactRepo := mongorepo.NewContactRepository(db)
	guard := redisinfra.NewVerificationGuard(rdb)

	apptService := service.NewAppointmentService(apptRepo, logger.Component("appointments"))
	authService := service.NewAuthService(adminRepo, cfg.JWTSecret, cfg.JWTTTL, logger.Component("auth"))
	paymentService := service.NewPaymentService(apptRepo, gateway, guard, cfg.Razorpay.KeySecret, logger.Component("payments"))
	contactService := service.NewContactService(contactRepo, logger.Component("contacts"))

	apptHandler := handler.NewAppointmentHandler(apptService)
	adminHandler := handler.NewAdminHandler(authService, cfg.JWTTTL, !cfg.IsDev())
	paymentHandler := handler.NewPaymentHandler(paymentService)
	contactHandler := handler.NewContactHandler(contactService)

	requireAuth := middleware.RequireAuth(authService)
	adminOnly := middleware.RequireRole(domain.RoleAdmin, domain.RoleSuperAdmin)
	authed := []echo.MiddlewareFunc{requireAuth, adminOnly}

	api := e.Group("/api")

	// --- Appointments ---
	api.POST("/appointments", apptHandler.Book)
	api.GET("/appointments/availability", apptHandler.Availability)
	api.GET("/appointments", apptHandler.List, authed...)
	api.GET("/appointments/today", apptHandler.ListToday, authed...)
	api.GET("/appointments/stats", apptHandler.Stats, authed...)
	api.GET("/appointments/:id", apptHandler.Get, authed...)
	api.PUT("/appointments/:id/status", apptHandler.UpdateStatus, authed...)

	// --- Payments ---
	// Order creation and verification are the patient-facing half of the
	// checkout flow. The appointment preconditions gate the former and the
	// gateway signature gates the latter, so neither carries admin auth.
	api.POST("/payments/order", paymentHandler.CreateOrder)
	api.POST("/payments/verify", paymentHandler.Verify)
	api.GET("/payments/:id", paymentHandler.Details, authed...)
	api.GET("/payments/:id/status", paymentHandler.Status, authed...)

	// --- Contact messages ---
	api.POST("/contacts", contactHandler.Create)
	api.GET("/contacts", contactHandler.List, authed...)
	api.GET("/contacts/stats", contactHandler.Stats, authed...)
	api.GET("/contacts/:id", contactHandler.Get, authed...)
	api.PUT("/contacts/:id/read", contactHandler.MarkRead, authed...)

	// --- Admin auth ---
	api.POST("/admin/login", adminHandler.Login)
	api.POST("/admin/logout", adminHandler.Logout, authed...)
	api.GET("/admin/verify-token", adminHandler.VerifyToken, authed...)
	api.GET("/admin/profile", adminHandler.Profile, authed...)
	api.PUT("/admin/profile", adminHandler.UpdateProfile, authed...)

	// --- Health probes and operational endpoints ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
