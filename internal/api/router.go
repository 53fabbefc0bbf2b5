package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campusunify/campus-api/internal/api/handler"
	"github.com/campusunify/campus-api/internal/api/middleware"
	"github.com/campusunify/campus-api/internal/core/domain"
	"github.com/campusunify/campus-api/internal/core/ports"
	"github.com/campusunify/campus-api/internal/core/service"
	mongorepo "github.com/campusunify/campus-api/internal/infrastructure/db/mongo"
	redisinfra "github.com/campusunify/campus-api/internal/infrastructure/db/redis"
	"github.com/campusunify/campus-api/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(
	cfg *config.Config,
	log zerolog.Logger,
	db *mongo.Database,
	rdb *redis.Client,
	mailer ports.Mailer,
	gateway ports.PaymentGateway,
	receipts ports.ReceiptQueue,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("campusunify"))

	// --- Dependencies ---
	users := mongorepo.NewUserRepository(db)
	events := mongorepo.NewEventRepository(db)
	carts := mongorepo.NewCartRepository(db)
	orders := mongorepo.NewOrderRepository(db)
	bookings := mongorepo.NewBookingRepository(db)
	throttle := redisinfra.NewMailThrottle(rdb, 0)

	tokens := service.NewTokenService(cfg.JWT.Secret, cfg.JWT.TokenTTL)
	authService := service.NewAuthService(users, tokens, mailer, throttle, cfg.FrontendURL, log)
	eventService := service.NewEventService(events, bookings, log)
	cartService := service.NewCartService(carts, events)
	orderService := service.NewOrderService(orders, carts, events, bookings, gateway, receipts, log)

	secureCookie := cfg.Env != "development"
	authHandler := handler.NewAuthHandler(authService, cfg.JWT.CookieTTL, secureCookie)
	eventHandler := handler.NewEventHandler(eventService)
	cartHandler := handler.NewCartHandler(cartService)
	orderHandler := handler.NewOrderHandler(orderService)

	guard := middleware.NewGuard(tokens, users)
	club := middleware.RestrictTo(domain.RoleClub)
	student := middleware.RestrictTo(domain.RoleStudent)

	// --- Health probes and operational surfaces (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)          // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	v1 := e.Group("/api/v1")

	// --- Account lifecycle ---
	usersGroup := v1.Group("/users")
	usersGroup.POST("/signup", authHandler.Signup)
	usersGroup.POST("/verify", authHandler.VerifyEmail)
	usersGroup.POST("/login", authHandler.Login)
	usersGroup.GET("/logout", authHandler.Logout)
	usersGroup.POST("/forgotPassword", authHandler.ForgotPassword)
	usersGroup.PATCH("/resetPassword/:token", authHandler.ResetPassword)
	usersGroup.POST("/oauth", authHandler.OAuth)
	usersGroup.PATCH("/updateMyPassword", authHandler.UpdatePassword, guard.Protect())
	usersGroup.GET("/me", authHandler.Me, guard.Protect())
	usersGroup.DELETE("/deleteMe", authHandler.DeleteMe, guard.Protect())

	// --- Events and event days ---
	eventsGroup := v1.Group("/events")
	eventsGroup.GET("/latest", eventHandler.Latest, guard.OptionalAuth())
	eventsGroup.GET("", eventHandler.List, guard.Protect())
	eventsGroup.POST("", eventHandler.Create, guard.Protect(), club)
	eventsGroup.GET("/:id", eventHandler.Get, guard.Protect())
	eventsGroup.PATCH("/:id", eventHandler.Update, guard.Protect(), club)
	eventsGroup.DELETE("/:id", eventHandler.Delete, guard.Protect(), club)
	eventsGroup.GET("/:eventId/days", eventHandler.ListDays, guard.Protect())
	eventsGroup.POST("/:eventId/days", eventHandler.CreateDay, guard.Protect(), club)
	eventsGroup.GET("/:eventId/days/:dayId", eventHandler.GetDay, guard.Protect())
	eventsGroup.PATCH("/:eventId/days/:dayId", eventHandler.UpdateDay, guard.Protect(), club)
	eventsGroup.DELETE("/:eventId/days/:dayId", eventHandler.DeleteDay, guard.Protect(), club)

	// --- Cart ---
	cartGroup := v1.Group("/cart", guard.Protect(), student)
	cartGroup.GET("", cartHandler.Get)
	cartGroup.POST("/:eventId", cartHandler.Add)
	cartGroup.DELETE("/:eventId", cartHandler.Remove)
	cartGroup.DELETE("", cartHandler.Clear)

	// --- Payments ---
	paymentsGroup := v1.Group("/payments", guard.Protect())
	paymentsGroup.POST("/checkout", orderHandler.Checkout, student)
	paymentsGroup.POST("/confirm", orderHandler.Confirm, student)
	paymentsGroup.GET("/orders", orderHandler.ListMine)

	// --- Booking rosters ---
	v1.GET("/bookings/:eventId", eventHandler.Registrations, guard.Protect())

	return e
}
