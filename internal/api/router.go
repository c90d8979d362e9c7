package api

import (
	"context"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/astrape/storefront/internal/api/handler"
	"github.com/astrape/storefront/internal/api/middleware"
	"github.com/astrape/storefront/internal/core/domain"
	"github.com/astrape/storefront/internal/core/service"
	"github.com/astrape/storefront/internal/infrastructure/catalog"
	"github.com/astrape/storefront/internal/infrastructure/config"
	mongostore "github.com/astrape/storefront/internal/infrastructure/db/mongo"
	redisstore "github.com/astrape/storefront/internal/infrastructure/db/redis"
	"github.com/astrape/storefront/internal/infrastructure/http/handlers"
	"github.com/astrape/storefront/internal/infrastructure/queue"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The activity dispatcher workers run until ctx is cancelled.
func NewRouter(ctx context.Context, db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("storefront"))

	// --- Dependencies ---
	authRepo := mongostore.NewAuthRepository(db)
	authService := service.NewAuthService(authRepo, cfg.JWTSecret, 24*time.Hour)
	authHandler := handler.NewAuthHandler(authService)

	activityRepo := mongostore.NewActivityRepository(db)
	activityService := service.NewActivityService(activityRepo, log)
	dispatcher := queue.NewDispatcher(0, activityService, log)
	dispatcher.Start(ctx)

	cartRepo := mongostore.NewCartRepository(db)
	idem := redisstore.NewIdempotencyChecker(rdb)
	cartService := service.NewCartService(cartRepo, idem, dispatcher, log)
	cartHandler := handler.NewCartHandler(cartService)

	catalogClient := catalog.NewClient(catalog.Config{
		BaseURL: cfg.Catalog.BaseURL,
		Timeout: cfg.Catalog.Timeout,
	})
	productCache := redisstore.NewCatalogCache(rdb, log)
	productService := service.NewProductService(catalogClient, productCache, log)
	productHandler := handler.NewProductHandler(productService)

	authMiddleware := middleware.Auth(cfg.JWTSecret)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Catalog routes (no auth required) ---
	e.GET("/products", productHandler.List)
	e.GET("/products/categories", productHandler.Categories)
	e.GET("/products/:id", productHandler.Get)

	// --- Cart routes (identity always from the bearer token) ---
	cart := e.Group("/cart", authMiddleware)
	cart.GET("", cartHandler.Get)
	cart.POST("/add", cartHandler.Add)
	cart.PUT("/update/:productId", cartHandler.Update)
	cart.DELETE("/remove/:productId", cartHandler.Remove)
	cart.DELETE("/clear", cartHandler.Clear)

	// --- Admin routes ---
	admin := e.Group("/admin", authMiddleware, middleware.RequireRole(domain.RoleAdmin))
	admin.GET("/carts/:userId", cartHandler.AdminGet)

	// --- Operational surface ---
	e.GET("/metrics", echoprometheus.NewHandler())

	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	return e
}
