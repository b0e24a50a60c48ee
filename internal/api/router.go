package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/gerasmt/productsbackend/internal/api/handler"
	"github.com/gerasmt/productsbackend/internal/api/middleware"
	"github.com/gerasmt/productsbackend/internal/core/domain"
	"github.com/gerasmt/productsbackend/internal/core/ports"
	"github.com/gerasmt/productsbackend/internal/core/service"
	"github.com/gerasmt/productsbackend/internal/infrastructure/config"
	mongodb "github.com/gerasmt/productsbackend/internal/infrastructure/db/mongo"
	redisdb "github.com/gerasmt/productsbackend/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, assets ports.AssetStore, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddleware("products"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	productRepo := mongodb.NewProductRepository(db)
	orderRepo := mongodb.NewOrderRepository(db)
	revoked := redisdb.NewRevokedTokens(rdb)

	authService := service.NewAuthService(userRepo, revoked, cfg.TokenSecret, cfg.DefaultRole, cfg.TokenTTL, log)
	productService := service.NewProductService(productRepo, assets, log)
	orderService := service.NewOrderService(orderRepo, productRepo, log)

	cookies := handler.CookieSettings{Local: cfg.Local(), TTL: cfg.TokenTTL}
	authHandler := handler.NewAuthHandler(authService, cookies)
	productHandler := handler.NewProductHandler(productService)
	orderHandler := handler.NewOrderHandler(orderService)

	authRequired := middleware.Auth(authService)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	api := e.Group("/api")

	// --- Auth routes ---
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)
	api.POST("/logout", authHandler.Logout)
	api.GET("/verify", authHandler.Verify)
	api.GET("/profile", authHandler.Profile, authRequired)

	// --- Product routes ---
	api.GET("/products/getallproducts", productHandler.ListAll, authRequired)
	api.GET("/products", productHandler.List, authRequired)
	api.POST("/products", productHandler.Create, authRequired, adminOnly)
	api.GET("/products/:id", productHandler.Get, authRequired, adminOnly)
	api.PUT("/products/:id", productHandler.Update, authRequired, adminOnly)
	api.PUT("/products/updatewithimage/:id", productHandler.UpdateWithImage, authRequired, adminOnly)
	api.DELETE("/products/:id", productHandler.Delete, authRequired, adminOnly)

	// --- Order routes ---
	api.POST("/order", orderHandler.Create, authRequired)
	api.GET("/order/", orderHandler.ListAll, authRequired, adminOnly)
	api.GET("/order/getuserorders", orderHandler.ListOwn, authRequired)
	api.GET("/order/:id", orderHandler.Get, authRequired)
	api.PUT("/order/:id", orderHandler.UpdateStatus, authRequired)
	api.DELETE("/order/:id", orderHandler.Delete, authRequired)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// API banner for the curious.
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"message": "products backend API",
			"version": "1.0.0",
			"routes": []map[string]string{
				{"endpoint": "/api/register", "method": "POST", "description": "register a new user"},
				{"endpoint": "/api/login", "method": "POST", "description": "login"},
				{"endpoint": "/api/products", "method": "GET", "description": "list products"},
				{"endpoint": "/api/order", "method": "POST", "description": "place an order"},
			},
		})
	})

	return e
}
