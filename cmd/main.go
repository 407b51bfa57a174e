package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"dely/internal/caching"
	"dely/internal/config"
	"dely/internal/handlers"
	"dely/internal/invoice"
	"dely/internal/jobs/background"
	"dely/internal/middleware"
	"dely/internal/models"
	"dely/internal/repositories"
	"dely/internal/services"
	"dely/pkg/database"
)

func main() {
	log := config.GetLogger()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		jwtSecret = random.String(32)
		log.Warn("JWT_SECRET not set, using a generated secret; tokens will not survive restarts")
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer pool.Close()

	if err := database.Migrate(pool, cfg.MigrationsPath); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	minioSvc, err := services.NewMinioService(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize object storage")
	}

	cacheSvc := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	categoryRepo := repositories.NewCategoryRepo(pool)
	productRepo := repositories.NewProductRepo(pool)
	cartRepo := repositories.NewCartRepo(pool)
	orderRepo := repositories.NewOrderRepo(pool)
	orderItemRepo := repositories.NewOrderItemRepo(pool)
	deliveryLocationRepo := repositories.NewDeliveryLocationRepo(pool)
	kycRepo := repositories.NewKYCRepo(pool)

	// Services
	assembler := invoice.NewAssembler(cfg.Seller, cfg.RateTable())
	productSvc := services.NewProductService(productRepo, cacheSvc)
	categorySvc := services.NewCategoryService(categoryRepo, cacheSvc)
	cartSvc := services.NewCartService(cartRepo, productRepo)
	orderSvc := services.NewOrderService(orderRepo, orderItemRepo, cartRepo, productRepo, deliveryLocationRepo, cacheSvc)
	invoiceSvc := services.NewInvoiceService(orderRepo, orderItemRepo, productRepo, userRepo, assembler, cacheSvc, minioSvc)
	kycSvc := services.NewKYCService(kycRepo, minioSvc)

	// Handlers
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)
	productHandlers := handlers.NewProductHandlers(productSvc)
	categoryHandlers := handlers.NewCategoryHandlers(categorySvc)
	cartHandlers := handlers.NewCartHandlers(cartSvc)
	orderHandlers := handlers.NewOrderHandlers(orderSvc, invoiceSvc)
	adminOrderHandlers := handlers.NewAdminOrderHandlers(orderSvc, invoiceSvc)
	kycHandlers := handlers.NewKYCHandlers(kycSvc)
	cacheHandlers := handlers.NewCacheHandlers(cacheSvc)

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	if cfg.Debug {
		e.Use(echoMiddleware.Logger())
	}

	e.GET("/health", healthHandlers.Health)
	e.GET("/health/ready", healthHandlers.Ready)
	e.GET("/health/detailed", healthHandlers.Detailed)

	// Public catalog
	api := e.Group("/api/v1")
	api.GET("/products", productHandlers.List)
	api.GET("/products/search", productHandlers.Search)
	api.GET("/products/:id", productHandlers.Get)
	api.GET("/categories", categoryHandlers.List)
	api.GET("/categories/:id", categoryHandlers.Get)

	// Authenticated customer surface
	authed := api.Group("", middleware.JWT(jwtSecret), middleware.ExtractClaims())
	authed.GET("/cart", cartHandlers.Get)
	authed.DELETE("/cart", cartHandlers.Clear)
	authed.POST("/cart/items", cartHandlers.AddItem)
	authed.PUT("/cart/items/:product_id", cartHandlers.UpdateItem)
	authed.DELETE("/cart/items/:product_id", cartHandlers.RemoveItem)

	authed.POST("/orders", orderHandlers.Create)
	authed.GET("/orders", orderHandlers.List)
	authed.GET("/orders/:order_id", orderHandlers.Get)
	authed.GET("/orders/:order_id/invoice", orderHandlers.Invoice)
	authed.POST("/orders/:order_id/cancel", orderHandlers.Cancel)
	authed.GET("/orders/:order_id/track", orderHandlers.Track)

	authed.POST("/kyc", kycHandlers.Submit)
	authed.GET("/kyc", kycHandlers.Status)

	// Back office
	admin := e.Group("/admin",
		middleware.JWT(jwtSecret),
		middleware.ExtractClaims(),
		middleware.RequireRole(models.RoleAdmin, models.RoleManager, models.RoleSeller),
	)
	admin.GET("/orders", adminOrderHandlers.List)
	admin.GET("/orders/:order_id", adminOrderHandlers.Get)
	admin.PUT("/orders/:order_id/status", adminOrderHandlers.UpdateStatus)
	admin.GET("/orders/:order_id/invoice", adminOrderHandlers.Invoice)
	// Older admin clients call the invoices route with the id last.
	admin.GET("/orders/invoices/:order_id", adminOrderHandlers.Invoice)
	admin.POST("/invoices/:order_id/pdf", adminOrderHandlers.InvoicePDF)
	admin.POST("/cache/invalidate", cacheHandlers.Invalidate)
	admin.GET("/kyc", kycHandlers.AdminList)
	admin.GET("/kyc/:id", kycHandlers.AdminGet)
	admin.PUT("/kyc/:id/review", kycHandlers.AdminReview)

	scheduler, err := background.NewJobScheduler(orderRepo, categoryRepo, cacheSvc)
	if err != nil {
		log.WithError(err).Fatal("failed to create job scheduler")
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.WithError(err).Warn("scheduler shutdown failed")
		}
	}()

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
