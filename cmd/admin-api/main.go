package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/brightcart/admin-api/api/swagger"
	"github.com/brightcart/admin-api/internal/handler"
	"github.com/brightcart/admin-api/internal/middleware"
	"github.com/brightcart/admin-api/internal/models"
	"github.com/brightcart/admin-api/internal/repository"
	"github.com/brightcart/admin-api/internal/service"
	"github.com/brightcart/admin-api/pkg/cache"
	"github.com/brightcart/admin-api/pkg/config"
	"github.com/brightcart/admin-api/pkg/database"
	"github.com/brightcart/admin-api/pkg/logger"
	"github.com/brightcart/admin-api/pkg/mailer"
	corsmiddleware "github.com/brightcart/admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/brightcart/admin-api/pkg/middleware/requestid"
)

// @title BrightCart Admin API
// @version 1.0.0
// @description Storefront administration backend
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close()

	mail := mailer.New(cfg.SMTP, logr)

	userRepo := repository.NewUserRepository(db)
	approvalRepo := repository.NewApprovalRepository(db)
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	offerRepo := repository.NewOfferRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	approvalSvc := service.NewApprovalService(approvalRepo, mail, nil, logr, service.ApprovalConfig{
		TokenTTL:     cfg.Approval.TokenTTL,
		SessionTTL:   cfg.Approval.SessionTTL,
		BaseURL:      cfg.Approval.BaseURL,
		DefaultActor: cfg.Approval.DefaultActor,
	})

	var productSvc *service.ProductService
	if cfg.Catalog.CacheEnabled {
		productSvc = service.NewProductService(productRepo, cacheRepo, nil, logr, cfg.Catalog.CacheTTL)
	} else {
		productSvc = service.NewProductService(productRepo, nil, nil, logr, cfg.Catalog.CacheTTL)
	}
	customerSvc := service.NewCustomerService(customerRepo, logr)
	orderSvc := service.NewOrderService(orderRepo, logr)
	couponSvc := service.NewCouponService(couponRepo, nil, logr)
	offerSvc := service.NewOfferService(offerRepo, nil, logr)
	paymentSvc := service.NewPaymentService(paymentRepo, mail, logr)
	exportSvc := service.NewExportService(orderRepo, logr)

	authHandler := handler.NewAuthHandler(authSvc, approvalSvc, metricsSvc)
	productHandler := handler.NewProductHandler(productSvc)
	customerHandler := handler.NewCustomerHandler(customerSvc)
	orderHandler := handler.NewOrderHandler(orderSvc)
	couponHandler := handler.NewCouponHandler(couponSvc)
	offerHandler := handler.NewOfferHandler(offerSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc, metricsSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/request-approval",
			middleware.Audit(userRepo, models.AuditActionApprovalRequest, "login_approvals"),
			authHandler.RequestApproval)
		auth.GET("/check-status", authHandler.CheckStatus)
		auth.GET("/approve-login",
			middleware.Audit(userRepo, models.AuditActionApprovalDecide, "login_approvals"),
			authHandler.ApproveLogin)
	}

	protected := api.Group("")
	protected.Use(middleware.Auth(authSvc, approvalSvc))
	{
		protected.GET("/auth/me", authHandler.Me)
		protected.GET("/auth/approvals",
			middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin),
			authHandler.RecentApprovals)

		products := protected.Group("/products")
		{
			products.GET("", productHandler.List)
			products.GET("/:id", productHandler.Get)
			products.POST("",
				middleware.Audit(userRepo, models.AuditActionProductChange, "products"),
				productHandler.Create)
			products.PUT("/:id",
				middleware.Audit(userRepo, models.AuditActionProductChange, "products"),
				productHandler.Update)
			products.DELETE("/:id",
				middleware.Audit(userRepo, models.AuditActionProductChange, "products"),
				productHandler.Deactivate)
		}

		customers := protected.Group("/customers")
		{
			customers.GET("", customerHandler.List)
			customers.GET("/:id", customerHandler.Get)
			customers.PUT("/:id/blocked",
				middleware.Audit(userRepo, models.AuditActionCustomerBlock, "customers"),
				customerHandler.SetBlocked)
		}

		orders := protected.Group("/orders")
		{
			orders.GET("", orderHandler.List)
			orders.GET("/:id", orderHandler.Get)
			orders.PUT("/:id/status",
				middleware.Audit(userRepo, models.AuditActionOrderChange, "orders"),
				orderHandler.Transition)
		}

		coupons := protected.Group("/coupons")
		{
			coupons.GET("", couponHandler.List)
			coupons.GET("/:id", couponHandler.Get)
			coupons.POST("",
				middleware.Audit(userRepo, models.AuditActionCouponChange, "coupons"),
				couponHandler.Create)
			coupons.PUT("/:id",
				middleware.Audit(userRepo, models.AuditActionCouponChange, "coupons"),
				couponHandler.Update)
			coupons.DELETE("/:id",
				middleware.Audit(userRepo, models.AuditActionCouponChange, "coupons"),
				couponHandler.Deactivate)
		}

		offers := protected.Group("/offers")
		{
			offers.GET("", offerHandler.List)
			offers.GET("/:id", offerHandler.Get)
			offers.POST("",
				middleware.Audit(userRepo, models.AuditActionOfferChange, "offers"),
				offerHandler.Create)
			offers.PUT("/:id",
				middleware.Audit(userRepo, models.AuditActionOfferChange, "offers"),
				offerHandler.Update)
			offers.DELETE("/:id",
				middleware.Audit(userRepo, models.AuditActionOfferChange, "offers"),
				offerHandler.Delete)
		}

		payments := protected.Group("/payments")
		{
			payments.GET("", paymentHandler.List)
			payments.GET("/:id", paymentHandler.Get)
			payments.PUT("/:id/review",
				middleware.Audit(userRepo, models.AuditActionPaymentReview, "payment_verifications"),
				paymentHandler.Review)
		}

		if cfg.Exports.Enabled {
			protected.GET("/exports/orders",
				middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin),
				exportHandler.Orders)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
