package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/devravindu/upsupply-vms/internal/config"
	"github.com/devravindu/upsupply-vms/internal/database"
	"github.com/devravindu/upsupply-vms/internal/handler"
	"github.com/devravindu/upsupply-vms/internal/middleware"
	"github.com/devravindu/upsupply-vms/internal/repository"
	"github.com/devravindu/upsupply-vms/internal/service"
	"github.com/devravindu/upsupply-vms/internal/storage"
	"github.com/devravindu/upsupply-vms/internal/websocket"
)

// @title           UpSupply Vendor Management API
// @version         1.0
// @description     Vendor verification, certification review and compliance tracking.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	db, err := database.NewConnection(cfg.DatabaseDSN)
	if err != nil {
		logrus.WithError(err).Fatal("database connection failed")
	}
	logrus.Info("connected to PostgreSQL")

	documents, err := storage.NewDiskStore(cfg.DocumentDir)
	if err != nil {
		logrus.WithError(err).Fatal("document store init failed")
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	userRepo := repository.NewUserRepository(db)
	vendorRepo := repository.NewVendorRepository(db)
	certRepo := repository.NewCertificationRepository(db)
	productRepo := repository.NewProductRepository(db)
	contractRepo := repository.NewContractRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	txManager := repository.NewTransactionManager(db)

	reconciler := service.NewStatusReconciler(vendorRepo, certRepo, historyRepo, wsHub)

	userService := service.NewUserService(userRepo)
	vendorService := service.NewVendorService(vendorRepo, certRepo, historyRepo, txManager, wsHub)
	certService := service.NewCertificationService(certRepo, vendorRepo, txManager, reconciler)
	productService := service.NewProductService(productRepo, vendorRepo)
	contractService := service.NewContractService(contractRepo, vendorRepo)

	// Initialize Handlers
	authHandler := handler.NewAuthHandler(userService)
	vendorHandler := handler.NewVendorHandler(vendorService)
	certHandler := handler.NewCertificationHandler(certService, documents)
	productHandler := handler.NewProductHandler(productService)
	contractHandler := handler.NewContractHandler(contractService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint for staff dashboards
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// API Routing
	authHandler.RegisterRoutes(router.Group(""))
	vendorHandler.RegisterRoutes(router.Group(""))
	certHandler.RegisterRoutes(router.Group(""))
	productHandler.RegisterRoutes(router.Group(""))
	contractHandler.RegisterRoutes(router.Group(""))

	logrus.Infof("server listening on %s", cfg.HTTPAddr)
	if err := router.Run(cfg.HTTPAddr); err != nil {
		logrus.WithError(err).Fatal("server failed")
	}
}
