// main.go
package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/fadhlanhapp/splitbill-backend/config"
	"github.com/fadhlanhapp/splitbill-backend/handlers"
	"github.com/fadhlanhapp/splitbill-backend/logger"
	"github.com/fadhlanhapp/splitbill-backend/repository"
	"github.com/fadhlanhapp/splitbill-backend/routes"
	"github.com/fadhlanhapp/splitbill-backend/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logger.GetLogger().Info(".env file not found, using environment variables")
	}

	log := logger.GetLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("Failed to load configuration", "error", err)
	}

	// Connect to the key-value store
	store, err := repository.NewStore(&cfg.Redis)
	if err != nil {
		log.Fatalw("Failed to connect to store", "error", err)
	}
	defer store.Close()

	billCache, err := repository.NewBillCache(cfg.Bill.BillCacheSize)
	if err != nil {
		log.Fatalw("Failed to create bill cache", "error", err)
	}

	// Wire repositories and services
	billRepo := repository.NewBillRepository(store, billCache)
	friendRepo := repository.NewFriendRepository(store)

	validationService := services.NewValidationService(&cfg.Bill)
	billService := services.NewBillService(billRepo, validationService, &cfg.Bill)
	friendService := services.NewFriendService(friendRepo)
	ledgerService := services.NewLedgerService(billRepo, friendService)
	paymentService := services.NewPaymentService(billRepo)
	statsService := services.NewStatsService(&cfg.Bill)
	receiptService := services.NewReceiptService()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(
		router,
		handlers.NewBillHandler(billService, ledgerService, paymentService, statsService, receiptService),
		handlers.NewFriendHandler(friendService),
		handlers.NewHealthHandler(store),
	)

	log.Infow("Starting splitbill backend", "port", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalw("Server exited", "error", err)
	}
}
