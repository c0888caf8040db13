package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"paycycle/internal/config"
	"paycycle/internal/handlers"
	"paycycle/internal/ledger"
	"paycycle/internal/logger"
	"paycycle/internal/middleware"
	"paycycle/internal/storage"
	"paycycle/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "paycycle/internal/docs" // Import swagger docs
)

// @title           Paycycle API
// @version         1.0
// @description     Paycycle tracks recurring spending against a periodic budget and automatically rolls each period into an immutable archive on payday.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Open the blob-store backend
	dbManager, err := storage.NewManager(appConfig)
	if err != nil {
		return fmt.Errorf("failed to open storage backend: %w", err)
	}
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Load the ledger engine from the persisted state
	engine, err := ledger.Open(storage.NewGormStore(dbManager.DB()))
	if err != nil {
		return fmt.Errorf("failed to open ledger engine: %w", err)
	}

	// Register custom binding validations
	validator.Register()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler()
	budgetHandler := handlers.NewBudgetHandler(engine)
	categoryHandler := handlers.NewCategoryHandler(engine)
	transactionHandler := handlers.NewTransactionHandler(engine)
	archiveHandler := handlers.NewArchiveHandler(engine)
	reportHandler := handlers.NewReportHandler(engine)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// Budget and payday settings
	protected.GET("/budget", budgetHandler.GetBudget)
	protected.PUT("/budget", budgetHandler.SetBudget)
	protected.PUT("/budget/payday", budgetHandler.SetPayday)

	// Category routes
	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.PUT("/:name", categoryHandler.RenameCategory)
	categories.DELETE("/:name", categoryHandler.DeleteCategory)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/export", transactionHandler.ExportTransactions)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Archival routes
	protected.POST("/tick", archiveHandler.Tick)
	archives := protected.Group("/archives")
	archives.GET("", archiveHandler.GetArchives)
	archives.GET("/:id", archiveHandler.GetArchiveByID)
	archives.GET("/:id/report", archiveHandler.GetArchiveReport)
	archives.DELETE("/:id", archiveHandler.DeleteArchive)

	// Report routes
	reports := protected.Group("/reports")
	reports.GET("/categories", reportHandler.GetCategoryReport)
	reports.GET("/saved", reportHandler.GetSavedReport)
	reports.GET("/summary", reportHandler.GetSummary)

	// Run the archival check on startup and then on a fixed interval, so a
	// payday crossed while the process was down is sealed promptly.
	startTicker(engine, appConfig.TickInterval)

	log.Infof("Starting Paycycle backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}

// startTicker polls the archival check in the background. Tick is idempotent
// per period, so the schedule only affects how promptly a boundary is sealed.
func startTicker(engine *ledger.Engine, interval time.Duration) {
	tick := func() {
		if archive, err := engine.Tick(time.Now()); err != nil {
			logger.Get().Errorw("archival tick failed", "error", err)
		} else if archive != nil {
			logger.Get().Infow("archival tick sealed a period", "label", archive.Label)
		}
	}

	tick()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			tick()
		}
	}()
}
