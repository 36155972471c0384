// internal/router/router.go
package router

import (
	"net/http"

	"github.com/benbjohnson/clock"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/bankhub/credit-backend/internal/config"
	"github.com/bankhub/credit-backend/internal/handlers"
	"github.com/bankhub/credit-backend/internal/middleware"
	"github.com/bankhub/credit-backend/internal/services"
	"github.com/bankhub/credit-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	clk := clock.New()

	// Initialize services
	notificationService := services.NewNotificationService(cfg)
	storageService, _ := services.NewStorageService(cfg)
	amortizationService := services.NewAmortizationService()
	blacklistService := services.NewBlacklistService(db, clk)
	scoringService := services.NewScoringService(db, blacklistService, clk)
	eligibilityService := services.NewEligibilityService(db, scoringService, blacklistService, clk, cfg.Scoring.StalenessDays)

	authService := services.NewAuthService(db, cfg, notificationService, clk)
	userService := services.NewUserService(db)
	productService := services.NewProductService(db)
	applicationService := services.NewApplicationService(db, eligibilityService, blacklistService, notificationService, clk)
	reportService := services.NewReportService(db, clk)
	pdfService := services.NewPdfService(amortizationService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	productHandler := handlers.NewProductHandler(productService)
	calculatorHandler := handlers.NewCalculatorHandler(amortizationService, productService, clk)
	applicationHandler := handlers.NewApplicationHandler(applicationService, userService, amortizationService, pdfService)
	blacklistHandler := handlers.NewBlacklistHandler(blacklistService)
	scoringHandler := handlers.NewScoringHandler(scoringService, eligibilityService)
	reportHandler := handlers.NewReportHandler(reportService, pdfService, storageService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Optional redis-backed idempotency for submissions
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", middleware.AuthRequired(), authHandler.Logout)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// User routes
		users := v1.Group("/users")
		users.Use(middleware.AuthRequired())
		{
			users.PUT("/profile", userHandler.UpdateProfile)
		}

		// Credit product catalogue (public)
		products := v1.Group("/products")
		{
			products.GET("", productHandler.ListProducts)
			products.GET("/:id", productHandler.GetProduct)
		}

		// Loan calculator (public)
		v1.POST("/calculator", calculatorHandler.Calculate)

		// Application routes
		applications := v1.Group("/applications")
		applications.Use(middleware.AuthRequired())
		{
			applications.POST("", middleware.Idempotency(redisClient), applicationHandler.Apply)
			applications.GET("/my", applicationHandler.MyApplications)
			applications.GET("/:id", applicationHandler.GetApplication)
			applications.GET("/:id/schedule", applicationHandler.GetSchedule)
			applications.GET("/:id/pdf", applicationHandler.DownloadApplicationPDF)
			applications.GET("/:id/schedule/pdf", applicationHandler.DownloadSchedulePDF)
		}

		// Scoring routes (self-service)
		scoring := v1.Group("/scoring")
		scoring.Use(middleware.AuthRequired())
		{
			scoring.GET("/me", scoringHandler.MyScore)
			scoring.POST("/me/eligibility", scoringHandler.CheckMyEligibility)
		}

		// Staff routes
		manager := v1.Group("/manager")
		manager.Use(middleware.AuthRequired(), middleware.StaffRequired())
		{
			// Application review
			managerApplications := manager.Group("/applications")
			{
				managerApplications.GET("", applicationHandler.SearchApplications)
				managerApplications.PUT("/:id/status", applicationHandler.UpdateStatus)
			}

			// Scoring management
			managerScoring := manager.Group("/scoring")
			{
				managerScoring.GET("/:user_id", scoringHandler.GetScore)
				managerScoring.POST("/:user_id/calculate", scoringHandler.CalculateScore)
				managerScoring.GET("/:user_id/eligibility", scoringHandler.CheckEligibility)
			}

			// Blacklist management
			managerBlacklist := manager.Group("/blacklist")
			{
				managerBlacklist.GET("", blacklistHandler.Search)
				managerBlacklist.GET("/check", blacklistHandler.CheckPerson)
				managerBlacklist.GET("/:id", blacklistHandler.Get)
				managerBlacklist.POST("", blacklistHandler.Create)
				managerBlacklist.PUT("/:id", blacklistHandler.Update)
				managerBlacklist.POST("/:id/remove", blacklistHandler.Remove)
				managerBlacklist.POST("/:id/restore", blacklistHandler.Restore)
			}

			// Reporting
			managerReports := manager.Group("/reports")
			{
				managerReports.GET("/dashboard", reportHandler.Dashboard)
				managerReports.GET("/by-status", reportHandler.ByStatus)
				managerReports.GET("/by-product", reportHandler.ByProduct)
				managerReports.GET("/period", reportHandler.ByPeriod)
				managerReports.GET("/period/pdf", middleware.ReportRateLimit(), reportHandler.ExportPeriodPDF)
			}
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			// User management
			adminUsers := admin.Group("/users")
			{
				adminUsers.GET("", userHandler.ListUsers)
				adminUsers.GET("/:id", userHandler.GetUser)
			}

			// Product management
			adminProducts := admin.Group("/products")
			{
				adminProducts.POST("", productHandler.CreateProduct)
				adminProducts.PUT("/:id", productHandler.UpdateProduct)
				adminProducts.DELETE("/:id", productHandler.DeleteProduct)
			}

			// Hard blacklist deletion
			admin.DELETE("/blacklist/:id", blacklistHandler.Delete)
		}
	}

	return r
}
