package router

import (
	"database/sql"

	"brasa_ops_backend/internal/handlers"
	"brasa_ops_backend/internal/middleware"
	"brasa_ops_backend/internal/repositories"
	"brasa_ops_backend/internal/services"
	"brasa_ops_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB) {
	// Initialize Repositories
	forecastRepo := repositories.NewForecastRepository(db)
	inventoryRepo := repositories.NewInventoryRepository(db)
	submissionRepo := repositories.NewSubmissionRepository(db)
	storeRepo := repositories.NewStoreRepository(db)
	catalogRepo := repositories.NewCatalogRepository(db)

	// Initialize Services
	safetyBuffer := utils.GetenvFloat("ORDER_SAFETY_BUFFER", services.DefaultSafetyBuffer)
	criticalHour := utils.GetenvInt("GATE_CRITICAL_HOUR", services.DefaultCriticalHour)

	forecastService := services.NewForecastService(forecastRepo, db)
	depletionService := services.NewDepletionService(inventoryRepo, storeRepo, catalogRepo, safetyBuffer)
	gateService := services.NewGateService(inventoryRepo, submissionRepo, storeRepo, catalogRepo, db)
	complianceService := services.NewComplianceService(submissionRepo, storeRepo, gateService, criticalHour)
	orderSheetService := services.NewOrderSheetService(storeRepo, catalogRepo)

	// Initialize Handlers
	forecastHandler := handlers.NewForecastHandler(forecastService)
	intelligenceHandler := handlers.NewIntelligenceHandler(forecastService, depletionService, orderSheetService, catalogRepo, storeRepo)
	wasteHandler := handlers.NewWasteHandler(gateService, complianceService, submissionRepo)

	apiV1 := engine.Group("/api/v1")

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupForecastRoutes(authenticated, forecastHandler)
		SetupIntelligenceRoutes(authenticated, intelligenceHandler)
		SetupWasteRoutes(authenticated, wasteHandler)
	}
}
