package router

import (
	"brasa_ops_backend/internal/handlers"
	"brasa_ops_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupForecastRoutes sets up the weekly forecast routes.
func SetupForecastRoutes(authenticatedGroup *gin.RouterGroup, forecastHandler *handlers.ForecastHandler) {
	forecastRoutes := authenticatedGroup.Group("/forecast")
	{
		forecastRoutes.GET("/next-week", forecastHandler.GetNextWeekForecast)
		forecastRoutes.POST("/upsert", forecastHandler.UpsertForecast)

		overrideRoutes := forecastRoutes.Group("")
		overrideRoutes.Use(middleware.RoleAuthMiddleware(middleware.RoleDirector, middleware.RoleAdmin))
		{
			overrideRoutes.POST("/unlock", forecastHandler.UnlockForecast)
		}
	}
}

// SetupIntelligenceRoutes sets up the smart order and smart prep routes.
func SetupIntelligenceRoutes(authenticatedGroup *gin.RouterGroup, intelligenceHandler *handlers.IntelligenceHandler) {
	intelligenceRoutes := authenticatedGroup.Group("/intelligence")
	{
		intelligenceRoutes.GET("/supply-suggestions", intelligenceHandler.GetSupplySuggestions)
	}

	prepRoutes := authenticatedGroup.Group("/prep")
	{
		prepRoutes.GET("/daily", intelligenceHandler.GetDailyPrep)
	}
}

// SetupWasteRoutes sets up the shift terminal and accountability routes.
func SetupWasteRoutes(authenticatedGroup *gin.RouterGroup, wasteHandler *handlers.WasteHandler) {
	wasteRoutes := authenticatedGroup.Group("/waste")
	{
		wasteRoutes.GET("/status", wasteHandler.GetStatus)
		wasteRoutes.POST("/log", wasteHandler.LogShift)
		wasteRoutes.GET("/history", wasteHandler.GetHistory)
		wasteRoutes.GET("/compliance", wasteHandler.GetWeeklyCompliance)

		privilegedRoutes := wasteRoutes.Group("")
		privilegedRoutes.Use(middleware.RoleAuthMiddleware(middleware.RoleDirector, middleware.RoleAdmin))
		{
			privilegedRoutes.GET("/network-accountability", wasteHandler.GetNetworkAccountability)
		}
	}

	deliveryRoutes := authenticatedGroup.Group("/delivery")
	{
		deliveryRoutes.POST("/no-delivery-flag", wasteHandler.SetNoDeliveryFlag)
	}
}
