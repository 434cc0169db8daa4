package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"brasa_ops_backend/internal/models"
	"brasa_ops_backend/internal/repositories"
	"brasa_ops_backend/internal/services"
	"brasa_ops_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// IntelligenceHandler serves the smart order and smart prep views.
type IntelligenceHandler struct {
	forecastService  services.ForecastService
	depletionService services.DepletionService
	orderSheet       services.OrderSheetService
	catalogRepo      repositories.CatalogRepository
	storeRepo        repositories.StoreRepository
}

// NewIntelligenceHandler creates a new IntelligenceHandler.
func NewIntelligenceHandler(
	fs services.ForecastService,
	ds services.DepletionService,
	os services.OrderSheetService,
	cr repositories.CatalogRepository,
	sr repositories.StoreRepository,
) *IntelligenceHandler {
	return &IntelligenceHandler{
		forecastService:  fs,
		depletionService: ds,
		orderSheet:       os,
		catalogRepo:      cr,
		storeRepo:        sr,
	}
}

// GetSupplySuggestions handles GET /intelligence/supply-suggestions?date=.
// The date is the Monday of the week to order for.
func (h *IntelligenceHandler) GetSupplySuggestions(c *gin.Context) {
	actor := actorFromContext(c)
	storeID := resolveStoreID(c, actor)

	dateStr := c.Query("date")
	if utils.IsEmpty(dateStr) {
		utils.RespondValidationFailed(c, "date query parameter is required (Monday of the target week)")
		return
	}
	weekStart, err := utils.ParseDate(dateStr)
	if err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	forecast, err := h.forecastService.GetForecast(storeID, weekStart)
	if err != nil && !errors.Is(err, services.ErrForecastNotFound) {
		if errors.Is(err, services.ErrInvalidWeekStart) {
			utils.RespondValidationFailed(c, err.Error())
			return
		}
		utils.LogError(err, "GetSupplySuggestions: Error loading forecast")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to load forecast.", "Internal error"))
		return
	}
	// forecast stays nil when none exists; the model signals no_forecast and
	// still returns on-hand data.

	projection, err := h.depletionService.Project(storeID, utils.OperationalNow(), forecast)
	if err != nil {
		if errors.Is(err, services.ErrStoreNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Store not found.", err.Error()))
			return
		}
		utils.LogError(err, "GetSupplySuggestions: Error from depletionService.Project")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeUpstreamUnavailable, "Failed to generate suggestions.", "Upstream inventory data unavailable"))
		return
	}

	store, err := h.storeRepo.GetStoreByID(storeID)
	if err != nil {
		utils.LogError(err, "GetSupplySuggestions: Error loading store")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to load store.", "Internal error"))
		return
	}
	catalog, err := h.catalogRepo.GetProteinCatalog(store.CompanyID)
	if err != nil {
		utils.LogError(err, "GetSupplySuggestions: Error loading catalog")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeUpstreamUnavailable, "Failed to load protein catalog.", "Upstream catalog unavailable"))
		return
	}

	sheet := h.orderSheet.BuildOrderSheet(projection, catalog)
	c.JSON(http.StatusOK, gin.H{"success": true, "order_sheet": sheet})
}

// GetDailyPrep handles GET /prep/daily?date=&guests=.
func (h *IntelligenceHandler) GetDailyPrep(c *gin.Context) {
	actor := actorFromContext(c)
	storeID := resolveStoreID(c, actor)

	date := utils.OperationalToday()
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := utils.ParseDate(dateStr)
		if err != nil {
			utils.RespondValidationFailed(c, err.Error())
			return
		}
		date = parsed
	}

	guests := 0
	if guestsStr := c.Query("guests"); guestsStr != "" {
		parsed, err := strconv.Atoi(guestsStr)
		if err != nil || parsed < 0 {
			utils.RespondValidationFailed(c, "guests must be a non-negative integer")
			return
		}
		guests = parsed
	} else {
		// Fall back to the locked weekly forecast, apportioned by the day's
		// consumption share of the week.
		weekStart := utils.WeekStart(date)
		forecast, err := h.forecastService.GetForecast(storeID, weekStart)
		if err == nil && forecast != nil {
			guests = dailyGuestEstimate(forecast, date)
		}
	}

	sheet, err := h.orderSheet.BuildPrepSheet(storeID, date, guests)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrStoreNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Store not found.", err.Error()))
		case errors.Is(err, services.ErrForecastValidation):
			utils.RespondValidationFailed(c, err.Error())
		default:
			utils.LogError(err, "GetDailyPrep: Error from orderSheet.BuildPrepSheet")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to generate prep list.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, sheet)
}

// dailyGuestEstimate apportions the weekly guest forecast to one day using the
// standard consumption curve.
func dailyGuestEstimate(forecast *models.WeeklyForecast, date time.Time) int {
	share := services.DailyWeight(utils.DayIndex(date))
	return int(float64(forecast.TotalGuests()) * share)
}
