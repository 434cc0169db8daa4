package handlers

import (
	"errors"
	"net/http"

	"brasa_ops_backend/internal/middleware"
	"brasa_ops_backend/internal/services"
	"brasa_ops_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ForecastHandler holds the forecast service.
type ForecastHandler struct {
	forecastService services.ForecastService
}

// NewForecastHandler creates a new ForecastHandler.
func NewForecastHandler(fs services.ForecastService) *ForecastHandler {
	return &ForecastHandler{forecastService: fs}
}

// GetNextWeekForecast handles GET /forecast/next-week?date=YYYY-MM-DD.
// The date must be the Monday of the week the forecast covers.
func (h *ForecastHandler) GetNextWeekForecast(c *gin.Context) {
	actor := actorFromContext(c)
	storeID := resolveStoreID(c, actor)

	dateStr := c.Query("date")
	if utils.IsEmpty(dateStr) {
		utils.RespondValidationFailed(c, "date query parameter is required (YYYY-MM-DD)")
		return
	}
	weekStart, err := utils.ParseDate(dateStr)
	if err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	forecast, err := h.forecastService.GetForecast(storeID, weekStart)
	if err != nil {
		if errors.Is(err, services.ErrForecastNotFound) {
			// Absent forecast is a normal state for a week nobody planned yet.
			c.JSON(http.StatusOK, gin.H{"success": true, "forecast": nil})
			return
		}
		if errors.Is(err, services.ErrInvalidWeekStart) {
			utils.RespondValidationFailed(c, err.Error())
			return
		}
		utils.LogError(err, "GetNextWeekForecast: Error from forecastService.GetForecast")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to get forecast.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "forecast": forecast})
}

// UpsertForecast handles POST /forecast/upsert.
func (h *ForecastHandler) UpsertForecast(c *gin.Context) {
	var req services.UpsertForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpsertForecast: Failed to bind JSON")
		utils.RespondValidationFailed(c, "Invalid request payload: "+err.Error())
		return
	}

	actor := actorFromContext(c)
	storeID := actor.StoreID
	if req.StoreID != nil && middleware.IsPrivileged(actor.Role) {
		storeID = *req.StoreID
	}

	weekStart, err := utils.ParseDate(req.WeekStart)
	if err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	forecast, err := h.forecastService.UpsertForecast(storeID, weekStart, req.LunchGuests, req.DinnerGuests, actor.Role)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidWeekStart), errors.Is(err, services.ErrForecastValidation):
			utils.RespondValidationFailed(c, err.Error())
		case errors.Is(err, services.ErrForecastLocked):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, err.Error(), err.Error()))
		default:
			utils.LogError(err, "UpsertForecast: Error from forecastService.UpsertForecast")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to save forecast.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "forecast": forecast})
}

// UnlockForecast handles POST /forecast/unlock (director/admin only).
func (h *ForecastHandler) UnlockForecast(c *gin.Context) {
	var req struct {
		StoreID   int64  `json:"store_id" binding:"required"`
		WeekStart string `json:"week_start" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, "Invalid request payload: "+err.Error())
		return
	}

	actor := actorFromContext(c)
	weekStart, err := utils.ParseDate(req.WeekStart)
	if err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	forecast, err := h.forecastService.UnlockForecast(req.StoreID, weekStart, actor.Role)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidWeekStart):
			utils.RespondValidationFailed(c, err.Error())
		case errors.Is(err, services.ErrOverrideRequired):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, err.Error(), err.Error()))
		case errors.Is(err, services.ErrForecastNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Forecast not found.", err.Error()))
		default:
			utils.LogError(err, "UnlockForecast: Error from forecastService.UnlockForecast")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to unlock forecast.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "forecast": forecast})
}
