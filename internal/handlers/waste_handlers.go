package handlers

import (
	"errors"
	"net/http"

	"brasa_ops_backend/internal/middleware"
	"brasa_ops_backend/internal/models"
	"brasa_ops_backend/internal/repositories"
	"brasa_ops_backend/internal/services"
	"brasa_ops_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// WasteHandler serves the shift terminal: gate status, shift submissions,
// waste history and the network accountability view.
type WasteHandler struct {
	gateService       services.GateService
	complianceService services.ComplianceService
	submissionRepo    repositories.SubmissionRepository
}

// NewWasteHandler creates a new WasteHandler.
func NewWasteHandler(gs services.GateService, cs services.ComplianceService, sur repositories.SubmissionRepository) *WasteHandler {
	return &WasteHandler{gateService: gs, complianceService: cs, submissionRepo: sur}
}

// GetStatus handles GET /waste/status: the gate state for both of today's
// shifts plus the week's compliance counters. A locked gate is a 200, never an
// error.
func (h *WasteHandler) GetStatus(c *gin.Context) {
	actor := actorFromContext(c)
	storeID := resolveStoreID(c, actor)
	today := utils.OperationalToday()

	lunch, err := h.gateService.Evaluate(storeID, today, models.ShiftLunch, actor.Role)
	if err != nil {
		utils.LogError(err, "GetStatus: Error evaluating lunch gate")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeUpstreamUnavailable, "Failed to evaluate gate.", "Upstream invoice data unavailable"))
		return
	}
	dinner, err := h.gateService.Evaluate(storeID, today, models.ShiftDinner, actor.Role)
	if err != nil {
		utils.LogError(err, "GetStatus: Error evaluating dinner gate")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeUpstreamUnavailable, "Failed to evaluate gate.", "Upstream invoice data unavailable"))
		return
	}

	weekStart := utils.WeekStart(today)
	compliance, err := h.complianceService.WeeklyCounts(storeID, weekStart)
	if err != nil {
		utils.LogError(err, "GetStatus: Error computing weekly counts")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to compute compliance.", "Internal error"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		// Role-aware: oversight roles read through an unsatisfied gate, so
		// for them the terminal is not locked even when the day state is.
		"gate_locked": !lunch.CanInput,
		"source":      lunch.SatisfiedBy,
		"week_start":  utils.FormatDate(weekStart),
		"today": gin.H{
			"can_input_lunch":  lunch.CanInput,
			"can_input_dinner": dinner.CanInput,
			"statusMessage":    lunch.Message,
		},
		"compliance": compliance,
	})
}

// LogShift handles POST /waste/log: shift data entry through the gate.
func (h *WasteHandler) LogShift(c *gin.Context) {
	var req services.SubmitShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "LogShift: Failed to bind JSON")
		utils.RespondValidationFailed(c, "Invalid request payload: "+err.Error())
		return
	}

	actor := actorFromContext(c)
	storeID := actor.StoreID
	if req.StoreID != nil && middleware.IsPrivileged(actor.Role) {
		storeID = *req.StoreID
	}

	date := utils.OperationalToday()
	if req.Date != "" {
		parsed, err := utils.ParseDate(req.Date)
		if err != nil {
			utils.RespondValidationFailed(c, err.Error())
			return
		}
		date = parsed
	}
	for _, item := range req.Items {
		if item.WeightLbs < 0 {
			utils.RespondValidationFailed(c, "item weights must be non-negative")
			return
		}
	}

	submission, err := h.gateService.SubmitShift(storeID, date, models.Shift(req.Shift), req.Items, actor.UserID, actor.Role)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidShift):
			utils.RespondValidationFailed(c, err.Error())
		case errors.Is(err, services.ErrOversightReadOnly):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, err.Error(), "oversight roles are read-only"))
		case errors.Is(err, services.ErrGateNotSatisfied):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Accountability gate is locked for this date.", err.Error()))
		case errors.Is(err, services.ErrShiftAlreadyLogged):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, err.Error(), err.Error()))
		default:
			utils.LogError(err, "LogShift: Error from gateService.SubmitShift")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to log shift.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "submission": submission})
}

// SetNoDeliveryFlag handles POST /delivery/no-delivery-flag.
func (h *WasteHandler) SetNoDeliveryFlag(c *gin.Context) {
	var req struct {
		Date string `json:"date"` // YYYY-MM-DD, defaults to today
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, "Invalid request payload: "+err.Error())
		return
	}

	actor := actorFromContext(c)
	date := utils.OperationalToday()
	if req.Date != "" {
		parsed, err := utils.ParseDate(req.Date)
		if err != nil {
			utils.RespondValidationFailed(c, err.Error())
			return
		}
		date = parsed
	}

	if err := h.gateService.SetNoDeliveryFlag(actor.StoreID, date, actor.UserID, actor.Role); err != nil {
		if errors.Is(err, services.ErrNoDeliveryFlagRole) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, err.Error(), err.Error()))
			return
		}
		utils.LogError(err, "SetNoDeliveryFlag: Error from gateService.SetNoDeliveryFlag")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to set flag.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetHistory handles GET /waste/history?range=: per-day waste lbs for charts.
func (h *WasteHandler) GetHistory(c *gin.Context) {
	actor := actorFromContext(c)
	storeID := resolveStoreID(c, actor)

	now := utils.OperationalNow()
	from := utils.DateOnly(now.AddDate(0, 0, -(now.Day() - 1))) // start of month default
	switch c.DefaultQuery("range", "this-month") {
	case "this-week":
		from = utils.WeekStart(now)
	case "last-month":
		from = utils.DateOnly(now.AddDate(0, -1, -(now.Day() - 1)))
	case "ytd":
		from = utils.DateOnly(now.AddDate(0, int(1-now.Month()), -(now.Day() - 1)))
	}

	submissions, err := h.submissionRepo.GetSubmissionsBetween(storeID, from, utils.OperationalToday().AddDate(0, 0, 1))
	if err != nil {
		utils.LogError(err, "GetHistory: Error loading submissions")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch history.", "Internal error"))
		return
	}

	totals := make(map[string]float64)
	var order []string
	for _, sub := range submissions {
		day := utils.FormatDate(sub.Date)
		if _, seen := totals[day]; !seen {
			order = append(order, day)
		}
		totals[day] += sub.TotalWasteLbs()
	}

	chart := make([]gin.H, 0, len(order))
	for _, day := range order {
		chart = append(chart, gin.H{"date": day, "pounds": totals[day]})
	}
	c.JSON(http.StatusOK, chart)
}

// GetNetworkAccountability handles GET /waste/network-accountability
// (director/admin only).
func (h *WasteHandler) GetNetworkAccountability(c *gin.Context) {
	actor := actorFromContext(c)

	network, err := h.complianceService.NetworkStatus(actor.CompanyID)
	if err != nil {
		if errors.Is(err, services.ErrCompanyHasNoStores) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "No stores provisioned for this company.", err.Error()))
			return
		}
		utils.LogError(err, "GetNetworkAccountability: Error from complianceService.NetworkStatus")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch network accountability.", "Internal error"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":           utils.FormatDate(network.Date),
		"total_stores":   network.TotalStores,
		"critical_cases": network.CriticalCases,
		"stores":         network.Stores,
	})
}

// GetWeeklyCompliance handles GET /waste/compliance?week_start= for a specific
// week (defaults to the current week).
func (h *WasteHandler) GetWeeklyCompliance(c *gin.Context) {
	actor := actorFromContext(c)
	storeID := resolveStoreID(c, actor)

	weekStart := utils.WeekStart(utils.OperationalNow())
	if weekStr := c.Query("week_start"); weekStr != "" {
		parsed, err := utils.ParseDate(weekStr)
		if err != nil {
			utils.RespondValidationFailed(c, err.Error())
			return
		}
		if !utils.IsMonday(parsed) {
			utils.RespondValidationFailed(c, "week_start must be a Monday")
			return
		}
		weekStart = parsed
	}

	compliance, err := h.complianceService.WeeklyCounts(storeID, weekStart)
	if err != nil {
		utils.LogError(err, "GetWeeklyCompliance: Error from complianceService.WeeklyCounts")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to compute compliance.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, compliance)
}
