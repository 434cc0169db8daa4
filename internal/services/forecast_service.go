package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"brasa_ops_backend/internal/middleware"
	"brasa_ops_backend/internal/models"
	"brasa_ops_backend/internal/repositories"
	"brasa_ops_backend/pkg/utils"
)

// --- Custom Service Errors for Forecast ---
var (
	ErrForecastNotFound   = errors.New("forecast not found")
	ErrInvalidWeekStart   = errors.New("week_start must be the Monday of its week")
	ErrForecastValidation = errors.New("forecast data validation error")
	// ErrForecastLocked is returned when a write hits a locked forecast and the
	// actor lacks the director/admin override.
	ErrForecastLocked = errors.New("forecast is locked; edits required prior to Wednesday of the previous week")
	// ErrOverrideRequired is returned when a non-privileged actor attempts the
	// explicit unlock operation.
	ErrOverrideRequired = errors.New("unlocking a forecast requires the director or admin role")
)

// --- Forecast DTOs ---
type UpsertForecastRequest struct {
	WeekStart    string `json:"week_start" binding:"required"` // YYYY-MM-DD, must be a Monday
	LunchGuests  int    `json:"lunch_guests"`
	DinnerGuests int    `json:"dinner_guests"`
	StoreID      *int64 `json:"store_id"` // honored for director/admin drill-down only
}

// --- ForecastService Interface ---
type ForecastService interface {
	// GetForecast evaluates the lock deadline before reading, so a forecast
	// whose deadline has passed is returned already locked.
	GetForecast(storeID int64, weekStart time.Time) (*models.WeeklyForecast, error)
	UpsertForecast(storeID int64, weekStart time.Time, lunchGuests, dinnerGuests int, actorRole string) (*models.WeeklyForecast, error)
	UnlockForecast(storeID int64, weekStart time.Time, actorRole string) (*models.WeeklyForecast, error)
	// EvaluateAndApplyLock performs the deadline check and, when due, the
	// atomic unlocked->locked transition. Returns true when this call
	// performed the transition. Exposed so the state machine is testable
	// independently of a read.
	EvaluateAndApplyLock(storeID int64, weekStart time.Time) (bool, error)
}

// --- forecastService Implementation ---
type forecastService struct {
	forecastRepo repositories.ForecastRepository
	db           *sql.DB
	now          func() time.Time
}

// NewForecastService creates a new instance of ForecastService.
func NewForecastService(fr repositories.ForecastRepository, db *sql.DB) ForecastService {
	return &forecastService{
		forecastRepo: fr,
		db:           db,
		now:          utils.OperationalNow,
	}
}

func validateWeekStart(weekStart time.Time) error {
	// Non-Monday inputs are rejected, not snapped: silent snapping would let
	// two clients believe they wrote different weeks.
	if !utils.IsMonday(weekStart) {
		return fmt.Errorf("%w: got %s (%s)", ErrInvalidWeekStart,
			utils.FormatDate(weekStart), weekStart.Weekday())
	}
	return nil
}

func (s *forecastService) GetForecast(storeID int64, weekStart time.Time) (*models.WeeklyForecast, error) {
	if err := validateWeekStart(weekStart); err != nil {
		return nil, err
	}
	if _, err := s.EvaluateAndApplyLock(storeID, weekStart); err != nil {
		return nil, err
	}
	forecast, err := s.forecastRepo.GetForecast(storeID, weekStart)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrForecastNotFound
		}
		return nil, fmt.Errorf("failed to get forecast: %w", err)
	}
	return forecast, nil
}

func (s *forecastService) EvaluateAndApplyLock(storeID int64, weekStart time.Time) (bool, error) {
	deadline := utils.LockDeadline(weekStart)
	if !s.now().After(deadline) {
		return false, nil
	}
	// The conditional update is the concurrency guard: of N concurrent
	// readers, exactly one observes the unlocked row and flips it.
	transitioned, err := s.forecastRepo.ApplyLock(s.db, storeID, weekStart)
	if err != nil {
		return false, fmt.Errorf("failed to apply forecast lock: %w", err)
	}
	if transitioned {
		utils.LogInfo("Forecast lock deadline passed, forecast locked", map[string]interface{}{
			"store_id":   storeID,
			"week_start": utils.FormatDate(weekStart),
			"deadline":   deadline.Format(time.RFC3339),
		})
	}
	return transitioned, nil
}

func (s *forecastService) UpsertForecast(storeID int64, weekStart time.Time, lunchGuests, dinnerGuests int, actorRole string) (*models.WeeklyForecast, error) {
	if err := validateWeekStart(weekStart); err != nil {
		return nil, err
	}
	if lunchGuests < 0 || dinnerGuests < 0 {
		return nil, fmt.Errorf("%w: guest counts must be non-negative", ErrForecastValidation)
	}

	deadline := utils.LockDeadline(weekStart)
	pastDeadline := s.now().After(deadline)
	privileged := middleware.IsPrivileged(actorRole)

	existing, err := s.forecastRepo.GetForecast(storeID, weekStart)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing forecast: %w", err)
	}

	locked := pastDeadline || (existing != nil && existing.IsLocked)
	if locked && !privileged {
		return nil, fmt.Errorf("%w (deadline was %s)", ErrForecastLocked, deadline.Format(time.RFC3339))
	}

	forecast := &models.WeeklyForecast{
		StoreID:      storeID,
		WeekStart:    weekStart,
		LunchGuests:  lunchGuests,
		DinnerGuests: dinnerGuests,
		// A privileged late edit writes through the lock but the record stays
		// locked for store roles.
		IsLocked: locked,
	}
	saved, err := s.forecastRepo.UpsertForecast(s.db, forecast)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert forecast: %w", err)
	}

	if locked && privileged {
		utils.LogInfo("Forecast override write past lock deadline", map[string]interface{}{
			"store_id":   storeID,
			"week_start": utils.FormatDate(weekStart),
			"actor_role": actorRole,
		})
	}
	return saved, nil
}

func (s *forecastService) UnlockForecast(storeID int64, weekStart time.Time, actorRole string) (*models.WeeklyForecast, error) {
	if err := validateWeekStart(weekStart); err != nil {
		return nil, err
	}
	if !middleware.IsPrivileged(actorRole) {
		return nil, ErrOverrideRequired
	}
	err := s.forecastRepo.ReleaseLock(s.db, storeID, weekStart)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrForecastNotFound
		}
		return nil, fmt.Errorf("failed to unlock forecast: %w", err)
	}
	utils.LogInfo("Forecast unlocked by override", map[string]interface{}{
		"store_id":   storeID,
		"week_start": utils.FormatDate(weekStart),
		"actor_role": actorRole,
	})
	return s.forecastRepo.GetForecast(storeID, weekStart)
}
