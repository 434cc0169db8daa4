package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"brasa_ops_backend/internal/models"
)

// ForecastRepository defines the interface for weekly forecast persistence.
// The forecast submission endpoint (or a director override) is the single
// writer for this table.
type ForecastRepository interface {
	GetForecast(storeID int64, weekStart time.Time) (*models.WeeklyForecast, error)
	UpsertForecast(executor SQLExecutor, forecast *models.WeeklyForecast) (*models.WeeklyForecast, error)
	// ApplyLock flips is_locked to true only if it is currently false, as a
	// single conditional UPDATE. Returns true when this call performed the
	// transition, so exactly one of N concurrent readers logs it.
	ApplyLock(executor SQLExecutor, storeID int64, weekStart time.Time) (bool, error)
	// ReleaseLock clears is_locked. Used by the director unlock path only.
	ReleaseLock(executor SQLExecutor, storeID int64, weekStart time.Time) error
}

type forecastRepository struct {
	db *sql.DB
}

// NewForecastRepository creates a new instance of ForecastRepository.
func NewForecastRepository(db *sql.DB) ForecastRepository {
	return &forecastRepository{db: db}
}

func scanForecastRow(row scanner) (*models.WeeklyForecast, error) {
	var f models.WeeklyForecast
	err := row.Scan(
		&f.ID, &f.StoreID, &f.WeekStart, &f.LunchGuests, &f.DinnerGuests,
		&f.IsLocked, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning weekly forecast: %v", ErrDatabaseError, err)
	}
	return &f, nil
}

func (r *forecastRepository) GetForecast(storeID int64, weekStart time.Time) (*models.WeeklyForecast, error) {
	query := `
		SELECT id, store_id, week_start, lunch_guests, dinner_guests, is_locked, created_at, updated_at
		FROM weekly_forecasts
		WHERE store_id = $1 AND week_start = $2`
	return scanForecastRow(r.db.QueryRow(query, storeID, weekStart))
}

func (r *forecastRepository) UpsertForecast(executor SQLExecutor, forecast *models.WeeklyForecast) (*models.WeeklyForecast, error) {
	query := `
		INSERT INTO weekly_forecasts (store_id, week_start, lunch_guests, dinner_guests, is_locked, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (store_id, week_start) DO UPDATE SET
			lunch_guests = EXCLUDED.lunch_guests,
			dinner_guests = EXCLUDED.dinner_guests,
			is_locked = EXCLUDED.is_locked,
			updated_at = NOW()
		RETURNING id, store_id, week_start, lunch_guests, dinner_guests, is_locked, created_at, updated_at`
	row := executor.QueryRow(query,
		forecast.StoreID, forecast.WeekStart, forecast.LunchGuests, forecast.DinnerGuests, forecast.IsLocked)
	return scanForecastRow(row)
}

func (r *forecastRepository) ApplyLock(executor SQLExecutor, storeID int64, weekStart time.Time) (bool, error) {
	query := `
		UPDATE weekly_forecasts
		SET is_locked = TRUE, updated_at = NOW()
		WHERE store_id = $1 AND week_start = $2 AND is_locked = FALSE`
	res, err := executor.Exec(query, storeID, weekStart)
	if err != nil {
		return false, fmt.Errorf("%w: applying forecast lock: %v", ErrDatabaseError, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: reading lock rows affected: %v", ErrDatabaseError, err)
	}
	return affected == 1, nil
}

func (r *forecastRepository) ReleaseLock(executor SQLExecutor, storeID int64, weekStart time.Time) error {
	query := `
		UPDATE weekly_forecasts
		SET is_locked = FALSE, updated_at = NOW()
		WHERE store_id = $1 AND week_start = $2`
	res, err := executor.Exec(query, storeID, weekStart)
	if err != nil {
		return fmt.Errorf("%w: releasing forecast lock: %v", ErrDatabaseError, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: reading unlock rows affected: %v", ErrDatabaseError, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
