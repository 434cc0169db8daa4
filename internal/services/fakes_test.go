package services

import (
	"fmt"
	"time"

	"brasa_ops_backend/internal/models"
	"brasa_ops_backend/internal/repositories"
	"brasa_ops_backend/pkg/utils"
)

// In-memory repository fakes. They honor the same sentinel errors as the real
// Postgres implementations so the services under test exercise their real
// error branches.

func forecastKey(storeID int64, weekStart time.Time) string {
	return fmt.Sprintf("%d|%s", storeID, utils.FormatDate(weekStart))
}

type fakeForecastRepo struct {
	forecasts map[string]*models.WeeklyForecast
	nextID    int64
	lockCalls int
}

func newFakeForecastRepo() *fakeForecastRepo {
	return &fakeForecastRepo{forecasts: make(map[string]*models.WeeklyForecast)}
}

func (r *fakeForecastRepo) GetForecast(storeID int64, weekStart time.Time) (*models.WeeklyForecast, error) {
	f, ok := r.forecasts[forecastKey(storeID, weekStart)]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *fakeForecastRepo) UpsertForecast(_ repositories.SQLExecutor, forecast *models.WeeklyForecast) (*models.WeeklyForecast, error) {
	key := forecastKey(forecast.StoreID, forecast.WeekStart)
	cp := *forecast
	if existing, ok := r.forecasts[key]; ok {
		cp.ID = existing.ID
	} else {
		r.nextID++
		cp.ID = r.nextID
	}
	r.forecasts[key] = &cp
	out := cp
	return &out, nil
}

func (r *fakeForecastRepo) ApplyLock(_ repositories.SQLExecutor, storeID int64, weekStart time.Time) (bool, error) {
	r.lockCalls++
	f, ok := r.forecasts[forecastKey(storeID, weekStart)]
	if !ok || f.IsLocked {
		return false, nil
	}
	f.IsLocked = true
	return true, nil
}

func (r *fakeForecastRepo) ReleaseLock(_ repositories.SQLExecutor, storeID int64, weekStart time.Time) error {
	f, ok := r.forecasts[forecastKey(storeID, weekStart)]
	if !ok {
		return repositories.ErrNotFound
	}
	f.IsLocked = false
	return nil
}

type fakeInventoryRepo struct {
	counts    map[string]models.PhysicalCount
	purchases []models.PurchaseRecord
	invoices  map[string]int // FormatDate -> invoice line count
	flags     map[string]bool
}

func newFakeInventoryRepo() *fakeInventoryRepo {
	return &fakeInventoryRepo{
		counts:   make(map[string]models.PhysicalCount),
		invoices: make(map[string]int),
		flags:    make(map[string]bool),
	}
}

func (r *fakeInventoryRepo) GetLatestCounts(_ int64, since time.Time) (map[string]models.PhysicalCount, error) {
	out := make(map[string]models.PhysicalCount)
	for protein, c := range r.counts {
		if !c.CountDate.Before(since) {
			out[protein] = c
		}
	}
	return out, nil
}

func (r *fakeInventoryRepo) GetPurchases(_ int64, from, to time.Time) ([]models.PurchaseRecord, error) {
	var out []models.PurchaseRecord
	for _, p := range r.purchases {
		if !p.Date.Before(from) && p.Date.Before(to) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeInventoryRepo) CountInvoicesOn(_ int64, date time.Time) (int, error) {
	return r.invoices[utils.FormatDate(date)], nil
}

func (r *fakeInventoryRepo) GetNoDeliveryFlag(_ int64, date time.Time) (bool, error) {
	return r.flags[utils.FormatDate(date)], nil
}

func (r *fakeInventoryRepo) SetNoDeliveryFlag(_ repositories.SQLExecutor, _ int64, date time.Time, _ int64) error {
	r.flags[utils.FormatDate(date)] = true
	return nil
}

type fakeStoreRepo struct {
	stores  []models.Store
	targets map[int64]map[string]float64
	weights map[int64]models.OrderWeights
}

func newFakeStoreRepo(stores ...models.Store) *fakeStoreRepo {
	return &fakeStoreRepo{
		stores:  stores,
		targets: make(map[int64]map[string]float64),
		weights: make(map[int64]models.OrderWeights),
	}
}

func (r *fakeStoreRepo) GetStoreByID(storeID int64) (*models.Store, error) {
	for _, s := range r.stores {
		if s.ID == storeID {
			cp := s
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeStoreRepo) GetStoresByCompany(companyID string) ([]models.Store, error) {
	var out []models.Store
	for _, s := range r.stores {
		if s.CompanyID == companyID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeStoreRepo) GetProteinTargets(storeID int64) (map[string]float64, error) {
	targets, ok := r.targets[storeID]
	if !ok {
		return map[string]float64{}, nil
	}
	return targets, nil
}

func (r *fakeStoreRepo) GetOrderWeights(storeID int64) (models.OrderWeights, error) {
	w, ok := r.weights[storeID]
	if !ok {
		return models.OrderWeights{}, repositories.ErrNotFound
	}
	return w, nil
}

type fakeCatalogRepo struct {
	proteins []models.Protein
}

func (r *fakeCatalogRepo) GetProteinCatalog(_ string) ([]models.Protein, error) {
	return r.proteins, nil
}

type fakeSubmissionRepo struct {
	submissions []models.ShiftSubmission
	nextID      int64
}

func (r *fakeSubmissionRepo) CreateSubmission(_ repositories.SQLExecutor, submission *models.ShiftSubmission) (*models.ShiftSubmission, error) {
	for _, existing := range r.submissions {
		if existing.StoreID == submission.StoreID &&
			utils.FormatDate(existing.Date) == utils.FormatDate(submission.Date) &&
			existing.Shift == submission.Shift {
			return nil, repositories.ErrDuplicateKey
		}
	}
	r.nextID++
	cp := *submission
	cp.ID = r.nextID
	cp.CreatedAt = time.Now()
	r.submissions = append(r.submissions, cp)
	out := cp
	return &out, nil
}

func (r *fakeSubmissionRepo) GetSubmissionsByDate(storeID int64, date time.Time) ([]models.ShiftSubmission, error) {
	var out []models.ShiftSubmission
	for _, s := range r.submissions {
		if s.StoreID == storeID && utils.FormatDate(s.Date) == utils.FormatDate(date) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSubmissionRepo) GetSubmissionsBetween(storeID int64, from, to time.Time) ([]models.ShiftSubmission, error) {
	var out []models.ShiftSubmission
	for _, s := range r.submissions {
		if s.StoreID == storeID && !s.Date.Before(from) && s.Date.Before(to) {
			out = append(out, s)
		}
	}
	return out, nil
}
