package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"brasa_ops_backend/internal/models"
	"brasa_ops_backend/internal/repositories"
	"brasa_ops_backend/pkg/utils"
)

// ErrStoreNotFound is returned when a projection is requested for a store the
// settings collaborator does not know.
var ErrStoreNotFound = errors.New("store not found")

// dailyConsumptionWeights is the standard share of weekly volume consumed per
// day, Mon..Sun. Weekend-heavy, quiet Sunday.
var dailyConsumptionWeights = [7]float64{0.10, 0.12, 0.14, 0.16, 0.20, 0.20, 0.08}

// countLookback bounds how far back the model searches for the most recent
// physical count per protein.
const countLookbackDays = 14

// DefaultSafetyBuffer is the fraction added on top of the projected
// requirement before computing the order shortfall.
const DefaultSafetyBuffer = 0.20

// DepletionService projects per-protein consumption through the week and
// derives the remaining order quantity, split across the fixed delivery days.
type DepletionService interface {
	// Project computes the supply projection for the week the forecast covers.
	// A nil forecast is not an error: suggestions are zeroed, the no_forecast
	// flag is set, and on-hand figures are still returned.
	Project(storeID int64, asOf time.Time, forecast *models.WeeklyForecast) (*models.SupplyProjection, error)
}

type depletionService struct {
	inventoryRepo repositories.InventoryRepository
	storeRepo     repositories.StoreRepository
	catalogRepo   repositories.CatalogRepository
	safetyBuffer  float64
}

// NewDepletionService creates a new instance of DepletionService.
func NewDepletionService(
	ir repositories.InventoryRepository,
	sr repositories.StoreRepository,
	cr repositories.CatalogRepository,
	safetyBuffer float64,
) DepletionService {
	if safetyBuffer < 0 {
		safetyBuffer = DefaultSafetyBuffer
	}
	return &depletionService{
		inventoryRepo: ir,
		storeRepo:     sr,
		catalogRepo:   cr,
		safetyBuffer:  safetyBuffer,
	}
}

// DailyWeight returns the standard consumption share for an operational day
// index (Mon=0..Sun=6).
func DailyWeight(dayIndex int) float64 {
	if dayIndex < 0 || dayIndex > 6 {
		return 0
	}
	return dailyConsumptionWeights[dayIndex]
}

// accumulatedWeight returns the share of the weekly volume consumed by asOf
// within the week starting at weekStart. The in-progress day counts half
// (projection is taken as of mid-service).
func accumulatedWeight(weekStart, asOf time.Time) float64 {
	asOf = utils.DateOnly(asOf)
	weekStart = utils.DateOnly(weekStart)
	if asOf.Before(weekStart) {
		return 0
	}
	if !asOf.Before(weekStart.AddDate(0, 0, 7)) {
		return 1
	}
	dayIdx := utils.DayIndex(asOf)
	var weight float64
	for i := 0; i < dayIdx; i++ {
		weight += dailyConsumptionWeights[i]
	}
	return weight + dailyConsumptionWeights[dayIdx]*0.5
}

func (s *depletionService) Project(storeID int64, asOf time.Time, forecast *models.WeeklyForecast) (*models.SupplyProjection, error) {
	store, err := s.storeRepo.GetStoreByID(storeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrStoreNotFound, storeID)
		}
		return nil, fmt.Errorf("failed to load store settings: %w", err)
	}

	catalog, err := s.catalogRepo.GetProteinCatalog(store.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load protein catalog: %w", err)
	}
	targets, err := s.storeRepo.GetProteinTargets(storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load protein targets: %w", err)
	}

	lookback := utils.DateOnly(asOf).AddDate(0, 0, -countLookbackDays)
	counts, err := s.inventoryRepo.GetLatestCounts(storeID, lookback)
	if err != nil {
		return nil, fmt.Errorf("failed to load physical counts: %w", err)
	}
	purchases, err := s.inventoryRepo.GetPurchases(storeID, lookback, utils.DateOnly(asOf).AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to load purchase records: %w", err)
	}

	var weekStart time.Time
	if forecast != nil {
		weekStart = forecast.WeekStart
	} else {
		weekStart = utils.WeekStart(asOf)
	}

	projection := &models.SupplyProjection{
		StoreID:           storeID,
		WeekStart:         weekStart,
		DayIndex:          utils.DayIndex(asOf),
		AccumulatedWeight: accumulatedWeight(weekStart, asOf),
	}
	if forecast == nil || forecast.TotalGuests() == 0 {
		projection.NoForecast = true
		projection.Warnings = append(projection.Warnings, models.WarnNoForecast)
	} else {
		projection.ForecastLunch = forecast.LunchGuests
		projection.ForecastDinner = forecast.DinnerGuests
	}

	weights, err := s.orderWeights(storeID, projection)
	if err != nil {
		return nil, err
	}

	for _, protein := range catalog {
		line := s.projectProtein(protein, forecast, projection, targets, store.TargetLbsGuest, counts, purchases, weights)
		projection.Suggestions = append(projection.Suggestions, line)
	}

	// Villain cuts first, then by order size, so cost risk leads the sheet.
	villains := make(map[string]bool, len(catalog))
	for _, p := range catalog {
		villains[p.Name] = p.IsVillain
	}
	sort.SliceStable(projection.Suggestions, func(i, j int) bool {
		a, b := projection.Suggestions[i], projection.Suggestions[j]
		if villains[a.Protein] != villains[b.Protein] {
			return villains[a.Protein]
		}
		return a.SuggestedLbs > b.SuggestedLbs
	})
	return projection, nil
}

func (s *depletionService) orderWeights(storeID int64, projection *models.SupplyProjection) (models.OrderWeights, error) {
	weights, err := s.storeRepo.GetOrderWeights(storeID)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.DefaultOrderWeights, nil
	}
	if err != nil {
		return models.OrderWeights{}, fmt.Errorf("failed to load order weights: %w", err)
	}
	if !weights.SumsToOne() {
		// Misconfigured split: proceed on the default and surface the finding.
		projection.Warnings = append(projection.Warnings, models.WarnBadWeights)
		return models.DefaultOrderWeights, nil
	}
	return weights, nil
}

func (s *depletionService) projectProtein(
	protein models.Protein,
	forecast *models.WeeklyForecast,
	projection *models.SupplyProjection,
	targets map[string]float64,
	storeTargetLbsGuest float64,
	counts map[string]models.PhysicalCount,
	purchases []models.PurchaseRecord,
	weights models.OrderWeights,
) models.DepletionProjection {
	line := models.DepletionProjection{Protein: protein.Name, Status: models.StatusNoOrderNeeded}

	count, hasCount := counts[protein.Name]
	if hasCount {
		line.LastCountLbs = count.QuantityLbs
	}
	for _, p := range purchases {
		if p.Protein != protein.Name {
			continue
		}
		// Only receipts after the protein's last physical count add to on-hand;
		// earlier ones are already inside the counted quantity.
		if !hasCount || p.Date.After(count.CountDate) {
			line.ReceivedLbs += p.QuantityLbs
		}
	}

	if projection.NoForecast {
		line.OnHandLbs = line.LastCountLbs + line.ReceivedLbs
		return line
	}

	guests := forecast.TotalGuests()
	if protein.IsDinnerOnly {
		guests = forecast.DinnerGuests
	}
	line.GuestsApplied = guests

	targetLbs, ok := targets[protein.Name]
	if !ok {
		targetLbs, ok = standardShare(protein.Name)
		if !ok {
			projection.MissingTargets = true
			line.Warnings = append(line.Warnings, models.WarnMissingTarget)
			// Safe default: a proportional slice of the store total so the
			// protein still appears on the sheet instead of vanishing.
			targetLbs = storeTargetLbsGuest / DefaultTargetLbsPerGuest * 0.05
		}
	}

	line.RequiredLbs = float64(guests) * targetLbs
	line.DepletionLbs = line.RequiredLbs * projection.AccumulatedWeight

	rawOnHand := line.LastCountLbs + line.ReceivedLbs - line.DepletionLbs
	if rawOnHand < 0 {
		// More depletion than stock on paper. Clamp, but flag the data gap
		// instead of flooring it silently.
		line.Warnings = append(line.Warnings, models.WarnNegativeOnHand)
		rawOnHand = 0
	}
	line.OnHandLbs = rawOnHand

	line.SafetyLbs = line.RequiredLbs * s.safetyBuffer
	shortfall := line.RequiredLbs + line.SafetyLbs - line.OnHandLbs
	if shortfall <= 0 {
		return line
	}

	line.SuggestedLbs = shortfall
	line.Status = models.StatusOrderNeeded
	line.Breakdown = models.OrderBreakdown{
		Mon: shortfall * weights.Mon,
		Wed: shortfall * weights.Wed,
		Sat: shortfall * weights.Sat,
	}
	return line
}
