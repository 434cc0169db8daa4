package services

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"brasa_ops_backend/internal/models"
	"brasa_ops_backend/internal/repositories"
)

// OrderSheetService is the suggestion composer: it merges depletion-model
// output with protein catalog metadata into the externally consumed smart
// order and smart prep payloads. Pure joins plus presentation rounding; no
// forecasting logic of its own.
type OrderSheetService interface {
	BuildOrderSheet(projection *models.SupplyProjection, catalog []models.Protein) *models.OrderSheet
	// BuildPrepSheet derives the day's prep quantities and cost outlook from a
	// guest count, for the kitchen's "pieces to fire" view.
	BuildPrepSheet(storeID int64, date time.Time, guests int) (*models.PrepSheet, error)
}

type orderSheetService struct {
	storeRepo   repositories.StoreRepository
	catalogRepo repositories.CatalogRepository
}

// NewOrderSheetService creates a new instance of OrderSheetService.
func NewOrderSheetService(sr repositories.StoreRepository, cr repositories.CatalogRepository) OrderSheetService {
	return &orderSheetService{storeRepo: sr, catalogRepo: cr}
}

// roundLbs converts an internal float quantity to the whole lbs shown on the
// sheet. Rounding happens only here, never inside the model, so the three-day
// split does not compound rounding error.
func roundLbs(lbs float64) int {
	return int(math.Round(lbs))
}

// pieces converts lbs to whole units, rounding up. You cannot fire a
// fractional piece.
func pieces(lbs, unitWeightLbs float64) int {
	if lbs <= 0 || unitWeightLbs <= 0 {
		return 0
	}
	return int(math.Ceil(lbs / unitWeightLbs))
}

func (s *orderSheetService) BuildOrderSheet(projection *models.SupplyProjection, catalog []models.Protein) *models.OrderSheet {
	byName := make(map[string]models.Protein, len(catalog))
	for _, p := range catalog {
		byName[p.Name] = p
	}

	sheet := &models.OrderSheet{
		StoreID:           projection.StoreID,
		WeekStart:         projection.WeekStart,
		DayIndex:          projection.DayIndex,
		AccumulatedWeight: projection.AccumulatedWeight,
		ForecastLunch:     projection.ForecastLunch,
		ForecastDinner:    projection.ForecastDinner,
		NoForecast:        projection.NoForecast,
		MissingTargets:    projection.MissingTargets,
		Warnings:          projection.Warnings,
	}

	for _, suggestion := range projection.Suggestions {
		meta := byName[suggestion.Protein]
		line := models.OrderSheetLine{
			Protein:       suggestion.Protein,
			IsVillain:     meta.IsVillain,
			RequiredLbs:   roundLbs(suggestion.RequiredLbs),
			LastCountLbs:  roundLbs(suggestion.LastCountLbs),
			ReceivedLbs:   roundLbs(suggestion.ReceivedLbs),
			DepletionLbs:  roundLbs(suggestion.DepletionLbs),
			OnHandLbs:     roundLbs(suggestion.OnHandLbs),
			SuggestedLbs:  roundLbs(suggestion.SuggestedLbs),
			BreakdownMon:  roundLbs(suggestion.Breakdown.Mon),
			BreakdownWed:  roundLbs(suggestion.Breakdown.Wed),
			BreakdownSat:  roundLbs(suggestion.Breakdown.Sat),
			Pieces:        pieces(suggestion.SuggestedLbs, meta.UnitWeightLbs),
			UnitName:      meta.UnitName,
			UnitWeightLbs: meta.UnitWeightLbs,
			Status:        suggestion.Status,
		}
		sheet.Lines = append(sheet.Lines, line)
		sheet.Warnings = append(sheet.Warnings, suggestion.Warnings...)
	}

	sort.SliceStable(sheet.Lines, func(i, j int) bool {
		a, b := sheet.Lines[i], sheet.Lines[j]
		if a.IsVillain != b.IsVillain {
			return a.IsVillain
		}
		return a.SuggestedLbs > b.SuggestedLbs
	})
	return sheet
}

func (s *orderSheetService) BuildPrepSheet(storeID int64, date time.Time, guests int) (*models.PrepSheet, error) {
	if guests < 0 {
		return nil, fmt.Errorf("%w: guest count must be non-negative", ErrForecastValidation)
	}
	store, err := s.storeRepo.GetStoreByID(storeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrStoreNotFound, storeID)
		}
		return nil, fmt.Errorf("failed to load store: %w", err)
	}
	catalog, err := s.catalogRepo.GetProteinCatalog(store.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load protein catalog: %w", err)
	}
	targets, err := s.storeRepo.GetProteinTargets(storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load protein targets: %w", err)
	}

	targetLbsGuest := store.TargetLbsGuest
	if targetLbsGuest <= 0 {
		targetLbsGuest = DefaultTargetLbsPerGuest
	}
	totalMeatLbs := float64(guests) * targetLbsGuest

	sheet := &models.PrepSheet{
		StoreID:         storeID,
		StoreName:       store.StoreName,
		Date:            date,
		ForecastGuests:  guests,
		TargetLbsGuest:  targetLbsGuest,
		FinancialTarget: FinancialTargetGuest,
	}

	var totalPredictedCost float64
	for _, protein := range catalog {
		var mix float64
		if override, ok := targets[protein.Name]; ok {
			mix = override / targetLbsGuest
		} else if share, ok := standardShare(protein.Name); ok {
			mix = share / DefaultTargetLbsPerGuest
		} else {
			sheet.Warnings = append(sheet.Warnings, models.WarnMissingTarget+": "+protein.Name)
			continue
		}

		neededLbs := totalMeatLbs * mix
		totalPredictedCost += neededLbs * protein.CostPerLb

		sheet.Lines = append(sheet.Lines, models.PrepSheetLine{
			Protein:        protein.Name,
			UnitName:       protein.UnitName,
			UnitWeightLbs:  protein.UnitWeightLbs,
			MixPercentage:  math.Round(mix*1000) / 10,
			RecommendedLbs: math.Round(neededLbs*100) / 100,
			RecommendedQty: pieces(neededLbs, protein.UnitWeightLbs),
			CostPerLb:      protein.CostPerLb,
			IsVillain:      protein.IsVillain,
		})
	}

	if guests > 0 {
		sheet.PredictedCostGuest = math.Round(totalPredictedCost/float64(guests)*100) / 100
	}
	sheet.TacticalBriefing = prepBriefing(sheet.PredictedCostGuest)

	sort.SliceStable(sheet.Lines, func(i, j int) bool {
		return sheet.Lines[i].RecommendedLbs > sheet.Lines[j].RecommendedLbs
	})
	return sheet, nil
}

func prepBriefing(predictedCostGuest float64) string {
	switch {
	case predictedCostGuest > FinancialToleranceThreshold:
		return fmt.Sprintf("Financial risk identified: predicted cost ($%.2f) is above the $%.2f ceiling. Instruct the team to pace premium cuts and push efficiency cuts.", predictedCostGuest, FinancialToleranceThreshold)
	case predictedCostGuest > FinancialTargetGuest:
		return fmt.Sprintf("Attention: tight margin ($%.2f). Monitor the premium meat mix to stay under the weekly ceiling.", predictedCostGuest)
	default:
		return fmt.Sprintf("Financial target OK: predicted cost of $%.2f per guest is within the $%.2f target. Comfortable operating margin.", predictedCostGuest, FinancialTargetGuest)
	}
}
