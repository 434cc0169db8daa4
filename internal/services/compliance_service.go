package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"brasa_ops_backend/internal/models"
	"brasa_ops_backend/internal/repositories"
	"brasa_ops_backend/pkg/utils"
)

// ErrCompanyHasNoStores is returned when a network rollup finds nothing to
// aggregate, which usually means a provisioning problem rather than an empty
// company.
var ErrCompanyHasNoStores = errors.New("no stores found for company")

// DefaultCriticalHour is the operational hour-of-day after which an
// unsatisfied gate counts as a critical case (executives intervene before
// lunch service).
const DefaultCriticalHour = 11

// ComplianceService rolls gate outcomes into weekly per-store counts and a
// network-wide readiness view for director/admin roles.
type ComplianceService interface {
	// WeeklyCounts recomputes the week's compliance counters from the
	// submission log. Counts are based on the gate snapshot taken at
	// submission time, so they never fluctuate retroactively.
	WeeklyCounts(storeID int64, weekStart time.Time) (*models.ComplianceCounter, error)
	NetworkStatus(companyID string) (*models.NetworkStatus, error)
}

type complianceService struct {
	submissionRepo repositories.SubmissionRepository
	storeRepo      repositories.StoreRepository
	gateService    GateService
	criticalHour   int
	now            func() time.Time
}

// NewComplianceService creates a new instance of ComplianceService.
func NewComplianceService(
	sur repositories.SubmissionRepository,
	str repositories.StoreRepository,
	gs GateService,
	criticalHour int,
) ComplianceService {
	if criticalHour <= 0 {
		criticalHour = DefaultCriticalHour
	}
	return &complianceService{
		submissionRepo: sur,
		storeRepo:      str,
		gateService:    gs,
		criticalHour:   criticalHour,
		now:            utils.OperationalNow,
	}
}

func (s *complianceService) WeeklyCounts(storeID int64, weekStart time.Time) (*models.ComplianceCounter, error) {
	weekStart = utils.DateOnly(weekStart)
	submissions, err := s.submissionRepo.GetSubmissionsBetween(storeID, weekStart, weekStart.AddDate(0, 0, 7))
	if err != nil {
		return nil, fmt.Errorf("failed to load weekly submissions: %w", err)
	}

	// Distinct business days per shift type. The submission's stored gate
	// snapshot is the qualifying condition, not a live re-evaluation.
	lunchDays := make(map[string]bool)
	dinnerDays := make(map[string]bool)
	for _, sub := range submissions {
		if sub.SatisfiedBy == models.GateNotYetSatisfied {
			continue
		}
		day := utils.FormatDate(sub.Date)
		switch sub.Shift {
		case models.ShiftLunch:
			lunchDays[day] = true
		case models.ShiftDinner:
			dinnerDays[day] = true
		}
	}

	counter := &models.ComplianceCounter{
		StoreID:         storeID,
		WeekStart:       weekStart,
		LunchCount:      len(lunchDays),
		DinnerCount:     len(dinnerDays),
		LunchTargetMet:  len(lunchDays) >= models.ComplianceTarget,
		DinnerTargetMet: len(dinnerDays) >= models.ComplianceTarget,
	}
	return counter, nil
}

func (s *complianceService) NetworkStatus(companyID string) (*models.NetworkStatus, error) {
	stores, err := s.storeRepo.GetStoresByCompany(companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load company stores: %w", err)
	}
	if len(stores) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrCompanyHasNoStores, companyID)
	}

	now := s.now()
	today := utils.DateOnly(now)
	pastCriticalHour := now.Hour() >= s.criticalHour

	// Per-store gate reads are independent and read-only, so they fan out
	// concurrently; results land in pre-sized slots to keep store order.
	summaries := make([]models.StoreGateSummary, len(stores))
	errs := make([]error, len(stores))
	var wg sync.WaitGroup
	for i, store := range stores {
		wg.Add(1)
		go func(i int, store models.Store) {
			defer wg.Done()
			status, err := s.gateService.Evaluate(store.ID, today, models.ShiftLunch, "")
			if err != nil {
				errs[i] = fmt.Errorf("store %d: %w", store.ID, err)
				return
			}
			summaries[i] = models.StoreGateSummary{
				StoreID:     store.ID,
				StoreName:   store.StoreName,
				Location:    store.Location,
				GateLocked:  status.Locked(),
				SatisfiedBy: status.SatisfiedBy,
				Critical:    status.Locked() && pastCriticalHour,
			}
		}(i, store)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("network rollup failed: %w", err)
		}
	}

	network := &models.NetworkStatus{
		Date:        today,
		TotalStores: len(stores),
		Stores:      summaries,
	}
	for _, summary := range summaries {
		if summary.Critical {
			network.CriticalCases++
		}
	}
	return network, nil
}
