package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brasa_ops_backend/internal/models"
	"brasa_ops_backend/pkg/utils"
)

func newComplianceServiceAt(subs *fakeSubmissionRepo, stores *fakeStoreRepo, gs GateService, now time.Time) *complianceService {
	return &complianceService{
		submissionRepo: subs,
		storeRepo:      stores,
		gateService:    gs,
		criticalHour:   DefaultCriticalHour,
		now:            func() time.Time { return now },
	}
}

func addSubmission(subs *fakeSubmissionRepo, storeID int64, date time.Time, shift models.Shift, satisfiedBy string) {
	subs.nextID++
	subs.submissions = append(subs.submissions, models.ShiftSubmission{
		ID: subs.nextID, StoreID: storeID, Date: date, Shift: shift, SatisfiedBy: satisfiedBy,
	})
}

func TestWeeklyCountsDistinctDays(t *testing.T) {
	weekStart := mustMonday(t, "2026-08-31")
	subs := &fakeSubmissionRepo{}

	// Lunch on Mon/Tue/Wed, dinner on Mon only. A second Monday lunch row
	// would violate the storage constraint, so distinctness is exercised via
	// shifts spread over days.
	addSubmission(subs, 1, weekStart, models.ShiftLunch, models.GateSatisfiedInvoice)
	addSubmission(subs, 1, weekStart.AddDate(0, 0, 1), models.ShiftLunch, models.GateSatisfiedNoDelivery)
	addSubmission(subs, 1, weekStart.AddDate(0, 0, 2), models.ShiftLunch, models.GateSatisfiedInvoice)
	addSubmission(subs, 1, weekStart, models.ShiftDinner, models.GateSatisfiedInvoice)

	svc := newComplianceServiceAt(subs, newFakeStoreRepo(), nil, weekStart)
	counter, err := svc.WeeklyCounts(1, weekStart)
	require.NoError(t, err)

	assert.Equal(t, 3, counter.LunchCount)
	assert.Equal(t, 1, counter.DinnerCount)
	assert.True(t, counter.LunchTargetMet)
	assert.False(t, counter.DinnerTargetMet)
}

func TestWeeklyCountsIgnoreOtherWeeksAndUnsatisfied(t *testing.T) {
	weekStart := mustMonday(t, "2026-08-31")
	subs := &fakeSubmissionRepo{}

	addSubmission(subs, 1, weekStart.AddDate(0, 0, -1), models.ShiftLunch, models.GateSatisfiedInvoice) // prior week
	addSubmission(subs, 1, weekStart.AddDate(0, 0, 7), models.ShiftLunch, models.GateSatisfiedInvoice)  // next week
	addSubmission(subs, 1, weekStart, models.ShiftLunch, models.GateNotYetSatisfied)                    // never qualifies
	addSubmission(subs, 2, weekStart, models.ShiftLunch, models.GateSatisfiedInvoice)                   // other store

	svc := newComplianceServiceAt(subs, newFakeStoreRepo(), nil, weekStart)
	counter, err := svc.WeeklyCounts(1, weekStart)
	require.NoError(t, err)

	assert.Zero(t, counter.LunchCount)
	assert.Zero(t, counter.DinnerCount)
	assert.False(t, counter.LunchTargetMet)
}

func TestWeeklyCountsCanExceedTarget(t *testing.T) {
	weekStart := mustMonday(t, "2026-08-31")
	subs := &fakeSubmissionRepo{}
	for i := 0; i < 5; i++ {
		addSubmission(subs, 1, weekStart.AddDate(0, 0, i), models.ShiftDinner, models.GateSatisfiedInvoice)
	}

	svc := newComplianceServiceAt(subs, newFakeStoreRepo(), nil, weekStart)
	counter, err := svc.WeeklyCounts(1, weekStart)
	require.NoError(t, err)

	// Raw count keeps going past the target; the signal caps at met.
	assert.Equal(t, 5, counter.DinnerCount)
	assert.True(t, counter.DinnerTargetMet)
}

func networkFixture() (*fakeStoreRepo, *fakeInventoryRepo, *fakeSubmissionRepo, GateService) {
	loc := "Addison"
	stores := newFakeStoreRepo(
		models.Store{ID: 1, CompanyID: "brasa", StoreName: "Addison", Location: &loc, TargetLbsGuest: 1.76},
		models.Store{ID: 2, CompanyID: "brasa", StoreName: "Dallas", TargetLbsGuest: 1.76},
		models.Store{ID: 3, CompanyID: "brasa", StoreName: "Plano", TargetLbsGuest: 1.76},
	)
	inv := newFakeInventoryRepo()
	subs := &fakeSubmissionRepo{}
	gs := NewGateService(inv, subs, stores, &fakeCatalogRepo{}, nil)
	return stores, inv, subs, gs
}

func TestNetworkStatusKeepsRosterOrder(t *testing.T) {
	stores, inv, _, gs := networkFixture()
	day, err := utils.ParseDate("2026-09-02")
	require.NoError(t, err)
	inv.invoices[utils.FormatDate(day)] = 1

	noon := time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, day.Location())
	svc := newComplianceServiceAt(&fakeSubmissionRepo{}, stores, gs, noon)

	network, err := svc.NetworkStatus("brasa")
	require.NoError(t, err)
	assert.Equal(t, 3, network.TotalStores)
	require.Len(t, network.Stores, 3)
	assert.Zero(t, network.CriticalCases)

	// Concurrent per-store reads land back in roster order.
	assert.Equal(t, int64(1), network.Stores[0].StoreID)
	assert.Equal(t, int64(2), network.Stores[1].StoreID)
	assert.Equal(t, int64(3), network.Stores[2].StoreID)
	for _, s := range network.Stores {
		assert.False(t, s.GateLocked)
		assert.Equal(t, models.GateSatisfiedInvoice, s.SatisfiedBy)
	}
}

func TestNetworkStatusCriticalOnlyAfterCriticalHour(t *testing.T) {
	stores, _, _, gs := networkFixture()
	day, err := utils.ParseDate("2026-09-02")
	require.NoError(t, err)

	// No store has satisfied the gate. Before the critical hour nothing is
	// critical yet; after it every locked store is.
	morning := time.Date(day.Year(), day.Month(), day.Day(), 9, 0, 0, 0, day.Location())
	svc := newComplianceServiceAt(&fakeSubmissionRepo{}, stores, gs, morning)
	network, err := svc.NetworkStatus("brasa")
	require.NoError(t, err)
	assert.Zero(t, network.CriticalCases)
	for _, s := range network.Stores {
		assert.True(t, s.GateLocked)
	}

	noon := time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, day.Location())
	svc = newComplianceServiceAt(&fakeSubmissionRepo{}, stores, gs, noon)
	network, err = svc.NetworkStatus("brasa")
	require.NoError(t, err)
	assert.Equal(t, 3, network.CriticalCases)
}

func TestNetworkStatusUnknownCompany(t *testing.T) {
	stores, _, _, gs := networkFixture()
	svc := newComplianceServiceAt(&fakeSubmissionRepo{}, stores, gs, utils.OperationalNow())
	_, err := svc.NetworkStatus("nobody")
	assert.ErrorIs(t, err, ErrCompanyHasNoStores)
}
