package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brasa_ops_backend/internal/middleware"
	"brasa_ops_backend/internal/models"
	"brasa_ops_backend/pkg/utils"
)

type gateFixture struct {
	svc     GateService
	inv     *fakeInventoryRepo
	subs    *fakeSubmissionRepo
	stores  *fakeStoreRepo
	catalog *fakeCatalogRepo
}

func newGateFixture() *gateFixture {
	inv := newFakeInventoryRepo()
	subs := &fakeSubmissionRepo{}
	stores := newFakeStoreRepo(testStore())
	catalog := &fakeCatalogRepo{proteins: []models.Protein{picanha()}}
	return &gateFixture{
		svc:     NewGateService(inv, subs, stores, catalog, nil),
		inv:     inv,
		subs:    subs,
		stores:  stores,
		catalog: catalog,
	}
}

func testDay(t *testing.T) time.Time {
	t.Helper()
	d, err := utils.ParseDate("2026-09-02")
	require.NoError(t, err)
	return d
}

func TestGateLockedWithoutInvoiceOrFlag(t *testing.T) {
	fx := newGateFixture()
	day := testDay(t)

	status, err := fx.svc.Evaluate(1, day, models.ShiftLunch, middleware.RoleManager)
	require.NoError(t, err)
	assert.False(t, status.CanInput)
	assert.True(t, status.Locked())
	assert.Equal(t, models.GateNotYetSatisfied, status.SatisfiedBy)
	assert.Equal(t, gateLockedMessage, status.Message)
}

func TestGateOpensOnInvoice(t *testing.T) {
	fx := newGateFixture()
	day := testDay(t)
	fx.inv.invoices[utils.FormatDate(day)] = 2

	status, err := fx.svc.Evaluate(1, day, models.ShiftLunch, middleware.RoleManager)
	require.NoError(t, err)
	assert.True(t, status.CanInput)
	assert.Equal(t, models.GateSatisfiedInvoice, status.SatisfiedBy)
	assert.Equal(t, gateOpenMessage, status.Message)

	// Both shifts of the day share the invoice satisfaction.
	status, err = fx.svc.Evaluate(1, day, models.ShiftDinner, middleware.RoleManager)
	require.NoError(t, err)
	assert.True(t, status.CanInput)
}

func TestGateOpensOnNoDeliveryFlag(t *testing.T) {
	fx := newGateFixture()
	day := testDay(t)

	err := fx.svc.SetNoDeliveryFlag(1, day, 7, middleware.RoleManager)
	require.NoError(t, err)

	status, err := fx.svc.Evaluate(1, day, models.ShiftLunch, middleware.RoleManager)
	require.NoError(t, err)
	assert.True(t, status.CanInput)
	assert.Equal(t, models.GateSatisfiedNoDelivery, status.SatisfiedBy)
}

func TestGateInvoiceTakesPrecedenceOverFlag(t *testing.T) {
	fx := newGateFixture()
	day := testDay(t)
	fx.inv.invoices[utils.FormatDate(day)] = 1
	fx.inv.flags[utils.FormatDate(day)] = true

	status, err := fx.svc.Evaluate(1, day, models.ShiftLunch, middleware.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, models.GateSatisfiedInvoice, status.SatisfiedBy)
}

func TestGateOversightSeesThroughLock(t *testing.T) {
	fx := newGateFixture()
	day := testDay(t)

	for _, role := range []string{middleware.RoleDirector, middleware.RoleAdmin} {
		status, err := fx.svc.Evaluate(1, day, models.ShiftLunch, role)
		require.NoError(t, err)
		// Read access is granted, but the day gate itself stays unsatisfied.
		assert.True(t, status.CanInput)
		assert.True(t, status.Locked())
		assert.Equal(t, gateOversightMessage, status.Message)
	}
}

func TestSetNoDeliveryFlagRefusesOversightRoles(t *testing.T) {
	fx := newGateFixture()
	day := testDay(t)

	err := fx.svc.SetNoDeliveryFlag(1, day, 7, middleware.RoleDirector)
	assert.ErrorIs(t, err, ErrNoDeliveryFlagRole)

	// Setting an already-set flag is idempotent for store roles.
	require.NoError(t, fx.svc.SetNoDeliveryFlag(1, day, 7, middleware.RoleStoreAdmin))
	require.NoError(t, fx.svc.SetNoDeliveryFlag(1, day, 7, middleware.RoleStoreAdmin))
}

func TestSubmitShiftBlockedByLockedGate(t *testing.T) {
	fx := newGateFixture()
	day := testDay(t)

	items := []models.WasteItem{{Protein: "Beef Picanha", WeightLbs: 3.5, Reason: "overcooked"}}
	_, err := fx.svc.SubmitShift(1, day, models.ShiftLunch, items, 7, middleware.RoleManager)
	assert.ErrorIs(t, err, ErrGateNotSatisfied)
}

func TestSubmitShiftRecordsSnapshotAndTagsVillains(t *testing.T) {
	fx := newGateFixture()
	day := testDay(t)
	fx.inv.invoices[utils.FormatDate(day)] = 1

	items := []models.WasteItem{
		{Protein: "Beef Picanha", WeightLbs: 3.5, Reason: "overcooked"},
		{Protein: "Chicken Leg", WeightLbs: 1.2, Reason: "dropped"},
	}
	saved, err := fx.svc.SubmitShift(1, day, models.ShiftLunch, items, 7, middleware.RoleManager)
	require.NoError(t, err)

	assert.Equal(t, models.GateSatisfiedInvoice, saved.SatisfiedBy)
	assert.Equal(t, int64(7), saved.InputBy)
	require.Len(t, saved.Items, 2)
	assert.True(t, saved.Items[0].IsVillain)
	assert.False(t, saved.Items[1].IsVillain)
	assert.InDelta(t, 4.7, saved.TotalWasteLbs(), 0.001)
}

func TestSubmitShiftRejectsDuplicateAndOversight(t *testing.T) {
	fx := newGateFixture()
	day := testDay(t)
	fx.inv.invoices[utils.FormatDate(day)] = 1
	items := []models.WasteItem{{Protein: "Beef Picanha", WeightLbs: 2, Reason: "trim"}}

	_, err := fx.svc.SubmitShift(1, day, models.ShiftLunch, items, 7, middleware.RoleManager)
	require.NoError(t, err)

	_, err = fx.svc.SubmitShift(1, day, models.ShiftLunch, items, 8, middleware.RoleManager)
	assert.ErrorIs(t, err, ErrShiftAlreadyLogged)

	// The other shift of the same day is still open.
	_, err = fx.svc.SubmitShift(1, day, models.ShiftDinner, items, 7, middleware.RoleManager)
	require.NoError(t, err)

	_, err = fx.svc.SubmitShift(1, day.AddDate(0, 0, 1), models.ShiftLunch, items, 7, middleware.RoleDirector)
	assert.ErrorIs(t, err, ErrOversightReadOnly)

	_, err = fx.svc.SubmitShift(1, day, models.Shift("BRUNCH"), items, 7, middleware.RoleManager)
	assert.ErrorIs(t, err, ErrInvalidShift)
}

func TestGateStaysOpenAfterSubmission(t *testing.T) {
	fx := newGateFixture()
	day := testDay(t)
	fx.inv.invoices[utils.FormatDate(day)] = 1

	items := []models.WasteItem{{Protein: "Beef Picanha", WeightLbs: 2, Reason: "trim"}}
	_, err := fx.svc.SubmitShift(1, day, models.ShiftLunch, items, 7, middleware.RoleManager)
	require.NoError(t, err)

	// The invoice is voided after lunch; the stored snapshot keeps the day
	// open for the dinner entry.
	delete(fx.inv.invoices, utils.FormatDate(day))

	status, err := fx.svc.Evaluate(1, day, models.ShiftDinner, middleware.RoleManager)
	require.NoError(t, err)
	assert.True(t, status.CanInput)
	assert.Equal(t, models.GateSatisfiedInvoice, status.SatisfiedBy)

	_, err = fx.svc.SubmitShift(1, day, models.ShiftDinner, items, 7, middleware.RoleManager)
	require.NoError(t, err)
}
