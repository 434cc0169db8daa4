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

// --- Custom Service Errors for the Accountability Gate ---
var (
	ErrInvalidShift = errors.New("shift must be LUNCH or DINNER")
	// ErrGateNotSatisfied blocks a submission attempt while the day's delivery
	// is unaccounted for. Note this is an error only for writes; reading a
	// locked gate is a normal response.
	ErrGateNotSatisfied = errors.New("accountability gate not satisfied for this date")
	// ErrOversightReadOnly enforces that director/admin roles see through the
	// gate but never submit shift data themselves.
	ErrOversightReadOnly = errors.New("director and admin roles are read-only and cannot submit shift data")
	ErrShiftAlreadyLogged = errors.New("this shift has already been submitted for this date")
	ErrNoDeliveryFlagRole = errors.New("only manager or store-admin roles may set the no-delivery flag")
)

// Messages surfaced verbatim in the UI.
const (
	gateLockedMessage    = "Accountability Gate Locked: Invoice input or 'No Delivery Today' flag required for today's shift."
	gateOpenMessage      = "Open for Entry"
	gateOversightMessage = "Oversight view: gate pending for this store (read-only)."
)

// --- Gate DTOs ---
type SubmitShiftRequest struct {
	Date    string             `json:"date"` // YYYY-MM-DD, defaults to today
	Shift   string             `json:"shift" binding:"required"`
	Items   []models.WasteItem `json:"items" binding:"required"`
	StoreID *int64             `json:"store_id"` // honored for store-admin multi-store setups
}

// --- GateService Interface ---
type GateService interface {
	// Evaluate returns the gate state for one store, date and shift as seen by
	// the given role. A locked gate is a normal result, never an error.
	Evaluate(storeID int64, date time.Time, shift models.Shift, role string) (models.GateStatus, error)
	SetNoDeliveryFlag(storeID int64, date time.Time, actorID int64, actorRole string) error
	// SubmitShift records shift data entry after re-checking the gate, storing
	// the gate-satisfaction snapshot alongside the payload.
	SubmitShift(storeID int64, date time.Time, shift models.Shift, items []models.WasteItem, actorID int64, actorRole string) (*models.ShiftSubmission, error)
}

// --- gateService Implementation ---
type gateService struct {
	inventoryRepo  repositories.InventoryRepository
	submissionRepo repositories.SubmissionRepository
	storeRepo      repositories.StoreRepository
	catalogRepo    repositories.CatalogRepository
	db             *sql.DB
}

// NewGateService creates a new instance of GateService.
func NewGateService(
	ir repositories.InventoryRepository,
	sur repositories.SubmissionRepository,
	str repositories.StoreRepository,
	cr repositories.CatalogRepository,
	db *sql.DB,
) GateService {
	return &gateService{
		inventoryRepo:  ir,
		submissionRepo: sur,
		storeRepo:      str,
		catalogRepo:    cr,
		db:             db,
	}
}

// daySatisfaction resolves how (and whether) the day's gate is satisfied.
// Submissions already made today pin the gate open for the rest of the day:
// an invoice voided mid-shift cannot re-lock a day that was accounted for
// when data entry happened.
func (s *gateService) daySatisfaction(storeID int64, date time.Time) (string, error) {
	submissions, err := s.submissionRepo.GetSubmissionsByDate(storeID, date)
	if err != nil {
		return "", fmt.Errorf("failed to load today's submissions: %w", err)
	}
	for _, sub := range submissions {
		if sub.SatisfiedBy != models.GateNotYetSatisfied {
			return sub.SatisfiedBy, nil
		}
	}

	invoices, err := s.inventoryRepo.CountInvoicesOn(storeID, date)
	if err != nil {
		return "", fmt.Errorf("failed to check invoices: %w", err)
	}
	if invoices > 0 {
		return models.GateSatisfiedInvoice, nil
	}

	flagged, err := s.inventoryRepo.GetNoDeliveryFlag(storeID, date)
	if err != nil {
		return "", fmt.Errorf("failed to check no-delivery flag: %w", err)
	}
	if flagged {
		return models.GateSatisfiedNoDelivery, nil
	}
	return models.GateNotYetSatisfied, nil
}

func (s *gateService) Evaluate(storeID int64, date time.Time, shift models.Shift, role string) (models.GateStatus, error) {
	date = utils.DateOnly(date)
	status := models.GateStatus{
		StoreID: storeID,
		Date:    date,
		Shift:   shift,
	}

	satisfiedBy, err := s.daySatisfaction(storeID, date)
	if err != nil {
		return models.GateStatus{}, err
	}
	status.SatisfiedBy = satisfiedBy

	switch {
	case satisfiedBy != models.GateNotYetSatisfied:
		status.CanInput = true
		status.Message = gateOpenMessage
	case middleware.IsPrivileged(role):
		// Oversight exemption: directors see through the gate. The write path
		// still refuses them (ErrOversightReadOnly).
		status.CanInput = true
		status.Message = gateOversightMessage
	default:
		status.CanInput = false
		status.Message = gateLockedMessage
	}
	return status, nil
}

func (s *gateService) SetNoDeliveryFlag(storeID int64, date time.Time, actorID int64, actorRole string) error {
	if middleware.IsPrivileged(actorRole) {
		// Directors intervene through store staff, not by flagging remotely.
		return ErrNoDeliveryFlagRole
	}
	date = utils.DateOnly(date)
	if err := s.inventoryRepo.SetNoDeliveryFlag(s.db, storeID, date, actorID); err != nil {
		return fmt.Errorf("failed to set no-delivery flag: %w", err)
	}
	utils.LogInfo("No-delivery flag set", map[string]interface{}{
		"store_id": storeID,
		"date":     utils.FormatDate(date),
		"set_by":   actorID,
	})
	return nil
}

func (s *gateService) SubmitShift(storeID int64, date time.Time, shift models.Shift, items []models.WasteItem, actorID int64, actorRole string) (*models.ShiftSubmission, error) {
	if !models.IsValidShift(string(shift)) {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidShift, shift)
	}
	if middleware.IsPrivileged(actorRole) {
		return nil, ErrOversightReadOnly
	}
	date = utils.DateOnly(date)

	satisfiedBy, err := s.daySatisfaction(storeID, date)
	if err != nil {
		return nil, err
	}
	if satisfiedBy == models.GateNotYetSatisfied {
		return nil, ErrGateNotSatisfied
	}

	tagged, err := s.tagVillains(storeID, items)
	if err != nil {
		return nil, err
	}

	submission := &models.ShiftSubmission{
		StoreID:     storeID,
		Date:        date,
		Shift:       shift,
		SatisfiedBy: satisfiedBy,
		Items:       tagged,
		InputBy:     actorID,
	}
	saved, err := s.submissionRepo.CreateSubmission(s.db, submission)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrShiftAlreadyLogged
		}
		return nil, fmt.Errorf("failed to record shift submission: %w", err)
	}
	return saved, nil
}

// tagVillains marks high-cost cuts in the payload at write time so Pareto
// analysis keeps working even if the catalog flag changes later.
func (s *gateService) tagVillains(storeID int64, items []models.WasteItem) ([]models.WasteItem, error) {
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
	villains := make(map[string]bool, len(catalog))
	for _, p := range catalog {
		villains[p.Name] = p.IsVillain
	}
	tagged := make([]models.WasteItem, len(items))
	for i, item := range items {
		item.IsVillain = villains[item.Protein]
		tagged[i] = item
	}
	return tagged, nil
}
