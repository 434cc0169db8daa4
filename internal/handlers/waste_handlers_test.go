package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brasa_ops_backend/internal/middleware"
	"brasa_ops_backend/internal/models"
)

// stubGateService reproduces the gate's role handling for a fixed day state:
// privileged roles can always input, store roles only once the day is
// satisfied.
type stubGateService struct {
	satisfiedBy string
}

func (s *stubGateService) Evaluate(storeID int64, date time.Time, shift models.Shift, role string) (models.GateStatus, error) {
	status := models.GateStatus{
		StoreID:     storeID,
		Date:        date,
		Shift:       shift,
		SatisfiedBy: s.satisfiedBy,
	}
	status.CanInput = s.satisfiedBy != models.GateNotYetSatisfied || middleware.IsPrivileged(role)
	return status, nil
}

func (s *stubGateService) SetNoDeliveryFlag(int64, time.Time, int64, string) error {
	return nil
}

func (s *stubGateService) SubmitShift(int64, time.Time, models.Shift, []models.WasteItem, int64, string) (*models.ShiftSubmission, error) {
	return nil, nil
}

type stubComplianceService struct{}

func (s *stubComplianceService) WeeklyCounts(storeID int64, weekStart time.Time) (*models.ComplianceCounter, error) {
	return &models.ComplianceCounter{StoreID: storeID, WeekStart: weekStart}, nil
}

func (s *stubComplianceService) NetworkStatus(string) (*models.NetworkStatus, error) {
	return &models.NetworkStatus{}, nil
}

func getStatusAs(t *testing.T, handler *WasteHandler, role string) map[string]interface{} {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/waste/status", nil)
	c.Set("userID", int64(7))
	c.Set("userRole", role)
	c.Set("storeID", int64(1))
	c.Set("companyID", "brasa")

	handler.GetStatus(c)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetStatusGateLockedIsRoleAware(t *testing.T) {
	handler := NewWasteHandler(&stubGateService{satisfiedBy: models.GateNotYetSatisfied}, &stubComplianceService{}, nil)

	// Same unsatisfied day: the manager's terminal is locked, the director's
	// oversight view is not.
	resp := getStatusAs(t, handler, middleware.RoleManager)
	assert.Equal(t, true, resp["gate_locked"])
	assert.Equal(t, models.GateNotYetSatisfied, resp["source"])
	today := resp["today"].(map[string]interface{})
	assert.Equal(t, false, today["can_input_lunch"])
	assert.Equal(t, false, today["can_input_dinner"])

	resp = getStatusAs(t, handler, middleware.RoleDirector)
	assert.Equal(t, false, resp["gate_locked"])
	assert.Equal(t, models.GateNotYetSatisfied, resp["source"])
	today = resp["today"].(map[string]interface{})
	assert.Equal(t, true, today["can_input_lunch"])
}

func TestGetStatusGateOpenOnInvoice(t *testing.T) {
	handler := NewWasteHandler(&stubGateService{satisfiedBy: models.GateSatisfiedInvoice}, &stubComplianceService{}, nil)

	resp := getStatusAs(t, handler, middleware.RoleManager)
	assert.Equal(t, false, resp["gate_locked"])
	assert.Equal(t, models.GateSatisfiedInvoice, resp["source"])
	today := resp["today"].(map[string]interface{})
	assert.Equal(t, true, today["can_input_lunch"])
}
