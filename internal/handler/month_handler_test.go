package handler

import (
	"net/http"
	"testing"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonths_CreateAndActivate(t *testing.T) {
	s := newTestServer(t)

	months := decode[MonthsResponse](t, s.do(t, http.MethodGet, "/api/months/u1", nil))
	require.Len(t, months.Months, 1)
	assert.Equal(t, "2024-01", months.ActiveMonth)

	rec := s.do(t, http.MethodPost, "/api/months/u1", CreateMonthRequest{Month: "February 2024"})
	requireStatus(t, rec, http.StatusCreated)
	month := decode[domain.MonthData](t, rec)
	assert.Equal(t, "2024-02", month.ID)
	assert.True(t, month.IsActive)
	assert.Equal(t, "2024-02", s.ledger.ActiveMonth())

	rec = s.do(t, http.MethodPut, "/api/months/active", SetActiveMonthRequest{MonthID: "2024-01"})
	requireStatus(t, rec, http.StatusOK)
	assert.Equal(t, "2024-01", decode[MonthsResponse](t, rec).ActiveMonth)
}

func TestMonths_Errors(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/months/u1", CreateMonthRequest{Month: "2024-01"})
	assertErrorCode(t, rec, http.StatusConflict, ErrorCodeConflict)

	rec = s.do(t, http.MethodPost, "/api/months/u1", CreateMonthRequest{Month: "someday"})
	assertErrorCode(t, rec, http.StatusBadRequest, ErrorCodeValidation)

	rec = s.do(t, http.MethodPut, "/api/months/active", SetActiveMonthRequest{MonthID: "2030-01"})
	assertErrorCode(t, rec, http.StatusNotFound, ErrorCodeNotFound)
}

func TestMonths_SummaryAndCompare(t *testing.T) {
	s := newTestServer(t)
	requireStatus(t, s.do(t, http.MethodPost, "/api/income/u1/2024-01", map[string]interface{}{
		"amount": 4000, "date": "2024-01-01", "type": "Salary",
	}), http.StatusCreated)
	requireStatus(t, s.do(t, http.MethodPost, "/api/expenses/u1/2024-01", map[string]interface{}{
		"amount": 1000, "date": "2024-01-03", "category": "Housing",
	}), http.StatusCreated)

	rec := s.do(t, http.MethodGet, "/api/summary/u1/2024-01", nil)
	requireStatus(t, rec, http.StatusOK)
	summary := decode[domain.MonthSummary](t, rec)
	assert.True(t, summary.NetCashflow.Equal(decimal.NewFromInt(3000)))
	assert.True(t, summary.SavingsRate.Equal(decimal.NewFromInt(75)))

	rec = s.do(t, http.MethodGet, "/api/months/compare?monthId=2024-02", nil)
	requireStatus(t, rec, http.StatusOK)
	comparison := decode[domain.MonthComparison](t, rec)
	assert.Equal(t, "2024-01", comparison.PreviousMonthID)

	rec = s.do(t, http.MethodGet, "/api/months/compare?monthId=bogus", nil)
	assertErrorCode(t, rec, http.StatusBadRequest, ErrorCodeValidation)
}

func TestProfile_GetAndUpdate(t *testing.T) {
	s := newTestServer(t)

	profile := decode[domain.UserProfile](t, s.do(t, http.MethodGet, "/api/user-profile/u1", nil))
	assert.Equal(t, "USD", profile.PreferredCurrency)

	rec := s.do(t, http.MethodPut, "/api/user-profile/u1", map[string]interface{}{
		"name": "Alex", "preferredCurrency": "EUR",
	})
	requireStatus(t, rec, http.StatusOK)
	profile = decode[domain.UserProfile](t, rec)
	assert.Equal(t, "Alex", profile.Name)
	assert.Equal(t, "EUR", profile.PreferredCurrency)
	assert.Equal(t, 80, profile.AlertPreferences.BudgetWarningThreshold)
}

func TestProfile_RejectsInvalidThreshold(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPut, "/api/user-profile/u1", map[string]interface{}{
		"alertPreferences": map[string]interface{}{"budgetWarningThreshold": 150, "upcomingPaymentDays": 7},
	})
	assertErrorCode(t, rec, http.StatusBadRequest, ErrorCodeValidation)
	assert.Equal(t, 80, s.ledger.Profile().AlertPreferences.BudgetWarningThreshold)
}

func TestScenarios_CRUDAndProjection(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/scenarios/u1", ScenarioRequest{Name: "Raise", IncomeChange: decimal.NewFromInt(500)})
	requireStatus(t, rec, http.StatusCreated)
	sc := decode[domain.Scenario](t, rec)
	assert.Equal(t, "id-1", sc.ID)

	rec = s.do(t, http.MethodGet, "/api/scenarios/id-1/projection", nil)
	requireStatus(t, rec, http.StatusOK)
	projection := decode[domain.ScenarioProjection](t, rec)
	assert.Equal(t, "id-1", projection.ScenarioID)
	assert.True(t, projection.MonthlySavingsChange.Equal(decimal.NewFromInt(500)))

	rec = s.do(t, http.MethodPost, "/api/scenarios/u1", ScenarioRequest{})
	assertErrorCode(t, rec, http.StatusBadRequest, ErrorCodeValidation)

	rec = s.do(t, http.MethodGet, "/api/scenarios/missing/projection", nil)
	assertErrorCode(t, rec, http.StatusNotFound, ErrorCodeNotFound)

	rec = s.do(t, http.MethodDelete, "/api/scenarios/id-1", nil)
	assert.True(t, decode[DeletedResponse](t, rec).Deleted)
	assert.Empty(t, s.ledger.Scenarios())
}
