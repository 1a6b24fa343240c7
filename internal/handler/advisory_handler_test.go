package handler

import (
	"net/http"
	"testing"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func alertTypes(alerts []domain.Alert) []string {
	types := make([]string, len(alerts))
	for i, a := range alerts {
		types[i] = a.Type
	}
	return types
}

func TestAlerts_CheckReadAndClear(t *testing.T) {
	s := newTestServer(t)
	requireStatus(t, s.do(t, http.MethodPost, "/api/budgets/u1/2024-01", map[string]interface{}{
		"category": "Food", "limit": 100,
	}), http.StatusCreated)
	requireStatus(t, s.do(t, http.MethodPost, "/api/expenses/u1/2024-01", map[string]interface{}{
		"amount": 120, "date": "2024-01-10", "category": "Food",
	}), http.StatusCreated)

	rec := s.do(t, http.MethodPost, "/api/alerts/check", nil)
	requireStatus(t, rec, http.StatusOK)
	res := decode[AlertCheckResponse](t, rec)
	types := alertTypes(res.Alerts)
	assert.Contains(t, types, domain.AlertTypeBudgetExceeded)
	assert.Contains(t, types, domain.AlertTypeLowBalance)

	rec = s.do(t, http.MethodPost, "/api/alerts/check", nil)
	assert.Empty(t, decode[AlertCheckResponse](t, rec).Added, "unread alerts are not raised twice")

	id := res.Alerts[0].ID
	rec = s.do(t, http.MethodPut, "/api/alerts/"+id+"/read", nil)
	requireStatus(t, rec, http.StatusOK)
	assert.True(t, decode[UpdatedResponse](t, rec).Updated)

	rec = s.do(t, http.MethodDelete, "/api/alerts", nil)
	requireStatus(t, rec, http.StatusOK)
	assert.Equal(t, len(res.Alerts), decode[ClearedResponse](t, rec).Cleared)
	assert.Empty(t, decode[[]domain.Alert](t, s.do(t, http.MethodGet, "/api/alerts/u1", nil)))
}

func TestRecommendations_CreateAndRead(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/recommendations/u1", RecommendationRequest{
		Type: "Savings", Description: "Automate a monthly transfer", Impact: "Builds savings",
	})
	requireStatus(t, rec, http.StatusCreated)
	created := decode[domain.Recommendation](t, rec)
	assert.Equal(t, "id-1", created.ID)
	assert.False(t, created.IsRead)

	rec = s.do(t, http.MethodPut, "/api/recommendations/id-1/read", nil)
	assert.True(t, decode[UpdatedResponse](t, rec).Updated)

	recs := decode[[]domain.Recommendation](t, s.do(t, http.MethodGet, "/api/recommendations/u1", nil))
	require.Len(t, recs, 1)
	assert.True(t, recs[0].IsRead)

	rec = s.do(t, http.MethodPost, "/api/recommendations/u1", RecommendationRequest{Type: "Savings"})
	assertErrorCode(t, rec, http.StatusBadRequest, ErrorCodeValidation)
}

func TestRecommendations_GenerateSkipsUnreadDuplicates(t *testing.T) {
	s := newTestServer(t)
	requireStatus(t, s.do(t, http.MethodPost, "/api/income/u1/2024-01", map[string]interface{}{
		"amount": 1000, "date": "2024-01-01", "type": "Salary",
	}), http.StatusCreated)
	requireStatus(t, s.do(t, http.MethodPost, "/api/expenses/u1/2024-01", map[string]interface{}{
		"amount": 950, "date": "2024-01-02", "category": "Entertainment",
	}), http.StatusCreated)

	rec := s.do(t, http.MethodPost, "/api/recommendations/generate", nil)
	requireStatus(t, rec, http.StatusOK)
	first := decode[[]domain.Recommendation](t, rec)

	rec = s.do(t, http.MethodPost, "/api/recommendations/generate", nil)
	requireStatus(t, rec, http.StatusOK)
	assert.Empty(t, decode[[]domain.Recommendation](t, rec))
	assert.Len(t, s.ledger.Recommendations(), len(first))
}
