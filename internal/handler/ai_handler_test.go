package handler

import (
	"net/http"
	"testing"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateInsights_FallbackIsNotSaved(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/openai/generate-insights", nil)
	requireStatus(t, rec, http.StatusOK)

	res := decode[service.Insights](t, rec)
	assert.True(t, res.Fallback)
	require.Len(t, res.Recommendations, 1)
	assert.Equal(t, "Error", res.Recommendations[0].Type)
	assert.Empty(t, s.ledger.Recommendations())
}

func TestCategorize_UsesCompletion(t *testing.T) {
	s := newTestServer(t)
	s.completer.Err = nil
	s.completer.Response = `{"category": "Transportation"}`

	rec := s.do(t, http.MethodPost, "/api/openai/categorize", CategorizeRequest{Description: "Monthly train pass"})
	requireStatus(t, rec, http.StatusOK)

	res := decode[service.AIResult[domain.ExpenseCategory]](t, rec)
	assert.False(t, res.Fallback)
	assert.Equal(t, domain.CategoryTransportation, res.Result)
}

func TestAsk(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/knowledge/ask", AskRequest{Question: "  "})
	assertErrorCode(t, rec, http.StatusBadRequest, ErrorCodeValidation)

	s.completer.Err = nil
	s.completer.Response = "Pay the highest interest debt first."
	rec = s.do(t, http.MethodPost, "/api/knowledge/ask", AskRequest{Question: "Which debt first?"})
	requireStatus(t, rec, http.StatusOK)
	answer := decode[AnswerResponse](t, rec)
	assert.False(t, answer.Fallback)
	assert.Equal(t, "Pay the highest interest debt first.", answer.Answer)
}

func TestAIRoutes_RateLimited(t *testing.T) {
	s := newTestServer(t)

	// burst of 3 per client IP
	for i := 0; i < 3; i++ {
		requireStatus(t, s.do(t, http.MethodPost, "/api/openai/analyze-health", nil), http.StatusOK)
	}
	rec := s.do(t, http.MethodPost, "/api/openai/analyze-health", nil)
	assertErrorCode(t, rec, http.StatusTooManyRequests, "rate_limited")
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// non-AI routes are not limited
	requireStatus(t, s.do(t, http.MethodGet, "/api/goals/u1", nil), http.StatusOK)
}
