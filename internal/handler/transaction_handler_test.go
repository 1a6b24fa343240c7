package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/repository/memory"
	"github.com/dafibh/fintrack/fintrack-backend/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateIncome_Success(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/income/u1/2024-01", map[string]interface{}{
		"amount": "4000",
		"date":   "2024-01-05",
		"type":   "Salary",
	})
	requireStatus(t, rec, http.StatusCreated)

	created := decode[domain.Income](t, rec)
	assert.Equal(t, "id-1", created.ID)
	assert.Equal(t, "2024-01", created.MonthID)
	assert.True(t, created.Amount.Equal(decimal.NewFromInt(4000)))

	rec = s.do(t, http.MethodGet, "/api/income/u1/2024-01", nil)
	requireStatus(t, rec, http.StatusOK)
	assert.Len(t, decode[[]domain.Income](t, rec), 1)
}

func TestCreateIncome_EmptyDateUsesPathMonth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/income/u1/2024-03", map[string]interface{}{
		"amount": 100,
		"type":   "Freelance",
	})
	requireStatus(t, rec, http.StatusCreated)
	assert.Equal(t, "2024-03", decode[domain.Income](t, rec).MonthID)
	assert.True(t, s.ledger.HasMonth("2024-03"))
}

func TestCreateIncome_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
		body map[string]interface{}
	}{
		{"zero amount", "/api/income/u1/2024-01", map[string]interface{}{"amount": 0, "date": "2024-01-05", "type": "Salary"}},
		{"unknown type", "/api/income/u1/2024-01", map[string]interface{}{"amount": 10, "date": "2024-01-05", "type": "Lottery"}},
		{"bad date", "/api/income/u1/2024-01", map[string]interface{}{"amount": 10, "date": "05/01/2024", "type": "Salary"}},
		{"bad month", "/api/income/u1/2024-13", map[string]interface{}{"amount": 10, "type": "Salary"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			rec := s.do(t, http.MethodPost, tt.path, tt.body)
			assertErrorCode(t, rec, http.StatusBadRequest, ErrorCodeValidation)
		})
	}
}

func TestCreateIncome_MalformedBody(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/income/u1/2024-01", "{not json")
	assertErrorCode(t, rec, http.StatusBadRequest, ErrorCodeValidation)
}

func TestUpdateAndDeleteIncome(t *testing.T) {
	s := newTestServer(t)
	requireStatus(t, s.do(t, http.MethodPost, "/api/income/u1/2024-01", map[string]interface{}{
		"amount": 100, "date": "2024-01-05", "type": "Salary",
	}), http.StatusCreated)

	rec := s.do(t, http.MethodPut, "/api/income/id-1", map[string]interface{}{
		"amount": 250, "date": "2024-01-05", "type": "Salary",
	})
	requireStatus(t, rec, http.StatusOK)
	assert.True(t, decode[UpdatedResponse](t, rec).Updated)
	assert.True(t, s.ledger.Summary("2024-01").TotalIncome.Equal(decimal.NewFromInt(250)))

	rec = s.do(t, http.MethodPut, "/api/income/missing", map[string]interface{}{
		"amount": 250, "date": "2024-01-05", "type": "Salary",
	})
	requireStatus(t, rec, http.StatusOK)
	assert.False(t, decode[UpdatedResponse](t, rec).Updated)

	rec = s.do(t, http.MethodDelete, "/api/income/id-1", nil)
	requireStatus(t, rec, http.StatusOK)
	assert.True(t, decode[DeletedResponse](t, rec).Deleted)

	rec = s.do(t, http.MethodDelete, "/api/income/id-1", nil)
	assert.False(t, decode[DeletedResponse](t, rec).Deleted)
}

func TestCreateExpense_UpdatesBudgetSpent(t *testing.T) {
	s := newTestServer(t)
	requireStatus(t, s.do(t, http.MethodPost, "/api/budgets/u1/2024-01", map[string]interface{}{
		"category": "Food", "limit": 100,
	}), http.StatusCreated)

	rec := s.do(t, http.MethodPost, "/api/expenses/u1/2024-01", map[string]interface{}{
		"amount": 30, "date": "2024-01-10", "category": "Food", "description": "groceries",
	})
	requireStatus(t, rec, http.StatusCreated)

	budgets := decode[[]domain.Budget](t, s.do(t, http.MethodGet, "/api/budgets/u1/2024-01", nil))
	require.Len(t, budgets, 1)
	assert.True(t, budgets[0].Spent.Equal(decimal.NewFromInt(30)))
}

func TestGetExpenses_EchoContext(t *testing.T) {
	l := testutil.NewLedger(memory.NewKVStore())
	h := NewTransactionHandler(l)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/expenses/u1/2024-01", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("userId", "monthId")
	c.SetParamValues("u1", "2024-01")

	require.NoError(t, h.GetExpenses(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCategorizeExpense_Local(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/categorize-expense", map[string]string{"description": "Morning coffee"})
	requireStatus(t, rec, http.StatusOK)
	assert.Equal(t, domain.CategoryFood, decode[CategorizeResponse](t, rec).Category)
	assert.Zero(t, s.completer.Calls())
}
