package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/ai"
	"github.com/dafibh/fintrack/fintrack-backend/internal/ledger"
	"github.com/dafibh/fintrack/fintrack-backend/internal/middleware"
	"github.com/dafibh/fintrack/fintrack-backend/internal/repository/memory"
	"github.com/dafibh/fintrack/fintrack-backend/internal/service"
	"github.com/dafibh/fintrack/fintrack-backend/internal/testutil"
	"github.com/dafibh/fintrack/fintrack-backend/internal/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	e         *echo.Echo
	ledger    *ledger.Store
	completer *testutil.MockCompleter
	hosted    *testutil.MockKVStore
}

// newTestServer wires every route over an in-memory ledger. The completer fails
// until a test sets a response.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	l := testutil.NewLedger(memory.NewKVStore())
	completer := &testutil.MockCompleter{Err: ai.ErrNotConfigured}
	adapter := ai.NewAdapter(completer, time.Second, zerolog.Nop())
	hosted := testutil.NewMockKVStore()
	hub := websocket.NewHub()

	limiter := middleware.NewRateLimiterWithConfig(60, 3)
	t.Cleanup(limiter.Stop)

	e := echo.New()
	RegisterRoutes(e, Handlers{
		Health:       NewHealthHandler(l, hub, adapter.Configured()),
		Transactions: NewTransactionHandler(l),
		Budgets:      NewBudgetHandler(l),
		Goals:        NewGoalHandler(l),
		Debts:        NewDebtHandler(l),
		Advisory:     NewAdvisoryHandler(l),
		Scenarios:    NewScenarioHandler(l),
		Months:       NewMonthHandler(l),
		Profile:      NewProfileHandler(l),
		AI:           NewAIHandler(service.NewInsightService(l, adapter, zerolog.Nop())),
		HostedKV:     NewHostedKVHandler(service.NewHostedKVService(hosted, "", zerolog.Nop()), l),
		WebSocket:    NewWebSocketHandler(hub, testAllowedOrigins),
		Docs:         NewDocsHandler("8080", ""),
	}, limiter)

	return &testServer{e: e, ledger: l, completer: completer, hosted: hosted}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
}

func assertErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	requireStatus(t, rec, status)
	body := decode[ErrorResponse](t, rec)
	require.Equal(t, code, body.Error)
	require.NotEmpty(t, body.Message)
}

