package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/ai"
	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupInsightService(t *testing.T, c ai.Completer) (*InsightService, *scriptedCompleter) {
	t.Helper()
	store := newLedger(t)
	store.AddIncome(context.Background(), domain.Income{
		Amount: decimal.NewFromInt(4000),
		Type:   domain.IncomeTypeSalary,
		Date:   serviceTestNow,
	})
	adapter := ai.NewAdapter(c, time.Second, zerolog.Nop())
	sc, _ := c.(*scriptedCompleter)
	return NewInsightService(store, adapter, zerolog.Nop()), sc
}

func TestInsightService_GenerateInsightsPersistsModelRecommendations(t *testing.T) {
	completer := &scriptedCompleter{response: `[{"type":"Savings","description":"Automate transfers","impact":"High"}]`}
	svc, _ := setupInsightService(t, completer)

	insights := svc.GenerateInsights(context.Background())

	// The health call receives the recommendations payload and is rejected
	assert.True(t, insights.Fallback)
	require.Len(t, insights.Recommendations, 1)
	assert.Equal(t, "id-2", insights.Recommendations[0].ID)
	assert.Equal(t, 80, insights.Health.Score)

	stored := svc.ledger.Snapshot().Recommendations
	require.Len(t, stored, 1)
	assert.Equal(t, "Automate transfers", stored[0].Description)
	assert.Equal(t, domain.SourceAI, stored[0].Source)
}

func TestInsightService_FallbackRecommendationsAreNotPersisted(t *testing.T) {
	svc, _ := setupInsightService(t, &scriptedCompleter{err: errors.New("upstream down")})

	insights := svc.GenerateInsights(context.Background())

	assert.True(t, insights.Fallback)
	require.Len(t, insights.Recommendations, 1)
	assert.Equal(t, "Error", insights.Recommendations[0].Type)
	assert.Empty(t, svc.ledger.Snapshot().Recommendations)
}

func TestInsightService_ConcurrentRequestsShareOneCompletion(t *testing.T) {
	completer := &scriptedCompleter{
		response: `{"summary":"ok","totalPotentialSavings":0,"opportunities":[]}`,
		delay:    100 * time.Millisecond,
	}
	svc, _ := setupInsightService(t, completer)

	var wg sync.WaitGroup
	results := make([]AIResult[ai.SpendingReport], 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = svc.AnalyzeSpending(context.Background())
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, completer.Calls())
	for _, r := range results {
		assert.False(t, r.Fallback)
		assert.Equal(t, "ok", r.Result.Summary)
	}
}

func TestInsightService_SharedCallSurvivesFirstCallerCancel(t *testing.T) {
	completer := &scriptedCompleter{
		response: `{"score":72,"summary":"steady","strengths":[],"concerns":[],"recommendations":[]}`,
		delay:    300 * time.Millisecond,
	}
	svc, _ := setupInsightService(t, completer)

	firstCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := make(chan AIResult[ai.HealthReport], 1)
	go func() { first <- svc.AnalyzeHealth(firstCtx) }()
	require.Eventually(t, func() bool { return completer.Calls() == 1 }, time.Second, 5*time.Millisecond)

	second := make(chan AIResult[ai.HealthReport], 1)
	go func() { second <- svc.AnalyzeHealth(context.Background()) }()
	time.Sleep(20 * time.Millisecond)
	cancel()

	got := <-second
	assert.False(t, got.Fallback)
	assert.Equal(t, 72, got.Result.Score)
	assert.Equal(t, "steady", (<-first).Result.Summary)
	assert.Equal(t, 1, completer.Calls())
}

func TestInsightService_Categorize(t *testing.T) {
	svc, _ := setupInsightService(t, ai.NewCompleter(ai.CompleterConfig{}))

	res := svc.Categorize(context.Background(), "Weekly groceries at the supermarket")

	assert.True(t, res.Fallback)
	assert.Equal(t, domain.CategoryFood, res.Result)
}

func TestInsightService_GoalRecommendations(t *testing.T) {
	completer := &scriptedCompleter{response: `[{"type":"Goal","description":"Raise the vacation contribution","impact":"Reach it two months early"}]`}
	svc, _ := setupInsightService(t, completer)

	res := svc.GoalRecommendations(context.Background())

	assert.False(t, res.Fallback)
	require.Len(t, res.Result, 1)
	assert.Len(t, svc.ledger.Snapshot().Recommendations, 1)
}

func TestInsightService_Ask(t *testing.T) {
	svc, _ := setupInsightService(t, &scriptedCompleter{response: "An index fund tracks a market index."})

	res := svc.Ask(context.Background(), "What is an index fund?")

	assert.False(t, res.Fallback)
	assert.Equal(t, "An index fund tracks a market index.", res.Result)
}
