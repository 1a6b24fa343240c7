package ai

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/ledger"
	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	response string
	err      error
	block    bool
	calls    int
	prompts  []string
}

func (f *fakeCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.response, f.err
}

func newTestAdapter(c Completer) *Adapter {
	a := NewAdapter(c, 50*time.Millisecond, zerolog.Nop())
	a.now = func() time.Time { return time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC) }
	return a
}

func testSnapshot() ledger.Snapshot {
	return ledger.Snapshot{
		Profile:     domain.DefaultUserProfile(),
		ActiveMonth: "2024-01",
		Incomes: map[string][]domain.Income{
			"2024-01": {{Amount: decimal.NewFromInt(4000), Type: domain.IncomeTypeSalary}},
		},
		Expenses: map[string][]domain.Expense{
			"2024-01": {
				{Amount: decimal.NewFromInt(1500), Category: domain.CategoryHousing},
				{Amount: decimal.NewFromInt(300), Category: domain.CategoryFood},
			},
		},
		Goals: []domain.Goal{
			{ID: "g1", Name: "Vacation", Priority: 2, TargetAmount: decimal.NewFromInt(2000)},
			{ID: "g2", Name: "Emergency fund", Priority: 8, TargetAmount: decimal.NewFromInt(5000)},
		},
	}
}

func TestAdapter_RecommendationsTimeoutFallsBack(t *testing.T) {
	a := newTestAdapter(&fakeCompleter{block: true})

	recs, fallback := a.Recommendations(context.Background(), testSnapshot())

	assert.True(t, fallback)
	require.Len(t, recs, 1)
	assert.Equal(t, "Error", recs[0].Type)
	assert.Equal(t, domain.SourceAI, recs[0].Source)
}

func TestAdapter_RecommendationsFromFencedJSON(t *testing.T) {
	fake := &fakeCompleter{response: "Here you go:\n```json\n[{\"type\":\"Savings\",\"description\":\"Save more\",\"impact\":\"High\"}]\n```"}
	a := newTestAdapter(fake)

	recs, fallback := a.Recommendations(context.Background(), testSnapshot())

	assert.False(t, fallback)
	require.Len(t, recs, 1)
	assert.Equal(t, "Savings", recs[0].Type)
	assert.Equal(t, "Save more", recs[0].Description)
	assert.Equal(t, domain.SourceAI, recs[0].Source)
	require.Len(t, fake.prompts, 1)
	assert.Contains(t, fake.prompts[0], "Savings rate: 55.0%")
}

func TestAdapter_RecommendationsRejectsInvalidShape(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{name: "prose only", response: "I cannot help with that."},
		{name: "empty array", response: "[]"},
		{name: "missing description", response: `[{"type":"Debt"}]`},
		{name: "wrong types", response: `[{"type":1,"description":true}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAdapter(&fakeCompleter{response: tt.response})

			recs, fallback := a.GoalRecommendations(context.Background(), testSnapshot())

			assert.True(t, fallback)
			require.Len(t, recs, 1)
			assert.Equal(t, "General Advice", recs[0].Type)
		})
	}
}

func TestAdapter_NotConfigured(t *testing.T) {
	a := newTestAdapter(NewCompleter(CompleterConfig{}))
	assert.False(t, a.Configured())

	recs, fallback := a.Recommendations(context.Background(), testSnapshot())
	assert.True(t, fallback)
	assert.Equal(t, "Error", recs[0].Type)

	answer, fallback := a.Ask(context.Background(), testSnapshot(), "What is an index fund?")
	assert.True(t, fallback)
	assert.NotEmpty(t, answer)
}

func TestAdapter_PrioritizeGoals(t *testing.T) {
	t.Run("model ranking sorted by priority", func(t *testing.T) {
		a := newTestAdapter(&fakeCompleter{response: `[{"goalId":"g1","name":"Vacation","priority":2,"reasoning":"later"},{"goalId":"g2","name":"Emergency fund","priority":1,"reasoning":"safety"}]`})

		got, fallback := a.PrioritizeGoals(context.Background(), testSnapshot())

		assert.False(t, fallback)
		require.Len(t, got, 2)
		assert.Equal(t, "g2", got[0].GoalID)
	})

	t.Run("fallback uses assigned priority", func(t *testing.T) {
		a := newTestAdapter(&fakeCompleter{err: errors.New("boom")})

		got, fallback := a.PrioritizeGoals(context.Background(), testSnapshot())

		assert.True(t, fallback)
		require.Len(t, got, 2)
		assert.Equal(t, "g2", got[0].GoalID)
		assert.Equal(t, 1, got[0].Priority)
		assert.Equal(t, 2, got[1].Priority)
	})
}

func TestAdapter_Categorize(t *testing.T) {
	a := newTestAdapter(&fakeCompleter{response: `{"category":"Entertainment"}`})
	category, fallback := a.Categorize(context.Background(), "concert tickets")
	assert.False(t, fallback)
	assert.Equal(t, domain.CategoryEntertainment, category)

	a = newTestAdapter(&fakeCompleter{response: `{"category":"Yachts"}`})
	category, fallback = a.Categorize(context.Background(), "Monthly rent payment")
	assert.True(t, fallback)
	assert.Equal(t, domain.CategoryHousing, category)
}

func TestAdapter_AnalyzeHealthFallback(t *testing.T) {
	a := newTestAdapter(&fakeCompleter{response: `{"score":140,"summary":"great"}`})

	report, fallback := a.AnalyzeHealth(context.Background(), testSnapshot())

	assert.True(t, fallback)
	assert.Equal(t, 80, report.Score)
}

func TestAdapter_AnalyzeSpending(t *testing.T) {
	a := newTestAdapter(&fakeCompleter{response: `{"summary":"Housing is high","totalPotentialSavings":150,"opportunities":[{"category":"Food","currentSpending":300,"potentialSavings":50,"suggestion":"Cook at home"}]}`})

	report, fallback := a.AnalyzeSpending(context.Background(), testSnapshot())

	assert.False(t, fallback)
	require.Len(t, report.Opportunities, 1)
	assert.True(t, decimal.NewFromInt(50).Equal(report.Opportunities[0].PotentialSavings))
	assert.True(t, decimal.NewFromInt(150).Equal(report.TotalPotentialSavings))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureKind
	}{
		{name: "not configured", err: ErrNotConfigured, want: FailureConfig},
		{name: "unauthorized", err: &openai.APIError{HTTPStatusCode: http.StatusUnauthorized}, want: FailureConfig},
		{name: "rate limited", err: &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests}, want: FailureRateLimit},
		{name: "quota", err: &openai.APIError{HTTPStatusCode: http.StatusBadRequest, Code: "insufficient_quota"}, want: FailureRateLimit},
		{name: "request error", err: &openai.RequestError{HTTPStatusCode: http.StatusForbidden, Err: errors.New("forbidden")}, want: FailureConfig},
		{name: "timeout", err: context.DeadlineExceeded, want: FailureUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestDecode(t *testing.T) {
	res := Decode[[]RecommendationItem]("Sure! [{\"type\":\"A\",\"description\":\"B\",\"impact\":\"C\"}] Hope this helps.", validateRecommendations)
	require.True(t, res.OK)
	assert.Equal(t, "A", res.Value[0].Type)

	bad := Decode[categoryAnswer](`{"category":`, validateCategory)
	assert.False(t, bad.OK)
	assert.Contains(t, bad.Reason, "malformed JSON")
}
