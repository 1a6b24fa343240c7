package ai

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/ledger"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const defaultTimeout = 30 * time.Second

var (
	decimalTen    = decimal.NewFromInt(10)
	decimalTwenty = decimal.NewFromInt(20)
)

// Adapter turns ledger snapshots into prompts and model output into typed results.
// It never returns a completion error: every failure is logged and replaced by
// a fallback value, reported through the bool result.
type Adapter struct {
	completer Completer
	timeout   time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAdapter creates an adapter. A non-positive timeout uses the default.
func NewAdapter(completer Completer, timeout time.Duration, logger zerolog.Logger) *Adapter {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Adapter{
		completer: completer,
		timeout:   timeout,
		logger:    logger.With().Str("component", "ai_adapter").Logger(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Configured reports whether a completion service is available
func (a *Adapter) Configured() bool {
	return Configured(a.completer)
}

func (a *Adapter) complete(ctx context.Context, action, system, prompt string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	raw, err := a.completer.Complete(ctx, system, prompt)
	if err != nil {
		a.logger.Warn().
			Err(err).
			Str("action", action).
			Str("failure", string(Classify(err))).
			Dur("elapsed", time.Since(start)).
			Msg("AI completion failed, using fallback")
		return "", false
	}
	return raw, true
}

func (a *Adapter) rejected(action, reason string) {
	a.logger.Warn().
		Str("action", action).
		Str("failure", string(FailureUnknown)).
		Str("reason", reason).
		Msg("AI response rejected, using fallback")
}

func (a *Adapter) toRecommendations(items []RecommendationItem) []domain.Recommendation {
	now := a.now()
	out := make([]domain.Recommendation, len(items))
	for i, item := range items {
		out[i] = domain.Recommendation{
			Type:          item.Type,
			Description:   item.Description,
			Impact:        item.Impact,
			Source:        domain.SourceAI,
			DateGenerated: now,
		}
	}
	return out
}

func (a *Adapter) recommendationList(ctx context.Context, action, prompt string, fallback domain.Recommendation) ([]domain.Recommendation, bool) {
	fallback.Source = domain.SourceAI
	fallback.DateGenerated = a.now()

	raw, ok := a.complete(ctx, action, systemAdvisor, prompt)
	if !ok {
		return []domain.Recommendation{fallback}, true
	}
	res := Decode(raw, validateRecommendations)
	if !res.OK {
		a.rejected(action, res.Reason)
		return []domain.Recommendation{fallback}, true
	}
	return a.toRecommendations(res.Value), false
}

// Recommendations asks for general recommendations. On failure it returns a single
// record of type "Error".
func (a *Adapter) Recommendations(ctx context.Context, snap ledger.Snapshot) ([]domain.Recommendation, bool) {
	return a.recommendationList(ctx, "generate-insights", recommendationsPrompt(snap), domain.Recommendation{
		Type:        "Error",
		Description: "Unable to generate recommendations at this time.",
		Impact:      "Please try again later.",
	})
}

// GoalRecommendations asks for goal focused advice. On failure it returns a single
// record of type "General Advice".
func (a *Adapter) GoalRecommendations(ctx context.Context, snap ledger.Snapshot) ([]domain.Recommendation, bool) {
	return a.recommendationList(ctx, "goal-recommendations", goalRecommendationsPrompt(snap), domain.Recommendation{
		Type:        "General Advice",
		Description: "Review your goals monthly and direct any surplus to the one with the nearest target date.",
		Impact:      "Steady contributions keep every goal on track.",
	})
}

// PrioritizeGoals ranks goals. On failure goals are ranked by their own priority,
// then by target date.
func (a *Adapter) PrioritizeGoals(ctx context.Context, snap ledger.Snapshot) ([]GoalPriority, bool) {
	if len(snap.Goals) == 0 {
		return []GoalPriority{}, false
	}

	raw, ok := a.complete(ctx, "prioritize-goals", systemAdvisor, prioritizeGoalsPrompt(snap))
	if ok {
		res := Decode(raw, validatePriorities)
		if res.OK {
			sort.SliceStable(res.Value, func(i, j int) bool { return res.Value[i].Priority < res.Value[j].Priority })
			return res.Value, false
		}
		a.rejected("prioritize-goals", res.Reason)
	}
	return localPriorities(snap.Goals), true
}

func localPriorities(goals []domain.Goal) []GoalPriority {
	ordered := append([]domain.Goal(nil), goals...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Priority != ordered[j].Priority {
			return ordered[i].Priority > ordered[j].Priority
		}
		if ordered[i].TargetDate.IsZero() != ordered[j].TargetDate.IsZero() {
			return !ordered[i].TargetDate.IsZero()
		}
		return ordered[i].TargetDate.Before(ordered[j].TargetDate)
	})

	out := make([]GoalPriority, len(ordered))
	for i, g := range ordered {
		out[i] = GoalPriority{
			GoalID:    g.ID,
			Name:      g.Name,
			Priority:  i + 1,
			Reasoning: "Ordered by your assigned priority and target date.",
		}
	}
	return out
}

// AnalyzeSpending looks for spending reductions
func (a *Adapter) AnalyzeSpending(ctx context.Context, snap ledger.Snapshot) (SpendingReport, bool) {
	raw, ok := a.complete(ctx, "analyze-spending", systemAdvisor, analyzeSpendingPrompt(snap))
	if ok {
		res := Decode(raw, validateSpending)
		if res.OK {
			if res.Value.Opportunities == nil {
				res.Value.Opportunities = []SpendingOpportunity{}
			}
			return res.Value, false
		}
		a.rejected("analyze-spending", res.Reason)
	}
	return SpendingReport{
		Summary:       "Spending analysis is unavailable right now. Please try again later.",
		Opportunities: []SpendingOpportunity{},
	}, true
}

// AnalyzeHealth assesses overall financial health. On failure a score is derived
// from the savings rate alone.
func (a *Adapter) AnalyzeHealth(ctx context.Context, snap ledger.Snapshot) (HealthReport, bool) {
	raw, ok := a.complete(ctx, "analyze-health", systemAdvisor, analyzeHealthPrompt(snap))
	if ok {
		res := Decode(raw, validateHealth)
		if res.OK {
			return res.Value, false
		}
		a.rejected("analyze-health", res.Reason)
	}

	rate := snap.ActiveSummary().SavingsRate
	score := 20
	switch {
	case rate.GreaterThanOrEqual(decimalTwenty):
		score = 80
	case rate.GreaterThanOrEqual(decimalTen):
		score = 60
	case rate.IsPositive():
		score = 40
	}
	return HealthReport{
		Score:           score,
		Summary:         "Detailed analysis is unavailable right now. This score reflects your savings rate only.",
		Strengths:       []string{},
		Concerns:        []string{},
		Recommendations: []string{},
	}, true
}

// Categorize classifies an expense description, falling back to keyword matching
func (a *Adapter) Categorize(ctx context.Context, description string) (domain.ExpenseCategory, bool) {
	if strings.TrimSpace(description) == "" {
		return domain.CategoryMiscellaneous, false
	}
	raw, ok := a.complete(ctx, "categorize", systemAdvisor, categorizePrompt(description))
	if ok {
		res := Decode(raw, validateCategory)
		if res.OK {
			return domain.ExpenseCategory(res.Value.Category), false
		}
		a.rejected("categorize", res.Reason)
	}
	return ledger.CategorizeExpense(description), true
}

// Ask answers a free-text finance question
func (a *Adapter) Ask(ctx context.Context, snap ledger.Snapshot, question string) (string, bool) {
	raw, ok := a.complete(ctx, "knowledge-ask", systemKnowledge, askPrompt(snap, question))
	if !ok {
		return "I'm unable to answer right now. Please try again later.", true
	}
	return raw, false
}
