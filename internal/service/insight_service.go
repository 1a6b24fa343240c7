package service

import (
	"context"
	"strings"

	"github.com/dafibh/fintrack/fintrack-backend/internal/ai"
	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/ledger"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// InsightLedger is the part of the ledger the insight service reads and appends to
type InsightLedger interface {
	Snapshot() ledger.Snapshot
	AddRecommendations(ctx context.Context, recs []domain.Recommendation) []domain.Recommendation
}

// AIResult wraps an AI outcome with whether it is a fallback value
type AIResult[T any] struct {
	Result   T    `json:"result"`
	Fallback bool `json:"fallback"`
}

// Insights is the combined result of generate-insights
type Insights struct {
	Recommendations []domain.Recommendation `json:"recommendations"`
	Health          ai.HealthReport         `json:"health"`
	Fallback        bool                    `json:"fallback"`
}

// InsightService runs AI actions against ledger snapshots. Concurrent requests
// for the same action share one completion; different actions run independently.
type InsightService struct {
	ledger  InsightLedger
	adapter *ai.Adapter
	group   singleflight.Group
	logger  zerolog.Logger
}

func NewInsightService(l InsightLedger, adapter *ai.Adapter, logger zerolog.Logger) *InsightService {
	return &InsightService{
		ledger:  l,
		adapter: adapter,
		logger:  logger.With().Str("component", "insight_service").Logger(),
	}
}

// coalesce runs fn once for all concurrent callers sharing key. fn gets a context
// detached from the caller that started it, so one client going away does not fail
// the others; the adapter bounds every completion with its own timeout.
func coalesce[T any](ctx context.Context, g *singleflight.Group, key string, fn func(ctx context.Context) T) T {
	shared := context.WithoutCancel(ctx)
	v, _, _ := g.Do(key, func() (interface{}, error) {
		return fn(shared), nil
	})
	return v.(T)
}

// GenerateInsights asks for recommendations and a health report in parallel. Recommendations
// that are not fallbacks are appended to the ledger.
func (s *InsightService) GenerateInsights(ctx context.Context) Insights {
	return coalesce(ctx, &s.group, "generate-insights", func(ctx context.Context) Insights {
		snap := s.ledger.Snapshot()

		var (
			recs         []domain.Recommendation
			recsFallback bool
			health       ai.HealthReport
			healthFb     bool
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			recs, recsFallback = s.adapter.Recommendations(gctx, snap)
			return nil
		})
		g.Go(func() error {
			health, healthFb = s.adapter.AnalyzeHealth(gctx, snap)
			return nil
		})
		_ = g.Wait()

		if !recsFallback {
			recs = s.ledger.AddRecommendations(ctx, recs)
		}
		s.logger.Info().
			Int("recommendations", len(recs)).
			Bool("fallback", recsFallback || healthFb).
			Msg("Generated insights")

		return Insights{Recommendations: recs, Health: health, Fallback: recsFallback || healthFb}
	})
}

// GoalRecommendations asks for goal advice and appends it to the ledger
func (s *InsightService) GoalRecommendations(ctx context.Context) AIResult[[]domain.Recommendation] {
	return coalesce(ctx, &s.group, "goal-recommendations", func(ctx context.Context) AIResult[[]domain.Recommendation] {
		recs, fallback := s.adapter.GoalRecommendations(ctx, s.ledger.Snapshot())
		if !fallback {
			recs = s.ledger.AddRecommendations(ctx, recs)
		}
		return AIResult[[]domain.Recommendation]{Result: recs, Fallback: fallback}
	})
}

func (s *InsightService) PrioritizeGoals(ctx context.Context) AIResult[[]ai.GoalPriority] {
	return coalesce(ctx, &s.group, "prioritize-goals", func(ctx context.Context) AIResult[[]ai.GoalPriority] {
		v, fallback := s.adapter.PrioritizeGoals(ctx, s.ledger.Snapshot())
		return AIResult[[]ai.GoalPriority]{Result: v, Fallback: fallback}
	})
}

func (s *InsightService) AnalyzeSpending(ctx context.Context) AIResult[ai.SpendingReport] {
	return coalesce(ctx, &s.group, "analyze-spending", func(ctx context.Context) AIResult[ai.SpendingReport] {
		v, fallback := s.adapter.AnalyzeSpending(ctx, s.ledger.Snapshot())
		return AIResult[ai.SpendingReport]{Result: v, Fallback: fallback}
	})
}

func (s *InsightService) AnalyzeHealth(ctx context.Context) AIResult[ai.HealthReport] {
	return coalesce(ctx, &s.group, "analyze-health", func(ctx context.Context) AIResult[ai.HealthReport] {
		v, fallback := s.adapter.AnalyzeHealth(ctx, s.ledger.Snapshot())
		return AIResult[ai.HealthReport]{Result: v, Fallback: fallback}
	})
}

func (s *InsightService) Categorize(ctx context.Context, description string) AIResult[domain.ExpenseCategory] {
	key := "categorize:" + strings.ToLower(strings.TrimSpace(description))
	return coalesce(ctx, &s.group, key, func(ctx context.Context) AIResult[domain.ExpenseCategory] {
		v, fallback := s.adapter.Categorize(ctx, description)
		return AIResult[domain.ExpenseCategory]{Result: v, Fallback: fallback}
	})
}

func (s *InsightService) Ask(ctx context.Context, question string) AIResult[string] {
	key := "ask:" + strings.TrimSpace(question)
	return coalesce(ctx, &s.group, key, func(ctx context.Context) AIResult[string] {
		v, fallback := s.adapter.Ask(ctx, s.ledger.Snapshot(), question)
		return AIResult[string]{Result: v, Fallback: fallback}
	})
}
