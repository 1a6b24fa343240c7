package ai

import (
	"errors"
	"fmt"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// RecommendationItem is one recommendation as returned by the model
type RecommendationItem struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
}

// GoalPriority is the suggested rank of one goal
type GoalPriority struct {
	GoalID    string `json:"goalId"`
	Name      string `json:"name"`
	Priority  int    `json:"priority"`
	Reasoning string `json:"reasoning"`
}

// SpendingOpportunity is one place the user could spend less
type SpendingOpportunity struct {
	Category         string          `json:"category"`
	CurrentSpending  decimal.Decimal `json:"currentSpending"`
	PotentialSavings decimal.Decimal `json:"potentialSavings"`
	Suggestion       string          `json:"suggestion"`
}

// SpendingReport is the spending optimization analysis of a month
type SpendingReport struct {
	Summary               string                `json:"summary"`
	Opportunities         []SpendingOpportunity `json:"opportunities"`
	TotalPotentialSavings decimal.Decimal       `json:"totalPotentialSavings"`
}

// HealthReport is an overall assessment of the user's finances
type HealthReport struct {
	Score           int      `json:"score"`
	Summary         string   `json:"summary"`
	Strengths       []string `json:"strengths"`
	Concerns        []string `json:"concerns"`
	Recommendations []string `json:"recommendations"`
}

type categoryAnswer struct {
	Category string `json:"category"`
}

var errEmptyList = errors.New("empty list")

func validateRecommendations(items []RecommendationItem) error {
	if len(items) == 0 {
		return errEmptyList
	}
	for i, item := range items {
		if item.Type == "" || item.Description == "" {
			return fmt.Errorf("item %d: type and description are required", i)
		}
	}
	return nil
}

func validatePriorities(items []GoalPriority) error {
	if len(items) == 0 {
		return errEmptyList
	}
	for i, item := range items {
		if item.GoalID == "" && item.Name == "" {
			return fmt.Errorf("item %d: goal is not identified", i)
		}
	}
	return nil
}

func validateSpending(r SpendingReport) error {
	if r.Summary == "" {
		return errors.New("summary is required")
	}
	for i, o := range r.Opportunities {
		if o.Category == "" || o.PotentialSavings.IsNegative() {
			return fmt.Errorf("opportunity %d is invalid", i)
		}
	}
	return nil
}

func validateHealth(r HealthReport) error {
	if r.Score < 0 || r.Score > 100 {
		return fmt.Errorf("score %d out of range", r.Score)
	}
	if r.Summary == "" {
		return errors.New("summary is required")
	}
	return nil
}

func validateCategory(a categoryAnswer) error {
	if !domain.ExpenseCategory(a.Category).IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidCategory, a.Category)
	}
	return nil
}
