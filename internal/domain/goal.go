package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoalType distinguishes savings goals from debt payoff goals
type GoalType string

const (
	GoalTypeSaving     GoalType = "Saving"
	GoalTypeDebtPayoff GoalType = "DebtPayoff"
)

// Goal is a savings or payoff target shared across all months.
// MonthlyProgress is keyed by YYYY-MM month id.
type Goal struct {
	ID               string                     `json:"id"`
	Type             GoalType                   `json:"type"`
	Name             string                     `json:"name"`
	TargetAmount     decimal.Decimal            `json:"targetAmount"`
	TargetDate       time.Time                  `json:"targetDate"`
	Description      string                     `json:"description"`
	Priority         int                        `json:"priority"`
	AssociatedDebtID string                     `json:"associatedDebtId,omitempty"`
	MonthlyProgress  map[string]decimal.Decimal `json:"monthlyProgress"`
}

func (g *Goal) Validate() error {
	if g.Name == "" {
		return ErrNameRequired
	}
	if len(g.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if g.Type != GoalTypeSaving && g.Type != GoalTypeDebtPayoff {
		return ErrInvalidCategory
	}
	if !g.TargetAmount.IsPositive() {
		return ErrInvalidAmount
	}
	if g.Priority < 0 || g.Priority > MaxPriority {
		return ErrInvalidPriority
	}
	for _, amount := range g.MonthlyProgress {
		if amount.IsNegative() {
			return ErrNegativeAmount
		}
	}
	return nil
}

// TotalProgress sums monthly progress. The sum is not capped at TargetAmount.
func (g *Goal) TotalProgress() decimal.Decimal {
	total := decimal.Zero
	for _, amount := range g.MonthlyProgress {
		total = total.Add(amount)
	}
	return total
}

// ProgressPercent returns total progress as a percentage of the target, uncapped
func (g *Goal) ProgressPercent() decimal.Decimal {
	if !g.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	return g.TotalProgress().Div(g.TargetAmount).Mul(decimal.NewFromInt(100)).Round(2)
}

// Clone returns a deep copy of the goal
func (g Goal) Clone() Goal {
	g.MonthlyProgress = cloneAmounts(g.MonthlyProgress)
	return g
}
