package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Scenario is a what-if adjustment applied to a month's income and expense totals
type Scenario struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	IncomeChange  decimal.Decimal `json:"incomeChange"`
	ExpenseChange decimal.Decimal `json:"expenseChange"`
	CreatedAt     time.Time       `json:"createdAt"`
}

func (s *Scenario) Validate() error {
	if s.Name == "" {
		return ErrNameRequired
	}
	if len(s.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}

// ScenarioProjection is the outcome of applying a scenario to a month summary
type ScenarioProjection struct {
	ScenarioID           string          `json:"scenarioId"`
	Baseline             MonthSummary    `json:"baseline"`
	Projected            MonthSummary    `json:"projected"`
	MonthlySavingsChange decimal.Decimal `json:"monthlySavingsChange"`
	AnnualSavingsChange  decimal.Decimal `json:"annualSavingsChange"`
}
