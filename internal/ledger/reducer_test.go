package ledger

import (
	"testing"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	incomes := []domain.Income{{Amount: dec("3000")}, {Amount: dec("1000")}}
	expenses := []domain.Expense{{Amount: dec("1000")}, {Amount: dec("500")}}

	summary := Summarize("2024-01", incomes, expenses)

	assert.True(t, dec("4000").Equal(summary.TotalIncome))
	assert.True(t, dec("1500").Equal(summary.TotalExpenses))
	assert.True(t, dec("2500").Equal(summary.NetCashflow))
	assert.True(t, dec("62.5").Equal(summary.SavingsRate))
}

func TestRecomputeBudgets(t *testing.T) {
	budgets := []domain.Budget{
		{Category: domain.CategoryFood, Limit: dec("200"), Spent: dec("999")},
		{Category: domain.CategoryHousing, Limit: dec("1000")},
	}
	expenses := []domain.Expense{
		{Category: domain.CategoryFood, Amount: dec("20")},
		{Category: domain.CategoryFood, Amount: dec("30.5")},
		{Category: domain.CategoryEntertainment, Amount: dec("15")},
	}

	got := RecomputeBudgets(budgets, expenses)

	assert.True(t, dec("50.5").Equal(got[0].Spent))
	assert.True(t, got[1].Spent.IsZero())
	assert.True(t, dec("999").Equal(budgets[0].Spent), "input is not modified")
}

func TestCompare_NoPreviousData(t *testing.T) {
	current := Summarize("2024-01", []domain.Income{{Amount: dec("100")}}, nil)
	cmp := Compare(current, domain.MonthSummary{MonthID: "2023-12"}, false)

	assert.Equal(t, "2023-12", cmp.PreviousMonthID)
	assert.True(t, cmp.IncomeChange.IsZero())
	assert.True(t, cmp.ExpenseChange.IsZero())
	assert.True(t, cmp.SavingsChange.IsZero())
}

func TestBudgetAlerts(t *testing.T) {
	now := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	budgets := []domain.Budget{
		{Category: domain.CategoryFood, Limit: dec("100"), Spent: dec("80")},
		{Category: domain.CategoryHousing, Limit: dec("1000"), Spent: dec("1200")},
		{Category: domain.CategoryGifts, Limit: decimal.Zero, Spent: dec("50")},
		{Category: domain.CategoryClothing, Limit: dec("100"), Spent: dec("10")},
	}

	alerts := BudgetAlerts("2024-01", budgets, 80, "USD", now)

	require.Len(t, alerts, 2)
	assert.Equal(t, domain.AlertTypeBudgetWarning, alerts[0].Type)
	assert.Equal(t, "budget_warning:2024-01:Food", alerts[0].Key)
	assert.Contains(t, alerts[0].Message, "80%")
	assert.Equal(t, domain.AlertTypeBudgetExceeded, alerts[1].Type)
	assert.Contains(t, alerts[1].Message, "$1,200.00")
	assert.Equal(t, now, alerts[1].Date)
}

func TestApplyScenario_ZeroIncome(t *testing.T) {
	baseline := Summarize("2024-01", nil, []domain.Expense{{Amount: dec("100")}})
	proj := ApplyScenario(domain.Scenario{ID: "s1", ExpenseChange: dec("50")}, baseline)

	assert.True(t, proj.Projected.SavingsRate.IsZero())
	assert.True(t, dec("-150").Equal(proj.Projected.NetCashflow))
	assert.True(t, dec("-50").Equal(proj.MonthlySavingsChange))
}

func TestRuleRecommendations(t *testing.T) {
	now := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	summary := Summarize("2024-01", []domain.Income{{Amount: dec("4000")}}, []domain.Expense{{Amount: dec("1000")}})
	budgets := []domain.Budget{{Category: domain.CategoryFood, Limit: dec("300"), Spent: dec("350")}}
	debts := []domain.Debt{
		{Name: "Card", Balance: dec("1200"), InterestRate: dec("19.9")},
		{Name: "Mortgage", Balance: dec("90000"), InterestRate: dec("4")},
	}
	goals := []domain.Goal{{
		Name:            "Vacation",
		TargetAmount:    dec("1200"),
		TargetDate:      time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		MonthlyProgress: map[string]decimal.Decimal{"2024-01": dec("600")},
	}}

	recs := RuleRecommendations(summary, budgets, debts, goals, "USD", now)

	require.Len(t, recs, 3)
	assert.Equal(t, "Budget", recs[0].Type)
	assert.Contains(t, recs[0].Description, "$50.00")
	assert.Equal(t, "Debt", recs[1].Type)
	assert.Contains(t, recs[1].Description, "Card")
	assert.Equal(t, "Goal", recs[2].Type)
	assert.Contains(t, recs[2].Description, "$100.00")
	for _, r := range recs {
		assert.Equal(t, domain.SourceRule, r.Source)
	}
}
