package ledger

import (
	"fmt"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/calc"
	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/util"
	"github.com/shopspring/decimal"
)

const (
	defaultWarningThreshold = 80
	targetSavingsRate       = 20
	highInterestRate        = 15
)

var hundred = decimal.NewFromInt(100)

// Summarize computes the derived cashflow values of one month
func Summarize(monthID string, incomes []domain.Income, expenses []domain.Expense) domain.MonthSummary {
	totalIncome := decimal.Zero
	for _, i := range incomes {
		totalIncome = totalIncome.Add(i.Amount)
	}
	totalExpenses := decimal.Zero
	for _, e := range expenses {
		totalExpenses = totalExpenses.Add(e.Amount)
	}

	net := totalIncome.Sub(totalExpenses)
	rate := decimal.Zero
	if !totalIncome.IsZero() {
		rate = net.Div(totalIncome).Mul(hundred).Round(2)
	}

	return domain.MonthSummary{
		MonthID:       monthID,
		TotalIncome:   totalIncome,
		TotalExpenses: totalExpenses,
		NetCashflow:   net,
		SavingsRate:   rate,
	}
}

// RecomputeBudgets returns budgets with Spent set to the sum of the expenses in
// the same category
func RecomputeBudgets(budgets []domain.Budget, expenses []domain.Expense) []domain.Budget {
	spent := make(map[domain.ExpenseCategory]decimal.Decimal)
	for _, e := range expenses {
		spent[e.Category] = spent[e.Category].Add(e.Amount)
	}

	out := make([]domain.Budget, len(budgets))
	for i, b := range budgets {
		b.Spent = spent[b.Category]
		out[i] = b
	}
	return out
}

// SeedBudgets copies budget limits into a new month with Spent reset to zero
func SeedBudgets(previous []domain.Budget) []domain.Budget {
	out := make([]domain.Budget, len(previous))
	for i, b := range previous {
		out[i] = domain.Budget{Category: b.Category, Limit: b.Limit, Spent: decimal.Zero}
	}
	return out
}

// Compare returns the deltas of current versus previous. When the previous month
// has no recorded data every delta is zero.
func Compare(current, previous domain.MonthSummary, previousHasData bool) domain.MonthComparison {
	cmp := domain.MonthComparison{
		MonthID:         current.MonthID,
		PreviousMonthID: previous.MonthID,
		IncomeChange:    decimal.Zero,
		ExpenseChange:   decimal.Zero,
		SavingsChange:   decimal.Zero,
	}
	if !previousHasData {
		return cmp
	}
	cmp.IncomeChange = current.TotalIncome.Sub(previous.TotalIncome)
	cmp.ExpenseChange = current.TotalExpenses.Sub(previous.TotalExpenses)
	cmp.SavingsChange = current.NetCashflow.Sub(previous.NetCashflow)
	return cmp
}

// ApplyScenario projects a month summary with the scenario's income and expense deltas
func ApplyScenario(s domain.Scenario, baseline domain.MonthSummary) domain.ScenarioProjection {
	income := baseline.TotalIncome.Add(s.IncomeChange)
	expenses := baseline.TotalExpenses.Add(s.ExpenseChange)
	net := income.Sub(expenses)
	rate := decimal.Zero
	if income.IsPositive() {
		rate = net.Div(income).Mul(hundred).Round(2)
	}

	projected := domain.MonthSummary{
		MonthID:       baseline.MonthID,
		TotalIncome:   income,
		TotalExpenses: expenses,
		NetCashflow:   net,
		SavingsRate:   rate,
	}
	change := net.Sub(baseline.NetCashflow)

	return domain.ScenarioProjection{
		ScenarioID:           s.ID,
		Baseline:             baseline,
		Projected:            projected,
		MonthlySavingsChange: change,
		AnnualSavingsChange:  change.Mul(decimal.NewFromInt(12)),
	}
}

// budgetAlertKey identifies the condition an alert was raised for
func budgetAlertKey(monthID string, category domain.ExpenseCategory, alertType string) string {
	return fmt.Sprintf("%s:%s:%s", alertType, monthID, category)
}

// BudgetAlerts returns an alert for every budget whose spending reached
// thresholdPercent of its limit. Budgets without a limit are skipped.
func BudgetAlerts(monthID string, budgets []domain.Budget, thresholdPercent int, currency string, now time.Time) []domain.Alert {
	if thresholdPercent <= 0 {
		thresholdPercent = defaultWarningThreshold
	}
	threshold := decimal.NewFromInt(int64(thresholdPercent)).Div(hundred)

	var alerts []domain.Alert
	for _, b := range budgets {
		// a zero limit means the category is tracked without a cap
		if !b.Limit.IsPositive() {
			continue
		}
		if b.Spent.LessThan(b.Limit.Mul(threshold)) {
			continue
		}

		alert := domain.Alert{Date: now}
		if b.Spent.GreaterThanOrEqual(b.Limit) {
			alert.Type = domain.AlertTypeBudgetExceeded
			alert.Message = fmt.Sprintf("You have reached your %s budget for %s: %s spent of %s.",
				b.Category, util.MonthName(monthID),
				util.FormatCurrency(b.Spent, currency), util.FormatCurrency(b.Limit, currency))
		} else {
			alert.Type = domain.AlertTypeBudgetWarning
			alert.Message = fmt.Sprintf("You have used %s%% of your %s budget for %s.",
				b.Utilization().Round(0).String(), b.Category, util.MonthName(monthID))
		}
		alert.Key = budgetAlertKey(monthID, b.Category, alert.Type)
		alerts = append(alerts, alert)
	}
	return alerts
}

// UpcomingPaymentAlerts returns an alert for every unpaid debt due within days of now
func UpcomingPaymentAlerts(debts []domain.Debt, days int, currency string, now time.Time) []domain.Alert {
	if days <= 0 {
		return nil
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	horizon := today.AddDate(0, 0, days)

	var alerts []domain.Alert
	for _, d := range debts {
		if d.IsPaidOff || d.DueDate.IsZero() {
			continue
		}
		due := util.NextDueDate(d.DueDate, now)
		if due.After(horizon) {
			continue
		}
		alerts = append(alerts, domain.Alert{
			Type: domain.AlertTypePaymentDue,
			Message: fmt.Sprintf("Payment of %s for %s is due on %s.",
				util.FormatCurrency(d.MinimumPayment, currency), d.Name, util.FormatDate(due)),
			Date: now,
			Key:  fmt.Sprintf("%s:%s:%s", domain.AlertTypePaymentDue, d.ID, util.FormatISODate(due)),
		})
	}
	return alerts
}

// LowBalanceAlert returns an alert when the month's net cashflow is below threshold
func LowBalanceAlert(summary domain.MonthSummary, threshold decimal.Decimal, currency string, now time.Time) (domain.Alert, bool) {
	if summary.TotalIncome.IsZero() && summary.TotalExpenses.IsZero() {
		return domain.Alert{}, false
	}
	if !summary.NetCashflow.LessThan(threshold) {
		return domain.Alert{}, false
	}
	return domain.Alert{
		Type: domain.AlertTypeLowBalance,
		Message: fmt.Sprintf("Your remaining cashflow for %s is %s, below your %s threshold.",
			util.MonthName(summary.MonthID),
			util.FormatCurrency(summary.NetCashflow, currency), util.FormatCurrency(threshold, currency)),
		Date: now,
		Key:  fmt.Sprintf("%s:%s", domain.AlertTypeLowBalance, summary.MonthID),
	}, true
}

// RuleRecommendations derives advisory records from the ledger with fixed heuristics
func RuleRecommendations(summary domain.MonthSummary, budgets []domain.Budget, debts []domain.Debt, goals []domain.Goal, currency string, now time.Time) []domain.Recommendation {
	var recs []domain.Recommendation
	add := func(kind, description, impact string) {
		recs = append(recs, domain.Recommendation{
			Type:          kind,
			Description:   description,
			Impact:        impact,
			Source:        domain.SourceRule,
			DateGenerated: now,
		})
	}

	if summary.TotalIncome.IsPositive() && summary.SavingsRate.LessThan(decimal.NewFromInt(targetSavingsRate)) {
		target := summary.TotalIncome.Mul(decimal.NewFromInt(targetSavingsRate)).Div(hundred)
		add("Savings",
			fmt.Sprintf("Your savings rate is %s%%. Aim to save at least %d%% of your income.", summary.SavingsRate.StringFixed(1), targetSavingsRate),
			fmt.Sprintf("Saving %d%% would set aside %s each month.", targetSavingsRate, util.FormatCurrency(target, currency)))
	}

	for _, b := range budgets {
		if b.Limit.IsPositive() && b.Spent.GreaterThan(b.Limit) {
			add("Budget",
				fmt.Sprintf("You are over your %s budget by %s.", b.Category, util.FormatCurrency(b.Spent.Sub(b.Limit), currency)),
				fmt.Sprintf("Bringing %s back under %s keeps the month on plan.", b.Category, util.FormatCurrency(b.Limit, currency)))
		}
	}

	for _, d := range debts {
		if d.IsPaidOff || d.InterestRate.LessThan(decimal.NewFromInt(highInterestRate)) {
			continue
		}
		interest := d.Balance.Mul(calc.MonthlyRate(d.InterestRate))
		add("Debt",
			fmt.Sprintf("Prioritize paying down %s at %s%% interest.", d.Name, d.InterestRate.StringFixed(1)),
			fmt.Sprintf("It costs about %s in interest each month.", util.FormatCurrency(interest, currency)))
	}

	currentMonth := util.MonthIDFromTime(now)
	for _, g := range goals {
		remaining := g.TargetAmount.Sub(g.TotalProgress())
		if !remaining.IsPositive() || g.TargetDate.IsZero() {
			continue
		}
		start, _ := util.MonthStart(currentMonth)
		monthsLeft := util.MonthsBetween(start, g.TargetDate)
		if monthsLeft < 1 {
			monthsLeft = 1
		}
		perMonth := remaining.Div(decimal.NewFromInt(int64(monthsLeft)))
		add("Goal",
			fmt.Sprintf("Set aside %s per month to reach %s by %s.", util.FormatCurrency(perMonth, currency), g.Name, g.TargetDate.Format("Jan 2006")),
			fmt.Sprintf("%s remaining toward the target.", util.FormatCurrency(remaining, currency)))
	}

	return recs
}
