package ai

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/ledger"
	"github.com/dafibh/fintrack/fintrack-backend/internal/util"
	"github.com/shopspring/decimal"
)

const systemAdvisor = "You are a careful personal finance advisor. Answer only with the JSON requested, without commentary."

const systemKnowledge = "You are a personal finance educator. Answer clearly in plain prose, in under 200 words."

// describeLedger renders the parts of a snapshot every prompt shares
func describeLedger(snap ledger.Snapshot) string {
	currency := snap.Profile.PreferredCurrency
	money := func(v interface{ String() string }) string { return v.String() + " " + currency }
	summary := snap.ActiveSummary()

	var b strings.Builder
	fmt.Fprintf(&b, "Month: %s\n", util.MonthName(snap.ActiveMonth))
	fmt.Fprintf(&b, "Total income: %s\n", money(summary.TotalIncome))
	fmt.Fprintf(&b, "Total expenses: %s\n", money(summary.TotalExpenses))
	fmt.Fprintf(&b, "Net cashflow: %s\n", money(summary.NetCashflow))
	fmt.Fprintf(&b, "Savings rate: %s%%\n", summary.SavingsRate.StringFixed(1))

	if budgets := snap.Budgets[snap.ActiveMonth]; len(budgets) > 0 {
		b.WriteString("Budgets:\n")
		for _, bud := range budgets {
			fmt.Fprintf(&b, "- %s: spent %s of %s\n", bud.Category, money(bud.Spent), money(bud.Limit))
		}
	}
	if expenses := snap.Expenses[snap.ActiveMonth]; len(expenses) > 0 {
		totals := make(map[domain.ExpenseCategory]decimal.Decimal)
		for _, e := range expenses {
			totals[e.Category] = totals[e.Category].Add(e.Amount)
		}
		categories := make([]string, 0, len(totals))
		for c := range totals {
			categories = append(categories, string(c))
		}
		sort.Strings(categories)
		b.WriteString("Spending by category:\n")
		for _, c := range categories {
			fmt.Fprintf(&b, "- %s: %s\n", c, money(totals[domain.ExpenseCategory(c)]))
		}
	}
	if len(snap.Debts) > 0 {
		b.WriteString("Debts:\n")
		for _, d := range snap.Debts {
			fmt.Fprintf(&b, "- %s: balance %s at %s%% APR, minimum payment %s\n",
				d.Name, money(d.Balance), d.InterestRate.String(), money(d.MinimumPayment))
		}
	}
	if len(snap.Goals) > 0 {
		b.WriteString("Goals:\n")
		for _, g := range snap.Goals {
			fmt.Fprintf(&b, "- [%s] %s (%s): %s of %s", g.ID, g.Name, g.Type, money(g.TotalProgress()), money(g.TargetAmount))
			if !g.TargetDate.IsZero() {
				fmt.Fprintf(&b, " by %s", util.FormatISODate(g.TargetDate))
			}
			fmt.Fprintf(&b, ", priority %d\n", g.Priority)
		}
	}
	if snap.Profile.GoalPreference != "" {
		fmt.Fprintf(&b, "Goal preference: %s\n", snap.Profile.GoalPreference)
	}
	return b.String()
}

func recommendationsPrompt(snap ledger.Snapshot) string {
	return describeLedger(snap) + `
Give 3 to 5 actionable recommendations to improve this person's finances.
Respond with a JSON array of objects with the fields "type", "description" and "impact".`
}

func goalRecommendationsPrompt(snap ledger.Snapshot) string {
	return describeLedger(snap) + `
Give 2 to 4 recommendations that help this person reach their goals sooner.
Respond with a JSON array of objects with the fields "type", "description" and "impact".`
}

func prioritizeGoalsPrompt(snap ledger.Snapshot) string {
	return describeLedger(snap) + `
Rank the goals above from most to least important, using the bracketed goal ids.
Respond with a JSON array of objects with the fields "goalId", "name", "priority" (1 is highest) and "reasoning".`
}

func analyzeSpendingPrompt(snap ledger.Snapshot) string {
	return describeLedger(snap) + `
Identify where this person could reduce spending.
Respond with a JSON object with the fields "summary", "totalPotentialSavings" and "opportunities",
where each opportunity has "category", "currentSpending", "potentialSavings" and "suggestion".`
}

func analyzeHealthPrompt(snap ledger.Snapshot) string {
	return describeLedger(snap) + `
Assess this person's overall financial health.
Respond with a JSON object with the fields "score" (0 to 100), "summary", "strengths", "concerns" and "recommendations",
where the last three are arrays of short strings.`
}

func categorizePrompt(description string) string {
	names := make([]string, len(domain.ExpenseCategories))
	for i, c := range domain.ExpenseCategories {
		names[i] = string(c)
	}
	return fmt.Sprintf(`Classify this expense description into exactly one of these categories: %s.
Description: %q
Respond with a JSON object with the single field "category".`, strings.Join(names, ", "), description)
}

func askPrompt(snap ledger.Snapshot, question string) string {
	return describeLedger(snap) + "\nQuestion: " + question
}
