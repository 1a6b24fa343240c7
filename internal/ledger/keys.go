package ledger

import "strings"

// Persistence keys. Month scoped collections are stored under <prefix><monthId>.
const (
	KeyUserProfile     = "userProfile"
	KeyMonths          = "months"
	KeyGoals           = "goals"
	KeyDebts           = "debts"
	KeyScenarios       = "scenarios"
	KeyRecommendations = "recommendations"
	KeyAlerts          = "alerts"

	incomesPrefix  = "incomes_"
	expensesPrefix = "expenses_"
	budgetsPrefix  = "budgets_"
)

// globalKeys lists the keys that are not scoped by month, in load order
var globalKeys = []string{
	KeyUserProfile,
	KeyMonths,
	KeyGoals,
	KeyDebts,
	KeyScenarios,
	KeyRecommendations,
	KeyAlerts,
}

func IncomesKey(monthID string) string  { return incomesPrefix + monthID }
func ExpensesKey(monthID string) string { return expensesPrefix + monthID }
func BudgetsKey(monthID string) string  { return budgetsPrefix + monthID }

// MonthKeys returns the three month scoped keys of monthID
func MonthKeys(monthID string) []string {
	return []string{IncomesKey(monthID), ExpensesKey(monthID), BudgetsKey(monthID)}
}

// splitMonthKey returns the prefix and month id of a month scoped key
func splitMonthKey(key string) (prefix, monthID string, ok bool) {
	for _, p := range []string{incomesPrefix, expensesPrefix, budgetsPrefix} {
		if strings.HasPrefix(key, p) {
			return p, strings.TrimPrefix(key, p), true
		}
	}
	return "", "", false
}
