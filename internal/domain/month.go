package domain

import "github.com/shopspring/decimal"

// MonthData is a month partition of the ledger, identified by its YYYY-MM id
type MonthData struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

// MonthSummary holds the derived cashflow values for one month
type MonthSummary struct {
	MonthID       string          `json:"monthId"`
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetCashflow   decimal.Decimal `json:"netCashflow"`
	SavingsRate   decimal.Decimal `json:"savingsRate"`
}

// MonthComparison holds the deltas of a month versus the previous calendar month
type MonthComparison struct {
	MonthID         string          `json:"monthId"`
	PreviousMonthID string          `json:"previousMonthId"`
	IncomeChange    decimal.Decimal `json:"incomeChange"`
	ExpenseChange   decimal.Decimal `json:"expenseChange"`
	SavingsChange   decimal.Decimal `json:"savingsChange"`
}
