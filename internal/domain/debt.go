package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Debt is a loan or credit balance shared across all months.
// MonthlyPayments is keyed by YYYY-MM month id.
type Debt struct {
	ID                string                     `json:"id"`
	Name              string                     `json:"name"`
	Balance           decimal.Decimal            `json:"balance"`
	OriginalPrincipal decimal.Decimal            `json:"originalPrincipal"`
	InterestRate      decimal.Decimal            `json:"interestRate"`
	MinimumPayment    decimal.Decimal            `json:"minimumPayment"`
	DueDate           time.Time                  `json:"dueDate"`
	Priority          int                        `json:"priority"`
	MonthlyPayments   map[string]decimal.Decimal `json:"monthlyPayments"`
	MonthlyBalances   map[string]decimal.Decimal `json:"monthlyBalances,omitempty"`
	IsPaidOff         bool                       `json:"isPaidOff"`
}

func (d *Debt) Validate() error {
	if d.Name == "" {
		return ErrNameRequired
	}
	if len(d.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if !d.OriginalPrincipal.IsPositive() {
		return ErrInvalidAmount
	}
	if d.Balance.IsNegative() || d.InterestRate.IsNegative() || d.MinimumPayment.IsNegative() {
		return ErrNegativeAmount
	}
	if d.Priority < 0 || d.Priority > MaxPriority {
		return ErrInvalidPriority
	}
	for _, amount := range d.MonthlyPayments {
		if amount.IsNegative() {
			return ErrNegativeAmount
		}
	}
	return nil
}

// TotalPaid sums every recorded monthly payment
func (d *Debt) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, amount := range d.MonthlyPayments {
		total = total.Add(amount)
	}
	return total
}

// Clone returns a deep copy of the debt
func (d Debt) Clone() Debt {
	d.MonthlyPayments = cloneAmounts(d.MonthlyPayments)
	d.MonthlyBalances = cloneAmounts(d.MonthlyBalances)
	return d
}

func cloneAmounts(m map[string]decimal.Decimal) map[string]decimal.Decimal {
	if m == nil {
		return nil
	}
	out := make(map[string]decimal.Decimal, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
