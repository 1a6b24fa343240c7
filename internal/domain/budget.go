package domain

import "github.com/shopspring/decimal"

// Budget is the spending limit of one category in one month.
// Spent is derived from the month's expenses and never set directly.
type Budget struct {
	Category ExpenseCategory `json:"category"`
	Limit    decimal.Decimal `json:"limit"`
	Spent    decimal.Decimal `json:"spent"`
}

func (b *Budget) Validate() error {
	if !b.Category.IsValid() {
		return ErrInvalidCategory
	}
	if b.Limit.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

// Utilization returns spent as a percentage of the limit, or zero when there is no limit
func (b *Budget) Utilization() decimal.Decimal {
	if !b.Limit.IsPositive() {
		return decimal.Zero
	}
	return b.Spent.Div(b.Limit).Mul(decimal.NewFromInt(100))
}

// Remaining returns limit minus spent, which is negative when over budget
func (b *Budget) Remaining() decimal.Decimal {
	return b.Limit.Sub(b.Spent)
}
