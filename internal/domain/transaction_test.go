package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestExpenseValidate(t *testing.T) {
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		expense Expense
		wantErr error
	}{
		{"valid", Expense{Amount: decimal.NewFromInt(10), Date: date, Category: CategoryFood}, nil},
		{"zero amount", Expense{Amount: decimal.Zero, Date: date, Category: CategoryFood}, ErrInvalidAmount},
		{"negative amount", Expense{Amount: decimal.NewFromInt(-5), Date: date, Category: CategoryFood}, ErrInvalidAmount},
		{"missing date", Expense{Amount: decimal.NewFromInt(10), Category: CategoryFood}, ErrInvalidDate},
		{"unknown category", Expense{Amount: decimal.NewFromInt(10), Date: date, Category: "Yachts"}, ErrInvalidCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.expense.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestIncomeValidate(t *testing.T) {
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	valid := Income{Amount: decimal.NewFromInt(5000), Date: date, Type: IncomeTypeSalary}
	assert.NoError(t, valid.Validate())

	noType := Income{Amount: decimal.NewFromInt(5000), Date: date}
	assert.ErrorIs(t, noType.Validate(), ErrInvalidCategory)

	zero := Income{Amount: decimal.Zero, Date: date, Type: IncomeTypeSalary}
	assert.ErrorIs(t, zero.Validate(), ErrInvalidAmount)
}

func TestExpenseCategories_AllValid(t *testing.T) {
	for _, c := range ExpenseCategories {
		assert.True(t, c.IsValid(), string(c))
	}
	assert.False(t, ExpenseCategory("").IsValid())
}

func TestBudgetUtilization(t *testing.T) {
	b := Budget{Category: CategoryFood, Limit: decimal.NewFromInt(500), Spent: decimal.NewFromInt(400)}
	assert.Equal(t, "80", b.Utilization().String())
	assert.Equal(t, "100", b.Remaining().String())

	noLimit := Budget{Category: CategoryFood, Spent: decimal.NewFromInt(20)}
	assert.True(t, noLimit.Utilization().IsZero())
}

func TestGoalProgress_NotCapped(t *testing.T) {
	g := Goal{
		Type:         GoalTypeSaving,
		Name:         "Emergency fund",
		TargetAmount: decimal.NewFromInt(1000),
		MonthlyProgress: map[string]decimal.Decimal{
			"2024-01": decimal.NewFromInt(700),
			"2024-02": decimal.NewFromInt(500),
		},
	}

	assert.Equal(t, "1200", g.TotalProgress().String())
	assert.Equal(t, "120", g.ProgressPercent().String())
}

func TestDebtValidate(t *testing.T) {
	d := Debt{Name: "Car loan", OriginalPrincipal: decimal.NewFromInt(1000), Priority: 5}
	assert.NoError(t, d.Validate())

	d.Priority = 11
	assert.ErrorIs(t, d.Validate(), ErrInvalidPriority)

	d.Priority = 5
	d.OriginalPrincipal = decimal.Zero
	assert.ErrorIs(t, d.Validate(), ErrInvalidAmount)
}

func TestDebtClone_IsDeep(t *testing.T) {
	d := Debt{MonthlyPayments: map[string]decimal.Decimal{"2024-01": decimal.NewFromInt(10)}}
	c := d.Clone()
	c.MonthlyPayments["2024-01"] = decimal.NewFromInt(99)

	assert.Equal(t, "10", d.MonthlyPayments["2024-01"].String())
}

func TestUserProfileValidate(t *testing.T) {
	p := DefaultUserProfile()
	assert.NoError(t, p.Validate())

	p.AlertPreferences.BudgetWarningThreshold = 0
	assert.ErrorIs(t, p.Validate(), ErrInvalidInput)

	p = DefaultUserProfile()
	p.AlertPreferences.UpcomingPaymentDays = 31
	assert.ErrorIs(t, p.Validate(), ErrInvalidInput)
}
