package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// IncomeType classifies an income record
type IncomeType string

const (
	IncomeTypeSalary      IncomeType = "Salary"
	IncomeTypeFreelance   IncomeType = "Freelance"
	IncomeTypeInvestments IncomeType = "Investments"
	IncomeTypeRental      IncomeType = "Rental"
	IncomeTypeBusiness    IncomeType = "Business"
	IncomeTypeGifts       IncomeType = "Gifts"
	IncomeTypeOther       IncomeType = "Other"
)

// IncomeTypes lists every income type in display order
var IncomeTypes = []IncomeType{
	IncomeTypeSalary,
	IncomeTypeFreelance,
	IncomeTypeInvestments,
	IncomeTypeRental,
	IncomeTypeBusiness,
	IncomeTypeGifts,
	IncomeTypeOther,
}

// IsValid reports whether t is a known income type
func (t IncomeType) IsValid() bool {
	for _, known := range IncomeTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ExpenseCategory classifies an expense record and keys a month's budgets
type ExpenseCategory string

const (
	CategoryHousing        ExpenseCategory = "Housing"
	CategoryUtilities      ExpenseCategory = "Utilities"
	CategoryFood           ExpenseCategory = "Food"
	CategoryTransportation ExpenseCategory = "Transportation"
	CategoryInsurance      ExpenseCategory = "Insurance"
	CategoryHealthcare     ExpenseCategory = "Healthcare"
	CategoryDebtPayments   ExpenseCategory = "DebtPayments"
	CategorySavings        ExpenseCategory = "Savings"
	CategoryEntertainment  ExpenseCategory = "Entertainment"
	CategoryPersonalCare   ExpenseCategory = "PersonalCare"
	CategoryEducation      ExpenseCategory = "Education"
	CategoryClothing       ExpenseCategory = "Clothing"
	CategoryGifts          ExpenseCategory = "Gifts"
	CategoryMiscellaneous  ExpenseCategory = "Miscellaneous"
)

// ExpenseCategories lists every expense category in display order
var ExpenseCategories = []ExpenseCategory{
	CategoryHousing,
	CategoryUtilities,
	CategoryFood,
	CategoryTransportation,
	CategoryInsurance,
	CategoryHealthcare,
	CategoryDebtPayments,
	CategorySavings,
	CategoryEntertainment,
	CategoryPersonalCare,
	CategoryEducation,
	CategoryClothing,
	CategoryGifts,
	CategoryMiscellaneous,
}

// IsValid reports whether c is a known expense category
func (c ExpenseCategory) IsValid() bool {
	for _, known := range ExpenseCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Income is a single income record scoped to one month
type Income struct {
	ID          string          `json:"id"`
	MonthID     string          `json:"monthId"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Type        IncomeType      `json:"type"`
	Description string          `json:"description,omitempty"`
}

func (i *Income) Validate() error {
	if !i.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if i.Date.IsZero() {
		return ErrInvalidDate
	}
	if !i.Type.IsValid() {
		return ErrInvalidCategory
	}
	if len(i.Description) > MaxDescriptionLength {
		return ErrNameTooLong
	}
	return nil
}

// Expense is a single expense record scoped to one month. An expense with an
// AssociatedDebtID also counts as a payment toward that debt.
type Expense struct {
	ID               string          `json:"id"`
	MonthID          string          `json:"monthId"`
	Amount           decimal.Decimal `json:"amount"`
	Date             time.Time       `json:"date"`
	Category         ExpenseCategory `json:"category"`
	Description      string          `json:"description,omitempty"`
	AssociatedDebtID string          `json:"associatedDebtId,omitempty"`
}

func (e *Expense) Validate() error {
	if !e.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	if !e.Category.IsValid() {
		return ErrInvalidCategory
	}
	if len(e.Description) > MaxDescriptionLength {
		return ErrNameTooLong
	}
	return nil
}
