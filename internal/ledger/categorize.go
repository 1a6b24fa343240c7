package ledger

import (
	"strings"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
)

type categoryKeywords struct {
	category domain.ExpenseCategory
	keywords []string
}

// categoryTable is matched in order; the first category with a matching keyword wins.
var categoryTable = []categoryKeywords{
	{domain.CategoryHousing, []string{"rent", "mortgage", "property tax", "hoa", "landlord", "apartment", "housing"}},
	{domain.CategoryUtilities, []string{"electric", "water bill", "utility", "utilities", "internet", "phone bill", "cable", "gas bill", "sewer", "trash"}},
	{domain.CategoryFood, []string{"grocery", "groceries", "restaurant", "food", "coffee", "lunch", "dinner", "breakfast", "supermarket", "takeout", "pizza"}},
	{domain.CategoryTransportation, []string{"fuel", "gas station", "gasoline", "uber", "lyft", "taxi", "bus", "train", "parking", "car wash", "transit", "toll"}},
	{domain.CategoryInsurance, []string{"insurance", "premium", "policy"}},
	{domain.CategoryHealthcare, []string{"doctor", "dentist", "pharmacy", "medical", "hospital", "prescription", "clinic", "health"}},
	{domain.CategoryDebtPayments, []string{"loan", "credit card", "debt", "student loan", "car payment", "installment"}},
	{domain.CategorySavings, []string{"savings", "investment", "401k", "ira", "deposit to savings", "brokerage"}},
	{domain.CategoryEntertainment, []string{"movie", "netflix", "spotify", "concert", "game", "streaming", "entertainment", "hobby", "subscription"}},
	{domain.CategoryPersonalCare, []string{"haircut", "salon", "gym", "spa", "cosmetics", "barber", "fitness"}},
	{domain.CategoryEducation, []string{"tuition", "course", "textbook", "school", "education", "class", "training"}},
	{domain.CategoryClothing, []string{"clothing", "clothes", "shoes", "apparel", "jacket", "shirt"}},
	{domain.CategoryGifts, []string{"gift", "donation", "charity", "present"}},
}

// CategorizeExpense maps a free-text description to an expense category by
// case-insensitive keyword substring match, falling back to Miscellaneous.
func CategorizeExpense(description string) domain.ExpenseCategory {
	text := strings.ToLower(description)
	if strings.TrimSpace(text) == "" {
		return domain.CategoryMiscellaneous
	}
	for _, entry := range categoryTable {
		for _, keyword := range entry.keywords {
			if strings.Contains(text, keyword) {
				return entry.category
			}
		}
	}
	return domain.CategoryMiscellaneous
}
