package domain

import "github.com/shopspring/decimal"

// EmailNotifications selects which alert kinds are also sent by email
type EmailNotifications struct {
	BudgetAlerts     bool `json:"budgetAlerts"`
	PaymentReminders bool `json:"paymentReminders"`
	WeeklySummary    bool `json:"weeklySummary"`
	GoalMilestones   bool `json:"goalMilestones"`
}

// AlertPreferences tunes when alerts are raised
type AlertPreferences struct {
	BudgetWarningThreshold int             `json:"budgetWarningThreshold"`
	LowBalanceThreshold    decimal.Decimal `json:"lowBalanceThreshold"`
	UpcomingPaymentDays    int             `json:"upcomingPaymentDays"`
	InstantAlerts          bool            `json:"instantAlerts"`
}

// UserProfile is the singleton profile of the implicit user
type UserProfile struct {
	Name                 string             `json:"name"`
	Email                string             `json:"email"`
	PreferredCurrency    string             `json:"preferredCurrency"`
	GoalPreference       string             `json:"goalPreference"`
	NotificationsEnabled bool               `json:"notificationsEnabled"`
	EmailNotifications   EmailNotifications `json:"emailNotifications"`
	AlertPreferences     AlertPreferences   `json:"alertPreferences"`
}

// DefaultUserProfile returns the profile used before the user saves one
func DefaultUserProfile() UserProfile {
	return UserProfile{
		PreferredCurrency:    "USD",
		GoalPreference:       "balanced",
		NotificationsEnabled: true,
		EmailNotifications: EmailNotifications{
			BudgetAlerts:     true,
			PaymentReminders: true,
		},
		AlertPreferences: AlertPreferences{
			BudgetWarningThreshold: 80,
			LowBalanceThreshold:    decimal.NewFromInt(100),
			UpcomingPaymentDays:    7,
			InstantAlerts:          true,
		},
	}
}

func (p *UserProfile) Validate() error {
	if len(p.Name) > MaxNameLength || len(p.Email) > MaxNameLength {
		return ErrNameTooLong
	}
	prefs := p.AlertPreferences
	if prefs.BudgetWarningThreshold < 1 || prefs.BudgetWarningThreshold > 100 {
		return ErrInvalidInput
	}
	if prefs.LowBalanceThreshold.IsNegative() {
		return ErrNegativeAmount
	}
	if prefs.UpcomingPaymentDays < 1 || prefs.UpcomingPaymentDays > 30 {
		return ErrInvalidInput
	}
	return nil
}
