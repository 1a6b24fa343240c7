// Package notify delivers ledger alerts outside the process.
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
)

// Notification is one alert addressed to the user
type Notification struct {
	Recipient string       `json:"recipient,omitempty"`
	Name      string       `json:"name,omitempty"`
	Subject   string       `json:"subject"`
	Alert     domain.Alert `json:"alert"`
	SentAt    time.Time    `json:"sentAt"`
}

// Notifier delivers notifications over one channel
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Subject returns the subject line used for an alert type
func Subject(alertType string) string {
	switch alertType {
	case domain.AlertTypeBudgetExceeded:
		return "Budget exceeded"
	case domain.AlertTypeBudgetWarning:
		return "Budget warning"
	case domain.AlertTypePaymentDue:
		return "Upcoming payment reminder"
	case domain.AlertTypeLowBalance:
		return "Low balance warning"
	default:
		return "Finance alert"
	}
}

// Multi sends to every notifier and joins their errors
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n Notification) error {
	var errs []error
	for _, notifier := range m {
		if notifier == nil {
			continue
		}
		if err := notifier.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
