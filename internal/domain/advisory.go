package domain

import "time"

// RecommendationSource records whether a recommendation came from local rules or the AI adapter
type RecommendationSource string

const (
	SourceRule RecommendationSource = "rule"
	SourceAI   RecommendationSource = "ai"
)

// Recommendation is an append-only advisory record. Only IsRead changes after creation.
type Recommendation struct {
	ID            string               `json:"id"`
	Type          string               `json:"type"`
	Description   string               `json:"description"`
	Impact        string               `json:"impact"`
	Source        RecommendationSource `json:"source,omitempty"`
	DateGenerated time.Time            `json:"dateGenerated"`
	IsRead        bool                 `json:"isRead"`
}

// Alert types
const (
	AlertTypeBudgetWarning  = "budget_warning"
	AlertTypeBudgetExceeded = "budget_exceeded"
	AlertTypePaymentDue     = "payment_due"
	AlertTypeLowBalance     = "low_balance"
)

// Alert is an append-only notification. Key identifies the condition that raised it
// so that a still-unread alert is not raised twice for the same condition.
type Alert struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	Message string    `json:"message"`
	Date    time.Time `json:"date"`
	IsRead  bool      `json:"isRead"`
	Key     string    `json:"key,omitempty"`
}
