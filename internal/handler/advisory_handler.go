package handler

import (
	"net/http"
	"strings"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/ledger"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// AdvisoryHandler handles recommendation and alert requests
type AdvisoryHandler struct {
	ledger *ledger.Store
}

// NewAdvisoryHandler creates a new AdvisoryHandler
func NewAdvisoryHandler(l *ledger.Store) *AdvisoryHandler {
	return &AdvisoryHandler{ledger: l}
}

// RecommendationRequest represents a manually added recommendation
type RecommendationRequest struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
}

// AlertCheckResponse lists the alerts raised by a check run
type AlertCheckResponse struct {
	Added  []domain.Alert `json:"added"`
	Alerts []domain.Alert `json:"alerts"`
}

// ClearedResponse reports how many records were removed
type ClearedResponse struct {
	Cleared int `json:"cleared"`
}

// GetRecommendations godoc
// @Summary List recommendations
// @Tags recommendations
// @Produce json
// @Param userId path string true "User ID (ignored, single user)"
// @Success 200 {array} domain.Recommendation
// @Router /recommendations/{userId} [get]
func (h *AdvisoryHandler) GetRecommendations(c echo.Context) error {
	return c.JSON(http.StatusOK, h.ledger.Recommendations())
}

// CreateRecommendation godoc
// @Summary Add a recommendation
// @Tags recommendations
// @Accept json
// @Produce json
// @Param userId path string true "User ID (ignored, single user)"
// @Param request body RecommendationRequest true "Recommendation"
// @Success 201 {object} domain.Recommendation
// @Failure 400 {object} ErrorResponse
// @Router /recommendations/{userId} [post]
func (h *AdvisoryHandler) CreateRecommendation(c echo.Context) error {
	var req RecommendationRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body")
	}
	if strings.TrimSpace(req.Type) == "" || strings.TrimSpace(req.Description) == "" {
		return NewValidationError(c, "Type and description are required")
	}

	added := h.ledger.AddRecommendations(c.Request().Context(), []domain.Recommendation{{
		Type:        req.Type,
		Description: req.Description,
		Impact:      req.Impact,
	}})
	return c.JSON(http.StatusCreated, added[0])
}

// MarkRecommendationRead godoc
// @Summary Mark a recommendation as read
// @Tags recommendations
// @Produce json
// @Param id path string true "Recommendation ID"
// @Success 200 {object} UpdatedResponse
// @Router /recommendations/{id}/read [put]
func (h *AdvisoryHandler) MarkRecommendationRead(c echo.Context) error {
	updated := h.ledger.MarkRecommendationRead(c.Request().Context(), c.Param("id"))
	return c.JSON(http.StatusOK, UpdatedResponse{Updated: updated})
}

// GenerateRecommendations godoc
// @Summary Generate rule based recommendations
// @Description Evaluates the active month and appends recommendations that are not already present and unread
// @Tags recommendations
// @Produce json
// @Success 200 {array} domain.Recommendation
// @Router /recommendations/generate [post]
func (h *AdvisoryHandler) GenerateRecommendations(c echo.Context) error {
	added := h.ledger.GenerateRecommendations(c.Request().Context())
	if added == nil {
		added = []domain.Recommendation{}
	}
	log.Info().Int("count", len(added)).Msg("Recommendations generated")
	return c.JSON(http.StatusOK, added)
}

// GetAlerts godoc
// @Summary List alerts
// @Tags alerts
// @Produce json
// @Param userId path string true "User ID (ignored, single user)"
// @Success 200 {array} domain.Alert
// @Router /alerts/{userId} [get]
func (h *AdvisoryHandler) GetAlerts(c echo.Context) error {
	return c.JSON(http.StatusOK, h.ledger.Alerts())
}

// CheckAlerts godoc
// @Summary Run every alert check
// @Description Evaluates budgets, upcoming payments and the active month balance
// @Tags alerts
// @Produce json
// @Success 200 {object} AlertCheckResponse
// @Router /alerts/check [post]
func (h *AdvisoryHandler) CheckAlerts(c echo.Context) error {
	ctx := c.Request().Context()
	added := []domain.Alert{}
	added = append(added, h.ledger.CheckBudgetAlerts(ctx)...)
	added = append(added, h.ledger.CheckUpcomingPayments(ctx)...)
	added = append(added, h.ledger.CheckLowBalance(ctx)...)
	return c.JSON(http.StatusOK, AlertCheckResponse{Added: added, Alerts: h.ledger.Alerts()})
}

// MarkAlertRead godoc
// @Summary Mark an alert as read
// @Tags alerts
// @Produce json
// @Param id path string true "Alert ID"
// @Success 200 {object} UpdatedResponse
// @Router /alerts/{id}/read [put]
func (h *AdvisoryHandler) MarkAlertRead(c echo.Context) error {
	updated := h.ledger.MarkAlertRead(c.Request().Context(), c.Param("id"))
	return c.JSON(http.StatusOK, UpdatedResponse{Updated: updated})
}

// ClearAlerts godoc
// @Summary Clear every alert
// @Tags alerts
// @Produce json
// @Success 200 {object} ClearedResponse
// @Router /alerts [delete]
func (h *AdvisoryHandler) ClearAlerts(c echo.Context) error {
	n := h.ledger.ClearAlerts(c.Request().Context())
	return c.JSON(http.StatusOK, ClearedResponse{Cleared: n})
}
