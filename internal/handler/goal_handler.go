package handler

import (
	"net/http"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/ledger"
	"github.com/dafibh/fintrack/fintrack-backend/internal/util"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// GoalHandler handles savings and payoff goal requests
type GoalHandler struct {
	ledger *ledger.Store
}

// NewGoalHandler creates a new GoalHandler
func NewGoalHandler(l *ledger.Store) *GoalHandler {
	return &GoalHandler{ledger: l}
}

// GoalRequest represents the create/update goal request body. A nil MonthlyProgress
// keeps the stored progress on update.
type GoalRequest struct {
	Type             domain.GoalType            `json:"type"`
	Name             string                     `json:"name"`
	TargetAmount     decimal.Decimal            `json:"targetAmount"`
	TargetDate       string                     `json:"targetDate"`
	Description      string                     `json:"description,omitempty"`
	Priority         int                        `json:"priority"`
	AssociatedDebtID string                     `json:"associatedDebtId,omitempty"`
	MonthlyProgress  map[string]decimal.Decimal `json:"monthlyProgress,omitempty"`
}

// ProgressRequest records an amount against a month. MonthID wins over Date;
// with neither the active month is used.
type ProgressRequest struct {
	Amount  decimal.Decimal `json:"amount"`
	MonthID string          `json:"monthId,omitempty"`
	Date    string          `json:"date,omitempty"`
}

// GoalResponse is a goal with its derived progress
type GoalResponse struct {
	domain.Goal
	TotalProgress   decimal.Decimal `json:"totalProgress"`
	ProgressPercent decimal.Decimal `json:"progressPercent"`
}

func toGoalResponse(g domain.Goal) GoalResponse {
	return GoalResponse{Goal: g, TotalProgress: g.TotalProgress(), ProgressPercent: g.ProgressPercent()}
}

func (r GoalRequest) toDomain(id string) (domain.Goal, error) {
	target, err := parseOptionalDate(r.TargetDate)
	if err != nil {
		return domain.Goal{}, err
	}
	goal := domain.Goal{
		ID:               id,
		Type:             r.Type,
		Name:             r.Name,
		TargetAmount:     r.TargetAmount,
		TargetDate:       target,
		Description:      r.Description,
		Priority:         r.Priority,
		AssociatedDebtID: r.AssociatedDebtID,
		MonthlyProgress:  r.MonthlyProgress,
	}
	return goal, goal.Validate()
}

// resolveMonth picks the month a progress or payment entry is filed under
func (r ProgressRequest) resolveMonth(active string) (string, error) {
	if r.MonthID != "" {
		if util.IsValidMonthID(r.MonthID) {
			return r.MonthID, nil
		}
		return util.ParseMonthLabel(r.MonthID)
	}
	if r.Date != "" {
		date, err := parseDate(r.Date)
		if err != nil {
			return "", err
		}
		return util.MonthIDFromTime(date), nil
	}
	return active, nil
}

// GetGoals godoc
// @Summary List goals
// @Tags goals
// @Produce json
// @Param userId path string true "User ID (ignored, single user)"
// @Success 200 {array} GoalResponse
// @Router /goals/{userId} [get]
func (h *GoalHandler) GetGoals(c echo.Context) error {
	goals := h.ledger.Goals()
	resp := make([]GoalResponse, len(goals))
	for i, g := range goals {
		resp[i] = toGoalResponse(g)
	}
	return c.JSON(http.StatusOK, resp)
}

// CreateGoal godoc
// @Summary Create a goal
// @Tags goals
// @Accept json
// @Produce json
// @Param userId path string true "User ID (ignored, single user)"
// @Param request body GoalRequest true "Goal"
// @Success 201 {object} GoalResponse
// @Failure 400 {object} ErrorResponse
// @Router /goals/{userId} [post]
func (h *GoalHandler) CreateGoal(c echo.Context) error {
	var req GoalRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body")
	}
	goal, err := req.toDomain("")
	if err != nil {
		return NewDomainError(c, err, "Failed to create goal")
	}

	created := h.ledger.AddGoal(c.Request().Context(), goal)
	log.Info().Str("goal_id", created.ID).Str("name", created.Name).Msg("Goal created")
	return c.JSON(http.StatusCreated, toGoalResponse(created))
}

// UpdateGoal godoc
// @Summary Update a goal
// @Tags goals
// @Accept json
// @Produce json
// @Param id path string true "Goal ID"
// @Param request body GoalRequest true "Goal"
// @Success 200 {object} UpdatedResponse
// @Failure 400 {object} ErrorResponse
// @Router /goals/{id} [put]
func (h *GoalHandler) UpdateGoal(c echo.Context) error {
	var req GoalRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body")
	}
	id := c.Param("id")
	if req.MonthlyProgress == nil {
		if existing, ok := h.ledger.Goal(id); ok {
			req.MonthlyProgress = existing.MonthlyProgress
		}
	}
	goal, err := req.toDomain(id)
	if err != nil {
		return NewDomainError(c, err, "Failed to update goal")
	}

	updated := h.ledger.UpdateGoal(c.Request().Context(), goal)
	return c.JSON(http.StatusOK, UpdatedResponse{Updated: updated})
}

// DeleteGoal godoc
// @Summary Delete a goal
// @Tags goals
// @Produce json
// @Param id path string true "Goal ID"
// @Success 200 {object} DeletedResponse
// @Router /goals/{id} [delete]
func (h *GoalHandler) DeleteGoal(c echo.Context) error {
	deleted := h.ledger.DeleteGoal(c.Request().Context(), c.Param("id"))
	return c.JSON(http.StatusOK, DeletedResponse{Deleted: deleted})
}

// RecordProgress godoc
// @Summary Record goal progress
// @Description Adds an amount to the goal's progress for a month. Progress may exceed the target.
// @Tags goals
// @Accept json
// @Produce json
// @Param id path string true "Goal ID"
// @Param request body ProgressRequest true "Progress"
// @Success 200 {object} GoalResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /goals/{id}/progress [post]
func (h *GoalHandler) RecordProgress(c echo.Context) error {
	var req ProgressRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body")
	}
	if !req.Amount.IsPositive() {
		return NewDomainError(c, domain.ErrInvalidAmount, "Failed to record progress")
	}
	monthID, err := req.resolveMonth(h.ledger.ActiveMonth())
	if err != nil {
		return NewDomainError(c, err, "Failed to record progress")
	}

	goal, ok := h.ledger.RecordGoalProgress(c.Request().Context(), c.Param("id"), monthID, req.Amount)
	if !ok {
		return NewNotFoundError(c, "Goal not found")
	}
	return c.JSON(http.StatusOK, toGoalResponse(goal))
}
