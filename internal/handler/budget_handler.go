package handler

import (
	"net/http"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/ledger"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// BudgetHandler handles per-month category budget requests
type BudgetHandler struct {
	ledger *ledger.Store
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(l *ledger.Store) *BudgetHandler {
	return &BudgetHandler{ledger: l}
}

// BudgetRequest represents the create budget request body. Spent is always derived.
type BudgetRequest struct {
	Category domain.ExpenseCategory `json:"category"`
	Limit    decimal.Decimal        `json:"limit"`
}

// UpdateBudgetRequest represents the update budget request body
type UpdateBudgetRequest struct {
	Limit decimal.Decimal `json:"limit"`
}

// GetBudgets godoc
// @Summary List budgets
// @Tags budgets
// @Produce json
// @Param userId path string true "User ID (ignored, single user)"
// @Param monthId path string true "Month (YYYY-MM or \"January 2024\")"
// @Success 200 {array} domain.Budget
// @Failure 400 {object} ErrorResponse
// @Router /budgets/{userId}/{monthId} [get]
func (h *BudgetHandler) GetBudgets(c echo.Context) error {
	monthID, err := monthParam(c, "monthId")
	if err != nil {
		return NewDomainError(c, err, "Failed to get budgets")
	}
	return c.JSON(http.StatusOK, h.ledger.Budgets(monthID))
}

// CreateBudget godoc
// @Summary Set a category budget
// @Description Creates the budget, or replaces the limit when the category already has one
// @Tags budgets
// @Accept json
// @Produce json
// @Param userId path string true "User ID (ignored, single user)"
// @Param monthId path string true "Month (YYYY-MM or \"January 2024\")"
// @Param request body BudgetRequest true "Budget"
// @Success 201 {object} domain.Budget
// @Failure 400 {object} ErrorResponse
// @Router /budgets/{userId}/{monthId} [post]
func (h *BudgetHandler) CreateBudget(c echo.Context) error {
	monthID, err := monthParam(c, "monthId")
	if err != nil {
		return NewDomainError(c, err, "Failed to create budget")
	}

	var req BudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body")
	}
	budget := domain.Budget{Category: req.Category, Limit: req.Limit}
	if err := budget.Validate(); err != nil {
		return NewDomainError(c, err, "Failed to create budget")
	}

	created := h.ledger.AddBudget(c.Request().Context(), monthID, budget)
	log.Info().Str("month_id", monthID).Str("category", string(created.Category)).Msg("Budget set")
	return c.JSON(http.StatusCreated, created)
}

// UpdateBudget godoc
// @Summary Update a budget limit
// @Tags budgets
// @Accept json
// @Produce json
// @Param monthId path string true "Month (YYYY-MM or \"January 2024\")"
// @Param category path string true "Expense category"
// @Param request body UpdateBudgetRequest true "Limit"
// @Success 200 {object} UpdatedResponse
// @Failure 400 {object} ErrorResponse
// @Router /budgets/{monthId}/{category} [put]
func (h *BudgetHandler) UpdateBudget(c echo.Context) error {
	monthID, err := monthParam(c, "monthId")
	if err != nil {
		return NewDomainError(c, err, "Failed to update budget")
	}

	var req UpdateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body")
	}
	budget := domain.Budget{Category: domain.ExpenseCategory(c.Param("category")), Limit: req.Limit}
	if err := budget.Validate(); err != nil {
		return NewDomainError(c, err, "Failed to update budget")
	}

	updated := h.ledger.UpdateBudget(c.Request().Context(), monthID, budget)
	return c.JSON(http.StatusOK, UpdatedResponse{Updated: updated})
}

// DeleteBudget godoc
// @Summary Delete a budget
// @Tags budgets
// @Produce json
// @Param monthId path string true "Month (YYYY-MM or \"January 2024\")"
// @Param category path string true "Expense category"
// @Success 200 {object} DeletedResponse
// @Failure 400 {object} ErrorResponse
// @Router /budgets/{monthId}/{category} [delete]
func (h *BudgetHandler) DeleteBudget(c echo.Context) error {
	monthID, err := monthParam(c, "monthId")
	if err != nil {
		return NewDomainError(c, err, "Failed to delete budget")
	}
	deleted := h.ledger.DeleteBudget(c.Request().Context(), monthID, domain.ExpenseCategory(c.Param("category")))
	return c.JSON(http.StatusOK, DeletedResponse{Deleted: deleted})
}
