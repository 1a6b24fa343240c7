package handler

import (
	"net/http"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/ledger"
	"github.com/dafibh/fintrack/fintrack-backend/internal/util"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// TransactionHandler handles income and expense HTTP requests
type TransactionHandler struct {
	ledger *ledger.Store
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(l *ledger.Store) *TransactionHandler {
	return &TransactionHandler{ledger: l}
}

// IncomeRequest represents the create/update income request body
type IncomeRequest struct {
	Amount      decimal.Decimal   `json:"amount"`
	Date        string            `json:"date"`
	Type        domain.IncomeType `json:"type"`
	Description string            `json:"description,omitempty"`
}

// ExpenseRequest represents the create/update expense request body
type ExpenseRequest struct {
	Amount           decimal.Decimal        `json:"amount"`
	Date             string                 `json:"date"`
	Category         domain.ExpenseCategory `json:"category"`
	Description      string                 `json:"description,omitempty"`
	AssociatedDebtID string                 `json:"associatedDebtId,omitempty"`
}

// resolveDate parses the request date, defaulting to the first day of monthID
func resolveDate(raw, monthID string) (time.Time, error) {
	if raw == "" && monthID != "" {
		return util.MonthStart(monthID)
	}
	return parseDate(raw)
}

func (r IncomeRequest) toDomain(id, monthID string) (domain.Income, error) {
	date, err := resolveDate(r.Date, monthID)
	if err != nil {
		return domain.Income{}, err
	}
	income := domain.Income{ID: id, Amount: r.Amount, Date: date, Type: r.Type, Description: r.Description}
	return income, income.Validate()
}

func (r ExpenseRequest) toDomain(id, monthID string) (domain.Expense, error) {
	date, err := resolveDate(r.Date, monthID)
	if err != nil {
		return domain.Expense{}, err
	}
	expense := domain.Expense{
		ID:               id,
		Amount:           r.Amount,
		Date:             date,
		Category:         r.Category,
		Description:      r.Description,
		AssociatedDebtID: r.AssociatedDebtID,
	}
	return expense, expense.Validate()
}

// GetIncomes godoc
// @Summary List incomes
// @Description Get the income records of a month
// @Tags income
// @Produce json
// @Param userId path string true "User ID (ignored, single user)"
// @Param monthId path string true "Month (YYYY-MM or \"January 2024\")"
// @Success 200 {array} domain.Income
// @Failure 400 {object} ErrorResponse
// @Router /income/{userId}/{monthId} [get]
func (h *TransactionHandler) GetIncomes(c echo.Context) error {
	monthID, err := monthParam(c, "monthId")
	if err != nil {
		return NewDomainError(c, err, "Failed to get incomes")
	}
	return c.JSON(http.StatusOK, h.ledger.Incomes(monthID))
}

// CreateIncome godoc
// @Summary Create an income
// @Description The record is filed under the month of its date. An empty date uses the first day of the path month.
// @Tags income
// @Accept json
// @Produce json
// @Param userId path string true "User ID (ignored, single user)"
// @Param monthId path string true "Month (YYYY-MM or \"January 2024\")"
// @Param request body IncomeRequest true "Income"
// @Success 201 {object} domain.Income
// @Failure 400 {object} ErrorResponse
// @Router /income/{userId}/{monthId} [post]
func (h *TransactionHandler) CreateIncome(c echo.Context) error {
	monthID, err := monthParam(c, "monthId")
	if err != nil {
		return NewDomainError(c, err, "Failed to create income")
	}

	var req IncomeRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body")
	}
	income, err := req.toDomain("", monthID)
	if err != nil {
		return NewDomainError(c, err, "Failed to create income")
	}

	created := h.ledger.AddIncome(c.Request().Context(), income)
	log.Info().Str("income_id", created.ID).Str("month_id", created.MonthID).Msg("Income created")
	return c.JSON(http.StatusCreated, created)
}

// UpdateIncome godoc
// @Summary Update an income
// @Tags income
// @Accept json
// @Produce json
// @Param id path string true "Income ID"
// @Param request body IncomeRequest true "Income"
// @Success 200 {object} UpdatedResponse
// @Failure 400 {object} ErrorResponse
// @Router /income/{id} [put]
func (h *TransactionHandler) UpdateIncome(c echo.Context) error {
	var req IncomeRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body")
	}
	income, err := req.toDomain(c.Param("id"), "")
	if err != nil {
		return NewDomainError(c, err, "Failed to update income")
	}
	updated := h.ledger.UpdateIncome(c.Request().Context(), income)
	return c.JSON(http.StatusOK, UpdatedResponse{Updated: updated})
}

// DeleteIncome godoc
// @Summary Delete an income
// @Tags income
// @Produce json
// @Param id path string true "Income ID"
// @Success 200 {object} DeletedResponse
// @Router /income/{id} [delete]
func (h *TransactionHandler) DeleteIncome(c echo.Context) error {
	deleted := h.ledger.DeleteIncome(c.Request().Context(), c.Param("id"))
	return c.JSON(http.StatusOK, DeletedResponse{Deleted: deleted})
}

// GetExpenses godoc
// @Summary List expenses
// @Description Get the expense records of a month
// @Tags expenses
// @Produce json
// @Param userId path string true "User ID (ignored, single user)"
// @Param monthId path string true "Month (YYYY-MM or \"January 2024\")"
// @Success 200 {array} domain.Expense
// @Failure 400 {object} ErrorResponse
// @Router /expenses/{userId}/{monthId} [get]
func (h *TransactionHandler) GetExpenses(c echo.Context) error {
	monthID, err := monthParam(c, "monthId")
	if err != nil {
		return NewDomainError(c, err, "Failed to get expenses")
	}
	return c.JSON(http.StatusOK, h.ledger.Expenses(monthID))
}

// CreateExpense godoc
// @Summary Create an expense
// @Description Budgets of the month are recomputed. An associatedDebtId also records a payment on that debt.
// @Tags expenses
// @Accept json
// @Produce json
// @Param userId path string true "User ID (ignored, single user)"
// @Param monthId path string true "Month (YYYY-MM or \"January 2024\")"
// @Param request body ExpenseRequest true "Expense"
// @Success 201 {object} domain.Expense
// @Failure 400 {object} ErrorResponse
// @Router /expenses/{userId}/{monthId} [post]
func (h *TransactionHandler) CreateExpense(c echo.Context) error {
	monthID, err := monthParam(c, "monthId")
	if err != nil {
		return NewDomainError(c, err, "Failed to create expense")
	}

	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body")
	}
	expense, err := req.toDomain("", monthID)
	if err != nil {
		return NewDomainError(c, err, "Failed to create expense")
	}

	created := h.ledger.AddExpense(c.Request().Context(), expense)
	log.Info().Str("expense_id", created.ID).Str("month_id", created.MonthID).Str("category", string(created.Category)).Msg("Expense created")
	return c.JSON(http.StatusCreated, created)
}

// UpdateExpense godoc
// @Summary Update an expense
// @Tags expenses
// @Accept json
// @Produce json
// @Param id path string true "Expense ID"
// @Param request body ExpenseRequest true "Expense"
// @Success 200 {object} UpdatedResponse
// @Failure 400 {object} ErrorResponse
// @Router /expenses/{id} [put]
func (h *TransactionHandler) UpdateExpense(c echo.Context) error {
	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body")
	}
	expense, err := req.toDomain(c.Param("id"), "")
	if err != nil {
		return NewDomainError(c, err, "Failed to update expense")
	}
	updated := h.ledger.UpdateExpense(c.Request().Context(), expense)
	return c.JSON(http.StatusOK, UpdatedResponse{Updated: updated})
}

// DeleteExpense godoc
// @Summary Delete an expense
// @Tags expenses
// @Produce json
// @Param id path string true "Expense ID"
// @Success 200 {object} DeletedResponse
// @Router /expenses/{id} [delete]
func (h *TransactionHandler) DeleteExpense(c echo.Context) error {
	deleted := h.ledger.DeleteExpense(c.Request().Context(), c.Param("id"))
	return c.JSON(http.StatusOK, DeletedResponse{Deleted: deleted})
}
