package handler

import (
	"net/http"

	"github.com/dafibh/fintrack/fintrack-backend/internal/calc"
	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/ledger"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// DebtHandler handles debt requests
type DebtHandler struct {
	ledger *ledger.Store
}

// NewDebtHandler creates a new DebtHandler
func NewDebtHandler(l *ledger.Store) *DebtHandler {
	return &DebtHandler{ledger: l}
}

// DebtRequest represents the create/update debt request body. Balance is derived from
// the payments when there are any. A nil Balance starts a new debt at its principal
// and keeps the stored balance on update; a nil MonthlyPayments keeps the stored payments.
type DebtRequest struct {
	Name              string                     `json:"name"`
	Balance           *decimal.Decimal           `json:"balance,omitempty"`
	OriginalPrincipal decimal.Decimal            `json:"originalPrincipal"`
	InterestRate      decimal.Decimal            `json:"interestRate"`
	MinimumPayment    decimal.Decimal            `json:"minimumPayment"`
	DueDate           string                     `json:"dueDate"`
	Priority          int                        `json:"priority"`
	MonthlyPayments   map[string]decimal.Decimal `json:"monthlyPayments,omitempty"`
}

// DebtResponse is a debt with its derived repayment figures
type DebtResponse struct {
	domain.Debt
	TotalPaid   decimal.Decimal `json:"totalPaid"`
	PercentPaid int             `json:"percentPaid"`
}

// ProjectionResponse is the payoff outlook of a debt
type ProjectionResponse struct {
	DebtID      string              `json:"debtId"`
	Balance     decimal.Decimal     `json:"balance"`
	PercentPaid int                 `json:"percentPaid"`
	Payoff      calc.Projection     `json:"payoff"`
	History     []calc.BalancePoint `json:"history"`
}

func toDebtResponse(d domain.Debt) DebtResponse {
	return DebtResponse{Debt: d, TotalPaid: d.TotalPaid(), PercentPaid: calc.PercentPaid(d.OriginalPrincipal, d.Balance)}
}

func (r DebtRequest) toDomain(id string) (domain.Debt, error) {
	due, err := parseOptionalDate(r.DueDate)
	if err != nil {
		return domain.Debt{}, err
	}
	debt := domain.Debt{
		ID:                id,
		Name:              r.Name,
		Balance:           orZero(r.Balance),
		OriginalPrincipal: r.OriginalPrincipal,
		InterestRate:      r.InterestRate,
		MinimumPayment:    r.MinimumPayment,
		DueDate:           due,
		Priority:          r.Priority,
		MonthlyPayments:   r.MonthlyPayments,
	}
	return debt, debt.Validate()
}

// GetDebts godoc
// @Summary List debts
// @Tags debts
// @Produce json
// @Param userId path string true "User ID (ignored, single user)"
// @Success 200 {array} DebtResponse
// @Router /debts/{userId} [get]
func (h *DebtHandler) GetDebts(c echo.Context) error {
	debts := h.ledger.Debts()
	resp := make([]DebtResponse, len(debts))
	for i, d := range debts {
		resp[i] = toDebtResponse(d)
	}
	return c.JSON(http.StatusOK, resp)
}

// CreateDebt godoc
// @Summary Create a debt
// @Description A debt without payments starts at its original principal unless a balance is given
// @Tags debts
// @Accept json
// @Produce json
// @Param userId path string true "User ID (ignored, single user)"
// @Param request body DebtRequest true "Debt"
// @Success 201 {object} DebtResponse
// @Failure 400 {object} ErrorResponse
// @Router /debts/{userId} [post]
func (h *DebtHandler) CreateDebt(c echo.Context) error {
	var req DebtRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body")
	}
	if req.Balance == nil {
		req.Balance = &req.OriginalPrincipal
	}
	debt, err := req.toDomain("")
	if err != nil {
		return NewDomainError(c, err, "Failed to create debt")
	}

	created := h.ledger.AddDebt(c.Request().Context(), debt)
	log.Info().Str("debt_id", created.ID).Str("name", created.Name).Msg("Debt created")
	return c.JSON(http.StatusCreated, toDebtResponse(created))
}

// UpdateDebt godoc
// @Summary Update a debt
// @Tags debts
// @Accept json
// @Produce json
// @Param id path string true "Debt ID"
// @Param request body DebtRequest true "Debt"
// @Success 200 {object} UpdatedResponse
// @Failure 400 {object} ErrorResponse
// @Router /debts/{id} [put]
func (h *DebtHandler) UpdateDebt(c echo.Context) error {
	var req DebtRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body")
	}
	id := c.Param("id")
	if existing, ok := h.ledger.Debt(id); ok {
		if req.MonthlyPayments == nil {
			req.MonthlyPayments = existing.MonthlyPayments
		}
		if req.Balance == nil {
			req.Balance = &existing.Balance
		}
	}
	debt, err := req.toDomain(id)
	if err != nil {
		return NewDomainError(c, err, "Failed to update debt")
	}

	updated := h.ledger.UpdateDebt(c.Request().Context(), debt)
	return c.JSON(http.StatusOK, UpdatedResponse{Updated: updated})
}

// DeleteDebt godoc
// @Summary Delete a debt
// @Tags debts
// @Produce json
// @Param id path string true "Debt ID"
// @Success 200 {object} DeletedResponse
// @Router /debts/{id} [delete]
func (h *DebtHandler) DeleteDebt(c echo.Context) error {
	deleted := h.ledger.DeleteDebt(c.Request().Context(), c.Param("id"))
	return c.JSON(http.StatusOK, DeletedResponse{Deleted: deleted})
}

// RecordPayment godoc
// @Summary Record a debt payment
// @Description Adds a payment for a month, recomputes the balance and mirrors the payment onto linked goals
// @Tags debts
// @Accept json
// @Produce json
// @Param id path string true "Debt ID"
// @Param request body ProgressRequest true "Payment"
// @Success 200 {object} DebtResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /debts/{id}/payments [post]
func (h *DebtHandler) RecordPayment(c echo.Context) error {
	var req ProgressRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body")
	}
	if !req.Amount.IsPositive() {
		return NewDomainError(c, domain.ErrInvalidAmount, "Failed to record payment")
	}
	monthID, err := req.resolveMonth(h.ledger.ActiveMonth())
	if err != nil {
		return NewDomainError(c, err, "Failed to record payment")
	}

	debt, ok := h.ledger.RecordDebtPayment(c.Request().Context(), c.Param("id"), monthID, req.Amount)
	if !ok {
		return NewNotFoundError(c, "Debt not found")
	}
	log.Info().Str("debt_id", debt.ID).Str("month_id", monthID).Str("amount", req.Amount.String()).Msg("Debt payment recorded")
	return c.JSON(http.StatusOK, toDebtResponse(debt))
}

// GetProjection godoc
// @Summary Debt payoff projection
// @Description Balance history with a six month projection at the average payment so far, and the payoff time at the minimum payment
// @Tags debts
// @Produce json
// @Param id path string true "Debt ID"
// @Success 200 {object} ProjectionResponse
// @Failure 404 {object} ErrorResponse
// @Router /debts/{id}/projection [get]
func (h *DebtHandler) GetProjection(c echo.Context) error {
	debt, ok := h.ledger.Debt(c.Param("id"))
	if !ok {
		return NewNotFoundError(c, "Debt not found")
	}
	return c.JSON(http.StatusOK, ProjectionResponse{
		DebtID:      debt.ID,
		Balance:     debt.Balance,
		PercentPaid: calc.PercentPaid(debt.OriginalPrincipal, debt.Balance),
		Payoff:      calc.PayoffProjection(debt.Balance, debt.MinimumPayment, debt.InterestRate),
		History:     calc.BalanceHistory(debt.OriginalPrincipal, debt.InterestRate, debt.MonthlyPayments),
	})
}
