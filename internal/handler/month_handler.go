package handler

import (
	"net/http"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/ledger"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// MonthHandler handles month partition and summary requests
type MonthHandler struct {
	ledger *ledger.Store
}

// NewMonthHandler creates a new MonthHandler
func NewMonthHandler(l *ledger.Store) *MonthHandler {
	return &MonthHandler{ledger: l}
}

// CreateMonthRequest names the month to create, as YYYY-MM or "January 2024"
type CreateMonthRequest struct {
	Month string `json:"month"`
}

// SetActiveMonthRequest selects the active month
type SetActiveMonthRequest struct {
	MonthID string `json:"monthId"`
}

// MonthsResponse lists the months and the active one
type MonthsResponse struct {
	Months      []domain.MonthData `json:"months"`
	ActiveMonth string             `json:"activeMonth"`
}

// GetMonths godoc
// @Summary List months
// @Tags months
// @Produce json
// @Param userId path string true "User ID (ignored, single user)"
// @Success 200 {object} MonthsResponse
// @Router /months/{userId} [get]
func (h *MonthHandler) GetMonths(c echo.Context) error {
	return c.JSON(http.StatusOK, MonthsResponse{Months: h.ledger.Months(), ActiveMonth: h.ledger.ActiveMonth()})
}

// CreateMonth godoc
// @Summary Create a month
// @Description Creates the month and makes it active. Budgets are copied from the latest earlier month with budgets.
// @Tags months
// @Accept json
// @Produce json
// @Param userId path string true "User ID (ignored, single user)"
// @Param request body CreateMonthRequest true "Month"
// @Success 201 {object} domain.MonthData
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /months/{userId} [post]
func (h *MonthHandler) CreateMonth(c echo.Context) error {
	var req CreateMonthRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body")
	}
	month, err := h.ledger.AddMonth(c.Request().Context(), req.Month)
	if err != nil {
		return NewDomainError(c, err, "Failed to create month")
	}
	log.Info().Str("month_id", month.ID).Msg("Month created")
	return c.JSON(http.StatusCreated, month)
}

// SetActiveMonth godoc
// @Summary Set the active month
// @Tags months
// @Accept json
// @Produce json
// @Param request body SetActiveMonthRequest true "Month"
// @Success 200 {object} MonthsResponse
// @Failure 404 {object} ErrorResponse
// @Router /months/active [put]
func (h *MonthHandler) SetActiveMonth(c echo.Context) error {
	var req SetActiveMonthRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body")
	}
	if err := h.ledger.SetActiveMonth(c.Request().Context(), req.MonthID); err != nil {
		return NewDomainError(c, err, "Failed to set active month")
	}
	return c.JSON(http.StatusOK, MonthsResponse{Months: h.ledger.Months(), ActiveMonth: h.ledger.ActiveMonth()})
}

// CompareMonths godoc
// @Summary Compare with the previous month
// @Description Deltas of a month against the previous calendar month. Defaults to the active month.
// @Tags months
// @Produce json
// @Param monthId query string false "Month (YYYY-MM)"
// @Success 200 {object} domain.MonthComparison
// @Failure 400 {object} ErrorResponse
// @Router /months/compare [get]
func (h *MonthHandler) CompareMonths(c echo.Context) error {
	monthID := c.QueryParam("monthId")
	if monthID == "" {
		monthID = h.ledger.ActiveMonth()
	}
	comparison, err := h.ledger.Compare(monthID)
	if err != nil {
		return NewDomainError(c, err, "Failed to compare months")
	}
	return c.JSON(http.StatusOK, comparison)
}

// GetSummary godoc
// @Summary Month summary
// @Tags months
// @Produce json
// @Param userId path string true "User ID (ignored, single user)"
// @Param monthId path string true "Month (YYYY-MM or \"January 2024\")"
// @Success 200 {object} domain.MonthSummary
// @Failure 400 {object} ErrorResponse
// @Router /summary/{userId}/{monthId} [get]
func (h *MonthHandler) GetSummary(c echo.Context) error {
	monthID, err := monthParam(c, "monthId")
	if err != nil {
		return NewDomainError(c, err, "Failed to get summary")
	}
	return c.JSON(http.StatusOK, h.ledger.Summary(monthID))
}
