package handler

import (
	"net/http"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/ledger"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ScenarioHandler handles what-if scenario requests
type ScenarioHandler struct {
	ledger *ledger.Store
}

// NewScenarioHandler creates a new ScenarioHandler
func NewScenarioHandler(l *ledger.Store) *ScenarioHandler {
	return &ScenarioHandler{ledger: l}
}

// ScenarioRequest represents the create/update scenario request body
type ScenarioRequest struct {
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	IncomeChange  decimal.Decimal `json:"incomeChange"`
	ExpenseChange decimal.Decimal `json:"expenseChange"`
}

func (r ScenarioRequest) toDomain(id string) (domain.Scenario, error) {
	sc := domain.Scenario{
		ID:            id,
		Name:          r.Name,
		Description:   r.Description,
		IncomeChange:  r.IncomeChange,
		ExpenseChange: r.ExpenseChange,
	}
	return sc, sc.Validate()
}

// GetScenarios godoc
// @Summary List scenarios
// @Tags scenarios
// @Produce json
// @Param userId path string true "User ID (ignored, single user)"
// @Success 200 {array} domain.Scenario
// @Router /scenarios/{userId} [get]
func (h *ScenarioHandler) GetScenarios(c echo.Context) error {
	return c.JSON(http.StatusOK, h.ledger.Scenarios())
}

// CreateScenario godoc
// @Summary Create a scenario
// @Tags scenarios
// @Accept json
// @Produce json
// @Param userId path string true "User ID (ignored, single user)"
// @Param request body ScenarioRequest true "Scenario"
// @Success 201 {object} domain.Scenario
// @Failure 400 {object} ErrorResponse
// @Router /scenarios/{userId} [post]
func (h *ScenarioHandler) CreateScenario(c echo.Context) error {
	var req ScenarioRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body")
	}
	sc, err := req.toDomain("")
	if err != nil {
		return NewDomainError(c, err, "Failed to create scenario")
	}

	created := h.ledger.AddScenario(c.Request().Context(), sc)
	log.Info().Str("scenario_id", created.ID).Msg("Scenario created")
	return c.JSON(http.StatusCreated, created)
}

// UpdateScenario godoc
// @Summary Update a scenario
// @Tags scenarios
// @Accept json
// @Produce json
// @Param id path string true "Scenario ID"
// @Param request body ScenarioRequest true "Scenario"
// @Success 200 {object} UpdatedResponse
// @Failure 400 {object} ErrorResponse
// @Router /scenarios/{id} [put]
func (h *ScenarioHandler) UpdateScenario(c echo.Context) error {
	var req ScenarioRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body")
	}
	sc, err := req.toDomain(c.Param("id"))
	if err != nil {
		return NewDomainError(c, err, "Failed to update scenario")
	}
	updated := h.ledger.UpdateScenario(c.Request().Context(), sc)
	return c.JSON(http.StatusOK, UpdatedResponse{Updated: updated})
}

// DeleteScenario godoc
// @Summary Delete a scenario
// @Tags scenarios
// @Produce json
// @Param id path string true "Scenario ID"
// @Success 200 {object} DeletedResponse
// @Router /scenarios/{id} [delete]
func (h *ScenarioHandler) DeleteScenario(c echo.Context) error {
	deleted := h.ledger.DeleteScenario(c.Request().Context(), c.Param("id"))
	return c.JSON(http.StatusOK, DeletedResponse{Deleted: deleted})
}

// GetProjection godoc
// @Summary Scenario projection
// @Description Applies the scenario to the active month summary
// @Tags scenarios
// @Produce json
// @Param id path string true "Scenario ID"
// @Success 200 {object} domain.ScenarioProjection
// @Failure 404 {object} ErrorResponse
// @Router /scenarios/{id}/projection [get]
func (h *ScenarioHandler) GetProjection(c echo.Context) error {
	projection, ok := h.ledger.ScenarioProjection(c.Param("id"))
	if !ok {
		return NewNotFoundError(c, "Scenario not found")
	}
	return c.JSON(http.StatusOK, projection)
}
