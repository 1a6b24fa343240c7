package handler

import (
	"net/http"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/ledger"
	"github.com/labstack/echo/v4"
)

// ProfileHandler handles user profile requests
type ProfileHandler struct {
	ledger *ledger.Store
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(l *ledger.Store) *ProfileHandler {
	return &ProfileHandler{ledger: l}
}

// CategorizeRequest represents the categorize expense request body
type CategorizeRequest struct {
	Description string `json:"description"`
}

// CategorizeResponse holds the suggested expense category
type CategorizeResponse struct {
	Category domain.ExpenseCategory `json:"category"`
}

// GetProfile godoc
// @Summary Get the user profile
// @Tags profile
// @Produce json
// @Param userId path string true "User ID (ignored, single user)"
// @Success 200 {object} domain.UserProfile
// @Router /user-profile/{userId} [get]
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	return c.JSON(http.StatusOK, h.ledger.Profile())
}

// UpdateProfile godoc
// @Summary Replace the user profile
// @Description Fields missing from the body keep their default values. Budget alerts are re-evaluated against the new threshold.
// @Tags profile
// @Accept json
// @Produce json
// @Param userId path string true "User ID (ignored, single user)"
// @Param request body domain.UserProfile true "Profile"
// @Success 200 {object} domain.UserProfile
// @Failure 400 {object} ErrorResponse
// @Router /user-profile/{userId} [put]
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	profile := domain.DefaultUserProfile()
	if err := c.Bind(&profile); err != nil {
		return NewValidationError(c, "Invalid request body")
	}
	if err := profile.Validate(); err != nil {
		return NewDomainError(c, err, "Failed to update profile")
	}

	h.ledger.UpdateProfile(c.Request().Context(), profile)
	return c.JSON(http.StatusOK, h.ledger.Profile())
}

// CategorizeExpense godoc
// @Summary Suggest an expense category
// @Description Keyword based categorization that never calls the completion service
// @Tags expenses
// @Accept json
// @Produce json
// @Param request body CategorizeRequest true "Description"
// @Success 200 {object} CategorizeResponse
// @Router /categorize-expense [post]
func (h *ProfileHandler) CategorizeExpense(c echo.Context) error {
	var req CategorizeRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body")
	}
	return c.JSON(http.StatusOK, CategorizeResponse{Category: h.ledger.CategorizeExpense(req.Description)})
}
