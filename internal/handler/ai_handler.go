package handler

import (
	"net/http"
	"strings"

	"github.com/dafibh/fintrack/fintrack-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// AIHandler exposes the completion backed advisory actions. Every action answers 200;
// a fallback result is flagged rather than reported as an error.
type AIHandler struct {
	insights *service.InsightService
}

// NewAIHandler creates a new AIHandler
func NewAIHandler(insights *service.InsightService) *AIHandler {
	return &AIHandler{insights: insights}
}

// AskRequest represents a knowledge question
type AskRequest struct {
	Question string `json:"question"`
}

// AnswerResponse holds the answer to a knowledge question
type AnswerResponse struct {
	Answer   string `json:"answer"`
	Fallback bool   `json:"fallback"`
}

// GenerateInsights godoc
// @Summary Generate AI insights
// @Description Recommendations and a health report for the current ledger. Non-fallback recommendations are saved.
// @Tags ai
// @Produce json
// @Success 200 {object} service.Insights
// @Failure 429 {object} ErrorResponse
// @Router /openai/generate-insights [post]
func (h *AIHandler) GenerateInsights(c echo.Context) error {
	return c.JSON(http.StatusOK, h.insights.GenerateInsights(c.Request().Context()))
}

// Categorize godoc
// @Summary Categorize an expense with AI
// @Description Falls back to keyword matching when the completion service fails
// @Tags ai
// @Accept json
// @Produce json
// @Param request body CategorizeRequest true "Description"
// @Success 200 {object} service.AIResult[domain.ExpenseCategory]
// @Failure 400 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /openai/categorize [post]
func (h *AIHandler) Categorize(c echo.Context) error {
	var req CategorizeRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body")
	}
	return c.JSON(http.StatusOK, h.insights.Categorize(c.Request().Context(), req.Description))
}

// AnalyzeHealth godoc
// @Summary Financial health analysis
// @Tags ai
// @Produce json
// @Success 200 {object} service.AIResult[ai.HealthReport]
// @Failure 429 {object} ErrorResponse
// @Router /openai/analyze-health [post]
func (h *AIHandler) AnalyzeHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, h.insights.AnalyzeHealth(c.Request().Context()))
}

// PrioritizeGoals godoc
// @Summary Rank goals
// @Tags ai
// @Produce json
// @Success 200 {object} service.AIResult[[]ai.GoalPriority]
// @Failure 429 {object} ErrorResponse
// @Router /openai/prioritize-goals [post]
func (h *AIHandler) PrioritizeGoals(c echo.Context) error {
	return c.JSON(http.StatusOK, h.insights.PrioritizeGoals(c.Request().Context()))
}

// GoalRecommendations godoc
// @Summary Goal recommendations
// @Tags ai
// @Produce json
// @Success 200 {object} service.AIResult[[]domain.Recommendation]
// @Failure 429 {object} ErrorResponse
// @Router /openai/goal-recommendations [post]
func (h *AIHandler) GoalRecommendations(c echo.Context) error {
	return c.JSON(http.StatusOK, h.insights.GoalRecommendations(c.Request().Context()))
}

// AnalyzeSpending godoc
// @Summary Spending optimization analysis
// @Tags ai
// @Produce json
// @Success 200 {object} service.AIResult[ai.SpendingReport]
// @Failure 429 {object} ErrorResponse
// @Router /openai/analyze-spending [post]
func (h *AIHandler) AnalyzeSpending(c echo.Context) error {
	return c.JSON(http.StatusOK, h.insights.AnalyzeSpending(c.Request().Context()))
}

// Ask godoc
// @Summary Ask a personal finance question
// @Tags ai
// @Accept json
// @Produce json
// @Param request body AskRequest true "Question"
// @Success 200 {object} AnswerResponse
// @Failure 400 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /knowledge/ask [post]
func (h *AIHandler) Ask(c echo.Context) error {
	var req AskRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body")
	}
	if strings.TrimSpace(req.Question) == "" {
		return NewValidationError(c, "Question is required")
	}
	res := h.insights.Ask(c.Request().Context(), req.Question)
	return c.JSON(http.StatusOK, AnswerResponse{Answer: res.Result, Fallback: res.Fallback})
}
