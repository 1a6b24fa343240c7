package handler

import (
	"github.com/dafibh/fintrack/fintrack-backend/internal/middleware"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Handlers groups every HTTP handler the API serves
type Handlers struct {
	Health       *HealthHandler
	Transactions *TransactionHandler
	Budgets      *BudgetHandler
	Goals        *GoalHandler
	Debts        *DebtHandler
	Advisory     *AdvisoryHandler
	Scenarios    *ScenarioHandler
	Months       *MonthHandler
	Profile      *ProfileHandler
	AI           *AIHandler
	HostedKV     *HostedKVHandler
	WebSocket    *WebSocketHandler
	Docs         *DocsHandler
}

// RegisterRoutes sets up all API routes. The AI routes are rate limited per client IP.
// Path segments named userId are accepted and ignored: the ledger has a single user.
func RegisterRoutes(e *echo.Echo, h Handlers, aiLimiter *middleware.RateLimiter) {
	e.GET("/health", h.Health.Health)
	e.GET("/ws", h.WebSocket.HandleWS)
	e.GET("/openapi.json", h.Docs.ServeOpenAPI3Spec)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Income and expense routes
	api.GET("/income/:userId/:monthId", h.Transactions.GetIncomes)
	api.POST("/income/:userId/:monthId", h.Transactions.CreateIncome)
	api.PUT("/income/:id", h.Transactions.UpdateIncome)
	api.DELETE("/income/:id", h.Transactions.DeleteIncome)
	api.GET("/expenses/:userId/:monthId", h.Transactions.GetExpenses)
	api.POST("/expenses/:userId/:monthId", h.Transactions.CreateExpense)
	api.PUT("/expenses/:id", h.Transactions.UpdateExpense)
	api.DELETE("/expenses/:id", h.Transactions.DeleteExpense)
	api.POST("/categorize-expense", h.Profile.CategorizeExpense)

	// Budget routes
	api.GET("/budgets/:userId/:monthId", h.Budgets.GetBudgets)
	api.POST("/budgets/:userId/:monthId", h.Budgets.CreateBudget)
	api.PUT("/budgets/:monthId/:category", h.Budgets.UpdateBudget)
	api.DELETE("/budgets/:monthId/:category", h.Budgets.DeleteBudget)

	// Goal routes
	api.GET("/goals/:userId", h.Goals.GetGoals)
	api.POST("/goals/:userId", h.Goals.CreateGoal)
	api.PUT("/goals/:id", h.Goals.UpdateGoal)
	api.DELETE("/goals/:id", h.Goals.DeleteGoal)
	api.POST("/goals/:id/progress", h.Goals.RecordProgress)

	// Debt routes
	api.GET("/debts/:userId", h.Debts.GetDebts)
	api.POST("/debts/:userId", h.Debts.CreateDebt)
	api.PUT("/debts/:id", h.Debts.UpdateDebt)
	api.DELETE("/debts/:id", h.Debts.DeleteDebt)
	api.POST("/debts/:id/payments", h.Debts.RecordPayment)
	api.GET("/debts/:id/projection", h.Debts.GetProjection)

	// Recommendation and alert routes
	api.GET("/recommendations/:userId", h.Advisory.GetRecommendations)
	api.POST("/recommendations/generate", h.Advisory.GenerateRecommendations)
	api.POST("/recommendations/:userId", h.Advisory.CreateRecommendation)
	api.PUT("/recommendations/:id/read", h.Advisory.MarkRecommendationRead)
	api.GET("/alerts/:userId", h.Advisory.GetAlerts)
	api.POST("/alerts/check", h.Advisory.CheckAlerts)
	api.PUT("/alerts/:id/read", h.Advisory.MarkAlertRead)
	api.DELETE("/alerts", h.Advisory.ClearAlerts)

	// Scenario routes
	api.GET("/scenarios/:userId", h.Scenarios.GetScenarios)
	api.POST("/scenarios/:userId", h.Scenarios.CreateScenario)
	api.PUT("/scenarios/:id", h.Scenarios.UpdateScenario)
	api.DELETE("/scenarios/:id", h.Scenarios.DeleteScenario)
	api.GET("/scenarios/:id/projection", h.Scenarios.GetProjection)

	// Month routes
	api.GET("/months/compare", h.Months.CompareMonths)
	api.PUT("/months/active", h.Months.SetActiveMonth)
	api.GET("/months/:userId", h.Months.GetMonths)
	api.POST("/months/:userId", h.Months.CreateMonth)
	api.GET("/summary/:userId/:monthId", h.Months.GetSummary)

	// Profile routes
	api.GET("/user-profile/:userId", h.Profile.GetProfile)
	api.PUT("/user-profile/:userId", h.Profile.UpdateProfile)

	// AI routes (rate limited)
	limited := middleware.RateLimitMiddleware(aiLimiter)
	api.POST("/openai/generate-insights", h.AI.GenerateInsights, limited)
	api.POST("/openai/categorize", h.AI.Categorize, limited)
	api.POST("/openai/analyze-health", h.AI.AnalyzeHealth, limited)
	api.POST("/openai/prioritize-goals", h.AI.PrioritizeGoals, limited)
	api.POST("/openai/goal-recommendations", h.AI.GoalRecommendations, limited)
	api.POST("/openai/analyze-spending", h.AI.AnalyzeSpending, limited)
	api.POST("/knowledge/ask", h.AI.Ask, limited)

	// Hosted key/value routes
	api.POST("/save-data", h.HostedKV.SaveData)
	api.GET("/replit-db", h.HostedKV.ListKeys)
	api.GET("/replit-db/:key", h.HostedKV.GetValue)
	api.PUT("/replit-db/:key", h.HostedKV.SetValue)
	api.DELETE("/replit-db/:key", h.HostedKV.DeleteValue)
}
