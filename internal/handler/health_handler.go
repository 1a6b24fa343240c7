package handler

import (
	"net/http"

	"github.com/dafibh/fintrack/fintrack-backend/internal/ledger"
	"github.com/dafibh/fintrack/fintrack-backend/internal/websocket"
	"github.com/labstack/echo/v4"
)

// HealthHandler reports process health
type HealthHandler struct {
	ledger       *ledger.Store
	hub          *websocket.Hub
	aiConfigured bool
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(l *ledger.Store, hub *websocket.Hub, aiConfigured bool) *HealthHandler {
	return &HealthHandler{ledger: l, hub: hub, aiConfigured: aiConfigured}
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status        string `json:"status"`
	ActiveMonth   string `json:"activeMonth"`
	PersistErrors int64  `json:"persistErrors"`
	AIConfigured  bool   `json:"aiConfigured"`
	Clients       int    `json:"clients"`
}

// Health godoc
// @Summary Health check
// @Description Status is "degraded" once a ledger write has failed to persist
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c echo.Context) error {
	status := "ok"
	errs := h.ledger.PersistErrors()
	if errs > 0 {
		status = "degraded"
	}
	return c.JSON(http.StatusOK, HealthResponse{
		Status:        status,
		ActiveMonth:   h.ledger.ActiveMonth(),
		PersistErrors: errs,
		AIConfigured:  h.aiConfigured,
		Clients:       h.hub.ClientCount(),
	})
}
