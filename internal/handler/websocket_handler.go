package handler

import (
	"net/http"

	"github.com/dafibh/fintrack/fintrack-backend/internal/websocket"
	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler subscribes browser tabs to the ledger change feed at GET /ws
type WebSocketHandler struct {
	hub            *websocket.Hub
	allowedOrigins map[string]bool
	upgrader       ws.Upgrader
	logger         zerolog.Logger
}

// NewWebSocketHandler only accepts browser origins listed in allowedOrigins,
// the same list CORS uses.
func NewWebSocketHandler(hub *websocket.Hub, allowedOrigins []string) *WebSocketHandler {
	h := &WebSocketHandler{
		hub:            hub,
		allowedOrigins: make(map[string]bool, len(allowedOrigins)),
		logger:         log.With().Str("component", "change_feed").Logger(),
	}
	for _, origin := range allowedOrigins {
		h.allowedOrigins[origin] = true
	}

	// events are small JSON documents and subscribers send nothing but control frames
	h.upgrader = ws.Upgrader{
		ReadBufferSize:  512,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	// finctl and other non-browser clients send no Origin
	if origin == "" || h.allowedOrigins[origin] {
		return true
	}

	h.logger.Warn().
		Str("origin", origin).
		Str("remote_addr", r.RemoteAddr).
		Msg("Change feed subscription rejected: origin not allowed")
	return false
}

// HandleWS upgrades the request and streams ledger events until the tab closes
func (h *WebSocketHandler) HandleWS(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("Change feed upgrade failed")
		return err
	}

	client := websocket.NewClient(conn, h.hub)
	h.hub.Register(client)

	h.logger.Info().
		Str("client_id", client.ID()).
		Int("subscribers", h.hub.ClientCount()).
		Msg("Change feed subscriber connected")

	go client.Serve()
	return nil
}
