package websocket

import "github.com/dafibh/fintrack/fintrack-backend/internal/ledger"

// EventPublisher defines the interface for publishing events to WebSocket clients
type EventPublisher interface {
	Publish(event Event)
}

// Ensure Hub implements EventPublisher
var _ EventPublisher = (*Hub)(nil)

// Publish implements EventPublisher by broadcasting the event
func (h *Hub) Publish(event Event) {
	h.Broadcast(event)
}

// NoOpPublisher is a publisher that does nothing (for testing or when WebSocket is disabled)
type NoOpPublisher struct{}

// Publish does nothing
func (n *NoOpPublisher) Publish(event Event) {}

// ChangeListener forwards ledger changes to a publisher
type ChangeListener struct {
	publisher EventPublisher
}

var _ ledger.Listener = (*ChangeListener)(nil)

func NewChangeListener(publisher EventPublisher) *ChangeListener {
	return &ChangeListener{publisher: publisher}
}

// OnChange implements ledger.Listener
func (l *ChangeListener) OnChange(c ledger.Change) {
	l.publisher.Publish(FromChange(c))
}
