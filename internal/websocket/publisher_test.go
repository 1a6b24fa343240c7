package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_Publish(t *testing.T) {
	hub := NewHub()
	client := newMockClient("client-1")
	hub.Register(client)

	var publisher EventPublisher = hub
	publisher.Publish(NewEvent(EventTypeCreated, EntityTypeGoal, map[string]interface{}{"id": "g1"}))

	// Allow async broadcast to complete
	time.Sleep(10 * time.Millisecond)

	assert.Len(t, client.GetMessages(), 1)
}

func TestNoOpPublisher_Publish(t *testing.T) {
	publisher := &NoOpPublisher{}

	assert.NotPanics(t, func() {
		publisher.Publish(NewEvent(EventTypeCreated, EntityTypeGoal, nil))
	})
}

func TestChangeListener_ForwardsToHub(t *testing.T) {
	hub := NewHub()
	client := newMockClient("client-1")
	hub.Register(client)

	var listener ledger.Listener = NewChangeListener(hub)
	listener.OnChange(ledger.Change{Entity: ledger.EntityDebt, Action: ledger.ActionDeleted, ID: "d1"})

	time.Sleep(10 * time.Millisecond)

	messages := client.GetMessages()
	require.Len(t, messages, 1)

	var evt Event
	require.NoError(t, json.Unmarshal(messages[0], &evt))
	assert.Equal(t, "debt.deleted", evt.Type)
	assert.Equal(t, "d1", evt.ID)
}
