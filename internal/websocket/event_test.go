package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	payload := map[string]interface{}{
		"id":     "e1",
		"amount": "100.00",
	}

	before := time.Now()
	evt := NewEvent(EventTypeCreated, EntityTypeExpense, payload)
	after := time.Now()

	assert.Equal(t, "expense.created", evt.Type)
	assert.Equal(t, EntityTypeExpense, evt.Entity)
	assert.Equal(t, payload, evt.Payload)
	assert.True(t, !evt.Timestamp.Before(before) && !evt.Timestamp.After(after))
}

func TestFromChange(t *testing.T) {
	tests := []struct {
		name   string
		change ledger.Change
		want   string
	}{
		{name: "income created", change: ledger.Change{Entity: ledger.EntityIncome, Action: ledger.ActionCreated, ID: "i1", MonthID: "2024-01"}, want: "income.created"},
		{name: "alert read", change: ledger.Change{Entity: ledger.EntityAlert, Action: ledger.ActionRead, ID: "a1"}, want: "alert.read"},
		{name: "month activated", change: ledger.Change{Entity: ledger.EntityMonth, Action: ledger.ActionActivated, MonthID: "2024-02"}, want: "month.activated"},
		{name: "ledger imported", change: ledger.Change{Entity: ledger.EntityLedger, Action: ledger.ActionImported}, want: "ledger.imported"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evt := FromChange(tt.change)

			assert.Equal(t, tt.want, evt.Type)
			assert.Equal(t, EntityType(tt.change.Entity), evt.Entity)
			assert.Equal(t, tt.change.ID, evt.ID)
			assert.Equal(t, tt.change.MonthID, evt.MonthID)
		})
	}
}

func TestEvent_ToJSON(t *testing.T) {
	evt := FromChange(ledger.Change{
		Entity:  ledger.EntityBudget,
		Action:  ledger.ActionUpdated,
		MonthID: "2024-01",
		Payload: map[string]interface{}{"category": "Food"},
	})

	data, err := evt.ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "budget.updated", decoded["type"])
	assert.Equal(t, "budget", decoded["entity"])
	assert.Equal(t, "2024-01", decoded["monthId"])
	assert.NotContains(t, decoded, "id")
	assert.NotNil(t, decoded["payload"])
	assert.NotNil(t, decoded["timestamp"])
}
