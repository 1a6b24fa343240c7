package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/smtp"
	"testing"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/jordan-wright/email"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	got []Notification
	err error
}

func (r *recordingNotifier) Notify(ctx context.Context, n Notification) error {
	r.got = append(r.got, n)
	return r.err
}

func testNotification() Notification {
	return Notification{
		Recipient: "sam@example.com",
		Name:      "Sam",
		Subject:   Subject(domain.AlertTypeBudgetWarning),
		Alert: domain.Alert{
			ID:      "a1",
			Type:    domain.AlertTypeBudgetWarning,
			Message: "You have used 85% of your Food budget for January 2024.",
		},
		SentAt: time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC),
	}
}

func TestMulti_SendsToAllAndJoinsErrors(t *testing.T) {
	ok := &recordingNotifier{}
	failing := &recordingNotifier{err: errors.New("down")}

	err := Multi{ok, nil, failing}.Notify(context.Background(), testNotification())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "down")
	assert.Len(t, ok.got, 1)
	assert.Len(t, failing.got, 1)
}

func TestEmailNotifier_Notify(t *testing.T) {
	n := NewEmailNotifier(SMTPConfig{Host: "smtp.example.com", Port: "587", Username: "u", Password: "p", From: "alerts@example.com"}, zerolog.Nop())

	var sent *email.Email
	var sentAddr string
	n.send = func(e *email.Email, addr string, auth smtp.Auth) error {
		sent, sentAddr = e, addr
		return nil
	}

	require.NoError(t, n.Notify(context.Background(), testNotification()))
	require.NotNil(t, sent)
	assert.Equal(t, "smtp.example.com:587", sentAddr)
	assert.Equal(t, []string{"sam@example.com"}, sent.To)
	assert.Equal(t, "Budget warning", sent.Subject)
	assert.Contains(t, string(sent.Text), "Hello Sam,")
	assert.Contains(t, string(sent.Text), "85% of your Food budget")
}

func TestEmailNotifier_Errors(t *testing.T) {
	n := NewEmailNotifier(SMTPConfig{Host: "smtp.example.com", Port: "25"}, zerolog.Nop())
	n.send = func(e *email.Email, addr string, auth smtp.Auth) error { return errors.New("refused") }

	noRecipient := testNotification()
	noRecipient.Recipient = ""
	assert.ErrorIs(t, n.Notify(context.Background(), noRecipient), ErrNoRecipient)

	err := n.Notify(context.Background(), testNotification())
	assert.ErrorContains(t, err, "refused")
}

func TestEncodeNotification(t *testing.T) {
	body, err := encodeNotification(testNotification())
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "Budget warning", decoded["subject"])
	alert := decoded["alert"].(map[string]interface{})
	assert.Equal(t, domain.AlertTypeBudgetWarning, alert["type"])
}
