package service

import (
	"context"
	"sync"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/ledger"
	"github.com/dafibh/fintrack/fintrack-backend/internal/notify"
	"github.com/rs/zerolog"
)

const notificationQueueSize = 64

// ProfileReader provides the current user profile
type ProfileReader interface {
	Profile() domain.UserProfile
}

// NotificationService listens for new alerts and delivers them according to the
// profile's notification settings. Delivery runs on its own goroutine.
type NotificationService struct {
	profiles ProfileReader
	email    notify.Notifier
	feed     notify.Notifier
	queue    chan domain.Alert
	logger   zerolog.Logger
	now      func() time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
	mu       sync.Mutex
	started  bool
	running  bool
}

// NewNotificationService creates the service. email and feed may be nil.
func NewNotificationService(profiles ProfileReader, email, feed notify.Notifier, logger zerolog.Logger) *NotificationService {
	return &NotificationService{
		profiles: profiles,
		email:    email,
		feed:     feed,
		queue:    make(chan domain.Alert, notificationQueueSize),
		logger:   logger.With().Str("component", "notification_service").Logger(),
		now:      func() time.Time { return time.Now().UTC() },
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

var _ ledger.Listener = (*NotificationService)(nil)

// OnChange queues newly raised alerts. A full queue drops the alert.
func (s *NotificationService) OnChange(c ledger.Change) {
	if c.Entity != ledger.EntityAlert || c.Action != ledger.ActionCreated {
		return
	}
	alert, ok := c.Payload.(domain.Alert)
	if !ok {
		return
	}
	select {
	case s.queue <- alert:
	default:
		s.logger.Warn().Str("alert_id", alert.ID).Msg("Notification queue full, dropping alert")
	}
}

// Start launches the worker once. A stopped service is not restarted.
func (s *NotificationService) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.running = true
	s.mu.Unlock()

	s.logger.Info().
		Bool("email", s.email != nil).
		Bool("feed", s.feed != nil).
		Msg("Starting notification service")
	go s.run(ctx)
}

// Stop delivers nothing further and waits for the worker to exit.
// It is safe to call repeatedly and from several goroutines.
func (s *NotificationService) Stop() {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if !started {
		return
	}

	s.stopOnce.Do(func() {
		close(s.stopCh)
		s.logger.Info().Msg("Notification service stopped")
	})
	<-s.doneCh
}

func (s *NotificationService) run(ctx context.Context) {
	defer close(s.doneCh)
	for {
		select {
		case <-ctx.Done():
			s.setStopped()
			return
		case <-s.stopCh:
			s.setStopped()
			return
		case alert := <-s.queue:
			s.dispatch(ctx, alert)
		}
	}
}

func (s *NotificationService) setStopped() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// wantsEmail reports whether the user opted into email for an alert type
func wantsEmail(prefs domain.EmailNotifications, alertType string) bool {
	switch alertType {
	case domain.AlertTypePaymentDue:
		return prefs.PaymentReminders
	case domain.AlertTypeBudgetWarning, domain.AlertTypeBudgetExceeded, domain.AlertTypeLowBalance:
		return prefs.BudgetAlerts
	default:
		return false
	}
}

func (s *NotificationService) dispatch(ctx context.Context, alert domain.Alert) {
	profile := s.profiles.Profile()
	if !profile.NotificationsEnabled || !profile.AlertPreferences.InstantAlerts {
		return
	}

	n := notify.Notification{
		Recipient: profile.Email,
		Name:      profile.Name,
		Subject:   notify.Subject(alert.Type),
		Alert:     alert,
		SentAt:    s.now(),
	}

	if s.feed != nil {
		if err := s.feed.Notify(ctx, n); err != nil {
			s.logger.Error().Err(err).Str("alert_id", alert.ID).Msg("Failed to publish alert")
		}
	}
	if s.email != nil && profile.Email != "" && wantsEmail(profile.EmailNotifications, alert.Type) {
		if err := s.email.Notify(ctx, n); err != nil {
			s.logger.Error().Err(err).Str("alert_id", alert.ID).Msg("Failed to email alert")
		}
	}
}

func (s *NotificationService) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
