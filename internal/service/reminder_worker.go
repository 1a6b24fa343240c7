package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// DefaultReminderSchedule runs the checks every morning at 08:00
const DefaultReminderSchedule = "0 8 * * *"

// ReminderLedger runs the alert checks
type ReminderLedger interface {
	CheckBudgetAlerts(ctx context.Context) []domain.Alert
	CheckUpcomingPayments(ctx context.Context) []domain.Alert
	CheckLowBalance(ctx context.Context) []domain.Alert
}

// ReminderWorker runs the budget, upcoming payment and low balance checks on a cron schedule
type ReminderWorker struct {
	ledger   ReminderLedger
	schedule string
	cron     *cron.Cron
	logger   zerolog.Logger
	mu       sync.Mutex
	running  bool
}

func NewReminderWorker(l ReminderLedger, schedule string, logger zerolog.Logger) *ReminderWorker {
	if schedule == "" {
		schedule = DefaultReminderSchedule
	}
	return &ReminderWorker{
		ledger:   l,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger.With().Str("component", "reminder_worker").Logger(),
	}
}

// Start schedules the checks and runs them once immediately
func (w *ReminderWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	if _, err := w.cron.AddFunc(w.schedule, func() { w.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", w.schedule, err)
	}
	w.cron.Start()
	w.running = true

	w.logger.Info().Str("schedule", w.schedule).Msg("Starting reminder worker")
	go w.RunOnce(ctx)
	return nil
}

// Stop waits for a running check to finish
func (w *ReminderWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	w.logger.Info().Msg("Stopping reminder worker")
	<-w.cron.Stop().Done()
	w.logger.Info().Msg("Reminder worker stopped")
}

// RunOnce runs every check and returns how many alerts were raised
func (w *ReminderWorker) RunOnce(ctx context.Context) int {
	start := time.Now()
	budget := len(w.ledger.CheckBudgetAlerts(ctx))
	payments := len(w.ledger.CheckUpcomingPayments(ctx))
	balance := len(w.ledger.CheckLowBalance(ctx))

	w.logger.Info().
		Int("budget_alerts", budget).
		Int("payment_alerts", payments).
		Int("balance_alerts", balance).
		Dur("elapsed", time.Since(start)).
		Msg("Completed reminder checks")
	return budget + payments + balance
}

func (w *ReminderWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
