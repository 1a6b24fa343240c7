package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/util"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Store is the single authoritative ledger. Every mutation runs under one lock,
// is written through to the KVStore and is then published to the listeners.
// Write failures are logged and counted, never returned.
type Store struct {
	mu            sync.Mutex
	state         *State
	kv            domain.KVStore
	listeners     Listeners
	logger        zerolog.Logger
	persistErrors int64

	newID func() string
	now   func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithListener adds a listener that receives applied changes
func WithListener(l Listener) Option {
	return func(s *Store) { s.listeners = append(s.listeners, l) }
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the id source
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithLogger sets the parent logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// NewStore loads the ledger from kv. Unreadable or corrupt entries are logged and
// treated as absent, so loading never fails. When no month exists the current
// calendar month is created and made active.
func NewStore(ctx context.Context, kv domain.KVStore, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		logger: log.Logger,
		newID:  uuid.NewString,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With().Str("component", "ledger").Logger()
	s.state = NewState(s.newID, s.now)

	s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) {
	for _, key := range globalKeys {
		s.loadKey(ctx, key)
	}
	for _, m := range s.state.Months {
		for _, key := range MonthKeys(m.ID) {
			s.loadKey(ctx, key)
		}
	}

	var d Delta
	valid := s.state.Months[:0]
	for _, m := range s.state.Months {
		if util.IsValidMonthID(m.ID) {
			valid = append(valid, m)
		}
	}
	s.state.Months = valid
	for _, m := range s.state.Months {
		l := s.state.ensureMonth(m.ID, &d)
		l.Budgets = RecomputeBudgets(l.Budgets, l.Expenses)
	}
	if s.state.ActiveMonth() == "" {
		if n := len(s.state.Months); n > 0 {
			s.state.setActive(s.state.Months[n-1].ID, &d)
		} else {
			s.state.ensureMonth(util.MonthIDFromTime(s.now()), &d)
		}
	}
	s.persist(ctx, d)

	s.logger.Info().
		Int("months", len(s.state.Months)).
		Str("active_month", s.state.ActiveMonth()).
		Msg("Ledger loaded")
}

func (s *Store) loadKey(ctx context.Context, key string) {
	data, err := s.kv.Get(ctx, key)
	if errors.Is(err, domain.ErrKeyNotFound) {
		return
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Failed to read ledger key, using defaults")
		return
	}
	if err := s.state.Decode(key, data); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Corrupt ledger data, treating as absent")
	}
}

// persist writes every key dirtied by d. Caller holds s.mu.
func (s *Store) persist(ctx context.Context, d Delta) {
	for _, key := range d.Keys() {
		data, err := s.state.Encode(key)
		if err == nil {
			err = s.kv.Set(ctx, key, data)
		}
		if err != nil {
			s.persistErrors++
			s.logger.Error().Err(err).Str("key", key).Msg("Failed to persist ledger key")
		}
	}
}

// AddListener subscribes l to changes applied from now on
func (s *Store) AddListener(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// apply runs fn under the lock, persists what it dirtied and publishes its changes
// once the lock is released
func (s *Store) apply(ctx context.Context, fn func(st *State) Delta) {
	s.mu.Lock()
	d := fn(s.state)
	s.persist(ctx, d)
	listeners := append(Listeners(nil), s.listeners...)
	s.mu.Unlock()

	for _, c := range d.Changes {
		listeners.OnChange(c)
	}
}

func (s *Store) read(fn func(st *State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state)
}

// PersistErrors returns how many persistence writes have failed
func (s *Store) PersistErrors() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistErrors
}

// Reads

func (s *Store) ActiveMonth() string {
	var id string
	s.read(func(st *State) { id = st.ActiveMonth() })
	return id
}

func (s *Store) Months() []domain.MonthData {
	var out []domain.MonthData
	s.read(func(st *State) { out = orEmpty(cloneSlice(st.Months)) })
	return out
}

func (s *Store) HasMonth(monthID string) bool {
	var ok bool
	s.read(func(st *State) { ok = st.HasMonth(monthID) })
	return ok
}

func (s *Store) Incomes(monthID string) []domain.Income {
	var out []domain.Income
	s.read(func(st *State) { out = orEmpty(cloneSlice(st.Ledger(monthID).Incomes)) })
	return out
}

func (s *Store) Expenses(monthID string) []domain.Expense {
	var out []domain.Expense
	s.read(func(st *State) { out = orEmpty(cloneSlice(st.Ledger(monthID).Expenses)) })
	return out
}

func (s *Store) Budgets(monthID string) []domain.Budget {
	var out []domain.Budget
	s.read(func(st *State) { out = orEmpty(cloneSlice(st.Ledger(monthID).Budgets)) })
	return out
}

func (s *Store) Goals() []domain.Goal {
	var out []domain.Goal
	s.read(func(st *State) { out = cloneGoals(st.Goals) })
	return out
}

func (s *Store) Goal(id string) (domain.Goal, bool) {
	var (
		goal domain.Goal
		ok   bool
	)
	s.read(func(st *State) {
		if i := st.goalIndex(id); i >= 0 {
			goal, ok = st.Goals[i].Clone(), true
		}
	})
	return goal, ok
}

func (s *Store) Debts() []domain.Debt {
	var out []domain.Debt
	s.read(func(st *State) { out = cloneDebts(st.Debts) })
	return out
}

func (s *Store) Debt(id string) (domain.Debt, bool) {
	var (
		debt domain.Debt
		ok   bool
	)
	s.read(func(st *State) {
		if i := st.debtIndex(id); i >= 0 {
			debt, ok = st.Debts[i].Clone(), true
		}
	})
	return debt, ok
}

func (s *Store) Scenarios() []domain.Scenario {
	var out []domain.Scenario
	s.read(func(st *State) { out = orEmpty(cloneSlice(st.Scenarios)) })
	return out
}

func (s *Store) Recommendations() []domain.Recommendation {
	var out []domain.Recommendation
	s.read(func(st *State) { out = orEmpty(cloneSlice(st.Recommendations)) })
	return out
}

func (s *Store) Alerts() []domain.Alert {
	var out []domain.Alert
	s.read(func(st *State) { out = orEmpty(cloneSlice(st.Alerts)) })
	return out
}

func (s *Store) Profile() domain.UserProfile {
	var p domain.UserProfile
	s.read(func(st *State) { p = st.Profile })
	return p
}

// Summary returns totals, net cashflow and savings rate of monthID
func (s *Store) Summary(monthID string) domain.MonthSummary {
	var out domain.MonthSummary
	s.read(func(st *State) { out = st.Summary(monthID) })
	return out
}

// CompareWithPreviousMonth compares the active month with the calendar month before it
func (s *Store) CompareWithPreviousMonth() (domain.MonthComparison, error) {
	return s.Compare(s.ActiveMonth())
}

// Compare compares monthID with the calendar month before it
func (s *Store) Compare(monthID string) (domain.MonthComparison, error) {
	var (
		out domain.MonthComparison
		err error
	)
	s.read(func(st *State) { out, err = st.Compare(monthID) })
	return out, err
}

func (s *Store) ScenarioProjection(id string) (domain.ScenarioProjection, bool) {
	var (
		out domain.ScenarioProjection
		ok  bool
	)
	s.read(func(st *State) { out, ok = st.ScenarioProjection(id) })
	return out, ok
}

// Snapshot returns a deep copy of the whole ledger
func (s *Store) Snapshot() Snapshot {
	var snap Snapshot
	s.read(func(st *State) { snap = st.Snapshot() })
	return snap
}

// CategorizeExpense maps a free-text description to a category
func (s *Store) CategorizeExpense(description string) domain.ExpenseCategory {
	return CategorizeExpense(description)
}

// Mutations

func (s *Store) AddIncome(ctx context.Context, income domain.Income) domain.Income {
	s.apply(ctx, func(st *State) (d Delta) {
		income, d = st.AddIncome(income)
		return d
	})
	return income
}

// UpdateIncome replaces an income. It reports false, changing nothing, for an unknown id.
func (s *Store) UpdateIncome(ctx context.Context, income domain.Income) bool {
	var ok bool
	s.apply(ctx, func(st *State) (d Delta) {
		ok, d = st.UpdateIncome(income)
		return d
	})
	return ok
}

func (s *Store) DeleteIncome(ctx context.Context, id string) bool {
	var ok bool
	s.apply(ctx, func(st *State) (d Delta) {
		ok, d = st.DeleteIncome(id)
		return d
	})
	return ok
}

func (s *Store) AddExpense(ctx context.Context, expense domain.Expense) domain.Expense {
	s.apply(ctx, func(st *State) (d Delta) {
		expense, d = st.AddExpense(expense)
		return d
	})
	return expense
}

func (s *Store) UpdateExpense(ctx context.Context, expense domain.Expense) bool {
	var ok bool
	s.apply(ctx, func(st *State) (d Delta) {
		ok, d = st.UpdateExpense(expense)
		return d
	})
	return ok
}

func (s *Store) DeleteExpense(ctx context.Context, id string) bool {
	var ok bool
	s.apply(ctx, func(st *State) (d Delta) {
		ok, d = st.DeleteExpense(id)
		return d
	})
	return ok
}

// AddBudget upserts the budget of a category in monthID
func (s *Store) AddBudget(ctx context.Context, monthID string, budget domain.Budget) domain.Budget {
	s.apply(ctx, func(st *State) (d Delta) {
		budget, d = st.AddBudget(monthID, budget)
		return d
	})
	return budget
}

func (s *Store) UpdateBudget(ctx context.Context, monthID string, budget domain.Budget) bool {
	var ok bool
	s.apply(ctx, func(st *State) (d Delta) {
		ok, d = st.UpdateBudget(monthID, budget)
		return d
	})
	return ok
}

func (s *Store) DeleteBudget(ctx context.Context, monthID string, category domain.ExpenseCategory) bool {
	var ok bool
	s.apply(ctx, func(st *State) (d Delta) {
		ok, d = st.DeleteBudget(monthID, category)
		return d
	})
	return ok
}

func (s *Store) AddDebt(ctx context.Context, debt domain.Debt) domain.Debt {
	s.apply(ctx, func(st *State) (d Delta) {
		debt, d = st.AddDebt(debt)
		return d
	})
	return debt
}

func (s *Store) UpdateDebt(ctx context.Context, debt domain.Debt) bool {
	var ok bool
	s.apply(ctx, func(st *State) (d Delta) {
		ok, d = st.UpdateDebt(debt)
		return d
	})
	return ok
}

func (s *Store) DeleteDebt(ctx context.Context, id string) bool {
	var ok bool
	s.apply(ctx, func(st *State) (d Delta) {
		ok, d = st.DeleteDebt(id)
		return d
	})
	return ok
}

// RecordDebtPayment adds a payment to a debt and to the goals linked to it
func (s *Store) RecordDebtPayment(ctx context.Context, debtID, monthID string, amount decimal.Decimal) (domain.Debt, bool) {
	var (
		debt domain.Debt
		ok   bool
	)
	s.apply(ctx, func(st *State) (d Delta) {
		debt, ok, d = st.RecordDebtPayment(debtID, monthID, amount)
		return d
	})
	return debt, ok
}

func (s *Store) AddGoal(ctx context.Context, goal domain.Goal) domain.Goal {
	s.apply(ctx, func(st *State) (d Delta) {
		goal, d = st.AddGoal(goal)
		return d
	})
	return goal
}

func (s *Store) UpdateGoal(ctx context.Context, goal domain.Goal) bool {
	var ok bool
	s.apply(ctx, func(st *State) (d Delta) {
		ok, d = st.UpdateGoal(goal)
		return d
	})
	return ok
}

func (s *Store) DeleteGoal(ctx context.Context, id string) bool {
	var ok bool
	s.apply(ctx, func(st *State) (d Delta) {
		ok, d = st.DeleteGoal(id)
		return d
	})
	return ok
}

func (s *Store) RecordGoalProgress(ctx context.Context, goalID, monthID string, amount decimal.Decimal) (domain.Goal, bool) {
	var (
		goal domain.Goal
		ok   bool
	)
	s.apply(ctx, func(st *State) (d Delta) {
		goal, ok, d = st.RecordGoalProgress(goalID, monthID, amount)
		return d
	})
	return goal, ok
}

func (s *Store) AddScenario(ctx context.Context, sc domain.Scenario) domain.Scenario {
	s.apply(ctx, func(st *State) (d Delta) {
		sc, d = st.AddScenario(sc)
		return d
	})
	return sc
}

func (s *Store) UpdateScenario(ctx context.Context, sc domain.Scenario) bool {
	var ok bool
	s.apply(ctx, func(st *State) (d Delta) {
		ok, d = st.UpdateScenario(sc)
		return d
	})
	return ok
}

func (s *Store) DeleteScenario(ctx context.Context, id string) bool {
	var ok bool
	s.apply(ctx, func(st *State) (d Delta) {
		ok, d = st.DeleteScenario(id)
		return d
	})
	return ok
}

// SetActiveMonth switches the active month. Unknown months return ErrMonthNotFound.
func (s *Store) SetActiveMonth(ctx context.Context, monthID string) error {
	var err error
	s.apply(ctx, func(st *State) (d Delta) {
		d, err = st.SetActiveMonth(monthID)
		return d
	})
	return err
}

// AddMonth creates the month a label resolves to. A month that already exists
// returns ErrMonthExists and nothing is created.
func (s *Store) AddMonth(ctx context.Context, label string) (domain.MonthData, error) {
	var (
		month domain.MonthData
		err   error
	)
	s.apply(ctx, func(st *State) (d Delta) {
		month, d, err = st.AddMonth(label)
		return d
	})
	return month, err
}

// CheckBudgetAlerts returns the alerts raised by this check
func (s *Store) CheckBudgetAlerts(ctx context.Context) []domain.Alert {
	var added []domain.Alert
	s.apply(ctx, func(st *State) (d Delta) {
		added, d = st.CheckBudgetAlerts()
		return d
	})
	return added
}

func (s *Store) CheckUpcomingPayments(ctx context.Context) []domain.Alert {
	var added []domain.Alert
	s.apply(ctx, func(st *State) (d Delta) {
		added, d = st.CheckUpcomingPayments()
		return d
	})
	return added
}

func (s *Store) CheckLowBalance(ctx context.Context) []domain.Alert {
	var added []domain.Alert
	s.apply(ctx, func(st *State) (d Delta) {
		added, d = st.CheckLowBalance()
		return d
	})
	return added
}

func (s *Store) MarkAlertRead(ctx context.Context, id string) bool {
	var ok bool
	s.apply(ctx, func(st *State) (d Delta) {
		ok, d = st.MarkAlertRead(id)
		return d
	})
	return ok
}

func (s *Store) ClearAlerts(ctx context.Context) int {
	var n int
	s.apply(ctx, func(st *State) (d Delta) {
		n, d = st.ClearAlerts()
		return d
	})
	return n
}

func (s *Store) GenerateRecommendations(ctx context.Context) []domain.Recommendation {
	var added []domain.Recommendation
	s.apply(ctx, func(st *State) (d Delta) {
		added, d = st.GenerateRecommendations()
		return d
	})
	return added
}

func (s *Store) AddRecommendations(ctx context.Context, recs []domain.Recommendation) []domain.Recommendation {
	var added []domain.Recommendation
	s.apply(ctx, func(st *State) (d Delta) {
		added, d = st.AddRecommendations(recs)
		return d
	})
	return added
}

func (s *Store) MarkRecommendationRead(ctx context.Context, id string) bool {
	var ok bool
	s.apply(ctx, func(st *State) (d Delta) {
		ok, d = st.MarkRecommendationRead(id)
		return d
	})
	return ok
}

func (s *Store) UpdateProfile(ctx context.Context, profile domain.UserProfile) {
	s.apply(ctx, func(st *State) Delta {
		return st.UpdateProfile(profile)
	})
}

// Import replaces the whole ledger. An invalid snapshot is rejected with
// domain.ErrInvalidInput and nothing changes.
func (s *Store) Import(ctx context.Context, snap Snapshot) error {
	var err error
	s.apply(ctx, func(st *State) (d Delta) {
		d, err = st.Import(snap)
		return d
	})
	return err
}

// Export returns every persisted document keyed by its persistence key
func (s *Store) Export() (map[string][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := make(map[string][]byte)
	keys := append([]string(nil), globalKeys...)
	for _, m := range s.state.Months {
		keys = append(keys, MonthKeys(m.ID)...)
	}
	for _, key := range keys {
		data, err := s.state.Encode(key)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", key, err)
		}
		docs[key] = data
	}
	return docs, nil
}
