package ledger

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/util"
)

// Snapshot is a plain copy of the whole ledger. It is what the AI adapter reads
// and what a bulk save imports.
type Snapshot struct {
	Profile         domain.UserProfile          `json:"userProfile"`
	Months          []domain.MonthData          `json:"months"`
	ActiveMonth     string                      `json:"activeMonth"`
	Incomes         map[string][]domain.Income  `json:"incomes"`
	Expenses        map[string][]domain.Expense `json:"expenses"`
	Budgets         map[string][]domain.Budget  `json:"budgets"`
	Goals           []domain.Goal               `json:"goals"`
	Debts           []domain.Debt               `json:"debts"`
	Scenarios       []domain.Scenario           `json:"scenarios"`
	Recommendations []domain.Recommendation     `json:"recommendations"`
	Alerts          []domain.Alert              `json:"alerts"`
}

// ActiveSummary returns the cashflow summary of the snapshot's active month
func (snap Snapshot) ActiveSummary() domain.MonthSummary {
	return Summarize(snap.ActiveMonth, snap.Incomes[snap.ActiveMonth], snap.Expenses[snap.ActiveMonth])
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func cloneSlice[T any](s []T) []T {
	return append([]T(nil), s...)
}

func cloneGoals(goals []domain.Goal) []domain.Goal {
	out := make([]domain.Goal, len(goals))
	for i, g := range goals {
		out[i] = g.Clone()
	}
	return out
}

func cloneDebts(debts []domain.Debt) []domain.Debt {
	out := make([]domain.Debt, len(debts))
	for i, debt := range debts {
		out[i] = debt.Clone()
	}
	return out
}

// Snapshot returns a deep copy of the state
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		Profile:         s.Profile,
		Months:          cloneSlice(s.Months),
		ActiveMonth:     s.ActiveMonth(),
		Incomes:         make(map[string][]domain.Income, len(s.Ledgers)),
		Expenses:        make(map[string][]domain.Expense, len(s.Ledgers)),
		Budgets:         make(map[string][]domain.Budget, len(s.Ledgers)),
		Goals:           cloneGoals(s.Goals),
		Debts:           cloneDebts(s.Debts),
		Scenarios:       cloneSlice(s.Scenarios),
		Recommendations: cloneSlice(s.Recommendations),
		Alerts:          cloneSlice(s.Alerts),
	}
	for monthID, l := range s.Ledgers {
		snap.Incomes[monthID] = cloneSlice(l.Incomes)
		snap.Expenses[monthID] = cloneSlice(l.Expenses)
		snap.Budgets[monthID] = cloneSlice(l.Budgets)
	}
	return snap
}

func importError(what, id string, err error) error {
	if id == "" {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, what, err)
	}
	return fmt.Errorf("%w: %s %s: %w", domain.ErrInvalidInput, what, id, err)
}

// withIDs assigns a fresh id to every record that has none
func withIDs[T any](items []T, id func(*T) *string, newID func() string) []T {
	out := cloneSlice(items)
	for i := range out {
		if p := id(&out[i]); *p == "" {
			*p = newID()
		}
	}
	return out
}

// normalizeImport validates snap against the same rules as single record writes and
// returns a copy with missing ids assigned. The state is not touched.
func (s *State) normalizeImport(snap Snapshot) (Snapshot, error) {
	out := snap

	if out.Profile.PreferredCurrency == "" {
		out.Profile.PreferredCurrency = domain.DefaultUserProfile().PreferredCurrency
	}
	if err := out.Profile.Validate(); err != nil {
		return Snapshot{}, importError("user profile", "", err)
	}

	out.Incomes = make(map[string][]domain.Income, len(snap.Incomes))
	for monthID, incomes := range snap.Incomes {
		incomes = withIDs(incomes, func(i *domain.Income) *string { return &i.ID }, s.newID)
		for i := range incomes {
			if err := incomes[i].Validate(); err != nil {
				return Snapshot{}, importError("income", incomes[i].ID, err)
			}
		}
		out.Incomes[monthID] = incomes
	}

	out.Expenses = make(map[string][]domain.Expense, len(snap.Expenses))
	for monthID, expenses := range snap.Expenses {
		expenses = withIDs(expenses, func(e *domain.Expense) *string { return &e.ID }, s.newID)
		for i := range expenses {
			if err := expenses[i].Validate(); err != nil {
				return Snapshot{}, importError("expense", expenses[i].ID, err)
			}
		}
		out.Expenses[monthID] = expenses
	}

	for monthID, budgets := range snap.Budgets {
		seen := make(map[domain.ExpenseCategory]bool, len(budgets))
		for i := range budgets {
			if err := budgets[i].Validate(); err != nil {
				return Snapshot{}, importError("budget", string(budgets[i].Category), err)
			}
			if seen[budgets[i].Category] {
				return Snapshot{}, fmt.Errorf("%w: duplicate %s budget in %s", domain.ErrInvalidInput, budgets[i].Category, monthID)
			}
			seen[budgets[i].Category] = true
		}
	}

	out.Debts = withIDs(snap.Debts, func(d *domain.Debt) *string { return &d.ID }, s.newID)
	for i := range out.Debts {
		if err := out.Debts[i].Validate(); err != nil {
			return Snapshot{}, importError("debt", out.Debts[i].ID, err)
		}
	}
	out.Goals = withIDs(snap.Goals, func(g *domain.Goal) *string { return &g.ID }, s.newID)
	for i := range out.Goals {
		if err := out.Goals[i].Validate(); err != nil {
			return Snapshot{}, importError("goal", out.Goals[i].ID, err)
		}
	}
	out.Scenarios = withIDs(snap.Scenarios, func(sc *domain.Scenario) *string { return &sc.ID }, s.newID)
	for i := range out.Scenarios {
		if err := out.Scenarios[i].Validate(); err != nil {
			return Snapshot{}, importError("scenario", out.Scenarios[i].ID, err)
		}
	}
	out.Recommendations = withIDs(snap.Recommendations, func(r *domain.Recommendation) *string { return &r.ID }, s.newID)
	out.Alerts = withIDs(snap.Alerts, func(a *domain.Alert) *string { return &a.ID }, s.newID)
	return out, nil
}

// Import replaces the whole state with snap. Every record is validated first and
// an invalid snapshot leaves the state unchanged. Derived values are recomputed and
// month keys of months that no longer exist are rewritten empty.
func (s *State) Import(snap Snapshot) (Delta, error) {
	var d Delta
	snap, err := s.normalizeImport(snap)
	if err != nil {
		return d, err
	}
	for monthID := range s.Ledgers {
		d.touch(MonthKeys(monthID)...)
	}

	s.Profile = snap.Profile
	s.Goals = cloneGoals(snap.Goals)
	s.Debts = cloneDebts(snap.Debts)
	for i := range s.Debts {
		recomputeDebt(&s.Debts[i], false)
	}
	s.Scenarios = cloneSlice(snap.Scenarios)
	s.Recommendations = cloneSlice(snap.Recommendations)
	s.Alerts = cloneSlice(snap.Alerts)

	s.Months = nil
	s.Ledgers = make(map[string]*MonthLedger)
	ids := make(map[string]struct{})
	for _, m := range snap.Months {
		ids[m.ID] = struct{}{}
	}
	for id := range snap.Incomes {
		ids[id] = struct{}{}
	}
	for id := range snap.Expenses {
		ids[id] = struct{}{}
	}
	for id := range snap.Budgets {
		ids[id] = struct{}{}
	}

	for id := range ids {
		if !util.IsValidMonthID(id) {
			continue
		}
		s.Months = append(s.Months, domain.MonthData{ID: id, Name: util.MonthName(id)})
		l := &MonthLedger{
			Incomes:  cloneSlice(snap.Incomes[id]),
			Expenses: cloneSlice(snap.Expenses[id]),
			Budgets:  cloneSlice(snap.Budgets[id]),
		}
		for i := range l.Incomes {
			l.Incomes[i].MonthID = id
		}
		for i := range l.Expenses {
			l.Expenses[i].MonthID = id
		}
		l.Budgets = RecomputeBudgets(l.Budgets, l.Expenses)
		s.Ledgers[id] = l
		d.touch(MonthKeys(id)...)
	}
	for _, m := range snap.Months {
		for i := range s.Months {
			if s.Months[i].ID == m.ID && m.Name != "" {
				s.Months[i].Name = m.Name
			}
		}
	}
	sort.Slice(s.Months, func(i, j int) bool { return s.Months[i].ID < s.Months[j].ID })

	active := snap.ActiveMonth
	if !s.HasMonth(active) {
		active = ""
		for _, m := range snap.Months {
			if m.IsActive && s.HasMonth(m.ID) {
				active = m.ID
			}
		}
	}
	if active == "" && len(s.Months) > 0 {
		active = s.Months[len(s.Months)-1].ID
	}
	if active == "" {
		active = util.MonthIDFromTime(s.now())
		s.ensureMonth(active, &d)
		d.touch(MonthKeys(active)...)
	}
	for i := range s.Months {
		s.Months[i].IsActive = s.Months[i].ID == active
	}

	d.touch(globalKeys...)
	d.emit(Change{Entity: EntityLedger, Action: ActionImported, MonthID: active})
	return d, nil
}

// value returns the collection persisted under key
func (s *State) value(key string) (interface{}, error) {
	switch key {
	case KeyUserProfile:
		return s.Profile, nil
	case KeyMonths:
		return orEmpty(s.Months), nil
	case KeyGoals:
		return orEmpty(s.Goals), nil
	case KeyDebts:
		return orEmpty(s.Debts), nil
	case KeyScenarios:
		return orEmpty(s.Scenarios), nil
	case KeyRecommendations:
		return orEmpty(s.Recommendations), nil
	case KeyAlerts:
		return orEmpty(s.Alerts), nil
	}

	prefix, monthID, ok := splitMonthKey(key)
	if !ok {
		return nil, fmt.Errorf("unknown ledger key %q", key)
	}
	l := s.Ledger(monthID)
	switch prefix {
	case incomesPrefix:
		return orEmpty(l.Incomes), nil
	case expensesPrefix:
		return orEmpty(l.Expenses), nil
	default:
		return orEmpty(l.Budgets), nil
	}
}

// Encode returns the JSON document persisted under key
func (s *State) Encode(key string) ([]byte, error) {
	v, err := s.value(key)
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

// Decode loads the JSON document stored under key into the state
func (s *State) Decode(key string, data []byte) error {
	switch key {
	case KeyUserProfile:
		profile := domain.DefaultUserProfile()
		if err := json.Unmarshal(data, &profile); err != nil {
			return err
		}
		s.Profile = profile
		return nil
	case KeyMonths:
		return decodeInto(data, &s.Months)
	case KeyGoals:
		return decodeInto(data, &s.Goals)
	case KeyDebts:
		return decodeInto(data, &s.Debts)
	case KeyScenarios:
		return decodeInto(data, &s.Scenarios)
	case KeyRecommendations:
		return decodeInto(data, &s.Recommendations)
	case KeyAlerts:
		return decodeInto(data, &s.Alerts)
	}

	prefix, monthID, ok := splitMonthKey(key)
	if !ok {
		return fmt.Errorf("unknown ledger key %q", key)
	}
	l, exists := s.Ledgers[monthID]
	if !exists {
		l = &MonthLedger{}
		s.Ledgers[monthID] = l
	}
	switch prefix {
	case incomesPrefix:
		return decodeInto(data, &l.Incomes)
	case expensesPrefix:
		return decodeInto(data, &l.Expenses)
	default:
		return decodeInto(data, &l.Budgets)
	}
}

// decodeInto replaces *dst only when data parses
func decodeInto[T any](data []byte, dst *[]T) error {
	var v []T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*dst = v
	return nil
}
