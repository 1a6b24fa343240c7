package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/calc"
	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/util"
	"github.com/shopspring/decimal"
)

// MonthLedger holds the month scoped collections of one month
type MonthLedger struct {
	Incomes  []domain.Income
	Expenses []domain.Expense
	Budgets  []domain.Budget
}

// State is the in-memory ledger. Its methods apply one mutation each and report
// the persistence keys they dirtied; they never perform I/O.
type State struct {
	Profile         domain.UserProfile
	Months          []domain.MonthData
	Ledgers         map[string]*MonthLedger
	Goals           []domain.Goal
	Debts           []domain.Debt
	Scenarios       []domain.Scenario
	Recommendations []domain.Recommendation
	Alerts          []domain.Alert

	newID func() string
	now   func() time.Time
}

// NewState returns an empty ledger with the default profile
func NewState(newID func() string, now func() time.Time) *State {
	return &State{
		Profile: domain.DefaultUserProfile(),
		Ledgers: make(map[string]*MonthLedger),
		newID:   newID,
		now:     now,
	}
}

// ActiveMonth returns the id of the active month, or "" when no month exists
func (s *State) ActiveMonth() string {
	for _, m := range s.Months {
		if m.IsActive {
			return m.ID
		}
	}
	return ""
}

// HasMonth reports whether monthID is a known month
func (s *State) HasMonth(monthID string) bool {
	for _, m := range s.Months {
		if m.ID == monthID {
			return true
		}
	}
	return false
}

// Ledger returns the collections of monthID. Unknown months yield an empty ledger.
func (s *State) Ledger(monthID string) *MonthLedger {
	if l, ok := s.Ledgers[monthID]; ok {
		return l
	}
	return &MonthLedger{}
}

// ensureMonth returns the ledger of monthID, creating the month on first use.
// New months get budgets seeded from the latest earlier month.
func (s *State) ensureMonth(monthID string, d *Delta) *MonthLedger {
	if s.HasMonth(monthID) {
		l, ok := s.Ledgers[monthID]
		if !ok {
			l = &MonthLedger{}
			s.Ledgers[monthID] = l
		}
		return l
	}

	month := domain.MonthData{
		ID:       monthID,
		Name:     util.MonthName(monthID),
		IsActive: s.ActiveMonth() == "",
	}
	l := &MonthLedger{Budgets: SeedBudgets(s.priorBudgets(monthID))}
	s.Months = append(s.Months, month)
	sort.Slice(s.Months, func(i, j int) bool { return s.Months[i].ID < s.Months[j].ID })
	s.Ledgers[monthID] = l

	d.touch(KeyMonths)
	if len(l.Budgets) > 0 {
		d.touch(BudgetsKey(monthID))
	}
	d.emit(Change{Entity: EntityMonth, Action: ActionCreated, ID: monthID, MonthID: monthID, Payload: month})
	return l
}

// priorBudgets returns the budgets of the most recent month before monthID
func (s *State) priorBudgets(monthID string) []domain.Budget {
	prior := ""
	for _, m := range s.Months {
		if m.ID < monthID && m.ID > prior {
			prior = m.ID
		}
	}
	if prior == "" {
		return nil
	}
	return s.Ledger(prior).Budgets
}

func (s *State) setActive(monthID string, d *Delta) {
	for i := range s.Months {
		s.Months[i].IsActive = s.Months[i].ID == monthID
	}
	d.touch(KeyMonths)
	d.emit(Change{Entity: EntityMonth, Action: ActionActivated, ID: monthID, MonthID: monthID})
}

// SetActiveMonth switches the month exposed by the month scoped getters
func (s *State) SetActiveMonth(monthID string) (Delta, error) {
	var d Delta
	if !s.HasMonth(monthID) {
		return d, fmt.Errorf("%w: %s", domain.ErrMonthNotFound, monthID)
	}
	s.setActive(monthID, &d)
	return d, nil
}

// AddMonth creates the month a label resolves to and makes it active
func (s *State) AddMonth(label string) (domain.MonthData, Delta, error) {
	var d Delta
	monthID, err := util.ParseMonthLabel(label)
	if err != nil {
		return domain.MonthData{}, d, err
	}
	if s.HasMonth(monthID) {
		return domain.MonthData{}, d, fmt.Errorf("%w: %s", domain.ErrMonthExists, monthID)
	}

	s.ensureMonth(monthID, &d)
	s.setActive(monthID, &d)
	for _, m := range s.Months {
		if m.ID == monthID {
			return m, d, nil
		}
	}
	return domain.MonthData{}, d, nil
}

// Summary returns the derived cashflow values of monthID
func (s *State) Summary(monthID string) domain.MonthSummary {
	l := s.Ledger(monthID)
	return Summarize(monthID, l.Incomes, l.Expenses)
}

// Compare returns the deltas of monthID versus the calendar month before it
func (s *State) Compare(monthID string) (domain.MonthComparison, error) {
	prevID, err := util.PreviousMonthID(monthID)
	if err != nil {
		return domain.MonthComparison{}, err
	}
	prev := s.Ledger(prevID)
	hasData := len(prev.Incomes) > 0 || len(prev.Expenses) > 0
	return Compare(s.Summary(monthID), s.Summary(prevID), hasData), nil
}

// Income

func (s *State) AddIncome(income domain.Income) (domain.Income, Delta) {
	var d Delta
	income.ID = s.newID()
	income.MonthID = util.MonthIDFromTime(income.Date)
	l := s.ensureMonth(income.MonthID, &d)
	l.Incomes = append(l.Incomes, income)

	d.touch(IncomesKey(income.MonthID))
	d.emit(Change{Entity: EntityIncome, Action: ActionCreated, ID: income.ID, MonthID: income.MonthID, Payload: income})
	return income, d
}

func (s *State) findIncome(id string) (string, int) {
	for monthID, l := range s.Ledgers {
		for i, inc := range l.Incomes {
			if inc.ID == id {
				return monthID, i
			}
		}
	}
	return "", -1
}

// UpdateIncome replaces the income with the same id. A date in another month
// moves the record to that month.
func (s *State) UpdateIncome(income domain.Income) (bool, Delta) {
	var d Delta
	oldMonth, idx := s.findIncome(income.ID)
	if idx < 0 {
		return false, d
	}

	income.MonthID = util.MonthIDFromTime(income.Date)
	if income.MonthID == oldMonth {
		s.Ledgers[oldMonth].Incomes[idx] = income
	} else {
		old := s.Ledgers[oldMonth]
		old.Incomes = append(old.Incomes[:idx], old.Incomes[idx+1:]...)
		l := s.ensureMonth(income.MonthID, &d)
		l.Incomes = append(l.Incomes, income)
		d.touch(IncomesKey(oldMonth))
	}

	d.touch(IncomesKey(income.MonthID))
	d.emit(Change{Entity: EntityIncome, Action: ActionUpdated, ID: income.ID, MonthID: income.MonthID, Payload: income})
	return true, d
}

func (s *State) DeleteIncome(id string) (bool, Delta) {
	var d Delta
	monthID, idx := s.findIncome(id)
	if idx < 0 {
		return false, d
	}
	l := s.Ledgers[monthID]
	l.Incomes = append(l.Incomes[:idx], l.Incomes[idx+1:]...)

	d.touch(IncomesKey(monthID))
	d.emit(Change{Entity: EntityIncome, Action: ActionDeleted, ID: id, MonthID: monthID})
	return true, d
}

// Expense

// AddExpense appends an expense, recomputes the month's budgets and records a
// debt payment when the expense is linked to a debt
func (s *State) AddExpense(expense domain.Expense) (domain.Expense, Delta) {
	var d Delta
	expense.ID = s.newID()
	expense.MonthID = util.MonthIDFromTime(expense.Date)
	l := s.ensureMonth(expense.MonthID, &d)
	l.Expenses = append(l.Expenses, expense)

	d.touch(ExpensesKey(expense.MonthID))
	d.emit(Change{Entity: EntityExpense, Action: ActionCreated, ID: expense.ID, MonthID: expense.MonthID, Payload: expense})
	s.recomputeBudgets(expense.MonthID, &d)
	if expense.AssociatedDebtID != "" {
		s.applyDebtPayment(expense.AssociatedDebtID, expense.MonthID, expense.Amount, &d)
	}
	s.checkBudgetAlerts(&d)
	return expense, d
}

func (s *State) findExpense(id string) (string, int) {
	for monthID, l := range s.Ledgers {
		for i, e := range l.Expenses {
			if e.ID == id {
				return monthID, i
			}
		}
	}
	return "", -1
}

func (s *State) UpdateExpense(expense domain.Expense) (bool, Delta) {
	var d Delta
	oldMonth, idx := s.findExpense(expense.ID)
	if idx < 0 {
		return false, d
	}

	old := s.Ledgers[oldMonth].Expenses[idx]
	expense.MonthID = util.MonthIDFromTime(expense.Date)
	if expense.MonthID == oldMonth {
		s.Ledgers[oldMonth].Expenses[idx] = expense
	} else {
		ol := s.Ledgers[oldMonth]
		ol.Expenses = append(ol.Expenses[:idx], ol.Expenses[idx+1:]...)
		l := s.ensureMonth(expense.MonthID, &d)
		l.Expenses = append(l.Expenses, expense)
		d.touch(ExpensesKey(oldMonth))
		s.recomputeBudgets(oldMonth, &d)
	}

	d.touch(ExpensesKey(expense.MonthID))
	d.emit(Change{Entity: EntityExpense, Action: ActionUpdated, ID: expense.ID, MonthID: expense.MonthID, Payload: expense})
	s.recomputeBudgets(expense.MonthID, &d)
	if old.AssociatedDebtID != "" {
		s.applyDebtPayment(old.AssociatedDebtID, old.MonthID, old.Amount.Neg(), &d)
	}
	if expense.AssociatedDebtID != "" {
		s.applyDebtPayment(expense.AssociatedDebtID, expense.MonthID, expense.Amount, &d)
	}
	s.checkBudgetAlerts(&d)
	return true, d
}

func (s *State) DeleteExpense(id string) (bool, Delta) {
	var d Delta
	monthID, idx := s.findExpense(id)
	if idx < 0 {
		return false, d
	}
	l := s.Ledgers[monthID]
	old := l.Expenses[idx]
	l.Expenses = append(l.Expenses[:idx], l.Expenses[idx+1:]...)

	d.touch(ExpensesKey(monthID))
	d.emit(Change{Entity: EntityExpense, Action: ActionDeleted, ID: id, MonthID: monthID})
	s.recomputeBudgets(monthID, &d)
	if old.AssociatedDebtID != "" {
		s.applyDebtPayment(old.AssociatedDebtID, monthID, old.Amount.Neg(), &d)
	}
	s.checkBudgetAlerts(&d)
	return true, d
}

// Budget

func (s *State) recomputeBudgets(monthID string, d *Delta) {
	l, ok := s.Ledgers[monthID]
	if !ok || len(l.Budgets) == 0 {
		return
	}
	l.Budgets = RecomputeBudgets(l.Budgets, l.Expenses)
	d.touch(BudgetsKey(monthID))
}

func budgetIndex(budgets []domain.Budget, category domain.ExpenseCategory) int {
	for i, b := range budgets {
		if b.Category == category {
			return i
		}
	}
	return -1
}

// AddBudget sets the limit of a category in monthID, replacing an existing budget
// for the same category
func (s *State) AddBudget(monthID string, budget domain.Budget) (domain.Budget, Delta) {
	var d Delta
	l := s.ensureMonth(monthID, &d)
	budget.Spent = decimal.Zero

	action := ActionCreated
	if i := budgetIndex(l.Budgets, budget.Category); i >= 0 {
		l.Budgets[i] = budget
		action = ActionUpdated
	} else {
		l.Budgets = append(l.Budgets, budget)
	}
	s.recomputeBudgets(monthID, &d)
	budget = l.Budgets[budgetIndex(l.Budgets, budget.Category)]

	d.emit(Change{Entity: EntityBudget, Action: action, ID: string(budget.Category), MonthID: monthID, Payload: budget})
	s.checkBudgetAlerts(&d)
	return budget, d
}

// UpdateBudget replaces the limit of an existing budget. Unknown budgets are left alone.
func (s *State) UpdateBudget(monthID string, budget domain.Budget) (bool, Delta) {
	var d Delta
	l, ok := s.Ledgers[monthID]
	if !ok {
		return false, d
	}
	i := budgetIndex(l.Budgets, budget.Category)
	if i < 0 {
		return false, d
	}
	l.Budgets[i].Limit = budget.Limit
	s.recomputeBudgets(monthID, &d)

	d.emit(Change{Entity: EntityBudget, Action: ActionUpdated, ID: string(budget.Category), MonthID: monthID, Payload: l.Budgets[i]})
	s.checkBudgetAlerts(&d)
	return true, d
}

func (s *State) DeleteBudget(monthID string, category domain.ExpenseCategory) (bool, Delta) {
	var d Delta
	l, ok := s.Ledgers[monthID]
	if !ok {
		return false, d
	}
	i := budgetIndex(l.Budgets, category)
	if i < 0 {
		return false, d
	}
	l.Budgets = append(l.Budgets[:i], l.Budgets[i+1:]...)

	d.touch(BudgetsKey(monthID))
	d.emit(Change{Entity: EntityBudget, Action: ActionDeleted, ID: string(category), MonthID: monthID})
	return true, d
}

// Debt

// recomputeDebt derives balance, monthly balances and paid-off state. Without
// payments the stated balance is kept, including zero; removing the last payment
// resets it to the principal.
func recomputeDebt(debt *domain.Debt, paymentsChanged bool) {
	if len(debt.MonthlyPayments) > 0 {
		debt.Balance = calc.RemainingBalance(debt.OriginalPrincipal, debt.InterestRate, debt.MonthlyPayments)
		debt.MonthlyBalances = calc.MonthlyBalances(debt.OriginalPrincipal, debt.InterestRate, debt.MonthlyPayments)
	} else {
		if paymentsChanged {
			debt.Balance = debt.OriginalPrincipal
		}
		debt.MonthlyBalances = nil
	}
	debt.IsPaidOff = !debt.Balance.IsPositive()
}

func (s *State) debtIndex(id string) int {
	for i, debt := range s.Debts {
		if debt.ID == id {
			return i
		}
	}
	return -1
}

// applyDebtPayment adds amount (negative to reverse) to a debt's payment for
// monthID and mirrors it onto goals linked to the debt
func (s *State) applyDebtPayment(debtID, monthID string, amount decimal.Decimal, d *Delta) bool {
	i := s.debtIndex(debtID)
	if i < 0 {
		return false
	}
	debt := &s.Debts[i]
	debt.MonthlyPayments = addAmount(debt.MonthlyPayments, monthID, amount)
	recomputeDebt(debt, true)

	d.touch(KeyDebts)
	d.emit(Change{Entity: EntityDebt, Action: ActionUpdated, ID: debt.ID, Payload: debt.Clone()})

	for j := range s.Goals {
		goal := &s.Goals[j]
		if goal.AssociatedDebtID != debtID {
			continue
		}
		goal.MonthlyProgress = addAmount(goal.MonthlyProgress, monthID, amount)
		d.touch(KeyGoals)
		d.emit(Change{Entity: EntityGoal, Action: ActionUpdated, ID: goal.ID, Payload: goal.Clone()})
	}
	return true
}

// addAmount adds delta to m[key], dropping the entry when it falls to zero or below
func addAmount(m map[string]decimal.Decimal, key string, delta decimal.Decimal) map[string]decimal.Decimal {
	if m == nil {
		m = make(map[string]decimal.Decimal)
	}
	next := m[key].Add(delta)
	if next.IsPositive() {
		m[key] = next
	} else {
		delete(m, key)
	}
	return m
}

func (s *State) AddDebt(debt domain.Debt) (domain.Debt, Delta) {
	var d Delta
	debt.ID = s.newID()
	recomputeDebt(&debt, false)
	s.Debts = append(s.Debts, debt)

	d.touch(KeyDebts)
	d.emit(Change{Entity: EntityDebt, Action: ActionCreated, ID: debt.ID, Payload: debt.Clone()})
	return debt.Clone(), d
}

func (s *State) UpdateDebt(debt domain.Debt) (bool, Delta) {
	var d Delta
	i := s.debtIndex(debt.ID)
	if i < 0 {
		return false, d
	}
	recomputeDebt(&debt, false)
	s.Debts[i] = debt

	d.touch(KeyDebts)
	d.emit(Change{Entity: EntityDebt, Action: ActionUpdated, ID: debt.ID, Payload: debt.Clone()})
	return true, d
}

func (s *State) DeleteDebt(id string) (bool, Delta) {
	var d Delta
	i := s.debtIndex(id)
	if i < 0 {
		return false, d
	}
	s.Debts = append(s.Debts[:i], s.Debts[i+1:]...)

	d.touch(KeyDebts)
	d.emit(Change{Entity: EntityDebt, Action: ActionDeleted, ID: id})
	return true, d
}

// RecordDebtPayment adds a payment for monthID to a debt
func (s *State) RecordDebtPayment(debtID, monthID string, amount decimal.Decimal) (domain.Debt, bool, Delta) {
	var d Delta
	if !s.applyDebtPayment(debtID, monthID, amount, &d) {
		return domain.Debt{}, false, d
	}
	return s.Debts[s.debtIndex(debtID)].Clone(), true, d
}

// Goal

func (s *State) goalIndex(id string) int {
	for i, goal := range s.Goals {
		if goal.ID == id {
			return i
		}
	}
	return -1
}

func (s *State) AddGoal(goal domain.Goal) (domain.Goal, Delta) {
	var d Delta
	goal.ID = s.newID()
	s.Goals = append(s.Goals, goal)

	d.touch(KeyGoals)
	d.emit(Change{Entity: EntityGoal, Action: ActionCreated, ID: goal.ID, Payload: goal.Clone()})
	return goal.Clone(), d
}

func (s *State) UpdateGoal(goal domain.Goal) (bool, Delta) {
	var d Delta
	i := s.goalIndex(goal.ID)
	if i < 0 {
		return false, d
	}
	s.Goals[i] = goal

	d.touch(KeyGoals)
	d.emit(Change{Entity: EntityGoal, Action: ActionUpdated, ID: goal.ID, Payload: goal.Clone()})
	return true, d
}

func (s *State) DeleteGoal(id string) (bool, Delta) {
	var d Delta
	i := s.goalIndex(id)
	if i < 0 {
		return false, d
	}
	s.Goals = append(s.Goals[:i], s.Goals[i+1:]...)

	d.touch(KeyGoals)
	d.emit(Change{Entity: EntityGoal, Action: ActionDeleted, ID: id})
	return true, d
}

// RecordGoalProgress adds amount to a goal's progress for monthID. Progress may
// exceed the target.
func (s *State) RecordGoalProgress(goalID, monthID string, amount decimal.Decimal) (domain.Goal, bool, Delta) {
	var d Delta
	i := s.goalIndex(goalID)
	if i < 0 {
		return domain.Goal{}, false, d
	}
	goal := &s.Goals[i]
	goal.MonthlyProgress = addAmount(goal.MonthlyProgress, monthID, amount)

	d.touch(KeyGoals)
	d.emit(Change{Entity: EntityGoal, Action: ActionUpdated, ID: goal.ID, Payload: goal.Clone()})
	return goal.Clone(), true, d
}

// Scenario

func (s *State) scenarioIndex(id string) int {
	for i, sc := range s.Scenarios {
		if sc.ID == id {
			return i
		}
	}
	return -1
}

func (s *State) AddScenario(sc domain.Scenario) (domain.Scenario, Delta) {
	var d Delta
	sc.ID = s.newID()
	sc.CreatedAt = s.now()
	s.Scenarios = append(s.Scenarios, sc)

	d.touch(KeyScenarios)
	d.emit(Change{Entity: EntityScenario, Action: ActionCreated, ID: sc.ID, Payload: sc})
	return sc, d
}

func (s *State) UpdateScenario(sc domain.Scenario) (bool, Delta) {
	var d Delta
	i := s.scenarioIndex(sc.ID)
	if i < 0 {
		return false, d
	}
	sc.CreatedAt = s.Scenarios[i].CreatedAt
	s.Scenarios[i] = sc

	d.touch(KeyScenarios)
	d.emit(Change{Entity: EntityScenario, Action: ActionUpdated, ID: sc.ID, Payload: sc})
	return true, d
}

func (s *State) DeleteScenario(id string) (bool, Delta) {
	var d Delta
	i := s.scenarioIndex(id)
	if i < 0 {
		return false, d
	}
	s.Scenarios = append(s.Scenarios[:i], s.Scenarios[i+1:]...)

	d.touch(KeyScenarios)
	d.emit(Change{Entity: EntityScenario, Action: ActionDeleted, ID: id})
	return true, d
}

// ScenarioProjection applies a scenario to the active month
func (s *State) ScenarioProjection(id string) (domain.ScenarioProjection, bool) {
	i := s.scenarioIndex(id)
	if i < 0 {
		return domain.ScenarioProjection{}, false
	}
	return ApplyScenario(s.Scenarios[i], s.Summary(s.ActiveMonth())), true
}

// Alerts

// appendAlerts stores candidates that are not already raised as unread alerts
func (s *State) appendAlerts(candidates []domain.Alert, d *Delta) []domain.Alert {
	var added []domain.Alert
	for _, a := range candidates {
		if a.Key != "" && s.hasUnreadAlert(a.Key) {
			continue
		}
		a.ID = s.newID()
		s.Alerts = append(s.Alerts, a)
		added = append(added, a)

		d.touch(KeyAlerts)
		d.emit(Change{Entity: EntityAlert, Action: ActionCreated, ID: a.ID, Payload: a})
	}
	return added
}

func (s *State) hasUnreadAlert(key string) bool {
	for _, a := range s.Alerts {
		if !a.IsRead && a.Key == key {
			return true
		}
	}
	return false
}

func (s *State) checkBudgetAlerts(d *Delta) []domain.Alert {
	active := s.ActiveMonth()
	if active == "" {
		return nil
	}
	candidates := BudgetAlerts(active, s.Ledger(active).Budgets,
		s.Profile.AlertPreferences.BudgetWarningThreshold, s.Profile.PreferredCurrency, s.now())
	return s.appendAlerts(candidates, d)
}

// CheckBudgetAlerts raises alerts for active month budgets at or above the warning threshold
func (s *State) CheckBudgetAlerts() ([]domain.Alert, Delta) {
	var d Delta
	added := s.checkBudgetAlerts(&d)
	return added, d
}

// CheckUpcomingPayments raises alerts for unpaid debts due soon
func (s *State) CheckUpcomingPayments() ([]domain.Alert, Delta) {
	var d Delta
	prefs := s.Profile.AlertPreferences
	candidates := UpcomingPaymentAlerts(s.Debts, prefs.UpcomingPaymentDays, s.Profile.PreferredCurrency, s.now())
	added := s.appendAlerts(candidates, &d)
	return added, d
}

// CheckLowBalance raises an alert when the active month's net cashflow is under the threshold
func (s *State) CheckLowBalance() ([]domain.Alert, Delta) {
	var d Delta
	active := s.ActiveMonth()
	if active == "" {
		return nil, d
	}
	alert, ok := LowBalanceAlert(s.Summary(active), s.Profile.AlertPreferences.LowBalanceThreshold,
		s.Profile.PreferredCurrency, s.now())
	if !ok {
		return nil, d
	}
	added := s.appendAlerts([]domain.Alert{alert}, &d)
	return added, d
}

func (s *State) MarkAlertRead(id string) (bool, Delta) {
	var d Delta
	for i := range s.Alerts {
		if s.Alerts[i].ID == id {
			s.Alerts[i].IsRead = true
			d.touch(KeyAlerts)
			d.emit(Change{Entity: EntityAlert, Action: ActionRead, ID: id})
			return true, d
		}
	}
	return false, d
}

// ClearAlerts removes every alert and returns how many were removed
func (s *State) ClearAlerts() (int, Delta) {
	var d Delta
	n := len(s.Alerts)
	s.Alerts = nil
	d.touch(KeyAlerts)
	d.emit(Change{Entity: EntityAlert, Action: ActionCleared})
	return n, d
}

// Recommendations

func (s *State) hasUnreadRecommendation(kind, description string) bool {
	for _, r := range s.Recommendations {
		if !r.IsRead && r.Type == kind && r.Description == description {
			return true
		}
	}
	return false
}

// GenerateRecommendations appends rule based recommendations for the active month,
// skipping any that are already present and unread
func (s *State) GenerateRecommendations() ([]domain.Recommendation, Delta) {
	var d Delta
	active := s.ActiveMonth()
	candidates := RuleRecommendations(s.Summary(active), s.Ledger(active).Budgets,
		s.Debts, s.Goals, s.Profile.PreferredCurrency, s.now())

	var fresh []domain.Recommendation
	for _, r := range candidates {
		if !s.hasUnreadRecommendation(r.Type, r.Description) {
			fresh = append(fresh, r)
		}
	}
	added := s.appendRecommendations(fresh, &d)
	return added, d
}

// AddRecommendations appends recommendations as given
func (s *State) AddRecommendations(recs []domain.Recommendation) ([]domain.Recommendation, Delta) {
	var d Delta
	added := s.appendRecommendations(recs, &d)
	return added, d
}

func (s *State) appendRecommendations(recs []domain.Recommendation, d *Delta) []domain.Recommendation {
	added := make([]domain.Recommendation, 0, len(recs))
	for _, r := range recs {
		r.ID = s.newID()
		if r.DateGenerated.IsZero() {
			r.DateGenerated = s.now()
		}
		r.IsRead = false
		s.Recommendations = append(s.Recommendations, r)
		added = append(added, r)

		d.touch(KeyRecommendations)
		d.emit(Change{Entity: EntityRecommendation, Action: ActionCreated, ID: r.ID, Payload: r})
	}
	return added
}

func (s *State) MarkRecommendationRead(id string) (bool, Delta) {
	var d Delta
	for i := range s.Recommendations {
		if s.Recommendations[i].ID == id {
			s.Recommendations[i].IsRead = true
			d.touch(KeyRecommendations)
			d.emit(Change{Entity: EntityRecommendation, Action: ActionRead, ID: id})
			return true, d
		}
	}
	return false, d
}

// Profile

// UpdateProfile replaces the profile and re-evaluates budget alerts against the new threshold
func (s *State) UpdateProfile(profile domain.UserProfile) Delta {
	var d Delta
	s.Profile = profile
	d.touch(KeyUserProfile)
	d.emit(Change{Entity: EntityProfile, Action: ActionUpdated, Payload: profile})
	s.checkBudgetAlerts(&d)
	return d
}
