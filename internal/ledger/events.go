package ledger

// Entity names carried by change events
const (
	EntityIncome         = "income"
	EntityExpense        = "expense"
	EntityBudget         = "budget"
	EntityDebt           = "debt"
	EntityGoal           = "goal"
	EntityScenario       = "scenario"
	EntityMonth          = "month"
	EntityRecommendation = "recommendation"
	EntityAlert          = "alert"
	EntityProfile        = "profile"
	EntityLedger         = "ledger"
)

// Change actions
const (
	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionDeleted   = "deleted"
	ActionRead      = "read"
	ActionCleared   = "cleared"
	ActionActivated = "activated"
	ActionImported  = "imported"
)

// Change describes one mutation applied to the ledger
type Change struct {
	Entity  string
	Action  string
	ID      string
	MonthID string
	Payload interface{}
}

// Listener receives changes after they were applied and persisted
type Listener interface {
	OnChange(c Change)
}

// ListenerFunc adapts a function to Listener
type ListenerFunc func(c Change)

func (f ListenerFunc) OnChange(c Change) { f(c) }

// Listeners fans a change out to several listeners in order
type Listeners []Listener

func (ls Listeners) OnChange(c Change) {
	for _, l := range ls {
		if l != nil {
			l.OnChange(c)
		}
	}
}

// Delta collects the persistence keys dirtied by a reducer step and the changes it produced
type Delta struct {
	keys    []string
	seen    map[string]struct{}
	Changes []Change
}

func (d *Delta) touch(keys ...string) {
	if d.seen == nil {
		d.seen = make(map[string]struct{})
	}
	for _, k := range keys {
		if _, ok := d.seen[k]; ok {
			continue
		}
		d.seen[k] = struct{}{}
		d.keys = append(d.keys, k)
	}
}

func (d *Delta) emit(c Change) {
	d.Changes = append(d.Changes, c)
}

// Keys returns the dirtied keys in the order they were first touched
func (d *Delta) Keys() []string {
	return d.keys
}

// Empty reports whether the step changed nothing
func (d *Delta) Empty() bool {
	return len(d.keys) == 0 && len(d.Changes) == 0
}
