package entity

// Status is an order's position in its processing lifecycle.
type Status string

const (
	// StatusPending is assigned at creation, before the worker picks the
	// order up.
	StatusPending Status = "Pending"
	// StatusProcessing marks an order the worker is currently handling.
	StatusProcessing Status = "Processing"
	// StatusCompleted is the terminal success state.
	StatusCompleted Status = "Completed"
	// StatusFailed is declared in the model but no transition currently
	// reaches it; worker errors are re-raised for redelivery instead.
	StatusFailed Status = "Failed"
)

// transitions is the forward-only lifecycle graph.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing},
	StatusProcessing: {StatusCompleted},
	StatusCompleted:  {},
	StatusFailed:     {},
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether no further transition leaves s.
func (s Status) Terminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// CanTransitionTo reports whether the lifecycle graph allows moving from s
// to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s Status) String() string { return string(s) }
