// Package sale defines the sale lifecycle gate: a two-state machine that
// controls whether minting is currently permitted.
package sale

import "fmt"

// State is the sale lifecycle state.
type State string

const (
	// StateActive permits minting.
	StateActive State = "active"
	// StateInactive blocks minting. The gate latches to this state when
	// supply is exhausted; an admin can also set it via Pause.
	StateInactive State = "inactive"
)

// Valid reports whether s is a known state.
func (s State) Valid() bool {
	return s == StateActive || s == StateInactive
}

// Active reports whether minting is permitted in this state.
func (s State) Active() bool { return s == StateActive }

// FromActive converts the boolean sale flag into a State.
func FromActive(active bool) State {
	if active {
		return StateActive
	}
	return StateInactive
}

// Parse converts a stored string into a State.
func Parse(s string) (State, error) {
	st := State(s)
	if !st.Valid() {
		return "", fmt.Errorf("sale: unknown state %q", s)
	}
	return st, nil
}
