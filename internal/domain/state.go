package domain

import "strings"

// VerbState is the lifecycle stage of a verb.
type VerbState string

const (
	StateCaptured VerbState = "captured"
	StateActive   VerbState = "active"
	StatePaused   VerbState = "paused"
	StateDone     VerbState = "done"
	StateDropped  VerbState = "dropped"
)

// States lists every lifecycle state.
var States = []VerbState{StateCaptured, StateActive, StatePaused, StateDone, StateDropped}

func (s VerbState) String() string { return string(s) }

// ParseVerbState parses a state name, case-insensitively.
func ParseVerbState(s string) (VerbState, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "captured":
		return StateCaptured, nil
	case "active":
		return StateActive, nil
	case "paused":
		return StatePaused, nil
	case "done":
		return StateDone, nil
	case "dropped":
		return StateDropped, nil
	}
	return "", &UnsupportedStateError{Value: s}
}
