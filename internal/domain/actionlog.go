package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ActionType labels a state transition. It is derived from the edge,
// never supplied by callers.
type ActionType string

const (
	ActionCreated   ActionType = "created"
	ActionActivated ActionType = "activated"
	ActionPaused    ActionType = "paused"
	ActionCompleted ActionType = "completed"
	ActionDropped   ActionType = "dropped"
)

func (a ActionType) String() string { return string(a) }

// ParseActionType parses an action type name, case-insensitively.
func ParseActionType(s string) (ActionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "created":
		return ActionCreated, nil
	case "activated":
		return ActionActivated, nil
	case "paused":
		return ActionPaused, nil
	case "completed":
		return ActionCompleted, nil
	case "dropped":
		return ActionDropped, nil
	}
	return "", &UnsupportedActionTypeError{Value: s}
}

// ActionLog is an immutable record of one state transition.
// FromState is nil only for the creation record.
type ActionLog struct {
	ID         uuid.UUID  `json:"id"`
	VerbID     uuid.UUID  `json:"verb_id"`
	ActionType ActionType `json:"action_type"`
	FromState  *VerbState `json:"from_state,omitempty"`
	ToState    VerbState  `json:"to_state"`
	Reason     string     `json:"reason,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
}

func newCreatedLog(verbID uuid.UUID, now time.Time) ActionLog {
	return ActionLog{
		ID:         uuid.New(),
		VerbID:     verbID,
		ActionType: ActionCreated,
		FromState:  nil,
		ToState:    StateCaptured,
		Timestamp:  now,
	}
}

func newTransitionLog(verbID uuid.UUID, from, to VerbState, reason string, now time.Time) ActionLog {
	return ActionLog{
		ID:         uuid.New(),
		VerbID:     verbID,
		ActionType: inferActionType(&from, to),
		FromState:  &from,
		ToState:    to,
		Reason:     reason,
		Timestamp:  now,
	}
}

func inferActionType(from *VerbState, to VerbState) ActionType {
	switch {
	case from == nil && to == StateCaptured:
		return ActionCreated
	case to == StateDropped:
		return ActionDropped
	case to == StatePaused:
		return ActionPaused
	case to == StateDone:
		return ActionCompleted
	default:
		return ActionActivated
	}
}
