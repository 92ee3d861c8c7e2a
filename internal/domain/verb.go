package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Verb is the aggregate root: a user's intent tracked over time.
// It is created by Verb factory functions and mutated only through
// TransitionTo, which returns the resulting ActionLog so the caller
// can persist both atomically.
type Verb struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	State       VerbState `json:"state"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

const (
	maxTitleLen       = 200
	maxDescriptionLen = 2000
	maxReasonLen      = 500
)

// New creates a verb in the captured state along with its creation log.
func New(title, description string, now time.Time) (*Verb, *ActionLog, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, nil, ErrEmptyTitle
	}
	if len(title) > maxTitleLen {
		return nil, nil, ErrTitleTooLong
	}
	if len(description) > maxDescriptionLen {
		return nil, nil, ErrDescriptionTooLong
	}
	v := &Verb{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		State:       StateCaptured,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	log := newCreatedLog(v.ID, now)
	return v, &log, nil
}

// FromParts reconstructs a verb from persistence.
func FromParts(id uuid.UUID, title, description string, state VerbState, createdAt, updatedAt time.Time) Verb {
	return Verb{
		ID:          id,
		Title:       title,
		Description: description,
		State:       state,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// CanTransitionTo reports whether the edge from the current state to
// next is permitted.
//
// Permitted edges:
//
//	captured -> active, dropped
//	active   -> paused, done, dropped
//	paused   -> active, dropped
//	done     -> active (reopen)
//	dropped  -> active (reopen)
func (v *Verb) CanTransitionTo(next VerbState) bool {
	switch v.State {
	case StateCaptured:
		return next == StateActive || next == StateDropped
	case StateActive:
		return next == StatePaused || next == StateDone || next == StateDropped
	case StatePaused:
		return next == StateActive || next == StateDropped
	case StateDone:
		return next == StateActive
	case StateDropped:
		return next == StateActive
	}
	return false
}

// TransitionTo moves the verb to next and returns the resulting log.
//
// A transition to the current state is an idempotent no-op: the verb is
// unchanged and no log is produced (nil, nil). Edges into dropped and
// active->paused require a non-empty reason. now must not precede the
// verb's updated_at.
func (v *Verb) TransitionTo(next VerbState, reason string, now time.Time) (*ActionLog, error) {
	if next == v.State {
		return nil, nil
	}
	if !v.CanTransitionTo(next) {
		return nil, &InvalidTransitionError{From: v.State, To: next}
	}
	reason = strings.TrimSpace(reason)
	if transitionNeedsReason(v.State, next) && reason == "" {
		return nil, ErrReasonRequired
	}
	if len(reason) > maxReasonLen {
		return nil, ErrReasonTooLong
	}
	if now.Before(v.UpdatedAt) {
		return nil, ErrInvalidTimestamp
	}
	from := v.State
	v.State = next
	v.UpdatedAt = now
	log := newTransitionLog(v.ID, from, next, reason, now)
	return &log, nil
}

func transitionNeedsReason(from, to VerbState) bool {
	if to == StateDropped {
		return true
	}
	return from == StateActive && to == StatePaused
}
