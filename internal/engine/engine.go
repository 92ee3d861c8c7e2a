package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"verbline/internal/domain"
	"verbline/internal/repo"
)

// List page bounds. A zero or negative limit falls back to the
// default; anything above the cap is clamped.
const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// Engine runs the verb use cases. Every mutating case is one unit of
// work: begin, mutate the aggregate, save it, append its log, commit.
type Engine struct {
	DB  repo.Database
	Now func() time.Time
}

func New(db repo.Database) Engine {
	return Engine{DB: db, Now: time.Now}
}

func (e Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// CreateVerb captures a new verb and records its creation.
func (e Engine) CreateVerb(ctx context.Context, title, description string) (domain.Verb, error) {
	v, log, err := domain.New(title, description, e.now().UTC())
	if err != nil {
		return domain.Verb{}, err
	}
	tx, err := e.DB.Begin(ctx)
	if err != nil {
		return domain.Verb{}, err
	}
	defer tx.Rollback()

	if err := tx.Verbs().Save(ctx, *v); err != nil {
		return domain.Verb{}, err
	}
	if err := tx.ActionLogs().Append(ctx, *log); err != nil {
		return domain.Verb{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Verb{}, err
	}
	return *v, nil
}

// GetVerb fetches one verb by id.
func (e Engine) GetVerb(ctx context.Context, id uuid.UUID) (domain.Verb, error) {
	tx, err := e.DB.Begin(ctx)
	if err != nil {
		return domain.Verb{}, err
	}
	defer tx.Rollback()
	return tx.Verbs().FindByID(ctx, id)
}

// ListVerbs returns a page of verbs plus the unpaged total. Limit is
// clamped to [1, 500]; zero means the default page size.
func (e Engine) ListVerbs(ctx context.Context, f repo.VerbFilter) ([]domain.Verb, int, error) {
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}
	if f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	tx, err := e.DB.Begin(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer tx.Rollback()
	return tx.Verbs().List(ctx, f)
}

// TransitionVerb moves a verb to the next state. A transition to the
// current state returns the verb unchanged.
func (e Engine) TransitionVerb(ctx context.Context, id uuid.UUID, next domain.VerbState, reason string) (domain.Verb, error) {
	tx, err := e.DB.Begin(ctx)
	if err != nil {
		return domain.Verb{}, err
	}
	defer tx.Rollback()

	v, err := tx.Verbs().FindByID(ctx, id)
	if err != nil {
		return domain.Verb{}, err
	}
	log, err := v.TransitionTo(next, reason, e.now().UTC())
	if err != nil {
		return domain.Verb{}, err
	}
	if log == nil {
		return v, nil
	}
	if err := tx.Verbs().Save(ctx, v); err != nil {
		return domain.Verb{}, err
	}
	if err := tx.ActionLogs().Append(ctx, *log); err != nil {
		return domain.Verb{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Verb{}, err
	}
	return v, nil
}

// DropVerb abandons a verb with a reason.
func (e Engine) DropVerb(ctx context.Context, id uuid.UUID, reason string) (domain.Verb, error) {
	return e.TransitionVerb(ctx, id, domain.StateDropped, reason)
}

// LogsByVerb returns a verb's transition history, oldest first. The
// verb must exist.
func (e Engine) LogsByVerb(ctx context.Context, id uuid.UUID) ([]domain.ActionLog, error) {
	tx, err := e.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.Verbs().FindByID(ctx, id); err != nil {
		return nil, err
	}
	return tx.ActionLogs().FindByVerb(ctx, id, 0)
}
