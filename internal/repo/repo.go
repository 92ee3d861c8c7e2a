package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"verbline/internal/domain"
)

// ErrNotFound is returned by lookups for ids that do not exist.
var ErrNotFound = errors.New("not found")

// VerbFilter narrows List. A nil State matches every state. Limit and
// Offset paginate; callers clamp them before handing the filter down.
type VerbFilter struct {
	State  *domain.VerbState
	Limit  int
	Offset int
}

// VerbRepository stores verb aggregates.
type VerbRepository interface {
	Save(ctx context.Context, v domain.Verb) error
	FindByID(ctx context.Context, id uuid.UUID) (domain.Verb, error)
	List(ctx context.Context, f VerbFilter) ([]domain.Verb, int, error)
}

// ActionLogRepository stores transition records. The log is append
// only; there is deliberately no update or delete. FindByVerb returns
// logs ordered by timestamp ascending; limit <= 0 means no limit.
type ActionLogRepository interface {
	Append(ctx context.Context, log domain.ActionLog) error
	FindByVerb(ctx context.Context, verbID uuid.UUID, limit int) ([]domain.ActionLog, error)
}

// Tx is one unit of work. Repositories obtained from a Tx see its
// staged writes; Commit publishes them, Rollback discards them.
// Rollback after Commit is a no-op so it can sit in a defer.
type Tx interface {
	Verbs() VerbRepository
	ActionLogs() ActionLogRepository
	Commit() error
	Rollback() error
}

// Database vends transactions.
type Database interface {
	Begin(ctx context.Context) (Tx, error)
}
