package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"verbline/internal/domain"
	"verbline/internal/repo"
)

// Database is an in-memory repo.Database. Transactions stage their
// writes and publish them on Commit under per-collection mutexes.
// Concurrent commits are last-write-wins; there is no snapshot
// isolation.
type Database struct {
	verbsMu sync.RWMutex
	verbs   map[uuid.UUID]domain.Verb

	logsMu sync.RWMutex
	logs   map[uuid.UUID][]domain.ActionLog
}

func New() *Database {
	return &Database{
		verbs: make(map[uuid.UUID]domain.Verb),
		logs:  make(map[uuid.UUID][]domain.ActionLog),
	}
}

func (d *Database) Begin(ctx context.Context) (repo.Tx, error) {
	return &memTx{
		db:          d,
		stagedVerbs: make(map[uuid.UUID]domain.Verb),
		stagedLogs:  make(map[uuid.UUID][]domain.ActionLog),
	}, nil
}

type memTx struct {
	db          *Database
	stagedVerbs map[uuid.UUID]domain.Verb
	stagedLogs  map[uuid.UUID][]domain.ActionLog
	done        bool
}

func (t *memTx) Verbs() repo.VerbRepository           { return memVerbRepo{tx: t} }
func (t *memTx) ActionLogs() repo.ActionLogRepository { return memLogRepo{tx: t} }

func (t *memTx) Commit() error {
	if t.done {
		return nil
	}
	t.done = true

	t.db.verbsMu.Lock()
	for id, v := range t.stagedVerbs {
		t.db.verbs[id] = v
	}
	t.db.verbsMu.Unlock()

	t.db.logsMu.Lock()
	for id, logs := range t.stagedLogs {
		t.db.logs[id] = append(t.db.logs[id], logs...)
	}
	t.db.logsMu.Unlock()
	return nil
}

// Rollback marks the transaction finished. The staged maps stay
// allocated so late writes on a dead transaction stay inert instead of
// panicking; the done flag keeps them from ever publishing.
func (t *memTx) Rollback() error {
	t.done = true
	return nil
}

type memVerbRepo struct {
	tx *memTx
}

func (r memVerbRepo) Save(ctx context.Context, v domain.Verb) error {
	r.tx.stagedVerbs[v.ID] = v
	return nil
}

func (r memVerbRepo) FindByID(ctx context.Context, id uuid.UUID) (domain.Verb, error) {
	if v, ok := r.tx.stagedVerbs[id]; ok {
		return v, nil
	}
	r.tx.db.verbsMu.RLock()
	v, ok := r.tx.db.verbs[id]
	r.tx.db.verbsMu.RUnlock()
	if !ok {
		return domain.Verb{}, repo.ErrNotFound
	}
	return v, nil
}

func (r memVerbRepo) List(ctx context.Context, f repo.VerbFilter) ([]domain.Verb, int, error) {
	r.tx.db.verbsMu.RLock()
	merged := make(map[uuid.UUID]domain.Verb, len(r.tx.db.verbs))
	for id, v := range r.tx.db.verbs {
		merged[id] = v
	}
	r.tx.db.verbsMu.RUnlock()
	for id, v := range r.tx.stagedVerbs {
		merged[id] = v
	}

	var all []domain.Verb
	for _, v := range merged {
		if f.State != nil && v.State != *f.State {
			continue
		}
		all = append(all, v)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID.String() > all[j].ID.String()
	})
	total := len(all)
	if f.Limit > 0 {
		if f.Offset >= len(all) {
			return nil, total, nil
		}
		all = all[f.Offset:]
		if len(all) > f.Limit {
			all = all[:f.Limit]
		}
	}
	return all, total, nil
}

type memLogRepo struct {
	tx *memTx
}

func (r memLogRepo) Append(ctx context.Context, log domain.ActionLog) error {
	r.tx.stagedLogs[log.VerbID] = append(r.tx.stagedLogs[log.VerbID], log)
	return nil
}

func (r memLogRepo) FindByVerb(ctx context.Context, verbID uuid.UUID, limit int) ([]domain.ActionLog, error) {
	r.tx.db.logsMu.RLock()
	committed := r.tx.db.logs[verbID]
	logs := make([]domain.ActionLog, len(committed))
	copy(logs, committed)
	r.tx.db.logsMu.RUnlock()
	logs = append(logs, r.tx.stagedLogs[verbID]...)
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].Timestamp.Before(logs[j].Timestamp)
	})
	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}
