package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"verbline/internal/domain"
	"verbline/internal/repo"
)

// Database adapts *sql.DB to the repo ports. Timestamps are stored as
// RFC3339Nano text so they round-trip and sort lexicographically.
type Database struct {
	DB *sql.DB
}

func New(db *sql.DB) *Database {
	return &Database{DB: db}
}

func (d *Database) Begin(ctx context.Context) (repo.Tx, error) {
	tx, err := d.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqlTx{tx: tx}, nil
}

type sqlTx struct {
	tx   *sql.Tx
	done bool
}

func (t *sqlTx) Verbs() repo.VerbRepository           { return verbRepo{tx: t.tx} }
func (t *sqlTx) ActionLogs() repo.ActionLogRepository { return logRepo{tx: t.tx} }

func (t *sqlTx) Commit() error {
	t.done = true
	return t.tx.Commit()
}

func (t *sqlTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	return t.tx.Rollback()
}

type verbRepo struct {
	tx *sql.Tx
}

func (r verbRepo) Save(ctx context.Context, v domain.Verb) error {
	_, err := r.tx.ExecContext(ctx, `INSERT INTO verbs(id,title,description,state,created_at,updated_at) VALUES (?,?,?,?,?,?)
ON CONFLICT(id) DO UPDATE SET title=excluded.title, description=excluded.description, state=excluded.state, updated_at=excluded.updated_at`,
		v.ID.String(), v.Title, nullable(v.Description), v.State.String(), formatTime(v.CreatedAt), formatTime(v.UpdatedAt))
	return err
}

func (r verbRepo) FindByID(ctx context.Context, id uuid.UUID) (domain.Verb, error) {
	row := r.tx.QueryRowContext(ctx, `SELECT id,title,COALESCE(description,''),state,created_at,updated_at FROM verbs WHERE id=?`, id.String())
	return scanVerb(row.Scan)
}

func (r verbRepo) List(ctx context.Context, f repo.VerbFilter) ([]domain.Verb, int, error) {
	var clauses []string
	var args []any
	if f.State != nil {
		clauses = append(clauses, "state=?")
		args = append(args, f.State.String())
	}
	where := ""
	if len(clauses) > 0 {
		where = "WHERE " + strings.Join(clauses, " AND ")
	}

	var total int
	if err := r.tx.QueryRowContext(ctx, `SELECT count(*) FROM verbs `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id,title,COALESCE(description,''),state,created_at,updated_at FROM verbs ` + where + ` ORDER BY created_at DESC, id DESC`
	if f.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, f.Limit, f.Offset)
	}
	rows, err := r.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var res []domain.Verb
	for rows.Next() {
		v, err := scanVerb(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		res = append(res, v)
	}
	return res, total, rows.Err()
}

type logRepo struct {
	tx *sql.Tx
}

func (r logRepo) Append(ctx context.Context, log domain.ActionLog) error {
	var from any
	if log.FromState != nil {
		from = log.FromState.String()
	}
	_, err := r.tx.ExecContext(ctx, `INSERT INTO action_logs(id,verb_id,action_type,from_state,to_state,reason,timestamp) VALUES (?,?,?,?,?,?,?)`,
		log.ID.String(), log.VerbID.String(), log.ActionType.String(), from, log.ToState.String(), nullable(log.Reason), formatTime(log.Timestamp))
	return err
}

func (r logRepo) FindByVerb(ctx context.Context, verbID uuid.UUID, limit int) ([]domain.ActionLog, error) {
	query := `SELECT id,verb_id,action_type,from_state,to_state,COALESCE(reason,''),timestamp FROM action_logs WHERE verb_id=? ORDER BY timestamp ASC, id ASC`
	args := []any{verbID.String()}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := r.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.ActionLog
	for rows.Next() {
		var (
			idStr, verbStr, action, to, reason, ts string
			from                                   sql.NullString
		)
		if err := rows.Scan(&idStr, &verbStr, &action, &from, &to, &reason, &ts); err != nil {
			return nil, err
		}
		log, err := buildLog(idStr, verbStr, action, from, to, reason, ts)
		if err != nil {
			return nil, err
		}
		res = append(res, log)
	}
	return res, rows.Err()
}

func scanVerb(scan func(...any) error) (domain.Verb, error) {
	var (
		idStr, title, description, state, created, updated string
	)
	err := scan(&idStr, &title, &description, &state, &created, &updated)
	if err == sql.ErrNoRows {
		return domain.Verb{}, repo.ErrNotFound
	}
	if err != nil {
		return domain.Verb{}, err
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return domain.Verb{}, fmt.Errorf("verb id %q: %w", idStr, err)
	}
	st, err := domain.ParseVerbState(state)
	if err != nil {
		return domain.Verb{}, err
	}
	createdAt, err := parseTime(created)
	if err != nil {
		return domain.Verb{}, err
	}
	updatedAt, err := parseTime(updated)
	if err != nil {
		return domain.Verb{}, err
	}
	return domain.FromParts(id, title, description, st, createdAt, updatedAt), nil
}

func buildLog(idStr, verbStr, action string, from sql.NullString, to, reason, ts string) (domain.ActionLog, error) {
	id, err := uuid.Parse(idStr)
	if err != nil {
		return domain.ActionLog{}, fmt.Errorf("log id %q: %w", idStr, err)
	}
	verbID, err := uuid.Parse(verbStr)
	if err != nil {
		return domain.ActionLog{}, fmt.Errorf("log verb id %q: %w", verbStr, err)
	}
	actionType, err := domain.ParseActionType(action)
	if err != nil {
		return domain.ActionLog{}, err
	}
	toState, err := domain.ParseVerbState(to)
	if err != nil {
		return domain.ActionLog{}, err
	}
	var fromState *domain.VerbState
	if from.Valid {
		s, err := domain.ParseVerbState(from.String)
		if err != nil {
			return domain.ActionLog{}, err
		}
		fromState = &s
	}
	timestamp, err := parseTime(ts)
	if err != nil {
		return domain.ActionLog{}, err
	}
	return domain.ActionLog{
		ID:         id,
		VerbID:     verbID,
		ActionType: actionType,
		FromState:  fromState,
		ToState:    toState,
		Reason:     reason,
		Timestamp:  timestamp,
	}, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
