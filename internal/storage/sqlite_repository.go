package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteTimeLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) DB() *sql.DB {
	return r.db
}

func (r *SQLiteRepository) CreateEvent(ctx context.Context, in Event) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO events (id, title, start_at, end_at, color, all_day, task_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Title, mustTime(in.StartAt), mustTime(in.EndAt), in.Color, boolInt(in.AllDay), in.TaskID, mustTime(in.CreatedAt),
	)
	return err
}

func (r *SQLiteRepository) GetEvent(ctx context.Context, id string) (Event, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, start_at, end_at, color, all_day, task_id, created_at
		FROM events WHERE id = ?`, id)
	item, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Event{}, ErrNotFound
		}
		return Event{}, err
	}
	return item, nil
}

func (r *SQLiteRepository) UpdateEvent(ctx context.Context, in Event) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE events
		SET title = ?, start_at = ?, end_at = ?, color = ?, all_day = ?, task_id = ?
		WHERE id = ?`,
		in.Title, mustTime(in.StartAt), mustTime(in.EndAt), in.Color, boolInt(in.AllDay), in.TaskID, in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteEvent(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListEvents(ctx context.Context, filter EventListFilter) ([]Event, error) {
	query := `SELECT id, title, start_at, end_at, color, all_day, task_id, created_at FROM events`
	clauses := make([]string, 0, 3)
	args := make([]any, 0, 5)
	if filter.From != nil {
		clauses = append(clauses, "start_at >= ?")
		args = append(args, mustTime(*filter.From))
	}
	if filter.Until != nil {
		clauses = append(clauses, "start_at < ?")
		args = append(args, mustTime(*filter.Until))
	}
	if filter.TaskID != "" {
		clauses = append(clauses, "task_id = ?")
		args = append(args, filter.TaskID)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY start_at ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Event, 0)
	for rows.Next() {
		item, scanErr := scanEvent(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateHabit(ctx context.Context, in Habit) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO habits (id, title, rule, start_at, duration_minutes, color, enabled, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Title, in.Rule, mustTime(in.StartAt), in.DurationMinutes, in.Color, boolInt(in.Enabled), mustTime(in.CreatedAt),
	)
	return err
}

func (r *SQLiteRepository) GetHabit(ctx context.Context, id string) (Habit, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, rule, start_at, duration_minutes, color, enabled, created_at
		FROM habits WHERE id = ?`, id)
	item, err := scanHabit(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Habit{}, ErrNotFound
		}
		return Habit{}, err
	}
	return item, nil
}

func (r *SQLiteRepository) UpdateHabit(ctx context.Context, in Habit) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE habits
		SET title = ?, rule = ?, start_at = ?, duration_minutes = ?, color = ?, enabled = ?
		WHERE id = ?`,
		in.Title, in.Rule, mustTime(in.StartAt), in.DurationMinutes, in.Color, boolInt(in.Enabled), in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteHabit(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM habits WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListHabits(ctx context.Context, filter HabitListFilter) ([]Habit, error) {
	query := `SELECT id, title, rule, start_at, duration_minutes, color, enabled, created_at FROM habits`
	args := make([]any, 0, 3)
	if filter.Enabled != nil {
		query += ` WHERE enabled = ?`
		args = append(args, boolInt(*filter.Enabled))
	}
	query += ` ORDER BY created_at ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Habit, 0)
	for rows.Next() {
		item, scanErr := scanHabit(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateTask(ctx context.Context, in Task) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, description, state, priority, tags, due_at, due_minutes, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Title, in.Description, in.State, in.Priority, in.Tags, nullTime(in.DueAt), in.DueMinutes, mustTime(in.CreatedAt), nullTime(in.CompletedAt),
	)
	return err
}

func (r *SQLiteRepository) GetTask(ctx context.Context, id string) (Task, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, description, state, priority, tags, due_at, due_minutes, created_at, completed_at
		FROM tasks WHERE id = ?`, id)
	item, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, err
	}
	return item, nil
}

func (r *SQLiteRepository) UpdateTask(ctx context.Context, in Task) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, description = ?, state = ?, priority = ?, tags = ?, due_at = ?, due_minutes = ?, completed_at = ?
		WHERE id = ?`,
		in.Title, in.Description, in.State, in.Priority, in.Tags, nullTime(in.DueAt), in.DueMinutes, nullTime(in.CompletedAt), in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteTask(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListTasks(ctx context.Context, filter TaskListFilter) ([]Task, error) {
	query := `SELECT id, title, description, state, priority, tags, due_at, due_minutes, created_at, completed_at FROM tasks`
	clauses := make([]string, 0, 2)
	args := make([]any, 0, 3)
	if filter.State != "" {
		clauses = append(clauses, "state = ?")
		args = append(args, filter.State)
	}
	if filter.DueOnly {
		clauses = append(clauses, "due_at IS NOT NULL")
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY created_at ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Task, 0)
	for rows.Next() {
		item, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateSession(ctx context.Context, in FocusSession) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO focus_sessions (id, task_id, mode, started_at, ended_at, duration_seconds, completed)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.TaskID, in.Mode, mustTime(in.StartedAt), mustTime(in.EndedAt), in.DurationSeconds, boolInt(in.Completed),
	)
	return err
}

func (r *SQLiteRepository) GetSession(ctx context.Context, id string) (FocusSession, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, task_id, mode, started_at, ended_at, duration_seconds, completed
		FROM focus_sessions WHERE id = ?`, id)
	item, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return FocusSession{}, ErrNotFound
		}
		return FocusSession{}, err
	}
	return item, nil
}

func (r *SQLiteRepository) DeleteSession(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM focus_sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListSessions(ctx context.Context, filter SessionListFilter) ([]FocusSession, error) {
	query := `SELECT id, task_id, mode, started_at, ended_at, duration_seconds, completed FROM focus_sessions`
	clauses := make([]string, 0, 3)
	args := make([]any, 0, 5)
	if filter.TaskID != "" {
		clauses = append(clauses, "task_id = ?")
		args = append(args, filter.TaskID)
	}
	if filter.From != nil {
		clauses = append(clauses, "started_at >= ?")
		args = append(args, mustTime(*filter.From))
	}
	if filter.Until != nil {
		clauses = append(clauses, "started_at < ?")
		args = append(args, mustTime(*filter.Until))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY started_at DESC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]FocusSession, 0)
	for rows.Next() {
		item, scanErr := scanSession(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func nullTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return mustTime(*v)
}

func parseOptionalTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid {
		return nil, nil
	}
	t, err := parseRequiredTime(v.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	}
	if offset > 0 {
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(s scanner) (Event, error) {
	var out Event
	var start, end, created string
	var allDay int
	if err := s.Scan(&out.ID, &out.Title, &start, &end, &out.Color, &allDay, &out.TaskID, &created); err != nil {
		return Event{}, err
	}
	var err error
	if out.StartAt, err = parseRequiredTime(start); err != nil {
		return Event{}, err
	}
	if out.EndAt, err = parseRequiredTime(end); err != nil {
		return Event{}, err
	}
	if out.CreatedAt, err = parseRequiredTime(created); err != nil {
		return Event{}, err
	}
	out.AllDay = allDay != 0
	return out, nil
}

func scanHabit(s scanner) (Habit, error) {
	var out Habit
	var start, created string
	var enabled int
	if err := s.Scan(&out.ID, &out.Title, &out.Rule, &start, &out.DurationMinutes, &out.Color, &enabled, &created); err != nil {
		return Habit{}, err
	}
	var err error
	if out.StartAt, err = parseRequiredTime(start); err != nil {
		return Habit{}, err
	}
	if out.CreatedAt, err = parseRequiredTime(created); err != nil {
		return Habit{}, err
	}
	out.Enabled = enabled != 0
	return out, nil
}

func scanTask(s scanner) (Task, error) {
	var out Task
	var created string
	var due, completed sql.NullString
	if err := s.Scan(&out.ID, &out.Title, &out.Description, &out.State, &out.Priority, &out.Tags, &due, &out.DueMinutes, &created, &completed); err != nil {
		return Task{}, err
	}
	var err error
	if out.CreatedAt, err = parseRequiredTime(created); err != nil {
		return Task{}, err
	}
	if out.DueAt, err = parseOptionalTime(due); err != nil {
		return Task{}, err
	}
	if out.CompletedAt, err = parseOptionalTime(completed); err != nil {
		return Task{}, err
	}
	return out, nil
}

func scanSession(s scanner) (FocusSession, error) {
	var out FocusSession
	var started, ended string
	var completed int
	if err := s.Scan(&out.ID, &out.TaskID, &out.Mode, &started, &ended, &out.DurationSeconds, &completed); err != nil {
		return FocusSession{}, err
	}
	var err error
	if out.StartedAt, err = parseRequiredTime(started); err != nil {
		return FocusSession{}, err
	}
	if out.EndedAt, err = parseRequiredTime(ended); err != nil {
		return FocusSession{}, err
	}
	out.Completed = completed != 0
	return out, nil
}
