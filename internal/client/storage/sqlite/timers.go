package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/iudanet/tasktrack/pkg/api"
)

// SaveTimers upserts timers by id in one transaction
func (s *Storage) SaveTimers(ctx context.Context, timers []api.Timer) error {
	if len(timers) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO timer_history (
			id, task_id, task_title, user_id, start_time, end_time, duration,
			is_active, is_completed, completed_on_time, notes, archived_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			task_id = excluded.task_id,
			task_title = CASE WHEN excluded.task_title <> '' THEN excluded.task_title ELSE timer_history.task_title END,
			user_id = excluded.user_id,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			duration = excluded.duration,
			is_active = excluded.is_active,
			is_completed = excluded.is_completed,
			completed_on_time = excluded.completed_on_time,
			notes = excluded.notes,
			archived_at = excluded.archived_at
	`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	archivedAt := s.now().UTC()
	for _, t := range timers {
		if t.ID == "" {
			continue
		}

		// Задача без populate приходит только с id: название не затираем
		title := t.Task.DisplayName()
		if title == t.Task.ID {
			title = ""
		}

		var endTime sql.NullTime
		if t.EndTime != nil {
			endTime = sql.NullTime{Time: t.EndTime.UTC(), Valid: true}
		}
		var duration sql.NullFloat64
		if t.Duration != nil {
			duration = sql.NullFloat64{Float64: *t.Duration, Valid: true}
		}

		_, err := stmt.ExecContext(ctx,
			t.ID,
			t.Task.ID,
			title,
			t.User.ID,
			t.StartTime.UTC(),
			endTime,
			duration,
			t.IsActive,
			nullBool(t.IsCompleted),
			nullBool(t.CompletedOnTime),
			t.Notes,
			archivedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to save timer %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListTimers returns archived timers ordered by start time desc
func (s *Storage) ListTimers(ctx context.Context, taskID string, limit int) ([]api.Timer, error) {
	query := `
		SELECT id, task_id, task_title, user_id, start_time, end_time, duration,
		       is_active, is_completed, completed_on_time, notes
		FROM timer_history
		WHERE (? = '' OR task_id = ?)
		ORDER BY start_time DESC, id
	`
	args := []any{taskID, taskID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query timers: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	timers := make([]api.Timer, 0)
	for rows.Next() {
		var (
			t               api.Timer
			taskTitle       string
			startTime       time.Time
			endTime         sql.NullTime
			duration        sql.NullFloat64
			isCompleted     sql.NullBool
			completedOnTime sql.NullBool
		)

		err := rows.Scan(
			&t.ID,
			&t.Task.ID,
			&taskTitle,
			&t.User.ID,
			&startTime,
			&endTime,
			&duration,
			&t.IsActive,
			&isCompleted,
			&completedOnTime,
			&t.Notes,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan timer: %w", err)
		}

		t.Task.Title = taskTitle
		t.StartTime = startTime.UTC()
		if endTime.Valid {
			end := endTime.Time.UTC()
			t.EndTime = &end
		}
		if duration.Valid {
			d := duration.Float64
			t.Duration = &d
		}
		t.IsCompleted = boolPtr(isCompleted)
		t.CompletedOnTime = boolPtr(completedOnTime)

		timers = append(timers, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating timers: %w", err)
	}
	return timers, nil
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}

func boolPtr(b sql.NullBool) *bool {
	if !b.Valid {
		return nil
	}
	v := b.Bool
	return &v
}
