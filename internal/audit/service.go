// Package audit persists an append-style audit trail of agent tasks and tool
// dispatches in SQLite.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Task statuses.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Task is one recorded top-level agent invocation.
type Task struct {
	TaskID           string
	IdempotencyKey   string
	TraceID          string
	Channel          string
	ChatID           string
	SenderID         string
	Status           string
	ContentIn        string
	ContentOut       string
	ErrorText        string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ToolEvent is one recorded tool dispatch within a task.
type ToolEvent struct {
	TraceID        string
	TaskID         string
	Tool           string
	Classification string
	Blocked        bool
	Duration       time.Duration
	ResultLen      int
	ErrorText      string
}

// Counts summarizes tasks by status for the status command.
type Counts struct {
	Pending    int
	Processing int
	Completed  int
	Failed     int
}

// Service wraps the SQLite audit database.
type Service struct {
	db *sql.DB
}

// Open opens (and creates if needed) the audit database at path and applies
// the schema migrations.
func Open(path string) (*Service, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating audit directory: %w", err)
	}

	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening audit database: %w", err)
	}
	db.SetMaxOpenConns(1)

	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying audit migration %d: %w", i, err)
		}
	}
	return &Service{db: db}, nil
}

// Close closes the database.
func (s *Service) Close() error {
	return s.db.Close()
}

// CreateTask records a new task and returns its generated task ID.
func (s *Service) CreateTask(ctx context.Context, t *Task) (string, error) {
	taskID := uuid.New().String()
	var idem any
	if t.IdempotencyKey != "" {
		idem = t.IdempotencyKey
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (task_id, idempotency_key, trace_id, channel, chat_id, sender_id, status, content_in)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		taskID, idem, t.TraceID, t.Channel, t.ChatID, t.SenderID, StatusPending, t.ContentIn)
	if err != nil {
		return "", fmt.Errorf("inserting task: %w", err)
	}
	return taskID, nil
}

// GetTaskByIdempotencyKey returns the task with the given idempotency key,
// or nil if no such task exists.
func (s *Service) GetTaskByIdempotencyKey(ctx context.Context, key string) (*Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT task_id, trace_id, channel, status, content_out
		FROM tasks WHERE idempotency_key = ?`, key)

	t := &Task{IdempotencyKey: key}
	err := row.Scan(&t.TaskID, &t.TraceID, &t.Channel, &t.Status, nullStr(&t.ContentOut))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying task by idempotency key: %w", err)
	}
	return t, nil
}

// UpdateTaskStatus transitions a task, optionally recording output or error.
func (s *Service) UpdateTaskStatus(ctx context.Context, taskID, status, contentOut, errorText string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET status = ?, content_out = ?, error_text = ?, updated_at = CURRENT_TIMESTAMP
		WHERE task_id = ?`,
		status, contentOut, errorText, taskID)
	if err != nil {
		return fmt.Errorf("updating task status: %w", err)
	}
	return nil
}

// AddTokens accumulates token usage onto a task.
func (s *Service) AddTokens(ctx context.Context, taskID string, prompt, completion, total int) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET
			prompt_tokens = prompt_tokens + ?,
			completion_tokens = completion_tokens + ?,
			total_tokens = total_tokens + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE task_id = ?`,
		prompt, completion, total, taskID)
	if err != nil {
		return fmt.Errorf("adding token usage: %w", err)
	}
	return nil
}

// RecordToolEvent appends one tool dispatch record. Failures are logged, not
// returned: the audit trail must never break the agent loop.
func (s *Service) RecordToolEvent(ctx context.Context, ev *ToolEvent) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tool_events (trace_id, task_id, tool, classification, blocked, duration_ms, result_len, error_text)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.TraceID, ev.TaskID, ev.Tool, ev.Classification,
		boolToInt(ev.Blocked), ev.Duration.Milliseconds(), ev.ResultLen, ev.ErrorText)
	if err != nil {
		slog.Warn("recording tool event failed", "tool", ev.Tool, "error", err)
	}
}

// TaskCounts returns task counts per status.
func (s *Service) TaskCounts(ctx context.Context) (*Counts, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM tasks GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("counting tasks: %w", err)
	}
	defer rows.Close()

	c := &Counts{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scanning task counts: %w", err)
		}
		switch status {
		case StatusPending:
			c.Pending = n
		case StatusProcessing:
			c.Processing = n
		case StatusCompleted:
			c.Completed = n
		case StatusFailed:
			c.Failed = n
		}
	}
	return c, rows.Err()
}

// RecentTasks returns the most recent tasks, newest first.
func (s *Service) RecentTasks(ctx context.Context, limit int) ([]*Task, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT task_id, trace_id, channel, status, content_in, created_at
		FROM tasks ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*Task
	for rows.Next() {
		t := &Task{}
		if err := rows.Scan(&t.TaskID, &t.TraceID, &t.Channel, &t.Status,
			nullStr(&t.ContentIn), &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning recent task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// nullStr scans a nullable TEXT column into a plain string.
type nullStrScanner struct{ dst *string }

func nullStr(dst *string) *nullStrScanner { return &nullStrScanner{dst: dst} }

func (n *nullStrScanner) Scan(v any) error {
	switch s := v.(type) {
	case nil:
		*n.dst = ""
	case string:
		*n.dst = s
	case []byte:
		*n.dst = string(s)
	default:
		return fmt.Errorf("unexpected type %T for text column", v)
	}
	return nil
}
