package audit

// Schema migrations are applied in order at startup. Each statement must be
// idempotent (CREATE ... IF NOT EXISTS) so restarts are safe.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		task_id TEXT NOT NULL UNIQUE,
		idempotency_key TEXT UNIQUE,
		trace_id TEXT NOT NULL,
		channel TEXT NOT NULL,
		chat_id TEXT,
		sender_id TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		content_in TEXT,
		content_out TEXT,
		error_text TEXT,
		prompt_tokens INTEGER NOT NULL DEFAULT 0,
		completion_tokens INTEGER NOT NULL DEFAULT 0,
		total_tokens INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_created ON tasks(created_at)`,
	`CREATE TABLE IF NOT EXISTS tool_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		trace_id TEXT NOT NULL,
		task_id TEXT,
		tool TEXT NOT NULL,
		classification TEXT NOT NULL,
		blocked INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		result_len INTEGER NOT NULL DEFAULT 0,
		error_text TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tool_events_trace ON tool_events(trace_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tool_events_tool ON tool_events(tool)`,
}
