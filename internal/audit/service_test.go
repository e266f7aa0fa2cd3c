package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := Open(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { svc.Close() })
	return svc
}

func TestTaskLifecycle(t *testing.T) {
	svc := openTestService(t)
	ctx := context.Background()

	taskID, err := svc.CreateTask(ctx, &Task{
		IdempotencyKey: "kafka:alerts:0:42",
		TraceID:        "trace-1",
		Channel:        "alerts",
		ContentIn:      "investigate checkout errors",
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if taskID == "" {
		t.Fatal("empty task ID")
	}

	if err := svc.UpdateTaskStatus(ctx, taskID, StatusCompleted, "root cause: db pool", ""); err != nil {
		t.Fatalf("UpdateTaskStatus: %v", err)
	}

	prev, err := svc.GetTaskByIdempotencyKey(ctx, "kafka:alerts:0:42")
	if err != nil {
		t.Fatalf("GetTaskByIdempotencyKey: %v", err)
	}
	if prev == nil {
		t.Fatal("task not found by idempotency key")
	}
	if prev.TaskID != taskID || prev.Status != StatusCompleted || prev.ContentOut != "root cause: db pool" {
		t.Errorf("task = %+v", prev)
	}
}

func TestIdempotencyKeyMiss(t *testing.T) {
	svc := openTestService(t)
	prev, err := svc.GetTaskByIdempotencyKey(context.Background(), "never-seen")
	if err != nil {
		t.Fatalf("GetTaskByIdempotencyKey: %v", err)
	}
	if prev != nil {
		t.Errorf("expected nil for unknown key, got %+v", prev)
	}
}

func TestDuplicateIdempotencyKeyRejected(t *testing.T) {
	svc := openTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateTask(ctx, &Task{IdempotencyKey: "dup", TraceID: "t1", Channel: "c"}); err != nil {
		t.Fatalf("first CreateTask: %v", err)
	}
	if _, err := svc.CreateTask(ctx, &Task{IdempotencyKey: "dup", TraceID: "t2", Channel: "c"}); err == nil {
		t.Fatal("duplicate idempotency key should fail")
	}
}

func TestEmptyIdempotencyKeysDoNotCollide(t *testing.T) {
	svc := openTestService(t)
	ctx := context.Background()

	// Empty keys are stored as NULL, which SQLite's UNIQUE allows repeatedly.
	for i := 0; i < 2; i++ {
		if _, err := svc.CreateTask(ctx, &Task{TraceID: "t", Channel: "cli"}); err != nil {
			t.Fatalf("CreateTask %d: %v", i, err)
		}
	}
}

func TestAddTokensAccumulates(t *testing.T) {
	svc := openTestService(t)
	ctx := context.Background()

	taskID, err := svc.CreateTask(ctx, &Task{TraceID: "t", Channel: "cli"})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.AddTokens(ctx, taskID, 100, 20, 120); err != nil {
		t.Fatalf("AddTokens: %v", err)
	}
	if err := svc.AddTokens(ctx, taskID, 50, 10, 60); err != nil {
		t.Fatalf("AddTokens: %v", err)
	}

	var total int
	row := svc.db.QueryRow(`SELECT total_tokens FROM tasks WHERE task_id = ?`, taskID)
	if err := row.Scan(&total); err != nil {
		t.Fatal(err)
	}
	if total != 180 {
		t.Errorf("total_tokens = %d, want 180", total)
	}
}

func TestRecordToolEvent(t *testing.T) {
	svc := openTestService(t)
	ctx := context.Background()

	svc.RecordToolEvent(ctx, &ToolEvent{
		TraceID:        "trace-1",
		TaskID:         "task-1",
		Tool:           "reboot_rds_instance",
		Classification: "approval-required",
		Blocked:        true,
	})
	svc.RecordToolEvent(ctx, &ToolEvent{
		TraceID:        "trace-1",
		TaskID:         "task-1",
		Tool:           "read_log_file",
		Classification: "auto",
		Duration:       150 * time.Millisecond,
		ResultLen:      2048,
	})

	var blocked, total int
	if err := svc.db.QueryRow(`SELECT COUNT(*) FROM tool_events WHERE blocked = 1`).Scan(&blocked); err != nil {
		t.Fatal(err)
	}
	if err := svc.db.QueryRow(`SELECT COUNT(*) FROM tool_events`).Scan(&total); err != nil {
		t.Fatal(err)
	}
	if total != 2 || blocked != 1 {
		t.Errorf("tool_events total=%d blocked=%d, want 2/1", total, blocked)
	}
}

func TestTaskCountsAndRecent(t *testing.T) {
	svc := openTestService(t)
	ctx := context.Background()

	a, _ := svc.CreateTask(ctx, &Task{TraceID: "a", Channel: "cli", ContentIn: "first"})
	b, _ := svc.CreateTask(ctx, &Task{TraceID: "b", Channel: "cli", ContentIn: "second"})
	svc.UpdateTaskStatus(ctx, a, StatusCompleted, "done", "")
	svc.UpdateTaskStatus(ctx, b, StatusFailed, "", "boom")

	counts, err := svc.TaskCounts(ctx)
	if err != nil {
		t.Fatalf("TaskCounts: %v", err)
	}
	if counts.Completed != 1 || counts.Failed != 1 || counts.Pending != 0 {
		t.Errorf("counts = %+v", counts)
	}

	tasks, err := svc.RecentTasks(ctx, 10)
	if err != nil {
		t.Fatalf("RecentTasks: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("recent = %d, want 2", len(tasks))
	}
	if tasks[0].ContentIn != "second" {
		t.Errorf("newest first expected, got %+v", tasks[0])
	}
}
