package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type fakeTool struct {
	name  string
	class Classification
}

func (t *fakeTool) Name() string                   { return t.name }
func (t *fakeTool) Description() string            { return "fake" }
func (t *fakeTool) Parameters() map[string]any     { return map[string]any{"type": "object"} }
func (t *fakeTool) Classification() Classification { return t.class }
func (t *fakeTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	return "ok", nil
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&fakeTool{name: "a"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := r.Register(&fakeTool{name: "a"}); err == nil {
		t.Fatal("duplicate register should fail")
	}
}

func TestRegistryClassify(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeTool{name: "safe", class: ClassAuto})
	r.Register(&fakeTool{name: "risky", class: ClassApprovalRequired})

	if got := r.Classify("safe"); got != ClassAuto {
		t.Errorf("Classify(safe) = %v", got)
	}
	if got := r.Classify("risky"); got != ClassApprovalRequired {
		t.Errorf("Classify(risky) = %v", got)
	}
	if got := r.Classify("nope"); got != ClassUnknown {
		t.Errorf("Classify(nope) = %v", got)
	}
}

func TestRegistryListSorted(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeTool{name: "zeta"})
	r.Register(&fakeTool{name: "alpha"})

	list := r.List()
	if len(list) != 2 || list[0].Name() != "alpha" || list[1].Name() != "zeta" {
		t.Errorf("List not sorted: %v, %v", list[0].Name(), list[1].Name())
	}
}

func TestRegistryExecuteUnknown(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Execute(context.Background(), "missing", nil); err == nil {
		t.Fatal("executing unknown tool should fail")
	}
}

func TestClassificationString(t *testing.T) {
	if ClassAuto.String() != "auto" ||
		ClassApprovalRequired.String() != "approval-required" ||
		ClassUnknown.String() != "unknown" {
		t.Error("classification labels wrong")
	}
}

func TestReadLogFile(t *testing.T) {
	dir := t.TempDir()
	content := "line one\nline two\nline three"
	if err := os.WriteFile(filepath.Join(dir, "app.log"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	tool := NewReadLogFileTool(dir)
	out, err := tool.Execute(context.Background(), map[string]any{"filename": "app.log"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, "File: app.log") {
		t.Errorf("missing header: %q", out)
	}
	if !strings.Contains(out, "Lines: 3") {
		t.Errorf("wrong line count: %q", out)
	}
	if !strings.Contains(out, "line two") {
		t.Errorf("missing content: %q", out)
	}
}

func TestReadLogFileMissing(t *testing.T) {
	tool := NewReadLogFileTool(t.TempDir())
	out, err := tool.Execute(context.Background(), map[string]any{"filename": "nope.log"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, "not found") {
		t.Errorf("expected not-found message, got %q", out)
	}
}

func TestReadLogFileEscapesPath(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "safe.log"), []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}

	tool := NewReadLogFileTool(dir)
	// Path components are stripped, so this resolves inside the log dir.
	out, err := tool.Execute(context.Background(), map[string]any{"filename": "../../etc/passwd"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, "Error") {
		t.Errorf("traversal attempt should not read outside log dir: %q", out)
	}
}

func TestListLogFiles(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "b.log"), []byte("bb"), 0o644)
	os.WriteFile(filepath.Join(dir, "a.log"), []byte("aa"), 0o644)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0o644)

	tool := NewListLogFilesTool(dir)
	out, err := tool.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, "a.log") || !strings.Contains(out, "b.log") {
		t.Errorf("missing log files: %q", out)
	}
	if strings.Contains(out, "notes.txt") {
		t.Errorf("non-log file listed: %q", out)
	}
	if strings.Index(out, "a.log") > strings.Index(out, "b.log") {
		t.Errorf("files not sorted: %q", out)
	}
}

func TestListLogFilesEmpty(t *testing.T) {
	tool := NewListLogFilesTool(t.TempDir())
	out, err := tool.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, "No .log files found") {
		t.Errorf("expected empty-dir message, got %q", out)
	}
}

func TestSearchLogs(t *testing.T) {
	dir := t.TempDir()
	content := "INFO started\nERROR connection refused\ninfo heartbeat\nERROR timeout"
	os.WriteFile(filepath.Join(dir, "app.log"), []byte(content), 0o644)

	tool := NewSearchLogsTool(dir)
	out, err := tool.Execute(context.Background(), map[string]any{
		"filename":    "app.log",
		"search_term": "error",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, "Found 2 matches for 'error'") {
		t.Errorf("wrong match count: %q", out)
	}
	if !strings.Contains(out, "Line 2: ERROR connection refused") {
		t.Errorf("missing match line: %q", out)
	}
	if !strings.Contains(out, "Line 4: ERROR timeout") {
		t.Errorf("missing match line: %q", out)
	}
}

func TestSearchLogsNoMatches(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "app.log"), []byte("all quiet"), 0o644)

	tool := NewSearchLogsTool(dir)
	out, err := tool.Execute(context.Background(), map[string]any{
		"filename":    "app.log",
		"search_term": "panic",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, "No matches found for 'panic'") {
		t.Errorf("expected no-match message, got %q", out)
	}
}

func TestSlackNotificationPlaceholder(t *testing.T) {
	tool := NewSendSlackNotificationTool("", "#devops-alerts")
	out, err := tool.Execute(context.Background(), map[string]any{
		"channel":  "#incidents",
		"summary":  "RDS connection exhaustion",
		"severity": "P1",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, "[SIMULATED]") {
		t.Errorf("placeholder mode should simulate: %q", out)
	}
	if !strings.Contains(out, "#incidents") || !strings.Contains(out, "RDS connection exhaustion") {
		t.Errorf("missing details: %q", out)
	}
}

func TestSlackNotificationRequiresSummary(t *testing.T) {
	tool := NewSendSlackNotificationTool("", "")
	out, err := tool.Execute(context.Background(), map[string]any{"channel": "#x"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, "summary is required") {
		t.Errorf("expected validation message, got %q", out)
	}
}

func TestBuildIncidentMessage(t *testing.T) {
	msg := buildIncidentMessage("#inc", "db down", "P1", "too many connections", "rebooted rds")
	if msg.Channel != "#inc" {
		t.Errorf("channel = %q", msg.Channel)
	}
	if !strings.Contains(msg.Text, "[CRITICAL]") {
		t.Errorf("fallback text missing severity tag: %q", msg.Text)
	}
	// Header, severity, details, actions, context.
	if got := len(msg.Blocks.BlockSet); got != 5 {
		t.Errorf("block count = %d, want 5", got)
	}
}

func TestRestartKubernetesPod(t *testing.T) {
	tool := NewRestartKubernetesPodTool()
	if tool.Classification() != ClassApprovalRequired {
		t.Fatal("pod restart must require approval")
	}

	out, err := tool.Execute(context.Background(), map[string]any{
		"pod_name": "pod-java-app-7d9f8b6c5-xk2m9",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, "pod-java-app-7d9f8b6c5-xk2m9") || !strings.Contains(out, "'default'") {
		t.Errorf("output = %q", out)
	}

	out, _ = tool.Execute(context.Background(), map[string]any{})
	if !strings.Contains(out, "pod_name is required") {
		t.Errorf("expected validation message, got %q", out)
	}
}

func TestRebootRDSInstance(t *testing.T) {
	tool := NewRebootRDSInstanceTool("")
	if tool.Classification() != ClassApprovalRequired {
		t.Fatal("RDS reboot must require approval")
	}

	out, err := tool.Execute(context.Background(), map[string]any{
		"db_instance_id": "orders-db-prod",
		"reason":         "Connection pool exhaustion recovery",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, "orders-db-prod") || !strings.Contains(out, "us-east-1") {
		t.Errorf("output = %q", out)
	}
}

func TestGetString(t *testing.T) {
	params := map[string]any{"name": "value", "count": 3}
	if got := GetString(params, "name", "d"); got != "value" {
		t.Errorf("GetString(name) = %q", got)
	}
	if got := GetString(params, "count", "d"); got != "d" {
		t.Errorf("non-string should fall back: %q", got)
	}
	if got := GetString(params, "missing", "d"); got != "d" {
		t.Errorf("missing key should fall back: %q", got)
	}
}
