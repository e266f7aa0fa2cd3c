package agent

import (
	"testing"

	"github.com/logsentry/logsentry/internal/provider"
)

func TestExtractText(t *testing.T) {
	cases := []struct {
		name    string
		content any
		want    string
	}{
		{"nil", nil, ""},
		{"string", "hello", "hello"},
		{"string trimmed", "  hello \n", "hello"},
		{"fragment list of strings", []any{"a", "b"}, "a\nb"},
		{"fragment list with text objects", []any{
			map[string]any{"type": "text", "text": "first"},
			map[string]any{"type": "text", "text": "second"},
		}, "first\nsecond"},
		{"mixed fragments", []any{"plain", map[string]any{"text": "typed"}}, "plain\ntyped"},
		{"fragments without text field skipped", []any{
			map[string]any{"type": "image", "url": "x"},
			map[string]any{"text": "kept"},
		}, "kept"},
		{"empty list", []any{}, ""},
		{"unknown payload stringified", map[string]any{"foo": "bar"}, `{"foo":"bar"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := extractText(tc.content); got != tc.want {
				t.Errorf("extractText(%v) = %q, want %q", tc.content, got, tc.want)
			}
		})
	}
}

func TestNormalizeGeneratesMissingIDs(t *testing.T) {
	reply := normalizeResponse(&provider.ChatResponse{
		ToolCalls: []provider.ToolCall{
			{Name: "list_log_files"},
			{Name: "read_log_file"},
		},
	})

	if len(reply.Requests) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(reply.Requests))
	}
	if reply.Requests[0].ID != "call_0" || reply.Requests[1].ID != "call_1" {
		t.Errorf("generated IDs = %q, %q; want call_0, call_1",
			reply.Requests[0].ID, reply.Requests[1].ID)
	}
}

func TestNormalizePreservesBackendIDs(t *testing.T) {
	reply := normalizeResponse(&provider.ChatResponse{
		ToolCalls: []provider.ToolCall{
			{ID: "abc123", Name: "search_logs"},
			{Name: "read_log_file"},
		},
	})

	if reply.Requests[0].ID != "abc123" {
		t.Errorf("backend ID clobbered: got %q", reply.Requests[0].ID)
	}
	if reply.Requests[1].ID == "" || reply.Requests[1].ID == "abc123" {
		t.Errorf("missing ID not generated uniquely: got %q", reply.Requests[1].ID)
	}
}

func TestNormalizeDuplicateIDs(t *testing.T) {
	reply := normalizeResponse(&provider.ChatResponse{
		ToolCalls: []provider.ToolCall{
			{ID: "dup", Name: "a"},
			{ID: "dup", Name: "b"},
		},
	})

	if reply.Requests[0].ID == reply.Requests[1].ID {
		t.Errorf("duplicate IDs not disambiguated: %q", reply.Requests[0].ID)
	}
}

func TestNormalizeNilArguments(t *testing.T) {
	reply := normalizeResponse(&provider.ChatResponse{
		ToolCalls: []provider.ToolCall{{ID: "x", Name: "list_log_files"}},
	})

	if reply.Requests[0].Arguments == nil {
		t.Error("nil arguments should be replaced with an empty map")
	}
}
