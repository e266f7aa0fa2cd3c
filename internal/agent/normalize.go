package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/logsentry/logsentry/internal/provider"
)

// Reply is the canonical form of a provider response: visible text plus zero
// or more tool-call requests. Every response passes through normalizeResponse
// before the loop looks at it.
type Reply struct {
	Text     string
	Requests []provider.ToolCall
}

// normalizeResponse converts a raw provider response into a Reply. Backends
// disagree on content shape (bare string, list of typed fragments) and some
// omit tool-call IDs entirely; this is the single place that smooths those
// differences over. It never fails: unknown payloads are stringified rather
// than rejected.
func normalizeResponse(resp *provider.ChatResponse) Reply {
	reply := Reply{
		Text:     extractText(resp.Content),
		Requests: make([]provider.ToolCall, 0, len(resp.ToolCalls)),
	}

	seen := make(map[string]bool, len(resp.ToolCalls))
	next := 0
	for _, tc := range resp.ToolCalls {
		id := tc.ID
		for id == "" || seen[id] {
			id = fmt.Sprintf("call_%d", next)
			next++
		}
		seen[id] = true
		tc.ID = id
		if tc.Arguments == nil {
			tc.Arguments = map[string]any{}
		}
		reply.Requests = append(reply.Requests, tc)
	}
	return reply
}

// extractText flattens a content payload to trimmed text. Fragment lists are
// joined with newlines; fragments may be plain strings or objects carrying a
// "text" field. Anything else is JSON-stringified so no payload is ever lost.
func extractText(content any) string {
	switch c := content.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(c)
	case []any:
		var parts []string
		for _, frag := range c {
			switch f := frag.(type) {
			case string:
				parts = append(parts, f)
			case map[string]any:
				if text, ok := f["text"].(string); ok {
					parts = append(parts, text)
				}
			}
		}
		return strings.TrimSpace(strings.Join(parts, "\n"))
	default:
		raw, err := json.Marshal(c)
		if err != nil {
			return strings.TrimSpace(fmt.Sprintf("%v", c))
		}
		return strings.TrimSpace(string(raw))
	}
}
