package agent

import (
	_ "embed"
	"fmt"
	"runtime"
	"strings"
	"time"
)

//go:embed system_prompt.txt
var systemPrompt string

// buildSystemPrompt returns the system prompt with runtime context appended.
func buildSystemPrompt(logDir string) string {
	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(systemPrompt))
	sb.WriteString("\n\n## Runtime\n")
	fmt.Fprintf(&sb, "- Current time: %s\n", time.Now().Format(time.RFC1123))
	fmt.Fprintf(&sb, "- Log directory: %s\n", logDir)
	fmt.Fprintf(&sb, "- Host OS: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	return sb.String()
}
