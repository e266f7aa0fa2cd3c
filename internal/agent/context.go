package agent

import (
	"github.com/logsentry/logsentry/internal/provider"
	"github.com/logsentry/logsentry/internal/session"
)

// maxHistoryTurns bounds how many stored turns are replayed into the prompt.
const maxHistoryTurns = 40

// ContextBuilder assembles the message window for a provider call: system
// prompt, replayed session history, then the current user message.
type ContextBuilder struct {
	logDir string
}

// NewContextBuilder creates a context builder for the given log directory.
func NewContextBuilder(logDir string) *ContextBuilder {
	return &ContextBuilder{logDir: logDir}
}

// Build returns the initial message window for one top-level invocation.
// History must be the session state from before the current user message was
// added, otherwise the message appears twice.
func (b *ContextBuilder) Build(history []session.StoredMessage, userInput string) []provider.Message {
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}

	messages := make([]provider.Message, 0, len(history)+2)
	messages = append(messages, provider.Message{
		Role:    "system",
		Content: buildSystemPrompt(b.logDir),
	})
	for _, m := range history {
		messages = append(messages, provider.Message{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	messages = append(messages, provider.Message{
		Role:    "user",
		Content: userInput,
	})
	return messages
}
