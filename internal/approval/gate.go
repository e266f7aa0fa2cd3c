// Package approval provides the human-confirmation gate for infrastructure
// actions. Approval is derived purely from the current user message: a short
// affirmative phrase grants approval-required tools exactly one turn. No
// approval state is ever stored, which keeps the protocol restart-safe.
package approval

import "strings"

// DefaultConfirmations is the built-in set of phrases that count as approval.
var DefaultConfirmations = []string{
	"yes", "y", "confirm", "approve", "go ahead",
	"do it", "ok", "proceed", "sure", "yeah", "yep",
}

// Gate tests whether a user message is a confirmation phrase.
type Gate struct {
	phrases map[string]bool
}

// NewGate creates a gate from the given phrase set. An empty set falls back
// to DefaultConfirmations.
func NewGate(phrases []string) *Gate {
	if len(phrases) == 0 {
		phrases = DefaultConfirmations
	}
	set := make(map[string]bool, len(phrases))
	for _, p := range phrases {
		set[normalize(p)] = true
	}
	return &Gate{phrases: set}
}

// IsConfirmation reports whether the message is a short user confirmation.
// Matching is case-insensitive and tolerates surrounding whitespace and
// trailing punctuation ("Yes!", "  OK. "). It deliberately never inspects
// conversation history: an approval is valid for exactly one turn, for the
// action(s) the agent just proposed.
func (g *Gate) IsConfirmation(message string) bool {
	return g.phrases[normalize(message)]
}

func normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "!.,")
	return strings.ToLower(s)
}
