package provider

import (
	"fmt"
	"strings"

	"github.com/logsentry/logsentry/internal/config"
)

// Resolve creates the LLMProvider selected by the configuration.
// Supported provider IDs: "gemini" (default) and "github" (GitHub Models,
// OpenAI-compatible endpoint).
func Resolve(cfg *config.Config) (LLMProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Model.Provider)) {
	case "", "gemini":
		model := cfg.Model.Name
		if model == "" {
			model = cfg.Providers.Gemini.Model
		}
		return NewGeminiProvider(cfg.Providers.Gemini.APIKey, model), nil
	case "github":
		model := cfg.Model.Name
		if model == "" {
			model = cfg.Providers.GitHub.Model
		}
		return NewOpenAIProvider(cfg.Providers.GitHub.Token, cfg.Providers.GitHub.Endpoint, model), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q (supported: gemini, github)", cfg.Model.Provider)
	}
}
