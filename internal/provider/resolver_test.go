package provider

import (
	"testing"

	"github.com/logsentry/logsentry/internal/config"
)

func TestResolve(t *testing.T) {
	cfg := config.DefaultConfig()

	prov, err := Resolve(cfg)
	if err != nil {
		t.Fatalf("Resolve(gemini): %v", err)
	}
	if _, ok := prov.(*GeminiProvider); !ok {
		t.Errorf("resolved %T, want *GeminiProvider", prov)
	}
	if prov.DefaultModel() != "gemini-2.5-flash" {
		t.Errorf("gemini model = %q", prov.DefaultModel())
	}

	cfg.Model.Provider = "github"
	prov, err = Resolve(cfg)
	if err != nil {
		t.Fatalf("Resolve(github): %v", err)
	}
	if _, ok := prov.(*OpenAIProvider); !ok {
		t.Errorf("resolved %T, want *OpenAIProvider", prov)
	}

	// Explicit model name overrides the provider default.
	cfg.Model.Name = "openai/gpt-4o"
	prov, _ = Resolve(cfg)
	if prov.DefaultModel() != "openai/gpt-4o" {
		t.Errorf("model override = %q", prov.DefaultModel())
	}

	cfg.Model.Provider = "skynet"
	if _, err := Resolve(cfg); err == nil {
		t.Fatal("unknown provider should fail")
	}
}
