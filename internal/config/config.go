// Package config provides configuration types and loading for logsentry.
package config

// Config is the root configuration struct.
// Top-level groups: Paths, Model, Providers, Approval, Slack, Alerts, Audit.
type Config struct {
	Paths     PathsConfig     `json:"paths"`
	Model     ModelConfig     `json:"model"`
	Providers ProvidersConfig `json:"providers"`
	Approval  ApprovalConfig  `json:"approval"`
	Slack     SlackConfig     `json:"slack"`
	Alerts    AlertsConfig    `json:"alerts"`
	Audit     AuditConfig     `json:"audit"`
}

// ---------------------------------------------------------------------------
// Paths – filesystem locations
// ---------------------------------------------------------------------------

// PathsConfig groups all filesystem path settings.
type PathsConfig struct {
	LogDirectory string `json:"logDirectory" envconfig:"LOG_DIRECTORY"`
	Workspace    string `json:"workspace" envconfig:"WORKSPACE"`
}

// ---------------------------------------------------------------------------
// Model – LLM behaviour
// ---------------------------------------------------------------------------

// ModelConfig groups LLM model and agent-loop settings.
type ModelConfig struct {
	// Provider selects the LLM backend: "gemini" (default) or "github".
	Provider           string  `json:"provider" envconfig:"LLM_PROVIDER"`
	Name               string  `json:"name" envconfig:"MODEL"`
	MaxTokens          int     `json:"maxTokens" envconfig:"MAX_TOKENS"`
	Temperature        float64 `json:"temperature" envconfig:"TEMPERATURE"`
	MaxToolIterations  int     `json:"maxToolIterations" envconfig:"MAX_TOOL_ITERATIONS"`
	ToolTimeoutSeconds int     `json:"toolTimeoutSeconds" envconfig:"TOOL_TIMEOUT_SECONDS"`
}

// ---------------------------------------------------------------------------
// Providers – LLM API keys & endpoints
// ---------------------------------------------------------------------------

// ProvidersConfig contains LLM provider configurations.
type ProvidersConfig struct {
	Gemini GeminiConfig `json:"gemini"`
	GitHub GitHubConfig `json:"github"`
}

// GeminiConfig contains settings for the Google Gemini provider.
type GeminiConfig struct {
	APIKey string `json:"apiKey" envconfig:"GEMINI_API_KEY"`
	Model  string `json:"model" envconfig:"GEMINI_MODEL"`
}

// GitHubConfig contains settings for GitHub Models (OpenAI-compatible endpoint).
type GitHubConfig struct {
	Token    string `json:"token" envconfig:"GITHUB_TOKEN"`
	Model    string `json:"model" envconfig:"GITHUB_MODEL"`
	Endpoint string `json:"endpoint" envconfig:"GITHUB_ENDPOINT"`
}

// ---------------------------------------------------------------------------
// Approval – human confirmation gate
// ---------------------------------------------------------------------------

// ApprovalConfig contains the confirmation phrase set for the approval gate.
// An empty Phrases list falls back to the built-in defaults.
type ApprovalConfig struct {
	Phrases []string `json:"phrases"`
}

// ---------------------------------------------------------------------------
// Slack – incident notifications
// ---------------------------------------------------------------------------

// SlackConfig configures Slack webhook delivery.
// When WebhookURL is empty the notification tool runs in placeholder mode.
type SlackConfig struct {
	WebhookURL string `json:"webhookUrl" envconfig:"SLACK_WEBHOOK_URL"`
	Channel    string `json:"channel" envconfig:"SLACK_CHANNEL"`
}

// ---------------------------------------------------------------------------
// Alerts – Kafka monitoring-alert intake
// ---------------------------------------------------------------------------

// AlertsConfig configures the Kafka alert consumer used in serve mode.
type AlertsConfig struct {
	Enabled       bool   `json:"enabled" envconfig:"ALERTS_ENABLED"`
	Brokers       string `json:"brokers" envconfig:"ALERTS_BROKERS"`
	Topic         string `json:"topic" envconfig:"ALERTS_TOPIC"`
	ConsumerGroup string `json:"consumerGroup" envconfig:"ALERTS_CONSUMER_GROUP"`
}

// ---------------------------------------------------------------------------
// Audit – SQLite audit trail
// ---------------------------------------------------------------------------

// AuditConfig configures the audit database.
type AuditConfig struct {
	DBPath string `json:"dbPath" envconfig:"AUDIT_DB_PATH"`
}

// DefaultConfig returns a Config populated with defaults.
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			LogDirectory: "logs",
			Workspace:    "~/.logsentry",
		},
		Model: ModelConfig{
			Provider:           "gemini",
			MaxTokens:          4096,
			Temperature:        0.1,
			MaxToolIterations:  10,
			ToolTimeoutSeconds: 60,
		},
		Providers: ProvidersConfig{
			Gemini: GeminiConfig{
				Model: "gemini-2.5-flash",
			},
			GitHub: GitHubConfig{
				Model:    "openai/gpt-5",
				Endpoint: "https://models.github.ai/inference",
			},
		},
		Slack: SlackConfig{
			Channel: "#devops-alerts",
		},
		Alerts: AlertsConfig{
			Brokers:       "localhost:9092",
			Topic:         "monitoring.alerts",
			ConsumerGroup: "logsentry",
		},
	}
}
