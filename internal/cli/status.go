package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/logsentry/logsentry/internal/audit"
	"github.com/logsentry/logsentry/internal/config"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		printHeader("🏷️ LogSentry Version")
		fmt.Printf("Version: %s\n", version)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system status",
	Run: func(cmd *cobra.Command, args []string) {
		printHeader("📊 LogSentry Status")
		fmt.Printf("Version: %s\n", version)

		// Check config
		cfgPath, _ := config.ConfigPath()
		if _, err := os.Stat(cfgPath); err == nil {
			fmt.Println("Config:   ✓ Found (" + cfgPath + ")")
		} else {
			fmt.Println("Config:   ✗ Not found (using defaults + environment)")
		}

		cfg, err := config.Load()
		if err != nil {
			fmt.Println("Config:   ? Unable to load:", err)
			return
		}

		fmt.Printf("Provider: %s\n", cfg.Model.Provider)
		switch cfg.Model.Provider {
		case "gemini":
			if cfg.Providers.Gemini.APIKey != "" {
				fmt.Println("API Key:  ✓ Found")
			} else {
				fmt.Println("API Key:  ✗ Not found (set GEMINI_API_KEY)")
			}
		case "github":
			if cfg.Providers.GitHub.Token != "" {
				fmt.Println("API Key:  ✓ Found")
			} else {
				fmt.Println("API Key:  ✗ Not found (set GITHUB_TOKEN)")
			}
		}

		if cfg.Slack.WebhookURL != "" {
			fmt.Println("Slack:    ✓ Webhook configured")
		} else {
			fmt.Println("Slack:    ✗ No webhook (notifications simulated)")
		}
		if cfg.Alerts.Enabled {
			fmt.Printf("Alerts:   ✓ Kafka %s (topic %s)\n", cfg.Alerts.Brokers, cfg.Alerts.Topic)
		} else {
			fmt.Println("Alerts:   ✗ Disabled")
		}

		printAuditSummary(cfg)
		fmt.Println("Status:   Ready")
	},
}

func printAuditSummary(cfg *config.Config) {
	svc, err := audit.Open(cfg.AuditDBPath())
	if err != nil {
		fmt.Println("Audit:    ? Unable to open:", err)
		return
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	counts, err := svc.TaskCounts(ctx)
	if err != nil {
		fmt.Println("Audit:    ? Unable to query:", err)
		return
	}
	fmt.Printf("Audit:    %d completed, %d failed, %d in flight\n",
		counts.Completed, counts.Failed, counts.Pending+counts.Processing)

	tasks, err := svc.RecentTasks(ctx, 5)
	if err != nil || len(tasks) == 0 {
		return
	}
	fmt.Println("Recent tasks:")
	for _, t := range tasks {
		in := t.ContentIn
		if len(in) > 60 {
			in = in[:57] + "..."
		}
		fmt.Printf("  [%s] %s %s\n", t.Status, t.CreatedAt.Format("2006-01-02 15:04"), in)
	}
}
