package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/logsentry/logsentry/internal/agent"
	"github.com/logsentry/logsentry/internal/alerts"
	"github.com/logsentry/logsentry/internal/audit"
	"github.com/logsentry/logsentry/internal/bus"
	"github.com/logsentry/logsentry/internal/channels"
	"github.com/logsentry/logsentry/internal/config"
	"github.com/logsentry/logsentry/internal/provider"
	"github.com/logsentry/logsentry/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the agent daemon (Kafka alert intake, Slack delivery)",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	printHeader("🛰️ LogSentry Serve")
	fmt.Println("Starting LogSentry daemon...")

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Config error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Config error: %v\n", err)
		os.Exit(1)
	}

	prov, err := provider.Resolve(cfg)
	if err != nil {
		fmt.Printf("Provider error: %v\n", err)
		os.Exit(1)
	}

	auditSvc, err := audit.Open(cfg.AuditDBPath())
	if err != nil {
		fmt.Printf("Audit error: %v\n", err)
		os.Exit(1)
	}
	defer auditSvc.Close()

	sessions, err := session.NewManager(filepath.Join(cfg.ResolveWorkspace(), "sessions"))
	if err != nil {
		fmt.Printf("Session error: %v\n", err)
		os.Exit(1)
	}

	msgBus := bus.NewMessageBus()
	defer msgBus.Stop()

	loop, err := agent.NewLoop(agent.LoopOptions{
		Bus:      msgBus,
		Provider: prov,
		Audit:    auditSvc,
		Sessions: sessions,
		Config:   cfg,
	})
	if err != nil {
		fmt.Printf("Agent error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	console := channels.NewConsoleChannel(msgBus)
	console.Start(ctx)
	slack := channels.NewSlackChannel(cfg.Slack, msgBus)
	slack.Start(ctx)

	go msgBus.DispatchOutbound()
	go loop.Run(ctx)

	var consumer *alerts.Consumer
	if cfg.Alerts.Enabled {
		consumer = alerts.NewConsumer(cfg.Alerts, msgBus)
		go consumer.Start(ctx)
		fmt.Printf("Alert intake:  Kafka %s (topic %s)\n", cfg.Alerts.Brokers, cfg.Alerts.Topic)
	} else {
		fmt.Println("Alert intake:  disabled")
	}
	fmt.Printf("Log directory: %s\n", cfg.Paths.LogDirectory)
	fmt.Println("Daemon ready. Press Ctrl+C to stop.")

	<-ctx.Done()
	fmt.Println("\nShutting down...")
	if consumer != nil {
		consumer.Stop()
	}
}
