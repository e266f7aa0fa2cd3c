package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/logsentry/logsentry/internal/agent"
	"github.com/logsentry/logsentry/internal/audit"
	"github.com/logsentry/logsentry/internal/config"
	"github.com/logsentry/logsentry/internal/provider"
	"github.com/logsentry/logsentry/internal/session"
)

var (
	chatMessage string
	chatSession string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the incident-response agent",
	Run:   runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatMessage, "message", "m", "", "Send a single message and exit")
	chatCmd.Flags().StringVarP(&chatSession, "session", "s", "default", "Session key for conversation history")
}

func runChat(cmd *cobra.Command, args []string) {
	printHeader("🔎 LogSentry Chat")

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Config warning: %v (using defaults)\n", err)
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

	// Audit trail is best effort in chat mode.
	var auditSvc *audit.Service
	if svc, err := audit.Open(cfg.AuditDBPath()); err != nil {
		fmt.Printf("Audit warning: %v (continuing without audit trail)\n", err)
	} else {
		auditSvc = svc
		defer auditSvc.Close()
	}

	sessions, err := session.NewManager(filepath.Join(cfg.ResolveWorkspace(), "sessions"))
	if err != nil {
		fmt.Printf("Session error: %v\n", err)
		os.Exit(1)
	}

	loop, err := agent.NewLoop(agent.LoopOptions{
		Provider: prov,
		Audit:    auditSvc,
		Sessions: sessions,
		Config:   cfg,
	})
	if err != nil {
		fmt.Printf("Agent error: %v\n", err)
		os.Exit(1)
	}

	ctx := cmd.Context()
	if chatMessage != "" {
		respond(ctx, loop, chatMessage)
		return
	}

	fmt.Println("Interactive mode. Type 'exit' to quit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(color.GreenString("you> "))
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			return
		}
		respond(ctx, loop, input)
	}
}

func respond(ctx context.Context, loop *agent.Loop, input string) {
	response, err := loop.ProcessDirect(ctx, input, "cli:"+chatSession)
	if err != nil {
		color.Red("Error: %v", err)
		return
	}
	fmt.Println()
	fmt.Println(response)
	fmt.Println()
}
