// Package agent implements the tool-calling orchestration loop at the heart
// of logsentry.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/logsentry/logsentry/internal/approval"
	"github.com/logsentry/logsentry/internal/audit"
	"github.com/logsentry/logsentry/internal/bus"
	"github.com/logsentry/logsentry/internal/config"
	"github.com/logsentry/logsentry/internal/provider"
	"github.com/logsentry/logsentry/internal/session"
	"github.com/logsentry/logsentry/internal/tools"
)

// Fallback responses when the model produces no usable text.
const (
	noResponseText    = "No response generated."
	maxStepsText      = "Reached maximum analysis steps."
	defaultIterations = 10
)

// blockedResultFmt is the tool result fed back to the model when an
// approval-required action is dispatched without a standing confirmation.
// The wording instructs the model to surface the pending action and retry
// after the user confirms.
const blockedResultFmt = "Action '%s' requires human approval and was not executed. " +
	"Present your findings and ask the user to confirm. " +
	"When the user confirms, call this tool again -- the system will allow it through."

// LoopOptions configures a Loop.
type LoopOptions struct {
	Bus      *bus.MessageBus
	Provider provider.LLMProvider
	Audit    *audit.Service // optional; nil disables the audit trail
	Sessions *session.Manager
	Config   *config.Config
	Gate     *approval.Gate
}

// Loop is the agent core: it consumes inbound messages, runs the
// tool-calling loop against the configured LLM provider, and publishes
// responses.
type Loop struct {
	bus         *bus.MessageBus
	provider    provider.LLMProvider
	audit       *audit.Service
	sessions    *session.Manager
	cfg         *config.Config
	gate        *approval.Gate
	registry    *tools.Registry
	contextB    *ContextBuilder
	maxIter     int
	toolTimeout time.Duration
}

// NewLoop creates the agent loop and registers the default tool set.
func NewLoop(opts LoopOptions) (*Loop, error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("agent loop requires a provider")
	}
	if opts.Config == nil {
		return nil, fmt.Errorf("agent loop requires a config")
	}
	if opts.Gate == nil {
		opts.Gate = approval.NewGate(opts.Config.Approval.Phrases)
	}

	maxIter := opts.Config.Model.MaxToolIterations
	if maxIter <= 0 {
		maxIter = defaultIterations
	}
	toolTimeout := time.Duration(opts.Config.Model.ToolTimeoutSeconds) * time.Second
	if toolTimeout <= 0 {
		toolTimeout = 60 * time.Second
	}

	l := &Loop{
		bus:         opts.Bus,
		provider:    opts.Provider,
		audit:       opts.Audit,
		sessions:    opts.Sessions,
		cfg:         opts.Config,
		gate:        opts.Gate,
		registry:    tools.NewRegistry(),
		contextB:    NewContextBuilder(opts.Config.Paths.LogDirectory),
		maxIter:     maxIter,
		toolTimeout: toolTimeout,
	}
	if err := l.registerDefaultTools(); err != nil {
		return nil, err
	}
	return l, nil
}

// Registry exposes the tool registry, mainly for the status command.
func (l *Loop) Registry() *tools.Registry { return l.registry }

func (l *Loop) registerDefaultTools() error {
	logDir := l.cfg.Paths.LogDirectory
	all := []tools.Tool{
		tools.NewReadLogFileTool(logDir),
		tools.NewListLogFilesTool(logDir),
		tools.NewSearchLogsTool(logDir),
		tools.NewSendSlackNotificationTool(l.cfg.Slack.WebhookURL, l.cfg.Slack.Channel),
		tools.NewRestartKubernetesPodTool(),
		tools.NewRebootRDSInstanceTool(""),
	}
	for _, t := range all {
		if err := l.registry.Register(t); err != nil {
			return fmt.Errorf("registering default tools: %w", err)
		}
	}
	return nil
}

// Run consumes inbound messages from the bus until ctx is cancelled.
// Serve-mode entry point; run it in its own goroutine.
func (l *Loop) Run(ctx context.Context) {
	slog.Info("agent loop started", "max_iterations", l.maxIter)
	for {
		select {
		case <-ctx.Done():
			slog.Info("agent loop stopped")
			return
		case msg := <-l.bus.ConsumeInbound():
			l.handleInbound(ctx, msg)
		}
	}
}

// handleInbound processes one bus message end to end: dedup, task record,
// agent loop, response publication.
func (l *Loop) handleInbound(ctx context.Context, msg *bus.InboundMessage) {
	if msg.TraceID == "" {
		msg.TraceID = uuid.New().String()
	}
	log := slog.With("trace_id", msg.TraceID, "channel", msg.Channel)

	// Redelivered messages (Kafka rebalance, channel retry) are answered
	// from the audit record instead of re-running the agent.
	if l.audit != nil && msg.IdempotencyKey != "" {
		if prev, err := l.audit.GetTaskByIdempotencyKey(ctx, msg.IdempotencyKey); err != nil {
			log.Warn("idempotency lookup failed", "error", err)
		} else if prev != nil {
			log.Info("duplicate message, replaying prior result", "task_id", prev.TaskID)
			if prev.ContentOut != "" {
				l.publish(msg, prev.TaskID, prev.ContentOut)
			}
			return
		}
	}

	taskID := ""
	if l.audit != nil {
		id, err := l.audit.CreateTask(ctx, &audit.Task{
			IdempotencyKey: msg.IdempotencyKey,
			TraceID:        msg.TraceID,
			Channel:        msg.Channel,
			ChatID:         msg.ChatID,
			SenderID:       msg.SenderID,
			ContentIn:      msg.Content,
		})
		if err != nil {
			log.Warn("creating audit task failed", "error", err)
		} else {
			taskID = id
			l.audit.UpdateTaskStatus(ctx, taskID, audit.StatusProcessing, "", "")
		}
	}

	// External messages (monitoring alerts) can never stand in for a human
	// confirmation, no matter what their payload says.
	approved := false
	if msg.MessageType() == bus.MessageTypeInternal {
		approved = l.gate.IsConfirmation(msg.Content)
	}

	sessionKey := msg.Channel + ":" + msg.ChatID
	response, err := l.process(ctx, msg.Content, sessionKey, approved, msg.TraceID, taskID)
	if err != nil {
		log.Error("processing message failed", "error", err)
		if l.audit != nil && taskID != "" {
			l.audit.UpdateTaskStatus(ctx, taskID, audit.StatusFailed, "", err.Error())
		}
		l.publish(msg, taskID, "Sorry, something went wrong while analyzing this request.")
		return
	}

	if l.audit != nil && taskID != "" {
		l.audit.UpdateTaskStatus(ctx, taskID, audit.StatusCompleted, response, "")
	}
	l.publish(msg, taskID, response)
}

func (l *Loop) publish(msg *bus.InboundMessage, taskID, content string) {
	if l.bus == nil {
		return
	}
	l.bus.PublishOutbound(&bus.OutboundMessage{
		Channel: msg.Channel,
		ChatID:  msg.ChatID,
		TraceID: msg.TraceID,
		TaskID:  taskID,
		Content: content,
	})
}

// ProcessDirect runs one invocation outside the bus, for the interactive
// chat command. Approval is derived from the message itself.
func (l *Loop) ProcessDirect(ctx context.Context, content, sessionKey string) (string, error) {
	traceID := uuid.New().String()
	approved := l.gate.IsConfirmation(content)
	return l.process(ctx, content, sessionKey, approved, traceID, "")
}

// process runs the full tool-calling loop for one user message and persists
// the exchange to the session.
func (l *Loop) process(ctx context.Context, content, sessionKey string, approved bool, traceID, taskID string) (string, error) {
	var sess *session.Session
	var history []session.StoredMessage
	if l.sessions != nil {
		var err error
		sess, err = l.sessions.GetOrCreate(sessionKey)
		if err != nil {
			slog.Warn("loading session failed, continuing without history",
				"session", sessionKey, "error", err)
		} else {
			history = sess.Messages
		}
	}

	messages := l.contextB.Build(history, content)
	response, err := l.runAgentLoop(ctx, messages, approved, traceID, taskID)
	if err != nil {
		return "", err
	}

	if sess != nil {
		sess.AddMessage("user", content)
		sess.AddMessage("assistant", response)
		if err := l.sessions.Save(sess); err != nil {
			slog.Warn("saving session failed", "session", sessionKey, "error", err)
		}
	}
	return response, nil
}

// runAgentLoop drives provider round trips until the model returns a
// text-only reply or the iteration ceiling is hit.
func (l *Loop) runAgentLoop(ctx context.Context, messages []provider.Message, approved bool, traceID, taskID string) (string, error) {
	log := slog.With("trace_id", traceID)
	defs := l.toolDefinitions()
	lastText := ""

	for i := 0; i < l.maxIter; i++ {
		resp, err := l.provider.Chat(ctx, &provider.ChatRequest{
			Messages:    messages,
			Tools:       defs,
			Model:       l.modelName(),
			MaxTokens:   l.cfg.Model.MaxTokens,
			Temperature: l.cfg.Model.Temperature,
		})
		if err != nil {
			return "", fmt.Errorf("LLM request failed: %w", err)
		}
		l.trackTokens(ctx, taskID, resp.Usage)

		reply := normalizeResponse(resp)

		if len(reply.Requests) == 0 {
			if reply.Text != "" {
				return reply.Text, nil
			}
			if lastText != "" {
				return lastText, nil
			}
			return noResponseText, nil
		}

		// Keep intermediate reasoning the model produced alongside its
		// tool calls; it becomes the fallback answer.
		if reply.Text != "" {
			lastText = reply.Text
		}

		messages = append(messages, provider.Message{
			Role:      "assistant",
			Content:   reply.Text,
			ToolCalls: reply.Requests,
		})
		for _, tc := range reply.Requests {
			result := l.dispatch(ctx, tc, approved, traceID, taskID)
			log.Info("tool dispatched", "tool", tc.Name, "iteration", i+1)
			messages = append(messages, provider.Message{
				Role:       "tool",
				Content:    result,
				Name:       tc.Name,
				ToolCallID: tc.ID,
			})
		}
	}

	log.Warn("iteration ceiling reached", "max_iterations", l.maxIter)
	if lastText != "" {
		return lastText, nil
	}
	return maxStepsText, nil
}

// dispatch runs one tool call through classification, approval, and
// execution. It always returns result text; handler failures are reported
// back to the model, never allowed to abort the loop.
func (l *Loop) dispatch(ctx context.Context, tc provider.ToolCall, approved bool, traceID, taskID string) string {
	class := l.registry.Classify(tc.Name)
	ev := &audit.ToolEvent{
		TraceID:        traceID,
		TaskID:         taskID,
		Tool:           tc.Name,
		Classification: class.String(),
	}

	switch {
	case class == tools.ClassUnknown:
		ev.ErrorText = "tool not found"
		l.record(ctx, ev)
		return fmt.Sprintf("Tool '%s' not found", tc.Name)

	case class == tools.ClassApprovalRequired && !approved:
		ev.Blocked = true
		l.record(ctx, ev)
		slog.Info("tool blocked pending approval", "tool", tc.Name, "trace_id", traceID)
		return fmt.Sprintf(blockedResultFmt, tc.Name)
	}

	execCtx, cancel := context.WithTimeout(ctx, l.toolTimeout)
	defer cancel()

	start := time.Now()
	result, err := l.registry.Execute(execCtx, tc.Name, tc.Arguments)
	ev.Duration = time.Since(start)
	if err != nil {
		ev.ErrorText = err.Error()
		l.record(ctx, ev)
		return fmt.Sprintf("Error: %v", err)
	}
	ev.ResultLen = len(result)
	l.record(ctx, ev)
	return result
}

func (l *Loop) record(ctx context.Context, ev *audit.ToolEvent) {
	if l.audit != nil {
		l.audit.RecordToolEvent(ctx, ev)
	}
}

func (l *Loop) trackTokens(ctx context.Context, taskID string, u provider.Usage) {
	if l.audit == nil || taskID == "" || u.TotalTokens == 0 {
		return
	}
	if err := l.audit.AddTokens(ctx, taskID, u.PromptTokens, u.CompletionTokens, u.TotalTokens); err != nil {
		slog.Warn("recording token usage failed", "task_id", taskID, "error", err)
	}
}

func (l *Loop) toolDefinitions() []provider.ToolDefinition {
	list := l.registry.List()
	defs := make([]provider.ToolDefinition, 0, len(list))
	for _, t := range list {
		defs = append(defs, provider.ToolDefinition{
			Type: "function",
			Function: provider.FunctionDef{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}
	return defs
}

func (l *Loop) modelName() string {
	if l.cfg.Model.Name != "" {
		return l.cfg.Model.Name
	}
	return l.provider.DefaultModel()
}
