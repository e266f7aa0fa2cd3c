package channels

import (
	"context"
	"log/slog"

	"github.com/slack-go/slack"

	"github.com/logsentry/logsentry/internal/bus"
	"github.com/logsentry/logsentry/internal/config"
)

// SlackChannel delivers agent responses to Slack via an incoming webhook.
type SlackChannel struct {
	webhookURL string
	channel    string
	bus        *bus.MessageBus
}

// NewSlackChannel creates the Slack delivery channel.
func NewSlackChannel(cfg config.SlackConfig, b *bus.MessageBus) *SlackChannel {
	return &SlackChannel{
		webhookURL: cfg.WebhookURL,
		channel:    cfg.Channel,
		bus:        b,
	}
}

func (s *SlackChannel) Name() string { return "slack" }

// Start subscribes the channel to outbound messages.
func (s *SlackChannel) Start(ctx context.Context) error {
	s.bus.Subscribe(s.Name(), func(msg *bus.OutboundMessage) {
		s.deliver(ctx, msg)
	})
	slog.Info("slack channel started", "channel", s.channel)
	return nil
}

func (s *SlackChannel) Stop() error { return nil }

func (s *SlackChannel) deliver(ctx context.Context, msg *bus.OutboundMessage) {
	if s.webhookURL == "" {
		slog.Warn("slack webhook not configured, dropping response", "trace_id", msg.TraceID)
		return
	}
	err := slack.PostWebhookContext(ctx, s.webhookURL, &slack.WebhookMessage{
		Channel: s.channel,
		Text:    msg.Content,
	})
	if err != nil {
		slog.Error("delivering slack response failed", "trace_id", msg.TraceID, "error", err)
		return
	}
	slog.Info("slack response delivered", "trace_id", msg.TraceID)
}
