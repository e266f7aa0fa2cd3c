// Package alerts consumes monitoring alerts from Kafka and feeds them to the
// agent as external messages.
package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/logsentry/logsentry/internal/bus"
	"github.com/logsentry/logsentry/internal/config"
)

// Alert is the JSON payload produced by the monitoring stack.
type Alert struct {
	Source      string `json:"source"`
	Severity    string `json:"severity"`
	Summary     string `json:"summary"`
	Resource    string `json:"resource"`
	Description string `json:"description"`
}

// Consumer reads alerts from a Kafka topic and publishes them on the bus.
type Consumer struct {
	reader *kafka.Reader
	bus    *bus.MessageBus
}

// NewConsumer creates a Kafka alert consumer from the alerts config.
func NewConsumer(cfg config.AlertsConfig, b *bus.MessageBus) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  strings.Split(cfg.Brokers, ","),
		Topic:    cfg.Topic,
		GroupID:  cfg.ConsumerGroup,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return &Consumer{reader: reader, bus: b}
}

// Start consumes alerts until ctx is cancelled. Run it in its own goroutine.
func (c *Consumer) Start(ctx context.Context) {
	slog.Info("alert consumer started", "topic", c.reader.Config().Topic)
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				slog.Info("alert consumer stopped")
				return
			}
			slog.Warn("reading alert failed", "error", err)
			time.Sleep(time.Second)
			continue
		}
		c.handle(msg)
	}
}

// Stop closes the underlying Kafka reader.
func (c *Consumer) Stop() error {
	return c.reader.Close()
}

// handle turns one Kafka record into an inbound agent message. Alerts are
// always external: their content can never grant approval for protected
// actions.
func (c *Consumer) handle(msg kafka.Message) {
	var alert Alert
	if err := json.Unmarshal(msg.Value, &alert); err != nil {
		slog.Warn("discarding malformed alert",
			"partition", msg.Partition, "offset", msg.Offset, "error", err)
		return
	}
	if alert.Summary == "" {
		slog.Warn("discarding alert without summary",
			"partition", msg.Partition, "offset", msg.Offset)
		return
	}

	c.bus.PublishInbound(&bus.InboundMessage{
		Channel:        "alerts",
		SenderID:       alert.Source,
		ChatID:         alert.Resource,
		IdempotencyKey: fmt.Sprintf("kafka:%s:%d:%d", msg.Topic, msg.Partition, msg.Offset),
		Type:           bus.MessageTypeExternal,
		Content:        formatAlertPrompt(&alert),
		Metadata: map[string]string{
			"severity": alert.Severity,
			"source":   alert.Source,
		},
	})
}

// formatAlertPrompt renders an alert as an investigation request for the
// agent.
func formatAlertPrompt(a *Alert) string {
	var sb strings.Builder
	sb.WriteString("A monitoring alert was received. Investigate it using the available logs.\n\n")
	fmt.Fprintf(&sb, "Source: %s\n", a.Source)
	fmt.Fprintf(&sb, "Severity: %s\n", a.Severity)
	fmt.Fprintf(&sb, "Summary: %s\n", a.Summary)
	if a.Resource != "" {
		fmt.Fprintf(&sb, "Resource: %s\n", a.Resource)
	}
	if a.Description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", a.Description)
	}
	sb.WriteString("\nReport your findings and recommend remediation. Do not execute infrastructure actions; a human must approve those.")
	return sb.String()
}
