package alerts

import (
	"strings"
	"testing"

	"github.com/segmentio/kafka-go"

	"github.com/logsentry/logsentry/internal/bus"
)

func TestFormatAlertPrompt(t *testing.T) {
	prompt := formatAlertPrompt(&Alert{
		Source:      "prometheus",
		Severity:    "P1",
		Summary:     "checkout error rate above 5%",
		Resource:    "checkout-service",
		Description: "5xx responses spiked at 14:02 UTC",
	})

	for _, want := range []string{
		"Source: prometheus",
		"Severity: P1",
		"Summary: checkout error rate above 5%",
		"Resource: checkout-service",
		"5xx responses spiked",
		"a human must approve",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestFormatAlertPromptOmitsEmptyFields(t *testing.T) {
	prompt := formatAlertPrompt(&Alert{Source: "grafana", Severity: "P3", Summary: "disk filling up"})
	if strings.Contains(prompt, "Resource:") || strings.Contains(prompt, "Description:") {
		t.Errorf("empty fields rendered:\n%s", prompt)
	}
}

func TestHandlePublishesExternalMessage(t *testing.T) {
	b := bus.NewMessageBus()
	c := &Consumer{bus: b}

	c.handle(kafka.Message{
		Topic:     "monitoring.alerts",
		Partition: 2,
		Offset:    99,
		Value:     []byte(`{"source":"prometheus","severity":"P2","summary":"latency up","resource":"api"}`),
	})

	select {
	case msg := <-b.ConsumeInbound():
		if msg.Channel != "alerts" {
			t.Errorf("channel = %q", msg.Channel)
		}
		if msg.MessageType() != bus.MessageTypeExternal {
			t.Errorf("type = %q, alerts must be external", msg.MessageType())
		}
		if msg.IdempotencyKey != "kafka:monitoring.alerts:2:99" {
			t.Errorf("idempotency key = %q", msg.IdempotencyKey)
		}
		if msg.Metadata["severity"] != "P2" {
			t.Errorf("metadata = %v", msg.Metadata)
		}
		if !strings.Contains(msg.Content, "latency up") {
			t.Errorf("content = %q", msg.Content)
		}
	default:
		t.Fatal("no inbound message published")
	}
}

func TestHandleDropsMalformedAlerts(t *testing.T) {
	b := bus.NewMessageBus()
	c := &Consumer{bus: b}

	c.handle(kafka.Message{Value: []byte("not json")})
	c.handle(kafka.Message{Value: []byte(`{"source":"x"}`)}) // missing summary

	select {
	case msg := <-b.ConsumeInbound():
		t.Fatalf("malformed alert published: %+v", msg)
	default:
	}
}
