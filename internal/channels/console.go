package channels

import (
	"context"
	"fmt"

	"github.com/fatih/color"

	"github.com/logsentry/logsentry/internal/bus"
)

// ConsoleChannel prints agent responses to stdout. Used in serve mode so
// alert-triggered analyses are visible in the terminal, and routes responses
// for inbound messages tagged with the "console" channel.
type ConsoleChannel struct {
	bus *bus.MessageBus
}

// NewConsoleChannel creates the console delivery channel.
func NewConsoleChannel(b *bus.MessageBus) *ConsoleChannel {
	return &ConsoleChannel{bus: b}
}

func (c *ConsoleChannel) Name() string { return "console" }

// Start subscribes the channel to outbound messages. It also handles the
// "alerts" channel so alert analyses land on the console.
func (c *ConsoleChannel) Start(ctx context.Context) error {
	handler := func(msg *bus.OutboundMessage) {
		fmt.Println()
		color.Cyan("--- %s (trace %s) ---", msg.Channel, msg.TraceID)
		fmt.Println(msg.Content)
	}
	c.bus.Subscribe(c.Name(), handler)
	c.bus.Subscribe("alerts", handler)
	return nil
}

func (c *ConsoleChannel) Stop() error { return nil }
