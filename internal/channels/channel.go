// Package channels implements the outbound delivery surfaces for agent
// responses in serve mode.
package channels

import "context"

// Channel is an outbound delivery surface. Channels subscribe themselves to
// the message bus when started.
type Channel interface {
	// Name returns the channel identifier used in bus routing.
	Name() string
	// Start registers the channel with the bus and begins delivery.
	Start(ctx context.Context) error
	// Stop shuts the channel down.
	Stop() error
}
