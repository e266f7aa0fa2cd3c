// Package tools provides the tool framework and implementations for the agent.
package tools

import (
	"context"
	"fmt"
	"sort"
)

// Classification controls whether a tool may execute without human approval.
type Classification int

const (
	// ClassAuto marks tools that are safe to execute automatically.
	ClassAuto Classification = iota
	// ClassApprovalRequired marks tools that mutate infrastructure and must
	// be confirmed by a human before execution.
	ClassApprovalRequired
	// ClassUnknown is returned when a tool name is not registered.
	ClassUnknown
)

// String returns the classification label used in audit records.
func (c Classification) String() string {
	switch c {
	case ClassAuto:
		return "auto"
	case ClassApprovalRequired:
		return "approval-required"
	default:
		return "unknown"
	}
}

// Tool is the interface that all agent tools must implement.
type Tool interface {
	// Name returns the tool identifier used in function calls.
	Name() string
	// Description returns a human-readable description for the LLM.
	Description() string
	// Parameters returns the JSON Schema for tool parameters.
	Parameters() map[string]any
	// Classification reports whether the tool executes automatically or
	// requires human approval.
	Classification() Classification
	// Execute runs the tool with the given parameters.
	// Returns result string and error. On error, return user-friendly message.
	Execute(ctx context.Context, params map[string]any) (string, error)
}

// Registry manages tool registration and execution. It is populated once at
// startup and read-only afterwards, so concurrent lookups need no locking.
type Registry struct {
	tools map[string]Tool
}

// NewRegistry creates a new tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool to the registry. Duplicate names are a configuration
// error and rejected.
func (r *Registry) Register(tool Tool) error {
	if _, exists := r.tools[tool.Name()]; exists {
		return fmt.Errorf("tool already registered: %s", tool.Name())
	}
	r.tools[tool.Name()] = tool
	return nil
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

// Classify returns the safety classification for a tool name.
// Unregistered names report ClassUnknown.
func (r *Registry) Classify(name string) Classification {
	tool, ok := r.tools[name]
	if !ok {
		return ClassUnknown
	}
	return tool.Classification()
}

// List returns all registered tools, sorted by name.
func (r *Registry) List() []Tool {
	result := make([]Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		result = append(result, tool)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name() < result[j].Name() })
	return result
}

// Execute runs a tool by name with the given parameters.
func (r *Registry) Execute(ctx context.Context, name string, params map[string]any) (string, error) {
	tool, ok := r.tools[name]
	if !ok {
		return "", fmt.Errorf("tool not found: %s", name)
	}
	return tool.Execute(ctx, params)
}

// GetString extracts a string parameter with a default value.
func GetString(params map[string]any, key string, defaultVal string) string {
	if v, ok := params[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return defaultVal
}
