// Package llm wraps the language-model completion service behind a small
// structured interface: given the conversation so far and the declared tool
// schema, a completion is either a set of tool invocation requests or final
// answer text. Callers never parse prose to tell the two apart.
package llm

import (
	"context"
	"fmt"
)

// Role identifies the author of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one entry of the prompt context sent to the model.
type Message struct {
	Role    Role
	Content string
	// ToolCalls echoes the tool requests of a prior assistant message so
	// the model can associate the tool results that follow.
	ToolCalls []ToolCall
	// ToolCallID links a RoleTool message to the call it answers.
	ToolCallID string
}

// ToolCall is a structured tool invocation request emitted by the model.
// Arguments is the raw JSON payload; the caller validates and decodes it.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// Completion is the model's structured response: tool calls, or final
// answer content when ToolCalls is empty.
type Completion struct {
	Content   string
	ToolCalls []ToolCall
}

// IsToolRequest reports whether the completion asks for tool execution.
func (c Completion) IsToolRequest() bool {
	return len(c.ToolCalls) > 0
}

// Client is the language-model capability.
type Client interface {
	Complete(ctx context.Context, messages []Message) (Completion, error)
}

// CapabilityError reports that the completion backend itself is unreachable
// or failing, as opposed to the model producing an unhelpful response.
type CapabilityError struct {
	Provider string
	Err      error
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("model capability unavailable (provider %s): %v", e.Provider, e.Err)
}

func (e *CapabilityError) Unwrap() error {
	return e.Err
}
