package provider

import "context"

// Message represents one turn in the model conversation.
// Role is one of "system", "user", "assistant", "tool". ToolCalls is only
// populated on assistant turns; ToolCallID only on tool turns, correlating a
// tool result back to the call that produced it.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ToolCall is a model-requested tool invocation.
type ToolCall struct {
	ID       string         `json:"id"`
	Type     string         `json:"type,omitempty"`
	Function *FunctionCall  `json:"function,omitempty"`
	Name     string         `json:"name,omitempty"`
	Args     map[string]any `json:"arguments,omitempty"`
}

// FunctionCall is the function name + raw JSON arguments from the model.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // raw JSON string
}

// Response is one assistant turn: final text, or a set of tool calls.
type Response struct {
	Content      string     `json:"content"`
	ToolCalls    []ToolCall `json:"tool_calls,omitempty"`
	FinishReason string     `json:"finish_reason"`
}

// ToolDefinition is an OpenAI-compatible function tool schema.
type ToolDefinition struct {
	Type     string             `json:"type"`
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition describes a callable function for the model.
type FunctionDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Provider is the model gateway boundary: given the conversation so far and
// the tool catalog, return the next assistant turn.
type Provider interface {
	Chat(ctx context.Context, messages []Message, tools []ToolDefinition) (*Response, error)
}
