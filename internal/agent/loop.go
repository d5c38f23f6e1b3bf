// Package agent implements the tool-calling orchestration loop: ask the
// model what to do next, execute the tools it requests, repeat until it
// answers in plain text or the turn cap is reached.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/anatolykoptev/repnote/internal/provider"
	"github.com/anatolykoptev/repnote/internal/toolreg"
)

const (
	// maxToolResultLen is the maximum characters for a single tool result
	// before truncation.
	maxToolResultLen = 30000

	// capNotice is the synthetic final answer when the turn cap is hit.
	capNotice = "I reached the maximum number of tool turns for this request. " +
		"The actions completed so far have been recorded."
)

// Loop drives one conversation: it owns no state between requests, so a
// single Loop value may serve many concurrent Process calls.
type Loop struct {
	provider     provider.Provider
	registry     *toolreg.Registry
	maxTurns     int
	systemPrompt string
}

// NewLoop creates an agent loop. maxTurns bounds the number of model calls
// per request; it must be at least 1.
func NewLoop(p provider.Provider, r *toolreg.Registry, maxTurns int, systemPrompt string) *Loop {
	if maxTurns < 1 {
		maxTurns = 1
	}
	return &Loop{
		provider:     p,
		registry:     r,
		maxTurns:     maxTurns,
		systemPrompt: systemPrompt,
	}
}

// Result is the outcome of one conversation.
type Result struct {
	// Answer is the final assistant text. It may be empty: the absence of
	// tool calls, not content, is the terminal signal.
	Answer string
	// History is the complete ordered message sequence, starting with the
	// system instruction. The extraction layer scans it for structured data.
	History []provider.Message
	// Turns is how many model calls were made.
	Turns int
	// Capped reports that the turn cap ended the conversation and Answer
	// is synthetic.
	Capped bool
}

// Process runs the loop for one user message. A model gateway failure is
// fatal for the request; tool failures are recorded in history and never
// abort the loop.
func (l *Loop) Process(ctx context.Context, message string) (*Result, error) {
	messages := []provider.Message{
		{Role: "system", Content: l.systemPrompt},
		{Role: "user", Content: message},
	}

	for turn := 1; turn <= l.maxTurns; turn++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		resp, err := l.provider.Chat(ctx, messages, l.registry.ToLLMTools())
		if err != nil {
			return nil, fmt.Errorf("model gateway call failed (turn %d): %w", turn, err)
		}

		messages = append(messages, provider.Message{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		// No tool calls — terminal, even when the content is empty.
		if len(resp.ToolCalls) == 0 {
			return &Result{Answer: resp.Content, History: messages, Turns: turn}, nil
		}

		// Tool results must immediately follow the assistant message that
		// requested them, one per call, in the order the model listed them.
		messages = l.executeToolCalls(ctx, messages, resp.ToolCalls, turn)
	}

	slog.Warn("turn cap reached", slog.Int("max_turns", l.maxTurns))
	messages = append(messages, provider.Message{Role: "assistant", Content: capNotice})
	return &Result{Answer: capNotice, History: messages, Turns: l.maxTurns, Capped: true}, nil
}

// executeToolCalls runs each requested tool sequentially and appends one
// correlated tool-role message per call. Later tools may depend on earlier
// ones' committed effects, so calls within a turn are never parallelized.
func (l *Loop) executeToolCalls(ctx context.Context, messages []provider.Message, toolCalls []provider.ToolCall, turn int) []provider.Message {
	for _, tc := range toolCalls {
		name, args, argErr := parseToolCall(tc)

		slog.Info("executing tool", slog.String("tool", name), slog.Int("turn", turn))

		var result string
		if argErr != nil {
			result = "Error: " + argErr.Error()
			slog.Warn("tool arguments unusable", slog.String("tool", name), slog.Any("error", argErr))
		} else if out, err := l.registry.Execute(ctx, name, args); err != nil {
			result = "Error: " + err.Error()
			slog.Warn("tool execution failed", slog.String("tool", name), slog.Any("error", err))
		} else {
			result = out
		}

		if len(result) > maxToolResultLen {
			result = result[:maxToolResultLen] + "\n... (truncated)"
		}

		callID := tc.ID
		if callID == "" {
			callID = fmt.Sprintf("call_%d_%s", turn, name)
		}

		messages = append(messages, provider.Message{
			Role:       "tool",
			Content:    result,
			ToolCallID: callID,
		})
	}

	return messages
}

// parseToolCall resolves the tool name and argument map from whichever shape
// the provider delivered. Invalid argument JSON is an error for that call
// only, not for the request.
func parseToolCall(tc provider.ToolCall) (string, map[string]any, error) {
	name := tc.Name
	if name == "" && tc.Function != nil {
		name = tc.Function.Name
	}

	args := tc.Args
	if args == nil && tc.Function != nil && tc.Function.Arguments != "" {
		var parsed map[string]any
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &parsed); err != nil {
			return name, nil, fmt.Errorf("unparseable tool arguments: %w", err)
		}
		args = parsed
	}

	return name, args, nil
}
