package extract

import (
	"testing"

	"github.com/anatolykoptev/repnote/internal/provider"
)

func logCall(args map[string]any) provider.ToolCall {
	return provider.ToolCall{ID: "c1", Name: "log_interaction", Args: args}
}

func TestFromHistory_SingleLog(t *testing.T) {
	history := []provider.Message{
		{Role: "system", Content: "prompt"},
		{Role: "user", Content: "met dr smith"},
		{Role: "assistant", ToolCalls: []provider.ToolCall{logCall(map[string]any{
			"hcp_name":  "Dr. Smith",
			"summary":   "Discussed dosing",
			"sentiment": "Positive",
			"next_step": "Follow-up: Schedule meeting regarding Discussed dosing",
		})}},
		{Role: "tool", ToolCallID: "c1", Content: "Successfully logged interaction for Dr. Smith."},
		{Role: "assistant", Content: "Logged it."},
	}

	rec, ok := FromHistory(history)
	if !ok {
		t.Fatal("expected a record")
	}
	if rec.HCPName != "Dr. Smith" {
		t.Errorf("hcp_name: got %q", rec.HCPName)
	}
	if rec.InteractionType != "In-Person" {
		t.Errorf("interaction_type: got %q", rec.InteractionType)
	}
	if rec.Sentiment != "Positive" {
		t.Errorf("sentiment: got %q", rec.Sentiment)
	}
}

func TestFromHistory_LastLogWins(t *testing.T) {
	history := []provider.Message{
		{Role: "assistant", ToolCalls: []provider.ToolCall{logCall(map[string]any{
			"hcp_name": "Dr. Smith", "summary": "first pass",
		})}},
		{Role: "assistant", ToolCalls: []provider.ToolCall{logCall(map[string]any{
			"hcp_name": "Dr. Smith", "summary": "corrected summary",
		})}},
	}

	rec, ok := FromHistory(history)
	if !ok {
		t.Fatal("expected a record")
	}
	if rec.Summary != "corrected summary" {
		t.Errorf("summary: got %q, want the later call's value", rec.Summary)
	}
}

func TestFromHistory_RawFunctionArguments(t *testing.T) {
	history := []provider.Message{
		{Role: "assistant", ToolCalls: []provider.ToolCall{{
			ID: "c1",
			Function: &provider.FunctionCall{
				Name:      "log_interaction",
				Arguments: `{"hcp_name":"Dr. Patel","summary":"Samples dropped off"}`,
			},
		}}},
	}

	rec, ok := FromHistory(history)
	if !ok {
		t.Fatal("expected a record")
	}
	if rec.HCPName != "Dr. Patel" {
		t.Errorf("hcp_name: got %q", rec.HCPName)
	}
}

func TestFromHistory_NoLog(t *testing.T) {
	history := []provider.Message{
		{Role: "user", Content: "what can you do?"},
		{Role: "assistant", ToolCalls: []provider.ToolCall{{ID: "c1", Name: "search_hcp", Args: map[string]any{"name": "smith"}}}},
		{Role: "assistant", Content: "I can log interactions."},
	}

	if _, ok := FromHistory(history); ok {
		t.Error("search-only conversation should yield no record")
	}
}

func TestFromHistory_MissingFieldsEmpty(t *testing.T) {
	history := []provider.Message{
		{Role: "assistant", ToolCalls: []provider.ToolCall{logCall(map[string]any{
			"hcp_name": "Dr. Lee",
		})}},
	}

	rec, ok := FromHistory(history)
	if !ok {
		t.Fatal("expected a record")
	}
	if rec.Summary != "" || rec.NextStep != "" {
		t.Errorf("absent fields should stay empty: %+v", rec)
	}
}

func TestFromHistory_MalformedFinalCallWins(t *testing.T) {
	history := []provider.Message{
		{Role: "assistant", ToolCalls: []provider.ToolCall{logCall(map[string]any{
			"hcp_name": "Dr. Smith", "summary": "good first pass",
		})}},
		{Role: "assistant", ToolCalls: []provider.ToolCall{{
			ID:       "c2",
			Function: &provider.FunctionCall{Name: "log_interaction", Arguments: "{broken"},
		}}},
	}

	rec, ok := FromHistory(history)
	if !ok {
		t.Fatal("expected a record")
	}
	if rec.HCPName != "" || rec.Summary != "" {
		t.Errorf("earlier call's fields must not survive: %+v", rec)
	}
	if rec.InteractionType != "In-Person" {
		t.Errorf("interaction_type: got %q", rec.InteractionType)
	}
}

func TestDisplayText(t *testing.T) {
	cases := []struct {
		name    string
		history []provider.Message
		want    string
	}{
		{
			name: "final assistant content",
			history: []provider.Message{
				{Role: "assistant", Content: "earlier"},
				{Role: "assistant", Content: "All logged."},
			},
			want: "All logged.",
		},
		{
			name: "tool result shown when final assistant is empty",
			history: []provider.Message{
				{Role: "user", Content: "met dr smith"},
				{Role: "assistant", ToolCalls: []provider.ToolCall{{ID: "c1", Name: "log_interaction"}}},
				{Role: "tool", ToolCallID: "c1", Content: "Successfully logged interaction for Dr. Smith."},
				{Role: "assistant", Content: ""},
			},
			want: "Successfully logged interaction for Dr. Smith.",
		},
		{
			name: "user message is the last resort before the fallback",
			history: []provider.Message{
				{Role: "system", Content: "instruction text"},
				{Role: "user", Content: "log it"},
				{Role: "assistant", Content: ""},
			},
			want: "log it",
		},
		{
			name: "fallback when every content is empty",
			history: []provider.Message{
				{Role: "system", Content: "instruction text"},
				{Role: "user", Content: ""},
				{Role: "assistant", Content: ""},
			},
			want: "Action completed.",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DisplayText(tc.history); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}
