// Package extract pulls structured CRM data back out of a finished
// conversation. The model reports what it logged through tool calls; this
// package reads those calls from the message history instead of asking the
// model to repeat itself.
package extract

import (
	"encoding/json"

	"github.com/anatolykoptev/repnote/internal/crm"
	"github.com/anatolykoptev/repnote/internal/provider"
)

// Record is the structured interaction returned alongside the chat response.
type Record struct {
	HCPName         string `json:"hcp_name"`
	InteractionType string `json:"interaction_type"`
	Summary         string `json:"summary"`
	Sentiment       string `json:"sentiment"`
	NextStep        string `json:"next_step"`
}

// logToolName is the catalog name whose arguments carry the record fields.
const logToolName = "log_interaction"

// FromHistory scans the conversation for log_interaction calls and returns
// the record built from the latest one. If the model corrected itself and
// logged twice, the last call wins. The second return value reports whether
// any call was found.
func FromHistory(history []provider.Message) (Record, bool) {
	var rec Record
	found := false
	for _, msg := range history {
		if msg.Role != "assistant" {
			continue
		}
		for _, tc := range msg.ToolCalls {
			name := tc.Name
			if name == "" && tc.Function != nil {
				name = tc.Function.Name
			}
			if name != logToolName {
				continue
			}
			args := tc.Args
			if args == nil && tc.Function != nil && tc.Function.Arguments != "" {
				parsed := map[string]any{}
				if err := json.Unmarshal([]byte(tc.Function.Arguments), &parsed); err == nil {
					args = parsed
				}
			}
			// Last call wins even when its arguments are absent or
			// unparseable: the record then carries only the fixed type.
			rec = Record{
				HCPName:         argString(args, "hcp_name"),
				InteractionType: crm.InteractionTypeInPerson,
				Summary:         argString(args, "summary"),
				Sentiment:       argString(args, "sentiment"),
				NextStep:        argString(args, "next_step"),
			}
			found = true
		}
	}
	return rec, found
}

// DisplayText picks the text to show the user: the final message's content,
// or — when that is empty — the most recent non-empty content of any
// conversational role, tool results included. The seed system instruction is
// never surfaced. Falls back to a generic confirmation.
func DisplayText(history []provider.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		msg := history[i]
		if msg.Role == "system" {
			continue
		}
		if msg.Content != "" {
			return msg.Content
		}
	}
	return "Action completed."
}

func argString(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}
