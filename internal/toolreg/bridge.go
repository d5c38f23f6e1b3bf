package toolreg

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/anatolykoptev/repnote/internal/crm"
)

// RegisterAll registers the CRM tool catalog against the desk.
func RegisterAll(r *Registry, desk *crm.Desk) {
	r.Register(&logInteractionTool{desk: desk})
	r.Register(&editInteractionTool{desk: desk})
	r.Register(&hcpSearchTool{desk: desk})
	r.Register(&sentimentTool{desk: desk})
	r.Register(&followupTool{desk: desk})
}

// helpers for best-effort coercion of map[string]any args into typed values.
// The model may omit fields or send a numeric-looking string where an
// integer is expected.

func getString(args map[string]any, key string) string {
	if v, ok := args[key]; ok {
		switch s := v.(type) {
		case string:
			return s
		case float64:
			return strconv.FormatFloat(s, 'f', -1, 64)
		case bool:
			return strconv.FormatBool(s)
		}
	}
	return ""
}

// getInt coerces args[key] to an integer, accepting JSON numbers and
// numeric strings. Returns an error on an irrecoverable mismatch.
func getInt(args map[string]any, key string) (int64, error) {
	v, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("missing required argument %q", key)
	}
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("argument %q must be an integer, got %v", key, n)
		}
		return int64(n), nil
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case string:
		id, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("argument %q must be an integer, got %q", key, n)
		}
		return id, nil
	default:
		return 0, fmt.Errorf("argument %q must be an integer, got %T", key, v)
	}
}

// --- log_interaction ---

type logInteractionTool struct{ desk *crm.Desk }

func (t *logInteractionTool) Name() string { return "log_interaction" }
func (t *logInteractionTool) Description() string {
	return "Log a new interaction with an HCP. Use this when the user describes a meeting."
}
func (t *logInteractionTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"hcp_name":  map[string]any{"type": "string", "description": "Full name of the healthcare provider"},
			"summary":   map[string]any{"type": "string", "description": "Short summary of the meeting"},
			"sentiment": map[string]any{"type": "string", "description": "Observed sentiment: Positive, Neutral or Concerned"},
			"next_step": map[string]any{"type": "string", "description": "Agreed follow-up action"},
		},
		"required": []string{"hcp_name", "summary", "sentiment", "next_step"},
	}
}
func (t *logInteractionTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	return t.desk.LogInteraction(ctx, crm.LogInput{
		HCPName:   getString(args, "hcp_name"),
		Summary:   getString(args, "summary"),
		Sentiment: getString(args, "sentiment"),
		NextStep:  getString(args, "next_step"),
	})
}

// --- edit_interaction ---

type editInteractionTool struct{ desk *crm.Desk }

func (t *editInteractionTool) Name() string { return "edit_interaction" }
func (t *editInteractionTool) Description() string {
	return "Update an existing interaction's summary. interaction_id MUST be an integer."
}
func (t *editInteractionTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"interaction_id": map[string]any{"type": "integer", "description": "Record id to update"},
			"new_summary":    map[string]any{"type": "string", "description": "Replacement summary text"},
		},
		"required": []string{"interaction_id", "new_summary"},
	}
}
func (t *editInteractionTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	id, err := getInt(args, "interaction_id")
	if err != nil {
		return "", err
	}
	return t.desk.EditInteraction(ctx, id, getString(args, "new_summary"))
}

// --- hcp_search ---

type hcpSearchTool struct{ desk *crm.Desk }

func (t *hcpSearchTool) Name() string        { return "hcp_search" }
func (t *hcpSearchTool) Description() string { return "Search for existing HCP records by name." }
func (t *hcpSearchTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name_query": map[string]any{"type": "string", "description": "Name or name fragment to search for"},
		},
		"required": []string{"name_query"},
	}
}
func (t *hcpSearchTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	return t.desk.SearchHCPs(ctx, getString(args, "name_query"))
}

// --- analyze_sentiment ---

type sentimentTool struct{ desk *crm.Desk }

func (t *sentimentTool) Name() string { return "analyze_sentiment" }
func (t *sentimentTool) Description() string {
	return "Analyze if the doctor's tone was Positive, Neutral, or Concerned."
}
func (t *sentimentTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text": map[string]any{"type": "string", "description": "Free text to analyze"},
		},
		"required": []string{"text"},
	}
}
func (t *sentimentTool) Execute(_ context.Context, args map[string]any) (string, error) {
	return t.desk.AnalyzeSentiment(getString(args, "text")), nil
}

// --- generate_followup ---

type followupTool struct{ desk *crm.Desk }

func (t *followupTool) Name() string        { return "generate_followup" }
func (t *followupTool) Description() string { return "Generate a specific follow-up task summary." }
func (t *followupTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"context": map[string]any{"type": "string", "description": "Meeting context for the follow-up"},
		},
		"required": []string{"context"},
	}
}
func (t *followupTool) Execute(_ context.Context, args map[string]any) (string, error) {
	return t.desk.GenerateFollowup(getString(args, "context")), nil
}
