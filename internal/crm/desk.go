package crm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/anatolykoptev/repnote/internal/store"
)

// Desk executes the CRM tool catalog against the interaction store. It is the
// business-logic layer shared by the agent loop and the MCP surface.
type Desk struct {
	store *store.Store
	lex   Lexicon
}

// NewDesk creates a desk over the given store with the given sentiment lexicon.
func NewDesk(st *store.Store, lex Lexicon) *Desk {
	return &Desk{store: st, lex: lex}
}

// LogInteraction creates one interaction record, tagged In-Person with the
// current timestamp.
func (d *Desk) LogInteraction(ctx context.Context, in LogInput) (string, error) {
	id, err := d.store.Create(ctx, store.Interaction{
		HCPName:   in.HCPName,
		Type:      InteractionTypeInPerson,
		Summary:   in.Summary,
		Sentiment: in.Sentiment,
		NextStep:  in.NextStep,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("log interaction: %w", err)
	}
	slog.Info("interaction logged",
		slog.Int64("id", id),
		slog.String("hcp", in.HCPName),
		slog.String("sentiment", in.Sentiment))
	return fmt.Sprintf("Successfully logged interaction for %s.", in.HCPName), nil
}

// EditInteraction replaces the summary of an existing record. A missing
// record is a normal "not found" result, not an error.
func (d *Desk) EditInteraction(ctx context.Context, id int64, newSummary string) (string, error) {
	found, err := d.store.UpdateSummary(ctx, id, newSummary)
	if err != nil {
		return "", fmt.Errorf("edit interaction: %w", err)
	}
	if !found {
		return fmt.Sprintf("Record with ID %d not found.", id), nil
	}
	slog.Info("interaction updated", slog.Int64("id", id))
	return fmt.Sprintf("Successfully updated record %d.", id), nil
}

// SearchHCPs finds stored provider names containing the query and returns
// them as a JSON array, or a "no results" text.
func (d *Desk) SearchHCPs(ctx context.Context, query string) (string, error) {
	names, err := d.store.SearchNames(ctx, query)
	if err != nil {
		return "", fmt.Errorf("search HCPs: %w", err)
	}
	if len(names) == 0 {
		return "No HCPs found.", nil
	}
	out, err := json.Marshal(names)
	if err != nil {
		return "", fmt.Errorf("encode results: %w", err)
	}
	return string(out), nil
}
