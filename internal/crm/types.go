// Package crm implements the CRM tool catalog: logging, editing and
// searching HCP interactions, plus rule-based sentiment and follow-up text.
package crm

// InteractionTypeInPerson is the fixed interaction type assigned to every
// record the assistant logs.
const InteractionTypeInPerson = "In-Person"

// MCP tool input types. JSON tags drive the derived schemas.

// LogInput are the arguments for logging a new interaction.
type LogInput struct {
	HCPName   string `json:"hcp_name" jsonschema:"Full name of the healthcare provider"`
	Summary   string `json:"summary" jsonschema:"Short summary of the meeting"`
	Sentiment string `json:"sentiment" jsonschema:"Observed sentiment: Positive, Neutral or Concerned"`
	NextStep  string `json:"next_step" jsonschema:"Agreed follow-up action"`
}

// EditInput are the arguments for updating an existing record's summary.
type EditInput struct {
	InteractionID int64  `json:"interaction_id" jsonschema:"Record id, an integer"`
	NewSummary    string `json:"new_summary" jsonschema:"Replacement summary text"`
}

// SearchInput are the arguments for searching stored HCP names.
type SearchInput struct {
	NameQuery string `json:"name_query" jsonschema:"Name or name fragment to search for"`
}

// TextInput is a single free-text argument.
type TextInput struct {
	Text string `json:"text" jsonschema:"Free text to analyze"`
}

// FollowupInput are the arguments for generating a follow-up task.
type FollowupInput struct {
	Context string `json:"context" jsonschema:"Meeting context for the follow-up"`
}

// TextOutput is a generic text output for MCP tools.
type TextOutput struct {
	Text string `json:"text"`
}
