package agent

// defaultSystemPrompt is the fixed instruction that seeds every conversation.
const defaultSystemPrompt = "You are an expert CRM assistant for Life Sciences. " +
	"Use tools to log or search HCP interactions. " +
	"When logging, always provide hcp_name, summary, sentiment, and next_step. " +
	"IMPORTANT: Always call 'log_interaction' when a user describes a new meeting."

// BuildSystemPrompt returns the system instruction, honouring an operator
// override from configuration.
func BuildSystemPrompt(override string) string {
	if override != "" {
		return override
	}
	return defaultSystemPrompt
}
