package crm

const (
	followupPrefix = "Follow-up: Schedule meeting regarding "
	// followupContextLen caps how much of the meeting context is carried
	// into the generated task text.
	followupContextLen = 30
)

// GenerateFollowup builds a templated follow-up task from at most the first
// 30 characters of the meeting context. Characters, not bytes: truncation
// must never split a multi-byte rune.
func (d *Desk) GenerateFollowup(meetingContext string) string {
	if runes := []rune(meetingContext); len(runes) > followupContextLen {
		meetingContext = string(runes[:followupContextLen])
	}
	return followupPrefix + meetingContext
}
