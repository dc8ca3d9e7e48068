package analyzer

import (
	"fmt"
	"time"
)

// ActionItem is a single actionable task extracted from the transcript.
// Owner and due date are optional; the model leaves them empty when the
// transcript does not mention them.
type ActionItem struct {
	Description string `json:"description"`
	Owner       string `json:"owner,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
}

// MeetingDetails is caller-supplied metadata about the meeting.
type MeetingDetails struct {
	MeetingTitle string `json:"meeting_title,omitempty"`
	MeetingDate  string `json:"meeting_date,omitempty"`
}

// AnalysisResult is the structured extraction produced for one transcript.
type AnalysisResult struct {
	ID               string          `json:"id,omitempty"`
	FileName         string          `json:"file_name,omitempty"`
	MeetingDetails   *MeetingDetails `json:"meeting_details,omitempty"`
	MeetingSummary   string          `json:"meeting_summary,omitempty"`
	Participants     []string        `json:"participants"`
	ActionItems      []ActionItem    `json:"action_items"`
	Decisions        []string        `json:"decisions"`
	Topics           []string        `json:"topics"`
	ActionItemsCount int             `json:"action_items_count"`
	CreatedAt        time.Time       `json:"created_at,omitempty"`
}

// UpstreamError reports a failure of the AI provider, including responses
// that could not be parsed into the analysis schema.
type UpstreamError struct {
	Detail string
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream: %s: %v", e.Detail, e.Err)
	}
	return fmt.Sprintf("upstream: %s", e.Detail)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
