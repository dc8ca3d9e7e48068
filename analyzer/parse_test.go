package analyzer

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseAnalysisPlainJSON(t *testing.T) {
	text := `{
        "meeting_summary": "Quarterly budget review.",
        "participants": ["Alice", "Bob"],
        "action_items": [{"description": "Send the revised budget", "owner": "Alice", "due_date": "2026-09-01"}],
        "decisions": ["Approve Q4 budget"],
        "topics": ["budget"]
    }`

	result, err := ParseAnalysis(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(result.Participants) != 2 || result.Participants[0] != "Alice" {
		t.Fatalf("participants = %v", result.Participants)
	}
	if result.ActionItemsCount != 1 {
		t.Fatalf("action_items_count = %d, want 1", result.ActionItemsCount)
	}
	if result.ActionItems[0].Owner != "Alice" || result.ActionItems[0].DueDate != "2026-09-01" {
		t.Fatalf("action item = %+v", result.ActionItems[0])
	}
	if result.MeetingSummary == "" {
		t.Fatal("meeting_summary missing")
	}
}

func TestParseAnalysisMarkdownFence(t *testing.T) {
	text := "Here is the analysis:\n```json\n{\"participants\": [\"Carol\"], \"action_items\": [], \"decisions\": [], \"topics\": [\"roadmap\"]}\n```\n"

	result, err := ParseAnalysis(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(result.Participants) != 1 || result.Participants[0] != "Carol" {
		t.Fatalf("participants = %v", result.Participants)
	}
	if len(result.Topics) != 1 || result.Topics[0] != "roadmap" {
		t.Fatalf("topics = %v", result.Topics)
	}
}

func TestParseAnalysisNormalizesNilSlices(t *testing.T) {
	result, err := ParseAnalysis(`{"meeting_summary": "short sync"}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	// Downstream serialization must carry arrays, never null.
	out, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, field := range []string{`"participants":[]`, `"action_items":[]`, `"decisions":[]`, `"topics":[]`} {
		if !strings.Contains(string(out), field) {
			t.Fatalf("serialized result missing %s: %s", field, out)
		}
	}
	if result.ActionItemsCount != 0 {
		t.Fatalf("action_items_count = %d, want 0", result.ActionItemsCount)
	}
}

func TestParseAnalysisRejectsGarbage(t *testing.T) {
	if _, err := ParseAnalysis("I could not analyze this transcript."); err == nil {
		t.Fatal("expected parse error")
	}
}
