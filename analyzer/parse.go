package analyzer

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseAnalysis decodes a model response into an AnalysisResult. The model is
// asked for bare JSON, but some responses still arrive wrapped in a markdown
// code fence, so a fenced block is tried before giving up.
func ParseAnalysis(text string) (*AnalysisResult, error) {
	var result AnalysisResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		extracted := extractJSONFromMarkdown(text)
		if err2 := json.Unmarshal([]byte(extracted), &result); err2 != nil {
			return nil, fmt.Errorf("response is not valid analysis JSON: %w", err)
		}
	}
	result.normalize()
	return &result, nil
}

// normalize replaces nil slices so the serialized result always carries
// arrays, and recomputes the action item count.
func (r *AnalysisResult) normalize() {
	if r.Participants == nil {
		r.Participants = []string{}
	}
	if r.ActionItems == nil {
		r.ActionItems = []ActionItem{}
	}
	if r.Decisions == nil {
		r.Decisions = []string{}
	}
	if r.Topics == nil {
		r.Topics = []string{}
	}
	r.ActionItemsCount = len(r.ActionItems)
}

func extractJSONFromMarkdown(text string) string {
	start := strings.Index(text, "```")
	if start == -1 {
		return text
	}
	rest := text[start+3:]
	if nl := strings.Index(rest, "\n"); nl != -1 && strings.HasPrefix(strings.TrimSpace(rest[:nl]), "json") {
		rest = rest[nl+1:]
	}
	if end := strings.Index(rest, "```"); end != -1 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}
