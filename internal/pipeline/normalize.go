package pipeline

import (
	"github.com/shaheer/resume-optimizer/internal/types"
)

// envelope is the unwrapped form of a candidate: the content object plus the
// score and analysis that may live beside it or inside it.
type envelope struct {
	content    map[string]any
	matchScore *int
	analysis   []types.AnalysisEntry
}

// flattenEnvelope normalizes the two shapes models actually return: the
// requested {optimizedContent, matchScore, analysis} wrapper, or a flattened
// object carrying the document fields directly. It is a defensive heuristic
// kept out of the validator on purpose.
func flattenEnvelope(data map[string]any) envelope {
	env := envelope{
		matchScore: intField(data, "matchScore"),
		analysis:   analysisEntries(data["analysis"]),
	}

	if content, ok := data["optimizedContent"].(map[string]any); ok {
		env.content = content
		return env
	}

	// The model flattened the envelope: treat the whole value as content.
	env.content = data
	return env
}

func intField(m map[string]any, key string) *int {
	value, ok := m[key].(float64)
	if !ok {
		return nil
	}
	n := int(value)
	return &n
}

func analysisEntries(v any) []types.AnalysisEntry {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	entries := make([]types.AnalysisEntry, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		entry := types.AnalysisEntry{}
		entry.Section, _ = m["section"].(string)
		entry.Change, _ = m["change"].(string)
		entry.Reason, _ = m["reason"].(string)
		if entry.Section != "" || entry.Change != "" || entry.Reason != "" {
			entries = append(entries, entry)
		}
	}
	return entries
}

func clampScore(score, fallback int, hasScore bool) int {
	if !hasScore {
		return fallback
	}
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
