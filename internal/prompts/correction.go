package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shaheer/resume-optimizer/internal/validation"
)

// sourceExcerptLimit caps the original-text excerpt embedded in the
// correction prompt for grounding.
const sourceExcerptLimit = 1000

// truncationMarker flags that the source excerpt was cut.
const truncationMarker = "... (truncated)"

// BuildCorrectionPrompt renders a follow-up instruction asking the model to
// fix only the named defects while leaving everything else unchanged, and to
// return the complete corrected structure (full replacement, not a diff).
// Defects are enumerated in validator emission order.
func BuildCorrectionPrompt(candidate any, errors []validation.ValidationError, sourceText string) string {
	var sb strings.Builder

	sb.WriteString("SYSTEM ALERT: VALIDATION FAILED\n\n")
	sb.WriteString("Your previous JSON output had errors. You must correct them immediately.\n\n")

	sb.WriteString("## Errors Found\n\n")
	items := make([]string, 0, len(errors))
	for _, err := range errors {
		items = append(items, fmt.Sprintf("[%s]: %s", err.Field, err.Issue))
	}
	indexedList(&sb, items)
	sb.WriteString("\n")

	sb.WriteString("## Instructions\n\n")
	sb.WriteString("1. Fix ONLY the errors listed above.\n")
	sb.WriteString("2. Keep the rest of the data intact.\n")
	sb.WriteString("3. Return the COMPLETE valid JSON object again, with no markdown wrapping and no commentary.\n\n")

	sb.WriteString("## Original Resume Text (for reference)\n\n")
	sb.WriteString(excerpt(sourceText, sourceExcerptLimit))
	sb.WriteString("\n\n")

	sb.WriteString("## Your Previous Output\n\n")
	sb.WriteString(serializeCandidate(candidate))
	sb.WriteString("\n")

	return sb.String()
}

// excerpt returns up to limit characters of text, appending the truncation
// marker when content was dropped.
func excerpt(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + truncationMarker
}

func serializeCandidate(candidate any) string {
	data, err := json.Marshal(candidate)
	if err != nil {
		// Candidates come from json.Unmarshal, so this cannot normally fail.
		return "{}"
	}
	return string(data)
}
