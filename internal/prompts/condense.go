package prompts

import (
	"fmt"
	"strings"
)

// BuildCondensingPrompt renders an instruction asking the model to shrink an
// over-length candidate to the target line budget while preserving every
// top-level section and the exact output schema. It is a pure function of
// the candidate and the budget; validation defects are not consulted.
func BuildCondensingPrompt(candidate any, targetLines int) string {
	var sb strings.Builder

	sb.WriteString("The resume JSON below is too long to fit on one page.\n\n")
	sb.WriteString(fmt.Sprintf("Rewrite it so the rendered resume fits within roughly %d lines.\n\n", targetLines))

	sb.WriteString("## Condensing Rules\n\n")
	sb.WriteString("- Keep EVERY top-level section. Do not delete sections, only reduce content within them.\n")
	sb.WriteString("- Shorten bullet points; keep at most 3 bullets per role.\n")
	sb.WriteString("- Keep only the top 3-4 most relevant experience roles, preserving their original order.\n")
	sb.WriteString("- Keep at most 3 projects, each with a description of at most 2 lines.\n")
	sb.WriteString("- Summary must stay under 40 words.\n")
	sb.WriteString("- PRESERVE dates, schools, degrees, and company names exactly.\n")
	sb.WriteString("- Return the same JSON schema as the input: the optimizedContent wrapper with matchScore and analysis.\n")
	sb.WriteString("- Return ONLY valid JSON, no markdown, no explanation.\n\n")

	sb.WriteString("## Resume JSON\n\n")
	sb.WriteString(serializeCandidate(candidate))
	sb.WriteString("\n")

	return sb.String()
}
