package validation

import (
	"math"
	"strings"
)

// Rendering density constants, calibrated against the one-page PDF layout.
const (
	headerLines         = 3 // name + contact block
	sectionHeaderLines  = 6 // fixed overhead across all section headers
	summaryWordsPerLine = 15
	skillsPerLine       = 6
	linesPerRole        = 2   // title/company/date line per role
	linesPerBullet      = 1.5 // bullets average under two rendered lines
	linesPerProject     = 2
	linesPerEducation   = 2
	certsPerLine        = 2
)

// EstimateLineCount heuristically estimates the rendered page length of a
// candidate document. It is advisory only: the result gates whether a
// condensing pass runs and never blocks completion.
func EstimateLineCount(candidate any) int {
	data, ok := candidate.(map[string]any)
	if !ok {
		return 0
	}
	content := data
	if wrapped, ok := data["optimizedContent"].(map[string]any); ok {
		content = wrapped
	}

	total := float64(headerLines + sectionHeaderLines)

	if summary, ok := content["summary"].(string); ok && summary != "" {
		words := len(strings.Fields(summary))
		total += math.Ceil(float64(words) / summaryWordsPerLine)
	}

	if skills, ok := content["skills"].([]any); ok && len(skills) > 0 {
		total += math.Ceil(float64(len(skills)) / skillsPerLine)
	}

	if experience, ok := content["experience"].([]any); ok {
		total += float64(len(experience)) * linesPerRole
		for _, item := range experience {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if points, ok := entry["points"].([]any); ok {
				total += float64(len(points)) * linesPerBullet
			}
		}
	}

	if projects, ok := content["projects"].([]any); ok {
		total += float64(len(projects)) * linesPerProject
	}

	if education, ok := content["education"].([]any); ok {
		total += float64(len(education)) * linesPerEducation
	}

	if certs, ok := content["certifications"].([]any); ok && len(certs) > 0 {
		total += math.Ceil(float64(len(certs)) / certsPerLine)
	}

	return int(math.Ceil(total))
}
