// Package skills provides the deterministic fallback used to keep the final
// document above the minimum skill count when the model under-delivers.
package skills

import (
	"regexp"
	"strings"
)

// knownKeywords is the fixed keyword list scanned against the source resume
// text. Matching is case-insensitive on word boundaries; insertion order
// here decides extraction order. The list is a policy choice, not a
// correctness requirement.
var knownKeywords = []string{
	"Go", "Python", "Java", "JavaScript", "TypeScript", "C++", "C#", "Rust",
	"SQL", "NoSQL", "PostgreSQL", "MySQL", "MongoDB", "Redis",
	"React", "Angular", "Vue", "Node.js", "Django", "Spring",
	"AWS", "GCP", "Azure", "Docker", "Kubernetes", "Terraform",
	"Git", "Linux", "CI/CD", "REST", "GraphQL", "gRPC",
	"Machine Learning", "Data Analysis", "Agile", "Scrum",
}

// genericSkills pads the list when the source text yields too few matches.
var genericSkills = []string{
	"Communication",
	"Problem Solving",
	"Teamwork",
	"Leadership",
	"Adaptability",
}

var keywordPatterns = func() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(knownKeywords))
	for i, keyword := range knownKeywords {
		patterns[i] = regexp.MustCompile(`(?i)(^|[^a-zA-Z0-9+#.])` + regexp.QuoteMeta(keyword) + `($|[^a-zA-Z0-9+#])`)
	}
	return patterns
}()

// ExtractFromText scans text for known skill keywords and returns them in
// keyword-list order.
func ExtractFromText(text string) []string {
	var found []string
	for i, pattern := range keywordPatterns {
		if pattern.MatchString(text) {
			found = append(found, knownKeywords[i])
		}
	}
	return found
}

// EnsureMinimum returns existing topped up to at least minCount skills:
// first with keywords extracted from sourceText, then with generic
// professional skills. Existing entries keep their order; duplicates are
// dropped case-insensitively.
func EnsureMinimum(existing []string, sourceText string, minCount int) []string {
	seen := make(map[string]bool, len(existing))
	result := make([]string, 0, minCount)
	for _, skill := range existing {
		key := strings.ToLower(strings.TrimSpace(skill))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, skill)
	}

	if len(result) >= minCount {
		return result
	}

	for _, pool := range [][]string{ExtractFromText(sourceText), genericSkills} {
		for _, skill := range pool {
			if len(result) >= minCount {
				return result
			}
			key := strings.ToLower(skill)
			if seen[key] {
				continue
			}
			seen[key] = true
			result = append(result, skill)
		}
	}

	return result
}
