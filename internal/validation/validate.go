package validation

import (
	"fmt"
	"regexp"

	"github.com/xeipuuv/gojsonschema"
)

// MinSkills is the minimum number of skills an optimized resume must carry.
const MinSkills = 5

// RequiredSections lists the top-level fields every candidate document must
// contain, in canonical emission order.
var RequiredSections = []string{
	"fullName",
	"contactInfo",
	"summary",
	"experience",
	"education",
	"skills",
	"projects",
	"certifications",
}

// gpaPattern matches GPA/CGPA mentions like "GPA: 3.8" or "cgpa 9.1".
var gpaPattern = regexp.MustCompile(`(?i)\b(gpa|cgpa)\s*:?\s*\d+\.?\d*`)

// documentSchemaJSON is the structural schema for the content object. Policy
// checks (skill floor, project presence, per-entry dates, GPA consistency)
// are layered on top in Go because they depend on counts and source text.
const documentSchemaJSON = `{
  "type": "object",
  "required": [
    "fullName",
    "contactInfo",
    "summary",
    "experience",
    "education",
    "skills",
    "projects",
    "certifications"
  ],
  "properties": {
    "skills": {"type": "array"}
  }
}`

var documentSchema = func() *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(documentSchemaJSON))
	if err != nil {
		panic(&SchemaError{Message: "failed to compile document schema", Cause: err})
	}
	return schema
}()

// ValidateResumeStructure checks a parsed candidate value against the
// required resume schema and the source-aware consistency rules. It returns
// one ValidationError per defect; an empty result is the sole success signal.
func ValidateResumeStructure(candidate any, sourceText string) []ValidationError {
	data, ok := candidate.(map[string]any)
	if !ok || data == nil {
		return []ValidationError{{Field: "root", Issue: "output is not a valid JSON object"}}
	}

	content, ok := ExtractContent(data)
	if !ok {
		return []ValidationError{{Field: "root", Issue: "missing 'optimizedContent' wrapper"}}
	}

	var errors []ValidationError

	// Structural pass: required sections and the skills array type.
	missing, skillsNotArray := runSchemaPass(content)
	for _, section := range RequiredSections {
		if missing[section] {
			errors = append(errors, ValidationError{
				Field: section,
				Issue: fmt.Sprintf("missing required section: %s", section),
			})
		}
	}

	// Skills: array type, then minimum count.
	if skillsNotArray {
		errors = append(errors, ValidationError{Field: "skills", Issue: "skills must be an array"})
	} else if skills, ok := content["skills"].([]any); ok && len(skills) < MinSkills {
		errors = append(errors, ValidationError{
			Field: "skills",
			Issue: fmt.Sprintf("too few skills (%d); extract at least %d relevant skills", len(skills), MinSkills),
		})
	}

	// Projects: present but empty is a defect so the correction pass can
	// surface project-like content from the source.
	if projects, ok := content["projects"].([]any); ok && len(projects) == 0 {
		errors = append(errors, ValidationError{
			Field: "projects",
			Issue: "projects array is empty; populate with at least 1 project",
		})
	}

	// Experience: per-entry checks for date and bullet points.
	if experience, ok := content["experience"].([]any); ok {
		for i, item := range experience {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if date, _ := entry["date"].(string); date == "" {
				errors = append(errors, ValidationError{
					Field: fmt.Sprintf("experience[%d]", i),
					Issue: "missing date field",
				})
			}
			if points, ok := entry["points"].([]any); ok && len(points) == 0 {
				errors = append(errors, ValidationError{
					Field: fmt.Sprintf("experience[%d]", i),
					Issue: "role has no bullet points",
				})
			}
		}
	}

	// GPA consistency: source mentions a GPA but no education entry carries
	// a score. Cross-field check against the original text, not pure shape.
	if gpaPattern.MatchString(sourceText) {
		if education, ok := content["education"].([]any); ok && !hasExtractedScore(education) {
			errors = append(errors, ValidationError{
				Field: "education",
				Issue: "original resume contains a GPA but it was not extracted",
			})
		}
	}

	return errors
}

// ExtractContent returns the content object from a candidate: either the
// optimizedContent wrapper, or the candidate itself when the model flattened
// the envelope but still produced every required section.
func ExtractContent(data map[string]any) (map[string]any, bool) {
	if wrapped, ok := data["optimizedContent"].(map[string]any); ok {
		return wrapped, true
	}
	for _, section := range RequiredSections {
		if _, ok := data[section]; !ok {
			return nil, false
		}
	}
	return data, true
}

// runSchemaPass evaluates the embedded schema and folds the results into the
// two structural signals the validator reports on.
func runSchemaPass(content map[string]any) (missing map[string]bool, skillsNotArray bool) {
	missing = make(map[string]bool)

	result, err := documentSchema.Validate(gojsonschema.NewGoLoader(content))
	if err != nil {
		// GoLoader on a map cannot fail to load; treat as no structural findings.
		return missing, false
	}

	for _, desc := range result.Errors() {
		switch desc.Type() {
		case "required":
			if property, ok := desc.Details()["property"].(string); ok {
				missing[property] = true
			}
		case "invalid_type":
			if desc.Field() == "skills" {
				skillsNotArray = true
			}
		}
	}

	return missing, skillsNotArray
}

func hasExtractedScore(education []any) bool {
	for _, item := range education {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		for _, key := range []string{"score", "gpa"} {
			if value, ok := entry[key].(string); ok && value != "" && value != "null" {
				return true
			}
		}
	}
	return false
}
