package types

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"
	"time"
)

var yearPattern = regexp.MustCompile(`\d{4}`)

// CoerceDocument converts a loosely-shaped candidate content object (as
// parsed from model output) into a ResumeDocument, tolerating the shape
// drift models commonly produce: skills as a comma-separated string or a
// list of objects, education school/score under alias keys, missing arrays.
func CoerceDocument(content map[string]any) ResumeDocument {
	doc := ResumeDocument{
		FullName:       stringValue(content["fullName"]),
		ContactInfo:    stringValue(content["contactInfo"]),
		Summary:        stringValue(content["summary"]),
		Skills:         coerceSkills(content["skills"]),
		Certifications: stringSlice(content["certifications"]),
		Awards:         stringSlice(content["awards"]),
		Languages:      stringSlice(content["languages"]),
	}

	for _, item := range anySlice(content["experience"]) {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		doc.Experience = append(doc.Experience, ExperienceEntry{
			Title:   stringValue(entry["title"]),
			Company: stringValue(entry["company"]),
			Date:    stringValue(entry["date"]),
			Points:  stringSlice(entry["points"]),
		})
	}

	for _, item := range anySlice(content["education"]) {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		doc.Education = append(doc.Education, EducationEntry{
			Degree: stringValue(entry["degree"]),
			School: firstString(entry, "school", "university", "institution"),
			Date:   stringValue(entry["date"]),
			Score:  firstString(entry, "score", "gpa"),
		})
	}

	for _, item := range anySlice(content["projects"]) {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		doc.Projects = append(doc.Projects, ProjectEntry{
			Name:        stringValue(entry["name"]),
			Description: stringValue(entry["description"]),
		})
	}

	return doc
}

// coerceSkills accepts a string slice, a comma-separated string, or a slice
// of objects carrying their value under "name" or "label".
func coerceSkills(v any) []string {
	if s, ok := v.(string); ok {
		parts := strings.Split(s, ",")
		skills := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				skills = append(skills, trimmed)
			}
		}
		return skills
	}
	return stringSlice(v)
}

// SortExperienceByDate orders entries newest-first for display. The pipeline
// never calls this on the canonical document: model output order mirrors the
// source resume and is preserved as-is.
func SortExperienceByDate(entries []ExperienceEntry) []ExperienceEntry {
	sorted := make([]ExperienceEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return dateAnchor(sorted[i].Date).After(dateAnchor(sorted[j].Date))
	})
	return sorted
}

// dateAnchor maps a free-text date range to a sortable point in time,
// using the latest year mentioned, or now for ongoing roles.
func dateAnchor(date string) time.Time {
	if date == "" {
		return time.Time{}
	}
	lower := strings.ToLower(date)
	if strings.Contains(lower, "present") || strings.Contains(lower, "current") || strings.Contains(lower, "now") {
		return time.Now()
	}
	years := yearPattern.FindAllString(date, -1)
	if len(years) == 0 {
		return time.Time{}
	}
	last := years[len(years)-1]
	t, err := time.Parse("2006", last)
	if err != nil {
		return time.Time{}
	}
	return t.AddDate(0, 11, 30)
}

func stringValue(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		data, err := json.Marshal(s)
		if err != nil {
			return ""
		}
		return string(data)
	default:
		return ""
	}
}

func anySlice(v any) []any {
	items, _ := v.([]any)
	return items
}

func stringSlice(v any) []string {
	items := anySlice(v)
	if len(items) == 0 {
		return nil
	}
	values := make([]string, 0, len(items))
	for _, item := range items {
		switch typed := item.(type) {
		case string:
			values = append(values, typed)
		case map[string]any:
			if name := firstString(typed, "name", "label"); name != "" {
				values = append(values, name)
			}
		default:
			if s := stringValue(item); s != "" {
				values = append(values, s)
			}
		}
	}
	return values
}

func firstString(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := stringValue(m[key]); s != "" && s != "null" {
			return s
		}
	}
	return ""
}
