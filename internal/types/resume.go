// Package types defines the shared data structures for the resume optimizer.
package types

// ExperienceEntry represents a single role in the experience section.
// Entry order must follow the order of roles in the source resume text.
type ExperienceEntry struct {
	Title   string   `json:"title"`
	Company string   `json:"company"`
	Date    string   `json:"date"`
	Points  []string `json:"points"`
}

// EducationEntry represents a single education record.
type EducationEntry struct {
	Degree string `json:"degree"`
	School string `json:"school"`
	Date   string `json:"date"`
	Score  string `json:"score,omitempty"`
}

// ProjectEntry represents a single project, either from the source resume
// or merged in from the candidate's GitHub repositories.
type ProjectEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ResumeDocument is the canonical tailored-resume record produced by the
// pipeline. All fields are optional; validation decides which gaps are
// defects worth a correction pass.
type ResumeDocument struct {
	FullName       string            `json:"fullName"`
	ContactInfo    string            `json:"contactInfo"`
	Summary        string            `json:"summary"`
	Experience     []ExperienceEntry `json:"experience"`
	Education      []EducationEntry  `json:"education"`
	Skills         []string          `json:"skills"`
	Projects       []ProjectEntry    `json:"projects"`
	Certifications []string          `json:"certifications"`
	Awards         []string          `json:"awards,omitempty"`
	Languages      []string          `json:"languages,omitempty"`
}

// AnalysisEntry explains one change the model made and why.
type AnalysisEntry struct {
	Section string `json:"section"`
	Change  string `json:"change"`
	Reason  string `json:"reason"`
}

// OptimizationResult wraps the final document with the relevance score and
// the change rationale. MatchScore is always within [0, 100].
type OptimizationResult struct {
	OptimizedContent ResumeDocument  `json:"optimizedContent"`
	MatchScore       int             `json:"matchScore"`
	Analysis         []AnalysisEntry `json:"analysis"`
}

// RepoSummary is the shape of a GitHub repository passed to the model for
// project grounding.
type RepoSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Language    string `json:"language,omitempty"`
	Stars       int    `json:"stars"`
	URL         string `json:"url"`
}
