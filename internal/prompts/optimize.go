// Package prompts builds the model prompts for the optimization pipeline:
// the primary one-shot prompt, the targeted correction prompt, and the
// length-condensing prompt. All builders are pure functions of their inputs.
package prompts

import (
	"fmt"
	"strings"
)

// BuildOptimizationPrompt constructs the primary one-shot prompt that turns
// raw resume text and a job description into a complete tailored resume
// envelope. githubProjects is an optional serialized repo list for project
// grounding; pass "" when no GitHub data is available.
func BuildOptimizationPrompt(resumeText, jobDescription, githubProjects string) string {
	var sb strings.Builder

	sb.WriteString("You are an expert Resume Optimizer.\n\n")
	sb.WriteString("Take the provided Resume Text and Job Description, and produce a completely optimized resume JSON object.\n\n")

	sb.WriteString("## Inputs\n\n")
	sb.WriteString("Job Description:\n")
	sb.WriteString(jobDescription)
	sb.WriteString("\n\n")
	if githubProjects != "" {
		sb.WriteString("GitHub Projects (insert the top 2-3 most relevant if applicable):\n")
		sb.WriteString(githubProjects)
		sb.WriteString("\n\n")
	}
	sb.WriteString("Original Resume Text:\n")
	sb.WriteString(resumeText)
	sb.WriteString("\n\n")

	sb.WriteString("## Optimization Rules\n\n")
	sb.WriteString("- Structure: output a JSON object with fullName, contactInfo, summary, experience, education, skills, certifications, languages, awards, projects.\n")
	sb.WriteString("- Layout constraint: the output MUST fit on ONE PAGE. Be extremely ruthless with brevity.\n")
	sb.WriteString("- Summary: MUST be concise (max 40 words).\n")
	sb.WriteString("- Experience: limit to the top 3-4 most relevant roles, max 3 bullet points per role, short punchy sentences. Keep roles in the order they appear in the original resume.\n")
	sb.WriteString("- Projects: output a MAXIMUM of 3 projects total. Select the best from the original resume projects plus the provided GitHub projects - merge and select, do not just append. If experience has 3+ roles, include only the top 1-2 most relevant projects. Each description max 2 lines.\n")
	sb.WriteString("- Skills: extract at least 5 skills relevant to the job description.\n")
	sb.WriteString("- Original data: PRESERVE dates, schools, degrees, and company names exactly. Only optimize the descriptive text.\n")
	sb.WriteString("- Match score: calculate a relevance score (0-100).\n")
	sb.WriteString("- Analysis: explain 3 key changes.\n\n")

	sb.WriteString("## Output Format\n\n")
	sb.WriteString("Return ONLY valid JSON, no markdown, no explanation:\n")
	sb.WriteString(`{
  "optimizedContent": {
    "fullName": "...",
    "contactInfo": "...",
    "summary": "...",
    "experience": [{"title": "...", "company": "...", "date": "...", "points": ["..."]}],
    "education": [{"degree": "...", "school": "...", "date": "...", "score": "..."}],
    "skills": ["..."],
    "certifications": ["..."],
    "languages": ["..."],
    "awards": ["..."],
    "projects": [{"name": "...", "description": "..."}]
  },
  "matchScore": 85,
  "analysis": [{"section": "...", "change": "...", "reason": "..."}]
}`)
	sb.WriteString("\n")

	return sb.String()
}

// indexedList renders "1. item" lines for prompt enumeration.
func indexedList(sb *strings.Builder, items []string) {
	for i, item := range items {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, item))
	}
}
