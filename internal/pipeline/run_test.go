package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGenerator replays scripted responses and records the prompts it saw.
type stubGenerator struct {
	responses []string
	errs      []error
	prompts   []string
}

func (s *stubGenerator) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	i := len(s.prompts)
	s.prompts = append(s.prompts, prompt)
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.responses) {
		return s.responses[i], nil
	}
	return "", fmt.Errorf("unexpected call %d", i+1)
}

func (s *stubGenerator) calls() int { return len(s.prompts) }

func validContent(name string) map[string]any {
	return map[string]any{
		"fullName":    name,
		"contactInfo": "jane@example.com",
		"summary":     "Backend engineer with Go experience.",
		"experience": []any{
			map[string]any{
				"title":   "Engineer",
				"company": "Acme",
				"date":    "2021 - Present",
				"points":  []any{"Built the billing service", "Cut p99 latency"},
			},
		},
		"education": []any{
			map[string]any{"degree": "B.S.", "school": "State University", "date": "2018", "score": "3.8"},
		},
		"skills":         []any{"Go", "PostgreSQL", "Docker", "Kubernetes", "AWS"},
		"projects":       []any{map[string]any{"name": "cachelib", "description": "An LRU cache"}},
		"certifications": []any{},
	}
}

func validEnvelope(name string, score int) map[string]any {
	return map[string]any{
		"optimizedContent": validContent(name),
		"matchScore":       score,
		"analysis": []any{
			map[string]any{"section": "summary", "change": "tightened", "reason": "brevity"},
		},
	}
}

// overlongContent is valid but estimates well past the line budget.
func overlongContent(name string) map[string]any {
	content := validContent(name)
	var roles []any
	for i := 0; i < 6; i++ {
		roles = append(roles, map[string]any{
			"title":   fmt.Sprintf("Role %d", i),
			"company": "Acme",
			"date":    "2020 - 2021",
			"points":  []any{"a", "b", "c", "d"},
		})
	}
	content["experience"] = roles
	content["summary"] = strings.Repeat("word ", 60)
	return content
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func TestOptimize_MissingInputs(t *testing.T) {
	p := New(&stubGenerator{}, Options{})

	_, err := p.Optimize(context.Background(), Request{JobDescription: "job"})
	var inputErr *InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "resume_text", inputErr.Field)

	_, err = p.Optimize(context.Background(), Request{ResumeText: "resume"})
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "job_description", inputErr.Field)
}

func TestOptimize_SingleCallHappyPath(t *testing.T) {
	gen := &stubGenerator{responses: []string{mustJSON(t, validEnvelope("Jane Doe", 91))}}
	p := New(gen, Options{})

	result, err := p.Optimize(context.Background(), Request{ResumeText: "resume", JobDescription: "job"})
	require.NoError(t, err)
	assert.Equal(t, 1, gen.calls())
	assert.Equal(t, "Jane Doe", result.OptimizedContent.FullName)
	assert.Equal(t, 91, result.MatchScore)
	require.Len(t, result.Analysis, 1)
	assert.Equal(t, "summary", result.Analysis[0].Section)
	assert.GreaterOrEqual(t, len(result.OptimizedContent.Skills), 5)
}

func TestOptimize_PrimaryCallFailure(t *testing.T) {
	cause := errors.New("quota exceeded")
	gen := &stubGenerator{errs: []error{cause}}
	p := New(gen, Options{})

	_, err := p.Optimize(context.Background(), Request{ResumeText: "resume", JobDescription: "job"})
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, StagePrimary, genErr.Stage)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 1, gen.calls())
}

func TestOptimize_PrimaryUnparseable(t *testing.T) {
	gen := &stubGenerator{responses: []string{"I am sorry, I cannot help with that."}}
	p := New(gen, Options{})

	_, err := p.Optimize(context.Background(), Request{ResumeText: "resume", JobDescription: "job"})
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, StagePrimary, genErr.Stage)
}

func TestOptimize_FencedResponseAccepted(t *testing.T) {
	fenced := "```json\n" + mustJSON(t, validEnvelope("Jane Doe", 85)) + "\n```"
	gen := &stubGenerator{responses: []string{fenced}}
	p := New(gen, Options{})

	result, err := p.Optimize(context.Background(), Request{ResumeText: "resume", JobDescription: "job"})
	require.NoError(t, err)
	assert.Equal(t, 1, gen.calls())
	assert.Equal(t, "Jane Doe", result.OptimizedContent.FullName)
}

func TestOptimize_CorrectionPassAdopted(t *testing.T) {
	broken := validEnvelope("Wrong Name", 85)
	delete(broken["optimizedContent"].(map[string]any), "summary")

	gen := &stubGenerator{responses: []string{
		mustJSON(t, broken),
		mustJSON(t, validEnvelope("Fixed Name", 88)),
	}}
	p := New(gen, Options{})

	result, err := p.Optimize(context.Background(), Request{ResumeText: "resume", JobDescription: "job"})
	require.NoError(t, err)
	assert.Equal(t, 2, gen.calls())
	assert.Contains(t, gen.prompts[1], "SYSTEM ALERT: VALIDATION FAILED")
	assert.Contains(t, gen.prompts[1], "missing required section: summary")
	assert.Equal(t, "Fixed Name", result.OptimizedContent.FullName)
	assert.Equal(t, 88, result.MatchScore)
}

func TestOptimize_CorrectionFailureKeepsOriginal(t *testing.T) {
	broken := validEnvelope("Jane Doe", 85)
	broken["optimizedContent"].(map[string]any)["skills"] = []any{"Go", "SQL"}

	gen := &stubGenerator{
		responses: []string{mustJSON(t, broken), ""},
		errs:      []error{nil, errors.New("model unavailable")},
	}
	p := New(gen, Options{})

	result, err := p.Optimize(context.Background(), Request{ResumeText: "Docker and AWS work", JobDescription: "job"})
	require.NoError(t, err)
	assert.Equal(t, 2, gen.calls())
	assert.Equal(t, "Jane Doe", result.OptimizedContent.FullName)
	// The deterministic floor still tops up skills on the kept candidate.
	assert.GreaterOrEqual(t, len(result.OptimizedContent.Skills), 5)
	assert.Contains(t, result.OptimizedContent.Skills, "Go")
}

func TestOptimize_CorrectionUnparseableKeepsOriginal(t *testing.T) {
	broken := validEnvelope("Jane Doe", 85)
	delete(broken["optimizedContent"].(map[string]any), "projects")

	gen := &stubGenerator{responses: []string{mustJSON(t, broken), "not json at all"}}
	p := New(gen, Options{})

	result, err := p.Optimize(context.Background(), Request{ResumeText: "resume", JobDescription: "job"})
	require.NoError(t, err)
	assert.Equal(t, 2, gen.calls())
	assert.Equal(t, "Jane Doe", result.OptimizedContent.FullName)
}

func TestOptimize_CondensingPassAdopted(t *testing.T) {
	long := map[string]any{
		"optimizedContent": overlongContent("Jane Doe"),
		"matchScore":       float64(82),
	}
	condensed := validEnvelope("Jane Doe", 82)

	gen := &stubGenerator{responses: []string{mustJSON(t, long), mustJSON(t, condensed)}}
	p := New(gen, Options{})

	result, err := p.Optimize(context.Background(), Request{ResumeText: "resume", JobDescription: "job"})
	require.NoError(t, err)
	assert.Equal(t, 2, gen.calls())
	assert.Contains(t, gen.prompts[1], "too long to fit on one page")
	require.Len(t, result.OptimizedContent.Experience, 1)
}

func TestOptimize_CondensingRevalidationFailureReverts(t *testing.T) {
	long := map[string]any{
		"optimizedContent": overlongContent("Jane Doe"),
		"matchScore":       float64(82),
	}
	// The condensed candidate dropped a required section.
	invalid := validEnvelope("Condensed Name", 82)
	delete(invalid["optimizedContent"].(map[string]any), "education")

	gen := &stubGenerator{responses: []string{mustJSON(t, long), mustJSON(t, invalid)}}
	p := New(gen, Options{})

	result, err := p.Optimize(context.Background(), Request{ResumeText: "resume", JobDescription: "job"})
	require.NoError(t, err)
	assert.Equal(t, 2, gen.calls())
	// The over-length original is returned, not the broken condensed one.
	assert.Equal(t, "Jane Doe", result.OptimizedContent.FullName)
	assert.Len(t, result.OptimizedContent.Experience, 6)
}

func TestOptimize_CondensingCallFailureReverts(t *testing.T) {
	long := map[string]any{
		"optimizedContent": overlongContent("Jane Doe"),
		"matchScore":       float64(82),
	}
	gen := &stubGenerator{
		responses: []string{mustJSON(t, long), ""},
		errs:      []error{nil, errors.New("timeout")},
	}
	p := New(gen, Options{})

	result, err := p.Optimize(context.Background(), Request{ResumeText: "resume", JobDescription: "job"})
	require.NoError(t, err)
	assert.Equal(t, 2, gen.calls())
	assert.Equal(t, "Jane Doe", result.OptimizedContent.FullName)
}

func TestOptimize_ThreeCallsAtMost(t *testing.T) {
	// Defective first pass, corrected into an over-length document, then
	// condensed: the upper bound of the call budget.
	broken := validEnvelope("Jane Doe", 85)
	delete(broken["optimizedContent"].(map[string]any), "summary")
	corrected := map[string]any{
		"optimizedContent": overlongContent("Jane Doe"),
		"matchScore":       float64(85),
	}
	condensed := validEnvelope("Jane Doe", 85)

	gen := &stubGenerator{responses: []string{
		mustJSON(t, broken),
		mustJSON(t, corrected),
		mustJSON(t, condensed),
	}}
	p := New(gen, Options{})

	result, err := p.Optimize(context.Background(), Request{ResumeText: "resume", JobDescription: "job"})
	require.NoError(t, err)
	assert.Equal(t, 3, gen.calls())
	require.Len(t, result.OptimizedContent.Experience, 1)
}

func TestOptimize_FlatEnvelopeNormalized(t *testing.T) {
	// The model flattened the wrapper; the document is still usable and the
	// match score falls back to the default.
	gen := &stubGenerator{responses: []string{mustJSON(t, validContent("Jane Doe"))}}
	p := New(gen, Options{})

	result, err := p.Optimize(context.Background(), Request{ResumeText: "resume", JobDescription: "job"})
	require.NoError(t, err)
	assert.Equal(t, 1, gen.calls())
	assert.Equal(t, "Jane Doe", result.OptimizedContent.FullName)
	assert.Equal(t, DefaultMatchScore, result.MatchScore)
	assert.NotNil(t, result.Analysis)
	assert.Empty(t, result.Analysis)
}

func TestOptimize_MatchScoreClamped(t *testing.T) {
	cases := []struct {
		score    int
		expected int
	}{
		{150, 100},
		{-5, 0},
		{67, 67},
	}
	for _, tc := range cases {
		gen := &stubGenerator{responses: []string{mustJSON(t, validEnvelope("Jane Doe", tc.score))}}
		p := New(gen, Options{})

		result, err := p.Optimize(context.Background(), Request{ResumeText: "resume", JobDescription: "job"})
		require.NoError(t, err)
		assert.Equal(t, tc.expected, result.MatchScore)
	}
}

func TestOptimize_CancelledDuringCorrection(t *testing.T) {
	broken := validEnvelope("Jane Doe", 85)
	delete(broken["optimizedContent"].(map[string]any), "summary")

	ctx, cancel := context.WithCancel(context.Background())
	gen := &cancellingGenerator{
		first:  mustJSON(t, broken),
		cancel: cancel,
	}
	p := New(gen, Options{})

	_, err := p.Optimize(ctx, Request{ResumeText: "resume", JobDescription: "job"})
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, StageCorrection, genErr.Stage)
	assert.ErrorIs(t, err, context.Canceled)
}

// cancellingGenerator answers the first call, then cancels the context and
// fails to simulate an aborted in-flight request.
type cancellingGenerator struct {
	first  string
	cancel context.CancelFunc
	calls  int
}

func (g *cancellingGenerator) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	g.calls++
	if g.calls == 1 {
		return g.first, nil
	}
	g.cancel()
	return "", ctx.Err()
}

func TestOptions_WithDefaults(t *testing.T) {
	opts := Options{}.withDefaults()
	assert.Equal(t, DefaultMaxLines, opts.MaxLines)
	assert.Equal(t, 5, opts.MinSkills)
	assert.Equal(t, DefaultMatchScore, opts.MatchScore)

	custom := Options{MaxLines: 60, MinSkills: 3, MatchScore: 50}.withDefaults()
	assert.Equal(t, 60, custom.MaxLines)
	assert.Equal(t, 3, custom.MinSkills)
	assert.Equal(t, 50, custom.MatchScore)
}

func TestOptimize_CustomLineBudget(t *testing.T) {
	// A document comfortably under the default budget still triggers
	// condensing when the configured budget is tighter.
	gen := &stubGenerator{responses: []string{
		mustJSON(t, validEnvelope("Jane Doe", 85)),
		mustJSON(t, validEnvelope("Jane Doe", 85)),
	}}
	p := New(gen, Options{MaxLines: 10})

	_, err := p.Optimize(context.Background(), Request{ResumeText: "resume", JobDescription: "job"})
	require.NoError(t, err)
	assert.Equal(t, 2, gen.calls())
	assert.Contains(t, gen.prompts[1], "10 lines")
}
