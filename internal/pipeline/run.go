package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/shaheer/resume-optimizer/internal/llm"
	"github.com/shaheer/resume-optimizer/internal/prompts"
	"github.com/shaheer/resume-optimizer/internal/skills"
	"github.com/shaheer/resume-optimizer/internal/types"
	"github.com/shaheer/resume-optimizer/internal/validation"
)

// DefaultMaxLines is the estimated-line threshold above which a condensing
// pass runs.
const DefaultMaxLines = 45

// DefaultMatchScore is synthesized when the model omits a score.
const DefaultMatchScore = 80

// Generator is the single external capability the pipeline depends on: one
// bounded round-trip to a generative model. llm.Client satisfies it; tests
// substitute deterministic stubs.
type Generator interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

// Request holds the inputs to one optimization run.
type Request struct {
	ResumeText     string
	JobDescription string
	// GitHubProjects is an optional serialized repository list for project
	// grounding; empty means no GitHub contribution.
	GitHubProjects string
}

// Options tunes the pipeline policies.
type Options struct {
	MaxLines   int // condense threshold in estimated lines; 0 means DefaultMaxLines
	MinSkills  int // final skill floor; 0 means validation.MinSkills
	MatchScore int // default score when the model omits one; 0 means DefaultMatchScore
}

func (o Options) withDefaults() Options {
	if o.MaxLines <= 0 {
		o.MaxLines = DefaultMaxLines
	}
	if o.MinSkills <= 0 {
		o.MinSkills = validation.MinSkills
	}
	if o.MatchScore <= 0 {
		o.MatchScore = DefaultMatchScore
	}
	return o
}

// Pipeline sequences one generation call, up to one correction call, and up
// to one condensing call per request. It holds no per-request state and is
// safe for concurrent use.
type Pipeline struct {
	gen  Generator
	opts Options
}

// New creates a pipeline backed by the given generator.
func New(gen Generator, opts Options) *Pipeline {
	return &Pipeline{gen: gen, opts: opts.withDefaults()}
}

// Optimize runs the full generate -> validate -> correct -> estimate ->
// condense -> re-validate sequence and returns the best available document.
// The model is invoked between 1 and 3 times; a failed repair or condense
// attempt never discards a usable candidate.
func (p *Pipeline) Optimize(ctx context.Context, req Request) (*types.OptimizationResult, error) {
	if req.ResumeText == "" {
		return nil, &InputError{Field: "resume_text"}
	}
	if req.JobDescription == "" {
		return nil, &InputError{Field: "job_description"}
	}

	// Pass 1: primary generation. Failure here is terminal.
	prompt := prompts.BuildOptimizationPrompt(req.ResumeText, req.JobDescription, req.GitHubProjects)
	raw, err := p.gen.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, &GenerationError{Stage: StagePrimary, Message: "model call failed", Cause: err}
	}
	candidate, err := parseCandidate(raw)
	if err != nil {
		return nil, &GenerationError{Stage: StagePrimary, Message: "response is not valid JSON", Cause: err}
	}

	// Pass 2 (optional): targeted correction. The corrected candidate is
	// adopted without re-validation to keep the call count bounded; a failed
	// attempt keeps the original candidate.
	if defects := validation.ValidateResumeStructure(candidate, req.ResumeText); len(defects) > 0 {
		log.Printf("pipeline: validation found %d defect(s), running correction pass", len(defects))
		candidate = p.runCorrection(ctx, candidate, defects, req.ResumeText)
		if err := ctx.Err(); err != nil {
			return nil, &GenerationError{Stage: StageCorrection, Message: "request cancelled", Cause: err}
		}
	}

	// Pass 3 (optional): condensing when the document is over budget. The
	// condensed candidate must re-validate clean or it is discarded: a
	// shorter-but-broken document is worse than a longer-but-valid one.
	if estimated := validation.EstimateLineCount(candidate); estimated > p.opts.MaxLines {
		log.Printf("pipeline: estimated %d lines (budget %d), running condensing pass", estimated, p.opts.MaxLines)
		candidate = p.runCondensing(ctx, candidate, req.ResumeText)
		if err := ctx.Err(); err != nil {
			return nil, &GenerationError{Stage: StageCondensing, Message: "request cancelled", Cause: err}
		}
	}

	return p.finalize(candidate, req.ResumeText), nil
}

// runCorrection performs the single correction call and returns the candidate
// to carry forward: the corrected one on success, the original otherwise.
func (p *Pipeline) runCorrection(ctx context.Context, candidate any, defects []validation.ValidationError, sourceText string) any {
	prompt := prompts.BuildCorrectionPrompt(candidate, defects, sourceText)
	raw, err := p.gen.GenerateJSON(ctx, prompt)
	if err != nil {
		log.Printf("pipeline: correction call failed, keeping original candidate: %v", err)
		return candidate
	}
	corrected, err := parseCandidate(raw)
	if err != nil {
		log.Printf("pipeline: correction response unparseable, keeping original candidate: %v", err)
		return candidate
	}
	return corrected
}

// runCondensing performs the single condensing call; the result replaces the
// candidate only when it parses and re-validates clean.
func (p *Pipeline) runCondensing(ctx context.Context, candidate any, sourceText string) any {
	prompt := prompts.BuildCondensingPrompt(candidate, p.opts.MaxLines)
	raw, err := p.gen.GenerateJSON(ctx, prompt)
	if err != nil {
		log.Printf("pipeline: condensing call failed, keeping pre-condensing candidate: %v", err)
		return candidate
	}
	condensed, err := parseCandidate(raw)
	if err != nil {
		log.Printf("pipeline: condensing response unparseable, keeping pre-condensing candidate: %v", err)
		return candidate
	}
	if defects := validation.ValidateResumeStructure(condensed, sourceText); len(defects) > 0 {
		log.Printf("pipeline: condensed candidate failed re-validation with %d defect(s), reverting", len(defects))
		return candidate
	}
	return condensed
}

// finalize normalizes the surviving candidate into the result the caller
// receives: envelope flattening, score clamping with the policy default, and
// the deterministic skill floor.
func (p *Pipeline) finalize(candidate any, sourceText string) *types.OptimizationResult {
	data, ok := candidate.(map[string]any)
	if !ok {
		data = map[string]any{}
	}
	env := flattenEnvelope(data)

	doc := types.CoerceDocument(env.content)
	doc.Skills = skills.EnsureMinimum(doc.Skills, sourceText, p.opts.MinSkills)

	score := p.opts.MatchScore
	if env.matchScore != nil {
		score = clampScore(*env.matchScore, p.opts.MatchScore, true)
	}

	analysis := env.analysis
	if analysis == nil {
		analysis = []types.AnalysisEntry{}
	}

	return &types.OptimizationResult{
		OptimizedContent: doc,
		MatchScore:       score,
		Analysis:         analysis,
	}
}

// parseCandidate parses raw model output as a candidate value. Code-fence
// cleanup is applied again here so non-Gemini generators (tests, CLI stubs)
// get the same tolerance.
func parseCandidate(raw string) (any, error) {
	cleaned := llm.CleanJSONBlock(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("empty response")
	}
	var candidate any
	if err := json.Unmarshal([]byte(cleaned), &candidate); err != nil {
		return nil, fmt.Errorf("failed to unmarshal candidate: %w", err)
	}
	return candidate, nil
}
