package server

import (
	"io"
	"log"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/shaheer/resume-optimizer/internal/githubrepos"
	"github.com/shaheer/resume-optimizer/internal/ingestion"
	"github.com/shaheer/resume-optimizer/internal/pipeline"
	"github.com/shaheer/resume-optimizer/internal/types"
)

// maxUploadBytes caps the multipart form size (resume PDFs are small).
const maxUploadBytes = 10 << 20

// OptimizeResponse is the success envelope for POST /optimize.
type OptimizeResponse struct {
	Success   bool                      `json:"success"`
	RequestID string                    `json:"request_id"`
	Data      *types.OptimizationResult `json:"data"`
}

// handleOptimize runs one optimization request end to end: extract the
// resume text and fetch GitHub repos concurrently, then run the pipeline.
func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()

	if !s.rateLimiter.Allow(s.extractClientID(r)) {
		s.errorResponse(w, http.StatusTooManyRequests, "Too many requests; slow down")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	jobDescription := r.FormValue("jobDescription")
	githubUsername := r.FormValue("githubUsername")

	file, _, err := r.FormFile("resume")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Resume file and Job Description are required")
		return
	}
	defer func() { _ = file.Close() }()

	if jobDescription == "" {
		s.errorResponse(w, http.StatusBadRequest, "Resume file and Job Description are required")
		return
	}

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read resume file")
		return
	}

	// Per-request credential override; falls back to the configured key.
	apiKey := r.Header.Get("X-API-Key")
	if apiKey == "" {
		apiKey = r.FormValue("apiKey")
	}
	if apiKey == "" {
		apiKey = s.cfg.APIKey
	}
	if apiKey == "" {
		err := &pipeline.CredentialError{}
		s.errorResponse(w, HTTPStatus(err), userMessage(err))
		return
	}

	// Fan out: text extraction and the optional repo lookup are both inputs
	// with no ordering between them. The repo branch degrades to an empty
	// contribution on any failure.
	var resumeText string
	var repos []types.RepoSummary

	g, gCtx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		text, err := ingestion.ExtractText(fileBytes)
		if err != nil {
			return err
		}
		resumeText = text
		return nil
	})
	g.Go(func() error {
		if githubUsername == "" {
			return nil
		}
		fetched, err := s.github.FetchTopRepos(gCtx, githubUsername, githubrepos.DefaultLimit)
		if err != nil {
			log.Printf("[%s] GitHub lookup failed, continuing without repos: %v", requestID, err)
			return nil
		}
		repos = fetched
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Printf("[%s] resume extraction failed: %v", requestID, err)
		s.errorResponse(w, HTTPStatus(err), userMessage(err))
		return
	}

	req := types.OptimizeRequest{
		ResumeText:     resumeText,
		JobDescription: jobDescription,
		GitHubUsername: githubUsername,
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	generator, closeGen, err := s.newGenerator(r.Context(), apiKey)
	if err != nil {
		credErr := &pipeline.CredentialError{Cause: err}
		log.Printf("[%s] %v", requestID, credErr)
		s.errorResponse(w, HTTPStatus(credErr), userMessage(credErr))
		return
	}
	defer func() { _ = closeGen() }()

	pipe := pipeline.New(generator, pipeline.Options{
		MaxLines:  s.cfg.MaxLines,
		MinSkills: s.cfg.MinSkills,
	})

	log.Printf("[%s] starting optimization (job description %d chars, %d repos)", requestID, len(jobDescription), len(repos))

	result, err := pipe.Optimize(r.Context(), pipeline.Request{
		ResumeText:     resumeText,
		JobDescription: jobDescription,
		GitHubProjects: githubrepos.Serialize(repos),
	})
	if err != nil {
		log.Printf("[%s] optimization failed: %v", requestID, err)
		s.errorResponse(w, HTTPStatus(err), userMessage(err))
		return
	}

	log.Printf("[%s] optimization complete (match score %d)", requestID, result.MatchScore)
	s.jsonResponse(w, http.StatusOK, OptimizeResponse{
		Success:   true,
		RequestID: requestID,
		Data:      result,
	})
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
