// Package server provides the HTTP REST API for the resume optimizer.
package server

import (
	"errors"
	"net/http"

	"github.com/shaheer/resume-optimizer/internal/ingestion"
	"github.com/shaheer/resume-optimizer/internal/pipeline"
)

// HTTPStatus returns the appropriate HTTP status code for an error from the
// optimization pipeline or its collaborators. Internal cause detail is
// logged by the handler, never exposed verbatim to the caller.
func HTTPStatus(err error) int {
	var inputErr *pipeline.InputError
	var credentialErr *pipeline.CredentialError
	var generationErr *pipeline.GenerationError
	var extractionErr *ingestion.ExtractionError

	switch {
	case errors.As(err, &inputErr), errors.As(err, &extractionErr):
		return http.StatusBadRequest
	case errors.As(err, &credentialErr):
		return http.StatusUnauthorized
	case errors.As(err, &generationErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// userMessage maps an error to the single user-facing failure category for
// its class.
func userMessage(err error) string {
	switch HTTPStatus(err) {
	case http.StatusBadRequest:
		var inputErr *pipeline.InputError
		if errors.As(err, &inputErr) {
			return "Missing required input: " + inputErr.Field
		}
		return "Could not read the uploaded resume file"
	case http.StatusUnauthorized:
		return "A valid Gemini API key is required"
	case http.StatusBadGateway:
		return "The model failed to produce a usable resume; please try again"
	default:
		return "Internal server error"
	}
}
