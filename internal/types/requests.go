package types

import (
	"github.com/go-playground/validator/v10"
)

// OptimizeRequest represents the inputs to a single optimization run after
// the resume file has been reduced to text.
type OptimizeRequest struct {
	ResumeText     string `json:"resume_text" validate:"required,min=1"`
	JobDescription string `json:"job_description" validate:"required,min=1"`
	GitHubUsername string `json:"github_username,omitempty" validate:"omitempty,max=39"`
	APIKey         string `json:"-"`
}

// Validate validates the OptimizeRequest using the validator.
func (r *OptimizeRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
