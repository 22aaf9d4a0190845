// Package llm provides the generative model client used by the pipeline.
// The client is constructed per request so callers can override the
// credential; there is no process-wide model state.
package llm

import "time"

// DefaultModel is the Gemini model used for all pipeline passes.
const DefaultModel = "gemini-2.5-flash"

// DefaultTimeout bounds a single model invocation. A timeout surfaces as an
// invocation failure and follows the same fallback rules as a parse failure.
const DefaultTimeout = 120 * time.Second

// Config holds the model configuration for a client.
type Config struct {
	Model   string
	Timeout time.Duration
}

// DefaultConfig returns the default model configuration.
func DefaultConfig() *Config {
	return &Config{
		Model:   DefaultModel,
		Timeout: DefaultTimeout,
	}
}

// withDefaults fills zero values from the defaults.
func (c *Config) withDefaults() *Config {
	out := *c
	if out.Model == "" {
		out.Model = DefaultModel
	}
	if out.Timeout <= 0 {
		out.Timeout = DefaultTimeout
	}
	return &out
}
