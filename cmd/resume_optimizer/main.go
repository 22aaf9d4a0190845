// Package main provides the entry point for the resume optimizer CLI and
// HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/shaheer/resume-optimizer/internal/config"
)

var (
	configPath string
	rootCmd    = &cobra.Command{
		Use:   "resume_optimizer",
		Short: "AI resume optimizer",
		Long:  "Resume Optimizer tailors a resume to a job description with Gemini, validating and condensing the model output into a one-page document.",
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file")
}

// loadConfig resolves the effective configuration: config file values,
// topped up with environment defaults.
func loadConfig() (*config.Config, error) {
	cfg := &config.Config{}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	merged := cfg.MergeWithDefaults(config.FromEnv())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
