package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/shaheer/resume-optimizer/internal/githubrepos"
	"github.com/shaheer/resume-optimizer/internal/ingestion"
	"github.com/shaheer/resume-optimizer/internal/llm"
	"github.com/shaheer/resume-optimizer/internal/observability"
	"github.com/shaheer/resume-optimizer/internal/pipeline"
)

var (
	optimizeResume  string
	optimizeJob     string
	optimizeGitHub  string
	optimizeOut     string
	optimizeVerbose bool
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Optimize a resume for a job description",
	Long:  `Run the optimization pipeline once: extract the resume text, optionally fetch GitHub projects, and produce a tailored one-page resume JSON.`,
	RunE:  runOptimize,
}

func init() {
	optimizeCmd.Flags().StringVar(&optimizeResume, "resume", "", "Path to the resume file (PDF or plain text)")
	optimizeCmd.Flags().StringVar(&optimizeJob, "job", "", "Path to the job description text file")
	optimizeCmd.Flags().StringVar(&optimizeGitHub, "github", "", "GitHub username for project grounding (optional)")
	optimizeCmd.Flags().StringVar(&optimizeOut, "out", "", "Write the result JSON to this file instead of stdout")
	optimizeCmd.Flags().BoolVar(&optimizeVerbose, "verbose", false, "Print a formatted result summary")
	_ = optimizeCmd.MarkFlagRequired("resume")
	_ = optimizeCmd.MarkFlagRequired("job")
	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("a Gemini API key is required: set GEMINI_API_KEY or 'api_key' in the config file")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	resumeBytes, err := os.ReadFile(optimizeResume)
	if err != nil {
		return fmt.Errorf("failed to read resume file: %w", err)
	}
	resumeText, err := ingestion.ExtractText(resumeBytes)
	if err != nil {
		return err
	}

	jobBytes, err := os.ReadFile(optimizeJob)
	if err != nil {
		return fmt.Errorf("failed to read job description file: %w", err)
	}

	var githubProjects string
	if optimizeGitHub != "" {
		gh := githubrepos.NewClient(githubrepos.WithToken(cfg.GitHubToken))
		repos, err := gh.FetchTopRepos(ctx, optimizeGitHub, githubrepos.DefaultLimit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: GitHub lookup failed, continuing without repos: %v\n", err)
		}
		githubProjects = githubrepos.Serialize(repos)
	}

	llmCfg := &llm.Config{Model: cfg.Model}
	if cfg.TimeoutSeconds > 0 {
		llmCfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client, err := llm.NewGeminiClient(ctx, llmCfg, cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	defer func() { _ = client.Close() }()

	pipe := pipeline.New(client, pipeline.Options{
		MaxLines:  cfg.MaxLines,
		MinSkills: cfg.MinSkills,
	})

	result, err := pipe.Optimize(ctx, pipeline.Request{
		ResumeText:     resumeText,
		JobDescription: string(jobBytes),
		GitHubProjects: githubProjects,
	})
	if err != nil {
		return err
	}

	if optimizeVerbose || cfg.Verbose {
		observability.NewPrinter(os.Stdout).PrintResult(result)
	}

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	if optimizeOut != "" {
		if err := os.WriteFile(optimizeOut, output, 0o644); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
		fmt.Printf("Wrote result to %s\n", optimizeOut)
		return nil
	}

	fmt.Println(string(output))
	return nil
}
