// Package githubrepos fetches a user's public repositories for project
// grounding. The lookup is best-effort: callers treat any failure as an
// empty contribution rather than failing the request.
package githubrepos

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/shaheer/resume-optimizer/internal/types"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 15 * time.Second

// DefaultLimit caps how many repositories are passed to the model.
const DefaultLimit = 5

const defaultBaseURL = "https://api.github.com"

// Error represents a GitHub lookup failure.
type Error struct {
	Username string
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("github lookup for %q: %s: %v", e.Username, e.Message, e.Cause)
	}
	return fmt.Sprintf("github lookup for %q: %s", e.Username, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Client fetches repository summaries from the GitHub REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// Option customizes a Client.
type Option func(*Client)

// WithToken sets an API token, lifting the unauthenticated rate limit.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithBaseURL overrides the API base URL (used by tests).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// NewClient creates a GitHub client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// apiRepo is the subset of the GitHub repository payload we consume.
type apiRepo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Fork        bool   `json:"fork"`
	Stars       int    `json:"stargazers_count"`
	HTMLURL     string `json:"html_url"`
}

// FetchTopRepos returns up to limit of the user's most starred repositories,
// excluding forks and repos without a description. Not-found and rate-limit
// responses return an empty list without an error; transport failures return
// an error for the caller to degrade on.
func (c *Client) FetchTopRepos(ctx context.Context, username string, limit int) ([]types.RepoSummary, error) {
	if username == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	endpoint := fmt.Sprintf("%s/users/%s/repos?sort=pushed&direction=desc&per_page=100", c.baseURL, url.PathEscape(username))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &Error{Username: username, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Username: username, Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decoding
	case http.StatusNotFound:
		return nil, nil
	case http.StatusForbidden:
		// Rate limited; degrade to an empty contribution.
		return nil, nil
	default:
		return nil, &Error{Username: username, Message: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Username: username, Message: "failed to read response", Cause: err}
	}

	var repos []apiRepo
	if err := json.Unmarshal(body, &repos); err != nil {
		return nil, &Error{Username: username, Message: "failed to decode response", Cause: err}
	}

	summaries := make([]types.RepoSummary, 0, len(repos))
	for _, repo := range repos {
		if repo.Fork || repo.Description == "" {
			continue
		}
		summaries = append(summaries, types.RepoSummary{
			Name:        repo.Name,
			Description: repo.Description,
			Language:    repo.Language,
			Stars:       repo.Stars,
			URL:         repo.HTMLURL,
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Stars > summaries[j].Stars
	})
	if len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

// Serialize renders repo summaries as compact JSON for prompt grounding.
// An empty list serializes to "" so prompts can omit the section entirely.
func Serialize(repos []types.RepoSummary) string {
	if len(repos) == 0 {
		return ""
	}
	data, err := json.Marshal(repos)
	if err != nil {
		return ""
	}
	return string(data)
}
