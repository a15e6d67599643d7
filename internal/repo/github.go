package repo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// RepoInfo is the subset of the GitHub repository resource used by the
// preflight check.
type RepoInfo struct {
	FullName      string `json:"full_name"`
	DefaultBranch string `json:"default_branch"`
	Private       bool   `json:"private"`
	HTMLURL       string `json:"html_url"`
}

// GitHubRepo identifies a repository hosted on GitHub.
type GitHubRepo struct {
	Owner string
	Repo  string
}

// ParseRepoURL extracts owner and repository name from a GitHub clone URL.
// Both https://github.com/owner/repo and the .git suffixed form are accepted.
func ParseRepoURL(rawURL string) (GitHubRepo, error) {
	parsedURL, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return GitHubRepo{}, fmt.Errorf("invalid URL: %w", err)
	}

	if !isGitHubHost(parsedURL.Host) {
		return GitHubRepo{}, fmt.Errorf("only GitHub URLs are supported")
	}

	pathParts := strings.Split(strings.Trim(parsedURL.Path, "/"), "/")
	if len(pathParts) != 2 {
		return GitHubRepo{}, fmt.Errorf("invalid GitHub repository URL: %s", Redact(rawURL))
	}

	owner := pathParts[0]
	name := strings.TrimSuffix(pathParts[1], ".git")
	if owner == "" {
		return GitHubRepo{}, fmt.Errorf("owner cannot be empty in URL")
	}
	if name == "" {
		return GitHubRepo{}, fmt.Errorf("repo cannot be empty in URL")
	}

	return GitHubRepo{Owner: owner, Repo: name}, nil
}

func isGitHubHost(host string) bool {
	host = strings.ToLower(host)
	return host == "github.com" || host == "www.github.com"
}

// Client is a small GitHub REST client.
type Client struct {
	restyClient *resty.Client
	baseURL     string
}

// NewClient creates a client for the API at baseURL. An empty token performs
// anonymous requests.
func NewClient(baseURL, token string) *Client {
	client := resty.New()

	client.SetTimeout(30 * time.Second)

	if token != "" {
		client.SetHeader("Authorization", fmt.Sprintf("Bearer %s", token))
	}
	client.SetHeader("Accept", "application/vnd.github+json")
	client.SetHeader("User-Agent", "skillmarket-sync/1.0")

	return &Client{
		restyClient: client,
		baseURL:     strings.TrimRight(baseURL, "/"),
	}
}

// Repository fetches repository metadata. A missing or inaccessible
// repository yields ErrSourceNotFound; an exhausted rate limit yields
// ErrRateLimited.
func (c *Client) Repository(ctx context.Context, target GitHubRepo) (RepoInfo, error) {
	var info RepoInfo
	resp, err := c.restyClient.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"owner": target.Owner,
			"repo":  target.Repo,
		}).
		SetResult(&info).
		Get(c.baseURL + "/repos/{owner}/{repo}")

	if err != nil {
		return RepoInfo{}, fmt.Errorf("API request failed: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return info, nil
	case http.StatusNotFound:
		return RepoInfo{}, fmt.Errorf("%w: %s/%s", ErrSourceNotFound, target.Owner, target.Repo)
	case http.StatusForbidden, http.StatusTooManyRequests:
		if strings.Contains(strings.ToLower(resp.String()), "rate limit") {
			return RepoInfo{}, fmt.Errorf("%w: set GITHUB_TOKEN to raise the limit", ErrRateLimited)
		}
	}

	return RepoInfo{}, fmt.Errorf("API returned %d: %s", resp.StatusCode(), resp.String())
}

// Redact removes credentials from a URL so it can be logged.
func Redact(rawURL string) string {
	parsedURL, err := url.Parse(rawURL)
	if err != nil || parsedURL.User == nil {
		return rawURL
	}
	parsedURL.User = url.User("redacted")
	return parsedURL.String()
}
