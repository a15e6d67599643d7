package repo

import (
	"context"
	"fmt"
	"net/url"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

// CloneRequest describes a shallow clone.
type CloneRequest struct {
	URL  string
	Dest string
	// Branch is the branch to check out; empty means the remote HEAD.
	Branch string
	Token  string
}

// CloneResult reports what was checked out.
type CloneResult struct {
	Branch string
	Commit string
}

// Cloner fetches a remote repository into a local directory.
type Cloner interface {
	Clone(ctx context.Context, req CloneRequest) (CloneResult, error)
}

// GitCloner clones with go-git, depth 1 and a single branch.
type GitCloner struct{}

// Clone implements Cloner.
func (GitCloner) Clone(ctx context.Context, req CloneRequest) (CloneResult, error) {
	opts := &git.CloneOptions{
		URL:          req.URL,
		Auth:         authFor(req.URL, req.Token),
		SingleBranch: true,
		Depth:        1,
		Tags:         git.NoTags,
	}
	if req.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(req.Branch)
	}

	repository, err := git.PlainCloneContext(ctx, req.Dest, false, opts)
	if err != nil {
		return CloneResult{}, fmt.Errorf("failed to clone %s: %w", Redact(req.URL), err)
	}

	head, err := repository.Head()
	if err != nil {
		return CloneResult{}, fmt.Errorf("failed to get HEAD: %w", err)
	}

	result := CloneResult{Commit: head.Hash().String()}
	if head.Name().IsBranch() {
		result.Branch = head.Name().Short()
	}
	return result, nil
}

// authFor returns basic auth carrying token for GitHub HTTPS remotes.
func authFor(rawURL, token string) transport.AuthMethod {
	if token == "" {
		return nil
	}
	parsedURL, err := url.Parse(rawURL)
	if err != nil || !isGitHubHost(parsedURL.Host) {
		return nil
	}
	if parsedURL.Scheme != "https" && parsedURL.Scheme != "http" {
		return nil
	}
	return &http.BasicAuth{
		Username: "x-access-token",
		Password: token,
	}
}
