// Package repo locates the skills repository: an existing local checkout, or
// a shallow clone of the configured remote into a temporary directory.
package repo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/smy-101/skillmarket/internal/logging"
	"github.com/spf13/afero"
)

// Options configures a Locator.
type Options struct {
	LocalPath string
	RemoteURL string
	Branch    string
	Token     string
	TempDir   string
}

// Location is a located repository.
type Location struct {
	Path string
	// Temporary is set when Path is a clone owned by this run.
	Temporary bool
	Branch    string
	Commit    string

	fs afero.Fs
}

// Cleanup removes the clone when the location is temporary.
func (l Location) Cleanup() error {
	if !l.Temporary || l.Path == "" || l.fs == nil {
		return nil
	}
	if err := l.fs.RemoveAll(l.Path); err != nil {
		return fmt.Errorf("failed to remove temporary clone: %w", err)
	}
	return nil
}

// Locator resolves the repository for a run.
type Locator struct {
	fs     afero.Fs
	cloner Cloner
	github *Client
	logger logging.Logger
	opts   Options
}

// NewLocator creates a Locator. github may be nil to skip the preflight.
func NewLocator(fs afero.Fs, cloner Cloner, github *Client, logger logging.Logger, opts Options) *Locator {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Locator{
		fs:     fs,
		cloner: cloner,
		github: github,
		logger: logger,
		opts:   opts,
	}
}

// Locate returns the local checkout when it exists. Otherwise the remote is
// cloned into the temp directory, replacing any previous content there.
func (l *Locator) Locate(ctx context.Context) (Location, error) {
	if l.opts.LocalPath != "" {
		info, err := l.fs.Stat(l.opts.LocalPath)
		if err == nil && info.IsDir() {
			l.logger.Info("using local skills repository", "path", l.opts.LocalPath)
			return Location{Path: l.opts.LocalPath, fs: l.fs}, nil
		}
	}

	if l.opts.RemoteURL == "" {
		return Location{}, fmt.Errorf("%w: %s does not exist and no remote is configured", ErrSourceNotFound, l.opts.LocalPath)
	}

	branch, missing := l.preflight(ctx)

	if err := l.fs.RemoveAll(l.opts.TempDir); err != nil {
		return Location{}, fmt.Errorf("failed to clear temp directory: %w", err)
	}
	if err := l.fs.MkdirAll(filepath.Dir(l.opts.TempDir), 0o755); err != nil {
		return Location{}, fmt.Errorf("failed to create temp parent directory: %w", err)
	}

	l.logger.Info("cloning skills repository", "url", Redact(l.opts.RemoteURL), "branch", branch, "dest", l.opts.TempDir)
	result, err := l.cloner.Clone(ctx, CloneRequest{
		URL:    l.opts.RemoteURL,
		Dest:   l.opts.TempDir,
		Branch: branch,
		Token:  l.opts.Token,
	})
	if err != nil {
		_ = l.fs.RemoveAll(l.opts.TempDir)
		if missing != nil {
			return Location{}, fmt.Errorf("%w: clone failed: %v", missing, err)
		}
		return Location{}, err
	}

	if result.Branch == "" {
		result.Branch = branch
	}
	l.logger.Info("repository cloned", "branch", result.Branch, "commit", result.Commit)

	return Location{
		Path:      l.opts.TempDir,
		Temporary: true,
		Branch:    result.Branch,
		Commit:    result.Commit,
		fs:        l.fs,
	}, nil
}

// preflight checks the remote through the GitHub API and returns the branch
// to clone. It never blocks the clone: API failures, including an exhausted
// rate limit, are logged and the configured branch is kept. A repository the
// API reports as missing is returned as the second value so a failed clone
// can be reported as ErrSourceNotFound.
func (l *Locator) preflight(ctx context.Context) (string, error) {
	branch := l.opts.Branch
	if l.github == nil {
		return branch, nil
	}

	target, err := ParseRepoURL(l.opts.RemoteURL)
	if err != nil {
		l.logger.Debug("skipping GitHub preflight", "reason", err.Error())
		return branch, nil
	}

	info, err := l.github.Repository(ctx, target)
	switch {
	case errors.Is(err, ErrSourceNotFound):
		l.logger.Warn("GitHub API does not know the repository, cloning anyway", "error", err.Error())
		return branch, err
	case errors.Is(err, ErrRateLimited):
		l.logger.Warn("GitHub API rate limited, cloning without preflight", "error", err.Error())
		return branch, nil
	case err != nil:
		l.logger.Warn("GitHub preflight failed, cloning anyway", "error", err.Error())
		return branch, nil
	}

	if branch == "" {
		branch = info.DefaultBranch
	}
	l.logger.Debug("GitHub preflight ok", "repo", info.FullName, "default_branch", info.DefaultBranch, "private", info.Private)
	return branch, nil
}
