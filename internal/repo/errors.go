package repo

import "errors"

var (
	// ErrSourceNotFound is returned when neither a local checkout nor a
	// reachable remote repository is available.
	ErrSourceNotFound = errors.New("skills repository not found")

	// ErrRateLimited is returned by Client when the GitHub API refuses a
	// request because the rate limit is exhausted.
	ErrRateLimited = errors.New("GitHub API rate limit exceeded")
)
