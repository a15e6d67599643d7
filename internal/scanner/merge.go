package scanner

import "github.com/smy-101/skillmarket/internal/metadata"

// Built-in fallbacks used when no source provides a value.
const (
	DefaultVersion = "1.0.0"
	DefaultAuthor  = "Unknown"
)

// sources holds the three metadata sources for one skill.
type sources struct {
	frontMatter metadata.Record
	perSkill    metadata.Record
	combined    metadata.Record
}

// merged is the resolved metadata of a skill.
type merged struct {
	description string
	tags        []string
	version     string
	author      string
	updatedAt   string
	stars       int
	sourceURL   string
}

// merge resolves every field with its own precedence rule. today is the
// fallback for updatedAt.
func (s sources) merge(today string) merged {
	return merged{
		description: resolveString("", s.frontMatter.Description, s.perSkill.Description, s.combined.Description),
		tags:        resolveTags(s.perSkill.Tags, s.combined.Tags, s.frontMatter.Tags),
		version:     resolveString(DefaultVersion, s.frontMatter.Version, s.perSkill.Version, s.combined.Version),
		author:      resolveString(DefaultAuthor, s.frontMatter.Author, s.perSkill.Author, s.combined.Author),
		updatedAt:   resolveString(today, s.frontMatter.UpdatedAt, s.perSkill.UpdatedAt, s.combined.UpdatedAt),
		stars:       resolveStars(s.perSkill.Stars),
		sourceURL:   resolveString("", s.perSkill.SourceURL),
	}
}

// resolveTags returns a copy of the first non-empty tag list. Lists are
// never combined.
func resolveTags(candidates ...[]string) []string {
	for _, tags := range candidates {
		if len(tags) > 0 {
			out := make([]string, len(tags))
			copy(out, tags)
			return out
		}
	}
	return []string{}
}

// resolveString returns the first candidate that is set and non-empty.
func resolveString(fallback string, candidates ...*string) string {
	for _, c := range candidates {
		if c != nil && *c != "" {
			return *c
		}
	}
	return fallback
}

func resolveStars(stars *int) int {
	if stars == nil || *stars < 0 {
		return 0
	}
	return *stars
}
