// Package tags computes tag usage statistics for the catalog.
package tags

import (
	"sort"
	"strings"

	"github.com/smy-101/skillmarket/internal/types"
)

// Aggregate counts tag usage across skills. Tags are trimmed and blank tags
// are ignored. The result is sorted by count descending; equal counts keep
// the order in which the tag was first seen.
func Aggregate(skills []types.Skill) []types.TagSummary {
	counts := make(map[string]int)
	var order []string

	for _, skill := range skills {
		for _, tag := range skill.Tags {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			if _, seen := counts[tag]; !seen {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}

	summary := make([]types.TagSummary, 0, len(order))
	for _, tag := range order {
		summary = append(summary, types.TagSummary{Name: tag, Count: counts[tag]})
	}

	sort.SliceStable(summary, func(i, j int) bool {
		return summary[i].Count > summary[j].Count
	})
	return summary
}
