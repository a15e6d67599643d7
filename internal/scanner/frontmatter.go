package scanner

import (
	"fmt"
	"strings"

	"github.com/smy-101/skillmarket/internal/metadata"
	"go.yaml.in/yaml/v3"
)

const frontMatterDelimiter = "---"

// frontMatter is the YAML header of a SKILL.md file.
type frontMatter struct {
	Name        *string `yaml:"name"`
	Description *string `yaml:"description"`
	Tags        tagList `yaml:"tags"`
	Version     *string `yaml:"version"`
	Author      *string `yaml:"author"`
	UpdatedAt   *string `yaml:"updatedAt"`
}

// tagList accepts either a YAML sequence or a comma separated scalar.
type tagList []string

func (t *tagList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		tags := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: tags must be scalars", item.Line)
			}
			tags = append(tags, item.Value)
		}
		*t = tags
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*t = nil
			return nil
		}
		var tags []string
		for _, part := range strings.Split(value.Value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				tags = append(tags, part)
			}
		}
		*t = tags
	default:
		return fmt.Errorf("line %d: tags must be a list or a string", value.Line)
	}
	return nil
}

// record converts the header into a metadata record so it can take part in
// the merge alongside the JSON sources.
func (f frontMatter) record() metadata.Record {
	rec := metadata.Record{
		Description: f.Description,
		Tags:        []string(f.Tags),
		Version:     f.Version,
		Author:      f.Author,
		UpdatedAt:   f.UpdatedAt,
	}
	if f.Name != nil {
		rec.Name = *f.Name
	}
	return rec
}

// parseDescriptor splits a SKILL.md document into its front matter and body.
// A document without a front matter block has an empty header and the whole
// text as body. The body has its leading blank lines removed.
func parseDescriptor(content string) (frontMatter, string, error) {
	var fm frontMatter

	content = strings.TrimPrefix(content, "\ufeff")
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], " \t\r") != frontMatterDelimiter {
		return fm, content, nil
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], " \t\r") == frontMatterDelimiter {
			end = i
			break
		}
	}
	if end == -1 {
		return fm, content, nil
	}

	header := strings.Join(lines[1:end], "\n")
	if strings.TrimSpace(header) != "" {
		if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
			return frontMatter{}, "", fmt.Errorf("invalid front matter: %w", err)
		}
	}

	body := strings.Join(lines[end+1:], "\n")
	body = strings.TrimLeft(body, "\r\n")
	return fm, body, nil
}
