package types

// FileType classifies a file inside a skill directory.
type FileType string

const (
	FileTypeMarkdown FileType = "markdown"
	FileTypeCode     FileType = "code"
	FileTypeText     FileType = "text"
)

// FileRecord describes one file of a skill.
type FileRecord struct {
	Name         string   `json:"name"`
	Path         string   `json:"path"`
	Type         FileType `json:"type"`
	RelativePath string   `json:"relativePath"`
}

// Skill is one catalog entry, built fresh on every sync from its directory.
type Skill struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Path             string       `json:"path"`
	Description      string       `json:"description"`
	Tags             []string     `json:"tags"`
	Version          string       `json:"version"`
	Author           string       `json:"author"`
	UpdatedAt        string       `json:"updatedAt"`
	Stars            int          `json:"stars"`
	SourceURL        string       `json:"sourceUrl"`
	Files            []FileRecord `json:"files"`
	HasMultipleFiles bool         `json:"hasMultipleFiles"`
	DownloadURL      string       `json:"downloadUrl"`
	InstallCommand   string       `json:"installCommand"`

	// Content is the SKILL.md body without front matter. It is written to the
	// per-skill content file, never to the catalog index.
	Content string `json:"-"`
}

// TagSummary counts how many skills carry a tag.
type TagSummary struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// CatalogMeta describes a generated catalog.
type CatalogMeta struct {
	GeneratedAt string `json:"generatedAt"`
	SourceRepo  string `json:"sourceRepo"`
	Total       int    `json:"total"`
	Version     string `json:"version"`
}

// CatalogIndex is the combined index consumed by the site.
type CatalogIndex struct {
	Meta   CatalogMeta  `json:"meta"`
	Tags   []TagSummary `json:"tags"`
	Skills []Skill      `json:"skills"`
}

// SkillContent is the per-skill payload rendered by the detail page.
type SkillContent struct {
	Content string       `json:"content"`
	Files   []FileRecord `json:"files"`
}
