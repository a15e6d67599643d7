// Package index assembles the catalog index and writes it, together with the
// per-skill content payloads, for the site to consume.
package index

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/smy-101/skillmarket/internal/tags"
	"github.com/smy-101/skillmarket/internal/types"
	"github.com/spf13/afero"
)

// SchemaVersion is the catalog format version written into meta.version.
const SchemaVersion = "1.0"

// Build assembles the catalog for skills. Skills and files are copied so the
// catalog does not alias the caller's slices.
func Build(skills []types.Skill, sourceRepo string, generatedAt time.Time) types.CatalogIndex {
	summaries := make([]types.Skill, len(skills))
	for i, s := range skills {
		s.Tags = append([]string{}, s.Tags...)
		s.Files = append([]types.FileRecord{}, s.Files...)
		s.Content = ""
		summaries[i] = s
	}

	return types.CatalogIndex{
		Meta: types.CatalogMeta{
			GeneratedAt: generatedAt.UTC().Format(time.RFC3339),
			SourceRepo:  sourceRepo,
			Total:       len(skills),
			Version:     SchemaVersion,
		},
		Tags:   tags.Aggregate(skills),
		Skills: summaries,
	}
}

// Writer persists catalog artifacts.
type Writer struct {
	fs afero.Fs
}

// NewWriter creates a Writer on fs.
func NewWriter(fs afero.Fs) *Writer {
	return &Writer{fs: fs}
}

// WriteIndex writes the catalog to path.
func (w *Writer) WriteIndex(path string, catalog types.CatalogIndex) error {
	return w.writeJSON(path, catalog)
}

// WriteContent writes the content payload of every skill to
// <dir>/<id>.json and returns the number of files written.
func (w *Writer) WriteContent(dir string, skills []types.Skill) (int, error) {
	for i, s := range skills {
		payload := types.SkillContent{
			Content: s.Content,
			Files:   s.Files,
		}
		if payload.Files == nil {
			payload.Files = []types.FileRecord{}
		}
		if err := w.writeJSON(ContentPath(dir, s.ID), payload); err != nil {
			return i, fmt.Errorf("failed to write content for %s: %w", s.ID, err)
		}
	}
	return len(skills), nil
}

// ContentPath is where the content payload of a skill is written.
func ContentPath(dir, id string) string {
	return filepath.Join(dir, id+".json")
}

// writeJSON writes v as indented JSON through a temporary file so readers
// never see a partially written file.
func (w *Writer) writeJSON(path string, v interface{}) error {
	if err := w.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	data = append(data, '\n')

	tmpPath := path + ".tmp"
	if err := afero.WriteFile(w.fs, tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := w.fs.Rename(tmpPath, path); err != nil {
		_ = w.fs.Remove(tmpPath)
		return fmt.Errorf("failed to rename %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Load reads a previously generated catalog.
func Load(fs afero.Fs, path string) (types.CatalogIndex, error) {
	var catalog types.CatalogIndex

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return catalog, fmt.Errorf("failed to read catalog: %w", err)
	}
	if err := json.Unmarshal(data, &catalog); err != nil {
		return catalog, fmt.Errorf("failed to unmarshal catalog: %w", err)
	}
	return catalog, nil
}
