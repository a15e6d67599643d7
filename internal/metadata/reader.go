package metadata

import (
	"encoding/json"
	"path/filepath"
	"sort"
	"strings"

	"github.com/smy-101/skillmarket/internal/logging"
	"github.com/spf13/afero"
)

// combinedIndex is the shape of the repository-root index file.
type combinedIndex struct {
	Skills []interface{} `json:"skills"`
}

// Reader loads metadata sources from a filesystem.
type Reader struct {
	fs     afero.Fs
	logger logging.Logger
}

// NewReader creates a Reader. A nil logger discards warnings.
func NewReader(fs afero.Fs, logger logging.Logger) *Reader {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Reader{fs: fs, logger: logger}
}

// ReadCombinedIndex parses the combined index at path and maps each entry by
// its name. Entries that are not objects or have no name are ignored, and
// fields that fail to decode are dropped from their entry. Any failure to
// read or parse the file returns an empty mapping.
func (r *Reader) ReadCombinedIndex(path string) Records {
	records := Records{}

	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		r.logger.Warn("Combined index not readable, continuing without it", "path", path, "error", err)
		return records
	}

	var idx combinedIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		r.logger.Warn("Combined index is not valid JSON, continuing without it", "path", path, "error", err)
		return records
	}

	for i, entry := range idx.Skills {
		raw, ok := entry.(map[string]interface{})
		if !ok {
			r.logger.Warn("Skipping combined index entry that is not an object", "path", path, "entry", i)
			continue
		}
		rec, err := DecodeRecord(raw)
		if err != nil {
			r.logger.Warn("Ignoring malformed fields of combined index entry", "path", path, "entry", i, "error", err)
		}
		if rec.Name == "" {
			continue
		}
		records[rec.Name] = rec
	}

	r.logger.Debug("Loaded combined index", "path", path, "skills", len(records))
	return records
}

// ReadSkillDir parses every *.json file in dir and maps it by its name
// field. Unreadable or nameless files are skipped and fields that fail to
// decode are dropped; an inaccessible directory returns an empty mapping.
func (r *Reader) ReadSkillDir(dir string) Records {
	records := Records{}

	entries, err := afero.ReadDir(r.fs, dir)
	if err != nil {
		r.logger.Warn("Per-skill metadata directory not readable, continuing without it", "path", dir, "error", err)
		return records
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := afero.ReadFile(r.fs, path)
		if err != nil {
			r.logger.Warn("Skipping unreadable metadata file", "path", path, "error", err)
			continue
		}

		var raw map[string]interface{}
		if err := json.Unmarshal(data, &raw); err != nil {
			r.logger.Warn("Skipping malformed metadata file", "path", path, "error", err)
			continue
		}

		rec, err := DecodeRecord(raw)
		if err != nil {
			r.logger.Warn("Ignoring malformed metadata fields", "path", path, "error", err)
		}
		if rec.Name == "" {
			continue
		}
		records[rec.Name] = rec
	}

	r.logger.Debug("Loaded per-skill metadata", "path", dir, "skills", len(records))
	return records
}
