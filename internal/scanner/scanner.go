// Package scanner discovers skills in a skills repository. Each direct
// subdirectory of the collection directory that holds a SKILL.md file is one
// skill; its metadata is merged from the SKILL.md front matter and the two
// auxiliary metadata sources, and its file tree is listed and classified.
package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/smy-101/skillmarket/internal/config"
	"github.com/smy-101/skillmarket/internal/fsutil"
	"github.com/smy-101/skillmarket/internal/logging"
	"github.com/smy-101/skillmarket/internal/metadata"
	"github.com/smy-101/skillmarket/internal/types"
	"github.com/spf13/afero"
)

// Options control how skill references are built.
type Options struct {
	// BaseURL prefixes download links and always ends with "/".
	BaseURL string
	// RepoURL and Branch form the source of the install command. With no
	// RepoURL the command points at the collection path.
	RepoURL string
	Branch  string
	// Today is the updatedAt fallback, formatted YYYY-MM-DD.
	Today string
}

// Scanner walks a skills repository.
type Scanner struct {
	fs      afero.Fs
	logger  logging.Logger
	opts    Options
	onSkill func(types.Skill)
}

// New creates a Scanner. A nil logger discards messages.
func New(fs afero.Fs, logger logging.Logger, opts Options) *Scanner {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	if opts.BaseURL == "" {
		opts.BaseURL = "/"
	}
	return &Scanner{fs: fs, logger: logger, opts: opts}
}

// OnSkill registers a callback invoked once per discovered skill, in scan
// order. It is used for progress output.
func (s *Scanner) OnSkill(fn func(types.Skill)) {
	s.onSkill = fn
}

// Scan returns the skills found under repoRoot in directory name order. A
// missing collection directory is logged and yields no skills.
func (s *Scanner) Scan(repoRoot string, combined, perSkill metadata.Records) []types.Skill {
	collection := filepath.Join(repoRoot, config.CollectionDir)

	entries, err := afero.ReadDir(s.fs, collection)
	if err != nil {
		s.logger.Error("Skills collection directory not found", err, "path", collection)
		return []types.Skill{}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	skills := make([]types.Skill, 0, len(entries))
	for _, entry := range entries {
		id := entry.Name()
		if isExcluded(id) {
			continue
		}

		skillDir := filepath.Join(collection, id)
		info, err := s.fs.Stat(skillDir)
		if err != nil || !info.IsDir() {
			continue
		}

		skill, err := s.scanSkill(skillDir, id, combined, perSkill)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			s.logger.Warn("Skipping skill", "skill", id, "error", err)
			continue
		}

		if s.onSkill != nil {
			s.onSkill(skill)
		}
		skills = append(skills, skill)
	}

	return skills
}

func (s *Scanner) scanSkill(skillDir, id string, combined, perSkill metadata.Records) (types.Skill, error) {
	data, err := afero.ReadFile(s.fs, filepath.Join(skillDir, config.DescriptorFile))
	if err != nil {
		return types.Skill{}, err
	}

	fm, body, err := parseDescriptor(string(data))
	if err != nil {
		return types.Skill{}, fmt.Errorf("failed to parse %s: %w", config.DescriptorFile, err)
	}

	src := sources{frontMatter: fm.record()}
	src.perSkill, _ = perSkill.Lookup(id)
	src.combined, _ = combined.Lookup(id)
	m := src.merge(s.opts.Today)

	files, err := s.scanFiles(skillDir, id)
	if err != nil {
		return types.Skill{}, fmt.Errorf("failed to list files: %w", err)
	}

	name := id
	if fm.Name != nil && strings.TrimSpace(*fm.Name) != "" {
		name = strings.TrimSpace(*fm.Name)
	}

	return types.Skill{
		ID:               id,
		Name:             name,
		Path:             config.CollectionDir + "/" + id,
		Description:      m.description,
		Tags:             m.tags,
		Version:          m.version,
		Author:           m.author,
		UpdatedAt:        m.updatedAt,
		Stars:            m.stars,
		SourceURL:        m.sourceURL,
		Files:            files,
		HasMultipleFiles: len(files) > 1,
		Content:          body,
		DownloadURL:      DownloadURL(s.opts.BaseURL, id),
		InstallCommand:   InstallCommand(s.opts.RepoURL, s.opts.Branch, id),
	}, nil
}

// scanFiles lists every regular file below skillDir. SKILL.md at the root
// comes first; the rest are ordered by name, then by relative path.
func (s *Scanner) scanFiles(skillDir, id string) ([]types.FileRecord, error) {
	var files []types.FileRecord

	err := fsutil.Walk(s.fs, skillDir, func(path, rel string, info os.FileInfo) error {
		if info.IsDir() {
			return nil
		}
		files = append(files, types.FileRecord{
			Name:         info.Name(),
			Path:         id + "/" + rel,
			Type:         ClassifyFile(info.Name()),
			RelativePath: rel,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	SortFiles(files)
	return files, nil
}

// SortFiles orders records with the root descriptor first and the remaining
// files by case-sensitive name.
func SortFiles(files []types.FileRecord) {
	sort.SliceStable(files, func(i, j int) bool {
		a, b := files[i], files[j]
		aRoot := a.RelativePath == config.DescriptorFile
		bRoot := b.RelativePath == config.DescriptorFile
		if aRoot != bRoot {
			return aRoot
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.RelativePath < b.RelativePath
	})
}

// DownloadURL is the public link to a skill archive.
func DownloadURL(baseURL, id string) string {
	return baseURL + "downloads/" + id + ".zip"
}

// InstallCommand is the gskills command that installs a skill from its source.
func InstallCommand(repoURL, branch, id string) string {
	if repoURL == "" {
		return fmt.Sprintf("gskills add ./%s/%s", config.CollectionDir, id)
	}
	if branch == "" {
		branch = "main"
	}
	repoURL = strings.TrimSuffix(strings.TrimSuffix(repoURL, "/"), ".git")
	return fmt.Sprintf("gskills add %s/tree/%s/%s/%s", repoURL, branch, config.CollectionDir, id)
}

func isExcluded(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	for _, excluded := range config.ExcludedDirs {
		if name == excluded {
			return true
		}
	}
	return false
}
