// Package syncer runs the sync pipeline: it locates the skills repository,
// scans it, packages every skill and writes the catalog for the site.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/smy-101/skillmarket/internal/config"
	"github.com/smy-101/skillmarket/internal/index"
	"github.com/smy-101/skillmarket/internal/logging"
	"github.com/smy-101/skillmarket/internal/metadata"
	"github.com/smy-101/skillmarket/internal/packager"
	"github.com/smy-101/skillmarket/internal/repo"
	"github.com/smy-101/skillmarket/internal/scanner"
	"github.com/smy-101/skillmarket/internal/types"
	"github.com/spf13/afero"
)

// Locator resolves the repository to sync from.
type Locator interface {
	Locate(ctx context.Context) (repo.Location, error)
}

// Archive is a packaged skill.
type Archive struct {
	ID   string
	Path string
	Size int64
}

// Report describes a finished run.
type Report struct {
	Location     repo.Location
	Skills       []types.Skill
	Archives     []Archive
	TagCount     int
	ContentFiles int
	IndexPath    string
}

// Archive returns the archive of the skill with the given id.
func (r *Report) Archive(id string) (Archive, bool) {
	for _, a := range r.Archives {
		if a.ID == id {
			return a, true
		}
	}
	return Archive{}, false
}

// ArchiveBytes is the total size of all archives.
func (r *Report) ArchiveBytes() int64 {
	var total int64
	for _, a := range r.Archives {
		total += a.Size
	}
	return total
}

// Syncer runs one sync.
type Syncer struct {
	cfg      config.Config
	fs       afero.Fs
	locator  Locator
	logger   logging.Logger
	progress *Progress
	now      func() time.Time
}

// New creates a Syncer. Progress output is discarded until SetProgress is
// called.
func New(cfg config.Config, fs afero.Fs, locator Locator, logger logging.Logger) *Syncer {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Syncer{
		cfg:      cfg,
		fs:       fs,
		locator:  locator,
		logger:   logger,
		progress: NewProgress(io.Discard),
		now:      time.Now,
	}
}

// SetProgress sets the user-facing output.
func (s *Syncer) SetProgress(p *Progress) {
	s.progress = p
}

// Run executes the pipeline. Zero discovered skills stops the run early with
// ErrNoSkills; every other failure is a *SyncError. A temporary clone is
// removed whether the run succeeds or fails.
func (s *Syncer) Run(ctx context.Context) (*Report, error) {
	started := s.now()
	report := &Report{IndexPath: s.cfg.IndexPath}

	s.progress.Step("Cleaning previous outputs")
	if err := s.cleanOutputs(); err != nil {
		return report, &SyncError{Stage: StageClean, Message: "failed to clean outputs", Err: err}
	}

	s.progress.Step("Locating skills repository")
	loc, err := s.locator.Locate(ctx)
	if err != nil {
		return report, &SyncError{Stage: StageLocate, Message: "failed to locate skills repository", Err: err}
	}
	report.Location = loc
	defer func() {
		if cleanupErr := loc.Cleanup(); cleanupErr != nil {
			s.logger.Warn("failed to remove temporary clone", "path", loc.Path, "error", cleanupErr.Error())
			return
		}
		if loc.Temporary {
			s.logger.Debug("temporary clone removed", "path", loc.Path)
		}
	}()

	s.progress.Step("Scanning skills in %s", loc.Path)
	skills := s.scan(loc)
	report.Skills = skills
	if len(skills) == 0 {
		s.logger.Warn("no skills found, nothing to publish", "repo", loc.Path)
		s.progress.Warning("No skills found in %s; index left unchanged", loc.Path)
		return report, ErrNoSkills
	}

	s.progress.Step("Packaging %d skills", len(skills))
	p := packager.New(s.fs, s.cfg.DownloadsDir)
	for _, skill := range skills {
		size, err := p.Package(skill, loc.Path)
		if err != nil {
			return report, &SyncError{Stage: StagePackage, Message: "failed to package skill", Skill: skill.ID, Err: err}
		}
		report.Archives = append(report.Archives, Archive{ID: skill.ID, Path: p.ArchivePath(skill.ID), Size: size})
		s.logger.Debug("skill packaged", "skill", skill.ID, "bytes", size)
	}

	s.progress.Step("Writing catalog")
	catalog := index.Build(skills, s.cfg.SourceRepo(), s.now())
	report.TagCount = len(catalog.Tags)

	writer := index.NewWriter(s.fs)
	if err := writer.WriteIndex(s.cfg.IndexPath, catalog); err != nil {
		return report, &SyncError{Stage: StageIndex, Message: "failed to write catalog index", Err: err}
	}

	if err := s.pruneContent(); err != nil {
		return report, &SyncError{Stage: StageContent, Message: "failed to remove stale content", Err: err}
	}
	written, err := writer.WriteContent(s.cfg.ContentDir, skills)
	report.ContentFiles = written
	if err != nil {
		return report, &SyncError{Stage: StageContent, Message: "failed to write skill content", Err: err}
	}

	s.logger.Info("sync complete",
		"skills", len(skills),
		"tags", report.TagCount,
		"archives", len(report.Archives),
		"duration", s.now().Sub(started).String(),
	)
	s.progress.Success("Synced %d skills", len(skills))
	return report, nil
}

func (s *Syncer) scan(loc repo.Location) []types.Skill {
	reader := metadata.NewReader(s.fs, s.logger)
	combined := reader.ReadCombinedIndex(filepath.Join(loc.Path, config.CombinedIndex))
	perSkill := reader.ReadSkillDir(filepath.Join(loc.Path, config.PerSkillMetaDir))

	sc := scanner.New(s.fs, s.logger, scanner.Options{
		BaseURL: s.cfg.BaseURL,
		RepoURL: s.cfg.RepoURL,
		Branch:  s.branch(loc),
		Today:   s.now().Format("2006-01-02"),
	})
	sc.OnSkill(s.progress.Skill)
	return sc.Scan(loc.Path, combined, perSkill)
}

func (s *Syncer) branch(loc repo.Location) string {
	if s.cfg.RepoBranch != "" {
		return s.cfg.RepoBranch
	}
	return loc.Branch
}

// cleanOutputs empties the downloads directory so archives of removed
// skills do not survive the run.
func (s *Syncer) cleanOutputs() error {
	if err := s.fs.RemoveAll(s.cfg.DownloadsDir); err != nil {
		return fmt.Errorf("failed to remove downloads directory: %w", err)
	}
	if err := s.fs.MkdirAll(s.cfg.DownloadsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create downloads directory: %w", err)
	}
	s.logger.Debug("downloads directory cleaned", "path", s.cfg.DownloadsDir)
	return nil
}

// pruneContent removes content payloads left by a previous run.
func (s *Syncer) pruneContent() error {
	entries, err := afero.ReadDir(s.fs, s.cfg.ContentDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read content directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if err := s.fs.Remove(filepath.Join(s.cfg.ContentDir, entry.Name())); err != nil {
			return fmt.Errorf("failed to remove %s: %w", entry.Name(), err)
		}
		removed++
	}
	s.logger.Debug("stale content removed", "path", s.cfg.ContentDir, "files", removed)
	return nil
}

// IsSoftStop reports whether err is the zero-skills early stop.
func IsSoftStop(err error) bool {
	return errors.Is(err, ErrNoSkills)
}
