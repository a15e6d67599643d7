// Package packager builds the downloadable ZIP archive of a skill.
package packager

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/smy-101/skillmarket/internal/fsutil"
	"github.com/smy-101/skillmarket/internal/types"
	"github.com/spf13/afero"
)

// Packager writes skill archives into a downloads directory.
type Packager struct {
	fs     afero.Fs
	outDir string
}

// New creates a Packager writing to outDir.
func New(fs afero.Fs, outDir string) *Packager {
	return &Packager{fs: fs, outDir: outDir}
}

// ArchivePath returns where the archive of a skill is written.
func (p *Packager) ArchivePath(id string) string {
	return filepath.Join(p.outDir, id+".zip")
}

// Package archives the directory of skill below repoRoot into
// <outDir>/<id>.zip and returns the archive size in bytes. Entries are rooted
// at "<id>/" so extracting the archive yields the skill folder. A partially
// written archive is removed on failure.
func (p *Packager) Package(skill types.Skill, repoRoot string) (size int64, err error) {
	srcDir := filepath.Join(repoRoot, filepath.FromSlash(skill.Path))
	info, err := p.fs.Stat(srcDir)
	if err != nil {
		return 0, fmt.Errorf("failed to stat skill directory: %w", err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("skill path %s is not a directory", srcDir)
	}

	if err := p.fs.MkdirAll(p.outDir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create downloads directory: %w", err)
	}

	archivePath := p.ArchivePath(skill.ID)
	if err := p.write(archivePath, srcDir, skill.ID); err != nil {
		_ = p.fs.Remove(archivePath)
		return 0, fmt.Errorf("failed to archive skill %s: %w", skill.ID, err)
	}

	stat, err := p.fs.Stat(archivePath)
	if err != nil {
		return 0, fmt.Errorf("failed to stat archive: %w", err)
	}
	return stat.Size(), nil
}

func (p *Packager) write(archivePath, srcDir, root string) (err error) {
	out, err := p.fs.Create(archivePath)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	zw := zip.NewWriter(out)
	defer func() {
		if closeErr := zw.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return fsutil.Walk(p.fs, srcDir, func(path, rel string, info os.FileInfo) error {
		name := root
		if rel != "." {
			name = root + "/" + rel
		}

		header, headerErr := zip.FileInfoHeader(info)
		if headerErr != nil {
			return fmt.Errorf("failed to create header for %s: %w", path, headerErr)
		}

		if info.IsDir() {
			header.Name = name + "/"
			header.Method = zip.Store
			_, createErr := zw.CreateHeader(header)
			if createErr != nil {
				return fmt.Errorf("failed to create directory entry: %w", createErr)
			}
			return nil
		}

		header.Name = name
		header.Method = zip.Deflate
		w, createErr := zw.CreateHeader(header)
		if createErr != nil {
			return fmt.Errorf("failed to create entry %s: %w", name, createErr)
		}

		return p.copyFile(w, path)
	})
}

func (p *Packager) copyFile(w io.Writer, path string) error {
	f, err := p.fs.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Extract unpacks archivePath into destDir and returns the number of files
// written. Entries escaping destDir are rejected.
func Extract(fs afero.Fs, archivePath, destDir string) (int, error) {
	f, err := fs.Open(archivePath)
	if err != nil {
		return 0, fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("failed to stat archive: %w", err)
	}

	zr, err := zip.NewReader(f, stat.Size())
	if errors.Is(err, zip.ErrInsecurePath) {
		return 0, fmt.Errorf("path traversal detected in %s: %w", archivePath, err)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read archive: %w", err)
	}

	files := 0
	for _, entry := range zr.File {
		target, err := safeJoin(destDir, entry.Name)
		if err != nil {
			return files, err
		}

		if strings.HasSuffix(entry.Name, "/") {
			if err := fs.MkdirAll(target, 0o755); err != nil {
				return files, fmt.Errorf("failed to create directory %s: %w", target, err)
			}
			continue
		}

		if err := extractFile(fs, entry, target); err != nil {
			return files, err
		}
		files++
	}
	return files, nil
}

func extractFile(fs afero.Fs, entry *zip.File, target string) error {
	if err := fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", target, err)
	}

	rc, err := entry.Open()
	if err != nil {
		return fmt.Errorf("failed to open entry %s: %w", entry.Name, err)
	}
	defer rc.Close()

	out, err := fs.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, entry.Mode().Perm()|0o200)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return fmt.Errorf("failed to extract %s: %w", entry.Name, err)
	}
	return nil
}

// safeJoin joins an archive entry name onto base, refusing path traversal.
func safeJoin(base, name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal detected: %s", name)
	}
	return filepath.Join(base, clean), nil
}
