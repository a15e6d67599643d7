// Package fsutil holds filesystem helpers shared by the scanner and the
// packager.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
)

// WalkFunc is called for every entry below the walk root. info describes the
// link target for symlinked entries.
type WalkFunc func(path, rel string, info os.FileInfo) error

// Walk visits root and everything below it in lexical order, following
// symbolic links to files and directories. The root itself is reported with
// rel ".". A directory link that points back at one of its ancestors is
// skipped; a dangling link is an error.
func Walk(fs afero.Fs, root string, fn WalkFunc) error {
	info, err := fs.Stat(root)
	if err != nil {
		return err
	}
	return walk(fs, root, ".", info, nil, fn)
}

func walk(fs afero.Fs, path, rel string, info os.FileInfo, ancestors []os.FileInfo, fn WalkFunc) error {
	if err := fn(path, rel, info); err != nil {
		return err
	}
	if !info.IsDir() {
		return nil
	}

	entries, err := afero.ReadDir(fs, path)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", path, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	ancestors = append(ancestors, info)
	for _, entry := range entries {
		childPath := filepath.Join(path, entry.Name())
		childRel := entry.Name()
		if rel != "." {
			childRel = rel + "/" + entry.Name()
		}

		childInfo := entry
		if entry.Mode()&os.ModeSymlink != 0 {
			target, err := fs.Stat(childPath)
			if err != nil {
				return fmt.Errorf("failed to resolve symlink %s: %w", childPath, err)
			}
			if target.IsDir() && isAncestor(target, ancestors) {
				continue
			}
			childInfo = target
		}

		if err := walk(fs, childPath, childRel, childInfo, ancestors, fn); err != nil {
			return err
		}
	}
	return nil
}

func isAncestor(info os.FileInfo, ancestors []os.FileInfo) bool {
	for _, a := range ancestors {
		if os.SameFile(a, info) {
			return true
		}
	}
	return false
}
