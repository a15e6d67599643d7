package fsutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, fs afero.Fs, root string) (files, dirs []string) {
	t.Helper()
	err := Walk(fs, root, func(path, rel string, info os.FileInfo) error {
		if info.IsDir() {
			dirs = append(dirs, rel)
		} else {
			files = append(files, rel)
		}
		return nil
	})
	require.NoError(t, err)
	return files, dirs
}

func TestWalkMemMapFs(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/root/b.txt", []byte("b"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/root/a/nested.txt", []byte("n"), 0o644))
	require.NoError(t, fs.MkdirAll("/root/empty", 0o755))

	files, dirs := collect(t, fs, "/root")
	assert.Equal(t, []string{"a/nested.txt", "b.txt"}, files)
	assert.Equal(t, []string{".", "a", "empty"}, dirs)
}

func TestWalkFollowsSymlinks(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "elsewhere")
	require.NoError(t, os.MkdirAll(filepath.Join(target, "lib"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "SKILL.md"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(target, "lib", "util.sh"), []byte("y"), 0o644))

	shared := filepath.Join(base, "shared")
	require.NoError(t, os.MkdirAll(shared, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(shared, "common.py"), []byte("z"), 0o644))
	require.NoError(t, os.Symlink(shared, filepath.Join(target, "shared")))
	require.NoError(t, os.Symlink(filepath.Join(target, "SKILL.md"), filepath.Join(target, "alias.md")))

	root := filepath.Join(base, "linked")
	require.NoError(t, os.Symlink(target, root))

	files, dirs := collect(t, afero.NewOsFs(), root)
	assert.Equal(t, []string{"SKILL.md", "alias.md", "lib/util.sh", "shared/common.py"}, files)
	assert.Equal(t, []string{".", "lib", "shared"}, dirs)
}

func TestWalkSkipsLinkCycles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "file.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Symlink(root, filepath.Join(root, "sub", "loop")))

	files, dirs := collect(t, afero.NewOsFs(), root)
	assert.Equal(t, []string{"sub/file.txt"}, files)
	assert.Equal(t, []string{".", "sub"}, dirs)
}

func TestWalkDanglingSymlink(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "broken")))

	err := Walk(afero.NewOsFs(), root, func(string, string, os.FileInfo) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to resolve symlink")
}

func TestWalkStopsOnCallbackError(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/root/a.txt", []byte("a"), 0o644))
	stop := errors.New("stop")

	err := Walk(fs, "/root", func(path, rel string, info os.FileInfo) error {
		if rel == "a.txt" {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
}

func TestWalkMissingRoot(t *testing.T) {
	err := Walk(afero.NewMemMapFs(), "/nope", func(string, string, os.FileInfo) error { return nil })
	assert.ErrorIs(t, err, os.ErrNotExist)
}
