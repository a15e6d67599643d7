package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/smy-101/skillmarket/internal/metadata"
	"github.com/smy-101/skillmarket/internal/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const today = "2026-01-02"

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
}

func newTestScanner(fs afero.Fs) *Scanner {
	return New(fs, nil, Options{
		BaseURL: "/",
		RepoURL: "https://github.com/acme/skills",
		Branch:  "main",
		Today:   today,
	})
}

func byID(skills []types.Skill) map[string]types.Skill {
	out := make(map[string]types.Skill, len(skills))
	for _, s := range skills {
		out[s.ID] = s
	}
	return out
}

func TestScanDiscoversSkills(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/repo/skills/auth-helper/SKILL.md", `---
name: Auth Helper
description: Helps with auth
tags: [security]
version: "2.1.0"
---

# Auth Helper

Body text.
`)
	writeFile(t, fs, "/repo/skills/auth-helper/scripts/login.py", "print('hi')\n")
	writeFile(t, fs, "/repo/skills/auth-helper/notes.txt", "notes")
	writeFile(t, fs, "/repo/skills/no-descriptor/README.md", "# nothing")
	writeFile(t, fs, "/repo/skills/.hidden/SKILL.md", "---\nname: hidden\n---\n")
	writeFile(t, fs, "/repo/skills/node_modules/SKILL.md", "---\nname: nm\n---\n")
	writeFile(t, fs, "/repo/skills/loose-file.md", "not a directory")

	var seen []string
	s := newTestScanner(fs)
	s.OnSkill(func(skill types.Skill) { seen = append(seen, skill.ID) })

	skills := s.Scan("/repo", nil, nil)
	require.Len(t, skills, 1)
	assert.Equal(t, []string{"auth-helper"}, seen)

	skill := skills[0]
	assert.Equal(t, "auth-helper", skill.ID)
	assert.Equal(t, "Auth Helper", skill.Name)
	assert.Equal(t, "skills/auth-helper", skill.Path)
	assert.Equal(t, "Helps with auth", skill.Description)
	assert.Equal(t, []string{"security"}, skill.Tags)
	assert.Equal(t, "2.1.0", skill.Version)
	assert.Equal(t, DefaultAuthor, skill.Author)
	assert.Equal(t, today, skill.UpdatedAt)
	assert.Equal(t, 0, skill.Stars)
	assert.Equal(t, "", skill.SourceURL)
	assert.True(t, skill.HasMultipleFiles)
	assert.Equal(t, "# Auth Helper\n\nBody text.\n", skill.Content)
	assert.Equal(t, "/downloads/auth-helper.zip", skill.DownloadURL)
	assert.Equal(t, "gskills add https://github.com/acme/skills/tree/main/skills/auth-helper", skill.InstallCommand)

	require.Len(t, skill.Files, 3)
	assert.Equal(t, types.FileRecord{Name: "SKILL.md", Path: "auth-helper/SKILL.md", Type: types.FileTypeMarkdown, RelativePath: "SKILL.md"}, skill.Files[0])
	assert.Equal(t, types.FileRecord{Name: "login.py", Path: "auth-helper/scripts/login.py", Type: types.FileTypeCode, RelativePath: "scripts/login.py"}, skill.Files[1])
	assert.Equal(t, types.FileRecord{Name: "notes.txt", Path: "auth-helper/notes.txt", Type: types.FileTypeText, RelativePath: "notes.txt"}, skill.Files[2])
}

func TestScanMissingCollection(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/repo", 0o755))

	skills := newTestScanner(fs).Scan("/repo", nil, nil)
	require.NotNil(t, skills)
	assert.Empty(t, skills)
}

func TestScanSkipsInvalidFrontMatter(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/repo/skills/broken/SKILL.md", "---\ntags: [unclosed\n---\nbody\n")
	writeFile(t, fs, "/repo/skills/good/SKILL.md", "plain body without front matter\n")

	skills := newTestScanner(fs).Scan("/repo", nil, nil)
	require.Len(t, skills, 1)
	assert.Equal(t, "good", skills[0].ID)
	assert.Equal(t, "good", skills[0].Name)
	assert.Equal(t, "plain body without front matter\n", skills[0].Content)
	assert.Equal(t, []string{}, skills[0].Tags)
	assert.False(t, skills[0].HasMultipleFiles)
}

func TestScanTagPrecedence(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/repo/skills/auth-helper/SKILL.md", "---\ntags: [\"security\"]\n---\n")
	writeFile(t, fs, "/repo/skills/json-formatter/SKILL.md", "---\ntags: []\n---\n")
	writeFile(t, fs, "/repo/skills/combined-only/SKILL.md", "---\ntags: [fm]\n---\n")
	writeFile(t, fs, "/repo/skills/override/SKILL.md", "---\ntags: [fm]\n---\n")
	writeFile(t, fs, "/repo/skills/empty-json/SKILL.md", "---\ntags: [fm]\n---\n")

	combined := metadata.Records{
		"combined-only": {Name: "combined-only", Tags: []string{"from-index"}},
		"override":      {Name: "override", Tags: []string{"from-index"}},
		"empty-json":    {Name: "empty-json", Tags: []string{"from-index"}},
	}
	perSkill := metadata.Records{
		"json-formatter": {Name: "json-formatter", Tags: []string{"text", "tools"}},
		"override":       {Name: "override", Tags: []string{"from-json"}},
		"empty-json":     {Name: "empty-json", Tags: []string{}},
	}

	skills := byID(newTestScanner(fs).Scan("/repo", combined, perSkill))
	assert.Equal(t, []string{"security"}, skills["auth-helper"].Tags)
	assert.Equal(t, []string{"text", "tools"}, skills["json-formatter"].Tags)
	assert.Equal(t, []string{"from-index"}, skills["combined-only"].Tags)
	assert.Equal(t, []string{"from-json"}, skills["override"].Tags)
	assert.Equal(t, []string{"from-index"}, skills["empty-json"].Tags)
}

func TestScanScalarPrecedence(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/repo/skills/fm-wins/SKILL.md", "---\ndescription: from fm\nversion: 3.0.0\nauthor: fm-author\nupdatedAt: 2024-05-05\n---\n")
	writeFile(t, fs, "/repo/skills/json-wins/SKILL.md", "---\ndescription: \"\"\n---\n")
	writeFile(t, fs, "/repo/skills/index-wins/SKILL.md", "body\n")

	desc := func(s string) *string { return &s }
	stars := func(n int) *int { return &n }

	combined := metadata.Records{
		"fm-wins":    {Description: desc("from index"), Version: desc("0.1.0")},
		"json-wins":  {Description: desc("from index"), Author: desc("index-author")},
		"index-wins": {Description: desc("from index"), Version: desc("0.2.0"), Stars: stars(99), SourceURL: desc("https://ignored")},
	}
	perSkill := metadata.Records{
		"fm-wins":   {Description: desc("from json"), Stars: stars(10), SourceURL: desc("https://src")},
		"json-wins": {Description: desc("from json"), Version: desc("1.5.0"), Stars: stars(-4)},
	}

	skills := byID(newTestScanner(fs).Scan("/repo", combined, perSkill))

	fm := skills["fm-wins"]
	assert.Equal(t, "from fm", fm.Description)
	assert.Equal(t, "3.0.0", fm.Version)
	assert.Equal(t, "fm-author", fm.Author)
	assert.Equal(t, "2024-05-05", fm.UpdatedAt)
	assert.Equal(t, 10, fm.Stars)
	assert.Equal(t, "https://src", fm.SourceURL)

	js := skills["json-wins"]
	assert.Equal(t, "from json", js.Description)
	assert.Equal(t, "1.5.0", js.Version)
	assert.Equal(t, "index-author", js.Author)
	assert.Equal(t, 0, js.Stars)

	idx := skills["index-wins"]
	assert.Equal(t, "from index", idx.Description)
	assert.Equal(t, "0.2.0", idx.Version)
	assert.Equal(t, 0, idx.Stars, "stars only come from per-skill metadata")
	assert.Equal(t, "", idx.SourceURL, "sourceUrl only comes from per-skill metadata")
}

func TestScanFileOrdering(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/repo/skills/ordered/zeta.md", "z")
	writeFile(t, fs, "/repo/skills/ordered/Alpha.txt", "A")
	writeFile(t, fs, "/repo/skills/ordered/alpha.txt", "a")
	writeFile(t, fs, "/repo/skills/ordered/SKILL.md", "body")
	writeFile(t, fs, "/repo/skills/ordered/docs/SKILL.md", "nested")
	writeFile(t, fs, "/repo/skills/ordered/docs/b.sh", "echo")

	skills := newTestScanner(fs).Scan("/repo", nil, nil)
	require.Len(t, skills, 1)

	var got []string
	for _, f := range skills[0].Files {
		got = append(got, f.RelativePath)
	}
	assert.Equal(t, []string{"SKILL.md", "Alpha.txt", "SKILL.md", "alpha.txt", "b.sh", "zeta.md"}, names(skills[0].Files))
	assert.Equal(t, []string{"SKILL.md", "Alpha.txt", "docs/SKILL.md", "alpha.txt", "docs/b.sh", "zeta.md"}, got)
}

func names(files []types.FileRecord) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Name)
	}
	return out
}

func TestInstallCommand(t *testing.T) {
	tests := []struct {
		name    string
		repoURL string
		branch  string
		want    string
	}{
		{name: "local", want: "gskills add ./skills/x"},
		{name: "remote default branch", repoURL: "https://github.com/acme/skills", want: "gskills add https://github.com/acme/skills/tree/main/skills/x"},
		{name: "remote with .git", repoURL: "https://github.com/acme/skills.git", branch: "dev", want: "gskills add https://github.com/acme/skills/tree/dev/skills/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InstallCommand(tt.repoURL, tt.branch, "x"))
		})
	}
}

func TestClassifyFile(t *testing.T) {
	tests := map[string]types.FileType{
		"README.md":     types.FileTypeMarkdown,
		"GUIDE.MDX":     types.FileTypeMarkdown,
		"main.go":       types.FileTypeCode,
		"config.yaml":   types.FileTypeCode,
		"data.JSON":     types.FileTypeCode,
		"LICENSE":       types.FileTypeText,
		"notes.txt":     types.FileTypeText,
		"archive.tgz":   types.FileTypeText,
		".gitignore":    types.FileTypeText,
		"run.sh":        types.FileTypeCode,
		"analysis.r":    types.FileTypeCode,
		"page.html":     types.FileTypeCode,
		"changelog.rst": types.FileTypeText,
	}

	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, want, ClassifyFile(name))
		})
	}
}

func TestScanFollowsSymlinkedDirectories(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "elsewhere", "linked")
	require.NoError(t, os.MkdirAll(filepath.Join(target, "scripts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "SKILL.md"), []byte("---\nname: Linked\n---\nbody\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(target, "scripts", "run.sh"), []byte("echo\n"), 0o644))

	shared := filepath.Join(base, "shared")
	require.NoError(t, os.MkdirAll(shared, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(shared, "helpers.py"), []byte("pass\n"), 0o644))
	require.NoError(t, os.Symlink(shared, filepath.Join(target, "lib")))

	repoRoot := filepath.Join(base, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repoRoot, "skills"), 0o755))
	require.NoError(t, os.Symlink(target, filepath.Join(repoRoot, "skills", "linked")))

	skills := newTestScanner(afero.NewOsFs()).Scan(repoRoot, nil, nil)
	require.Len(t, skills, 1)

	skill := skills[0]
	assert.Equal(t, "linked", skill.ID)
	assert.Equal(t, "Linked", skill.Name)
	assert.True(t, skill.HasMultipleFiles)

	var got []string
	for _, f := range skill.Files {
		got = append(got, f.Path)
	}
	assert.Equal(t, []string{"linked/SKILL.md", "linked/lib/helpers.py", "linked/scripts/run.sh"}, got)
}
