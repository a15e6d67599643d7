// Package config resolves the sync configuration once at startup. The
// resulting Config is a plain value passed to every pipeline component.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Viper keys.
const (
	KeyProjectRoot  = "project_root"
	KeyRepoPath     = "repo_path"
	KeyRepoURL      = "repo_url"
	KeyRepoBranch   = "repo_branch"
	KeyGitHubToken  = "github_token"
	KeyGitHubAPI    = "github_api"
	KeyIndexPath    = "index_path"
	KeyContentDir   = "content_dir"
	KeyDownloadsDir = "downloads_dir"
	KeyTempDir      = "temp_dir"
	KeyBaseURL      = "base_url"
	KeyLogLevel     = "log_level"
	KeyLogFormat    = "log_format"
	KeyFailOnEmpty  = "fail_on_empty"
)

const (
	DefaultRepoPath     = "../skills"
	DefaultGitHubAPI    = "https://api.github.com"
	DefaultIndexPath    = "src/data/skills.json"
	DefaultContentDir   = "src/data/content"
	DefaultDownloadsDir = "public/downloads"
	DefaultTempDir      = ".tmp-skills-repo"
	DefaultBaseURL      = "/"

	// Layout of the skills repository.
	CollectionDir   = "skills"
	DescriptorFile  = "SKILL.md"
	CombinedIndex   = "index.json"
	PerSkillMetaDir = "metadata"
)

// ExcludedDirs are collection subdirectories that never hold a skill.
var ExcludedDirs = []string{"node_modules", "template", "_template"}

// Config is the immutable sync configuration.
type Config struct {
	ProjectRoot string
	RepoPath    string
	RepoURL     string
	// RepoBranch is empty when the remote default branch should be used.
	RepoBranch   string
	GitHubToken  string
	GitHubAPI    string
	IndexPath    string
	ContentDir   string
	DownloadsDir string
	TempDir      string
	BaseURL      string
	LogLevel     string
	LogFormat    string
	FailOnEmpty  bool
}

// SetDefaults registers default values and environment bindings on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyProjectRoot, ".")
	v.SetDefault(KeyRepoPath, DefaultRepoPath)
	v.SetDefault(KeyRepoURL, "")
	v.SetDefault(KeyRepoBranch, "")
	v.SetDefault(KeyGitHubToken, "")
	v.SetDefault(KeyGitHubAPI, DefaultGitHubAPI)
	v.SetDefault(KeyIndexPath, DefaultIndexPath)
	v.SetDefault(KeyContentDir, DefaultContentDir)
	v.SetDefault(KeyDownloadsDir, DefaultDownloadsDir)
	v.SetDefault(KeyTempDir, DefaultTempDir)
	v.SetDefault(KeyBaseURL, DefaultBaseURL)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyFailOnEmpty, false)

	v.SetEnvPrefix("SKILLMARKET")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// The token is conventionally exported without the prefix.
	_ = v.BindEnv(KeyGitHubToken, "SKILLMARKET_GITHUB_TOKEN", "GITHUB_TOKEN")
}

// Load builds a Config from v. Relative paths are resolved against the
// project root; the project root itself is made absolute.
func Load(v *viper.Viper) (Config, error) {
	root, err := filepath.Abs(v.GetString(KeyProjectRoot))
	if err != nil {
		return Config{}, fmt.Errorf("failed to resolve project root: %w", err)
	}

	cfg := Config{
		ProjectRoot:  root,
		RepoPath:     resolve(root, v.GetString(KeyRepoPath)),
		RepoURL:      strings.TrimSpace(v.GetString(KeyRepoURL)),
		RepoBranch:   v.GetString(KeyRepoBranch),
		GitHubToken:  strings.TrimSpace(v.GetString(KeyGitHubToken)),
		GitHubAPI:    strings.TrimRight(v.GetString(KeyGitHubAPI), "/"),
		IndexPath:    resolve(root, v.GetString(KeyIndexPath)),
		ContentDir:   resolve(root, v.GetString(KeyContentDir)),
		DownloadsDir: resolve(root, v.GetString(KeyDownloadsDir)),
		TempDir:      resolve(root, v.GetString(KeyTempDir)),
		BaseURL:      normalizeBaseURL(v.GetString(KeyBaseURL)),
		LogLevel:     v.GetString(KeyLogLevel),
		LogFormat:    v.GetString(KeyLogFormat),
		FailOnEmpty:  v.GetBool(KeyFailOnEmpty),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the output locations do not collide.
func (c Config) Validate() error {
	if c.IndexPath == "" {
		return fmt.Errorf("index path cannot be empty")
	}
	if c.DownloadsDir == "" {
		return fmt.Errorf("downloads directory cannot be empty")
	}
	if c.ContentDir == "" {
		return fmt.Errorf("content directory cannot be empty")
	}
	if c.TempDir == "" {
		return fmt.Errorf("temp directory cannot be empty")
	}
	if c.TempDir == c.RepoPath {
		return fmt.Errorf("temp directory must differ from the local repository path")
	}
	if c.DownloadsDir == c.ContentDir {
		return fmt.Errorf("downloads and content directories must differ")
	}
	if err := checkRemovable("downloads directory", c.DownloadsDir, c.ProjectRoot, c.RepoPath); err != nil {
		return err
	}
	if err := checkRemovable("temp directory", c.TempDir, c.ProjectRoot, c.RepoPath); err != nil {
		return err
	}
	return nil
}

// checkRemovable rejects a directory that is wiped before each run when it
// would take the project root or the local repository with it.
func checkRemovable(label, dir, projectRoot, repoPath string) error {
	if projectRoot != "" && within(dir, projectRoot) {
		return fmt.Errorf("%s %s must not contain the project root", label, dir)
	}
	if repoPath != "" && (within(dir, repoPath) || within(repoPath, dir)) {
		return fmt.Errorf("%s %s must not overlap the local repository path %s", label, dir, repoPath)
	}
	return nil
}

// within reports whether path is parent or lies below it.
func within(parent, path string) bool {
	rel, err := filepath.Rel(parent, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// SourceRepo identifies the source in the catalog: the remote URL when one is
// configured, "local" otherwise.
func (c Config) SourceRepo() string {
	if c.RepoURL != "" {
		return c.RepoURL
	}
	return "local"
}

func resolve(root, p string) string {
	if p == "" {
		return ""
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}

func normalizeBaseURL(base string) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return "/"
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base
}
