package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/smy-101/skillmarket/internal/config"
	"github.com/spf13/viper"
)

// setupViper resets the global viper instance to defaults rooted at a fresh
// project directory and returns that directory.
func setupViper(t *testing.T) string {
	t.Helper()

	projectRoot := t.TempDir()
	viper.Reset()
	config.SetDefaults(viper.GetViper())
	viper.Set(config.KeyProjectRoot, projectRoot)
	viper.Set(config.KeyRepoPath, filepath.Join(projectRoot, "skills-repo"))

	t.Cleanup(viper.Reset)
	return projectRoot
}

// writeSkill creates skills/<id>/SKILL.md below repoRoot.
func writeSkill(t *testing.T, repoRoot, id, descriptor string) {
	t.Helper()

	dir := filepath.Join(repoRoot, "skills", id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create skill dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(descriptor), 0644); err != nil {
		t.Fatalf("failed to write descriptor: %v", err)
	}
}
