package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smy-101/skillmarket/internal/config"
	"github.com/spf13/viper"
)

func TestExecuteConfig(t *testing.T) {
	projectRoot := setupViper(t)
	viper.Set(config.KeyGitHubToken, "ghp_abcdef123456")
	viper.Set(config.KeyRepoURL, "https://github.com/acme/skills")

	var out bytes.Buffer
	if err := executeConfig(&out); err != nil {
		t.Fatalf("executeConfig() error = %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"config file: (none)",
		"https://github.com/acme/skills",
		filepath.Join(projectRoot, config.DefaultDownloadsDir),
		"****3456",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "ghp_abcdef123456") {
		t.Error("token must be masked")
	}
}

func TestExecuteConfigInvalid(t *testing.T) {
	setupViper(t)
	viper.Set(config.KeyContentDir, config.DefaultDownloadsDir)

	var out bytes.Buffer
	if err := executeConfig(&out); err == nil {
		t.Error("executeConfig() expected error when outputs collide")
	}
}

func TestMaskToken(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{token: "", want: ""},
		{token: "abc", want: "****"},
		{token: "abcd", want: "****"},
		{token: "abcdefgh", want: "****efgh"},
	}

	for _, tt := range tests {
		if got := maskToken(tt.token); got != tt.want {
			t.Errorf("maskToken(%q) = %q, want %q", tt.token, got, tt.want)
		}
	}
}
