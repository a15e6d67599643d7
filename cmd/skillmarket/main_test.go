package main

import (
	"testing"

	"github.com/smy-101/skillmarket/internal/config"
	"github.com/spf13/viper"
)

func TestInitViper(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	t.Setenv("SKILLMARKET_BASE_URL", "/market")
	t.Setenv("GITHUB_TOKEN", "ghp_test")

	initViper()

	tests := []struct {
		key  string
		want string
	}{
		{key: config.KeyRepoPath, want: config.DefaultRepoPath},
		{key: config.KeyIndexPath, want: config.DefaultIndexPath},
		{key: config.KeyBaseURL, want: "/market"},
		{key: config.KeyGitHubToken, want: "ghp_test"},
		{key: config.KeyGitHubAPI, want: config.DefaultGitHubAPI},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := viper.GetString(tt.key); got != tt.want {
				t.Errorf("viper.GetString(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}
