package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/smy-101/skillmarket/internal/config"
	"github.com/smy-101/skillmarket/internal/output"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeConfig(cmd.OutOrStdout())
	},
}

func executeConfig(out io.Writer) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = "(none)"
	}
	fmt.Fprintln(out, "config file:", configFile)

	table := output.NewTable(out)
	table.Header("Key", "Value")

	rows := [][2]string{
		{config.KeyProjectRoot, cfg.ProjectRoot},
		{config.KeyRepoPath, cfg.RepoPath},
		{config.KeyRepoURL, cfg.RepoURL},
		{config.KeyRepoBranch, cfg.RepoBranch},
		{config.KeyGitHubToken, maskToken(cfg.GitHubToken)},
		{config.KeyGitHubAPI, cfg.GitHubAPI},
		{config.KeyIndexPath, cfg.IndexPath},
		{config.KeyContentDir, cfg.ContentDir},
		{config.KeyDownloadsDir, cfg.DownloadsDir},
		{config.KeyTempDir, cfg.TempDir},
		{config.KeyBaseURL, cfg.BaseURL},
		{config.KeyLogLevel, cfg.LogLevel},
		{config.KeyLogFormat, cfg.LogFormat},
		{config.KeyFailOnEmpty, strconv.FormatBool(cfg.FailOnEmpty)},
	}
	for _, row := range rows {
		table.Append(row[0], row[1])
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}

// maskToken keeps the last four characters of a token.
func maskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 4 {
		return "****"
	}
	return "****" + token[len(token)-4:]
}
