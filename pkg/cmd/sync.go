package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/smy-101/skillmarket/internal/config"
	"github.com/smy-101/skillmarket/internal/logging"
	"github.com/smy-101/skillmarket/internal/repo"
	"github.com/smy-101/skillmarket/internal/syncer"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(syncCmd)

	flags := syncCmd.Flags()
	flags.String("repo-path", config.DefaultRepoPath, "local skills repository checkout")
	flags.String("repo", "", "remote skills repository URL, cloned when the local checkout is missing")
	flags.String("branch", "", "branch to clone (default: the remote default branch)")
	flags.String("index", config.DefaultIndexPath, "catalog index output file")
	flags.String("content-dir", config.DefaultContentDir, "per-skill content output directory")
	flags.String("downloads-dir", config.DefaultDownloadsDir, "ZIP archive output directory")
	flags.String("temp-dir", config.DefaultTempDir, "directory for the temporary clone")
	flags.String("base-url", config.DefaultBaseURL, "site base URL used in download links")
	flags.Bool("fail-on-empty", false, "exit with status 1 when no skills are found")
	flags.Bool("summary", true, "print a summary table after a successful sync")

	bindFlags(syncCmd, map[string]string{
		config.KeyRepoPath:     "repo-path",
		config.KeyRepoURL:      "repo",
		config.KeyRepoBranch:   "branch",
		config.KeyIndexPath:    "index",
		config.KeyContentDir:   "content-dir",
		config.KeyDownloadsDir: "downloads-dir",
		config.KeyTempDir:      "temp-dir",
		config.KeyBaseURL:      "base-url",
		config.KeyFailOnEmpty:  "fail-on-empty",
	})
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Generate the catalog, content files and archives from the skills repository",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		summary, _ := cmd.Flags().GetBool("summary")
		return executeSync(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), summary)
	},
}

func bindFlags(cmd *cobra.Command, keys map[string]string) {
	for key, flag := range keys {
		_ = viper.BindPFlag(key, cmd.Flags().Lookup(flag))
	}
}

// executeSync resolves the configuration and runs one sync. A run that finds
// no skills succeeds unless fail_on_empty is set.
func executeSync(ctx context.Context, out, errOut io.Writer, summary bool) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(errOut, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	fs := afero.NewOsFs()
	locator := repo.NewLocator(fs, repo.GitCloner{}, repo.NewClient(cfg.GitHubAPI, cfg.GitHubToken), logger, repo.Options{
		LocalPath: cfg.RepoPath,
		RemoteURL: cfg.RepoURL,
		Branch:    cfg.RepoBranch,
		Token:     cfg.GitHubToken,
		TempDir:   cfg.TempDir,
	})

	s := syncer.New(cfg, fs, locator, logger)
	progress := syncer.NewProgress(out)
	s.SetProgress(progress)

	report, err := s.Run(ctx)
	if syncer.IsSoftStop(err) {
		if cfg.FailOnEmpty {
			return fmt.Errorf("%w in %s", err, report.Location.Path)
		}
		return nil
	}
	if err != nil {
		logger.Error("sync failed", err)
		return err
	}

	if summary {
		return progress.Summary(report)
	}
	return nil
}
