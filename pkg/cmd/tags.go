package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/smy-101/skillmarket/internal/config"
	"github.com/smy-101/skillmarket/internal/output"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(tagsCmd)
	tagsCmd.Flags().String("index", config.DefaultIndexPath, "catalog index file")
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Show tag usage counts of the generated catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := indexPathFlag(cmd)
		if err != nil {
			return err
		}
		return executeTags(cmd.OutOrStdout(), afero.NewOsFs(), path)
	},
}

func executeTags(out io.Writer, fsys afero.Fs, path string) error {
	catalog, err := loadCatalog(fsys, path)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	if len(catalog.Tags) == 0 {
		fmt.Fprintln(out, "No tags in the catalog.")
		return nil
	}

	table := output.NewTable(out)
	table.Header("Tag", "Skills")
	for _, t := range catalog.Tags {
		table.Append(t.Name, strconv.Itoa(t.Count))
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}
