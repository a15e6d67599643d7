package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"

	"github.com/smy-101/skillmarket/internal/config"
	"github.com/smy-101/skillmarket/internal/index"
	"github.com/smy-101/skillmarket/internal/output"
	"github.com/smy-101/skillmarket/internal/types"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	colName    = "Name"
	colVersion = "Version"
	colAuthor  = "Author"
	colTags    = "Tags"
	colFiles   = "Files"
	emptyMsg   = "No skills in the catalog yet."
	usageHint  = "Use 'skillmarket sync' to generate it."
)

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().String("index", config.DefaultIndexPath, "catalog index file")
	listCmd.Flags().String("tag", "", "only list skills carrying this tag")
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the skills of the generated catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := indexPathFlag(cmd)
		if err != nil {
			return err
		}
		tag, _ := cmd.Flags().GetString("tag")
		return executeList(cmd.OutOrStdout(), afero.NewOsFs(), path, tag)
	},
}

// indexPathFlag resolves the catalog location from the --index flag or the
// configuration.
func indexPathFlag(cmd *cobra.Command) (string, error) {
	if cmd.Flags().Changed("index") {
		p, _ := cmd.Flags().GetString("index")
		viper.Set(config.KeyIndexPath, p)
	}
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return "", fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg.IndexPath, nil
}

// loadCatalog reads the catalog; a missing file is an empty catalog.
func loadCatalog(fsys afero.Fs, path string) (types.CatalogIndex, error) {
	catalog, err := index.Load(fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		return types.CatalogIndex{}, nil
	}
	if err != nil {
		return types.CatalogIndex{}, err
	}
	return catalog, nil
}

// executeList prints a table of the skills in the catalog at path.
func executeList(out io.Writer, fsys afero.Fs, path, tag string) error {
	catalog, err := loadCatalog(fsys, path)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	skills := filterByTag(catalog.Skills, tag)
	if len(skills) == 0 {
		fmt.Fprintln(out, emptyMsg)
		fmt.Fprintln(out, usageHint)
		return nil
	}

	table := output.NewTable(out)
	table.Header(colName, colVersion, colAuthor, colTags, colFiles)

	for _, skill := range skills {
		table.Append(skill.Name, skill.Version, skill.Author, strings.Join(skill.Tags, ", "), strconv.Itoa(len(skill.Files)))
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	fmt.Fprintf(out, "\nTotal: %d skills\n", len(skills))
	if catalog.Meta.GeneratedAt != "" {
		fmt.Fprintf(out, "Generated at %s from %s\n", catalog.Meta.GeneratedAt, catalog.Meta.SourceRepo)
	}
	return nil
}

func filterByTag(skills []types.Skill, tag string) []types.Skill {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return skills
	}
	var out []types.Skill
	for _, s := range skills {
		for _, t := range s.Tags {
			if strings.EqualFold(strings.TrimSpace(t), tag) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}
