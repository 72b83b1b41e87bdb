package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"nandoku-quiz-service/internal/annotation"
	"nandoku-quiz-service/internal/catalog"
	"nandoku-quiz-service/internal/domain"
)

// NewLevelsCmd prints the configured level table.
func NewLevelsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "List the configured levels",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()
			printLevels(cmd.OutOrStdout(), cfg.Levels)
			return nil
		},
	}
}

// NewBrowseCmd prints the filtered catalog of a level.
func NewBrowseCmd(configPath *string) *cobra.Command {
	var (
		levelID string
		tag     string
		mode    string
		query   string
	)
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Print the catalog of a level, filtered by tag and search",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			d, err := buildDeps(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer d.close()

			c, err := d.service.OpenLevel(cmd.Context(), levelID)
			if err != nil {
				return err
			}
			entries := c.View(tag, domain.SearchMode(mode), query)
			printEntries(cmd.OutOrStdout(), entries)
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d entries (%d rows skipped)\n", len(entries), c.Len(), c.Skipped())
			return nil
		},
	}
	cmd.Flags().StringVar(&levelID, "level", "1", "level identifier")
	cmd.Flags().StringVar(&tag, "tag", catalog.TagAll, "genre tag, \"all\" or \"(no genre)\"")
	cmd.Flags().StringVar(&mode, "mode", string(domain.SearchReading), "search mode: reading or component")
	cmd.Flags().StringVar(&query, "query", "", "search query")
	return cmd
}

func printLevels(w io.Writer, levels []domain.Level) {
	tbl := table.New("ID", "Name", "Dir", "Ready").WithWriter(w)
	for _, l := range levels {
		tbl.AddRow(l.ID, l.Name, l.Dir, l.Ready)
	}
	tbl.Print()
}

func printEntries(w io.Writer, entries []domain.Entry) {
	tbl := table.New("Key", "ID", "Reading", "Tags", "Components").WithWriter(w)
	for _, e := range entries {
		tbl.AddRow(e.Key, e.ID, displayReading(e.Reading), e.Tags, strings.Join(e.Components, " "))
	}
	tbl.Print()
}

// displayReading brackets emphasized spans for plain-text output.
func displayReading(reading string) string {
	var b strings.Builder
	for seg := range annotation.Render(reading) {
		if seg.Emphasized {
			b.WriteString("（" + seg.Text + "）")
			continue
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}
