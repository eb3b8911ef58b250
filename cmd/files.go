package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/iksnae/webex-summarizer/internal"
	"github.com/spf13/cobra"
)

var filesRebuild bool

var listFilesCmd = &cobra.Command{
	Use:   "list-files",
	Short: "List saved conversations",
	Long: `List the conversations saved in the storage directory.

The list comes from the SQLite catalog. When the catalog is empty, or with
--rebuild, it is rebuilt from the files on disk first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		storage, err := internal.NewConversationStorage(cfg.Storage.Directory)
		if err != nil {
			return err
		}
		catalog, err := internal.OpenCatalog(cfg.CatalogPath())
		if err != nil {
			return err
		}
		defer catalog.Close()

		entries, err := catalog.Conversations()
		if err != nil {
			return err
		}
		if len(entries) == 0 || filesRebuild {
			n, err := catalog.Rebuild(storage)
			if err != nil {
				return fmt.Errorf("failed to rebuild catalog: %w", err)
			}
			internal.LogInfo("Cataloged %d conversation(s)", n)
			if entries, err = catalog.Conversations(); err != nil {
				return err
			}
		}

		displayFiles(cmd.OutOrStdout(), entries)
		return nil
	},
}

func displayFiles(out io.Writer, entries []internal.CatalogEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, headerStyle.Render("📁 No saved conversations"))
		return
	}

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("📁 Found %d saved conversation(s)", len(entries))))
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, titleStyle.Render("Title")+"\t"+titleStyle.Render("Messages")+"\t"+titleStyle.Render("Downloaded")+"\t"+titleStyle.Render("Summary")+"\t"+titleStyle.Render("File")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 110))

	for _, e := range entries {
		summary := dateStyle.Render("—")
		if e.HasSummary {
			summary = successStyle.Render("✓")
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
			truncateText(e.Title, 40),
			countStyle.Render(strconv.Itoa(e.MessageCount)),
			dateStyle.Render(formatWhen(e.DownloadedAt)),
			summary,
			idStyle.Render(filepath.Base(e.Path)))
	}
	_ = w.Flush()
}

func init() {
	rootCmd.AddCommand(listFilesCmd)
	listFilesCmd.Flags().BoolVar(&filesRebuild, "rebuild", false, "Rebuild the catalog from the files on disk")
}
