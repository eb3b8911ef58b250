package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iksnae/webex-summarizer/internal"
	"github.com/iksnae/webex-summarizer/internal/export"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOut    string
	exportFiles  []string
	exportAll    bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export saved conversations to file",
	Long: `Export saved conversations to various formats (json, jsonl, yaml, md).

Export one or more files with --file, or every saved conversation with --all.
Use 'webex-summarizer list-files' to see what is saved.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		exporter, err := export.NewExporter(exportFormat)
		if err != nil {
			return err
		}
		if len(exportFiles) == 0 && !exportAll {
			return fmt.Errorf("either --file or --all must be specified")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		storage, err := internal.NewConversationStorage(cfg.Storage.Directory)
		if err != nil {
			return err
		}

		files := exportFiles
		if exportAll {
			stored, err := storage.ListConversationFiles()
			if err != nil {
				return err
			}
			for _, f := range stored {
				files = append(files, f.Path)
			}
		}

		if err := os.MkdirAll(exportOut, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		exported := 0
		for _, file := range files {
			conv, err := storage.LoadConversation(file)
			if err != nil {
				internal.LogError("Failed to load %s: %v", file, err)
				continue
			}
			path, err := exportConversation(exporter, conv, file)
			if err != nil {
				internal.LogError("%v", err)
				continue
			}
			internal.LogDebug("Exported %s to %s", file, path)
			exported++
		}

		fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(
			fmt.Sprintf("✅ Export complete: %d conversation(s) exported to %s", exported, exportOut)))
		if exported < len(files) {
			return fmt.Errorf("%d of %d conversation(s) failed to export", len(files)-exported, len(files))
		}
		return nil
	},
}

func exportConversation(exporter export.Exporter, conv *internal.Conversation, source string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	path := filepath.Join(exportOut, base+"."+exporter.Extension())

	file, err := os.Create(path)
	if err != nil {
		return "", &internal.ExportError{Format: exportFormat, Path: path, Err: err}
	}

	if err := exporter.Export(conv, file); err != nil {
		_ = file.Close()
		return "", &internal.ExportError{Format: exportFormat, Path: path, Err: err}
	}
	if err := file.Close(); err != nil {
		return "", &internal.ExportError{Format: exportFormat, Path: path, Err: err}
	}
	return path, nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Export format (json, jsonl, yaml, md)")
	exportCmd.Flags().StringVar(&exportOut, "out", "./exports", "Output directory")
	exportCmd.Flags().StringSliceVar(&exportFiles, "file", nil, "Saved conversation file to export (repeatable)")
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "Export every saved conversation")
}
