package cmd

import (
	"fmt"
	"os"

	"github.com/iksnae/webex-summarizer/internal"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	outputDir  string
	version    string = "dev"
	commit     string = "unknown"
	date       string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "webex-summarizer",
	Short: "Download, search and summarize Webex conversations",
	Long: `A CLI tool to download Webex room conversations and summarize them with an LLM.

Long conversations are split into parts that fit the model's context window.
Each part is summarized on its own and the part summaries are then combined
into one final summary. Questions are answered the same way, skipping parts
that hold nothing relevant.

Features:
  • List rooms and browse messages
  • Save conversations locally and keep a catalog of downloads
  • Summaries with overview, key topics, decisions and action items
  • Keyword search with surrounding context
  • Question answering over a conversation
  • Export in multiple formats (JSON, JSONL, YAML, Markdown)

Quick Start:
  webex-summarizer config init                     # Write a config file
  webex-summarizer list-rooms                      # List your rooms
  webex-summarizer summarize --room <room-id>      # Summarize a room
  webex-summarizer search --file <file> -Q "..."   # Ask a question`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", internal.DefaultConfigFile, "Path to config file")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for downloaded conversations (overrides storage.directory)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
