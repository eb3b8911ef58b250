package cmd

import (
	"context"
	"fmt"

	"github.com/iksnae/webex-summarizer/internal"
	"github.com/spf13/cobra"
)

var downloadRoom string

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download a room's conversation and save it locally",
	RunE: func(cmd *cobra.Command, args []string) error {
		if downloadRoom == "" {
			return fmt.Errorf("--room is required")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		storage, err := internal.NewConversationStorage(cfg.Storage.Directory)
		if err != nil {
			return err
		}

		conv, path, err := downloadConversation(context.Background(), cfg, storage, downloadRoom)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(
			fmt.Sprintf("✅ Downloaded %d message(s) from %q", len(conv.Messages), conv.Title())))
		fmt.Fprintf(cmd.OutOrStdout(), "   Saved to: %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(downloadCmd)
	downloadCmd.Flags().StringVar(&downloadRoom, "room", "", "Webex room ID to download")
}
