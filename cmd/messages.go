package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/iksnae/webex-summarizer/internal"
	"github.com/spf13/cobra"
)

var (
	messagesRoom       string
	messagesFile       string
	messagesLimit      int
	messagesPage       int
	messagesSave       bool
	messagesReferences bool
)

var listMessagesCmd = &cobra.Command{
	Use:   "list-messages",
	Short: "List messages from a room or a saved conversation",
	Long: `List the messages of a Webex room (--room) or a saved conversation file (--file),
oldest first, one page at a time.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if messagesRoom == "" && messagesFile == "" {
			return errNoSource
		}
		if messagesLimit <= 0 || messagesPage <= 0 {
			return fmt.Errorf("--limit and --page must be positive")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		storage, err := internal.NewConversationStorage(cfg.Storage.Directory)
		if err != nil {
			return err
		}

		var conv *internal.Conversation
		if messagesFile != "" {
			if conv, err = storage.LoadConversation(messagesFile); err != nil {
				return err
			}
		} else {
			client, err := newWebexClient(cfg)
			if err != nil {
				return err
			}
			ctx := context.Background()
			if conv, err = client.DownloadConversation(ctx, messagesRoom); err != nil {
				return err
			}
			if messagesSave {
				path, err := storage.SaveConversation(conv)
				if err != nil {
					return err
				}
				recordConversation(cfg, conv, path)
				internal.PrintSuccess("Conversation saved to " + path)
			}
		}

		displayMessages(cmd.OutOrStdout(), conv, messagesPage, messagesLimit, messagesReferences)
		return nil
	},
}

func displayMessages(out io.Writer, conv *internal.Conversation, page, limit int, references bool) {
	messages := internal.SortChronological(conv.Messages)
	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("💬 %s (%d messages)", conv.Title(), len(messages))))

	if len(messages) == 0 {
		fmt.Fprintln(out, "\nNo messages found in this conversation.")
		return
	}

	pages := (len(messages) + limit - 1) / limit
	if page > pages {
		fmt.Fprintf(out, "\nPage %d is past the last page (%d).\n", page, pages)
		return
	}

	start := (page - 1) * limit
	end := start + limit
	if end > len(messages) {
		end = len(messages)
	}

	fmt.Fprintln(out)
	for i, msg := range messages[start:end] {
		when := msg.Created.Local().Format("2006-01-02 15:04:05")
		fmt.Fprintf(out, "%s %s\n", dateStyle.Render(when), senderStyle.Render(internal.FormatSender(msg.PersonEmail)))
		fmt.Fprintf(out, "%s\n", msg.Text)
		if references {
			fmt.Fprintln(out, idStyle.Render(fmt.Sprintf("#%d  %s", start+i+1, msg.ID)))
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, dateStyle.Render(fmt.Sprintf("Page %d of %d (messages %d-%d of %d)", page, pages, start+1, end, len(messages))))
	if page < pages {
		fmt.Fprintln(out, idStyle.Render(fmt.Sprintf("💡 Next page: --page %d", page+1)))
	}
}

func init() {
	rootCmd.AddCommand(listMessagesCmd)
	listMessagesCmd.Flags().StringVar(&messagesRoom, "room", "", "Webex room ID to list messages from")
	listMessagesCmd.Flags().StringVar(&messagesFile, "file", "", "Saved conversation file to display")
	listMessagesCmd.Flags().IntVar(&messagesLimit, "limit", 50, "Messages per page")
	listMessagesCmd.Flags().IntVar(&messagesPage, "page", 1, "Page to display (starting from 1)")
	listMessagesCmd.Flags().BoolVar(&messagesSave, "save", false, "Save the downloaded conversation")
	listMessagesCmd.Flags().BoolVar(&messagesReferences, "references", true, "Show message numbers and IDs")
}
