package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/webex-summarizer/internal"
	"github.com/iksnae/webex-summarizer/internal/summarizer"
	"github.com/spf13/cobra"
)

var (
	searchRoom     string
	searchFile     string
	searchQuery    string
	searchQuestion string
	searchContext  int
	searchFrom     string
	searchTo       string
)

var answerStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("39")).
	Padding(0, 1)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search a conversation or ask a question about it",
	Long: `Search a Webex room (--room) or a saved conversation (--file).

--query prints every message containing the text, with --context messages
before and after each match. --question asks the LLM to answer from the
conversation; parts of a long conversation that hold nothing relevant are
skipped. When the question names a day ("what happened on May 26th?") and no
--from/--to is given, only that day's messages are used if there are any.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if searchQuery == "" && searchQuestion == "" {
			return fmt.Errorf("either --query or --question must be specified")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		storage, err := internal.NewConversationStorage(cfg.Storage.Directory)
		if err != nil {
			return err
		}
		from, to, err := internal.ParseDateRange(searchFrom, searchTo)
		if err != nil {
			return err
		}

		ctx := context.Background()
		conv, path, err := resolveConversation(ctx, cfg, storage, searchRoom, searchFile)
		if err != nil {
			return err
		}
		messages := internal.SortChronological(conv.Messages)
		out := cmd.OutOrStdout()

		if searchQuery != "" {
			displayMatches(out, messages, searchQuery, from, to, searchContext)
		}
		if searchQuestion != "" {
			return answerQuestion(ctx, cmd, cfg, conv, path, messages, from, to)
		}
		return nil
	},
}

func displayMatches(out io.Writer, messages []internal.Message, query string, from, to time.Time, n int) {
	matches := internal.SearchMessages(messages, query, from, to)
	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("🔍 %d message(s) matching %q", len(matches), query)))
	if len(matches) == 0 {
		return
	}

	for i, match := range matches {
		fmt.Fprintln(out)
		fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Match %d of %d", i+1, len(matches))))
		for _, msg := range internal.MessageContext(messages, match, n) {
			when := msg.Created.Local().Format("2006-01-02 15:04:05")
			text := msg.Text
			prefix := "  "
			if msg.ID == match.ID {
				prefix = "▶ "
				text = internal.HighlightTerms(text, query, func(s string) string { return matchStyle.Render(s) })
			}
			fmt.Fprintf(out, "%s%s %s: %s\n", prefix, dateStyle.Render(when), senderStyle.Render(internal.FormatSender(msg.PersonEmail)), text)
		}
	}
}

func answerQuestion(ctx context.Context, cmd *cobra.Command, cfg *internal.Config, conv *internal.Conversation, path string, messages []internal.Message, from, to time.Time) error {
	out := cmd.OutOrStdout()

	scope := internal.FilterByDate(messages, from, to)
	if from.IsZero() && to.IsZero() {
		if day, ok := internal.ExtractDateFromQuestion(searchQuestion, time.Now()); ok {
			if sameDay := internal.FilterByDate(messages, day, day); len(sameDay) > 0 {
				internal.LogInfo("Question mentions %s; using %d message(s) from that day", day.Format(internal.DateLayout), len(sameDay))
				scope = sameDay
			}
		}
	}

	var answer string
	var model string
	chunks := 0
	if len(scope) == 0 {
		answer = summarizer.InsufficientInformation(searchQuestion, conv.Title())
	} else {
		s, client, err := newSummarizer(ctx, cfg, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		model = client.Model()
		chunks = len(s.Plan(scope).Chunks)

		answer, err = s.Answer(ctx, summarizer.Request{
			Messages:  scope,
			RoomLabel: conv.Title(),
			Question:  searchQuestion,
		})
		if err != nil {
			return fmt.Errorf("failed to answer question: %w", err)
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, sectionStyle.Render("❓ "+searchQuestion))
	fmt.Fprintln(out, answerStyle.Render(strings.TrimSpace(answer)))

	recordSummary(cfg, conv, path, internal.SummaryRecord{
		RoomID:     conv.Room.ID,
		Kind:       internal.SummaryKindAnswer,
		Question:   searchQuestion,
		Model:      model,
		ChunkCount: chunks,
	})
	return nil
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVar(&searchRoom, "room", "", "Webex room ID to download and search")
	searchCmd.Flags().StringVar(&searchFile, "file", "", "Saved conversation file to search")
	searchCmd.Flags().StringVarP(&searchQuery, "query", "q", "", "Text to find in messages")
	searchCmd.Flags().StringVarP(&searchQuestion, "question", "Q", "", "Question to answer from the conversation")
	searchCmd.Flags().IntVarP(&searchContext, "context", "n", 2, "Messages to show before and after each match")
	searchCmd.Flags().StringVar(&searchFrom, "from", "", "Start date (yyyy-MM-dd)")
	searchCmd.Flags().StringVar(&searchTo, "to", "", "End date (yyyy-MM-dd), inclusive")
}
