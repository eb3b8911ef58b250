package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/iksnae/webex-summarizer/internal"
	"github.com/iksnae/webex-summarizer/internal/summarizer"
	"github.com/spf13/cobra"
)

var (
	summarizeRoom          string
	summarizeFile          string
	summarizeFrom          string
	summarizeTo            string
	summarizeListSummaries bool
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize a Webex conversation",
	Long: `Summarize a Webex room (--room, downloaded first) or a saved conversation (--file).

Conversations larger than the summarizer budget are split into parts; each part
is summarized and the results are combined into one summary with an overview,
key topics, decisions and action items. The summary is stored with the
conversation file and recorded in the catalog.

Use --from and --to (yyyy-MM-dd) to summarize a date range only.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if summarizeListSummaries {
			return listSummaries(cmd.OutOrStdout(), cfg)
		}

		storage, err := internal.NewConversationStorage(cfg.Storage.Directory)
		if err != nil {
			return err
		}

		ctx := context.Background()
		conv, _, err := resolveConversation(ctx, cfg, storage, summarizeRoom, summarizeFile)
		if err != nil {
			return err
		}
		all := conv.Messages
		if err := applyDateRange(conv, summarizeFrom, summarizeTo); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		var summary string
		var model string
		chunks := 0
		if len(conv.Messages) == 0 {
			fmt.Fprintln(out, warningStyle.Render("⚠️  No messages found to summarize."))
			summary = emptyConversationSummary(conv)
		} else {
			s, client, err := newSummarizer(ctx, cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			model = client.Model()

			messages := internal.SortChronological(conv.Messages)
			plan := s.Plan(messages)
			chunks = len(plan.Chunks)
			internal.LogInfo("Summarizing %d message(s) (~%d tokens) with %s in %d request(s)",
				len(messages), plan.TotalTokens, model, plan.Calls)

			summary, err = s.Summarize(ctx, summarizer.Request{Messages: messages, RoomLabel: conv.Title()})
			if err != nil {
				return fmt.Errorf("failed to generate summary: %w", err)
			}
		}

		// the stored file keeps every message; the range is recorded alongside the summary
		conv.Messages = all
		path, err := storage.SaveSummary(conv, summary)
		if err != nil {
			return err
		}
		recordSummary(cfg, conv, path, internal.SummaryRecord{
			RoomID:     conv.Room.ID,
			Kind:       internal.SummaryKindSummary,
			Model:      model,
			ChunkCount: chunks,
		})

		fmt.Fprintln(out)
		fmt.Fprintln(out, internal.FormatSummary(summary, time.Now()))
		fmt.Fprintf(out, "Summary saved to: %s\n", path)
		return nil
	},
}

// recordSummary updates the catalog entry of conv and records the run
func recordSummary(cfg *internal.Config, conv *internal.Conversation, path string, rec internal.SummaryRecord) {
	catalog := openCatalog(cfg)
	if catalog == nil {
		return
	}
	defer catalog.Close()

	if err := catalog.RecordConversation(internal.EntryFor(conv, path)); err != nil {
		internal.LogWarn("Failed to catalog %s: %v", path, err)
		return
	}
	if _, err := catalog.RecordSummary(rec); err != nil {
		internal.LogWarn("Failed to record summary: %v", err)
	}
}

func listSummaries(out io.Writer, cfg *internal.Config) error {
	catalog, err := internal.OpenCatalog(cfg.CatalogPath())
	if err != nil {
		return err
	}
	defer catalog.Close()

	entries, err := catalog.Conversations()
	if err != nil {
		return err
	}
	records, err := catalog.Summaries("")
	if err != nil {
		return err
	}

	lastRun := make(map[string]internal.SummaryRecord)
	for _, r := range records {
		if r.Kind != internal.SummaryKindSummary {
			continue
		}
		if _, ok := lastRun[r.RoomID]; !ok {
			lastRun[r.RoomID] = r
		}
	}

	var summarized []internal.CatalogEntry
	for _, e := range entries {
		if e.HasSummary {
			summarized = append(summarized, e)
		}
	}
	if len(summarized) == 0 {
		fmt.Fprintln(out, headerStyle.Render("📝 No summarized conversations"))
		return nil
	}

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("📝 %d summarized conversation(s)", len(summarized))))
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, titleStyle.Render("Title")+"\t"+titleStyle.Render("Summarized")+"\t"+titleStyle.Render("Model")+"\t"+titleStyle.Render("Parts")+"\t"+titleStyle.Render("File")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 110))
	for _, e := range summarized {
		when, model, parts := "—", "—", "—"
		if r, ok := lastRun[e.RoomID]; ok {
			when = formatWhen(r.CreatedAt)
			if r.Model != "" {
				model = r.Model
			}
			if r.ChunkCount > 0 {
				parts = fmt.Sprint(r.ChunkCount)
			}
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
			truncateText(e.Title, 40), dateStyle.Render(when), model, parts, idStyle.Render(e.Path))
	}
	return w.Flush()
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
	summarizeCmd.Flags().StringVar(&summarizeRoom, "room", "", "Webex room ID to download and summarize")
	summarizeCmd.Flags().StringVar(&summarizeFile, "file", "", "Saved conversation file to summarize")
	summarizeCmd.Flags().StringVar(&summarizeFrom, "from", "", "Start date (yyyy-MM-dd)")
	summarizeCmd.Flags().StringVar(&summarizeTo, "to", "", "End date (yyyy-MM-dd), inclusive")
	summarizeCmd.Flags().BoolVar(&summarizeListSummaries, "list-summaries", false, "List conversations that have summaries")
}
