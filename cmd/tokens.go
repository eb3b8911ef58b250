package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/iksnae/webex-summarizer/internal"
	"github.com/iksnae/webex-summarizer/internal/summarizer"
	"github.com/pkoukk/tiktoken-go"
	"github.com/spf13/cobra"
)

const exactEncoding = "cl100k_base"

var (
	tokensFile  string
	tokensExact bool
	tokensFrom  string
	tokensTo    string
)

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Estimate the token size of a saved conversation and how it would be split",
	Long: `Estimate the token size of a saved conversation and show the parts a summary
would be split into, without calling the LLM.

--exact also counts the rendered conversation with the cl100k_base tokenizer.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if tokensFile == "" {
			return fmt.Errorf("--file is required")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		storage, err := internal.NewConversationStorage(cfg.Storage.Directory)
		if err != nil {
			return err
		}
		conv, err := storage.LoadConversation(tokensFile)
		if err != nil {
			return err
		}
		if err := applyDateRange(conv, tokensFrom, tokensTo); err != nil {
			return err
		}

		scfg := summarizerConfig(cfg)
		if err := scfg.Validate(); err != nil {
			return err
		}
		messages := internal.SortChronological(conv.Messages)
		plan := summarizer.PlanFor(messages, scfg)

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("🔢 %s", conv.Title())))
		fmt.Fprintf(out, "Messages:          %d\n", len(messages))
		fmt.Fprintf(out, "Estimated tokens:  %d\n", plan.TotalTokens)
		fmt.Fprintf(out, "Budget:            %d\n", plan.Budget)

		if tokensExact {
			enc, err := tiktoken.GetEncoding(exactEncoding)
			if err != nil {
				return fmt.Errorf("get encoding failed, encoding=%v, err=%w", exactEncoding, err)
			}
			n := len(enc.Encode(summarizer.RenderMessages(messages), nil, nil))
			fmt.Fprintf(out, "%-19s%d\n", exactEncoding+" tokens:", n)
		}

		switch {
		case len(messages) == 0:
			fmt.Fprintln(out, "Strategy:          nothing to summarize")
			return nil
		case plan.SinglePass:
			fmt.Fprintln(out, "Strategy:          single request")
			return nil
		}

		fmt.Fprintf(out, "Strategy:          %d parts + 1 combining request (%d requests)\n", len(plan.Chunks), plan.Calls)
		fmt.Fprintln(out)

		w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		_, _ = fmt.Fprintln(w, titleStyle.Render("Part")+"\t"+titleStyle.Render("Messages")+"\t"+titleStyle.Render("Tokens")+"\t"+titleStyle.Render("From")+"\t"+titleStyle.Render("To")+"\t")
		for i, c := range plan.Chunks {
			first := c.Messages[0].Created.Local().Format("2006-01-02 15:04")
			last := c.Messages[len(c.Messages)-1].Created.Local().Format("2006-01-02 15:04")
			_, _ = fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%s\t\n", i+1, len(c.Messages), c.Tokens, first, last)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(tokensCmd)
	tokensCmd.Flags().StringVar(&tokensFile, "file", "", "Saved conversation file")
	tokensCmd.Flags().BoolVar(&tokensExact, "exact", false, "Also count tokens with the cl100k_base tokenizer")
	tokensCmd.Flags().StringVar(&tokensFrom, "from", "", "Start date (yyyy-MM-dd)")
	tokensCmd.Flags().StringVar(&tokensTo, "to", "", "End date (yyyy-MM-dd), inclusive")
}
