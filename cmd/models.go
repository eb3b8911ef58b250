package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/iksnae/webex-summarizer/internal"
	"github.com/iksnae/webex-summarizer/internal/llm"
	"github.com/spf13/cobra"
)

var (
	modelsDetail   bool
	modelsProvider string
)

var listModelsCmd = &cobra.Command{
	Use:   "list-models",
	Short: "List the models the summarizer can use",
	Long: `List the known models per provider. The configured model is marked with *.

Use --detail for the context window of each model and the summarizer budget
derived from the current configuration.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if modelsProvider != "" && !contains(internal.Providers, modelsProvider) {
			return fmt.Errorf("unknown provider %q (want one of %s)", modelsProvider, strings.Join(internal.Providers, ", "))
		}

		out := cmd.OutOrStdout()
		models := llm.KnownModels(modelsProvider)
		fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("🤖 %d known model(s)", len(models))))
		fmt.Fprintln(out)

		w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		header := titleStyle.Render("") + "\t" + titleStyle.Render("ID") + "\t" + titleStyle.Render("Name") + "\t" + titleStyle.Render("Provider") + "\t"
		if modelsDetail {
			header += titleStyle.Render("Vendor") + "\t" + titleStyle.Render("Context") + "\t"
		}
		_, _ = fmt.Fprintln(w, header)

		for _, m := range models {
			marker := " "
			if m.ID == cfg.LLM.Model && m.Provider == cfg.LLM.Provider {
				marker = successStyle.Render("*")
			}
			line := fmt.Sprintf("%s\t%s\t%s\t%s\t", marker, m.ID, m.Name, m.Provider)
			if modelsDetail {
				line += fmt.Sprintf("%s\t%s\t", m.Vendor, countStyle.Render(strconv.Itoa(m.ContextWindow)))
			}
			_, _ = fmt.Fprintln(w, line)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		if modelsDetail {
			scfg := summarizerConfig(cfg)
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Configured: %s (%s)\n", cfg.LLM.Model, cfg.LLM.Provider)
			fmt.Fprintf(out, "Summarizer budget: %d tokens per request (%d max context - %d safety buffer)\n",
				scfg.Budget(), scfg.GetMaxContextTokens(), scfg.GetSafetyBufferTokens())
		}
		return nil
	},
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func init() {
	rootCmd.AddCommand(listModelsCmd)
	listModelsCmd.Flags().BoolVar(&modelsDetail, "detail", false, "Show vendor, context window and the summarizer budget")
	listModelsCmd.Flags().StringVar(&modelsProvider, "provider", "", "Only list models of one provider")
}
