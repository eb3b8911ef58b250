package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/iksnae/webex-summarizer/internal"
	"github.com/iksnae/webex-summarizer/internal/llm"
	"github.com/iksnae/webex-summarizer/internal/webex"
	"github.com/spf13/cobra"
)

var (
	healthcheckVerbose bool
	healthcheckOffline bool
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check configuration, Webex access, storage and LLM settings",
	Long: `Check the health of webex-summarizer by verifying:
  • Configuration loading
  • Webex token validity (skipped with --offline)
  • Storage directory access
  • Catalog access
  • LLM provider settings

This command is useful for debugging setup issues.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		failed := 0
		fail := func(msg string, err error) {
			failed++
			fmt.Fprintln(out, errorStyle.Render("❌ "+msg+":"), err)
		}

		fmt.Fprintln(out, sectionStyle.Render("🔍 Webex Summarizer Health Check"))
		fmt.Fprintln(out)

		// Step 1: Configuration
		fmt.Fprintln(out, infoStyle.Render("Step 1: Loading configuration..."))
		cfg, err := loadConfig()
		if err != nil {
			fail("Failed to load configuration", err)
			return fmt.Errorf("health check failed: %w", err)
		}
		fmt.Fprintln(out, successStyle.Render("✅ Configuration loaded"))
		if healthcheckVerbose {
			fmt.Fprintf(out, "   Config file: %s\n", configPath)
			fmt.Fprintf(out, "   Storage: %s\n", cfg.Storage.Directory)
		}
		fmt.Fprintln(out)

		// Step 2: Webex token
		fmt.Fprintln(out, infoStyle.Render("Step 2: Checking Webex access..."))
		checkWebex(out, cfg, fail)
		fmt.Fprintln(out)

		// Step 3: Storage
		fmt.Fprintln(out, infoStyle.Render("Step 3: Checking storage directory..."))
		storage, err := internal.NewConversationStorage(cfg.Storage.Directory)
		if err != nil {
			fail("Storage directory not usable", err)
		} else if err := checkWritable(storage.Dir()); err != nil {
			fail("Storage directory not writable", err)
		} else {
			files, _ := storage.ListConversationFiles()
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Storage directory writable (%d conversation file(s))", len(files))))
		}
		fmt.Fprintln(out)

		// Step 4: Catalog
		fmt.Fprintln(out, infoStyle.Render("Step 4: Opening catalog..."))
		if catalog, err := internal.OpenCatalog(cfg.CatalogPath()); err != nil {
			fail("Catalog unavailable", err)
		} else {
			entries, err := catalog.Conversations()
			catalog.Close()
			if err != nil {
				fail("Catalog query failed", err)
			} else {
				fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Catalog OK (%d conversation(s))", len(entries))))
				if healthcheckVerbose {
					fmt.Fprintf(out, "   Database: %s\n", cfg.CatalogPath())
				}
			}
		}
		fmt.Fprintln(out)

		// Step 5: LLM settings
		fmt.Fprintln(out, infoStyle.Render("Step 5: Checking LLM settings..."))
		checkLLM(out, cfg, fail)
		fmt.Fprintln(out)

		fmt.Fprintln(out, sectionStyle.Render("📊 Summary"))
		fmt.Fprintln(out)
		if failed > 0 {
			fmt.Fprintln(out, errorStyle.Render(fmt.Sprintf("❌ Health check failed (%d problem(s))", failed)))
			return fmt.Errorf("health check failed: %d problem(s)", failed)
		}
		fmt.Fprintln(out, successStyle.Render("✅ Health check passed!"))
		return nil
	},
}

func checkWebex(out io.Writer, cfg *internal.Config, fail func(string, error)) {
	if cfg.Webex.Token == "" {
		fmt.Fprintln(out, warningStyle.Render("⚠️  No Webex token configured (set WEBEX_TOKEN)"))
		return
	}
	fmt.Fprintf(out, "   Token: %s\n", internal.MaskSecret(cfg.Webex.Token))
	if healthcheckOffline {
		fmt.Fprintln(out, warningStyle.Render("⚠️  Skipped token check (--offline)"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	me, err := webex.NewClientFromConfig(cfg.Webex).Me(ctx)
	if err != nil {
		fail("Webex token rejected", err)
		return
	}
	fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Authenticated as %s (%s)", me.DisplayName, me.Email())))
}

func checkLLM(out io.Writer, cfg *internal.Config, fail func(string, error)) {
	fmt.Fprintf(out, "   Provider: %s\n", cfg.LLM.Provider)
	fmt.Fprintf(out, "   Model: %s\n", cfg.LLM.Model)

	if info, ok := llm.LookupModel(cfg.LLM.Model); ok {
		fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Known model: %s (context window %d)", info.Name, info.ContextWindow)))
	} else {
		fmt.Fprintln(out, warningStyle.Render("⚠️  Model not in the catalog; requests may still work"))
	}

	switch cfg.LLM.Provider {
	case "anthropic", "openai":
		if cfg.LLM.APIKey == "" && cfg.LLM.BaseURL == "" {
			fail("No API key configured", llm.ErrMissingAPIKey)
			return
		}
		fmt.Fprintf(out, "   API key: %s\n", internal.MaskSecret(cfg.LLM.APIKey))
	case "bedrock":
		fmt.Fprintf(out, "   AWS profile: %s, region: %s\n", cfg.LLM.AWSProfile, cfg.LLM.AWSRegion)
	}

	scfg := summarizerConfig(cfg)
	if err := scfg.Validate(); err != nil {
		fail("Invalid summarizer settings", err)
		return
	}
	fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Summarizer budget: %d tokens per request", scfg.Budget())))
}

func checkWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".healthcheck-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(filepath.Clean(name))
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().BoolVar(&healthcheckVerbose, "details", false, "Show detailed diagnostic information")
	healthcheckCmd.Flags().BoolVar(&healthcheckOffline, "offline", false, "Skip the Webex API call")
}
