package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/webex-summarizer/internal"
	"github.com/iksnae/webex-summarizer/internal/llm"
	"github.com/iksnae/webex-summarizer/internal/summarizer"
	"github.com/iksnae/webex-summarizer/internal/webex"
	"golang.org/x/term"
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	senderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Bold(true)

	matchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

var errNoSource = errors.New("either --room or --file must be specified")

// loadConfig reads the config file and applies the --output-dir override
func loadConfig() (*internal.Config, error) {
	cfg, err := internal.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if outputDir != "" {
		cfg.Storage.Directory = outputDir
	}
	return cfg, nil
}

// ensureToken asks for the Webex token on the terminal when none is configured
func ensureToken(cfg *internal.Config) error {
	if cfg.Webex.Token != "" {
		return nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return &internal.ConfigError{Field: "webex.token", Err: errors.New("not set (use WEBEX_TOKEN or the config file)")}
	}

	fmt.Fprint(os.Stderr, "Webex access token: ")
	token, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}
	cfg.Webex.Token = strings.TrimSpace(string(token))
	if cfg.Webex.Token == "" {
		return &internal.ConfigError{Field: "webex.token", Err: errors.New("empty token")}
	}
	return nil
}

func newWebexClient(cfg *internal.Config) (*webex.Client, error) {
	if err := ensureToken(cfg); err != nil {
		return nil, err
	}
	return webex.NewClientFromConfig(cfg.Webex), nil
}

// openCatalog opens the SQLite catalog; failures are logged and yield nil
func openCatalog(cfg *internal.Config) *internal.Catalog {
	catalog, err := internal.OpenCatalog(cfg.CatalogPath())
	if err != nil {
		internal.LogWarn("Catalog unavailable: %v", err)
		return nil
	}
	return catalog
}

// downloadConversation fetches a room, saves it and records it in the catalog
func downloadConversation(ctx context.Context, cfg *internal.Config, storage *internal.ConversationStorage, roomID string) (*internal.Conversation, string, error) {
	client, err := newWebexClient(cfg)
	if err != nil {
		return nil, "", err
	}

	var conv *internal.Conversation
	err = internal.ShowProgress(ctx, fmt.Sprintf("Downloading conversation %s", roomID), func() error {
		var dlErr error
		conv, dlErr = client.DownloadConversation(ctx, roomID)
		return dlErr
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to download conversation: %w", err)
	}

	path, err := storage.SaveConversation(conv)
	if err != nil {
		return nil, "", err
	}
	recordConversation(cfg, conv, path)
	return conv, path, nil
}

func recordConversation(cfg *internal.Config, conv *internal.Conversation, path string) {
	catalog := openCatalog(cfg)
	if catalog == nil {
		return
	}
	defer catalog.Close()
	if err := catalog.RecordConversation(internal.EntryFor(conv, path)); err != nil {
		internal.LogWarn("Failed to catalog %s: %v", path, err)
	}
}

// resolveConversation loads --file or downloads --room
func resolveConversation(ctx context.Context, cfg *internal.Config, storage *internal.ConversationStorage, roomID, file string) (*internal.Conversation, string, error) {
	switch {
	case file != "":
		conv, err := storage.LoadConversation(file)
		if err != nil {
			return nil, "", err
		}
		return conv, file, nil
	case roomID != "":
		return downloadConversation(ctx, cfg, storage, roomID)
	default:
		return nil, "", errNoSource
	}
}

// applyDateRange filters conv's messages in place and records the range on it
func applyDateRange(conv *internal.Conversation, from, to string) error {
	start, end, err := internal.ParseDateRange(from, to)
	if err != nil {
		return err
	}
	if start.IsZero() && end.IsZero() {
		return nil
	}
	before := len(conv.Messages)
	conv.Messages = internal.FilterByDate(conv.Messages, start, end)
	conv.DateFrom = from
	conv.DateTo = to
	internal.LogInfo("Date filter kept %d of %d messages", len(conv.Messages), before)
	return nil
}

// emptyConversationSummary is stored instead of calling the model when there is nothing to summarize
func emptyConversationSummary(conv *internal.Conversation) string {
	if conv.DateFrom != "" || conv.DateTo != "" {
		return fmt.Sprintf("No messages were found in the date range specified. "+
			"This could be because no messages exist within the date range you selected, "+
			"or because the room %q is empty.", conv.Title())
	}
	return fmt.Sprintf("This appears to be an empty chat or group. The room %q exists but contains no messages.", conv.Title())
}

// newSummarizer builds the completion client and the summarizer from the config
func newSummarizer(ctx context.Context, cfg *internal.Config, w io.Writer) (*summarizer.Summarizer, llm.Client, error) {
	client, err := llm.New(ctx, cfg.LLM)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s client: %w", cfg.LLM.Provider, err)
	}

	scfg := summarizerConfig(cfg)
	if info, ok := llm.LookupModel(client.Model()); ok && scfg.GetMaxContextTokens() > info.ContextWindow {
		internal.LogWarn("max_context_tokens (%d) exceeds the %s context window (%d)",
			scfg.GetMaxContextTokens(), info.Name, info.ContextWindow)
	}

	bar := internal.NewProgressBar(w)
	s, err := summarizer.New(client, scfg, summarizer.WithProgress(bar.Update))
	if err != nil {
		return nil, nil, err
	}
	return s, client, nil
}

func summarizerConfig(cfg *internal.Config) summarizer.Config {
	return summarizer.Config{
		MaxContextTokens:      cfg.Summarizer.MaxContextTokens,
		SafetyBufferTokens:    cfg.Summarizer.SafetyBufferTokens,
		CharsPerToken:         cfg.Summarizer.CharsPerToken,
		MessageOverheadTokens: cfg.Summarizer.MessageOverheadTokens,
	}
}

// formatWhen renders a timestamp relative to now the way list views show it
func formatWhen(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	diff := time.Since(t)
	switch {
	case diff < 24*time.Hour:
		return t.Format("Today 15:04")
	case diff < 7*24*time.Hour:
		return t.Format("Mon 15:04")
	case diff < 365*24*time.Hour:
		return t.Format("Jan 02 15:04")
	default:
		return t.Format("2006-01-02")
	}
}

func truncateText(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
