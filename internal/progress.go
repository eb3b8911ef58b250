package internal

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	progressStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// progressOutput is where spinners draw
var progressOutput io.Writer = os.Stderr

// ShowProgress runs fn behind a spinner on a terminal. Elsewhere the message is logged
// and fn runs as is. A cancelled ctx stops waiting but does not stop fn.
func ShowProgress(ctx context.Context, message string, fn func() error) error {
	if !isTerminal(progressOutput) {
		LogInfo(message)
		return fn()
	}
	return spin(ctx, progressOutput, message, 100*time.Millisecond, fn)
}

func spin(ctx context.Context, w io.Writer, message string, every time.Duration, fn func() error) error {
	done := make(chan error, 1)
	stop := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for i := 0; ; i++ {
			fmt.Fprintf(w, "\r%s %s", progressStyle.Render(spinnerFrames[i%len(spinnerFrames)]), message)
			select {
			case <-stop:
				return
			case <-ticker.C:
			}
		}
	}()

	go func() {
		done <- fn()
	}()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}
	close(stop)
	wg.Wait()

	mark := successStyle.Render("✓")
	if err != nil {
		mark = errorStyle.Render("✗")
	}
	fmt.Fprintf(w, "\r\033[K%s %s\n", mark, message)
	return err
}

// isTerminal checks if the writer is a terminal
func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w io.Writer) bool {
	return isTerminal(w)
}

// ProgressBar renders chunk progress. On a terminal it redraws one line;
// elsewhere it prints one line per step.
type ProgressBar struct {
	w     io.Writer
	width int
	tty   bool
}

// NewProgressBar creates a progress bar writing to w
func NewProgressBar(w io.Writer) *ProgressBar {
	return &ProgressBar{w: w, width: 30, tty: isTerminal(w)}
}

// Update draws the bar for step current of total
func (p *ProgressBar) Update(current, total int, status string) {
	if total <= 0 {
		return
	}
	if !p.tty {
		fmt.Fprintf(p.w, "[%d/%d] %s\n", current, total, status)
		return
	}

	fmt.Fprintf(p.w, "\r\033[K%s %s", progressStyle.Render(p.bar(current, total)), status)
	if current >= total {
		fmt.Fprintln(p.w)
	}
}

func (p *ProgressBar) bar(current, total int) string {
	if current > total {
		current = total
	}
	filled := current * p.width / total
	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(strings.Repeat("=", filled))
	if filled < p.width {
		sb.WriteString(">")
		sb.WriteString(strings.Repeat(" ", p.width-filled-1))
	}
	fmt.Fprintf(&sb, "] %d/%d", current, total)
	return sb.String()
}

// PrintSuccess prints a success message to stdout
func PrintSuccess(message string) {
	if isTerminal(os.Stdout) {
		fmt.Printf("%s %s\n", successStyle.Render("✓"), message)
	} else {
		fmt.Println(message)
	}
}
