package internal

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	summaryTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("62")).
				Border(lipgloss.DoubleBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(0, 2)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			Border(lipgloss.ThickBorder()).
			Padding(0, 2)

	actionStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	decisionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	ownerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
)

var numberedItemRe = regexp.MustCompile(`^(\d+)\.\s*(.*)$`)

type summarySection int

const (
	sectionGeneral summarySection = iota
	sectionActions
	sectionDecisions
)

// FormatSummary renders a model-written summary for the terminal.
// Section headers ("**Header**" or "# Header") are boxed, numbered items are
// marked by section (➤ action items, ✓ decisions, • everything else) and
// owner or due-date lines inside action items are indented under their item.
func FormatSummary(summary string, generated time.Time) string {
	if strings.TrimSpace(summary) == "" {
		return ""
	}

	var sb strings.Builder
	title := fmt.Sprintf("CONVERSATION SUMMARY\nGenerated: %s", generated.Format("2006-01-02 15:04:05"))
	sb.WriteString(summaryTitleStyle.Render(title))
	sb.WriteString("\n")

	section := sectionGeneral
	for _, line := range strings.Split(summary, "\n") {
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			sb.WriteString("\n")

		case isSectionHeader(trimmed):
			header := headerText(trimmed)
			section = classifySection(header)
			sb.WriteString("\n")
			sb.WriteString(sectionStyle.Render(strings.ToUpper(header)))
			sb.WriteString("\n")

		case strings.HasPrefix(trimmed, "---"):
			sb.WriteString("  " + strings.Repeat("∙", 60) + "\n")

		case numberedItemRe.MatchString(trimmed):
			m := numberedItemRe.FindStringSubmatch(trimmed)
			item := m[1] + ". " + m[2]
			switch section {
			case sectionActions:
				sb.WriteString("  " + actionStyle.Render("➤ "+item) + "\n")
			case sectionDecisions:
				sb.WriteString("  " + decisionStyle.Render("✓ "+item) + "\n")
			default:
				sb.WriteString("  • " + item + "\n")
			}

		case section == sectionActions && isOwnershipLine(trimmed):
			sb.WriteString("      " + ownerStyle.Render("↳ "+trimmed) + "\n")

		default:
			sb.WriteString("    " + line + "\n")
		}
	}

	sb.WriteString("\n" + strings.Repeat("═", 76) + "\n")
	sb.WriteString(" Legend:  • Regular Point   ➤ Action Item   ✓ Decision\n")
	sb.WriteString(strings.Repeat("═", 76))
	return sb.String()
}

func isSectionHeader(line string) bool {
	if strings.HasPrefix(line, "#") {
		return true
	}
	return len(line) > 4 && strings.HasPrefix(line, "**") && strings.HasSuffix(line, "**")
}

func headerText(line string) string {
	line = strings.TrimLeft(line, "#")
	line = strings.ReplaceAll(line, "**", "")
	return strings.TrimSuffix(strings.TrimSpace(line), ":")
}

func classifySection(header string) summarySection {
	h := strings.ToLower(header)
	switch {
	case strings.Contains(h, "action") || strings.Contains(h, "task"):
		return sectionActions
	case strings.Contains(h, "decision") || strings.Contains(h, "conclusion"):
		return sectionDecisions
	default:
		return sectionGeneral
	}
}

func isOwnershipLine(line string) bool {
	l := strings.ToLower(line)
	return strings.Contains(l, "by:") || strings.Contains(l, "owner:") || strings.Contains(l, "due:")
}
