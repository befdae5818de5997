package ui

import (
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

const (
	cardMark    = "◆"
	doneMark    = "✓"
	missingText = "falta"
	rowIndent   = "  "
	labelGap    = "  "
)

var (
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// FormTheme is the huh theme shared by every prompt.
func FormTheme() *huh.Theme {
	t := huh.ThemeBase()
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.SetString("✗").Foreground(warnStyle.GetForeground())
	t.Blurred.ErrorMessage = t.Focused.ErrorMessage
	t.Focused.Title = t.Focused.Title.Bold(true)
	return t
}

// Field is one labelled row of a card.
type Field struct {
	Label    string
	Value    string
	Optional bool
}

// RenderCard prints title followed by fields in an aligned label column.
// Empty optional fields are left out and empty required ones are flagged.
func RenderCard(title string, fields []Field) string {
	width := 0
	for _, f := range fields {
		width = max(width, lipgloss.Width(f.Label))
	}

	rows := []string{cardMark + " " + title}
	for _, f := range fields {
		value := f.Value
		if value == "" {
			if f.Optional {
				continue
			}
			value = warnStyle.Render(missingText)
		}
		pad := strings.Repeat(" ", width-lipgloss.Width(f.Label))
		rows = append(rows, rowIndent+dimStyle.Render(f.Label)+pad+labelGap+value)
	}
	return strings.Join(rows, "\n") + "\n"
}

// RenderOutcome reports a finished action: a checked headline, the optional
// ref in parentheses, then one indented line per note.
func RenderOutcome(headline, ref string, notes []string) string {
	var b strings.Builder
	b.WriteString(doneMark + " ")
	b.WriteString(headline)
	if ref != "" {
		b.WriteString(dimStyle.Render(" (" + ref + ")"))
	}
	b.WriteString("\n")
	for _, n := range notes {
		b.WriteString(rowIndent)
		b.WriteString(n)
		b.WriteString("\n")
	}
	return b.String()
}
