package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	statusLabelWidth = 16
	statusIndent     = "  "
)

var (
	titleCaser = cases.Title(language.English)

	statusStyles = map[statusKind]lipgloss.Style{
		statusInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		statusOK:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		statusWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		statusError: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
)

// renderStatusLine formats "  Label:           [OK] message".
func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	tag := "[" + kind.String() + "]"
	if message != "" {
		tag += " " + message
	}
	line := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", tag)
	if !colorize {
		return line
	}
	return statusStyles[kind].Render(line)
}

func (k statusKind) String() string {
	switch k {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// renderSectionHeader title-cases title and underlines it.
func renderSectionHeader(title string, colorize bool) []string {
	heading := "== " + titleCaser.String(strings.TrimSpace(title)) + " =="
	rule := strings.Repeat("-", lipgloss.Width(heading))
	if colorize {
		return []string{headerStyle.Render(heading), headerStyle.Render(rule)}
	}
	return []string{heading, rule}
}

func shouldColorize(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
