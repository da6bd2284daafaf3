package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/validation"
)

// Styles
var (
	fileStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFAA00")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	ruleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
)

// renderViolations writes one line per violation under a file heading and a
// closing summary line.
func renderViolations(w io.Writer, name string, violations []validation.Violation) {
	fmt.Fprintln(w, fileStyle.Render(name))
	for _, v := range violations {
		fmt.Fprintf(w, "  %s %s %s %s\n",
			severityLabel(v.Severity),
			v.NodeID,
			v.Message,
			ruleStyle.Render("["+v.RuleID+"]"))
	}
	fmt.Fprintln(w, summary(violations))
}

func severityLabel(s validation.Severity) string {
	label := fmt.Sprintf("%-7s", strings.ToUpper(string(s)))
	if s == validation.SeverityError {
		return errorStyle.Render(label)
	}
	return warningStyle.Render(label)
}

func summary(violations []validation.Violation) string {
	errs, warnings := validation.Count(violations)
	if errs == 0 && warnings == 0 {
		return successStyle.Render("  ✓ no violations")
	}
	text := fmt.Sprintf("  %d error(s), %d warning(s)", errs, warnings)
	if errs > 0 {
		return errorStyle.Render(text)
	}
	return warningStyle.Render(text)
}
