// SPDX-License-Identifier: Apache-2.0
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/Work-Fort/Crucible/pkg/config"
)

// RenderCenteredModal renders a modal overlay centered in the terminal
func RenderCenteredModal(content string, width, height int, borderColor lipgloss.Color, modalWidth int) string {
	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(1, 2).
		Width(modalWidth).
		Render(content)

	return lipgloss.Place(
		width, height,
		lipgloss.Center, lipgloss.Center,
		modal,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("0")),
	)
}

// RenderProgressModal renders a progress modal with title, status, indicator, and help text
func RenderProgressModal(title, statusMessage, indicator, helpText string, width, height, modalWidth int) string {
	theme := config.CurrentTheme

	titleStyled := lipgloss.NewStyle().
		Foreground(theme.Accent).
		Bold(true).
		Render(title)

	statusStyled := ""
	if statusMessage != "" {
		// Padding(1, 2) takes four columns from the modal width
		statusStyled = lipgloss.NewStyle().
			Foreground(theme.Muted).
			Render("\n" + wordwrap.String(statusMessage, max(modalWidth-4, 1)))
	}

	indicatorStyled := ""
	if indicator != "" {
		indicatorStyled = "\n" + indicator
	}

	if helpText == "" {
		helpText = "Please wait..."
	}
	helpStyled := lipgloss.NewStyle().
		Foreground(theme.Muted).
		Render("\n\n" + helpText)

	content := lipgloss.JoinVertical(lipgloss.Left, titleStyled, statusStyled, indicatorStyled, helpStyled)

	return RenderCenteredModal(content, width, height, theme.Accent, modalWidth)
}

// WrapLines word-wraps each line to width and keeps only the last limit
// rendered rows. A limit of zero keeps everything.
func WrapLines(lines []string, width, limit int) []string {
	if width < 1 {
		width = 1
	}
	var rows []string
	for _, line := range lines {
		rows = append(rows, strings.Split(wordwrap.String(line, width), "\n")...)
	}
	if limit > 0 && len(rows) > limit {
		rows = rows[len(rows)-limit:]
	}
	return rows
}
