// SPDX-License-Identifier: Apache-2.0
package config

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is the palette shared by the wizard and the plain-text commands
type Theme struct {
	Accent  lipgloss.Color // Frames, project names
	Header  lipgloss.Color // Banner, spinners, the tab on screen
	Muted   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

// CurrentTheme is the palette in use
var CurrentTheme = Theme{
	Accent:  "#E8743B",
	Header:  "#5FD7D7",
	Muted:   "#7A7F9A",
	Success: "#7BD88F",
	Warning: "#E5C07B",
	Error:   "#E06C75",
}

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

// SubtleStyle is used for hints and secondary columns
func (t Theme) SubtleStyle() lipgloss.Style { return fg(t.Muted) }

// ErrorStyle is used for fatal command errors
func (t Theme) ErrorStyle() lipgloss.Style { return fg(t.Error) }

func (t Theme) SuccessMessage(text string) string {
	return fg(t.Success).Bold(true).Render("✓ " + text)
}

func (t Theme) InfoMessage(text string) string { return fg(t.Header).Render("› " + text) }

func (t Theme) WarningMessage(text string) string { return fg(t.Warning).Render("! " + text) }

func (t Theme) ErrorMessage(text string) string { return fg(t.Error).Render("✗ " + text) }

// Mark returns the status symbol for a finished (ok) or failed step
func (t Theme) Mark(ok bool) string {
	if ok {
		return fg(t.Success).Render("✓")
	}
	return fg(t.Error).Render("✗")
}

// RenderHeader centers "CRUCIBLE › section › stage" across width
func (t Theme) RenderHeader(width int, section, stage string) string {
	title := lipgloss.JoinHorizontal(lipgloss.Top,
		fg(t.Accent).Bold(true).Render("CRUCIBLE"),
		t.SubtleStyle().Render(" › "+section+" › "),
		fg(t.Header).Bold(true).Render(stage),
	)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, title)
}
