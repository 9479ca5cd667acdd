// SPDX-License-Identifier: Apache-2.0
package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	"github.com/Work-Fort/Crucible/pkg/config"
)

// TabState selects a tab's color and icon
type TabState int

const (
	TabPending TabState = iota
	TabActive
	TabComplete
	TabError
)

// Tab is one wizard stage in the tab bar
type Tab struct {
	Title   string
	Key     string // Shortcut shown after the title, e.g. "F2"
	State   TabState
	Busy    bool // Active tab shows the spinner instead of the dot
	Spinner spinner.Model
}

type TabsConfig struct {
	ActiveIndex int // Tab whose content is on screen
	Width       int
}

// RenderTabs draws the tab bar so that the tab on screen opens into the
// content pane drawn by RenderTabContent below it. Always three rows high.
func RenderTabs(tabs []Tab, cfg TabsConfig) string {
	theme := config.CurrentTheme
	cells := make([]string, 0, len(tabs)+1)

	for i, tab := range tabs {
		color, icon := tabLook(theme, tab)
		label := icon + " " + tab.Title
		if tab.Key != "" {
			label += " " + theme.SubtleStyle().Render(tab.Key)
		}
		cells = append(cells, lipgloss.NewStyle().
			Border(tabBorder(i == 0, i == cfg.ActiveIndex)).
			BorderForeground(color).
			Padding(0, 1).
			Render(label))
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, cells...)
	rest := cfg.Width - lipgloss.Width(row)
	if rest <= 0 {
		return row
	}
	// Continue the pane's top edge to the right border
	blank := strings.Repeat(" ", rest)
	edge := lipgloss.NewStyle().Foreground(theme.Accent).Render(strings.Repeat("─", rest-1) + "┐")
	return lipgloss.JoinHorizontal(lipgloss.Top, row, lipgloss.JoinVertical(lipgloss.Left, blank, blank, edge))
}

// tabLook picks the border color and status icon for a tab
func tabLook(theme config.Theme, tab Tab) (lipgloss.Color, string) {
	switch tab.State {
	case TabActive:
		if tab.Busy {
			return theme.Header, tab.Spinner.View()
		}
		return theme.Header, lipgloss.NewStyle().Foreground(theme.Success).Render("●")
	case TabComplete:
		return theme.Success, theme.Mark(true)
	case TabError:
		return theme.Error, theme.Mark(false)
	default:
		return theme.Muted, theme.SubtleStyle().Render("○")
	}
}

// tabBorder returns a rounded tab border. The tab on screen has
// no bottom edge; the others sit on the pane's top edge.
func tabBorder(first, open bool) lipgloss.Border {
	b := lipgloss.RoundedBorder()
	b.BottomLeft, b.Bottom, b.BottomRight = "┴", "─", "┴"
	if open {
		b.BottomLeft, b.Bottom, b.BottomRight = "┘", " ", "└"
	}
	if first {
		b.BottomLeft = "├"
		if open {
			b.BottomLeft = "│"
		}
	}
	return b
}

// RenderTabContent draws the pane below the tab bar; its top edge belongs to the tabs
func RenderTabContent(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderTop(false).
		BorderForeground(config.CurrentTheme.Accent).
		Width(width).
		Height(height).
		Padding(1, 2).
		Render(content)
}
