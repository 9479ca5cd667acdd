// SPDX-License-Identifier: Apache-2.0
package config

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestRenderHeader(t *testing.T) {
	out := CurrentTheme.RenderHeader(60, "NEW PROJECT", "Options")
	for _, want := range []string{"CRUCIBLE", "NEW PROJECT", "Options"} {
		if !strings.Contains(out, want) {
			t.Errorf("header missing %q: %q", want, out)
		}
	}
	if w := lipgloss.Width(out); w != 60 {
		t.Errorf("header width = %d, want 60", w)
	}
}

func TestMark(t *testing.T) {
	if !strings.Contains(CurrentTheme.Mark(true), "✓") || !strings.Contains(CurrentTheme.Mark(false), "✗") {
		t.Error("marks should be a check and a cross")
	}
}
