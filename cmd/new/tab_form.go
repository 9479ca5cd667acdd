// SPDX-License-Identifier: Apache-2.0
package new

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"

	"github.com/Work-Fort/Crucible/pkg/ui"
	"github.com/Work-Fort/Crucible/pkg/wizard"
)

// formTab shows a huh form for one stage. The form is rebuilt from the
// configuration each time the stage is entered, so going back shows what
// was entered last.
type formTab struct {
	stage wizard.Stage
	width int
	form  *huh.Form
	done  bool

	build  func() *huh.Form
	submit func() tea.Cmd // Stores the collected values, optional follow-up
}

// activate rebuilds the form for a fresh visit
func (t *formTab) activate() tea.Cmd {
	t.form = t.build()
	t.done = false
	if t.width > 0 {
		t.form.WithWidth(t.width)
	}
	return t.form.Init()
}

// Update implements TabModel interface
func (t *formTab) Update(msg tea.Msg) (*formTab, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		t.width = size.Width
		if t.form != nil {
			t.form.WithWidth(size.Width)
		}
	}
	if t.form == nil {
		return t, nil
	}

	form, cmd := t.form.Update(msg)
	t.form = form.(*huh.Form)

	if t.form.State == huh.StateCompleted && !t.done {
		t.done = true
		log.Debugf("new.%s: form submitted", t.stage)
		stage := t.stage
		return t, tea.Batch(
			cmd,
			t.submit(),
			func() tea.Msg { return TabCompleteMsg{Stage: stage} },
		)
	}
	return t, cmd
}

// View implements TabModel interface
func (t *formTab) View() string {
	if t.form == nil {
		return ""
	}
	return t.form.View()
}

// GetState implements TabModel interface
func (t *formTab) GetState() ui.TabState {
	if t.done {
		return ui.TabComplete
	}
	return ui.TabActive
}
