// SPDX-License-Identifier: Apache-2.0
package new

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/Work-Fort/Crucible/pkg/wizard"
)

const welcomeText = `This wizard creates a new project with the build tool's init command
and adds it to your workspace.

On the preview page the project is created for real so you can inspect it.
Going back to the options page deletes it again, and so does cancelling.`

// newWelcomeTab introduces the wizard and lets the user hide this page.
// save persists the preference and is only called when it changes.
func newWelcomeTab(show bool, save func(show bool) error) *formTab {
	current := show
	t := &formTab{stage: wizard.StageWelcome}

	t.build = func() *huh.Form {
		return huh.NewForm(
			huh.NewGroup(
				huh.NewNote().
					Title("Create a new project").
					Description(welcomeText),
				huh.NewConfirm().
					Title("Show this page next time?").
					Affirmative("Yes").
					Negative("No").
					Value(&show),
			),
		)
	}

	t.submit = func() tea.Cmd {
		if show == current || save == nil {
			return nil
		}
		current = show
		value := show
		return func() tea.Msg { return preferenceSavedMsg{Err: save(value)} }
	}
	return t
}
