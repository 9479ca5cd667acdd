// SPDX-License-Identifier: Apache-2.0
package new

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/Work-Fort/Crucible/pkg/project"
	"github.com/Work-Fort/Crucible/pkg/wizard"
)

// newDefineTab collects the project location and working sets. Nothing is
// stored in the configuration until the form is submitted.
func newDefineTab(cfg *project.Configuration) *formTab {
	var location, sets string
	var apply bool
	t := &formTab{stage: wizard.StageDefine}

	t.build = func() *huh.Form {
		location = cfg.RootDirectory.Get()
		apply = cfg.ApplyWorkingSets.Get()
		sets = strings.Join(cfg.WorkingSets.Get(), ", ")

		return huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Project location").
					Description("Directory to create; it must not exist yet").
					Placeholder("./my-project").
					Value(&location).
					Validate(func(s string) error {
						return wizard.ValidateLocation(strings.TrimSpace(s))
					}),

				huh.NewConfirm().
					Title("Add project to working sets?").
					Value(&apply),

				huh.NewInput().
					Title("Working sets").
					Description("Comma-separated names").
					Value(&sets),
			),
		)
	}

	t.submit = func() tea.Cmd {
		cfg.RootDirectory.Set(strings.TrimSpace(location))
		cfg.ApplyWorkingSets.Set(apply)
		cfg.WorkingSets.Set(splitList(sets))
		return nil
	}
	return t
}

// splitList parses a comma-separated list, dropping blanks and duplicates
func splitList(s string) []string {
	var out []string
	seen := map[string]bool{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" || seen[part] {
			continue
		}
		seen[part] = true
		out = append(out, part)
	}
	return out
}
