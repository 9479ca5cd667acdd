// SPDX-License-Identifier: Apache-2.0
package new

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/Work-Fort/Crucible/pkg/config"
	"github.com/Work-Fort/Crucible/pkg/project"
	"github.com/Work-Fort/Crucible/pkg/wizard"
)

// newOptionsTab collects the project template and build tool settings
func newOptionsTab(cfg *project.Configuration) *formTab {
	var template project.TemplateKind
	var tool, javaHome, userHome string
	t := &formTab{stage: wizard.StageOptions}

	t.build = func() *huh.Form {
		template = cfg.TemplateKind.Get()
		tool = cfg.ToolCommand.Get()
		javaHome = cfg.JavaHome.Get()
		userHome = cfg.ToolUserHome.Get()

		options := make([]huh.Option[project.TemplateKind], 0, len(project.Templates))
		for _, kind := range project.Templates {
			options = append(options, huh.NewOption(kind.Title(), kind))
		}

		return huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[project.TemplateKind]().
					Title("Project type").
					Options(options...).
					Value(&template),

				huh.NewInput().
					Title("Build tool").
					Description("Executable on PATH or a path such as ./gradlew").
					Value(&tool).
					Validate(func(s string) error {
						if strings.TrimSpace(s) == "" {
							return errors.New("build tool is required")
						}
						return config.ValidateValue("build-tool.command", strings.TrimSpace(s), config.ScopeUser)
					}),

				huh.NewInput().
					Title("Java home").
					Description("Leave empty to use the tool's default JDK").
					Value(&javaHome).
					Validate(func(s string) error {
						return config.ValidateValue("build-tool.java-home", strings.TrimSpace(s), config.ScopeUser)
					}),

				huh.NewInput().
					Title("Build tool user home").
					Description("Leave empty for the default").
					Value(&userHome).
					Validate(func(s string) error {
						if strings.TrimSpace(s) == "" {
							return nil
						}
						return config.ValidateValue("build-tool.user-home", strings.TrimSpace(s), config.ScopeUser)
					}),
			),
		)
	}

	t.submit = func() tea.Cmd {
		cfg.TemplateKind.Set(template)
		cfg.ToolCommand.Set(strings.TrimSpace(tool))
		cfg.JavaHome.Set(strings.TrimSpace(javaHome))
		cfg.ToolUserHome.Set(strings.TrimSpace(userHome))
		return nil
	}
	return t
}
