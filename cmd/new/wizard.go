// SPDX-License-Identifier: Apache-2.0
package new

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/Work-Fort/Crucible/pkg/config"
	"github.com/Work-Fort/Crucible/pkg/ui"
	"github.com/Work-Fort/Crucible/pkg/wizard"
)

// wizardOutcome says how the wizard ended
type wizardOutcome int

const (
	outcomeNone wizardOutcome = iota
	outcomeFinished
	outcomeCancelled
)

// WizardModel shows one tab per stage and drives the session
type WizardModel struct {
	width  int
	height int

	session *session
	tabs    []ui.Tab
	keys    ui.KeyBindingSet
	jumps   ui.KeyBindingSet

	welcome *formTab
	define  *formTab
	options *formTab
	preview *previewTab

	finishing bool
	outcome   wizardOutcome
	err       error
}

// NewWizardModel creates the wizard for s. savePreference persists the
// welcome page preference and may be nil.
func NewWizardModel(s *session, savePreference func(show bool) error) WizardModel {
	titles := make([]string, len(s.stages))
	tabs := make([]ui.Tab, len(s.stages))
	for i, stage := range s.stages {
		titles[i] = stage.Title()
		tabs[i] = ui.Tab{Title: stage.Title(), State: ui.TabPending}
	}
	jumps := ui.StageKeyBindings(titles)
	for i := range tabs {
		tabs[i].Key = jumps.Bindings[i].Key
	}

	m := WizardModel{
		session: s,
		tabs:    tabs,
		keys:    ui.WizardKeyBindings(),
		jumps:   jumps,
		define:  newDefineTab(s.config),
		options: newOptionsTab(s.config),
		preview: newPreviewTab(s.config, s.tracker),
	}
	if s.index(wizard.StageWelcome) >= 0 {
		m.welcome = newWelcomeTab(true, savePreference)
	}
	m.syncTabs()
	return m
}

// Init implements tea.Model
func (m WizardModel) Init() tea.Cmd {
	if tab := m.formTab(m.session.stage); tab != nil {
		return tab.activate()
	}
	return nil
}

// Update implements tea.Model
func (m WizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		inner := tea.WindowSizeMsg{Width: msg.Width - 6, Height: msg.Height - 6}

		var cmds []tea.Cmd
		for _, tab := range []*formTab{m.welcome, m.define, m.options} {
			if tab != nil {
				_, cmd := tab.Update(inner)
				cmds = append(cmds, cmd)
			}
		}
		m.preview.Update(inner)
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" {
			if m.finishing {
				return m, nil
			}
			m.session.orch.Cancel()
			m.outcome = outcomeCancelled
			return m, tea.Quit
		}
		if m.finishing {
			return m, nil
		}
		if b := m.keys.Contains(key); b != nil && b.Key == "ESC" {
			if i := m.session.index(m.session.stage); i > 0 {
				return m, m.goTo(m.session.stages[i-1])
			}
			return m, nil
		}
		if n, ok := m.jumps.Stage(key); ok {
			return m, m.goTo(m.session.stages[n-1])
		}
		if m.session.stage == wizard.StagePreview && key == "enter" && m.preview.canFinish() {
			return m, m.finish()
		}

	case TabCompleteMsg:
		if msg.Stage != m.session.stage {
			return m, nil
		}
		if i := m.session.index(msg.Stage); i < len(m.session.stages)-1 {
			return m, m.goTo(m.session.stages[i+1])
		}
		return m, nil

	case preferenceSavedMsg:
		if msg.Err != nil {
			log.Warnf("new: failed to save welcome page preference: %v", msg.Err)
		}
		return m, nil

	case spinner.TickMsg:
		if m.finishing {
			var cmd tea.Cmd
			m.preview.spinner, cmd = m.preview.spinner.Update(msg)
			return m, cmd
		}
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		m.syncTabs()
		return m, cmd

	case previewProgressMsg, previewDoneMsg:
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		m.syncTabs()
		return m, cmd

	case finishDoneMsg:
		m.finishing = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.outcome = outcomeFinished
		return m, tea.Quit
	}

	// Delegate to the form on screen
	var cmd tea.Cmd
	if tab := m.formTab(m.session.stage); tab != nil {
		_, cmd = tab.Update(msg)
	}
	m.syncTabs()
	return m, cmd
}

// goTo switches stage when the session allows it
func (m *WizardModel) goTo(stage wizard.Stage) tea.Cmd {
	if !m.session.canSelect(stage) {
		log.Debugf("new: %s -> %s not allowed", m.session.stage, stage)
		return nil
	}
	m.err = nil

	leaving := m.session.stage == wizard.StagePreview
	fn, ch := m.preview.progressFunc()
	handle := m.session.selectStage(stage, fn)
	if leaving {
		m.preview.stop()
	}
	m.syncTabs()

	if handle != nil {
		return m.preview.start(handle, ch)
	}
	if tab := m.formTab(stage); tab != nil {
		return tab.activate()
	}
	return nil
}

// finish runs the finish action off the update loop
func (m *WizardModel) finish() tea.Cmd {
	m.finishing = true
	m.err = nil
	orch := m.session.orch
	return tea.Batch(m.preview.spinner.Tick, func() tea.Msg {
		return finishDoneMsg{Err: orch.Finish(context.Background(), nil)}
	})
}

func (m WizardModel) formTab(stage wizard.Stage) *formTab {
	switch stage {
	case wizard.StageWelcome:
		return m.welcome
	case wizard.StageDefine:
		return m.define
	case wizard.StageOptions:
		return m.options
	default:
		return nil
	}
}

// syncTabs derives tab states from the current stage
func (m *WizardModel) syncTabs() {
	current := m.session.index(m.session.stage)
	for i, stage := range m.session.stages {
		tab := &m.tabs[i]
		tab.Busy = false
		switch {
		case i < current:
			tab.State = ui.TabComplete
		case i > current:
			tab.State = ui.TabPending
		case stage == wizard.StagePreview:
			tab.State = m.preview.GetState()
			tab.Busy = m.preview.running()
			tab.Spinner = m.preview.spinner
		default:
			tab.State = ui.TabActive
		}
		if stage == wizard.StageDefine && i != current && m.session.locationErr != nil {
			tab.State = ui.TabError
		}
	}
}

// View implements tea.Model
func (m WizardModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	theme := config.CurrentTheme

	if m.finishing {
		return ui.RenderProgressModal(
			"Finishing",
			"Creating and importing "+m.session.config.RootDirectory.Get(),
			m.preview.spinner.View(),
			"",
			m.width, m.height, min(60, m.width-4),
		)
	}

	header := theme.RenderHeader(m.width, "NEW PROJECT", m.session.stage.Title())
	tabsView := ui.RenderTabs(m.tabs, ui.TabsConfig{
		ActiveIndex: m.session.index(m.session.stage),
		Width:       m.width,
	})

	var body string
	if tab := m.formTab(m.session.stage); tab != nil {
		body = tab.View()
	} else {
		body = m.preview.View()
	}
	if m.err != nil {
		body = lipgloss.JoinVertical(lipgloss.Left, body, "", theme.ErrorMessage(m.err.Error()))
	} else if err := m.session.locationErr; err != nil && m.session.stage != wizard.StageDefine {
		body = lipgloss.JoinVertical(lipgloss.Left, body, "", theme.ErrorMessage("Project location: "+err.Error()))
	}

	keys := m.keys
	if m.session.stage == wizard.StagePreview && m.preview.canFinish() {
		keys.Bindings = append(ui.PreviewKeyBindings().Bindings, keys.Bindings...)
	}
	footer := keys.RenderInline(theme.SubtleStyle())

	content := ui.RenderTabContent(
		lipgloss.JoinVertical(lipgloss.Left, body, "", footer),
		m.width-2,
		m.height-5,
	)
	return lipgloss.JoinVertical(lipgloss.Left, header, tabsView, content)
}
