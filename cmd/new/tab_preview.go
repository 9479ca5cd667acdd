// SPDX-License-Identifier: Apache-2.0
package new

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Work-Fort/Crucible/pkg/config"
	"github.com/Work-Fort/Crucible/pkg/initializer"
	"github.com/Work-Fort/Crucible/pkg/preview"
	"github.com/Work-Fort/Crucible/pkg/project"
	"github.com/Work-Fort/Crucible/pkg/ui"
)

const (
	progressBuffer = 256
	maxOutputLines = 200
	visibleRowsMin = 3
	previewChrome  = 14 // Rows taken by the status, summary and key hints
)

// previewTab shows the preview job's progress and, once loaded, the project
// it created
type previewTab struct {
	width, height int
	cfg           *project.Configuration
	tracker       *preview.Tracker
	spinner       spinner.Model

	handleID uuid.UUID
	progress chan initializer.Progress
	done     <-chan preview.Result
	status   string
	lines    []string
	result   *preview.Result
}

func newPreviewTab(cfg *project.Configuration, tracker *preview.Tracker) *previewTab {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(config.CurrentTheme.Header)
	return &previewTab{cfg: cfg, tracker: tracker, spinner: s}
}

// progressFunc returns a channel-backed ProgressFunc for the next job.
// Events are dropped rather than blocking the job when the buffer is full.
func (t *previewTab) progressFunc() (initializer.ProgressFunc, chan initializer.Progress) {
	ch := make(chan initializer.Progress, progressBuffer)
	return func(p initializer.Progress) {
		select {
		case ch <- p:
		default:
		}
	}, ch
}

// start follows a newly started job
func (t *previewTab) start(h *preview.Handle, ch chan initializer.Progress) tea.Cmd {
	t.handleID = h.ID()
	t.progress = ch
	t.done = h.Done()
	t.status = "Starting " + t.cfg.ToolCommand.Get()
	t.lines = nil
	t.result = nil
	return tea.Batch(t.spinner.Tick, waitForPreview(h.ID(), ch, h.Done()))
}

// stop forgets the current job; its remaining messages are ignored
func (t *previewTab) stop() {
	t.handleID = uuid.Nil
	t.progress = nil
	t.done = nil
}

// waitForPreview delivers the next progress event or the final result
func waitForPreview(id uuid.UUID, progress <-chan initializer.Progress, done <-chan preview.Result) tea.Cmd {
	return func() tea.Msg {
		select {
		case p := <-progress:
			return previewProgressMsg{HandleID: id, Progress: p}
		case res, ok := <-done:
			if !ok {
				return nil
			}
			return previewDoneMsg{Result: res}
		}
	}
}

func (t *previewTab) running() bool {
	return t.handleID != uuid.Nil && t.result == nil
}

// canFinish reports whether the loaded preview allows finishing. A project
// whose metadata could not be read can still be imported.
func (t *previewTab) canFinish() bool {
	if t.result == nil {
		return false
	}
	switch t.result.Outcome {
	case preview.Succeeded:
		return true
	case preview.Failed:
		return errors.Is(t.result.Err, project.ErrMetadataQuery)
	default:
		return false
	}
}

func (t *previewTab) apply(p initializer.Progress) {
	switch p.Phase {
	case initializer.PhaseCreate:
		t.status = "Creating " + p.Message
	case initializer.PhaseRun:
		t.lines = append(t.lines, p.Message)
		if len(t.lines) > maxOutputLines {
			t.lines = t.lines[len(t.lines)-maxOutputLines:]
		}
	case initializer.PhaseArtifact:
		t.status = "Created " + p.Message
	case initializer.PhaseQuery:
		t.status = "Reading project model"
	case initializer.PhaseDone:
		t.status = "Project created"
	}
}

// Update implements TabModel interface
func (t *previewTab) Update(msg tea.Msg) (*previewTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		t.width = msg.Width
		t.height = msg.Height

	case previewProgressMsg:
		if msg.HandleID != t.handleID {
			return t, nil
		}
		t.apply(msg.Progress)
		return t, waitForPreview(t.handleID, t.progress, t.done)

	case previewDoneMsg:
		if !t.tracker.Accept(msg.Result) || msg.Result.HandleID != t.handleID {
			return t, nil
		}
		// The job has returned, so everything it reported is buffered
		for drained := false; !drained; {
			select {
			case p := <-t.progress:
				t.apply(p)
			default:
				drained = true
			}
		}
		res := msg.Result
		t.result = &res
		log.Debugf("new.preview: %s", res.Outcome)

	case spinner.TickMsg:
		if t.running() {
			var cmd tea.Cmd
			t.spinner, cmd = t.spinner.Update(msg)
			return t, cmd
		}
	}
	return t, nil
}

// View implements TabModel interface
func (t *previewTab) View() string {
	theme := config.CurrentTheme
	cfg := t.cfg.ToBuildConfig()

	header := fmt.Sprintf("%s init --type %s", cfg.ToolCommand, cfg.TemplateKind)
	parts := []string{
		lipgloss.NewStyle().Bold(true).Foreground(theme.Accent).Render(cfg.RootDirectory),
		theme.SubtleStyle().Render(header),
		"",
	}

	switch {
	case t.result == nil:
		parts = append(parts, t.spinner.View()+" "+t.status)
	case t.result.Outcome == preview.Succeeded:
		parts = append(parts, t.summary(*t.result)...)
	case t.result.Outcome == preview.Cancelled:
		parts = append(parts, theme.WarningMessage("Preview cancelled"))
	default:
		parts = append(parts, theme.ErrorMessage(project.Pretty(t.result.Err)))
	}

	if rows := t.outputRows(); len(rows) > 0 {
		parts = append(parts, "", theme.SubtleStyle().Render(strings.Join(rows, "\n")))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (t *previewTab) summary(res preview.Result) []string {
	theme := config.CurrentTheme
	env, model := res.Environment, res.Model

	lines := []string{
		theme.SuccessMessage("Project " + model.RootName),
		fmt.Sprintf("  %s %s", env.Tool, env.VersionString()),
	}
	if env.JVM != "" {
		lines = append(lines, "  JVM "+env.JVM)
	}
	if len(model.Subprojects) > 0 {
		lines = append(lines, "  Subprojects: "+strings.Join(model.Subprojects, ", "))
	}
	lines = append(lines, fmt.Sprintf("  %d build files", len(model.BuildFiles)))
	return lines
}

// outputRows wraps the tool output to the pane and keeps what fits
func (t *previewTab) outputRows() []string {
	if len(t.lines) == 0 {
		return nil
	}
	width := t.width - 8
	limit := max(t.height-previewChrome, visibleRowsMin)
	return ui.WrapLines(t.lines, width, limit)
}

// GetState implements TabModel interface
func (t *previewTab) GetState() ui.TabState {
	if t.result != nil && t.result.Outcome != preview.Succeeded && !t.canFinish() {
		return ui.TabError
	}
	return ui.TabActive
}
