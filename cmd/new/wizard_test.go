// SPDX-License-Identifier: Apache-2.0
package new

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/require"

	"github.com/Work-Fort/Crucible/pkg/initializer/initializertest"
	"github.com/Work-Fort/Crucible/pkg/preview"
	"github.com/Work-Fort/Crucible/pkg/project"
	"github.com/Work-Fort/Crucible/pkg/ui"
	"github.com/Work-Fort/Crucible/pkg/wizard"
)

type recordingImporter struct {
	mu      sync.Mutex
	imports []project.BuildConfig
}

func (r *recordingImporter) Import(_ context.Context, cfg project.BuildConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.imports = append(r.imports, cfg)
	return nil
}

func (r *recordingImporter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.imports)
}

type fixture struct {
	root     string
	runner   *initializertest.FakeRunner
	importer *recordingImporter
	session  *session
}

func newFixture(t *testing.T, showWelcome bool) *fixture {
	t.Helper()
	f := &fixture{
		root:     filepath.Join(t.TempDir(), "proj"),
		runner:   initializertest.NewFakeRunner(),
		importer: &recordingImporter{},
	}
	f.runner.Output = []string{"> Task :init", "BUILD SUCCESSFUL"}
	f.session = newSession(project.NewConfiguration(), sessionOptions{
		Runner:      f.runner,
		Importer:    f.importer,
		ShowWelcome: showWelcome,
	})
	return f
}

func update(t *testing.T, m WizardModel, msg tea.Msg) (WizardModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(WizardModel), cmd
}

// loadPreview moves to preview and feeds the job's result back into the model
func loadPreview(t *testing.T, m WizardModel) WizardModel {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyF3})
	require.Equal(t, wizard.StagePreview, m.session.stage)

	h := m.session.tracker.Current()
	require.NotNil(t, h)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := h.Wait(ctx)
	require.NoError(t, err)

	m, _ = update(t, m, previewDoneMsg{Result: res})
	return m
}

func TestWizardModel_Tabs(t *testing.T) {
	tests := []struct {
		name        string
		showWelcome bool
		titles      []string
	}{
		{"with welcome", true, []string{"Welcome", "Project", "Options", "Preview"}},
		{"without welcome", false, []string{"Project", "Options", "Preview"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewWizardModel(newFixture(t, tt.showWelcome).session, nil)

			var titles []string
			for _, tab := range m.tabs {
				titles = append(titles, tab.Title)
			}
			require.Equal(t, tt.titles, titles)
			require.Equal(t, ui.TabActive, m.tabs[0].State)
			for _, tab := range m.tabs[1:] {
				require.Equal(t, ui.TabPending, tab.State)
			}
			require.Equal(t, "F1", m.tabs[0].Key)
			require.Equal(t, tt.showWelcome, m.welcome != nil)
		})
	}
}

func TestWizardModel_WindowSizeMsg(t *testing.T) {
	m := NewWizardModel(newFixture(t, false).session, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	require.Equal(t, 120, m.width)
	require.Equal(t, 40, m.height)
	require.NotEqual(t, "Initializing...", m.View())
}

func TestWizardModel_TabCompleteAdvances(t *testing.T) {
	f := newFixture(t, true)
	m := NewWizardModel(f.session, nil)

	m, _ = update(t, m, TabCompleteMsg{Stage: wizard.StageWelcome})
	require.Equal(t, wizard.StageDefine, m.session.stage)
	require.Equal(t, ui.TabComplete, m.tabs[0].State)

	// A late message for a stage no longer on screen is ignored
	m, _ = update(t, m, TabCompleteMsg{Stage: wizard.StageWelcome})
	require.Equal(t, wizard.StageDefine, m.session.stage)
}

func TestWizardModel_PreviewNeedsLocation(t *testing.T) {
	f := newFixture(t, false)
	m := NewWizardModel(f.session, nil)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyF3})
	require.Equal(t, wizard.StageDefine, m.session.stage)
	require.Zero(t, f.runner.InitCalls())
}

func TestWizardModel_ExistingLocationMarksDefineTab(t *testing.T) {
	f := newFixture(t, false)
	f.session.config.RootDirectory.Set(f.root)
	m := NewWizardModel(f.session, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyF2})
	require.Equal(t, wizard.StageOptions, m.session.stage)
	require.Equal(t, ui.TabComplete, m.tabs[0].State)

	// Something appears at the location after it was accepted
	require.NoError(t, os.Mkdir(f.root, 0755))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyF3})
	require.Equal(t, wizard.StageOptions, m.session.stage)
	require.Zero(t, f.runner.InitCalls())
	require.False(t, f.session.define.Complete())
	require.ErrorIs(t, f.session.locationErr, project.ErrDirectoryExists)
	require.Equal(t, ui.TabError, m.tabs[0].State)
	require.Contains(t, m.View(), "already exists")

	// Clearing it lets the preview start and the error goes away
	require.NoError(t, os.Remove(f.root))
	m = loadPreview(t, m)
	require.NoError(t, f.session.locationErr)
	require.True(t, m.preview.canFinish())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, wizard.StageOptions, m.session.stage)
	require.NoError(t, f.session.locationErr)
	require.Equal(t, ui.TabComplete, m.tabs[0].State)
	require.NotContains(t, m.View(), "already exists")
}

func TestDefineTab_ValidationDoesNotStore(t *testing.T) {
	cfg := project.NewConfiguration()
	tab := newDefineTab(cfg)
	tab.activate()

	tab.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("typed-but-not-submitted")})
	tab.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.Empty(t, cfg.RootDirectory.Get())
	require.NotEqual(t, ui.TabComplete, tab.GetState())
}

func TestWizardModel_PreviewThenBack(t *testing.T) {
	f := newFixture(t, false)
	f.session.config.RootDirectory.Set(f.root)
	m := loadPreview(t, NewWizardModel(f.session, nil))

	require.DirExists(t, f.root)
	require.True(t, m.preview.canFinish())
	require.Equal(t, "demo", m.preview.result.Model.RootName)
	require.Equal(t, []string{"> Task :init", "BUILD SUCCESSFUL"}, m.preview.lines)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, wizard.StageOptions, m.session.stage)
	require.NoDirExists(t, f.root)
	require.True(t, f.session.define.Complete())
	require.Equal(t, ui.TabPending, m.tabs[2].State)
}

func TestWizardModel_JumpsOutOfPreviewRefused(t *testing.T) {
	f := newFixture(t, false)
	f.session.config.RootDirectory.Set(f.root)
	m := loadPreview(t, NewWizardModel(f.session, nil))

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyF1})
	require.Equal(t, wizard.StagePreview, m.session.stage)
	require.DirExists(t, f.root)
}

// finishResult runs the batched finish command and returns its outcome
func finishResult(t *testing.T, cmd tea.Cmd) finishDoneMsg {
	t.Helper()
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	for _, c := range batch {
		if c == nil {
			continue
		}
		if done, ok := c().(finishDoneMsg); ok {
			return done
		}
	}
	t.Fatal("finish command did not report")
	return finishDoneMsg{}
}

func TestWizardModel_FinishOnEnter(t *testing.T) {
	f := newFixture(t, false)
	f.session.config.RootDirectory.Set(f.root)
	m := loadPreview(t, NewWizardModel(f.session, nil))

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.finishing)
	require.NotNil(t, cmd)

	m, cmd = update(t, m, finishResult(t, cmd))
	require.Equal(t, outcomeFinished, m.outcome)
	require.IsType(t, tea.QuitMsg{}, cmd())

	require.Equal(t, 1, f.importer.count())
	require.Equal(t, 1, f.runner.InitCalls(), "finish reuses the preview directory")
	require.DirExists(t, f.root)
}

func TestWizardModel_FinishRefusedAfterToolFailure(t *testing.T) {
	f := newFixture(t, false)
	f.runner.Err = initializertest.ErrToolFailed
	f.session.config.RootDirectory.Set(f.root)
	m := loadPreview(t, NewWizardModel(f.session, nil))

	require.Equal(t, preview.Failed, m.preview.result.Outcome)
	require.Equal(t, ui.TabError, m.tabs[2].State)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.False(t, m.finishing)
	require.Nil(t, cmd)
	require.Zero(t, f.importer.count())
}

func TestWizardModel_CtrlCOnPreviewDeletes(t *testing.T) {
	f := newFixture(t, false)
	f.session.config.RootDirectory.Set(f.root)
	m := loadPreview(t, NewWizardModel(f.session, nil))

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.Equal(t, outcomeCancelled, m.outcome)
	require.IsType(t, tea.QuitMsg{}, cmd())
	require.NoDirExists(t, f.root)
}

func TestWizardModel_StaleResultIgnored(t *testing.T) {
	f := newFixture(t, false)
	f.runner.Block = true
	f.session.config.RootDirectory.Set(f.root)
	m := NewWizardModel(f.session, nil)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyF3})
	first := m.session.tracker.Current()
	<-f.runner.Started

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := first.Wait(ctx)
	require.NoError(t, err)

	m, _ = update(t, m, previewDoneMsg{Result: res})
	require.Nil(t, m.preview.result)
}

func TestWizardModel_CancelQuits(t *testing.T) {
	f := newFixture(t, true)
	tm := teatest.NewTestModel(t, NewWizardModel(f.session, nil), teatest.WithInitialTermSize(100, 30))

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	final := tm.FinalModel(t, teatest.WithFinalTimeout(2*time.Second)).(WizardModel)

	require.Equal(t, outcomeCancelled, final.outcome)
	require.Zero(t, f.runner.InitCalls())
}

func TestWizardModel_PreviewRendersProject(t *testing.T) {
	f := newFixture(t, false)
	f.session.config.RootDirectory.Set(f.root)
	tm := teatest.NewTestModel(t, NewWizardModel(f.session, nil), teatest.WithInitialTermSize(100, 30))

	tm.Send(tea.KeyMsg{Type: tea.KeyF3})
	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("Project demo"))
	}, teatest.WithDuration(5*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	final := tm.FinalModel(t, teatest.WithFinalTimeout(2*time.Second)).(WizardModel)

	require.Equal(t, outcomeCancelled, final.outcome)
	require.NoDirExists(t, f.root)
}
