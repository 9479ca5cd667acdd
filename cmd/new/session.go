// SPDX-License-Identifier: Apache-2.0
package new

import (
	"slices"
	"time"

	"github.com/Work-Fort/Crucible/pkg/initializer"
	"github.com/Work-Fort/Crucible/pkg/preview"
	"github.com/Work-Fort/Crucible/pkg/project"
	"github.com/Work-Fort/Crucible/pkg/wizard"
)

// sessionOptions selects the collaborators behind one wizard run
type sessionOptions struct {
	Runner      initializer.Runner // nil runs the real tool
	Importer    wizard.Importer
	CacheTTL    time.Duration
	ShowWelcome bool
}

// session wires the controller pieces for one workflow. All methods are
// called from the foreground loop.
type session struct {
	config  *project.Configuration
	define  *wizard.DefinePage
	nav     *wizard.Navigator
	loader  *preview.Loader
	tracker *preview.Tracker
	orch    *wizard.Orchestrator

	stages []wizard.Stage
	stage  wizard.Stage

	// Why the define page last became incomplete, nil while it is complete
	locationErr error
}

func newSession(cfg *project.Configuration, opts sessionOptions) *session {
	s := &session{
		config:  cfg,
		tracker: &preview.Tracker{},
		stages:  wizard.Stages(opts.ShowWelcome),
	}
	s.stage = s.stages[0]

	creator := initializer.New(opts.Runner)
	s.define = wizard.NewDefinePage(cfg)
	s.nav = wizard.NewNavigator(cfg, s.define)
	s.loader = preview.NewLoader(cfg, creator, preview.NewGradleQuerier(opts.Runner, opts.CacheTTL))
	s.orch = wizard.NewOrchestrator(wizard.Options{
		Config:       cfg,
		Creator:      creator,
		Importer:     opts.Importer,
		Navigator:    s.nav,
		Tracker:      s.tracker,
		CurrentStage: func() wizard.Stage { return s.stage },
	})
	s.define.OnCompletionChange(s.locationChanged)
	return s
}

// locationChanged records why the define page became incomplete. While the
// preview is showing, the location exists because the preview created it.
func (s *session) locationChanged(complete bool) {
	s.locationErr = nil
	if !complete && s.stage != wizard.StagePreview {
		s.locationErr = s.define.Validate()
	}
}

// index returns the position of stage in the tab bar, or -1
func (s *session) index(stage wizard.Stage) int {
	return slices.Index(s.stages, stage)
}

// canSelect reports whether the user may move to stage from the current one.
// Preview needs a valid location, rechecked on every attempt, and leaving preview is only possible by
// stepping back to options so the preview directory is always compensated.
func (s *session) canSelect(stage wizard.Stage) bool {
	if stage == s.stage || s.index(stage) < 0 {
		return false
	}
	if s.stage == wizard.StagePreview && stage != wizard.StageOptions {
		return false
	}
	if stage == wizard.StagePreview {
		s.define.SetPageComplete(s.define.IsPageComplete())
		return s.define.Complete()
	}
	return true
}

// selectStage moves to stage and reports the change to the navigator.
// Entering preview starts a preview job, which is returned; leaving preview
// cancels the job still running.
func (s *session) selectStage(stage wizard.Stage, progress initializer.ProgressFunc) *preview.Handle {
	from := s.stage
	var handle *preview.Handle

	if from == wizard.StagePreview && stage != wizard.StagePreview {
		s.tracker.Cancel()
	}
	if stage == wizard.StagePreview && from != wizard.StagePreview {
		handle = s.loader.LoadPreview(progress)
		s.tracker.Track(handle)
	}

	s.stage = stage
	s.nav.PageChanged(wizard.PageChangedEvent{Selected: stage})
	return handle
}
