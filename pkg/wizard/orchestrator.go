// SPDX-License-Identifier: Apache-2.0
package wizard

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/Work-Fort/Crucible/pkg/initializer"
	"github.com/Work-Fort/Crucible/pkg/preview"
	"github.com/Work-Fort/Crucible/pkg/project"
)

// Importer registers a created project in the workspace, merging with any
// existing entry for the same directory.
type Importer interface {
	Import(ctx context.Context, cfg project.BuildConfig) error
}

// Options wires an Orchestrator
type Options struct {
	Config    *project.Configuration
	Creator   preview.Creator
	Importer  Importer
	Navigator *Navigator
	Tracker   *preview.Tracker // Optional

	// CurrentStage reports the stage on screen when Cancel is called
	CurrentStage func() Stage
}

// Orchestrator implements the finish and cancel actions
type Orchestrator struct {
	opts   Options
	remove func(path string) error

	// Set once Finish succeeds; the imported project is never removed after that
	finished atomic.Bool
}

// NewOrchestrator returns an Orchestrator for opts
func NewOrchestrator(opts Options) *Orchestrator {
	if opts.CurrentStage == nil {
		opts.CurrentStage = func() Stage { return StageDefine }
	}
	return &Orchestrator{opts: opts, remove: os.RemoveAll}
}

// Finish creates the project if the preview has not already done so and
// imports it. It blocks until both steps complete. On success compensation
// is switched off so the imported project is never deleted.
func (o *Orchestrator) Finish(ctx context.Context, progress initializer.ProgressFunc) error {
	cfg := o.opts.Config.ToBuildConfig()
	if cfg.RootDirectory == "" {
		return project.ErrMissingRootDirectory
	}

	// Let a running preview settle so the tool is not still writing files
	if o.opts.Tracker != nil {
		if h := o.opts.Tracker.Current(); h != nil {
			res, err := h.Wait(ctx)
			if err != nil {
				return fmt.Errorf("%w: %w", project.ErrCancelled, err)
			}
			if res.Outcome == preview.Failed && !errors.Is(res.Err, project.ErrMetadataQuery) {
				return res.Err
			}
		}
	}

	if err := o.opts.Creator.Initialize(ctx, cfg, progress); err != nil {
		return err
	}

	if err := o.opts.Importer.Import(ctx, cfg); err != nil {
		return fmt.Errorf("import %s: %w", cfg.RootDirectory, err)
	}

	o.finished.Store(true)
	if o.opts.Navigator != nil {
		o.opts.Navigator.Disarm()
	}
	log.Debugf("wizard: finished %s", cfg.RootDirectory)
	return nil
}

// Cancel aborts the workflow. When the preview stage is showing, the
// project directory is deleted whether or not the preview created it,
// unless Finish already imported it. Cancelling is never refused.
func (o *Orchestrator) Cancel() bool {
	if o.opts.Tracker != nil {
		o.opts.Tracker.Cancel()
	}
	if o.finished.Load() {
		log.Debugf("wizard: cancel after finish, keeping %s", o.opts.Config.RootDirectory.Get())
		return true
	}
	if o.opts.CurrentStage() == StagePreview {
		if dir := o.opts.Config.RootDirectory.Get(); dir != "" {
			removeProjectDir(o.remove, dir)
		}
	}
	return true
}
