// SPDX-License-Identifier: Apache-2.0

// Package preview runs the project initializer in the background so the
// wizard can show what the build tool produced before the user commits.
package preview

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Work-Fort/Crucible/pkg/initializer"
	"github.com/Work-Fort/Crucible/pkg/project"
)

// Creator creates the project directory. *initializer.Initializer satisfies it.
type Creator interface {
	Initialize(ctx context.Context, cfg project.BuildConfig, progress initializer.ProgressFunc) error
}

// Querier reads build metadata from an initialized directory
type Querier interface {
	Query(ctx context.Context, dir string, cfg project.BuildConfig, progress initializer.ProgressFunc) (Environment, Model, error)
}

// Outcome of a preview job
type Outcome int

const (
	Succeeded Outcome = iota
	Failed
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Result is delivered exactly once per Handle
type Result struct {
	HandleID    uuid.UUID
	Outcome     Outcome
	Environment Environment
	Model       Model
	Err         error
}

// Loader starts preview jobs against a live configuration
type Loader struct {
	config  *project.Configuration
	creator Creator
	querier Querier
}

// NewLoader returns a loader that snapshots config on every LoadPreview
func NewLoader(config *project.Configuration, creator Creator, querier Querier) *Loader {
	return &Loader{config: config, creator: creator, querier: querier}
}

// LoadPreview starts initialization followed by a metadata query and returns
// immediately. Jobs started earlier keep running; use a Tracker to ignore
// their results.
func (l *Loader) LoadPreview(progress initializer.ProgressFunc) *Handle {
	j := l.newJob(l.config.ToBuildConfig(), progress)
	j.schedule()
	return j.handle
}

// job pairs the unit of background work with its handle. Building and
// starting are separate steps so the handle exists before anything runs.
type job struct {
	handle   *Handle
	ctx      context.Context
	cfg      project.BuildConfig
	progress initializer.ProgressFunc
	creator  Creator
	querier  Querier
}

func (l *Loader) newJob(cfg project.BuildConfig, progress initializer.ProgressFunc) *job {
	if progress == nil {
		progress = initializer.Discard
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &job{
		handle:   newHandle(cancel),
		ctx:      ctx,
		cfg:      cfg,
		progress: progress,
		creator:  l.creator,
		querier:  l.querier,
	}
}

func (j *job) schedule() {
	go func() {
		j.handle.deliver(j.run())
	}()
}

func (j *job) run() Result {
	res := Result{HandleID: j.handle.id}
	defer j.handle.cancel()

	log.Debugf("preview %s: initializing %s", j.handle.id, j.cfg.RootDirectory)
	if err := j.creator.Initialize(j.ctx, j.cfg, j.progress); err != nil {
		return j.fail(res, err)
	}

	if err := j.ctx.Err(); err != nil {
		return j.fail(res, fmt.Errorf("%w: %w", project.ErrCancelled, err))
	}

	j.progress(initializer.Progress{Phase: initializer.PhaseQuery, Message: j.cfg.RootDirectory})
	env, model, err := j.querier.Query(j.ctx, j.cfg.RootDirectory, j.cfg, j.progress)
	if err != nil {
		return j.fail(res, err)
	}

	res.Outcome = Succeeded
	res.Environment = env
	res.Model = model
	log.Debugf("preview %s: loaded %q", j.handle.id, model.RootName)
	return res
}

func (j *job) fail(res Result, err error) Result {
	res.Err = err
	res.Outcome = Failed
	if j.ctx.Err() != nil || errors.Is(err, project.ErrCancelled) {
		res.Outcome = Cancelled
	}
	log.Debugf("preview %s: %s: %v", j.handle.id, res.Outcome, err)
	return res
}

// Handle refers to one in-flight preview job
type Handle struct {
	id       uuid.UUID
	cancel   context.CancelFunc
	done     chan Result
	finished chan struct{}
	result   Result
}

func newHandle(cancel context.CancelFunc) *Handle {
	return &Handle{
		id:       uuid.New(),
		cancel:   cancel,
		done:     make(chan Result, 1),
		finished: make(chan struct{}),
	}
}

func (h *Handle) deliver(res Result) {
	h.result = res
	close(h.finished)
	h.done <- res
	close(h.done)
}

// ID identifies the job
func (h *Handle) ID() uuid.UUID { return h.id }

// Cancel requests cancellation. The job still delivers a Result.
func (h *Handle) Cancel() { h.cancel() }

// Done yields the job's Result once and is closed afterwards
func (h *Handle) Done() <-chan Result { return h.done }

// Wait blocks until the job finishes or ctx is done. It does not consume
// the value sent on Done.
func (h *Handle) Wait(ctx context.Context) (Result, error) {
	select {
	case <-h.finished:
		return h.result, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}
