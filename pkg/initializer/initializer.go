// SPDX-License-Identifier: Apache-2.0

// Package initializer scaffolds a new project directory by running the
// external build tool's init command inside it.
package initializer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/Work-Fort/Crucible/pkg/project"
)

// InitArgs returns the fixed command line passed to the build tool
func InitArgs(template project.TemplateKind) []string {
	return []string{"init", "--type", string(template)}
}

// Initializer creates project directories with the external build tool
type Initializer struct {
	runner Runner
}

// New returns an Initializer using runner, or the exec runner when nil
func New(runner Runner) *Initializer {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Initializer{runner: runner}
}

// Initialize creates cfg.RootDirectory and runs the build tool's init command in it.
//
// An existing directory is never touched: the call succeeds without doing
// anything, so running it again after a preview is safe. The call blocks until
// the tool exits or ctx is cancelled. Partial output left by a failed or
// cancelled run is not removed here.
func (i *Initializer) Initialize(ctx context.Context, cfg project.BuildConfig, progress ProgressFunc) error {
	if progress == nil {
		progress = Discard
	}
	if cfg.RootDirectory == "" {
		return project.ErrMissingRootDirectory
	}

	dir, err := filepath.Abs(cfg.RootDirectory)
	if err != nil {
		return fmt.Errorf("%w: %w", project.ErrDirectoryCreation, err)
	}

	if info, err := os.Stat(dir); err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%w: %s exists and is not a directory", project.ErrDirectoryCreation, dir)
		}
		log.Debugf("initializer: %s: %v, skipping init", dir, project.ErrDirectoryExists)
		return nil
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", project.ErrCancelled, err)
	}

	progress(Progress{Phase: PhaseCreate, Message: dir})
	if err := os.Mkdir(dir, 0755); err != nil {
		return fmt.Errorf("%w: %w", project.ErrDirectoryCreation, err)
	}

	stopWatch := watchArtifacts(dir, progress)
	defer stopWatch()

	out := newLineWriter(func(line string) {
		progress(Progress{Phase: PhaseRun, Message: line})
	})

	inv := Invocation{
		Command: cfg.ToolCommand,
		Args:    InitArgs(cfg.TemplateKind),
		Dir:     dir,
		Env:     cfg.Env(),
		Output:  out,
	}
	runErr := i.runner.Run(ctx, inv)
	out.Flush()
	stopWatch()

	if runErr != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %s init in %s interrupted: %w", project.ErrCancelled, cfg.ToolCommand, dir, runErr)
		}
		if last := out.Last(); last != "" {
			return fmt.Errorf("%w: %s init in %s: %w (%s)", project.ErrExternalTool, cfg.ToolCommand, dir, runErr, last)
		}
		return fmt.Errorf("%w: %s init in %s: %w", project.ErrExternalTool, cfg.ToolCommand, dir, runErr)
	}

	log.Debugf("initializer: created %s project in %s", cfg.TemplateKind, dir)
	progress(Progress{Phase: PhaseDone, Message: dir})
	return nil
}
