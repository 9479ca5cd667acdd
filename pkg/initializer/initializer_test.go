// SPDX-License-Identifier: Apache-2.0
package initializer_test

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Work-Fort/Crucible/pkg/initializer"
	"github.com/Work-Fort/Crucible/pkg/initializer/initializertest"
	"github.com/Work-Fort/Crucible/pkg/project"
)

func buildConfig(dir string) project.BuildConfig {
	return project.BuildConfig{
		RootDirectory: dir,
		TemplateKind:  project.TemplateJavaLibrary,
		ToolCommand:   "gradle",
	}
}

// snapshotTree lists every path under dir with its contents
func snapshotTree(t require.TestingT, dir string) map[string]string {
	tree := map[string]string{}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(dir, path)
		if d.IsDir() {
			tree[rel+"/"] = ""
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		tree[rel] = string(data)
		return nil
	})
	require.NoError(t, err)
	return tree
}

func TestInitArgs(t *testing.T) {
	require.Equal(t, []string{"init", "--type", "kotlin-library"}, initializer.InitArgs(project.TemplateKotlinLibrary))
}

func TestInitialize_CreatesAndPopulates(t *testing.T) {
	target := filepath.Join(t.TempDir(), "proj")
	runner := initializertest.NewFakeRunner()
	runner.Output = []string{"> Task :init", "BUILD SUCCESSFUL"}

	var mu sync.Mutex
	var events []initializer.Progress
	progress := func(p initializer.Progress) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, p)
	}

	cfg := buildConfig(target)
	cfg.JavaHome = "/opt/jdk"
	err := initializer.New(runner).Initialize(context.Background(), cfg, progress)
	require.NoError(t, err)

	require.FileExists(t, filepath.Join(target, "settings.gradle"))
	require.FileExists(t, filepath.Join(target, "lib", "build.gradle"))

	calls := runner.Calls()
	require.Len(t, calls, 1)
	require.Equal(t, "gradle", calls[0].Command)
	require.Equal(t, []string{"init", "--type", "java-library"}, calls[0].Args)
	require.Equal(t, target, calls[0].Dir)
	require.Contains(t, calls[0].Env, "JAVA_HOME=/opt/jdk")

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, initializer.PhaseCreate, events[0].Phase)
	require.Equal(t, initializer.PhaseDone, events[len(events)-1].Phase)

	var lines []string
	for _, e := range events {
		if e.Phase == initializer.PhaseRun {
			lines = append(lines, e.Message)
		}
	}
	require.Equal(t, []string{"> Task :init", "BUILD SUCCESSFUL"}, lines)
}

func TestInitialize_ExistingDirectoryIsNoop(t *testing.T) {
	target := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(target, "keep.txt"), []byte("mine"), 0644))
	runner := initializertest.NewFakeRunner()

	err := initializer.New(runner).Initialize(context.Background(), buildConfig(target), nil)
	require.NoError(t, err)
	require.Zero(t, runner.InitCalls(), "tool must not run against an existing directory")
	require.Equal(t, map[string]string{"./": "", "keep.txt": "mine"}, snapshotTree(t, target))
}

func TestInitialize_TargetIsFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "proj")
	require.NoError(t, os.WriteFile(target, nil, 0644))

	err := initializer.New(initializertest.NewFakeRunner()).Initialize(context.Background(), buildConfig(target), nil)
	require.ErrorIs(t, err, project.ErrDirectoryCreation)
}

func TestInitialize_MissingParent(t *testing.T) {
	target := filepath.Join(t.TempDir(), "missing", "proj")
	runner := initializertest.NewFakeRunner()

	err := initializer.New(runner).Initialize(context.Background(), buildConfig(target), nil)
	require.ErrorIs(t, err, project.ErrDirectoryCreation)
	require.NoDirExists(t, target)
	require.Zero(t, runner.InitCalls())
}

func TestInitialize_EmptyRootDirectory(t *testing.T) {
	err := initializer.New(initializertest.NewFakeRunner()).Initialize(context.Background(), buildConfig(""), nil)
	require.ErrorIs(t, err, project.ErrMissingRootDirectory)
}

func TestInitialize_ToolFailureKeepsPartialDirectory(t *testing.T) {
	target := filepath.Join(t.TempDir(), "proj")
	runner := initializertest.NewFakeRunner()
	runner.Output = []string{"FAILURE: Build failed with an exception."}
	runner.Err = initializertest.ErrToolFailed

	err := initializer.New(runner).Initialize(context.Background(), buildConfig(target), nil)
	require.ErrorIs(t, err, project.ErrExternalTool)
	require.Contains(t, err.Error(), "FAILURE: Build failed with an exception.")
	require.DirExists(t, target, "cleanup belongs to the caller")
}

func TestInitialize_CancelledBeforeStart(t *testing.T) {
	target := filepath.Join(t.TempDir(), "proj")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := initializer.New(initializertest.NewFakeRunner()).Initialize(ctx, buildConfig(target), nil)
	require.ErrorIs(t, err, project.ErrCancelled)
	require.NoDirExists(t, target)
}

func TestInitialize_CancelledMidRun(t *testing.T) {
	target := filepath.Join(t.TempDir(), "proj")
	runner := initializertest.NewFakeRunner()
	runner.Block = true

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- initializer.New(runner).Initialize(ctx, buildConfig(target), nil)
	}()

	<-runner.Started
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, project.ErrCancelled)
	case <-time.After(5 * time.Second):
		t.Fatal("Initialize did not return after cancellation")
	}
	require.DirExists(t, target, "partial directory is left for compensation")
}

func TestInitialize_Idempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		parent, err := os.MkdirTemp("", "crucible-idem-*")
		require.NoError(t, err)
		defer os.RemoveAll(parent)

		template := rapid.SampledFrom(project.Templates).Draw(t, "template")
		calls := rapid.IntRange(2, 4).Draw(t, "calls")

		runner := initializertest.NewFakeRunner()
		ini := initializer.New(runner)
		cfg := buildConfig(filepath.Join(parent, "proj"))
		cfg.TemplateKind = template

		require.NoError(t, ini.Initialize(context.Background(), cfg, nil))
		first := snapshotTree(t, cfg.RootDirectory)

		for i := 1; i < calls; i++ {
			require.NoError(t, ini.Initialize(context.Background(), cfg, nil))
		}

		require.Equal(t, first, snapshotTree(t, cfg.RootDirectory))
		require.Equal(t, 1, runner.InitCalls())
	})
}

func TestExecRunner_StreamsOutput(t *testing.T) {
	dir := t.TempDir()
	var mu sync.Mutex
	var lines []string
	out := &collectWriter{mu: &mu, lines: &lines}

	err := initializer.ExecRunner{}.Run(context.Background(), initializer.Invocation{
		Command: "sh",
		Args:    []string{"-c", "echo one; echo two >&2; touch made"},
		Dir:     dir,
		Output:  out,
	})
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dir, "made"))

	mu.Lock()
	defer mu.Unlock()
	output := strings.Join(lines, "")
	require.Contains(t, output, "one\n")
	require.Contains(t, output, "two\n")
}

func TestExecRunner_Cancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := initializer.ExecRunner{}.Run(ctx, initializer.Invocation{
		Command: "sh",
		Args:    []string{"-c", "sleep 30"},
		Dir:     t.TempDir(),
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), 10*time.Second)
}

type collectWriter struct {
	mu    *sync.Mutex
	lines *[]string
}

func (w *collectWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	*w.lines = append(*w.lines, string(p))
	return len(p), nil
}
