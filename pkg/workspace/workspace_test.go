// SPDX-License-Identifier: Apache-2.0
package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Work-Fort/Crucible/pkg/project"
)

func newTestWorkspace(t *testing.T) *Workspace {
	t.Helper()
	w := Open(filepath.Join(t.TempDir(), "state", "workspace.yaml"))
	w.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return w
}

func makeProject(t *testing.T, settings string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "proj")
	require.NoError(t, os.Mkdir(dir, 0755))
	if settings != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.gradle"), []byte(settings), 0644))
	}
	return dir
}

func TestImport_New(t *testing.T) {
	w := newTestWorkspace(t)
	dir := makeProject(t, "rootProject.name = 'billing'\n")

	cfg := project.BuildConfig{
		RootDirectory:    dir,
		TemplateKind:     project.TemplateJavaLibrary,
		WorkingSets:      []string{"backend"},
		ApplyWorkingSets: true,
	}
	require.NoError(t, w.Import(context.Background(), cfg))

	projects, err := w.List()
	require.NoError(t, err)
	require.Len(t, projects, 1)
	require.Equal(t, "billing", projects[0].Name)
	require.Equal(t, dir, projects[0].Dir)
	require.Equal(t, []string{"backend"}, projects[0].WorkingSets)
	require.Equal(t, 2024, projects[0].ImportedAt.Year())
	require.True(t, projects[0].UpdatedAt.IsZero())
}

func TestImport_Merge(t *testing.T) {
	w := newTestWorkspace(t)
	dir := makeProject(t, "")

	first := project.BuildConfig{
		RootDirectory:    dir,
		TemplateKind:     project.TemplateJavaLibrary,
		WorkingSets:      []string{"a", "b"},
		ApplyWorkingSets: true,
	}
	second := project.BuildConfig{
		RootDirectory:    dir,
		TemplateKind:     project.TemplateKotlinLibrary,
		WorkingSets:      []string{"b", "c"},
		ApplyWorkingSets: true,
	}
	require.NoError(t, w.Import(context.Background(), first))
	require.NoError(t, w.Import(context.Background(), second))

	projects, err := w.List()
	require.NoError(t, err)
	require.Len(t, projects, 1)
	require.Equal(t, "proj", projects[0].Name, "name falls back to the directory")
	require.Equal(t, project.TemplateKotlinLibrary, projects[0].Template)
	require.Equal(t, []string{"a", "b", "c"}, projects[0].WorkingSets)
	require.False(t, projects[0].UpdatedAt.IsZero())
}

func TestImport_WorkingSetsIgnoredUnlessApplied(t *testing.T) {
	w := newTestWorkspace(t)
	dir := makeProject(t, "")

	require.NoError(t, w.Import(context.Background(), project.BuildConfig{
		RootDirectory: dir,
		TemplateKind:  project.TemplateBasic,
		WorkingSets:   []string{"ignored"},
	}))

	projects, err := w.List()
	require.NoError(t, err)
	require.Empty(t, projects[0].WorkingSets)
}

func TestImport_Errors(t *testing.T) {
	w := newTestWorkspace(t)
	require.ErrorIs(t, w.Import(context.Background(), project.BuildConfig{}), project.ErrMissingRootDirectory)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, w.Import(ctx, project.BuildConfig{RootDirectory: "x"}), project.ErrCancelled)
}

func TestList_MissingFileIsEmpty(t *testing.T) {
	projects, err := newTestWorkspace(t).List()
	require.NoError(t, err)
	require.Empty(t, projects)
}

func TestList_CorruptFile(t *testing.T) {
	w := newTestWorkspace(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(w.Path()), 0755))
	require.NoError(t, os.WriteFile(w.Path(), []byte("projects: [unclosed"), 0644))

	_, err := w.List()
	require.Error(t, err)
}

func TestForget(t *testing.T) {
	w := newTestWorkspace(t)
	keep := makeProject(t, "rootProject.name = 'keep'\n")
	drop := makeProject(t, "rootProject.name = 'drop'\n")

	for _, dir := range []string{keep, drop} {
		require.NoError(t, w.Import(context.Background(), project.BuildConfig{RootDirectory: dir, TemplateKind: project.TemplateBasic}))
	}

	removed, err := w.Forget(drop)
	require.NoError(t, err)
	require.True(t, removed)
	require.DirExists(t, drop, "forget leaves files on disk")

	removed, err = w.Forget(drop)
	require.NoError(t, err)
	require.False(t, removed)

	projects, err := w.List()
	require.NoError(t, err)
	require.Len(t, projects, 1)
	require.Equal(t, "keep", projects[0].Name)
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	w := newTestWorkspace(t)
	dir := makeProject(t, "")
	require.NoError(t, w.Import(context.Background(), project.BuildConfig{RootDirectory: dir, TemplateKind: project.TemplateBasic}))

	entries, err := os.ReadDir(filepath.Dir(w.Path()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "workspace.yaml", entries[0].Name())
}
