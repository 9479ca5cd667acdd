// SPDX-License-Identifier: Apache-2.0
package new

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Work-Fort/Crucible/pkg/initializer/initializertest"
	"github.com/Work-Fort/Crucible/pkg/project"
	"github.com/Work-Fort/Crucible/pkg/wizard"
	"github.com/Work-Fort/Crucible/pkg/workspace"
)

func TestSeedConfiguration(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		flags    newFlags
		wantErr  error
		template project.TemplateKind
		tool     string
		root     string
		sets     []string
		apply    bool
	}{
		{
			name:     "defaults",
			template: project.DefaultTemplate,
			tool:     project.DefaultToolCommand,
		},
		{
			name:     "flags override settings",
			args:     []string{"./demo"},
			flags:    newFlags{Template: "kotlin-library", Tool: "./gradlew"},
			template: project.TemplateKotlinLibrary,
			tool:     "./gradlew",
			root:     "./demo",
		},
		{
			name:     "working sets are seeded",
			args:     []string{"./demo"},
			flags:    newFlags{WorkingSets: []string{"backend", "payments"}},
			template: project.DefaultTemplate,
			tool:     project.DefaultToolCommand,
			root:     "./demo",
			sets:     []string{"backend", "payments"},
			apply:    true,
		},
		{
			name:    "unknown template",
			flags:   newFlags{Template: "kotlin-libary"},
			wantErr: project.ErrUnknownTemplate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := seedConfiguration(tt.args, tt.flags)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.template, cfg.TemplateKind.Get())
			require.Equal(t, tt.tool, cfg.ToolCommand.Get())
			require.Equal(t, tt.root, cfg.RootDirectory.Get())
			require.Equal(t, tt.sets, cfg.WorkingSets.Get())
			require.Equal(t, tt.apply, cfg.ApplyWorkingSets.Get())
		})
	}
}

func TestSplitList(t *testing.T) {
	require.Equal(t, []string{"a", "b"}, splitList(" a, ,b,a "))
	require.Nil(t, splitList(""))
}

func TestRunNonInteractive(t *testing.T) {
	root := filepath.Join(t.TempDir(), "proj")
	wsPath := filepath.Join(t.TempDir(), "workspace.yaml")
	ws := workspace.Open(wsPath)
	runner := initializertest.NewFakeRunner()
	runner.Output = []string{"> Task :init"}

	cfg := project.NewConfiguration()
	cfg.RootDirectory.Set(root)
	cfg.Seed([]string{"backend"})

	var out bytes.Buffer
	err := runNonInteractive(context.Background(), &out, cfg, sessionOptions{Runner: runner, Importer: ws}, wsPath)
	require.NoError(t, err)

	require.Contains(t, out.String(), "> Task :init")
	require.Contains(t, out.String(), "Project created successfully")
	require.Contains(t, out.String(), "subprojects: lib")
	require.Contains(t, out.String(), "working sets: backend")

	projects, err := ws.List()
	require.NoError(t, err)
	require.Len(t, projects, 1)
	require.Equal(t, "demo", projects[0].Name)
	require.Equal(t, []string{"backend"}, projects[0].WorkingSets)
}

func TestRunNonInteractive_MissingDirectory(t *testing.T) {
	err := runNonInteractive(context.Background(), &bytes.Buffer{}, project.NewConfiguration(),
		sessionOptions{Runner: initializertest.NewFakeRunner(), Importer: &recordingImporter{}}, "")
	require.ErrorIs(t, err, project.ErrMissingRootDirectory)
}

func TestRunNonInteractive_ToolFailure(t *testing.T) {
	root := filepath.Join(t.TempDir(), "proj")
	runner := initializertest.NewFakeRunner()
	runner.Err = initializertest.ErrToolFailed
	importer := &recordingImporter{}

	cfg := project.NewConfiguration()
	cfg.RootDirectory.Set(root)

	err := runNonInteractive(context.Background(), &bytes.Buffer{}, cfg, sessionOptions{Runner: runner, Importer: importer}, "")
	require.ErrorIs(t, err, project.ErrExternalTool)
	require.Zero(t, importer.count())
}

func TestSession_CanSelect(t *testing.T) {
	f := newFixture(t, true)
	s := f.session

	require.Equal(t, wizard.StageWelcome, s.stage)
	require.False(t, s.canSelect(wizard.StageWelcome), "already there")
	require.True(t, s.canSelect(wizard.StageOptions))
	require.False(t, s.canSelect(wizard.StagePreview), "no location yet")

	s.config.RootDirectory.Set(f.root)
	require.True(t, s.canSelect(wizard.StagePreview))

	s.stage = wizard.StagePreview
	require.True(t, s.canSelect(wizard.StageOptions))
	require.False(t, s.canSelect(wizard.StageDefine))
	require.False(t, s.canSelect(wizard.StageWelcome))
}
