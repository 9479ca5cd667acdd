// SPDX-License-Identifier: Apache-2.0
package workspace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Work-Fort/Crucible/pkg/config"
	"github.com/Work-Fort/Crucible/pkg/ui"
	"github.com/Work-Fort/Crucible/pkg/workspace"
)

// NewWorkspaceCmd creates the workspace command and its subcommands
func NewWorkspaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workspace",
		Aliases: []string{"ws"},
		Short:   "Manage imported projects",
		Long: `List and forget the projects that 'crucible new' imported.

The workspace is a YAML file (workspace.file setting, default
~/.local/share/crucible/workspace.yaml). Forgetting a project only removes
it from that file; the project directory is left alone.`,
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newForgetCmd())
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List imported projects",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listProjects(os.Stdout, workspace.Open(config.GetWorkspaceFile()))
		},
	}
}

func listProjects(w io.Writer, ws *workspace.Workspace) error {
	projects, err := ws.List()
	if err != nil {
		return err
	}

	theme := config.CurrentTheme
	if len(projects) == 0 {
		fmt.Fprintln(w, "No projects imported")
		fmt.Fprintln(w, theme.SubtleStyle().Render("Create one with: crucible new"))
		return nil
	}

	for _, p := range projects {
		line := fmt.Sprintf("%s  %s  %s", p.Name, p.Dir, theme.SubtleStyle().Render(string(p.Template)))
		if len(p.WorkingSets) > 0 {
			line += theme.SubtleStyle().Render("  [" + strings.Join(p.WorkingSets, ", ") + "]")
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

func newForgetCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "forget <directory>",
		Short: "Remove a project from the workspace",
		Long: `Remove a project from the workspace without touching its files.

Asks for confirmation when stdin is a terminal, unless --yes is given.`,
		Example: `  crucible workspace forget ./inventory
  crucible workspace forget --yes /srv/projects/billing`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}

			if !yes && term.IsTerminal(int(os.Stdin.Fd())) {
				confirmed, err := ui.Confirm(fmt.Sprintf("Forget %s?", dir), "Forget")
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Println("Cancelled")
					return nil
				}
			}

			return forgetProject(os.Stdout, workspace.Open(config.GetWorkspaceFile()), dir)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func forgetProject(w io.Writer, ws *workspace.Workspace, dir string) error {
	removed, err := ws.Forget(dir)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("no imported project at %s", dir)
	}
	fmt.Fprintln(w, config.CurrentTheme.SuccessMessage("Forgot "+dir))
	return nil
}
