// SPDX-License-Identifier: Apache-2.0
package new

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Work-Fort/Crucible/pkg/config"
	"github.com/Work-Fort/Crucible/pkg/initializer"
	"github.com/Work-Fort/Crucible/pkg/preview"
	"github.com/Work-Fort/Crucible/pkg/project"
	"github.com/Work-Fort/Crucible/pkg/workspace"
)

// newFlags holds the command line values that seed the configuration
type newFlags struct {
	Template    string
	WorkingSets []string
	Tool        string
}

var flags newFlags

// NewNewCmd creates the new command
func NewNewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new [directory]",
		Short: "Create a new project with the build tool",
		Long: `Create a new project by running the build tool's init command and add it
to the workspace.

Interactive mode (default when stdin is a terminal and use-tui is true):
  Opens a tabbed wizard. Moving to the Preview tab creates the project so
  you can inspect it; going back to Options or cancelling deletes it again.
  Enter on the Preview tab finishes and imports the project.

Prompt mode (stdin is a terminal and use-tui is false):
  Asks for the location and options, then creates and imports the project.

Non-interactive mode (stdin is not a terminal):
  The directory argument is required. The project is created with the
  template from --template or the project.template setting.`,
		Example: `  # Wizard
  crucible new

  # Skip the questions
  crucible new ./inventory --template kotlin-library < /dev/null

  # Record the project in working sets
  crucible new ./billing --working-set backend --working-set payments

  # Use the project's wrapper instead of gradle on PATH
  crucible new ./tools --tool ./gradlew`,
		Args: cobra.MaximumNArgs(1),
		RunE: runNew,
	}

	cmd.Flags().StringVarP(&flags.Template, "template", "t", "", "Project template (default from project.template)")
	cmd.Flags().StringArrayVarP(&flags.WorkingSets, "working-set", "w", nil, "Working set to add the project to (repeatable)")
	cmd.Flags().StringVar(&flags.Tool, "tool", "", "Build tool executable (default from build-tool.command)")

	_ = cmd.RegisterFlagCompletionFunc("template", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return project.TemplateNames(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// runNew is the cobra RunE handler
func runNew(cmd *cobra.Command, args []string) error {
	cfg, err := seedConfiguration(args, flags)
	if err != nil {
		return err
	}

	ws := workspace.Open(config.GetWorkspaceFile())
	opts := sessionOptions{
		Importer:    ws,
		CacheTTL:    config.GetEnvironmentCacheTTL(),
		ShowWelcome: config.GetShowWelcome(),
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	switch {
	case shouldUseTUI():
		return runInteractive(os.Stdout, cfg, opts, ws.Path())
	case isInteractive():
		return runPrompt(ctx, os.Stdout, cfg, opts, ws.Path())
	default:
		return runNonInteractive(ctx, os.Stdout, cfg, opts, ws.Path())
	}
}

// isInteractive reports whether stdin is a terminal (TTY)
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// shouldUseTUI returns true when stdin is a TTY AND use-tui is enabled in config
func shouldUseTUI() bool {
	return isInteractive() && config.GetUseTUI()
}

// seedConfiguration builds the wizard configuration from settings and flags.
// Flags win over settings.
func seedConfiguration(args []string, f newFlags) (*project.Configuration, error) {
	cfg := project.NewConfiguration()

	template := config.GetTemplate()
	if f.Template != "" {
		kind, err := project.ParseTemplateKind(f.Template)
		if err != nil {
			return nil, err
		}
		template = kind
	}
	cfg.TemplateKind.Set(template)

	tool := config.GetToolCommand()
	if f.Tool != "" {
		tool = f.Tool
	}
	cfg.ToolCommand.Set(tool)
	cfg.JavaHome.Set(config.GetJavaHome())
	cfg.ToolUserHome.Set(config.GetToolUserHome())

	if len(args) > 0 {
		cfg.RootDirectory.Set(args[0])
	}
	cfg.Seed(f.WorkingSets)
	return cfg, nil
}

// runInteractive launches the Bubble Tea TUI wizard
func runInteractive(w io.Writer, cfg *project.Configuration, opts sessionOptions, workspacePath string) error {
	s := newSession(cfg, opts)
	savePreference := func(show bool) error {
		return config.SetConfigValue("wizard.show-welcome", strconv.FormatBool(show), config.ScopeUser)
	}

	p := tea.NewProgram(NewWizardModel(s, savePreference), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		s.orch.Cancel()
		return fmt.Errorf("wizard failed: %w", err)
	}

	if m, ok := final.(WizardModel); ok && m.outcome == outcomeFinished {
		printCreated(w, cfg.ToBuildConfig(), workspacePath)
		return nil
	}

	// Any other exit counts as cancel
	s.orch.Cancel()
	fmt.Fprintln(w, config.CurrentTheme.SubtleStyle().Render("Cancelled, nothing was created"))
	return nil
}

// runPrompt asks the define and options questions in sequence, then finishes
func runPrompt(ctx context.Context, w io.Writer, cfg *project.Configuration, opts sessionOptions, workspacePath string) error {
	s := newSession(cfg, opts)

	for _, tab := range []*formTab{newDefineTab(cfg), newOptionsTab(cfg)} {
		if err := tab.build().RunWithContext(ctx); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return project.ErrCancelled
			}
			return err
		}
		tab.submit()
	}

	return finish(ctx, w, s, workspacePath)
}

// runNonInteractive creates the project described by cfg without prompting
func runNonInteractive(ctx context.Context, w io.Writer, cfg *project.Configuration, opts sessionOptions, workspacePath string) error {
	if cfg.RootDirectory.Get() == "" {
		return fmt.Errorf("%w: pass the project directory as an argument", project.ErrMissingRootDirectory)
	}
	return finish(ctx, w, newSession(cfg, opts), workspacePath)
}

// finish runs the finish action and streams tool output to w
func finish(ctx context.Context, w io.Writer, s *session, workspacePath string) error {
	theme := config.CurrentTheme
	var mu sync.Mutex
	progress := func(p initializer.Progress) {
		mu.Lock()
		defer mu.Unlock()
		switch p.Phase {
		case initializer.PhaseCreate:
			fmt.Fprintln(w, theme.InfoMessage("Creating "+p.Message))
		case initializer.PhaseRun:
			fmt.Fprintln(w, theme.SubtleStyle().Render("  "+p.Message))
		}
	}

	if err := s.orch.Finish(ctx, progress); err != nil {
		return err
	}
	printCreated(w, s.config.ToBuildConfig(), workspacePath)
	return nil
}

// printCreated reports the created project and what to do next
func printCreated(w io.Writer, cfg project.BuildConfig, workspacePath string) {
	theme := config.CurrentTheme
	dir, err := filepath.Abs(cfg.RootDirectory)
	if err != nil {
		dir = cfg.RootDirectory
	}

	fmt.Fprintln(w, theme.SuccessMessage("Project created successfully"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, theme.Mark(true)+" "+dir)
	fmt.Fprintln(w, theme.Mark(true)+" "+cfg.TemplateKind.Title())
	if model, err := preview.ReadModel(dir); err == nil && len(model.Subprojects) > 0 {
		fmt.Fprintln(w, theme.Mark(true)+" subprojects: "+strings.Join(model.Subprojects, ", "))
	}
	fmt.Fprintln(w, theme.Mark(true)+" imported into "+workspacePath)
	if cfg.ApplyWorkingSets && len(cfg.WorkingSets) > 0 {
		fmt.Fprintln(w, theme.Mark(true)+" working sets: "+strings.Join(cfg.WorkingSets, ", "))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Next steps:")
	fmt.Fprintf(w, "  1. cd %s\n", dir)
	fmt.Fprintf(w, "  2. %s build\n", cfg.ToolCommand)
}
