// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	configCmd "github.com/Work-Fort/Crucible/cmd/config"
	newcmd "github.com/Work-Fort/Crucible/cmd/new"
	"github.com/Work-Fort/Crucible/cmd/version"
	workspaceCmd "github.com/Work-Fort/Crucible/cmd/workspace"
	"github.com/Work-Fort/Crucible/pkg/config"
	"github.com/Work-Fort/Crucible/pkg/project"
)

var (
	// Version is set at build time via ldflags
	// -ldflags "-X github.com/Work-Fort/Crucible/cmd.Version=x.y.z"
	Version string

	logLevel string
	useTUI   bool
)

var rootCmd = &cobra.Command{
	Use:   "crucible",
	Short: "Create build tool projects with a preview wizard",
	Long: `Crucible - new project wizard for Gradle builds

Walks through location, template and build tool options, previews the
generated project by running the build tool's init command, and imports the
result into a workspace. Leaving the preview removes what it created.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.InitDirs(); err != nil {
			return err
		}
		if err := config.LoadConfig(); err != nil {
			return err
		}

		// Flags are bound to Viper, so these reflect flag > env > files > defaults
		useTUI = config.GetUseTUI()
		logLevel = config.GetLogLevel()

		if logLevel == "disabled" {
			log.SetOutput(io.Discard)
			return nil
		}

		level, err := log.ParseLevel(logLevel)
		if err != nil {
			level = log.InfoLevel
		}

		// Always log to file in JSON format
		f, err := os.OpenFile(config.GlobalPaths.LogFile(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}

		log.SetDefault(log.NewWithOptions(f, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "2006-01-02T15:04:05.000Z07:00",
			Level:           level,
			ReportCaller:    true,
			Formatter:       log.JSONFormatter,
		}))

		return nil
	},
}

// Execute runs the root command and exits non-zero on error
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		errorStyle := config.CurrentTheme.ErrorStyle()
		fmt.Fprintf(os.Stderr, "%s %s\n", errorStyle.Render("Error:"), project.Pretty(err))
		os.Exit(1)
	}
}

func init() {
	// Redirected to the log file in PersistentPreRunE
	log.SetReportTimestamp(false)
	log.SetLevel(log.InfoLevel)

	config.InitViper()

	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "Log level: disabled, debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&useTUI, "use-tui", true, "Use the tabbed wizard in interactive sessions")

	if err := config.BindFlags(rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(newcmd.NewNewCmd())
	rootCmd.AddCommand(workspaceCmd.NewWorkspaceCmd())
	rootCmd.AddCommand(configCmd.NewConfigCmd())
	rootCmd.AddCommand(version.NewVersionCmd(Version))

	rootCmd.SetHelpFunc(styledHelpFunc)
	rootCmd.SetUsageFunc(styledUsageFunc)
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	// Linux shells only
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	initCompletionCmd()
}

// initCompletionCmd adds completion scripts for bash, zsh and fish
func initCompletionCmd() {
	completionCmd := &cobra.Command{
		Use:   "completion",
		Short: "Generate the autocompletion script for the specified shell",
		Long: fmt.Sprintf(`Generate the autocompletion script for %[1]s.

To load completions in your current shell session:

	source <(%[1]s completion bash)
	source <(%[1]s completion zsh)
	%[1]s completion fish | source
`, rootCmd.Name()),
		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
	}

	var noDesc bool
	shells := []struct {
		name string
		gen  func(cmd *cobra.Command) error
	}{
		{"bash", func(cmd *cobra.Command) error { return cmd.Root().GenBashCompletionV2(os.Stdout, !noDesc) }},
		{"zsh", func(cmd *cobra.Command) error {
			if noDesc {
				return cmd.Root().GenZshCompletionNoDesc(os.Stdout)
			}
			return cmd.Root().GenZshCompletion(os.Stdout)
		}},
		{"fish", func(cmd *cobra.Command) error { return cmd.Root().GenFishCompletion(os.Stdout, !noDesc) }},
	}

	for _, shell := range shells {
		gen := shell.gen
		sub := &cobra.Command{
			Use:                   shell.name,
			Short:                 fmt.Sprintf("Generate the autocompletion script for %s", shell.name),
			Args:                  cobra.NoArgs,
			DisableFlagsInUseLine: true,
			ValidArgsFunction:     cobra.NoFileCompletions,
			RunE: func(cmd *cobra.Command, args []string) error {
				return gen(cmd)
			},
		}
		sub.Flags().BoolVar(&noDesc, "no-descriptions", false, "disable completion descriptions")
		completionCmd.AddCommand(sub)
	}
	rootCmd.AddCommand(completionCmd)
}

// styledHelpFunc renders help output as markdown through glamour
func styledHelpFunc(cmd *cobra.Command, args []string) {
	renderMarkdown(generateHelpMarkdown(cmd))
}

// styledUsageFunc renders usage output as markdown through glamour
func styledUsageFunc(cmd *cobra.Command) error {
	var md strings.Builder
	writeSections(&md, cmd, "###")
	renderMarkdown("## Usage\n\n" + md.String())
	return nil
}

// generateHelpMarkdown creates markdown for the help output
func generateHelpMarkdown(cmd *cobra.Command) string {
	var md strings.Builder

	fmt.Fprintf(&md, "# %s\n\n", cmd.Name())
	if cmd.Long != "" {
		fmt.Fprintf(&md, "%s\n\n", cmd.Long)
	} else if cmd.Short != "" {
		fmt.Fprintf(&md, "%s\n\n", cmd.Short)
	}

	if len(cmd.Aliases) > 0 {
		fmt.Fprintf(&md, "## Aliases\n\n`%s`\n\n", strings.Join(cmd.Aliases, "`, `"))
	}
	if cmd.Example != "" {
		fmt.Fprintf(&md, "## Examples\n\n```\n%s\n```\n\n", cmd.Example)
	}

	writeSections(&md, cmd, "##")
	fmt.Fprintf(&md, "Use `%s [command] --help` for more information about a command.\n", cmd.CommandPath())
	return md.String()
}

// writeSections writes usage, subcommands and flags under headings of the given level
func writeSections(md *strings.Builder, cmd *cobra.Command, heading string) {
	if cmd.Runnable() {
		fmt.Fprintf(md, "%s Usage\n\n```\n%s\n```\n\n", heading, cmd.UseLine())
	}

	var subs []string
	for _, sub := range cmd.Commands() {
		if sub.IsAvailableCommand() && !sub.IsAdditionalHelpTopicCommand() {
			subs = append(subs, fmt.Sprintf("- **%s** - %s", sub.Name(), sub.Short))
		}
	}
	if len(subs) > 0 {
		fmt.Fprintf(md, "%s Available Commands\n\n%s\n\n", heading, strings.Join(subs, "\n"))
	}

	if cmd.HasAvailableLocalFlags() {
		fmt.Fprintf(md, "%s Flags\n\n```\n%s\n```\n\n", heading, cmd.LocalFlags().FlagUsages())
	}
	if cmd.HasAvailableInheritedFlags() {
		fmt.Fprintf(md, "%s Global Flags\n\n```\n%s\n```\n\n", heading, cmd.InheritedFlags().FlagUsages())
	}
}

// renderMarkdown renders markdown through glamour at the terminal width
func renderMarkdown(markdown string) {
	width := 100
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			width = w
		}
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		fmt.Println(markdown)
		return
	}

	rendered, err := r.Render(markdown)
	if err != nil {
		fmt.Println(markdown)
		return
	}
	fmt.Println(strings.TrimRight(rendered, " \n"))
}
