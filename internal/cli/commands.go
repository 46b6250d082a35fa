package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/devenv/internal/commands"
	"github.com/arthur-debert/devenv/internal/version"
	"github.com/arthur-debert/devenv/pkg/activate"
	"github.com/arthur-debert/devenv/pkg/config"
	"github.com/arthur-debert/devenv/pkg/logging"
	"github.com/arthur-debert/devenv/pkg/paths"
	"github.com/arthur-debert/devenv/pkg/resolve"
	"github.com/arthur-debert/devenv/pkg/shellgen"
	"github.com/arthur-debert/devenv/pkg/sniff"
	"github.com/arthur-debert/devenv/pkg/store"
	"github.com/arthur-debert/devenv/pkg/types"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var verbosity int

	rootCmd := &cobra.Command{
		Use:     "devenv",
		Short:   commands.MsgRootShort,
		Long:    commands.MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", commands.MsgFlagVerbose)

	// Add all commands
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newHookCmd())
	rootCmd.AddCommand(newChpwdCmd())
	rootCmd.AddCommand(newOnCmd())
	rootCmd.AddCommand(newOffCmd())
	rootCmd.AddCommand(newInstallCmd())
	rootCmd.AddCommand(newSniffCmd())
	rootCmd.AddCommand(newStatusCmd())

	return rootCmd
}

// newEnv wires the collaborators every environment-touching command
// needs. The machine owns the sniffer, resolver and installer.
func newEnv() (*activate.Machine, paths.Paths, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	p, err := paths.New(cfg.Store.Dir)
	if err != nil {
		return nil, nil, nil, err
	}
	return activate.NewMachine(types.NewOSFS(), p, cfg), p, cfg, nil
}

// currentSession reads DEVENV_SESSION, or returns nil when inactive.
// A corrupt token is treated as inactive; the stale variable is the
// shell's to clean up on the next deactivation.
func currentSession() *types.EnvironmentSession {
	session, err := activate.CurrentSession()
	if err != nil {
		log.Warn().Err(err).Msg("Ignoring corrupt session token")
		return nil
	}
	return session
}

// emit writes shell text to stdout for the caller to eval. stdout is
// reserved for this; everything human-facing goes to stderr.
func emit(text string) {
	if text != "" {
		fmt.Print(text)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: commands.MsgVersionShort,
		Long:  commands.MsgVersionLong,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf(commands.MsgVersionFormat, version.Version)
			if version.Commit != "" {
				fmt.Printf(commands.MsgCommitFormat, version.Commit)
			}
			if version.Date != "" {
				fmt.Printf(commands.MsgBuiltFormat, version.Date)
			}
		},
	}
}

func newHookCmd() *cobra.Command {
	var shell string

	cmd := &cobra.Command{
		Use:   "hook",
		Short: commands.MsgHookShort,
		Long:  commands.MsgHookLong,
		Example: `  # ~/.zshrc
  eval "$(devenv hook --shell zsh)"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			command, err := os.Executable()
			if err != nil {
				command = "devenv"
			}
			script, err := shellgen.HookScript(shell, command)
			if err != nil {
				return err
			}
			writeHookScript(script)
			fmt.Print(script)
			return nil
		},
	}
	cmd.Flags().StringVar(&shell, "shell", "sh", commands.MsgFlagShell)
	return cmd
}

// writeHookScript keeps a copy of the hook under the data dir so users
// can source a file instead of eval'ing the command. Failure here only
// costs the copy, so it is logged and ignored.
func writeHookScript(script string) {
	p, err := paths.New("")
	if err != nil {
		log.Debug().Err(err).Msg("Skipping hook script copy")
		return
	}
	target := p.HookScriptPath()
	if err := os.MkdirAll(p.ShellDir(), 0o755); err != nil {
		log.Debug().Err(err).Str("path", target).Msg("Skipping hook script copy")
		return
	}
	if err := os.WriteFile(target, []byte(script), 0o644); err != nil {
		log.Debug().Err(err).Str("path", target).Msg("Skipping hook script copy")
	}
}

func newChpwdCmd() *cobra.Command {
	var cwd string

	cmd := &cobra.Command{
		Use:    "chpwd",
		Short:  commands.MsgChpwdShort,
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			machine, _, _, err := newEnv()
			if err != nil {
				return hookError(err)
			}
			if cwd == "" {
				cwd, err = os.Getwd()
				if err != nil {
					return hookError(err)
				}
			}

			outcome, err := machine.DirectoryChanged(cmd.Context(), currentSession(), cwd)
			if err != nil {
				return hookError(err)
			}
			emit(outcome.ShellText)
			reportFailures(outcome)
			return nil
		},
	}
	cmd.Flags().StringVar(&cwd, "cwd", "", commands.MsgFlagCwd)
	return cmd
}

func newOnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "on [dir]",
		Short: commands.MsgOnShort,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			machine, _, _, err := newEnv()
			if err != nil {
				return err
			}
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			if session := currentSession(); session != nil {
				// Compose the handover the same way a cd would.
				outcome, err := machine.DirectoryChanged(cmd.Context(), session, dir)
				if err != nil {
					return err
				}
				emit(outcome.ShellText)
				reportFailures(outcome)
				return nil
			}

			outcome, err := machine.Activate(cmd.Context(), dir)
			if err != nil {
				return err
			}
			emit(outcome.ShellText)
			reportFailures(outcome)
			return nil
		},
	}
}

func newOffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "off",
		Short: commands.MsgOffShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			machine, _, _, err := newEnv()
			if err != nil {
				return err
			}
			outcome, err := machine.Deactivate(currentSession())
			if err != nil {
				return err
			}
			emit(outcome.ShellText)
			return nil
		},
	}
}

func newInstallCmd() *cobra.Command {
	var dryRun bool
	var quiet bool

	cmd := &cobra.Command{
		Use:   "install [dir]",
		Short: commands.MsgInstallShort,
		Long:  commands.MsgInstallLong,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, p, cfg, err := newEnv()
			if err != nil {
				return err
			}
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			dir, err = p.NormalizePath(dir)
			if err != nil {
				return err
			}

			return runInstall(cmd, p, cfg, dir, dryRun, quiet)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, commands.MsgFlagDryRun)
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, commands.MsgFlagQuiet)
	return cmd
}

func newSniffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sniff [dir]",
		Short: commands.MsgSniffShort,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			signal, err := sniff.New(types.NewOSFS()).Sniff(dir)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(signal, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: commands.MsgStatusShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			session := currentSession()
			if session == nil {
				fmt.Println(commands.MsgStatusInactive)
				return nil
			}
			fmt.Printf(commands.MsgStatusActive, session.ProjectRoot)
			fmt.Printf(commands.MsgStatusPrefix, session.InstallPrefix)

			prefix := types.InstallationPrefix{Dir: session.InstallPrefix}
			shelves, err := store.Shelves(types.NewOSFS(), prefix)
			if err != nil {
				log.Warn().Err(err).Msg("Could not list installed packages")
				return nil
			}
			if len(shelves) > 0 {
				fmt.Println(commands.MsgStatusInstalled)
				for _, shelf := range shelves {
					fmt.Printf(commands.MsgStatusShelf,
						shelf.Project,
						strings.Join(shelf.Versions, ", "),
						shelf.Command,
						formatAliases(shelf.Aliases))
				}
			}
			return nil
		},
	}
}

// formatAliases renders a shelf's major aliases as " [v18 -> 18.18.0]",
// or empty when the shelf has none.
func formatAliases(aliases map[string]string) string {
	if len(aliases) == 0 {
		return ""
	}
	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	pairs := make([]string, len(names))
	for i, name := range names {
		pairs[i] = fmt.Sprintf("%s -> %s", name, strings.TrimPrefix(aliases[name], "v"))
	}
	return " [" + strings.Join(pairs, ", ") + "]"
}

// hookError downgrades failures on the cd path: a broken resolver must
// never break the user's shell, so chpwd reports to stderr and exits 0.
func hookError(err error) error {
	log.Error().Err(err).Msg("Directory change handling failed")
	fmt.Fprintf(os.Stderr, "devenv: %v\n", err)
	return nil
}

// reportFailures surfaces per-package resolution failures that did not
// abort the activation.
func reportFailures(outcome *activate.Outcome) {
	for _, failure := range outcome.ResolutionFailures {
		fmt.Fprintf(os.Stderr, commands.MsgFailedItem, failure.Project, failure.Err)
		if failure.Suggestion != "" {
			fmt.Fprintf(os.Stderr, commands.MsgSuggestionItem, failure.Suggestion)
		}
	}
	if outcome.Install != nil {
		for _, failure := range outcome.Install.Failed {
			fmt.Fprintf(os.Stderr, commands.MsgFailedItem, failure.Project, failure.Err)
		}
	}
}

// runInstall is the non-activating installation path shared by
// `devenv install` and CI-style prefix warming.
func runInstall(cmd *cobra.Command, p paths.Paths, cfg *config.Config, dir string, dryRun, quiet bool) error {
	fs := types.NewOSFS()

	signal, err := sniff.New(fs).Sniff(dir)
	if err != nil {
		return err
	}
	if signal.Empty() {
		fmt.Fprintln(os.Stderr, commands.MsgNothingDetected)
		return nil
	}

	result, err := resolveSignal(cmd, cfg, signal)
	if err != nil {
		return err
	}

	if dryRun {
		fmt.Println(commands.MsgDryRunNotice)
		for _, pkg := range result.Pkgs {
			fmt.Printf(commands.MsgInstalledItem, pkg.Project, pkg.Version)
		}
		printResolveFailures(result)
		return nil
	}

	prefix, err := p.PrefixFor(dir)
	if err != nil {
		return err
	}
	installed, err := store.NewInstaller(fs, p).Install(result.Pkgs, prefix, result.Env)
	if err != nil {
		return err
	}

	if !quiet {
		for _, project := range installed.Successful {
			fmt.Printf(commands.MsgInstalledProject, project, store.CommandName(project))
		}
	}
	for _, failure := range installed.Failed {
		fmt.Fprintf(os.Stderr, commands.MsgFailedItem, failure.Project, failure.Err)
	}
	printResolveFailures(result)
	return nil
}

func resolveSignal(cmd *cobra.Command, cfg *config.Config, signal types.ManifestSignal) (*resolve.Result, error) {
	return resolve.NewClient(cfg.Resolver).Resolve(cmd.Context(), signal.Pkgs)
}

func printResolveFailures(result *resolve.Result) {
	for _, failure := range result.Failed {
		fmt.Fprintf(os.Stderr, commands.MsgFailedItem, failure.Project, failure.Err)
		if failure.Suggestion != "" {
			fmt.Fprintf(os.Stderr, commands.MsgSuggestionItem, failure.Suggestion)
		}
	}
}
