package commands

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort    = "Per-project development environment activation"
	MsgVersionShort = "Print version information"
	MsgVersionLong  = "Print detailed version information including commit hash and build date"
	MsgOnShort      = "Activate the environment for a project directory"
	MsgOffShort     = "Deactivate the current project environment"
	MsgInstallShort = "Resolve and install a project's packages without activating"
	MsgSniffShort   = "Show the package requirements detected in a directory"
	MsgStatusShort  = "Show the active environment session, if any"
	MsgHookShort    = "Print the shell hook for your shell's rc file"
	MsgChpwdShort   = "Handle a directory change event (called by the shell hook)"

	// Long messages
	MsgRootLong = `devenv keeps per-project developer tools on your PATH. It reads the
manifest files a project already has (package.json, .nvmrc, Gemfile,
pkgx.yaml and friends), installs the matching tool versions into a
per-project prefix, and activates or deactivates that prefix as you
cd in and out of the project.`
	MsgHookLong = `hook prints a small shell snippet that runs devenv on every directory
change. Add it to your rc file:

  eval "$(devenv hook --shell zsh)"   # ~/.zshrc
  eval "$(devenv hook --shell bash)"  # ~/.bashrc`
	MsgInstallLong = `install sniffs the directory's manifests, resolves the requirements and
installs the packages into the project prefix. Nothing is activated;
use it to warm a prefix ahead of time or from CI.`

	// Status output
	MsgStatusInactive  = "no active environment"
	MsgStatusActive    = "active: %s\n"
	MsgStatusPrefix    = "prefix: %s\n"
	MsgStatusInstalled = "installed:"
	MsgStatusShelf     = "  %s %s (%s)%s\n"
	MsgDryRunNotice    = "DRY RUN MODE - No changes were made"
	MsgNothingDetected = "no package requirements detected"
	MsgInstalledItem    = "  ✓ %s@%s\n"
	MsgInstalledProject = "  ✓ %s (%s)\n"
	MsgFailedItem      = "  ✗ %s: %v\n"
	MsgSuggestionItem  = "    did you mean %s?\n"

	// Version output
	MsgVersionFormat = "devenv version %s\n"
	MsgCommitFormat  = "Commit: %s\n"
	MsgBuiltFormat   = "Built:  %s\n"

	// Flag descriptions
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun  = "Resolve only; show what would be installed"
	MsgFlagQuiet   = "Suppress per-package progress output"
	MsgFlagShell   = "Shell dialect to emit (zsh, bash, sh)"
	MsgFlagCwd     = "Directory the shell changed into"
)
