// Package activate implements the shell-side control loop: on every
// directory change it decides whether to activate, deactivate, switch
// or leave the project environment alone, and emits the shell text
// that carries the decision out. The shell evaluates that text; this
// package owns the session record that makes the mutation reversible.
package activate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/devenv/pkg/config"
	"github.com/arthur-debert/devenv/pkg/errors"
	"github.com/arthur-debert/devenv/pkg/logging"
	"github.com/arthur-debert/devenv/pkg/paths"
	"github.com/arthur-debert/devenv/pkg/resolve"
	"github.com/arthur-debert/devenv/pkg/sniff"
	"github.com/arthur-debert/devenv/pkg/store"
	"github.com/arthur-debert/devenv/pkg/types"
)

// Outcome is the result of one activation-machine event: the shell
// text to evaluate (possibly empty for a no-op) plus what happened,
// for CLI reporting.
type Outcome struct {
	ShellText   string
	Activated   bool
	Deactivated bool
	Project     string

	Install            *store.Result
	ResolutionFailures []resolve.Failure
}

// Machine is the activation state machine. State is Inactive (nil
// session) or Active (one session); events arrive via
// DirectoryChanged, Activate and Deactivate.
type Machine struct {
	fs        types.FS
	paths     paths.Paths
	sniffer   *sniff.Sniffer
	resolver  *resolve.Client
	installer *store.Installer
	cfg       *config.Config
	logger    zerolog.Logger

	// busy blocks recursive event handling: installation may itself
	// trigger directory-dependent calls.
	busy bool
}

// NewMachine wires the machine to its collaborators.
func NewMachine(fs types.FS, p paths.Paths, cfg *config.Config) *Machine {
	return &Machine{
		fs:        fs,
		paths:     p,
		sniffer:   sniff.New(fs),
		resolver:  resolve.NewClient(cfg.Resolver),
		installer: store.NewInstaller(fs, p),
		cfg:       cfg,
		logger:    logging.GetLogger("activate"),
	}
}

// DirectoryChanged handles one shell cd event against the decision
// table. session is the currently active session or nil.
func (m *Machine) DirectoryChanged(ctx context.Context, session *types.EnvironmentSession, newCwd string) (*Outcome, error) {
	if m.busy {
		return &Outcome{}, nil
	}
	m.busy = true
	defer func() { m.busy = false }()

	newCwd, err := m.paths.NormalizePath(newCwd)
	if err != nil {
		return nil, err
	}

	if session != nil {
		return m.activeEvent(ctx, session, newCwd)
	}
	return m.inactiveEvent(ctx, newCwd, nil)
}

// activeEvent applies the Active-state rows of the decision table.
func (m *Machine) activeEvent(ctx context.Context, session *types.EnvironmentSession, newCwd string) (*Outcome, error) {
	hasManifest := m.sniffer.HasManifest(newCwd)

	if session.Degraded() {
		// Compat session without a project root: if we can see a
		// manifest here, rebuild cleanly; otherwise leave it alone.
		if !hasManifest {
			return &Outcome{}, nil
		}
		m.logger.Debug().Msg("Degraded session, rebuilding")
		return m.switchTo(ctx, session, newCwd)
	}

	inside := isSubpath(session.ProjectRoot, newCwd)

	switch {
	case inside && (newCwd == session.ProjectRoot || !hasManifest):
		// Still in the active project.
		return &Outcome{}, nil

	case hasManifest:
		// A nested or sibling project takes over; the handover itself
		// stays quiet.
		return m.switchTo(ctx, session, newCwd)

	case !inside:
		deactivation, err := m.renderDeactivation(session, m.message("devenv: off (%s)", filepath.Base(session.ProjectRoot)))
		if err != nil {
			return nil, err
		}
		return &Outcome{ShellText: deactivation, Deactivated: true}, nil

	default:
		return &Outcome{}, nil
	}
}

// switchTo deactivates silently and re-evaluates the inactive rules
// in newCwd, composing both blocks into one emission. An activation
// failure aborts the whole event, leaving the shell untouched.
func (m *Machine) switchTo(ctx context.Context, session *types.EnvironmentSession, newCwd string) (*Outcome, error) {
	deactivation, err := m.renderDeactivation(session, "")
	if err != nil {
		return nil, err
	}

	outcome, err := m.inactiveEvent(ctx, newCwd, session)
	if err != nil {
		return outcome, err
	}
	outcome.ShellText = deactivation + outcome.ShellText
	outcome.Deactivated = true
	return outcome, nil
}

// inactiveEvent applies the Inactive-state rows. prior is non-nil when
// the event is the second half of a switch.
func (m *Machine) inactiveEvent(ctx context.Context, newCwd string, prior *types.EnvironmentSession) (*Outcome, error) {
	if !m.sniffer.HasManifest(newCwd) {
		return &Outcome{}, nil
	}
	return m.activate(ctx, newCwd, prior)
}

// Activate is the explicit `devenv on` entry point.
func (m *Machine) Activate(ctx context.Context, dir string) (*Outcome, error) {
	dir, err := m.paths.NormalizePath(dir)
	if err != nil {
		return nil, err
	}
	return m.activate(ctx, dir, nil)
}

// Deactivate is the explicit `devenv off` entry point.
func (m *Machine) Deactivate(session *types.EnvironmentSession) (*Outcome, error) {
	if session == nil {
		return &Outcome{}, nil
	}
	text, err := m.renderDeactivation(session, m.message("devenv: off"))
	if err != nil {
		return nil, err
	}
	return &Outcome{ShellText: text, Deactivated: true}, nil
}

// activate builds the new session and its shell block. prior is a
// session being replaced in the same emission; its captured originals
// are the baseline, so a switch never snapshots the outgoing
// project's mutated environment as "original".
func (m *Machine) activate(ctx context.Context, projectRoot string, prior *types.EnvironmentSession) (*Outcome, error) {
	prefix, err := m.paths.PrefixFor(projectRoot)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{Project: filepath.Base(projectRoot)}
	var manifestEnv map[string]string

	if store.PrefixPopulated(m.fs, prefix) {
		// Fast path: everything is already installed and published;
		// activation is a pure PATH mutation.
		m.logger.Debug().Str("prefix", prefix.Dir).Msg("Prefix populated, fast path")
	} else {
		signal, err := m.sniffer.Sniff(projectRoot)
		if err != nil {
			return nil, err
		}
		if signal.Empty() {
			return &Outcome{}, nil
		}

		result, err := m.resolver.Resolve(ctx, signal.Pkgs)
		if err != nil {
			return nil, err
		}
		outcome.ResolutionFailures = result.Failed

		installResult, err := m.installer.Install(result.Pkgs, prefix, result.Env)
		outcome.Install = installResult
		if err != nil {
			// Zero packages made it: stay Inactive, shell untouched.
			return outcome, err
		}
		if len(result.Pkgs) == 0 && len(result.Failed) > 0 {
			return outcome, resolutionOnlyError(result.Failed)
		}
		manifestEnv = signal.Env
	}

	session := m.buildSession(projectRoot, prefix, manifestEnv, prior)
	text, err := m.renderActivation(session, manifestEnv, prefix)
	if err != nil {
		return nil, err
	}

	outcome.ShellText = text
	outcome.Activated = true
	return outcome, nil
}

// buildSession captures the restoration targets. The PATH snapshot is
// taken exactly once per shell: a prior session's original wins over
// whatever the (already mutated) current environment says.
func (m *Machine) buildSession(projectRoot string, prefix types.InstallationPrefix, manifestEnv map[string]string, prior *types.EnvironmentSession) *types.EnvironmentSession {
	session := &types.EnvironmentSession{
		ProjectRoot:   projectRoot,
		InstallPrefix: prefix.Dir,
		OriginalPath:  baselinePath(prior),
		OriginalEnv:   make(map[string]types.EnvBackup, len(manifestEnv)),
	}

	for name := range manifestEnv {
		session.OriginalEnv[name] = baselineEnv(prior, name)
	}
	return session
}

func baselinePath(prior *types.EnvironmentSession) string {
	if prior != nil {
		return prior.OriginalPath
	}
	return os.Getenv("PATH")
}

func baselineEnv(prior *types.EnvironmentSession, name string) types.EnvBackup {
	if prior != nil {
		if backup, ok := prior.OriginalEnv[name]; ok {
			return backup
		}
	}
	if value, ok := os.LookupEnv(name); ok {
		return types.EnvBackup{Value: value}
	}
	return types.EnvBackup{Unset: true}
}

// message formats a user-visible line unless quiet mode is on.
func (m *Machine) message(format string, args ...interface{}) string {
	if m.cfg.Activation.Quiet {
		return ""
	}
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// resolutionOnlyError covers the case where every requested package
// failed to resolve: there is nothing to install and nothing to
// activate, so the event surfaces the failures instead.
func resolutionOnlyError(failed []resolve.Failure) error {
	specs := make([]string, len(failed))
	for i, f := range failed {
		specs[i] = f.Project
	}
	return errors.Newf(errors.ErrResolutionFailed,
		"no packages resolved: %s", strings.Join(specs, ", "))
}

// isSubpath reports whether child is root or inside root's subtree.
func isSubpath(root, child string) bool {
	if root == "" {
		return false
	}
	rel, err := filepath.Rel(root, child)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel))
}
