package activate

import (
	"path/filepath"
	"sort"

	"github.com/arthur-debert/devenv/pkg/errors"
	"github.com/arthur-debert/devenv/pkg/shellgen"
	"github.com/arthur-debert/devenv/pkg/types"
)

// renderActivation builds the eval block for a fresh session: project
// bin dirs prepended to the captured original PATH, manifest exports,
// and the session token that makes the whole thing reversible.
func (m *Machine) renderActivation(session *types.EnvironmentSession, manifestEnv map[string]string, prefix types.InstallationPrefix) (string, error) {
	token, err := EncodeSession(session)
	if err != nil {
		return "", err
	}

	data := shellgen.ActivationData{
		Session: token,
		Path: filepath.Join(prefix.Dir, "bin") + ":" +
			filepath.Join(prefix.Dir, "sbin") + ":" +
			session.OriginalPath,
		Exports: exportVars(manifestEnv),
		Message: m.message("devenv: on (%s)", filepath.Base(session.ProjectRoot)),
	}
	return shellgen.RenderActivation(data)
}

// renderDeactivation builds the eval block that restores the exact
// pre-activation environment recorded in the session.
func (m *Machine) renderDeactivation(session *types.EnvironmentSession, message string) (string, error) {
	data := shellgen.DeactivationData{
		Path:    session.OriginalPath,
		Restore: restoreVars(session.OriginalEnv),
		Message: message,
	}
	text, err := shellgen.RenderDeactivation(data)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrEnvironmentRestore,
			"cannot render restoration for %s", session.ProjectRoot)
	}
	return text, nil
}

func exportVars(env map[string]string) []shellgen.ExportVar {
	names := make([]string, 0, len(env))
	for name := range env {
		names = append(names, name)
	}
	sort.Strings(names)

	vars := make([]shellgen.ExportVar, len(names))
	for i, name := range names {
		// Validated $NAME references stay live so the shell expands
		// them; everything else is quoted to a literal.
		vars[i] = shellgen.ExportVar{Name: name, Value: shellgen.QuoteDoubleRefs(env[name])}
	}
	return vars
}

func restoreVars(backups map[string]types.EnvBackup) []shellgen.RestoreVar {
	names := make([]string, 0, len(backups))
	for name := range backups {
		names = append(names, name)
	}
	sort.Strings(names)

	vars := make([]shellgen.RestoreVar, len(names))
	for i, name := range names {
		b := backups[name]
		vars[i] = shellgen.RestoreVar{
			Name:  name,
			Value: shellgen.QuoteDouble(b.Value),
			Unset: b.Unset,
		}
	}
	return vars
}
