package store

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/devenv/pkg/shellgen"
	"github.com/arthur-debert/devenv/pkg/types"
)

// generateStubs overwrites every published bin/sbin entry of pkg with
// an isolation stub wrapping the real store binary. This runs last:
// whatever symlink the publish step placed at the location is
// replaced, so nothing on the PATH ever points straight into the
// store.
func (i *Installer) generateStubs(pkg types.ResolvedPackage, entryPath string, prefix types.InstallationPrefix, batchEnv map[string][]string) error {
	exports := stubExports(batchEnv, pkg.RuntimeEnv)

	for _, dir := range []string{"bin", "sbin"} {
		for _, entry := range i.binEntries(filepath.Join(entryPath, dir)) {
			target := filepath.Join(entryPath, dir, entry.Name())
			stubPath := filepath.Join(prefix.Dir, dir, entry.Name())

			script, err := shellgen.RenderStub(shellgen.StubData{
				Project: pkg.Project,
				Version: pkg.Version.String(),
				Target:  target,
				Exports: exports,
			})
			if err != nil {
				return err
			}

			if err := i.fs.MkdirAll(filepath.Dir(stubPath), 0755); err != nil {
				return err
			}
			// The publish step may have left a symlink here; stubs are
			// regular files, so clear the slot first.
			if _, err := i.fs.Lstat(stubPath); err == nil {
				if err := i.fs.Remove(stubPath); err != nil {
					return err
				}
			}
			if err := i.fs.WriteFile(stubPath, []byte(script), 0755); err != nil {
				return err
			}

			i.logger.Debug().Str("stub", stubPath).Str("target", target).Msg("Stub written")
		}
	}
	return nil
}

// stubExports composes the export list baked into a stub: batch-level
// env first, then the package's runtime env (later lines win in the
// shell). PATH-like values are prepended to the shadowed original,
// never to whatever PATH the stub found at invocation time.
func stubExports(batchEnv map[string][]string, runtimeEnv map[string]string) []shellgen.ExportVar {
	var exports []shellgen.ExportVar

	for _, name := range sortedKeys(batchEnv) {
		exports = append(exports, exportVar(name, strings.Join(batchEnv[name], ":")))
	}
	for _, name := range sortedKeysS(runtimeEnv) {
		exports = append(exports, exportVar(name, runtimeEnv[name]))
	}
	return exports
}

func exportVar(name, value string) shellgen.ExportVar {
	quoted := shellgen.QuoteDoubleRefs(value)
	if isPathLike(name) {
		ref := originalRef(name)
		// Append the original value only when it is non-empty.
		quoted = quoted + "${" + ref + ":+:${" + ref + "}}"
	}
	return shellgen.ExportVar{Name: name, Value: quoted}
}

// originalRef names the variable holding the pre-stub value: the
// shadow backup for shadowed variables, the variable itself otherwise.
func originalRef(name string) string {
	for _, shadowed := range shellgen.ShadowedVars {
		if name == shadowed {
			return shellgen.ShadowName(name)
		}
	}
	return name
}

func isPathLike(name string) bool {
	return name == "PATH" || strings.HasSuffix(name, "_PATH") || name == "MANPATH" || name == "XDG_DATA_DIRS"
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedKeysS(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
