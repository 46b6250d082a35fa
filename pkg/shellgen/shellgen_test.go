// pkg/shellgen/shellgen_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: POSIX sh on PATH (stub execution tests)
// PURPOSE: Test shell artifact rendering, quoting and stub behavior

package shellgen

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteDouble(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`plain`, `plain`},
		{`with space`, `with space`},
		{`a"b`, `a\"b`},
		{`$HOME`, `\$HOME`},
		{"back`tick", "back\\`tick"},
		{`back\slash`, `back\\slash`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, QuoteDouble(tt.in), "input %q", tt.in)
	}
}

func TestQuoteDoubleRefs(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`plain`, `plain`},
		{`$HOME/x`, `$HOME/x`},
		{`${HOME}/x`, `${HOME}/x`},
		{`a/$FOO_BAR/b`, `a/$FOO_BAR/b`},
		{`$1`, `\$1`}, // positional, not a name
		{`cost $5`, `cost \$5`},
		{`trailing $`, `trailing \$`},
		{`${}`, `\${}`},
		{`${1BAD}`, `\${1BAD}`},
		{`$(cmd)`, `\$(cmd)`},
		{`a"b`, `a\"b`},
		{"back`tick", "back\\`tick"},
		{`back\slash`, `back\\slash`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, QuoteDoubleRefs(tt.in), "input %q", tt.in)
	}
}

func TestRenderStub(t *testing.T) {
	script, err := RenderStub(StubData{
		Project: "nodejs.org",
		Version: "18.17.1",
		Target:  "/store/nodejs.org/v18.17.1/bin/node",
		Exports: []ExportVar{
			{Name: "PATH", Value: "/store/bin${DEVENV_SHADOW_PATH:+:${DEVENV_SHADOW_PATH}}"},
			{Name: "NODE_PATH", Value: "/store/lib"},
		},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(script, "#!/bin/sh\n"))
	assert.Contains(t, script, "nodejs.org@18.17.1")

	// Exactly one trap, installed before any export line.
	assert.Equal(t, 1, strings.Count(script, "trap devenv_restore EXIT"))
	trapAt := strings.Index(script, "trap devenv_restore EXIT")
	pathAt := strings.Index(script, `PATH="/store/bin`)
	require.True(t, trapAt >= 0 && pathAt >= 0)
	assert.Less(t, trapAt, pathAt)

	// Every shadowed variable is backed up and restored.
	for _, name := range ShadowedVars {
		assert.Contains(t, script, "DEVENV_SHADOW_"+name+"=")
		assert.Contains(t, script, "DEVENV_HAD_"+name)
	}

	// The real binary runs as a child so the trap fires, and a missing
	// binary exits 127.
	assert.Contains(t, script, `"/store/nodejs.org/v18.17.1/bin/node" "$@"`)
	assert.NotContains(t, script, "exec ")
	assert.Contains(t, script, "exit 127")
}

func TestRenderStubRejectsBrokenScript(t *testing.T) {
	// An unterminated substitution in a value must fail validation
	// rather than produce a stub that breaks at invocation time.
	_, err := RenderStub(StubData{
		Project: "x",
		Version: "1.0.0",
		Target:  "/t",
		Exports: []ExportVar{{Name: "BAD", Value: `$(oops`}},
	})
	assert.Error(t, err)
}

// writeStub renders a stub for target and writes it executable.
func writeStub(t *testing.T, dir, target string, exports []ExportVar) string {
	t.Helper()
	script, err := RenderStub(StubData{
		Project: "example.org",
		Version: "1.0.0",
		Target:  target,
		Exports: exports,
	})
	require.NoError(t, err)
	stubPath := filepath.Join(dir, "stub")
	require.NoError(t, os.WriteFile(stubPath, []byte(script), 0755))
	return stubPath
}

func TestStubForwardsArgsAndStatus(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real")
	require.NoError(t, os.WriteFile(target, []byte(
		"#!/bin/sh\nfor a in \"$@\"; do printf '%s\\n' \"$a\"; done\nprintf '%s\\n' \"$FOO\"\nexit 3\n",
	), 0755))

	stub := writeStub(t, dir, target, []ExportVar{
		{Name: "FOO", Value: QuoteDoubleRefs("$HOME/x")},
	})

	out, err := exec.Command(stub, "one", "two words").Output()
	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 3, exitErr.ExitCode())

	// Arguments arrive intact and the exported reference was expanded
	// by the shell, not passed through as a literal.
	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	assert.Equal(t, []string{"one", "two words", os.Getenv("HOME") + "/x"}, lines)
}

func TestStubMissingBinaryExits127(t *testing.T) {
	dir := t.TempDir()
	stub := writeStub(t, dir, filepath.Join(dir, "nope"), nil)

	out, err := exec.Command(stub).CombinedOutput()
	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 127, exitErr.ExitCode())
	assert.Contains(t, string(out), "missing store binary")
}

func TestRenderActivation(t *testing.T) {
	script, err := RenderActivation(ActivationData{
		Session: "abc123",
		Path:    "/prefix/bin:/prefix/sbin:/usr/bin",
		Exports: []ExportVar{{Name: "FOO", Value: "bar"}},
		Message: "devenv: on (myapp)",
	})
	require.NoError(t, err)

	assert.Contains(t, script, `DEVENV_SESSION="abc123"; export DEVENV_SESSION`)
	assert.Contains(t, script, `PATH="/prefix/bin:/prefix/sbin:/usr/bin"; export PATH`)
	assert.Contains(t, script, `FOO="bar"; export FOO`)
	assert.Contains(t, script, `echo "devenv: on (myapp)" >&2`)
}

func TestRenderActivationQuietOmitsMessage(t *testing.T) {
	script, err := RenderActivation(ActivationData{Session: "s", Path: "/usr/bin"})
	require.NoError(t, err)
	assert.NotContains(t, script, "echo")
}

func TestRenderDeactivation(t *testing.T) {
	script, err := RenderDeactivation(DeactivationData{
		Path: "/usr/bin:/bin",
		Restore: []RestoreVar{
			{Name: "FOO", Value: "old"},
			{Name: "BAR", Unset: true},
		},
		Message: "devenv: off",
	})
	require.NoError(t, err)

	assert.Contains(t, script, `PATH="/usr/bin:/bin"; export PATH`)
	assert.Contains(t, script, `FOO="old"; export FOO`)
	assert.Contains(t, script, "unset BAR")
	assert.Contains(t, script, "unset DEVENV_SESSION")

	// Restoration must happen before the session variable goes away.
	assert.Less(t, strings.Index(script, `FOO="old"`), strings.Index(script, "unset DEVENV_SESSION"))
}

func TestShadowName(t *testing.T) {
	assert.Equal(t, "DEVENV_SHADOW_PATH", ShadowName("PATH"))
}

func TestHookScript(t *testing.T) {
	for _, shell := range []string{"sh", "bash", "zsh"} {
		script, err := HookScript(shell, "/usr/local/bin/devenv")
		require.NoError(t, err, shell)

		assert.Contains(t, script, "devenv_chpwd()", shell)
		assert.Contains(t, script, "DEVENV_HOOK_RUNNING", shell)
		assert.Contains(t, script, `chpwd --cwd "$PWD"`, shell)
	}

	zsh, err := HookScript("zsh", "devenv")
	require.NoError(t, err)
	assert.Contains(t, zsh, "chpwd_functions")

	bash, err := HookScript("bash", "devenv")
	require.NoError(t, err)
	assert.Contains(t, bash, "PROMPT_COMMAND")

	posix, err := HookScript("sh", "devenv")
	require.NoError(t, err)
	assert.Contains(t, posix, "cd() {")
}

func TestValidateShCatchesGarbage(t *testing.T) {
	assert.Error(t, validateSh("t", "if then fi ((("))
	assert.NoError(t, validateSh("t", "echo ok\n"))
}
