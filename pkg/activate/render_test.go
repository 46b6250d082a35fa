// pkg/activate/render_test.go
// TEST TYPE: Integration (evaluates emitted blocks through sh)
// DEPENDENCIES: POSIX sh on PATH
// PURPOSE: Test that exported manifest env survives shell evaluation

package activate

import (
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Manifest env values may carry validated $NAME and ${NAME} references;
// those must reach the shell live, while everything else lands literal.
func TestActivationBlockExpandsEnvReferences(t *testing.T) {
	machine, p := newTestMachine(t)
	dir, prefix := newProject(t, p)

	env := map[string]string{
		"WITH_REF":   "$HOME/cache",
		"WITH_BRACE": "${HOME}/data",
		"LITERAL":    "a\"b`c",
	}
	session := machine.buildSession(dir, prefix, env, nil)
	block, err := machine.renderActivation(session, env, prefix)
	require.NoError(t, err)

	out, err := exec.Command("sh", "-c",
		block+`printf '%s\n' "$WITH_REF" "$WITH_BRACE" "$LITERAL"`).Output()
	require.NoError(t, err)

	home := os.Getenv("HOME")
	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	assert.Equal(t, []string{home + "/cache", home + "/data", "a\"b`c"}, lines)
}

// Deactivation restores captured values byte for byte: a '$' captured
// from the original environment is data, never re-expanded.
func TestDeactivationBlockRestoresLiterally(t *testing.T) {
	machine, p := newTestMachine(t)
	dir, prefix := newProject(t, p)

	t.Setenv("KEPT", "$HOME/literal")
	session := machine.buildSession(dir, prefix, map[string]string{"KEPT": "x"}, nil)
	block, err := machine.renderDeactivation(session, "")
	require.NoError(t, err)

	out, err := exec.Command("sh", "-c", block+`printf '%s' "$KEPT"`).Output()
	require.NoError(t, err)
	assert.Equal(t, "$HOME/literal", string(out))
}
