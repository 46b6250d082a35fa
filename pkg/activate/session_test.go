package activate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/devenv/pkg/types"
)

func TestSessionRoundTrip(t *testing.T) {
	session := &types.EnvironmentSession{
		ProjectRoot:   "/home/alice/app",
		InstallPrefix: "/data/envs/app_abcd1234",
		OriginalPath:  "/usr/local/bin:/usr/bin:/bin",
		OriginalEnv: map[string]types.EnvBackup{
			"FOO": {Value: "old"},
			"BAR": {Unset: true},
		},
	}

	token, err := EncodeSession(session)
	require.NoError(t, err)
	// The token has to survive shell quoting and env transport.
	assert.NotContains(t, token, "=")
	assert.NotContains(t, token, "+")
	assert.NotContains(t, token, "/")

	decoded, err := DecodeSession(token)
	require.NoError(t, err)
	assert.Equal(t, session, decoded)
}

func TestDecodeSessionCorruptToken(t *testing.T) {
	for _, token := range []string{"%%%", "bm90IGpzb24", "!!!"} {
		_, err := DecodeSession(token)
		assert.Error(t, err, "token %q", token)
	}
}

func TestCurrentSession(t *testing.T) {
	t.Setenv(SessionEnvVar, "")
	session, err := CurrentSession()
	require.NoError(t, err)
	assert.Nil(t, session)

	token, err := EncodeSession(&types.EnvironmentSession{ProjectRoot: "/p", OriginalPath: "/usr/bin"})
	require.NoError(t, err)
	t.Setenv(SessionEnvVar, token)

	session, err = CurrentSession()
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "/p", session.ProjectRoot)
}

func TestDegradedSession(t *testing.T) {
	assert.True(t, (&types.EnvironmentSession{OriginalPath: "/usr/bin"}).Degraded())
	assert.False(t, (&types.EnvironmentSession{ProjectRoot: "/p"}).Degraded())
}
