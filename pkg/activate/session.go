package activate

import (
	"encoding/base64"
	"encoding/json"
	"os"

	"github.com/arthur-debert/devenv/pkg/errors"
	"github.com/arthur-debert/devenv/pkg/types"
)

// SessionEnvVar carries the serialized session between hook
// invocations: the Go process is re-spawned on every directory change,
// so the shell's environment is the only place the session can live.
// The codec makes that an explicit value with a single writer (the
// emitted activation/deactivation blocks) instead of a scatter of
// loose variables.
const SessionEnvVar = "DEVENV_SESSION"

// EncodeSession serializes a session into its env-var token form.
func EncodeSession(s *types.EnvironmentSession) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to encode session")
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// DecodeSession parses an env-var token back into a session.
func DecodeSession(token string) (*types.EnvironmentSession, error) {
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrSessionCorrupt, "undecodable session token")
	}
	var s types.EnvironmentSession
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, errors.ErrSessionCorrupt, "unparseable session token")
	}
	return &s, nil
}

// CurrentSession reads the session from the process environment.
// Returns nil when no session is active; a corrupt token is reported
// as an error so the caller can decide to discard it.
func CurrentSession() (*types.EnvironmentSession, error) {
	token := os.Getenv(SessionEnvVar)
	if token == "" {
		return nil, nil
	}
	return DecodeSession(token)
}
