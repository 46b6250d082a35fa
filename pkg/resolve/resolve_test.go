// pkg/resolve/resolve_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: None (resolver command is stubbed)
// PURPOSE: Test resolver invocation and response normalization

package resolve

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/devenv/pkg/config"
	"github.com/arthur-debert/devenv/pkg/logging"
	"github.com/arthur-debert/devenv/pkg/types"
)

// fakeClient returns a Client whose runner replays a canned response.
// The command must exist on PATH for the availability check; "sh" does.
func fakeClient(response string, err error) (*Client, *[]string) {
	var gotArgs []string
	c := NewClient(config.ResolverConfig{Command: "sh", Timeout: time.Second})
	c.runner = func(ctx context.Context, command string, args []string) ([]byte, error) {
		gotArgs = args
		if err != nil {
			return nil, err
		}
		return []byte(response), nil
	}
	c.logger = logging.GetLogger("resolve-test")
	return c, &gotArgs
}

func TestResolveEmptyBatch(t *testing.T) {
	c, _ := fakeClient("", nil)
	result, err := c.Resolve(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Pkgs)
	assert.Empty(t, result.Failed)
}

func TestResolveBatchesAllSpecs(t *testing.T) {
	c, gotArgs := fakeClient(`{"pkgs": []}`, nil)

	// Input order is whatever the manifests produced; the invocation is
	// sorted by project so repeated runs hit the resolver identically.
	_, err := c.Resolve(context.Background(), []types.PackageRequirement{
		{Project: "python.org", Constraint: "*"},
		{Project: "nodejs.org", Constraint: "^18"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"+nodejs.org@^18", "+python.org"}, *gotArgs)
}

func TestResolveNormalizesResponse(t *testing.T) {
	c, _ := fakeClient(`{
		"pkgs": [
			{"project": "nodejs.org", "version": "18.17.1", "path": "/store/nodejs.org/v18.17.1"}
		],
		"runtime_env": {"nodejs.org": {"NODE_PATH": "/store/lib"}},
		"env": {"PATH": ["/store/bin"], "GOROOT": "/store/go"}
	}`, nil)

	result, err := c.Resolve(context.Background(), []types.PackageRequirement{
		{Project: "nodejs.org", Constraint: "^18"},
	})
	require.NoError(t, err)

	require.Len(t, result.Pkgs, 1)
	pkg := result.Pkgs[0]
	assert.Equal(t, "nodejs.org", pkg.Project)
	assert.Equal(t, "18.17.1", pkg.Version.String())
	assert.Equal(t, "/store/nodejs.org/v18.17.1", pkg.SourcePath)
	assert.Equal(t, map[string]string{"NODE_PATH": "/store/lib"}, pkg.RuntimeEnv)

	assert.Equal(t, []string{"/store/bin"}, result.Env["PATH"])
	assert.Equal(t, []string{"/store/go"}, result.Env["GOROOT"])
	assert.Empty(t, result.Failed)
}

func TestResolveCollectsSilentFailures(t *testing.T) {
	c, _ := fakeClient(`{"pkgs": [{"project": "nodejs.org", "version": "18.17.1", "path": "/p"}]}`, nil)

	result, err := c.Resolve(context.Background(), []types.PackageRequirement{
		{Project: "nodejs.org", Constraint: "^18"},
		{Project: "node", Constraint: "*"},
	})
	require.NoError(t, err)

	require.Len(t, result.Failed, 1)
	assert.Equal(t, "node", result.Failed[0].Project)
	assert.Equal(t, "nodejs.org", result.Failed[0].Suggestion)
}

func TestResolveBadVersionIsPerPackage(t *testing.T) {
	c, _ := fakeClient(`{"pkgs": [
		{"project": "nodejs.org", "version": "not-a-version", "path": "/p"},
		{"project": "python.org", "version": "3.12.1", "path": "/q"}
	]}`, nil)

	result, err := c.Resolve(context.Background(), []types.PackageRequirement{
		{Project: "nodejs.org", Constraint: "^18"},
		{Project: "python.org", Constraint: "^3.11"},
	})
	require.NoError(t, err)

	require.Len(t, result.Pkgs, 1)
	assert.Equal(t, "python.org", result.Pkgs[0].Project)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "nodejs.org", result.Failed[0].Project)
}

func TestResolveMalformedResponse(t *testing.T) {
	c, _ := fakeClient("not json at all", nil)

	_, err := c.Resolve(context.Background(), []types.PackageRequirement{
		{Project: "nodejs.org", Constraint: "*"},
	})
	assert.Error(t, err)
}

func TestResolveUnavailableCommand(t *testing.T) {
	c := NewClient(config.ResolverConfig{Command: "definitely-not-a-real-resolver-xyz"})

	_, err := c.Resolve(context.Background(), []types.PackageRequirement{
		{Project: "nodejs.org", Constraint: "*"},
	})
	assert.Error(t, err)
}

func TestSuggestProject(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"node", "nodejs.org"},
		{"NODE", "nodejs.org"},
		{"golang", "go.dev"},
		{"python3", "python.org"},
		{"no-such-thing-at-all", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SuggestProject(tt.in), "input %q", tt.in)
	}
}
