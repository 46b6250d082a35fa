// pkg/store/shelf_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: None
// PURPOSE: Test major-version alias maintenance on store shelves

package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/devenv/pkg/types"
)

func makeShelf(t *testing.T, dirs ...string) string {
	t.Helper()
	shelf := t.TempDir()
	for _, dir := range dirs {
		require.NoError(t, os.Mkdir(filepath.Join(shelf, dir), 0755))
	}
	return shelf
}

func readAlias(t *testing.T, shelf, alias string) string {
	t.Helper()
	target, err := os.Readlink(filepath.Join(shelf, alias))
	require.NoError(t, err)
	return target
}

func TestRefreshMajorAliases(t *testing.T) {
	shelf := makeShelf(t, "v1.2.0", "v1.5.0", "v2.0.1")

	require.NoError(t, RefreshMajorAliases(types.NewOSFS(), shelf))

	assert.Equal(t, "v1.5.0", readAlias(t, shelf, "v1"))
	assert.Equal(t, "v2.0.1", readAlias(t, shelf, "v2"))
}

func TestRefreshMajorAliasesUpdatesExisting(t *testing.T) {
	shelf := makeShelf(t, "v1.2.0")
	require.NoError(t, RefreshMajorAliases(types.NewOSFS(), shelf))
	assert.Equal(t, "v1.2.0", readAlias(t, shelf, "v1"))

	// A newer install moves the alias forward.
	require.NoError(t, os.Mkdir(filepath.Join(shelf, "v1.9.0"), 0755))
	require.NoError(t, RefreshMajorAliases(types.NewOSFS(), shelf))
	assert.Equal(t, "v1.9.0", readAlias(t, shelf, "v1"))
}

func TestRefreshMajorAliasesPrereleaseOrdering(t *testing.T) {
	shelf := makeShelf(t, "v2.0.0-rc.1", "v2.0.0")

	require.NoError(t, RefreshMajorAliases(types.NewOSFS(), shelf))

	assert.Equal(t, "v2.0.0", readAlias(t, shelf, "v2"))
}

func TestRefreshMajorAliasesLeavesRealDirectoriesAlone(t *testing.T) {
	shelf := makeShelf(t, "v1.2.0", "v1")

	require.NoError(t, RefreshMajorAliases(types.NewOSFS(), shelf))

	// "v1" is a real directory, not ours to replace.
	info, err := os.Lstat(filepath.Join(shelf, "v1"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Zero(t, info.Mode()&os.ModeSymlink)
}

func TestRefreshMajorAliasesSkipsReservedNames(t *testing.T) {
	shelf := makeShelf(t, "var", "v1.0.0")

	require.NoError(t, RefreshMajorAliases(types.NewOSFS(), shelf))

	entries, err := os.ReadDir(shelf)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"var", "v1.0.0", "v1"}, names)
}

func TestRefreshMajorAliasesMissingShelf(t *testing.T) {
	err := RefreshMajorAliases(types.NewOSFS(), filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestShelves(t *testing.T) {
	prefixDir := t.TempDir()
	pkgs := filepath.Join(prefixDir, "pkgs")
	for _, dir := range []string{
		"nodejs.org/v18.17.1",
		"nodejs.org/v18.18.0",
		"nodejs.org/v20.1.0",
		"astral.sh/uv/v0.4.0",
	} {
		require.NoError(t, os.MkdirAll(filepath.Join(pkgs, dir), 0755))
	}
	require.NoError(t, RefreshMajorAliases(types.NewOSFS(), filepath.Join(pkgs, "nodejs.org")))

	shelves, err := Shelves(types.NewOSFS(), types.InstallationPrefix{Dir: prefixDir})
	require.NoError(t, err)
	require.Len(t, shelves, 2)

	// Sorted by project, so the nested astral.sh/uv shelf comes first.
	uv := shelves[0]
	assert.Equal(t, "astral.sh/uv", uv.Project)
	assert.Equal(t, "uv", uv.Command)
	assert.Equal(t, []string{"0.4.0"}, uv.Versions)

	node := shelves[1]
	assert.Equal(t, "nodejs.org", node.Project)
	assert.Equal(t, "node", node.Command)
	assert.Equal(t, []string{"18.17.1", "18.18.0", "20.1.0"}, node.Versions)
	assert.Equal(t, map[string]string{"v18": "v18.18.0", "v20": "v20.1.0"}, node.Aliases)
}

func TestShelvesMissingStore(t *testing.T) {
	shelves, err := Shelves(types.NewOSFS(), types.InstallationPrefix{Dir: t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, shelves)
}

func TestParseVersionDir(t *testing.T) {
	tests := []struct {
		name   string
		wantOK bool
	}{
		{"v1.2.3", true},
		{"1.2.3", true},
		{"v2.0.0-rc.1", true},
		{"v1", false},  // alias namespace
		{"var", false}, // not a version at all
		{"bin", false},
		{"", false},
	}
	for _, tt := range tests {
		_, ok := parseVersionDir(tt.name)
		assert.Equal(t, tt.wantOK, ok, "name %q", tt.name)
	}
}

func TestCommandName(t *testing.T) {
	tests := []struct {
		project string
		want    string
	}{
		{"nodejs.org", "node"},
		{"python.org", "python"},
		{"astral.sh/uv", "uv"},
		{"classic.yarnpkg.com", "yarn"},
		{"example.com/tool", "tool"},
		{"someproject.dev", "someproject"},
		{"bare", "bare"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CommandName(tt.project), "project %q", tt.project)
	}
}
