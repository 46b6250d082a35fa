package sniff

import (
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/arthur-debert/devenv/pkg/types"
)

// tableEntry binds one exact file or directory name to its handler.
type tableEntry struct {
	isDir   bool
	handler Handler
	skip    func() bool // platform gate, nil means never skip
}

// handlerTable is the filename-keyed dispatch table. Names must match
// directory entries exactly; there is no globbing.
var handlerTable = map[string]tableEntry{
	// Version-pin files: trimmed literal version, optional v prefix,
	// comment lines ignored.
	".nvmrc":             versionFile(ProjectNode),
	".node-version":      versionFile(ProjectNode),
	".ruby-version":      versionFile(ProjectRuby),
	".python-version":    versionFile(ProjectPython),
	".terraform-version": versionFile(ProjectTerraform),

	// Lockfiles and ecosystem markers: fixed mappings.
	"go.mod":           fixed(types.PackageRequirement{Project: ProjectGo, Constraint: floorGo}),
	"go.sum":           fixed(types.PackageRequirement{Project: ProjectGo, Constraint: types.WildcardConstraint}),
	"requirements.txt": fixed(types.PackageRequirement{Project: ProjectPython, Constraint: floorPython}),
	"Gemfile":          fixed(types.PackageRequirement{Project: ProjectRuby, Constraint: types.WildcardConstraint}),
	"yarn.lock":        fixed(types.PackageRequirement{Project: ProjectYarn, Constraint: types.WildcardConstraint}),
	".yarnrc":          fixed(types.PackageRequirement{Project: ProjectYarnClassic, Constraint: types.WildcardConstraint}),
	".yarnrc.yml":      fixed(types.PackageRequirement{Project: ProjectYarn, Constraint: types.WildcardConstraint}),
	"pnpm-lock.yaml":   fixed(types.PackageRequirement{Project: ProjectPnpm, Constraint: types.WildcardConstraint}),
	"bun.lock":         fixed(types.PackageRequirement{Project: ProjectBun, Constraint: types.WildcardConstraint}),
	"bun.lockb":        fixed(types.PackageRequirement{Project: ProjectBun, Constraint: types.WildcardConstraint}),
	"uv.lock":          fixed(types.PackageRequirement{Project: ProjectUv, Constraint: types.WildcardConstraint}),
	"pixi.toml":        fixed(types.PackageRequirement{Project: ProjectPixi, Constraint: types.WildcardConstraint}),
	"cdk.json":         fixed(types.PackageRequirement{Project: ProjectNode, Constraint: floorNode}),

	// Structured manifests.
	"package.json":   {handler: parsePackageJSON},
	"deno.json":      {handler: parseDenoConfig},
	"deno.jsonc":     {handler: parseDenoConfig},
	"pyproject.toml": {handler: parsePyproject},
	"Cargo.toml":     {handler: parseCargo},

	// Build files that may carry a YAML front-matter block in comments.
	"justfile":     {handler: parseFrontMatter},
	"Justfile":     {handler: parseFrontMatter},
	"Makefile":     {handler: parseFrontMatter},
	"makefile":     {handler: parseFrontMatter},
	"GNUmakefile":  {handler: parseFrontMatter},
	"Taskfile.yml": {handler: parseFrontMatter},

	// Version control needs git unless the platform ships it natively.
	".git": {isDir: true, skip: func() bool { return runtime.GOOS == "darwin" },
		handler: func(Context, []byte) (Partial, error) {
			return Partial{Pkgs: []types.PackageRequirement{{Project: ProjectGit, Constraint: types.WildcardConstraint}}}, nil
		}},

	// The devenv dependencies file family, parser chosen by extension.
	"pkgx.yaml":  {handler: parseDepsFileYAML},
	"pkgx.yml":   {handler: parseDepsFileYAML},
	".pkgx.yaml": {handler: parseDepsFileYAML},
	".pkgx.yml":  {handler: parseDepsFileYAML},
	"pkgx.json":  {handler: parseDepsFileJSON},
	".pkgx.json": {handler: parseDepsFileJSON},
	"pkgx.toml":  {handler: parseDepsFileTOML},
	".pkgx.toml": {handler: parseDepsFileTOML},
}

// fixed returns a handler that always emits the same requirement.
func fixed(req types.PackageRequirement) tableEntry {
	return tableEntry{handler: func(Context, []byte) (Partial, error) {
		return Partial{Pkgs: []types.PackageRequirement{req}}, nil
	}}
}

// versionFile returns a handler for project@<file-content> pins.
func versionFile(project string) tableEntry {
	return tableEntry{handler: func(ctx Context, content []byte) (Partial, error) {
		version, ok := parseVersionPin(string(content))
		if !ok {
			ctx.Logger.Debug().Str("project", project).Msg("Version pin unparseable, dropped")
			return Partial{}, nil
		}
		return Partial{Pkgs: []types.PackageRequirement{{Project: project, Constraint: version}}}, nil
	}}
}

// parseVersionPin extracts the version from a pin file: first
// non-comment, non-blank line, optional leading "v".
func parseVersionPin(content string) (string, bool) {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "v")
		if !validConstraint(line) {
			return "", false
		}
		return line, true
	}
	return "", false
}

// validConstraint reports whether s parses as a semver range.
func validConstraint(s string) bool {
	if s == types.WildcardConstraint {
		return true
	}
	_, err := semver.NewConstraint(s)
	return err == nil
}
