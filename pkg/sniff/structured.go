package sniff

import (
	"encoding/json"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/tailscale/hujson"

	"github.com/arthur-debert/devenv/pkg/errors"
	"github.com/arthur-debert/devenv/pkg/types"
)

// enginesProjects maps package.json "engines" keys to projects.
var enginesProjects = map[string]string{
	"node": ProjectNode,
	"npm":  ProjectNpm,
	"yarn": ProjectYarn,
	"pnpm": ProjectPnpm,
}

// parsePackageJSON extracts requirements from a package.json: the
// corepack-style packageManager string, the engines block, and an
// embedded generic dependencies block under "pkgx". Parse order encodes
// precedence: the dedicated block wins over engines, which wins over
// packageManager. A manifest with no explicit node pin still implies a
// node floor.
func parsePackageJSON(ctx Context, content []byte) (Partial, error) {
	raw, err := standardizeJSON(content)
	if err != nil {
		return Partial{}, err
	}

	var manifest struct {
		Engines        map[string]string `json:"engines"`
		PackageManager string            `json:"packageManager"`
		Pkgx           interface{}       `json:"pkgx"`
	}
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return Partial{}, errors.Wrap(err, errors.ErrManifestParse, "invalid package.json")
	}

	var partial Partial

	if manifest.PackageManager != "" {
		name, version := splitSpec(manifest.PackageManager)
		if project, ok := packageManagerProjects[name]; ok && validConstraint(version) {
			partial.Pkgs = append(partial.Pkgs, types.PackageRequirement{Project: project, Constraint: version})
		}
	}

	for engine, constraint := range manifest.Engines {
		project, ok := enginesProjects[engine]
		if !ok {
			continue
		}
		constraint = normalizeConstraint(constraint)
		if !validConstraint(constraint) {
			ctx.Logger.Debug().Str("engine", engine).Str("constraint", constraint).Msg("Dropping malformed engine constraint")
			continue
		}
		partial.Pkgs = append(partial.Pkgs, types.PackageRequirement{Project: project, Constraint: constraint})
	}

	block, err := parseGenericBlock(ctx, manifest.Pkgx)
	if err != nil {
		return Partial{}, err
	}
	partial.Pkgs = append(partial.Pkgs, block.Pkgs...)
	partial.Env = block.Env

	partial.ImplicitRuntime = &types.PackageRequirement{Project: ProjectNode, Constraint: floorNode}
	return partial, nil
}

// parseDenoConfig handles deno.json and deno.jsonc identically.
func parseDenoConfig(ctx Context, content []byte) (Partial, error) {
	raw, err := standardizeJSON(content)
	if err != nil {
		return Partial{}, err
	}

	var manifest struct {
		Pkgx interface{} `json:"pkgx"`
	}
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return Partial{}, errors.Wrap(err, errors.ErrManifestParse, "invalid deno config")
	}

	partial, err := parseGenericBlock(ctx, manifest.Pkgx)
	if err != nil {
		return Partial{}, err
	}
	partial.ImplicitRuntime = &types.PackageRequirement{Project: ProjectDeno, Constraint: floorDeno}
	return partial, nil
}

// parsePyproject reads requires-python as an explicit runtime pin and
// tool.pkgx as a generic block; without either, a python floor applies.
func parsePyproject(ctx Context, content []byte) (Partial, error) {
	var manifest struct {
		Project struct {
			RequiresPython string `toml:"requires-python"`
		} `toml:"project"`
		Tool struct {
			Pkgx interface{} `toml:"pkgx"`
		} `toml:"tool"`
	}
	if err := toml.Unmarshal(content, &manifest); err != nil {
		return Partial{}, errors.Wrap(err, errors.ErrManifestParse, "invalid pyproject.toml")
	}

	var partial Partial
	if c := normalizeConstraint(manifest.Project.RequiresPython); c != types.WildcardConstraint && validConstraint(c) {
		partial.Pkgs = append(partial.Pkgs, types.PackageRequirement{Project: ProjectPython, Constraint: c})
	}

	block, err := parseGenericBlock(ctx, manifest.Tool.Pkgx)
	if err != nil {
		return Partial{}, err
	}
	partial.Pkgs = append(partial.Pkgs, block.Pkgs...)
	partial.Env = block.Env

	partial.ImplicitRuntime = &types.PackageRequirement{Project: ProjectPython, Constraint: floorPython}
	return partial, nil
}

// parseCargo reads rust-version as an explicit pin and
// package.metadata.pkgx as a generic block.
func parseCargo(ctx Context, content []byte) (Partial, error) {
	var manifest struct {
		Package struct {
			RustVersion string `toml:"rust-version"`
			Metadata    struct {
				Pkgx interface{} `toml:"pkgx"`
			} `toml:"metadata"`
		} `toml:"package"`
	}
	if err := toml.Unmarshal(content, &manifest); err != nil {
		return Partial{}, errors.Wrap(err, errors.ErrManifestParse, "invalid Cargo.toml")
	}

	var partial Partial
	if v := strings.TrimSpace(manifest.Package.RustVersion); v != "" && validConstraint(v) {
		partial.Pkgs = append(partial.Pkgs, types.PackageRequirement{Project: ProjectRust, Constraint: ">=" + v})
	}

	block, err := parseGenericBlock(ctx, manifest.Package.Metadata.Pkgx)
	if err != nil {
		return Partial{}, err
	}
	partial.Pkgs = append(partial.Pkgs, block.Pkgs...)
	partial.Env = block.Env

	partial.ImplicitRuntime = &types.PackageRequirement{Project: ProjectRust, Constraint: floorRust}
	return partial, nil
}

// parseGenericBlock handles the embedded dependencies+env shape shared
// by structured manifests and the deps file family. The node may be a
// {dependencies, env} mapping or a bare dependencies node.
func parseGenericBlock(ctx Context, node interface{}) (Partial, error) {
	if node == nil {
		return Partial{}, nil
	}

	if mapping, ok := node.(map[string]interface{}); ok {
		deps, hasDeps := mapping["dependencies"]
		envNode, hasEnv := mapping["env"]
		if hasDeps || hasEnv {
			env, err := parseEnvNode(ctx, envNode)
			if err != nil {
				return Partial{}, err
			}
			return Partial{Pkgs: parseDepsNode(ctx, deps), Env: env}, nil
		}
	}

	return Partial{Pkgs: parseDepsNode(ctx, node)}, nil
}

// standardizeJSON converts JSON-with-comments (and plain JSON) into
// strict JSON.
func standardizeJSON(content []byte) ([]byte, error) {
	raw, err := hujson.Standardize(content)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrManifestParse, "invalid JSON")
	}
	return raw, nil
}
