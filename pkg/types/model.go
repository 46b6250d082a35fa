package types

import (
	"fmt"
	"sort"

	"github.com/Masterminds/semver/v3"
)

// WildcardConstraint is the normalized form of "any version".
// "latest" and "@latest" in manifests normalize to this.
const WildcardConstraint = "*"

// PackageRequirement is one (project, version-constraint) pair extracted
// from a project's manifests. Project is a reverse-domain identifier such
// as "nodejs.org" or "astral.sh/uv".
type PackageRequirement struct {
	Project    string `json:"project"`
	Constraint string `json:"constraint"`
}

// Spec renders the requirement in the project@constraint wire form used
// by the resolution protocol.
func (r PackageRequirement) Spec() string {
	if r.Constraint == "" || r.Constraint == WildcardConstraint {
		return r.Project
	}
	return fmt.Sprintf("%s@%s", r.Project, r.Constraint)
}

// ManifestSignal is the sniffer's sole output: the deduplicated
// requirement set plus any environment variables the manifests declared.
type ManifestSignal struct {
	Pkgs []PackageRequirement `json:"pkgs"`
	Env  map[string]string    `json:"env"`
}

// Empty reports whether the signal carries neither requirements nor env.
func (s ManifestSignal) Empty() bool {
	return len(s.Pkgs) == 0 && len(s.Env) == 0
}

// ResolvedPackage is the resolver's answer for one requirement: a
// concrete version and a read-only, already-materialized package tree.
type ResolvedPackage struct {
	Project    string
	Version    *semver.Version
	SourcePath string
	RuntimeEnv map[string]string
}

// StoreEntry is a materialized, project-local copy of a ResolvedPackage
// at <shelf>/v<version>.
type StoreEntry struct {
	Project   string
	Version   *semver.Version
	StorePath string
}

// InstallationPrefix identifies the per-project shared directory that is
// placed on PATH during activation. Hash is derived from the absolute
// project path, HumanName from the directory's base name.
type InstallationPrefix struct {
	Hash      string
	HumanName string
	Dir       string
}

// SortRequirements orders requirements by project for stable output.
func SortRequirements(reqs []PackageRequirement) {
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].Project < reqs[j].Project })
}
