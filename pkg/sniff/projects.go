package sniff

// Canonical project identifiers for the toolchains devenv knows about.
const (
	ProjectNode        = "nodejs.org"
	ProjectPython      = "python.org"
	ProjectGo          = "go.dev"
	ProjectRuby        = "ruby-lang.org"
	ProjectRust        = "rust-lang.org"
	ProjectDeno        = "deno.land"
	ProjectBun         = "bun.sh"
	ProjectPnpm        = "pnpm.io"
	ProjectYarn        = "yarnpkg.com"
	ProjectYarnClassic = "classic.yarnpkg.com"
	ProjectNpm         = "npmjs.com"
	ProjectGit         = "git-scm.org"
	ProjectTerraform   = "terraform.io"
	ProjectUv          = "astral.sh/uv"
	ProjectPixi        = "prefix.dev"
)

// Floor constraints synthesized when an ecosystem manifest is present
// but pins no runtime itself. Floors rather than wildcards, so a stale
// global runtime never satisfies a modern manifest by accident.
const (
	floorNode   = "^18"
	floorPython = "^3.11"
	floorGo     = "^1.21"
	floorDeno   = "^2"
	floorRust   = ">=1.75"
)

// packageManagerProjects maps corepack-style "packageManager" names
// from package.json to their canonical projects.
var packageManagerProjects = map[string]string{
	"npm":  ProjectNpm,
	"yarn": ProjectYarn,
	"pnpm": ProjectPnpm,
}
