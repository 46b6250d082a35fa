package store

import "strings"

// knownCommands maps canonical project identifiers to the command a
// user expects that toolchain to provide. Used in user-facing install
// and status output.
var knownCommands = map[string]string{
	"nodejs.org":          "node",
	"python.org":          "python",
	"go.dev":              "go",
	"deno.land":           "deno",
	"bun.sh":              "bun",
	"pnpm.io":             "pnpm",
	"yarnpkg.com":         "yarn",
	"classic.yarnpkg.com": "yarn",
	"npmjs.com":           "npm",
	"ruby-lang.org":       "ruby",
	"rust-lang.org":       "rustc",
	"git-scm.org":         "git",
	"terraform.io":        "terraform",
	"astral.sh/uv":        "uv",
	"just.systems":        "just",
	"taskfile.dev":        "task",
	"prefix.dev":          "pixi",
}

// CommandName returns the command name a project is expected to
// provide. Unknown projects fall back to a heuristic: the segment
// after the last '/', else the first dotted label of the host.
func CommandName(project string) string {
	if cmd, ok := knownCommands[project]; ok {
		return cmd
	}
	if i := strings.LastIndex(project, "/"); i >= 0 && i < len(project)-1 {
		return project[i+1:]
	}
	if i := strings.Index(project, "."); i > 0 {
		return project[:i]
	}
	return project
}
