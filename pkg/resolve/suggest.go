package resolve

import "strings"

// commonMistakes maps frequently typed shorthand or misspelled
// identifiers to the canonical project. Used to attach a suggestion to
// ResolutionFailed reports.
var commonMistakes = map[string]string{
	"node":       "nodejs.org",
	"nodejs":     "nodejs.org",
	"node.js":    "nodejs.org",
	"python":     "python.org",
	"python3":    "python.org",
	"go":         "go.dev",
	"golang":     "go.dev",
	"golang.org": "go.dev",
	"rust":       "rust-lang.org",
	"cargo":      "rust-lang.org",
	"ruby":       "ruby-lang.org",
	"deno":       "deno.land",
	"bun":        "bun.sh",
	"yarn":       "yarnpkg.com",
	"pnpm":       "pnpm.io",
	"npm":        "npmjs.com",
	"git":        "git-scm.org",
	"terraform":  "terraform.io",
	"uv":         "astral.sh/uv",
}

// SuggestProject returns the canonical identifier a failed project
// name probably meant, or "" when no close match is known.
func SuggestProject(project string) string {
	key := strings.ToLower(strings.TrimSpace(project))
	if canonical, ok := commonMistakes[key]; ok && canonical != project {
		return canonical
	}
	return ""
}
