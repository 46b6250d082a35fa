package sniff

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/devenv/pkg/errors"
)

// Comment markers that may prefix front-matter lines in build files.
var commentPrefixes = []string{"#", "//", "--"}

// parseFrontMatter scans a build file (justfile, Makefile, ...) for a
// YAML block between two "---" fences. The fences and the block lines
// may sit inside line comments; the comment marker of the opening
// fence is stripped from every line of the block. Files without a
// fenced block contribute nothing.
func parseFrontMatter(ctx Context, content []byte) (Partial, error) {
	block, found := extractFrontMatter(string(content))
	if !found {
		return Partial{}, nil
	}

	var doc map[string]interface{}
	if err := yaml.Unmarshal([]byte(block), &doc); err != nil {
		return Partial{}, errors.Wrap(err, errors.ErrManifestParse, "invalid front-matter YAML")
	}
	return parseGenericBlock(ctx, normalizeYAML(doc))
}

// extractFrontMatter returns the text between the first pair of "---"
// fences, with the opening fence's comment prefix stripped per line.
func extractFrontMatter(content string) (string, bool) {
	lines := strings.Split(content, "\n")

	start := -1
	prefix := ""
	for i, line := range lines {
		if p, ok := fenceLine(line); ok {
			start = i
			prefix = p
			break
		}
	}
	if start < 0 {
		return "", false
	}

	var block []string
	for _, line := range lines[start+1:] {
		if p, ok := fenceLine(line); ok && p == prefix {
			return strings.Join(block, "\n"), true
		}
		block = append(block, stripCommentPrefix(line, prefix))
	}

	// Unterminated fence: treat as no front matter.
	return "", false
}

// fenceLine reports whether line is a "---" fence, optionally behind a
// comment marker, and returns that marker.
func fenceLine(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "---" {
		return "", true
	}
	for _, p := range commentPrefixes {
		if rest := strings.TrimPrefix(trimmed, p); rest != trimmed && strings.TrimSpace(rest) == "---" {
			return p, true
		}
	}
	return "", false
}

func stripCommentPrefix(line, prefix string) string {
	if prefix == "" {
		return line
	}
	trimmed := strings.TrimLeft(line, " \t")
	if rest, ok := strings.CutPrefix(trimmed, prefix); ok {
		return strings.TrimPrefix(rest, " ")
	}
	return line
}
