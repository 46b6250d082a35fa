// Package shellgen renders every shell artifact devenv emits: the
// per-binary isolation stubs, the activation and deactivation blocks
// evaluated by the shell hook, and the hook itself. Each artifact is a
// data-driven template with named slots, and every rendered script is
// parsed as POSIX sh before it leaves this package, so a template
// regression can never ship an unparseable script.
package shellgen

import (
	"strings"
	"text/template"

	"mvdan.cc/sh/v3/syntax"

	"github.com/arthur-debert/devenv/pkg/errors"
)

// Templates use @{ }@ delimiters so shell's ${ } needs no escaping.
const (
	delimLeft  = "@{"
	delimRight = "}@"
)

func mustTemplate(name, text string) *template.Template {
	return template.Must(template.New(name).Delims(delimLeft, delimRight).Parse(text))
}

// render executes tmpl and validates the result as POSIX sh.
func render(tmpl *template.Template, data interface{}) (string, error) {
	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.Wrapf(err, errors.ErrInternal, "failed to render %s", tmpl.Name())
	}
	out := buf.String()
	if err := validateSh(tmpl.Name(), out); err != nil {
		return "", err
	}
	return out, nil
}

// renderUnchecked executes tmpl without sh validation, for artifacts
// that legitimately use non-POSIX syntax.
func renderUnchecked(tmpl *template.Template, data interface{}) (string, error) {
	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.Wrapf(err, errors.ErrInternal, "failed to render %s", tmpl.Name())
	}
	return buf.String(), nil
}

// validateSh parses src with the POSIX sh grammar.
func validateSh(name, src string) error {
	parser := syntax.NewParser(syntax.Variant(syntax.LangPOSIX))
	if _, err := parser.Parse(strings.NewReader(src), name); err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "generated %s is not valid sh", name)
	}
	return nil
}

// QuoteDouble escapes s for interpolation inside a double-quoted shell
// string: backslash, backquote, double quote and dollar are escaped.
func QuoteDouble(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\', '`', '"', '$':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// QuoteDoubleRefs escapes s like QuoteDouble, except well-formed $NAME
// and ${NAME} references are left for the shell to expand at eval
// time. Any other '$' is escaped to a literal; manifest values are
// validated upstream, so one only shows up in resolver-supplied text.
func QuoteDoubleRefs(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\', '`', '"':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '$':
			if n := refLen(s[i:]); n > 0 {
				b.WriteString(s[i : i+n])
				i += n - 1
			} else {
				b.WriteString(`\$`)
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// refLen returns the length of the well-formed $NAME or ${NAME}
// reference at the start of s, or 0.
func refLen(s string) int {
	rest := s[1:]
	if rest == "" {
		return 0
	}
	if rest[0] == '{' {
		end := strings.IndexByte(rest, '}')
		if end < 2 || envNameLen(rest[1:end]) != end-1 {
			return 0
		}
		return end + 2
	}
	if n := envNameLen(rest); n > 0 {
		return n + 1
	}
	return 0
}

// envNameLen returns the length of the leading environment-variable
// name in s: [A-Za-z_][A-Za-z0-9_]*.
func envNameLen(s string) int {
	n := 0
	for ; n < len(s); n++ {
		c := s[n]
		alpha := c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		digit := c >= '0' && c <= '9'
		if n == 0 && !alpha {
			return 0
		}
		if !alpha && !digit {
			break
		}
	}
	return n
}

// ExportVar is one NAME="VALUE"; export NAME line. Value is inserted
// verbatim inside double quotes: callers quote literal text with
// QuoteDouble, keep validated references live with QuoteDoubleRefs,
// and may embed deliberate ${...} compositions.
type ExportVar struct {
	Name  string
	Value string
}
