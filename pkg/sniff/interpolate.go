package sniff

import (
	"strings"

	"github.com/arthur-debert/devenv/pkg/errors"
	"github.com/arthur-debert/devenv/pkg/paths"
)

// Placeholders supported in manifest env values.
const (
	placeholderHome    = "{{home}}"
	placeholderSrcroot = "{{srcroot}}"
)

// interpolateEnvValue substitutes the {{home}} and {{srcroot}}
// placeholders and validates that any remaining '$' usage is a plain
// $NAME or ${NAME} reference. Anything else is an InvalidInterpolation
// error, fatal to the manifest the value came from.
func interpolateEnvValue(value, srcroot string) (string, error) {
	if strings.Contains(value, placeholderHome) {
		home, err := paths.GetHomeDirectory()
		if err != nil {
			return "", err
		}
		value = strings.ReplaceAll(value, placeholderHome, home)
	}
	value = strings.ReplaceAll(value, placeholderSrcroot, srcroot)

	if err := validateInterpolation(value); err != nil {
		return "", err
	}
	return value, nil
}

func validateInterpolation(value string) error {
	for i := 0; i < len(value); i++ {
		if value[i] != '$' {
			continue
		}
		rest := value[i+1:]
		if rest == "" {
			return errors.Newf(errors.ErrInvalidInterpolation, "dangling $ in %q", value)
		}
		if rest[0] == '{' {
			end := strings.IndexByte(rest, '}')
			if end < 2 || !isEnvName(rest[1:end]) {
				return errors.Newf(errors.ErrInvalidInterpolation, "malformed ${NAME} reference in %q", value)
			}
			i += end + 1
			continue
		}
		n := envNameLen(rest)
		if n == 0 {
			return errors.Newf(errors.ErrInvalidInterpolation, "unsupported $ usage in %q", value)
		}
		i += n
	}
	return nil
}

func isEnvName(s string) bool {
	return s != "" && envNameLen(s) == len(s)
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
