package sniff

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/devenv/pkg/types"
)

// parseDepsNode normalizes a "well-formed dependencies node" into
// requirements. Three shapes are accepted:
//
//	"a@1 b@^2"                 space-separated string
//	["a@1", "b@^2"]            array of tokens
//	{a: "1", b: "^2"}          project -> constraint mapping
//
// "latest"/"@latest" constraints normalize to the wildcard. Malformed
// constraints are dropped with a log line, never fatal.
func parseDepsNode(ctx Context, node interface{}) []types.PackageRequirement {
	var reqs []types.PackageRequirement

	add := func(project, constraint string) {
		project = strings.TrimSpace(project)
		if project == "" {
			return
		}
		constraint = normalizeConstraint(constraint)
		if !validConstraint(constraint) {
			ctx.Logger.Debug().
				Str("project", project).
				Str("constraint", constraint).
				Msg("Dropping malformed constraint")
			return
		}
		reqs = append(reqs, types.PackageRequirement{Project: project, Constraint: constraint})
	}

	addToken := func(token string) {
		token = strings.TrimSpace(token)
		if token == "" {
			return
		}
		project, constraint := splitSpec(token)
		add(project, constraint)
	}

	switch v := node.(type) {
	case string:
		for _, token := range strings.Fields(v) {
			addToken(token)
		}
	case []interface{}:
		for _, item := range v {
			addToken(fmt.Sprint(item))
		}
	case map[string]interface{}:
		for project, constraint := range v {
			add(project, fmt.Sprint(constraint))
		}
	}

	return reqs
}

// splitSpec splits "project@constraint" on the last '@' so scoped
// identifiers with embedded '@' keep working.
func splitSpec(token string) (project, constraint string) {
	if i := strings.LastIndex(token, "@"); i > 0 {
		return token[:i], token[i+1:]
	}
	return token, types.WildcardConstraint
}

// normalizeConstraint maps the "any version" spellings onto the
// canonical wildcard.
func normalizeConstraint(c string) string {
	c = strings.TrimSpace(c)
	switch c {
	case "", "latest", "@latest", "*":
		return types.WildcardConstraint
	}
	return c
}

// parseEnvNode normalizes an env mapping, applying placeholder
// substitution and interpolation validation to every value. A single
// invalid value fails the whole node (and therefore its manifest).
func parseEnvNode(ctx Context, node interface{}) (map[string]string, error) {
	mapping, ok := node.(map[string]interface{})
	if !ok || len(mapping) == 0 {
		return nil, nil
	}

	env := make(map[string]string, len(mapping))
	for name, raw := range mapping {
		var value string
		switch v := raw.(type) {
		case []interface{}:
			parts := make([]string, 0, len(v))
			for _, item := range v {
				parts = append(parts, fmt.Sprint(item))
			}
			value = strings.Join(parts, ":")
		default:
			value = fmt.Sprint(v)
		}

		interpolated, err := interpolateEnvValue(value, ctx.Dir)
		if err != nil {
			return nil, err
		}
		env[name] = interpolated
	}
	return env, nil
}
