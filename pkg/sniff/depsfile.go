package sniff

import (
	"encoding/json"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/devenv/pkg/errors"
)

// The deps file family (pkgx.yaml and its seven name/extension
// variants) shares one document shape: a dependencies node plus an
// optional env mapping. Only the parser differs per extension.

func parseDepsFileYAML(ctx Context, content []byte) (Partial, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return Partial{}, errors.Wrap(err, errors.ErrManifestParse, "invalid YAML deps file")
	}
	return parseGenericBlock(ctx, normalizeYAML(doc))
}

func parseDepsFileJSON(ctx Context, content []byte) (Partial, error) {
	raw, err := standardizeJSON(content)
	if err != nil {
		return Partial{}, err
	}
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Partial{}, errors.Wrap(err, errors.ErrManifestParse, "invalid JSON deps file")
	}
	return parseGenericBlock(ctx, doc)
}

func parseDepsFileTOML(ctx Context, content []byte) (Partial, error) {
	var doc map[string]interface{}
	if err := toml.Unmarshal(content, &doc); err != nil {
		return Partial{}, errors.Wrap(err, errors.ErrManifestParse, "invalid TOML deps file")
	}
	return parseGenericBlock(ctx, doc)
}

// normalizeYAML flattens yaml.v3's occasional map[interface{}]interface{}
// values into map[string]interface{} so one generic-block parser serves
// every format.
func normalizeYAML(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = normalizeYAML(item)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			if s, ok := k.(string); ok {
				out[s] = normalizeYAML(item)
			}
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = normalizeYAML(item)
		}
		return out
	default:
		return v
	}
}
