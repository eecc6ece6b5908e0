package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// LoadVars reads a render context file. The format follows the extension:
// .yaml/.yml, .json or .toml.
func LoadVars(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading vars file %s: %w", path, err)
	}
	return ParseVars(data, filepath.Ext(path))
}

// ParseVars decodes data according to ext.
func ParseVars(data []byte, ext string) (map[string]any, error) {
	out := map[string]any{}
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "yaml", "yml", "":
		if err := yaml.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("parsing vars YAML: %w", err)
		}
	case "json":
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("parsing vars JSON: %w", err)
		}
	case "toml":
		if err := toml.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("parsing vars TOML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported vars file extension %q (use .yaml, .json or .toml)", ext)
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

// ParseSet turns "a.b=c" assignments into a nested map. Values that decode
// as YAML booleans, numbers or null keep that type; everything else is a string.
func ParseSet(assignments []string) (map[string]any, error) {
	out := map[string]any{}
	for _, assignment := range assignments {
		key, raw, ok := strings.Cut(assignment, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q: expected key=value", assignment)
		}

		parts := strings.Split(key, ".")
		node := out
		for i, part := range parts {
			if part == "" {
				return nil, fmt.Errorf("invalid --set %q: empty key segment", assignment)
			}
			if i == len(parts)-1 {
				node[part] = scalar(raw)
				break
			}
			next, ok := node[part].(map[string]any)
			if !ok {
				next = map[string]any{}
				node[part] = next
			}
			node = next
		}
	}
	return out, nil
}

func scalar(raw string) any {
	var v any
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	switch v.(type) {
	case bool, int, float64, nil:
		if v == nil && strings.TrimSpace(raw) != "null" && strings.TrimSpace(raw) != "~" {
			return raw
		}
		return v
	default:
		return raw
	}
}

// MergeVars deep-merges layers left to right; later layers win.
func MergeVars(layers ...map[string]any) (map[string]any, error) {
	out := map[string]any{}
	for _, layer := range layers {
		if len(layer) == 0 {
			continue
		}
		if err := mergo.Merge(&out, deepCopy(layer), mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("merging vars: %w", err)
		}
	}
	return out, nil
}

func deepCopy(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			out[k] = deepCopy(nested)
			continue
		}
		out[k] = v
	}
	return out
}
