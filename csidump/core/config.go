package core

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"
)

// YAML is a kong.ConfigurationLoader for YAML config files. Keys are flag
// names, with '-' or '_' as separators:
//
//	format: json
//	only_csi: true
//	color: never
//
// Nested mappings are walked on '.' for dotted flag names.
func YAML(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode yaml config: %w", err)
	}
	var f kong.ResolverFunc = func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		return lookup(values, flag.Name), nil
	}
	return f, nil
}

func lookup(values map[string]any, name string) any {
	if v, ok := values[name]; ok {
		return v
	}
	snake := strings.ReplaceAll(name, "-", "_")
	if v, ok := values[snake]; ok {
		return v
	}
	var raw any = values
	for _, part := range strings.Split(snake, ".") {
		m, ok := raw.(map[string]any)
		if !ok {
			return nil
		}
		if raw, ok = m[part]; !ok {
			return nil
		}
	}
	return raw
}
