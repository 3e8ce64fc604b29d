package settings

import (
	"fmt"
	"reflect"

	"gopkg.in/yaml.v3"
)

func toMap(s Settings) (map[string]any, error) {
	b, err := yaml.Marshal(s)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// Marshal renders the settings that differ from the built-in defaults as YAML
// suitable for a config file.
func Marshal(s Settings) ([]byte, error) {
	current, err := toMap(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode settings: %w", err)
	}
	defaults, err := toMap(Defaults())
	if err != nil {
		return nil, fmt.Errorf("failed to encode defaults: %w", err)
	}

	// Only save values that differ from defaults
	out := make(map[string]any)
	for k, v := range current {
		if !reflect.DeepEqual(v, defaults[k]) {
			out[k] = v
		}
	}
	return yaml.Marshal(out)
}
