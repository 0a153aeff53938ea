package planner

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var presetsYAML []byte

// ModelPreset is one tuned gateway model configuration.
type ModelPreset struct {
	Model       string  `yaml:"model"`
	Default     bool    `yaml:"default"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

type presetFile struct {
	Presets []ModelPreset `yaml:"presets"`
}

// LoadPresets parses the embedded preset registry.
func LoadPresets() ([]ModelPreset, error) {
	var pf presetFile
	if err := yaml.Unmarshal(presetsYAML, &pf); err != nil {
		return nil, fmt.Errorf("parse model presets: %w", err)
	}
	if len(pf.Presets) == 0 {
		return nil, fmt.Errorf("model presets: empty registry")
	}
	return pf.Presets, nil
}

// PresetFor returns the preset matching model, falling back to the entry
// marked default, then to the first entry.
func PresetFor(presets []ModelPreset, model string) ModelPreset {
	var fallback *ModelPreset
	for i := range presets {
		if presets[i].Model == model {
			return presets[i]
		}
		if presets[i].Default && fallback == nil {
			fallback = &presets[i]
		}
	}
	if fallback != nil {
		return *fallback
	}
	return presets[0]
}
