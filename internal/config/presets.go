package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Preset is a named board size for benchmarks.
type Preset struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	MineCount int `yaml:"mine_count"`
	Games     int `yaml:"games"`
}

type Presets map[string]Preset

func DefaultPresets() Presets {
	return Presets{
		"beginner":     {Width: 9, Height: 9, MineCount: 10, Games: 1000},
		"intermediate": {Width: 16, Height: 16, MineCount: 40, Games: 500},
		"expert":       {Width: 30, Height: 16, MineCount: 99, Games: 200},
	}
}

/*
LoadPresets reads presets from a YAML file of the form

	beginner:
	  width: 9
	  height: 9
	  mine_count: 10
	  games: 1000

Presets from the file override the defaults with the same name. An empty
path returns the defaults.
*/
func LoadPresets(path string) (Presets, error) {
	presets := DefaultPresets()
	if path == "" {
		return presets, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read presets: %w", err)
	}
	var loaded Presets
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("unable to parse presets %s: %w", path, err)
	}
	for name, p := range loaded {
		if p.Games <= 0 {
			p.Games = 1
		}
		presets[name] = p
	}
	return presets, nil
}
