// Package config handles import profile loading and shared data
// structures.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Profile represents a reusable import profile: where the delimited
// file lives, how to split it and which columns carry geometry.
type Profile struct {
	Input     string `yaml:"input"`
	Output    string `yaml:"output,omitempty"`
	LayerName string `yaml:"layer_name,omitempty"`

	// delimited text options
	Delimiter string `yaml:"delimiter,omitempty"` // name or literal character
	Encoding  string `yaml:"encoding,omitempty"`  // IANA charset name
	NoHeader  bool   `yaml:"no_header,omitempty"`

	// geometry mapping
	Format         string `yaml:"format,omitempty"` // empty or "auto" detects
	GeometryColumn string `yaml:"geometry_column,omitempty"`
	XColumn        string `yaml:"x_column,omitempty"`
	YColumn        string `yaml:"y_column,omitempty"`

	// import behavior
	OnError string `yaml:"on_error,omitempty"` // skip | placeholder
	Workers int    `yaml:"workers,omitempty"`
	Minify  bool   `yaml:"minify,omitempty"`
}

// Load reads and parses the YAML profile file from the specified path.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}

	return &p, nil
}
