package fibra

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadOptions reads loader options from a YAML file. Fields absent
// from the file keep their defaults, so a config that sets only
// maxFileSize leaves everything else standard. A missing file is not
// an error; it simply yields the defaults.
//
// Example file:
//
//	format: auto
//	maxFileSize: 536870912
//	sampleLimit: 1000
//	sampleThreshold: 5000
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return opts, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("failed to read options file: %w", err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("failed to parse options file: %w", err)
	}
	return opts.withDefaults(), nil
}

// SaveOptions writes options to a YAML file, creating parent
// directories as needed.
func SaveOptions(opts Options, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create options directory: %w", err)
	}

	data, err := yaml.Marshal(opts)
	if err != nil {
		return fmt.Errorf("failed to marshal options: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write options file: %w", err)
	}
	return nil
}
