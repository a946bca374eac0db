package catalogfile

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

// Loader reads a catalog YAML file, or the embedded seed when no path is set.
type Loader struct {
	filePath string
}

// NewLoader creates a catalog loader. An empty filePath selects the
// catalog compiled into the binary.
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Source describes where the catalog comes from, for logs.
func (l *Loader) Source() string {
	if l.filePath == "" {
		return "embedded"
	}
	return l.filePath
}

// Load reads and parses the catalog file.
func (l *Loader) Load() (Config, error) {
	data := seedYAML
	if l.filePath != "" {
		raw, err := os.ReadFile(l.filePath)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read catalog file: %w", err)
		}
		data = raw
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("failed to parse catalog yaml: %w", err)
	}

	return config, nil
}
