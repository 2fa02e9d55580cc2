package layout

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML layout file on top of Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("layout %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the default layout. A field listed in the document
// replaces its default placement as a whole.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Marshal encodes the layout as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
