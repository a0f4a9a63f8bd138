package conf

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const configHeader = "# timelapse-frames configuration\n# Environment variables TLF_<SECTION>_<KEY> override these values.\n"

// WriteDefault writes the default settings as YAML to path. An existing file
// is left untouched and reported through the returned bool.
func WriteDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	s, err := Defaults()
	if err != nil {
		return false, err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return false, fmt.Errorf("failed to encode settings: %w", err)
	}

	if err := os.WriteFile(path, append([]byte(configHeader), data...), 0o644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}
