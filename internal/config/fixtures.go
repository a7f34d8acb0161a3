package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// LoadFixtures reads the static catalog file (services, barbers,
// announcements, slot labels, seed appointments).
func LoadFixtures(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}

	var fixtures Fixtures
	if err := yaml.Unmarshal(data, &fixtures); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}

	if err := ValidateFixtures(&fixtures); err != nil {
		return nil, err
	}

	return &fixtures, nil
}
