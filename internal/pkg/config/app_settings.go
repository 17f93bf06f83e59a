package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// AppSettings aggregates the configuration of a service entry point.
type AppSettings struct {
	Port     string            `yaml:"port" validate:"required"`
	Logger   LoggerSettings    `yaml:"logger"`
	Database *DatabaseSettings `yaml:"database"`
}

// Validate checks that all fields in AppSettings are valid.
func (s *AppSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for AppSettings: %w", err)
	}
	if err := s.Logger.Validate(); err != nil {
		return err
	}
	if s.Database != nil {
		if err := s.Database.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// LoadAppSettings reads and validates a YAML settings file.
func LoadAppSettings(path string) (*AppSettings, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	settings := &AppSettings{}
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return settings, nil
}
