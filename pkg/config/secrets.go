package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Secrets holds API credentials, kept out of the main config file.
type Secrets struct {
	DeepLAPIKey string `yaml:"deepl_api_key"`
}

// DefaultSecretsPath returns the default secrets file location.
func DefaultSecretsPath() (string, error) {
	return expandPath("~/.config/bookcards/secrets.yaml")
}

// LoadSecrets reads the secrets file at path. A missing file yields empty
// secrets: features needing credentials are simply disabled.
func LoadSecrets(path string) (*Secrets, error) {
	if path == "" {
		defaultPath, err := DefaultSecretsPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	} else {
		expanded, err := expandPath(path)
		if err != nil {
			return nil, err
		}
		path = expanded
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Secrets{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read secrets: %w", err)
	}

	var s Secrets
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse secrets: %w", err)
	}
	return &s, nil
}
