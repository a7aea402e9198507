package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ConfigRelPath is where the profile set lives relative to an XDG config
// directory.
const ConfigRelPath = "sparqlkit/profiles.yaml"

// DefaultPath returns the XDG-resolved path for the profile set file.
func DefaultPath() (string, error) {
	return xdg.ConfigFile(ConfigRelPath)
}

// LoadProfileSet loads a profile set from a YAML file.
func LoadProfileSet(path string) (ProfileSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		// Return the error directly so callers can use os.IsNotExist(err).
		return ProfileSet{}, err
	}
	var ps ProfileSet
	if err := yaml.Unmarshal(data, &ps); err != nil {
		return ProfileSet{}, errors.Wrapf(err, "yaml.Unmarshal")
	}
	return ps, nil
}

// SaveProfileSet saves a profile set to a YAML file, creating its parent
// directory if necessary.
func SaveProfileSet(path string, ps ProfileSet) error {
	data, err := yaml.Marshal(ps)
	if err != nil {
		return errors.Wrapf(err, "yaml.Marshal")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "os.MkdirAll")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "os.WriteFile")
	}
	return nil
}

// LoadOrCreateProfileSet loads the profile set at the XDG default path,
// or returns an empty one if forceDefault is set or no config file exists
// yet.
func LoadOrCreateProfileSet(forceDefault bool) (ProfileSet, error) {
	if forceDefault {
		return ProfileSet{}, nil
	}
	path, err := DefaultPath()
	if err != nil {
		return ProfileSet{}, errors.Wrapf(err, "resolving config path")
	}
	ps, err := LoadProfileSet(path)
	if os.IsNotExist(err) {
		return ProfileSet{}, nil
	}
	if err != nil {
		return ProfileSet{}, err
	}
	return ps, nil
}
