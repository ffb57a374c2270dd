package app

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Prefs is the small persisted UI state. It lives next to the config file
// but is written on every toggle, so it stays separate.
type Prefs struct {
	DarkMode bool `yaml:"dark_mode"`
}

func DefaultPrefsPath() string {
	return filepath.Join(DefaultConfigDir(), "prefs.yaml")
}

// LoadPrefs never fails: a missing or unreadable file just means defaults.
func LoadPrefs(path string) Prefs {
	if path == "" {
		path = DefaultPrefsPath()
	}
	var p Prefs
	data, err := os.ReadFile(path)
	if err != nil {
		return p
	}
	_ = yaml.Unmarshal(data, &p)
	return p
}

func SavePrefs(p Prefs, path string) error {
	if path == "" {
		path = DefaultPrefsPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
