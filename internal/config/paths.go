package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// AppName is used for the config directory and the logger prefix
const AppName = "capable"

// ConfigDir returns the user configuration directory for capable.
// $XDG_CONFIG_HOME is honoured on every platform except Windows.
func ConfigDir() (string, error) {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, AppName), nil
		}
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// SourceDir returns the checkout directory for a source key
func (s *Settings) SourceDir(key string) string {
	safeName := strings.ReplaceAll(key, string(filepath.Separator), "--")
	return filepath.Join(s.SourcesDir, safeName)
}

// QualifiedRef prefixes a ref name with the configured origin label
func (s *Settings) QualifiedRef(refname string) string {
	if refname == "" {
		refname = s.Ref
	}
	return s.Origin + "/" + refname
}
