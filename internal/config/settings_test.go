package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate points every lookup location at empty temp dirs
func isolate(t *testing.T) (home, configDir string) {
	t.Helper()
	home = t.TempDir()
	configDir = t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv(EnvSourcesDir, "")
	t.Setenv(EnvOrigin, "")
	os.Unsetenv(EnvSourcesDir)
	os.Unsetenv(EnvOrigin)
	t.Chdir(t.TempDir())
	return home, configDir
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaults(t *testing.T) {
	home, configDir := isolate(t)

	s, path, err := Load(LoadOptions{ConfigDir: configDir})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if path != "" {
		t.Errorf("Load() path = %q, want none", path)
	}

	want := DefaultSettings()
	want.SourcesDir = filepath.Join(home, ".capable")
	if *s != *want {
		t.Errorf("Load() = %+v, want %+v", *s, *want)
	}
	if s.Freshness() != 300*time.Second {
		t.Errorf("Freshness() = %v, want 5m", s.Freshness())
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	_, configDir := isolate(t)
	t.Setenv(EnvSourcesDir, "/srv/capable")
	t.Setenv(EnvOrigin, "upstream")
	t.Setenv("CAPABLE_JOBS", "4")

	s, _, err := Load(LoadOptions{ConfigDir: configDir})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.SourcesDir != "/srv/capable" {
		t.Errorf("SourcesDir = %q, want /srv/capable", s.SourcesDir)
	}
	if s.Origin != "upstream" {
		t.Errorf("Origin = %q, want upstream", s.Origin)
	}
	if s.Jobs != 4 {
		t.Errorf("Jobs = %d, want 4", s.Jobs)
	}
}

func TestLoadConfigFile(t *testing.T) {
	_, configDir := isolate(t)
	userPath := filepath.Join(configDir, "config.toml")
	writeConfig(t, userPath, `
ref = "main"
base = "third_party/"
jobs = 0
freshness_seconds = -5
`)

	s, path, err := Load(LoadOptions{ConfigDir: configDir})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if path != userPath {
		t.Errorf("Load() path = %q, want %q", path, userPath)
	}

	tests := []struct {
		field string
		got   any
		want  any
	}{
		{"Ref", s.Ref, "main"},
		{"Base", s.Base, "third_party/"},
		{"Jobs", s.Jobs, 1},
		{"FreshnessSeconds", s.FreshnessSeconds, 0},
		{"Origin", s.Origin, DefaultOrigin},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.field, tt.got, tt.want)
		}
	}
}

func TestLoadPrefersLocalConfig(t *testing.T) {
	_, configDir := isolate(t)
	writeConfig(t, filepath.Join(configDir, "config.toml"), `origin = "user"`)
	writeConfig(t, LocalConfigFile, `origin = "local"`)

	s, path, err := Load(LoadOptions{ConfigDir: configDir})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if path != LocalConfigFile || s.Origin != "local" {
		t.Errorf("Load() = (%q, %q), want (%q, local)", path, s.Origin, LocalConfigFile)
	}
}

func TestLoadExplicitConfig(t *testing.T) {
	_, configDir := isolate(t)

	if _, _, err := Load(LoadOptions{ConfigFile: "missing.toml", ConfigDir: configDir}); err == nil {
		t.Error("Load() with a missing explicit file should fail")
	}

	writeConfig(t, "broken.toml", `origin = `)
	if _, _, err := Load(LoadOptions{ConfigFile: "broken.toml", ConfigDir: configDir}); err == nil {
		t.Error("Load() with invalid TOML should fail")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	_, configDir := isolate(t)

	saved := DefaultSettings()
	saved.SourcesDir = "/var/capable"
	saved.Ref = "develop"
	saved.Jobs = 3

	path := filepath.Join(configDir, "nested", "config.toml")
	if err := saved.Save(path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, _, err := Load(LoadOptions{ConfigFile: path})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if *loaded != *saved {
		t.Errorf("Load() = %+v, want %+v", *loaded, *saved)
	}

	data, err := saved.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	for _, key := range []string{"sources_dir", "freshness_seconds", "load_file"} {
		if !strings.Contains(string(data), key) {
			t.Errorf("Marshal() missing %q:\n%s", key, data)
		}
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/.capable", filepath.Join(home, ".capable")},
		{"/abs/path", "/abs/path"},
		{"relative", "relative"},
		{"~other/dir", "~other/dir"},
	}
	for _, tt := range tests {
		got, err := ExpandHome(tt.in)
		if err != nil {
			t.Fatalf("ExpandHome(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ExpandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestConfigDir(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	got, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error: %v", err)
	}
	if want := filepath.Join(xdg, AppName); got != want {
		t.Errorf("ConfigDir() = %q, want %q", got, want)
	}
}

func TestSettingsPaths(t *testing.T) {
	s := DefaultSettings()
	s.SourcesDir = "/home/user/.capable"

	if got, want := s.SourceDir("abc123"), "/home/user/.capable/abc123"; got != want {
		t.Errorf("SourceDir() = %q, want %q", got, want)
	}

	tests := []struct {
		refname string
		want    string
	}{
		{"", "capable/master"},
		{"develop", "capable/develop"},
		{"release/1.0", "capable/release/1.0"},
	}
	for _, tt := range tests {
		if got := s.QualifiedRef(tt.refname); got != tt.want {
			t.Errorf("QualifiedRef(%q) = %q, want %q", tt.refname, got, tt.want)
		}
	}
}
