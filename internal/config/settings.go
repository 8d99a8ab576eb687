package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// Environment overrides
const (
	EnvPrefix     = "CAPABLE"
	EnvSourcesDir = "CAPABLE_GIT_SOURCE_DIR"
	EnvOrigin     = "CAPABLE_GIT_ORIGIN"
	EnvLogLevel   = "CAPABLE_LOG_LEVEL"
)

// Defaults
const (
	DefaultSourcesDir       = "~/.capable"
	DefaultOrigin           = "capable"
	DefaultBase             = "vendor/capable/"
	DefaultRef              = "master"
	DefaultFreshnessSeconds = 300
	DefaultJobs             = 1

	ImportFileName = "Capable"
	ListFileName   = "Capable.list"
	LoadFileName   = "Capable.load"

	// LocalConfigFile is looked up in the working directory before the user config dir
	LocalConfigFile = "capable.toml"
)

// Settings represents capable.toml
type Settings struct {
	// Root directory holding one checkout per source key
	SourcesDir string `toml:"sources_dir" mapstructure:"sources_dir"`

	// Remote label used for clone --origin and for qualifying refs
	Origin string `toml:"origin" mapstructure:"origin"`

	// Default local save root for fetched capabilities
	Base string `toml:"base" mapstructure:"base"`

	// Default ref name when a source does not pin one
	Ref string `toml:"ref" mapstructure:"ref"`

	// Seconds a checkout is considered current after a fetch
	FreshnessSeconds int `toml:"freshness_seconds" mapstructure:"freshness_seconds"`

	// Sources processed concurrently within each package phase
	Jobs int `toml:"jobs" mapstructure:"jobs"`

	ImportFile string `toml:"import_file" mapstructure:"import_file"`
	ListFile   string `toml:"list_file" mapstructure:"list_file"`
	LoadFile   string `toml:"load_file" mapstructure:"load_file"`
}

// LoadOptions defines explicit configuration loading inputs
type LoadOptions struct {
	// ConfigFile forces loading from a specific file when set
	ConfigFile string
	// ConfigDir overrides the user config directory lookup when set
	ConfigDir string
}

// DefaultSettings returns default configuration
func DefaultSettings() *Settings {
	return &Settings{
		SourcesDir:       DefaultSourcesDir,
		Origin:           DefaultOrigin,
		Base:             DefaultBase,
		Ref:              DefaultRef,
		FreshnessSeconds: DefaultFreshnessSeconds,
		Jobs:             DefaultJobs,
		ImportFile:       ImportFileName,
		ListFile:         ListFileName,
		LoadFile:         LoadFileName,
	}
}

// Freshness returns how long a fetched checkout stays current
func (s *Settings) Freshness() time.Duration {
	return time.Duration(s.FreshnessSeconds) * time.Second
}

// Load resolves settings from defaults, an optional TOML file and CAPABLE_* env vars.
// It returns the settings and the config file that was read, if any.
func Load(opts LoadOptions) (*Settings, string, error) {
	v := viper.New()
	v.SetConfigType("toml")

	defaults := DefaultSettings()
	v.SetDefault("sources_dir", defaults.SourcesDir)
	v.SetDefault("origin", defaults.Origin)
	v.SetDefault("base", defaults.Base)
	v.SetDefault("ref", defaults.Ref)
	v.SetDefault("freshness_seconds", defaults.FreshnessSeconds)
	v.SetDefault("jobs", defaults.Jobs)
	v.SetDefault("import_file", defaults.ImportFile)
	v.SetDefault("list_file", defaults.ListFile)
	v.SetDefault("load_file", defaults.LoadFile)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	// The two historical variable names do not follow the prefix scheme
	if err := v.BindEnv("sources_dir", EnvSourcesDir); err != nil {
		return nil, "", err
	}
	if err := v.BindEnv("origin", EnvOrigin); err != nil {
		return nil, "", err
	}

	path, err := resolveConfigFile(opts)
	if err != nil {
		return nil, "", err
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, "", fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, "", fmt.Errorf("parse config: %w", err)
	}

	s.SourcesDir, err = ExpandHome(s.SourcesDir)
	if err != nil {
		return nil, "", err
	}
	if s.Jobs < 1 {
		s.Jobs = 1
	}
	if s.FreshnessSeconds < 0 {
		s.FreshnessSeconds = 0
	}

	return &s, path, nil
}

// resolveConfigFile picks the explicit file, ./capable.toml, or the user config file
func resolveConfigFile(opts LoadOptions) (string, error) {
	if opts.ConfigFile != "" {
		if !fileExists(opts.ConfigFile) {
			return "", fmt.Errorf("config file not found: %s", opts.ConfigFile)
		}
		return opts.ConfigFile, nil
	}

	if fileExists(LocalConfigFile) {
		return LocalConfigFile, nil
	}

	dir := opts.ConfigDir
	if dir == "" {
		var err error
		dir, err = ConfigDir()
		if err != nil {
			return "", nil
		}
	}

	userPath := filepath.Join(dir, "config.toml")
	if fileExists(userPath) {
		return userPath, nil
	}
	return "", nil
}

// Save writes the settings as TOML
func (s *Settings) Save(path string) error {
	data, err := s.Marshal()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Marshal encodes the settings as TOML
func (s *Settings) Marshal() ([]byte, error) {
	return toml.Marshal(s)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
