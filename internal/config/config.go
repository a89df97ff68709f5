package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mkrepo-labs/mkrepo/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Setting keys.
const (
	KeyTemplateRoot      = "template_root"
	KeyTestMode          = "test_mode"
	KeyLogLevel          = "log_level"
	KeyLogFormat         = "log_format"
	KeyPublishVisibility = "publish_visibility"
)

// Keys lists every key understood by `mkrepo config`.
var Keys = []string{KeyTemplateRoot, KeyTestMode, KeyLogLevel, KeyLogFormat, KeyPublishVisibility}

// Settings is the typed view of the resolved configuration for one run.
type Settings struct {
	TemplateRoot      string
	TestMode          bool
	LogLevel          string
	LogFormat         string
	PublishVisibility string
}

// Dir returns the path to the config directory (~/.mkrepo/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.mkrepo/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment and
// returns the resolved settings.
func Load() *Settings {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyTemplateRoot, branding.TemplateRoot())
	viper.SetDefault(KeyTestMode, false)
	viper.SetDefault(KeyLogLevel, "info")
	viper.SetDefault(KeyLogFormat, "text")
	viper.SetDefault(KeyPublishVisibility, "private")

	// The harness and older scripts export a bare TEST_MODE.
	_ = viper.BindEnv(KeyTestMode, branding.EnvVar(KeyTestMode), "TEST_MODE")

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()

	return &Settings{
		TemplateRoot:      ExpandHome(viper.GetString(KeyTemplateRoot)),
		TestMode:          viper.GetBool(KeyTestMode),
		LogLevel:          viper.GetString(KeyLogLevel),
		LogFormat:         viper.GetString(KeyLogFormat),
		PublishVisibility: viper.GetString(KeyPublishVisibility),
	}
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if !IsKnownKey(key) {
		return fmt.Errorf("unknown config key %q (known keys: %s)", key, strings.Join(Keys, ", "))
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// IsKnownKey reports whether key is one of Keys.
func IsKnownKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
