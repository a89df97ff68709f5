// Package branding provides compile-time identity values for the CLI.
//
// The values live in branding.yaml next to this file and are baked into the
// binary with //go:embed, so a fork only needs to edit the YAML.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName       string `yaml:"cli_name"`
	DisplayName   string `yaml:"display_name"`
	Description   string `yaml:"description"`
	HomeDir       string `yaml:"home_dir"`
	EnvPrefix     string `yaml:"env_prefix"`
	TemplateRoot  string `yaml:"template_root"`
	CommitMessage string `yaml:"commit_message"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing or empty.
		defaults = brand{
			CLIName:       "mkrepo",
			DisplayName:   "mkrepo",
			Description:   "Spin up your next front-end repo in seconds",
			HomeDir:       ".mkrepo",
			EnvPrefix:     "MKREPO",
			TemplateRoot:  "~/dev-templates",
			CommitMessage: "Initial commit via mkrepo",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "mkrepo").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".mkrepo").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "MKREPO").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// TemplateRoot returns the default template root, possibly starting with "~".
func TemplateRoot() string { load(); return defaults.TemplateRoot }

// CommitMessage returns the message used for the first commit of a new project.
func CommitMessage() string { load(); return defaults.CommitMessage }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("test_mode") → "MKREPO_TEST_MODE".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
