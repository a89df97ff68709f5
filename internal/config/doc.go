// Package config manages user-level settings stored at ~/.mkrepo/config.yaml.
// Values are read through Viper so every key can also be supplied as an
// MKREPO_-prefixed environment variable; TEST_MODE is accepted unprefixed.
package config
