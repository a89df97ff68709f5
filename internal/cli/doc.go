// Package cli defines the Cobra command tree for the mkrepo CLI. The root
// command scaffolds a project; each other file registers one subcommand
// (doctor, selftest, config, version) with the root command. Command
// implementations delegate to internal packages for business logic and only
// handle argument handling, I/O formatting and exit codes.
package cli
