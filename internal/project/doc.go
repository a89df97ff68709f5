// Package project defines the two supported project kinds and resolves the
// command line (or, failing that, interactive answers) into a validated
// Config. Resolution never touches the filesystem beyond a single stat of
// the target directory.
package project
