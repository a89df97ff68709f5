// Package vcs wraps the git and gh command-line tools. Commands go through a
// runtime.Runner and always target an explicit directory; nothing here
// depends on the process working directory.
package vcs
