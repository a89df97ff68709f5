package vcs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mkrepo-labs/mkrepo/internal/runtime"
)

// Repository is a git working tree at a fixed directory. Every command is
// run as "git -C <dir> ...".
type Repository struct {
	dir    string
	runner runtime.Runner
}

// NewRepository returns a Repository targeting dir.
func NewRepository(dir string, runner runtime.Runner) *Repository {
	return &Repository{dir: dir, runner: runner}
}

// Dir returns the repository directory.
func (r *Repository) Dir() string {
	return r.dir
}

// Run executes a git subcommand in the repository and returns stdout.
func (r *Repository) Run(ctx context.Context, args ...string) (string, error) {
	full := append([]string{"-C", r.dir}, args...)
	out, err := r.runner.Run(ctx, runtime.Command{Name: "git", Args: full})
	if err != nil {
		return "", fmt.Errorf("git %s in %s: %w", strings.Join(args, " "), r.dir, err)
	}
	return out.Stdout, nil
}

// RemoveMetadata deletes an existing .git directory so history starts fresh.
// Absence is not an error.
func (r *Repository) RemoveMetadata() error {
	if err := os.RemoveAll(filepath.Join(r.dir, ".git")); err != nil {
		return fmt.Errorf("removing existing git metadata: %w", err)
	}
	return nil
}

// Init creates a new repository.
func (r *Repository) Init(ctx context.Context) error {
	_, err := r.Run(ctx, "init")
	return err
}

// AddAll stages every file in the working tree.
func (r *Repository) AddAll(ctx context.Context) error {
	_, err := r.Run(ctx, "add", ".")
	return err
}

// Commit records the staged changes with message.
func (r *Repository) Commit(ctx context.Context, message string) error {
	_, err := r.Run(ctx, "commit", "-m", message)
	return err
}

// Remotes lists the configured remote names.
func (r *Repository) Remotes(ctx context.Context) ([]string, error) {
	out, err := r.Run(ctx, "remote")
	if err != nil {
		return nil, err
	}
	return strings.Fields(out), nil
}
