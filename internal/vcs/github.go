package vcs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mkrepo-labs/mkrepo/internal/runtime"
)

// Visibility values accepted by CreateRepo.
const (
	Private = "private"
	Public  = "public"
)

// ErrRepoNotFound is returned by DeleteRepo when the repository is absent.
var ErrRepoNotFound = errors.New("repository not found")

// Host drives the GitHub CLI.
type Host struct {
	bin    string
	runner runtime.Runner
}

// NewHost returns a Host that invokes the gh binary at bin ("gh" when empty).
func NewHost(bin string, runner runtime.Runner) *Host {
	if bin == "" {
		bin = "gh"
	}
	return &Host{bin: bin, runner: runner}
}

func (h *Host) run(ctx context.Context, dir string, args ...string) (string, error) {
	out, err := h.runner.Run(ctx, runtime.Command{Name: h.bin, Args: args, Dir: dir})
	if err != nil {
		return "", fmt.Errorf("gh %s: %w", strings.Join(args, " "), err)
	}
	return out.Stdout, nil
}

// CurrentUser returns the login of the authenticated account.
func (h *Host) CurrentUser(ctx context.Context) (string, error) {
	out, err := h.run(ctx, "", "api", "user", "--jq", ".login")
	if err != nil {
		return "", err
	}
	login := strings.TrimSpace(out)
	if login == "" {
		return "", errors.New("gh returned an empty login")
	}
	return login, nil
}

// CreateRepo creates a remote repository named name from the working tree at
// dir, adds it as origin and pushes.
func (h *Host) CreateRepo(ctx context.Context, dir, name, visibility string) error {
	switch visibility {
	case Private, Public:
	default:
		return fmt.Errorf("unsupported visibility %q (want %s or %s)", visibility, Private, Public)
	}
	_, err := h.run(ctx, dir, "repo", "create", name, "--"+visibility, "--source=.", "--remote=origin", "--push")
	return err
}

// DeleteRepo deletes owner/name. A repository that does not exist yields
// ErrRepoNotFound.
func (h *Host) DeleteRepo(ctx context.Context, fullName string) error {
	_, err := h.run(ctx, "", "repo", "delete", fullName, "--yes")
	if err == nil {
		return nil
	}
	var exitErr *runtime.ExitError
	if errors.As(err, &exitErr) && isNotFound(exitErr.Stderr) {
		return fmt.Errorf("%s: %w", fullName, ErrRepoNotFound)
	}
	return err
}

func isNotFound(stderr string) bool {
	s := strings.ToLower(stderr)
	return strings.Contains(s, "could not resolve to a repository") || strings.Contains(s, "not found")
}
