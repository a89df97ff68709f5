package project

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mkrepo-labs/mkrepo/internal/naming"
)

// flagLike matches tokens such as "--prod" or "-x" that must never be taken
// as a project name.
var flagLike = regexp.MustCompile(`^--?[\w-]+$`)

// Config is the validated input to the scaffold pipeline. Name is always
// sanitized.
type Config struct {
	Kind Kind
	Name string
}

// Prompter asks the user for the values the command line did not supply.
type Prompter interface {
	Select(ctx context.Context, message string, choices []string) (int, error)
	Input(ctx context.Context, message string) (string, error)
}

// Resolve turns raw arguments into a Config. When neither selector flag is
// present it falls back to p for the kind and the name. baseDir is where the
// project directory will be created.
func Resolve(ctx context.Context, args []string, baseDir string, p Prompter) (*Config, error) {
	kind, candidate, fromFlags, err := parseArgs(args)
	if err != nil {
		return nil, err
	}

	if fromFlags {
		if flagLike.MatchString(candidate) {
			return nil, fmt.Errorf("%w: %q looks like a flag", ErrInvalidName, candidate)
		}
	} else {
		if p == nil {
			return nil, fmt.Errorf("%w: pass %s or %s with a name", ErrMissingName, KindNext.Flag(), KindVite.Flag())
		}
		kind, candidate, err = ask(ctx, p)
		if err != nil {
			return nil, err
		}
	}

	name := naming.Sanitize(candidate)
	if !naming.IsSanitized(name) {
		return nil, fmt.Errorf("%w: %q has no usable characters", ErrInvalidName, candidate)
	}

	target := filepath.Join(baseDir, name)
	if _, err := os.Stat(target); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrDirectoryExists, target)
	}

	return &Config{Kind: kind, Name: name}, nil
}

// parseArgs scans the raw tokens. fromFlags is false when no selector flag
// was given and the caller should prompt instead.
func parseArgs(args []string) (kind Kind, candidate string, fromFlags bool, err error) {
	seen := make(map[Kind]bool)
	for _, a := range args {
		if k, ok := selector(a); ok {
			seen[k] = true
		}
	}
	if len(seen) > 1 {
		return 0, "", false, fmt.Errorf("%w: %s and %s cannot be used together", ErrConflictingFlags, KindNext.Flag(), KindVite.Flag())
	}

	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "-h" || a == "--help" {
			return 0, "", false, ErrHelp
		}

		k, ok := selector(a)
		if !ok {
			return 0, "", false, fmt.Errorf("%w: %q", ErrUnexpectedArgument, a)
		}
		if fromFlags {
			return 0, "", false, fmt.Errorf("%w: %s given more than once", ErrUnexpectedArgument, k.Flag())
		}
		kind, fromFlags = k, true

		if value, hasValue := strings.CutPrefix(a, k.Flag()+"="); hasValue {
			if value == "" {
				return 0, "", false, fmt.Errorf("%w after %s", ErrMissingName, k.Flag())
			}
			candidate = value
			continue
		}
		if i+1 >= len(args) {
			return 0, "", false, fmt.Errorf("%w after %s", ErrMissingName, k.Flag())
		}
		i++
		candidate = args[i]
	}

	return kind, candidate, fromFlags, nil
}

// selector reports whether token is a selector flag, in either "--vite" or
// "--vite=name" form.
func selector(token string) (Kind, bool) {
	flag, _, _ := strings.Cut(token, "=")
	return KindFromFlag(flag)
}

func ask(ctx context.Context, p Prompter) (Kind, string, error) {
	labels := make([]string, len(Kinds))
	for i, k := range Kinds {
		labels[i] = k.String()
	}

	idx, err := p.Select(ctx, "Choose a project type:", labels)
	if err != nil {
		return 0, "", err
	}
	if idx < 0 || idx >= len(Kinds) {
		return 0, "", fmt.Errorf("%w: selection %d out of range", ErrUnexpectedArgument, idx+1)
	}

	name, err := p.Input(ctx, "Project name:")
	if err != nil {
		return 0, "", err
	}
	return Kinds[idx], name, nil
}
