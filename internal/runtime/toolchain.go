package runtime

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Minimum versions of the tools the generators and the pipeline rely on.
var MinVersions = map[string]string{
	"node": ">= 18.18.0",
	"npm":  ">= 9.0.0",
	"git":  ">= 2.20.0",
}

var versionPattern = regexp.MustCompile(`\d+\.\d+(\.\d+)?`)

// Toolchain holds the resolved locations of the Node.js binaries.
type Toolchain struct {
	Node string
	NPM  string
}

// LocateToolchain finds node and npm on PATH. lookPath defaults to
// exec.LookPath.
func LocateToolchain(lookPath func(string) (string, error)) (*Toolchain, error) {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	node, err := lookPath("node")
	if err != nil {
		return nil, fmt.Errorf("node is required but not found in PATH: %w", err)
	}
	npm, err := lookPath("npm")
	if err != nil {
		return nil, fmt.Errorf("npm is required but not found in PATH: %w", err)
	}
	return &Toolchain{Node: node, NPM: npm}, nil
}

// BinDirs returns the distinct directories holding npm and node, npm first.
func (t *Toolchain) BinDirs() []string {
	var dirs []string
	for _, p := range []string{t.NPM, t.Node} {
		if p == "" {
			continue
		}
		dirs = append(dirs, filepath.Dir(p))
	}
	return dedupe(dirs)
}

// BuildPATH puts dirs in front of existing, dropping duplicates while keeping
// the first occurrence of each entry.
func BuildPATH(dirs []string, existing string) string {
	all := append([]string{}, dirs...)
	if existing != "" {
		all = append(all, filepath.SplitList(existing)...)
	}
	return strings.Join(dedupe(all), string(os.PathListSeparator))
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it == "" || seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}

// ToolVersion runs "<name> --version" and extracts the version number.
func ToolVersion(ctx context.Context, r Runner, name string) (string, error) {
	out, err := r.Run(ctx, Command{Name: name, Args: []string{"--version"}})
	if err != nil {
		return "", err
	}
	v := versionPattern.FindString(out.Stdout)
	if v == "" {
		return "", fmt.Errorf("no version number in %s output %q", name, strings.TrimSpace(out.Stdout))
	}
	return v, nil
}

// CheckVersion reports whether version satisfies the minimum for tool.
// Tools without a declared minimum always pass.
func CheckVersion(tool, version string) (bool, error) {
	constraint, ok := MinVersions[tool]
	if !ok {
		return true, nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("parsing constraint %q: %w", constraint, err)
	}
	v, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		return false, fmt.Errorf("parsing %s version %q: %w", tool, version, err)
	}
	return c.Check(v), nil
}
