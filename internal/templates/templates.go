// Package templates locates the developer's shared template files and copies
// them into a freshly generated project.
package templates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/jsonc"
	"golang.org/x/sync/errgroup"

	"github.com/mkrepo-labs/mkrepo/internal/project"
)

// Shared and per-kind template file names.
const (
	PrettierConfig = ".prettierrc.json"
	ESLintConfig   = "eslint.config.mjs"
	TSConfig       = "tsconfig.json"
)

// Asset is one template file and the project-relative path it is copied to.
type Asset struct {
	Source string
	Target string
}

// Set is the resolved list of assets for one project kind.
type Set struct {
	Root   string
	Kind   project.Kind
	Assets []Asset
}

// MissingTemplatesError lists every template problem found under Root.
type MissingTemplatesError struct {
	Root      string
	Missing   []string
	Malformed []string
}

func (e *MissingTemplatesError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}
	if len(e.Malformed) > 0 {
		parts = append(parts, "malformed "+strings.Join(e.Malformed, ", "))
	}
	return fmt.Sprintf("template root %s: %s", e.Root, strings.Join(parts, "; "))
}

// Resolve checks that every template the kind needs exists under root. All
// problems are collected before returning, so one error names them all.
func Resolve(root string, kind project.Kind) (*Set, error) {
	kindDir := kind.TemplateDir()
	if kindDir == "" {
		return nil, fmt.Errorf("no templates for project kind %d", kind)
	}

	set := &Set{
		Root: root,
		Kind: kind,
		Assets: []Asset{
			{Source: filepath.Join(root, PrettierConfig), Target: PrettierConfig},
			{Source: filepath.Join(root, kindDir, ESLintConfig), Target: ESLintConfig},
			{Source: filepath.Join(root, kindDir, TSConfig), Target: TSConfig},
		},
	}

	problems := &MissingTemplatesError{Root: root}
	for _, a := range set.Assets {
		info, err := os.Stat(a.Source)
		if err != nil || info.IsDir() {
			problems.Missing = append(problems.Missing, a.Source)
			continue
		}
		if filepath.Ext(a.Source) == ".json" {
			if err := checkJSONC(a.Source); err != nil {
				problems.Malformed = append(problems.Malformed, a.Source)
			}
		}
	}

	if len(problems.Missing) > 0 || len(problems.Malformed) > 0 {
		sort.Strings(problems.Missing)
		sort.Strings(problems.Malformed)
		return nil, problems
	}
	return set, nil
}

// checkJSONC accepts JSON with comments and trailing commas, which is what
// tsconfig.json and prettier configs commonly contain.
func checkJSONC(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if !json.Valid(jsonc.ToJSON(data)) {
		return errors.New("invalid JSON")
	}
	return nil
}

// Apply copies every asset into projectDir concurrently, overwriting files
// the generator created. The first failure cancels the remaining copies.
func Apply(ctx context.Context, set *Set, projectDir string) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, a := range set.Assets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			dst := filepath.Join(projectDir, a.Target)
			if err := copyFile(a.Source, dst); err != nil {
				return fmt.Errorf("copying %s: %w", a.Target, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm()|fs.FileMode(0o200))
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
