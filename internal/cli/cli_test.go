package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mkrepo-labs/mkrepo/internal/probe"
	"github.com/mkrepo-labs/mkrepo/internal/project"
	"github.com/mkrepo-labs/mkrepo/internal/runtime"
	"github.com/mkrepo-labs/mkrepo/internal/scaffold"
	"github.com/mkrepo-labs/mkrepo/internal/templates"
)

// execute runs the root command with args in an isolated HOME and working
// directory.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := Execute("1.2.3", "abc123", "2026-01-01")
	return stdout.String(), stderr.String(), err
}

func TestRootValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"conflicting flags", []string{"--vite", "--next", "conflict"}, project.ErrConflictingFlags},
		{"missing name", []string{"--vite"}, project.ErrMissingName},
		{"flag-like name", []string{"--next", "--prod"}, project.ErrInvalidName},
		{"unsanitizable name", []string{"--vite", "///!!!"}, project.ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)

			var exitErr *ExitError
			if !errors.As(err, &exitErr) {
				t.Fatalf("Execute() error = %v, want *ExitError", err)
			}
			if exitErr.Code != 1 {
				t.Errorf("Code = %d, want 1", exitErr.Code)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("error %v does not wrap %v", err, tt.want)
			}
			if !strings.Contains(exitErr.Message, "Usage: mkrepo [--next <name> | --vite <name>]") {
				t.Errorf("Message lacks usage hint: %q", exitErr.Message)
			}
		})
	}
}

func TestRootHelp(t *testing.T) {
	stdout, _, err := execute(t, "-h")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(stdout, "--vite <name>") {
		t.Errorf("help output missing usage:\n%s", stdout)
	}
}

func TestVersionCommand(t *testing.T) {
	t.Cleanup(func() { versionShort, versionJSON = false, false })

	stdout, _, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(stdout) != "mkrepo version 1.2.3 (commit: abc123, built: 2026-01-01)" {
		t.Errorf("version output = %q", stdout)
	}

	stdout, _, err = execute(t, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(stdout) != "1.2.3" {
		t.Errorf("version --short output = %q", stdout)
	}
}

func TestConfigCommands(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{"config", "set", "publish_visibility", "public"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	if err := Execute("dev", "", ""); err != nil {
		t.Fatalf("config set: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".mkrepo", "config.yaml")); err != nil {
		t.Errorf("config file not written: %v", err)
	}

	stdout.Reset()
	rootCmd.SetArgs([]string{"config", "get", "publish_visibility"})
	if err := Execute("dev", "", ""); err != nil {
		t.Fatalf("config get: %v", err)
	}
	if strings.TrimSpace(stdout.String()) != "public" {
		t.Errorf("config get = %q, want public", stdout.String())
	}

	rootCmd.SetArgs([]string{"config", "get", "nope"})
	if err := Execute("dev", "", ""); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestFinish(t *testing.T) {
	cfg := &project.Config{Kind: project.KindVite, Name: "shop"}

	t.Run("success", func(t *testing.T) {
		var out bytes.Buffer
		outcome := &scaffold.Outcome{
			Status:    scaffold.StatusSuccess,
			Completed: []string{scaffold.StepGenerate, scaffold.StepEnter},
			Skipped:   []string{scaffold.StepEditor, scaffold.StepBrowser},
		}
		if err := finish(&out, cfg, outcome); err != nil {
			t.Fatal(err)
		}
		for _, want := range []string{"shop is ready in ./shop (2 steps)", "http://localhost:5173", "skipped: Open editor, Open browser"} {
			if !strings.Contains(out.String(), want) {
				t.Errorf("output lacks %q:\n%s", want, out.String())
			}
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		var out bytes.Buffer
		if err := finish(&out, cfg, scaffold.Cancelled()); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out.String(), "Cancelled") {
			t.Errorf("output = %q", out.String())
		}
	})

	t.Run("aborted", func(t *testing.T) {
		toolErr := &runtime.ExitError{Command: "npm install", ExitCode: 1, Stderr: "npm ERR! 404\n"}
		stepErr := &scaffold.StepError{Step: scaffold.StepInstall, Output: "npm ERR! 404", Err: toolErr}
		err := finish(&bytes.Buffer{}, cfg, &scaffold.Outcome{Status: scaffold.StatusAborted, Step: scaffold.StepInstall, Err: stepErr})

		var exitErr *ExitError
		if !errors.As(err, &exitErr) {
			t.Fatalf("finish() error = %v, want *ExitError", err)
		}
		if exitErr.Code != 1 {
			t.Errorf("Code = %d, want 1", exitErr.Code)
		}
		if n := strings.Count(exitErr.Message, "npm ERR! 404"); n != 1 {
			t.Errorf("tool output appears %d times in %q, want once", n, exitErr.Message)
		}
	})
}

type versionRunner map[string]string

func (v versionRunner) Run(_ context.Context, c runtime.Command) (*runtime.Output, error) {
	out, ok := v[c.Name]
	if !ok {
		return &runtime.Output{ExitCode: -1}, errors.New("executable file not found")
	}
	return &runtime.Output{Stdout: out}, nil
}

func TestCheckToolchain(t *testing.T) {
	var out bytes.Buffer
	failures := checkToolchain(context.Background(), &out, versionRunner{
		"node": "v16.0.0\n",
		"npm":  "10.2.4\n",
	})
	if failures != 2 {
		t.Errorf("failures = %d, want 2 (old node, missing git)", failures)
	}
	text := out.String()
	for _, want := range []string{"[FAIL] node 16.0.0: requires >= 18.18.0", "[OK]   npm 10.2.4", "[FAIL] git: not available"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestCheckTemplates(t *testing.T) {
	root := t.TempDir()
	files := []string{
		templates.PrettierConfig,
		filepath.Join("vite", templates.ESLintConfig),
		filepath.Join("vite", templates.TSConfig),
	}
	for _, f := range files {
		path := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("{}"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	var out bytes.Buffer
	if failures := checkTemplates(&out, root); failures != 1 {
		t.Errorf("failures = %d, want 1 (nextjs)", failures)
	}
	text := out.String()
	if !strings.Contains(text, "[OK]   Vite (React + TS)") {
		t.Errorf("vite should pass:\n%s", text)
	}
	if strings.Count(text, "[FAIL] Next.js: missing") != 2 {
		t.Errorf("expected two missing nextjs files:\n%s", text)
	}
}

func TestCheckCapabilities(t *testing.T) {
	avail := probe.None()
	avail[probe.Editor] = probe.Result{Capability: probe.Editor, Available: true, Path: "/usr/bin/code"}

	var out bytes.Buffer
	checkCapabilities(&out, avail)
	text := out.String()
	if !strings.Contains(text, "[OK]   editor: /usr/bin/code") {
		t.Errorf("output:\n%s", text)
	}
	if strings.Count(text, "[WARN]") != 3 {
		t.Errorf("expected three missing integrations:\n%s", text)
	}
}

func TestStatusTagsPlainWhenRedirected(t *testing.T) {
	st := newStatusStyles(&bytes.Buffer{})
	for got, want := range map[string]string{st.OK(): "[OK]   ", st.Warn(): "[WARN] ", st.Fail(): "[FAIL] "} {
		if got != want {
			t.Errorf("tag = %q, want %q", got, want)
		}
	}
}
