// Package harness runs the CLI end to end against a scenario matrix. Each
// scenario is a separate subprocess in a disposable directory; expected
// failures pass when the process exits non-zero and expected successes pass
// when the generated project carries its README, package manifest and git
// metadata.
package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mkrepo-labs/mkrepo/internal/branding"
	"github.com/mkrepo-labs/mkrepo/internal/config"
	"github.com/mkrepo-labs/mkrepo/internal/logging"
	"github.com/mkrepo-labs/mkrepo/internal/manifest"
	"github.com/mkrepo-labs/mkrepo/internal/runtime"
	"github.com/mkrepo-labs/mkrepo/internal/vcs"
)

// Git identity used by every scenario, so runs do not depend on the
// developer's git configuration.
const (
	gitName  = "mkrepo selftest"
	gitEmail = "selftest@mkrepo.invalid"
)

// Verdict classifies a finished scenario.
type Verdict int

const (
	Passed Verdict = iota
	ExpectedFail
	UnexpectedPass
	Failed
)

func (v Verdict) String() string {
	switch v {
	case Passed:
		return "Passed"
	case ExpectedFail:
		return "Expected fail"
	case UnexpectedPass:
		return "Unexpected pass"
	default:
		return "Failed"
	}
}

// OK reports whether the verdict counts as a pass.
func (v Verdict) OK() bool {
	return v == Passed || v == ExpectedFail
}

// Run is the record of one scenario execution.
type Run struct {
	Scenario Scenario
	Dir      string
	LogPath  string
	ExitCode int
	Stdout   string
	Stderr   string
	Verdict  Verdict
	Reason   string
}

// Report collects the runs of one harness invocation.
type Report struct {
	Runs []*Run
}

// Failures returns the runs that did not pass.
func (r *Report) Failures() []*Run {
	var out []*Run
	for _, run := range r.Runs {
		if !run.Verdict.OK() {
			out = append(out, run)
		}
	}
	return out
}

// Write prints one line per run followed by a summary.
func (r *Report) Write(w io.Writer) {
	for _, run := range r.Runs {
		tag := "[PASS]"
		if !run.Verdict.OK() {
			tag = "[FAIL]"
		}
		line := fmt.Sprintf("%s %s: %s", tag, run.Scenario.Label, run.Verdict)
		if run.Reason != "" {
			line += " (" + run.Reason + ")"
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "\n%d/%d scenarios passed\n", len(r.Runs)-len(r.Failures()), len(r.Runs))
}

// Harness executes scenarios against a CLI binary.
type Harness struct {
	// CLI is the binary under test.
	CLI string
	// Root holds one directory per scenario plus the output/ log directory.
	// It is deleted at the start of every Run.
	Root string

	Runner   runtime.Runner
	LookPath func(string) (string, error)
	// Host, when set, is used to delete remote repositories left by earlier
	// runs.
	Host *vcs.Host
	// BasePATH is the PATH the constructed one extends; empty means the
	// current process PATH.
	BasePATH string
	Out      io.Writer
	Logger   *slog.Logger
}

func (h *Harness) logger(ctx context.Context) *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return logging.FromContext(ctx)
}

func (h *Harness) printf(format string, args ...any) {
	if h.Out != nil {
		fmt.Fprintf(h.Out, format, args...)
	}
}

// OutputDir is where per-scenario logs are written.
func (h *Harness) OutputDir() string {
	return filepath.Join(h.Root, "output")
}

// Cleanup removes the harness root and any remote repositories the
// scenarios may have created. It is safe to call repeatedly.
func (h *Harness) Cleanup(ctx context.Context, scenarios []Scenario) error {
	h.printf("Cleaning up test directories and GitHub repos...\n")

	if err := os.RemoveAll(h.Root); err != nil {
		return fmt.Errorf("removing %s: %w", h.Root, err)
	}

	if h.Host != nil {
		h.deleteRemotes(ctx, scenarios)
	}

	if err := os.MkdirAll(h.OutputDir(), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	return nil
}

func (h *Harness) deleteRemotes(ctx context.Context, scenarios []Scenario) {
	login, err := h.Host.CurrentUser(ctx)
	if err != nil {
		h.logger(ctx).Info("skipping remote cleanup", "error", err)
		return
	}
	for _, s := range scenarios {
		if s.ProjectName == "" {
			continue
		}
		full := login + "/" + s.ProjectName
		err := h.Host.DeleteRepo(ctx, full)
		switch {
		case err == nil:
			h.printf("Deleted repo: %s\n", full)
		case errors.Is(err, vcs.ErrRepoNotFound):
			h.printf("No repo found or already deleted: %s\n", full)
		default:
			h.printf("Could not delete %s: %v\n", full, err)
		}
	}
}

// PATH returns the search path scenarios run with: the npm and node
// directories first, then the base PATH.
func (h *Harness) PATH() (string, error) {
	tc, err := runtime.LocateToolchain(h.LookPath)
	if err != nil {
		return "", err
	}
	base := h.BasePATH
	if base == "" {
		base = os.Getenv("PATH")
	}
	return runtime.BuildPATH(tc.BinDirs(), base), nil
}

// Run cleans up, executes every scenario in order and returns the report.
// The error is non-nil when the harness could not run or any scenario
// failed.
func (h *Harness) Run(ctx context.Context, scenarios []Scenario) (*Report, error) {
	path, err := h.PATH()
	if err != nil {
		return nil, fmt.Errorf("locating node toolchain: %w", err)
	}
	if err := h.Cleanup(ctx, scenarios); err != nil {
		return nil, err
	}

	report := &Report{}
	for _, s := range scenarios {
		h.printf("\n=== %s ===\n", s.Label)
		run := h.RunScenario(ctx, s, path)
		report.Runs = append(report.Runs, run)
		h.logger(ctx).Debug("scenario finished", "label", s.Label, "exit", run.ExitCode, "verdict", run.Verdict.String())
	}

	if failed := report.Failures(); len(failed) > 0 {
		return report, fmt.Errorf("%d of %d scenarios failed", len(failed), len(report.Runs))
	}
	return report, nil
}

// RunScenario executes one scenario with the given PATH and judges it.
func (h *Harness) RunScenario(ctx context.Context, s Scenario, path string) *Run {
	run := &Run{
		Scenario: s,
		Dir:      filepath.Join(h.Root, s.Slug()),
		LogPath:  filepath.Join(h.OutputDir(), s.Slug()+".log"),
	}

	if err := os.RemoveAll(run.Dir); err != nil {
		return run.fail("preparing directory: %v", err)
	}
	if err := os.MkdirAll(run.Dir, 0o755); err != nil {
		return run.fail("preparing directory: %v", err)
	}

	out, err := h.Runner.Run(ctx, runtime.Command{
		Name:  h.CLI,
		Args:  s.Args,
		Dir:   run.Dir,
		Env:   scenarioEnv(s, path),
		Stdin: strings.NewReader(s.Stdin),
	})
	if out != nil {
		run.ExitCode = out.ExitCode
		run.Stdout = out.Stdout
		run.Stderr = out.Stderr
	}
	h.writeLog(ctx, run)

	var exitErr *runtime.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return run.fail("could not start CLI: %v", err)
	}

	if s.ExpectFail {
		if run.ExitCode != 0 {
			run.Verdict = ExpectedFail
			return run
		}
		run.Verdict = UnexpectedPass
		run.Reason = "exited 0"
		return run
	}

	if run.ExitCode != 0 {
		return run.fail("exited %d", run.ExitCode)
	}
	if reason := verifyProject(filepath.Join(run.Dir, s.ProjectName)); reason != "" {
		return run.fail("%s", reason)
	}
	run.Verdict = Passed
	return run
}

func (r *Run) fail(format string, args ...any) *Run {
	r.Verdict = Failed
	r.Reason = fmt.Sprintf(format, args...)
	return r
}

// scenarioEnv layers the scenario's variables, the constructed PATH, a fixed
// git identity and test mode. Test mode is forced on under both of the names
// config reads, so an inherited MKREPO_TEST_MODE=false cannot switch it off.
func scenarioEnv(s Scenario, path string) []string {
	var env []string
	for k, v := range s.Env {
		env = append(env, k+"="+v)
	}
	return append(env,
		"PATH="+path,
		"GIT_AUTHOR_NAME="+gitName,
		"GIT_AUTHOR_EMAIL="+gitEmail,
		"GIT_COMMITTER_NAME="+gitName,
		"GIT_COMMITTER_EMAIL="+gitEmail,
		"TEST_MODE=true",
		branding.EnvVar(config.KeyTestMode)+"=true",
	)
}

func (h *Harness) writeLog(ctx context.Context, run *Run) {
	content := run.Stdout + "\n" + run.Stderr
	if err := os.WriteFile(run.LogPath, []byte(content), 0o644); err != nil {
		h.logger(ctx).Warn("could not write scenario log", "path", run.LogPath, "error", err)
	}
}

// verifyProject returns why dir is not a complete project, or "" when it is.
func verifyProject(dir string) string {
	var missing []string
	for _, name := range []string{"README.md", "package.json", ".git"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return "missing " + strings.Join(missing, ", ")
	}

	result, err := manifest.ValidateFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return err.Error()
	}
	if !result.Valid {
		return "invalid package.json: " + strings.ReplaceAll(result.String(), "\n", "; ")
	}
	pkg, err := manifest.Read(filepath.Join(dir, "package.json"))
	if err != nil {
		return err.Error()
	}
	if want := filepath.Base(dir); pkg.Name != want {
		return fmt.Sprintf("package.json names %q, want %q", pkg.Name, want)
	}
	return ""
}
