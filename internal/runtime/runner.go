package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Command describes one external process invocation.
type Command struct {
	Name  string
	Args  []string
	Dir   string
	Env   []string // extra KEY=VALUE pairs layered over the runner's base env
	Stdin io.Reader
}

// String renders the command line for logs and error messages.
func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Output captures the result of a process execution.
type Output struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// ExitError reports a process that ran but exited non-zero.
type ExitError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Command, e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + lastLines(s, 20)
	}
	return msg
}

// Runner executes commands.
type Runner interface {
	// Run executes cmd and waits for it. A non-zero exit yields the captured
	// output together with an *ExitError.
	Run(ctx context.Context, cmd Command) (*Output, error)
}

// ExecRunner runs commands as real child processes.
type ExecRunner struct {
	// Stdout and Stderr receive a live copy of the child's output; nil
	// discards it. Output is captured either way.
	Stdout io.Writer
	Stderr io.Writer
	// Env is the base environment; nil means os.Environ().
	Env []string
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, c Command) (*Output, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdin = c.Stdin

	env := r.Env
	if env == nil {
		env = os.Environ()
	}
	for _, kv := range c.Env {
		key, value, _ := strings.Cut(kv, "=")
		env = SetEnv(env, key, value)
	}
	cmd.Env = env

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = mirror(&stdoutBuf, r.Stdout)
	cmd.Stderr = mirror(&stderrBuf, r.Stderr)

	err := cmd.Run()

	output := &Output{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			output.ExitCode = exitErr.ExitCode()
			return output, &ExitError{Command: c.String(), ExitCode: output.ExitCode, Stderr: output.Stderr}
		}
		output.ExitCode = -1
		return output, fmt.Errorf("running %s: %w", c.String(), err)
	}

	return output, nil
}

func mirror(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(w, buf)
}

// SetEnv sets or replaces an environment variable in the env slice. The
// slice is copied, never modified in place.
func SetEnv(env []string, key, value string) []string {
	out := make([]string, 0, len(env)+1)
	prefix := key + "="
	replaced := false
	for _, e := range env {
		if strings.HasPrefix(e, prefix) {
			if !replaced {
				out = append(out, prefix+value)
				replaced = true
			}
			continue
		}
		out = append(out, e)
	}
	if !replaced {
		out = append(out, prefix+value)
	}
	return out
}

// lastLines keeps the tail of noisy tool output readable in one error.
func lastLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return "...\n" + strings.Join(lines[len(lines)-n:], "\n")
}

// Starter launches long-lived processes without waiting for them, for GUI
// applications that keep running after the CLI exits.
type Starter interface {
	Start(ctx context.Context, cmd Command) error
}

// Start implements Starter. The child is detached from ctx once started so
// cancelling the run does not kill the launched application.
func (r *ExecRunner) Start(ctx context.Context, c Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cmd := exec.Command(c.Name, c.Args...)
	cmd.Dir = c.Dir
	env := r.Env
	if env == nil {
		env = os.Environ()
	}
	for _, kv := range c.Env {
		key, value, _ := strings.Cut(kv, "=")
		env = SetEnv(env, key, value)
	}
	cmd.Env = env
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", c.String(), err)
	}
	return cmd.Process.Release()
}
