// Package prompt implements the interactive questions asked when the command
// line does not select a project: a closed choice, a free-text answer and a
// yes/no confirmation.
//
// On a terminal the kind and name prompts read keys in raw mode so Ctrl-C
// and Escape can cancel cleanly; the previous terminal state is restored on
// every return path. When stdin is not a terminal (pipes, the test harness)
// the same questions are answered line by line.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

// ErrCancelled is returned when the user interrupts a prompt.
var ErrCancelled = errors.New("cancelled by user")

const (
	reset = "\033[0m"
	bold  = "\033[1m"
	dim   = "\033[2m"
	cyan  = "\033[36m"
	green = "\033[32m"
)

// Terminal asks questions on an input/output pair.
type Terminal struct {
	in          io.Reader
	out         io.Writer
	fd          int
	interactive bool
	makeRaw     func(fd int) (restore func() error, err error)
	lines       *bufio.Reader
}

// New returns a Terminal reading from in. Raw-mode prompts are used only when
// in is attached to a terminal.
func New(in *os.File, out io.Writer) *Terminal {
	fd := int(in.Fd())
	return &Terminal{
		in:          in,
		out:         out,
		fd:          fd,
		interactive: term.IsTerminal(fd),
		makeRaw: func(fd int) (func() error, error) {
			state, err := term.MakeRaw(fd)
			if err != nil {
				return nil, err
			}
			return func() error { return term.Restore(fd, state) }, nil
		},
		lines: bufio.NewReader(in),
	}
}

// Interactive reports whether prompts are read in raw mode.
func (t *Terminal) Interactive() bool {
	return t.interactive
}

// Select presents choices and returns the index of the chosen one.
func (t *Terminal) Select(ctx context.Context, message string, choices []string) (int, error) {
	if len(choices) == 0 {
		return 0, fmt.Errorf("no choices for %q", message)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if t.interactive {
		var idx int
		err := t.withRawMode(func() error {
			var err error
			idx, err = t.selectRaw(message, choices)
			return err
		})
		return idx, err
	}
	return t.selectLine(message, choices)
}

// Input asks for a free-text answer.
func (t *Terminal) Input(ctx context.Context, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if t.interactive {
		var answer string
		err := t.withRawMode(func() error {
			var err error
			answer, err = t.inputRaw(message)
			return err
		})
		return answer, err
	}

	fmt.Fprintf(t.out, "%s ", message)
	line, err := t.readLine()
	if err != nil {
		return "", fmt.Errorf("reading answer to %q: %w", message, err)
	}
	return line, nil
}

// Confirm asks a yes/no question that defaults to yes. A read failure counts
// as "no".
func (t *Terminal) Confirm(ctx context.Context, message string) bool {
	if ctx.Err() != nil {
		return false
	}
	fmt.Fprintf(t.out, "%s [Y/n] ", message)
	line, err := t.readLine()
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "" || answer == "y" || answer == "yes"
}

// withRawMode runs fn with the terminal in raw mode and always restores it.
func (t *Terminal) withRawMode(fn func() error) (err error) {
	restore, err := t.makeRaw(t.fd)
	if err != nil {
		return fmt.Errorf("entering raw mode: %w", err)
	}
	defer func() {
		if rerr := restore(); rerr != nil && err == nil {
			err = fmt.Errorf("restoring terminal: %w", rerr)
		}
	}()
	return fn()
}

func (t *Terminal) readLine() (string, error) {
	line, err := t.lines.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// selectLine renders a numbered menu and reads the choice from a line.
func (t *Terminal) selectLine(message string, choices []string) (int, error) {
	fmt.Fprintf(t.out, "%s\n", message)
	for i, c := range choices {
		fmt.Fprintf(t.out, "  %d) %s\n", i+1, c)
	}
	fmt.Fprintf(t.out, "Enter number [1-%d]: ", len(choices))

	line, err := t.readLine()
	if err != nil {
		return 0, fmt.Errorf("reading selection: %w", err)
	}
	line = strings.TrimSpace(line)

	if num, err := strconv.Atoi(line); err == nil && num >= 1 && num <= len(choices) {
		return num - 1, nil
	}
	for i, c := range choices {
		if strings.EqualFold(line, c) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("invalid selection %q: choose 1-%d", line, len(choices))
}

func (t *Terminal) selectRaw(message string, choices []string) (int, error) {
	selected := 0
	t.raw(fmt.Sprintf("%s?%s %s%s%s\r\n", green, reset, bold, message, reset))

	draw := func() {
		for i, c := range choices {
			t.raw("\r\033[K")
			if i == selected {
				t.raw(fmt.Sprintf("%s❯ %s%s\r\n", cyan, c, reset))
			} else {
				t.raw(fmt.Sprintf("  %s\r\n", c))
			}
		}
		t.raw(fmt.Sprintf("\r\033[K%s↑↓ move  Enter select  Esc cancel%s", dim, reset))
	}
	redraw := func() {
		t.raw(fmt.Sprintf("\r\033[%dA", len(choices)))
		draw()
	}
	finish := func() {
		t.raw(fmt.Sprintf("\r\033[%dA\033[J", len(choices)))
		t.raw(fmt.Sprintf("  %s%s%s\r\n", cyan, choices[selected], reset))
	}

	draw()
	for {
		events, err := t.readKeys()
		if err != nil {
			return 0, err
		}
		for _, ev := range events {
			switch ev.kind {
			case keyInterrupt, keyEscape:
				t.raw("\r\n")
				return 0, ErrCancelled
			case keyUp:
				selected = (selected - 1 + len(choices)) % len(choices)
				redraw()
			case keyDown:
				selected = (selected + 1) % len(choices)
				redraw()
			case keyEnter:
				finish()
				return selected, nil
			case keyRune:
				if n := int(ev.r - '0'); n >= 1 && n <= len(choices) {
					selected = n - 1
					finish()
					return selected, nil
				}
			}
		}
	}
}

func (t *Terminal) inputRaw(message string) (string, error) {
	t.raw(fmt.Sprintf("%s?%s %s%s%s ", green, reset, bold, message, reset))

	var answer []byte
	for {
		events, err := t.readKeys()
		if err != nil {
			return "", err
		}
		for _, ev := range events {
			switch ev.kind {
			case keyInterrupt, keyEscape:
				t.raw("\r\n")
				return "", ErrCancelled
			case keyEnter:
				t.raw("\r\n")
				return string(answer), nil
			case keyBackspace:
				if len(answer) > 0 {
					_, size := utf8.DecodeLastRune(answer)
					answer = answer[:len(answer)-size]
					t.raw("\b \b")
				}
			case keyRune:
				answer = utf8.AppendRune(answer, ev.r)
				t.raw(string(ev.r))
			}
		}
	}
}

func (t *Terminal) readKeys() ([]keyEvent, error) {
	buf := make([]byte, 64)
	n, err := t.in.Read(buf)
	if n > 0 {
		return decodeKeys(buf[:n]), nil
	}
	if err == nil {
		return nil, nil
	}
	if errors.Is(err, io.EOF) {
		return nil, ErrCancelled
	}
	return nil, fmt.Errorf("reading key: %w", err)
}

func (t *Terminal) raw(s string) {
	io.WriteString(t.out, s)
}
