// Package launcher opens the editor and browser on a new project and nudges
// their windows into a side-by-side layout.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	goruntime "runtime"
	"strings"

	"github.com/mkrepo-labs/mkrepo/internal/probe"
	"github.com/mkrepo-labs/mkrepo/internal/runtime"
)

// Side is a screen half for window placement.
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Right {
		return "right"
	}
	return "left"
}

// ErrUnavailable is returned when the capability needed for an action was
// not found by the probe.
var ErrUnavailable = errors.New("capability unavailable")

// ErrPlacementUnsupported is returned when the window manager found cannot
// snap windows to a screen half.
var ErrPlacementUnsupported = errors.New("window placement not supported by this tool")

// Launcher starts desktop applications. Editors are run to completion since
// their CLIs hand off to a running instance; browsers are started detached.
type Launcher struct {
	GOOS    string
	Runner  runtime.Runner
	Starter runtime.Starter
}

// New returns a Launcher for the running OS backed by r.
func New(r *runtime.ExecRunner) *Launcher {
	return &Launcher{GOOS: goruntime.GOOS, Runner: r, Starter: r}
}

// OpenEditor opens dir in the editor described by res.
func (l *Launcher) OpenEditor(ctx context.Context, res probe.Result, dir string) error {
	if !res.Available {
		return fmt.Errorf("editor: %w", ErrUnavailable)
	}
	cmd := runtime.Command{Name: res.Path, Args: []string{"."}, Dir: dir}
	if res.Bundle {
		cmd = runtime.Command{Name: "open", Args: []string{"-a", res.Path, dir}}
	}
	if _, err := l.Runner.Run(ctx, cmd); err != nil {
		return fmt.Errorf("opening editor: %w", err)
	}
	return nil
}

// OpenBrowser opens url in the browser described by res.
func (l *Launcher) OpenBrowser(ctx context.Context, res probe.Result, url string) error {
	if !res.Available {
		return fmt.Errorf("browser: %w", ErrUnavailable)
	}
	if res.Bundle {
		if _, err := l.Runner.Run(ctx, runtime.Command{Name: "open", Args: []string{"-a", res.Path, url}}); err != nil {
			return fmt.Errorf("opening browser: %w", err)
		}
		return nil
	}
	if err := l.Starter.Start(ctx, runtime.Command{Name: res.Path, Args: []string{url}}); err != nil {
		return fmt.Errorf("opening browser: %w", err)
	}
	return nil
}

// Place snaps the focused window to one half of the screen.
func (l *Launcher) Place(ctx context.Context, res probe.Result, side Side) error {
	if !res.Available {
		return fmt.Errorf("window manager: %w", ErrUnavailable)
	}
	cmd, err := l.placement(res, side)
	if err != nil {
		return err
	}
	if _, err := l.Runner.Run(ctx, cmd); err != nil {
		return fmt.Errorf("placing window %s: %w", side, err)
	}
	return nil
}

func (l *Launcher) placement(res probe.Result, side Side) (runtime.Command, error) {
	if res.Bundle && l.GOOS == "darwin" {
		action := "left-half"
		if side == Right {
			action = "right-half"
		}
		return runtime.Command{Name: "open", Args: []string{"-g", "rectangle://execute-action?name=" + action}}, nil
	}

	switch strings.TrimSuffix(filepath.Base(res.Path), ".exe") {
	case "xdotool":
		key := "super+Left"
		if side == Right {
			key = "super+Right"
		}
		return runtime.Command{Name: res.Path, Args: []string{"key", key}}, nil
	default:
		return runtime.Command{}, fmt.Errorf("%s: %w", res.Path, ErrPlacementUnsupported)
	}
}
