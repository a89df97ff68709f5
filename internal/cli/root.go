package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mkrepo-labs/mkrepo/internal/branding"
	"github.com/mkrepo-labs/mkrepo/internal/config"
	"github.com/mkrepo-labs/mkrepo/internal/launcher"
	"github.com/mkrepo-labs/mkrepo/internal/logging"
	"github.com/mkrepo-labs/mkrepo/internal/probe"
	"github.com/mkrepo-labs/mkrepo/internal/project"
	"github.com/mkrepo-labs/mkrepo/internal/prompt"
	"github.com/mkrepo-labs/mkrepo/internal/runtime"
	"github.com/mkrepo-labs/mkrepo/internal/scaffold"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

// stdin is the terminal the scaffold prompts read from.
var stdin = os.Stdin

func usageLine() string {
	return fmt.Sprintf("%s [%s <name> | %s <name>]", branding.CLIName(), project.KindNext.Flag(), project.KindVite.Flag())
}

var rootCmd = &cobra.Command{
	Use:   usageLine(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` creates a Next.js or Vite (React + TS) project, applies your shared
formatter, lint and compiler configs, commits it and opens it in your editor
and browser.

Without a selector flag it asks for the project kind and name interactively.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	// Selector flags take the following token as the project name, which
	// pflag cannot express while still detecting conflicts. Arguments are
	// handed to project.Resolve untouched.
	DisableFlagParsing: true,
	Args:               cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScaffold(cmd, args)
	},
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return rootCmd.Execute()
}

// commandContext returns the command's context with the configured logger.
func commandContext(cmd *cobra.Command, settings *config.Settings) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.New(settings.LogLevel, settings.LogFormat, cmd.ErrOrStderr())
	return logging.WithLogger(ctx, logger)
}

func runScaffold(cmd *cobra.Command, args []string) error {
	settings := config.Load()
	ctx := commandContext(cmd, settings)
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	baseDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}

	fmt.Fprintf(out, "\n%s - %s\n\n", branding.CLIName(), branding.Description())

	term := prompt.New(stdin, out)
	logging.FromContext(ctx).Debug("prompt mode", "interactive", term.Interactive())
	cfg, err := project.Resolve(ctx, args, baseDir, term)
	switch {
	case errors.Is(err, project.ErrHelp):
		return cmd.Help()
	case errors.Is(err, prompt.ErrCancelled):
		fmt.Fprintln(out, "\nCancelled. See you next time!")
		return nil
	case project.IsValidation(err):
		return &ExitError{
			Code:    1,
			Message: fmt.Sprintf("Error: %v\nUsage: %s", err, usageLine()),
			Err:     err,
		}
	case err != nil:
		return &ExitError{Code: 1, Message: fmt.Sprintf("Error: %v", err), Err: err}
	}

	avail := probe.New().All()
	log := logging.FromContext(ctx)
	for _, r := range avail.Sorted() {
		log.Debug("capability probed", "capability", string(r.Capability), "available", r.Available, "path", r.Path, "via", r.Via)
	}

	outcome := scaffold.New(cfg).Run(ctx, newRunContext(cfg, settings, avail, baseDir, term, out, errOut))
	return finish(out, cfg, outcome)
}

func newRunContext(cfg *project.Config, settings *config.Settings, avail probe.Availability, baseDir string, term *prompt.Terminal, out, errOut io.Writer) *scaffold.RunContext {
	runner := &runtime.ExecRunner{Stdout: out, Stderr: errOut}
	return &scaffold.RunContext{
		Config:        cfg,
		Availability:  avail,
		BaseDir:       baseDir,
		TemplateRoot:  settings.TemplateRoot,
		Visibility:    settings.PublishVisibility,
		CommitMessage: branding.CommitMessage(),
		TestMode:      settings.TestMode,
		Runner:        runner,
		Opener:        launcher.New(runner),
		Confirmer:     term,
		Out:           out,
	}
}

// finish reports the outcome and maps it to an exit status.
func finish(out io.Writer, cfg *project.Config, outcome *scaffold.Outcome) error {
	switch outcome.Status {
	case scaffold.StatusAborted:
		// The tool's stderr was mirrored live and its tail is part of Err.
		return &ExitError{Code: outcome.ExitCode(), Message: fmt.Sprintf("Error: %v", outcome.Err), Err: outcome.Err}
	case scaffold.StatusCancelled:
		fmt.Fprintln(out, "\nCancelled. See you next time!")
		return nil
	}

	fmt.Fprintf(out, "\nDone! %s is ready in ./%s (%d steps)\n", cfg.Name, cfg.Name, len(outcome.Completed))
	if len(outcome.Skipped) > 0 {
		fmt.Fprintf(out, "  skipped: %s\n", strings.Join(outcome.Skipped, ", "))
	}
	fmt.Fprintf(out, "  cd %s && npm run dev   # %s\n", cfg.Name, cfg.Kind.DevURL())
	return nil
}
