package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/mkrepo-labs/mkrepo/internal/config"
	"github.com/mkrepo-labs/mkrepo/internal/probe"
	"github.com/mkrepo-labs/mkrepo/internal/project"
	"github.com/mkrepo-labs/mkrepo/internal/runtime"
	"github.com/mkrepo-labs/mkrepo/internal/templates"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the toolchain, templates and optional integrations",
	Long: `Run diagnostic checks on the environment mkrepo drives: Node.js, npm and
git versions, the template root for every project kind, and the optional
editor, browser, window manager and GitHub CLI integrations.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := config.Load()
		ctx := commandContext(cmd, settings)
		out := cmd.OutOrStdout()

		failures := checkToolchain(ctx, out, &runtime.ExecRunner{})
		failures += checkTemplates(out, settings.TemplateRoot)
		checkCapabilities(out, probe.New().All())

		if failures > 0 {
			return &ExitError{Code: 1, Message: fmt.Sprintf("%d check(s) failed", failures)}
		}
		fmt.Fprintln(out, "\nAll required checks passed.")
		return nil
	},
}

// checkToolchain reports the required tools and returns the failure count.
func checkToolchain(ctx context.Context, out io.Writer, r runtime.Runner) int {
	st := newStatusStyles(out)
	fmt.Fprintln(out, st.title.Render("Toolchain:"))
	failures := 0
	for _, tool := range []string{"node", "npm", "git"} {
		version, err := runtime.ToolVersion(ctx, r, tool)
		if err != nil {
			fmt.Fprintf(out, "  %s%s: not available (%v)\n", st.Fail(), tool, err)
			failures++
			continue
		}
		ok, err := runtime.CheckVersion(tool, version)
		switch {
		case err != nil:
			fmt.Fprintf(out, "  %s%s %s: %v\n", st.Warn(), tool, version, err)
		case !ok:
			fmt.Fprintf(out, "  %s%s %s: requires %s\n", st.Fail(), tool, version, runtime.MinVersions[tool])
			failures++
		default:
			fmt.Fprintf(out, "  %s%s %s\n", st.OK(), tool, version)
		}
	}
	return failures
}

// checkTemplates reports the template root for every kind and returns the
// failure count.
func checkTemplates(out io.Writer, root string) int {
	st := newStatusStyles(out)
	fmt.Fprintf(out, "\n%s\n", st.title.Render(fmt.Sprintf("Templates (%s):", root)))
	failures := 0
	for _, kind := range project.Kinds {
		_, err := templates.Resolve(root, kind)
		var problems *templates.MissingTemplatesError
		switch {
		case err == nil:
			fmt.Fprintf(out, "  %s%s\n", st.OK(), kind)
		case errors.As(err, &problems):
			for _, p := range problems.Missing {
				fmt.Fprintf(out, "  %s%s: missing %s\n", st.Fail(), kind, p)
			}
			for _, p := range problems.Malformed {
				fmt.Fprintf(out, "  %s%s: malformed %s\n", st.Fail(), kind, p)
			}
			failures++
		default:
			fmt.Fprintf(out, "  %s%s: %v\n", st.Fail(), kind, err)
			failures++
		}
	}
	return failures
}

// checkCapabilities lists the optional integrations. Missing ones only warn.
func checkCapabilities(out io.Writer, avail probe.Availability) {
	st := newStatusStyles(out)
	fmt.Fprintf(out, "\n%s\n", st.title.Render("Optional integrations:"))
	for _, r := range avail.Sorted() {
		if r.Available {
			fmt.Fprintf(out, "  %s%s: %s\n", st.OK(), r.Capability, r.Path)
		} else {
			fmt.Fprintf(out, "  %s%s: not found (step will be skipped)\n", st.Warn(), r.Capability)
		}
	}
}
