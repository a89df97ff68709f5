package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mkrepo-labs/mkrepo/internal/config"
	"github.com/mkrepo-labs/mkrepo/internal/harness"
	"github.com/mkrepo-labs/mkrepo/internal/logging"
	"github.com/mkrepo-labs/mkrepo/internal/probe"
	"github.com/mkrepo-labs/mkrepo/internal/runtime"
	"github.com/mkrepo-labs/mkrepo/internal/vcs"
	"github.com/spf13/cobra"
)

var (
	selftestCLI       string
	selftestRoot      string
	selftestScenarios string
	selftestNoRemote  bool
)

func init() {
	selftestCmd.Flags().StringVar(&selftestCLI, "cli", "", "Binary under test (default: this executable)")
	selftestCmd.Flags().StringVar(&selftestRoot, "root", "tests", "Directory for scenario workspaces and logs (deleted first)")
	selftestCmd.Flags().StringVar(&selftestScenarios, "scenarios", "", "YAML scenario file (default: built-in matrix)")
	selftestCmd.Flags().BoolVar(&selftestNoRemote, "no-remote-cleanup", false, "Do not delete GitHub repositories left by earlier runs")
	rootCmd.AddCommand(selftestCmd)
}

var selftestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Run the end-to-end scenario matrix",
	Long: `Run the CLI against its scenario matrix. Every scenario runs as a separate
process in its own directory under --root with TEST_MODE=true, and its output
is written to <root>/output/<scenario>.log.

Requires Node.js and npm; successful scenarios create real projects.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := config.Load()
		ctx := commandContext(cmd, settings)
		out := cmd.OutOrStdout()

		cli := selftestCLI
		if cli == "" {
			exe, err := os.Executable()
			if err != nil {
				return fmt.Errorf("resolving executable: %w", err)
			}
			cli = exe
		}
		cli, err := filepath.Abs(cli)
		if err != nil {
			return fmt.Errorf("resolving CLI path: %w", err)
		}
		root, err := filepath.Abs(selftestRoot)
		if err != nil {
			return fmt.Errorf("resolving root: %w", err)
		}

		scenarios, err := loadScenarios(selftestScenarios)
		if err != nil {
			return err
		}

		runner := &runtime.ExecRunner{}
		h := &harness.Harness{
			CLI:    cli,
			Root:   root,
			Runner: runner,
			Out:    out,
			Logger: logging.FromContext(ctx),
		}
		if gh := probe.New().Probe(probe.VCSHost); gh.Available && !selftestNoRemote {
			h.Host = vcs.NewHost(gh.Path, runner)
		}

		fmt.Fprintf(out, "Running %d scenarios against %s\n", len(scenarios), cli)
		report, runErr := h.Run(ctx, scenarios)
		if report != nil {
			fmt.Fprintln(out)
			report.Write(out)
		}
		if runErr != nil {
			return &ExitError{Code: 1, Message: fmt.Sprintf("Error: %v", runErr), Err: runErr}
		}
		return nil
	},
}

func loadScenarios(path string) ([]harness.Scenario, error) {
	if path == "" {
		return harness.DefaultScenarios()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenarios: %w", err)
	}
	return harness.LoadScenarios(data)
}
