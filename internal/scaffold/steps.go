package scaffold

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mkrepo-labs/mkrepo/internal/launcher"
	"github.com/mkrepo-labs/mkrepo/internal/probe"
	"github.com/mkrepo-labs/mkrepo/internal/project"
	"github.com/mkrepo-labs/mkrepo/internal/runtime"
	"github.com/mkrepo-labs/mkrepo/internal/templates"
	"github.com/mkrepo-labs/mkrepo/internal/vcs"
)

// Step labels, in pipeline order.
const (
	StepGenerate  = "Generate base project"
	StepEnter     = "Enter project directory"
	StepTemplates = "Resolve template files"
	StepApply     = "Apply template files"
	StepInstall   = "Install dependencies"
	StepReadme    = "Write README"
	StepFormat    = "Format code"
	StepGit       = "Initialize git repository"
	StepPublish   = "Publish GitHub repository"
	StepEditor    = "Open editor"
	StepBrowser   = "Open browser"
)

// Steps returns the ordered pipeline for kind. Kinds whose generator already
// installs dependencies have no install step.
func Steps(kind project.Kind) []Step {
	steps := []Step{
		{Label: StepGenerate, Required: true, Action: generate},
		{Label: StepEnter, Required: true, Action: enterProject},
		{Label: StepTemplates, Required: true, Action: resolveTemplates},
		{Label: StepApply, Required: true, Action: applyTemplates},
	}
	if !kind.InstallsDependencies() {
		steps = append(steps, Step{Label: StepInstall, Required: true, Action: install})
	}
	return append(steps,
		Step{Label: StepReadme, Required: true, Action: writeReadme},
		Step{Label: StepFormat, Required: true, Action: format},
		Step{Label: StepGit, Required: true, Action: initRepository},
		Step{Label: StepPublish, Needs: []probe.Capability{probe.VCSHost}, Interactive: true, Action: publish},
		Step{Label: StepEditor, Needs: []probe.Capability{probe.Editor}, Interactive: true, Action: openEditor},
		Step{Label: StepBrowser, Needs: []probe.Capability{probe.Browser}, Interactive: true, Action: openBrowser},
	)
}

// GeneratorCommand returns the project generator invocation for cfg.
func GeneratorCommand(cfg *project.Config) (runtime.Command, error) {
	switch cfg.Kind {
	case project.KindNext:
		return runtime.Command{Name: "npx", Args: []string{
			"--yes", "create-next-app@latest", cfg.Name,
			"--ts", "--eslint", "--app", "--src-dir",
			"--import-alias", "@/*", "--use-npm", "--yes",
		}}, nil
	case project.KindVite:
		return runtime.Command{Name: "npm", Args: []string{
			"create", "--yes", "vite@latest", cfg.Name,
			"--", "--template", "react-ts", "--no-interactive",
		}}, nil
	default:
		return runtime.Command{}, fmt.Errorf("no generator for project kind %d", cfg.Kind)
	}
}

func generate(ctx context.Context, rc *RunContext) error {
	cmd, err := GeneratorCommand(rc.Config)
	if err != nil {
		return err
	}
	cmd.Dir = rc.BaseDir
	_, err = rc.Runner.Run(ctx, cmd)
	return err
}

func enterProject(_ context.Context, rc *RunContext) error {
	dir := filepath.Join(rc.BaseDir, rc.Config.Name)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("generator did not create %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	rc.ProjectDir = dir
	return nil
}

func resolveTemplates(_ context.Context, rc *RunContext) error {
	set, err := templates.Resolve(rc.TemplateRoot, rc.Config.Kind)
	if err != nil {
		return err
	}
	rc.templates = set
	return nil
}

func applyTemplates(ctx context.Context, rc *RunContext) error {
	if rc.templates == nil {
		return errors.New("templates were not resolved")
	}
	return templates.Apply(ctx, rc.templates, rc.ProjectDir)
}

func install(ctx context.Context, rc *RunContext) error {
	_, err := rc.Runner.Run(ctx, runtime.Command{Name: "npm", Args: []string{"install"}, Dir: rc.ProjectDir})
	return err
}

func writeReadme(_ context.Context, rc *RunContext) error {
	return WriteReadme(rc.ProjectDir, rc.Config)
}

func format(ctx context.Context, rc *RunContext) error {
	_, err := rc.Runner.Run(ctx, runtime.Command{
		Name: "npx",
		Args: []string{"--yes", "prettier", "--write", "."},
		Dir:  rc.ProjectDir,
	})
	return err
}

func initRepository(ctx context.Context, rc *RunContext) error {
	repo := vcs.NewRepository(rc.ProjectDir, rc.Runner)
	if rc.Config.Kind.InitializesRepository() {
		rc.logger(ctx).Debug("replacing generator repository", "dir", rc.ProjectDir)
	}
	if err := repo.RemoveMetadata(); err != nil {
		return err
	}
	if err := repo.Init(ctx); err != nil {
		return err
	}
	if err := repo.AddAll(ctx); err != nil {
		return err
	}
	return repo.Commit(ctx, rc.CommitMessage)
}

func publish(ctx context.Context, rc *RunContext) error {
	repo := vcs.NewRepository(rc.ProjectDir, rc.Runner)
	remotes, err := repo.Remotes(ctx)
	if err != nil {
		return err
	}
	if len(remotes) > 0 {
		rc.logger(ctx).Info("repository already has a remote", "remotes", remotes)
		return nil
	}
	if rc.Confirmer == nil || !rc.Confirmer.Confirm(ctx, fmt.Sprintf("Create a %s GitHub repository for %s?", rc.visibility(), rc.Config.Name)) {
		rc.printf("Skipping GitHub repository creation.\n")
		return nil
	}
	host := vcs.NewHost(rc.Availability.Get(probe.VCSHost).Path, rc.Runner)
	return host.CreateRepo(ctx, rc.ProjectDir, rc.Config.Name, rc.visibility())
}

func (rc *RunContext) visibility() string {
	if rc.Visibility == "" {
		return vcs.Private
	}
	return rc.Visibility
}

func openEditor(ctx context.Context, rc *RunContext) error {
	if err := rc.Opener.OpenEditor(ctx, rc.Availability.Get(probe.Editor), rc.ProjectDir); err != nil {
		return err
	}
	rc.place(ctx, launcher.Left)
	return nil
}

func openBrowser(ctx context.Context, rc *RunContext) error {
	if err := rc.Opener.OpenBrowser(ctx, rc.Availability.Get(probe.Browser), rc.Config.Kind.DevURL()); err != nil {
		return err
	}
	rc.place(ctx, launcher.Right)
	return nil
}

// place is best effort: a missing or failing window manager never fails the
// step that opened the window.
func (rc *RunContext) place(ctx context.Context, side launcher.Side) {
	wm := rc.Availability.Get(probe.WindowManager)
	if !wm.Available {
		return
	}
	if err := rc.Opener.Place(ctx, wm, side); err != nil {
		rc.logger(ctx).Info("window placement failed", "side", side.String(), "error", err)
	}
}
