package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/mkrepo-labs/mkrepo/internal/branding"
	"github.com/mkrepo-labs/mkrepo/internal/project"
)

//go:embed files/README.md.tmpl
var filesFS embed.FS

// ReadmeData holds the variables available to the README template.
type ReadmeData struct {
	Name      string
	KindLabel string
	DevURL    string
	Tool      string
}

// NewReadmeData derives the README variables from cfg.
func NewReadmeData(cfg *project.Config) *ReadmeData {
	return &ReadmeData{
		Name:      cfg.Name,
		KindLabel: cfg.Kind.String(),
		DevURL:    cfg.Kind.DevURL(),
		Tool:      branding.CLIName(),
	}
}

// RenderReadme executes the embedded README template.
func RenderReadme(data *ReadmeData) ([]byte, error) {
	tmplBytes, err := filesFS.ReadFile("files/README.md.tmpl")
	if err != nil {
		return nil, fmt.Errorf("reading README template: %w", err)
	}
	tmpl, err := template.New("README.md").Parse(string(tmplBytes))
	if err != nil {
		return nil, fmt.Errorf("parsing README template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing README template: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteReadme renders the README for cfg into dir, replacing any README the
// generator produced.
func WriteReadme(dir string, cfg *project.Config) error {
	content, err := RenderReadme(NewReadmeData(cfg))
	if err != nil {
		return err
	}
	outPath := filepath.Join(dir, "README.md")
	if err := os.WriteFile(outPath, content, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	return nil
}
