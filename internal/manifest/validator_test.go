package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const nextPackage = `{
  "name": "my-app",
  "version": "0.1.0",
  "private": true,
  "scripts": {
    "dev": "next dev",
    "build": "next build",
    "start": "next start",
    "lint": "next lint"
  },
  "dependencies": {"next": "15.0.0", "react": "19.0.0"}
}`

const vitePackage = `{
  "name": "my-app",
  "private": true,
  "version": "0.0.0",
  "type": "module",
  "scripts": {
    "dev": "vite",
    "build": "tsc -b && vite build",
    "lint": "eslint .",
    "preview": "vite preview"
  },
  "devDependencies": {"vite": "^6.0.0"}
}`

func writePackage(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "package.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestValidateFile_ValidPackages(t *testing.T) {
	for name, content := range map[string]string{"next": nextPackage, "vite": vitePackage} {
		t.Run(name, func(t *testing.T) {
			result, err := ValidateFile(writePackage(t, content))
			if err != nil {
				t.Fatalf("ValidateFile() error: %v", err)
			}
			if !result.Valid {
				t.Errorf("expected valid, got invalid with %d issues:", len(result.Issues))
				for _, issue := range result.Issues {
					t.Errorf("  path=%s keyword=%s message=%s", issue.Path, issue.Keyword, issue.Message)
				}
			}
		})
	}
}

func TestValidate_InvalidPackages(t *testing.T) {
	tests := []struct {
		desc    string
		content string
		keyword string
	}{
		{"missing name", `{"version": "1.0.0", "scripts": {"dev": "vite", "build": "vite build"}}`, "required"},
		{"uppercase name", `{"name": "MyApp", "version": "1.0.0", "scripts": {"dev": "vite", "build": "vite build"}}`, "pattern"},
		{"missing dev script", `{"name": "app", "version": "1.0.0", "scripts": {"build": "vite build"}}`, "required"},
		{"bad version", `{"name": "app", "version": "latest", "scripts": {"dev": "vite", "build": "vite build"}}`, "pattern"},
		{"non-string script", `{"name": "app", "version": "1.0.0", "scripts": {"dev": 1, "build": "vite build"}}`, "type"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			result, err := Validate([]byte(tt.content))
			if err != nil {
				t.Fatalf("Validate() unexpected error: %v", err)
			}
			if result.Valid {
				t.Fatalf("expected invalid for %s", tt.desc)
			}
			found := false
			for _, issue := range result.Issues {
				if issue.Keyword == tt.keyword {
					found = true
				}
			}
			if !found {
				t.Errorf("no %q issue in %+v", tt.keyword, result.Issues)
			}
		})
	}
}

func TestValidate_MalformedJSON(t *testing.T) {
	_, err := Validate([]byte(`{"name": `))
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestValidateFile_Missing(t *testing.T) {
	_, err := ValidateFile(filepath.Join(t.TempDir(), "package.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidationResultString(t *testing.T) {
	result, err := Validate([]byte(`{"name": "Bad Name", "version": "1.0.0", "scripts": {"dev": "x", "build": "y"}}`))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(result.String(), "/name: ") {
		t.Errorf("String() = %q", result.String())
	}
	ok := &ValidationResult{Valid: true}
	if ok.String() != "valid" {
		t.Errorf("String() = %q", ok.String())
	}
}

func TestRead(t *testing.T) {
	pkg, err := Read(writePackage(t, vitePackage))
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if pkg.Name != "my-app" || pkg.Version != "0.0.0" || !pkg.Private {
		t.Errorf("Read() = %+v", pkg)
	}
	if pkg.Scripts["dev"] != "vite" {
		t.Errorf("dev script = %q", pkg.Scripts["dev"])
	}
}

func TestValidate_IssuesOrderedByLocation(t *testing.T) {
	result, err := Validate([]byte(`{"name": "Bad Name", "version": "latest", "scripts": {"dev": 1, "build": "y"}}`))
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{"/name": "pattern", "/scripts/dev": "type", "/version": "pattern"}
	got := map[string]string{}
	for i, issue := range result.Issues {
		if i > 0 && result.Issues[i-1].Path > issue.Path {
			t.Errorf("issues out of order: %+v", result.Issues)
		}
		if issue.Keyword == "" {
			t.Errorf("issue without keyword: %+v", issue)
		}
		got[issue.Path] = issue.Keyword
	}
	for path, kw := range want {
		if got[path] != kw {
			t.Errorf("issue at %s = %q, want %q (all: %+v)", path, got[path], kw, result.Issues)
		}
	}
}
