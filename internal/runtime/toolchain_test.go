package runtime

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type scriptedRunner struct {
	stdout map[string]string
}

func (s *scriptedRunner) Run(_ context.Context, c Command) (*Output, error) {
	out, ok := s.stdout[c.Name]
	if !ok {
		return &Output{ExitCode: -1}, errors.New("not found")
	}
	return &Output{Stdout: out}, nil
}

func TestLocateToolchain(t *testing.T) {
	paths := map[string]string{
		"node": filepath.Join("opt", "node", "bin", "node"),
		"npm":  filepath.Join("opt", "npm", "bin", "npm"),
	}
	tc, err := LocateToolchain(func(name string) (string, error) {
		if p, ok := paths[name]; ok {
			return p, nil
		}
		return "", errors.New("missing")
	})
	if err != nil {
		t.Fatalf("LocateToolchain() error = %v", err)
	}
	dirs := tc.BinDirs()
	if len(dirs) != 2 || dirs[0] != filepath.Join("opt", "npm", "bin") || dirs[1] != filepath.Join("opt", "node", "bin") {
		t.Errorf("BinDirs() = %v", dirs)
	}
}

func TestLocateToolchain_MissingNPM(t *testing.T) {
	_, err := LocateToolchain(func(name string) (string, error) {
		if name == "node" {
			return "/usr/bin/node", nil
		}
		return "", errors.New("missing")
	})
	if err == nil || !strings.Contains(err.Error(), "npm") {
		t.Errorf("LocateToolchain() error = %v, want npm error", err)
	}
}

func TestBinDirsSharedDirectory(t *testing.T) {
	tc := &Toolchain{Node: "/usr/local/bin/node", NPM: "/usr/local/bin/npm"}
	if dirs := tc.BinDirs(); len(dirs) != 1 || dirs[0] != "/usr/local/bin" {
		t.Errorf("BinDirs() = %v", dirs)
	}
}

func TestBuildPATH(t *testing.T) {
	sep := string(os.PathListSeparator)
	existing := strings.Join([]string{"/usr/bin", "/opt/npm/bin", "/bin"}, sep)
	got := BuildPATH([]string{"/opt/npm/bin", "/opt/node/bin"}, existing)
	want := strings.Join([]string{"/opt/npm/bin", "/opt/node/bin", "/usr/bin", "/bin"}, sep)
	if got != want {
		t.Errorf("BuildPATH() = %q, want %q", got, want)
	}
}

func TestToolVersion(t *testing.T) {
	r := &scriptedRunner{stdout: map[string]string{
		"node": "v20.11.1\n",
		"npm":  "10.2.4\n",
		"git":  "git version 2.43.0\n",
		"odd":  "no digits here",
	}}
	tests := []struct {
		tool string
		want string
	}{
		{"node", "20.11.1"},
		{"npm", "10.2.4"},
		{"git", "2.43.0"},
	}
	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			got, err := ToolVersion(context.Background(), r, tt.tool)
			if err != nil {
				t.Fatalf("ToolVersion() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ToolVersion() = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := ToolVersion(context.Background(), r, "odd"); err == nil {
		t.Error("expected error for output without a version")
	}
	if _, err := ToolVersion(context.Background(), r, "absent"); err == nil {
		t.Error("expected error for missing tool")
	}
}

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		tool    string
		version string
		want    bool
		wantErr bool
	}{
		{"node", "20.11.1", true, false},
		{"node", "v18.18.0", true, false},
		{"node", "16.20.2", false, false},
		{"npm", "8.19.4", false, false},
		{"git", "2.43", true, false},
		{"prettier", "0.0.1", true, false},
		{"node", "not-a-version", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.tool+"@"+tt.version, func(t *testing.T) {
			got, err := CheckVersion(tt.tool, tt.version)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckVersion() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("CheckVersion() = %v, want %v", got, tt.want)
			}
		})
	}
}
