package project

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// scriptedPrompter answers prompts from fixed values.
type scriptedPrompter struct {
	choice    int
	name      string
	err       error
	asked     int
	lastLabel []string
}

func (s *scriptedPrompter) Select(_ context.Context, _ string, choices []string) (int, error) {
	s.asked++
	s.lastLabel = choices
	if s.err != nil {
		return 0, s.err
	}
	return s.choice, nil
}

func (s *scriptedPrompter) Input(_ context.Context, _ string) (string, error) {
	s.asked++
	return s.name, s.err
}

func TestResolveFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantKind Kind
		wantName string
	}{
		{"vite", []string{"--vite", "test-vite"}, KindVite, "test-vite"},
		{"next", []string{"--next", "test-next"}, KindNext, "test-next"},
		{"equals form", []string{"--vite=My App"}, KindVite, "my-app"},
		{"sanitized", []string{"--next", "  Shop Front!! "}, KindNext, "shop-front"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &scriptedPrompter{}
			cfg, err := Resolve(context.Background(), tt.args, t.TempDir(), p)
			if err != nil {
				t.Fatalf("Resolve() error: %v", err)
			}
			if cfg.Kind != tt.wantKind || cfg.Name != tt.wantName {
				t.Errorf("got (%v, %q), want (%v, %q)", cfg.Kind, cfg.Name, tt.wantKind, tt.wantName)
			}
			if p.asked != 0 {
				t.Errorf("prompter should not be used when a selector flag is present")
			}
		})
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"both selectors", []string{"--vite", "--next", "conflict"}, ErrConflictingFlags},
		{"both selectors reversed", []string{"--next", "x", "--vite", "y"}, ErrConflictingFlags},
		{"both with equals", []string{"--next=a", "--vite=b"}, ErrConflictingFlags},
		{"missing name", []string{"--vite"}, ErrMissingName},
		{"empty equals", []string{"--next="}, ErrMissingName},
		{"flag-like long", []string{"--vite", "--prod"}, ErrInvalidName},
		{"flag-like short", []string{"--next", "-x"}, ErrInvalidName},
		{"unsanitizable", []string{"--vite", "///!!!"}, ErrInvalidName},
		{"stray token", []string{"--vite", "app", "extra"}, ErrUnexpectedArgument},
		{"repeated selector", []string{"--vite", "a", "--vite", "b"}, ErrUnexpectedArgument},
		{"help", []string{"--help"}, ErrHelp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(context.Background(), tt.args, t.TempDir(), &scriptedPrompter{})
			if !errors.Is(err, tt.want) {
				t.Fatalf("Resolve(%v) error = %v, want %v", tt.args, err, tt.want)
			}
		})
	}
}

func TestResolveDirectoryExists(t *testing.T) {
	base := t.TempDir()
	if err := os.Mkdir(filepath.Join(base, "taken"), 0755); err != nil {
		t.Fatal(err)
	}

	_, err := Resolve(context.Background(), []string{"--vite", "Taken"}, base, nil)
	if !errors.Is(err, ErrDirectoryExists) {
		t.Fatalf("error = %v, want ErrDirectoryExists", err)
	}
}

func TestResolveInteractive(t *testing.T) {
	p := &scriptedPrompter{choice: 1, name: "Test Prompt"}
	cfg, err := Resolve(context.Background(), nil, t.TempDir(), p)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if cfg.Kind != KindVite {
		t.Errorf("Kind = %v, want %v", cfg.Kind, KindVite)
	}
	if cfg.Name != "test-prompt" {
		t.Errorf("Name = %q, want test-prompt", cfg.Name)
	}
	if len(p.lastLabel) != 2 {
		t.Errorf("expected a closed choice of 2 kinds, got %v", p.lastLabel)
	}
}

func TestResolveInteractiveErrors(t *testing.T) {
	cancelled := errors.New("cancelled")

	_, err := Resolve(context.Background(), nil, t.TempDir(), &scriptedPrompter{err: cancelled})
	if !errors.Is(err, cancelled) {
		t.Errorf("prompt error should propagate, got %v", err)
	}

	_, err = Resolve(context.Background(), nil, t.TempDir(), &scriptedPrompter{choice: 0, name: "!!!"})
	if !errors.Is(err, ErrInvalidName) {
		t.Errorf("empty sanitized prompt name: got %v, want ErrInvalidName", err)
	}

	_, err = Resolve(context.Background(), nil, t.TempDir(), &scriptedPrompter{choice: 5, name: "x"})
	if !errors.Is(err, ErrUnexpectedArgument) {
		t.Errorf("out of range choice: got %v", err)
	}

	_, err = Resolve(context.Background(), nil, t.TempDir(), nil)
	if !errors.Is(err, ErrMissingName) {
		t.Errorf("no prompter: got %v, want ErrMissingName", err)
	}
}

func TestIsValidation(t *testing.T) {
	for _, err := range []error{ErrConflictingFlags, ErrMissingName, ErrInvalidName, ErrDirectoryExists, ErrUnexpectedArgument} {
		if !IsValidation(err) {
			t.Errorf("IsValidation(%v) = false", err)
		}
	}
	if IsValidation(ErrHelp) || IsValidation(errors.New("other")) {
		t.Error("IsValidation should be false for non-validation errors")
	}
}
