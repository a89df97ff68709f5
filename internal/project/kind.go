package project

import "fmt"

// Kind selects the generator and template set for a new project.
type Kind int

const (
	KindNext Kind = iota + 1
	KindVite
)

// Kinds lists every supported kind in prompt order.
var Kinds = []Kind{KindNext, KindVite}

// String returns the label shown in prompts and output.
func (k Kind) String() string {
	switch k {
	case KindNext:
		return "Next.js"
	case KindVite:
		return "Vite (React + TS)"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Flag returns the selector flag that picks this kind on the command line.
func (k Kind) Flag() string {
	switch k {
	case KindNext:
		return "--next"
	case KindVite:
		return "--vite"
	default:
		return ""
	}
}

// TemplateDir returns the per-kind subdirectory of the template root.
func (k Kind) TemplateDir() string {
	switch k {
	case KindNext:
		return "nextjs"
	case KindVite:
		return "vite"
	default:
		return ""
	}
}

// DevPort is the port the kind's dev server listens on by default.
func (k Kind) DevPort() int {
	switch k {
	case KindNext:
		return 3000
	case KindVite:
		return 5173
	default:
		return 0
	}
}

// DevURL is the local URL opened in the browser after scaffolding.
func (k Kind) DevURL() string {
	return fmt.Sprintf("http://localhost:%d", k.DevPort())
}

// InstallsDependencies reports whether the kind's generator already runs the
// package manager install, making a separate install step unnecessary.
func (k Kind) InstallsDependencies() bool {
	return k == KindNext
}

// InitializesRepository reports whether the generator creates a .git
// directory as a side effect.
func (k Kind) InitializesRepository() bool {
	return k == KindNext
}

// KindFromFlag returns the kind selected by flag, if any.
func KindFromFlag(flag string) (Kind, bool) {
	for _, k := range Kinds {
		if k.Flag() == flag {
			return k, true
		}
	}
	return 0, false
}
