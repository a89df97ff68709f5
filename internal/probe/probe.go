package probe

import (
	"os"
	"os/exec"
	"runtime"
	"sort"
	"strings"
	"sync"
)

// Capability names an optional integration point.
type Capability string

const (
	Editor        Capability = "editor"
	Browser       Capability = "browser"
	WindowManager Capability = "windowManager"
	VCSHost       Capability = "vcsHostCli"
)

// Capabilities lists every known capability.
var Capabilities = []Capability{Editor, Browser, WindowManager, VCSHost}

// Result is the outcome of probing one capability.
type Result struct {
	Capability Capability
	Available  bool
	// Path is the resolved binary, or the application bundle directory when
	// Bundle is true.
	Path   string
	Bundle bool
	// Via describes the strategy that matched ("PATH" or "fallback").
	Via string
}

// Availability is the immutable per-run view of every probed capability.
type Availability map[Capability]Result

// Has reports whether c was found.
func (a Availability) Has(c Capability) bool {
	return a[c].Available
}

// Get returns the result for c.
func (a Availability) Get(c Capability) Result {
	r, ok := a[c]
	if !ok {
		return Result{Capability: c}
	}
	return r
}

// Sorted returns the results ordered by capability name.
func (a Availability) Sorted() []Result {
	out := make([]Result, 0, len(a))
	for _, r := range a {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Capability < out[j].Capability })
	return out
}

// None returns an Availability with every capability absent.
func None() Availability {
	a := make(Availability, len(Capabilities))
	for _, c := range Capabilities {
		a[c] = Result{Capability: c}
	}
	return a
}

// Prober resolves capabilities once and remembers the answers.
type Prober struct {
	GOOS     string
	LookPath func(file string) (string, error)
	Stat     func(name string) (os.FileInfo, error)
	Getenv   func(key string) string

	mu    sync.Mutex
	cache map[Capability]Result
}

// New returns a Prober for the running system.
func New() *Prober {
	return &Prober{
		GOOS:     runtime.GOOS,
		LookPath: exec.LookPath,
		Stat:     os.Stat,
		Getenv:   os.Getenv,
	}
}

// Probe resolves c, consulting the cache first.
func (p *Prober) Probe(c Capability) Result {
	p.mu.Lock()
	defer p.mu.Unlock()

	if r, ok := p.cache[c]; ok {
		return r
	}
	if p.cache == nil {
		p.cache = make(map[Capability]Result)
	}
	r := p.resolve(c)
	p.cache[c] = r
	return r
}

// All probes every capability and returns the resulting Availability.
func (p *Prober) All() Availability {
	a := make(Availability, len(Capabilities))
	for _, c := range Capabilities {
		a[c] = p.Probe(c)
	}
	return a
}

func (p *Prober) resolve(c Capability) (res Result) {
	res = Result{Capability: c}
	defer func() {
		if recover() != nil {
			res = Result{Capability: c}
		}
	}()

	def, ok := table[c]
	if !ok {
		return res
	}

	if path, err := p.LookPath(def.binary); err == nil && path != "" {
		return Result{Capability: c, Available: true, Path: path, Via: "PATH"}
	}

	for _, fb := range def.fallbacks {
		if !fb.appliesTo(p.GOOS) {
			continue
		}
		for _, name := range fb.binaries {
			if path, err := p.LookPath(name); err == nil && path != "" {
				return Result{Capability: c, Available: true, Path: path, Via: "fallback"}
			}
		}
		for _, raw := range fb.paths {
			path, ok := p.expand(raw)
			if !ok {
				continue
			}
			info, err := p.Stat(path)
			if err != nil || info.IsDir() != fb.bundle {
				continue
			}
			return Result{Capability: c, Available: true, Path: path, Bundle: fb.bundle, Via: "fallback"}
		}
	}

	return res
}

// expand substitutes $VAR references. It reports false when a referenced
// variable is unset, since the path would then be meaningless.
func (p *Prober) expand(raw string) (string, bool) {
	complete := true
	path := os.Expand(raw, func(key string) string {
		v := p.Getenv(key)
		if v == "" {
			complete = false
		}
		return v
	})
	return path, complete && strings.TrimSpace(path) != ""
}
