package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const tagWidth = len("[WARN] ")

// statusStyles colours the [OK]/[WARN]/[FAIL] tags of diagnostic output.
// The renderer inspects w, so redirected output stays plain text.
type statusStyles struct {
	ok, warn, fail lipgloss.Style
	title          lipgloss.Style
}

func newStatusStyles(w io.Writer) statusStyles {
	r := lipgloss.NewRenderer(w)
	return statusStyles{
		ok:    r.NewStyle().Foreground(lipgloss.Color("2")),
		warn:  r.NewStyle().Foreground(lipgloss.Color("3")),
		fail:  r.NewStyle().Foreground(lipgloss.Color("1")),
		title: r.NewStyle().Bold(true),
	}
}

func (s statusStyles) tag(style lipgloss.Style, status string) string {
	label := "[" + status + "]"
	return style.Render(label) + strings.Repeat(" ", tagWidth-len(label))
}

func (s statusStyles) OK() string   { return s.tag(s.ok, "OK") }
func (s statusStyles) Warn() string { return s.tag(s.warn, "WARN") }
func (s statusStyles) Fail() string { return s.tag(s.fail, "FAIL") }
