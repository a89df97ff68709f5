package probe

// fallback is one OS-specific resolution strategy.
type fallback struct {
	goos     []string // empty means every OS
	binaries []string // alternate names looked up on PATH
	paths    []string // absolute locations; may reference $VARS
	bundle   bool     // paths are application bundle directories
}

func (f fallback) appliesTo(goos string) bool {
	if len(f.goos) == 0 {
		return true
	}
	for _, g := range f.goos {
		if g == goos {
			return true
		}
	}
	return false
}

type definition struct {
	binary    string
	fallbacks []fallback
}

var table = map[Capability]definition{
	Editor: {
		binary: "code",
		fallbacks: []fallback{
			{goos: []string{"darwin"}, paths: []string{
				"/Applications/Visual Studio Code.app/Contents/Resources/app/bin/code",
				"$HOME/Applications/Visual Studio Code.app/Contents/Resources/app/bin/code",
			}},
			{goos: []string{"linux"}, binaries: []string{"code-insiders", "codium"}, paths: []string{
				"/snap/bin/code",
				"/usr/share/code/bin/code",
			}},
			{goos: []string{"windows"}, paths: []string{
				`$LOCALAPPDATA\Programs\Microsoft VS Code\bin\code.cmd`,
				`$ProgramFiles\Microsoft VS Code\bin\code.cmd`,
			}},
		},
	},
	Browser: {
		binary: "google-chrome",
		fallbacks: []fallback{
			{goos: []string{"darwin"}, bundle: true, paths: []string{
				"/Applications/Google Chrome.app",
				"$HOME/Applications/Google Chrome.app",
			}},
			{goos: []string{"linux"}, binaries: []string{"google-chrome-stable", "chromium", "chromium-browser"}},
			{goos: []string{"windows"}, paths: []string{
				`$ProgramFiles\Google\Chrome\Application\chrome.exe`,
				`$LOCALAPPDATA\Google\Chrome\Application\chrome.exe`,
			}},
		},
	},
	WindowManager: {
		binary: "xdotool",
		fallbacks: []fallback{
			{goos: []string{"darwin"}, bundle: true, paths: []string{
				"/Applications/Rectangle.app",
				"$HOME/Applications/Rectangle.app",
			}},
			{goos: []string{"linux"}, binaries: []string{"wmctrl"}},
		},
	},
	VCSHost: {
		binary: "gh",
		fallbacks: []fallback{
			{goos: []string{"darwin"}, paths: []string{"/opt/homebrew/bin/gh", "/usr/local/bin/gh"}},
			{goos: []string{"linux"}, paths: []string{"/home/linuxbrew/.linuxbrew/bin/gh", "/snap/bin/gh", "/usr/bin/gh"}},
			{goos: []string{"windows"}, paths: []string{`$ProgramFiles\GitHub CLI\gh.exe`}},
		},
	},
}
