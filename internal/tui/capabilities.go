package tui

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// TUICapabilities describes what the attached terminal can render.
type TUICapabilities struct {
	SupportsColor   bool
	SupportsUnicode bool
	TerminalWidth   int
	TerminalHeight  int
	SupportsResize  bool
}

// Manager detects terminal capabilities and decides whether the
// interactive scan-progress display should be used at all.
type Manager struct {
	enabled        bool
	terminalWidth  int
	terminalHeight int
	colorSupport   bool
}

// NewManager creates a new TUI capability manager.
func NewManager() *Manager {
	return &Manager{}
}

// DetectCapabilities probes the current terminal.
func (tm *Manager) DetectCapabilities() TUICapabilities {
	capabilities := TUICapabilities{
		SupportsColor:   tm.detectColorSupport(),
		SupportsUnicode: tm.detectUnicodeSupport(),
		TerminalWidth:   80,
		TerminalHeight:  24,
		SupportsResize:  true,
	}

	if width, height, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		capabilities.TerminalWidth = width
		capabilities.TerminalHeight = height
		tm.terminalWidth = width
		tm.terminalHeight = height
	}

	termType := strings.ToLower(os.Getenv("TERM"))
	if termType == "dumb" || termType == "" {
		capabilities.SupportsResize = false
	}

	tm.colorSupport = capabilities.SupportsColor
	return capabilities
}

func (tm *Manager) detectColorSupport() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	termType := strings.ToLower(os.Getenv("TERM"))
	if termType == "dumb" || termType == "" {
		return false
	}
	if strings.Contains(termType, "mono") {
		return false
	}
	if strings.Contains(termType, "color") ||
		strings.Contains(termType, "256color") ||
		strings.Contains(termType, "truecolor") ||
		strings.Contains(termType, "xterm") ||
		strings.Contains(termType, "screen") ||
		strings.Contains(termType, "tmux") {
		return true
	}
	if colorTerm := strings.ToLower(os.Getenv("COLORTERM")); colorTerm != "" {
		if strings.Contains(colorTerm, "truecolor") || strings.Contains(colorTerm, "24bit") {
			return true
		}
	}
	return true
}

func (tm *Manager) detectUnicodeSupport() bool {
	for _, env := range []string{"LANG", "LC_ALL", "LC_CTYPE"} {
		v := strings.ToUpper(os.Getenv(env))
		if v == "" {
			continue
		}
		if strings.Contains(v, "UTF-8") || strings.Contains(v, "UTF8") {
			return true
		}
		return false
	}
	return false
}

// ShouldUseTUI reports whether the interactive scan display should
// run. When it reports false, no live progress is shown.
func (tm *Manager) ShouldUseTUI() bool {
	if v := strings.ToLower(strings.TrimSpace(os.Getenv("ETH2VAULT_TUI"))); v != "" {
		if v == "false" || v == "0" || v == "no" || v == "off" {
			return false
		}
		if v == "force" {
			return true
		}
	}

	termType := strings.ToLower(os.Getenv("TERM"))
	if termType == "" || termType == "dumb" {
		return false
	}

	isStdoutTerminal := term.IsTerminal(int(os.Stdout.Fd()))
	isStdinTerminal := term.IsTerminal(int(os.Stdin.Fd()))
	if !isStdoutTerminal && !isStdinTerminal {
		return false
	}

	capabilities := tm.DetectCapabilities()
	if capabilities.TerminalWidth < 40 || capabilities.TerminalHeight < 10 {
		return false
	}

	if tm.isInCIEnvironment() {
		return false
	}

	tm.enabled = true
	return true
}

func (tm *Manager) isInCIEnvironment() bool {
	for _, envVar := range []string{
		"CI", "CONTINUOUS_INTEGRATION", "BUILD_NUMBER", "JENKINS_URL",
		"TRAVIS", "CIRCLECI", "APPVEYOR", "GITLAB_CI", "BUILDKITE",
		"DRONE", "GITHUB_ACTIONS", "TF_BUILD", "TEAMCITY_VERSION",
	} {
		if os.Getenv(envVar) != "" {
			return true
		}
	}
	return false
}

// IsEnabled reports whether the last ShouldUseTUI call enabled the display.
func (tm *Manager) IsEnabled() bool { return tm.enabled }

// GetCapabilities returns a fresh capability probe.
func (tm *Manager) GetCapabilities() TUICapabilities { return tm.DetectCapabilities() }
