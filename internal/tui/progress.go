// Package tui renders an optional interactive scan-progress bar and a
// cache-stats readout, grounded on the teacher's bubbletea ProgressModel
// (internal/tui/progress.go) but trimmed down to what eth2vault's
// keystore scan and cache demo actually need: one progress bar, one
// running count of successes/failures, and a table-free stats block.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/blocoeth/eth2-keyvault/internal/cache"
)

const (
	padding  = 2
	maxWidth = 80
)

// ScanProgressMsg reports one unit of scan progress. The scanner's
// ProgressFunc feeds these into the running bubbletea program via
// tea.Program.Send.
type ScanProgressMsg struct {
	Done, Total int
	Name        string
	Failed      bool
}

// StatsMsg carries a cache.Stats snapshot for display alongside the
// scan progress bar.
type StatsMsg cache.Stats

// TickMsg drives the progress bar's idle animation.
type TickMsg time.Time

// ScanModel is the bubbletea model for `keystore scan`'s live display.
type ScanModel struct {
	progress     progress.Model
	styleManager *StyleManager
	width        int
	height       int
	quitting     bool

	done, total   int
	failures      int
	lastName      string
	stats         cache.Stats
	haveStats     bool
}

// NewScanModel builds a ScanModel sized to the current terminal.
func NewScanModel(total int) ScanModel {
	mgr := NewManager()
	capabilities := mgr.DetectCapabilities()
	styleManager := NewStyleManagerWithCapabilities(capabilities)

	return ScanModel{
		progress:     progress.New(progress.WithDefaultGradient()),
		styleManager: styleManager,
		width:        capabilities.TerminalWidth,
		height:       capabilities.TerminalHeight,
		total:        total,
	}
}

func (m ScanModel) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second/10, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m ScanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - padding*2 - 4
		if m.progress.Width > maxWidth {
			m.progress.Width = maxWidth
		}
		return m, nil

	case TickMsg:
		if m.quitting {
			return m, tea.Quit
		}
		return m, tickCmd()

	case ScanProgressMsg:
		m.done = msg.Done
		m.total = msg.Total
		m.lastName = msg.Name
		if msg.Failed {
			m.failures++
		}
		percent := 0.0
		if m.total > 0 {
			percent = float64(m.done) / float64(m.total)
		}
		if m.done >= m.total && m.total > 0 {
			m.quitting = true
		}
		cmd := m.progress.SetPercent(percent)
		return m, cmd

	case StatsMsg:
		m.stats = cache.Stats(msg)
		m.haveStats = true
		return m, nil

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	default:
		return m, nil
	}
}

func (m ScanModel) View() string {
	pad := strings.Repeat(" ", padding)
	var content strings.Builder

	content.WriteString("\n")
	content.WriteString(renderLogo(pad))
	content.WriteString("\n")
	content.WriteString(pad)
	content.WriteString(m.styleManager.FormatTitle(" Keystore Scan"))
	content.WriteString("\n\n")

	content.WriteString(pad)
	content.WriteString(m.progress.View())
	content.WriteString("\n\n")

	content.WriteString(pad)
	content.WriteString(m.styleManager.FormatKeyValue("Progress", fmt.Sprintf("%d/%d", m.done, m.total)))
	content.WriteString("\n")
	content.WriteString(pad)
	content.WriteString(m.styleManager.FormatKeyValue("Failures", fmt.Sprintf("%d", m.failures)))
	if m.lastName != "" {
		content.WriteString("  ")
		content.WriteString(m.styleManager.FormatInfo(m.lastName))
	}
	content.WriteString("\n")

	if m.haveStats {
		content.WriteString("\n")
		content.WriteString(pad)
		content.WriteString(m.styleManager.FormatSubtitle("Cache"))
		content.WriteString("\n")
		content.WriteString(pad)
		content.WriteString(m.styleManager.FormatKeyValue("Size", fmt.Sprintf("%d", m.stats.Size)))
		content.WriteString("  ")
		content.WriteString(m.styleManager.FormatKeyValue("Hits", fmt.Sprintf("%d", m.stats.Hits)))
		content.WriteString("  ")
		content.WriteString(m.styleManager.FormatKeyValue("Misses", fmt.Sprintf("%d", m.stats.Misses)))
		content.WriteString("  ")
		content.WriteString(m.styleManager.FormatKeyValue("Evictions", fmt.Sprintf("%d", m.stats.Evictions)))
		content.WriteString("\n")
	}

	if m.quitting {
		content.WriteString("\n")
		content.WriteString(pad)
		content.WriteString(m.styleManager.FormatSuccess("scan complete"))
		content.WriteString("\n")
	}

	return content.String()
}
