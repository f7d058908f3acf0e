package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	// scrollDelay lets the new bubble reach the viewport before scrolling
	scrollDelay = 40 * time.Millisecond

	// smoothScrollInterval is the frame time of an animated scroll
	smoothScrollInterval = 16 * time.Millisecond

	// overscrollLines of blank space keep the last bubble off the frame edge
	overscrollLines = 2
)

// scrollMsg asks the model to scroll to the bottom
type scrollMsg struct {
	id int
}

// smoothScrollMsg advances an animated scroll by one frame
type smoothScrollMsg struct {
	id int
}

// scrollBottom schedules a scroll to the bottom after scrollDelay. A newer
// request supersedes any scroll still in progress.
func (m *Model) scrollBottom() tea.Cmd {
	m.scrollID++
	id := m.scrollID
	return tea.Tick(scrollDelay, func(time.Time) tea.Msg {
		return scrollMsg{id: id}
	})
}

func smoothScrollTick(id int) tea.Cmd {
	return tea.Tick(smoothScrollInterval, func(time.Time) tea.Msg {
		return smoothScrollMsg{id: id}
	})
}

// bottomOffset is the largest valid viewport offset, overscroll included
func (m Model) bottomOffset() int {
	offset := m.viewport.TotalLineCount() - m.viewport.Height
	if offset < 0 {
		return 0
	}
	return offset
}

// handleScroll starts a scroll. Without smooth scrolling, or before the
// viewport has a size, it jumps straight to the bottom.
func (m *Model) handleScroll(msg scrollMsg) tea.Cmd {
	if msg.id != m.scrollID {
		return nil
	}
	if !m.smoothScroll || !m.ready || m.viewport.Height <= 0 {
		m.viewport.GotoBottom()
		return nil
	}
	return m.stepScroll(msg.id)
}

func (m *Model) handleSmoothScroll(msg smoothScrollMsg) tea.Cmd {
	if msg.id != m.scrollID {
		return nil
	}
	return m.stepScroll(msg.id)
}

// stepScroll moves a third of the remaining distance, at least one line
func (m *Model) stepScroll(id int) tea.Cmd {
	target := m.bottomOffset()
	remaining := target - m.viewport.YOffset
	if remaining <= 0 {
		m.viewport.SetYOffset(target)
		return nil
	}

	step := remaining / 3
	if step < 1 {
		step = 1
	}
	m.viewport.SetYOffset(m.viewport.YOffset + step)

	if m.viewport.YOffset >= target {
		return nil
	}
	return smoothScrollTick(id)
}
