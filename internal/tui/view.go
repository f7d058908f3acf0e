package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/diogo/phonechat/internal/models"
	"github.com/diogo/phonechat/internal/render"
	"github.com/diogo/phonechat/internal/widget"
)

const (
	// phone body width bounds, border included
	minPhoneWidth = 28
	maxPhoneWidth = 48

	// rows taken inside the frame by everything but the chat area:
	// two header lines, the input row and the hint line
	chromeRows = 4

	doubleTick = "✓✓"
)

// frameSize returns the phone dimensions for the current terminal, border
// included.
func (m Model) frameSize() (int, int) {
	width := m.width - 2
	if width > maxPhoneWidth {
		width = maxPhoneWidth
	}
	if width < minPhoneWidth {
		width = minPhoneWidth
	}
	return width, widget.TerminalHeight.FrameHeight(m.height)
}

// chatAreaSize returns the viewport dimensions inside the frame
func (m Model) chatAreaSize() (int, int) {
	width, height := m.frameSize()
	innerHeight := height - 2 - chromeRows
	if innerHeight < 3 {
		innerHeight = 3
	}
	return width - 2, innerHeight
}

// BubbleOptions controls how transcript entries are drawn
type BubbleOptions struct {
	// Markdown renders incoming bubbles through glamour
	Markdown     bool
	MarkdownOpts render.Options

	// AnimationFrame selects the lit dot of the typing indicator
	AnimationFrame int
}

// renderTranscript draws every entry as a bubble, followed by the overscroll
// margin.
func (m Model) renderTranscript(width int) string {
	entries := m.widget.Entries()
	if len(entries) == 0 {
		return welcomeStyle.Width(width).Align(lipgloss.Center).Render("\nSay hi 👋")
	}

	out := RenderEntries(entries, width, BubbleOptions{
		Markdown:       m.renderMarkdown,
		MarkdownOpts:   m.markdown,
		AnimationFrame: m.animationFrame,
	})
	return out + strings.Repeat("\n", overscrollLines)
}

// RenderEntries draws transcript entries as chat bubbles: outgoing on the
// right with a grey double tick, incoming on the left.
func RenderEntries(entries []widget.Entry, width int, opts BubbleOptions) string {
	blocks := make([]string, 0, len(entries))
	for _, e := range entries {
		blocks = append(blocks, renderEntry(e, width, opts))
	}
	return strings.Join(blocks, "\n\n")
}

// bubbleTextWidth is the wrap width of bubble text: three quarters of the
// chat area minus the bubble padding.
func bubbleTextWidth(width int) int {
	w := width*3/4 - 2
	if w < 8 {
		w = 8
	}
	return w
}

func renderEntry(e widget.Entry, width int, opts BubbleOptions) string {
	if e.Typing {
		return lipgloss.PlaceHorizontal(width, lipgloss.Left, incomingBubbleStyle.Render(typingDots(opts.AnimationFrame)))
	}

	msg := e.Message
	textWidth := bubbleTextWidth(width)
	text := widget.SanitizeTerminal(msg.Text)
	isError := !msg.IsOutgoing() && strings.HasPrefix(msg.Text, models.ErrorPrefix)

	var body string
	if !msg.IsOutgoing() && !isError && opts.Markdown {
		body = render.Bubble(text, textWidth, opts.MarkdownOpts)
	} else {
		body = ansi.Wrap(text, textWidth, "")
	}

	meta := metaStyle.Render(msg.Time())
	if msg.IsOutgoing() {
		meta += " " + tickStyle.Render(doubleTick)
	}
	content := lipgloss.JoinVertical(lipgloss.Right, body, meta)

	switch {
	case msg.IsOutgoing():
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, outgoingBubbleStyle.Render(content))
	case isError:
		return lipgloss.PlaceHorizontal(width, lipgloss.Left, errorBubbleStyle.Render(content))
	default:
		return lipgloss.PlaceHorizontal(width, lipgloss.Left, incomingBubbleStyle.Render(content))
	}
}

// typingDots renders the three dots of the typing indicator with one dot
// lit per animation step.
func typingDots(frame int) string {
	lit := (frame / 3) % 3
	dots := make([]string, 3)
	for i := range dots {
		if i == lit {
			dots[i] = dotActiveStyle.Render("●")
		} else {
			dots[i] = dotStyle.Render("●")
		}
	}
	return strings.Join(dots, " ")
}

func (m Model) renderHeader(width int) string {
	title := titleStyle.Render(m.title)

	presence := presenceStyle.Render("online")
	if m.widget.Typing() {
		presence = typingStyle.Render("typing…")
	}

	host := hostStyle.Render(ansi.Truncate(m.host, width-4-lipgloss.Width("typing…"), "…"))
	second := lipgloss.JoinHorizontal(lipgloss.Top, presence, hostStyle.Render("  "), host)

	return headerStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, title, second))
}

func (m Model) renderInputRow(width int) string {
	button := sendButtonStyle.Render("[ Send ]")
	if m.widget.Busy() {
		button = busyButtonStyle.Render("[ ··· ]")
	}

	m.input.Width = width - lipgloss.Width(button) - 5
	row := lipgloss.JoinHorizontal(lipgloss.Center, m.input.View(), " ", button)
	return inputRowStyle.Width(width).Render(row)
}

func (m Model) renderStatusBar(width int) string {
	if m.flash != "" {
		return statusBarStyle.Width(width).Render(flashStyle.Render(m.flash))
	}

	shortcuts := []struct {
		key  string
		desc string
	}{
		{"⏎", "send"},
		{"^Y", "copy"},
		{"^L", "clear"},
		{"esc", "quit"},
	}

	items := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}
	return statusBarStyle.Width(width).Render(strings.Join(items, statusDescStyle.Render(" · ")))
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return welcomeStyle.Render("  Initializing...")
	}

	phoneWidth, phoneHeight := m.frameSize()
	inner := phoneWidth - 2

	chat := chatAreaStyle.
		Width(inner).
		Height(m.viewport.Height).
		Render(m.viewport.View())

	phone := phoneStyle.
		Width(inner).
		Height(phoneHeight - 2).
		Render(lipgloss.JoinVertical(
			lipgloss.Left,
			m.renderHeader(inner),
			chat,
			m.renderInputRow(inner),
			m.renderStatusBar(inner),
		))

	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, phone)
}
