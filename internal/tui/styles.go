// Package tui provides the phone-frame terminal interface for phonechat.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/phonechat/internal/errors"
	"github.com/diogo/phonechat/internal/render"
)

// Color variables (updated from theme)
var (
	colorBackground lipgloss.Color
	colorHeader     lipgloss.Color
	colorBorder     lipgloss.Color

	colorOutgoing   lipgloss.Color
	colorIncoming   lipgloss.Color
	colorBubbleText lipgloss.Color
	colorTick       lipgloss.Color
	colorTypingDot  lipgloss.Color

	colorPrimary lipgloss.Color
	colorError   lipgloss.Color

	colorText    lipgloss.Color
	colorTextDim lipgloss.Color
)

// Style variables (rebuilt when theme changes)
var (
	// Outer phone body
	phoneStyle lipgloss.Style

	// Contact bar at the top of the phone
	headerStyle   lipgloss.Style
	titleStyle    lipgloss.Style
	presenceStyle lipgloss.Style
	typingStyle   lipgloss.Style
	hostStyle     lipgloss.Style
	chatAreaStyle lipgloss.Style
	welcomeStyle  lipgloss.Style

	// Bubbles
	outgoingBubbleStyle lipgloss.Style
	incomingBubbleStyle lipgloss.Style
	errorBubbleStyle    lipgloss.Style
	metaStyle           lipgloss.Style
	tickStyle           lipgloss.Style
	dotStyle            lipgloss.Style
	dotActiveStyle      lipgloss.Style

	// Input row
	inputRowStyle   lipgloss.Style
	sendButtonStyle lipgloss.Style
	busyButtonStyle lipgloss.Style

	// Hint line under the input
	statusBarStyle  lipgloss.Style
	statusKeyStyle  lipgloss.Style
	statusDescStyle lipgloss.Style
	flashStyle      lipgloss.Style

	// Settings screen
	settingsHeaderStyle   lipgloss.Style
	settingsPanelStyle    lipgloss.Style
	settingsSectionStyle  lipgloss.Style
	settingsPathStyle     lipgloss.Style
	settingsCursorStyle   lipgloss.Style
	settingsItemStyle     lipgloss.Style
	settingsSelectedStyle lipgloss.Style
	settingsValueStyle    lipgloss.Style
	settingsOnStyle       lipgloss.Style
	settingsOffStyle      lipgloss.Style
	settingsCurrentStyle  lipgloss.Style
)

// init loads the default theme on package initialization
func init() {
	UpdateTheme()
}

// UpdateTheme refreshes all styles based on the current TUI theme
func UpdateTheme() {
	theme := render.GetTUITheme()

	colorBackground = theme.Background
	colorHeader = theme.Header
	colorBorder = theme.Border
	colorOutgoing = theme.Outgoing
	colorIncoming = theme.Incoming
	colorBubbleText = theme.BubbleText
	colorTick = theme.Tick
	colorTypingDot = theme.TypingDot
	colorPrimary = theme.Primary
	colorError = theme.Error
	colorText = theme.Text
	colorTextDim = theme.TextDim

	rebuildStyles()
}

// rebuildStyles creates all lipgloss styles with current color values
func rebuildStyles() {
	phoneStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder)

	headerStyle = lipgloss.NewStyle().
		Background(colorHeader).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
		Background(colorHeader).
		Foreground(colorText).
		Bold(true)

	presenceStyle = lipgloss.NewStyle().
		Background(colorHeader).
		Foreground(colorTextDim)

	typingStyle = lipgloss.NewStyle().
		Background(colorHeader).
		Foreground(colorPrimary).
		Italic(true)

	hostStyle = lipgloss.NewStyle().
		Background(colorHeader).
		Foreground(colorTextDim)

	chatAreaStyle = lipgloss.NewStyle().
		Background(colorBackground)

	welcomeStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Italic(true)

	outgoingBubbleStyle = lipgloss.NewStyle().
		Background(colorOutgoing).
		Foreground(colorBubbleText).
		Padding(0, 1)

	incomingBubbleStyle = lipgloss.NewStyle().
		Background(colorIncoming).
		Foreground(colorBubbleText).
		Padding(0, 1)

	errorBubbleStyle = incomingBubbleStyle.
		Foreground(colorError)

	metaStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	tickStyle = lipgloss.NewStyle().
		Foreground(colorTick)

	dotStyle = lipgloss.NewStyle().
		Foreground(colorTypingDot).
		Faint(true)

	dotActiveStyle = lipgloss.NewStyle().
		Foreground(colorTypingDot).
		Bold(true)

	inputRowStyle = lipgloss.NewStyle().
		Background(colorHeader).
		Padding(0, 1)

	sendButtonStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	busyButtonStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Faint(true)

	statusBarStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Align(lipgloss.Center)

	statusKeyStyle = lipgloss.NewStyle().
		Foreground(colorText).
		Bold(true)

	statusDescStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	flashStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Italic(true)

	settingsHeaderStyle = lipgloss.NewStyle().
		Background(colorHeader).
		Foreground(colorText).
		Bold(true).
		Padding(0, 1)

	settingsPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	settingsSectionStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	settingsPathStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	settingsCursorStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	settingsItemStyle = lipgloss.NewStyle().
		Foreground(colorText)

	settingsSelectedStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	settingsValueStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	settingsOnStyle = lipgloss.NewStyle().
		Foreground(colorPrimary)

	settingsOffStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Faint(true)

	settingsCurrentStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Italic(true)
}

// FormatError returns a styled error message with additional context from
// structured errors. label, when set, prefixes the message.
func FormatError(err error, label string) string {
	if err == nil {
		return ""
	}

	errStyle := lipgloss.NewStyle().Foreground(colorError)
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	head := "✗ " + errors.Message(err)
	if label != "" {
		head = fmt.Sprintf("✗ %s: %s", label, errors.Message(err))
	}

	var sb strings.Builder
	sb.WriteString(errStyle.Render(head))

	if status := errors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}

	if endpoint := errors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	switch {
	case errors.IsTimeoutError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: The backend did not answer in time. Try --timeout or --no-timeout"))
	case errors.IsNetworkError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Check that the backend is running and --base-url points at it"))
	case errors.IsParseError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: The endpoint did not return JSON. Is --base-url the chat backend?"))
	}

	return sb.String()
}
