package render

import (
	"github.com/charmbracelet/lipgloss"
)

// TUITheme defines the color scheme of the phone frame
type TUITheme struct {
	Name        string
	Description string

	// Frame colors
	Background lipgloss.Color
	Header     lipgloss.Color
	Border     lipgloss.Color

	// Bubble colors
	Outgoing   lipgloss.Color
	Incoming   lipgloss.Color
	BubbleText lipgloss.Color
	Tick       lipgloss.Color
	TypingDot  lipgloss.Color

	// Accent colors
	Primary lipgloss.Color
	Error   lipgloss.Color

	// Text colors
	Text    lipgloss.Color
	TextDim lipgloss.Color
}

// Built-in TUI themes
var (
	// WhatsAppTheme is the default dark messenger look
	WhatsAppTheme = TUITheme{
		Name:        "whatsapp",
		Description: "Messenger dark - green outgoing bubbles on a night background",

		Background: lipgloss.Color("#0b141a"),
		Header:     lipgloss.Color("#202c33"),
		Border:     lipgloss.Color("#2a3942"),

		Outgoing:   lipgloss.Color("#005c4b"),
		Incoming:   lipgloss.Color("#202c33"),
		BubbleText: lipgloss.Color("#e9edef"),
		Tick:       lipgloss.Color("#92a3ad"),
		TypingDot:  lipgloss.Color("#8696a0"),

		Primary: lipgloss.Color("#00a884"),
		Error:   lipgloss.Color("#f15c6d"),

		Text:    lipgloss.Color("#e9edef"),
		TextDim: lipgloss.Color("#8696a0"),
	}

	// WhatsAppLightTheme is the light variant for bright terminals
	WhatsAppLightTheme = TUITheme{
		Name:        "whatsapp-light",
		Description: "Messenger light - pale green outgoing bubbles on beige",

		Background: lipgloss.Color("#efeae2"),
		Header:     lipgloss.Color("#f0f2f5"),
		Border:     lipgloss.Color("#d1d7db"),

		Outgoing:   lipgloss.Color("#d9fdd3"),
		Incoming:   lipgloss.Color("#ffffff"),
		BubbleText: lipgloss.Color("#111b21"),
		Tick:       lipgloss.Color("#92a3ad"),
		TypingDot:  lipgloss.Color("#8696a0"),

		Primary: lipgloss.Color("#008069"),
		Error:   lipgloss.Color("#ea0038"),

		Text:    lipgloss.Color("#111b21"),
		TextDim: lipgloss.Color("#667781"),
	}

	// TokyoNightTheme is based on the Tokyo Night color scheme
	TokyoNightTheme = TUITheme{
		Name:        "tokyonight",
		Description: "Tokyo Night - dark theme with blue accents",

		Background: lipgloss.Color("#1a1b26"),
		Header:     lipgloss.Color("#24283b"),
		Border:     lipgloss.Color("#414868"),

		Outgoing:   lipgloss.Color("#3d59a1"),
		Incoming:   lipgloss.Color("#24283b"),
		BubbleText: lipgloss.Color("#c0caf5"),
		Tick:       lipgloss.Color("#92a3ad"),
		TypingDot:  lipgloss.Color("#565f89"),

		Primary: lipgloss.Color("#7aa2f7"),
		Error:   lipgloss.Color("#f7768e"),

		Text:    lipgloss.Color("#c0caf5"),
		TextDim: lipgloss.Color("#565f89"),
	}

	// NordTheme is based on the Nord color palette
	NordTheme = TUITheme{
		Name:        "nord",
		Description: "Nord - arctic-inspired theme with cool tones",

		Background: lipgloss.Color("#2e3440"),
		Header:     lipgloss.Color("#3b4252"),
		Border:     lipgloss.Color("#4c566a"),

		Outgoing:   lipgloss.Color("#5e81ac"),
		Incoming:   lipgloss.Color("#3b4252"),
		BubbleText: lipgloss.Color("#eceff4"),
		Tick:       lipgloss.Color("#92a3ad"),
		TypingDot:  lipgloss.Color("#7b88a1"),

		Primary: lipgloss.Color("#88c0d0"),
		Error:   lipgloss.Color("#bf616a"),

		Text:    lipgloss.Color("#eceff4"),
		TextDim: lipgloss.Color("#7b88a1"),
	}
)

// currentTUITheme holds the currently active TUI theme
var currentTUITheme = WhatsAppTheme

// GetTUITheme returns the currently active TUI theme
func GetTUITheme() TUITheme {
	return currentTUITheme
}

// SetTUITheme sets the active TUI theme by name
func SetTUITheme(name string) bool {
	theme, ok := GetTUIThemeByName(name)
	if ok {
		currentTUITheme = theme
		return true
	}
	return false
}

// GetTUIThemeByName returns a TUI theme by its name
func GetTUIThemeByName(name string) (TUITheme, bool) {
	for _, theme := range AvailableTUIThemes() {
		if theme.Name == name {
			return theme, true
		}
	}
	return TUITheme{}, false
}

// AvailableTUIThemes returns a list of all available TUI themes
func AvailableTUIThemes() []TUITheme {
	return []TUITheme{
		WhatsAppTheme,
		WhatsAppLightTheme,
		TokyoNightTheme,
		NordTheme,
	}
}

// TUIThemeNames returns just the theme names for selection
func TUIThemeNames() []string {
	themes := AvailableTUIThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
