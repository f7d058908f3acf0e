package render

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
)

// Markdown style names understood without a style file
const (
	StyleDark       = styles.DarkStyle
	StyleLight      = styles.LightStyle
	StyleDracula    = styles.DraculaStyle
	StyleTokyoNight = styles.TokyoNightStyle
	StylePink       = styles.PinkStyle
	StyleNoTTY      = styles.NoTTYStyle
	StyleASCII      = styles.AsciiStyle
)

// IsBuiltinStyle reports whether style names a bundled glamour style
func IsBuiltinStyle(style string) bool {
	_, ok := styles.DefaultStyles[style]
	return ok
}

// compactStyle strips the document margin and padding lines glamour adds
// around every render; a bubble already provides its own padding.
func compactStyle(base ansi.StyleConfig) ansi.StyleConfig {
	var zero uint
	base.Document.Margin = &zero
	base.Document.BlockPrefix = ""
	base.Document.BlockSuffix = ""
	return base
}

// styleOption resolves a style name or file path into a renderer option
func styleOption(style string) (glamour.TermRendererOption, error) {
	if cfg, ok := styles.DefaultStyles[style]; ok {
		return glamour.WithStyles(compactStyle(*cfg)), nil
	}
	if _, err := os.Stat(style); err != nil {
		return nil, fmt.Errorf("unknown markdown style %q", style)
	}
	return glamour.WithStylePath(style), nil
}

// StyleInfo contains information about a markdown style for display purposes.
type StyleInfo struct {
	Name        string
	Description string
}

// AvailableStyles returns the bundled markdown styles.
func AvailableStyles() []StyleInfo {
	return []StyleInfo{
		{Name: StyleDark, Description: "Dark terminals (default)"},
		{Name: StyleLight, Description: "Light terminals"},
		{Name: StyleDracula, Description: "Dracula color scheme"},
		{Name: StyleTokyoNight, Description: "Tokyo Night color scheme"},
		{Name: StylePink, Description: "Pink accents"},
		{Name: StyleNoTTY, Description: "Plain text (no styling)"},
		{Name: StyleASCII, Description: "ASCII-only output"},
	}
}

// StyleNames returns just the style names for selection.
func StyleNames() []string {
	all := AvailableStyles()
	names := make([]string, len(all))
	for i, s := range all {
		names[i] = s.Name
	}
	return names
}
