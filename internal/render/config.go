package render

import (
	"os"

	"github.com/diogo/phonechat/internal/config"
)

// StyleEnvVar overrides the configured markdown style
const StyleEnvVar = "GLAMOUR_STYLE"

// OptionsFromConfig builds render options from the user configuration.
// GLAMOUR_STYLE takes precedence over the config file.
func OptionsFromConfig(cfg config.Config) Options {
	opts := DefaultOptions()

	md := cfg.Markdown
	if md.Style != "" {
		opts.Style = md.Style
	}
	opts.EnableEmoji = md.EnableEmoji
	opts.PreserveNewLines = md.PreserveNewLines

	if style := os.Getenv(StyleEnvVar); style != "" {
		opts.Style = style
	}

	return opts
}
