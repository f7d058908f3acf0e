package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/phonechat/internal/config"
	"github.com/diogo/phonechat/internal/render"
)

// NewConfigCmd creates a new config command
func NewConfigCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit settings",
		Long: `Inspect and edit ~/.phonechat/config.json.

Without a subcommand an interactive settings menu opens.
PHONECHAT_* environment variables override the file; command-line flags
override both.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSettings(deps)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			fmt.Fprintln(deps.Stdout, string(data))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(deps.Stdout, path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting",
		Long:  "Change one setting. Valid keys: " + strings.Join(config.Keys(), ", "),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(deps, args[0], args[1])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "themes",
		Short: "List phone-frame themes and markdown styles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(deps.Stdout, "Themes (tui_theme):")
			for _, t := range render.AvailableTUIThemes() {
				fmt.Fprintf(deps.Stdout, "  %-16s %s\n", t.Name, t.Description)
			}
			fmt.Fprintln(deps.Stdout, "\nMarkdown styles (markdown.style):")
			for _, s := range render.AvailableStyles() {
				fmt.Fprintf(deps.Stdout, "  %-16s %s\n", s.Name, s.Description)
			}
			return nil
		},
	})

	return cmd
}

func runConfigSet(deps *Dependencies, key, value string) error {
	// Validate values whose domain lives outside the config package
	switch key {
	case "tui_theme":
		if _, ok := render.GetTUIThemeByName(value); !ok {
			return fmt.Errorf("unknown theme %q (available: %s)", value, strings.Join(render.TUIThemeNames(), ", "))
		}
	case "markdown.style":
		if !render.IsBuiltinStyle(value) {
			fmt.Fprintf(deps.Stderr, "Note: %q is not a bundled style, it will be read as a style file path\n", value)
		}
	}

	cfg, err := config.LoadFile()
	if err != nil {
		return err
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := config.SaveConfig(cfg); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "%s = %s\n", key, value)
	return nil
}

// runSettings opens the settings menu on the file contents only, so
// environment overrides are never written back.
func runSettings(deps *Dependencies) error {
	cfg, err := config.LoadFile()
	if err != nil {
		return err
	}
	path, err := config.GetConfigPath()
	if err != nil {
		return err
	}

	if _, err := deps.TUI.RunSettings(cfg, path, config.SaveConfig); err != nil {
		return fmt.Errorf("settings failed: %w", err)
	}
	return nil
}
