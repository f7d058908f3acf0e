package commands

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/diogo/phonechat/internal/render"
	"github.com/diogo/phonechat/internal/tui"
	"github.com/diogo/phonechat/internal/widget"
)

// NewChatCmd creates the interactive chat command
func NewChatCmd(deps *Dependencies, root *rootOptions) *cobra.Command {
	var (
		transcript string
		title      string
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start the phone-frame chat",
		Long: `Start an interactive chat shown as message bubbles inside a phone frame.

Enter sends, Ctrl+Y copies the last reply, Ctrl+L clears the transcript,
PgUp/PgDn scroll and Esc or Ctrl+C quit.

With --transcript the session is written on exit. The format follows the
file extension: .html (phone-frame page), .md or .json.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if transcript != "" {
				if _, err := widget.FormatFromPath(transcript); err != nil {
					return err
				}
			}

			sess, err := root.open(cmd, deps)
			if err != nil {
				return err
			}
			defer sess.Close()

			return runChat(cmd, deps, sess, title, transcript)
		},
	}

	cmd.Flags().StringVar(&transcript, "transcript", "", "Write the session to FILE on exit (.html, .md or .json)")
	cmd.Flags().StringVar(&title, "title", "Chat", "Contact name shown in the phone header")

	return cmd
}

func runChat(cmd *cobra.Command, deps *Dependencies, sess *session, title, transcript string) error {
	cfg := sess.cfg

	if cfg.TUITheme != "" {
		if render.SetTUITheme(cfg.TUITheme) {
			tui.UpdateTheme()
		} else {
			fmt.Fprintf(deps.Stderr, "Warning: unknown tui_theme %q, using %s\n", cfg.TUITheme, render.GetTUITheme().Name)
		}
	}

	opts := tui.DefaultOptions()
	opts.Title = title
	opts.Hardened = cfg.Hardened
	opts.SmoothScroll = cfg.SmoothScroll
	opts.RenderMarkdown = cfg.RenderMarkdown
	opts.Markdown = render.OptionsFromConfig(cfg)
	opts.Logger = sess.logger
	opts.Clipboard = deps.Clipboard

	w, err := deps.TUI.RunChat(cmd.Context(), sess.client, opts)
	if err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}

	if transcript == "" || w == nil {
		return nil
	}

	exportOpts := widget.DefaultExportOptions()
	exportOpts.Title = title
	if err := widget.WriteTranscript(transcript, w.Entries(), exportOpts); err != nil {
		return err
	}

	sess.logger.Info().Str("path", transcript).Int("messages", len(w.Messages())).Msg("transcript written")
	fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render(
		fmt.Sprintf("✓ Transcript saved to %s", transcript),
	))
	return nil
}
