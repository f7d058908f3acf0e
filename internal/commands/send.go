package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/diogo/phonechat/internal/render"
	"github.com/diogo/phonechat/internal/tui"
	"github.com/diogo/phonechat/internal/widget"
)

var (
	colorText    = lipgloss.Color("#e9edef")
	colorTextDim = lipgloss.Color("#8696a0")
	colorSuccess = lipgloss.Color("#00a884")
	colorWarning = lipgloss.Color("#f15c6d")
)

// typingFrames animate the one-shot "typing" indicator
var typingFrames = []string{"●○○", "○●○", "○○●", "○●○"}

// typingLine animates the typing dots on stderr while a one-shot send waits
type typingLine struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func startTypingLine(out io.Writer, label string) *typingLine {
	ctx, cancel := context.WithCancel(context.Background())
	t := &typingLine{cancel: cancel, done: make(chan struct{})}

	dots := lipgloss.NewStyle().Foreground(colorTextDim).Bold(true)
	text := lipgloss.NewStyle().Foreground(colorText).Italic(true).Render(label)

	go func() {
		defer close(t.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		fmt.Fprint(out, "\033[?25l")
		for frame := 0; ; frame++ {
			select {
			case <-ctx.Done():
				fmt.Fprint(out, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				fmt.Fprintf(out, "\r\033[K%s %s", dots.Render(typingFrames[(frame/3)%len(typingFrames)]), text)
			}
		}
	}()
	return t
}

// stop clears the line and restores the cursor. Calling it twice is fine.
func (t *typingLine) stop() {
	t.cancel()
	<-t.done
}

// reportedError marks an error already shown to the user
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// runSend sends one message through the widget pipeline and prints the
// resulting bubbles, or only the reply text in raw mode.
func runSend(ctx context.Context, deps *Dependencies, sess *session, opts *rootOptions, message string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := sess.cfg
	interactive := !opts.raw && deps.Interactive()

	w := widget.New(
		widget.WithHardened(cfg.Hardened),
		widget.WithLogger(sess.logger),
	)

	if cfg.Verbose && !opts.raw {
		fmt.Fprintf(deps.Stderr, "[verbose] Endpoint: %s (timeout %s)\n", sess.client.Endpoint(), timeoutLabel(sess.client.Timeout()))
	}

	text, err := w.Begin(message)
	if errors.Is(err, widget.ErrEmptyInput) {
		return fmt.Errorf("message cannot be empty")
	}
	if err != nil {
		return err
	}

	var typing *typingLine
	if interactive {
		typing = startTypingLine(deps.Stderr, "typing…")
	}

	startTime := time.Now()
	reply, sendErr := sess.client.Send(ctx, text)
	requestDuration := time.Since(startTime)

	if typing != nil {
		typing.stop()
	}

	bubble := w.Finish(reply, sendErr)

	if cfg.Verbose && !opts.raw {
		fmt.Fprintf(deps.Stderr, "[verbose] Request took %s\n", requestDuration.Round(time.Millisecond))
	}

	if sendErr != nil {
		if opts.raw {
			return fmt.Errorf("send failed: %w", sendErr)
		}
		printBubbles(deps.Stdout, w, cfg.RenderMarkdown, render.OptionsFromConfig(cfg))
		fmt.Fprintln(deps.Stderr, tui.FormatError(sendErr, "Send failed"))
		return &reportedError{err: fmt.Errorf("send failed: %w", sendErr)}
	}

	replyText := bubble.Text

	if opts.raw {
		if opts.output != "" {
			return writeOutput(opts.output, replyText)
		}
		fmt.Fprint(deps.Stdout, replyText)
		return nil
	}

	printBubbles(deps.Stdout, w, cfg.RenderMarkdown, render.OptionsFromConfig(cfg))

	if cfg.CopyToClipboard {
		if err := deps.Clipboard(replyText); err != nil {
			warnMsg := lipgloss.NewStyle().Foreground(colorWarning).Render(
				fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err),
			)
			fmt.Fprintln(deps.Stderr, warnMsg)
		} else {
			fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard"))
		}
	}

	if opts.output != "" {
		if err := writeOutput(opts.output, replyText); err != nil {
			return err
		}
		fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render(
			fmt.Sprintf("✓ Reply saved to %s", opts.output),
		))
	}

	return nil
}

func writeOutput(path, text string) error {
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// printBubbles prints the widget transcript as chat bubbles sized to the
// terminal.
func printBubbles(out io.Writer, w *widget.Widget, markdown bool, mdOpts render.Options) {
	width := getTerminalWidth() - 4
	if width < 40 {
		width = 40
	}
	if width > 100 {
		width = 100
	}

	fmt.Fprintln(out, tui.RenderEntries(w.Entries(), width, tui.BubbleOptions{
		Markdown:     markdown,
		MarkdownOpts: mdOpts,
	}))
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // default width
	}
	return width
}

// isStderrTTY returns true if stderr is connected to a terminal
func isStderrTTY() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}
