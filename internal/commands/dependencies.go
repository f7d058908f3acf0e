package commands

import (
	"context"
	"io"
	"os"

	"github.com/atotto/clipboard"

	"github.com/diogo/phonechat/internal/api"
	"github.com/diogo/phonechat/internal/config"
	"github.com/diogo/phonechat/internal/tui"
	"github.com/diogo/phonechat/internal/widget"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(ctx context.Context, client api.ChatClientInterface, opts tui.Options) (*widget.Widget, error)
	RunSettings(cfg config.Config, configPath string, save func(config.Config) error) (config.Config, error)
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// Client is the chat backend client. When nil one is built from config.
	Client api.ChatClientInterface

	// TUI is the terminal user interface.
	TUI TUIInterface

	// Standard streams
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Clipboard writes text to the system clipboard.
	Clipboard func(string) error

	// Interactive reports whether stderr is a terminal, enabling the typing line
	// and decorated output.
	Interactive func() bool
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(ctx context.Context, client api.ChatClientInterface, opts tui.Options) (*widget.Widget, error) {
	return tui.RunChat(ctx, client, opts)
}

func (d *DefaultTUI) RunSettings(cfg config.Config, configPath string, save func(config.Config) error) (config.Config, error) {
	return tui.RunSettings(cfg, configPath, save)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		TUI:         &DefaultTUI{},
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Clipboard:   clipboard.WriteAll,
		Interactive: isStderrTTY,
	}
}

// withDefaults fills any unset dependency with its production value
func (d *Dependencies) withDefaults() *Dependencies {
	def := NewDependencies()
	if d == nil {
		return def
	}
	out := *d
	if out.TUI == nil {
		out.TUI = def.TUI
	}
	if out.Stdin == nil {
		out.Stdin = def.Stdin
	}
	if out.Stdout == nil {
		out.Stdout = def.Stdout
	}
	if out.Stderr == nil {
		out.Stderr = def.Stderr
	}
	if out.Clipboard == nil {
		out.Clipboard = def.Clipboard
	}
	if out.Interactive == nil {
		out.Interactive = def.Interactive
	}
	return &out
}
