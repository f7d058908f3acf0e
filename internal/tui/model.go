package tui

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/diogo/phonechat/internal/api"
	"github.com/diogo/phonechat/internal/models"
	"github.com/diogo/phonechat/internal/render"
	"github.com/diogo/phonechat/internal/widget"
)

// Animation tick message
type animationTickMsg time.Time

// Message types for the TUI
type (
	// sendResultMsg carries the backend outcome of one send
	sendResultMsg struct {
		reply *models.ChatReply
		err   error
	}
	// flashExpiredMsg clears the status flash it belongs to
	flashExpiredMsg struct {
		id int
	}
)

const flashDuration = 2 * time.Second

// Options configures the chat TUI
type Options struct {
	// Title is shown as the contact name in the phone header
	Title string

	// Hardened enables the in-flight guard; the request timeout lives in the client
	Hardened bool

	// SmoothScroll animates scrolling to new bubbles
	SmoothScroll bool

	// RenderMarkdown renders incoming bubbles through glamour
	RenderMarkdown bool
	Markdown       render.Options

	Logger zerolog.Logger

	// Clipboard writes text to the system clipboard. Defaults to atotto/clipboard.
	Clipboard func(string) error
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		Title:        "Chat",
		Hardened:     true,
		SmoothScroll: true,
		Markdown:     render.DefaultOptions(),
		Logger:       zerolog.Nop(),
	}
}

// Model represents the TUI state
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	client api.ChatClientInterface
	widget *widget.Widget

	// UI components
	viewport viewport.Model
	input    textinput.Model

	// Settings
	title          string
	host           string
	smoothScroll   bool
	renderMarkdown bool
	markdown       render.Options
	copyText       func(string) error
	logger         zerolog.Logger

	// State
	ready          bool
	animating      bool
	animationFrame int
	renderedRev    uint64
	scrollID       int
	flash          string
	flashID        int

	// Dimensions
	width  int
	height int
}

// NewChatModel creates a new chat TUI model
func NewChatModel(ctx context.Context, client api.ChatClientInterface, opts Options) Model {
	ctx, cancel := context.WithCancel(ctx)

	ti := textinput.New()
	ti.Placeholder = "Type a message"
	ti.Prompt = ""
	ti.CharLimit = 4000
	ti.Focus()

	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	if opts.Title == "" {
		opts.Title = "Chat"
	}

	return Model{
		ctx:            ctx,
		cancel:         cancel,
		client:         client,
		widget:         widget.New(widget.WithHardened(opts.Hardened), widget.WithLogger(opts.Logger)),
		input:          ti,
		title:          opts.Title,
		host:           endpointHost(client.Endpoint()),
		smoothScroll:   opts.SmoothScroll,
		renderMarkdown: opts.RenderMarkdown,
		markdown:       opts.Markdown,
		copyText:       opts.Clipboard,
		logger:         opts.Logger,
	}
}

func endpointHost(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint
	}
	return u.Host
}

// Widget returns the widget backing this model
func (m Model) Widget() *widget.Widget {
	return m.widget
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// animationTick returns a command that sends animation tick messages
func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpWidth, vpHeight := m.chatAreaSize()
		if !m.ready {
			m.viewport = viewport.New(vpWidth, vpHeight)
			m.viewport.KeyMap = viewport.KeyMap{}
			m.ready = true
		} else {
			m.viewport.Width = vpWidth
			m.viewport.Height = vpHeight
		}
		m.syncViewport(true)
		cmds = append(cmds, m.scrollBottom())

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancel()
			return m, tea.Quit

		case "enter":
			cmds = append(cmds, m.submit())

		case "ctrl+y":
			cmds = append(cmds, m.copyLastReply())

		case "ctrl+l":
			m.widget.Clear()
			m.viewport.GotoTop()

		case "pgup":
			m.viewport.SetYOffset(m.viewport.YOffset - m.viewport.Height)

		case "pgdown":
			m.viewport.SetYOffset(m.viewport.YOffset + m.viewport.Height)

		default:
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}

	case sendResultMsg:
		m.widget.Finish(msg.reply, msg.err)
		if !m.widget.Busy() {
			cmds = append(cmds, m.input.Focus())
		}
		cmds = append(cmds, m.scrollBottom())

	case animationTickMsg:
		if m.widget.Typing() {
			m.animationFrame++
			m.syncViewport(true)
			cmds = append(cmds, animationTick())
		} else {
			m.animating = false
		}

	case scrollMsg:
		cmds = append(cmds, m.handleScroll(msg))

	case smoothScrollMsg:
		cmds = append(cmds, m.handleSmoothScroll(msg))

	case flashExpiredMsg:
		if msg.id == m.flashID {
			m.flash = ""
		}

	case tea.MouseMsg:
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)

	default:
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.syncViewport(false)

	return m, tea.Batch(cmds...)
}

// submit starts a send with the current input. Blank input is ignored; a
// send while busy keeps the input and explains why nothing happened.
func (m *Model) submit() tea.Cmd {
	text, err := m.widget.Begin(m.input.Value())
	switch {
	case errors.Is(err, widget.ErrEmptyInput):
		return nil
	case errors.Is(err, widget.ErrRequestInFlight):
		return m.setFlash("Waiting for the reply…")
	case err != nil:
		return m.setFlash(err.Error())
	}

	m.input.Reset()
	if m.widget.Busy() {
		m.input.Blur()
	}
	m.syncViewport(false)

	cmds := []tea.Cmd{m.sendMessage(text), m.scrollBottom()}
	if !m.animating {
		m.animating = true
		m.animationFrame = 0
		cmds = append(cmds, animationTick())
	}
	return tea.Batch(cmds...)
}

// sendMessage creates a command to send a message to the backend
func (m Model) sendMessage(text string) tea.Cmd {
	ctx := m.ctx
	client := m.client
	return func() tea.Msg {
		reply, err := client.Send(ctx, text)
		return sendResultMsg{reply: reply, err: err}
	}
}

func (m *Model) copyLastReply() tea.Cmd {
	last, ok := m.widget.LastIncoming()
	if !ok {
		return m.setFlash("Nothing to copy yet")
	}
	if err := m.copyText(last.Text); err != nil {
		m.logger.Warn().Err(err).Msg("clipboard copy failed")
		return m.setFlash("Copy failed: " + err.Error())
	}
	return m.setFlash("Copied last reply")
}

func (m *Model) setFlash(text string) tea.Cmd {
	m.flashID++
	m.flash = text
	id := m.flashID
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashExpiredMsg{id: id}
	})
}

// syncViewport redraws the viewport content when the transcript changed,
// or always when force is set.
func (m *Model) syncViewport(force bool) {
	if !m.ready {
		return
	}
	rev := m.widget.Revision()
	if !force && rev == m.renderedRev {
		return
	}
	m.renderedRev = rev
	m.viewport.SetContent(m.renderTranscript(m.viewport.Width))
}

// RunChat starts the chat TUI and returns the widget holding the final
// transcript.
func RunChat(ctx context.Context, client api.ChatClientInterface, opts Options) (*widget.Widget, error) {
	m := NewChatModel(ctx, client, opts)
	defer m.cancel()

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	return m.Widget(), err
}
