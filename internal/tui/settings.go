package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/phonechat/internal/config"
	"github.com/diogo/phonechat/internal/render"
)

// settingsView represents the current screen of the settings menu
type settingsView int

const (
	viewMain settingsView = iota
	viewStyleSelect
	viewThemeSelect
)

// settingsItem is one row of the main menu. Toggles flip a bool field,
// the others open a selection list.
type settingsItem struct {
	label  string
	toggle func(*config.Config) *bool
	opens  settingsView
}

var settingsItems = []settingsItem{
	{label: "Request timeout", toggle: func(c *config.Config) *bool { return &c.Hardened }},
	{label: "Smooth scrolling", toggle: func(c *config.Config) *bool { return &c.SmoothScroll }},
	{label: "Markdown replies", toggle: func(c *config.Config) *bool { return &c.RenderMarkdown }},
	{label: "Copy to clipboard", toggle: func(c *config.Config) *bool { return &c.CopyToClipboard }},
	{label: "Verbose logging", toggle: func(c *config.Config) *bool { return &c.Verbose }},
	{label: "Markdown style", opens: viewStyleSelect},
	{label: "Phone theme", opens: viewThemeSelect},
	{label: "Exit"},
}

// feedbackClearMsg clears the feedback line after a delay
type feedbackClearMsg struct{}

// SettingsModel is an interactive editor for the config file
type SettingsModel struct {
	config     config.Config
	configPath string
	save       func(config.Config) error

	view        settingsView
	cursor      int
	styleCursor int
	themeCursor int

	feedback        string
	feedbackTimeout time.Duration

	width  int
	height int
	ready  bool
}

// NewSettingsModel creates the settings editor for cfg. save persists each
// change as soon as it is made.
func NewSettingsModel(cfg config.Config, configPath string, save func(config.Config) error) SettingsModel {
	styleCursor := indexOf(render.StyleNames(), cfg.Markdown.Style)
	themeCursor := indexOf(render.TUIThemeNames(), cfg.TUITheme)

	if render.SetTUITheme(cfg.TUITheme) {
		UpdateTheme()
	}

	return SettingsModel{
		config:          cfg,
		configPath:      configPath,
		save:            save,
		view:            viewMain,
		styleCursor:     styleCursor,
		themeCursor:     themeCursor,
		feedbackTimeout: 2 * time.Second,
	}
}

func indexOf(list []string, value string) int {
	for i, v := range list {
		if v == value {
			return i
		}
	}
	return 0
}

// Config returns the configuration as edited so far
func (m SettingsModel) Config() config.Config {
	return m.config
}

// Init initializes the model
func (m SettingsModel) Init() tea.Cmd {
	return nil
}

// clearFeedback returns a command that clears the feedback message after a delay
func clearFeedback(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return feedbackClearMsg{}
	})
}

func wrapCursor(cursor, delta, n int) int {
	return ((cursor+delta)%n + n) % n
}

// Update handles messages and updates the model
func (m SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case feedbackClearMsg:
		m.feedback = ""

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.view != viewMain {
				m.view = viewMain
				return m, nil
			}
			return m, tea.Quit

		case "up", "k":
			m.move(-1)

		case "down", "j":
			m.move(1)

		case "enter", " ":
			return m.handleSelect()
		}
	}

	return m, nil
}

func (m *SettingsModel) move(delta int) {
	switch m.view {
	case viewMain:
		m.cursor = wrapCursor(m.cursor, delta, len(settingsItems))
	case viewStyleSelect:
		m.styleCursor = wrapCursor(m.styleCursor, delta, len(render.StyleNames()))
	case viewThemeSelect:
		m.themeCursor = wrapCursor(m.themeCursor, delta, len(render.TUIThemeNames()))
	}
}

// persist saves the config and sets the feedback line
func (m SettingsModel) persist(success string) (tea.Model, tea.Cmd) {
	if err := m.save(m.config); err != nil {
		m.feedback = fmt.Sprintf("Error: %v", err)
	} else {
		m.feedback = success
	}
	return m, clearFeedback(m.feedbackTimeout)
}

// handleSelect handles menu item selection
func (m SettingsModel) handleSelect() (tea.Model, tea.Cmd) {
	switch m.view {
	case viewMain:
		item := settingsItems[m.cursor]
		switch {
		case item.toggle != nil:
			field := item.toggle(&m.config)
			*field = !*field
			return m.persist(fmt.Sprintf("%s %s", item.label, enabledLabel(*field)))
		case item.opens != viewMain:
			m.view = item.opens
			return m, nil
		default:
			return m, tea.Quit
		}

	case viewStyleSelect:
		m.config.Markdown.Style = render.StyleNames()[m.styleCursor]
		m.view = viewMain
		return m.persist("Markdown style set to " + m.config.Markdown.Style)

	case viewThemeSelect:
		theme := render.TUIThemeNames()[m.themeCursor]
		m.config.TUITheme = theme

		// Apply the new theme immediately
		render.SetTUITheme(theme)
		UpdateTheme()

		m.view = viewMain
		return m.persist("Phone theme set to " + theme)
	}

	return m, nil
}

func enabledLabel(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}

// View renders the TUI
func (m SettingsModel) View() string {
	if !m.ready {
		return welcomeStyle.Render("  Initializing...")
	}

	width := m.width - 4
	if width < 40 {
		width = 40
	}

	sections := []string{
		settingsHeaderStyle.Width(width).Render("⚙ phonechat settings"),
		settingsPanelStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left,
			settingsSectionStyle.Render("Backend"),
			fmt.Sprintf("   Endpoint: %s", settingsPathStyle.Render(m.config.BaseURL+"/api/chat")),
			fmt.Sprintf("   Timeout:  %s", settingsPathStyle.Render(m.timeoutText())),
			fmt.Sprintf("   Config:   %s", settingsPathStyle.Render(m.configPath)),
		)),
	}

	var body string
	switch m.view {
	case viewMain:
		body = m.renderMainMenu()
	case viewStyleSelect:
		body = m.renderSelect("Markdown style", styleRows(), m.styleCursor, m.config.Markdown.Style)
	case viewThemeSelect:
		body = m.renderSelect("Phone theme", themeRows(), m.themeCursor, m.config.TUITheme)
	}
	sections = append(sections, settingsPanelStyle.Width(width).Render(body))

	if m.feedback != "" {
		sections = append(sections, flashStyle.Render("✓ "+m.feedback))
	}

	sections = append(sections, m.renderHints(width))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m SettingsModel) timeoutText() string {
	if !m.config.Hardened || m.config.TimeoutSeconds <= 0 {
		return "none (minimal mode)"
	}
	return fmt.Sprintf("%ds", m.config.TimeoutSeconds)
}

func (m SettingsModel) cursorPrefix(selected bool) (string, lipgloss.Style) {
	if selected {
		return settingsCursorStyle.Render("▸ "), settingsSelectedStyle
	}
	return "  ", settingsItemStyle
}

// renderMainMenu renders the main settings menu
func (m SettingsModel) renderMainMenu() string {
	const labelWidth = 20

	rows := []string{settingsSectionStyle.Render("Settings"), ""}
	for i, item := range settingsItems {
		cursor, style := m.cursorPrefix(m.cursor == i)
		label := style.Render(item.label)
		pad := strings.Repeat(" ", max(1, labelWidth-lipgloss.Width(item.label)))

		var value string
		switch {
		case item.toggle != nil:
			cfg := m.config
			if *item.toggle(&cfg) {
				value = settingsOnStyle.Render("enabled")
			} else {
				value = settingsOffStyle.Render("disabled")
			}
		case item.opens == viewStyleSelect:
			value = settingsValueStyle.Render(m.config.Markdown.Style)
		case item.opens == viewThemeSelect:
			value = settingsValueStyle.Render(m.config.TUITheme)
		default:
			rows = append(rows, "")
			rows = append(rows, cursor+label)
			continue
		}
		rows = append(rows, cursor+label+pad+value)
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

type selectRow struct {
	name        string
	description string
}

func styleRows() []selectRow {
	var rows []selectRow
	for _, s := range render.AvailableStyles() {
		rows = append(rows, selectRow{s.Name, s.Description})
	}
	return rows
}

func themeRows() []selectRow {
	var rows []selectRow
	for _, t := range render.AvailableTUIThemes() {
		rows = append(rows, selectRow{t.Name, t.Description})
	}
	return rows
}

// renderSelect renders a selection sub-menu
func (m SettingsModel) renderSelect(title string, options []selectRow, cursor int, current string) string {
	rows := []string{settingsSectionStyle.Render(title), ""}
	for i, opt := range options {
		prefix, style := m.cursorPrefix(cursor == i)
		mark := ""
		if opt.name == current {
			mark = settingsCurrentStyle.Render(" (current)")
		}
		rows = append(rows, prefix+style.Render(fmt.Sprintf("%s - %s", opt.name, opt.description))+mark)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderHints renders the key hints under the menu
func (m SettingsModel) renderHints(width int) string {
	back := "Exit"
	if m.view != viewMain {
		back = "Back"
	}

	shortcuts := []struct {
		key  string
		desc string
	}{
		{"↑↓", "Navigate"},
		{"Enter", "Select"},
		{"Esc", back},
	}

	items := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}
	return statusBarStyle.Width(width).Render(strings.Join(items, statusDescStyle.Render("  │  ")))
}

// RunSettings starts the settings editor
func RunSettings(cfg config.Config, configPath string, save func(config.Config) error) (config.Config, error) {
	p := tea.NewProgram(
		NewSettingsModel(cfg, configPath, save),
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		return cfg, err
	}
	if m, ok := final.(SettingsModel); ok {
		return m.Config(), nil
	}
	return cfg, nil
}
