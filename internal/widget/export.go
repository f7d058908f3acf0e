package widget

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/diogo/phonechat/internal/models"
)

// ExportFormat represents the format for exporting a transcript
type ExportFormat string

const (
	ExportFormatMarkdown ExportFormat = "markdown"
	ExportFormatJSON     ExportFormat = "json"
	ExportFormatHTML     ExportFormat = "html"
)

// ExportOptions configures how a transcript is exported
type ExportOptions struct {
	Format ExportFormat
	Title  string
	// ViewportHeight is the browser viewport assumed for the HTML frame height
	ViewportHeight int
}

// DefaultExportOptions returns sensible defaults for export
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		Format:         ExportFormatHTML,
		Title:          "Chat",
		ViewportHeight: 900,
	}
}

// FormatFromPath picks the export format from a file extension
func FormatFromPath(path string) (ExportFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return ExportFormatHTML, nil
	case ".md", ".markdown":
		return ExportFormatMarkdown, nil
	case ".json":
		return ExportFormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported transcript extension %q (use .html, .md or .json)", filepath.Ext(path))
	}
}

// Export writes the transcript entries in the requested format
func Export(w io.Writer, entries []Entry, opts ExportOptions) error {
	switch opts.Format {
	case ExportFormatHTML:
		_, err := io.WriteString(w, ExportHTML(entries, opts))
		return err
	case ExportFormatMarkdown:
		_, err := io.WriteString(w, ExportMarkdown(entries, opts))
		return err
	case ExportFormatJSON:
		data, err := ExportJSON(entries)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unknown export format %q", opts.Format)
	}
}

// WriteTranscript writes entries to path, picking the format from its extension
func WriteTranscript(path string, entries []Entry, opts ExportOptions) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	opts.Format = format

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create transcript file: %w", err)
	}
	if err := Export(f, entries, opts); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write transcript: %w", err)
	}
	return f.Close()
}

// ExportMarkdown exports the bubbles of a transcript to Markdown
func ExportMarkdown(entries []Entry, opts ExportOptions) string {
	var sb strings.Builder

	sb.WriteString("# ")
	sb.WriteString(opts.Title)
	sb.WriteString("\n\n")

	first := true
	for _, e := range entries {
		if e.Typing {
			continue
		}
		if !first {
			sb.WriteString("\n---\n\n")
		}
		first = false

		role := "Them"
		if e.Message.IsOutgoing() {
			role = "You"
		}
		sb.WriteString("## ")
		sb.WriteString(role)
		if ts := e.Message.Time(); ts != "" {
			sb.WriteString(" (")
			sb.WriteString(ts)
			sb.WriteString(")")
		}
		sb.WriteString("\n\n")
		sb.WriteString(e.Message.Text)
		sb.WriteString("\n")
	}

	return sb.String()
}

// ExportJSON exports the bubbles of a transcript to JSON
func ExportJSON(entries []Entry) ([]byte, error) {
	type exportMessage struct {
		Text      string           `json:"text"`
		Direction models.Direction `json:"direction"`
		Timestamp time.Time        `json:"timestamp"`
	}
	type exportTranscript struct {
		Messages   []exportMessage `json:"messages"`
		ExportedAt time.Time       `json:"exported_at"`
	}

	out := exportTranscript{Messages: []exportMessage{}, ExportedAt: time.Now()}
	for _, e := range entries {
		if e.Typing {
			continue
		}
		out.Messages = append(out.Messages, exportMessage{
			Text:      e.Message.Text,
			Direction: e.Message.Direction,
			Timestamp: e.Message.Timestamp,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transcript: %w", err)
	}
	return data, nil
}

// tickSVG is the two-stroke delivery mark of outgoing bubbles, always grey
const tickSVG = `<svg class="tick" viewBox="0 0 16 12" xmlns="http://www.w3.org/2000/svg" aria-hidden="true">` +
	`<path d="M1 6.5L4 9.5L7.5 2" stroke="#92a3ad" stroke-width="1.6" fill="none" stroke-linecap="round" stroke-linejoin="round"/>` +
	`<path d="M6 6.5L9 9.5L14 3" stroke="#92a3ad" stroke-width="1.6" fill="none" stroke-linecap="round" stroke-linejoin="round"/>` +
	`</svg>`

const exportCSS = `body{margin:0;background:#0b141a;font-family:system-ui,sans-serif;display:flex;justify-content:center;padding:1vh 0}
.phone{width:390px;border-radius:36px;background:#111b21;box-shadow:0 0 0 10px #222;display:flex;flex-direction:column;overflow:hidden}
.header{background:#202c33;color:#e9edef;padding:14px 18px;font-weight:600}
.chat{flex:1;overflow-y:auto;padding:12px;background:#0b141a}
.msg-wrapper{display:flex;margin:4px 0}
.msg-wrapper.right{justify-content:flex-end}
.bubble{max-width:75%;padding:6px 9px;border-radius:8px;color:#e9edef;background:#202c33}
.right .bubble{background:#005c4b}
.msg-text{white-space:pre-wrap;word-wrap:break-word}
.meta{display:flex;justify-content:flex-end;align-items:center;gap:3px;font-size:11px;color:#8696a0}
.tick{width:16px;height:12px}
.typing{display:flex;gap:6px;align-items:center}
.dot{width:7px;height:7px;border-radius:50%;background:#8696A0;opacity:0.9;animation:blink 1.2s infinite}
.dot:nth-child(2){animation-delay:0.15s}.dot:nth-child(3){animation-delay:0.3s}
@keyframes blink{0%{transform:translateY(0);opacity:0.25}50%{transform:translateY(-4px);opacity:1}100%{transform:translateY(0);opacity:0.25}}
`

// ExportHTML renders the transcript as a standalone phone-frame page.
// All message text goes through EscapeHTML.
func ExportHTML(entries []Entry, opts ExportOptions) string {
	height := BrowserHeight.FrameHeight(opts.ViewportHeight)

	var sb strings.Builder
	sb.WriteString("<!doctype html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	sb.WriteString("<title>")
	sb.WriteString(EscapeHTML(opts.Title))
	sb.WriteString("</title>\n<style>\n")
	sb.WriteString(exportCSS)
	sb.WriteString("</style>\n</head>\n<body>\n")
	fmt.Fprintf(&sb, "<div class=\"phone\" style=\"height:%dpx;max-height:%dpx\">\n", height, height)
	sb.WriteString("<div class=\"header\">")
	sb.WriteString(EscapeHTML(opts.Title))
	sb.WriteString("</div>\n<div class=\"chat\" id=\"chat\">\n")

	for _, e := range entries {
		sb.WriteString(BubbleHTML(e))
	}

	sb.WriteString("</div>\n</div>\n</body>\n</html>\n")
	return sb.String()
}

// BubbleHTML renders a single transcript entry as HTML
func BubbleHTML(e Entry) string {
	if e.Typing {
		return `<div class="msg-wrapper left" id="` + TypingID + `"><div class="bubble"><div class="typing">` +
			`<span class="dot"></span><span class="dot"></span><span class="dot"></span>` +
			"</div></div></div>\n"
	}

	side := "left"
	tick := ""
	if e.Message.IsOutgoing() {
		side = "right"
		tick = tickSVG
	}

	return `<div class="msg-wrapper ` + side + `"><div class="bubble">` +
		`<div class="msg-text">` + EscapeHTML(e.Message.Text) + `</div>` +
		`<div class="meta"><span class="time">` + e.Message.Time() + `</span>` + tick + `</div>` +
		"</div></div>\n"
}
