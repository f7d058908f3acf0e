package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/diogo/phonechat/internal/models"
	"github.com/diogo/phonechat/internal/widget"
)

func fixedWidget() *widget.Widget {
	at := time.Date(2025, 3, 14, 9, 5, 0, 0, time.UTC)
	return widget.New(widget.WithClock(func() time.Time { return at }))
}

func plainLines(s string) []string {
	return strings.Split(ansi.Strip(s), "\n")
}

func TestRenderEntries_OutgoingRightWithTick(t *testing.T) {
	w := fixedWidget()
	w.AppendOutgoing("Hi")

	out := RenderEntries(w.Entries(), 40, BubbleOptions{})
	lines := plainLines(out)

	if !strings.Contains(out, "Hi") {
		t.Fatalf("bubble text missing: %q", out)
	}
	last := lines[len(lines)-1]
	if !strings.Contains(last, "09:05") || !strings.Contains(last, doubleTick) {
		t.Errorf("meta line = %q, want time and double tick", last)
	}
	for _, l := range lines {
		if lipgloss.Width(l) != 40 {
			t.Errorf("line %q has width %d, want 40", l, lipgloss.Width(l))
		}
		if !strings.HasPrefix(l, " ") {
			t.Errorf("outgoing line %q should be pushed to the right", l)
		}
	}
}

func TestRenderEntries_IncomingLeftWithoutTick(t *testing.T) {
	w := fixedWidget()
	w.AppendIncoming("Hello back")

	out := RenderEntries(w.Entries(), 40, BubbleOptions{})
	if strings.Contains(out, doubleTick) {
		t.Error("incoming bubbles carry no tick")
	}
	lines := plainLines(out)
	if !strings.HasPrefix(lines[0], " Hello back") {
		t.Errorf("first line = %q, want the bubble at the left edge", lines[0])
	}
	if !strings.HasSuffix(lines[0], " ") || lipgloss.Width(lines[0]) != 40 {
		t.Errorf("first line = %q, want it padded on the right to 40 cells", lines[0])
	}
}

func TestRenderEntries_EscapesControlSequences(t *testing.T) {
	w := fixedWidget()
	w.AppendIncoming("evil \x1b[2Jclear")

	out := RenderEntries(w.Entries(), 40, BubbleOptions{})
	if strings.Contains(out, "\x1b[2J") {
		t.Error("control sequences from the backend must not reach the terminal")
	}
	if !strings.Contains(ansi.Strip(out), "evil clear") {
		t.Errorf("visible text lost: %q", ansi.Strip(out))
	}
}

func TestRenderEntries_WrapsLongText(t *testing.T) {
	w := fixedWidget()
	w.AppendIncoming(strings.Repeat("word ", 30))

	out := RenderEntries(w.Entries(), 40, BubbleOptions{})
	lines := plainLines(out)
	if len(lines) < 3 {
		t.Errorf("long reply should wrap over several lines, got %d", len(lines))
	}
	for _, l := range lines {
		if lipgloss.Width(l) > 40 {
			t.Errorf("line %q exceeds the chat width", l)
		}
	}
}

func TestRenderEntries_ErrorBubble(t *testing.T) {
	w := fixedWidget()
	w.AppendIncoming(models.ErrorPrefix + "Request timed out")

	out := RenderEntries(w.Entries(), 40, BubbleOptions{Markdown: true})
	if !strings.Contains(ansi.Strip(out), "Error: Request timed out") {
		t.Errorf("error text should be shown verbatim, got %q", ansi.Strip(out))
	}
}

func TestRenderEntries_TypingDots(t *testing.T) {
	w := fixedWidget()
	w.AppendOutgoing("Hi")
	w.ShowTyping()

	out := RenderEntries(w.Entries(), 40, BubbleOptions{})
	blocks := strings.Split(out, "\n\n")
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if got := strings.Count(blocks[1], "●"); got != 3 {
		t.Errorf("typing indicator has %d dots, want 3", got)
	}
}

func TestTypingDots_StableLayout(t *testing.T) {
	for frame := 0; frame < 9; frame++ {
		dots := typingDots(frame)
		if got := lipgloss.Width(dots); got != 5 {
			t.Errorf("frame %d: width = %d, want 5", frame, got)
		}
		if got := strings.Count(dots, "●"); got != 3 {
			t.Errorf("frame %d: %d dots, want 3", frame, got)
		}
	}
}

func TestRenderEntries_Empty(t *testing.T) {
	if got := RenderEntries(nil, 40, BubbleOptions{}); got != "" {
		t.Errorf("RenderEntries(nil) = %q, want empty", got)
	}
}
