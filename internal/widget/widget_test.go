package widget

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	apierrors "github.com/diogo/phonechat/internal/errors"
	"github.com/diogo/phonechat/internal/models"
)

// fakeSender returns canned values and records what it was asked to send
type fakeSender struct {
	reply    *models.ChatReply
	err      error
	messages []string
}

func (f *fakeSender) Send(ctx context.Context, message string) (*models.ChatReply, error) {
	f.messages = append(f.messages, message)
	return f.reply, f.err
}

func fixedClock() time.Time {
	return time.Date(2025, 3, 14, 9, 5, 0, 0, time.UTC)
}

func countTyping(entries []Entry) int {
	n := 0
	for _, e := range entries {
		if e.Typing {
			n++
		}
	}
	return n
}

func TestNew_Defaults(t *testing.T) {
	w := New()

	if !w.Hardened() {
		t.Error("hardened mode should be on by default")
	}
	if w.State() != StateIdle {
		t.Errorf("State() = %s, want idle", w.State())
	}
	if w.Busy() {
		t.Error("new widget should not be busy")
	}
	if len(w.Entries()) != 0 {
		t.Errorf("new widget should be empty, got %d entries", len(w.Entries()))
	}
}

func TestBegin_RendersOutgoingBeforeNetwork(t *testing.T) {
	w := New(WithClock(fixedClock))

	text, err := w.Begin("  hi there \n")
	if err != nil {
		t.Fatalf("Begin() returned error: %v", err)
	}
	if text != "hi there" {
		t.Errorf("Begin() text = %q, want trimmed", text)
	}

	entries := w.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected outgoing bubble and typing indicator, got %d entries", len(entries))
	}
	if !entries[0].Message.IsOutgoing() || entries[0].Message.Text != "hi there" {
		t.Errorf("first entry = %+v", entries[0])
	}
	if entries[0].Message.Time() != "09:05" {
		t.Errorf("timestamp = %q, want 09:05", entries[0].Message.Time())
	}
	if !entries[1].Typing || entries[1].ID != TypingID {
		t.Errorf("second entry should be the typing indicator, got %+v", entries[1])
	}
	if w.State() != StateSending {
		t.Errorf("State() = %s, want sending", w.State())
	}
	if !w.Busy() {
		t.Error("hardened widget should be busy while sending")
	}
}

func TestBegin_EmptyInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"spaces", "   "},
		{"newlines and tabs", "\n\t \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New()
			rev := w.Revision()

			_, err := w.Begin(tt.input)
			if !errors.Is(err, ErrEmptyInput) {
				t.Errorf("Begin(%q) error = %v, want ErrEmptyInput", tt.input, err)
			}
			if len(w.Entries()) != 0 {
				t.Error("no bubble should be rendered for blank input")
			}
			if w.Revision() != rev {
				t.Error("blank input should not change the transcript")
			}
		})
	}
}

func TestBegin_InFlightGuard(t *testing.T) {
	w := New()

	if _, err := w.Begin("first"); err != nil {
		t.Fatalf("Begin() returned error: %v", err)
	}
	_, err := w.Begin("second")
	if !errors.Is(err, ErrRequestInFlight) {
		t.Fatalf("second Begin() error = %v, want ErrRequestInFlight", err)
	}
	if msgs := w.Messages(); len(msgs) != 1 {
		t.Errorf("rejected send should not render a bubble, got %d messages", len(msgs))
	}

	w.Finish(&models.ChatReply{Reply: "ok"}, nil)

	if w.Busy() {
		t.Error("widget should be idle after Finish")
	}
	if _, err := w.Begin("third"); err != nil {
		t.Errorf("Begin() after Finish returned error: %v", err)
	}
}

func TestBegin_MinimalModeAllowsOverlap(t *testing.T) {
	w := New(WithHardened(false))

	if _, err := w.Begin("one"); err != nil {
		t.Fatalf("Begin() returned error: %v", err)
	}
	if w.Busy() {
		t.Error("minimal mode never disables controls")
	}
	if _, err := w.Begin("two"); err != nil {
		t.Fatalf("overlapping Begin() returned error: %v", err)
	}
	if w.Pending() != 2 {
		t.Errorf("Pending() = %d, want 2", w.Pending())
	}
	if n := countTyping(w.Entries()); n != 1 {
		t.Errorf("expected a single typing indicator, got %d", n)
	}

	w.Finish(&models.ChatReply{Reply: "reply one"}, nil)
	if w.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", w.Pending())
	}
	if !w.Typing() {
		t.Error("typing indicator should stay while a send is still pending")
	}
	entries := w.Entries()
	if last := entries[len(entries)-1]; !last.Typing {
		t.Errorf("typing indicator should sit below the first reply, last entry = %+v", last)
	}

	w.Finish(&models.ChatReply{Reply: "reply two"}, nil)
	if w.State() != StateIdle {
		t.Errorf("State() = %s, want idle", w.State())
	}
	if n := countTyping(w.Entries()); n != 0 {
		t.Errorf("typing indicator should be gone, got %d", n)
	}
	if msgs := w.Messages(); len(msgs) != 4 {
		t.Errorf("expected 4 bubbles, got %d", len(msgs))
	}
}

func TestFinish_Outcomes(t *testing.T) {
	tests := []struct {
		name  string
		reply *models.ChatReply
		err   error
		want  string
	}{
		{
			name:  "reply",
			reply: &models.ChatReply{Reply: "Hello"},
			want:  "Hello",
		},
		{
			name:  "missing reply",
			reply: &models.ChatReply{},
			want:  "(no reply)",
		},
		{
			name: "nil reply",
			want: "(no reply)",
		},
		{
			name: "server error body",
			err:  apierrors.NewAPIError(400, "http://x/api/chat", "bad request", "Bad Request"),
			want: "Error: bad request",
		},
		{
			name: "timeout",
			err:  apierrors.NewTimeoutError("http://x/api/chat"),
			want: "Error: Request timed out",
		},
		{
			name: "network failure",
			err:  apierrors.NewNetworkError("send message", "http://x/api/chat", errors.New("connection refused")),
			want: "Error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New()
			if _, err := w.Begin("hi"); err != nil {
				t.Fatalf("Begin() returned error: %v", err)
			}

			msg := w.Finish(tt.reply, tt.err)

			if msg.Text != tt.want {
				t.Errorf("Finish() bubble = %q, want %q", msg.Text, tt.want)
			}
			if msg.IsOutgoing() {
				t.Error("reply bubble should be incoming")
			}
			if w.Typing() {
				t.Error("typing indicator should be removed")
			}
			if w.Busy() {
				t.Error("controls should be re-enabled")
			}

			msgs := w.Messages()
			if len(msgs) != 2 || msgs[1].Text != tt.want {
				t.Errorf("transcript = %+v", msgs)
			}
		})
	}
}

func TestFinish_LogsFailures(t *testing.T) {
	var buf bytes.Buffer
	w := New(WithLogger(zerolog.New(&buf)))

	_, _ = w.Begin("hi")
	w.Finish(nil, apierrors.NewAPIError(500, "http://x/api/chat", "boom", "Internal Server Error"))

	out := buf.String()
	if !strings.Contains(out, "sendMessage error") {
		t.Errorf("log should mention the failure, got %s", out)
	}
	if !strings.Contains(out, `"http_status":500`) {
		t.Errorf("log should carry the status, got %s", out)
	}
}

func TestRemoveTyping_Idempotent(t *testing.T) {
	w := New()
	w.ShowTyping()

	if !w.RemoveTyping() {
		t.Error("first RemoveTyping() should report removal")
	}
	rev := w.Revision()
	if w.RemoveTyping() {
		t.Error("second RemoveTyping() should be a no-op")
	}
	if w.Revision() != rev {
		t.Error("no-op removal should not bump the revision")
	}
}

func TestShowTyping_ReplacesExisting(t *testing.T) {
	w := New()
	w.ShowTyping()
	w.AppendIncoming("between")
	w.ShowTyping()

	entries := w.Entries()
	if n := countTyping(entries); n != 1 {
		t.Fatalf("expected one typing indicator, got %d", n)
	}
	if !entries[len(entries)-1].Typing {
		t.Error("typing indicator should be the last entry")
	}
}

func TestSend_Pipeline(t *testing.T) {
	sender := &fakeSender{reply: &models.ChatReply{Reply: "Hello"}}
	w := New()

	msg, err := w.Send(context.Background(), sender, "  hi  ")
	if err != nil {
		t.Fatalf("Send() returned error: %v", err)
	}
	if msg.Text != "Hello" {
		t.Errorf("reply bubble = %q", msg.Text)
	}
	if len(sender.messages) != 1 || sender.messages[0] != "hi" {
		t.Errorf("sender got %v, want trimmed message", sender.messages)
	}
}

func TestSend_BlankInputSkipsNetwork(t *testing.T) {
	sender := &fakeSender{}
	w := New()

	_, err := w.Send(context.Background(), sender, "   ")
	if !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Send() error = %v, want ErrEmptyInput", err)
	}
	if len(sender.messages) != 0 {
		t.Error("blank input should not reach the sender")
	}
}

func TestSend_FailureStillRendersBubble(t *testing.T) {
	sender := &fakeSender{err: apierrors.NewTimeoutError("http://x/api/chat")}
	w := New()

	msg, err := w.Send(context.Background(), sender, "hi")
	if !apierrors.IsTimeoutError(err) {
		t.Errorf("Send() error = %v, want timeout", err)
	}
	if msg.Text != "Error: Request timed out" {
		t.Errorf("bubble = %q", msg.Text)
	}
}

func TestClear(t *testing.T) {
	w := New()
	w.AppendOutgoing("a")
	w.AppendIncoming("b")

	w.Clear()
	if len(w.Entries()) != 0 {
		t.Errorf("Clear() left %d entries", len(w.Entries()))
	}

	_, _ = w.Begin("c")
	w.Clear()
	if !w.Typing() {
		t.Error("Clear() should keep the typing indicator of an outstanding send")
	}
	if len(w.Messages()) != 0 {
		t.Error("Clear() should drop all bubbles")
	}
}

func TestLastIncoming(t *testing.T) {
	w := New()
	if _, ok := w.LastIncoming(); ok {
		t.Error("empty widget has no incoming bubble")
	}

	w.AppendIncoming("first")
	w.AppendOutgoing("question")
	w.AppendIncoming("second")
	w.AppendOutgoing("another")

	msg, ok := w.LastIncoming()
	if !ok || msg.Text != "second" {
		t.Errorf("LastIncoming() = %q, %v", msg.Text, ok)
	}
}

func TestEntries_UniqueIDs(t *testing.T) {
	w := New()
	w.AppendOutgoing("a")
	w.AppendIncoming("b")
	w.AppendOutgoing("c")

	seen := map[string]bool{}
	for _, e := range w.Entries() {
		if seen[e.ID] {
			t.Errorf("duplicate entry ID %s", e.ID)
		}
		seen[e.ID] = true
	}
}

func TestRevision_ChangesOnMutation(t *testing.T) {
	w := New()
	rev := w.Revision()

	w.AppendOutgoing("a")
	if w.Revision() == rev {
		t.Error("append should bump the revision")
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "idle"},
		{StateSending, "sending"},
		{State(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
