// Package widget holds the chat widget state independent of how it is drawn:
// the transcript of bubbles, the typing indicator and the send pipeline.
//
// A Widget is not safe for concurrent use. The TUI mutates it only from its
// update loop; network results come back as messages.
package widget

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	apierrors "github.com/diogo/phonechat/internal/errors"
	"github.com/diogo/phonechat/internal/models"
)

// TypingID identifies the typing indicator entry
const TypingID = "typing"

// Re-exported so callers do not need the errors package for the common checks
var (
	ErrEmptyInput      = apierrors.ErrEmptyInput
	ErrRequestInFlight = apierrors.ErrRequestInFlight
)

// State is the per-send state of the widget
type State int

const (
	StateIdle State = iota
	StateSending
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	default:
		return "unknown"
	}
}

// Entry is one node of the transcript: a bubble or the typing indicator
type Entry struct {
	ID      string
	Message models.Message
	Typing  bool
}

// Sender delivers a message to the backend
type Sender interface {
	Send(ctx context.Context, message string) (*models.ChatReply, error)
}

// Widget is one chat widget instance
type Widget struct {
	entries  []Entry
	nextID   int
	pending  int
	hardened bool
	now      func() time.Time
	logger   zerolog.Logger

	// revision increases on every transcript mutation
	revision uint64
}

// Option configures a Widget
type Option func(*Widget)

// WithHardened toggles the single in-flight guard
func WithHardened(enabled bool) Option {
	return func(w *Widget) {
		w.hardened = enabled
	}
}

// WithClock sets the time source for bubble timestamps
func WithClock(now func() time.Time) Option {
	return func(w *Widget) {
		w.now = now
	}
}

// WithLogger sets the logger failures are mirrored to
func WithLogger(logger zerolog.Logger) Option {
	return func(w *Widget) {
		w.logger = logger
	}
}

// New creates a widget. Hardened mode is on by default.
func New(opts ...Option) *Widget {
	w := &Widget{
		hardened: true,
		now:      time.Now,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Hardened reports whether the in-flight guard is enabled
func (w *Widget) Hardened() bool {
	return w.hardened
}

// State returns the current send state
func (w *Widget) State() State {
	if w.pending > 0 {
		return StateSending
	}
	return StateIdle
}

// Busy reports whether controls must be disabled: hardened mode with a send
// outstanding.
func (w *Widget) Busy() bool {
	return w.hardened && w.pending > 0
}

// Pending returns the number of outstanding sends
func (w *Widget) Pending() int {
	return w.pending
}

// AppendOutgoing adds a user bubble
func (w *Widget) AppendOutgoing(text string) models.Message {
	return w.appendMessage(text, models.Outgoing)
}

// AppendIncoming adds a backend bubble
func (w *Widget) AppendIncoming(text string) models.Message {
	return w.appendMessage(text, models.Incoming)
}

func (w *Widget) appendMessage(text string, dir models.Direction) models.Message {
	msg := models.Message{
		Text:      text,
		Direction: dir,
		Timestamp: w.now(),
	}
	w.nextID++
	w.entries = append(w.entries, Entry{
		ID:      "msg-" + strconv.Itoa(w.nextID),
		Message: msg,
	})
	w.changed()
	return msg
}

// ShowTyping replaces any existing typing indicator with a new one at the end
func (w *Widget) ShowTyping() {
	w.removeTyping()
	w.entries = append(w.entries, Entry{ID: TypingID, Typing: true})
	w.changed()
}

// RemoveTyping deletes the typing indicator. It reports whether one existed;
// calling it again is a no-op.
func (w *Widget) RemoveTyping() bool {
	if !w.removeTyping() {
		return false
	}
	w.changed()
	return true
}

func (w *Widget) removeTyping() bool {
	for i, e := range w.entries {
		if e.Typing {
			w.entries = append(w.entries[:i], w.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Typing reports whether the typing indicator is shown
func (w *Widget) Typing() bool {
	for _, e := range w.entries {
		if e.Typing {
			return true
		}
	}
	return false
}

// Entries returns a copy of the transcript including the typing indicator
func (w *Widget) Entries() []Entry {
	out := make([]Entry, len(w.entries))
	copy(out, w.entries)
	return out
}

// Messages returns the bubbles of the transcript, without the typing indicator
func (w *Widget) Messages() []models.Message {
	var out []models.Message
	for _, e := range w.entries {
		if !e.Typing {
			out = append(out, e.Message)
		}
	}
	return out
}

// LastIncoming returns the newest incoming bubble
func (w *Widget) LastIncoming() (models.Message, bool) {
	for i := len(w.entries) - 1; i >= 0; i-- {
		e := w.entries[i]
		if !e.Typing && e.Message.Direction == models.Incoming {
			return e.Message, true
		}
	}
	return models.Message{}, false
}

// Clear empties the transcript. The typing indicator of an outstanding send
// is kept so its reply still has a placeholder.
func (w *Widget) Clear() {
	typing := w.Typing()
	w.entries = nil
	if typing {
		w.entries = append(w.entries, Entry{ID: TypingID, Typing: true})
	}
	w.changed()
}

// Begin runs the synchronous half of a send: trim, guard, render the
// outgoing bubble, show the typing indicator. It returns the text to post.
// ErrEmptyInput and ErrRequestInFlight leave the widget untouched.
func (w *Widget) Begin(input string) (string, error) {
	text := strings.TrimSpace(input)
	if text == "" {
		return "", ErrEmptyInput
	}
	if w.Busy() {
		return "", ErrRequestInFlight
	}

	w.AppendOutgoing(text)
	w.pending++
	w.ShowTyping()
	return text, nil
}

// Finish runs the second half of a send with the backend outcome: remove the
// typing indicator, render the reply or the error, and release the send.
// It returns the incoming bubble it rendered.
func (w *Widget) Finish(reply *models.ChatReply, err error) models.Message {
	defer w.cleanup()

	// Another send is still waiting: keep the indicator below the new bubble.
	stillWaiting := w.pending > 1
	w.RemoveTyping()
	if stillWaiting {
		defer w.ShowTyping()
	}

	if err != nil {
		w.logger.Error().Err(err).
			Int("http_status", apierrors.GetHTTPStatus(err)).
			Str("endpoint", apierrors.GetEndpoint(err)).
			Msg("sendMessage error")
		return w.AppendIncoming(models.ErrorPrefix + apierrors.Message(err))
	}

	if reply == nil {
		reply = &models.ChatReply{}
	}
	return w.AppendIncoming(reply.Text())
}

func (w *Widget) cleanup() {
	if w.pending > 0 {
		w.pending--
	}
	if w.pending == 0 {
		w.RemoveTyping()
	}
	w.changed()
}

// Send runs the whole pipeline synchronously against sender
func (w *Widget) Send(ctx context.Context, sender Sender, input string) (models.Message, error) {
	text, err := w.Begin(input)
	if err != nil {
		return models.Message{}, err
	}
	reply, err := sender.Send(ctx, text)
	return w.Finish(reply, err), err
}

// Revision returns a counter that changes whenever the transcript does.
// Views compare it to know when to redraw and scroll to the bottom.
func (w *Widget) Revision() uint64 {
	return w.revision
}

func (w *Widget) changed() {
	w.revision++
}
