package commands

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	apierrors "github.com/diogo/phonechat/internal/errors"
	"github.com/diogo/phonechat/internal/models"
)

func TestSend_PrintsBubbles(t *testing.T) {
	tests := []struct {
		name      string
		reply     *models.ChatReply
		wantReply string
	}{
		{
			name:      "reply text",
			reply:     &models.ChatReply{Reply: "Hello back"},
			wantReply: "Hello back",
		},
		{
			name:      "missing reply shows placeholder",
			reply:     &models.ChatReply{},
			wantReply: models.NoReplyPlaceholder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.client.ReplyVal = tt.reply

			if err := env.run("Hi there"); err != nil {
				t.Fatalf("Execute failed: %v", err)
			}

			if got := env.client.LastMessage(); got != "Hi there" {
				t.Errorf("sent %q, want %q", got, "Hi there")
			}
			out := env.stdout.String()
			if !strings.Contains(out, "Hi there") {
				t.Errorf("stdout missing outgoing bubble: %q", out)
			}
			if !strings.Contains(out, tt.wantReply) {
				t.Errorf("stdout missing incoming bubble %q: %q", tt.wantReply, out)
			}
			if strings.Index(out, "Hi there") > strings.Index(out, tt.wantReply) {
				t.Error("outgoing bubble should come before the reply")
			}
		})
	}
}

func TestSend_TrimsMessage(t *testing.T) {
	env := newTestEnv(t)
	if err := env.run("  padded  \n"); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got := env.client.LastMessage(); got != "padded" {
		t.Errorf("sent %q, want %q", got, "padded")
	}
}

func TestSend_EmptyMessage(t *testing.T) {
	env := newTestEnv(t)
	env.deps.Stdin = strings.NewReader("   \n")

	err := env.run()
	if err == nil || !strings.Contains(err.Error(), "message cannot be empty") {
		t.Fatalf("err = %v, want empty message error", err)
	}
	if env.client.Calls() != 0 {
		t.Error("empty input must not be posted")
	}
}

func TestSend_PipedStdin(t *testing.T) {
	env := newTestEnv(t)
	env.deps.Stdin = strings.NewReader("from pipe\n")

	if err := env.run("--raw"); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got := env.client.LastMessage(); got != "from pipe" {
		t.Errorf("sent %q, want %q", got, "from pipe")
	}
}

func TestSend_Raw(t *testing.T) {
	env := newTestEnv(t)

	if err := env.run("--raw", "Hi"); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got := env.stdout.String(); got != "Hello back" {
		t.Errorf("stdout = %q, want only the reply", got)
	}
	if env.stderr.Len() != 0 {
		t.Errorf("stderr = %q, want nothing in raw mode", env.stderr.String())
	}
}

func TestSend_RawOutputFile(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(t.TempDir(), "reply.txt")

	if err := env.run("--raw", "-o", path, "Hi"); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "Hello back" {
		t.Errorf("file = %q, want %q", data, "Hello back")
	}
	if env.stdout.Len() != 0 {
		t.Errorf("stdout = %q, want nothing", env.stdout.String())
	}
}

func TestSend_OutputFile(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(t.TempDir(), "reply.txt")

	if err := env.run("-o", path, "Hi"); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "Hello back" {
		t.Errorf("file = %q, want %q", data, "Hello back")
	}
	if !strings.Contains(env.stderr.String(), "Reply saved to") {
		t.Errorf("stderr = %q, want save confirmation", env.stderr.String())
	}
}

func TestSend_Clipboard(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("PHONECHAT_COPY_TO_CLIPBOARD", "true")

	if err := env.run("Hi"); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(env.clipboard) != 1 || env.clipboard[0] != "Hello back" {
		t.Errorf("clipboard = %v, want [Hello back]", env.clipboard)
	}
	if !strings.Contains(env.stderr.String(), "Copied to clipboard") {
		t.Errorf("stderr = %q, want copy confirmation", env.stderr.String())
	}
}

func TestSend_ClipboardFailureWarns(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("PHONECHAT_COPY_TO_CLIPBOARD", "true")
	env.deps.Clipboard = func(string) error { return errors.New("no display") }

	if err := env.run("Hi"); err != nil {
		t.Fatalf("clipboard failure should not fail the send: %v", err)
	}
	if !strings.Contains(env.stderr.String(), "Failed to copy to clipboard: no display") {
		t.Errorf("stderr = %q, want clipboard warning", env.stderr.String())
	}
}

func TestSend_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantBubble string
		wantStderr string
	}{
		{
			name:       "timeout",
			err:        apierrors.NewTimeoutError("http://127.0.0.1:8501/api/chat"),
			wantBubble: "Error: Request timed out",
			wantStderr: "did not answer in time",
		},
		{
			name:       "network",
			err:        apierrors.NewNetworkError("send", "http://127.0.0.1:8501/api/chat", errors.New("connection refused")),
			wantBubble: "Error: ",
			wantStderr: "Check that the backend is running",
		},
		{
			name:       "http status",
			err:        apierrors.NewAPIError(500, "http://127.0.0.1:8501/api/chat", "", "Internal Server Error"),
			wantBubble: "Error: ",
			wantStderr: "HTTP Status: 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.client.SendErr = tt.err

			err := env.run("Hi")
			if err == nil {
				t.Fatal("expected an error")
			}
			var reported *reportedError
			if !errors.As(err, &reported) {
				t.Errorf("err = %T, want *reportedError so it is not printed twice", err)
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("err = %v, want it to wrap %v", err, tt.err)
			}
			if !strings.Contains(env.stdout.String(), tt.wantBubble) {
				t.Errorf("stdout = %q, want bubble %q", env.stdout.String(), tt.wantBubble)
			}
			if !strings.Contains(env.stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want %q", env.stderr.String(), tt.wantStderr)
			}
		})
	}
}

func TestSend_RawErrorIsNotReported(t *testing.T) {
	env := newTestEnv(t)
	env.client.SendErr = apierrors.NewTimeoutError("http://127.0.0.1:8501/api/chat")

	err := env.run("--raw", "Hi")
	if err == nil {
		t.Fatal("expected an error")
	}
	var reported *reportedError
	if errors.As(err, &reported) {
		t.Error("raw mode prints nothing itself, so the error must reach Execute")
	}
	if env.stdout.Len() != 0 {
		t.Errorf("stdout = %q, want nothing", env.stdout.String())
	}
}

func TestSend_Verbose(t *testing.T) {
	env := newTestEnv(t)
	env.client.TimeoutVal = 20 * time.Second

	if err := env.run("--verbose", "Hi"); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	stderr := env.stderr.String()
	if !strings.Contains(stderr, "[verbose] Endpoint: http://127.0.0.1:8501/api/chat (timeout 20s)") {
		t.Errorf("stderr = %q, want endpoint line", stderr)
	}
	if !strings.Contains(stderr, "[verbose] Request took") {
		t.Errorf("stderr = %q, want duration line", stderr)
	}
}

func TestSend_ContextCancelled(t *testing.T) {
	env := newTestEnv(t)
	env.client.SendFunc = func(ctx context.Context, message string) (*models.ChatReply, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := NewRootCmd(env.deps)
	cmd.SetArgs([]string{"Hi"})
	err := cmd.ExecuteContext(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestTypingLine_StopIsIdempotent(t *testing.T) {
	var buf bytes.Buffer
	typing := startTypingLine(&buf, "typing…")
	time.Sleep(100 * time.Millisecond)
	typing.stop()
	typing.stop()

	out := buf.String()
	if !strings.HasPrefix(out, "\033[?25l") {
		t.Errorf("typing line should hide the cursor first, got %q", out)
	}
	if !strings.HasSuffix(out, "\r\033[K\033[?25h") {
		t.Errorf("typing line should clear the line and restore the cursor, got %q", out)
	}
}
