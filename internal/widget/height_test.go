package widget

import "testing"

func TestBrowserHeight(t *testing.T) {
	tests := []struct {
		viewport int
		want     int
	}{
		{1000, 850},
		{900, 850},
		{600, 588},
		{510, 500},
		{400, 500},
		{0, 500},
	}

	for _, tt := range tests {
		if got := BrowserHeight.FrameHeight(tt.viewport); got != tt.want {
			t.Errorf("BrowserHeight.FrameHeight(%d) = %d, want %d", tt.viewport, got, tt.want)
		}
	}
}

func TestTerminalHeight(t *testing.T) {
	tests := []struct {
		rows int
		want int
	}{
		{100, 60},
		{40, 39},
		{24, 23},
		{10, 16},
	}

	for _, tt := range tests {
		if got := TerminalHeight.FrameHeight(tt.rows); got != tt.want {
			t.Errorf("TerminalHeight.FrameHeight(%d) = %d, want %d", tt.rows, got, tt.want)
		}
	}
}
