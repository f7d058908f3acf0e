package render

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsBuiltinStyle(t *testing.T) {
	for _, name := range StyleNames() {
		if !IsBuiltinStyle(name) {
			t.Errorf("%s should be a builtin style", name)
		}
	}
	if IsBuiltinStyle("whatsapp") {
		t.Error("TUI theme names are not markdown styles")
	}
}

func TestStyleOption(t *testing.T) {
	if _, err := styleOption(StyleDark); err != nil {
		t.Errorf("builtin style failed: %v", err)
	}
	if _, err := styleOption("does-not-exist"); err == nil {
		t.Error("expected error for unknown style")
	}

	path := filepath.Join(t.TempDir(), "style.json")
	if err := os.WriteFile(path, []byte(`{"document":{}}`), 0o600); err != nil {
		t.Fatalf("write style: %v", err)
	}
	if _, err := styleOption(path); err != nil {
		t.Errorf("style file failed: %v", err)
	}
}

func TestTUIThemes(t *testing.T) {
	for _, theme := range AvailableTUIThemes() {
		t.Run(theme.Name, func(t *testing.T) {
			if theme.Description == "" {
				t.Error("theme has empty description")
			}
			for name, c := range map[string]string{
				"background":  string(theme.Background),
				"outgoing":    string(theme.Outgoing),
				"incoming":    string(theme.Incoming),
				"bubble text": string(theme.BubbleText),
				"tick":        string(theme.Tick),
				"typing dot":  string(theme.TypingDot),
				"text":        string(theme.Text),
			} {
				if c == "" {
					t.Errorf("%s color is empty", name)
				}
			}
			if theme.Tick != "#92a3ad" {
				t.Errorf("tick color = %s, want #92a3ad", theme.Tick)
			}
		})
	}
}

func TestSetTUITheme(t *testing.T) {
	defer SetTUITheme("whatsapp")

	if GetTUITheme().Name != "whatsapp" {
		t.Errorf("default theme = %s, want whatsapp", GetTUITheme().Name)
	}
	if !SetTUITheme("nord") {
		t.Fatal("SetTUITheme(nord) should succeed")
	}
	if GetTUITheme().Name != "nord" {
		t.Errorf("current theme = %s, want nord", GetTUITheme().Name)
	}
	if SetTUITheme("nope") {
		t.Error("unknown theme should be rejected")
	}
	if GetTUITheme().Name != "nord" {
		t.Error("failed SetTUITheme should keep the current theme")
	}
}

func TestTUIThemeNames(t *testing.T) {
	names := TUIThemeNames()
	if len(names) != len(AvailableTUIThemes()) {
		t.Fatalf("got %d names", len(names))
	}
	if names[0] != "whatsapp" {
		t.Errorf("first theme = %s, want whatsapp", names[0])
	}
}
