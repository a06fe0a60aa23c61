package tui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

var plain = lipgloss.NewStyle()

func TestWrapTextBreaksAtSpaces(t *testing.T) {
	got := wrapText("breathe in slowly", 10, plain)
	want := "breathe\nin slowly"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestWrapTextHardBreaksLongWords(t *testing.T) {
	got := wrapText("abcdefgh", 3, plain)
	want := "abc\ndef\ngh"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestWrapTextNoWidth(t *testing.T) {
	if got := wrapText("one two", 0, plain); got != "one two" {
		t.Fatalf("expected unwrapped text, got %q", got)
	}
}

func TestStyleRunesWidth(t *testing.T) {
	runes := styleRunes("a 界", plain)
	if len(runes) != 3 {
		t.Fatalf("expected 3 runes, got %d", len(runes))
	}
	if !runes[1].isSpace {
		t.Fatalf("expected second rune to be a space")
	}
	if runes[2].width != 2 {
		t.Fatalf("expected wide rune width 2, got %d", runes[2].width)
	}
}

func TestWrapTextWideRunes(t *testing.T) {
	got := wrapText("界界 界", 4, plain)
	want := "界界\n 界"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
