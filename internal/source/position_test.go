package source

import (
	"testing"
)

func TestPositionForASCII(t *testing.T) {
	content := []byte("ab\ncd")
	lineIdx := BuildLineIndex(content)

	got := PositionFor(content, lineIdx, 4)
	if got != (Position{Line: 1, Character: 1}) {
		t.Errorf("got %+v", got)
	}
	got = PositionFor(content, lineIdx, 0)
	if got != (Position{Line: 0, Character: 0}) {
		t.Errorf("got %+v", got)
	}
}

func TestPositionForUTF16(t *testing.T) {
	// "𐍈" is one rune, four bytes, two UTF-16 code units.
	content := []byte("a𐍈b")
	lineIdx := BuildLineIndex(content)

	got := PositionFor(content, lineIdx, 5) // offset of 'b'
	if got != (Position{Line: 0, Character: 3}) {
		t.Errorf("got %+v, want character 3", got)
	}
}

func TestPositionForInsideRune(t *testing.T) {
	// Курсор внутри многобайтовой руны прижимается к её началу.
	content := []byte("fun f() {\n  val π = 1\n}\n")
	lineIdx := BuildLineIndex(content)

	runeStart := uint32(16) // 'π'
	for off := runeStart; off < runeStart+2; off++ {
		got := PositionFor(content, lineIdx, off)
		want := PositionFor(content, lineIdx, runeStart)
		if got != want {
			t.Errorf("offset %d: got %+v, want %+v", off, got, want)
		}
	}
}

func TestOffsetForRoundTrip(t *testing.T) {
	content := []byte("fun f() {\n  val π = 1\n}\n")
	lineIdx := BuildLineIndex(content)

	for off := uint32(0); off <= uint32(len(content)); off++ {
		pos := PositionFor(content, lineIdx, off)
		back := OffsetFor(content, lineIdx, pos)
		// Offsets inside a multi-byte rune clamp to the rune start.
		if back > off {
			t.Fatalf("offset %d mapped forward to %d via %+v", off, back, pos)
		}
	}
}

func TestOffsetForPastEnd(t *testing.T) {
	content := []byte("ab")
	lineIdx := BuildLineIndex(content)
	if got := OffsetFor(content, lineIdx, Position{Line: 5, Character: 0}); got != 2 {
		t.Errorf("got %d, want clamp to len", got)
	}
}
