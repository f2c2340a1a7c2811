package textedit

import (
	"strings"
	"testing"
)

func TestMapperIdentity(t *testing.T) {
	text := []byte("fun f() { return 1 }")
	m := NewMapper(text, text)
	if m.HasChange() {
		t.Fatal("identical texts must not report a change")
	}
	for cursor := uint32(0); cursor <= uint32(len(text)); cursor++ {
		if got := m.OldOffset(cursor); got != cursor {
			t.Fatalf("OldOffset(%d) = %d, want identity", cursor, got)
		}
	}
}

func TestMapperBoundaries(t *testing.T) {
	// 20-char file, one char inserted at position 10.
	oldText := []byte("0123456789abcdefghij")
	newText := []byte("0123456789Zabcdefghij")
	m := NewMapper(oldText, newText)

	if got := m.OldOffset(5); got != 5 {
		t.Errorf("prefix: OldOffset(5) = %d, want 5", got)
	}
	if got := m.OldOffset(10); got != 10 {
		t.Errorf("region start: OldOffset(10) = %d, want 10", got)
	}
	if got := m.OldOffset(15); got != 14 {
		t.Errorf("suffix: OldOffset(15) = %d, want 14", got)
	}
	if got := m.OldOffset(21); got != 20 {
		t.Errorf("end of text: OldOffset(21) = %d, want 20", got)
	}
}

func TestMapperDeletion(t *testing.T) {
	oldText := []byte("return x * xx\n")
	newText := []byte("return x * x\n")
	m := NewMapper(oldText, newText)

	// Offsets before the deletion are untouched.
	if got := m.OldOffset(7); got != 7 {
		t.Errorf("OldOffset(7) = %d, want 7", got)
	}
	// A cursor sitting exactly on the (empty) region start keeps its offset:
	// the prefix rule wins over the suffix rule.
	nl := uint32(strings.IndexByte(string(newText), '\n'))
	if got := m.OldOffset(nl); got != nl {
		t.Errorf("OldOffset(%d) = %d, want %d", nl, got, nl)
	}
	// One past it is anchored from the end.
	if got := m.OldOffset(nl + 1); got != nl+2 {
		t.Errorf("OldOffset(%d) = %d, want %d", nl+1, got, nl+2)
	}
}

func TestMapperInterpolationStaysInRegion(t *testing.T) {
	oldText := []byte("prefix OLD suffix")
	newText := []byte("prefix REPLACEMENT suffix")
	m := NewMapper(oldText, newText)
	region := m.Region()

	for cursor := region.New.Start + 1; cursor < region.New.End; cursor++ {
		got := m.OldOffset(cursor)
		if got < region.Old.Start || got > region.Old.End {
			t.Fatalf("OldOffset(%d) = %d escapes old region %v", cursor, got, region.Old)
		}
	}
}

func TestMapperNewOffsetInverseOutsideRegion(t *testing.T) {
	oldText := []byte("aa BBBB cc")
	newText := []byte("aa XX cc")
	m := NewMapper(oldText, newText)
	region := m.Region()

	for stale := uint32(0); stale <= uint32(len(oldText)); stale++ {
		if stale > region.Old.Start && stale < region.Old.End {
			continue
		}
		live := m.NewOffset(stale)
		if got := m.OldOffset(live); got != stale {
			t.Fatalf("round trip failed for stale %d: live=%d back=%d", stale, live, got)
		}
	}
}
