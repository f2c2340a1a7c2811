package source

import (
	"bytes"
	"testing"
)

func TestNormalizeCRLF(t *testing.T) {
	in := []byte("a\r\nb\rc\r\n")
	out, changed := normalizeCRLF(in)
	if !changed {
		t.Fatal("expected change")
	}
	if !bytes.Equal(out, []byte("a\nb\rc\n")) {
		t.Errorf("got %q", out)
	}

	out, changed = normalizeCRLF([]byte("plain"))
	if changed {
		t.Error("unexpected change")
	}
	if string(out) != "plain" {
		t.Errorf("got %q", out)
	}
}

func TestRemoveBOM(t *testing.T) {
	out, had := removeBOM([]byte{0xEF, 0xBB, 0xBF, 'x'})
	if !had || string(out) != "x" {
		t.Errorf("got %q had=%v", out, had)
	}
	out, had = removeBOM([]byte("xy"))
	if had || string(out) != "xy" {
		t.Errorf("got %q had=%v", out, had)
	}
}
