package lsp

import "testing"

func TestApplyChangesFullReplace(t *testing.T) {
	got := applyChanges([]byte("old"), []textDocumentContentChangeEvent{
		{Text: "brand new"},
	})
	if string(got) != "brand new" {
		t.Errorf("got %q", got)
	}
}

func TestApplyChangesRange(t *testing.T) {
	text := []byte("fun square(x: Int): Int {\n  return x * x\n}\n")
	// Вставка второго x в конец `x * x`.
	got := applyChanges(text, []textDocumentContentChangeEvent{
		{
			Range: &lspRange{
				Start: position{Line: 1, Character: 14},
				End:   position{Line: 1, Character: 14},
			},
			Text: "x",
		},
	})
	want := "fun square(x: Int): Int {\n  return x * xx\n}\n"
	if string(got) != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestApplyChangesSequential(t *testing.T) {
	text := []byte("ab\ncd\n")
	got := applyChanges(text, []textDocumentContentChangeEvent{
		{
			Range: &lspRange{Start: position{0, 1}, End: position{0, 2}},
			Text:  "X",
		},
		{
			Range: &lspRange{Start: position{1, 0}, End: position{1, 2}},
			Text:  "YZ",
		},
	})
	if string(got) != "aX\nYZ\n" {
		t.Errorf("got %q", got)
	}
}
