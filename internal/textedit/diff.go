// Package textedit reconciles two text snapshots of the same file: it
// localizes the changed region between them and maps byte offsets across it.
package textedit

import (
	"loupe/internal/source"
)

// Region is the minimal span known to differ between an old and a new text.
// Replacing Old in the old text with the new text's New slice reproduces the
// new text exactly.
type Region struct {
	Old source.Span
	New source.Span
}

// ChangedRegion scans a common prefix and a common suffix and returns the
// span left between them in both coordinate spaces. Returns ok=false when
// the texts are identical. The result is always a valid region satisfying
// the reconstruction property, not necessarily minimal in the edit-distance
// sense.
func ChangedRegion(oldText, newText []byte) (Region, bool) {
	if len(oldText) == len(newText) && string(oldText) == string(newText) {
		return Region{}, false
	}

	limit := min(len(oldText), len(newText))

	prefix := 0
	for prefix < limit && oldText[prefix] == newText[prefix] {
		prefix++
	}

	// Суффикс не должен наложиться на префикс.
	suffix := 0
	for suffix < limit-prefix &&
		oldText[len(oldText)-1-suffix] == newText[len(newText)-1-suffix] {
		suffix++
	}

	return Region{
		Old: source.Span{Start: uint32(prefix), End: uint32(len(oldText) - suffix)},
		New: source.Span{Start: uint32(prefix), End: uint32(len(newText) - suffix)},
	}, true
}
