package source

import (
	"sort"
	"unicode/utf8"

	"fortio.org/safecast"
)

const maxUint32 = ^uint32(0)

func safeUint32(n int) uint32 {
	if n < 0 {
		return 0
	}
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		return maxUint32
	}
	return v
}

// PositionFor converts a byte offset into an editor-protocol position:
// 0-based line, 0-based UTF-16 code unit column.
func PositionFor(content []byte, lineIdx []uint32, offset uint32) Position {
	contentLen := safeUint32(len(content))
	if offset > contentLen {
		offset = contentLen
	}
	idx := sort.Search(len(lineIdx), func(i int) bool { return lineIdx[i] >= offset })
	line := idx
	var lineStart uint32
	if idx > 0 {
		lineStart = lineIdx[idx-1] + 1
	}
	if lineStart > offset {
		lineStart = offset
	}
	lineEnd := contentLen
	if line < len(lineIdx) {
		lineEnd = lineIdx[line]
	}
	units := 0
	for off := lineStart; off < offset; {
		// Декодируем по полной строке: окно до offset обрезало бы руну,
		// внутри которой стоит курсор.
		r, size := utf8.DecodeRune(content[off:lineEnd])
		if off+safeUint32(size) > offset {
			break
		}
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
		off += safeUint32(size)
	}
	return Position{Line: line, Character: units}
}

// OffsetFor converts an editor-protocol position back into a byte offset,
// clamping to content bounds.
func OffsetFor(content []byte, lineIdx []uint32, pos Position) uint32 {
	if pos.Line < 0 || pos.Character < 0 {
		return 0
	}
	if len(content) == 0 {
		return 0
	}
	lineCount := len(lineIdx) + 1
	contentLen := safeUint32(len(content))
	if pos.Line >= lineCount {
		return contentLen
	}
	var lineStart uint32
	if pos.Line > 0 {
		lineStart = lineIdx[pos.Line-1] + 1
	}
	lineEnd := contentLen
	if pos.Line < len(lineIdx) {
		lineEnd = lineIdx[pos.Line]
	}
	if lineStart > lineEnd {
		return lineEnd
	}
	units := 0
	off := lineStart
	for off < lineEnd {
		r, size := utf8.DecodeRune(content[off:lineEnd])
		if r == utf8.RuneError && size == 1 {
			size = 1
		}
		need := 1
		if r > 0xFFFF {
			need = 2
		}
		if units+need > pos.Character {
			break
		}
		units += need
		off += safeUint32(size)
		if units == pos.Character {
			break
		}
	}
	return off
}
