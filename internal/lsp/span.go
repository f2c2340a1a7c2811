package lsp

import (
	"loupe/internal/source"
)

func offsetForPosition(content []byte, pos position) uint32 {
	return source.OffsetFor(content, source.BuildLineIndex(content), source.Position{
		Line:      pos.Line,
		Character: pos.Character,
	})
}

func rangeForSpan(content []byte, span source.Span) lspRange {
	lineIdx := source.BuildLineIndex(content)
	start := source.PositionFor(content, lineIdx, span.Start)
	end := source.PositionFor(content, lineIdx, span.End)
	return lspRange{
		Start: position{Line: start.Line, Character: start.Character},
		End:   position{Line: end.Line, Character: end.Character},
	}
}
