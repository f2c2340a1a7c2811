package lsp

import "loupe/internal/source"

func applyChanges(text []byte, changes []textDocumentContentChangeEvent) []byte {
	for _, change := range changes {
		if change.Range == nil {
			text = []byte(change.Text)
			continue
		}
		lineIdx := source.BuildLineIndex(text)
		start := int(source.OffsetFor(text, lineIdx, source.Position{
			Line:      change.Range.Start.Line,
			Character: change.Range.Start.Character,
		}))
		end := int(source.OffsetFor(text, lineIdx, source.Position{
			Line:      change.Range.End.Line,
			Character: change.Range.End.Character,
		}))
		if end < start {
			end = start
		}
		next := make([]byte, 0, len(text)-(end-start)+len(change.Text))
		next = append(next, text[:start]...)
		next = append(next, change.Text...)
		next = append(next, text[end:]...)
		text = next
	}
	return text
}
