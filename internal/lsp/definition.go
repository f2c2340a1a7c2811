package lsp

import (
	"encoding/json"

	"loupe/internal/analysis"
)

func (s *Server) handleDefinition(msg *rpcMessage) error {
	var params definitionParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, -32602, "invalid params")
		}
	}
	doc := s.document(params.TextDocument.URI)
	if doc == nil {
		return s.sendResponse(msg.ID, nil)
	}
	cursor := offsetForPosition(doc.live, params.Position)

	ref, err := doc.session.ReferenceAt(s.ctx(), cursor)
	if analysis.IsNotFound(err) {
		return s.sendResponse(msg.ID, nil)
	}
	if err != nil {
		return s.sendError(msg.ID, -32603, err.Error())
	}

	loc := s.declarationLocation(doc, ref)
	if loc == nil {
		return s.sendResponse(msg.ID, nil)
	}
	return s.sendResponse(msg.ID, loc)
}

// declarationLocation maps a resolved symbol back to a file location. An
// empty symbol path means the declaration lives in the queried document;
// otherwise it is a companion file from the analysis source set.
func (s *Server) declarationLocation(doc *document, ref analysis.Reference) *location {
	if ref.Symbol == nil {
		return nil
	}
	if ref.Symbol.Path == "" {
		return &location{
			URI:   pathToURI(doc.path),
			Range: rangeForSpan(doc.live, ref.Symbol.Span),
		}
	}

	snap, err := doc.session.Snapshot(s.ctx())
	if err != nil || snap == nil || snap.Sources == nil {
		return nil
	}
	companion, ok := snap.Sources.Lookup(ref.Symbol.Path)
	if !ok {
		return nil
	}
	return &location{
		URI:   pathToURI(companion.Path),
		Range: rangeForSpan(companion.Content, ref.Symbol.Span),
	}
}
