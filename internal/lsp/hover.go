package lsp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"loupe/internal/analysis"
	"loupe/internal/sem"
)

func (s *Server) handleHover(msg *rpcMessage) error {
	var params hoverParams
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

	result, err := buildHover(s.ctx(), doc, cursor)
	if err != nil {
		return s.sendError(msg.ID, -32603, err.Error())
	}
	return s.sendResponse(msg.ID, result)
}

// buildHover combines the resolved declaration signature with the inferred
// expression type. Either half may be missing; both missing means no hover.
// Soft misses produce a nil hover, hard analysis faults propagate.
func buildHover(ctx context.Context, doc *document, cursor uint32) (*hover, error) {
	lines := make([]string, 0, 2)
	var hoverRange *lspRange

	ref, err := doc.session.ReferenceAt(ctx, cursor)
	if err == nil {
		lines = append(lines, "```\n"+formatSymbolSignature(ref.Symbol)+"\n```")
		r := rangeForSpan(doc.live, ref.Span)
		hoverRange = &r
	} else if !analysis.IsNotFound(err) {
		return nil, err
	}

	ty, err := doc.session.TypeAt(ctx, cursor)
	if err == nil && ty != sem.NoType {
		lines = append(lines, fmt.Sprintf("Type: `%s`", ty))
	} else if err != nil && !analysis.IsNotFound(err) {
		return nil, err
	}

	if len(lines) == 0 {
		return nil, nil
	}
	return &hover{
		Contents: markupContent{
			Kind:  "markdown",
			Value: strings.Join(lines, "\n"),
		},
		Range: hoverRange,
	}, nil
}

func formatSymbolSignature(sym *sem.Symbol) string {
	if sym == nil {
		return ""
	}
	out := sym.Kind.String() + " " + sym.Name
	if sym.Type != sem.NoType {
		switch sym.Kind {
		case sem.SymFunc:
			out += "(): " + string(sym.Type)
		case sem.SymRecord:
			// имя записи и есть её тип
		default:
			out += ": " + string(sym.Type)
		}
	}
	return out
}
