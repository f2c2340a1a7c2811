package analysis

import (
	"bytes"
	"fmt"

	"loupe/internal/diag"
	"loupe/internal/sem"
	"loupe/internal/source"
	"loupe/internal/syntax"
	"loupe/internal/textedit"
)

// Tracef is an informational logging sink. Nothing depends on its output.
type Tracef func(format string, args ...any)

func nopTrace(string, ...any) {}

// Analyzer answers point queries against one stale snapshot reconciled with
// the current live text. Every query is a pure function of
// (snapshot, live, cursor); the analyzer itself holds no mutable state, but
// the frontend's recompilation calls are not assumed concurrency-safe, so
// callers serialize queries per session (see Session).
type Analyzer struct {
	snap     *Snapshot
	frontend Frontend
	reporter diag.Reporter
	trace    Tracef
}

func NewAnalyzer(snap *Snapshot, fe Frontend, reporter diag.Reporter, trace Tracef) *Analyzer {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	if trace == nil {
		trace = nopTrace
	}
	return &Analyzer{snap: snap, frontend: fe, reporter: reporter, trace: trace}
}

// Reference is one resolved use site: the span of the referencing expression
// in live coordinates and the declaration it points to.
type Reference struct {
	Span   source.Span
	Symbol *sem.Symbol
}

// TypeAt reports the type of the expression at cursor in the live text. The
// located expression widens across selector chains first: a cursor on `c` in
// `a.b.c` reports the type of the whole chain. Returns NotFoundError when no
// node, scope, or inferred type exists at the cursor.
func (a *Analyzer) TypeAt(live []byte, cursor uint32) (sem.Type, error) {
	frag, err := a.reparseEnclosing(live, cursor)
	if err != nil {
		return sem.NoType, err
	}

	id := frag.tree.NodeAt(cursor)
	if !id.IsValid() {
		return sem.NoType, a.miss(diag.QueryReparseMiss, cursor, "no node at %d after reparse", cursor)
	}
	id = frag.tree.ExpandSelection(cursor, id)

	facts, err := a.checkFragment(frag)
	if err != nil {
		return sem.NoType, err
	}
	ty, ok := facts.TypeOf(frag.tree.Get(id).Span)
	if !ok {
		return sem.NoType, a.miss(diag.QueryNoType, cursor, "no type for expression at %d", cursor)
	}
	return ty, nil
}

// ReferenceAt resolves the reference under cursor to its declaration. It
// walks the stale ancestor chain from the innermost expression outward,
// stopping before the first declaration boundary, recompiling each candidate
// against the live text until one yields a reference fact containing cursor.
func (a *Analyzer) ReferenceAt(live []byte, cursor uint32) (Reference, error) {
	mapper, stale, err := a.locate(live, cursor)
	if err != nil {
		return Reference{}, err
	}
	scope := a.snap.Facts.ScopeAt(mapper.OldOffset(cursor))
	if !scope.IsValid() {
		return Reference{}, a.miss(diag.QueryNoScope, cursor, "no scope at %d", cursor)
	}

	for _, anc := range a.snap.Tree.Ancestors(stale) {
		node := a.snap.Tree.Get(anc)
		if !node.IsExpr() {
			continue
		}
		frag := a.extract(live, node.Span, scope)
		facts, err := a.checkFragment(frag)
		if err != nil {
			return Reference{}, err
		}
		ref, ok := facts.RefAt(cursor)
		if !ok {
			continue
		}
		sym := facts.Symbol(ref.Target)
		if sym == nil {
			continue
		}
		return Reference{Span: ref.Span, Symbol: sym}, nil
	}
	return Reference{}, a.miss(diag.QueryNoReference, cursor, "no reference at %d", cursor)
}

// ScopeAt returns the innermost recorded lexical scope containing cursor,
// in stale coordinates.
func (a *Analyzer) ScopeAt(live []byte, cursor uint32) (sem.ScopeID, error) {
	if uint32(len(live)) < cursor {
		return sem.NoScopeID, a.miss(diag.QueryOutOfBounds, cursor, "offset %d beyond text end %d", cursor, len(live))
	}
	mapper := textedit.NewMapper(a.snap.Content, live)
	id := a.snap.Facts.ScopeAt(mapper.OldOffset(cursor))
	if !id.IsValid() {
		return sem.NoScopeID, a.miss(diag.QueryNoScope, cursor, "no scope at %d", cursor)
	}
	return id, nil
}

// DescribePosition renders "path line:column" (1-based, columns in UTF-16
// code units) for an offset in the live text. Diagnostics only, never
// program logic.
func (a *Analyzer) DescribePosition(live []byte, offset uint32) string {
	pos := source.PositionFor(live, source.BuildLineIndex(live), offset)
	return fmt.Sprintf("%s %d:%d", a.snap.Path, pos.Line+1, pos.Character+1)
}

// LineBefore returns the live-text line prefix ending at cursor: everything
// after the last newline strictly before cursor.
func (a *Analyzer) LineBefore(live []byte, cursor uint32) string {
	if uint32(len(live)) < cursor {
		cursor = uint32(len(live))
	}
	start := bytes.LastIndexByte(live[:cursor], '\n') + 1
	return string(live[start:cursor])
}

// fragment is a minimal enclosing unit extracted from the live text and
// left-padded so node spans stay in absolute live coordinates.
type fragment struct {
	tree    *syntax.Tree
	content []byte
	scope   sem.ScopeID
}

// locate maps cursor into stale space and finds the innermost stale node.
func (a *Analyzer) locate(live []byte, cursor uint32) (textedit.Mapper, syntax.NodeID, error) {
	if uint32(len(live)) < cursor {
		return textedit.Mapper{}, syntax.NoNodeID, a.miss(diag.QueryOutOfBounds, cursor, "offset %d beyond text end %d", cursor, len(live))
	}
	mapper := textedit.NewMapper(a.snap.Content, live)
	stale := a.snap.Tree.NodeAt(mapper.OldOffset(cursor))
	if !stale.IsValid() {
		return mapper, syntax.NoNodeID, a.miss(diag.QueryNoNode, cursor, "no syntax node at %d", cursor)
	}
	return mapper, stale, nil
}

// reparseEnclosing re-parses the smallest enclosing declaration of cursor
// from the live text. The declaration's span is known only in stale
// coordinates; both ends re-anchor independently against the live length,
// matching the untouched prefix/suffix assumption of the position mapper.
func (a *Analyzer) reparseEnclosing(live []byte, cursor uint32) (fragment, error) {
	mapper, stale, err := a.locate(live, cursor)
	if err != nil {
		return fragment{}, err
	}
	scope := a.snap.Facts.ScopeAt(mapper.OldOffset(cursor))
	if !scope.IsValid() {
		return fragment{}, a.miss(diag.QueryNoScope, cursor, "no scope at %d", cursor)
	}

	edited := mapper.OldRegion()
	if !mapper.HasChange() {
		// Без правок регион пуст; якорим его на курсоре, иначе объемлющей
		// декларацией оказался бы корень и пере-разбор охватил бы весь файл.
		old := mapper.OldOffset(cursor)
		edited = source.Span{Start: old, End: old}
	}
	decl := a.snap.Tree.EnclosingDecl(stale, edited)
	region := a.snap.Tree.Get(decl).Span
	frag := a.extract(live, region, scope)
	if !frag.tree.NodeAt(cursor).IsValid() {
		return fragment{}, a.miss(diag.QueryReparseMiss, cursor, "cursor %d outside reparsed fragment %s", cursor, region)
	}
	return frag, nil
}

// extract slices the live analogue of a stale region and pads it back to its
// absolute position, then parses the padded fragment standalone.
func (a *Analyzer) extract(live []byte, region source.Span, scope sem.ScopeID) fragment {
	start := region.Start
	if uint32(len(live)) < start {
		start = uint32(len(live))
	}
	end := uint32(len(live)) - (uint32(len(a.snap.Content)) - region.End)
	if end > uint32(len(live)) {
		end = uint32(len(live))
	}
	if end < start {
		end = start
	}

	a.trace("re-parsing range [%d,%d) of %s", start, end, a.snap.Path)
	padded := make([]byte, 0, int(start)+int(end-start))
	padded = append(padded, bytes.Repeat([]byte{' '}, int(start))...)
	padded = append(padded, live[start:end]...)

	return fragment{
		tree:    a.frontend.Parse(padded),
		content: padded,
		scope:   scope,
	}
}

func (a *Analyzer) checkFragment(frag fragment) (*sem.Facts, error) {
	return a.frontend.CheckFragment(sem.Fragment{
		Tree:    frag.tree,
		Content: frag.content,
		Scope:   frag.scope,
		Base:    a.snap.Facts,
		Sources: a.snap.Sources,
	})
}

// miss logs a soft failure and returns it as a NotFoundError so tests can
// assert on the message without capturing log output.
func (a *Analyzer) miss(code diag.Code, cursor uint32, format string, args ...any) error {
	err := notFound(format, args...)
	diag.ReportInfo(a.reporter, code, source.Span{Start: cursor, End: cursor}, err.Error())
	a.trace("%s", err)
	return err
}
