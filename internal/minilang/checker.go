package minilang

import (
	"fmt"

	"loupe/internal/diag"
	"loupe/internal/sem"
	"loupe/internal/source"
)

const (
	typeInt    sem.Type = "Int"
	typeString sem.Type = "String"
	typeBool   sem.Type = "Bool"
)

func builtinType(name string) bool {
	switch sem.Type(name) {
	case typeInt, typeString, typeBool:
		return true
	}
	return false
}

// checker records semantic facts for one file or one fragment. When base is
// set (fragment mode), names that stay unresolved locally fall back to the
// stale analysis' scope chain; symbols found there are copied into the fresh
// fact table so every recorded reference resolves within it.
type checker struct {
	facts     *sem.Facts
	reporter  diag.Reporter
	base      *sem.Facts
	baseScope sem.ScopeID
	records   map[string]sem.SymbolID
	imported  map[sem.SymbolID]sem.SymbolID
}

func newChecker(reporter diag.Reporter) *checker {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	return &checker{
		facts:    sem.NewFacts(),
		reporter: reporter,
		records:  make(map[string]sem.SymbolID),
		imported: make(map[sem.SymbolID]sem.SymbolID),
	}
}

// checkFile runs the full analysis over one file plus its companions.
func checkFile(file *File, content []byte, sources *source.FileSet, reporter diag.Reporter) *sem.Facts {
	c := newChecker(reporter)
	fileScope := c.facts.AddScope(source.Span{Start: 0, End: uint32(len(content))}, sem.NoScopeID)

	if sources != nil {
		for _, path := range sources.Paths() {
			companion, ok := sources.Lookup(path)
			if !ok {
				continue
			}
			companionFile := parseFile(companion.Content, diag.NopReporter{})
			c.hoist(companionFile, fileScope, companion.Path)
		}
	}

	c.hoist(file, fileScope, "")
	c.checkItems(file.Items, fileScope)
	return c.facts
}

// checkFragment type-checks a freshly parsed fragment against a stale scope.
func checkFragment(frag sem.Fragment, reporter diag.Reporter) (*sem.Facts, error) {
	file := parseFile(frag.Content, diag.NopReporter{})
	c := newChecker(reporter)
	c.base = frag.Base
	c.baseScope = frag.Scope

	rootScope := c.facts.AddScope(source.Span{Start: 0, End: uint32(len(frag.Content))}, sem.NoScopeID)
	c.hoist(file, rootScope, "")
	c.checkItems(file.Items, rootScope)
	return c.facts, nil
}

// hoist binds file-level declarations into scope before bodies are checked:
// records first (so signatures can name them), then functions.
func (c *checker) hoist(file *File, scope sem.ScopeID, path string) {
	for _, item := range file.Items {
		rec, ok := item.(*RecordDecl)
		if !ok || rec.Name.Name == "" {
			continue
		}
		sym := c.facts.AddSymbol(sem.Symbol{
			Name: rec.Name.Name,
			Kind: sem.SymRecord,
			Span: rec.Name.Span,
			Path: path,
			Type: sem.Type(rec.Name.Name),
		})
		c.facts.Bind(scope, rec.Name.Name, sym)
		c.records[rec.Name.Name] = sym
		members := c.facts.AddMemberScope(rec.BodySpan, scope)
		c.facts.BindMembers(sem.Type(rec.Name.Name), members)
	}
	// Поля после того, как все записи известны.
	for _, item := range file.Items {
		rec, ok := item.(*RecordDecl)
		if !ok || rec.Name.Name == "" {
			continue
		}
		members, _ := c.facts.Members(sem.Type(rec.Name.Name))
		for i := range rec.Fields {
			field := &rec.Fields[i]
			if field.Name.Name == "" {
				continue
			}
			fsym := c.facts.AddSymbol(sem.Symbol{
				Name: field.Name.Name,
				Kind: sem.SymField,
				Span: field.Name.Span,
				Path: path,
				Type: c.resolveTypeRef(field.Type, path == ""),
			})
			c.facts.Bind(members, field.Name.Name, fsym)
		}
	}
	for _, item := range file.Items {
		fn, ok := item.(*FunDecl)
		if !ok || fn.Name.Name == "" {
			continue
		}
		sym := c.facts.AddSymbol(sem.Symbol{
			Name: fn.Name.Name,
			Kind: sem.SymFunc,
			Span: fn.Name.Span,
			Path: path,
			Type: c.resolveTypeRef(fn.Ret, path == ""),
		})
		c.facts.Bind(scope, fn.Name.Name, sym)
	}
}

func (c *checker) checkItems(items []Item, scope sem.ScopeID) {
	for _, item := range items {
		switch it := item.(type) {
		case *FunDecl:
			c.checkFun(it, scope)
		case *ValDecl:
			c.checkVal(it, scope)
		case *ExprStmt:
			c.checkExpr(it.Expr, scope)
		case *RecordDecl:
			// всё сделано в hoist
		}
	}
}

func (c *checker) checkFun(decl *FunDecl, parent sem.ScopeID) {
	paramScope := c.facts.AddScope(decl.Span, parent)
	for i := range decl.Params {
		p := &decl.Params[i]
		if p.Name.Name == "" {
			continue
		}
		sym := c.facts.AddSymbol(sem.Symbol{
			Name: p.Name.Name,
			Kind: sem.SymParam,
			Span: p.Name.Span,
			Type: c.resolveTypeRef(p.Type, true),
		})
		c.facts.Bind(paramScope, p.Name.Name, sym)
	}
	if decl.Body == nil {
		return
	}
	blockScope := c.facts.AddScope(decl.Body.Span, paramScope)
	for _, stmt := range decl.Body.Stmts {
		c.checkStmt(stmt, blockScope)
	}
}

func (c *checker) checkStmt(stmt Stmt, scope sem.ScopeID) {
	switch st := stmt.(type) {
	case *ReturnStmt:
		if st.Expr != nil {
			c.checkExpr(st.Expr, scope)
		}
	case *ValDecl:
		c.checkVal(st, scope)
	case *ExprStmt:
		c.checkExpr(st.Expr, scope)
	}
}

func (c *checker) checkVal(decl *ValDecl, scope sem.ScopeID) {
	var ty sem.Type
	if decl.Init != nil {
		ty = c.checkExpr(decl.Init, scope)
	}
	if decl.Type.Name != "" {
		ty = c.resolveTypeRef(decl.Type, true)
	}
	if decl.Name.Name == "" {
		return
	}
	sym := c.facts.AddSymbol(sem.Symbol{
		Name: decl.Name.Name,
		Kind: sem.SymVar,
		Span: decl.Name.Span,
		Type: ty,
	})
	c.facts.Bind(scope, decl.Name.Name, sym)
}

func (c *checker) checkExpr(expr Expr, scope sem.ScopeID) sem.Type {
	switch e := expr.(type) {
	case *IntLit:
		c.facts.RecordType(e.Span, typeInt)
		return typeInt
	case *StringLit:
		c.facts.RecordType(e.Span, typeString)
		return typeString
	case *BoolLit:
		c.facts.RecordType(e.Span, typeBool)
		return typeBool
	case *IdentExpr:
		return c.checkIdent(e, scope)
	case *BinaryExpr:
		return c.checkBinary(e, scope)
	case *CallExpr:
		return c.checkCall(e, scope)
	case *SelectorExpr:
		return c.checkSelector(e, scope)
	case *ParenExpr:
		ty := c.checkExpr(e.Inner, scope)
		c.facts.RecordType(e.Span, ty)
		return ty
	case *BadExpr:
		return sem.NoType
	}
	return sem.NoType
}

func (c *checker) checkIdent(e *IdentExpr, scope sem.ScopeID) sem.Type {
	id, ok := c.lookup(scope, e.Name)
	if !ok {
		diag.ReportInfo(c.reporter, diag.SemUnresolvedName, e.Span,
			fmt.Sprintf("unresolved name %q", e.Name))
		return sem.NoType
	}
	c.facts.RecordRef(e.Span, id)
	sym := c.facts.Symbol(id)
	if sym == nil || sym.Kind == sem.SymFunc || sym.Kind == sem.SymRecord {
		// Функции и типы не являются значениями.
		return sem.NoType
	}
	c.facts.RecordType(e.Span, sym.Type)
	return sym.Type
}

func (c *checker) checkBinary(e *BinaryExpr, scope sem.ScopeID) sem.Type {
	lt := c.checkExpr(e.L, scope)
	rt := c.checkExpr(e.R, scope)

	if e.Op.Arithmetic() {
		if lt == typeInt && rt == typeInt {
			c.facts.RecordType(e.Span, typeInt)
			return typeInt
		}
		if lt != sem.NoType && rt != sem.NoType {
			diag.ReportWarning(c.reporter, diag.SemOperandMismatch, e.Span,
				fmt.Sprintf("operands %s and %s do not support arithmetic", lt, rt))
		}
		return sem.NoType
	}

	if lt != sem.NoType && rt != sem.NoType {
		c.facts.RecordType(e.Span, typeBool)
		return typeBool
	}
	return sem.NoType
}

func (c *checker) checkCall(e *CallExpr, scope sem.ScopeID) sem.Type {
	for _, arg := range e.Args {
		c.checkExpr(arg, scope)
	}

	callee, ok := e.Callee.(*IdentExpr)
	if !ok {
		c.checkExpr(e.Callee, scope)
		return sem.NoType
	}
	id, found := c.lookup(scope, callee.Name)
	if !found {
		diag.ReportInfo(c.reporter, diag.SemUnresolvedName, callee.Span,
			fmt.Sprintf("unresolved name %q", callee.Name))
		return sem.NoType
	}
	c.facts.RecordRef(callee.Span, id)
	sym := c.facts.Symbol(id)
	if sym == nil || sym.Kind != sem.SymFunc {
		return sem.NoType
	}
	c.facts.RecordType(e.Span, sym.Type)
	return sym.Type
}

func (c *checker) checkSelector(e *SelectorExpr, scope sem.ScopeID) sem.Type {
	targetType := c.checkExpr(e.Target, scope)
	if targetType == sem.NoType || e.Field.Name == "" {
		return sem.NoType
	}

	owner, members, ok := c.memberScope(targetType)
	if !ok {
		return sem.NoType
	}
	fid, ok := owner.Binding(members, e.Field.Name)
	if !ok {
		diag.ReportInfo(c.reporter, diag.SemUnknownField, e.Field.Span,
			fmt.Sprintf("type %s has no field %q", targetType, e.Field.Name))
		return sem.NoType
	}
	if owner == c.base {
		fid = c.importSymbol(fid)
	}
	sym := c.facts.Symbol(fid)
	if sym == nil {
		return sem.NoType
	}

	c.facts.RecordRef(e.Field.Span, fid)
	c.facts.RecordType(e.Field.Span, sym.Type)
	// Вся цепочка получает тип выбранного поля.
	c.facts.RecordRef(e.Span, fid)
	c.facts.RecordType(e.Span, sym.Type)
	return sym.Type
}

// lookup resolves через локальную цепочку, затем через stale-цепочку.
func (c *checker) lookup(scope sem.ScopeID, name string) (sem.SymbolID, bool) {
	if id, ok := c.facts.Lookup(scope, name); ok {
		return id, true
	}
	if c.base != nil {
		if bid, ok := c.base.Lookup(c.baseScope, name); ok {
			return c.importSymbol(bid), true
		}
	}
	return sem.NoSymbolID, false
}

func (c *checker) memberScope(ty sem.Type) (*sem.Facts, sem.ScopeID, bool) {
	if id, ok := c.facts.Members(ty); ok {
		return c.facts, id, true
	}
	if c.base != nil {
		if id, ok := c.base.Members(ty); ok {
			return c.base, id, true
		}
	}
	return nil, sem.NoScopeID, false
}

// importSymbol copies a stale symbol into the fresh fact table, memoized so
// repeated references share one copy.
func (c *checker) importSymbol(bid sem.SymbolID) sem.SymbolID {
	if id, ok := c.imported[bid]; ok {
		return id
	}
	sym := c.base.Symbol(bid)
	if sym == nil {
		return sem.NoSymbolID
	}
	id := c.facts.AddSymbol(*sym)
	c.imported[bid] = id
	return id
}

func (c *checker) resolveTypeRef(t TypeRef, report bool) sem.Type {
	if t.Name == "" {
		return sem.NoType
	}
	ty := sem.Type(t.Name)
	if rec, ok := c.records[t.Name]; ok {
		c.facts.RecordRef(t.Span, rec)
		return ty
	}
	if builtinType(t.Name) {
		return ty
	}
	if _, _, ok := c.memberScope(ty); ok {
		return ty
	}
	if report {
		diag.ReportWarning(c.reporter, diag.SemUnknownType, t.Span,
			fmt.Sprintf("unknown type %q", t.Name))
	}
	return ty
}
