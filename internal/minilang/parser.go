package minilang

import (
	"fmt"

	"loupe/internal/diag"
	"loupe/internal/source"
)

// parser is a tolerant recursive-descent parser: any input yields a File,
// malformed stretches turn into BadExpr nodes and skipped tokens.
type parser struct {
	lx       *lexer
	reporter diag.Reporter
	end      uint32
}

func parseFile(content []byte, reporter diag.Reporter) *File {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	p := &parser{
		lx:       newLexer(content, reporter),
		reporter: reporter,
		end:      uint32(len(content)),
	}
	return p.file()
}

func (p *parser) file() *File {
	file := &File{Span: source.Span{Start: 0, End: p.end}}
	for {
		tok := p.lx.peek()
		if tok.Is(TokEOF) {
			break
		}
		item := p.item()
		if item != nil {
			file.Items = append(file.Items, item)
		}
	}
	return file
}

func (p *parser) item() Item {
	tok := p.lx.peek()
	switch tok.Kind {
	case TokKwFun:
		return p.funDecl()
	case TokKwRecord:
		return p.recordDecl()
	case TokKwVal:
		return p.valDecl()
	default:
		return p.exprStmtOrSkip()
	}
}

func (p *parser) exprStmtOrSkip() Item {
	tok := p.lx.peek()
	switch tok.Kind {
	case TokIdent, TokInt, TokString, TokKwTrue, TokKwFalse, TokLParen:
		expr := p.expr()
		return &ExprStmt{Expr: expr, Span: expr.ExprSpan()}
	default:
		// Неожиданный токен на верхнем уровне: пропускаем.
		p.lx.next()
		diag.ReportWarning(p.reporter, diag.SynUnexpectedToken, tok.Span,
			fmt.Sprintf("unexpected token %q", tok.Text))
		return nil
	}
}

func (p *parser) funDecl() Item {
	kw := p.lx.next() // fun
	name := p.ident()
	decl := &FunDecl{Name: name}

	p.expect(TokLParen, diag.SynUnclosedParen, "expected '(' after function name")
	for {
		tok := p.lx.peek()
		if tok.Is(TokRParen) || tok.Is(TokEOF) || tok.Is(TokLBrace) {
			break
		}
		if tok.Is(TokComma) {
			p.lx.next()
			continue
		}
		if !tok.Is(TokIdent) {
			p.lx.next()
			diag.ReportWarning(p.reporter, diag.SynUnexpectedToken, tok.Span,
				fmt.Sprintf("unexpected token %q in parameter list", tok.Text))
			continue
		}
		pname := p.ident()
		p.expect(TokColon, diag.SynExpectType, "expected ':' after parameter name")
		ptype := p.typeRef()
		decl.Params = append(decl.Params, Param{
			Name: pname,
			Type: ptype,
			Span: pname.Span.Cover(ptype.Span),
		})
	}
	p.expect(TokRParen, diag.SynUnclosedParen, "expected ')' after parameters")

	if p.lx.peek().Is(TokColon) {
		p.lx.next()
		decl.Ret = p.typeRef()
	}

	decl.Body = p.block()
	end := decl.Body.Span.End
	if end == 0 {
		end = name.Span.End
	}
	decl.Span = source.Span{Start: kw.Span.Start, End: end}
	return decl
}

func (p *parser) recordDecl() Item {
	kw := p.lx.next() // record
	name := p.ident()
	decl := &RecordDecl{Name: name}

	open := p.expect(TokLBrace, diag.SynUnclosedBrace, "expected '{' after record name")
	bodyStart := open.Span.End
	for {
		tok := p.lx.peek()
		if tok.Is(TokRBrace) || tok.Is(TokEOF) {
			break
		}
		if tok.Is(TokComma) {
			p.lx.next()
			continue
		}
		if !tok.Is(TokIdent) {
			p.lx.next()
			diag.ReportWarning(p.reporter, diag.SynUnexpectedToken, tok.Span,
				fmt.Sprintf("unexpected token %q in record body", tok.Text))
			continue
		}
		fname := p.ident()
		p.expect(TokColon, diag.SynExpectType, "expected ':' after field name")
		ftype := p.typeRef()
		decl.Fields = append(decl.Fields, Field{
			Name: fname,
			Type: ftype,
			Span: fname.Span.Cover(ftype.Span),
		})
	}
	closing := p.expect(TokRBrace, diag.SynUnclosedBrace, "expected '}' closing record")
	decl.BodySpan = source.Span{Start: bodyStart, End: closing.Span.Start}
	decl.Span = source.Span{Start: kw.Span.Start, End: closing.Span.End}
	return decl
}

func (p *parser) valDecl() *ValDecl {
	kw := p.lx.next() // val
	name := p.ident()
	decl := &ValDecl{Name: name}
	end := name.Span.End

	if p.lx.peek().Is(TokColon) {
		p.lx.next()
		decl.Type = p.typeRef()
		end = decl.Type.Span.End
	}
	if p.lx.peek().Is(TokAssign) {
		p.lx.next()
		decl.Init = p.expr()
		end = decl.Init.ExprSpan().End
	}
	decl.Span = source.Span{Start: kw.Span.Start, End: end}
	return decl
}

func (p *parser) block() *Block {
	open := p.expect(TokLBrace, diag.SynUnclosedBrace, "expected '{'")
	block := &Block{}
	for {
		tok := p.lx.peek()
		if tok.Is(TokRBrace) || tok.Is(TokEOF) {
			break
		}
		switch tok.Kind {
		case TokKwReturn:
			kw := p.lx.next()
			stmt := &ReturnStmt{Span: kw.Span}
			next := p.lx.peek()
			if exprStart(next.Kind) {
				stmt.Expr = p.expr()
				stmt.Span = source.Span{Start: kw.Span.Start, End: stmt.Expr.ExprSpan().End}
			}
			block.Stmts = append(block.Stmts, stmt)
		case TokKwVal:
			block.Stmts = append(block.Stmts, p.valDecl())
		default:
			if exprStart(tok.Kind) {
				expr := p.expr()
				block.Stmts = append(block.Stmts, &ExprStmt{Expr: expr, Span: expr.ExprSpan()})
			} else {
				p.lx.next()
				diag.ReportWarning(p.reporter, diag.SynUnexpectedToken, tok.Span,
					fmt.Sprintf("unexpected token %q in block", tok.Text))
			}
		}
	}
	closing := p.expect(TokRBrace, diag.SynUnclosedBrace, "expected '}' closing block")
	block.Span = source.Span{Start: open.Span.Start, End: closing.Span.End}
	return block
}

func exprStart(kind TokenKind) bool {
	switch kind {
	case TokIdent, TokInt, TokString, TokKwTrue, TokKwFalse, TokLParen:
		return true
	}
	return false
}

func (p *parser) expr() Expr {
	return p.comparison()
}

func (p *parser) comparison() Expr {
	left := p.additive()
	for {
		tok := p.lx.peek()
		var op BinaryOp
		switch tok.Kind {
		case TokEqEq:
			op = OpEq
		case TokLt:
			op = OpLt
		case TokGt:
			op = OpGt
		default:
			return left
		}
		p.lx.next()
		right := p.additive()
		left = &BinaryExpr{
			Op: op, L: left, R: right,
			Span: left.ExprSpan().Cover(right.ExprSpan()),
		}
	}
}

func (p *parser) additive() Expr {
	left := p.multiplicative()
	for {
		tok := p.lx.peek()
		var op BinaryOp
		switch tok.Kind {
		case TokPlus:
			op = OpAdd
		case TokMinus:
			op = OpSub
		default:
			return left
		}
		p.lx.next()
		right := p.multiplicative()
		left = &BinaryExpr{
			Op: op, L: left, R: right,
			Span: left.ExprSpan().Cover(right.ExprSpan()),
		}
	}
}

func (p *parser) multiplicative() Expr {
	left := p.postfix()
	for {
		tok := p.lx.peek()
		var op BinaryOp
		switch tok.Kind {
		case TokStar:
			op = OpMul
		case TokSlash:
			op = OpDiv
		default:
			return left
		}
		p.lx.next()
		right := p.postfix()
		left = &BinaryExpr{
			Op: op, L: left, R: right,
			Span: left.ExprSpan().Cover(right.ExprSpan()),
		}
	}
}

func (p *parser) postfix() Expr {
	expr := p.primary()
	for {
		tok := p.lx.peek()
		switch tok.Kind {
		case TokDot:
			p.lx.next()
			field := p.ident()
			expr = &SelectorExpr{
				Target: expr,
				Field:  field,
				Span:   expr.ExprSpan().Cover(field.Span),
			}
		case TokLParen:
			p.lx.next()
			call := &CallExpr{Callee: expr}
			for {
				next := p.lx.peek()
				if next.Is(TokRParen) || next.Is(TokEOF) {
					break
				}
				if next.Is(TokComma) {
					p.lx.next()
					continue
				}
				if !exprStart(next.Kind) {
					p.lx.next()
					continue
				}
				call.Args = append(call.Args, p.expr())
			}
			closing := p.expect(TokRParen, diag.SynUnclosedParen, "expected ')' closing call")
			call.Span = source.Span{Start: expr.ExprSpan().Start, End: closing.Span.End}
			expr = call
		default:
			return expr
		}
	}
}

func (p *parser) primary() Expr {
	tok := p.lx.next()
	switch tok.Kind {
	case TokIdent:
		return &IdentExpr{Name: tok.Text, Span: tok.Span}
	case TokInt:
		return &IntLit{Text: tok.Text, Span: tok.Span}
	case TokString:
		return &StringLit{Text: tok.Text, Span: tok.Span}
	case TokKwTrue:
		return &BoolLit{Value: true, Span: tok.Span}
	case TokKwFalse:
		return &BoolLit{Value: false, Span: tok.Span}
	case TokLParen:
		inner := p.expr()
		closing := p.expect(TokRParen, diag.SynUnclosedParen, "expected ')'")
		return &ParenExpr{Inner: inner, Span: source.Span{Start: tok.Span.Start, End: closing.Span.End}}
	default:
		diag.ReportWarning(p.reporter, diag.SynUnexpectedToken, tok.Span,
			fmt.Sprintf("expected expression, found %q", tok.Text))
		return &BadExpr{Span: tok.Span}
	}
}

func (p *parser) ident() Ident {
	tok := p.lx.peek()
	if tok.Is(TokIdent) {
		p.lx.next()
		return Ident{Name: tok.Text, Span: tok.Span}
	}
	diag.ReportWarning(p.reporter, diag.SynExpectIdentifier, tok.Span,
		fmt.Sprintf("expected identifier, found %q", tok.Text))
	return Ident{Span: source.Span{Start: tok.Span.Start, End: tok.Span.Start}}
}

func (p *parser) typeRef() TypeRef {
	tok := p.lx.peek()
	if tok.Is(TokIdent) {
		p.lx.next()
		return TypeRef{Name: tok.Text, Span: tok.Span}
	}
	diag.ReportWarning(p.reporter, diag.SynExpectType, tok.Span,
		fmt.Sprintf("expected type name, found %q", tok.Text))
	return TypeRef{Span: source.Span{Start: tok.Span.Start, End: tok.Span.Start}}
}

// expect потребляет токен ожидаемого вида; иначе сообщает и синтезирует
// пустой токен на текущей позиции.
func (p *parser) expect(kind TokenKind, code diag.Code, msg string) Token {
	tok := p.lx.peek()
	if tok.Is(kind) {
		return p.lx.next()
	}
	diag.ReportWarning(p.reporter, code, tok.Span, msg)
	return Token{Kind: kind, Span: source.Span{Start: tok.Span.Start, End: tok.Span.Start}}
}
