package minilang

import (
	"fmt"

	"loupe/internal/diag"
	"loupe/internal/source"
)

type lexer struct {
	content  []byte
	off      uint32
	reporter diag.Reporter
	look     *Token // 1-элементный буфер
}

func newLexer(content []byte, reporter diag.Reporter) *lexer {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	return &lexer{content: content, reporter: reporter}
}

func (lx *lexer) eof() bool {
	return lx.off >= uint32(len(lx.content))
}

func (lx *lexer) peekByte() byte {
	if lx.eof() {
		return 0
	}
	return lx.content[lx.off]
}

func (lx *lexer) skipTrivia() {
	for !lx.eof() {
		ch := lx.content[lx.off]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			lx.off++
		case ch == '/' && lx.off+1 < uint32(len(lx.content)) && lx.content[lx.off+1] == '/':
			for !lx.eof() && lx.content[lx.off] != '\n' {
				lx.off++
			}
		default:
			return
		}
	}
}

// next возвращает следующий значимый токен. После EOF всегда возвращает EOF.
func (lx *lexer) next() Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.skipTrivia()
	if lx.eof() {
		return Token{Kind: TokEOF, Span: source.Span{Start: lx.off, End: lx.off}}
	}

	start := lx.off
	ch := lx.peekByte()

	switch {
	case isIdentStart(ch):
		return lx.scanIdentOrKeyword()
	case isDigit(ch):
		return lx.scanNumber()
	case ch == '"':
		return lx.scanString()
	}

	lx.off++
	kind := TokInvalid
	switch ch {
	case '(':
		kind = TokLParen
	case ')':
		kind = TokRParen
	case '{':
		kind = TokLBrace
	case '}':
		kind = TokRBrace
	case ':':
		kind = TokColon
	case ',':
		kind = TokComma
	case '.':
		kind = TokDot
	case '+':
		kind = TokPlus
	case '-':
		kind = TokMinus
	case '*':
		kind = TokStar
	case '/':
		kind = TokSlash
	case '<':
		kind = TokLt
	case '>':
		kind = TokGt
	case '=':
		if lx.peekByte() == '=' {
			lx.off++
			kind = TokEqEq
		} else {
			kind = TokAssign
		}
	}

	span := source.Span{Start: start, End: lx.off}
	if kind == TokInvalid {
		diag.ReportWarning(lx.reporter, diag.LexUnknownChar, span,
			fmt.Sprintf("unknown character %q", ch))
	}
	return Token{Kind: kind, Span: span, Text: string(lx.content[start:lx.off])}
}

// peek возвращает следующий токен, не потребляя его.
func (lx *lexer) peek() Token {
	t := lx.next()
	lx.look = &t
	return t
}

func (lx *lexer) scanIdentOrKeyword() Token {
	start := lx.off
	for !lx.eof() && isIdentContinue(lx.content[lx.off]) {
		lx.off++
	}
	text := string(lx.content[start:lx.off])
	kind := TokIdent
	if kw, ok := keywords[text]; ok {
		kind = kw
	}
	return Token{Kind: kind, Span: source.Span{Start: start, End: lx.off}, Text: text}
}

func (lx *lexer) scanNumber() Token {
	start := lx.off
	for !lx.eof() && isDigit(lx.content[lx.off]) {
		lx.off++
	}
	return Token{Kind: TokInt, Span: source.Span{Start: start, End: lx.off}, Text: string(lx.content[start:lx.off])}
}

func (lx *lexer) scanString() Token {
	start := lx.off
	lx.off++ // открывающая кавычка
	for !lx.eof() && lx.content[lx.off] != '"' && lx.content[lx.off] != '\n' {
		lx.off++
	}
	if lx.eof() || lx.content[lx.off] != '"' {
		span := source.Span{Start: start, End: lx.off}
		diag.ReportWarning(lx.reporter, diag.LexUnterminatedString, span, "unterminated string literal")
		return Token{Kind: TokString, Span: span, Text: string(lx.content[start:lx.off])}
	}
	lx.off++ // закрывающая кавычка
	return Token{Kind: TokString, Span: source.Span{Start: start, End: lx.off}, Text: string(lx.content[start:lx.off])}
}

func isIdentStart(ch byte) bool {
	return ch == '_' || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isIdentContinue(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
