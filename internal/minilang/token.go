package minilang

import (
	"loupe/internal/source"
)

type TokenKind uint8

const (
	TokInvalid TokenKind = iota
	TokEOF
	TokIdent
	TokInt
	TokString

	// Ключевые слова
	TokKwFun
	TokKwVal
	TokKwReturn
	TokKwRecord
	TokKwTrue
	TokKwFalse

	// Пунктуация
	TokLParen
	TokRParen
	TokLBrace
	TokRBrace
	TokColon
	TokComma
	TokDot
	TokPlus
	TokMinus
	TokStar
	TokSlash
	TokEqEq
	TokAssign
	TokLt
	TokGt
)

var keywords = map[string]TokenKind{
	"fun":    TokKwFun,
	"val":    TokKwVal,
	"return": TokKwReturn,
	"record": TokKwRecord,
	"true":   TokKwTrue,
	"false":  TokKwFalse,
}

type Token struct {
	Kind TokenKind
	Span source.Span
	Text string
}

func (t Token) Is(kind TokenKind) bool {
	return t.Kind == kind
}
