package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Точечные запросы
	QueryInfo        Code = 1000
	QueryNoNode      Code = 1001
	QueryNoScope     Code = 1002
	QueryNoReference Code = 1003
	QueryOutOfBounds Code = 1004
	QueryReparseMiss Code = 1005
	QueryNoType      Code = 1006

	// Лексические
	LexInfo               Code = 2000
	LexUnknownChar        Code = 2001
	LexUnterminatedString Code = 2002
	LexBadNumber          Code = 2003

	// Парсерные
	SynInfo             Code = 3000
	SynUnexpectedToken  Code = 3001
	SynUnclosedBrace    Code = 3002
	SynUnclosedParen    Code = 3003
	SynExpectIdentifier Code = 3004
	SynExpectType       Code = 3005

	// Семантические
	SemInfo            Code = 4000
	SemUnresolvedName  Code = 4001
	SemUnknownType     Code = 4002
	SemUnknownField    Code = 4003
	SemDuplicateName   Code = 4004
	SemOperandMismatch Code = 4005
)

func (c Code) String() string {
	return fmt.Sprintf("LP%04d", uint16(c))
}
