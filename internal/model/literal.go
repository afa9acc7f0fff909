package model

import (
	"fmt"
	"strconv"
)

// LiteralKind tags the variant held by a Literal.
type LiteralKind int

const (
	// LiteralNull is the absent reference.
	LiteralNull LiteralKind = iota
	// LiteralEmptyList is the empty sequence.
	LiteralEmptyList
	// LiteralBool is a boolean.
	LiteralBool
	// LiteralInt is an integral number of a given bit width.
	LiteralInt
	// LiteralEnum is an enum-qualified constant.
	LiteralEnum
	// LiteralVersion is a wire version constant.
	LiteralVersion
)

var literalKindNames = map[LiteralKind]string{
	LiteralNull:      "null",
	LiteralEmptyList: "empty_list",
	LiteralBool:      "bool",
	LiteralInt:       "int",
	LiteralEnum:      "enum",
	LiteralVersion:   "version",
}

func (k LiteralKind) String() string {
	if s, ok := literalKindNames[k]; ok {
		return s
	}
	return "LiteralKind(" + strconv.Itoa(int(k)) + ")"
}

// Literal is a default or fixed member value, kept symbolic for the emitter.
type Literal struct {
	Kind LiteralKind

	Bool bool
	Int  int64
	Bits int  // width of LiteralInt; zero when unknown
	Hex  bool // render LiteralInt in hexadecimal

	Enum  string // LiteralEnum: enum name
	Entry string // LiteralEnum: entry name

	Version WireVersion // LiteralVersion
}

// NullLiteral is the absent reference.
var NullLiteral = Literal{Kind: LiteralNull}

// IntLiteral builds an integral literal, switching to hexadecimal above threshold.
// A negative threshold disables hexadecimal rendering.
func IntLiteral(v int64, bits int, hexThreshold int64) Literal {
	return Literal{
		Kind: LiteralInt,
		Int:  v,
		Bits: bits,
		Hex:  hexThreshold >= 0 && v > hexThreshold,
	}
}

// IsNull reports whether the literal is the absent reference.
func (l Literal) IsNull() bool {
	return l.Kind == LiteralNull
}

func (l Literal) String() string {
	switch l.Kind {
	case LiteralEmptyList:
		return "[]"
	case LiteralBool:
		return strconv.FormatBool(l.Bool)
	case LiteralInt:
		if l.Hex {
			return fmt.Sprintf("0x%x", l.Int)
		}
		return strconv.FormatInt(l.Int, 10)
	case LiteralEnum:
		return l.Enum + "." + l.Entry
	case LiteralVersion:
		return "Version." + l.Version.ConstantName()
	default:
		return "null"
	}
}
