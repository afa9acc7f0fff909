package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLiteralString(t *testing.T) {
	tests := []struct {
		name string
		lit  Literal
		want string
	}{
		{"null", NullLiteral, "null"},
		{"empty list", Literal{Kind: LiteralEmptyList}, "[]"},
		{"false", Literal{Kind: LiteralBool}, "false"},
		{"true", Literal{Kind: LiteralBool, Bool: true}, "true"},
		{"small int", IntLiteral(14, 8, 100), "14"},
		{"threshold is decimal", IntLiteral(100, 16, 100), "100"},
		{"hex above threshold", IntLiteral(4096, 32, 100), "0x1000"},
		{"hex disabled", IntLiteral(4096, 0, -1), "4096"},
		{"enum", Literal{Kind: LiteralEnum, Enum: "OFPortReason", Entry: "ADD"}, "OFPortReason.ADD"},
		{"version", Literal{Kind: LiteralVersion, Version: 4}, "Version.OF_13"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.lit.String())
		})
	}
}

func TestLiteralIsNull(t *testing.T) {
	assert.True(t, NullLiteral.IsNull())
	assert.True(t, Literal{}.IsNull())
	assert.False(t, IntLiteral(0, 8, 100).IsNull())
}

func TestLiteralKindString(t *testing.T) {
	assert.Equal(t, "enum", LiteralEnum.String())
	assert.Equal(t, "LiteralKind(42)", LiteralKind(42).String())
}
