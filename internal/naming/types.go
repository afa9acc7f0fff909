package naming

import (
	"strings"

	"github.com/roach88/bindgen/internal/ir"
)

// TypeKind selects the default-value branch of a semantic type.
type TypeKind string

const (
	// KindReference is any object type; its default is the null reference.
	KindReference TypeKind = "reference"
	// KindSequence is a list type; its default is the empty sequence.
	KindSequence TypeKind = "sequence"
	// KindBool defaults to false.
	KindBool TypeKind = "bool"
	// KindInt is an integral scalar; its default is zero of Bits width.
	KindInt TypeKind = "int"
)

// ValidTypeKinds defines allowed type kinds.
var ValidTypeKinds = map[TypeKind]bool{
	KindReference: true,
	KindSequence:  true,
	KindBool:      true,
	KindInt:       true,
}

// SemanticType is the target-side type of a member.
type SemanticType struct {
	Name string   `json:"name" yaml:"name" toml:"name"`
	Kind TypeKind `json:"kind" yaml:"kind" toml:"kind"`
	Bits int      `json:"bits,omitempty" yaml:"bits,omitempty" toml:"bits,omitempty"`
}

// IsIntegral reports whether the type is an integral scalar.
func (t SemanticType) IsIntegral() bool {
	return t.Kind == KindInt
}

// U8 is the default enum wire type.
var U8 = SemanticType{Name: "u8", Kind: KindInt, Bits: 8}

// TypeMapper maps a wire type to its semantic type.
// className and memberName are wire names; they allow per-member overrides.
type TypeMapper interface {
	SemanticType(className, memberName, wireType string) SemanticType
}

// WireTypeMapper is the default TypeMapper.
// Overrides are keyed "class.member" and win over the built-in table.
type WireTypeMapper struct {
	conv      Convention
	overrides map[string]SemanticType
}

// NewTypeMapper creates a WireTypeMapper.
func NewTypeMapper(conv Convention, overrides map[string]SemanticType) *WireTypeMapper {
	copied := make(map[string]SemanticType, len(overrides))
	for k, v := range overrides {
		copied[k] = v
	}
	return &WireTypeMapper{conv: conv, overrides: copied}
}

var scalarTypes = map[string]SemanticType{
	"char":      {Name: "u8", Kind: KindInt, Bits: 8},
	"uint8_t":   {Name: "u8", Kind: KindInt, Bits: 8},
	"uint16_t":  {Name: "u16", Kind: KindInt, Bits: 16},
	"uint32_t":  {Name: "u32", Kind: KindInt, Bits: 32},
	"uint64_t":  {Name: "u64", Kind: KindInt, Bits: 64},
	"of_bool_t": {Name: "bool", Kind: KindBool},
}

// SemanticType implements TypeMapper.
func (m *WireTypeMapper) SemanticType(className, memberName, wireType string) SemanticType {
	if t, ok := m.overrides[className+"."+memberName]; ok {
		return t
	}
	return m.WireType(wireType)
}

// WireType maps a bare wire type without considering overrides.
func (m *WireTypeMapper) WireType(wireType string) SemanticType {
	wireType = strings.TrimSpace(wireType)
	if wireType == "" {
		return U8
	}
	if ir.IsListType(wireType) {
		return SemanticType{Name: "List<" + m.elementName(wireType) + ">", Kind: KindSequence}
	}
	base, count := ir.ParseTypeDecl(wireType)
	if t, ok := scalarTypes[base]; ok {
		if count == 1 {
			return t
		}
		return SemanticType{Name: t.Name + "[]", Kind: KindReference}
	}
	return SemanticType{Name: m.conv.TypeName(strings.TrimSuffix(base, "_t")), Kind: KindReference}
}

// elementName returns the element type name of "list(of_action_t)" or
// "of_list_action_t".
func (m *WireTypeMapper) elementName(wireType string) string {
	var elem string
	if strings.HasPrefix(wireType, "list(") {
		elem = strings.TrimSuffix(strings.TrimPrefix(wireType, "list("), ")")
	} else {
		elem = m.conv.WirePrefix + strings.TrimPrefix(wireType, m.conv.WirePrefix+"list_")
	}
	return m.conv.TypeName(strings.TrimSuffix(elem, "_t"))
}
