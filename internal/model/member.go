package model

import (
	"errors"
	"strconv"
	"strings"

	"github.com/roach88/bindgen/internal/ir"
	"github.com/roach88/bindgen/internal/naming"
)

// Role is the semantic role of a member.
type Role string

const (
	RoleData        Role = "data"
	RoleLength      Role = "length"
	RoleFieldLength Role = "field_length"
	RolePad         Role = "pad"
	RoleFixed       Role = "fixed_value"
)

func (r Role) String() string {
	return string(r)
}

func roleOf(m ir.Member) Role {
	switch m.Kind {
	case ir.KindPad:
		return RolePad
	case ir.KindLength:
		return RoleLength
	case ir.KindFieldLength:
		return RoleFieldLength
	}
	if m.HasValue() {
		return RoleFixed
	}
	return RoleData
}

// Member is one field of a versioned class.
//
// Union members of an Interface are the members of the first class in which
// their name appears; Merged reports that case.
type Member struct {
	Name     string // semantic name; empty for pad members
	WireName string // source wire name; empty for pad members
	Type     naming.SemanticType
	Role     Role

	raw    ir.Member
	class  *VersionedClass
	merged bool
	fixed  *Literal
}

func newMember(c *VersionedClass, raw ir.Member) *Member {
	m := &Member{
		WireName: raw.Name,
		Role:     roleOf(raw),
		raw:      raw,
		class:    c,
	}
	if m.Role == RolePad {
		return m
	}
	if raw.Name == "len" {
		m.Name = "length"
	} else {
		m.Name = c.model.conv.MemberName(raw.Name)
	}
	m.Type = c.model.types.SemanticType(c.WireName(), raw.Name, raw.Type)
	return m
}

// resolve attaches the fixed value, if any.
func (m *Member) resolve() error {
	if m.Role == RolePad {
		return nil
	}
	lit, ok, err := m.resolveFixed()
	if err != nil {
		return err
	}
	if ok {
		m.fixed = &lit
	}
	return nil
}

func (m *Member) resolveFixed() (Literal, bool, error) {
	c := m.class
	mdl := c.model
	switch {
	case m.WireName == mdl.cfg.VersionField:
		return Literal{Kind: LiteralVersion, Version: c.Version}, true, nil
	case m.raw.HasValue():
		lit, err := m.enumValue(*m.raw.Value)
		return lit, err == nil, err
	case m.Name == "length" && c.IsFixedLength():
		n, err := c.Length()
		if err != nil {
			return Literal{}, false, err
		}
		return m.intLiteral(int64(n)), true, nil
	}
	return Literal{}, false, nil
}

// enumValue resolves a raw constant against the enum named by the member's
// semantic type. Types that name no enum keep the raw value.
func (m *Member) enumValue(v int64) (Literal, error) {
	mdl := m.class.model
	e, err := mdl.EnumByName(m.Type.Name)
	if err != nil {
		return m.intLiteral(v), nil
	}
	entry, err := e.EntryByVersionValue(m.class.Version, v)
	if err == nil {
		return Literal{Kind: LiteralEnum, Enum: e.Name, Entry: entry.Name}, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Literal{}, err
	}
	if mdl.cfg.StrictEnums {
		return Literal{}, &UnresolvedEnumError{Enum: e.Name, Version: m.class.Version, Value: v}
	}
	mdl.diagnose(Diagnostic{
		Interface: m.class.iface.Name,
		Member:    m.Name,
		Version:   m.class.Version,
		Message:   "enum value not found: " + e.Name + " has no entry " + strconv.FormatInt(v, 10),
	})
	return m.intLiteral(v), nil
}

func (m *Member) intLiteral(v int64) Literal {
	threshold := m.class.model.cfg.HexThreshold
	if !m.Type.IsIntegral() {
		threshold = -1
	}
	return IntLiteral(v, m.Type.Bits, threshold)
}

// Class returns the versioned class the member was read from.
func (m *Member) Class() *VersionedClass {
	return m.class
}

// Merged reports whether the member stands for a field of the interface union.
func (m *Member) Merged() bool {
	return m.merged
}

// Raw returns the IR member.
func (m *Member) Raw() ir.Member {
	return m.raw
}

// FixedValue returns the fixed value of the member.
func (m *Member) FixedValue() (Literal, bool) {
	if m.fixed == nil {
		return Literal{}, false
	}
	return *m.fixed, true
}

// DefaultValue is the value a freshly built object holds for this member.
func (m *Member) DefaultValue() Literal {
	if m.fixed != nil {
		return *m.fixed
	}
	switch m.Type.Kind {
	case naming.KindSequence:
		return Literal{Kind: LiteralEmptyList}
	case naming.KindBool:
		return Literal{Kind: LiteralBool}
	case naming.KindInt:
		return m.intLiteral(0)
	}
	return NullLiteral
}

func (m *Member) IsPad() bool         { return m.Role == RolePad }
func (m *Member) IsLength() bool      { return m.Role == RoleLength }
func (m *Member) IsFieldLength() bool { return m.Role == RoleFieldLength }

// IsFixedValue reports whether the member carries a value fixed by the
// version or the class.
func (m *Member) IsFixedValue() bool {
	return m.fixed != nil
}

// IsData reports a plain data member other than the version discriminant.
func (m *Member) IsData() bool {
	return m.Role == RoleData && m.WireName != m.class.model.cfg.VersionField
}

// IsPublic excludes padding and the total length member.
func (m *Member) IsPublic() bool {
	return m.Role != RolePad && m.Role != RoleLength
}

// IsWriteable reports whether users may set the member.
func (m *Member) IsWriteable() bool {
	if !m.IsData() {
		return false
	}
	return !m.class.model.writeBlacklist[m.class.iface.Name][m.Name]
}

// IsUniversal reports whether the member is present, by semantic name, in
// every non-alias target version.
func (m *Member) IsUniversal() bool {
	if m.Role == RolePad {
		return false
	}
	iface := m.class.iface
	for _, v := range iface.model.versions {
		c, ok := iface.classes[v]
		if !ok {
			return false
		}
		if c.IsAlias() {
			continue
		}
		if !c.hasMember(m.Name) {
			return false
		}
	}
	return true
}

// TitleName is the semantic name with its first letter uppercased.
func (m *Member) TitleName() string {
	if m.Name == "" {
		return ""
	}
	return strings.ToUpper(m.Name[:1]) + m.Name[1:]
}

// ConstantName is the wire name in upper case.
func (m *Member) ConstantName() string {
	return strings.ToUpper(m.WireName)
}

// DefaultName is the name of the constant holding the default value.
func (m *Member) DefaultName() string {
	if m.IsFixedValue() {
		return m.ConstantName()
	}
	return "DEFAULT_" + m.ConstantName()
}

// Length returns the wire byte count of the member.
func (m *Member) Length() (int, bool) {
	if m.Role == RolePad {
		return m.raw.Bytes, m.raw.Bytes > 0
	}
	return ir.TypeBytes(m.raw.Type)
}
