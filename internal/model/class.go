package model

import (
	"fmt"
	"sync"

	"github.com/roach88/bindgen/internal/ir"
)

// VersionedClass is the realization of an interface in one wire version.
type VersionedClass struct {
	Version WireVersion

	model *Model
	iface *Interface
	raw   ir.Class

	once     sync.Once
	members  []*Member
	byName   map[string]*Member
	buildErr error
}

func newVersionedClass(iface *Interface, v WireVersion, raw ir.Class) *VersionedClass {
	return &VersionedClass{
		Version: v,
		model:   iface.model,
		iface:   iface,
		raw:     raw,
	}
}

// Interface returns the owning interface.
func (c *VersionedClass) Interface() *Interface {
	return c.iface
}

// WireName is the canonical name shared with the interface ("of_flow_add").
func (c *VersionedClass) WireName() string {
	return c.raw.Name
}

// Name is the version-qualified type name ("OFFlowAddVer13").
func (c *VersionedClass) Name() string {
	return c.iface.Name + "Ver" + c.Version.Label()
}

// VariableName is Name without the type prefix.
func (c *VersionedClass) VariableName() string {
	return c.iface.model.conv.VariableName(c.Name())
}

// Namespace is the per-version sub-namespace ("ver13").
func (c *VersionedClass) Namespace() string {
	return "ver" + c.Version.Label()
}

// IsAlias reports whether this version reuses another version's encoding.
func (c *VersionedClass) IsAlias() bool {
	return c.raw.IsAlias()
}

// AliasOf returns the version whose encoding this class reuses.
func (c *VersionedClass) AliasOf() (WireVersion, bool) {
	if !c.raw.IsAlias() {
		return 0, false
	}
	return WireVersion(c.raw.UseVersion), true
}

// Target follows alias links to the class that owns the encoding.
func (c *VersionedClass) Target() (*VersionedClass, error) {
	cur := c
	for range len(c.model.snap.Protocols) + 1 {
		v, ok := cur.AliasOf()
		if !ok {
			return cur, nil
		}
		next, found := c.iface.aliasTarget(v)
		if !found {
			return nil, &NotFoundError{Kind: "class", Scope: c.iface.WireName, Key: "version " + v.Qualified()}
		}
		cur = next
	}
	return nil, fmt.Errorf("%s: alias cycle at version %s", c.iface.WireName, c.Version.Qualified())
}

func (c *VersionedClass) key() ir.ClassKey {
	return ir.ClassKey{Name: c.raw.Name, Version: int(c.Version)}
}

// IsFixedLength reports whether the serialized length is static.
// Aliases answer for the class they forward to.
func (c *VersionedClass) IsFixedLength() bool {
	t, err := c.Target()
	if err != nil {
		return false
	}
	return c.model.snap.FixedLength[t.key()]
}

// MinLength returns the minimum serialized length, or -1 when unknown.
func (c *VersionedClass) MinLength() int {
	t, err := c.Target()
	if err != nil {
		return -1
	}
	if n, ok := c.model.snap.BaseLength[t.key()]; ok {
		return n
	}
	return -1
}

// Length returns the static serialized length.
// It fails with a *LengthError when the class is not fixed-length; check
// IsFixedLength first.
func (c *VersionedClass) Length() (int, error) {
	if !c.IsFixedLength() {
		return 0, &LengthError{Class: c.Name(), Version: c.Version}
	}
	n := c.MinLength()
	if n < 0 {
		return 0, &LengthError{Class: c.Name(), Version: c.Version}
	}
	return n, nil
}

// Members returns the members of this version in wire order.
// Aliases have no members of their own.
func (c *VersionedClass) Members() ([]*Member, error) {
	c.once.Do(c.buildMembers)
	return c.members, c.buildErr
}

func (c *VersionedClass) buildMembers() {
	c.byName = make(map[string]*Member)
	if c.IsAlias() {
		if _, err := c.Target(); err != nil {
			c.buildErr = err
		}
		return
	}
	members := make([]*Member, 0, len(c.raw.Members))
	for _, raw := range c.raw.Members {
		m := newMember(c, raw)
		if err := m.resolve(); err != nil {
			c.buildErr = err
			return
		}
		members = append(members, m)
		if m.Name != "" {
			if _, dup := c.byName[m.Name]; !dup {
				c.byName[m.Name] = m
			}
		}
	}
	c.members = members
}

// hasMember reports a member by semantic name without resolving values.
func (c *VersionedClass) hasMember(name string) bool {
	for _, raw := range c.raw.Members {
		if roleOf(raw) == RolePad {
			continue
		}
		if raw.Name == "len" && name == "length" {
			return true
		}
		if c.model.conv.MemberName(raw.Name) == name {
			return true
		}
	}
	return false
}

// Member looks a member up by semantic name.
func (c *VersionedClass) Member(name string) (*Member, error) {
	if _, err := c.Members(); err != nil {
		return nil, err
	}
	if m, ok := c.byName[name]; ok {
		return m, nil
	}
	return nil, &NotFoundError{Kind: "member", Scope: c.Name(), Key: name}
}

func (c *VersionedClass) filter(keep func(*Member) bool) ([]*Member, error) {
	members, err := c.Members()
	if err != nil {
		return nil, err
	}
	var out []*Member
	for _, m := range members {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out, nil
}

// DataMembers returns the plain data members.
func (c *VersionedClass) DataMembers() ([]*Member, error) {
	return c.filter((*Member).IsData)
}

// FixedValueMembers returns the members with a fixed value.
func (c *VersionedClass) FixedValueMembers() ([]*Member, error) {
	return c.filter((*Member).IsFixedValue)
}

// PublicMembers returns every member except padding and the length field.
func (c *VersionedClass) PublicMembers() ([]*Member, error) {
	return c.filter((*Member).IsPublic)
}

// UnitTest returns the conformance fixture view of the class.
func (c *VersionedClass) UnitTest() *UnitTest {
	return &UnitTest{class: c}
}
