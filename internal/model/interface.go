package model

import (
	"strings"
	"sync"

	"github.com/roach88/bindgen/internal/ir"
)

// Interface is the version-agnostic view of one protocol entity.
type Interface struct {
	WireName string // canonical name, "of_flow_add"
	Name     string // semantic name, "OFFlowAdd"

	model    *Model
	rule     ClassRule
	versions []WireVersion
	classes  map[WireVersion]*VersionedClass
	outside  map[WireVersion]*VersionedClass // alias targets in non-target versions

	once     sync.Once
	union    []*Member
	unionErr error
}

func newInterface(m *Model, wire string, group []versionedIR, all map[WireVersion]ir.Class) *Interface {
	iface := &Interface{
		WireName: wire,
		Name:     m.conv.TypeName(wire),
		model:    m,
		classes:  make(map[WireVersion]*VersionedClass, len(group)),
		outside:  make(map[WireVersion]*VersionedClass),
	}
	iface.rule = Classify(m.rules, iface.Name, wire)
	for _, g := range group {
		iface.versions = append(iface.versions, g.version)
		iface.classes[g.version] = newVersionedClass(iface, g.version, g.class)
	}
	for _, g := range group {
		iface.addAliasTargets(g.class, all)
	}
	return iface
}

// addAliasTargets registers the classes an alias chain reaches outside the
// target versions. Chains stop at a missing version or a version already seen.
func (i *Interface) addAliasTargets(raw ir.Class, all map[WireVersion]ir.Class) {
	for raw.IsAlias() {
		v := WireVersion(raw.UseVersion)
		if _, ok := i.classes[v]; ok {
			return
		}
		if _, ok := i.outside[v]; ok {
			return
		}
		next, ok := all[v]
		if !ok {
			return
		}
		i.outside[v] = newVersionedClass(i, v, next)
		raw = next
	}
}

// aliasTarget looks up the class of v among target and non-target versions.
func (i *Interface) aliasTarget(v WireVersion) (*VersionedClass, bool) {
	if c, ok := i.classes[v]; ok {
		return c, true
	}
	c, ok := i.outside[v]
	return c, ok
}

// ConstantName is the upper-cased canonical name without the wire prefix.
func (i *Interface) ConstantName() string {
	return strings.ToUpper(i.model.conv.ShortName(i.WireName))
}

// VariableName is the semantic name without its type prefix, lower-cased.
func (i *Interface) VariableName() string {
	return i.model.conv.VariableName(i.Name)
}

// Category returns the structural classification.
func (i *Interface) Category() Category {
	return i.rule.Category
}

// Namespace returns the sub-namespace of the category; empty is the default.
func (i *Interface) Namespace() string {
	return i.rule.Namespace
}

// Parent returns the semantic name of the supertype, or "" when the
// interface has none or is itself the base.
func (i *Interface) Parent() string {
	if i.rule.Parent == i.Name {
		return ""
	}
	return i.rule.Parent
}

// IsVirtual reports an abstract base interface.
func (i *Interface) IsVirtual() bool {
	return i.model.virtual[i.Name]
}

// IsUniversal reports whether the interface exists in every target version.
func (i *Interface) IsUniversal() bool {
	return len(i.versions) == len(i.model.versions)
}

// Versions returns the versions defining the interface, ascending.
func (i *Interface) Versions() []WireVersion {
	return append([]WireVersion(nil), i.versions...)
}

// HasVersion reports whether the interface is defined in v.
func (i *Interface) HasVersion(v WireVersion) bool {
	_, ok := i.classes[v]
	return ok
}

// VersionedClass returns the realization of the interface in v.
func (i *Interface) VersionedClass(v WireVersion) (*VersionedClass, error) {
	if c, ok := i.classes[v]; ok {
		return c, nil
	}
	return nil, &NotFoundError{Kind: "class", Scope: i.Name, Key: "version " + v.Qualified()}
}

// VersionedClasses returns one class per version, ascending.
// Virtual interfaces have no versioned classes.
func (i *Interface) VersionedClasses() []*VersionedClass {
	if i.IsVirtual() {
		return nil
	}
	out := make([]*VersionedClass, 0, len(i.versions))
	for _, v := range i.versions {
		out = append(out, i.classes[v])
	}
	return out
}

// Members returns the union of members across versions, in the order they
// first appear. Padding, length fields and the version discriminant are
// not part of the union.
func (i *Interface) Members() ([]*Member, error) {
	i.once.Do(i.buildUnion)
	return i.union, i.unionErr
}

func (i *Interface) buildUnion() {
	roles := make(map[string]Role)
	seen := make(map[string]bool)

	for _, v := range i.versions {
		members, err := i.classes[v].Members()
		if err != nil {
			i.unionErr = &BuildError{Name: i.WireName, Version: v, Err: err}
			i.union = nil
			return
		}
		for _, m := range members {
			if m.Role == RolePad {
				continue
			}
			if want, ok := roles[m.Name]; ok && want != m.Role {
				i.unionErr = &BuildError{Name: i.WireName, Version: v, Err: &RoleConflictError{
					Interface: i.Name,
					Member:    m.Name,
					Version:   v,
					Want:      want,
					Got:       m.Role,
				}}
				i.union = nil
				return
			} else if !ok {
				roles[m.Name] = m.Role
			}

			if m.Role == RoleLength || m.Role == RoleFieldLength {
				continue
			}
			if m.WireName == i.model.cfg.VersionField || seen[m.Name] {
				continue
			}
			seen[m.Name] = true
			merged := *m
			merged.merged = true
			i.union = append(i.union, &merged)
		}
	}
}

// Member looks a union member up by semantic name.
func (i *Interface) Member(name string) (*Member, error) {
	members, err := i.Members()
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		if m.Name == name {
			return m, nil
		}
	}
	return nil, &NotFoundError{Kind: "member", Scope: i.Name, Key: name}
}

// warm builds every versioned class and the union.
func (i *Interface) warm() error {
	_, err := i.Members()
	return err
}
