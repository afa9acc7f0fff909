package model

import (
	"fmt"

	"github.com/roach88/bindgen/internal/naming"
)

// Enum unifies the per-version definitions of one enum.
type Enum struct {
	WireName string // "ofp_port_features"
	Name     string // "OFPortFeatures"

	model     *Model
	versions  []WireVersion
	wireTypes map[WireVersion]string
	entries   []*EnumEntry
	byName    map[string]*EnumEntry
	byWire    map[string]*EnumEntry
}

// EnumEntry is one constant of an Enum with its sparse per-version values.
type EnumEntry struct {
	Name     string // "PF_10MB_HD"
	WireName string // first wire name seen, "OFPPF_10MB_HD"

	enum   *Enum
	values map[WireVersion]int64
}

func newEnum(m *Model, wire string, group []versionedEnum) *Enum {
	e := &Enum{
		WireName:  wire,
		Name:      m.conv.EnumName(wire),
		model:     m,
		wireTypes: make(map[WireVersion]string, len(group)),
		byName:    make(map[string]*EnumEntry),
		byWire:    make(map[string]*EnumEntry),
	}
	prefix := m.cfg.EnumEntryPrefixes[e.Name]
	blacklist := m.entryBlacklist[e.Name]

	for _, g := range group {
		e.versions = append(e.versions, g.version)
		e.wireTypes[g.version] = g.enum.WireType
		for _, raw := range g.enum.Entries {
			if raw.Virtual {
				continue
			}
			name := prefix + m.conv.EnumEntryName(raw.Name)
			if blacklist[name] {
				continue
			}
			entry, ok := e.byName[name]
			if !ok {
				entry = &EnumEntry{
					Name:     name,
					WireName: raw.Name,
					enum:     e,
					values:   make(map[WireVersion]int64),
				}
				e.entries = append(e.entries, entry)
				e.byName[name] = entry
			}
			if _, ok := e.byWire[raw.Name]; !ok {
				e.byWire[raw.Name] = entry
			}
			if prev, dup := entry.values[g.version]; dup {
				if prev != raw.Value {
					m.diagnose(Diagnostic{
						Interface: e.Name,
						Member:    name,
						Version:   g.version,
						Message:   fmt.Sprintf("duplicate enum entry %s ignored: value %d, kept %d", raw.Name, raw.Value, prev),
					})
				}
				continue
			}
			entry.values[g.version] = raw.Value
		}
	}
	return e
}

// Entries returns the entries in first-seen order.
func (e *Enum) Entries() []*EnumEntry {
	return e.entries
}

// Versions returns the versions defining the enum, ascending.
func (e *Enum) Versions() []WireVersion {
	return append([]WireVersion(nil), e.versions...)
}

// WireType returns the semantic wire type of the enum in v.
// Enums without a declared wire type are 8-bit unsigned.
func (e *Enum) WireType(v WireVersion) naming.SemanticType {
	wt := e.wireTypes[v]
	if wt == "" {
		return naming.U8
	}
	return e.model.types.SemanticType(e.WireName, "", wt)
}

// EntryByName looks an entry up by semantic name.
func (e *Enum) EntryByName(name string) (*EnumEntry, error) {
	if entry, ok := e.byName[name]; ok {
		return entry, nil
	}
	return nil, &NotFoundError{Kind: "entry", Scope: e.Name, Key: name}
}

// EntryByWireName looks an entry up by wire name.
func (e *Enum) EntryByWireName(wire string) (*EnumEntry, error) {
	if entry, ok := e.byWire[wire]; ok {
		return entry, nil
	}
	return nil, &NotFoundError{Kind: "entry", Scope: e.Name, Key: wire}
}

// EntryByVersionValue returns the first entry whose value in v equals value.
func (e *Enum) EntryByVersionValue(v WireVersion, value int64) (*EnumEntry, error) {
	for _, entry := range e.entries {
		if got, ok := entry.values[v]; ok && got == value {
			return entry, nil
		}
	}
	return nil, &NotFoundError{
		Kind:  "entry",
		Scope: e.Name,
		Key:   fmt.Sprintf("with version %s, value %d", v, value),
	}
}

// Enum returns the owning enum.
func (en *EnumEntry) Enum() *Enum {
	return en.enum
}

// HasValue reports whether the entry is defined in v.
func (en *EnumEntry) HasValue(v WireVersion) bool {
	_, ok := en.values[v]
	return ok
}

// Value returns the wire value in v.
func (en *EnumEntry) Value(v WireVersion) (int64, bool) {
	val, ok := en.values[v]
	return val, ok
}

// FormatValue renders the value in v using the enum's wire type.
func (en *EnumEntry) FormatValue(v WireVersion) (string, error) {
	val, ok := en.values[v]
	if !ok {
		return "", &NotFoundError{Kind: "value", Scope: en.enum.Name + "." + en.Name, Key: "version " + v.Qualified()}
	}
	wt := en.enum.WireType(v)
	threshold := en.enum.model.cfg.HexThreshold
	if !wt.IsIntegral() {
		threshold = -1
	}
	return IntLiteral(val, wt.Bits, threshold).String(), nil
}

// AllValues returns one value per requested version; nil where the entry is
// undefined.
func (en *EnumEntry) AllValues(versions []WireVersion) []*int64 {
	out := make([]*int64, len(versions))
	for i, v := range versions {
		if val, ok := en.values[v]; ok {
			out[i] = &val
		}
	}
	return out
}

// AllValuesOr is AllValues with placeholder substituted for undefined versions.
func (en *EnumEntry) AllValuesOr(versions []WireVersion, placeholder int64) []int64 {
	out := make([]int64, len(versions))
	for i, v := range versions {
		if val, ok := en.values[v]; ok {
			out[i] = val
		} else {
			out[i] = placeholder
		}
	}
	return out
}
