package ir

import (
	"fmt"
	"sort"
)

// MemberKind is the structural role marker of a class member.
type MemberKind string

const (
	// KindData is an ordinary data member.
	KindData MemberKind = "data"
	// KindType is a discriminant member carrying a fixed value.
	KindType MemberKind = "type"
	// KindLength carries the total length of the enclosing object.
	KindLength MemberKind = "length"
	// KindFieldLength carries the length of a sibling list member.
	KindFieldLength MemberKind = "field_length"
	// KindPad is alignment padding.
	KindPad MemberKind = "pad"
)

// ValidMemberKinds defines allowed member kinds.
var ValidMemberKinds = map[MemberKind]bool{
	KindData:        true,
	KindType:        true,
	KindLength:      true,
	KindFieldLength: true,
	KindPad:         true,
}

// Member is one field of a version-specific class definition.
type Member struct {
	Name  string     `json:"name,omitempty"` // empty for pad members
	Type  string     `json:"type,omitempty"` // wire type declaration, e.g. "uint16_t" or "uint8_t[6]"
	Kind  MemberKind `json:"kind"`
	Value *int64     `json:"value,omitempty"` // fixed value for KindType members
	Field string     `json:"field,omitempty"` // measured member for KindFieldLength
	Bytes int        `json:"bytes,omitempty"` // explicit byte count, pad members only
}

// HasValue reports whether the member carries an explicit fixed value.
func (m Member) HasValue() bool {
	return m.Value != nil
}

// Class is a version-specific entity definition.
type Class struct {
	Name    string   `json:"name"`
	Members []Member `json:"members"`

	// UseVersion names the wire version whose encoding this class reuses.
	// Zero means the class has its own encoding in this version.
	UseVersion int `json:"use_version,omitempty"`
}

// IsAlias reports whether the class forwards to another version's encoding.
func (c Class) IsAlias() bool {
	return c.UseVersion != 0
}

// Enum is a version-specific enum definition.
type Enum struct {
	Name     string      `json:"name"`
	WireType string      `json:"wire_type,omitempty"` // empty means uint8_t
	Entries  []EnumEntry `json:"entries"`
}

// EnumEntry is a single enum constant.
type EnumEntry struct {
	Name    string `json:"name"`
	Value   int64  `json:"value"`
	Virtual bool   `json:"virtual,omitempty"`
}

// Protocol holds every definition of one wire version.
type Protocol struct {
	WireVersion int     `json:"wire_version"`
	Classes     []Class `json:"classes"`
	Enums       []Enum  `json:"enums"`
}

// ClassKey identifies a class definition in a specific wire version.
type ClassKey struct {
	Name    string
	Version int
}

func (k ClassKey) String() string {
	return fmt.Sprintf("%s@%d", k.Name, k.Version)
}

// Snapshot is the complete IR for one model build.
type Snapshot struct {
	Protocols []Protocol `json:"protocols"`

	// BaseLength maps (class, version) to the minimum serialized byte count.
	BaseLength map[ClassKey]int `json:"-"`

	// FixedLength marks the (class, version) pairs whose length is static.
	FixedLength map[ClassKey]bool `json:"-"`

	// Targets lists the wire versions the model is built for.
	// Empty means every protocol in the snapshot.
	Targets []int `json:"targets,omitempty"`
}

// NewSnapshot creates a snapshot with initialized length tables.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		BaseLength:  make(map[ClassKey]int),
		FixedLength: make(map[ClassKey]bool),
	}
}

// AddProtocol appends a protocol and records the length tables of its classes.
func (s *Snapshot) AddProtocol(p Protocol, lengths map[string]int, fixed map[string]bool) {
	if s.BaseLength == nil {
		s.BaseLength = make(map[ClassKey]int)
	}
	if s.FixedLength == nil {
		s.FixedLength = make(map[ClassKey]bool)
	}
	for name, n := range lengths {
		s.BaseLength[ClassKey{Name: name, Version: p.WireVersion}] = n
	}
	for name, ok := range fixed {
		if ok {
			s.FixedLength[ClassKey{Name: name, Version: p.WireVersion}] = true
		}
	}
	s.Protocols = append(s.Protocols, p)
}

// Sorted returns the protocols in ascending wire version order.
// The snapshot itself is not modified.
func (s *Snapshot) Sorted() []Protocol {
	out := make([]Protocol, len(s.Protocols))
	copy(out, s.Protocols)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].WireVersion < out[j].WireVersion
	})
	return out
}

// Protocol returns the protocol for a wire version.
func (s *Snapshot) Protocol(version int) (Protocol, bool) {
	for _, p := range s.Protocols {
		if p.WireVersion == version {
			return p, true
		}
	}
	return Protocol{}, false
}

// TargetVersions returns the target version list in ascending order.
func (s *Snapshot) TargetVersions() []int {
	var out []int
	if len(s.Targets) > 0 {
		out = append(out, s.Targets...)
	} else {
		for _, p := range s.Protocols {
			out = append(out, p.WireVersion)
		}
	}
	sort.Ints(out)
	return out
}
