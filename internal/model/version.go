package model

import (
	"cmp"
	"fmt"
	"strconv"
)

// WireVersion identifies one protocol wire version.
// Equality, hashing and ordering use the integer id only.
type WireVersion int

// ID returns the integer wire version.
func (v WireVersion) ID() int {
	return int(v)
}

// Label is the compact version name: wire version 4 -> "13".
func (v WireVersion) Label() string {
	return "1" + strconv.Itoa(int(v)-1)
}

// String is the display name: wire version 4 -> "1.3".
func (v WireVersion) String() string {
	return fmt.Sprintf("1.%d", int(v)-1)
}

// Qualified is the display name followed by the wire id: "1.3 (wire 4)".
func (v WireVersion) Qualified() string {
	return fmt.Sprintf("%s (wire %d)", v, int(v))
}

// ConstantName is the symbolic constant: wire version 4 -> "OF_13".
func (v WireVersion) ConstantName() string {
	return "OF_" + v.Label()
}

// Compare orders versions by id.
func (v WireVersion) Compare(o WireVersion) int {
	return cmp.Compare(v, o)
}

func versionLabels(vs []WireVersion) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Label()
	}
	return out
}
