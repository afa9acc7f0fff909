// Package testutil provides IR builders and helpers shared by tests.
package testutil

import (
	"io"
	"log/slog"

	"github.com/roach88/bindgen/internal/ir"
)

// Data builds a data member.
func Data(name, wireType string) ir.Member {
	return ir.Member{Name: name, Type: wireType, Kind: ir.KindData}
}

// Fixed builds a discriminant member with a fixed value.
func Fixed(name, wireType string, value int64) ir.Member {
	return ir.Member{Name: name, Type: wireType, Kind: ir.KindType, Value: &value}
}

// Length builds a total-length member.
func Length(name, wireType string) ir.Member {
	return ir.Member{Name: name, Type: wireType, Kind: ir.KindLength}
}

// FieldLength builds a member carrying the length of field.
func FieldLength(name, wireType, field string) ir.Member {
	return ir.Member{Name: name, Type: wireType, Kind: ir.KindFieldLength, Field: field}
}

// Pad builds a padding member of n bytes.
func Pad(n int) ir.Member {
	return ir.Member{Kind: ir.KindPad, Bytes: n}
}

// Class builds a class definition.
func Class(name string, members ...ir.Member) ir.Class {
	return ir.Class{Name: name, Members: members}
}

// Alias builds a class that reuses the encoding of another version.
func Alias(name string, useVersion int, members ...ir.Member) ir.Class {
	return ir.Class{Name: name, Members: members, UseVersion: useVersion}
}

// Entry builds an enum entry.
func Entry(name string, value int64) ir.EnumEntry {
	return ir.EnumEntry{Name: name, Value: value}
}

// VirtualEntry builds an enum entry tagged virtual.
func VirtualEntry(name string, value int64) ir.EnumEntry {
	return ir.EnumEntry{Name: name, Value: value, Virtual: true}
}

// Enum builds an enum definition.
func Enum(name, wireType string, entries ...ir.EnumEntry) ir.Enum {
	return ir.Enum{Name: name, WireType: wireType, Entries: entries}
}

// SnapshotBuilder assembles an ir.Snapshot version by version.
type SnapshotBuilder struct {
	snap *ir.Snapshot
}

// NewSnapshot starts an empty snapshot.
func NewSnapshot() *SnapshotBuilder {
	return &SnapshotBuilder{snap: ir.NewSnapshot()}
}

// Version adds a protocol for a wire version.
func (b *SnapshotBuilder) Version(version int, classes []ir.Class, enums ...ir.Enum) *SnapshotBuilder {
	b.snap.AddProtocol(ir.Protocol{WireVersion: version, Classes: classes, Enums: enums}, nil, nil)
	return b
}

// FixedLength marks a class as statically sized in a version.
func (b *SnapshotBuilder) FixedLength(name string, version, length int) *SnapshotBuilder {
	key := ir.ClassKey{Name: name, Version: version}
	b.snap.BaseLength[key] = length
	b.snap.FixedLength[key] = true
	return b
}

// MinLength records a base length without marking the class fixed.
func (b *SnapshotBuilder) MinLength(name string, version, length int) *SnapshotBuilder {
	b.snap.BaseLength[ir.ClassKey{Name: name, Version: version}] = length
	return b
}

// Targets sets the target version list.
func (b *SnapshotBuilder) Targets(versions ...int) *SnapshotBuilder {
	b.snap.Targets = versions
	return b
}

// Build returns the snapshot.
func (b *SnapshotBuilder) Build() *ir.Snapshot {
	return b.snap
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
