// Package model builds the version-unified object model of a wire protocol.
//
// The input is one IR protocol per wire version (ir.Snapshot). The output is,
// for every logical protocol entity, an Interface describing its stable
// surface across versions, one VersionedClass per version realizing it, and
// the Members of each, with their roles and default values. Enums sharing a
// canonical name are unified into one Enum with sparse per-version values.
//
// # Build
//
//	m, err := model.Build(ctx, snapshot,
//	    model.WithConfig(cfg),
//	    model.WithLogger(logger),
//	    model.WithFixtures(fixture.NewDirStore("test_data")),
//	)
//
// Build groups the IR, then warms every derived view concurrently. Every view
// is a pure function of the snapshot and is computed at most once; the result
// is immutable and safe for concurrent reads.
//
// # Errors
//
// Lookups (EnumByName, EntryByName, ...) return a *NotFoundError matching
// ErrNotFound. Asking a dynamically sized class for its static length returns
// a *LengthError matching ErrDynamicLength; during Build such invariant
// violations abort the build with a *BuildError naming the class and version.
// An enum-qualified value without a matching entry degrades to the raw value
// and is recorded as a Diagnostic.
package model
