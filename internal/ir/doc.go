// Package ir provides the per-version intermediate representation consumed by
// the model builder.
//
// One Protocol holds every class and enum definition of a single wire version.
// A Snapshot groups the protocols of all versions together with the fixed-length
// tables and the target version list.
//
// This package contains type definitions and serialization helpers only. All
// other internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Order is significant everywhere: classes, members, enums and entries keep
//     their declaration order
//   - Wire values are int64, never floats
//   - All JSON tags use snake_case
package ir
