// Package fixture provides conformance-test fixture lookup.
//
// A fixture is the raw wire encoding of one class in one version, keyed by the
// version label and the class wire name without the common prefix
// ("of13/flow_add.data"). A missing fixture is a legitimate state: no test is
// generated for that pair.
//
// Three sources are provided:
//   - DirStore reads a directory tree laid out by Key.Path
//   - SQLiteStore reads a fixtures table in a SQLite database
//   - MemStore holds fixtures in memory (tests, in-process pipelines)
package fixture
