// Package harness provides conformance testing for built protocol models.
//
// A scenario names a CUE IR file, optional override config and fixture
// directory, and a list of assertions over the model built from them.
//
// # Scenario Format
//
//	name: flow_add
//	description: "Flow add unifies across OF 1.0 and 1.3"
//	ir: ir/openflow.cue
//	config: bindgen.yaml        # optional, YAML or TOML
//	fixtures: fixtures          # optional
//	assertions:
//	  - type: interface
//	    interface: OFFlowAdd
//	    category: flow_mod
//	    parent: OFFlowMod
//	  - type: union_members
//	    interface: OFFlowAdd
//	    members: [xid, cookie]
//	  - type: enum_values
//	    enum: OFPortFeatures
//	    entry: PF_10MB_HD
//	    versions: [1, 4]
//	    values: [1, null]
//
// Relative paths resolve against the scenario file's directory.
//
// # Assertion Types
//
//   - interface: category, parent, virtual and universal flags of an interface
//   - union_members: the ordered union member names of an interface
//   - class_members: a filtered member view (all, data, fixed, public) of one version
//   - member_default: the rendered default literal of a member
//   - enum_values: per-version values of an enum entry, null where undefined
//   - class_length: the static length of a versioned class, or dynamic
//   - diagnostics_count: the number of degraded resolutions recorded by the build
//
// # Golden Files
//
// RunWithGolden compares the canonical model document against
// testdata/golden/{name}.golden. Run with -update to regenerate.
package harness
