package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bindgen/internal/ir"
	"github.com/roach88/bindgen/internal/testutil"
)

// =============================================================================
// Protocol Validation Tests
// =============================================================================

func TestValidateProtocolValid(t *testing.T) {
	p := &ir.Protocol{
		WireVersion: 4,
		Classes: []ir.Class{
			testutil.Class("of_packet_out",
				testutil.Data("version", "uint8_t"),
				testutil.Length("length", "uint16_t"),
				testutil.FieldLength("actions_len", "uint16_t", "actions"),
				testutil.Pad(6),
				testutil.Pad(2),
				testutil.Data("actions", "list(of_action_t)"),
			),
			testutil.Alias("of_hello", 1),
		},
		Enums: []ir.Enum{
			testutil.Enum("ofp_port_reason", "", testutil.Entry("OFPPR_ADD", 0), testutil.Entry("OFPPR_DELETE", 1)),
		},
	}

	errs := Validate(p)
	assert.Empty(t, errs, "valid protocol should have no errors")
	assert.Empty(t, Validate(*p))
}

func TestValidateProtocolErrors(t *testing.T) {
	tests := []struct {
		name  string
		proto ir.Protocol
		code  string
		field string
	}{
		{
			name: "duplicate class",
			proto: ir.Protocol{WireVersion: 1, Classes: []ir.Class{
				testutil.Class("of_hello"), testutil.Class("of_hello"),
			}},
			code:  ErrDuplicateClass,
			field: "protocol[1].classes[1].name",
		},
		{
			name: "duplicate member",
			proto: ir.Protocol{WireVersion: 1, Classes: []ir.Class{
				testutil.Class("of_hello", testutil.Data("xid", "uint32_t"), testutil.Data("xid", "uint32_t")),
			}},
			code:  ErrDuplicateMember,
			field: "protocol[1].classes[0].members[1].name",
		},
		{
			name: "pad without length",
			proto: ir.Protocol{WireVersion: 1, Classes: []ir.Class{
				testutil.Class("of_hello", testutil.Pad(0)),
			}},
			code:  ErrPadLength,
			field: "protocol[1].classes[0].members[0].length",
		},
		{
			name: "field length without field",
			proto: ir.Protocol{WireVersion: 1, Classes: []ir.Class{
				testutil.Class("of_packet_out", testutil.FieldLength("actions_len", "uint16_t", "")),
			}},
			code:  ErrFieldLengthNoField,
			field: "protocol[1].classes[0].members[0].field",
		},
		{
			name: "duplicate enum",
			proto: ir.Protocol{WireVersion: 1, Enums: []ir.Enum{
				testutil.Enum("ofp_port_reason", ""), testutil.Enum("ofp_port_reason", ""),
			}},
			code:  ErrDuplicateEnum,
			field: "protocol[1].enums[1].name",
		},
		{
			name: "duplicate entry",
			proto: ir.Protocol{WireVersion: 1, Enums: []ir.Enum{
				testutil.Enum("ofp_port_reason", "", testutil.Entry("OFPPR_ADD", 0), testutil.Entry("OFPPR_ADD", 1)),
			}},
			code:  ErrDuplicateEnumEntry,
			field: "protocol[1].enums[0].entries[1].name",
		},
		{
			name: "type member without value",
			proto: ir.Protocol{WireVersion: 1, Classes: []ir.Class{
				testutil.Class("of_thing", ir.Member{Name: "match", Type: "of_match_t", Kind: ir.KindType}),
			}},
			code:  ErrTypeNoValue,
			field: "protocol[1].classes[0].members[0].value",
		},
		{
			name: "alias of own version",
			proto: ir.Protocol{WireVersion: 2, Classes: []ir.Class{
				testutil.Alias("of_hello", 2),
			}},
			code:  ErrAliasSelf,
			field: "protocol[2].classes[0].use_version",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(&tt.proto)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.code, errs[0].Code)
			assert.Equal(t, tt.field, errs[0].Field)
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	p := &ir.Protocol{WireVersion: 1, Classes: []ir.Class{
		testutil.Class("of_hello", testutil.Pad(0), testutil.Data("xid", "uint32_t"), testutil.Data("xid", "uint32_t")),
		testutil.Class("of_hello"),
	}}

	errs := Validate(p)
	codes := make([]string, len(errs))
	for i, e := range errs {
		codes[i] = e.Code
	}
	assert.ElementsMatch(t, []string{ErrPadLength, ErrDuplicateMember, ErrDuplicateClass}, codes)
}

// =============================================================================
// Snapshot Validation Tests
// =============================================================================

func TestValidateSnapshot(t *testing.T) {
	snap := testutil.NewSnapshot().
		Version(1, []ir.Class{testutil.Class("of_hello")}).
		Version(2, []ir.Class{testutil.Alias("of_hello", 1), testutil.Alias("of_echo_request", 1)}).
		Version(2, nil).
		Targets(1, 2, 5).
		Build()

	errs := Validate(snap)
	codes := make(map[string]string)
	for _, e := range errs {
		codes[e.Code] = e.Field
	}
	assert.Len(t, errs, 3)
	assert.Equal(t, "protocols[2].wire_version", codes[ErrDuplicateWireVersion])
	assert.Equal(t, "targets[2]", codes[ErrTargetNoProtocol])
	assert.Equal(t, "protocol[2].classes[1].use_version", codes[ErrAliasTargetMissing])
}

func TestValidateSnapshotValid(t *testing.T) {
	snap := testutil.NewSnapshot().
		Version(1, []ir.Class{testutil.Class("of_hello")}).
		Version(2, []ir.Class{testutil.Alias("of_hello", 1)}).
		Build()

	assert.Empty(t, Validate(snap))
}

func TestValidateUnsupportedType(t *testing.T) {
	errs := Validate("not ir")
	require.Len(t, errs, 1)
	assert.Equal(t, ErrUnsupportedIRType, errs[0].Code)
}

func TestValidationErrorString(t *testing.T) {
	err := ValidationError{Field: "protocol[1].classes[0].name", Message: "duplicate class name", Code: ErrDuplicateClass}
	assert.Equal(t, "[E201] protocol[1].classes[0].name: duplicate class name", err.Error())

	err.Line = 12
	assert.Equal(t, "[E201] line 12: protocol[1].classes[0].name: duplicate class name", err.Error())
}
