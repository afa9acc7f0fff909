package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bindgen/internal/config"
	"github.com/roach88/bindgen/internal/ir"
	"github.com/roach88/bindgen/internal/naming"
	"github.com/roach88/bindgen/internal/testutil"
)

func classOf(t *testing.T, m *Model, name string, v WireVersion) *VersionedClass {
	t.Helper()
	iface, err := m.Interface(name)
	require.NoError(t, err)
	c, err := iface.VersionedClass(v)
	require.NoError(t, err)
	return c
}

func memberOf(t *testing.T, c *VersionedClass, name string) *Member {
	t.Helper()
	mem, err := c.Member(name)
	require.NoError(t, err)
	return mem
}

func portStatusSnapshot() *ir.Snapshot {
	return testutil.NewSnapshot().
		Version(1,
			[]ir.Class{testutil.Class("of_port_status",
				testutil.Data("version", "uint8_t"),
				testutil.Fixed("type", "uint8_t", 12),
				testutil.Length("len", "uint16_t"),
				testutil.Data("xid", "uint32_t"),
				testutil.Fixed("reason", "of_port_reason_t", 1),
				testutil.Pad(7),
				testutil.Data("desc", "of_port_desc_t"),
			)},
			testutil.Enum("ofp_port_reason", "",
				testutil.Entry("OFPPR_ADD", 0),
				testutil.Entry("OFPPR_DELETE", 1),
			),
		).
		Version(4,
			[]ir.Class{testutil.Class("of_port_status",
				testutil.Data("version", "uint8_t"),
				testutil.Fixed("type", "uint8_t", 12),
				testutil.Length("len", "uint16_t"),
				testutil.Data("xid", "uint32_t"),
				testutil.Fixed("reason", "of_port_reason_t", 7),
				testutil.Pad(7),
				testutil.Data("desc", "of_port_desc_t"),
			)},
			testutil.Enum("ofp_port_reason", "", testutil.Entry("OFPPR_ADD", 0)),
		).
		FixedLength("of_port_status", 1, 64).
		Build()
}

func TestMemberRoles(t *testing.T) {
	m := buildModel(t, portStatusSnapshot())
	c := classOf(t, m, "OFPortStatus", 1)

	members, err := c.Members()
	require.NoError(t, err)
	require.Len(t, members, 7)

	roles := make([]Role, len(members))
	for i, mem := range members {
		roles[i] = mem.Role
	}
	assert.Equal(t, []Role{RoleData, RoleFixed, RoleLength, RoleData, RoleFixed, RolePad, RoleData}, roles)

	pad := members[5]
	assert.True(t, pad.IsPad())
	assert.Equal(t, "", pad.Name)
	assert.False(t, pad.IsPublic())
	n, ok := pad.Length()
	assert.True(t, ok)
	assert.Equal(t, 7, n)
}

func TestMemberTypeKindWithoutValueIsData(t *testing.T) {
	snap := testutil.NewSnapshot().
		Version(1, []ir.Class{testutil.Class("of_thing",
			ir.Member{Name: "match", Type: "of_match_t", Kind: ir.KindType},
		)}).
		Build()
	m := buildModel(t, snap)
	match := memberOf(t, classOf(t, m, "OFThing", 1), "match")

	assert.Equal(t, RoleData, match.Role)
	assert.False(t, match.IsFixedValue())
	assert.True(t, match.IsData())
	assert.True(t, match.DefaultValue().IsNull())
}

func TestFixedRoleNeverDefaultsToNull(t *testing.T) {
	m := buildModel(t, richSnapshot())
	for _, iface := range m.Interfaces() {
		for _, c := range iface.VersionedClasses() {
			members, err := c.Members()
			require.NoError(t, err)
			for _, mem := range members {
				if mem.Role != RoleFixed {
					continue
				}
				assert.True(t, mem.IsFixedValue(), "%s.%s", c.Name(), mem.Name)
				assert.False(t, mem.DefaultValue().IsNull(), "%s.%s", c.Name(), mem.Name)
			}
		}
	}
}

func TestMemberLenRenamedToLength(t *testing.T) {
	m := buildModel(t, portStatusSnapshot())
	c := classOf(t, m, "OFPortStatus", 1)

	length := memberOf(t, c, "length")
	assert.Equal(t, "len", length.WireName)
	assert.True(t, length.IsLength())
	assert.Equal(t, "Length", length.TitleName())
	assert.Equal(t, "LEN", length.ConstantName())
}

func TestMemberFixedValues(t *testing.T) {
	m := buildModel(t, portStatusSnapshot())
	v1 := classOf(t, m, "OFPortStatus", 1)
	v4 := classOf(t, m, "OFPortStatus", 4)

	tests := []struct {
		name  string
		class *VersionedClass
		want  string
	}{
		{"version", v1, "Version.OF_10"},
		{"version", v4, "Version.OF_13"},
		{"type", v1, "12"},
		{"length", v1, "64"},
		{"reason", v1, "OFPortReason.DELETE"},
		{"reason", v4, "7"},
	}
	for _, tt := range tests {
		t.Run(tt.name+"@"+tt.class.Version.Label(), func(t *testing.T) {
			mem := memberOf(t, tt.class, tt.name)
			assert.True(t, mem.IsFixedValue())
			assert.False(t, mem.DefaultValue().IsNull())
			assert.Equal(t, tt.want, mem.DefaultValue().String())
			assert.Equal(t, mem.ConstantName(), mem.DefaultName())
		})
	}

	length := memberOf(t, v4, "length")
	assert.False(t, length.IsFixedValue())
	_, ok := length.FixedValue()
	assert.False(t, ok)
	assert.Equal(t, "DEFAULT_LEN", length.DefaultName())
}

func TestMemberUnresolvedEnumDegrades(t *testing.T) {
	m := buildModel(t, portStatusSnapshot())

	diags := m.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, "OFPortStatus", diags[0].Interface)
	assert.Equal(t, "reason", diags[0].Member)
	assert.Equal(t, WireVersion(4), diags[0].Version)
	assert.Contains(t, diags[0].Message, "enum value not found")
	assert.Contains(t, diags[0].String(), "OFPortStatus.reason (1.3)")

	reason := memberOf(t, classOf(t, m, "OFPortStatus", 4), "reason")
	lit, ok := reason.FixedValue()
	require.True(t, ok)
	assert.Equal(t, LiteralInt, lit.Kind)
	assert.Equal(t, int64(7), lit.Int)
}

func TestMemberDefaultValues(t *testing.T) {
	snap := testutil.NewSnapshot().
		Version(1, []ir.Class{testutil.Class("of_flow_stats_entry",
			testutil.Data("actions", "list(of_action_t)"),
			testutil.Data("strict", "of_bool_t"),
			testutil.Data("cookie", "uint64_t"),
			testutil.Data("match", "of_match_t"),
			testutil.Data("hw_addr", "of_mac_addr_t"),
		)}).
		Build()
	m := buildModel(t, snap)
	c := classOf(t, m, "OFFlowStatsEntry", 1)

	tests := []struct {
		name string
		kind LiteralKind
		want string
	}{
		{"actions", LiteralEmptyList, "[]"},
		{"strict", LiteralBool, "false"},
		{"cookie", LiteralInt, "0"},
		{"match", LiteralNull, "null"},
		{"hwAddr", LiteralNull, "null"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := memberOf(t, c, tt.name)
			assert.False(t, mem.IsFixedValue())
			assert.Equal(t, tt.kind, mem.DefaultValue().Kind)
			assert.Equal(t, tt.want, mem.DefaultValue().String())
			assert.Equal(t, "DEFAULT_"+mem.ConstantName(), mem.DefaultName())
		})
	}

	cookie := memberOf(t, c, "cookie")
	assert.Equal(t, 64, cookie.DefaultValue().Bits)
}

func TestMemberHexThreshold(t *testing.T) {
	snap := testutil.NewSnapshot().
		Version(1, []ir.Class{testutil.Class("of_bsn_header",
			testutil.Fixed("experimenter", "uint32_t", 0x5c16c7),
			testutil.Fixed("subtype", "uint32_t", 100),
		)}).
		Build()
	m := buildModel(t, snap)
	c := classOf(t, m, "OFBsnHeader", 1)

	assert.Equal(t, "0x5c16c7", memberOf(t, c, "experimenter").DefaultValue().String())
	assert.Equal(t, "100", memberOf(t, c, "subtype").DefaultValue().String())
}

func TestMemberTypeOverride(t *testing.T) {
	cfg := config.Default()
	cfg.TypeOverrides = map[string]naming.SemanticType{
		"of_port_status.reason": {Name: "OFPortReason", Kind: naming.KindReference},
	}
	snap := testutil.NewSnapshot().
		Version(1,
			[]ir.Class{testutil.Class("of_port_status", testutil.Fixed("reason", "uint8_t", 0))},
			testutil.Enum("ofp_port_reason", "", testutil.Entry("OFPPR_ADD", 0)),
		).
		Build()
	m := buildModel(t, snap, WithConfig(cfg))

	reason := memberOf(t, classOf(t, m, "OFPortStatus", 1), "reason")
	assert.Equal(t, "OFPortReason.ADD", reason.DefaultValue().String())
}

func TestMemberPredicates(t *testing.T) {
	snap := testutil.NewSnapshot().
		Version(1, []ir.Class{
			testutil.Class("of_action", testutil.Data("type", "uint16_t"), testutil.Length("len", "uint16_t")),
			testutil.Class("of_packet_out",
				testutil.Data("version", "uint8_t"),
				testutil.Length("length", "uint16_t"),
				testutil.Data("buffer_id", "uint32_t"),
				testutil.FieldLength("actions_len", "uint16_t", "actions"),
				testutil.Data("actions", "list(of_action_t)"),
			),
		}).
		Build()
	m := buildModel(t, snap)

	base := classOf(t, m, "OFAction", 1)
	baseType := memberOf(t, base, "type")
	assert.True(t, baseType.IsData())
	assert.False(t, baseType.IsWriteable(), "write blacklist")

	c := classOf(t, m, "OFPacketOut", 1)
	tests := []struct {
		name                              string
		data, public, writeable, fieldLen bool
	}{
		{"version", false, true, false, false},
		{"length", false, false, false, false},
		{"bufferId", true, true, true, false},
		{"actionsLen", false, true, false, true},
		{"actions", true, true, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := memberOf(t, c, tt.name)
			assert.Equal(t, tt.data, mem.IsData(), "data")
			assert.Equal(t, tt.public, mem.IsPublic(), "public")
			assert.Equal(t, tt.writeable, mem.IsWriteable(), "writeable")
			assert.Equal(t, tt.fieldLen, mem.IsFieldLength(), "field length")
		})
	}

	public, err := c.PublicMembers()
	require.NoError(t, err)
	assert.Equal(t, []string{"version", "bufferId", "actionsLen", "actions"}, memberNames(public))

	fixed, err := c.FixedValueMembers()
	require.NoError(t, err)
	assert.Equal(t, []string{"version"}, memberNames(fixed))
}

func TestMemberIsUniversal(t *testing.T) {
	snap := testutil.NewSnapshot().
		Version(1, []ir.Class{testutil.Class("of_hello", testutil.Data("xid", "uint32_t"))}).
		Version(2, []ir.Class{testutil.Alias("of_hello", 1)}).
		Version(3, []ir.Class{testutil.Class("of_hello",
			testutil.Data("xid", "uint32_t"),
			testutil.Data("elements", "list(of_hello_elem_t)"),
		)}).
		Version(4, []ir.Class{testutil.Class("of_echo_request", testutil.Data("xid", "uint32_t"))}).
		Build()
	m := buildModel(t, snap, WithConfig(bareConfig()))

	// of_hello is missing from version 4.
	hello := classOf(t, m, "OfHello", 3)
	assert.False(t, memberOf(t, hello, "xid").IsUniversal())

	snap = testutil.NewSnapshot().
		Version(1, []ir.Class{testutil.Class("of_hello", testutil.Data("xid", "uint32_t"))}).
		Version(2, []ir.Class{testutil.Alias("of_hello", 1)}).
		Version(3, []ir.Class{testutil.Class("of_hello",
			testutil.Data("xid", "uint32_t"),
			testutil.Data("elements", "list(of_hello_elem_t)"),
		)}).
		Build()
	m = buildModel(t, snap)

	hello = classOf(t, m, "OFHello", 3)
	assert.True(t, memberOf(t, hello, "xid").IsUniversal(), "alias version is skipped")
	assert.False(t, memberOf(t, hello, "elements").IsUniversal())

	iface, err := m.Interface("OFHello")
	require.NoError(t, err)
	union, err := iface.Members()
	require.NoError(t, err)
	assert.Equal(t, []string{"xid", "elements"}, memberNames(union))
	assert.Equal(t, WireVersion(1), union[0].Class().Version)
	assert.Equal(t, WireVersion(3), union[1].Class().Version)
}

func TestMemberLength(t *testing.T) {
	snap := testutil.NewSnapshot().
		Version(1, []ir.Class{testutil.Class("of_port_desc",
			testutil.Data("hw_addr", "of_mac_addr_t"),
			testutil.Data("name", "of_port_name_t"),
			testutil.Data("config", "uint32_t"),
			testutil.Data("pad2", "uint8_t[2]"),
			testutil.Data("props", "list(of_port_desc_prop_t)"),
		)}).
		Build()
	m := buildModel(t, snap)
	c := classOf(t, m, "OFPortDesc", 1)

	tests := []struct {
		name string
		n    int
		ok   bool
	}{
		{"hwAddr", 6, true},
		{"name", 16, true},
		{"config", 4, true},
		{"pad2", 2, true},
		{"props", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := memberOf(t, c, tt.name).Length()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.n, n)
		})
	}
}
