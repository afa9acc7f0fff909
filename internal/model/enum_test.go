package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bindgen/internal/ir"
	"github.com/roach88/bindgen/internal/naming"
	"github.com/roach88/bindgen/internal/testutil"
)

func int64p(v int64) *int64 { return &v }

func TestScenarioPortFeaturesAllValues(t *testing.T) {
	snap := testutil.NewSnapshot().
		Version(1, nil, testutil.Enum("port_features", "",
			testutil.Entry("OFPPF_PORT_DOWN", 1),
		)).
		Version(2, nil, testutil.Enum("port_features", "",
			testutil.Entry("OFPPF_PORT_DOWN", 1),
			testutil.Entry("OFPPF_PORT_LIVE", 0x1000),
		)).
		Build()
	m := buildModel(t, snap, WithConfig(bareConfig()))

	e, err := m.EnumByName("PortFeatures")
	require.NoError(t, err)

	entries := e.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "PORT_DOWN", entries[0].Name)
	assert.Equal(t, "PORT_LIVE", entries[1].Name)

	versions := []WireVersion{1, 2}
	assert.Equal(t, []*int64{int64p(1), int64p(1)}, entries[0].AllValues(versions))
	assert.Equal(t, []*int64{nil, int64p(0x1000)}, entries[1].AllValues(versions))
	assert.Equal(t, []int64{-1, 0x1000}, entries[1].AllValuesOr(versions, -1))
}

func TestEnumDropsVirtualEntries(t *testing.T) {
	snap := testutil.NewSnapshot().
		Version(1, nil, testutil.Enum("ofp_flow_mod_flags", "uint16_t",
			testutil.Entry("OFPFF_SEND_FLOW_REM", 1),
			testutil.VirtualEntry("OFPFF_ALL", 7),
		)).
		Build()
	m := buildModel(t, snap)

	e, err := m.EnumByWireName("ofp_flow_mod_flags")
	require.NoError(t, err)
	require.Len(t, e.Entries(), 1)
	assert.Equal(t, "SEND_FLOW_REM", e.Entries()[0].Name)

	_, err = e.EntryByWireName("OFPFF_ALL")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEnumBlacklists(t *testing.T) {
	snap := testutil.NewSnapshot().
		Version(1, nil,
			testutil.Enum("ofp_definitions", "", testutil.Entry("OFP_TCP_PORT", 6653)),
			testutil.Enum("ofp_flow_wildcards", "uint32_t",
				testutil.Entry("OFPFW_IN_PORT", 1),
				testutil.Entry("OFPFW_NW_SRC_SHIFT", 8),
				testutil.Entry("OFPFW_NW_SRC_BITS", 6),
			),
		).
		Build()
	m := buildModel(t, snap)

	require.Len(t, m.Enums(), 1)
	_, err := m.EnumByName("OFDefinitions")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.EnumByWireName("ofp_definitions")
	assert.ErrorIs(t, err, ErrNotFound)

	wc, err := m.EnumByName("OFFlowWildcards")
	require.NoError(t, err)
	require.Len(t, wc.Entries(), 1)
	assert.Equal(t, "IN_PORT", wc.Entries()[0].Name)
}

func TestEnumEntryPrefix(t *testing.T) {
	snap := testutil.NewSnapshot().
		Version(1, nil, testutil.Enum("ofp_port_features", "uint32_t",
			testutil.Entry("OFPPF_10MB_HD", 1),
		)).
		Build()
	m := buildModel(t, snap)

	e, err := m.EnumByName("OFPortFeatures")
	require.NoError(t, err)
	entry, err := e.EntryByName("PF_10MB_HD")
	require.NoError(t, err)
	assert.Equal(t, "OFPPF_10MB_HD", entry.WireName)
	assert.Same(t, e, entry.Enum())
}

func TestEnumUnionAcrossVersions(t *testing.T) {
	snap := testutil.NewSnapshot().
		Version(1, nil, testutil.Enum("ofp_port_reason", "",
			testutil.Entry("OFPPR_ADD", 0),
			testutil.Entry("OFPPR_DELETE", 1),
		)).
		Version(4, nil, testutil.Enum("ofp_port_reason", "uint8_t",
			testutil.Entry("OFPPR_MODIFY", 2),
			testutil.Entry("OFPPR_ADD", 0),
		)).
		Build()
	m := buildModel(t, snap)

	e, err := m.EnumByName("OFPortReason")
	require.NoError(t, err)

	var names []string
	for _, entry := range e.Entries() {
		names = append(names, entry.Name)
	}
	assert.Equal(t, []string{"ADD", "DELETE", "MODIFY"}, names)
	assert.Equal(t, []WireVersion{1, 4}, e.Versions())

	del, err := e.EntryByName("DELETE")
	require.NoError(t, err)
	assert.True(t, del.HasValue(1))
	assert.False(t, del.HasValue(4))
	v, ok := del.Value(1)
	assert.True(t, ok)
	assert.Equal(t, int64(1), v)

	modify, err := e.EntryByVersionValue(4, 2)
	require.NoError(t, err)
	assert.Equal(t, "MODIFY", modify.Name)

	_, err = e.EntryByVersionValue(1, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "OFPortReason")

	_, err = e.EntryByName("NOPE")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEnumWireTypeAndFormat(t *testing.T) {
	snap := testutil.NewSnapshot().
		Version(1, nil, testutil.Enum("ofp_port_features", "", testutil.Entry("OFPPF_PAUSE", 512))).
		Version(4, nil, testutil.Enum("ofp_port_features", "uint32_t", testutil.Entry("OFPPF_PAUSE", 8192))).
		Build()
	m := buildModel(t, snap)

	e, err := m.EnumByName("OFPortFeatures")
	require.NoError(t, err)
	assert.Equal(t, naming.U8, e.WireType(1))
	assert.Equal(t, naming.SemanticType{Name: "u32", Kind: naming.KindInt, Bits: 32}, e.WireType(4))
	assert.Equal(t, naming.U8, e.WireType(9))

	pause := e.Entries()[0]
	s, err := pause.FormatValue(4)
	require.NoError(t, err)
	assert.Equal(t, "0x2000", s)

	_, err = pause.FormatValue(2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEnumDuplicateEntryDiagnostic(t *testing.T) {
	snap := testutil.NewSnapshot().
		Version(1, nil, testutil.Enum("ofp_port_reason", "",
			testutil.Entry("OFPPR_ADD", 0),
			testutil.Entry("OFPPR_ADD", 3),
		)).
		Build()
	m := buildModel(t, snap)

	e, err := m.EnumByName("OFPortReason")
	require.NoError(t, err)
	v, ok := e.Entries()[0].Value(1)
	require.True(t, ok)
	assert.Equal(t, int64(0), v)

	diags := m.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, "OFPortReason", diags[0].Interface)
	assert.Contains(t, diags[0].Message, "duplicate enum entry")
}

func TestEnumsNeverExposeVirtualEntries(t *testing.T) {
	m := buildModel(t, richSnapshot())
	for _, e := range m.Enums() {
		for _, entry := range e.Entries() {
			for _, p := range m.snap.Protocols {
				for _, raw := range enumsByName(p.Enums)[e.WireName].Entries {
					if raw.Name == entry.WireName {
						assert.False(t, raw.Virtual, "%s.%s", e.Name, entry.Name)
					}
				}
			}
		}
	}
}

func enumsByName(enums []ir.Enum) map[string]ir.Enum {
	out := make(map[string]ir.Enum, len(enums))
	for _, e := range enums {
		out[e.Name] = e
	}
	return out
}
