package model

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/bindgen/internal/ir"
)

// fingerprintSpace is the UUID namespace of model fingerprints.
var fingerprintSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/roach88/bindgen/model"))

// Document renders the model as a canonical-JSON-ready tree.
// Interfaces, classes and enums keep model order; only object keys are sorted
// on serialization.
func (m *Model) Document() (map[string]any, error) {
	ifaces := make([]any, 0, len(m.Interfaces()))
	for _, iface := range m.Interfaces() {
		doc, err := interfaceDocument(iface)
		if err != nil {
			return nil, err
		}
		ifaces = append(ifaces, doc)
	}

	enums := make([]any, 0, len(m.Enums()))
	for _, e := range m.Enums() {
		enums = append(enums, enumDocument(e))
	}

	factory := m.Factory()
	factoryClasses := make([]any, 0, len(factory.Classes))
	for _, fc := range factory.Classes {
		names := make([]string, len(fc.Classes))
		for i, c := range fc.Classes {
			names[i] = c.Name()
		}
		factoryClasses = append(factoryClasses, map[string]any{
			"name":      fc.Name,
			"namespace": fc.Namespace,
			"version":   fc.Version.Label(),
			"classes":   names,
		})
	}

	diags := m.Diagnostics()
	diagDocs := make([]string, len(diags))
	for i, d := range diags {
		diagDocs[i] = d.String()
	}

	return map[string]any{
		"ir_version":        ir.IRVersion,
		"generator_version": ir.GeneratorVersion,
		"versions":          versionLabels(m.versions),
		"interfaces":        ifaces,
		"enums":             enums,
		"factory": map[string]any{
			"name":    factory.Name,
			"classes": factoryClasses,
		},
		"diagnostics": diagDocs,
	}, nil
}

func interfaceDocument(iface *Interface) (map[string]any, error) {
	union, err := iface.Members()
	if err != nil {
		return nil, err
	}
	classes := make([]any, 0, len(iface.versions))
	for _, v := range iface.versions {
		c := iface.classes[v]
		members, err := c.Members()
		if err != nil {
			return nil, &BuildError{Name: iface.WireName, Version: v, Err: err}
		}
		doc := map[string]any{
			"name":         c.Name(),
			"version":      v.Label(),
			"fixed_length": c.IsFixedLength(),
			"min_length":   c.MinLength(),
			"members":      memberDocuments(members),
			"test_data":    c.UnitTest().DataFile(),
			"generate":     iface.model.ShouldGenerate(c),
		}
		if target, ok := c.AliasOf(); ok {
			doc["alias_of"] = target.Label()
		}
		if n, err := c.Length(); err == nil {
			doc["length"] = n
		}
		classes = append(classes, doc)
	}

	return map[string]any{
		"name":      iface.Name,
		"wire_name": iface.WireName,
		"category":  string(iface.Category()),
		"namespace": iface.Namespace(),
		"parent":    iface.Parent(),
		"virtual":   iface.IsVirtual(),
		"universal": iface.IsUniversal(),
		"versions":  versionLabels(iface.versions),
		"members":   memberDocuments(union),
		"classes":   classes,
	}, nil
}

func memberDocuments(members []*Member) []any {
	out := make([]any, 0, len(members))
	for _, m := range members {
		doc := map[string]any{
			"name":      m.Name,
			"wire_name": m.WireName,
			"role":      m.Role.String(),
			"type":      m.Type.Name,
			"default":   m.DefaultValue().String(),
			"fixed":     m.IsFixedValue(),
			"data":      m.IsData(),
			"public":    m.IsPublic(),
			"writeable": m.IsWriteable(),
			"universal": m.IsUniversal(),
		}
		if n, ok := m.Length(); ok {
			doc["length"] = n
		}
		out = append(out, doc)
	}
	return out
}

func enumDocument(e *Enum) map[string]any {
	entries := make([]any, 0, len(e.entries))
	for _, entry := range e.entries {
		values := make(map[string]any, len(entry.values))
		for _, v := range e.versions {
			if s, err := entry.FormatValue(v); err == nil {
				values[v.Label()] = s
			}
		}
		entries = append(entries, map[string]any{
			"name":      entry.Name,
			"wire_name": entry.WireName,
			"values":    values,
		})
	}
	wireTypes := make(map[string]any, len(e.versions))
	for _, v := range e.versions {
		wireTypes[v.Label()] = e.WireType(v).Name
	}
	return map[string]any{
		"name":       e.Name,
		"wire_name":  e.WireName,
		"versions":   versionLabels(e.versions),
		"wire_types": wireTypes,
		"entries":    entries,
	}
}

// MarshalDocument returns the canonical JSON bytes of Document.
func (m *Model) MarshalDocument() ([]byte, error) {
	doc, err := m.Document()
	if err != nil {
		return nil, err
	}
	data, err := ir.MarshalCanonical(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal model document: %w", err)
	}
	return data, nil
}

// Digest is the domain-separated SHA-256 of the canonical model document.
func (m *Model) Digest() (string, error) {
	data, err := m.MarshalDocument()
	if err != nil {
		return "", err
	}
	return ir.HashWithDomain(ir.DomainModel, data), nil
}

// Fingerprint is a name-based UUID of the canonical model document. Equal
// models have equal fingerprints.
func (m *Model) Fingerprint() (uuid.UUID, error) {
	data, err := m.MarshalDocument()
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.NewSHA1(fingerprintSpace, data), nil
}
