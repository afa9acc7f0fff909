package naming

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Convention converts wire identifiers into semantic identifiers.
type Convention struct {
	// WirePrefix is stripped from class wire names ("of_").
	WirePrefix string
	// TypePrefix is prepended to every generated type name ("OF").
	TypePrefix string
	// EnumWirePrefix is stripped from enum wire names ("ofp_").
	EnumWirePrefix string
}

// DefaultConvention returns the OpenFlow naming convention.
func DefaultConvention() Convention {
	return Convention{
		WirePrefix:     "of_",
		TypePrefix:     "OF",
		EnumWirePrefix: "ofp_",
	}
}

// ShortName strips the common wire prefix: "of_flow_add" -> "flow_add".
func (c Convention) ShortName(wire string) string {
	return strings.TrimPrefix(wire, c.WirePrefix)
}

// TypeName converts a class wire name: "of_flow_add" -> "OFFlowAdd".
func (c Convention) TypeName(wire string) string {
	return c.TypePrefix + CapsCamel(c.ShortName(wire))
}

// EnumName converts an enum wire name: "ofp_port_features" -> "OFPortFeatures".
func (c Convention) EnumName(wire string) string {
	return c.TypePrefix + CapsCamel(strings.TrimPrefix(wire, c.EnumWirePrefix))
}

// EnumEntryName strips the leading token of an enum constant and uppercases
// the rest: "OFPPF_10MB_HD" -> "10MB_HD". Single-token names are kept.
func (c Convention) EnumEntryName(wire string) string {
	if _, rest, ok := strings.Cut(wire, "_"); ok && rest != "" {
		return strings.ToUpper(rest)
	}
	return strings.ToUpper(wire)
}

// MemberName converts a member wire name: "buffer_id" -> "bufferId".
func (c Convention) MemberName(wire string) string {
	return Camel(wire)
}

// VariableName lowers the first letter of a type name after its prefix:
// "OFFlowAdd" -> "flowAdd".
func (c Convention) VariableName(typeName string) string {
	rest := strings.TrimPrefix(typeName, c.TypePrefix)
	if rest == "" {
		return rest
	}
	return strings.ToLower(rest[:1]) + rest[1:]
}

// CapsCamel converts an underscore separated identifier to CapsCamel.
func CapsCamel(s string) string {
	caser := cases.Title(language.Und)
	var b strings.Builder
	for _, word := range strings.Split(s, "_") {
		if word == "" {
			continue
		}
		b.WriteString(caser.String(word))
	}
	return b.String()
}

// Camel converts an underscore separated identifier to camelCase.
func Camel(s string) string {
	caps := CapsCamel(s)
	if caps == "" {
		return caps
	}
	return strings.ToLower(caps[:1]) + caps[1:]
}
