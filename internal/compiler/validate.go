package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/bindgen/internal/ir"
)

// Validation error codes (E200-E299)
const (
	// General validation errors (E200)
	ErrUnsupportedIRType = "E200" // unsupported IR type for validation

	// Protocol errors (E201-E207)
	ErrDuplicateClass       = "E201" // class defined twice in one version
	ErrDuplicateMember      = "E202" // member name repeated within a class
	ErrPadLength            = "E203" // pad member without positive length
	ErrFieldLengthNoField   = "E204" // field-length member without measured field
	ErrDuplicateEnum        = "E205" // enum defined twice in one version
	ErrDuplicateEnumEntry   = "E206" // entry name repeated within an enum
	ErrAliasSelf            = "E207" // alias target is the class's own version
	ErrAliasTargetMissing   = "E208" // alias target version does not define the class
	ErrDuplicateWireVersion = "E209" // two protocols share a wire version
	ErrTargetNoProtocol     = "E210" // target version without protocol
	ErrTypeNoValue          = "E211" // type member without a fixed value
)

// ValidationError represents a structural IR error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate validates compiled IR against structural rules.
// Returns all errors found (does not fail-fast).
// Supports Protocol and Snapshot types.
func Validate(v any) []ValidationError {
	switch val := v.(type) {
	case *ir.Protocol:
		return validateProtocol(val)
	case ir.Protocol:
		return validateProtocol(&val)
	case *ir.Snapshot:
		return validateSnapshot(val)
	default:
		return []ValidationError{{
			Field:   "type",
			Message: fmt.Sprintf("unsupported IR type: %T", v),
			Code:    ErrUnsupportedIRType,
		}}
	}
}

// validateProtocol checks one wire version in isolation.
func validateProtocol(p *ir.Protocol) []ValidationError {
	var errs []ValidationError
	prefix := fmt.Sprintf("protocol[%d]", p.WireVersion)

	classNames := make(map[string]bool)
	for i, c := range p.Classes {
		field := fmt.Sprintf("%s.classes[%d]", prefix, i)

		// E201: duplicate class
		if classNames[c.Name] {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: fmt.Sprintf("duplicate class name: %q", c.Name),
				Code:    ErrDuplicateClass,
			})
		}
		classNames[c.Name] = true

		// E207: a version cannot alias itself
		if c.UseVersion == p.WireVersion {
			errs = append(errs, ValidationError{
				Field:   field + ".use_version",
				Message: fmt.Sprintf("class %q aliases its own version %d", c.Name, c.UseVersion),
				Code:    ErrAliasSelf,
			})
		}

		errs = append(errs, validateMembers(c, field)...)
	}

	enumNames := make(map[string]bool)
	for i, e := range p.Enums {
		field := fmt.Sprintf("%s.enums[%d]", prefix, i)

		// E205: duplicate enum
		if enumNames[e.Name] {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: fmt.Sprintf("duplicate enum name: %q", e.Name),
				Code:    ErrDuplicateEnum,
			})
		}
		enumNames[e.Name] = true

		// E206: duplicate entry
		entryNames := make(map[string]bool)
		for j, entry := range e.Entries {
			if entryNames[entry.Name] {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("%s.entries[%d].name", field, j),
					Message: fmt.Sprintf("duplicate entry name in %s: %q", e.Name, entry.Name),
					Code:    ErrDuplicateEnumEntry,
				})
			}
			entryNames[entry.Name] = true
		}
	}

	return errs
}

func validateMembers(c ir.Class, field string) []ValidationError {
	var errs []ValidationError
	names := make(map[string]bool)
	for j, m := range c.Members {
		mfield := fmt.Sprintf("%s.members[%d]", field, j)

		switch m.Kind {
		case ir.KindPad:
			// E203: pad needs a byte count
			if m.Bytes <= 0 {
				errs = append(errs, ValidationError{
					Field:   mfield + ".length",
					Message: fmt.Sprintf("pad in %s must have a positive length", c.Name),
					Code:    ErrPadLength,
				})
			}
			continue
		case ir.KindFieldLength:
			// E204: field-length names what it measures
			if strings.TrimSpace(m.Field) == "" {
				errs = append(errs, ValidationError{
					Field:   mfield + ".field",
					Message: fmt.Sprintf("field-length member %q in %s must name a field", m.Name, c.Name),
					Code:    ErrFieldLengthNoField,
				})
			}
		case ir.KindType:
			// E211: a type member is a fixed value
			if !m.HasValue() {
				errs = append(errs, ValidationError{
					Field:   mfield + ".value",
					Message: fmt.Sprintf("type member %q in %s must have a value", m.Name, c.Name),
					Code:    ErrTypeNoValue,
				})
			}
		}

		// E202: duplicate member
		if names[m.Name] {
			errs = append(errs, ValidationError{
				Field:   mfield + ".name",
				Message: fmt.Sprintf("duplicate member name in %s: %q", c.Name, m.Name),
				Code:    ErrDuplicateMember,
			})
		}
		names[m.Name] = true
	}
	return errs
}

// validateSnapshot checks every protocol and the relations between them.
func validateSnapshot(s *ir.Snapshot) []ValidationError {
	var errs []ValidationError

	byVersion := make(map[int]*ir.Protocol, len(s.Protocols))
	for i := range s.Protocols {
		p := &s.Protocols[i]

		// E209: duplicate wire version
		if _, dup := byVersion[p.WireVersion]; dup {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("protocols[%d].wire_version", i),
				Message: fmt.Sprintf("duplicate wire version: %d", p.WireVersion),
				Code:    ErrDuplicateWireVersion,
			})
			continue
		}
		byVersion[p.WireVersion] = p
		errs = append(errs, validateProtocol(p)...)
	}

	// E210: target version without protocol
	for i, v := range s.Targets {
		if _, ok := byVersion[v]; !ok {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("targets[%d]", i),
				Message: fmt.Sprintf("target version %d has no protocol", v),
				Code:    ErrTargetNoProtocol,
			})
		}
	}

	// E208: alias target must define the class
	for _, p := range s.Sorted() {
		for i, c := range p.Classes {
			if !c.IsAlias() || c.UseVersion == p.WireVersion {
				continue
			}
			target, ok := byVersion[c.UseVersion]
			if !ok || !hasClass(target, c.Name) {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("protocol[%d].classes[%d].use_version", p.WireVersion, i),
					Message: fmt.Sprintf("class %q aliases version %d, which does not define it", c.Name, c.UseVersion),
					Code:    ErrAliasTargetMissing,
				})
			}
		}
	}

	return errs
}

func hasClass(p *ir.Protocol, name string) bool {
	for _, c := range p.Classes {
		if c.Name == name {
			return true
		}
	}
	return false
}
