package compiler

import (
	"fmt"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/bindgen/internal/ir"
)

// Lengths holds the length tables of one protocol, keyed by class name.
type Lengths struct {
	Base  map[string]int
	Fixed map[string]bool
}

// CompileSnapshot parses a CUE value holding a complete IR snapshot:
//
//	targets: [1, 4]
//	protocol: of10: { wire_version: 1, classes: [...], enums: [...] }
//	protocol: of13: { wire_version: 4, classes: [...], enums: [...] }
//
// Protocols are added in label order; the model orders them by wire version.
func CompileSnapshot(v cue.Value) (*ir.Snapshot, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	snap := ir.NewSnapshot()

	protoVal := v.LookupPath(cue.ParsePath("protocol"))
	if !protoVal.Exists() {
		return nil, &CompileError{
			Field:   "protocol",
			Message: "at least one protocol is required",
			Pos:     v.Pos(),
		}
	}
	iter, err := protoVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		p, lengths, err := CompileProtocol(iter.Value())
		if err != nil {
			return nil, err
		}
		snap.AddProtocol(*p, lengths.Base, lengths.Fixed)
	}

	targetsVal := v.LookupPath(cue.ParsePath("targets"))
	if targetsVal.Exists() {
		targets, err := intList(targetsVal)
		if err != nil {
			return nil, err
		}
		snap.Targets = targets
	}

	return snap, nil
}

// CompileProtocol parses one protocol struct into the IR of its wire version.
func CompileProtocol(v cue.Value) (*ir.Protocol, Lengths, error) {
	lengths := Lengths{Base: make(map[string]int), Fixed: make(map[string]bool)}
	if err := v.Err(); err != nil {
		return nil, lengths, formatCUEError(err)
	}

	wvVal := v.LookupPath(cue.ParsePath("wire_version"))
	if !wvVal.Exists() {
		return nil, lengths, &CompileError{
			Field:   "wire_version",
			Message: "wire_version is required",
			Pos:     v.Pos(),
		}
	}
	wv, err := wvVal.Int64()
	if err != nil {
		return nil, lengths, formatCUEError(err)
	}
	if wv < 1 {
		return nil, lengths, &CompileError{
			Field:   "wire_version",
			Message: fmt.Sprintf("wire_version must be >= 1, got %d", wv),
			Pos:     wvVal.Pos(),
		}
	}

	p := &ir.Protocol{WireVersion: int(wv)}

	classesVal := v.LookupPath(cue.ParsePath("classes"))
	if classesVal.Exists() {
		iter, err := classesVal.List()
		if err != nil {
			return nil, lengths, formatCUEError(err)
		}
		for iter.Next() {
			c, err := parseClass(iter.Value(), lengths)
			if err != nil {
				return nil, lengths, err
			}
			p.Classes = append(p.Classes, c)
		}
	}

	enumsVal := v.LookupPath(cue.ParsePath("enums"))
	if enumsVal.Exists() {
		iter, err := enumsVal.List()
		if err != nil {
			return nil, lengths, formatCUEError(err)
		}
		for iter.Next() {
			e, err := parseEnum(iter.Value())
			if err != nil {
				return nil, lengths, err
			}
			p.Enums = append(p.Enums, e)
		}
	}

	return p, lengths, nil
}

func parseClass(v cue.Value, lengths Lengths) (ir.Class, error) {
	name, err := requiredString(v, "name", "class")
	if err != nil {
		return ir.Class{}, err
	}
	c := ir.Class{Name: name}

	if n, ok, err := optionalInt(v, "base_length"); err != nil {
		return c, err
	} else if ok {
		lengths.Base[name] = int(n)
	}
	if fixed, ok, err := optionalBool(v, "fixed_length"); err != nil {
		return c, err
	} else if ok && fixed {
		lengths.Fixed[name] = true
	}
	if uv, ok, err := optionalInt(v, "use_version"); err != nil {
		return c, err
	} else if ok {
		c.UseVersion = int(uv)
	}

	membersVal := v.LookupPath(cue.ParsePath("members"))
	if membersVal.Exists() {
		iter, err := membersVal.List()
		if err != nil {
			return c, formatCUEError(err)
		}
		for iter.Next() {
			m, err := parseMember(iter.Value(), name)
			if err != nil {
				return c, err
			}
			c.Members = append(c.Members, m)
		}
	}
	return c, nil
}

func parseMember(v cue.Value, className string) (ir.Member, error) {
	var m ir.Member
	var err error

	if m.Name, _, err = optionalString(v, "name"); err != nil {
		return m, err
	}
	if m.Type, _, err = optionalString(v, "type"); err != nil {
		return m, err
	}
	if m.Field, _, err = optionalString(v, "field"); err != nil {
		return m, err
	}
	if n, ok, err := optionalInt(v, "length"); err != nil {
		return m, err
	} else if ok {
		m.Bytes = int(n)
	}
	if val, ok, err := optionalInt(v, "value"); err != nil {
		return m, err
	} else if ok {
		m.Value = &val
	}

	kind, ok, err := optionalString(v, "kind")
	if err != nil {
		return m, err
	}
	switch {
	case ok:
		m.Kind = ir.MemberKind(kind)
	case m.HasValue():
		m.Kind = ir.KindType
	default:
		m.Kind = ir.KindData
	}
	if !ir.ValidMemberKinds[m.Kind] {
		return m, &CompileError{
			Field:   fmt.Sprintf("%s.%s.kind", className, m.Name),
			Message: fmt.Sprintf("invalid member kind %q", kind),
			Pos:     v.Pos(),
		}
	}
	if m.Kind != ir.KindPad && m.Name == "" {
		return m, &CompileError{
			Field:   className + ".members",
			Message: "member name is required",
			Pos:     v.Pos(),
		}
	}
	return m, nil
}

func parseEnum(v cue.Value) (ir.Enum, error) {
	name, err := requiredString(v, "name", "enum")
	if err != nil {
		return ir.Enum{}, err
	}
	e := ir.Enum{Name: name}
	if e.WireType, _, err = optionalString(v, "wire_type"); err != nil {
		return e, err
	}

	entriesVal := v.LookupPath(cue.ParsePath("entries"))
	if !entriesVal.Exists() {
		return e, nil
	}
	iter, err := entriesVal.List()
	if err != nil {
		return e, formatCUEError(err)
	}
	for iter.Next() {
		ev := iter.Value()
		entryName, err := requiredString(ev, "name", name+".entries")
		if err != nil {
			return e, err
		}
		value, ok, err := optionalInt(ev, "value")
		if err != nil {
			return e, err
		}
		if !ok {
			return e, &CompileError{
				Field:   fmt.Sprintf("%s.%s.value", name, entryName),
				Message: "enum entry value is required",
				Pos:     ev.Pos(),
			}
		}
		virtual, _, err := optionalBool(ev, "virtual")
		if err != nil {
			return e, err
		}
		e.Entries = append(e.Entries, ir.EnumEntry{Name: entryName, Value: value, Virtual: virtual})
	}
	return e, nil
}

func requiredString(v cue.Value, field, scope string) (string, error) {
	s, ok, err := optionalString(v, field)
	if err != nil {
		return "", err
	}
	if !ok || s == "" {
		return "", &CompileError{
			Field:   scope + "." + field,
			Message: field + " is required",
			Pos:     v.Pos(),
		}
	}
	return s, nil
}

func optionalString(v cue.Value, field string) (string, bool, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", false, nil
	}
	s, err := fv.String()
	if err != nil {
		return "", false, formatCUEError(err)
	}
	return s, true, nil
}

func optionalInt(v cue.Value, field string) (int64, bool, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return 0, false, nil
	}
	n, err := fv.Int64()
	if err != nil {
		return 0, false, formatCUEError(err)
	}
	return n, true, nil
}

func optionalBool(v cue.Value, field string) (bool, bool, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return false, false, nil
	}
	b, err := fv.Bool()
	if err != nil {
		return false, false, formatCUEError(err)
	}
	return b, true, nil
}

func intList(v cue.Value) ([]int, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []int
	for iter.Next() {
		n, err := iter.Value().Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, int(n))
	}
	sort.Ints(out)
	return out, nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
