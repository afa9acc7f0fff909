package harness

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/roach88/bindgen/internal/model"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Subject  string // Interface, class or enum entry under test
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s", e.Type)
	if e.Subject != "" {
		fmt.Fprintf(&buf, " (%s)", e.Subject)
	}
	fmt.Fprintf(&buf, "\n  Expected: %s\n  Actual: %s", e.Expected, e.Actual)
	return buf.String()
}

// EvaluateAssertion checks one assertion against a built model.
// Lookup failures are returned as plain errors; mismatches as *AssertionError.
func EvaluateAssertion(m *model.Model, a Assertion) error {
	switch a.Type {
	case AssertInterface:
		return assertInterface(m, a)
	case AssertUnionMembers:
		return assertUnionMembers(m, a)
	case AssertClassMembers:
		return assertClassMembers(m, a)
	case AssertMemberDefault:
		return assertMemberDefault(m, a)
	case AssertEnumValues:
		return assertEnumValues(m, a)
	case AssertClassLength:
		return assertClassLength(m, a)
	case AssertDiagnosticsCount:
		return assertDiagnosticsCount(m, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertInterface checks the classification and version coverage of an interface.
func assertInterface(m *model.Model, a Assertion) error {
	iface, err := m.Interface(a.Interface)
	if err != nil {
		return err
	}

	mismatch := func(field, want, got string) error {
		return &AssertionError{
			Type:     AssertInterface,
			Subject:  a.Interface,
			Expected: field + " " + want,
			Actual:   field + " " + got,
		}
	}

	if a.Category != nil && string(iface.Category()) != *a.Category {
		return mismatch("category", strconv.Quote(*a.Category), strconv.Quote(string(iface.Category())))
	}
	if a.Parent != nil && iface.Parent() != *a.Parent {
		return mismatch("parent", strconv.Quote(*a.Parent), strconv.Quote(iface.Parent()))
	}
	if a.Virtual != nil && iface.IsVirtual() != *a.Virtual {
		return mismatch("virtual", strconv.FormatBool(*a.Virtual), strconv.FormatBool(iface.IsVirtual()))
	}
	if a.Universal != nil && iface.IsUniversal() != *a.Universal {
		return mismatch("universal", strconv.FormatBool(*a.Universal), strconv.FormatBool(iface.IsUniversal()))
	}
	return nil
}

// assertUnionMembers checks the unified member list of an interface, in order.
func assertUnionMembers(m *model.Model, a Assertion) error {
	iface, err := m.Interface(a.Interface)
	if err != nil {
		return err
	}
	members, err := iface.Members()
	if err != nil {
		return err
	}
	return compareNames(AssertUnionMembers, a.Interface, a.Members, members)
}

// assertClassMembers checks a filtered member view of one versioned class.
func assertClassMembers(m *model.Model, a Assertion) error {
	c, err := versionedClass(m, a)
	if err != nil {
		return err
	}

	var members []*model.Member
	switch a.Filter {
	case "", FilterAll:
		members, err = c.Members()
	case FilterData:
		members, err = c.DataMembers()
	case FilterFixed:
		members, err = c.FixedValueMembers()
	case FilterPublic:
		members, err = c.PublicMembers()
	default:
		return fmt.Errorf("unknown filter %q", a.Filter)
	}
	if err != nil {
		return err
	}
	return compareNames(AssertClassMembers, c.Name(), a.Members, members)
}

// assertMemberDefault checks the rendered default literal of a member. Without
// a version the unified member is used.
func assertMemberDefault(m *model.Model, a Assertion) error {
	iface, err := m.Interface(a.Interface)
	if err != nil {
		return err
	}

	subject := a.Interface + "." + a.Member
	var member *model.Member
	if a.Version == 0 {
		member, err = iface.Member(a.Member)
	} else {
		var c *model.VersionedClass
		c, err = iface.VersionedClass(model.WireVersion(a.Version))
		if err != nil {
			return err
		}
		subject = c.Name() + "." + a.Member
		member, err = c.Member(a.Member)
	}
	if err != nil {
		return err
	}

	if got := member.DefaultValue().String(); got != a.Default {
		return &AssertionError{
			Type:     AssertMemberDefault,
			Subject:  subject,
			Expected: a.Default,
			Actual:   got,
		}
	}
	return nil
}

// assertEnumValues checks the per-version values of an enum entry.
func assertEnumValues(m *model.Model, a Assertion) error {
	e, err := m.EnumByName(a.Enum)
	if err != nil {
		return err
	}
	entry, err := e.EntryByName(a.Entry)
	if err != nil {
		return err
	}

	versions := m.Versions()
	if len(a.Versions) > 0 {
		versions = make([]model.WireVersion, len(a.Versions))
		for i, v := range a.Versions {
			versions[i] = model.WireVersion(v)
		}
	}

	got := entry.AllValues(versions)
	if diff := cmp.Diff(a.Values, got); diff != "" {
		return &AssertionError{
			Type:     AssertEnumValues,
			Subject:  a.Enum + "." + a.Entry,
			Expected: formatValues(a.Values),
			Actual:   formatValues(got) + "\n" + diff,
		}
	}
	return nil
}

// assertClassLength checks the static length of a versioned class, or its absence.
func assertClassLength(m *model.Model, a Assertion) error {
	c, err := versionedClass(m, a)
	if err != nil {
		return err
	}

	length, err := c.Length()
	if a.Dynamic {
		if errors.Is(err, model.ErrDynamicLength) {
			return nil
		}
		if err != nil {
			return err
		}
		return &AssertionError{
			Type:     AssertClassLength,
			Subject:  c.Name(),
			Expected: "dynamic length",
			Actual:   fmt.Sprintf("fixed length %d", length),
		}
	}

	if err != nil {
		return &AssertionError{
			Type:     AssertClassLength,
			Subject:  c.Name(),
			Expected: fmt.Sprintf("fixed length %d", *a.Length),
			Actual:   err.Error(),
		}
	}
	if length != *a.Length {
		return &AssertionError{
			Type:     AssertClassLength,
			Subject:  c.Name(),
			Expected: fmt.Sprintf("fixed length %d", *a.Length),
			Actual:   fmt.Sprintf("fixed length %d", length),
		}
	}
	return nil
}

// assertDiagnosticsCount checks how many degraded resolutions the build recorded.
func assertDiagnosticsCount(m *model.Model, a Assertion) error {
	diags := m.Diagnostics()
	if len(diags) == *a.Count {
		return nil
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = d.String()
	}
	return &AssertionError{
		Type:     AssertDiagnosticsCount,
		Expected: fmt.Sprintf("%d diagnostics", *a.Count),
		Actual:   fmt.Sprintf("%d diagnostics %v", len(diags), lines),
	}
}

func versionedClass(m *model.Model, a Assertion) (*model.VersionedClass, error) {
	iface, err := m.Interface(a.Interface)
	if err != nil {
		return nil, err
	}
	return iface.VersionedClass(model.WireVersion(a.Version))
}

func compareNames(typ, subject string, want []string, members []*model.Member) error {
	got := make([]string, len(members))
	for i, mem := range members {
		got[i] = mem.Name
	}
	if want == nil {
		want = []string{}
	}
	if cmp.Equal(want, got) {
		return nil
	}
	return &AssertionError{
		Type:     typ,
		Subject:  subject,
		Expected: fmt.Sprintf("%v", want),
		Actual:   fmt.Sprintf("%v", got),
	}
}

func formatValues(values []*int64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		if v == nil {
			parts[i] = "null"
			continue
		}
		parts[i] = strconv.FormatInt(*v, 10)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
