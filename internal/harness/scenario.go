package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario is a model conformance test loaded from YAML.
type Scenario struct {
	// Name is the unique identifier and golden file name.
	Name string `yaml:"name"`

	// Description explains what the scenario validates.
	Description string `yaml:"description"`

	// IR is the CUE file holding the IR snapshot.
	IR string `yaml:"ir"`

	// Config is an optional YAML or TOML override file.
	Config string `yaml:"config,omitempty"`

	// Fixtures is an optional fixture directory for unit-test data.
	Fixtures string `yaml:"fixtures,omitempty"`

	// Assertions are evaluated against the built model.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion checks one property of the built model.
type Assertion struct {
	// Type selects the check; see the Assert* constants.
	Type string `yaml:"type"`

	// Interface is the semantic interface name ("OFFlowAdd").
	Interface string `yaml:"interface,omitempty"`

	// Version is a wire version id. Zero means the unified interface.
	Version int `yaml:"version,omitempty"`

	// Member is the semantic member name (used by member_default).
	Member string `yaml:"member,omitempty"`

	// Filter narrows class_members: all, data, fixed or public.
	Filter string `yaml:"filter,omitempty"`

	// Members is the expected member name list, in order.
	Members []string `yaml:"members,omitempty"`

	// Interface properties (used by interface).
	Category  *string `yaml:"category,omitempty"`
	Parent    *string `yaml:"parent,omitempty"`
	Virtual   *bool   `yaml:"virtual,omitempty"`
	Universal *bool   `yaml:"universal,omitempty"`

	// Default is the expected rendered default literal (used by member_default).
	Default string `yaml:"default,omitempty"`

	// Enum and Entry select an enum entry (used by enum_values).
	Enum  string `yaml:"enum,omitempty"`
	Entry string `yaml:"entry,omitempty"`

	// Versions lists wire version ids; empty means every model version.
	Versions []int `yaml:"versions,omitempty"`

	// Values are the expected per-version values; null marks an absent version.
	Values []*int64 `yaml:"values,omitempty"`

	// Length is the expected static length (used by class_length).
	Length *int `yaml:"length,omitempty"`

	// Dynamic expects the class to have no static length (used by class_length).
	Dynamic bool `yaml:"dynamic,omitempty"`

	// Count is the expected number of diagnostics (used by diagnostics_count).
	Count *int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertInterface        = "interface"
	AssertUnionMembers     = "union_members"
	AssertClassMembers     = "class_members"
	AssertMemberDefault    = "member_default"
	AssertEnumValues       = "enum_values"
	AssertClassLength      = "class_length"
	AssertDiagnosticsCount = "diagnostics_count"
)

// Member filters accepted by class_members.
const (
	FilterAll    = "all"
	FilterData   = "data"
	FilterFixed  = "fixed"
	FilterPublic = "public"
)

// LoadScenario reads and parses a scenario YAML file.
// Relative IR, config and fixture paths resolve against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving relative paths against basePath.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Reject unknown fields so typos like "assertion:" fail loudly.
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	scenario.IR = resolve(basePath, scenario.IR)
	scenario.Config = resolve(basePath, scenario.Config)
	scenario.Fixtures = resolve(basePath, scenario.Fixtures)

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

func resolve(basePath, p string) string {
	if p == "" || filepath.IsAbs(p) || basePath == "" {
		return p
	}
	return filepath.Join(basePath, p)
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.IR == "" {
		return fmt.Errorf("ir is required")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for _, p := range []string{s.IR, s.Config, s.Fixtures} {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", p)
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertInterface, AssertUnionMembers:
		if a.Interface == "" {
			return fmt.Errorf("assertions[%d]: interface is required for %s", index, a.Type)
		}
	case AssertClassMembers:
		if a.Interface == "" || a.Version == 0 {
			return fmt.Errorf("assertions[%d]: interface and version are required for class_members", index)
		}
		switch a.Filter {
		case "", FilterAll, FilterData, FilterFixed, FilterPublic:
		default:
			return fmt.Errorf("assertions[%d]: unknown filter %q", index, a.Filter)
		}
	case AssertMemberDefault:
		if a.Interface == "" || a.Member == "" {
			return fmt.Errorf("assertions[%d]: interface and member are required for member_default", index)
		}
	case AssertEnumValues:
		if a.Enum == "" || a.Entry == "" {
			return fmt.Errorf("assertions[%d]: enum and entry are required for enum_values", index)
		}
		if len(a.Values) == 0 {
			return fmt.Errorf("assertions[%d]: values are required for enum_values", index)
		}
		if len(a.Versions) > 0 && len(a.Versions) != len(a.Values) {
			return fmt.Errorf("assertions[%d]: values must match versions for enum_values", index)
		}
	case AssertClassLength:
		if a.Interface == "" || a.Version == 0 {
			return fmt.Errorf("assertions[%d]: interface and version are required for class_length", index)
		}
		if a.Length == nil && !a.Dynamic {
			return fmt.Errorf("assertions[%d]: length or dynamic is required for class_length", index)
		}
	case AssertDiagnosticsCount:
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: non-negative count is required for diagnostics_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
