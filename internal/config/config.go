// Package config loads the override tables of the model builder.
//
// Defaults reproduce the OpenFlow tables; a YAML or TOML file replaces any
// field it sets.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/roach88/bindgen/internal/naming"
)

// Config holds every table the model builder consults.
type Config struct {
	// Naming convention.
	WirePrefix     string `yaml:"wire_prefix" toml:"wire_prefix"`
	TypePrefix     string `yaml:"type_prefix" toml:"type_prefix"`
	EnumWirePrefix string `yaml:"enum_wire_prefix" toml:"enum_wire_prefix"`

	// VersionField is the wire name of the version discriminant.
	VersionField string `yaml:"version_field" toml:"version_field"`

	// HexThreshold: integral literals above it render in hexadecimal.
	HexThreshold int64 `yaml:"hex_threshold" toml:"hex_threshold"`

	// StrictEnums turns an unresolvable enum-qualified value into a build error.
	StrictEnums bool `yaml:"strict_enums" toml:"strict_enums"`

	// VirtualInterfaces are abstract base interfaces (semantic names).
	VirtualInterfaces []string `yaml:"virtual_interfaces" toml:"virtual_interfaces"`

	// EnumBlacklist excludes whole enums (semantic names).
	EnumBlacklist []string `yaml:"enum_blacklist" toml:"enum_blacklist"`

	// EnumEntryBlacklist excludes entries per enum: enum name -> entry names.
	EnumEntryBlacklist map[string][]string `yaml:"enum_entry_blacklist" toml:"enum_entry_blacklist"`

	// EnumEntryPrefixes prepends a prefix to every entry name of an enum.
	EnumEntryPrefixes map[string]string `yaml:"enum_entry_prefixes" toml:"enum_entry_prefixes"`

	// WriteBlacklist lists members that are never user-settable, per interface.
	WriteBlacklist map[string][]string `yaml:"write_blacklist" toml:"write_blacklist"`

	// SkipClasses are interfaces that never get a generated class body.
	SkipClasses []string `yaml:"skip_classes" toml:"skip_classes"`

	// Messages are the wire names of message classes.
	Messages []string `yaml:"messages" toml:"messages"`

	// Category prefixes over wire names.
	ActionPrefix      string `yaml:"action_prefix" toml:"action_prefix"`
	OXMPrefix         string `yaml:"oxm_prefix" toml:"oxm_prefix"`
	InstructionPrefix string `yaml:"instruction_prefix" toml:"instruction_prefix"`
	MeterBandPrefix   string `yaml:"meter_band_prefix" toml:"meter_band_prefix"`

	// TypeOverrides maps "class.member" (wire names) to a semantic type.
	TypeOverrides map[string]naming.SemanticType `yaml:"type_overrides" toml:"type_overrides"`
}

// Default returns the OpenFlow configuration.
func Default() Config {
	return Config{
		WirePrefix:        "of_",
		TypePrefix:        "OF",
		EnumWirePrefix:    "ofp_",
		VersionField:      "version",
		HexThreshold:      100,
		VirtualInterfaces: []string{"OFOxm", "OFAction", "OFInstruction"},
		EnumBlacklist:     []string{"OFDefinitions"},
		EnumEntryBlacklist: map[string][]string{
			"OFFlowWildcards": {"NW_DST_BITS", "NW_SRC_BITS", "NW_SRC_SHIFT", "NW_DST_SHIFT"},
		},
		EnumEntryPrefixes: map[string]string{
			"OFPortFeatures": "PF_",
		},
		WriteBlacklist: map[string][]string{
			"OFOxm":         {"typeLen"},
			"OFAction":      {"type"},
			"OFInstruction": {"type"},
		},
		SkipClasses:       []string{"OFTableMod"},
		ActionPrefix:      "of_action",
		OXMPrefix:         "of_oxm",
		InstructionPrefix: "of_instruction",
		MeterBandPrefix:   "of_meter_band",
		TypeOverrides:     map[string]naming.SemanticType{},
	}
}

// Load reads a YAML (.yaml, .yml) or TOML (.toml) file over the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}

	var file Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), &file)
		if err != nil {
			return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, fmt.Errorf("config parse failed (%s): unknown key %q", path, undecoded[0].String())
		}
	default:
		return Config{}, fmt.Errorf("config load failed (%s): unsupported extension %q", path, filepath.Ext(path))
	}

	cfg := Default().Merge(file)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

// Merge returns c with every non-zero field of o replacing the corresponding field.
func (c Config) Merge(o Config) Config {
	setString(&c.WirePrefix, o.WirePrefix)
	setString(&c.TypePrefix, o.TypePrefix)
	setString(&c.EnumWirePrefix, o.EnumWirePrefix)
	setString(&c.VersionField, o.VersionField)
	setString(&c.ActionPrefix, o.ActionPrefix)
	setString(&c.OXMPrefix, o.OXMPrefix)
	setString(&c.InstructionPrefix, o.InstructionPrefix)
	setString(&c.MeterBandPrefix, o.MeterBandPrefix)
	if o.HexThreshold != 0 {
		c.HexThreshold = o.HexThreshold
	}
	if o.StrictEnums {
		c.StrictEnums = true
	}
	if o.VirtualInterfaces != nil {
		c.VirtualInterfaces = o.VirtualInterfaces
	}
	if o.EnumBlacklist != nil {
		c.EnumBlacklist = o.EnumBlacklist
	}
	if o.EnumEntryBlacklist != nil {
		c.EnumEntryBlacklist = o.EnumEntryBlacklist
	}
	if o.EnumEntryPrefixes != nil {
		c.EnumEntryPrefixes = o.EnumEntryPrefixes
	}
	if o.WriteBlacklist != nil {
		c.WriteBlacklist = o.WriteBlacklist
	}
	if o.SkipClasses != nil {
		c.SkipClasses = o.SkipClasses
	}
	if o.Messages != nil {
		c.Messages = o.Messages
	}
	if o.TypeOverrides != nil {
		c.TypeOverrides = o.TypeOverrides
	}
	return c
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Validate checks the configuration for inconsistent values.
func (c Config) Validate() error {
	if c.VersionField == "" {
		return fmt.Errorf("version_field must be non-empty")
	}
	if c.HexThreshold < 0 {
		return fmt.Errorf("hex_threshold must be >= 0, got %d", c.HexThreshold)
	}
	keys := make([]string, 0, len(c.TypeOverrides))
	for k := range c.TypeOverrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		t := c.TypeOverrides[k]
		if !strings.Contains(k, ".") {
			return fmt.Errorf("type_overrides key %q must be class.member", k)
		}
		if !naming.ValidTypeKinds[t.Kind] {
			return fmt.Errorf("type_overrides %q: invalid kind %q", k, t.Kind)
		}
		if t.Kind == naming.KindInt && t.Bits <= 0 {
			return fmt.Errorf("type_overrides %q: int types need bits", k)
		}
	}
	return nil
}

// Convention returns the naming convention described by the configuration.
func (c Config) Convention() naming.Convention {
	return naming.Convention{
		WirePrefix:     c.WirePrefix,
		TypePrefix:     c.TypePrefix,
		EnumWirePrefix: c.EnumWirePrefix,
	}
}

// Classifier returns the category predicates described by the configuration.
func (c Config) Classifier() *naming.PrefixClassifier {
	cls := naming.DefaultClassifier(c.Messages)
	cls.ActionPrefix = c.ActionPrefix
	cls.OXMPrefix = c.OXMPrefix
	cls.InstructionPrefix = c.InstructionPrefix
	cls.MeterBandPrefix = c.MeterBandPrefix
	return cls
}

// Set turns a name list into a lookup set.
func Set(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
