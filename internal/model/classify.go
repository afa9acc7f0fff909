package model

import (
	"regexp"

	"github.com/roach88/bindgen/internal/naming"
)

// Category is the structural classification of an interface.
type Category string

const (
	CategoryNone        Category = ""
	CategoryFlowMod     Category = "flow_mod"
	CategoryMatch       Category = "match"
	CategoryMessage     Category = "message"
	CategoryAction      Category = "action"
	CategoryOXM         Category = "oxm"
	CategoryInstruction Category = "instruction"
	CategoryMeterBand   Category = "meter_band"
)

// ClassRule maps a matching interface to its category, namespace and base.
type ClassRule struct {
	Category  Category
	Namespace string // sub-namespace; empty is the default namespace
	Parent    string // semantic name of the base interface
	Match     func(name, wireName string) bool
}

// ClassRules returns the classification table, in priority order.
// The first matching rule wins; an interface matching none has no parent.
func ClassRules(conv naming.Convention, cls naming.Classifier) []ClassRule {
	prefix := regexp.QuoteMeta(conv.TypePrefix)
	flowMod := regexp.MustCompile(`^` + prefix + `Flow(Add|Modify(Strict)?|Delete(Strict)?)$`)
	match := regexp.MustCompile(`^` + prefix + `Match`)

	return []ClassRule{
		{
			Category: CategoryFlowMod,
			Parent:   conv.TypePrefix + "FlowMod",
			Match:    func(name, _ string) bool { return flowMod.MatchString(name) },
		},
		{
			Category: CategoryMatch,
			Parent:   "Match",
			Match:    func(name, _ string) bool { return match.MatchString(name) },
		},
		{
			Category: CategoryMessage,
			Parent:   conv.TypePrefix + "Message",
			Match:    func(_, wire string) bool { return cls.IsMessage(wire) },
		},
		{
			Category:  CategoryAction,
			Namespace: "action",
			Parent:    conv.TypePrefix + "Action",
			Match:     func(_, wire string) bool { return cls.IsAction(wire) },
		},
		{
			Category:  CategoryOXM,
			Namespace: "oxm",
			Parent:    conv.TypePrefix + "Oxm",
			Match:     func(_, wire string) bool { return cls.IsOXM(wire) },
		},
		{
			Category:  CategoryInstruction,
			Namespace: "instruction",
			Parent:    conv.TypePrefix + "Instruction",
			Match:     func(_, wire string) bool { return cls.IsInstruction(wire) },
		},
		{
			Category:  CategoryMeterBand,
			Namespace: "meterband",
			Parent:    conv.TypePrefix + "MeterBand",
			Match:     func(_, wire string) bool { return cls.IsMeterBand(wire) },
		},
	}
}

// Classify returns the first rule matching the interface.
// The zero ClassRule (CategoryNone) is returned when nothing matches.
func Classify(rules []ClassRule, name, wireName string) ClassRule {
	for _, r := range rules {
		if r.Match(name, wireName) {
			return r
		}
	}
	return ClassRule{}
}
