package naming

import "strings"

// Classifier holds the category predicates over canonical (wire) class names.
type Classifier interface {
	IsMessage(wireName string) bool
	IsAction(wireName string) bool
	IsOXM(wireName string) bool
	IsInstruction(wireName string) bool
	IsMeterBand(wireName string) bool
}

// PrefixClassifier classifies by name prefix, with messages given by name.
type PrefixClassifier struct {
	Messages          map[string]bool
	ActionPrefix      string
	OXMPrefix         string
	InstructionPrefix string
	MeterBandPrefix   string
}

// DefaultClassifier returns the OpenFlow prefixes with the given message names.
func DefaultClassifier(messages []string) *PrefixClassifier {
	set := make(map[string]bool, len(messages))
	for _, m := range messages {
		set[m] = true
	}
	return &PrefixClassifier{
		Messages:          set,
		ActionPrefix:      "of_action",
		OXMPrefix:         "of_oxm",
		InstructionPrefix: "of_instruction",
		MeterBandPrefix:   "of_meter_band",
	}
}

func (c *PrefixClassifier) IsMessage(wireName string) bool {
	return c.Messages[wireName]
}

func (c *PrefixClassifier) IsAction(wireName string) bool {
	return hasPrefix(wireName, c.ActionPrefix)
}

func (c *PrefixClassifier) IsOXM(wireName string) bool {
	return hasPrefix(wireName, c.OXMPrefix)
}

func (c *PrefixClassifier) IsInstruction(wireName string) bool {
	return hasPrefix(wireName, c.InstructionPrefix)
}

func (c *PrefixClassifier) IsMeterBand(wireName string) bool {
	return hasPrefix(wireName, c.MeterBandPrefix)
}

func hasPrefix(s, prefix string) bool {
	return prefix != "" && strings.HasPrefix(s, prefix)
}
