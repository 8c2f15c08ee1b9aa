package reference

import (
	"fmt"

	"dubaiprice/server/internal/models"
)

// FormRule describes the input fields that apply to one (usage, type)
// combination. AutoFill maps a field name to the source used to suggest
// a value for it when the caller leaves it empty.
type FormRule struct {
	Required []string
	Hidden   []string
	AutoFill map[string]string
	// SubtypeHidden lists fields a specific subtype additionally hides.
	// A subtype can narrow a rule but never un-hide a field.
	SubtypeHidden map[string][]string
}

// SubtypeProfile captures empirically observed characteristics of one
// property subtype, used for advisory validation.
type SubtypeProfile struct {
	TypicalBedrooms []int   `json:"typical_bedrooms"`
	MinSize         float64 `json:"min_size"`
	MaxSize         float64 `json:"max_size"`
}

type ruleKey struct {
	usage models.PropertyUsage
	ptype models.PropertyType
}

// FormRuleTable holds the form dependency rules and the property
// hierarchy (which types exist per usage, which subtypes per type).
// Immutable after construction.
type FormRuleTable struct {
	rules          map[ruleKey]FormRule
	typesByUsage   map[models.PropertyUsage][]models.PropertyType
	subtypesByType map[models.PropertyType][]string
	profiles       map[string]SubtypeProfile
}

// FormRuleTableInput gathers the raw pieces a FormRuleTable is built from.
type FormRuleTableInput struct {
	Rules          map[models.PropertyUsage]map[models.PropertyType]FormRule
	TypesByUsage   map[models.PropertyUsage][]models.PropertyType
	SubtypesByType map[models.PropertyType][]string
	Profiles       map[string]SubtypeProfile
}

// NewFormRuleTable builds the table from its raw input.
func NewFormRuleTable(in FormRuleTableInput) (*FormRuleTable, error) {
	t := &FormRuleTable{
		rules:          make(map[ruleKey]FormRule),
		typesByUsage:   in.TypesByUsage,
		subtypesByType: in.SubtypesByType,
		profiles:       in.Profiles,
	}
	if t.typesByUsage == nil {
		t.typesByUsage = make(map[models.PropertyUsage][]models.PropertyType)
	}
	if t.subtypesByType == nil {
		t.subtypesByType = make(map[models.PropertyType][]string)
	}
	if t.profiles == nil {
		t.profiles = make(map[string]SubtypeProfile)
	}

	for usage, byType := range in.Rules {
		for ptype, rule := range byType {
			hidden := make(map[string]struct{}, len(rule.Hidden))
			for _, f := range rule.Hidden {
				hidden[f] = struct{}{}
			}
			for _, f := range rule.Required {
				if _, clash := hidden[f]; clash {
					return nil, fmt.Errorf("form rule (%s, %s): field %q is both required and hidden", usage, ptype, f)
				}
			}
			t.rules[ruleKey{usage, ptype}] = rule
		}
	}
	return t, nil
}

// Rule returns the form rule for a (usage, type) pair.
func (t *FormRuleTable) Rule(usage models.PropertyUsage, ptype models.PropertyType) (FormRule, bool) {
	r, ok := t.rules[ruleKey{usage, ptype}]
	return r, ok
}

// TypesForUsage returns the property types observed for a usage category.
func (t *FormRuleTable) TypesForUsage(usage models.PropertyUsage) []models.PropertyType {
	return t.typesByUsage[usage]
}

// SubtypesForType returns the known subtypes for a property type.
func (t *FormRuleTable) SubtypesForType(ptype models.PropertyType) []string {
	return t.subtypesByType[ptype]
}

// SubtypeKnown reports whether a subtype belongs to the known set for a
// property type. Types with no configured subtype list accept anything.
func (t *FormRuleTable) SubtypeKnown(ptype models.PropertyType, subtype string) bool {
	known, ok := t.subtypesByType[ptype]
	if !ok || len(known) == 0 {
		return true
	}
	for _, s := range known {
		if s == subtype {
			return true
		}
	}
	return false
}

// Profile returns the empirical profile for a subtype, if configured.
func (t *FormRuleTable) Profile(subtype string) (SubtypeProfile, bool) {
	p, ok := t.profiles[subtype]
	return p, ok
}
