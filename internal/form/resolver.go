package form

import (
	"dubaiprice/server/internal/models"
	"dubaiprice/server/internal/reference"
)

// Field names as they appear in requests and form rules.
const (
	FieldAreaSize         = "area_size"
	FieldBedrooms         = "bedrooms"
	FieldHasParking       = "has_parking"
	FieldHasProject       = "has_project"
	FieldAreaName         = "area_name"
	FieldSubtype          = "subtype"
	FieldRegistrationType = "registration_type"
)

// allFields is the closed set of request fields the resolver rules over.
var allFields = []string{
	FieldAreaSize,
	FieldBedrooms,
	FieldHasParking,
	FieldHasProject,
	FieldAreaName,
	FieldSubtype,
	FieldRegistrationType,
}

// FieldState is the resolved status of one input field.
type FieldState int

const (
	FieldOptional FieldState = iota
	FieldRequired
	FieldHidden
	FieldAutoFilled
)

func (s FieldState) String() string {
	switch s {
	case FieldRequired:
		return "required"
	case FieldHidden:
		return "hidden"
	case FieldAutoFilled:
		return "auto_filled"
	default:
		return "optional"
	}
}

// FieldPolicy maps every request field to its resolved state.
type FieldPolicy map[string]FieldState

// State returns the state of a field; fields the policy does not mention
// are optional.
func (p FieldPolicy) State(field string) FieldState {
	return p[field]
}

// Resolver determines which input fields are required, hidden, or
// auto-filled for a given property configuration. Resolution is a pure
// function of its inputs.
type Resolver struct {
	tables *reference.Tables
}

// NewResolver creates a resolver over a tables snapshot.
func NewResolver(tables *reference.Tables) *Resolver {
	return &Resolver{tables: tables}
}

// Resolve computes the field policy for a (usage, type, subtype) triple.
// Unknown (usage, type) pairs yield the most permissive policy, all
// fields optional: the engine does not own domain exhaustiveness. A
// subtype may hide further fields but never reveals a hidden one.
func (r *Resolver) Resolve(usage models.PropertyUsage, ptype models.PropertyType, subtype string) FieldPolicy {
	policy := make(FieldPolicy, len(allFields))
	for _, f := range allFields {
		policy[f] = FieldOptional
	}

	rule, ok := r.tables.FormRules.Rule(usage, ptype)
	if !ok {
		return policy
	}

	for _, f := range rule.Required {
		policy[f] = FieldRequired
	}
	for f := range rule.AutoFill {
		if policy[f] != FieldHidden {
			policy[f] = FieldAutoFilled
		}
	}
	for _, f := range rule.Hidden {
		policy[f] = FieldHidden
	}
	if extra, ok := rule.SubtypeHidden[subtype]; ok {
		for _, f := range extra {
			policy[f] = FieldHidden
		}
	}
	return policy
}

// SuggestSize returns the average observed size for a bedroom count,
// used to auto-fill area_size when the caller omits it.
func (r *Resolver) SuggestSize(bedrooms int) (float64, bool) {
	sr, ok := r.tables.SizeRanges.Lookup(bedrooms)
	if !ok {
		return 0, false
	}
	return sr.Average, true
}
