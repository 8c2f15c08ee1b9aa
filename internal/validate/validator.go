package validate

import (
	"fmt"

	"dubaiprice/server/internal/form"
	"dubaiprice/server/internal/models"
	"dubaiprice/server/internal/reference"
)

// Severity classifies a warning for confidence derivation. Advisory
// warnings cap confidence at Medium; structural and mismatch warnings
// drop it to Low.
type Severity int

const (
	SeverityAdvisory Severity = iota
	SeverityStructural
	SeverityMismatch
)

// Warning is a single advisory finding. Warnings never block prediction.
type Warning struct {
	Severity Severity
	Message  string
}

// Messages flattens warnings into their display strings, preserving order.
func Messages(warnings []Warning) []string {
	out := make([]string, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, w.Message)
	}
	return out
}

// Validator checks a request against the reference tables and the
// resolved field policy. All checks are independent and advisory.
type Validator struct {
	tables *reference.Tables
}

// NewValidator creates a validator over a tables snapshot.
func NewValidator(tables *reference.Tables) *Validator {
	return &Validator{tables: tables}
}

// Validate returns the warnings for a request, in a stable order:
// structural findings first, then size-range findings, then type and
// subtype mismatches. The request is never mutated. Unknown area names
// are not checked here; the price adjuster owns that fallback.
func (v *Validator) Validate(req *models.PropertyRequest, policy form.FieldPolicy) []Warning {
	var structural, ranged, mismatch []Warning

	structural = v.checkFieldPolicy(req, policy)
	ranged = v.checkSizeRange(req, policy)
	mismatch = v.checkSubtype(req)

	warnings := make([]Warning, 0, len(structural)+len(ranged)+len(mismatch))
	warnings = append(warnings, structural...)
	warnings = append(warnings, ranged...)
	warnings = append(warnings, mismatch...)
	return warnings
}

// checkFieldPolicy flags values supplied for hidden fields and required
// fields left empty. These are correctable client errors, surfaced as
// warnings rather than rejections.
func (v *Validator) checkFieldPolicy(req *models.PropertyRequest, policy form.FieldPolicy) []Warning {
	var out []Warning
	for _, field := range policyFields {
		provided := fieldProvided(req, field)
		switch policy.State(field) {
		case form.FieldHidden:
			if provided {
				out = append(out, Warning{
					Severity: SeverityStructural,
					Message:  fmt.Sprintf("value supplied for hidden field %q", field),
				})
			}
		case form.FieldRequired:
			// Studio encodes as zero bedrooms, so an absent bedroom
			// count is indistinguishable from a valid value.
			if field == form.FieldBedrooms {
				continue
			}
			if !provided {
				out = append(out, Warning{
					Severity: SeverityStructural,
					Message:  fmt.Sprintf("required field %q is missing", field),
				})
			}
		}
	}
	return out
}

// checkSizeRange compares area_size against the typical range for the
// request's bedroom bucket. Skipped entirely when bedrooms are hidden
// for this property configuration (no meaningful bucket exists).
func (v *Validator) checkSizeRange(req *models.PropertyRequest, policy form.FieldPolicy) []Warning {
	if policy.State(form.FieldBedrooms) == form.FieldHidden {
		return nil
	}
	sr, ok := v.tables.SizeRanges.Lookup(req.Bedrooms)
	if !ok {
		return nil
	}

	label := models.BedroomLabel(req.Bedrooms)
	switch {
	case req.AreaSize < sr.MinTypical:
		return []Warning{{
			Severity: SeverityAdvisory,
			Message: fmt.Sprintf("area_size %g below typical range [%g,%g] for %s",
				req.AreaSize, sr.MinTypical, sr.MaxTypical, label),
		}}
	case req.AreaSize > sr.MaxTypical:
		return []Warning{{
			Severity: SeverityAdvisory,
			Message: fmt.Sprintf("area_size %g above typical range [%g,%g] for %s",
				req.AreaSize, sr.MinTypical, sr.MaxTypical, label),
		}}
	}
	return nil
}

// checkSubtype flags subtypes outside the known set for the property
// type, and bedroom counts atypical for the subtype's observed profile.
func (v *Validator) checkSubtype(req *models.PropertyRequest) []Warning {
	var out []Warning

	if req.Subtype != "" && !v.tables.FormRules.SubtypeKnown(req.Type, req.Subtype) {
		out = append(out, Warning{
			Severity: SeverityMismatch,
			Message:  fmt.Sprintf("subtype %q is not a known %s subtype", req.Subtype, req.Type),
		})
	}

	if profile, ok := v.tables.FormRules.Profile(req.Subtype); ok && len(profile.TypicalBedrooms) > 0 {
		if !containsInt(profile.TypicalBedrooms, req.Bedrooms) {
			out = append(out, Warning{
				Severity: SeverityMismatch,
				Message: fmt.Sprintf("%s typically has %d-%d bedrooms",
					req.Subtype, minInt(profile.TypicalBedrooms), maxInt(profile.TypicalBedrooms)),
			})
		}
	}
	return out
}

// policyFields lists the fields whose presence can be determined from
// the request. Boolean flags are excluded: an unset bool is
// indistinguishable from an explicit false.
var policyFields = []string{
	form.FieldAreaSize,
	form.FieldBedrooms,
	form.FieldAreaName,
	form.FieldSubtype,
	form.FieldRegistrationType,
}

func fieldProvided(req *models.PropertyRequest, field string) bool {
	switch field {
	case form.FieldAreaSize:
		return req.AreaSize > 0
	case form.FieldBedrooms:
		return req.Bedrooms > 0
	case form.FieldAreaName:
		return req.AreaName != ""
	case form.FieldSubtype:
		return req.Subtype != ""
	case form.FieldRegistrationType:
		return req.RegistrationType != ""
	}
	return false
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func minInt(values []int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxInt(values []int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
