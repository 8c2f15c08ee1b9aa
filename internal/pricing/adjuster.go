package pricing

import (
	"errors"
	"fmt"

	"dubaiprice/server/internal/models"
	"dubaiprice/server/internal/reference"
	"dubaiprice/server/internal/validate"
)

// ComputationError marks a price computation that is mathematically
// undefined for its inputs.
type ComputationError struct {
	Reason string
}

func (e *ComputationError) Error() string {
	return "price computation: " + e.Reason
}

// IsComputation reports whether err is (or wraps) a ComputationError.
func IsComputation(err error) bool {
	var ce *ComputationError
	return errors.As(err, &ce)
}

// Quote is the priced fragment of a prediction result.
type Quote struct {
	AdjustedPrice float64
	PricePerSqm   float64
	Range         models.PriceRange
}

// Adjuster applies the area multiplier to a base model price and derives
// the per-sqm price and the ±10% range. Stateless apart from the tier
// table snapshot.
type Adjuster struct {
	tiers *reference.AreaTierTable
}

// NewAdjuster creates an adjuster over a tier table snapshot.
func NewAdjuster(tiers *reference.AreaTierTable) *Adjuster {
	return &Adjuster{tiers: tiers}
}

// Lookup resolves an area name to its tier and multiplier, falling back
// to (Average, 1.0) for unknown areas.
func (a *Adjuster) Lookup(areaName string) (models.Tier, float64) {
	return a.tiers.Lookup(areaName)
}

// Adjust computes the adjusted price and per-sqm price. No rounding
// happens here; presentation formatting is the caller's concern.
func (a *Adjuster) Adjust(basePrice, multiplier, areaSize float64) (Quote, error) {
	if areaSize <= 0 {
		return Quote{}, &ComputationError{
			Reason: fmt.Sprintf("price per sqm undefined for area_size %g", areaSize),
		}
	}
	adjusted := basePrice * multiplier
	return Quote{
		AdjustedPrice: adjusted,
		PricePerSqm:   adjusted / areaSize,
		Range: models.PriceRange{
			LowerBound: adjusted * 0.90,
			UpperBound: adjusted * 1.10,
		},
	}, nil
}

// ConfidenceFrom derives the confidence level from the warnings
// accumulated for a request: none means High, advisory-only means
// Medium, any structural or mismatch finding means Low. This signals
// conformance to observed data, not model accuracy.
func ConfidenceFrom(warnings []validate.Warning) models.Confidence {
	if len(warnings) == 0 {
		return models.ConfidenceHigh
	}
	for _, w := range warnings {
		if w.Severity != validate.SeverityAdvisory {
			return models.ConfidenceLow
		}
	}
	return models.ConfidenceMedium
}
