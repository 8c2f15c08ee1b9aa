package reference

import (
	"fmt"
	"sort"
	"strings"

	"github.com/paulmach/orb"

	"dubaiprice/server/internal/models"
)

// AreaTier is the pricing classification of one location area. Centroid
// is optional and only used for nearest-area resolution.
type AreaTier struct {
	Tier       models.Tier
	Multiplier float64
	Centroid   *orb.Point
}

// tierRank orders tiers from most to least expensive. Unknown tiers rank
// below Budget.
var tierRank = map[models.Tier]int{
	models.TierUltraLuxury: 5,
	models.TierLuxury:      4,
	models.TierPremium:     3,
	models.TierAverage:     2,
	models.TierBudget:      1,
}

var tierOrder = []models.Tier{
	models.TierUltraLuxury,
	models.TierLuxury,
	models.TierPremium,
	models.TierAverage,
	models.TierBudget,
}

// AreaTierTable maps normalized area names to their pricing tier and
// multiplier. Lookup is case-insensitive. Immutable after construction.
type AreaTierTable struct {
	byName map[string]AreaTier
	names  []string
}

// NewAreaTierTable validates the entries and builds the table. Multipliers
// must be positive and must respect tier ordering: every multiplier of a
// higher tier is at least as large as every multiplier of a lower one.
func NewAreaTierTable(entries map[string]AreaTier) (*AreaTierTable, error) {
	byName := make(map[string]AreaTier, len(entries))
	names := make([]string, 0, len(entries))

	for name, at := range entries {
		if at.Multiplier <= 0 {
			return nil, fmt.Errorf("area %q: multiplier must be positive, got %g", name, at.Multiplier)
		}
		if _, ok := tierRank[at.Tier]; !ok {
			return nil, fmt.Errorf("area %q: unknown tier %q", name, at.Tier)
		}
		key := normalizeAreaName(name)
		if _, dup := byName[key]; dup {
			return nil, fmt.Errorf("duplicate area name %q", name)
		}
		byName[key] = at
		names = append(names, strings.ToUpper(strings.TrimSpace(name)))
	}
	sort.Strings(names)

	if err := checkTierOrdering(entries); err != nil {
		return nil, err
	}

	return &AreaTierTable{byName: byName, names: names}, nil
}

// checkTierOrdering asserts the multiplier ordering invariant across tiers.
// A violation indicates a data-entry error in the reference file.
func checkTierOrdering(entries map[string]AreaTier) error {
	type bound struct {
		min, max   float64
		minA, maxA string
		seen       bool
	}
	bounds := make(map[models.Tier]*bound)
	for _, t := range tierOrder {
		bounds[t] = &bound{}
	}
	for name, at := range entries {
		b := bounds[at.Tier]
		if !b.seen || at.Multiplier < b.min {
			b.min = at.Multiplier
			b.minA = name
		}
		if !b.seen || at.Multiplier > b.max {
			b.max = at.Multiplier
			b.maxA = name
		}
		b.seen = true
	}

	// Compare each tier against the nearest populated tier above it.
	var higher *bound
	var higherTier models.Tier
	for _, t := range tierOrder {
		b := bounds[t]
		if !b.seen {
			continue
		}
		if higher != nil && b.max > higher.min {
			return fmt.Errorf("tier ordering violated: %s area %q (%g) exceeds %s area %q (%g)",
				t, b.maxA, b.max, higherTier, higher.minA, higher.min)
		}
		higher = b
		higherTier = t
	}
	return nil
}

func normalizeAreaName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// Lookup resolves an area name to its tier and multiplier. Unmatched
// names fall back to (Average, 1.0): no premium or discount is assumed
// for unknown locations. The fallback is silent here; callers decide
// whether to surface it.
func (t *AreaTierTable) Lookup(name string) (models.Tier, float64) {
	if at, ok := t.byName[normalizeAreaName(name)]; ok {
		return at.Tier, at.Multiplier
	}
	return models.TierAverage, 1.0
}

// Contains reports whether an area name is present in the table.
func (t *AreaTierTable) Contains(name string) bool {
	_, ok := t.byName[normalizeAreaName(name)]
	return ok
}

// Names returns all known area names, normalized and sorted.
func (t *AreaTierTable) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Centroid returns the configured centroid for an area, if any.
func (t *AreaTierTable) Centroid(name string) (orb.Point, bool) {
	at, ok := t.byName[normalizeAreaName(name)]
	if !ok || at.Centroid == nil {
		return orb.Point{}, false
	}
	return *at.Centroid, true
}
