package reference

import (
	"fmt"

	"dubaiprice/server/internal/models"
)

// SizeRange holds the typical size bounds for one bedroom bucket, in
// square meters, derived from historical transactions.
type SizeRange struct {
	MinTypical float64 `json:"min_typical"`
	MaxTypical float64 `json:"max_typical"`
	Average    float64 `json:"average"`
	Median     float64 `json:"median"`
}

// SizeRangeTable maps bedroom buckets ("Studio", "1BR", ...) to their
// typical size ranges. Immutable after construction.
type SizeRangeTable struct {
	byBucket map[string]SizeRange
}

// NewSizeRangeTable validates the entries and builds the table. Every
// entry must satisfy 0 < min_typical <= median <= max_typical.
func NewSizeRangeTable(entries map[string]SizeRange) (*SizeRangeTable, error) {
	byBucket := make(map[string]SizeRange, len(entries))
	for bucket, r := range entries {
		if r.MinTypical <= 0 {
			return nil, fmt.Errorf("size range for %s: min_typical must be positive, got %g", bucket, r.MinTypical)
		}
		if r.MinTypical > r.Median || r.Median > r.MaxTypical {
			return nil, fmt.Errorf("size range for %s: expected min <= median <= max, got [%g, %g, %g]",
				bucket, r.MinTypical, r.Median, r.MaxTypical)
		}
		byBucket[bucket] = r
	}
	return &SizeRangeTable{byBucket: byBucket}, nil
}

// Lookup returns the typical size range for a bedroom count.
func (t *SizeRangeTable) Lookup(bedrooms int) (SizeRange, bool) {
	r, ok := t.byBucket[models.BedroomLabel(bedrooms)]
	return r, ok
}

// Buckets returns the number of configured bedroom buckets.
func (t *SizeRangeTable) Buckets() int {
	return len(t.byBucket)
}

// Ranges returns a copy of the underlying table, keyed by bucket label.
func (t *SizeRangeTable) Ranges() map[string]SizeRange {
	out := make(map[string]SizeRange, len(t.byBucket))
	for k, v := range t.byBucket {
		out[k] = v
	}
	return out
}
