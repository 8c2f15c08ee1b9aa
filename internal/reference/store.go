package reference

import "sync/atomic"

// ModelMetadata describes the external regression model and the
// categorical vocabularies its label encoders were fit on. The class
// order must match the training encoders exactly.
type ModelMetadata struct {
	ModelType         string   `json:"model_type"`
	TrainingSamples   int      `json:"training_samples"`
	R2Score           float64  `json:"r2_score"`
	MAE               float64  `json:"mae"`
	Areas             []string `json:"areas"`
	PropertySubtypes  []string `json:"property_subtypes"`
	RegistrationTypes []string `json:"registration_types"`
	PriceLowerBound   float64  `json:"price_lower_bound"`
	PriceUpperBound   float64  `json:"price_upper_bound"`
}

// Tables bundles all reference data the engine consumes. A Tables value
// is immutable; reloads replace the whole bundle at once.
type Tables struct {
	SizeRanges *SizeRangeTable
	AreaTiers  *AreaTierTable
	FormRules  *FormRuleTable
	Metadata   *ModelMetadata
}

// Store hands out the current Tables snapshot to concurrent readers.
// Reloads swap the pointer atomically; in-place mutation never happens,
// so no locking is needed on the read path.
type Store struct {
	current atomic.Pointer[Tables]
}

// NewStore creates a store holding the given initial tables.
func NewStore(tables *Tables) *Store {
	s := &Store{}
	s.current.Store(tables)
	return s
}

// Current returns the active tables snapshot. Callers must take one
// snapshot per request and use it throughout, so a concurrent reload
// cannot mix table generations within a single prediction.
func (s *Store) Current() *Tables {
	return s.current.Load()
}

// Swap atomically replaces the active tables.
func (s *Store) Swap(tables *Tables) {
	s.current.Store(tables)
}
