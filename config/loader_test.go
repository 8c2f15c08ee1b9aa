package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dubaiprice/server/internal/models"
)

const validSizeRanges = `{
	"size_ranges": {
		"Studio": {"min_typical": 35, "max_typical": 65, "average": 48, "median": 46},
		"2BR": {"min_typical": 106, "max_typical": 143, "average": 122, "median": 120}
	}
}`

const validAreaTiers = `{
	"areas": {
		"PALM JUMEIRAH": {"tier": "UltraLuxury", "multiplier": 2.0, "centroid": [55.1382, 25.1124]},
		"DUBAI MARINA": {"tier": "Premium", "multiplier": 1.2, "centroid": [55.1403, 25.0805]},
		"JVC": {"tier": "Average", "multiplier": 1.0}
	}
}`

const validFormRules = `{
	"property_type_by_usage": {
		"Residential": ["Unit", "Villa", "Land"]
	},
	"property_subtype_by_type": {
		"Unit": ["Flat", "Hotel Apartment"]
	},
	"rules": {
		"Residential": {
			"Unit": {
				"required": ["area_size", "bedrooms", "area_name"],
				"auto_fill": {"area_size": "size_range_average"}
			},
			"Land": {
				"required": ["area_size", "area_name"],
				"hidden": ["bedrooms", "has_parking", "has_project"]
			}
		}
	},
	"subtype_profiles": {
		"Flat": {"typical_bedrooms": [0, 1, 2, 3], "min_size": 30, "max_size": 400}
	}
}`

const validMetadata = `{
	"model_type": "RandomForestRegressor",
	"training_samples": 1500000,
	"r2_score": 0.9143,
	"mae": 185000,
	"areas": ["DUBAI MARINA", "PALM JUMEIRAH"],
	"property_subtypes": ["Flat", "Hotel Apartment"],
	"registration_types": ["Off-Plan Properties", "Ready Properties"]
}`

func writeReferenceDir(t *testing.T, overrides map[string]string) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		sizeRangesFile:    validSizeRanges,
		areaTiersFile:     validAreaTiers,
		formRulesFile:     validFormRules,
		modelMetadataFile: validMetadata,
	}
	for name, content := range overrides {
		files[name] = content
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestLoadTables(t *testing.T) {
	dir := writeReferenceDir(t, nil)

	tables, err := LoadTables(dir)
	require.NoError(t, err)

	tier, multiplier := tables.AreaTiers.Lookup("dubai marina")
	assert.Equal(t, models.TierPremium, tier)
	assert.Equal(t, 1.2, multiplier)

	centroid, ok := tables.AreaTiers.Centroid("PALM JUMEIRAH")
	require.True(t, ok)
	assert.InDelta(t, 55.1382, centroid.Lon(), 1e-9)
	assert.InDelta(t, 25.1124, centroid.Lat(), 1e-9)
	_, ok = tables.AreaTiers.Centroid("JVC")
	assert.False(t, ok)

	rng, ok := tables.SizeRanges.Lookup(2)
	require.True(t, ok)
	assert.Equal(t, 106.0, rng.MinTypical)

	rule, ok := tables.FormRules.Rule(models.UsageResidential, models.TypeLand)
	require.True(t, ok)
	assert.Contains(t, rule.Hidden, "bedrooms")

	profile, ok := tables.FormRules.Profile("Flat")
	require.True(t, ok)
	assert.Equal(t, []int{0, 1, 2, 3}, profile.TypicalBedrooms)

	assert.Equal(t, "RandomForestRegressor", tables.Metadata.ModelType)
	assert.Equal(t, 1500000, tables.Metadata.TrainingSamples)
}

func TestLoadTables_MissingFile(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadTables(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read reference file")
}

func TestLoadTables_MalformedJSON(t *testing.T) {
	dir := writeReferenceDir(t, map[string]string{
		areaTiersFile: `{"areas": `,
	})

	_, err := LoadTables(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse area_tiers.json")
}

func TestLoadTables_TierOrderingViolation(t *testing.T) {
	dir := writeReferenceDir(t, map[string]string{
		areaTiersFile: `{
			"areas": {
				"CHEAP LUXURY": {"tier": "Luxury", "multiplier": 0.8},
				"PRICEY BUDGET": {"tier": "Budget", "multiplier": 1.4}
			}
		}`,
	})

	_, err := LoadTables(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tier ordering violated")
}

func TestLoadTables_ImpossibleSizeRange(t *testing.T) {
	dir := writeReferenceDir(t, map[string]string{
		sizeRangesFile: `{"size_ranges": {"2BR": {"min_typical": 143, "max_typical": 106, "average": 122, "median": 120}}}`,
	})

	_, err := LoadTables(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid size ranges")
}
