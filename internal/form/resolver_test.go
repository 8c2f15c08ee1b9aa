package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dubaiprice/server/internal/models"
	"dubaiprice/server/internal/reference"
)

func testTables(t *testing.T) *reference.Tables {
	t.Helper()

	sizes, err := reference.NewSizeRangeTable(map[string]reference.SizeRange{
		"Studio": {MinTypical: 35, MaxTypical: 65, Average: 48, Median: 46},
		"2BR":    {MinTypical: 106, MaxTypical: 143, Average: 122, Median: 120},
	})
	require.NoError(t, err)

	forms, err := reference.NewFormRuleTable(reference.FormRuleTableInput{
		Rules: map[models.PropertyUsage]map[models.PropertyType]reference.FormRule{
			models.UsageResidential: {
				models.TypeUnit: {
					Required:      []string{FieldAreaSize, FieldBedrooms, FieldAreaName},
					AutoFill:      map[string]string{FieldAreaSize: "size_range_average"},
					SubtypeHidden: map[string][]string{"Hotel Apartment": {FieldHasProject}},
				},
				models.TypeLand: {
					Required: []string{FieldAreaSize, FieldAreaName},
					Hidden:   []string{FieldBedrooms, FieldHasParking, FieldHasProject},
				},
			},
		},
	})
	require.NoError(t, err)

	return &reference.Tables{SizeRanges: sizes, FormRules: forms}
}

func TestResolver_Resolve(t *testing.T) {
	resolver := NewResolver(testTables(t))

	t.Run("Known rule applies required and auto-fill", func(t *testing.T) {
		policy := resolver.Resolve(models.UsageResidential, models.TypeUnit, "Flat")

		assert.Equal(t, FieldAutoFilled, policy.State(FieldAreaSize))
		assert.Equal(t, FieldRequired, policy.State(FieldBedrooms))
		assert.Equal(t, FieldRequired, policy.State(FieldAreaName))
		assert.Equal(t, FieldOptional, policy.State(FieldHasParking))
		assert.Equal(t, FieldOptional, policy.State(FieldHasProject))
	})

	t.Run("Land hides bedroom and amenity fields", func(t *testing.T) {
		policy := resolver.Resolve(models.UsageResidential, models.TypeLand, "Land")

		assert.Equal(t, FieldHidden, policy.State(FieldBedrooms))
		assert.Equal(t, FieldHidden, policy.State(FieldHasParking))
		assert.Equal(t, FieldHidden, policy.State(FieldHasProject))
		assert.Equal(t, FieldRequired, policy.State(FieldAreaSize))
	})

	t.Run("Subtype narrows but never widens", func(t *testing.T) {
		flat := resolver.Resolve(models.UsageResidential, models.TypeUnit, "Flat")
		hotel := resolver.Resolve(models.UsageResidential, models.TypeUnit, "Hotel Apartment")

		assert.Equal(t, FieldOptional, flat.State(FieldHasProject))
		assert.Equal(t, FieldHidden, hotel.State(FieldHasProject))

		// Everything else is untouched by the subtype override.
		assert.Equal(t, flat.State(FieldBedrooms), hotel.State(FieldBedrooms))
		assert.Equal(t, flat.State(FieldAreaSize), hotel.State(FieldAreaSize))
	})

	t.Run("Unknown pair defaults to all optional", func(t *testing.T) {
		policy := resolver.Resolve(models.UsageCommercial, models.TypeBuilding, "Building")

		for _, field := range []string{
			FieldAreaSize, FieldBedrooms, FieldHasParking,
			FieldHasProject, FieldAreaName, FieldSubtype, FieldRegistrationType,
		} {
			assert.Equal(t, FieldOptional, policy.State(field), "field %s", field)
		}
	})

	t.Run("Deterministic for identical inputs", func(t *testing.T) {
		first := resolver.Resolve(models.UsageResidential, models.TypeUnit, "Flat")
		second := resolver.Resolve(models.UsageResidential, models.TypeUnit, "Flat")
		assert.Equal(t, first, second)
	})
}

func TestResolver_SuggestSize(t *testing.T) {
	resolver := NewResolver(testTables(t))

	size, ok := resolver.SuggestSize(2)
	require.True(t, ok)
	assert.Equal(t, 122.0, size)

	size, ok = resolver.SuggestSize(0)
	require.True(t, ok)
	assert.Equal(t, 48.0, size)

	_, ok = resolver.SuggestSize(7)
	assert.False(t, ok)
}

func TestFieldState_String(t *testing.T) {
	assert.Equal(t, "optional", FieldOptional.String())
	assert.Equal(t, "required", FieldRequired.String())
	assert.Equal(t, "hidden", FieldHidden.String())
	assert.Equal(t, "auto_filled", FieldAutoFilled.String())
}
