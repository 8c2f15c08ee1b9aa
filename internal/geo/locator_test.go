package geo

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dubaiprice/server/internal/models"
	"dubaiprice/server/internal/reference"
)

func point(lon, lat float64) *orb.Point {
	p := orb.Point{lon, lat}
	return &p
}

func TestLocator_Nearest(t *testing.T) {
	tiers, err := reference.NewAreaTierTable(map[string]reference.AreaTier{
		"DUBAI MARINA":   {Tier: models.TierPremium, Multiplier: 1.2, Centroid: point(55.1403, 25.0805)},
		"DOWNTOWN DUBAI": {Tier: models.TierLuxury, Multiplier: 1.5, Centroid: point(55.2744, 25.1972)},
		"JVC":            {Tier: models.TierAverage, Multiplier: 1.0},
	})
	require.NoError(t, err)

	locator := NewLocator(logrus.New())

	// A point just off the marina shoreline.
	match, ok := locator.Nearest(tiers, 25.08, 55.14)
	require.True(t, ok)
	assert.Equal(t, "DUBAI MARINA", match.AreaName)
	assert.Greater(t, match.Distance, 0.0)

	match, ok = locator.Nearest(tiers, 25.20, 55.28)
	require.True(t, ok)
	assert.Equal(t, "DOWNTOWN DUBAI", match.AreaName)
}

func TestLocator_NearestNoCentroids(t *testing.T) {
	tiers, err := reference.NewAreaTierTable(map[string]reference.AreaTier{
		"JVC": {Tier: models.TierAverage, Multiplier: 1.0},
	})
	require.NoError(t, err)

	locator := NewLocator(logrus.New())
	_, ok := locator.Nearest(tiers, 25.08, 55.14)
	assert.False(t, ok)
}
