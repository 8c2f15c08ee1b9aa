package geo

import (
	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
	"github.com/sirupsen/logrus"

	"dubaiprice/server/internal/reference"
)

// Match is a resolved area with its distance from the query point.
type Match struct {
	AreaName string  `json:"area_name"`
	Distance float64 `json:"distance_meters"`
}

// Locator resolves coordinates to the nearest known area centroid.
// Purely auxiliary: prediction itself never consults it.
type Locator struct {
	logger *logrus.Logger
}

// NewLocator creates a locator.
func NewLocator(logger *logrus.Logger) *Locator {
	return &Locator{logger: logger}
}

// Nearest returns the area whose centroid is closest to (lat, lon).
// Areas without a configured centroid are skipped; ok is false when no
// area has one.
func (l *Locator) Nearest(tiers *reference.AreaTierTable, lat, lon float64) (Match, bool) {
	point := orb.Point{lon, lat}

	var best Match
	found := false
	for _, name := range tiers.Names() {
		centroid, ok := tiers.Centroid(name)
		if !ok {
			continue
		}
		dist := orbgeo.Distance(point, centroid)
		if !found || dist < best.Distance {
			best = Match{AreaName: name, Distance: dist}
			found = true
		}
	}

	if found {
		l.logger.WithFields(logrus.Fields{
			"area_name": best.AreaName,
			"distance":  best.Distance,
		}).Debug("Resolved nearest area")
	}
	return best, found
}
