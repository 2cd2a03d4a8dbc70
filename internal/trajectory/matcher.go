package trajectory

import (
	"math"

	"github.com/DavidDeLaTorre/Engage2Hackathon/internal/geo"
	"github.com/DavidDeLaTorre/Engage2Hackathon/internal/runway"
)

// Match is the result of a nearest-point search: the report closest to
// any reference point in a registry, and which runway it belongs to.
type Match struct {
	Runway    string
	DistanceM float64
	Index     int
	Report    PositionReport
}

// NoMatch is the sentinel returned when no report can be matched.
func NoMatch() Match {
	return Match{DistanceM: math.Inf(1), Index: -1}
}

// Found reports whether the search located a nearest report.
func (m Match) Found() bool {
	return m.Index >= 0
}

// NearestPoint finds, over every reference point in the registry, the
// report at minimum great-circle distance, and returns the globally best
// (runway, report) pair. Reference points are visited in sorted label
// order, so equidistant candidates resolve deterministically to the
// first label. Reports without coordinates are skipped. Returns NoMatch
// when no report has coordinates.
func NearestPoint(reg *runway.Registry, reports []PositionReport) Match {
	best := NoMatch()

	for _, label := range reg.Labels() {
		ref, _ := reg.Lookup(label)
		for i, r := range reports {
			if !r.HasPosition() {
				continue
			}
			d := geo.Haversine(*r.Latitude, *r.Longitude, ref.Latitude, ref.Longitude)
			if d < best.DistanceM {
				best = Match{
					Runway:    label,
					DistanceM: d,
					Index:     i,
					Report:    r,
				}
			}
		}
	}

	return best
}
