// Package trajectory implements the landing-time pipeline core: per-aircraft
// segmentation of raw ADS-B position reports, nearest-point matching against
// runway reference geometry, and landing-runway attribution with the
// geometry-corrected FAP-to-threshold elapsed time.
package trajectory

import (
	"sort"
)

// PositionReport is one ADS-B observation. Latitude, longitude, altitude
// and wake category come straight off the feed and may be absent.
type PositionReport struct {
	ICAO24      string   `json:"icao24"`
	TimestampMS int64    `json:"ts"`
	Latitude    *float64 `json:"lat_deg"`
	Longitude   *float64 `json:"lon_deg"`
	AltitudeFt  *float64 `json:"altitude"`
	WakeVortex  *string  `json:"wake_vortex,omitempty"`
}

// HasPosition reports whether both coordinates are present.
func (r PositionReport) HasPosition() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// CleanNulls drops reports that are missing latitude, longitude or
// altitude. The core algorithms assume complete rows past this point.
func CleanNulls(reports []PositionReport) []PositionReport {
	out := make([]PositionReport, 0, len(reports))
	for _, r := range reports {
		if r.HasPosition() && r.AltitudeFt != nil {
			out = append(out, r)
		}
	}
	return out
}

// FilterByBounds keeps reports inside the given lat/lon box, inclusive.
func FilterByBounds(reports []PositionReport, minLat, maxLat, minLon, maxLon float64) []PositionReport {
	out := make([]PositionReport, 0, len(reports))
	for _, r := range reports {
		if !r.HasPosition() {
			continue
		}
		lat, lon := *r.Latitude, *r.Longitude
		if lat >= minLat && lat <= maxLat && lon >= minLon && lon <= maxLon {
			out = append(out, r)
		}
	}
	return out
}

// FilterByAltitude keeps reports whose altitude lies in [minFt, maxFt].
func FilterByAltitude(reports []PositionReport, minFt, maxFt float64) []PositionReport {
	out := make([]PositionReport, 0, len(reports))
	for _, r := range reports {
		if r.AltitudeFt != nil && *r.AltitudeFt >= minFt && *r.AltitudeFt <= maxFt {
			out = append(out, r)
		}
	}
	return out
}

// FilterByICAO keeps reports for the given aircraft identifiers. An empty
// list keeps everything.
func FilterByICAO(reports []PositionReport, icao24 []string) []PositionReport {
	if len(icao24) == 0 {
		return reports
	}
	keep := make(map[string]struct{}, len(icao24))
	for _, id := range icao24 {
		keep[id] = struct{}{}
	}
	out := make([]PositionReport, 0, len(reports))
	for _, r := range reports {
		if _, ok := keep[r.ICAO24]; ok {
			out = append(out, r)
		}
	}
	return out
}

// SortByTime sorts reports by timestamp ascending, in place. Sorting is
// stable so re-sorting already-ordered data is a no-op.
func SortByTime(reports []PositionReport) {
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].TimestampMS < reports[j].TimestampMS
	})
}

// GroupByAircraft splits reports into per-aircraft slices. Each aircraft's
// reports keep their relative input order.
func GroupByAircraft(reports []PositionReport) map[string][]PositionReport {
	groups := make(map[string][]PositionReport)
	for _, r := range reports {
		groups[r.ICAO24] = append(groups[r.ICAO24], r)
	}
	return groups
}
