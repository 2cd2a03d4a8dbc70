// Package runway holds the fixed runway reference geometry: per-runway
// Final Approach Point (FAP) and threshold positions. Registries are
// plain values handed to the matching code at construction time so tests
// can substitute synthetic geometries.
package runway

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ReferencePoint is a named, fixed geographic location on or near a runway.
type ReferencePoint struct {
	Runway    string  // runway label, e.g. "18R"
	Latitude  float64 // decimal degrees, signed
	Longitude float64 // decimal degrees, signed

	// FAP-only attributes; zero for thresholds.
	AltitudeFt       float64 // published FAP crossing altitude
	HeightAboveThrFt float64 // FAP height above the threshold, informational
}

// Registry is an immutable runway-label-to-reference-point table.
type Registry struct {
	points map[string]ReferencePoint
	labels []string // sorted, for deterministic iteration
}

// NewRegistry builds a registry from the given points. Duplicate runway
// labels are an error.
func NewRegistry(points []ReferencePoint) (*Registry, error) {
	m := make(map[string]ReferencePoint, len(points))
	labels := make([]string, 0, len(points))
	for _, p := range points {
		if p.Runway == "" {
			return nil, fmt.Errorf("reference point without runway label")
		}
		if _, exists := m[p.Runway]; exists {
			return nil, fmt.Errorf("duplicate runway label %q", p.Runway)
		}
		m[p.Runway] = p
		labels = append(labels, p.Runway)
	}
	sort.Strings(labels)
	return &Registry{points: m, labels: labels}, nil
}

// Lookup returns the reference point for a runway label.
func (r *Registry) Lookup(label string) (ReferencePoint, bool) {
	p, ok := r.points[label]
	return p, ok
}

// Labels returns the runway labels in lexicographic order. Matching
// iterates in this order so ties are broken deterministically.
func (r *Registry) Labels() []string {
	out := make([]string, len(r.labels))
	copy(out, r.labels)
	return out
}

// Len returns the number of reference points.
func (r *Registry) Len() int {
	return len(r.points)
}

// Heading returns the nominal magnetic heading for a runway label, i.e.
// the runway number times ten degrees ("32L" -> 320).
func Heading(label string) (float64, error) {
	digits := strings.TrimRight(label, "LCR")
	num, err := strconv.Atoi(digits)
	if err != nil || num < 1 || num > 36 {
		return 0, fmt.Errorf("invalid runway label %q", label)
	}
	return float64(num) * 10, nil
}

// ParseDMS converts a degrees-minutes-seconds coordinate string with a
// trailing hemisphere letter into signed decimal degrees. Latitudes carry
// six digits (DDMMSS), longitudes seven (DDDMMSS), e.g. "404619N" or
// "0033434W".
func ParseDMS(dms string) (float64, error) {
	if len(dms) != 7 && len(dms) != 8 {
		return 0, fmt.Errorf("invalid DMS coordinate %q: want 6 or 7 digits plus hemisphere", dms)
	}

	hemisphere := dms[len(dms)-1]
	digits := dms[:len(dms)-1]

	var degEnd int
	switch len(digits) {
	case 6:
		degEnd = 2
	case 7:
		degEnd = 3
	}

	deg, err := strconv.Atoi(digits[:degEnd])
	if err != nil {
		return 0, fmt.Errorf("invalid DMS degrees in %q: %w", dms, err)
	}
	min, err := strconv.Atoi(digits[degEnd : degEnd+2])
	if err != nil {
		return 0, fmt.Errorf("invalid DMS minutes in %q: %w", dms, err)
	}
	sec, err := strconv.Atoi(digits[degEnd+2:])
	if err != nil {
		return 0, fmt.Errorf("invalid DMS seconds in %q: %w", dms, err)
	}

	decimal := float64(deg) + float64(min)/60 + float64(sec)/3600

	switch hemisphere {
	case 'N', 'E':
	case 'S', 'W':
		decimal = -decimal
	default:
		return 0, fmt.Errorf("invalid hemisphere %q in DMS coordinate %q", hemisphere, dms)
	}
	return decimal, nil
}

// mustDMS panics on a malformed literal. Only used for the built-in tables.
func mustDMS(dms string) float64 {
	v, err := ParseDMS(dms)
	if err != nil {
		panic(err)
	}
	return v
}

// fap builds a FAP reference point from DMS literals.
func fap(label, latDMS, lonDMS string, altitudeFt, heightFt float64) ReferencePoint {
	return ReferencePoint{
		Runway:           label,
		Latitude:         mustDMS(latDMS),
		Longitude:        mustDMS(lonDMS),
		AltitudeFt:       altitudeFt,
		HeightAboveThrFt: heightFt,
	}
}

// DefaultFAPs returns the published LEMD Final Approach Points.
func DefaultFAPs() *Registry {
	reg, err := NewRegistry([]ReferencePoint{
		fap("18R", "404619N", "0033434W", 7000, 5009),
		fap("18L", "404226N", "0033337W", 5500, 3578),
		fap("32L", "402252N", "0032815W", 4000, 2067),
		fap("32R", "402100N", "0032440W", 5000, 3114),
	})
	if err != nil {
		panic(err)
	}
	return reg
}

// DefaultThresholds returns the surveyed LEMD runway threshold positions.
func DefaultThresholds() *Registry {
	reg, err := NewRegistry([]ReferencePoint{
		{Runway: "18R", Latitude: 40.530218500159428, Longitude: -3.574838439918973},
		{Runway: "18L", Latitude: 40.532622220224376, Longitude: -3.55938056019154},
		{Runway: "32L", Latitude: 40.45647777995444, Longitude: -3.547191670444303},
		{Runway: "32R", Latitude: 40.470008330215407, Longitude: -3.532580559771673},
	})
	if err != nil {
		panic(err)
	}
	return reg
}
