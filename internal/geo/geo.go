// Package geo provides great-circle math shared by the matching and
// attribution code. All distances are in meters.
package geo

import "math"

const (
	// EarthRadiusM is the mean Earth radius used for haversine distances.
	EarthRadiusM = 6371000.0

	// Conversion factors
	MetersPerNM  = 1852.0
	FeetPerMeter = 3.28084
)

// Haversine calculates the great-circle distance in meters between two
// lat/lon points given in decimal degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	rad := math.Pi / 180.0

	lat1Rad := lat1 * rad
	lat2Rad := lat2 * rad
	dlat := (lat2 - lat1) * rad
	dlon := (lon2 - lon1) * rad

	a := math.Pow(math.Sin(dlat/2), 2) + math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Pow(math.Sin(dlon/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusM * c
}

// Bearing calculates the initial compass bearing in degrees from point 1
// to point 2. Returns a value in [0, 360) with 0 = North, 90 = East.
func Bearing(lat1, lon1, lat2, lon2 float64) float64 {
	rad := math.Pi / 180.0

	lat1Rad := lat1 * rad
	lat2Rad := lat2 * rad
	dlon := (lon2 - lon1) * rad

	y := math.Sin(dlon) * math.Cos(lat2Rad)
	x := math.Cos(lat1Rad)*math.Sin(lat2Rad) - math.Sin(lat1Rad)*math.Cos(lat2Rad)*math.Cos(dlon)
	bearing := math.Atan2(y, x) / rad

	return math.Mod(bearing+360.0, 360.0)
}

// AngularDiff returns the absolute difference between two headings in
// degrees, folded into [0, 180].
func AngularDiff(a, b float64) float64 {
	diff := math.Abs(a - b)
	if diff > 180 {
		diff = 360 - diff
	}
	return diff
}

// MetersToNM converts meters to nautical miles.
func MetersToNM(meters float64) float64 {
	return meters / MetersPerNM
}

// NMToMeters converts nautical miles to meters.
func NMToMeters(nm float64) float64 {
	return nm * MetersPerNM
}

// FeetToMeters converts feet to meters.
func FeetToMeters(feet float64) float64 {
	return feet / FeetPerMeter
}

// MetersToFeet converts meters to feet.
func MetersToFeet(meters float64) float64 {
	return meters * FeetPerMeter
}
