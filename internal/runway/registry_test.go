package runway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDMSLatitude(t *testing.T) {
	// 40°46'19" N
	v, err := ParseDMS("404619N")
	require.NoError(t, err)
	assert.InDelta(t, 40.0+46.0/60+19.0/3600, v, 1e-9)
}

func TestParseDMSLongitudeWest(t *testing.T) {
	// 003°34'34" W
	v, err := ParseDMS("0033434W")
	require.NoError(t, err)
	assert.InDelta(t, -(3.0 + 34.0/60 + 34.0/3600), v, 1e-9)
}

func TestParseDMSSouth(t *testing.T) {
	v, err := ParseDMS("404619S")
	require.NoError(t, err)
	assert.Less(t, v, 0.0)
}

func TestParseDMSErrors(t *testing.T) {
	for _, in := range []string{"", "40N", "404619X", "40461N", "40x619N", "0033434"} {
		_, err := ParseDMS(in)
		assert.Error(t, err, in)
	}
}

func TestHeading(t *testing.T) {
	for _, tc := range []struct {
		label   string
		heading float64
	}{
		{"18L", 180},
		{"18R", 180},
		{"32L", 320},
		{"32R", 320},
		{"09", 90},
		{"36C", 360},
	} {
		h, err := Heading(tc.label)
		require.NoError(t, err, tc.label)
		assert.Equal(t, tc.heading, h, tc.label)
	}
}

func TestHeadingInvalid(t *testing.T) {
	for _, label := range []string{"", "XX", "99", "0"} {
		_, err := Heading(label)
		assert.Error(t, err, label)
	}
}

func TestNewRegistryRejectsDuplicates(t *testing.T) {
	_, err := NewRegistry([]ReferencePoint{
		{Runway: "18L", Latitude: 1, Longitude: 1},
		{Runway: "18L", Latitude: 2, Longitude: 2},
	})
	assert.Error(t, err)
}

func TestNewRegistryRejectsUnlabeled(t *testing.T) {
	_, err := NewRegistry([]ReferencePoint{{Latitude: 1, Longitude: 1}})
	assert.Error(t, err)
}

func TestRegistryLabelsSorted(t *testing.T) {
	reg, err := NewRegistry([]ReferencePoint{
		{Runway: "32R", Latitude: 1, Longitude: 1},
		{Runway: "18L", Latitude: 2, Longitude: 2},
		{Runway: "32L", Latitude: 3, Longitude: 3},
		{Runway: "18R", Latitude: 4, Longitude: 4},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"18L", "18R", "32L", "32R"}, reg.Labels())
}

func TestRegistryLookup(t *testing.T) {
	reg, err := NewRegistry([]ReferencePoint{{Runway: "32L", Latitude: 40.38, Longitude: -3.47}})
	require.NoError(t, err)

	p, ok := reg.Lookup("32L")
	assert.True(t, ok)
	assert.Equal(t, 40.38, p.Latitude)

	_, ok = reg.Lookup("14C")
	assert.False(t, ok)
}

func TestDefaultFAPs(t *testing.T) {
	reg := DefaultFAPs()
	assert.Equal(t, 4, reg.Len())
	assert.Equal(t, []string{"18L", "18R", "32L", "32R"}, reg.Labels())

	fap, ok := reg.Lookup("18R")
	require.True(t, ok)
	assert.InDelta(t, 40.771944, fap.Latitude, 1e-5)
	assert.InDelta(t, -3.576111, fap.Longitude, 1e-5)
	assert.Equal(t, 7000.0, fap.AltitudeFt)
	assert.Equal(t, 5009.0, fap.HeightAboveThrFt)
}

func TestDefaultThresholds(t *testing.T) {
	reg := DefaultThresholds()
	assert.Equal(t, 4, reg.Len())

	thr, ok := reg.Lookup("32L")
	require.True(t, ok)
	assert.InDelta(t, 40.456478, thr.Latitude, 1e-5)
	assert.InDelta(t, -3.547192, thr.Longitude, 1e-5)
	assert.Zero(t, thr.AltitudeFt)
}
