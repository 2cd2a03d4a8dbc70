package trajectory

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DavidDeLaTorre/Engage2Hackathon/internal/runway"
	"github.com/DavidDeLaTorre/Engage2Hackathon/pkg/logger"
)

// testLogger returns a quiet logger for tests.
func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(logger.Config{Level: "error", Format: "console"})
	require.NoError(t, err)
	return log
}

// report builds a complete position report.
func report(icao24 string, tsMS int64, lat, lon, altFt float64) PositionReport {
	return PositionReport{
		ICAO24:      icao24,
		TimestampMS: tsMS,
		Latitude:    &lat,
		Longitude:   &lon,
		AltitudeFt:  &altFt,
	}
}

// mustRegistry builds a registry from points, failing the test on error.
func mustRegistry(t *testing.T, points ...runway.ReferencePoint) *runway.Registry {
	t.Helper()
	reg, err := runway.NewRegistry(points)
	require.NoError(t, err)
	return reg
}
