package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DavidDeLaTorre/Engage2Hackathon/internal/config"
	"github.com/DavidDeLaTorre/Engage2Hackathon/internal/runway"
	"github.com/DavidDeLaTorre/Engage2Hackathon/internal/storage/sqlite"
	"github.com/DavidDeLaTorre/Engage2Hackathon/internal/trajectory"
	"github.com/DavidDeLaTorre/Engage2Hackathon/pkg/logger"
)

func newTestRouter(t *testing.T) (http.Handler, *sqlite.LandingStorage) {
	t.Helper()

	log, err := logger.New(logger.Config{Level: "error", Format: "console"})
	require.NoError(t, err)

	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	landings, err := sqlite.NewLandingStorage(db, log)
	require.NoError(t, err)

	router := NewRouter(landings, runway.DefaultFAPs(), runway.DefaultThresholds(), config.DefaultConfig(), log)
	return router.Routes(), landings
}

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func storeTestLandings(t *testing.T, landings *sqlite.LandingStorage) {
	t.Helper()
	require.NoError(t, landings.StoreLandings([]trajectory.LandingMatch{
		{ICAO24: "abc123", SegmentID: 0, Runway: "32L", TSFAPMs: 1731760200000, TSThrMs: 1731760380000, DeltaTimeS: 180},
		{ICAO24: "def456", SegmentID: 0, Runway: "18R", TSFAPMs: 1731763800000, TSThrMs: 1731764010000, DeltaTimeS: 210},
	}))
}

func TestGetHealth(t *testing.T) {
	handler, _ := newTestRouter(t)

	rec := get(t, handler, "/api/v1/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}

func TestCORSHeaders(t *testing.T) {
	handler, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))

	// The API is unauthenticated and read-only; only Content-Type is
	// advertised.
	assert.Equal(t, "Content-Type", rec.Header().Get("Access-Control-Allow-Headers"))
}

func TestGetLandings(t *testing.T) {
	handler, landings := newTestRouter(t)
	storeTestLandings(t, landings)

	rec := get(t, handler, "/api/v1/landings")
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []sqlite.LandingRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "def456", rows[0].ICAO24)
}

func TestGetLandingsLimit(t *testing.T) {
	handler, landings := newTestRouter(t)
	storeTestLandings(t, landings)

	rec := get(t, handler, "/api/v1/landings?limit=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []sqlite.LandingRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	assert.Len(t, rows, 1)
}

func TestGetLandingsByRunway(t *testing.T) {
	handler, landings := newTestRouter(t)
	storeTestLandings(t, landings)

	rec := get(t, handler, "/api/v1/landings/runway/32L")
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []sqlite.LandingRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "abc123", rows[0].ICAO24)
}

func TestGetLandingsByUnknownRunway(t *testing.T) {
	handler, _ := newTestRouter(t)

	rec := get(t, handler, "/api/v1/landings/runway/09C")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetLandingsByTimeRange(t *testing.T) {
	handler, landings := newTestRouter(t)
	storeTestLandings(t, landings)

	rec := get(t, handler, "/api/v1/landings/time-range?from=2024-11-16T12:00:00Z&to=2024-11-16T12:45:00Z")
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []sqlite.LandingRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "abc123", rows[0].ICAO24)
}

func TestGetLandingsByTimeRangeBadParams(t *testing.T) {
	handler, _ := newTestRouter(t)

	rec := get(t, handler, "/api/v1/landings/time-range?from=yesterday&to=today")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetStats(t *testing.T) {
	handler, landings := newTestRouter(t)
	storeTestLandings(t, landings)

	rec := get(t, handler, "/api/v1/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats map[string]trajectory.DeltaTimeStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	require.Contains(t, stats, "32L")
	assert.Equal(t, 1, stats["32L"].Count)
	assert.Equal(t, 180.0, stats["32L"].MeanS)
}

func TestGetRunways(t *testing.T) {
	handler, _ := newTestRouter(t)

	rec := get(t, handler, "/api/v1/runways")
	require.Equal(t, http.StatusOK, rec.Code)

	var runways []struct {
		Runway string  `json:"runway"`
		FAPLat float64 `json:"fap_lat"`
		ThrLat float64 `json:"thr_lat"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runways))
	require.Len(t, runways, 4)

	// Labels come out in lexicographic order.
	assert.Equal(t, "18L", runways[0].Runway)
	assert.Equal(t, "32R", runways[3].Runway)
	assert.NotZero(t, runways[0].FAPLat)
	assert.NotZero(t, runways[0].ThrLat)
}

func TestGetConfig(t *testing.T) {
	handler, _ := newTestRouter(t)

	rec := get(t, handler, "/api/v1/config")
	require.Equal(t, http.StatusOK, rec.Code)

	var cfg config.PipelineConfig
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	assert.Equal(t, "fap", cfg.Model)
}
