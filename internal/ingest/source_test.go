package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DavidDeLaTorre/Engage2Hackathon/internal/config"
	"github.com/DavidDeLaTorre/Engage2Hackathon/pkg/logger"
)

const sampleReports = `[
	{"icao24": "abc123", "ts": 1000, "lat_deg": 40.5, "lon_deg": -3.5, "altitude": 4000},
	{"icao24": "abc123", "ts": 2000, "lat_deg": 40.6, "lon_deg": -3.6, "altitude": null}
]`

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(logger.Config{Level: "error", Format: "console"})
	require.NoError(t, err)
	return log
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reports.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileSourceBareArray(t *testing.T) {
	src := NewFileSource(writeTemp(t, sampleReports), testLogger(t))

	reports, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 2)

	assert.Equal(t, "abc123", reports[0].ICAO24)
	assert.Equal(t, int64(1000), reports[0].TimestampMS)
	require.NotNil(t, reports[0].Latitude)
	assert.Equal(t, 40.5, *reports[0].Latitude)
	assert.Nil(t, reports[1].AltitudeFt)
}

func TestFileSourceEnvelope(t *testing.T) {
	src := NewFileSource(writeTemp(t, `{"reports": `+sampleReports+`}`), testLogger(t))

	reports, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, reports, 2)
}

func TestFileSourceBadJSON(t *testing.T) {
	src := NewFileSource(writeTemp(t, `{not json`), testLogger(t))

	_, err := src.Fetch(context.Background())
	assert.Error(t, err)
}

func TestFileSourceMissingFile(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "nope.json"), testLogger(t))

	_, err := src.Fetch(context.Background())
	assert.Error(t, err)
}

func TestHTTPSourceFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleReports))
	}))
	defer server.Close()

	src := NewHTTPSource(server.URL, 5*time.Second, testLogger(t))

	reports, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "abc123", reports[0].ICAO24)
}

func TestHTTPSourceUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	src := NewHTTPSource(server.URL, 5*time.Second, testLogger(t))

	_, err := src.Fetch(context.Background())
	assert.Error(t, err)
}

func TestNewSource(t *testing.T) {
	log := testLogger(t)

	src, err := NewSource(config.IngestConfig{SourceType: "file", FilePath: "x.json"}, log)
	require.NoError(t, err)
	assert.IsType(t, &FileSource{}, src)

	src, err = NewSource(config.IngestConfig{SourceType: "http", URL: "http://example.com", TimeoutSeconds: 10}, log)
	require.NoError(t, err)
	assert.IsType(t, &HTTPSource{}, src)

	_, err = NewSource(config.IngestConfig{SourceType: "file"}, log)
	assert.Error(t, err)

	_, err = NewSource(config.IngestConfig{SourceType: "http"}, log)
	assert.Error(t, err)

	_, err = NewSource(config.IngestConfig{SourceType: "ftp"}, log)
	assert.Error(t, err)
}
