// Package ingest loads raw position reports from a JSON source, either a
// local file or an HTTP endpoint. Parquet conversion happens upstream;
// the pipeline only consumes the decoded records.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/DavidDeLaTorre/Engage2Hackathon/internal/config"
	"github.com/DavidDeLaTorre/Engage2Hackathon/internal/trajectory"
	"github.com/DavidDeLaTorre/Engage2Hackathon/pkg/logger"
)

// Source yields the full set of position reports for one pipeline run.
type Source interface {
	Fetch(ctx context.Context) ([]trajectory.PositionReport, error)
}

// NewSource builds a source from configuration.
func NewSource(cfg config.IngestConfig, log *logger.Logger) (Source, error) {
	switch cfg.SourceType {
	case "file":
		if cfg.FilePath == "" {
			return nil, fmt.Errorf("ingest.file_path is required for the file source")
		}
		return NewFileSource(cfg.FilePath, log), nil
	case "http":
		if cfg.URL == "" {
			return nil, fmt.Errorf("ingest.url is required for the http source")
		}
		timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
		return NewHTTPSource(cfg.URL, timeout, log), nil
	default:
		return nil, fmt.Errorf("unknown ingest source type: %s", cfg.SourceType)
	}
}

// reportEnvelope is the wrapped feed format: {"reports": [...]}. Bare
// arrays are also accepted.
type reportEnvelope struct {
	Reports []trajectory.PositionReport `json:"reports"`
}

// decodeReports parses either a bare JSON array of reports or the
// enveloped form.
func decodeReports(data []byte) ([]trajectory.PositionReport, error) {
	var reports []trajectory.PositionReport
	if err := json.Unmarshal(data, &reports); err == nil {
		return reports, nil
	}

	var envelope reportEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse report JSON: %w", err)
	}
	return envelope.Reports, nil
}

// FileSource reads reports from a JSON file on disk.
type FileSource struct {
	path   string
	logger *logger.Logger
}

// NewFileSource creates a file-backed report source.
func NewFileSource(path string, log *logger.Logger) *FileSource {
	return &FileSource{
		path:   path,
		logger: log.Named("ingest-file"),
	}
}

// Fetch reads and decodes the whole file.
func (s *FileSource) Fetch(ctx context.Context) ([]trajectory.PositionReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report file: %w", err)
	}

	reports, err := decodeReports(data)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Loaded position reports",
		logger.String("path", s.path),
		logger.Int("count", len(reports)),
	)
	return reports, nil
}

// HTTPSource fetches reports from an HTTP endpoint serving JSON.
type HTTPSource struct {
	url        string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewHTTPSource creates an HTTP-backed report source.
func NewHTTPSource(url string, timeout time.Duration, log *logger.Logger) *HTTPSource {
	return &HTTPSource{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log.Named("ingest-http"),
	}
}

// Fetch downloads and decodes the report set.
func (s *HTTPSource) Fetch(ctx context.Context) ([]trajectory.PositionReport, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	s.logger.Debug("Fetching position reports", logger.String("url", s.url))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	reports, err := decodeReports(body)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Fetched position reports",
		logger.String("url", s.url),
		logger.Int("count", len(reports)),
	)
	return reports, nil
}
