// Package pipeline wires ingestion, filtering, segmentation and landing
// attribution into one run. The pipeline itself is a pure function of its
// input reports; persistence and caching are injected collaborators.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/DavidDeLaTorre/Engage2Hackathon/internal/config"
	"github.com/DavidDeLaTorre/Engage2Hackathon/internal/runway"
	"github.com/DavidDeLaTorre/Engage2Hackathon/internal/trajectory"
	"github.com/DavidDeLaTorre/Engage2Hackathon/pkg/logger"
)

// Cache stores serialized pipeline results under a content-derived key.
// A nil Cache disables caching.
type Cache interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
}

// Result is everything one pipeline run produces.
type Result struct {
	// Segments are all flight segments for all aircraft, tagged with
	// their trajectory class.
	Segments []trajectory.Segment `json:"segments"`

	// Landings are the validated landing attributions, before the
	// delta-time plausibility window.
	Landings []trajectory.LandingMatch `json:"landings"`

	// Accepted are the landings within the plausibility window; the
	// statistics, outliers and training rows are derived from these.
	Accepted []trajectory.LandingMatch   `json:"accepted"`
	Training []trajectory.TrainingRecord `json:"training"`

	Stats         *trajectory.DeltaTimeStats           `json:"stats"`
	StatsByRunway map[string]trajectory.DeltaTimeStats `json:"stats_by_runway"`
	Outliers      []trajectory.LandingMatch            `json:"outliers"`
}

// Pipeline runs the segmentation and attribution flow over a report set.
type Pipeline struct {
	cfg        config.PipelineConfig
	faps       *runway.Registry
	thresholds *runway.Registry
	cache      Cache
	logger     *logger.Logger
}

// New creates a pipeline with the given reference geometry. cache may be
// nil to disable result caching.
func New(cfg config.PipelineConfig, faps, thresholds *runway.Registry, cache Cache, log *logger.Logger) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		faps:       faps,
		thresholds: thresholds,
		cache:      cache,
		logger:     log.Named("pipeline"),
	}
}

// Run processes a full report set. It fails only on structurally unusable
// input; individual bad-geometry segments are dropped and logged.
func (p *Pipeline) Run(ctx context.Context, reports []trajectory.PositionReport) (*Result, error) {
	if len(reports) == 0 {
		return nil, fmt.Errorf("no position reports to process")
	}

	key, err := p.cacheKey(reports)
	if err != nil {
		return nil, err
	}
	if cached := p.cacheLookup(key); cached != nil {
		return cached, nil
	}

	filtered := trajectory.CleanNulls(reports)
	filtered = trajectory.FilterByBounds(filtered, p.cfg.MinLatDeg, p.cfg.MaxLatDeg, p.cfg.MinLonDeg, p.cfg.MaxLonDeg)
	filtered = trajectory.FilterByAltitude(filtered, p.cfg.MinAltitudeFt, p.cfg.MaxAltitudeFt)
	if len(filtered) == 0 {
		return nil, fmt.Errorf("no reports remain after null/bounds/altitude filtering (%d in)", len(reports))
	}

	p.logger.Info("Filtered reports",
		logger.Int("in", len(reports)),
		logger.Int("kept", len(filtered)),
	)

	result, err := p.process(ctx, filtered)
	if err != nil {
		return nil, err
	}

	p.finalize(result)
	p.cacheStore(key, result)
	return result, nil
}

// aircraftResult carries one aircraft's products out of its worker.
type aircraftResult struct {
	segments []trajectory.Segment
	landings []trajectory.LandingMatch
}

// process fans segmentation and attribution out across aircraft. Shared
// state is read-only, so workers never synchronize beyond the group wait.
func (p *Pipeline) process(ctx context.Context, reports []trajectory.PositionReport) (*Result, error) {
	builder := trajectory.NewSegmentBuilder(p.cfg.SegmentGapSeconds, p.logger)
	attributor := trajectory.NewAttributor(p.faps, p.thresholds, p.cfg.MaxMatchDistanceM, p.logger)

	groups := trajectory.GroupByAircraft(reports)
	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	workers := p.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]aircraftResult, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			segments := builder.Build(id, groups[id])
			var landings []trajectory.LandingMatch
			for _, seg := range segments {
				var m trajectory.LandingMatch
				var ok bool
				if p.cfg.Model == "backwards" {
					m, ok = attributor.AttributeBackwards(seg)
				} else {
					m, ok = attributor.Attribute(seg)
				}
				if ok {
					landings = append(landings, m)
				}
			}
			results[i] = aircraftResult{segments: segments, landings: landings}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &Result{}
	for _, r := range results {
		out.Segments = append(out.Segments, r.segments...)
		out.Landings = append(out.Landings, r.landings...)
	}
	return out, nil
}

// finalize applies the plausibility window and derives statistics,
// outliers and the training subset.
func (p *Pipeline) finalize(r *Result) {
	r.Accepted = trajectory.FilterByDeltaTime(r.Landings, p.cfg.MinDeltaTimeS, p.cfg.MaxDeltaTimeS)
	r.StatsByRunway = trajectory.StatsByRunway(r.Accepted)
	r.Outliers = trajectory.Outliers(r.Landings, p.cfg.OutlierDeltaTimeS)

	times := make([]float64, len(r.Accepted))
	for i, m := range r.Accepted {
		times[i] = m.DeltaTimeS
	}
	if stats, err := trajectory.ComputeDeltaTimeStats(times); err == nil {
		r.Stats = &stats
	}

	r.Training = make([]trajectory.TrainingRecord, len(r.Accepted))
	for i, m := range r.Accepted {
		r.Training[i] = trajectory.NewTrainingRecord(m)
	}

	p.logger.Info("Attribution complete",
		logger.Int("segments", len(r.Segments)),
		logger.Int("landings", len(r.Landings)),
		logger.Int("accepted", len(r.Accepted)),
		logger.Int("outliers", len(r.Outliers)),
	)
}

// cacheKey hashes the input reports together with the pipeline settings,
// so any change to either invalidates the entry.
func (p *Pipeline) cacheKey(reports []trajectory.PositionReport) (string, error) {
	h := sha256.New()
	enc := json.NewEncoder(h)
	if err := enc.Encode(p.cfg); err != nil {
		return "", fmt.Errorf("failed to hash pipeline config: %w", err)
	}
	if err := enc.Encode(reports); err != nil {
		return "", fmt.Errorf("failed to hash reports: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (p *Pipeline) cacheLookup(key string) *Result {
	if p.cache == nil {
		return nil
	}
	data, found, err := p.cache.Get(key)
	if err != nil {
		p.logger.Warn("Cache lookup failed", logger.Error(err))
		return nil
	}
	if !found {
		return nil
	}

	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		p.logger.Warn("Discarding undecodable cache entry", logger.Error(err))
		return nil
	}

	p.logger.Info("Loaded pipeline result from cache", logger.String("key", key[:12]))
	return &result
}

func (p *Pipeline) cacheStore(key string, result *Result) {
	if p.cache == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		p.logger.Warn("Failed to serialize result for cache", logger.Error(err))
		return
	}
	if err := p.cache.Put(key, data); err != nil {
		p.logger.Warn("Failed to store cache entry", logger.Error(err))
	}
}
