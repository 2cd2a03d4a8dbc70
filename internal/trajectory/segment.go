package trajectory

import (
	"github.com/DavidDeLaTorre/Engage2Hackathon/pkg/logger"
)

// Trajectory classifies a segment's vertical trend.
type Trajectory string

const (
	TrajectoryDeparting Trajectory = "departing"
	TrajectoryLanding   Trajectory = "landing"
	TrajectoryLevel     Trajectory = "level"
)

// Segment is a maximal run of one aircraft's reports where consecutive
// timestamps differ by no more than the builder's gap threshold.
// Segment ids restart at 0 for every aircraft; key by (ICAO24, ID).
type Segment struct {
	ICAO24  string
	ID      int
	Reports []PositionReport

	// TimeGapsS[i] is the gap in seconds between report i-1 and report i;
	// the first report of a segment has gap 0.
	TimeGapsS []float64

	Trajectory      Trajectory
	StartTimeMS     int64
	EndTimeMS       int64
	StartAltitudeFt float64
	EndAltitudeFt   float64
}

// AltitudeChangeFt is the net altitude change over the segment.
func (s Segment) AltitudeChangeFt() float64 {
	return s.EndAltitudeFt - s.StartAltitudeFt
}

// SegmentBuilder splits one aircraft's reports into temporally contiguous
// segments and classifies each by its net altitude change.
type SegmentBuilder struct {
	gapThresholdS float64
	logger        *logger.Logger
}

// NewSegmentBuilder creates a builder with the given gap threshold in
// seconds. Gaps strictly greater than the threshold start a new segment.
func NewSegmentBuilder(gapThresholdS float64, log *logger.Logger) *SegmentBuilder {
	return &SegmentBuilder{
		gapThresholdS: gapThresholdS,
		logger:        log.Named("segments"),
	}
}

// Build produces the ordered segments for one aircraft's reports. Input
// may be in any order; it is sorted by timestamp first. Reports from
// different aircraft must not be mixed in one call.
func (b *SegmentBuilder) Build(icao24 string, reports []PositionReport) []Segment {
	if len(reports) == 0 {
		return nil
	}

	sorted := make([]PositionReport, len(reports))
	copy(sorted, reports)
	SortByTime(sorted)

	var segments []Segment
	current := Segment{ICAO24: icao24, ID: 0}

	for i, r := range sorted {
		gap := 0.0
		if i > 0 {
			gap = float64(r.TimestampMS-sorted[i-1].TimestampMS) / 1000.0
		}

		if gap > b.gapThresholdS {
			segments = append(segments, b.finalize(current))
			current = Segment{ICAO24: icao24, ID: current.ID + 1}
			gap = 0
		}

		current.Reports = append(current.Reports, r)
		current.TimeGapsS = append(current.TimeGapsS, gap)
	}
	segments = append(segments, b.finalize(current))

	b.logger.Debug("Built segments",
		logger.String("icao24", icao24),
		logger.Int("reports", len(sorted)),
		logger.Int("segments", len(segments)),
	)

	return segments
}

// finalize stamps the summary fields and classifies the segment.
func (b *SegmentBuilder) finalize(s Segment) Segment {
	first := s.Reports[0]
	last := s.Reports[len(s.Reports)-1]

	s.StartTimeMS = first.TimestampMS
	s.EndTimeMS = last.TimestampMS
	if first.AltitudeFt != nil {
		s.StartAltitudeFt = *first.AltitudeFt
	}
	if last.AltitudeFt != nil {
		s.EndAltitudeFt = *last.AltitudeFt
	}

	switch change := s.AltitudeChangeFt(); {
	case change > 0:
		s.Trajectory = TrajectoryDeparting
	case change < 0:
		s.Trajectory = TrajectoryLanding
	default:
		s.Trajectory = TrajectoryLevel
	}
	return s
}
