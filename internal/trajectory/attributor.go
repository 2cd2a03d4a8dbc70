package trajectory

import (
	"time"

	"github.com/DavidDeLaTorre/Engage2Hackathon/internal/geo"
	"github.com/DavidDeLaTorre/Engage2Hackathon/internal/runway"
	"github.com/DavidDeLaTorre/Engage2Hackathon/pkg/logger"
)

// backwardsBearingToleranceDeg is the alignment window used by the
// bearing-based FAP detection variant.
const backwardsBearingToleranceDeg = 10.0

// LandingMatch is the attribution result for one landing segment that
// passed validation.
type LandingMatch struct {
	ICAO24    string
	SegmentID int
	Runway    string

	// Nearest-report matches against the FAP and threshold registries.
	FAPIndex        int
	ThresholdIndex  int
	FAPReport       PositionReport
	ThresholdReport PositionReport
	FAPDistanceM    float64 // report to literal FAP position
	ThrDistanceM    float64 // report to literal threshold position

	TSFAPMs int64
	TSThrMs int64

	// Raw values measured between the two matched reports.
	RawDeltaTimeS float64
	RawDistanceM  float64

	// TrueDistanceM is the fixed FAP-to-threshold distance for the
	// matched runway; ScalingFactor = TrueDistanceM / RawDistanceM
	// (1 when the raw distance is zero). The corrected time projects
	// the observed transit time onto the nominal distance, assuming
	// near-constant ground speed over the offset.
	TrueDistanceM float64
	ScalingFactor float64
	DeltaTimeS    float64

	// Kinematics at the FAP crossing, from the report immediately before
	// the matched FAP report. Nil when there is no preceding report or
	// the elapsed time to it is not positive.
	SpeedFAPMps          *float64
	VerticalSpeedFAPFtps *float64
	HeadingFAPDeg        *float64

	// ILSReports are the reports between the matched FAP and threshold
	// indices, inclusive, in recorded order.
	ILSReports []PositionReport
}

// WeekdayFAP returns the day of week (Sunday = 0) of the FAP crossing, UTC.
func (m LandingMatch) WeekdayFAP() int {
	return int(time.UnixMilli(m.TSFAPMs).UTC().Weekday())
}

// HourFAP returns the hour of day [0, 23] of the FAP crossing, UTC.
func (m LandingMatch) HourFAP() int {
	return time.UnixMilli(m.TSFAPMs).UTC().Hour()
}

// Attributor matches landing segments against runway reference geometry
// and derives the corrected FAP-to-threshold elapsed time.
type Attributor struct {
	faps         *runway.Registry
	thresholds   *runway.Registry
	maxDistanceM float64
	logger       *logger.Logger
}

// NewAttributor creates an attributor over the given FAP and threshold
// registries. maxDistanceM bounds how far a matched report may sit from
// the literal reference point before the segment is rejected.
func NewAttributor(faps, thresholds *runway.Registry, maxDistanceM float64, log *logger.Logger) *Attributor {
	return &Attributor{
		faps:         faps,
		thresholds:   thresholds,
		maxDistanceM: maxDistanceM,
		logger:       log.Named("attributor"),
	}
}

// Attribute runs nearest-point attribution on one segment. Segments that
// are not landings, or that fail runway-consistency or proximity
// validation, return (zero, false); rejections are logged, not errors.
func (a *Attributor) Attribute(seg Segment) (LandingMatch, bool) {
	if seg.Trajectory != TrajectoryLanding {
		return LandingMatch{}, false
	}

	nearestFAP := NearestPoint(a.faps, seg.Reports)
	nearestThr := NearestPoint(a.thresholds, seg.Reports)
	if !nearestFAP.Found() || !nearestThr.Found() {
		a.reject(seg, "no matchable reports")
		return LandingMatch{}, false
	}

	if nearestFAP.Runway != nearestThr.Runway {
		a.reject(seg, "runway mismatch "+nearestFAP.Runway+" vs "+nearestThr.Runway)
		return LandingMatch{}, false
	}
	if nearestFAP.DistanceM > a.maxDistanceM || nearestThr.DistanceM > a.maxDistanceM {
		a.reject(seg, "match too far from reference point")
		return LandingMatch{}, false
	}

	return a.build(seg, nearestFAP, nearestThr), true
}

// AttributeBackwards runs the bearing-based FAP-detection variant: the
// threshold is still matched by proximity, but the FAP surrogate is the
// earliest report from which the track points at the threshold within
// ±10° of the runway's nominal heading. Used for aircraft that never
// pass near the literal FAP waypoint.
func (a *Attributor) AttributeBackwards(seg Segment) (LandingMatch, bool) {
	if seg.Trajectory != TrajectoryLanding {
		return LandingMatch{}, false
	}

	nearestThr := NearestPoint(a.thresholds, seg.Reports)
	if !nearestThr.Found() {
		a.reject(seg, "no matchable reports")
		return LandingMatch{}, false
	}
	if nearestThr.DistanceM > a.maxDistanceM {
		a.reject(seg, "threshold match too far from reference point")
		return LandingMatch{}, false
	}

	heading, err := runway.Heading(nearestThr.Runway)
	if err != nil {
		a.reject(seg, "unparseable runway label "+nearestThr.Runway)
		return LandingMatch{}, false
	}
	ref, _ := a.thresholds.Lookup(nearestThr.Runway)

	// Walk backwards from the threshold report; stop at the first report
	// whose bearing toward the threshold falls outside the alignment
	// window. The last aligned report is the FAP surrogate.
	fapIdx := -1
	for i := nearestThr.Index - 1; i >= 0; i-- {
		r := seg.Reports[i]
		if !r.HasPosition() {
			break
		}
		bearing := geo.Bearing(*r.Latitude, *r.Longitude, ref.Latitude, ref.Longitude)
		if geo.AngularDiff(bearing, heading) > backwardsBearingToleranceDeg {
			break
		}
		fapIdx = i
	}
	if fapIdx < 0 {
		a.reject(seg, "no aligned approach track before threshold")
		return LandingMatch{}, false
	}

	fapReport := seg.Reports[fapIdx]
	fapRef, ok := a.faps.Lookup(nearestThr.Runway)
	fapDistance := 0.0
	if ok && fapReport.HasPosition() {
		fapDistance = geo.Haversine(*fapReport.Latitude, *fapReport.Longitude, fapRef.Latitude, fapRef.Longitude)
	}

	nearestFAP := Match{
		Runway:    nearestThr.Runway,
		DistanceM: fapDistance,
		Index:     fapIdx,
		Report:    fapReport,
	}
	return a.build(seg, nearestFAP, nearestThr), true
}

// build assembles the LandingMatch once validation passed. Both matches
// are known to agree on runway here.
func (a *Attributor) build(seg Segment, nearestFAP, nearestThr Match) LandingMatch {
	fapRep := nearestFAP.Report
	thrRep := nearestThr.Report

	rawDeltaS := float64(thrRep.TimestampMS-fapRep.TimestampMS) / 1000.0
	rawDistanceM := geo.Haversine(*fapRep.Latitude, *fapRep.Longitude, *thrRep.Latitude, *thrRep.Longitude)

	trueDistanceM := a.trueDistance(nearestFAP.Runway)
	scaling := 1.0
	if rawDistanceM != 0 {
		scaling = trueDistanceM / rawDistanceM
	}

	m := LandingMatch{
		ICAO24:          seg.ICAO24,
		SegmentID:       seg.ID,
		Runway:          nearestFAP.Runway,
		FAPIndex:        nearestFAP.Index,
		ThresholdIndex:  nearestThr.Index,
		FAPReport:       fapRep,
		ThresholdReport: thrRep,
		FAPDistanceM:    nearestFAP.DistanceM,
		ThrDistanceM:    nearestThr.DistanceM,
		TSFAPMs:         fapRep.TimestampMS,
		TSThrMs:         thrRep.TimestampMS,
		RawDeltaTimeS:   rawDeltaS,
		RawDistanceM:    rawDistanceM,
		TrueDistanceM:   trueDistanceM,
		ScalingFactor:   scaling,
		DeltaTimeS:      rawDeltaS * scaling,
		ILSReports:      ilsReports(seg, nearestFAP.Index, nearestThr.Index),
	}

	a.fapKinematics(&m, seg, nearestFAP.Index)
	return m
}

// trueDistance returns the fixed great-circle distance between the
// runway's literal FAP and threshold positions.
func (a *Attributor) trueDistance(label string) float64 {
	fap, okFAP := a.faps.Lookup(label)
	thr, okThr := a.thresholds.Lookup(label)
	if !okFAP || !okThr {
		return 0
	}
	return geo.Haversine(fap.Latitude, fap.Longitude, thr.Latitude, thr.Longitude)
}

// fapKinematics fills in ground speed, vertical speed and heading at the
// FAP crossing from the report immediately preceding the matched one.
func (a *Attributor) fapKinematics(m *LandingMatch, seg Segment, fapIdx int) {
	if fapIdx <= 0 {
		return
	}
	prev := seg.Reports[fapIdx-1]
	fap := seg.Reports[fapIdx]

	dt := float64(fap.TimestampMS-prev.TimestampMS) / 1000.0
	if dt <= 0 || !prev.HasPosition() || !fap.HasPosition() {
		return
	}

	speed := geo.Haversine(*prev.Latitude, *prev.Longitude, *fap.Latitude, *fap.Longitude) / dt
	heading := geo.Bearing(*prev.Latitude, *prev.Longitude, *fap.Latitude, *fap.Longitude)
	m.SpeedFAPMps = &speed
	m.HeadingFAPDeg = &heading

	if prev.AltitudeFt != nil && fap.AltitudeFt != nil {
		vs := (*fap.AltitudeFt - *prev.AltitudeFt) / dt
		m.VerticalSpeedFAPFtps = &vs
	}
}

// ilsReports extracts the reports between the two matched indices,
// inclusive, regardless of which was recorded first.
func ilsReports(seg Segment, fapIdx, thrIdx int) []PositionReport {
	lo, hi := fapIdx, thrIdx
	if lo > hi {
		lo, hi = hi, lo
	}
	out := make([]PositionReport, hi-lo+1)
	copy(out, seg.Reports[lo:hi+1])
	return out
}

// reject logs an expected geometric rejection with enough context to find
// the flight again.
func (a *Attributor) reject(seg Segment, reason string) {
	a.logger.Info("Segment rejected",
		logger.String("icao24", seg.ICAO24),
		logger.Int("segment", seg.ID),
		logger.Time("start", time.UnixMilli(seg.StartTimeMS).UTC()),
		logger.String("reason", reason),
	)
}
