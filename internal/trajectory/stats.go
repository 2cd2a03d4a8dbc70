package trajectory

import (
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"
)

// DeltaTimeStats summarizes the corrected FAP-to-threshold times of a set
// of landings.
type DeltaTimeStats struct {
	Count   int     `json:"count"`
	MinS    float64 `json:"min"`
	MaxS    float64 `json:"max"`
	MeanS   float64 `json:"mean"`
	MedianS float64 `json:"median"`
	StdS    float64 `json:"std"`
	P25S    float64 `json:"p25"`
	P75S    float64 `json:"p75"`
}

// ComputeDeltaTimeStats summarizes the given delta times. Returns an
// error for an empty input.
func ComputeDeltaTimeStats(deltaTimesS []float64) (DeltaTimeStats, error) {
	if len(deltaTimesS) == 0 {
		return DeltaTimeStats{}, fmt.Errorf("no delta times to summarize")
	}

	data := stats.Float64Data(deltaTimesS)
	min, err := data.Min()
	if err != nil {
		return DeltaTimeStats{}, err
	}
	max, err := data.Max()
	if err != nil {
		return DeltaTimeStats{}, err
	}
	mean, err := data.Mean()
	if err != nil {
		return DeltaTimeStats{}, err
	}
	median, err := data.Median()
	if err != nil {
		return DeltaTimeStats{}, err
	}

	// The sample standard deviation and the quartiles degenerate for a
	// single value; pin them so the result stays finite and
	// JSON-serializable.
	std := 0.0
	p25, p75 := min, max
	if len(deltaTimesS) > 1 {
		std, err = data.StandardDeviationSample()
		if err != nil {
			return DeltaTimeStats{}, err
		}
		q, err := stats.Quartile(data)
		if err != nil {
			return DeltaTimeStats{}, err
		}
		p25, p75 = q.Q1, q.Q3
	}

	return DeltaTimeStats{
		Count:   len(deltaTimesS),
		MinS:    min,
		MaxS:    max,
		MeanS:   mean,
		MedianS: median,
		StdS:    std,
		P25S:    p25,
		P75S:    p75,
	}, nil
}

// StatsByRunway groups landings by matched runway and summarizes each
// group's delta times.
func StatsByRunway(matches []LandingMatch) map[string]DeltaTimeStats {
	byRunway := make(map[string][]float64)
	for _, m := range matches {
		byRunway[m.Runway] = append(byRunway[m.Runway], m.DeltaTimeS)
	}

	out := make(map[string]DeltaTimeStats, len(byRunway))
	for rwy, times := range byRunway {
		s, err := ComputeDeltaTimeStats(times)
		if err != nil {
			continue
		}
		out[rwy] = s
	}
	return out
}

// FilterByDeltaTime keeps landings whose corrected delta time lies in
// [minS, maxS]. This is the plausibility window applied before statistics
// and training export.
func FilterByDeltaTime(matches []LandingMatch, minS, maxS float64) []LandingMatch {
	out := make([]LandingMatch, 0, len(matches))
	for _, m := range matches {
		if m.DeltaTimeS >= minS && m.DeltaTimeS <= maxS {
			out = append(out, m)
		}
	}
	return out
}

// Outliers returns landings whose corrected delta time is below the given
// threshold, sorted by runway then FAP timestamp. These are implausibly
// fast approaches worth manual review.
func Outliers(matches []LandingMatch, thresholdS float64) []LandingMatch {
	var out []LandingMatch
	for _, m := range matches {
		if m.DeltaTimeS < thresholdS {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Runway != out[j].Runway {
			return out[i].Runway < out[j].Runway
		}
		return out[i].TSFAPMs < out[j].TSFAPMs
	})
	return out
}
