package trajectory

// wakeVortexIndex maps ADS-B wake-vortex category strings to the stable
// integer encoding expected by the downstream regression models.
var wakeVortexIndex = map[string]int{
	"Heavy":                     0,
	"Obstruction":               1,
	"nan":                       2,
	"<136,000kg":                3,
	"<34,000kg":                 4,
	"Surface emergency vehicle": 5,
	"Rotorcraft":                6,
	"<7000kg":                   7,
	"High vortex":               8,
	"Ultralight":                9,
	"Reserved":                  10,
	"Glider":                    11,
	"Lighter than air":          12,
	"High performance":          13,
	"Space":                     14,
	"Surface service vehicle":   15,
	"UAM":                       16,
	"Parachutist":               18,
}

// WakeVortexIndex returns the integer encoding for a wake-vortex category
// string. Unknown categories map to the "nan" bucket.
func WakeVortexIndex(category string) int {
	if idx, ok := wakeVortexIndex[category]; ok {
		return idx
	}
	return wakeVortexIndex["nan"]
}

// TrainingRecord is one row of the model-training subset: the corrected
// delta time is the label, the rest are features or identifiers.
type TrainingRecord struct {
	ICAO24           string   `json:"icao24"`
	Runway           string   `json:"runway_fap"`
	TSFAPMs          int64    `json:"ts_fap"`
	TSThrMs          int64    `json:"ts_thr"`
	DistanceM        float64  `json:"distance_fap_to_thr"`
	DeltaTimeS       float64  `json:"delta_time_fap_to_thr"`
	SpeedFAP         *float64 `json:"speed_fap"`
	VerticalSpeedFAP *float64 `json:"vertical_speed_fap"`
	HeadingFAP       *float64 `json:"heading_fap"`
	Weekday          int      `json:"weekday"`
	Hour             int      `json:"hour"`
	WakeVortexIndex  int      `json:"wake_vortex_index"`
}

// NewTrainingRecord derives the training row for one landing. The wake
// category is taken from the first report in the ILS sub-segment that
// carries one.
func NewTrainingRecord(m LandingMatch) TrainingRecord {
	wake := "nan"
	for _, r := range m.ILSReports {
		if r.WakeVortex != nil && *r.WakeVortex != "" {
			wake = *r.WakeVortex
			break
		}
	}

	return TrainingRecord{
		ICAO24:           m.ICAO24,
		Runway:           m.Runway,
		TSFAPMs:          m.TSFAPMs,
		TSThrMs:          m.TSThrMs,
		DistanceM:        m.TrueDistanceM,
		DeltaTimeS:       m.DeltaTimeS,
		SpeedFAP:         m.SpeedFAPMps,
		VerticalSpeedFAP: m.VerticalSpeedFAPFtps,
		HeadingFAP:       m.HeadingFAPDeg,
		Weekday:          m.WeekdayFAP(),
		Hour:             m.HourFAP(),
		WakeVortexIndex:  WakeVortexIndex(wake),
	}
}
