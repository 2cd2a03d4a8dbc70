package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/DavidDeLaTorre/Engage2Hackathon/internal/trajectory"
	"github.com/DavidDeLaTorre/Engage2Hackathon/pkg/logger"
)

// LandingStorage handles storage of per-landing attribution records.
type LandingStorage struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewLandingStorage creates a new SQLite landing storage.
func NewLandingStorage(db *sql.DB, log *logger.Logger) (*LandingStorage, error) {
	storage := &LandingStorage{
		db:     db,
		logger: log.Named("sqlite-landings"),
	}
	if err := storage.initDB(); err != nil {
		return nil, fmt.Errorf("failed to initialize landing storage: %w", err)
	}
	return storage, nil
}

// initDB initializes the database tables.
func (s *LandingStorage) initDB() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS landings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			icao24 TEXT NOT NULL,
			segment INTEGER NOT NULL,
			runway TEXT NOT NULL,
			ts_fap INTEGER NOT NULL,
			ts_thr INTEGER NOT NULL,
			fap_distance_m REAL NOT NULL,
			thr_distance_m REAL NOT NULL,
			raw_delta_time_s REAL NOT NULL,
			raw_distance_m REAL NOT NULL,
			true_distance_m REAL NOT NULL,
			delta_time_s REAL NOT NULL,
			speed_fap_mps REAL,
			vertical_speed_fap_ftps REAL,
			heading_fap_deg REAL,
			created_at TIMESTAMP NOT NULL,
			UNIQUE (icao24, segment, ts_fap)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create landings table: %w", err)
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_landings_runway ON landings(runway)`,
		`CREATE INDEX IF NOT EXISTS idx_landings_ts_fap ON landings(ts_fap)`,
		`CREATE INDEX IF NOT EXISTS idx_landings_icao24 ON landings(icao24)`,
	}
	for _, indexSQL := range indexes {
		if _, err := s.db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create landing index: %w", err)
		}
	}
	return nil
}

// StoreLandings stores a batch of landing records in one transaction.
// Existing rows for the same (icao24, segment, ts_fap) are replaced.
func (s *LandingStorage) StoreLandings(matches []trajectory.LandingMatch) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO landings
		(icao24, segment, runway, ts_fap, ts_thr, fap_distance_m, thr_distance_m,
		 raw_delta_time_s, raw_distance_m, true_distance_m, delta_time_s,
		 speed_fap_mps, vertical_speed_fap_ftps, heading_fap_deg, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, m := range matches {
		_, err := stmt.Exec(
			m.ICAO24,
			m.SegmentID,
			m.Runway,
			m.TSFAPMs,
			m.TSThrMs,
			m.FAPDistanceM,
			m.ThrDistanceM,
			m.RawDeltaTimeS,
			m.RawDistanceM,
			m.TrueDistanceM,
			m.DeltaTimeS,
			nullableFloat(m.SpeedFAPMps),
			nullableFloat(m.VerticalSpeedFAPFtps),
			nullableFloat(m.HeadingFAPDeg),
			now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert landing for %s segment %d: %w", m.ICAO24, m.SegmentID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit landings: %w", err)
	}

	s.logger.Info("Stored landing records", logger.Int("count", len(matches)))
	return nil
}

// LandingRow is the stored form of a landing record.
type LandingRow struct {
	ID                   int64    `json:"id"`
	ICAO24               string   `json:"icao24"`
	Segment              int      `json:"segment"`
	Runway               string   `json:"runway"`
	TSFAPMs              int64    `json:"ts_fap"`
	TSThrMs              int64    `json:"ts_thr"`
	FAPDistanceM         float64  `json:"fap_distance_m"`
	ThrDistanceM         float64  `json:"thr_distance_m"`
	RawDeltaTimeS        float64  `json:"raw_delta_time_s"`
	RawDistanceM         float64  `json:"raw_distance_m"`
	TrueDistanceM        float64  `json:"distance_fap_to_thr"`
	DeltaTimeS           float64  `json:"delta_time_fap_to_thr"`
	SpeedFAPMps          *float64 `json:"speed_fap"`
	VerticalSpeedFAPFtps *float64 `json:"vertical_speed_fap"`
	HeadingFAPDeg        *float64 `json:"heading_fap"`
}

const landingColumns = `id, icao24, segment, runway, ts_fap, ts_thr,
	fap_distance_m, thr_distance_m, raw_delta_time_s, raw_distance_m,
	true_distance_m, delta_time_s, speed_fap_mps, vertical_speed_fap_ftps,
	heading_fap_deg`

// GetAllLandings returns every stored landing, newest FAP crossing first.
func (s *LandingStorage) GetAllLandings(limit int) ([]*LandingRow, error) {
	rows, err := s.db.Query(
		`SELECT `+landingColumns+` FROM landings ORDER BY ts_fap DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query landings: %w", err)
	}
	defer rows.Close()

	return s.scanLandingRows(rows)
}

// GetLandingsByRunway returns landings attributed to a runway.
func (s *LandingStorage) GetLandingsByRunway(runway string, limit int) ([]*LandingRow, error) {
	rows, err := s.db.Query(
		`SELECT `+landingColumns+` FROM landings WHERE runway = ? ORDER BY ts_fap DESC LIMIT ?`,
		runway, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query landings by runway: %w", err)
	}
	defer rows.Close()

	return s.scanLandingRows(rows)
}

// GetLandingsByTimeRange returns landings whose FAP crossing lies in the
// given time range.
func (s *LandingStorage) GetLandingsByTimeRange(start, end time.Time) ([]*LandingRow, error) {
	rows, err := s.db.Query(
		`SELECT `+landingColumns+` FROM landings WHERE ts_fap BETWEEN ? AND ? ORDER BY ts_fap DESC`,
		start.UnixMilli(), end.UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query landings by time range: %w", err)
	}
	defer rows.Close()

	return s.scanLandingRows(rows)
}

// scanLandingRows scans database rows into LandingRow structs.
func (s *LandingStorage) scanLandingRows(rows *sql.Rows) ([]*LandingRow, error) {
	var records []*LandingRow
	for rows.Next() {
		var r LandingRow
		var speed, vspeed, heading sql.NullFloat64

		if err := rows.Scan(
			&r.ID,
			&r.ICAO24,
			&r.Segment,
			&r.Runway,
			&r.TSFAPMs,
			&r.TSThrMs,
			&r.FAPDistanceM,
			&r.ThrDistanceM,
			&r.RawDeltaTimeS,
			&r.RawDistanceM,
			&r.TrueDistanceM,
			&r.DeltaTimeS,
			&speed,
			&vspeed,
			&heading,
		); err != nil {
			return nil, fmt.Errorf("failed to scan landing: %w", err)
		}

		if speed.Valid {
			r.SpeedFAPMps = &speed.Float64
		}
		if vspeed.Valid {
			r.VerticalSpeedFAPFtps = &vspeed.Float64
		}
		if heading.Valid {
			r.HeadingFAPDeg = &heading.Float64
		}

		records = append(records, &r)
	}
	return records, rows.Err()
}

func nullableFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
