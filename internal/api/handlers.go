package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/DavidDeLaTorre/Engage2Hackathon/internal/config"
	"github.com/DavidDeLaTorre/Engage2Hackathon/internal/runway"
	"github.com/DavidDeLaTorre/Engage2Hackathon/internal/storage/sqlite"
	"github.com/DavidDeLaTorre/Engage2Hackathon/internal/trajectory"
	"github.com/DavidDeLaTorre/Engage2Hackathon/pkg/logger"
)

const defaultQueryLimit = 500

// Handler serves read-only views over stored attribution results.
type Handler struct {
	landings   *sqlite.LandingStorage
	faps       *runway.Registry
	thresholds *runway.Registry
	config     *config.Config
	logger     *logger.Logger
}

// NewHandler creates a new API handler.
func NewHandler(landings *sqlite.LandingStorage, faps, thresholds *runway.Registry, cfg *config.Config, log *logger.Logger) *Handler {
	return &Handler{
		landings:   landings,
		faps:       faps,
		thresholds: thresholds,
		config:     cfg,
		logger:     log.Named("api-handler"),
	}
}

// GetLandings returns stored landings, optionally limited with ?limit=N.
func (h *Handler) GetLandings(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r)
	rows, err := h.landings.GetAllLandings(limit)
	if err != nil {
		h.serverError(w, "failed to load landings", err)
		return
	}
	h.writeJSON(w, rows)
}

// GetLandingsByRunway returns stored landings for one runway label.
func (h *Handler) GetLandingsByRunway(w http.ResponseWriter, r *http.Request) {
	label := chi.URLParam(r, "runway")
	if _, ok := h.thresholds.Lookup(label); !ok {
		http.Error(w, "unknown runway: "+label, http.StatusNotFound)
		return
	}

	rows, err := h.landings.GetLandingsByRunway(label, queryLimit(r))
	if err != nil {
		h.serverError(w, "failed to load landings", err)
		return
	}
	h.writeJSON(w, rows)
}

// GetLandingsByTimeRange returns landings whose FAP crossing falls in
// [from, to], both RFC3339 query parameters.
func (h *Handler) GetLandingsByTimeRange(w http.ResponseWriter, r *http.Request) {
	from, err := time.Parse(time.RFC3339, r.URL.Query().Get("from"))
	if err != nil {
		http.Error(w, "invalid or missing 'from' parameter (RFC3339)", http.StatusBadRequest)
		return
	}
	to, err := time.Parse(time.RFC3339, r.URL.Query().Get("to"))
	if err != nil {
		http.Error(w, "invalid or missing 'to' parameter (RFC3339)", http.StatusBadRequest)
		return
	}

	rows, err := h.landings.GetLandingsByTimeRange(from, to)
	if err != nil {
		h.serverError(w, "failed to load landings", err)
		return
	}
	h.writeJSON(w, rows)
}

// GetStats returns delta-time statistics per runway over stored landings.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	rows, err := h.landings.GetAllLandings(defaultQueryLimit * 100)
	if err != nil {
		h.serverError(w, "failed to load landings", err)
		return
	}

	byRunway := make(map[string][]float64)
	for _, row := range rows {
		byRunway[row.Runway] = append(byRunway[row.Runway], row.DeltaTimeS)
	}

	out := make(map[string]trajectory.DeltaTimeStats, len(byRunway))
	for label, times := range byRunway {
		stats, err := trajectory.ComputeDeltaTimeStats(times)
		if err != nil {
			continue
		}
		out[label] = stats
	}
	h.writeJSON(w, out)
}

// runwayInfo is the wire form of one runway's reference geometry.
type runwayInfo struct {
	Runway       string  `json:"runway"`
	FAPLat       float64 `json:"fap_lat"`
	FAPLon       float64 `json:"fap_lon"`
	FAPAltFt     float64 `json:"fap_alt_ft"`
	ThresholdLat float64 `json:"thr_lat"`
	ThresholdLon float64 `json:"thr_lon"`
}

// GetRunways returns the reference-point table the attributor runs with.
func (h *Handler) GetRunways(w http.ResponseWriter, r *http.Request) {
	var out []runwayInfo
	for _, label := range h.faps.Labels() {
		fap, _ := h.faps.Lookup(label)
		info := runwayInfo{
			Runway:   label,
			FAPLat:   fap.Latitude,
			FAPLon:   fap.Longitude,
			FAPAltFt: fap.AltitudeFt,
		}
		if thr, ok := h.thresholds.Lookup(label); ok {
			info.ThresholdLat = thr.Latitude
			info.ThresholdLon = thr.Longitude
		}
		out = append(out, info)
	}
	h.writeJSON(w, out)
}

// GetHealth returns a liveness response.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]string{"status": "ok"})
}

// GetConfig returns the active pipeline configuration.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.config.Pipeline)
}

func (h *Handler) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", logger.Error(err))
	}
}

func (h *Handler) serverError(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, logger.Error(err))
	http.Error(w, msg, http.StatusInternalServerError)
}

func queryLimit(r *http.Request) int {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return defaultQueryLimit
}
