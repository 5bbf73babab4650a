// Package server exposes the planner over HTTP: the classified
// three-month view, country selection, month navigation, the display
// filter and ICS import/export.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"net/http"

	ics "github.com/arran4/golang-ical"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/username/holiday-planner/internal/holiday"
	"github.com/username/holiday-planner/internal/planner"
	"github.com/username/holiday-planner/pkg/dateutil"
	"go.uber.org/zap"
)

const icsProductID = "-//holiday-planner//Calendar//EN"

// Server wires the planner to the HTTP API
type Server struct {
	planner *planner.Planner
	logger  *zap.Logger
}

// New creates a server for the given planner
func New(p *planner.Planner, logger *zap.Logger) *Server {
	return &Server{
		planner: p,
		logger:  logger,
	}
}

// Router builds the HTTP route table
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/api/view", s.handleView)
	r.Get("/api/countries", s.handleCountries)
	r.Post("/api/month", s.handleSetMonth)
	r.Post("/api/country", s.handleSetCountry)
	r.Post("/api/filter", s.handleSetFilter)
	r.Post("/api/import", s.handleImport)
	r.Get("/api/export.ics", s.handleExport)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	v, err := s.planner.View()
	if err != nil {
		s.logger.Error("Failed to build view", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, v)
}

func (s *Server) handleCountries(w http.ResponseWriter, r *http.Request) {
	countries, err := s.planner.Countries(r.Context())
	if err != nil {
		s.logger.Warn("Failed to fetch country list", zap.Error(err))
		http.Error(w, "could not load country list", http.StatusBadGateway)
		return
	}
	if countries == nil {
		countries = []holiday.Country{}
	}
	s.writeJSON(w, countries)
}

func (s *Server) handleSetMonth(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Month string `json:"month"` // yyyy-MM
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	anchor, err := dateutil.ParseMonth(req.Month)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.planner.SetMonth(r.Context(), anchor)
	s.writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleSetCountry(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Country string `json:"country"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Country == "" {
		http.Error(w, "country is required", http.StatusBadRequest)
		return
	}

	s.planner.SetCountry(r.Context(), req.Country)
	s.writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleSetFilter(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.planner.SetHolidaysOnly(req.Enabled)
	s.writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	err := s.planner.Import(r.Body)
	if err != nil {
		if errors.Is(err, holiday.ErrImportFailed) {
			s.logger.Warn("Calendar import rejected", zap.Error(err))
			http.Error(w, holiday.ErrImportFailed.Error(), http.StatusUnprocessableEntity)
			return
		}
		s.logger.Error("Calendar import failed", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, map[string]string{"status": "ok"})
}

// handleExport serializes the current canonical set as an ICS download.
// UIDs are date+name keyed so re-exports stay stable.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	set := s.planner.Holidays()

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)

	for _, h := range set {
		date, err := dateutil.ParseDate(h.Date)
		if err != nil {
			continue
		}

		event := cal.AddEvent(exportUID(h))
		event.SetAllDayStartAt(date)
		event.SetAllDayEndAt(date.AddDate(0, 0, 1))
		event.SetSummary(h.Name)
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=holidays.ics")
	if _, err := w.Write([]byte(cal.Serialize())); err != nil {
		s.logger.Error("Failed to write export", zap.Error(err))
	}
}

// exportUID derives a stable event UID from (date, name), the same key
// the canonical set is unique on. The name is hashed so arbitrary
// summaries cannot produce colliding or invalid UID characters.
func exportUID(h holiday.Holiday) string {
	sum := fnv.New32a()
	sum.Write([]byte(h.Name))
	return fmt.Sprintf("%s-%08x@holiday-planner", h.Date, sum.Sum32())
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}
