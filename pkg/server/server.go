package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/bhavya-srm/swisstraffic-buddy/pkg/favorites"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/geo"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/metrics"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/transit"
)

// Transit is the subset of the transit client the API needs
type Transit interface {
	FetchNearbyStations(ctx context.Context, coord geo.Coordinate, radiusMeters float64) ([]transit.Station, error)
	SearchStations(ctx context.Context, text string) ([]transit.Station, error)
	FetchStationboard(ctx context.Context, stationName string, limit int) ([]transit.Departure, error)
}

type Options struct {
	RadiusMeters     float64
	StationboardSize int
	CORSOrigins      []string
	// UpstreamTimeout bounds every call to the transit API
	UpstreamTimeout time.Duration
	Metrics         *metrics.Collector
}

// ErrorResponse is the body of every non-2xx answer
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server exposes nearby stations, search, stationboards and favorites over HTTP
type Server struct {
	api     Transit
	favs    *favorites.Store
	opts    Options
	metrics *metrics.Collector
}

func New(api Transit, favs *favorites.Store, opts Options) *Server {
	if opts.RadiusMeters <= 0 {
		opts.RadiusMeters = 1000
	}
	if opts.StationboardSize <= 0 {
		opts.StationboardSize = transit.DefaultStationboardSize
	}
	if opts.UpstreamTimeout <= 0 {
		opts.UpstreamTimeout = 15 * time.Second
	}
	return &Server{api: api, favs: favs, opts: opts, metrics: opts.Metrics}
}

// Router builds the chi router with CORS, request logging and metrics
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.instrument)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	r.Get("/health", s.health)
	r.Handle("/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/nearby", s.nearby)
		r.Get("/search", s.search)
		r.Get("/stationboard", s.stationboard)

		r.Get("/favorites", s.listFavorites)
		r.Post("/favorites", s.addFavorite)
		r.Post("/favorites/toggle", s.toggleFavorite)
		r.Delete("/favorites/{id}", s.removeFavorite)
	})

	return r
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		s.metrics.ObserveHTTP(route, status)

		log.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("route", route).
			Int("status", status).
			Dur("took", time.Since(started)).
			Msg("http request")
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"favorites": len(s.favs.List()),
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) nearby(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(q.Get("lon"), 64)
	coord := geo.Coordinate{Latitude: lat, Longitude: lon}
	if errLat != nil || errLon != nil || !coord.Valid() {
		writeError(w, http.StatusBadRequest, "lat and lon must be valid decimal degrees")
		return
	}

	radius := s.opts.RadiusMeters
	if v := q.Get("radius"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "radius must be a positive number of meters")
			return
		}
		radius = parsed
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.opts.UpstreamTimeout)
	defer cancel()

	stations, err := s.api.FetchNearbyStations(ctx, coord, radius)
	if err != nil {
		s.upstreamError(w, "nearby", err)
		return
	}
	writeJSON(w, http.StatusOK, s.markFavorites(stations))
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, http.StatusOK, []transit.Station{})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.opts.UpstreamTimeout)
	defer cancel()

	stations, err := s.api.SearchStations(ctx, query)
	if err != nil {
		s.upstreamError(w, "search", err)
		return
	}
	writeJSON(w, http.StatusOK, s.markFavorites(stations))
}

func (s *Server) stationboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	station := strings.TrimSpace(q.Get("station"))
	if station == "" {
		writeError(w, http.StatusBadRequest, "station is required")
		return
	}

	limit := s.opts.StationboardSize
	if v := q.Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.opts.UpstreamTimeout)
	defer cancel()

	deps, err := s.api.FetchStationboard(ctx, station, limit)
	if err != nil {
		s.upstreamError(w, "stationboard", err)
		return
	}
	if deps == nil {
		deps = []transit.Departure{}
	}
	writeJSON(w, http.StatusOK, deps)
}

func (s *Server) listFavorites(w http.ResponseWriter, r *http.Request) {
	favs := s.favs.List()
	if favs == nil {
		favs = []transit.Station{}
	}
	writeJSON(w, http.StatusOK, favs)
}

func (s *Server) addFavorite(w http.ResponseWriter, r *http.Request) {
	station, ok := decodeStation(w, r)
	if !ok {
		return
	}
	if err := s.favs.Add(r.Context(), station); err != nil {
		log.Error().Err(err).Str("station_id", station.ID).Msg("failed to add favorite")
		writeError(w, http.StatusInternalServerError, "failed to save favorite")
		return
	}
	writeJSON(w, http.StatusCreated, s.favs.List())
}

func (s *Server) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	station, ok := decodeStation(w, r)
	if !ok {
		return
	}
	on, err := s.favs.Toggle(r.Context(), station)
	if err != nil {
		log.Error().Err(err).Str("station_id", station.ID).Msg("failed to toggle favorite")
		writeError(w, http.StatusInternalServerError, "failed to save favorite")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"id": station.ID, "isFavorite": on})
}

func (s *Server) removeFavorite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.favs.Remove(r.Context(), id); err != nil {
		log.Error().Err(err).Str("station_id", id).Msg("failed to remove favorite")
		writeError(w, http.StatusInternalServerError, "failed to save favorite")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) markFavorites(stations []transit.Station) []transit.Station {
	out := make([]transit.Station, len(stations))
	for i, st := range stations {
		st.IsFavorite = s.favs.IsFavorite(st.ID)
		out[i] = st
	}
	return out
}

func (s *Server) upstreamError(w http.ResponseWriter, endpoint string, err error) {
	log.Warn().Err(err).Str("endpoint", endpoint).Msg("transit API call failed")

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "transit API timed out")
	case errors.Is(err, transit.ErrMalformedResponse):
		writeError(w, http.StatusBadGateway, "transit API returned an unexpected response")
	default:
		writeError(w, http.StatusBadGateway, "transit API unavailable")
	}
}

func decodeStation(w http.ResponseWriter, r *http.Request) (transit.Station, bool) {
	var station transit.Station
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&station); err != nil {
		writeError(w, http.StatusBadRequest, "invalid station JSON")
		return station, false
	}
	if station.ID == "" || station.Name == "" {
		writeError(w, http.StatusBadRequest, "station id and name are required")
		return station, false
	}
	return station, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
