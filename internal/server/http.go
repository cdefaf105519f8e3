package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"valorant-sync/internal/api"
	"valorant-sync/internal/service"

	"github.com/rs/zerolog"
)

type RateLimitReporter interface {
	GetRateLimitInfo() api.RateLimitInfo
}

type HTTPServer struct {
	syncSvc    *service.SyncService
	listingSvc *service.ListingService
	proxySvc   *service.ProxyService
	rateLimits RateLimitReporter
	logger     zerolog.Logger
}

func NewHTTPServer(syncSvc *service.SyncService, listingSvc *service.ListingService, proxySvc *service.ProxyService, rateLimits RateLimitReporter, logger zerolog.Logger) *HTTPServer {
	return &HTTPServer{
		syncSvc:    syncSvc,
		listingSvc: listingSvc,
		proxySvc:   proxySvc,
		rateLimits: rateLimits,
		logger:     logger,
	}
}

func (s *HTTPServer) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /sync", s.handleSync)
	mux.HandleFunc("GET /db/matches", s.handleStoredMatches)
	mux.HandleFunc("GET /overall", s.handleOverall)
	mux.HandleFunc("GET /matches", s.handleMatchList)
	mux.HandleFunc("GET /elo", s.handleMMRHistory)
	mux.HandleFunc("GET /ratelimit", s.handleRateLimit)
	mux.HandleFunc("GET /healthz", s.handleHealth)
}

type syncResponse struct {
	OK bool `json:"ok"`
	*service.SyncResult
}

type syncFailure struct {
	OK                    bool   `json:"ok"`
	Error                 string `json:"error"`
	Player                string `json:"player"`
	MatchesUpserted       int    `json:"matchesUpserted"`
	PlayerMatchesUpserted int    `json:"playerMatchesUpserted"`
}

func (s *HTTPServer) handleSync(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := service.SyncRequest{
		Region: q.Get("region"),
		Name:   q.Get("name"),
		Tag:    q.Get("tag"),
		Size:   intParam(q.Get("size")),
	}

	res, err := s.syncSvc.Sync(r.Context(), req)
	if err != nil {
		if res != nil && !errors.As(err, new(*service.UpstreamError)) {
			s.requestLogger(r).Error().Err(err).Msg("sync persistence failed")
			writeJSON(w, http.StatusInternalServerError, syncFailure{
				Error:                 "Sync aborted",
				Player:                res.Player,
				MatchesUpserted:       res.MatchesUpserted,
				PlayerMatchesUpserted: res.PlayerMatchesUpserted,
			})
			return
		}
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, syncResponse{OK: true, SyncResult: res})
}

func (s *HTTPServer) handleStoredMatches(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	listing, err := s.listingSvc.Matches(r.Context(), q.Get("name"), q.Get("tag"), intParam(q.Get("limit")))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (s *HTTPServer) handleOverall(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := s.proxySvc.Overall(r.Context(), q.Get("region"), q.Get("name"), q.Get("tag"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("X-Cache", resp.Cache)
	writeRaw(w, resp.StatusCode, resp.ContentType, resp.Body)
}

func (s *HTTPServer) handleMatchList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := s.proxySvc.MatchList(r.Context(), q.Get("region"), q.Get("name"), q.Get("tag"), intParam(q.Get("size")), strings.TrimSpace(q.Get("mode")))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeRaw(w, resp.StatusCode, resp.ContentType, resp.Body)
}

func (s *HTTPServer) handleMMRHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := s.proxySvc.MMRHistory(r.Context(), q.Get("region"), q.Get("name"), q.Get("tag"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeRaw(w, resp.StatusCode, resp.ContentType, resp.Body)
}

func (s *HTTPServer) handleRateLimit(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.rateLimits.GetRateLimitInfo())
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var upErr *service.UpstreamError
	switch {
	case errors.Is(err, service.ErrMissingIdentity):
		writeJSON(w, http.StatusBadRequest, errorBody("Missing name or tag"))
	case errors.As(err, &upErr):
		writeRaw(w, upErr.StatusCode, upErr.ContentType, upErr.Body)
	case errors.Is(err, api.ErrMalformedPayload):
		s.requestLogger(r).Error().Err(err).Msg("malformed upstream payload")
		writeJSON(w, http.StatusBadGateway, errorBody("Malformed upstream payload"))
	case errors.Is(err, service.ErrPuuidNotResolved):
		writeJSON(w, http.StatusInternalServerError, errorBody("Could not resolve player puuid"))
	default:
		s.requestLogger(r).Error().Err(err).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, errorBody("Unexpected server error"))
	}
}

// requestLogger prefers the request-scoped logger set by middleware.RequestID.
func (s *HTTPServer) requestLogger(r *http.Request) *zerolog.Logger {
	if l := zerolog.Ctx(r.Context()); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &s.logger
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

// intParam maps anything unparsable to zero so the services apply their defaults.
func intParam(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRaw(w http.ResponseWriter, status int, contentType string, body []byte) {
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
