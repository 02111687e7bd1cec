// Package api is the HTTP shell around the skill service (SPEC_FULL.md
// §4.11 — out of scope for the distilled core per spec.md §1, but wired
// up here since a complete repo needs the core reachable from somewhere).
// Every handler: decodes the group token, decodes the request body if any,
// calls one skill.Service operation, and maps the result through
// apperrors.HTTPStatus.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"crab.casa/fooskill/apperrors"
	"crab.casa/fooskill/groupid"
	"crab.casa/fooskill/skill"
)

// Server wires the skill service and group-token codec into a chi router.
type Server struct {
	service *skill.Service
	codec   groupid.Codec
	logger  *log.Logger
}

// NewServer builds the HTTP surface. logger is attached to every request
// (SPEC_FULL.md §4.13).
func NewServer(service *skill.Service, codec groupid.Codec, logger *log.Logger) *Server {
	return &Server{service: service, codec: codec, logger: logger}
}

// Router builds the full middleware stack and route table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Route("/api/v1.0/{secretGroupID}", func(r chi.Router) {
		r.Use(s.groupContext)

		r.Post("/users", s.handleCreateUser)
		r.Get("/users/{userID}", s.handleReadUser)
		r.Get("/users/{userID}/games", s.handleRecentGames)
		r.Get("/users", s.handleQueryUser)
		r.Get("/leaderboard", s.handleLeaderboard)
		r.Get("/games", s.handleListGames)
		r.Post("/games", s.handleCreateGame)
		r.Get("/stats", s.handleGroupStats)
	})

	return r
}

// requestLogger logs one line per request, matching the key-value call
// shape lox-pokerforbots's server package uses throughout.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// writeError maps err through apperrors.HTTPStatus and logs it: business
// errors at Warn, anything else at Error.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= 500 {
		s.logger.Error("request failed", "err", err, "path", r.URL.Path)
	} else {
		s.logger.Warn("request rejected", "err", err, "path", r.URL.Path)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
