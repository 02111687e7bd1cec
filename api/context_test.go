package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"crab.casa/fooskill/groupid"
)

func testServer() *Server {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	codec := groupid.NewCodec([]byte("0123456789abcdef"))
	return NewServer(nil, codec, logger)
}

func TestGroupContextRejectsGarbageToken(t *testing.T) {
	s := testServer()

	r := chi.NewRouter()
	r.Route("/api/v1.0/{secretGroupID}", func(r chi.Router) {
		r.Use(s.groupContext)
		r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1.0/not-a-token/stats", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestGroupContextAcceptsIssuedToken(t *testing.T) {
	s := testServer()
	token, err := s.codec.Issue("acme")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	var seen string
	r := chi.NewRouter()
	r.Route("/api/v1.0/{secretGroupID}", func(r chi.Router) {
		r.Use(s.groupContext)
		r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
			seen = string(groupFrom(r))
			w.WriteHeader(http.StatusOK)
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1.0/"+token+"/stats", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if seen != "acme" {
		t.Errorf("groupFrom(r) = %q, want %q", seen, "acme")
	}
}
