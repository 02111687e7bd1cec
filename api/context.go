package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"crab.casa/fooskill/store"
)

type contextKey int

const groupIDKey contextKey = iota

// groupContext decodes the {secretGroupID} path segment into a
// store.GroupID and stores it on the request context. A decode failure
// short-circuits with 400, matching apperrors.ErrInvalidGroupID's mapping
// without needing to touch the skill service at all.
func (s *Server) groupContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "secretGroupID")
		gid, err := s.codec.Decode(token)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), groupIDKey, gid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func groupFrom(r *http.Request) store.GroupID {
	return r.Context().Value(groupIDKey).(store.GroupID)
}
