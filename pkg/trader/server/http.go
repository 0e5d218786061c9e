package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// maxMessageBytes bounds a single command payload.
const maxMessageBytes = 1 << 20

// NewRouter returns the HTTP router exposing the bridge. Every command
// is a POST of a single-key JSON object and receives a JSON reply.
func NewRouter(bridge *Bridge) *chi.Mux {
	log := logrus.StandardLogger().WithField("service", "http")

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Post("/v1/message", func(w http.ResponseWriter, req *http.Request) {
		body, err := io.ReadAll(io.LimitReader(req.Body, maxMessageBytes))
		if err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		reply := bridge.Handle(req.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(reply); err != nil {
			log.WithError(err).Warn("failure encoding reply")
		}
	})

	return r
}
