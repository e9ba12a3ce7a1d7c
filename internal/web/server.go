// Package web exposes the engine over a small JSON API. It renders nothing:
// presentation stays the collaborating app's concern.
package web

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"tidemark/internal/back"
	"tidemark/internal/util"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"golang.org/x/time/rate"
)

type Server struct {
	http         *http.Server
	back         *back.Back
	resourcesDir string

	locales   map[string]localizer
	localesMu sync.Mutex
}

func NewServer(b *back.Back, listen, resourcesDir string, requestsPerSecond float64) *Server {
	s := &Server{
		back:         b,
		resourcesDir: resourcesDir,
		locales:      map[string]localizer{},
	}

	s.http = &http.Server{
		Addr:         listen,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  10 * time.Second,
		Handler:      s.setupRouter(requestsPerSecond),
	}

	return s
}

func (s *Server) setupRouter(requestsPerSecond float64) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	if requestsPerSecond > 0 {
		r.Use(throttle(requestsPerSecond))
	}

	r.Get("/", noContent)

	r.Get("/v1/ratings", s.getRatings)
	r.Get("/v1/ratings/history", s.getRatingHistory)
	r.Get("/v1/winprob", s.getWinProbability)
	r.Get("/v1/heroes/stats", s.getHeroStats)
	r.Get("/v1/heroes/winrates", s.getHeroWinRates)
	r.Get("/v1/players/relationships", s.getRelationships)

	r.Post("/v1/match", s.postMatch)
	r.Post("/v1/match/{id}/validate", s.postValidateMatch)
	r.Patch("/v1/match/{id}", s.patchMatch)
	r.Delete("/v1/match/{id}", s.deleteMatch)

	r.Get("/docs/rating-system", s.getRatingSystemDoc)

	return r
}

// throttle applies a global limit on how fast requests are let through, the
// engine recomputes analytics from scratch on every call and a hammering
// client could starve the UI.
func throttle(requestsPerSecond float64) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(requestsPerSecond), int(requestsPerSecond)+1)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func noContent(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) Serve(wg *sync.WaitGroup, done <-chan struct{}) {
	log.Println("info: starting HTTP server")
	wg.Add(1)
	defer wg.Done()

	go func() {
		err := s.http.ListenAndServe()
		if err == http.ErrServerClosed {
			log.Println("info: HTTP server closed")
			return
		}

		log.Fatalf("webserver crashed: %s", err)
	}()

	<-done
	if err := s.http.Close(); err != nil {
		log.Printf("warning: unable to close webserver: %s", err)
	}
}

func (s *Server) response(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")

	response, err := json.Marshal(data)
	if err != nil {
		log.Printf("error: unable to marshal response: %s", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(code)

	if _, err := w.Write(response); err != nil {
		log.Printf("error: unable to send response: %s", err)
	}
}

// error writes an error response, showing the message only for errors that
// are meant to be user-visible.
func (s *Server) error(w http.ResponseWriter, r *http.Request, err error, code int) {
	if validationErr, ok := err.(*back.ValidationError); ok {
		s.response(w, http.StatusUnprocessableEntity, s.validationPayload(r, validationErr.Result))
		return
	}

	if public, ok := err.(util.ErrPublic); ok {
		s.response(w, code, map[string]string{"error": string(public)})
		return
	}

	if err == sql.ErrNoRows {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	log.Printf("error: %s", err)
	w.WriteHeader(code)
}
