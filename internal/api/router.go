/**
 * @description
 * This file sets up the HTTP router for the studio-service. It defines the API
 * endpoints, associates them with their corresponding handlers, and applies
 * standard middleware for logging, panic recovery, and timeouts.
 *
 * The video endpoint gets its own timeout budget: a job legitimately polls
 * for minutes, so the standard request timeout would kill it mid-loop.
 *
 * @dependencies
 * - net/http: Standard Go library for HTTP functionality.
 * - github.com/go-chi/chi/v5: A lightweight and idiomatic router for Go.
 */

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// StudioRoutes creates and returns the router for the studio service.
func StudioRoutes(h *StudioHandlers, videoTimeout time.Duration) http.Handler {
	r := chi.NewRouter()

	// Add standard middleware for logging and panic recovery.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("healthy"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		// Session and account management
		r.Get("/session", h.GetSessionHandler)
		r.Post("/accounts", h.AddAccountHandler)
		r.Post("/accounts/{id}/select", h.SelectAccountHandler)

		// Session credential for video generation
		r.Get("/credential", h.GetCredentialHandler)
		r.Post("/credential", h.SetCredentialHandler)
		r.Delete("/credential", h.ClearCredentialHandler)

		// Text and image generation
		r.Post("/studio/suggestions", h.AccountSuggestionsHandler)
		r.Post("/studio/trends", h.TrendSuggestionsHandler)
		r.Post("/studio/script", h.GenerateScriptHandler)
		r.Post("/studio/photo", h.GeneratePhotoHandler)
	})

	// Video generation polls for minutes; give it its own budget.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(videoTimeout))
		r.Post("/studio/video", h.GenerateVideoHandler)
	})

	return r
}
