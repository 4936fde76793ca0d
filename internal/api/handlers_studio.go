/**
 * @description
 * This file contains the HTTP handlers for the generation endpoints. Every
 * endpoint operates on the current account, so each handler first resolves it
 * through the session controller and then calls the matching generation
 * capability.
 *
 * The video endpoint streams the materialized bytes back directly rather
 * than buffering them in server state, so repeated generations never
 * accumulate binary buffers on the server side.
 */

package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/myhandle/studio-service/internal/domain"
)

// AccountSuggestionsHandler produces an account-health report for the
// current account.
func (h *StudioHandlers) AccountSuggestionsHandler(w http.ResponseWriter, r *http.Request) {
	account, ok := h.currentAccount(w, r)
	if !ok {
		return
	}

	result, err := h.generation.AccountSuggestions(r.Context(), account)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// TrendSuggestionsHandler produces a trend report for the current account's niche.
func (h *StudioHandlers) TrendSuggestionsHandler(w http.ResponseWriter, r *http.Request) {
	account, ok := h.currentAccount(w, r)
	if !ok {
		return
	}

	result, err := h.generation.TrendSuggestions(r.Context(), account)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

type promptRequest struct {
	Prompt string `json:"prompt"`
}

// GenerateScriptHandler writes a post script about the requested topic.
func (h *StudioHandlers) GenerateScriptHandler(w http.ResponseWriter, r *http.Request) {
	account, ok := h.currentAccount(w, r)
	if !ok {
		return
	}

	var req promptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.generation.GenerateScript(r.Context(), account, req.Prompt)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// GeneratePhotoHandler produces a still image as a data: URI.
func (h *StudioHandlers) GeneratePhotoHandler(w http.ResponseWriter, r *http.Request) {
	account, ok := h.currentAccount(w, r)
	if !ok {
		return
	}

	var req promptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.generation.GeneratePhoto(r.Context(), account, req.Prompt)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

type generateVideoRequest struct {
	Prompt      string `json:"prompt"`
	AspectRatio string `json:"aspect_ratio"`
}

// GenerateVideoHandler runs the full submit/poll/fetch video protocol and
// streams the resulting bytes back as a downloadable video response.
func (h *StudioHandlers) GenerateVideoHandler(w http.ResponseWriter, r *http.Request) {
	account, ok := h.currentAccount(w, r)
	if !ok {
		return
	}

	var req generateVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	aspectRatio, err := domain.ParseAspectRatio(req.AspectRatio)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	result, err := h.video.GenerateVideo(r.Context(), account, req.Prompt, aspectRatio)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", result.MIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("myhandle-video-%d.mp4", time.Now().Unix())))
	w.WriteHeader(http.StatusOK)
	w.Write(result.Data)
}
