/**
 * @description
 * This file contains the HTTP handlers for the studio-service's session and
 * credential endpoints. Handlers parse incoming requests, call the
 * appropriate application services, and write the HTTP response. They act as
 * the bridge between the web layer and the session/generation logic.
 *
 * @dependencies
 * - encoding/json, errors, log, net/http: Standard Go libraries.
 * - github.com/go-chi/chi/v5: For URL parameters.
 * - internal/app, internal/domain: For service logic, models, and errors.
 */

package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/myhandle/studio-service/internal/app"
	"github.com/myhandle/studio-service/internal/domain"
)

// StudioHandlers holds the application services the handlers use.
type StudioHandlers struct {
	session     *app.SessionService
	generation  *app.GenerationService
	video       *app.VideoService
	credentials *app.CredentialManager
}

// NewStudioHandlers creates a new instance of StudioHandlers.
func NewStudioHandlers(session *app.SessionService, generation *app.GenerationService, video *app.VideoService, credentials *app.CredentialManager) *StudioHandlers {
	return &StudioHandlers{
		session:     session,
		generation:  generation,
		video:       video,
		credentials: credentials,
	}
}

// sessionResponse describes the session state for the client: which view to
// render (setup vs. content) and the accounts available for switching.
type sessionResponse struct {
	State            domain.SessionState `json:"state"`
	Accounts         []domain.Account    `json:"accounts"`
	CurrentAccountID string              `json:"current_account_id,omitempty"`
}

// GetSessionHandler reports the session state and account list.
func (h *StudioHandlers) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	state := h.session.State()
	resp := sessionResponse{
		State:    state,
		Accounts: h.session.Accounts(),
	}
	if state == domain.SessionReady {
		if current, err := h.session.CurrentAccount(r.Context()); err == nil {
			resp.CurrentAccountID = current.ID
		}
	}
	h.writeJSON(w, http.StatusOK, resp)
}

type addAccountRequest struct {
	Username string `json:"username"`
	Niche    string `json:"niche"`
}

// AddAccountHandler runs the account-setup flow: validate, append, select.
func (h *StudioHandlers) AddAccountHandler(w http.ResponseWriter, r *http.Request) {
	var req addAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	account, err := h.session.AddAccount(r.Context(), req.Username, req.Niche)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, account)
}

// SelectAccountHandler switches the current account.
func (h *StudioHandlers) SelectAccountHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	account, err := h.session.SwitchAccount(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, account)
}

type credentialStatusResponse struct {
	Configured bool `json:"configured"`
}

// GetCredentialHandler reports whether a video credential is set for this session.
func (h *StudioHandlers) GetCredentialHandler(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, credentialStatusResponse{Configured: h.credentials.Has()})
}

type setCredentialRequest struct {
	APIKey string `json:"api_key"`
}

// SetCredentialHandler stores the session's video credential.
func (h *StudioHandlers) SetCredentialHandler(w http.ResponseWriter, r *http.Request) {
	var req setCredentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.APIKey == "" {
		h.writeError(w, http.StatusBadRequest, "api_key must not be empty")
		return
	}
	h.credentials.Set(req.APIKey)
	h.writeJSON(w, http.StatusOK, credentialStatusResponse{Configured: h.credentials.Has()})
}

// ClearCredentialHandler removes the session's video credential.
func (h *StudioHandlers) ClearCredentialHandler(w http.ResponseWriter, r *http.Request) {
	h.credentials.Clear()
	h.writeJSON(w, http.StatusOK, credentialStatusResponse{Configured: false})
}

// currentAccount resolves the current account or writes the error response.
func (h *StudioHandlers) currentAccount(w http.ResponseWriter, r *http.Request) (domain.Account, bool) {
	account, err := h.session.CurrentAccount(r.Context())
	if err != nil {
		h.writeError(w, http.StatusConflict, "No account is set up yet. Add an account first.")
		return domain.Account{}, false
	}
	return account, true
}

// writeServiceError maps the error taxonomy onto HTTP statuses.
func (h *StudioHandlers) writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		h.writeError(w, http.StatusBadRequest, validationErr.Error())
		return
	}
	if errors.Is(err, domain.ErrAccountNotFound) {
		h.writeError(w, http.StatusNotFound, "Account not found")
		return
	}
	if errors.Is(err, domain.ErrNoCredential) || errors.Is(err, domain.ErrInvalidCredential) {
		h.writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	if errors.Is(err, domain.ErrVideoJobInFlight) {
		h.writeError(w, http.StatusConflict, err.Error())
		return
	}
	if errors.Is(err, domain.ErrVideoDeadlineExceeded) {
		h.writeError(w, http.StatusGatewayTimeout, err.Error())
		return
	}
	if errors.Is(err, domain.ErrNoImage) || errors.Is(err, domain.ErrNoVideoURI) {
		h.writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	var fetchErr *domain.FetchError
	if errors.As(err, &fetchErr) {
		h.writeError(w, http.StatusBadGateway, fetchErr.Error())
		return
	}
	var backendErr *domain.BackendError
	if errors.As(err, &backendErr) {
		h.writeError(w, http.StatusBadGateway, backendErr.Error())
		return
	}

	log.Printf("level=error component=api msg=\"unclassified error\" err=%v", err)
	h.writeError(w, http.StatusInternalServerError, "Internal server error")
}

// writeJSON is a helper for writing JSON responses.
func (h *StudioHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError is a helper for writing JSON error responses.
func (h *StudioHandlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
