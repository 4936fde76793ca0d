/**
 * @description
 * This file defines the error taxonomy shared across the studio-service.
 * Every generation request resolves to exactly one terminal outcome, and the
 * API layer maps these classes onto HTTP statuses with errors.Is / errors.As.
 *
 * Classes:
 * - ValidationError: locally detected bad input; never reaches the backend.
 * - BackendError: a failed call to the generative backend, retryable by the caller.
 * - ErrInvalidCredential: the backend rejected the session credential; the
 *   stored credential must be re-acquired before another video request.
 * - ErrNoImage / ErrNoVideoURI: the backend reported success but supplied no
 *   usable payload. Treated as failure, never as an empty success.
 * - FetchError: downloading the finished video's binary content failed.
 */

package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors recognized across package boundaries.
var (
	// ErrAccountNotFound indicates a referenced account id does not resolve.
	ErrAccountNotFound = errors.New("account not found")
	// ErrNoCredential indicates a video request was made before a session
	// credential was supplied.
	ErrNoCredential = errors.New("no video credential configured")
	// ErrInvalidCredential indicates the backend no longer accepts the
	// session credential. The credential manager is reset when this surfaces.
	ErrInvalidCredential = errors.New("video credential is invalid")
	// ErrNoImage indicates an otherwise-successful image response carried no
	// image data.
	ErrNoImage = errors.New("no image was generated")
	// ErrNoVideoURI indicates a completed video job carried no result URI.
	ErrNoVideoURI = errors.New("video generation returned no result uri")
	// ErrVideoJobInFlight rejects a submit while another video job is still
	// polling. One job per process at a time.
	ErrVideoJobInFlight = errors.New("a video generation job is already in progress")
	// ErrVideoDeadlineExceeded indicates the poll loop gave up after the
	// configured maximum number of attempts.
	ErrVideoDeadlineExceeded = errors.New("video generation did not complete before the deadline")
)

// ValidationError reports locally detected bad input. It is surfaced to the
// caller immediately and never triggers a backend call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// BackendError wraps a failed call to the generative backend.
type BackendError struct {
	Operation string
	Err       error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend %s failed: %v", e.Operation, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// FetchError wraps a failure to download completed video content.
type FetchError struct {
	URI string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching video content failed: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
