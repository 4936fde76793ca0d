/**
 * @description
 * This file defines the core Account model for the studio-service. An account
 * represents one social-media handle the creator manages, together with the
 * content niche that tailors every generation request made on its behalf.
 *
 * Accounts are append-only in the current scope: they are created through the
 * setup flow and never edited or deleted in place.
 */

package domain

import "time"

// Account is a single managed social-media account.
type Account struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Niche     string    `json:"niche"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionState names the two top-level states of the session controller.
type SessionState string

const (
	// SessionNoAccounts is the first-run state: no accounts exist and the
	// setup flow must run before any content view is usable.
	SessionNoAccounts SessionState = "no_accounts"
	// SessionReady means at least one account exists and a current account
	// can always be resolved.
	SessionReady SessionState = "ready"
)
