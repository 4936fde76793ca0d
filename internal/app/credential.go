/**
 * @description
 * This file contains the session-scoped credential manager for video
 * generation. The video model requires the creator's own API key; the key is
 * held in process memory for the lifetime of the session, never persisted,
 * and cleared whenever the backend reports it invalid so the client is forced
 * back through acquisition.
 */

package app

import (
	"strings"
	"sync"
)

// CredentialManager holds the video-generation API key for this session.
type CredentialManager struct {
	mu  sync.Mutex
	key string
}

// NewCredentialManager creates an empty credential manager.
func NewCredentialManager() *CredentialManager {
	return &CredentialManager{}
}

// Has reports whether a credential is currently set.
func (m *CredentialManager) Has() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.key != ""
}

// Set stores the credential for this session. Blank input clears it.
func (m *CredentialManager) Set(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.key = strings.TrimSpace(key)
}

// Get returns the current credential, or "".
func (m *CredentialManager) Get() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.key
}

// Clear removes the stored credential.
func (m *CredentialManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.key = ""
}
