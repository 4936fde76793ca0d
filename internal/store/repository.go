/**
 * @description
 * This file defines the `SessionRepository` interface, the contract for the
 * durable session state of the studio-service. The storage model is two
 * string-keyed slots: the serialized account list and the last-selected
 * account id. Defining an interface decouples the session controller from the
 * concrete store (Redis in production, in-memory in tests and degraded mode).
 *
 * Load operations fail soft: missing or malformed stored data yields an empty
 * list or an absent selection rather than an error. Save operations overwrite
 * the whole slot, so a reader never observes a partial write.
 *
 * @dependencies
 * - context: Standard Go library.
 * - internal/domain: For the Account model.
 */

package store

import (
	"context"

	"github.com/myhandle/studio-service/internal/domain"
)

// SessionRepository persists the account list and the current selection.
type SessionRepository interface {
	// LoadAccounts returns the stored account list in insertion order.
	// Missing or malformed data yields an empty list, never an error.
	LoadAccounts(ctx context.Context) []domain.Account

	// SaveAccounts overwrites the stored account list with the full current
	// sequence. The write is atomic from the caller's perspective.
	SaveAccounts(ctx context.Context, accounts []domain.Account) error

	// LoadSelectedID returns the last-selected account id, or "" if none was
	// ever stored or storage is unavailable.
	LoadSelectedID(ctx context.Context) string

	// SaveSelectedID overwrites the stored selection.
	SaveSelectedID(ctx context.Context, id string) error
}
