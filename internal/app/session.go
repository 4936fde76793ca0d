/**
 * @description
 * This file contains the session controller for the studio-service. The
 * `SessionService` struct owns the account list and the current selection,
 * guaranteeing that the rest of the service never sees an unresolvable
 * current account.
 *
 * Key features:
 * - Bootstraps from the durable store, keeping the persisted selection only
 *   when it resolves against the loaded account list.
 * - Implements the account-setup flow: validated, append-only AddAccount that
 *   immediately selects the new account.
 * - Defensive recovery: a dangling selection falls back to the first account,
 *   or to the no-accounts state when the list is empty.
 * - Publishes account lifecycle events to RabbitMQ.
 *
 * @dependencies
 * - context, log, strings, sync, time: Standard Go libraries.
 * - github.com/google/uuid: For account id generation.
 * - internal/domain, internal/store: For domain models and persistence.
 * - pkg/rabbitmq: For event publishing.
 */

package app

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/myhandle/studio-service/internal/domain"
	"github.com/myhandle/studio-service/internal/store"
	"github.com/myhandle/studio-service/pkg/rabbitmq"
)

// SessionService owns the account list and the current selection. All state
// access goes through its mutex because HTTP handlers run concurrently.
type SessionService struct {
	mu            sync.Mutex
	repo          store.SessionRepository
	eventProducer *rabbitmq.EventProducer
	eventExchange string

	accounts  []domain.Account
	currentID string
}

// NewSessionService creates a session service. producer may be nil, in which
// case no events are published.
func NewSessionService(repo store.SessionRepository, producer *rabbitmq.EventProducer, eventExchange string) *SessionService {
	return &SessionService{
		repo:          repo,
		eventProducer: producer,
		eventExchange: eventExchange,
	}
}

// Bootstrap loads persisted session state. The stored selection is kept only
// if it resolves inside the loaded account list; anything else starts absent
// and is recovered on first access.
func (s *SessionService) Bootstrap(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts = s.repo.LoadAccounts(ctx)
	s.currentID = ""
	if saved := s.repo.LoadSelectedID(ctx); saved != "" {
		if s.findAccountLocked(saved) != nil {
			s.currentID = saved
		} else {
			log.Printf("level=warn component=session msg=\"stored selection does not resolve; ignoring\" account_id=%s", saved)
		}
	}
	log.Printf("level=info component=session msg=\"session bootstrapped\" accounts=%d state=%s", len(s.accounts), s.stateLocked())
}

// State reports whether the session has any accounts yet.
func (s *SessionService) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *SessionService) stateLocked() domain.SessionState {
	if len(s.accounts) == 0 {
		return domain.SessionNoAccounts
	}
	return domain.SessionReady
}

// Accounts returns the account list in insertion order.
func (s *SessionService) Accounts() []domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Account, len(s.accounts))
	copy(out, s.accounts)
	return out
}

// CurrentAccount resolves the current account, recovering from a dangling
// selection by falling back to the first account and persisting the repaired
// selection. It returns ErrAccountNotFound only when no accounts exist.
func (s *SessionService) CurrentAccount(ctx context.Context) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.accounts) == 0 {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	if acc := s.findAccountLocked(s.currentID); acc != nil {
		return *acc, nil
	}

	// Dangling or absent selection: deterministic recovery to the first
	// account. Not a user-visible error.
	recovered := s.accounts[0]
	log.Printf("level=warn component=session msg=\"current selection did not resolve; falling back to first account\" account_id=%s", recovered.ID)
	s.currentID = recovered.ID
	if err := s.repo.SaveSelectedID(ctx, recovered.ID); err != nil {
		log.Printf("level=error component=session msg=\"failed to persist recovered selection\" err=%v", err)
	}
	return recovered, nil
}

// AddAccount validates and appends a new account, selects it, and persists
// both slots. Username and niche must be non-empty after trimming; a single
// leading "@" is stripped from the username.
func (s *SessionService) AddAccount(ctx context.Context, username, niche string) (domain.Account, error) {
	username = strings.TrimSpace(username)
	username = strings.TrimPrefix(username, "@")
	niche = strings.TrimSpace(niche)

	if username == "" {
		return domain.Account{}, &domain.ValidationError{Field: "username", Reason: "must not be empty"}
	}
	if niche == "" {
		return domain.Account{}, &domain.ValidationError{Field: "niche", Reason: "must not be empty"}
	}

	account := domain.Account{
		ID:        uuid.NewString(),
		Username:  username,
		Niche:     niche,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts = append(s.accounts, account)
	s.currentID = account.ID

	if err := s.repo.SaveAccounts(ctx, s.accounts); err != nil {
		log.Printf("level=error component=session msg=\"failed to persist account list\" err=%v", err)
	}
	if err := s.repo.SaveSelectedID(ctx, account.ID); err != nil {
		log.Printf("level=error component=session msg=\"failed to persist selection\" err=%v", err)
	}

	s.publishAccountEvent(ctx, "account.created", account)
	log.Printf("level=info component=session msg=\"account added\" account_id=%s username=%s", account.ID, account.Username)
	return account, nil
}

// SwitchAccount changes the current selection to an existing account.
func (s *SessionService) SwitchAccount(ctx context.Context, id string) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc := s.findAccountLocked(id)
	if acc == nil {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	s.currentID = acc.ID
	if err := s.repo.SaveSelectedID(ctx, acc.ID); err != nil {
		log.Printf("level=error component=session msg=\"failed to persist selection\" err=%v", err)
	}

	s.publishAccountEvent(ctx, "account.selected", *acc)
	return *acc, nil
}

// CurrentAccountID returns the raw selection, which may be "".
func (s *SessionService) CurrentAccountID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentID
}

func (s *SessionService) findAccountLocked(id string) *domain.Account {
	if id == "" {
		return nil
	}
	for i := range s.accounts {
		if s.accounts[i].ID == id {
			return &s.accounts[i]
		}
	}
	return nil
}

func (s *SessionService) publishAccountEvent(ctx context.Context, eventType string, account domain.Account) {
	event := domain.AccountEvent{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		AccountID:  account.ID,
		Username:   account.Username,
		Niche:      account.Niche,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.eventProducer.Publish(ctx, s.eventExchange, eventType, event); err != nil {
		log.Printf("level=warn component=session msg=\"event publish failed\" event_type=%s err=%v", eventType, err)
	}
}
