/**
 * @description
 * Redis-backed implementation of the SessionRepository. Each of the two
 * storage slots is a single Redis string key holding either the JSON-encoded
 * account list or the selected account id. A slot is always written with one
 * SET, which gives the whole-value overwrite semantics the contract requires.
 *
 * Reads fail soft: a missing key, a connection error, or malformed JSON all
 * degrade to "nothing stored" with a warn log, so a corrupt slot can never
 * wedge the session controller at bootstrap.
 *
 * @dependencies
 * - github.com/redis/go-redis/v9: The Redis client.
 * - internal/domain: For the Account model.
 */

package store

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/myhandle/studio-service/internal/domain"
)

const (
	accountsSlotSuffix = ":accounts"
	selectedSlotSuffix = ":current_account_id"
)

// RedisRepository stores session state in two Redis string keys.
type RedisRepository struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisRepository creates a RedisRepository. keyPrefix namespaces the two
// slots, e.g. "myhandle" yields "myhandle:accounts".
func NewRedisRepository(client *redis.Client, keyPrefix string) *RedisRepository {
	return &RedisRepository{client: client, keyPrefix: keyPrefix}
}

func (r *RedisRepository) accountsKey() string { return r.keyPrefix + accountsSlotSuffix }
func (r *RedisRepository) selectedKey() string { return r.keyPrefix + selectedSlotSuffix }

// LoadAccounts reads and decodes the account slot.
func (r *RedisRepository) LoadAccounts(ctx context.Context) []domain.Account {
	raw, err := r.client.Get(ctx, r.accountsKey()).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("level=warn component=store msg=\"account slot read failed; treating as empty\" key=%s err=%v", r.accountsKey(), err)
		}
		return nil
	}

	var accounts []domain.Account
	if err := json.Unmarshal([]byte(raw), &accounts); err != nil {
		log.Printf("level=warn component=store msg=\"account slot is malformed; treating as empty\" key=%s err=%v", r.accountsKey(), err)
		return nil
	}
	return accounts
}

// SaveAccounts serializes and overwrites the account slot.
func (r *RedisRepository) SaveAccounts(ctx context.Context, accounts []domain.Account) error {
	if accounts == nil {
		accounts = []domain.Account{}
	}
	raw, err := json.Marshal(accounts)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.accountsKey(), raw, 0).Err()
}

// LoadSelectedID reads the selection slot.
func (r *RedisRepository) LoadSelectedID(ctx context.Context) string {
	id, err := r.client.Get(ctx, r.selectedKey()).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("level=warn component=store msg=\"selection slot read failed; treating as absent\" key=%s err=%v", r.selectedKey(), err)
		}
		return ""
	}
	return id
}

// SaveSelectedID overwrites the selection slot.
func (r *RedisRepository) SaveSelectedID(ctx context.Context, id string) error {
	return r.client.Set(ctx, r.selectedKey(), id, 0).Err()
}
