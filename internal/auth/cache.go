package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionCache memoizes token validation results in Redis with a short TTL.
// A revoked account is rejected at worst one TTL after revocation; that is
// the contract the cache advertises.
type SessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionCache(addr, password string, ttl time.Duration) *SessionCache {
	c := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	return &SessionCache{client: c, ttl: ttl}
}

func (c *SessionCache) Get(ctx context.Context, token string) (Identity, bool) {
	raw, err := c.client.Get(ctx, sessionKey(token)).Result()
	if err != nil {
		return Identity{}, false
	}
	var id Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		return Identity{}, false
	}
	return id, true
}

func (c *SessionCache) Set(ctx context.Context, token string, id Identity) {
	raw, err := json.Marshal(id)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, sessionKey(token), raw, c.ttl).Err()
}

func (c *SessionCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *SessionCache) Close() error {
	return c.client.Close()
}

// tokens are keyed by digest, never stored verbatim
func sessionKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "session:" + hex.EncodeToString(sum[:])
}
