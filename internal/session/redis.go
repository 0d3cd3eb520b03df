package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "portal:session:"

// RedisStore keeps sessions in redis so all portal instances see the same logins.
type RedisStore struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewRedisStore connects to redis with short timeouts.
func NewRedisStore(addr string, ttl time.Duration) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})
	return &RedisStore{Client: client, TTL: ttl}
}

// Healthy verifies redis connectivity.
func (r *RedisStore) Healthy(ctx context.Context) bool {
	if r == nil || r.Client == nil {
		return false
	}
	return r.Client.Ping(ctx).Err() == nil
}

// Save stores the session as JSON under the session key with the store TTL.
func (r *RedisStore) Save(ctx context.Context, id string, s Session) error {
	if s.Token == "" {
		return ErrEmptyToken
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, keyPrefix+id, raw, r.TTL).Err()
}

// Get loads a session; the second return is false when none exists.
func (r *RedisStore) Get(ctx context.Context, id string) (Session, bool, error) {
	raw, err := r.Client.Get(ctx, keyPrefix+id).Bytes()
	if err == redis.Nil {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, err
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return Session{}, false, err
	}
	return s, true, nil
}

// Delete removes the session. Deleting a missing session is not an error.
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.Client.Del(ctx, keyPrefix+id).Err()
}
