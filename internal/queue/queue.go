package queue

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Queue carries opaque JSON payloads from the portal to the audit worker.
type Queue interface {
	Publish(ctx context.Context, payload []byte) error
	Consume(ctx context.Context) (<-chan []byte, error)
}

// InMemory is a minimal channel-backed queue for dev/testing.
type InMemory struct {
	ch chan []byte
}

// NewInMemory creates a bounded in-memory queue.
func NewInMemory(size int) *InMemory {
	return &InMemory{ch: make(chan []byte, size)}
}

// Publish enqueues a payload.
func (q *InMemory) Publish(ctx context.Context, payload []byte) error {
	select {
	case q.ch <- payload:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume returns a channel for workers.
func (q *InMemory) Consume(ctx context.Context) (<-chan []byte, error) {
	out := make(chan []byte)
	go func() {
		defer close(out)
		for {
			select {
			case payload := <-q.ch:
				out <- payload
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// RedisQueue implements a simple Redis list-backed queue.
type RedisQueue struct {
	client *redis.Client
	key    string
}

// NewRedisQueue builds a queue using LPUSH/BRPOP semantics.
func NewRedisQueue(client *redis.Client, key string) *RedisQueue {
	if key == "" {
		key = "portal:audit"
	}
	return &RedisQueue{client: client, key: key}
}

// Publish enqueues a payload.
func (q *RedisQueue) Publish(ctx context.Context, payload []byte) error {
	return q.client.LPush(ctx, q.key, payload).Err()
}

// Consume streams payloads using BRPOP.
func (q *RedisQueue) Consume(ctx context.Context) (<-chan []byte, error) {
	out := make(chan []byte)
	go func() {
		defer close(out)
		for {
			res, err := q.client.BRPop(ctx, 5*time.Second, q.key).Result()
			if err != nil {
				if err == redis.Nil {
					continue
				}
				if ctx.Err() != nil {
					return
				}
				continue
			}
			if len(res) == 2 {
				out <- []byte(res[1])
			}
		}
	}()
	return out, nil
}
