package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces session keys
const DefaultRedisPrefix = "spider:session:"

// RedisPersistence implements SessionPersistence with one Redis string per session
type RedisPersistence struct {
	client  redis.UniversalClient
	prefix  string
	ttl     time.Duration
	timeout time.Duration
}

// RedisOption configures a RedisPersistence
type RedisOption func(*RedisPersistence)

// WithKeyPrefix overrides DefaultRedisPrefix
func WithKeyPrefix(prefix string) RedisOption {
	return func(rp *RedisPersistence) { rp.prefix = prefix }
}

// WithTTL expires idle sessions; zero keeps them forever
func WithTTL(ttl time.Duration) RedisOption {
	return func(rp *RedisPersistence) { rp.ttl = ttl }
}

// NewRedisPersistence wraps an existing client
func NewRedisPersistence(client redis.UniversalClient, opts ...RedisOption) *RedisPersistence {
	rp := &RedisPersistence{
		client:  client,
		prefix:  DefaultRedisPrefix,
		timeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(rp)
	}
	return rp
}

// DialRedis connects to addr and checks the connection with PING
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to reach redis at %s: %w", addr, err)
	}
	return client, nil
}

func (rp *RedisPersistence) key(id string) string {
	return rp.prefix + strings.ToLower(id)
}

func (rp *RedisPersistence) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), rp.timeout)
}

// Save persists a session record
func (rp *RedisPersistence) Save(data *PersistedSessionData) error {
	if data == nil {
		return fmt.Errorf("session cannot be nil")
	}
	if !validSessionID(data.ID) {
		return ErrInvalidSessionID
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	ctx, cancel := rp.context()
	defer cancel()
	if err := rp.client.Set(ctx, rp.key(data.ID), payload, rp.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session %s: %w", data.ID, err)
	}
	return nil
}

// Load retrieves a session record
func (rp *RedisPersistence) Load(id string) (*PersistedSessionData, error) {
	if !validSessionID(id) {
		return nil, ErrInvalidSessionID
	}

	ctx, cancel := rp.context()
	defer cancel()
	payload, err := rp.client.Get(ctx, rp.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	return decodeRecord(id, payload)
}

// Delete removes a session
func (rp *RedisPersistence) Delete(id string) error {
	ctx, cancel := rp.context()
	defer cancel()
	n, err := rp.client.Del(ctx, rp.key(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// ListAll returns all persisted session IDs
func (rp *RedisPersistence) ListAll() ([]string, error) {
	ctx, cancel := rp.context()
	defer cancel()

	var ids []string
	iter := rp.client.Scan(ctx, 0, rp.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		id := strings.TrimPrefix(iter.Val(), rp.prefix)
		if validSessionID(id) {
			ids = append(ids, id)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	sort.Strings(ids)
	return ids, nil
}

// Exists checks if a session exists in Redis
func (rp *RedisPersistence) Exists(id string) bool {
	if !validSessionID(id) {
		return false
	}
	ctx, cancel := rp.context()
	defer cancel()
	n, err := rp.client.Exists(ctx, rp.key(id)).Result()
	return err == nil && n > 0
}
