package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	noncePrefix     = "login_nonce:"
	defaultNonceTTL = 5 * time.Minute
)

// ErrNonceNotFound indicates no pending nonce exists for the address, either
// because none was issued or because it expired or was already consumed.
var ErrNonceNotFound = errors.New("auth: login nonce not found")

// NonceStore issues and consumes single-use login nonces keyed by wallet
// address. Consume must be atomic: a nonce can be redeemed at most once.
type NonceStore interface {
	Put(ctx context.Context, address, nonce string) error
	Consume(ctx context.Context, address string) (string, error)
}

// RedisNonceStore keeps nonces in redis under a TTL so stale challenges
// expire on their own.
type RedisNonceStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisNonceStore constructs a nonce store from a redis URL.
func NewRedisNonceStore(redisURL string) (*RedisNonceStore, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &RedisNonceStore{client: redis.NewClient(options), ttl: defaultNonceTTL}, nil
}

// Put stores the nonce for the address, replacing any pending one.
func (s *RedisNonceStore) Put(ctx context.Context, address, nonce string) error {
	return s.client.Set(ctx, noncePrefix+address, nonce, s.ttl).Err()
}

// Consume atomically fetches and deletes the pending nonce.
func (s *RedisNonceStore) Consume(ctx context.Context, address string) (string, error) {
	nonce, err := s.client.GetDel(ctx, noncePrefix+address).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNonceNotFound
	}
	if err != nil {
		return "", err
	}
	return nonce, nil
}

// Close releases the underlying redis connection.
func (s *RedisNonceStore) Close() error {
	return s.client.Close()
}

// MemoryNonceStore is an in-process NonceStore for tests and local
// development. Entries expire on read.
type MemoryNonceStore struct {
	mu      sync.Mutex
	entries map[string]memoryNonceEntry
	ttl     time.Duration
	clock   func() time.Time
}

type memoryNonceEntry struct {
	nonce     string
	expiresAt time.Time
}

// NewMemoryNonceStore constructs an in-memory nonce store.
func NewMemoryNonceStore() *MemoryNonceStore {
	return &MemoryNonceStore{
		entries: make(map[string]memoryNonceEntry),
		ttl:     defaultNonceTTL,
		clock:   time.Now,
	}
}

// Put stores the nonce for the address, replacing any pending one.
func (s *MemoryNonceStore) Put(_ context.Context, address, nonce string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[address] = memoryNonceEntry{nonce: nonce, expiresAt: s.clock().Add(s.ttl)}
	return nil
}

// Consume atomically fetches and deletes the pending nonce.
func (s *MemoryNonceStore) Consume(_ context.Context, address string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, exists := s.entries[address]
	if !exists {
		return "", ErrNonceNotFound
	}
	delete(s.entries, address)
	if s.clock().After(entry.expiresAt) {
		return "", ErrNonceNotFound
	}
	return entry.nonce, nil
}
