package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore mémorise les sessions révoquées jusqu'à leur expiration
type SessionStore interface {
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

const revokedKeyPrefix = "hvaf:session:revoked:"

// RedisSessionStore partage les révocations entre instances
type RedisSessionStore struct {
	rdb *redis.Client
}

// NewRedisSessionStore se connecte à Redis et vérifie la connexion
func NewRedisSessionStore(url string) (*RedisSessionStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("URL Redis invalide: %w", err)
	}

	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping Redis échoué: %w", err)
	}
	return &RedisSessionStore{rdb: rdb}, nil
}

// Revoke enregistre la session comme révoquée
func (s *RedisSessionStore) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, revokedKeyPrefix+sessionID, "1", ttl).Err()
}

// IsRevoked indique si la session a été révoquée
func (s *RedisSessionStore) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.rdb.Exists(ctx, revokedKeyPrefix+sessionID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Close ferme la connexion Redis
func (s *RedisSessionStore) Close() error {
	return s.rdb.Close()
}

// MemorySessionStore garde les révocations dans le processus
type MemorySessionStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

// NewMemorySessionStore crée un store de révocation en mémoire
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{revoked: make(map[string]time.Time)}
}

// Revoke enregistre la session comme révoquée jusqu'à son expiration
func (s *MemorySessionStore) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, exp := range s.revoked {
		if now.After(exp) {
			delete(s.revoked, id)
		}
	}
	if ttl > 0 {
		s.revoked[sessionID] = now.Add(ttl)
	}
	return nil
}

// IsRevoked indique si la session a été révoquée
func (s *MemorySessionStore) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.revoked[sessionID]
	return ok && time.Now().Before(exp), nil
}
