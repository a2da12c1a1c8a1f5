package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"

	"github.com/EashcodeX/itglue-clone-sub001/internal/db"
)

// Compile-time check: Store implements db.CacheStore.
var _ db.CacheStore = (*Store)(nil)

// DefaultClientName identifies deep search connections in CLIENT LIST.
const DefaultClientName = "deepsearch"

// Config holds connection parameters for the shared cache tier.
type Config struct {
	Addrs    []string
	Username string
	Password string
	DB       int
	// ClientName defaults to DefaultClientName.
	ClientName string
	// WriteTimeout bounds a stalled connection; zero keeps the rueidis default.
	WriteTimeout time.Duration
	// ReadinessTimeout is how long Open waits for the first successful PING.
	ReadinessTimeout time.Duration
}

// Store implements db.CacheStore via rueidis.
type Store struct {
	client rueidis.Client
}

// NewStore creates a Redis store via rueidis without waiting for the server.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}
	if cfg.ClientName == "" {
		cfg.ClientName = DefaultClientName
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:      cfg.Addrs,
		Username:         cfg.Username,
		Password:         cfg.Password,
		SelectDB:         cfg.DB,
		ClientName:       cfg.ClientName,
		ConnWriteTimeout: cfg.WriteTimeout,
		// Entries are short-lived and invalidated over pub/sub; client-side caching would only add staleness.
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Store{client: client}, nil
}

// Open creates a store and waits until it answers, closing it on failure.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	s, err := NewStore(cfg)
	if err != nil {
		return nil, err
	}
	timeout := cfg.ReadinessTimeout
	if timeout <= 0 {
		timeout = defaultReadinessTimeout
	}
	if err := s.WaitForReady(ctx, timeout); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

const defaultReadinessTimeout = 10 * time.Second

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.do(ctx, s.b().Ping().Build()).Error(); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady polls Ping until the store responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for redis: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

func (s *Store) do(ctx context.Context, cmd rueidis.Completed) rueidis.RedisResult {
	return s.client.Do(ctx, cmd)
}

func (s *Store) b() rueidis.Builder {
	return s.client.B()
}
