package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-monolith/mono"
	"github.com/redis/go-redis/v9"

	"github.com/kalviumcommunity/Medical-Appointments/config"
)

// Module owns the Redis connection and exposes the cache to other modules.
type Module struct {
	cfg    config.CacheConfig
	client *redis.Client
	cache  *Cache
	reader *Reader
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new cache module.
func NewModule(cfg config.CacheConfig) *Module {
	return &Module{cfg: cfg}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "cache"
}

// Start connects to Redis and builds the cache-aside reader.
func (m *Module) Start(ctx context.Context) error {
	m.client = redis.NewClient(&redis.Options{
		Addr:         m.cfg.RedisAddr,
		PoolSize:     50,
		MinIdleConns: 5,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	// A dead Redis at startup is logged, not fatal: the reader degrades to
	// direct store fetches until the backend comes back.
	if err := m.client.Ping(ctx).Err(); err != nil {
		log.Printf("[cache] Redis not reachable at %s, running degraded: %v", m.cfg.RedisAddr, err)
	} else {
		log.Printf("[cache] Connected to Redis at %s (prefix: %s, TTL: %s)", m.cfg.RedisAddr, m.cfg.Prefix, m.cfg.TTL)
	}

	m.cache = New(m.client, m.cfg.Prefix, m.cfg.TTL)
	m.reader = NewReader(m.cache)
	return nil
}

// Stop closes the Redis connection.
func (m *Module) Stop(_ context.Context) error {
	if m.client != nil {
		if err := m.client.Close(); err != nil {
			return fmt.Errorf("failed to close Redis connection: %w", err)
		}
	}
	log.Println("[cache] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.cache == nil {
		return mono.HealthStatus{Healthy: false, Message: "cache not initialized"}
	}
	if err := m.cache.Ping(ctx); err != nil {
		// Degraded, not down: reads fall through to the store.
		return mono.HealthStatus{
			Healthy: true,
			Message: fmt.Sprintf("degraded: %v", err),
			Details: map[string]any{"redis": m.cfg.RedisAddr},
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"redis": m.cfg.RedisAddr,
			"stats": m.cache.GetStats(),
		},
	}
}

// GetCache returns the cache instance.
func (m *Module) GetCache() *Cache {
	return m.cache
}

// GetReader returns the cache-aside reader.
func (m *Module) GetReader() *Reader {
	return m.reader
}
