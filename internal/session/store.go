// Package session keeps per-caller conversational context between requests:
// the last city, country, date, and date type a caller asked about. The store
// sits behind a narrow key-value interface so the in-memory map can be swapped
// for Redis without touching the resolution logic.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrInvalidStoreType is returned by NewStore for an unknown driver name.
	ErrInvalidStoreType = errors.New("session: invalid store type")
	// ErrInvalidConfig is returned when a driver is missing required options.
	ErrInvalidConfig = errors.New("session: invalid store configuration")
)

// DefaultTTL bounds how long an idle session survives. The original design
// had no eviction at all; sessions now expire so the map cannot grow without
// bound for the process lifetime.
const DefaultTTL = 24 * time.Hour

// Context is the per-session snapshot read before and written after every
// resolved weather query.
type Context struct {
	LastCity     string    `json:"last_city,omitempty"`
	LastCountry  string    `json:"last_country,omitempty"`
	LastDate     string    `json:"last_date,omitempty"` // YYYY-MM-DD
	LastDateType string    `json:"last_date_type,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Partial is a shallow-merge update; nil fields are left untouched.
type Partial struct {
	LastCity     *string
	LastCountry  *string
	LastDate     *string
	LastDateType *string
}

func (c *Context) apply(p Partial) {
	if p.LastCity != nil {
		c.LastCity = *p.LastCity
	}
	if p.LastCountry != nil {
		c.LastCountry = *p.LastCountry
	}
	if p.LastDate != nil {
		c.LastDate = *p.LastDate
	}
	if p.LastDateType != nil {
		c.LastDateType = *p.LastDateType
	}
}

// Store is the contract every session driver must satisfy.
//
// Get creates and persists a default "today, current" context on first
// access. Update shallow-merges the partial under the store's own locking so
// concurrent writers to the same key cannot lose fields.
type Store interface {
	Get(ctx context.Context, id string) (Context, error)
	Update(ctx context.Context, id string, partial Partial) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// defaultContext is the state a session starts in: today's date, current
// conditions, no city yet.
func defaultContext(now time.Time) Context {
	return Context{
		LastDate:     now.UTC().Format("2006-01-02"),
		LastDateType: "current",
		UpdatedAt:    now,
	}
}

// StoreType selects a session driver.
type StoreType string

const (
	StoreTypeMemory StoreType = "memory"
	StoreTypeRedis  StoreType = "redis"
)

// StoreOption is a functional option for configuring a session store.
type StoreOption func(*storeConfig)

type storeConfig struct {
	redisClient *redis.Client
	ttl         time.Duration
}

// WithRedisClient sets the Redis client for the Redis driver.
func WithRedisClient(client *redis.Client) StoreOption {
	return func(c *storeConfig) { c.redisClient = client }
}

// WithTTL overrides the idle-session expiry.
func WithTTL(ttl time.Duration) StoreOption {
	return func(c *storeConfig) { c.ttl = ttl }
}

// NewStore creates a session store for the given driver type.
// The Redis driver requires WithRedisClient.
func NewStore(storeType StoreType, opts ...StoreOption) (Store, error) {
	cfg := &storeConfig{ttl: DefaultTTL}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.ttl <= 0 {
		cfg.ttl = DefaultTTL
	}

	switch storeType {
	case StoreTypeMemory:
		return NewMemoryStore(cfg.ttl), nil
	case StoreTypeRedis:
		if cfg.redisClient == nil {
			return nil, ErrInvalidConfig
		}
		return NewRedisStore(cfg.redisClient, cfg.ttl), nil
	default:
		return nil, ErrInvalidStoreType
	}
}
