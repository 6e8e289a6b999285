package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"estatehub/internal/config"
)

// Store is a JSON value cache. Get reports false on a miss.
type Store interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
	Close() error
}

// New picks the store named by CACHE_DRIVER.
func New(cfg config.CacheConfig, log *slog.Logger) (Store, error) {
	switch cfg.Driver {
	case "redis":
		log.Info("using redis cache", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
		return NewRedis(RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	case "memory":
		log.Info("using in-process cache")
		return NewMemory(), nil
	case "none", "":
		return Noop{}, nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}

// Namespace groups keys that are invalidated together. Invalidation bumps a
// version counter; stores that can drop the old version eagerly do so, the
// rest let it expire.
type Namespace struct {
	store Store
	name  string
	ttl   time.Duration
}

func NewNamespace(store Store, name string, ttl time.Duration) *Namespace {
	if store == nil {
		store = Noop{}
	}
	return &Namespace{store: store, name: name, ttl: ttl}
}

func (n *Namespace) versionKey() string {
	return n.name + ":version"
}

// Key builds a versioned key from params; map order does not matter.
func (n *Namespace) Key(ctx context.Context, prefix string, params map[string]string) (string, error) {
	var version int64
	if _, err := n.store.Get(ctx, n.versionKey(), &version); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:v%d:%s", n.name, version, QueryKey(prefix, params)), nil
}

func (n *Namespace) Get(ctx context.Context, key string, dest any) (bool, error) {
	return n.store.Get(ctx, key, dest)
}

func (n *Namespace) Set(ctx context.Context, key string, value any) error {
	return n.store.Set(ctx, key, value, n.ttl)
}

// prefixDeleter is implemented by stores that do not expire keys on their own
// schedule and can drop a whole version at once.
type prefixDeleter interface {
	DeletePrefix(ctx context.Context, prefix string) error
}

func (n *Namespace) Invalidate(ctx context.Context) error {
	version, err := n.store.Incr(ctx, n.versionKey())
	if err != nil {
		return err
	}
	if d, ok := n.store.(prefixDeleter); ok {
		return d.DeletePrefix(ctx, fmt.Sprintf("%s:v%d:", n.name, version-1))
	}
	return nil
}

// QueryKey hashes sorted params so filter order never splits the cache.
func QueryKey(prefix string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var builder strings.Builder
	for i, k := range keys {
		if i > 0 {
			builder.WriteString(":")
		}
		builder.WriteString(k)
		builder.WriteString("=")
		builder.WriteString(params[k])
	}

	hash := md5.Sum([]byte(builder.String()))
	return prefix + ":" + hex.EncodeToString(hash[:])
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string, any) (bool, error)        { return false, nil }
func (Noop) Set(context.Context, string, any, time.Duration) error { return nil }
func (Noop) Incr(context.Context, string) (int64, error)           { return 0, nil }
func (Noop) Close() error                                          { return nil }
