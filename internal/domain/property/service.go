package property

import (
	"context"
	"log/slog"
	"strconv"

	"estatehub/internal/cache"
)

type Service struct {
	repo  Repository
	cache *cache.Namespace
	log   *slog.Logger
}

// NewService wires the repository with the catalog cache. Pass a
// namespace over cache.Noop to disable caching.
func NewService(repo Repository, catalog *cache.Namespace, log *slog.Logger) *Service {
	if catalog == nil {
		catalog = cache.NewNamespace(nil, "properties", 0)
	}
	return &Service{
		repo:  repo,
		cache: catalog,
		log:   log.With("component", "property.Service"),
	}
}

func (s *Service) List(ctx context.Context, f Filters) ([]Property, error) {
	key, ok := s.cacheKey(ctx, "list", map[string]string{
		"city":     f.City,
		"type":     string(f.Type),
		"minPrice": strconv.FormatFloat(f.MinPrice, 'f', -1, 64),
		"maxPrice": strconv.FormatFloat(f.MaxPrice, 'f', -1, 64),
	})
	if ok {
		var cached []Property
		if hit, err := s.cache.Get(ctx, key, &cached); err != nil {
			s.log.Warn("cache read failed", "key", key, "error", err)
		} else if hit {
			return cached, nil
		}
	}

	properties, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}

	if ok {
		s.store(ctx, key, properties)
	}
	return properties, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Property, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, req *CreatePropertyRequest) (*Property, error) {
	p := req.ToProperty()
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	s.log.Info("property created", "property_id", p.ID, "city", p.City)
	return p, nil
}

func (s *Service) Update(ctx context.Context, id string, req *UpdatePropertyRequest) (*Property, error) {
	p, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	s.invalidate(ctx)

	s.log.Info("property updated", "property_id", id)
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	s.invalidate(ctx)

	s.log.Info("property deleted", "property_id", id)
	return nil
}

func (s *Service) Cities(ctx context.Context) ([]string, error) {
	key, ok := s.cacheKey(ctx, "cities", nil)
	if ok {
		var cached []string
		if hit, err := s.cache.Get(ctx, key, &cached); err != nil {
			s.log.Warn("cache read failed", "key", key, "error", err)
		} else if hit {
			return cached, nil
		}
	}

	cities, err := s.repo.Cities(ctx)
	if err != nil {
		return nil, err
	}

	if ok {
		s.store(ctx, key, cities)
	}
	return cities, nil
}

// Cache errors never fail a request; the database stays the source of truth.

func (s *Service) cacheKey(ctx context.Context, prefix string, params map[string]string) (string, bool) {
	key, err := s.cache.Key(ctx, prefix, params)
	if err != nil {
		s.log.Warn("cache key lookup failed", "prefix", prefix, "error", err)
		return "", false
	}
	return key, true
}

func (s *Service) store(ctx context.Context, key string, value any) {
	if err := s.cache.Set(ctx, key, value); err != nil {
		s.log.Warn("cache write failed", "key", key, "error", err)
	}
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn("cache invalidation failed", "error", err)
	}
}
