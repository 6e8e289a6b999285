package browse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"estatehub/internal/domain/favorite"
	"estatehub/internal/domain/property"
)

// ErrTogglePending is returned when a toggle for the same property is
// still in flight.
var ErrTogglePending = errors.New("favorite toggle already in progress")

// API is the part of the REST client State depends on.
type API interface {
	ListProperties(ctx context.Context, f property.Filters) ([]property.Property, error)
	Favorites(ctx context.Context, userID string) ([]favorite.FavoriteWithProperty, error)
	ToggleFavorite(ctx context.Context, userID, propertyID string) (*favorite.ToggleResult, error)
}

// State is the local view of the catalog and of one user's favorites.
// Favorite toggles are applied optimistically and reverted if the server
// call fails.
type State struct {
	api    API
	userID string
	log    *slog.Logger

	mu         sync.Mutex
	properties []property.Property
	favorites  map[string]struct{}
	pending    map[string]struct{}
}

func NewState(api API, userID string, log *slog.Logger) *State {
	return &State{
		api:       api,
		userID:    userID,
		log:       log.With("component", "browse.State", "user_id", userID),
		favorites: make(map[string]struct{}),
		pending:   make(map[string]struct{}),
	}
}

// Load fetches the full catalog and the favorite ids, replacing local state.
// Ids with a toggle in flight keep their optimistic value. On error the
// previous state is kept.
func (s *State) Load(ctx context.Context) error {
	var (
		properties []property.Property
		favorites  []favorite.FavoriteWithProperty
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		properties, err = s.api.ListProperties(gctx, property.Filters{})
		if err != nil {
			return fmt.Errorf("load properties: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		favorites, err = s.api.Favorites(gctx, s.userID)
		if err != nil {
			return fmt.Errorf("load favorites: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	ids := make(map[string]struct{}, len(favorites))
	for _, f := range favorites {
		ids[f.PropertyID] = struct{}{}
	}

	s.mu.Lock()
	// a toggle in flight owns its id until the server answers
	for id := range s.pending {
		if _, on := s.favorites[id]; on {
			ids[id] = struct{}{}
		} else {
			delete(ids, id)
		}
	}
	s.properties = properties
	s.favorites = ids
	s.mu.Unlock()

	s.log.Debug("state loaded", "properties", len(properties), "favorites", len(ids))
	return nil
}

// Properties returns a copy of the loaded catalog.
func (s *State) Properties() []property.Property {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.properties)
}

// Visible is the catalog narrowed by f.
func (s *State) Visible(f Filters) []property.Property {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Apply(s.properties, f)
}

func (s *State) Cities() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Cities(s.properties)
}

// FavoriteProperties returns the loaded properties the user marked.
func (s *State) FavoriteProperties() []property.Property {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]property.Property, 0, len(s.favorites))
	for _, p := range s.properties {
		if _, ok := s.favorites[p.ID]; ok {
			out = append(out, p)
		}
	}
	return out
}

func (s *State) IsFavorite(propertyID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.favorites[propertyID]
	return ok
}

func (s *State) IsPending(propertyID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[propertyID]
	return ok
}

func (s *State) FavoriteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.favorites)
}

// FavoriteIDs returns the marked ids, sorted.
func (s *State) FavoriteIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.favorites))
	for id := range s.favorites {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// ToggleFavorite flips membership locally, then asks the server. The local
// flip is reconciled with the action the server reports, or reverted when
// the call fails. It returns whether the property is a favorite afterwards.
func (s *State) ToggleFavorite(ctx context.Context, propertyID string) (bool, error) {
	s.mu.Lock()
	if _, busy := s.pending[propertyID]; busy {
		s.mu.Unlock()
		return false, ErrTogglePending
	}
	_, was := s.favorites[propertyID]
	s.setFavorite(propertyID, !was)
	s.pending[propertyID] = struct{}{}
	s.mu.Unlock()

	res, err := s.api.ToggleFavorite(ctx, s.userID, propertyID)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, propertyID)

	if err != nil {
		s.setFavorite(propertyID, was)
		s.log.Warn("favorite toggle failed, reverted", "property_id", propertyID, "error", err)
		return was, fmt.Errorf("toggle favorite %s: %w", propertyID, err)
	}

	now := res.Action == favorite.ActionAdded
	if now == was {
		s.log.Info("server disagreed with local favorite state", "property_id", propertyID, "action", res.Action)
	}
	s.setFavorite(propertyID, now)
	return now, nil
}

// setFavorite must be called with mu held.
func (s *State) setFavorite(propertyID string, on bool) {
	if on {
		s.favorites[propertyID] = struct{}{}
	} else {
		delete(s.favorites, propertyID)
	}
}
