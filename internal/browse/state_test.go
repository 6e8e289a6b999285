package browse

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estatehub/internal/domain/favorite"
	"estatehub/internal/domain/property"
	"estatehub/internal/logger"
)

// fakeAPI keeps favorites server-side and can block or fail toggles.
type fakeAPI struct {
	mu        sync.Mutex
	props     []property.Property
	favorites map[string]bool
	toggleErr error
	listErr   error
	release   chan struct{}
	entered   chan struct{}
}

func newFakeAPI(favs ...string) *fakeAPI {
	f := &fakeAPI{props: catalog(), favorites: map[string]bool{}}
	for _, id := range favs {
		f.favorites[id] = true
	}
	return f
}

func (f *fakeAPI) ListProperties(context.Context, property.Filters) ([]property.Property, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.props, nil
}

func (f *fakeAPI) Favorites(_ context.Context, userID string) ([]favorite.FavoriteWithProperty, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []favorite.FavoriteWithProperty{}
	for id := range f.favorites {
		out = append(out, favorite.FavoriteWithProperty{Favorite: favorite.Favorite{UserID: userID, PropertyID: id}})
	}
	return out, nil
}

func (f *fakeAPI) ToggleFavorite(_ context.Context, userID, propertyID string) (*favorite.ToggleResult, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	if f.toggleErr != nil {
		return nil, f.toggleErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.favorites[propertyID] {
		delete(f.favorites, propertyID)
		return &favorite.ToggleResult{Action: favorite.ActionRemoved}, nil
	}
	f.favorites[propertyID] = true
	return &favorite.ToggleResult{
		Action:   favorite.ActionAdded,
		Favorite: &favorite.Favorite{UserID: userID, PropertyID: propertyID},
	}, nil
}

func loadedState(t *testing.T, api *fakeAPI) *State {
	t.Helper()
	s := NewState(api, "user123", logger.Discard())
	require.NoError(t, s.Load(context.Background()))
	return s
}

func TestState_Load(t *testing.T) {
	s := loadedState(t, newFakeAPI("1", "3"))

	assert.Len(t, s.Properties(), 6)
	assert.Equal(t, []string{"1", "3"}, s.FavoriteIDs())
	assert.Equal(t, 2, s.FavoriteCount())
	assert.True(t, s.IsFavorite("3"))
	assert.False(t, s.IsFavorite("2"))
	assert.Equal(t, []string{"1", "3"}, ids(s.FavoriteProperties()))
	assert.Equal(t, []string{"Bordeaux", "Lyon", "Nantes", "Nice", "Paris"}, s.Cities())
	assert.Equal(t, []string{"1", "6"}, ids(s.Visible(Filters{City: "Paris"})))
}

func TestState_LoadErrorKeepsPreviousState(t *testing.T) {
	api := newFakeAPI("1")
	s := loadedState(t, api)

	api.listErr = errors.New("offline")
	err := s.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, api.listErr)
	assert.Len(t, s.Properties(), 6)
	assert.True(t, s.IsFavorite("1"))
}

func TestState_ToggleTwiceRestores(t *testing.T) {
	s := loadedState(t, newFakeAPI())
	ctx := context.Background()

	on, err := s.ToggleFavorite(ctx, "2")
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, s.IsFavorite("2"))

	on, err = s.ToggleFavorite(ctx, "2")
	require.NoError(t, err)
	assert.False(t, on)
	assert.False(t, s.IsFavorite("2"))
}

func TestState_ToggleFailureRollsBack(t *testing.T) {
	api := newFakeAPI("1")
	s := loadedState(t, api)
	api.toggleErr = errors.New("500 internal error")

	on, err := s.ToggleFavorite(context.Background(), "1")
	require.Error(t, err)
	assert.ErrorIs(t, err, api.toggleErr)
	assert.True(t, on)
	assert.True(t, s.IsFavorite("1"), "local flip must be reverted")
	assert.False(t, s.IsPending("1"))

	_, err = s.ToggleFavorite(context.Background(), "2")
	require.Error(t, err)
	assert.False(t, s.IsFavorite("2"))
}

func TestState_ToggleIsOptimisticAndRejectsConcurrent(t *testing.T) {
	api := newFakeAPI()
	api.entered = make(chan struct{})
	api.release = make(chan struct{})
	s := loadedState(t, api)

	done := make(chan error, 1)
	go func() {
		_, err := s.ToggleFavorite(context.Background(), "4")
		done <- err
	}()

	<-api.entered
	assert.True(t, s.IsFavorite("4"), "flip is visible before the server answers")
	assert.True(t, s.IsPending("4"))

	_, err := s.ToggleFavorite(context.Background(), "4")
	assert.ErrorIs(t, err, ErrTogglePending)

	close(api.release)
	require.NoError(t, <-done)
	assert.True(t, s.IsFavorite("4"))
	assert.False(t, s.IsPending("4"))
}

func TestState_ToggleReconcilesWithServer(t *testing.T) {
	api := newFakeAPI()
	s := loadedState(t, api)

	// another device favorited "5" after we loaded
	api.mu.Lock()
	api.favorites["5"] = true
	api.mu.Unlock()

	on, err := s.ToggleFavorite(context.Background(), "5")
	require.NoError(t, err)
	assert.False(t, on, "server removed it, local state follows")
	assert.False(t, s.IsFavorite("5"))
}

func TestState_LoadKeepsPendingToggles(t *testing.T) {
	api := newFakeAPI("1", "3")
	api.entered = make(chan struct{})
	api.release = make(chan struct{})
	s := loadedState(t, api)

	done := make(chan error, 2)
	for _, id := range []string{"4", "1"} {
		go func() {
			_, err := s.ToggleFavorite(context.Background(), id)
			done <- err
		}()
		<-api.entered
	}

	require.NoError(t, s.Load(context.Background()))
	assert.True(t, s.IsFavorite("4"), "pending add survives a reload")
	assert.False(t, s.IsFavorite("1"), "pending remove survives a reload")
	assert.True(t, s.IsFavorite("3"))

	close(api.release)
	require.NoError(t, <-done)
	require.NoError(t, <-done)
	assert.Equal(t, []string{"3", "4"}, s.FavoriteIDs())
}
