package favorite

import (
	"context"
	"log/slog"
)

type Service struct {
	repo Repository
	log  *slog.Logger
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log.With("component", "favorite.Service")}
}

func (s *Service) List(ctx context.Context, userID string) ([]FavoriteWithProperty, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) Toggle(ctx context.Context, userID, propertyID string) (*ToggleResult, error) {
	result, err := s.repo.Toggle(ctx, userID, propertyID)
	if err != nil {
		return nil, err
	}
	s.log.Info("favorite toggled", "user_id", userID, "property_id", propertyID, "action", result.Action)
	return result, nil
}

func (s *Service) IsFavorite(ctx context.Context, userID, propertyID string) (bool, error) {
	return s.repo.Exists(ctx, userID, propertyID)
}

func (s *Service) Count(ctx context.Context, userID string) (int64, error) {
	return s.repo.Count(ctx, userID)
}
