package favorite

import "strings"

// ToggleFavoriteRequest - тело POST /api/favorites/toggle
type ToggleFavoriteRequest struct {
	UserID     string `json:"userId" validate:"required,max=100"`
	PropertyID string `json:"propertyId" validate:"required,entity_id"`
}

func (r *ToggleFavoriteRequest) Normalize() {
	r.UserID = strings.TrimSpace(r.UserID)
	r.PropertyID = strings.TrimSpace(r.PropertyID)
}

// CheckFavoriteQuery - параметры GET /api/favorites/check
type CheckFavoriteQuery struct {
	UserID     string `validate:"required,max=100"`
	PropertyID string `validate:"required,entity_id"`
}

// UserQuery - параметры запросов, которым нужен только пользователь
type UserQuery struct {
	UserID string `validate:"required,max=100"`
}

// CheckFavoriteResponse - ответ на проверку "в избранном ли"
type CheckFavoriteResponse struct {
	IsFavorite bool `json:"isFavorite"`
}

// CountResponse - количество избранного у пользователя
type CountResponse struct {
	Count int64 `json:"count"`
}
