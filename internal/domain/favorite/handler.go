package favorite

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"estatehub/internal/pkg/response"
	"estatehub/internal/pkg/validator"
)

// Handler обрабатывает HTTP запросы для избранного
type Handler struct {
	service *Service
}

// NewHandler создаёт новый handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetFavorites возвращает избранное пользователя с данными объектов
//
// GET /api/favorites?userId=
func (h *Handler) GetFavorites(c *gin.Context) {
	q := UserQuery{UserID: strings.TrimSpace(c.Query("userId"))}
	if errs := validator.Validate(&q); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidation, "User ID is required", errs)
		return
	}

	favorites, err := h.service.List(c.Request.Context(), q.UserID)
	if err != nil {
		h.internalError(c, err, "Failed to fetch favorites")
		return
	}

	response.Success(c, http.StatusOK, favorites)
}

// ToggleFavorite добавляет объект в избранное или убирает его оттуда
//
// POST /api/favorites/toggle {userId, propertyId}
func (h *Handler) ToggleFavorite(c *gin.Context) {
	var req ToggleFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeInvalidRequest, "Invalid request body", err.Error())
		return
	}
	req.Normalize()

	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidation, "User ID and Property ID are required", errs)
		return
	}

	result, err := h.service.Toggle(c.Request.Context(), req.UserID, req.PropertyID)
	if err != nil {
		if errors.Is(err, ErrPropertyNotFound) {
			response.Error(c, http.StatusBadRequest, response.CodePropertyNotFound, "Property does not exist")
			return
		}
		if errors.Is(err, ErrConcurrentChange) {
			response.Error(c, http.StatusConflict, response.CodeConflict, "Favorite was changed concurrently, retry the request")
			return
		}
		h.internalError(c, err, "Failed to toggle favorite")
		return
	}

	response.Success(c, http.StatusOK, result)
}

// CheckFavorite проверяет, находится ли объект в избранном пользователя
//
// GET /api/favorites/check?userId&propertyId
func (h *Handler) CheckFavorite(c *gin.Context) {
	q := CheckFavoriteQuery{
		UserID:     strings.TrimSpace(c.Query("userId")),
		PropertyID: strings.TrimSpace(c.Query("propertyId")),
	}
	if errs := validator.Validate(&q); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidation, "User ID and Property ID are required", errs)
		return
	}

	isFavorite, err := h.service.IsFavorite(c.Request.Context(), q.UserID, q.PropertyID)
	if err != nil {
		h.internalError(c, err, "Failed to check favorite status")
		return
	}

	response.Success(c, http.StatusOK, CheckFavoriteResponse{IsFavorite: isFavorite})
}

// GetFavoriteCount возвращает количество избранного
//
// GET /api/favorites/count/:userId
func (h *Handler) GetFavoriteCount(c *gin.Context) {
	q := UserQuery{UserID: strings.TrimSpace(c.Param("userId"))}
	if errs := validator.Validate(&q); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidation, "User ID is required", errs)
		return
	}

	count, err := h.service.Count(c.Request.Context(), q.UserID)
	if err != nil {
		h.internalError(c, err, "Failed to get favorite count")
		return
	}

	response.Success(c, http.StatusOK, CountResponse{Count: count})
}

func (h *Handler) internalError(c *gin.Context, err error, message string) {
	_ = c.Error(err)
	response.Error(c, http.StatusInternalServerError, response.CodeInternal, message)
}
