package property

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"estatehub/internal/pkg/response"
	"estatehub/internal/pkg/validator"
)

// Handler обрабатывает HTTP запросы каталога
type Handler struct {
	service *Service
	log     *slog.Logger
}

// NewHandler создаёт новый handler
func NewHandler(service *Service, log *slog.Logger) *Handler {
	return &Handler{service: service, log: log.With("component", "property.Handler")}
}

// GetProperties handles GET /api/properties?city&type&minPrice&maxPrice
func (h *Handler) GetProperties(c *gin.Context) {
	f, err := ParseFilters(c.Query("city"), c.Query("type"), c.Query("minPrice"), c.Query("maxPrice"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, err.Error())
		return
	}

	properties, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		h.internalError(c, err, "Failed to fetch properties")
		return
	}

	response.Success(c, http.StatusOK, properties)
}

// GetCities handles GET /api/properties/cities
func (h *Handler) GetCities(c *gin.Context) {
	cities, err := h.service.Cities(c.Request.Context())
	if err != nil {
		h.internalError(c, err, "Failed to fetch cities")
		return
	}

	response.Success(c, http.StatusOK, cities)
}

// GetProperty handles GET /api/properties/:id
func (h *Handler) GetProperty(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "Property not found")
			return
		}
		h.internalError(c, err, "Failed to fetch property")
		return
	}

	response.Success(c, http.StatusOK, p)
}

// CreateProperty handles POST /api/properties
func (h *Handler) CreateProperty(c *gin.Context) {
	var req CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeInvalidRequest, "Invalid request body", err.Error())
		return
	}
	req.Normalize()

	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidation, "Invalid property data", errs)
		return
	}

	p, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("create property failed", "error", err)
		response.Error(c, http.StatusBadRequest, response.CodeInvalidRequest, "Failed to create property")
		return
	}

	response.Success(c, http.StatusCreated, p)
}

// UpdateProperty handles PUT /api/properties/:id
func (h *Handler) UpdateProperty(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeInvalidRequest, "Invalid request body", err.Error())
		return
	}
	if errs := req.Validate(); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidation, "Invalid property data", errs)
		return
	}

	p, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "Property not found")
			return
		}
		h.log.Error("update property failed", "property_id", id, "error", err)
		response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeInvalidRequest, "Failed to update property", err.Error())
		return
	}

	response.Success(c, http.StatusOK, p)
}

// DeleteProperty handles DELETE /api/properties/:id
func (h *Handler) DeleteProperty(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "Property not found")
			return
		}
		h.internalError(c, err, "Failed to delete property")
		return
	}

	response.Success(c, http.StatusOK, DeleteResponse{ID: id, Message: "Property deleted successfully"})
}

func (h *Handler) internalError(c *gin.Context, err error, message string) {
	_ = c.Error(err)
	response.Error(c, http.StatusInternalServerError, response.CodeInternal, message)
}

func pathID(c *gin.Context) (string, bool) {
	id, err := ParseID(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeInvalidID, "Invalid property ID")
		return "", false
	}
	return id, true
}

// ParseID checks that id looks like a property key before it reaches the store.
func ParseID(id string) (string, error) {
	if !validator.IsEntityID(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return id, nil
}

// ParseFilters turns raw query values into Filters. Empty values are ignored.
func ParseFilters(city, typ, minPrice, maxPrice string) (Filters, error) {
	f := Filters{City: strings.TrimSpace(city)}

	if typ = strings.TrimSpace(typ); typ != "" {
		f.Type = Type(typ)
		if !f.Type.Valid() {
			return Filters{}, fmt.Errorf("%w: type must be one of: apartment, house, villa, studio", ErrInvalidFilter)
		}
	}

	var err error
	if f.MinPrice, err = parsePrice("minPrice", minPrice); err != nil {
		return Filters{}, err
	}
	if f.MaxPrice, err = parsePrice("maxPrice", maxPrice); err != nil {
		return Filters{}, err
	}
	return f, nil
}

func parsePrice(name, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s must be a non-negative number", ErrInvalidFilter, name)
	}
	return v, nil
}
