package property

import "github.com/gin-gonic/gin"

// RegisterRoutes регистрирует routes каталога
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	properties := rg.Group("/properties")
	{
		properties.GET("", h.GetProperties)
		properties.GET("/cities", h.GetCities)
		properties.GET("/:id", h.GetProperty)
		properties.POST("", h.CreateProperty)
		properties.PUT("/:id", h.UpdateProperty)
		properties.DELETE("/:id", h.DeleteProperty)
	}
}
