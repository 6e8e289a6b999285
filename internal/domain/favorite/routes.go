package favorite

import "github.com/gin-gonic/gin"

// RegisterRoutes регистрирует routes для избранного
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	favorites := rg.Group("/favorites")
	{
		favorites.GET("", h.GetFavorites)
		favorites.POST("/toggle", h.ToggleFavorite)
		favorites.GET("/check", h.CheckFavorite)
		favorites.GET("/count", h.GetFavoriteCount)
		favorites.GET("/count/", h.GetFavoriteCount)
		favorites.GET("/count/:userId", h.GetFavoriteCount)
	}
}
