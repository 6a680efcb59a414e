package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard/internal/board"
	"jobboard/internal/listing"
)

// FavoriteHandler 处理职位收藏。
type FavoriteHandler struct {
	favorites *board.FavoriteService
}

func NewFavoriteHandler(favorites *board.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites}
}

func (h *FavoriteHandler) Index(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	page, err := h.favorites.List(c.Request.Context(), actor, listing.ParsePage(c.Query("page")))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Toggle 收藏或取消收藏，返回切换后的状态。
func (h *FavoriteHandler) Toggle(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	jobID, ok := pathID(c, "Job")
	if !ok {
		return
	}
	favorite, err := h.favorites.Toggle(c.Request.Context(), actor, jobID)
	if err != nil {
		WriteError(c, err)
		return
	}
	message := "Job removed from favorites"
	if favorite {
		message = "Job added to favorites"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "is_favorite": favorite})
}

func (h *FavoriteHandler) Check(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	jobID, ok := pathID(c, "Job")
	if !ok {
		return
	}
	favorite, err := h.favorites.Check(c.Request.Context(), actor, jobID)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_favorite": favorite})
}
