package handlers

import (
	"net/http"

	"ttms-analytics/logging"
	"ttms-analytics/services"

	"github.com/gin-gonic/gin"
)

type CacheHandler struct {
	cacheService *services.CacheService
}

func NewCacheHandler(cache *services.CacheService) *CacheHandler {
	return &CacheHandler{cacheService: cache}
}

// InvalidateCache удаляет записи, ключ которых содержит pattern; без pattern - весь кэш
func (h *CacheHandler) InvalidateCache(c *gin.Context) {
	pattern := c.Query("pattern")
	cleared := h.cacheService.Clear(pattern)
	logging.Ctx(c.Request.Context()).Info().Str("pattern", pattern).Int("cleared", cleared).Msg("Cache invalidated")
	c.JSON(http.StatusOK, gin.H{
		"message": "cache invalidated successfully",
		"cleared": cleared,
	})
}

func (h *CacheHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"items": h.cacheService.ItemCount()},
	})
}
