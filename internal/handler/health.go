package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health answers liveness checks. It does not depend on Discord or the last
// cycle; use /api/status for that.
//
// @Summary      Liveness check
// @Description  Reports that the bot process is up
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
