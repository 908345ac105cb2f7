package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetStatus godoc
// @Summary      Get the published bot status
// @Description  Returns the nickname and activity last pushed to Discord
// @Tags         status
// @Produce      json
// @Success      200  {object}  domain.DisplayStatus
// @Failure      503  {object}  map[string]string
// @Router       /api/status [get]
func (h *Handler) GetStatus(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.get-status")
	defer span.End()

	status, ok := h.status.Current()
	span.SetAttributes(attribute.Bool("published", ok))
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no status published yet"})
		return
	}
	c.JSON(http.StatusOK, status)
}
