package handler

import (
	"cbbi-status-bot/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"
)

type StatusReader interface {
	Current() (domain.DisplayStatus, bool)
}

type Handler struct {
	tracer   trace.Tracer
	status   StatusReader
	gatherer prometheus.Gatherer
	apiKey   string
}

func New(tracer trace.Tracer, status StatusReader, gatherer prometheus.Gatherer, apiKey string) *Handler {
	return &Handler{
		tracer:   tracer,
		status:   status,
		gatherer: gatherer,
		apiKey:   apiKey,
	}
}

// RegisterRoutes mounts /health unauthenticated; /api and /metrics sit behind
// APIKeyAuth.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)

	auth := APIKeyAuth(h.apiKey)
	r.GET("/api/status", auth, h.GetStatus)
	if h.gatherer != nil {
		r.GET("/metrics", auth, gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
	}
}
