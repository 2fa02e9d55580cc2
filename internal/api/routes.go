package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(r *gin.Engine, h *Handler, gatherer prometheus.Gatherer) {
	api := r.Group("/api")
	{
		api.GET("/health", h.health)

		api.POST("/templates/:face", h.uploadTemplate)
		api.POST("/roster", h.uploadRoster)

		api.GET("/layout", h.getLayout)
		api.PUT("/layout", h.putLayout)
		api.PATCH("/layout/fields/:field", h.repositionField)

		api.GET("/preview/:face", h.preview)
		api.GET("/preview/:face/overlays", h.overlays)

		api.POST("/batches", h.startBatch)
		api.GET("/batches/current", h.currentBatch)
		api.DELETE("/batches/current", h.discardBatch)
		api.GET("/batches/current/zip", h.downloadZIP)
		api.GET("/batches/current/pdf", h.downloadPDF)

		api.GET("/barcode", h.barcode)
	}
	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
}
