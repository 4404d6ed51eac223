package mapscan

import "github.com/gin-gonic/gin"

func (h *Handler) Register(r gin.IRouter) {
	v1 := r.Group("/api/v1/mapscan")

	v1.POST("/analyze-graph", h.AnalyzeGraph)
	v1.POST("/analyze-pipeline", h.AnalyzePipeline)
	v1.POST("/analyze-logs", h.AnalyzeLogs)

	v1.GET("/runs/:id", h.GetRun)
	v1.GET("/runs", h.ListRuns)
}
