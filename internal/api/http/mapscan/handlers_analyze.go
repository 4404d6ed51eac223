package mapscan

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mapscan-dev/mapscan-backend/config"
	"github.com/mapscan-dev/mapscan-backend/internal/repository"
	"github.com/mapscan-dev/mapscan-backend/internal/service"
	"github.com/mapscan-dev/mapscan-backend/internal/storage/postgres"
)

// Handler serves the analysis endpoints. The run repository and result
// store are optional; analysis works without either.
type Handler struct {
	cfg   *config.Config
	runs  *repository.RunRepository
	store *postgres.ResultStore
}

func New(cfg *config.Config, runs *repository.RunRepository, store *postgres.ResultStore) *Handler {
	return &Handler{cfg: cfg, runs: runs, store: store}
}

func (h *Handler) AnalyzeGraph(c *gin.Context) {
	var req AnalyzeGraphRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "invalid json body")
		return
	}
	if len(req.Graph.Nodes) == 0 && len(req.Graph.Edges) == 0 {
		c.String(http.StatusBadRequest, "graph is required")
		return
	}

	g, err := req.Graph.ToGraph()
	if err != nil {
		c.String(http.StatusBadRequest, fmt.Sprintf("bad graph: %v", err))
		return
	}

	res, err := service.AnalyzeGraph(g, h.serviceRequest(req.Title, req.User, req.OutDir, req.FrontendServices, req.DatabaseServices))
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("analyze failed: %v", err))
		return
	}

	h.recordRun(req.Title, req.User, res)
	c.JSON(http.StatusOK, res)
}

func (h *Handler) AnalyzePipeline(c *gin.Context) {
	var req AnalyzePipelineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "invalid json body")
		return
	}

	report, notes := service.AnalyzePipeline(req.Pipeline, service.Request{
		User:              req.User,
		ThresholdService:  req.ThresholdService,
		ThresholdEndpoint: req.ThresholdEndpoint,
	})

	c.JSON(http.StatusOK, gin.H{
		"bundles":       report,
		"notifications": notes,
	})
}

func (h *Handler) AnalyzeLogs(c *gin.Context) {
	var req AnalyzeLogsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "invalid json body")
		return
	}
	if req.LogDir == "" {
		c.String(http.StatusBadRequest, "log_dir is required")
		return
	}

	svcReq := h.serviceRequest(req.Title, req.User, req.OutDir, req.FrontendServices, req.DatabaseServices)
	svcReq.TimeDelta = time.Duration(req.TimeDeltaMS) * time.Millisecond

	res, err := service.AnalyzeLogs(req.LogDir, svcReq)
	if err != nil {
		c.String(http.StatusBadRequest, fmt.Sprintf("analyze failed: %v", err))
		return
	}

	h.recordRun(req.Title, req.User, res)
	c.JSON(http.StatusOK, res)
}

func (h *Handler) serviceRequest(title, user, outDir string, frontends, databases []string) service.Request {
	if title == "" {
		title = "Call graph"
	}
	if outDir == "" {
		outDir = h.cfg.Detect.OutDir
	}
	return service.Request{
		Title:             title,
		OutDir:            outDir,
		DOTBin:            h.cfg.Detect.DOTBin,
		User:              user,
		ThresholdService:  h.cfg.Detect.ThresholdService,
		ThresholdEndpoint: h.cfg.Detect.ThresholdEndpoint,
		FrontendServices:  frontends,
		DatabaseServices:  databases,
	}
}

// recordRun indexes the run in Redis and persists the result when a store
// is configured. Failures are logged, not surfaced: the analysis itself
// succeeded.
func (h *Handler) recordRun(title, user string, res *service.Result) {
	if user == "" {
		user = "NoUser"
	}

	if h.runs != nil {
		run := &repository.AnalysisRun{
			RunID:         res.RunID,
			User:          user,
			Title:         title,
			Status:        "completed",
			Detections:    len(res.Detections),
			Bundles:       len(res.Bundles),
			Notifications: len(res.Notifications),
		}
		if err := h.runs.Create(run); err != nil {
			log.Printf("record run %s: %v", res.RunID, err)
		}
	}

	if h.store != nil {
		if _, err := h.store.Save(title, user, res); err != nil {
			log.Printf("persist run %s: %v", res.RunID, err)
		}
	}
}
