package mapscan

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mapscan-dev/mapscan-backend/internal/repository"
)

func (h *Handler) GetRun(c *gin.Context) {
	if h.runs == nil {
		c.String(http.StatusServiceUnavailable, "run repository not configured")
		return
	}

	run, err := h.runs.GetByRunID(c.Param("id"))
	if errors.Is(err, repository.ErrRunNotFound) {
		c.String(http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("get run: %v", err))
		return
	}

	c.JSON(http.StatusOK, run)
}

func (h *Handler) ListRuns(c *gin.Context) {
	if h.runs == nil {
		c.String(http.StatusServiceUnavailable, "run repository not configured")
		return
	}

	user := c.Query("user")
	if user == "" {
		c.String(http.StatusBadRequest, "user query parameter is required")
		return
	}

	ids, err := h.runs.ListByUser(user)
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("list runs: %v", err))
		return
	}
	if ids == nil {
		ids = []string{}
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "run_ids": ids})
}
