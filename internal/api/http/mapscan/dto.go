package mapscan

import (
	"github.com/mapscan-dev/mapscan-backend/internal/detect/domain"
	"github.com/mapscan-dev/mapscan-backend/internal/ingest/parser"
)

type AnalyzeGraphRequest struct {
	Graph            parser.GraphDoc `json:"graph"`
	Title            string          `json:"title,omitempty"`
	User             string          `json:"user,omitempty"`
	FrontendServices []string        `json:"frontend_services,omitempty"`
	DatabaseServices []string        `json:"database_services,omitempty"`
	OutDir           string          `json:"out_dir,omitempty"`
}

type AnalyzePipelineRequest struct {
	Pipeline          domain.Pipeline `json:"pipeline"`
	ThresholdService  int             `json:"threshold_service,omitempty"`
	ThresholdEndpoint int             `json:"threshold_endpoint,omitempty"`
	User              string          `json:"user,omitempty"`
}

type AnalyzeLogsRequest struct {
	LogDir           string   `json:"log_dir"`
	Title            string   `json:"title,omitempty"`
	User             string   `json:"user,omitempty"`
	TimeDeltaMS      int64    `json:"time_delta_ms,omitempty"`
	FrontendServices []string `json:"frontend_services,omitempty"`
	DatabaseServices []string `json:"database_services,omitempty"`
	OutDir           string   `json:"out_dir,omitempty"`
}
