package service

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mapscan-dev/mapscan-backend/internal/detect"
	"github.com/mapscan-dev/mapscan-backend/internal/detect/domain"
	"github.com/mapscan-dev/mapscan-backend/internal/detect/notify"
	_ "github.com/mapscan-dev/mapscan-backend/internal/detect/rules"
	"github.com/mapscan-dev/mapscan-backend/internal/graph/export"
	"github.com/mapscan-dev/mapscan-backend/internal/ingest/parser"
	"github.com/mapscan-dev/mapscan-backend/internal/utils"
)

// Request carries the caller-side knobs for one analysis run.
type Request struct {
	Title  string
	OutDir string
	// DOTBin is the graphviz binary; empty disables SVG rendering.
	DOTBin string

	User              string
	ThresholdService  int
	ThresholdEndpoint int

	// TimeDelta shifts load-generator timestamps when parsing logs.
	TimeDelta time.Duration

	FrontendServices []string
	DatabaseServices []string
}

// BundleReport holds one label's bundle findings at both granularities.
type BundleReport struct {
	User     string                  `json:"user" yaml:"user"`
	Service  []domain.ServiceBundle  `json:"service" yaml:"service"`
	Endpoint []domain.EndpointBundle `json:"endpoint" yaml:"endpoint"`
}

type Result struct {
	RunID         string                `json:"run_id" yaml:"run_id"`
	Graph         *domain.Graph         `json:"graph" yaml:"graph"`
	DOTPath       string                `json:"dot_path" yaml:"dot_path"`
	SVGPath       string                `json:"svg_path,omitempty" yaml:"svg_path,omitempty"`
	Detections    []domain.Detection    `json:"detections" yaml:"detections"`
	Bundles       []BundleReport        `json:"bundles,omitempty" yaml:"bundles,omitempty"`
	Notifications []notify.Notification `json:"notifications" yaml:"notifications"`
}

// AnalyzeGraphJSON analyzes a prebuilt call graph read from a file.
func AnalyzeGraphJSON(path string, req Request) (*Result, error) {
	g, err := parser.ParseGraphJSON(path)
	if err != nil {
		return nil, err
	}
	return AnalyzeGraph(g, req)
}

// AnalyzeGraphJSONBytes analyzes a prebuilt call graph supplied as JSON.
func AnalyzeGraphJSONBytes(b []byte, req Request) (*Result, error) {
	g, err := parser.ParseGraphJSONBytes(b)
	if err != nil {
		return nil, err
	}
	return AnalyzeGraph(g, req)
}

// AnalyzeGraph runs the graph detectors and writes artifacts into a unique
// run folder under OutDir/runs/<id>.
func AnalyzeGraph(g *domain.Graph, req Request) (*Result, error) {
	outBase := req.OutDir
	if outBase == "" {
		outBase = "out"
	}
	runID := utils.NewID()
	runDir := filepath.Join(outBase, "runs", runID)
	return analyzeGraphToDir(g, req, runID, runDir, nil, nil)
}

func analyzeGraphToDir(g *domain.Graph, req Request, runID, runDir string, bundles []BundleReport, preNotes []notify.Notification) (*Result, error) {
	_ = os.MkdirAll(runDir, 0755)

	dot := export.ToDOT(g, req.Title)
	dotPath := filepath.Join(runDir, "graph.dot")
	if err := utils.WriteFile(dotPath, dot); err != nil {
		return nil, err
	}

	svgPath := ""
	if req.DOTBin != "" {
		svgPath = filepath.Join(runDir, "graph.svg")
		if err := utils.DotTo(dotPath, svgPath, "svg", req.DOTBin); err != nil {
			return nil, fmt.Errorf("graphviz render: %w", err)
		}
	}

	sink := &notify.CaptureSink{}
	detections, err := detect.RunGraphDetectors(g, declaredSets(req), detect.Options{
		User: req.User,
		Sink: sink,
	})
	if err != nil {
		return nil, err
	}

	// normalize empty slices for frontend stability
	for i := range detections {
		if detections[i].Nodes == nil {
			detections[i].Nodes = []string{}
		}
	}
	if detections == nil {
		detections = []domain.Detection{}
	}
	notifications := append(preNotes, sink.Notifications...)
	if notifications == nil {
		notifications = []notify.Notification{}
	}

	res := &Result{
		RunID:         runID,
		Graph:         g,
		DOTPath:       dotPath,
		SVGPath:       svgPath,
		Detections:    detections,
		Bundles:       bundles,
		Notifications: notifications,
	}

	// persist full analysis in both JSON & YAML
	if err := export.WriteJSON(filepath.Join(runDir, "analysis.json"), res); err != nil {
		return nil, err
	}
	if err := export.WriteYAML(filepath.Join(runDir, "analysis.yaml"), res); err != nil {
		return nil, err
	}

	return res, nil
}

func declaredSets(req Request) detect.DeclaredSets {
	return detect.DeclaredSets{
		FrontendServices: toSet(req.FrontendServices),
		DatabaseServices: toSet(req.DatabaseServices),
	}
}

func toSet(names []string) map[string]bool {
	if len(names) == 0 {
		return nil
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
