package service

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mapscan-dev/mapscan-backend/internal/detect"
	"github.com/mapscan-dev/mapscan-backend/internal/detect/domain"
	"github.com/mapscan-dev/mapscan-backend/internal/detect/notify"
	"github.com/mapscan-dev/mapscan-backend/internal/ingest/mapper"
	"github.com/mapscan-dev/mapscan-backend/internal/ingest/parser"
	"github.com/mapscan-dev/mapscan-backend/internal/utils"
)

// AnalyzeLogs runs the full pipeline over a log directory laid out as
//
//	<logDir>/users/<user>/locustfile.log
//	<logDir>/services/<service>.log
//
// Sessions are detected from the locust logs, per-label pipelines and call
// counters are parsed from the service access logs, pipeline CSVs and graph
// artifacts land in the run folder, bundle detection runs per label, and the
// graph detectors run once over the aggregate call graph.
func AnalyzeLogs(logDir string, req Request) (*Result, error) {
	users, err := parser.DetectUsers(filepath.Join(logDir, "users"), req.TimeDelta)
	if err != nil {
		return nil, fmt.Errorf("detect users: %w", err)
	}

	servicesDir := filepath.Join(logDir, "services")
	entries, err := os.ReadDir(servicesDir)
	if err != nil {
		return nil, fmt.Errorf("read services dir: %w", err)
	}

	acc := parser.NewAccumulator()
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}
		if err := acc.ParseAccessLog(servicesDir, entry.Name(), users); err != nil {
			return nil, fmt.Errorf("parse %s: %w", entry.Name(), err)
		}
	}

	outBase := req.OutDir
	if outBase == "" {
		outBase = "out"
	}
	runID := utils.NewID()
	runDir := filepath.Join(outBase, "runs", runID)

	if err := parser.WritePipelines(filepath.Join(runDir, "pipelines"), acc.Pipelines); err != nil {
		return nil, err
	}

	bundles, bundleNotes := detectBundles(acc.Pipelines, req)

	// aggregate over top-level users only; instance counters repeat the
	// same calls under their user label
	aggregate := parser.CallCounter{}
	for user := range users.Boundaries {
		for key, count := range acc.Counters[user] {
			aggregate[key] += count
		}
	}
	g := mapper.ToGraph(aggregate)

	return analyzeGraphToDir(g, req, runID, runDir, bundles, bundleNotes)
}

// AnalyzePipeline runs bundle detection over a single supplied pipeline.
func AnalyzePipeline(pipeline domain.Pipeline, req Request) (BundleReport, []notify.Notification) {
	sink := &notify.CaptureSink{}
	svc, ep := detect.DetectRequestBundle(pipeline, detect.Options{
		ThresholdService:  req.ThresholdService,
		ThresholdEndpoint: req.ThresholdEndpoint,
		User:              req.User,
		Sink:              sink,
	})
	user := req.User
	if user == "" {
		user = detect.NoUser
	}
	return BundleReport{User: user, Service: svc, Endpoint: ep}, sink.Notifications
}

func detectBundles(pipelines map[string]domain.Pipeline, req Request) ([]BundleReport, []notify.Notification) {
	labels := make([]string, 0, len(pipelines))
	for label := range pipelines {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	reports := make([]BundleReport, 0, len(labels))
	var notes []notify.Notification
	for _, label := range labels {
		r := req
		r.User = label
		report, n := AnalyzePipeline(pipelines[label], r)
		reports = append(reports, report)
		notes = append(notes, n...)
	}
	return reports, notes
}
