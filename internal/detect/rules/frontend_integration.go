package rules

import (
	"fmt"

	"github.com/mapscan-dev/mapscan-backend/internal/detect"
	"github.com/mapscan-dev/mapscan-backend/internal/detect/domain"
)

type frontendIntegration struct{}

func (f frontendIntegration) Name() string { return "frontend_integration" }

func (f frontendIntegration) Detect(view detect.DirectedView, declared detect.DeclaredSets, opts detect.Options) ([]domain.Detection, error) {
	candidates, violators := detect.DetectFrontendIntegration(view, declared.FrontendServices, opts)

	var out []domain.Detection
	for _, node := range sortedKeys(candidates) {
		out = append(out, domain.Detection{
			Kind:     domain.PatternFrontendCandidate,
			Severity: domain.SeverityLow,
			Title:    "Frontend integration candidate",
			Summary:  fmt.Sprintf("Service %q only originates calls and never receives any", node),
			Nodes:    []string{node},
			Evidence: domain.Attrs{"out_degree": view.OutDegree(node)},
		})
	}
	for _, node := range sortedKeys(violators) {
		out = append(out, domain.Detection{
			Kind:     domain.PatternFrontendViolation,
			Severity: domain.SeverityMedium,
			Title:    "Declared frontend receives calls",
			Summary:  fmt.Sprintf("Service %q is declared a frontend but has incoming calls", node),
			Nodes:    []string{node},
			Evidence: domain.Attrs{"in_degree": view.InDegree(node)},
		})
	}
	return out, nil
}

func init() { detect.Register(frontendIntegration{}) }
