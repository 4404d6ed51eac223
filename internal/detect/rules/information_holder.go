package rules

import (
	"fmt"
	"sort"

	"github.com/mapscan-dev/mapscan-backend/internal/detect"
	"github.com/mapscan-dev/mapscan-backend/internal/detect/domain"
)

type informationHolder struct{}

func (i informationHolder) Name() string { return "information_holder_resource" }

func (i informationHolder) Detect(view detect.DirectedView, declared detect.DeclaredSets, opts detect.Options) ([]domain.Detection, error) {
	res := detect.DetectInformationHolderResource(view, declared.DatabaseServices, opts)

	var out []domain.Detection
	for _, pair := range sortedPairs(res.Candidates) {
		out = append(out, domain.Detection{
			Kind:     domain.PatternIHRCandidate,
			Severity: domain.SeverityLow,
			Title:    "Information holder resource",
			Summary:  fmt.Sprintf("Service %q exclusively mediates access to %q", pair.Holder, pair.Store),
			Nodes:    []string{pair.Holder, pair.Store},
		})
	}
	for _, pair := range sortedPairs(res.Violators) {
		out = append(out, domain.Detection{
			Kind:     domain.PatternIHRViolation,
			Severity: domain.SeverityMedium,
			Title:    "Information holder with extra dependencies",
			Summary:  fmt.Sprintf("Service %q is the only caller of %q but calls other services too", pair.Holder, pair.Store),
			Nodes:    []string{pair.Holder, pair.Store},
			Evidence: domain.Attrs{"holder_out_degree": view.OutDegree(pair.Holder)},
		})
	}
	for _, node := range sortedKeys(res.DatabaseCallViolators) {
		out = append(out, domain.Detection{
			Kind:     domain.PatternDatabaseCall,
			Severity: domain.SeverityHigh,
			Title:    "Declared store makes calls",
			Summary:  fmt.Sprintf("Service %q is declared a database service but has outgoing calls", node),
			Nodes:    []string{node},
			Evidence: domain.Attrs{"out_degree": view.OutDegree(node)},
		})
	}
	for _, node := range sortedKeys(res.DatabaseNoIHRViolators) {
		out = append(out, domain.Detection{
			Kind:     domain.PatternDatabaseNoIHR,
			Severity: domain.SeverityMedium,
			Title:    "Declared store without holder",
			Summary:  fmt.Sprintf("Service %q is declared a database service but no information holder was detected", node),
			Nodes:    []string{node},
			Evidence: domain.Attrs{"predecessors": len(view.Predecessors(node))},
		})
	}
	return out, nil
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedPairs(set map[domain.ServicePair]bool) []domain.ServicePair {
	out := make([]domain.ServicePair, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Holder != out[b].Holder {
			return out[a].Holder < out[b].Holder
		}
		return out[a].Store < out[b].Store
	})
	return out
}

func init() { detect.Register(informationHolder{}) }
