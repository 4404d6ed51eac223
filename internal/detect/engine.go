package detect

import (
	"fmt"

	"github.com/mapscan-dev/mapscan-backend/internal/detect/domain"
)

// RunGraphDetectors runs every registered graph detector against a fresh
// degree view of g. The graph is never mutated; results are recomputed on
// every call.
func RunGraphDetectors(g *domain.Graph, declared DeclaredSets, opts Options) ([]domain.Detection, error) {
	if g == nil {
		return nil, fmt.Errorf("detect: graph is nil")
	}

	view := NewDirectedView(g)
	var out []domain.Detection
	for _, det := range All() {
		ds, err := det.Detect(view, declared, opts)
		if err != nil {
			return nil, fmt.Errorf("detector %q failed: %w", det.Name(), err)
		}
		out = append(out, ds...)
	}
	return out, nil
}
