package detect

import "github.com/mapscan-dev/mapscan-backend/internal/detect/domain"

// DeclaredSets are the caller-asserted service classifications the graph
// detectors validate against. Unknown names are no-ops, not errors.
type DeclaredSets struct {
	FrontendServices map[string]bool `json:"frontend_services,omitempty"`
	DatabaseServices map[string]bool `json:"database_services,omitempty"`
}

type GraphDetector interface {
	Name() string
	Detect(view DirectedView, declared DeclaredSets, opts Options) ([]domain.Detection, error)
}
