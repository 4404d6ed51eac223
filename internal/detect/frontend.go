package detect

import (
	"fmt"

	"github.com/mapscan-dev/mapscan-backend/internal/detect/domain"
	"github.com/mapscan-dev/mapscan-backend/internal/detect/notify"
)

// DetectFrontendIntegration classifies every node of the call graph by
// in/out-degree. A node with no incoming calls and at least one outgoing
// call is a frontend candidate. A node declared in frontendServices that
// does receive calls is a violator.
//
// A declared frontend with in-degree 0 only ever takes the candidate
// branch; it is never checked against the violator path.
func DetectFrontendIntegration(view DirectedView, frontendServices map[string]bool, opts Options) (map[string]bool, map[string]bool) {
	opts = opts.withDefaults()

	candidates := map[string]bool{}
	violators := map[string]bool{}

	for _, node := range view.Nodes() {
		inDegree := view.InDegree(node)
		if inDegree == 0 {
			if view.OutDegree(node) > 0 {
				candidates[node] = true
				opts.Sink.Notify(notify.Notification{
					User: opts.User,
					Kind: domain.PatternFrontendCandidate,
					Message: fmt.Sprintf("Frontend Integration - potential frontend service '%s' found.",
						node),
				})
			}
		} else if frontendServices[node] {
			violators[node] = true
			opts.Sink.Notify(notify.Notification{
				User: opts.User,
				Kind: domain.PatternFrontendViolation,
				Message: fmt.Sprintf("Frontend Integration Violation - service '%s' is designated as frontend service but has incoming calls (in_degree=%d)",
					node, inDegree),
			})
		}
	}

	return candidates, violators
}
