package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapscan-dev/mapscan-backend/internal/detect"
	"github.com/mapscan-dev/mapscan-backend/internal/detect/domain"
)

func graphFrom(edges ...[2]string) *domain.Graph {
	g := domain.NewGraph()
	for _, e := range edges {
		for _, id := range e {
			if _, ok := g.Nodes[id]; !ok {
				g.AddNode(&domain.Node{ID: id, Name: id, Kind: domain.NodeService})
			}
		}
		g.AddEdge(&domain.Edge{From: e[0], To: e[1], Kind: domain.EdgeCalls})
	}
	return g
}

func TestRunGraphDetectors(t *testing.T) {
	t.Run("nil graph is rejected", func(t *testing.T) {
		_, err := detect.RunGraphDetectors(nil, detect.DeclaredSets{}, detect.Options{})
		assert.Error(t, err)
	})

	t.Run("both rules are registered", func(t *testing.T) {
		names := make([]string, 0)
		for _, d := range detect.All() {
			names = append(names, d.Name())
		}
		assert.Contains(t, names, "frontend_integration")
		assert.Contains(t, names, "information_holder_resource")
	})

	t.Run("detections carry kinds from both rules", func(t *testing.T) {
		g := graphFrom(
			[2]string{"web", "orders"},
			[2]string{"orders", "orders-db"},
		)

		detections, err := detect.RunGraphDetectors(g, detect.DeclaredSets{
			DatabaseServices: map[string]bool{"orders-db": true},
		}, detect.Options{})
		require.NoError(t, err)

		kinds := map[domain.PatternKind]int{}
		for _, d := range detections {
			kinds[d.Kind]++
		}
		assert.Equal(t, 1, kinds[domain.PatternFrontendCandidate])
		assert.Equal(t, 1, kinds[domain.PatternIHRCandidate])
	})

	t.Run("declared violations surface as detections with evidence", func(t *testing.T) {
		g := graphFrom(
			[2]string{"web", "ui"},
			[2]string{"ui", "cart"},
			[2]string{"bad-db", "cart"},
		)

		detections, err := detect.RunGraphDetectors(g, detect.DeclaredSets{
			FrontendServices: map[string]bool{"ui": true},
			DatabaseServices: map[string]bool{"bad-db": true},
		}, detect.Options{})
		require.NoError(t, err)

		var frontendViolation, dbCall *domain.Detection
		for i := range detections {
			switch detections[i].Kind {
			case domain.PatternFrontendViolation:
				frontendViolation = &detections[i]
			case domain.PatternDatabaseCall:
				dbCall = &detections[i]
			}
		}

		require.NotNil(t, frontendViolation)
		assert.Equal(t, []string{"ui"}, frontendViolation.Nodes)
		assert.Equal(t, 1, frontendViolation.Evidence["in_degree"])

		require.NotNil(t, dbCall)
		assert.Equal(t, []string{"bad-db"}, dbCall.Nodes)
	})

	t.Run("results are ordered deterministically", func(t *testing.T) {
		g := graphFrom([2]string{"b", "x"}, [2]string{"a", "y"})

		d1, err := detect.RunGraphDetectors(g, detect.DeclaredSets{}, detect.Options{})
		require.NoError(t, err)
		d2, err := detect.RunGraphDetectors(g, detect.DeclaredSets{}, detect.Options{})
		require.NoError(t, err)
		assert.Equal(t, d1, d2)
	})
}
