package mapper

import (
	"strings"

	"github.com/mapscan-dev/mapscan-backend/internal/detect/domain"
	"github.com/mapscan-dev/mapscan-backend/internal/ingest/parser"
)

// Node IDs are the bare service names so that caller-declared frontend and
// database sets match graph nodes directly.

func isDatastoreLike(name string) bool {
	s := strings.ToLower(strings.TrimSpace(name))
	return s == "database" ||
		strings.Contains(s, "database") ||
		strings.HasSuffix(s, "-db") ||
		strings.Contains(s, " db")
}

func ensureNode(g *domain.Graph, name string) string {
	if _, ok := g.Nodes[name]; !ok {
		kind := domain.NodeService
		if isDatastoreLike(name) {
			kind = domain.NodeDB
		}
		g.AddNode(&domain.Node{
			ID:   name,
			Name: name,
			Kind: kind,
		})
	}
	return name
}

// ToGraph builds the aggregate call multigraph from a call counter: one
// node per service, one edge per distinct (from, to, endpoint) carrying the
// observed call count.
func ToGraph(counter parser.CallCounter) *domain.Graph {
	g := domain.NewGraph()
	for key, count := range counter {
		from := ensureNode(g, key.FromService)
		to := ensureNode(g, key.ToService)
		g.AddEdge(&domain.Edge{
			From: from,
			To:   to,
			Kind: domain.EdgeCalls,
			Attrs: domain.Attrs{
				"endpoint": key.Endpoint,
				"count":    count,
			},
		})
	}
	return g
}

// PipelineToGraph builds the multigraph for a single pipeline.
func PipelineToGraph(pipeline domain.Pipeline) *domain.Graph {
	counter := parser.CallCounter{}
	for _, call := range pipeline {
		counter[parser.CounterKey{
			FromService: call.FromService,
			ToService:   call.ToService,
			Endpoint:    call.Endpoint,
		}]++
	}
	return ToGraph(counter)
}
