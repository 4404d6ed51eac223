package parser

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mapscan-dev/mapscan-backend/internal/detect/domain"
)

// GraphDoc is the wire shape for a prebuilt call graph: flat node and edge
// lists, converted to the adjacency-backed domain graph on parse.
type GraphDoc struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

type GraphNode struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Kind string `json:"kind,omitempty"`
}

type GraphEdge struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Endpoint string `json:"endpoint,omitempty"`
	Count    int    `json:"count,omitempty"`
}

func ParseGraphJSON(path string) (*domain.Graph, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseGraphJSONBytes(b)
}

func ParseGraphJSONBytes(b []byte) (*domain.Graph, error) {
	var doc GraphDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse graph json: %w", err)
	}
	return doc.ToGraph()
}

func (doc *GraphDoc) ToGraph() (*domain.Graph, error) {
	g := domain.NewGraph()

	for _, n := range doc.Nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("graph node without id")
		}
		name := n.Name
		if name == "" {
			name = n.ID
		}
		kind := domain.NodeService
		if n.Kind == string(domain.NodeDB) {
			kind = domain.NodeDB
		}
		g.AddNode(&domain.Node{ID: n.ID, Name: name, Kind: kind})
	}

	for _, e := range doc.Edges {
		if e.From == "" || e.To == "" {
			return nil, fmt.Errorf("graph edge without endpoints")
		}
		// implicit nodes are allowed: edge lists alone describe a graph
		for _, id := range []string{e.From, e.To} {
			if _, ok := g.Nodes[id]; !ok {
				g.AddNode(&domain.Node{ID: id, Name: id, Kind: domain.NodeService})
			}
		}
		attrs := domain.Attrs{}
		if e.Endpoint != "" {
			attrs["endpoint"] = e.Endpoint
		}
		if e.Count > 0 {
			attrs["count"] = e.Count
		}
		if len(attrs) == 0 {
			attrs = nil
		}
		g.AddEdge(&domain.Edge{From: e.From, To: e.To, Kind: domain.EdgeCalls, Attrs: attrs})
	}

	return g, nil
}
