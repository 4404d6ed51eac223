package domain

import "time"

type Attrs map[string]any

// Call is one observed request between two services, taken from parsed
// access logs. Immutable once produced by the ingest layer.
type Call struct {
	Time        time.Time `json:"time"`
	FromService string    `json:"from_service"`
	ToService   string    `json:"to_service"`
	Endpoint    string    `json:"endpoint"`
}

// Pipeline is the chronological call sequence of one user (or user
// instance). Order is significant: bundle detection scans adjacency.
type Pipeline []Call

type Node struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Kind NodeKind `json:"kind"`
	// attributes e.g., owner, team, etc.
	Attrs Attrs `json:"attrs,omitempty"`
}

type Edge struct {
	From string   `json:"from"`
	To   string   `json:"to"`
	Kind EdgeKind `json:"kind"`
	// weights/meta e.g., endpoint, count
	Attrs Attrs `json:"attrs,omitempty"`
}

// Graph is a directed multigraph over service nodes. Parallel edges carry
// per-endpoint call data; detectors that only need connectivity collapse
// them through a degree view.
type Graph struct {
	Nodes map[string]*Node `json:"nodes"`
	Edges []*Edge          `json:"edges"`
	// adjacency for algorithms
	Out map[string][]*Edge `json:"-"`
	In  map[string][]*Edge `json:"-"`
}

func NewGraph() *Graph {
	return &Graph{
		Nodes: map[string]*Node{},
		Edges: []*Edge{},
		Out:   map[string][]*Edge{},
		In:    map[string][]*Edge{},
	}
}

func (g *Graph) AddNode(n *Node) {
	if _, ok := g.Nodes[n.ID]; !ok {
		g.Nodes[n.ID] = n
	}
}

func (g *Graph) AddEdge(e *Edge) {
	g.Edges = append(g.Edges, e)
	g.Out[e.From] = append(g.Out[e.From], e)
	g.In[e.To] = append(g.In[e.To], e)
}

// ServiceBundle is a closed run of consecutive calls between the same
// service pair.
type ServiceBundle struct {
	FromService string `json:"from_service"`
	ToService   string `json:"to_service"`
	Count       int    `json:"count"`
}

// EndpointBundle is a closed run of consecutive calls to the same endpoint
// of the same service pair.
type EndpointBundle struct {
	FromService string `json:"from_service"`
	ToService   string `json:"to_service"`
	Endpoint    string `json:"endpoint"`
	Count       int    `json:"count"`
}

// ServicePair links an information holder to the store it fronts.
type ServicePair struct {
	Holder string `json:"holder"`
	Store  string `json:"store"`
}

type Detection struct {
	Kind     PatternKind `json:"kind"`
	Severity Severity    `json:"severity"`
	Title    string      `json:"title"`
	Summary  string      `json:"summary"`
	Nodes    []string    `json:"nodes"`
	Evidence Attrs       `json:"evidence,omitempty"`
}
