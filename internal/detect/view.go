package detect

import (
	"sort"

	"github.com/mapscan-dev/mapscan-backend/internal/detect/domain"
)

// DirectedView is the directed-graph capability the degree-based detectors
// work against: in/out-degree and predecessor/successor sets with parallel
// edges collapsed. Self-loops count once on each side.
type DirectedView interface {
	Nodes() []string
	InDegree(node string) int
	OutDegree(node string) int
	Predecessors(node string) []string
	Successors(node string) []string
}

type simpleView struct {
	nodes []string
	preds map[string]map[string]bool
	succs map[string]map[string]bool
}

// NewDirectedView snapshots g as a simple directed graph. The multigraph is
// read, never mutated; the snapshot reflects g at the moment of the call.
func NewDirectedView(g *domain.Graph) DirectedView {
	v := &simpleView{
		preds: map[string]map[string]bool{},
		succs: map[string]map[string]bool{},
	}
	for id := range g.Nodes {
		v.nodes = append(v.nodes, id)
		v.preds[id] = map[string]bool{}
		v.succs[id] = map[string]bool{}
	}
	sort.Strings(v.nodes)

	for _, e := range g.Edges {
		if e == nil {
			continue
		}
		if _, ok := v.succs[e.From]; !ok {
			continue
		}
		if _, ok := v.preds[e.To]; !ok {
			continue
		}
		v.succs[e.From][e.To] = true
		v.preds[e.To][e.From] = true
	}
	return v
}

func (v *simpleView) Nodes() []string { return v.nodes }

func (v *simpleView) InDegree(node string) int { return len(v.preds[node]) }

func (v *simpleView) OutDegree(node string) int { return len(v.succs[node]) }

func (v *simpleView) Predecessors(node string) []string { return setToSlice(v.preds[node]) }

func (v *simpleView) Successors(node string) []string { return setToSlice(v.succs[node]) }

func setToSlice(s map[string]bool) []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
