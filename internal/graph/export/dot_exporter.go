package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mapscan-dev/mapscan-backend/internal/detect/domain"
)

func ToDOT(g *domain.Graph, title string) string {
	var b strings.Builder
	b.WriteString("digraph G {\n  rankdir=LR;\n  node [shape=box, style=rounded];\n")
	if title != "" {
		b.WriteString(fmt.Sprintf(`  labelloc="t"; label="%s"; fontname="Helvetica";`, title))
		b.WriteString("\n")
	}

	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		n := g.Nodes[id]
		if n == nil {
			continue
		}
		style := `shape=box,style="rounded,filled",fillcolor="#eef6ff"`
		if n.Kind == domain.NodeDB {
			style = `shape=cylinder,style="filled",fillcolor="#fff3cd"`
		}
		b.WriteString(fmt.Sprintf(`  "%s" [label="%s", %s];`+"\n", n.ID, n.Name, style))
	}

	for _, e := range g.Edges {
		if e == nil {
			continue
		}
		label := edgeLabel(e)
		if label != "" {
			b.WriteString(fmt.Sprintf(`  "%s" -> "%s" [label="%s"];`+"\n", e.From, e.To, label))
		} else {
			b.WriteString(fmt.Sprintf(`  "%s" -> "%s";`+"\n", e.From, e.To))
		}
	}

	b.WriteString("}\n")
	return b.String()
}

func edgeLabel(e *domain.Edge) string {
	if e.Attrs == nil {
		return ""
	}
	endpoint, _ := e.Attrs["endpoint"].(string)
	if count, ok := e.Attrs["count"].(int); ok && count > 1 {
		if endpoint != "" {
			return fmt.Sprintf("%s x%d", endpoint, count)
		}
		return fmt.Sprintf("x%d", count)
	}
	return endpoint
}
