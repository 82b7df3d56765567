package flow

import (
	"fmt"
	"strings"
)

// Info represents the graph structure for inspection.
type Info struct {
	Entry string
	Nodes []NodeInfo
	Edges []EdgeInfo
}

// NodeInfo describes one arena node.
type NodeInfo struct {
	ID       string
	Kind     string // "function", "agent" or "condition"
	Branches []string
}

// EdgeInfo describes one edge; Branch is empty for plain sequencing edges.
type EdgeInfo struct {
	From   string
	To     string
	Branch string
}

// Info returns the graph structure in insertion order.
func (g *Graph) Info() *Info {
	info := &Info{Entry: g.entryPoint}

	for _, id := range g.order {
		ni := NodeInfo{ID: id}
		switch n := g.nodes[id].(type) {
		case *Step:
			ni.Kind = n.kind.String()
		case *conditionNode:
			ni.Kind = "condition"
			ni.Branches = append([]string(nil), n.branches...)
		}
		info.Nodes = append(info.Nodes, ni)
	}

	for _, e := range g.edges {
		info.Edges = append(info.Edges, EdgeInfo{From: e.From, To: e.To, Branch: e.Branch})
	}

	return info
}

// Render produces a human-readable listing of the graph: nodes in insertion
// order with the entry marked, condition nodes annotated with their declared
// branch names, then the edge list. Diagnostic only; no handler is invoked.
func Render(g *Graph) string {
	if g == nil {
		return ""
	}
	info := g.Info()

	var b strings.Builder
	fmt.Fprintf(&b, "Graph: %s\n", g.name)
	b.WriteString("Nodes:\n")
	for _, n := range info.Nodes {
		marker := "-"
		if n.ID == info.Entry {
			marker = "*"
		}
		if n.Kind == "condition" {
			fmt.Fprintf(&b, "  %s %s (condition: %s)\n", marker, n.ID, strings.Join(n.Branches, ", "))
		} else {
			fmt.Fprintf(&b, "  %s %s (%s)\n", marker, n.ID, n.Kind)
		}
	}

	b.WriteString("Edges:\n")
	for _, e := range info.Edges {
		if e.Branch != "" {
			fmt.Fprintf(&b, "  %s --[%s]--> %s\n", e.From, e.Branch, e.To)
		} else {
			fmt.Fprintf(&b, "  %s --> %s\n", e.From, e.To)
		}
	}

	return b.String()
}
