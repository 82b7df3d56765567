package flow

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const defaultGraphName = "graph"

// Edge represents a connection between two nodes. Branch is empty for a
// plain sequencing edge; edges leaving a condition node that represent a
// named branch carry the branch label.
type Edge struct {
	From   string
	To     string
	Branch string
}

// node is anything that can live in the graph arena: a *Step or a
// *conditionNode.
type node interface {
	displayName() string
}

// Graph is the composed structure of steps and condition nodes with
// directed edges. It is built incrementally through Connect and becomes
// read-only once execution starts: Execute never mutates the graph it
// traverses, so concurrent executions of one graph are safe.
type Graph struct {
	graphID string
	name    string

	nodes map[string]node
	order []string // node ids in insertion order, for stable rendering
	edges []Edge

	entryPoint string
	// exits is the current open frontier: the node ids the next composed
	// element will attach to.
	exits []string

	seq int
}

// NewGraph creates a new empty graph: no entry point, empty exit frontier.
func NewGraph(name string) *Graph {
	graphName := defaultGraphName
	if name != "" {
		graphName = name
	}
	graphName = strings.ReplaceAll(graphName, " ", "-")

	return &Graph{
		graphID: fmt.Sprintf("%s-%s", graphName, uuid.New().String()),
		name:    graphName,
		nodes:   make(map[string]node),
	}
}

// Name returns the graph's display name.
func (g *Graph) Name() string {
	return g.name
}

// EntryPoint returns the id of the first node to execute, or "" for an
// empty graph.
func (g *Graph) EntryPoint() string {
	return g.entryPoint
}

// Edges returns a copy of the graph's edge list.
func (g *Graph) Edges() []Edge {
	return append([]Edge(nil), g.edges...)
}

// Exits returns a copy of the current exit frontier.
func (g *Graph) Exits() []string {
	return append([]string(nil), g.exits...)
}

// HasNode reports whether a node id exists in the graph.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Connect is the composition operator. It accepts *Step, *Graph and
// *Condition operands and returns the combined graph. The legal patterns:
//
//	step      -> step        new two-node graph
//	graph     -> step        append, wiring every current exit to the step
//	graph     -> condition   attach condition; the condition node becomes
//	                         the graph's single exit
//	step      -> condition   as above, on a fresh single-step graph
//	condition -> step|graph  graph whose entry point is the condition node
//
// Anything else fails with an InvalidCompositionError naming both operand
// kinds. Composition errors are raised at build time, not at execution.
//
// Connect extends the left-hand graph in place when one is given; treat
// the returned graph as the only live handle during construction.
func Connect(left, right any) (*Graph, error) {
	switch l := left.(type) {
	case *Step:
		g := NewGraph("")
		g.appendStep(l)
		switch r := right.(type) {
		case *Step:
			g.appendStep(r)
			return g, nil
		case *Condition:
			g.attachCondition(r)
			return g, nil
		}

	case *Graph:
		switch r := right.(type) {
		case *Step:
			l.appendStep(r)
			return l, nil
		case *Condition:
			l.attachCondition(r)
			return l, nil
		}

	case *Condition:
		g := NewGraph("")
		g.attachCondition(l)
		switch r := right.(type) {
		case *Step:
			g.appendStep(r)
			return g, nil
		case *Graph:
			g.appendGraph(r)
			return g, nil
		}
	}

	return nil, NewInvalidCompositionError(left, right)
}

// nextID allocates a fresh node id from a display name: the name sanitized
// to an identifier-safe string plus a counter suffix.
func (g *Graph) nextID(base string) string {
	g.seq++
	return fmt.Sprintf("%s_%d", sanitizeID(base), g.seq)
}

// addNode places a node in the arena under a fresh id and returns the id.
func (g *Graph) addNode(n node) string {
	id := g.nextID(n.displayName())
	g.nodes[id] = n
	g.order = append(g.order, id)
	return id
}

// insertNode places a node under an externally chosen id (used when merging
// sub-graphs whose ids are re-keyed with a branch prefix).
func (g *Graph) insertNode(id string, n node) {
	g.nodes[id] = n
	g.order = append(g.order, id)
}

// appendStep adds a step node, wires a plain edge from every current exit,
// and makes the new node the sole exit. The first node added becomes the
// entry point.
func (g *Graph) appendStep(s *Step) string {
	id := g.addNode(s)
	for _, exit := range g.exits {
		g.edges = append(g.edges, Edge{From: exit, To: id})
	}
	if g.entryPoint == "" {
		g.entryPoint = id
	}
	g.exits = []string{id}
	return id
}

// appendGraph merges an independent graph behind the current frontier.
// The sub-graph's nodes are re-keyed through the host counter so the two
// id namespaces cannot collide.
func (g *Graph) appendGraph(sub *Graph) {
	if sub.entryPoint == "" {
		return
	}

	rekeyed := make(map[string]string, len(sub.nodes))
	for _, oldID := range sub.order {
		rekeyed[oldID] = g.addNode(sub.nodes[oldID])
	}
	for _, e := range sub.edges {
		g.edges = append(g.edges, Edge{From: rekeyed[e.From], To: rekeyed[e.To], Branch: e.Branch})
	}

	for _, exit := range g.exits {
		g.edges = append(g.edges, Edge{From: exit, To: rekeyed[sub.entryPoint]})
	}
	if g.entryPoint == "" {
		g.entryPoint = rekeyed[sub.entryPoint]
	}

	exits := make([]string, 0, len(sub.exits))
	for _, exit := range sub.exits {
		exits = append(exits, rekeyed[exit])
	}
	g.exits = exits
}

// sanitizeID lowers a display name to [a-z0-9_]. Runs of non-alphanumeric
// runes collapse to a single underscore and never lead or trail.
func sanitizeID(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	if b.Len() == 0 {
		return "node"
	}
	return b.String()
}

// outgoing returns the plain (unlabeled) outgoing edges of a node.
func (g *Graph) outgoing(id string) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.From == id && e.Branch == "" {
			out = append(out, e)
		}
	}
	return out
}

// branchEdges returns the branch-labeled outgoing edges of a node, in the
// order they were recorded (branch names sorted at attach time).
func (g *Graph) branchEdges(id string) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.From == id && e.Branch != "" {
			out = append(out, e)
		}
	}
	return out
}
