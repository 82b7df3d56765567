package flow

import (
	"sort"

	"github.com/pkg/errors"
)

// Selector inspects the current value and returns the names of the branches
// to activate. Zero names means no branch runs; names with no declared
// branch are silently ignored; several names fan out to all of them.
type Selector func(input any) ([]string, error)

// Condition is the build-time description of a branch point: a selector
// plus named branch bodies. A Condition is inert until attached to a graph
// through Connect; the same Condition may be attached to several graphs.
type Condition struct {
	selector Selector
	branches map[string]any
	// names holds the declared branch names sorted for deterministic
	// attach order and rendering.
	names []string
}

// NewCondition validates and creates a Condition. Branch bodies must be
// *Step or *Graph values; at least one branch is required and branch names
// must be non-empty.
func NewCondition(selector Selector, branches map[string]any) (*Condition, error) {
	if selector == nil {
		return nil, ErrNilSelector
	}
	if len(branches) == 0 {
		return nil, ErrNoBranches
	}

	names := make([]string, 0, len(branches))
	for name, body := range branches {
		if name == "" {
			return nil, errors.New("branch names must be non-empty strings")
		}
		switch body.(type) {
		case *Step, *Graph:
		default:
			return nil, errors.Errorf("branch %q: body must be a step or a graph, got %T", name, body)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	return &Condition{selector: selector, branches: branches, names: names}, nil
}

// Branches returns the declared branch names in deterministic order.
func (c *Condition) Branches() []string {
	return append([]string(nil), c.names...)
}

// conditionNode is the arena-resident form of an attached Condition.
type conditionNode struct {
	selector Selector
	branches []string
}

func (n *conditionNode) displayName() string {
	return "condition"
}

// attachCondition wires a Condition into the host graph:
//
//  1. allocate a condition node id and wire a plain edge from every current
//     exit to it;
//  2. for each branch add the body (a step as a single node, a graph with
//     all its nodes re-keyed to fresh host ids under a "<branch>_" prefix)
//     plus one branch-labeled edge from the condition node to the body's entry.
//     A merged sub-graph's exits stay dangling inside the branch;
//  3. the condition node id becomes the graph's single exit, so whatever is
//     connected next receives the merged branch-result map exactly once.
func (g *Graph) attachCondition(c *Condition) string {
	cn := &conditionNode{selector: c.selector, branches: c.Branches()}
	id := g.addNode(cn)

	for _, exit := range g.exits {
		g.edges = append(g.edges, Edge{From: exit, To: id})
	}
	if g.entryPoint == "" {
		g.entryPoint = id
	}

	for _, name := range c.names {
		switch body := c.branches[name].(type) {
		case *Step:
			bodyID := g.addNode(body)
			g.edges = append(g.edges, Edge{From: id, To: bodyID, Branch: name})
		case *Graph:
			entry := g.mergeBranchGraph(name, body)
			if entry != "" {
				g.edges = append(g.edges, Edge{From: id, To: entry, Branch: name})
			}
		}
	}

	g.exits = []string{id}
	return id
}

// mergeBranchGraph copies a sub-graph into the host arena. Every node gets
// a fresh id from the host counter, prefixed by the branch name for
// readability; allocating through the counter keeps ids unique even when
// several conditions carry same-named branches. Returns the re-keyed entry
// point.
func (g *Graph) mergeBranchGraph(branch string, sub *Graph) string {
	if sub.entryPoint == "" {
		return ""
	}

	rekeyed := make(map[string]string, len(sub.nodes))
	for _, oldID := range sub.order {
		n := sub.nodes[oldID]
		newID := sanitizeID(branch) + "_" + g.nextID(n.displayName())
		g.insertNode(newID, n)
		rekeyed[oldID] = newID
	}
	for _, e := range sub.edges {
		g.edges = append(g.edges, Edge{From: rekeyed[e.From], To: rekeyed[e.To], Branch: e.Branch})
	}

	return rekeyed[sub.entryPoint]
}
