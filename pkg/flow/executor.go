package flow

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/nadav-orr/flowkit/internal/log"
)

// ExecOption configures a single Execute call.
type ExecOption func(*executor)

// WithLogger routes the executor's debug logging (node enter/exit) through
// the given logger instead of slog's default.
func WithLogger(logger *slog.Logger) ExecOption {
	return func(e *executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Execute runs the graph from its entry node, threading the evolving value
// through steps and condition nodes. The final value is returned; if the
// graph terminates at an unmerged condition node, the result is the branch
// map (map[string]any keyed by branch name).
//
// Execution is synchronous, single-threaded and depth-first. All failures
// are fail-fast: a failing handler or selector aborts the whole call with a
// StepExecutionError and no partial result.
func Execute(ctx context.Context, g *Graph, input any, opts ...ExecOption) (any, error) {
	if g == nil || g.entryPoint == "" {
		return nil, ErrEmptyGraph
	}

	e := &executor{graph: g, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}

	e.logger.Debug("executing graph", log.GraphIDKey, g.graphID, log.NodeIDKey, g.entryPoint)
	return e.run(ctx, g.entryPoint, input)
}

type executor struct {
	graph  *Graph
	logger *slog.Logger
}

// run evaluates one node and recurses along its plain outgoing edge.
func (e *executor) run(ctx context.Context, id string, value any) (any, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	switch n := e.graph.nodes[id].(type) {
	case *Step:
		return e.runStep(ctx, id, n, value)
	case *conditionNode:
		return e.runCondition(ctx, id, n, value)
	default:
		// Edges only reference arena nodes, so this is unreachable.
		return nil, NewStepExecutionError(id, errors.Errorf("unknown node %q", id))
	}
}

func (e *executor) runStep(ctx context.Context, id string, s *Step, value any) (any, error) {
	e.logger.Debug("step start", log.GraphIDKey, e.graph.graphID, log.NodeIDKey, id)

	out, err := s.invoke(ctx, value)
	if err != nil {
		return nil, NewStepExecutionError(id, err)
	}

	e.logger.Debug("step done", log.GraphIDKey, e.graph.graphID, log.NodeIDKey, id)
	return e.advance(ctx, id, out)
}

// runCondition fans out to every selected branch with the original value
// (branches are independent, not chained) and collects the results into a
// map keyed by branch name. Selected names with no matching declared branch
// are ignored; an empty selection yields an empty map.
func (e *executor) runCondition(ctx context.Context, id string, n *conditionNode, value any) (any, error) {
	selected, err := n.selector(value)
	if err != nil {
		return nil, NewStepExecutionError(id, err)
	}

	chosen := make(map[string]bool, len(selected))
	for _, name := range selected {
		chosen[name] = true
	}

	results := make(map[string]any)
	for _, edge := range e.graph.branchEdges(id) {
		if !chosen[edge.Branch] {
			continue
		}
		e.logger.Debug("branch taken", log.GraphIDKey, e.graph.graphID, log.NodeIDKey, id, log.BranchKey, edge.Branch)
		out, err := e.run(ctx, edge.To, value)
		if err != nil {
			return nil, err
		}
		results[edge.Branch] = out
	}

	return e.advance(ctx, id, results)
}

// advance follows the node's single plain outgoing edge. Zero edges ends
// the traversal; more than one is an internal-consistency violation.
func (e *executor) advance(ctx context.Context, id string, value any) (any, error) {
	out := e.graph.outgoing(id)
	switch len(out) {
	case 0:
		return value, nil
	case 1:
		return e.run(ctx, out[0].To, value)
	default:
		return nil, NewMultipleOutgoingEdgesError(id, len(out))
	}
}
