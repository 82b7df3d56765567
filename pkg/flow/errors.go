package flow

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyGraph is returned by Execute when the graph has no entry point.
	ErrEmptyGraph = errors.New("graph has no entry point")

	// ErrNoBranches is returned when a condition is declared without branches.
	ErrNoBranches = errors.New("condition requires at least one branch")

	// ErrNilSelector is returned when a condition is declared without a selector.
	ErrNilSelector = errors.New("condition requires a selector function")
)

// InvalidCompositionError is raised by Connect when the two operands do not
// form a legal composition pattern. Build-time: surfaced immediately, never
// deferred to execution.
type InvalidCompositionError struct {
	// Left and Right name the operand kinds ("step", "graph", "condition",
	// or the Go type for anything foreign).
	Left  string
	Right string
}

func (e *InvalidCompositionError) Error() string {
	return fmt.Sprintf("invalid composition: cannot connect %s to %s", e.Left, e.Right)
}

// NewInvalidCompositionError creates an InvalidCompositionError from the two operands.
func NewInvalidCompositionError(left, right any) error {
	return &InvalidCompositionError{Left: operandKind(left), Right: operandKind(right)}
}

// StepExecutionError wraps any failure from a node's underlying handler:
// a function error, a capability-call failure, or a selector failure on a
// condition node. Fatal to the whole execution.
type StepExecutionError struct {
	// Node is the id of the failing node in the graph.
	Node string
	// Err is the underlying error.
	Err error
}

func (e *StepExecutionError) Error() string {
	return fmt.Sprintf("step %q failed: %v", e.Node, e.Err)
}

func (e *StepExecutionError) Unwrap() error {
	return e.Err
}

// NewStepExecutionError creates a new StepExecutionError.
func NewStepExecutionError(node string, err error) error {
	return &StepExecutionError{Node: node, Err: err}
}

// MultipleOutgoingEdgesError reports an internal-consistency violation: a
// node ended up with more than one plain outgoing edge. Unreachable if the
// builder invariants hold; treated as a programming-error-class fault.
type MultipleOutgoingEdgesError struct {
	// Node is the id of the offending node.
	Node string
	// Count is the number of plain outgoing edges found.
	Count int
}

func (e *MultipleOutgoingEdgesError) Error() string {
	return fmt.Sprintf("node %q has %d outgoing edges, want at most one", e.Node, e.Count)
}

// NewMultipleOutgoingEdgesError creates a new MultipleOutgoingEdgesError.
func NewMultipleOutgoingEdgesError(node string, count int) error {
	return &MultipleOutgoingEdgesError{Node: node, Count: count}
}

// operandKind names a Connect operand for error messages.
func operandKind(v any) string {
	switch v.(type) {
	case *Step:
		return "step"
	case *Graph:
		return "graph"
	case *Condition:
		return "condition"
	default:
		return fmt.Sprintf("%T", v)
	}
}
