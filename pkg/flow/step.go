package flow

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

// StepFunc is a plain transformation: one input value in, one output value out.
type StepFunc func(ctx context.Context, input any) (any, error)

// Capability is an external collaborator invoked as an opaque blocking call,
// typically a conversational agent or a protocol-backed tool. Request pushes
// a message at the capability; LastMessage extracts its most recent reply.
type Capability interface {
	Request(ctx context.Context, message string) error
	LastMessage() (string, error)
}

type stepKind int

const (
	stepFunction stepKind = iota
	stepCapability
)

func (k stepKind) String() string {
	if k == stepCapability {
		return "agent"
	}
	return "function"
}

// Step wraps a unit of work into a uniform graph node. Steps are immutable
// and stateless once created; the same Step may appear in several graphs.
type Step struct {
	name       string
	kind       stepKind
	fn         StepFunc
	capability Capability
}

// StepOption configures a Step at construction time.
type StepOption func(*Step)

// WithName overrides the display name used in node ids, diagrams and errors.
func WithName(name string) StepOption {
	return func(s *Step) {
		if name != "" {
			s.name = name
		}
	}
}

// NewStep wraps a plain function into a Step.
func NewStep(fn StepFunc, opts ...StepOption) *Step {
	s := &Step{name: "step", kind: stepFunction, fn: fn}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewAgentStep wraps a Capability into a Step. If the capability exposes a
// Name() it becomes the default display name.
func NewAgentStep(c Capability, opts ...StepOption) *Step {
	name := "agent"
	if named, ok := c.(interface{ Name() string }); ok && named.Name() != "" {
		name = named.Name()
	}
	s := &Step{name: name, kind: stepCapability, capability: c}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step's display name. Cosmetic only: never used for
// branch matching or execution-order decisions.
func (s *Step) Name() string {
	return s.name
}

func (s *Step) displayName() string {
	return s.name
}

// invoke runs the step's handler on the current value.
func (s *Step) invoke(ctx context.Context, input any) (any, error) {
	if s.kind == stepFunction {
		if s.fn == nil {
			return nil, errors.New("step has no handler")
		}
		return s.fn(ctx, input)
	}

	if s.capability == nil {
		return nil, errors.New("step has no capability")
	}
	message, err := adaptCapabilityInput(input)
	if err != nil {
		return nil, err
	}
	if err := s.capability.Request(ctx, message); err != nil {
		return nil, err
	}
	return s.capability.LastMessage()
}

// adaptCapabilityInput turns the current value into the textual form a
// capability expects: strings pass through, everything else is serialized
// as JSON.
func adaptCapabilityInput(input any) (string, error) {
	if s, ok := input.(string); ok {
		return s, nil
	}
	data, err := json.Marshal(input)
	if err != nil {
		return "", errors.Wrap(err, "cannot serialize step input for capability")
	}
	return string(data), nil
}
