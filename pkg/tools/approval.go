package tools

import (
	"context"
	"fmt"
	"sync"

	"github.com/AlecAivazis/survey/v2"
	"github.com/pkg/errors"

	"github.com/nadav-orr/flowkit/pkg/flow"
)

// Policy controls how an Approver resolves decisions that are not already
// remembered.
type Policy int

const (
	// PolicyPrompt asks the user interactively. The default.
	PolicyPrompt Policy = iota
	// PolicyAllowAll approves everything without prompting.
	PolicyAllowAll
	// PolicyDenyAll rejects everything without prompting.
	PolicyDenyAll
)

const (
	answerAllowOnce = "allow once"
	answerAllowAll  = "always allow"
	answerDeny      = "deny"
)

// PromptFunc renders an approval question and returns one of the offered
// answers. Overridable for non-interactive use.
type PromptFunc func(question string, answers []string) (string, error)

// Approver is an explicit approval context: decisions live on the object,
// not in process-wide state. "always allow" answers are remembered per tool
// name for the lifetime of the Approver.
type Approver struct {
	policy Policy
	prompt PromptFunc

	mu       sync.Mutex
	approved map[string]bool
}

// ApproverOption configures an Approver.
type ApproverOption func(*Approver)

// WithPolicy sets the non-remembered resolution policy.
func WithPolicy(p Policy) ApproverOption {
	return func(a *Approver) {
		a.policy = p
	}
}

// WithPromptFunc replaces the interactive survey prompt.
func WithPromptFunc(fn PromptFunc) ApproverOption {
	return func(a *Approver) {
		if fn != nil {
			a.prompt = fn
		}
	}
}

// NewApprover creates an approval context.
func NewApprover(opts ...ApproverOption) *Approver {
	a := &Approver{
		prompt:   surveyPrompt,
		approved: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Approve resolves whether the named tool may run. detail is shown to the
// user alongside the tool name when prompting.
func (a *Approver) Approve(tool, detail string) (bool, error) {
	a.mu.Lock()
	remembered := a.approved[tool]
	a.mu.Unlock()
	if remembered {
		return true, nil
	}

	switch a.policy {
	case PolicyAllowAll:
		return true, nil
	case PolicyDenyAll:
		return false, nil
	}

	question := fmt.Sprintf("Allow tool %q to run?", tool)
	if detail != "" {
		question = fmt.Sprintf("Allow tool %q to run? (%s)", tool, detail)
	}

	answer, err := a.prompt(question, []string{answerAllowOnce, answerAllowAll, answerDeny})
	if err != nil {
		return false, errors.Wrap(err, "approval prompt failed")
	}

	switch answer {
	case answerAllowOnce:
		return true, nil
	case answerAllowAll:
		a.mu.Lock()
		a.approved[tool] = true
		a.mu.Unlock()
		return true, nil
	default:
		return false, nil
	}
}

// Gate wraps a step function so it only runs once the named tool is
// approved; a denial fails the step.
func (a *Approver) Gate(tool string, next flow.StepFunc) flow.StepFunc {
	return func(ctx context.Context, input any) (any, error) {
		ok, err := a.Approve(tool, "")
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.Errorf("tool %q was not approved", tool)
		}
		return next(ctx, input)
	}
}

func surveyPrompt(question string, answers []string) (string, error) {
	var answer string
	prompt := &survey.Select{
		Message: question,
		Options: answers,
	}
	if err := survey.AskOne(prompt, &answer); err != nil {
		return "", err
	}
	return answer, nil
}
