// Package agents provides conversational agents over langchaingo chat
// models. An Agent keeps its own message history and satisfies
// flow.Capability, so it can back capability steps in a workflow graph.
package agents

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/tmc/langchaingo/llms"
)

// ErrNoMessages is returned by LastMessage before the agent has replied.
var ErrNoMessages = errors.New("agent has no messages")

// Agent is a named conversational agent bound to a chat model. History is
// guarded by a mutex because one agent may back steps in several graphs.
type Agent struct {
	name     string
	model    llms.Model
	callOpts []llms.CallOption

	mu      sync.Mutex
	system  string
	history []llms.MessageContent
}

// Option configures an Agent at construction time.
type Option func(*Agent)

// WithSystemPrompt seeds the conversation with a system message. The prompt
// survives Reset.
func WithSystemPrompt(prompt string) Option {
	return func(a *Agent) {
		a.system = prompt
	}
}

// WithCallOptions sets model call options (temperature, max tokens, ...)
// applied to every request.
func WithCallOptions(opts ...llms.CallOption) Option {
	return func(a *Agent) {
		a.callOpts = append(a.callOpts, opts...)
	}
}

// NewAgent creates an agent over the given chat model.
func NewAgent(name string, model llms.Model, opts ...Option) *Agent {
	a := &Agent{name: name, model: model}
	for _, opt := range opts {
		opt(a)
	}
	if a.system != "" {
		a.history = append(a.history, llms.TextParts(llms.ChatMessageTypeSystem, a.system))
	}
	return a
}

// Name returns the agent's display name.
func (a *Agent) Name() string {
	return a.name
}

// Request appends the message as a human turn, generates a completion and
// records the reply. Implements flow.Capability.
func (a *Agent) Request(ctx context.Context, message string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	msgs := append(a.cloneHistory(), llms.TextParts(llms.ChatMessageTypeHuman, message))

	resp, err := a.model.GenerateContent(ctx, msgs, a.callOpts...)
	if err != nil {
		return errors.Wrapf(err, "agent %s: completion request failed", a.name)
	}
	if len(resp.Choices) == 0 {
		return errors.Errorf("agent %s: model returned no choices", a.name)
	}

	msgs = append(msgs, llms.TextParts(llms.ChatMessageTypeAI, resp.Choices[0].Content))
	a.history = msgs
	return nil
}

// LastMessage returns the text of the most recent AI turn. Implements
// flow.Capability.
func (a *Agent) LastMessage() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := len(a.history) - 1; i >= 0; i-- {
		if a.history[i].Role != llms.ChatMessageTypeAI {
			continue
		}
		var text string
		for _, part := range a.history[i].Parts {
			if t, ok := part.(llms.TextContent); ok {
				text += t.Text
			}
		}
		return text, nil
	}
	return "", ErrNoMessages
}

// History returns a copy of the conversation so far.
func (a *Agent) History() []llms.MessageContent {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cloneHistory()
}

// Reset clears the conversation, keeping only the system prompt.
func (a *Agent) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.history = nil
	if a.system != "" {
		a.history = append(a.history, llms.TextParts(llms.ChatMessageTypeSystem, a.system))
	}
}

func (a *Agent) cloneHistory() []llms.MessageContent {
	return append([]llms.MessageContent{}, a.history...)
}
