package agents

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// scriptedModel replays canned replies in order and records every request.
type scriptedModel struct {
	replies  []string
	failWith error
	seen     [][]llms.MessageContent
}

func (m *scriptedModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	m.seen = append(m.seen, messages)

	reply := "done"
	if len(m.replies) > 0 {
		reply = m.replies[0]
		m.replies = m.replies[1:]
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: reply}},
	}, nil
}

func (m *scriptedModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	resp, err := m.GenerateContent(ctx, []llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, prompt)}, options...)
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Content, nil
}

func TestAgentConversation(t *testing.T) {
	t.Parallel()

	t.Run("RequestAppendsTurns", func(t *testing.T) {
		t.Parallel()
		model := &scriptedModel{replies: []string{"hello there", "still here"}}
		agent := NewAgent("greeter", model)

		require.NoError(t, agent.Request(context.Background(), "hi"))
		last, err := agent.LastMessage()
		require.NoError(t, err)
		require.Equal(t, "hello there", last)

		require.NoError(t, agent.Request(context.Background(), "are you there?"))
		last, err = agent.LastMessage()
		require.NoError(t, err)
		require.Equal(t, "still here", last)

		// human, ai, human, ai
		require.Len(t, agent.History(), 4)
		// The second request carried the full prior conversation.
		require.Len(t, model.seen[1], 3)
	})

	t.Run("SystemPromptLeadsHistory", func(t *testing.T) {
		t.Parallel()
		model := &scriptedModel{}
		agent := NewAgent("expert", model, WithSystemPrompt("You are terse."))

		require.NoError(t, agent.Request(context.Background(), "explain"))
		history := agent.History()
		require.Equal(t, llms.ChatMessageTypeSystem, history[0].Role)
		require.Len(t, history, 3)
	})

	t.Run("LastMessageBeforeReply", func(t *testing.T) {
		t.Parallel()
		agent := NewAgent("silent", &scriptedModel{})
		_, err := agent.LastMessage()
		require.ErrorIs(t, err, ErrNoMessages)
	})

	t.Run("ModelFailureKeepsHistoryClean", func(t *testing.T) {
		t.Parallel()
		model := &scriptedModel{failWith: errors.New("rate limited")}
		agent := NewAgent("flaky", model)

		err := agent.Request(context.Background(), "hi")
		require.Error(t, err)
		require.Contains(t, err.Error(), "agent flaky")
		// The failed turn is not recorded.
		require.Empty(t, agent.History())
	})

	t.Run("ResetKeepsSystemPrompt", func(t *testing.T) {
		t.Parallel()
		agent := NewAgent("expert", &scriptedModel{}, WithSystemPrompt("You are terse."))
		require.NoError(t, agent.Request(context.Background(), "one"))
		agent.Reset()

		history := agent.History()
		require.Len(t, history, 1)
		require.Equal(t, llms.ChatMessageTypeSystem, history[0].Role)
	})
}
