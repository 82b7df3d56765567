package main

import (
	"context"
	"fmt"
	stdlog "log"
	"log/slog"

	"github.com/tmc/langchaingo/llms/openai"

	"github.com/nadav-orr/flowkit/internal/config"
	"github.com/nadav-orr/flowkit/internal/log"
	"github.com/nadav-orr/flowkit/pkg/agents"
	"github.com/nadav-orr/flowkit/pkg/flow"
	"github.com/nadav-orr/flowkit/pkg/tools"
)

// Two-agent workflow: a writer drafts, an approval gate decides whether the
// critic may run, the critic reviews the draft.
func main() {
	cfg := config.Load()
	logger := log.New(log.Config{Level: cfg.LogLevel})
	slog.SetDefault(logger)

	key, err := cfg.RequireOpenAI()
	if err != nil {
		stdlog.Fatal(err)
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	llm, err := openai.New(openai.WithToken(key), openai.WithModel(model))
	if err != nil {
		stdlog.Fatal(err)
	}

	writer := agents.NewAgent("writer", llm,
		agents.WithSystemPrompt("You write one-paragraph answers."))
	critic := agents.NewAgent("critic", llm,
		agents.WithSystemPrompt("You point out the single weakest claim in a text."))

	approver := tools.NewApprover()
	gate := flow.NewStep(approver.Gate("critic", func(_ context.Context, in any) (any, error) {
		return in, nil
	}), flow.WithName("review_gate"))

	g, err := flow.Connect(flow.NewAgentStep(writer), gate)
	if err != nil {
		stdlog.Fatal(err)
	}
	g, err = flow.Connect(g, flow.NewAgentStep(critic))
	if err != nil {
		stdlog.Fatal(err)
	}

	out, err := flow.Execute(context.Background(), g,
		"Why do rivers meander?", flow.WithLogger(logger))
	if err != nil {
		stdlog.Fatal(err)
	}
	fmt.Println(out)
}
