package main

import (
	"context"
	"fmt"
	"log"

	"github.com/nadav-orr/flowkit/pkg/flow"
)

// Classifier condition: route a number to exactly one of three branches.
func main() {
	classify := func(input any) ([]string, error) {
		v := input.(int)
		switch {
		case v > 100:
			return []string{"large"}, nil
		case v > 10:
			return []string{"medium"}, nil
		default:
			return []string{"small"}, nil
		}
	}

	label := func(text string) *flow.Step {
		return flow.NewStep(func(_ context.Context, in any) (any, error) {
			return fmt.Sprintf("%s(%v)", text, in), nil
		}, flow.WithName(text))
	}

	cond, err := flow.NewCondition(classify, map[string]any{
		"large":  label("large"),
		"medium": label("medium"),
		"small":  label("small"),
	})
	if err != nil {
		log.Fatal(err)
	}

	entry := flow.NewStep(func(_ context.Context, in any) (any, error) {
		return in, nil
	}, flow.WithName("entry"))

	g, err := flow.Connect(entry, cond)
	if err != nil {
		log.Fatal(err)
	}

	for _, input := range []int{5, 50, 500} {
		out, err := flow.Execute(context.Background(), g, input)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%d -> %v\n", input, out)
	}
}
