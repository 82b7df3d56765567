package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/nadav-orr/flowkit/pkg/flow"
)

// Multi-branch fan-out: both analyses run on the same input, then a single
// downstream step receives the merged branch-result map once.
func main() {
	wordCount := flow.NewStep(func(_ context.Context, in any) (any, error) {
		return len(strings.Fields(in.(string))), nil
	}, flow.WithName("word_count"))

	upper := flow.NewStep(func(_ context.Context, in any) (any, error) {
		return strings.ToUpper(in.(string)), nil
	}, flow.WithName("upper"))

	cond, err := flow.NewCondition(
		func(any) ([]string, error) { return []string{"count", "shout"}, nil },
		map[string]any{
			"count": wordCount,
			"shout": upper,
		},
	)
	if err != nil {
		log.Fatal(err)
	}

	report := flow.NewStep(func(_ context.Context, in any) (any, error) {
		results := in.(map[string]any)
		return fmt.Sprintf("%v words: %v", results["count"], results["shout"]), nil
	}, flow.WithName("report"))

	g, err := flow.Connect(cond, report)
	if err != nil {
		log.Fatal(err)
	}

	out, err := flow.Execute(context.Background(), g, "all branches see this sentence")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(out)
}
