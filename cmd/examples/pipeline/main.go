package main

import (
	"context"
	"fmt"
	"log"

	"github.com/nadav-orr/flowkit/pkg/flow"
)

// Linear three-step pipeline: add_ten -> mul_two -> sub_five.
func main() {
	addTen := flow.NewStep(func(_ context.Context, in any) (any, error) {
		return in.(int) + 10, nil
	}, flow.WithName("add_ten"))

	mulTwo := flow.NewStep(func(_ context.Context, in any) (any, error) {
		return in.(int) * 2, nil
	}, flow.WithName("mul_two"))

	subFive := flow.NewStep(func(_ context.Context, in any) (any, error) {
		return in.(int) - 5, nil
	}, flow.WithName("sub_five"))

	g, err := flow.Connect(addTen, mulTwo)
	if err != nil {
		log.Fatal(err)
	}
	g, err = flow.Connect(g, subFive)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Print(flow.Render(g))

	out, err := flow.Execute(context.Background(), g, 5)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("result: %v\n", out) // 25
}
