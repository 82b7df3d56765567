package flow

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func passthrough(_ context.Context, input any) (any, error) {
	return input, nil
}

func TestConnectScenarios(t *testing.T) {
	t.Parallel()

	t.Run("StepToStep", func(t *testing.T) {
		t.Parallel()
		a := NewStep(passthrough, WithName("first"))
		b := NewStep(passthrough, WithName("second"))

		g, err := Connect(a, b)
		require.NoError(t, err)
		require.Equal(t, "first_1", g.EntryPoint())
		require.Equal(t, []string{"second_2"}, g.Exits())
		require.Equal(t, []Edge{{From: "first_1", To: "second_2"}}, g.Edges())
	})

	t.Run("GraphToStep", func(t *testing.T) {
		t.Parallel()
		g, err := Connect(NewStep(passthrough, WithName("a")), NewStep(passthrough, WithName("b")))
		require.NoError(t, err)

		g, err = Connect(g, NewStep(passthrough, WithName("c")))
		require.NoError(t, err)
		require.Equal(t, []string{"c_3"}, g.Exits())
		require.Len(t, g.Edges(), 2)
	})

	t.Run("ConditionBecomesSingleExit", func(t *testing.T) {
		t.Parallel()
		cond, err := NewCondition(
			func(any) ([]string, error) { return nil, nil },
			map[string]any{
				"hi": NewStep(passthrough, WithName("high")),
				"lo": NewStep(passthrough, WithName("low")),
			},
		)
		require.NoError(t, err)

		g, err := Connect(NewStep(passthrough, WithName("start")), cond)
		require.NoError(t, err)

		// The condition node itself is the sole exit, not the branch bodies.
		exits := g.Exits()
		require.Len(t, exits, 1)
		require.True(t, strings.HasPrefix(exits[0], "condition_"))

		// One branch-labeled edge per declared branch, sorted by name.
		var labels []string
		for _, e := range g.branchEdges(exits[0]) {
			labels = append(labels, e.Branch)
		}
		require.Equal(t, []string{"hi", "lo"}, labels)
	})

	t.Run("ConditionFirst", func(t *testing.T) {
		t.Parallel()
		cond, err := NewCondition(
			func(any) ([]string, error) { return []string{"only"}, nil },
			map[string]any{"only": NewStep(passthrough, WithName("body"))},
		)
		require.NoError(t, err)

		g, err := Connect(cond, NewStep(passthrough, WithName("after")))
		require.NoError(t, err)
		require.Equal(t, "condition_1", g.EntryPoint())
		require.Equal(t, []string{"after_3"}, g.Exits())
	})

	t.Run("ConditionToGraph", func(t *testing.T) {
		t.Parallel()
		sub, err := Connect(NewStep(passthrough, WithName("x")), NewStep(passthrough, WithName("y")))
		require.NoError(t, err)

		cond, err := NewCondition(
			func(any) ([]string, error) { return nil, nil },
			map[string]any{"b": NewStep(passthrough, WithName("body"))},
		)
		require.NoError(t, err)

		g, err := Connect(cond, sub)
		require.NoError(t, err)
		require.Equal(t, "condition_1", g.EntryPoint())
		// The merged sub-graph's re-keyed tail is the frontier.
		require.Len(t, g.Exits(), 1)
		require.True(t, strings.HasPrefix(g.Exits()[0], "y_"))
	})

	t.Run("SubGraphBranchIsPrefixed", func(t *testing.T) {
		t.Parallel()
		body, err := Connect(NewStep(passthrough, WithName("inner a")), NewStep(passthrough, WithName("inner b")))
		require.NoError(t, err)

		cond, err := NewCondition(
			func(any) ([]string, error) { return []string{"deep"}, nil },
			map[string]any{"deep": body},
		)
		require.NoError(t, err)

		g, err := Connect(NewStep(passthrough, WithName("start")), cond)
		require.NoError(t, err)

		// Merged nodes draw fresh ids from the host counter (start_1 and the
		// condition node take 1 and 2) under the branch prefix.
		require.True(t, g.HasNode("deep_inner_a_3"))
		require.True(t, g.HasNode("deep_inner_b_4"))
	})

	t.Run("SameBranchNameAcrossConditions", func(t *testing.T) {
		t.Parallel()
		newCond := func() *Condition {
			body, err := Connect(NewStep(passthrough, WithName("first")), NewStep(passthrough, WithName("second")))
			require.NoError(t, err)
			cond, err := NewCondition(
				func(any) ([]string, error) { return []string{"lo"}, nil },
				map[string]any{"lo": body},
			)
			require.NoError(t, err)
			return cond
		}

		g, err := Connect(NewStep(passthrough, WithName("start")), newCond())
		require.NoError(t, err)
		g, err = Connect(g, newCond())
		require.NoError(t, err)

		// Both bodies were built independently and both live under "lo", yet
		// every merged node keeps a distinct id.
		require.True(t, g.HasNode("lo_first_3"))
		require.True(t, g.HasNode("lo_second_4"))
		require.True(t, g.HasNode("lo_first_6"))
		require.True(t, g.HasNode("lo_second_7"))
	})

	t.Run("InvalidCompositions", func(t *testing.T) {
		t.Parallel()
		s := NewStep(passthrough)
		g1, err := Connect(s, NewStep(passthrough))
		require.NoError(t, err)
		g2, err := Connect(NewStep(passthrough), NewStep(passthrough))
		require.NoError(t, err)

		cases := []struct {
			name        string
			left, right any
		}{
			{"StepToGraph", s, g2},
			{"GraphToGraph", g1, g2},
			{"StepToString", s, "not a node"},
			{"IntToStep", 42, s},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()
				_, err := Connect(tc.left, tc.right)
				var compErr *InvalidCompositionError
				require.ErrorAs(t, err, &compErr)
			})
		}

		_, err = Connect(g1, "tail")
		var compErr *InvalidCompositionError
		require.ErrorAs(t, err, &compErr)
		require.Equal(t, "graph", compErr.Left)
		require.Equal(t, "string", compErr.Right)
	})
}

func TestNewConditionValidation(t *testing.T) {
	t.Parallel()
	selector := func(any) ([]string, error) { return nil, nil }

	t.Run("NilSelector", func(t *testing.T) {
		t.Parallel()
		_, err := NewCondition(nil, map[string]any{"a": NewStep(passthrough)})
		require.ErrorIs(t, err, ErrNilSelector)
	})

	t.Run("NoBranches", func(t *testing.T) {
		t.Parallel()
		_, err := NewCondition(selector, map[string]any{})
		require.ErrorIs(t, err, ErrNoBranches)
	})

	t.Run("EmptyBranchName", func(t *testing.T) {
		t.Parallel()
		_, err := NewCondition(selector, map[string]any{"": NewStep(passthrough)})
		require.Error(t, err)
	})

	t.Run("BadBranchBody", func(t *testing.T) {
		t.Parallel()
		_, err := NewCondition(selector, map[string]any{"a": "not a node"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "branch \"a\"")
	})

	t.Run("BranchesSorted", func(t *testing.T) {
		t.Parallel()
		c, err := NewCondition(selector, map[string]any{
			"zeta":  NewStep(passthrough),
			"alpha": NewStep(passthrough),
			"mid":   NewStep(passthrough),
		})
		require.NoError(t, err)
		require.Equal(t, []string{"alpha", "mid", "zeta"}, c.Branches())
	})
}

func TestSanitizeID(t *testing.T) {
	t.Parallel()
	require.Equal(t, "my_step", sanitizeID("My Step"))
	require.Equal(t, "agent42", sanitizeID("Agent42"))
	require.Equal(t, "node", sanitizeID("  "))
	require.Equal(t, "a_b", sanitizeID("a--b!"))
	require.Equal(t, "x", sanitizeID("__x__"))
	require.Equal(t, "a_b_c", sanitizeID(" a  b--c "))
}
