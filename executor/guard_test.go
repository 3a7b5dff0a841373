package executor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	schema "github.com/verdantgql/verdant/schema"
)

func nestedSchema(t *testing.T, listCost schema.CostEstimator) *schema.Schema {
	t.Helper()
	var node *schema.Object
	node = schema.NewObject(schema.ObjectConfig{
		Name: "Node",
		FieldsFn: func() schema.Fields {
			return schema.Fields{
				{Name: "value", Type: schema.Int, Resolve: valueResolver(1)},
				{Name: "child", Type: schema.Lazy(func() schema.Type { return node }), Resolve: valueResolver(map[string]any{})},
				{
					Name: "children",
					Type: schema.ListOf(schema.Lazy(func() schema.Type { return node })),
					Args: []*schema.Argument{{Name: "first", Type: schema.Int}},
					Cost: listCost,
					Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
						return []any{}, nil
					},
				},
			}
		},
	})
	return testSchema(t, schema.Config{
		Query: schema.NewObject(schema.ObjectConfig{Name: "Query", Fields: schema.Fields{
			{Name: "root", Type: schema.Lazy(func() schema.Type { return node }), Resolve: valueResolver(map[string]any{})},
		}}),
	})
}

func TestGuard_MaxDepth_RejectsDeepQuery(t *testing.T) {
	exec := New(nestedSchema(t, nil), WithMaxDepth(3))
	doc := mustParseQuery(t, `{ root { child { child { value } } } }`)

	res := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	require.Nil(t, res.Data)
	require.Len(t, res.Errors, 1)
	require.Equal(t, "operation depth 4 exceeds the limit of 3", res.Errors[0].Message)
}

func TestGuard_MaxDepth_AllowsShallowQuery(t *testing.T) {
	exec := New(nestedSchema(t, nil), WithMaxDepth(3))
	doc := mustParseQuery(t, `{ root { child { value } } }`)

	res := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	require.Empty(t, res.Errors)
	require.Equal(t, `{"root":{"child":{"value":1}}}`, jsonData(t, res))
}

func TestGuard_MaxCost_UsesFieldEstimators(t *testing.T) {
	// A page of size n costs n times its children.
	pageCost := func(args map[string]any, childCost int) int {
		n := 1
		if first, ok := args["first"].(int32); ok {
			n = int(first)
		}
		return n * (1 + childCost)
	}
	exec := New(nestedSchema(t, pageCost), WithMaxCost(50))
	doc := mustParseQuery(t, `{ root { children(first: 100) { value } } }`)

	res := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	require.Nil(t, res.Data)
	require.Len(t, res.Errors, 1)
	require.Contains(t, res.Errors[0].Message, "exceeds the limit of 50")
}

func TestGuard_MaxCost_AllowsCheapQuery(t *testing.T) {
	pageCost := func(args map[string]any, childCost int) int {
		n := 1
		if first, ok := args["first"].(int32); ok {
			n = int(first)
		}
		return n * (1 + childCost)
	}
	exec := New(nestedSchema(t, pageCost), WithMaxCost(50))
	doc := mustParseQuery(t, `{ root { children(first: 5) { value } } }`)

	res := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	require.Empty(t, res.Errors)
	require.Equal(t, `{"root":{"children":[]}}`, jsonData(t, res))
}

func TestGuard_DepthCountsThroughFragments(t *testing.T) {
	exec := New(nestedSchema(t, nil), WithMaxDepth(3))
	doc := mustParseQuery(t, `
		{ root { ...deep } }
		fragment deep on Node { child { child { value } } }
	`)

	res := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	require.Nil(t, res.Data)
	require.Len(t, res.Errors, 1)
	require.Contains(t, res.Errors[0].Message, "operation depth")
}
