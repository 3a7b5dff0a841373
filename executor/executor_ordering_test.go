package executor

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	schema "github.com/verdantgql/verdant/schema"
)

func TestOrdering_FieldOutput_DeclarationOrder(t *testing.T) {
	// Field a resolves last, yet it must come first in the output.
	s := queryOnly(t, schema.Fields{
		{Name: "a", Type: schema.String, Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
			time.Sleep(20 * time.Millisecond)
			return "A", nil
		}},
		{Name: "b", Type: schema.String, Resolve: valueResolver("B")},
		{Name: "c", Type: schema.String, Resolve: valueResolver("C")},
	})
	exec := New(s)
	doc := mustParseQuery(t, "{ a b c }")

	res := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	require.Empty(t, res.Errors)
	require.Equal(t, `{"a":"A","b":"B","c":"C"}`, jsonData(t, res))
}

func TestOrdering_SiblingFields_RunConcurrently(t *testing.T) {
	// Field a waits for field c to start. Serial execution in declaration
	// order would never finish.
	cStarted := make(chan struct{})
	s := queryOnly(t, schema.Fields{
		{Name: "a", Type: schema.String, Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
			select {
			case <-cStarted:
				return "A", nil
			case <-time.After(5 * time.Second):
				return nil, context.DeadlineExceeded
			}
		}},
		{Name: "c", Type: schema.String, Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
			close(cStarted)
			return "C", nil
		}},
	})
	exec := New(s)
	doc := mustParseQuery(t, "{ a c }")

	res := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	require.Empty(t, res.Errors)
	require.Equal(t, `{"a":"A","c":"C"}`, jsonData(t, res))
}

func TestOrdering_AliasResponseKeys(t *testing.T) {
	s := queryOnly(t, schema.Fields{
		{Name: "value", Type: schema.String, Resolve: valueResolver("V")},
	})
	exec := New(s)
	doc := mustParseQuery(t, "{ second: value first: value }")

	res := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	require.Empty(t, res.Errors)
	require.Equal(t, `{"second":"V","first":"V"}`, jsonData(t, res))
}

func TestOrdering_FragmentMerge_DuplicateFields(t *testing.T) {
	sub := schema.NewObject(schema.ObjectConfig{Name: "Sub", Fields: schema.Fields{
		{Name: "x", Type: schema.String, Resolve: valueResolver("X")},
		{Name: "y", Type: schema.String, Resolve: valueResolver("Y")},
	}})
	s := queryOnly(t, schema.Fields{
		{Name: "obj", Type: sub, Resolve: valueResolver(map[string]any{})},
	})
	exec := New(s)
	doc := mustParseQuery(t, "{ obj { x } obj { y } }")

	res := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	require.Empty(t, res.Errors)
	require.Equal(t, `{"obj":{"x":"X","y":"Y"}}`, jsonData(t, res))
}

func TestOrdering_ListElements_IndexOrder(t *testing.T) {
	s := queryOnly(t, schema.Fields{
		{Name: "nums", Type: schema.ListOf(schema.Int), Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
			return []any{3, 1, 2}, nil
		}},
	})
	exec := New(s)
	doc := mustParseQuery(t, "{ nums }")

	res := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	require.Empty(t, res.Errors)
	require.Equal(t, `{"nums":[3,1,2]}`, jsonData(t, res))
}

func TestOrdering_ErrorList_IsStable(t *testing.T) {
	s := queryOnly(t, schema.Fields{
		{Name: "ok", Type: schema.String, Resolve: valueResolver("fine")},
	})
	exec := New(s)
	doc := mustParseQuery(t, "{ ok }")

	res := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	if diff := cmp.Diff([]GraphQLError{}, res.Errors); diff != "" {
		t.Fatalf("Errors mismatch (-want +got):\n%s", diff)
	}
}
