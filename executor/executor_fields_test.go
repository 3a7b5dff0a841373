package executor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	schema "github.com/verdantgql/verdant/schema"
)

func TestFields_SkipAndInclude(t *testing.T) {
	s := queryOnly(t, schema.Fields{
		{Name: "a", Type: schema.String, Resolve: valueResolver("A")},
		{Name: "b", Type: schema.String, Resolve: valueResolver("B")},
		{Name: "c", Type: schema.String, Resolve: valueResolver("C")},
		{Name: "d", Type: schema.String, Resolve: valueResolver("D")},
	})
	exec := New(s)
	doc := mustParseQuery(t, `{
		a @skip(if: true)
		b @skip(if: false)
		c @include(if: true)
		d @include(if: false)
	}`)

	res := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	require.Empty(t, res.Errors)
	require.Equal(t, `{"b":"B","c":"C"}`, jsonData(t, res))
}

func TestFields_SkipWithVariable(t *testing.T) {
	s := queryOnly(t, schema.Fields{
		{Name: "a", Type: schema.String, Resolve: valueResolver("A")},
		{Name: "b", Type: schema.String, Resolve: valueResolver("B")},
	})
	exec := New(s)
	doc := mustParseQuery(t, `query ($hide: Boolean!) { a @skip(if: $hide) b }`)

	res := exec.ExecuteRequest(context.Background(), doc, "", map[string]any{"hide": true}, nil)

	require.Empty(t, res.Errors)
	require.Equal(t, `{"b":"B"}`, jsonData(t, res))
}

func TestFields_NamedFragmentSpread(t *testing.T) {
	s := queryOnly(t, schema.Fields{
		{Name: "a", Type: schema.String, Resolve: valueResolver("A")},
		{Name: "b", Type: schema.String, Resolve: valueResolver("B")},
	})
	exec := New(s)
	doc := mustParseQuery(t, `
		{ a ...rest }
		fragment rest on Query { b }
	`)

	res := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	require.Empty(t, res.Errors)
	require.Equal(t, `{"a":"A","b":"B"}`, jsonData(t, res))
}

func TestFields_InlineFragment_TypeCondition(t *testing.T) {
	pet := schema.NewInterface(schema.InterfaceConfig{Name: "Pet", Fields: schema.Fields{
		{Name: "name", Type: schema.String},
	}})
	dog := schema.NewObject(schema.ObjectConfig{
		Name:       "Dog",
		Interfaces: []*schema.Interface{pet},
		Fields: schema.Fields{
			{Name: "name", Type: schema.String, Resolve: valueResolver("Rex")},
			{Name: "barks", Type: schema.Boolean, Resolve: valueResolver(true)},
		},
	})
	cat := schema.NewObject(schema.ObjectConfig{
		Name:       "Cat",
		Interfaces: []*schema.Interface{pet},
		Fields: schema.Fields{
			{Name: "name", Type: schema.String, Resolve: valueResolver("Tom")},
			{Name: "meows", Type: schema.Boolean, Resolve: valueResolver(true)},
		},
	})
	s := testSchema(t, schema.Config{
		Query: schema.NewObject(schema.ObjectConfig{Name: "Query", Fields: schema.Fields{
			{Name: "pet", Type: pet, Resolve: valueResolver(map[string]any{"__typename": "Dog"})},
		}}),
		Types: []schema.NamedType{dog, cat},
	})
	exec := New(s)
	doc := mustParseQuery(t, `{
		pet {
			name
			... on Dog { barks }
			... on Cat { meows }
		}
	}`)

	res := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	// Only the Dog fragment applies to the runtime type.
	require.Empty(t, res.Errors)
	require.Equal(t, `{"pet":{"name":"Rex","barks":true}}`, jsonData(t, res))
}

func TestFields_Typename(t *testing.T) {
	s := queryOnly(t, schema.Fields{
		{Name: "a", Type: schema.String, Resolve: valueResolver("A")},
	})
	exec := New(s)
	doc := mustParseQuery(t, `{ __typename a }`)

	res := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	require.Empty(t, res.Errors)
	require.Equal(t, `{"__typename":"Query","a":"A"}`, jsonData(t, res))
}

func TestFields_UnknownField_RecordsErrorAndContinues(t *testing.T) {
	s := queryOnly(t, schema.Fields{
		{Name: "a", Type: schema.String, Resolve: valueResolver("A")},
	})
	exec := New(s)
	doc := mustParseQuery(t, `{ a missing }`)

	res := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	require.Equal(t, `{"a":"A"}`, jsonData(t, res))
	require.Len(t, res.Errors, 1)
	require.Equal(t, `cannot query field "missing" on type "Query"`, res.Errors[0].Message)
	require.Equal(t, Path{"missing"}, res.Errors[0].Path)
}

func TestFields_CyclicFragmentSpreads_DoNotLoop(t *testing.T) {
	s := queryOnly(t, schema.Fields{
		{Name: "a", Type: schema.String, Resolve: valueResolver("A")},
	})
	exec := New(s)
	doc := mustParseQuery(t, `
		{ ...f }
		fragment f on Query { a ...f }
	`)

	res := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	require.Equal(t, `{"a":"A"}`, jsonData(t, res))
}

func TestResolveInfo_CarriesFieldPath(t *testing.T) {
	var gotPath []any
	var gotParent string
	inner := schema.NewObject(schema.ObjectConfig{Name: "Inner", Fields: schema.Fields{
		{Name: "leaf", Type: schema.String, Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
			gotPath = info.Path
			gotParent = info.ParentType.TypeName()
			return "v", nil
		}},
	}})
	s := queryOnly(t, schema.Fields{
		{Name: "inner", Type: inner, Resolve: valueResolver(map[string]any{})},
	})
	exec := New(s)
	doc := mustParseQuery(t, "{ inner { leaf } }")

	res := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	require.Empty(t, res.Errors)
	require.Equal(t, []any{"inner", "leaf"}, gotPath)
	require.Equal(t, "Inner", gotParent)
}
