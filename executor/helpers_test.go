package executor

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	language "github.com/verdantgql/verdant/language"
	schema "github.com/verdantgql/verdant/schema"
)

func mustParseQuery(t *testing.T, source string) *language.QueryDocument {
	t.Helper()
	doc, err := language.ParseQuery(source)
	require.NoError(t, err)
	return doc
}

// jsonData renders the result's data tree as JSON. OrderedMap marshals its
// keys in declaration order, so comparing the JSON text checks both values
// and field order.
func jsonData(t *testing.T, res *ExecutionResult) string {
	t.Helper()
	b, err := json.Marshal(res.Data)
	require.NoError(t, err)
	return string(b)
}

func testSchema(t *testing.T, cfg schema.Config) *schema.Schema {
	t.Helper()
	s, err := schema.New(cfg)
	require.NoError(t, err)
	return s
}

func queryOnly(t *testing.T, fields schema.Fields) *schema.Schema {
	t.Helper()
	return testSchema(t, schema.Config{
		Query: schema.NewObject(schema.ObjectConfig{Name: "Query", Fields: fields}),
	})
}

func valueResolver(v any) schema.FieldResolver {
	return func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
		return v, nil
	}
}

func errorResolver(err error) schema.FieldResolver {
	return func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
		return nil, err
	}
}
