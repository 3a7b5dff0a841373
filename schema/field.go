package schema

import (
	"context"

	language "github.com/verdantgql/verdant/language"
)

// FieldResolver produces the value of one field. It may return a plain value,
// an error, or a deferred value (see the executor package) representing
// pending asynchronous work.
type FieldResolver func(ctx context.Context, source any, args map[string]any, info *ResolveInfo) (any, error)

// TypeResolver picks the concrete object type for a value of an abstract
// type. Returning (nil, nil) means no matching type.
type TypeResolver func(ctx context.Context, value any, info *ResolveInfo) (*Object, error)

// CostEstimator reports the cost of one field invocation given its coerced
// arguments and the accumulated cost of its child selection.
type CostEstimator func(args map[string]any, childCost int) int

// ResolveInfo carries per-field execution metadata into resolvers.
type ResolveInfo struct {
	FieldName      string
	FieldNodes     []*language.Field
	ReturnType     Type
	ParentType     *Object
	Path           []any
	Schema         *Schema
	Document       *language.QueryDocument
	VariableValues map[string]any
	RootValue      any
}

// Fields is an ordered field set.
type Fields []*Field

// Field defines one output field of an object or interface. Built once when
// the owning type is constructed; immutable afterwards.
type Field struct {
	Name              string
	Description       string
	Type              Type
	Args              []*Argument
	Resolve           FieldResolver
	Cost              CostEstimator
	DeprecationReason string
}

// Argument defines one input argument of a field or directive.
type Argument struct {
	Name        string
	Description string
	Type        Type
	// DefaultValue is the internal value used when the argument is absent.
	// nil means no default.
	DefaultValue any
}

// Required reports whether the argument must be provided: its type is
// NonNull and no default exists.
func (a *Argument) Required() bool {
	return IsNonNull(a.Type) && a.DefaultValue == nil
}

// Directive declares an executable directive accepted by documents run
// against the schema.
type Directive struct {
	Name         string
	Description  string
	Locations    []string
	Args         []*Argument
	IsRepeatable bool
}
